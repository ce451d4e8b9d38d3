// Package server initializes and runs the application server: it opens the
// database, runs migrations, wires the services, and starts the HTTP server
// with graceful shutdown.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/lendaro/bankcore/internal/logging"
	"github.com/lendaro/bankcore/internal/server/config"
	"github.com/lendaro/bankcore/internal/server/httpapi"
	"github.com/lendaro/bankcore/internal/server/repositories/repomanager"
	"github.com/lendaro/bankcore/internal/server/services"
)

type App struct {
	config *config.Config
	logger logging.Logger
	repos  repomanager.RepositoryManager
	server *httpapi.Server
}

func NewApp(c *config.Config) (*App, error) {

	sl := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(sl)

	rm, err := repomanager.NewPostgresRepositoryManager(c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	db := rm.Conn()

	us := services.NewUserService(db, rm, c)
	ls := services.NewLoanService(db, rm)
	as := services.NewAccountService(db, rm)
	es := services.NewEmployeeService(db, rm)
	ds := services.NewDocumentService(db, rm, c)

	srv := httpapi.NewServer(c.EndpointAddr, logger, us, ls, as, es, ds, db, c.SecretKey)

	return &App{config: c, logger: logger, repos: rm, server: srv}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.server.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.repos.Close(); err != nil {
		app.logger.Error(ctx, "error closing db", "error", err)
	}
}
