// Package httpapi exposes the service over HTTP. Protected routes pass
// through the bearer-token authentication gate before any operation runs.
package httpapi

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/lendaro/bankcore/internal/logging"
	"github.com/lendaro/bankcore/internal/server/models"
	"github.com/lendaro/bankcore/internal/server/services"
	"github.com/shopspring/decimal"
)

// Service contracts consumed by the HTTP layer. Handlers depend on these
// rather than on the concrete service types so they can be tested with stubs.
type UserService interface {
	Register(ctx context.Context, p services.RegisterParams) (*models.ProjectedUser, error)
	Login(ctx context.Context, email, password string) (string, *models.ProjectedUser, error)
	CurrentUser(ctx context.Context, userID string) (*models.ProjectedUser, error)
	ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error
}

type LoanService interface {
	TakeLoan(ctx context.Context, userID string, amount decimal.Decimal) (decimal.Decimal, error)
	History(ctx context.Context, userID string) ([]models.Loan, error)
}

type AccountService interface {
	Cards(ctx context.Context, userID string) ([]models.Card, error)
}

type EmployeeService interface {
	List(ctx context.Context) ([]models.Employee, error)
}

type DocumentService interface {
	Attach(ctx context.Context, userID string, contentType string, body io.Reader) (string, error)
}

type Server struct {
	address   string
	logger    logging.Logger
	users     UserService
	loans     LoanService
	accounts  AccountService
	employees EmployeeService
	documents DocumentService
	db        *sql.DB
	jwtSecret []byte
}

func NewServer(a string, l logging.Logger, us UserService, ls LoanService,
	as AccountService, es EmployeeService, ds DocumentService,
	db *sql.DB, secretKey string) *Server {
	return &Server{
		address:   a,
		logger:    l.With("module", "http_server"),
		users:     us,
		loans:     ls,
		accounts:  as,
		employees: es,
		documents: ds,
		db:        db,
		jwtSecret: []byte(secretKey),
	}
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("POST /api/register", http.HandlerFunc(s.handleRegister))
	mux.Handle("POST /api/login", http.HandlerFunc(s.handleLogin))
	mux.Handle("GET /api/employees", http.HandlerFunc(s.handleListEmployees))
	mux.Handle("GET /api/health", http.HandlerFunc(s.handleHealth))

	mux.Handle("GET /api/me", s.requireAuth(http.HandlerFunc(s.handleMe)))
	mux.Handle("POST /api/loans", s.requireAuth(http.HandlerFunc(s.handleTakeLoan)))
	mux.Handle("GET /api/loans", s.requireAuth(http.HandlerFunc(s.handleListLoans)))
	mux.Handle("GET /api/cards", s.requireAuth(http.HandlerFunc(s.handleListCards)))
	mux.Handle("POST /api/password", s.requireAuth(http.HandlerFunc(s.handleChangePassword)))
	mux.Handle("POST /api/documents", s.requireAuth(http.HandlerFunc(s.handleUploadDocument)))

	return s.logRequests(mux)
}

func (s *Server) Run(ctx context.Context) error {

	srv := &http.Server{
		Addr:    s.address,
		Handler: s.routes(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP server shutdown error", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
