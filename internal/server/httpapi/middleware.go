package httpapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/lendaro/bankcore/internal/server/auth"
	"github.com/lendaro/bankcore/internal/server/models"
)

type ctxKey string

const currentUserKey ctxKey = "currentUser"

const bearerPrefix = "Bearer "

// requireAuth validates the bearer token and resolves the current user before
// the protected operation runs. Every rejection cause (missing header,
// malformed or expired token, user gone from the store) produces the same
// unauthenticated response; the specific cause is only logged.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		header := r.Header.Get("Authorization")
		if header == "" {
			s.rejectUnauthenticated(w, r, "missing authorization header", nil)
			return
		}

		token, ok := strings.CutPrefix(header, bearerPrefix)
		if !ok || token == "" {
			s.rejectUnauthenticated(w, r, "malformed authorization header", nil)
			return
		}

		userID, err := auth.GetUserIDFromToken(token, s.jwtSecret)
		if err != nil {
			s.rejectUnauthenticated(w, r, "token validation failed", err)
			return
		}

		// One store read per protected request; the projected user never
		// carries the password hash.
		user, err := s.users.CurrentUser(r.Context(), userID)
		if err != nil {
			s.rejectUnauthenticated(w, r, "token user not found", err)
			return
		}

		ctx := context.WithValue(r.Context(), currentUserKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) rejectUnauthenticated(w http.ResponseWriter, r *http.Request, cause string, err error) {
	args := []any{"path", r.URL.Path, "cause", cause}
	if err != nil {
		args = append(args, "error", err.Error())
	}
	s.logger.Debug(r.Context(), "request rejected as unauthenticated", args...)
	writeError(w, http.StatusUnauthorized, "unauthenticated")
}

// currentUser returns the user attached by requireAuth, or nil on an
// unprotected route.
func currentUser(ctx context.Context) *models.ProjectedUser {
	user, _ := ctx.Value(currentUserKey).(*models.ProjectedUser)
	return user
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Info(r.Context(), "request handled",
			"method", r.Method, "path", r.URL.Path, "duration", time.Since(start).String())
	})
}
