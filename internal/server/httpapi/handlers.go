package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/lendaro/bankcore/internal/common"
	"github.com/lendaro/bankcore/internal/server/services"
	"github.com/shopspring/decimal"
)

// maxDocumentSize bounds identity-document uploads (bytes).
const maxDocumentSize = 10 << 20

type registerRequest struct {
	Name          string           `json:"name"`
	Email         string           `json:"email"`
	Password      string           `json:"password"`
	MonthlyIncome *decimal.Decimal `json:"monthly_income"`
	DateOfBirth   string           `json:"date_of_birth"`
	Address       *string          `json:"address"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type takeLoanRequest struct {
	Amount *decimal.Decimal `json:"amount"`
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	params := services.RegisterParams{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Address:  req.Address,
	}
	if req.MonthlyIncome != nil {
		params.MonthlyIncome = decimal.NewNullDecimal(*req.MonthlyIncome)
	}
	if req.DateOfBirth != "" {
		dob, err := time.Parse("2006-01-02", req.DateOfBirth)
		if err != nil {
			writeError(w, http.StatusBadRequest, "validation failed", "date_of_birth must be YYYY-MM-DD")
			return
		}
		params.DateOfBirth = &dob
	}

	user, err := s.users.Register(r.Context(), params)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorValidation):
			writeError(w, http.StatusBadRequest, "validation failed", err.Error())
		case errors.Is(err, common.ErrorEmailExists):
			writeError(w, http.StatusConflict, "email already registered")
		default:
			s.logger.Error(r.Context(), "registration failed", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	s.logger.Info(r.Context(), "user registered", "user_id", user.ID)
	writeSuccess(w, http.StatusCreated, "registered", user)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	token, user, err := s.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		s.logger.Error(r.Context(), "login failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeSuccess(w, http.StatusOK, "authenticated", map[string]any{
		"token": token,
		"user":  user,
	})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, http.StatusOK, "ok", currentUser(r.Context()))
}

func (s *Server) handleTakeLoan(w http.ResponseWriter, r *http.Request) {

	var req takeLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if req.Amount == nil {
		writeError(w, http.StatusBadRequest, "validation failed", "amount is required")
		return
	}

	user := currentUser(r.Context())

	balance, err := s.loans.TakeLoan(r.Context(), user.ID, *req.Amount)
	if err != nil {
		var eligibility *services.EligibilityError
		switch {
		case errors.Is(err, common.ErrInvalidAmount):
			writeError(w, http.StatusBadRequest, "validation failed", "amount must be greater than zero")
		case errors.As(err, &eligibility):
			writeJSON(w, http.StatusUnprocessableEntity, response{
				Success: false,
				Message: fmt.Sprintf("requested amount exceeds your eligibility ceiling of %s", eligibility.Ceiling),
				Data:    map[string]any{"ceiling": eligibility.Ceiling},
			})
		default:
			s.logger.Error(r.Context(), "loan issuance failed", "user_id", user.ID, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	s.logger.Info(r.Context(), "loan issued", "user_id", user.ID, "amount", req.Amount.String())
	writeSuccess(w, http.StatusOK, "loan issued", map[string]any{"balance": balance})
}

func (s *Server) handleListLoans(w http.ResponseWriter, r *http.Request) {

	user := currentUser(r.Context())

	result, err := s.loans.History(r.Context(), user.ID)
	if err != nil {
		s.logger.Error(r.Context(), "loan listing failed", "user_id", user.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeSuccess(w, http.StatusOK, "ok", result)
}

func (s *Server) handleListCards(w http.ResponseWriter, r *http.Request) {

	user := currentUser(r.Context())

	result, err := s.accounts.Cards(r.Context(), user.ID)
	if err != nil {
		s.logger.Error(r.Context(), "card listing failed", "user_id", user.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeSuccess(w, http.StatusOK, "ok", result)
}

func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {

	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	user := currentUser(r.Context())

	err := s.users.ChangePassword(r.Context(), user.ID, req.OldPassword, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorValidation):
			writeError(w, http.StatusBadRequest, "validation failed", err.Error())
		case errors.Is(err, common.ErrorUnauthorized):
			writeError(w, http.StatusUnauthorized, "invalid credentials")
		default:
			s.logger.Error(r.Context(), "password change failed", "user_id", user.ID, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	writeSuccess(w, http.StatusOK, "password changed", nil)
}

func (s *Server) handleUploadDocument(w http.ResponseWriter, r *http.Request) {

	if err := r.ParseMultipartForm(maxDocumentSize); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	file, header, err := r.FormFile("document")
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation failed", "document file is required")
		return
	}
	defer file.Close()

	user := currentUser(r.Context())

	key, err := s.documents.Attach(r.Context(), user.ID, header.Header.Get("Content-Type"), file)
	if err != nil {
		s.logger.Error(r.Context(), "document upload failed", "user_id", user.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	s.logger.Info(r.Context(), "document stored", "user_id", user.ID, "key", key)
	writeSuccess(w, http.StatusOK, "document stored", map[string]any{"key": key})
}

func (s *Server) handleListEmployees(w http.ResponseWriter, r *http.Request) {

	result, err := s.employees.List(r.Context())
	if err != nil {
		s.logger.Error(r.Context(), "employee listing failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeSuccess(w, http.StatusOK, "ok", result)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {

	if s.db != nil {
		if err := s.db.PingContext(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "database unreachable")
			return
		}
	}

	writeSuccess(w, http.StatusOK, "ok", nil)
}
