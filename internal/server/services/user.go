// Package services holds the business operations of bankcore: credential
// management, loan issuance, account queries, and identity-document intake.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lendaro/bankcore/internal/common"
	"github.com/lendaro/bankcore/internal/server/auth"
	"github.com/lendaro/bankcore/internal/server/config"
	"github.com/lendaro/bankcore/internal/server/models"
	"github.com/lendaro/bankcore/internal/server/repositories/repomanager"
	"github.com/shopspring/decimal"
)

// RegisterParams carries the signup fields. Income, date of birth, and
// address are optional.
type RegisterParams struct {
	Name          string
	Email         string
	Password      string
	MonthlyIncome decimal.NullDecimal
	DateOfBirth   *time.Time
	Address       *string
}

type UserService struct {
	db            *sql.DB
	repos         repomanager.RepositoryManager
	jwtSecret     []byte
	tokenValidity time.Duration
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:            db,
		repos:         m,
		jwtSecret:     []byte(cfg.SecretKey),
		tokenValidity: cfg.TokenValidityDuration,
	}
}

func (p *RegisterParams) validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: name is required", common.ErrorValidation)
	}
	if strings.TrimSpace(p.Email) == "" || !strings.Contains(p.Email, "@") {
		return fmt.Errorf("%w: valid email is required", common.ErrorValidation)
	}
	if p.Password == "" {
		return fmt.Errorf("%w: password is required", common.ErrorValidation)
	}
	if p.MonthlyIncome.Valid && p.MonthlyIncome.Decimal.IsNegative() {
		return fmt.Errorf("%w: monthly income must not be negative", common.ErrorValidation)
	}
	return nil
}

// Register hashes the password and creates the credential record. A second
// registration with an existing email yields common.ErrorEmailExists and
// creates no row.
func (s *UserService) Register(ctx context.Context, p RegisterParams) (*models.ProjectedUser, error) {

	if err := p.validate(); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(p.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		Name:          p.Name,
		Email:         p.Email,
		PasswordHash:  hash,
		MonthlyIncome: p.MonthlyIncome,
		DateOfBirth:   p.DateOfBirth,
		Address:       p.Address,
	}

	repo := s.repos.Users(s.db)

	user, err = repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorEmailExists) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return user.Project(), nil
}

// Login verifies the credentials and mints a session token. An unknown email
// and a wrong password both surface as common.ErrorUnauthorized so the caller
// cannot tell which factor failed.
func (s *UserService) Login(ctx context.Context, email, password string) (string, *models.ProjectedUser, error) {

	repo := s.repos.Users(s.db)

	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", nil, common.ErrorUnauthorized
		}
		return "", nil, common.ErrorInternal
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		return "", nil, common.ErrorUnauthorized
	}

	token, err := auth.GenerateToken(user.ID, s.jwtSecret, s.tokenValidity)
	if err != nil {
		return "", nil, common.ErrorInternal
	}

	return token, user.Project(), nil
}

// CurrentUser resolves the projected view for an authenticated user id.
func (s *UserService) CurrentUser(ctx context.Context, userID string) (*models.ProjectedUser, error) {

	repo := s.repos.Users(s.db)

	user, err := repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}

	return user, nil
}

// ChangePassword rehashes and stores the new password after verifying the old
// one. A wrong old password surfaces as common.ErrorUnauthorized and leaves
// the stored hash unchanged.
func (s *UserService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {

	if newPassword == "" {
		return fmt.Errorf("%w: new password is required", common.ErrorValidation)
	}

	repo := s.repos.Users(s.db)

	hash, err := repo.GetPasswordHash(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorUnauthorized
		}
		return common.ErrorInternal
	}

	if !auth.CheckPassword(oldPassword, hash) {
		return common.ErrorUnauthorized
	}

	newHash, err := auth.HashPassword(newPassword)
	if err != nil {
		return common.ErrorInternal
	}

	if err := repo.UpdatePasswordHash(ctx, userID, newHash); err != nil {
		return common.ErrorInternal
	}

	return nil
}
