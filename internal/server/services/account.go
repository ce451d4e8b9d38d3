package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lendaro/bankcore/internal/server/models"
	"github.com/lendaro/bankcore/internal/server/repositories/repomanager"
)

// AccountService serves the read-only, caller-scoped account projections.
type AccountService struct {
	db    *sql.DB
	repos repomanager.RepositoryManager
}

func NewAccountService(db *sql.DB, m repomanager.RepositoryManager) *AccountService {
	return &AccountService{db: db, repos: m}
}

// Cards lists the authenticated user's cards only, never cross-user.
func (s *AccountService) Cards(ctx context.Context, userID string) ([]models.Card, error) {

	repo := s.repos.Cards(s.db)

	result, err := repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing cards: %w", err)
	}

	return result, nil
}
