package users

import (
	"context"

	"github.com/lendaro/bankcore/internal/server/models"
	"github.com/shopspring/decimal"
)

// Financials is the authoritative per-user snapshot a loan decision is made
// from. Reading it through GetFinancialsForUpdate locks the user row until
// the surrounding transaction ends.
type Financials struct {
	MonthlyIncome decimal.NullDecimal
	Balance       decimal.Decimal
}

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.ProjectedUser, error)
	GetPasswordHash(ctx context.Context, id string) (string, error)
	UpdatePasswordHash(ctx context.Context, id string, hash string) error
	UpdateDocumentKey(ctx context.Context, id string, key string) error
	GetFinancialsForUpdate(ctx context.Context, id string) (*Financials, error)
	CreditBalance(ctx context.Context, id string, amount decimal.Decimal) (decimal.Decimal, error)
}
