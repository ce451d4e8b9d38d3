package loans

import (
	"context"

	"github.com/lendaro/bankcore/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, loan *models.Loan) (*models.Loan, error)
	ListByUser(ctx context.Context, userID string) ([]models.Loan, error)
}
