package cards

import (
	"context"

	"github.com/lendaro/bankcore/internal/server/models"
)

type Repository interface {
	ListByUser(ctx context.Context, userID string) ([]models.Card, error)
}
