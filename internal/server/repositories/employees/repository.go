package employees

import (
	"context"

	"github.com/lendaro/bankcore/internal/server/models"
)

type Repository interface {
	List(ctx context.Context) ([]models.Employee, error)
}
