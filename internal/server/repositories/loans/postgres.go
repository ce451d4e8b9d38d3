package loans

import (
	"context"
	"fmt"

	"github.com/lendaro/bankcore/internal/dbx"
	"github.com/lendaro/bankcore/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, loan *models.Loan) (*models.Loan, error) {

	query :=
		`INSERT INTO loans (user_id, amount, status)
         VALUES ($1, $2, $3)
		 RETURNING id, issued_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		loan.UserID, loan.Amount, loan.Status).Scan(&loan.ID, &loan.IssuedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return loan, nil
}

// ListByUser returns the user's loans newest-first.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]models.Loan, error) {
	query :=
		`SELECT id, user_id, amount, status, issued_at, settled_at FROM loans
		 WHERE user_id = $1
		 ORDER BY issued_at DESC
		 `

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.Loan, 0)
	for rows.Next() {
		var loan models.Loan
		if err := rows.Scan(&loan.ID, &loan.UserID, &loan.Amount, &loan.Status,
			&loan.IssuedAt, &loan.SettledAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, loan)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}
