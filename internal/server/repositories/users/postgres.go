package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lendaro/bankcore/internal/common"
	"github.com/lendaro/bankcore/internal/dbx"
	"github.com/lendaro/bankcore/internal/server/models"
	"github.com/shopspring/decimal"
)

// uniqueViolation is the Postgres error code raised when the unique index on
// users.email rejects an insert.
const uniqueViolation = "23505"

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {

	query :=
		`INSERT INTO users (name, email, password_hash, monthly_income, date_of_birth, address)
         VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, balance, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		user.Name, user.Email, user.PasswordHash, user.MonthlyIncome,
		user.DateOfBirth, user.Address).Scan(&user.ID, &user.Balance, &user.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, common.ErrorEmailExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query :=
		`SELECT id, name, email, password_hash, monthly_income, date_of_birth, address, document_key, balance, created_at
		 FROM users
		 WHERE email = $1
		 `

	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.MonthlyIncome,
		&user.DateOfBirth, &user.Address, &user.DocumentKey, &user.Balance, &user.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

// GetByID returns the projected view only. The password hash stays inside
// the store; callers that need it use GetPasswordHash explicitly.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.ProjectedUser, error) {
	query :=
		`SELECT id, name, email, monthly_income, date_of_birth, address, document_key, balance, created_at
		 FROM users
		 WHERE id = $1
		 `

	user := &models.ProjectedUser{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&user.ID, &user.Name, &user.Email, &user.MonthlyIncome,
		&user.DateOfBirth, &user.Address, &user.DocumentKey, &user.Balance, &user.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) GetPasswordHash(ctx context.Context, id string) (string, error) {
	query :=
		`SELECT password_hash FROM users
		 WHERE id = $1
		 `

	var hash string
	err := r.db.QueryRowContext(ctx, query, id).Scan(&hash)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", common.ErrorNotFound
		}
		return "", fmt.Errorf("db error: %w", err)
	}

	return hash, nil
}

func (r *PostgresRepository) UpdatePasswordHash(ctx context.Context, id string, hash string) error {
	query :=
		`UPDATE users SET password_hash = $2
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, id, hash)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrorNotFound
	}

	return nil
}

func (r *PostgresRepository) UpdateDocumentKey(ctx context.Context, id string, key string) error {
	query :=
		`UPDATE users SET document_key = $2
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, id, key)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrorNotFound
	}

	return nil
}

// GetFinancialsForUpdate takes a row lock on the user so that concurrent loan
// issuances for the same user serialize on the balance read-modify-write.
func (r *PostgresRepository) GetFinancialsForUpdate(ctx context.Context, id string) (*Financials, error) {
	query :=
		`SELECT monthly_income, balance FROM users
		 WHERE id = $1
		 FOR UPDATE
		 `

	f := &Financials{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&f.MonthlyIncome, &f.Balance)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return f, nil
}

func (r *PostgresRepository) CreditBalance(ctx context.Context, id string, amount decimal.Decimal) (decimal.Decimal, error) {
	query :=
		`UPDATE users SET balance = balance + $2
		 WHERE id = $1
		 RETURNING balance
		 `

	var balance decimal.Decimal
	err := r.db.QueryRowContext(ctx, query, id, amount).Scan(&balance)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return decimal.Decimal{}, common.ErrorNotFound
		}
		return decimal.Decimal{}, fmt.Errorf("db error: %w", err)
	}

	return balance, nil
}
