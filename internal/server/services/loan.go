package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lendaro/bankcore/internal/common"
	"github.com/lendaro/bankcore/internal/dbx"
	"github.com/lendaro/bankcore/internal/server/models"
	"github.com/lendaro/bankcore/internal/server/repositories/repomanager"
	"github.com/shopspring/decimal"
)

// EligibilityMultiplier relates declared monthly income to the maximum loan
// amount: ceiling = income * 3. Absent income yields ceiling 0, which blocks
// all borrowing for users without a declared income.
const EligibilityMultiplier = 3

// EligibilityError rejects a loan request above the ceiling and carries the
// ceiling computed at decision time for display.
type EligibilityError struct {
	Ceiling decimal.Decimal
}

func (e *EligibilityError) Error() string {
	return fmt.Sprintf("requested amount exceeds eligibility ceiling %s", e.Ceiling)
}

type LoanService struct {
	db    *sql.DB
	repos repomanager.RepositoryManager
}

func NewLoanService(db *sql.DB, m repomanager.RepositoryManager) *LoanService {
	return &LoanService{db: db, repos: m}
}

// TakeLoan evaluates eligibility against a fresh income/balance snapshot,
// records the loan, and credits the balance, returning the new balance.
//
// The snapshot read, the loan insert, and the balance update run in one
// transaction with a row lock on the user, so two concurrent issuances for
// the same user serialize instead of losing an increment. Cross-user requests
// proceed in parallel.
func (s *LoanService) TakeLoan(ctx context.Context, userID string, amount decimal.Decimal) (decimal.Decimal, error) {

	if amount.LessThanOrEqual(decimal.Zero) {
		return decimal.Decimal{}, common.ErrInvalidAmount
	}

	var newBalance decimal.Decimal

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		usersRepo := s.repos.Users(tx)

		fin, err := usersRepo.GetFinancialsForUpdate(ctx, userID)
		if err != nil {
			return err
		}

		income := decimal.Zero
		if fin.MonthlyIncome.Valid {
			income = fin.MonthlyIncome.Decimal
		}
		ceiling := income.Mul(decimal.NewFromInt(EligibilityMultiplier))

		if amount.GreaterThan(ceiling) {
			return &EligibilityError{Ceiling: ceiling}
		}

		loan := &models.Loan{
			UserID: userID,
			Amount: amount,
			Status: models.LoanStatusActive,
		}
		if _, err := s.repos.Loans(tx).Create(ctx, loan); err != nil {
			return err
		}

		newBalance, err = usersRepo.CreditBalance(ctx, userID, amount)
		return err
	})

	if err != nil {
		return decimal.Decimal{}, err
	}

	return newBalance, nil
}

// History returns the user's loans newest-first.
func (s *LoanService) History(ctx context.Context, userID string) ([]models.Loan, error) {

	repo := s.repos.Loans(s.db)

	result, err := repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing loans: %w", err)
	}

	return result, nil
}
