package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type LoanStatus string

const (
	LoanStatusActive  LoanStatus = "active"
	LoanStatusSettled LoanStatus = "settled"
)

// Loan records a single issuance event. Loans are immutable once created;
// the settled state is reserved and never written by this subsystem.
type Loan struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	Amount    decimal.Decimal `json:"amount"`
	Status    LoanStatus      `json:"status"`
	IssuedAt  time.Time       `json:"issued_at"`
	SettledAt *time.Time      `json:"settled_at,omitempty"`
}
