package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// User is the full credential record as stored, including the password hash.
// It never crosses the HTTP boundary; handlers work with ProjectedUser.
type User struct {
	ID            string
	Name          string
	Email         string
	PasswordHash  string
	MonthlyIncome decimal.NullDecimal
	DateOfBirth   *time.Time
	Address       *string
	DocumentKey   *string
	Balance       decimal.Decimal
	CreatedAt     time.Time
}

// ProjectedUser is the client-safe view of a user, with the password hash
// stripped.
type ProjectedUser struct {
	ID            string              `json:"id"`
	Name          string              `json:"name"`
	Email         string              `json:"email"`
	MonthlyIncome decimal.NullDecimal `json:"monthly_income"`
	DateOfBirth   *time.Time          `json:"date_of_birth,omitempty"`
	Address       *string             `json:"address,omitempty"`
	DocumentKey   *string             `json:"document_key,omitempty"`
	Balance       decimal.Decimal     `json:"balance"`
	CreatedAt     time.Time           `json:"created_at"`
}

// Project returns the client-safe view of u.
func (u *User) Project() *ProjectedUser {
	return &ProjectedUser{
		ID:            u.ID,
		Name:          u.Name,
		Email:         u.Email,
		MonthlyIncome: u.MonthlyIncome,
		DateOfBirth:   u.DateOfBirth,
		Address:       u.Address,
		DocumentKey:   u.DocumentKey,
		Balance:       u.Balance,
		CreatedAt:     u.CreatedAt,
	}
}
