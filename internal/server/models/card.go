package models

import "time"

// Card is read-only reference data, listed for the owning user only.
type Card struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	MaskedNumber string    `json:"masked_number"`
	Network      string    `json:"network"`
	ExpiryMonth  int       `json:"expiry_month"`
	ExpiryYear   int       `json:"expiry_year"`
	CreatedAt    time.Time `json:"created_at"`
}
