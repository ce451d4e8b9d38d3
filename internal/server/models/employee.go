package models

import "time"

// Employee is public directory data.
type Employee struct {
	ID        string    `json:"id"`
	FullName  string    `json:"full_name"`
	Title     string    `json:"title"`
	Email     string    `json:"email"`
	PhotoKey  *string   `json:"photo_key,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
