package models

import "time"

// Filiere is an academic track within an institute.
type Filiere struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Institute   Institute `db:"institute" json:"institute"`
	Description *string   `db:"description" json:"description,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}
