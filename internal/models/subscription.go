package models

import "time"

// SubscriptionStatus tracks the approval lifecycle of an enrollment request.
type SubscriptionStatus string

const (
	SubscriptionStatusPending   SubscriptionStatus = "pending"
	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"
)

// Subscription enrolls a student into a filière for one academic year.
type Subscription struct {
	ID           string             `db:"id" json:"id"`
	StudentID    string             `db:"student_id" json:"student_id"`
	FiliereID    string             `db:"filiere_id" json:"filiere_id"`
	Niveau       Niveau             `db:"niveau" json:"niveau"`
	AcademicYear string             `db:"academic_year" json:"academic_year"`
	Status       SubscriptionStatus `db:"status" json:"status"`
	CreatedAt    time.Time          `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time          `db:"updated_at" json:"updated_at"`
}

// SubscriptionFilter lists subscriptions.
type SubscriptionFilter struct {
	StudentID string
	FiliereID string
	Status    *SubscriptionStatus
	Page      int
	PageSize  int
}
