package models

import "time"

// PublicationStatus marks whether student-facing content is visible.
type PublicationStatus string

const (
	PublicationStatusPublished PublicationStatus = "published"
	PublicationStatusDraft     PublicationStatus = "draft"
)

// Guide is a publishable help article shown to students. Content is optional:
// a title-only guide is still publishable.
type Guide struct {
	ID        string            `db:"id" json:"id"`
	Title     string            `db:"title" json:"title"`
	Content   *string           `db:"content" json:"content,omitempty"`
	Status    PublicationStatus `db:"status" json:"status"`
	Position  int               `db:"position" json:"position"`
	CreatedBy string            `db:"created_by" json:"created_by"`
	CreatedAt time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt time.Time         `db:"updated_at" json:"updated_at"`
}

// Tool (outil) is an external resource linked from the student dashboard.
type Tool struct {
	ID          string            `db:"id" json:"id"`
	Title       string            `db:"title" json:"title"`
	URL         string            `db:"url" json:"url"`
	Description *string           `db:"description" json:"description,omitempty"`
	Status      PublicationStatus `db:"status" json:"status"`
	Position    int               `db:"position" json:"position"`
	CreatedBy   string            `db:"created_by" json:"created_by"`
	CreatedAt   time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time         `db:"updated_at" json:"updated_at"`
}

// ContentFilter lists guides or tools.
type ContentFilter struct {
	Search        string
	PublishedOnly bool
	Page          int
	PageSize      int
}
