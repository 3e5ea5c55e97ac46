package models

import "time"

// News is a platform announcement shown on dashboards.
type News struct {
	ID          string     `db:"id" json:"id"`
	Title       string     `db:"title" json:"title"`
	Body        string     `db:"body" json:"body"`
	ImageURL    *string    `db:"image_url" json:"image_url,omitempty"`
	Published   bool       `db:"published" json:"published"`
	PublishedAt *time.Time `db:"published_at" json:"published_at,omitempty"`
	AuthorID    string     `db:"author_id" json:"author_id"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

// NewsFilter lists news entries.
type NewsFilter struct {
	Search        string
	PublishedOnly bool
	Page          int
	PageSize      int
}
