package dto

import "github.com/ucao-academy/web-academy-api/internal/models"

// CreateGuideRequest publishes a help article. Content is optional so a
// title-only guide can go live immediately.
type CreateGuideRequest struct {
	Title    string                    `json:"title" validate:"required"`
	Content  *string                   `json:"content"`
	Status   *models.PublicationStatus `json:"status" validate:"omitempty,oneof=published draft"`
	Position *int                      `json:"position"`
}

// UpdateGuideRequest edits a guide. Nil fields are left unchanged.
type UpdateGuideRequest struct {
	Title    *string                   `json:"title"`
	Content  *string                   `json:"content"`
	Status   *models.PublicationStatus `json:"status" validate:"omitempty,oneof=published draft"`
	Position *int                      `json:"position"`
}

// CreateToolRequest links an external resource from the dashboard.
type CreateToolRequest struct {
	Title       string                    `json:"title" validate:"required"`
	URL         string                    `json:"url" validate:"required,url"`
	Description *string                   `json:"description"`
	Status      *models.PublicationStatus `json:"status" validate:"omitempty,oneof=published draft"`
	Position    *int                      `json:"position"`
}

// UpdateToolRequest edits a tool. Nil fields are left unchanged.
type UpdateToolRequest struct {
	Title       *string                   `json:"title"`
	URL         *string                   `json:"url" validate:"omitempty,url"`
	Description *string                   `json:"description"`
	Status      *models.PublicationStatus `json:"status" validate:"omitempty,oneof=published draft"`
	Position    *int                      `json:"position"`
}

// CreateNewsRequest adds an announcement.
type CreateNewsRequest struct {
	Title     string  `json:"title" validate:"required"`
	Body      string  `json:"body" validate:"required"`
	ImageURL  *string `json:"image_url" validate:"omitempty,url"`
	Published *bool   `json:"published"`
}

// UpdateNewsRequest edits an announcement. Nil fields are left unchanged.
type UpdateNewsRequest struct {
	Title     *string `json:"title"`
	Body      *string `json:"body"`
	ImageURL  *string `json:"image_url" validate:"omitempty,url"`
	Published *bool   `json:"published"`
}
