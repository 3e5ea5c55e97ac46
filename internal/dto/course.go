package dto

import "github.com/ucao-academy/web-academy-api/internal/models"

// CreateCourseRequest is the instructor/admin payload for a new course.
type CreateCourseRequest struct {
	Title       string               `json:"title" validate:"required"`
	Description *string              `json:"description"`
	CategoryID  string               `json:"category_id" validate:"required"`
	FiliereID   *string              `json:"filiere_id"`
	Niveau      *models.Niveau       `json:"niveau" validate:"omitempty,oneof=L1 L2 L3"`
	Status      *models.CourseStatus `json:"status" validate:"omitempty,oneof=draft published archived"`
	VideoURL    *string              `json:"video_url" validate:"omitempty,url"`
	CoverURL    *string              `json:"cover_url" validate:"omitempty,url"`
}

// UpdateCourseRequest edits a course. Nil fields are left unchanged.
type UpdateCourseRequest struct {
	Title       *string        `json:"title"`
	Description *string        `json:"description"`
	CategoryID  *string        `json:"category_id"`
	FiliereID   *string        `json:"filiere_id"`
	Niveau      *models.Niveau `json:"niveau" validate:"omitempty,oneof=L1 L2 L3"`
	VideoURL    *string        `json:"video_url" validate:"omitempty,url"`
	CoverURL    *string        `json:"cover_url" validate:"omitempty,url"`
}

// UpdateCourseStatusRequest transitions a course between lifecycle states.
type UpdateCourseStatusRequest struct {
	Status models.CourseStatus `json:"status" validate:"required,oneof=draft published archived"`
}
