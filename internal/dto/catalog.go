package dto

import "github.com/ucao-academy/web-academy-api/internal/models"

// CreateCategoryRequest adds a course category.
type CreateCategoryRequest struct {
	Name        string  `json:"name" validate:"required"`
	Description *string `json:"description"`
}

// UpdateCategoryRequest edits a category. Nil fields are left unchanged.
type UpdateCategoryRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// CreateFiliereRequest adds an academic track within one institute.
type CreateFiliereRequest struct {
	Name        string           `json:"name" validate:"required"`
	Institute   models.Institute `json:"institute" validate:"required,oneof=DGI ISSJ ISEG"`
	Description *string          `json:"description"`
}

// UpdateFiliereRequest edits a filière. Nil fields are left unchanged.
type UpdateFiliereRequest struct {
	Name        *string           `json:"name"`
	Institute   *models.Institute `json:"institute" validate:"omitempty,oneof=DGI ISSJ ISEG"`
	Description *string           `json:"description"`
}
