package dto

import "github.com/ucao-academy/web-academy-api/internal/models"

// CreateUserRequest is the admin payload for provisioning a user.
type CreateUserRequest struct {
	Email         string            `json:"email" validate:"required,email"`
	Password      string            `json:"password" validate:"required,min=6"`
	FirstName     string            `json:"first_name" validate:"required"`
	LastName      string            `json:"last_name" validate:"required"`
	Phone         string            `json:"phone" validate:"required"`
	Address       *string           `json:"address"`
	StudentNumber *string           `json:"student_number"`
	Role          models.UserRole   `json:"role" validate:"required,oneof=student instructor admin"`
	Institute     *models.Institute `json:"institute"`
}

// UpdateUserRequest is the admin payload for editing a user. Nil fields are
// left unchanged.
type UpdateUserRequest struct {
	FirstName     *string           `json:"first_name"`
	LastName      *string           `json:"last_name"`
	Phone         *string           `json:"phone"`
	Address       *string           `json:"address"`
	StudentNumber *string           `json:"student_number"`
	Role          *models.UserRole  `json:"role" validate:"omitempty,oneof=student instructor admin"`
	Institute     *models.Institute `json:"institute"`
	Verified      *bool             `json:"verified"`
	Active        *bool             `json:"active"`
}
