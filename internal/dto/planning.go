package dto

import (
	"time"

	"github.com/ucao-academy/web-academy-api/internal/models"
)

// CreateScheduleEntryRequest adds one weekly time slot.
type CreateScheduleEntryRequest struct {
	FiliereID string        `json:"filiere_id" validate:"required"`
	Niveau    models.Niveau `json:"niveau" validate:"required,oneof=L1 L2 L3"`
	DayOfWeek int           `json:"day_of_week" validate:"min=1,max=7"`
	StartTime string        `json:"start_time" validate:"required"`
	EndTime   string        `json:"end_time" validate:"required"`
	CourseID  string        `json:"course_id" validate:"required"`
	Room      string        `json:"room"`
}

// UpdateScheduleEntryRequest edits a time slot. Nil fields are left unchanged.
type UpdateScheduleEntryRequest struct {
	FiliereID *string        `json:"filiere_id"`
	Niveau    *models.Niveau `json:"niveau" validate:"omitempty,oneof=L1 L2 L3"`
	DayOfWeek *int           `json:"day_of_week" validate:"omitempty,min=1,max=7"`
	StartTime *string        `json:"start_time"`
	EndTime   *string        `json:"end_time"`
	CourseID  *string        `json:"course_id"`
	Room      *string        `json:"room"`
}

// CreateExamRequest schedules an examination.
type CreateExamRequest struct {
	CourseID        string        `json:"course_id" validate:"required"`
	FiliereID       string        `json:"filiere_id" validate:"required"`
	Niveau          models.Niveau `json:"niveau" validate:"required,oneof=L1 L2 L3"`
	Date            time.Time     `json:"date" validate:"required"`
	DurationMinutes int           `json:"duration_minutes" validate:"required,min=1"`
	Room            string        `json:"room"`
	Semester        string        `json:"semester" validate:"required"`
}

// UpdateExamRequest edits an exam. Nil fields are left unchanged.
type UpdateExamRequest struct {
	CourseID        *string        `json:"course_id"`
	FiliereID       *string        `json:"filiere_id"`
	Niveau          *models.Niveau `json:"niveau" validate:"omitempty,oneof=L1 L2 L3"`
	Date            *time.Time     `json:"date"`
	DurationMinutes *int           `json:"duration_minutes" validate:"omitempty,min=1"`
	Room            *string        `json:"room"`
	Semester        *string        `json:"semester"`
}

// CreateSubscriptionRequest enrolls the calling student into a filière.
type CreateSubscriptionRequest struct {
	FiliereID    string        `json:"filiere_id" validate:"required"`
	Niveau       models.Niveau `json:"niveau" validate:"required,oneof=L1 L2 L3"`
	AcademicYear string        `json:"academic_year" validate:"required"`
}

// UpdateSubscriptionStatusRequest moves an enrollment through its lifecycle.
type UpdateSubscriptionStatusRequest struct {
	Status models.SubscriptionStatus `json:"status" validate:"required,oneof=pending active cancelled"`
}
