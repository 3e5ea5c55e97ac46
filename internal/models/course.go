package models

import "time"

// CourseStatus is the course publication lifecycle.
type CourseStatus string

const (
	CourseStatusDraft     CourseStatus = "draft"
	CourseStatusPublished CourseStatus = "published"
	CourseStatusArchived  CourseStatus = "archived"
)

// Niveau is the academic year level (Licence 1-3).
type Niveau string

const (
	NiveauLicence1 Niveau = "L1"
	NiveauLicence2 Niveau = "L2"
	NiveauLicence3 Niveau = "L3"
)

// ValidNiveau reports whether the value names a known level.
func ValidNiveau(value Niveau) bool {
	switch value {
	case NiveauLicence1, NiveauLicence2, NiveauLicence3:
		return true
	}
	return false
}

// Course represents a course record owned by an instructor.
type Course struct {
	ID           string       `db:"id" json:"id"`
	Title        string       `db:"title" json:"title"`
	Description  string       `db:"description" json:"description"`
	CategoryID   string       `db:"category_id" json:"category_id"`
	FiliereID    *string      `db:"filiere_id" json:"filiere_id,omitempty"`
	Niveau       *Niveau      `db:"niveau" json:"niveau,omitempty"`
	Status       CourseStatus `db:"status" json:"status"`
	VideoURL     *string      `db:"video_url" json:"video_url,omitempty"`
	CoverURL     *string      `db:"cover_url" json:"cover_url,omitempty"`
	InstructorID string       `db:"instructor_id" json:"instructor_id"`
	CreatedAt    time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time    `db:"updated_at" json:"updated_at"`
}

// CourseFilter captures listing criteria for courses.
type CourseFilter struct {
	Search       string
	Status       *CourseStatus
	CategoryID   string
	FiliereID    string
	InstructorID string
	Niveau       *Niveau
	Page         int
	PageSize     int
}
