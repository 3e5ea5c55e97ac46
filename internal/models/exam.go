package models

import "time"

// Exam is a scheduled examination for a course.
type Exam struct {
	ID              string    `db:"id" json:"id"`
	CourseID        string    `db:"course_id" json:"course_id"`
	FiliereID       string    `db:"filiere_id" json:"filiere_id"`
	Niveau          Niveau    `db:"niveau" json:"niveau"`
	Date            time.Time `db:"date" json:"date"`
	DurationMinutes int       `db:"duration_minutes" json:"duration_minutes"`
	Room            string    `db:"room" json:"room"`
	Semester        string    `db:"semester" json:"semester"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// ExamFilter lists exams.
type ExamFilter struct {
	FiliereID string
	CourseID  string
	Niveau    *Niveau
	Semester  string
	Page      int
	PageSize  int
}
