package models

import "time"

// ScheduleEntry is one weekly time slot for a filière/niveau pair.
type ScheduleEntry struct {
	ID        string    `db:"id" json:"id"`
	FiliereID string    `db:"filiere_id" json:"filiere_id"`
	Niveau    Niveau    `db:"niveau" json:"niveau"`
	DayOfWeek int       `db:"day_of_week" json:"day_of_week"`
	StartTime string    `db:"start_time" json:"start_time"`
	EndTime   string    `db:"end_time" json:"end_time"`
	CourseID  string    `db:"course_id" json:"course_id"`
	Room      string    `db:"room" json:"room"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// ScheduleFilter lists schedule entries for one track and level.
type ScheduleFilter struct {
	FiliereID string
	Niveau    *Niveau
	Page      int
	PageSize  int
}
