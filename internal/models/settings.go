package models

import "time"

// SettingType constrains how a setting value is parsed.
type SettingType string

const (
	SettingTypeString  SettingType = "STRING"
	SettingTypeInteger SettingType = "INTEGER"
)

// Well-known platform setting keys.
const (
	SettingCurrentSemester   = "current_semester"
	SettingAcademicYear      = "academic_year"
	SettingMaxUploadSize     = "max_upload_size"
	SettingSchoolDisplayName = "school_display_name"
)

// Setting is one row of the platform settings record. Together the allowed
// keys form the single mutable configuration editable by super-admins.
type Setting struct {
	Key         string      `db:"key" json:"key"`
	Value       string      `db:"value" json:"value"`
	Type        SettingType `db:"type" json:"type"`
	Description *string     `db:"description" json:"description,omitempty"`
	UpdatedBy   *string     `db:"updated_by" json:"updated_by,omitempty"`
	UpdatedAt   time.Time   `db:"updated_at" json:"updated_at"`
}
