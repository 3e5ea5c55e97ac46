package models

import "time"

// UserRole represents the platform roles.
type UserRole string

const (
	RoleStudent    UserRole = "student"
	RoleInstructor UserRole = "instructor"
	RoleAdmin      UserRole = "admin"
)

// Institute identifies the school an admin or student belongs to.
type Institute string

const (
	InstituteDGI  Institute = "DGI"
	InstituteISSJ Institute = "ISSJ"
	InstituteISEG Institute = "ISEG"
)

// ValidInstitute reports whether the value names a known institute.
func ValidInstitute(value Institute) bool {
	switch value {
	case InstituteDGI, InstituteISSJ, InstituteISEG:
		return true
	}
	return false
}

// User represents an application user stored in the users table.
type User struct {
	ID            string     `db:"id" json:"id"`
	Email         string     `db:"email" json:"email"`
	PasswordHash  string     `db:"password_hash" json:"-"`
	FirstName     string     `db:"first_name" json:"first_name"`
	LastName      string     `db:"last_name" json:"last_name"`
	Phone         string     `db:"phone" json:"phone"`
	Address       *string    `db:"address" json:"address,omitempty"`
	StudentNumber *string    `db:"student_number" json:"student_number,omitempty"`
	Role          UserRole   `db:"role" json:"role"`
	Institute     *Institute `db:"institute" json:"institute,omitempty"`
	Verified      bool       `db:"verified" json:"verified"`
	Active        bool       `db:"active" json:"active"`
	LastLogin     *time.Time `db:"last_login" json:"last_login,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updated_at"`
}

// IsSuperAdmin applies the platform's single role-derivation rule: an admin
// with no institute affiliation has platform-wide privileges.
func (u *User) IsSuperAdmin() bool {
	return u != nil && u.Role == RoleAdmin && (u.Institute == nil || *u.Institute == "")
}

// UserFilter captures filtering criteria for listing users.
type UserFilter struct {
	Role      *UserRole
	Institute *Institute
	Active    *bool
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
