package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// LoginRequest holds credentials for authenticating a user.
type LoginRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
	IP        string `json:"-"`
	UserAgent string `json:"-"`
}

// RegisterRequest is the student self-signup payload.
type RegisterRequest struct {
	Email     string     `json:"email" validate:"required,email"`
	Password  string     `json:"password" validate:"required,min=6"`
	FirstName string     `json:"first_name" validate:"required"`
	LastName  string     `json:"last_name" validate:"required"`
	Phone     string     `json:"phone" validate:"required"`
	Address   *string    `json:"address"`
	Institute *Institute `json:"institute"`
	IP        string     `json:"-"`
	UserAgent string     `json:"-"`
}

// LoginResponse returns the issued tokens and user info.
type LoginResponse struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresIn    int64     `json:"expires_in"`
	User         UserInfo  `json:"user"`
	IssuedAt     time.Time `json:"issued_at"`
}

// RefreshTokenRequest exchanges a refresh token for a new access token.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
	IP           string `json:"-"`
	UserAgent    string `json:"-"`
}

// RefreshTokenResponse returns the refreshed tokens.
type RefreshTokenResponse struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresIn    int64     `json:"expires_in"`
	IssuedAt     time.Time `json:"issued_at"`
}

// ChangePasswordRequest payload for updating password.
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

// ForgotPasswordRequest initiates the reset flow.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest completes the reset flow.
type ResetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

// UserInfo describes the authenticated user in responses. The front-end uses
// role and institute to pick the landing page after login.
type UserInfo struct {
	ID            string     `json:"id"`
	Email         string     `json:"email"`
	FirstName     string     `json:"first_name"`
	LastName      string     `json:"last_name"`
	Role          UserRole   `json:"role"`
	Institute     *Institute `json:"institute,omitempty"`
	StudentNumber *string    `json:"student_number,omitempty"`
	Verified      bool       `json:"verified"`
	SuperAdmin    bool       `json:"super_admin"`
}

// JWTClaims represents the JWT payload for access tokens.
type JWTClaims struct {
	UserID    string     `json:"user_id"`
	Role      UserRole   `json:"role"`
	Institute *Institute `json:"institute,omitempty"`
	Email     string     `json:"email"`
	jwt.RegisteredClaims
}

// IsSuperAdmin mirrors User.IsSuperAdmin for token claims.
func (c *JWTClaims) IsSuperAdmin() bool {
	return c != nil && c.Role == RoleAdmin && (c.Institute == nil || *c.Institute == "")
}

// NewUserInfo projects a user row into its response form.
func NewUserInfo(u *User) UserInfo {
	return UserInfo{
		ID:            u.ID,
		Email:         u.Email,
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		Role:          u.Role,
		Institute:     u.Institute,
		StudentNumber: u.StudentNumber,
		Verified:      u.Verified,
		SuperAdmin:    u.IsSuperAdmin(),
	}
}
