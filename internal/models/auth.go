package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// RegisterRequest holds payload for student registration.
type RegisterRequest struct {
	Name      string    `json:"name" validate:"required"`
	Phone     string    `json:"phone" validate:"required,min=10"`
	Password  string    `json:"password" validate:"required,min=6"`
	ClassType ClassType `json:"class_type" validate:"required,oneof=ONLINE OFFLINE"`
	IP        string    `json:"-"`
}

// LoginRequest holds credentials for authenticating a student.
type LoginRequest struct {
	Phone    string `json:"phone" validate:"required"`
	Password string `json:"password" validate:"required"`
	IP       string `json:"-"`
}

// LoginResponse returns the issued tokens and student info.
type LoginResponse struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	ExpiresIn    int64       `json:"expires_in"`
	Student      StudentInfo `json:"student"`
	IssuedAt     time.Time   `json:"issued_at"`
}

// RefreshTokenRequest exchanges a refresh token for a new access token.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
	IP           string `json:"-"`
}

// RefreshTokenResponse returns the refreshed tokens.
type RefreshTokenResponse struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresIn    int64     `json:"expires_in"`
	IssuedAt     time.Time `json:"issued_at"`
}

// RefreshToken is a persisted refresh token record.
type RefreshToken struct {
	ID        string     `db:"id" json:"id"`
	StudentID string     `db:"student_id" json:"student_id"`
	Token     string     `db:"token" json:"-"`
	ExpiresAt time.Time  `db:"expires_at" json:"expires_at"`
	Revoked   bool       `db:"revoked" json:"revoked"`
	RevokedAt *time.Time `db:"revoked_at" json:"revoked_at,omitempty"`
	IPAddress string     `db:"ip_address" json:"-"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
}

// StudentInfo describes the authenticated student in responses.
type StudentInfo struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Role      UserRole  `json:"role"`
	ClassType ClassType `json:"class_type"`
}

// JWTClaims represents the JWT payload for access tokens.
type JWTClaims struct {
	StudentID string   `json:"student_id"`
	Role      UserRole `json:"role"`
	Name      string   `json:"name"`
	jwt.RegisteredClaims
}
