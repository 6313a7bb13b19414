package model

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AuthRequest types
type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type SignUpRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// TokenResponse is returned by sign-in and sign-up.
type TokenResponse struct {
	AccessToken string `json:"accessToken"`
	ExpiresIn   int64  `json:"expiresIn"`
	User        *User  `json:"user"`
}

// TokenClaims represents JWT claims
type TokenClaims struct {
	jwt.RegisteredClaims
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
}

// Session is the resolved caller of a request. A nil *Session means the
// request is unauthenticated.
type Session struct {
	User   *User   `json:"user"`
	Clinic *Clinic `json:"clinic,omitempty"`
}

// ClinicID returns the caller's clinic, if the user is linked to one.
func (s *Session) ClinicID() (uuid.UUID, bool) {
	if s == nil || s.Clinic == nil {
		return uuid.Nil, false
	}
	return s.Clinic.ID, true
}
