// Copyright (c) 2026 Minbar. All rights reserved.

/*
Package auth implements identity: sign-up, credential login, cookie sessions and
optional bearer access tokens.

# Architecture

  - Service: Register, Login and token issuance (business rules only).
  - Authenticator: Resolves a request's session cookie or bearer token into claims
    for the middleware chain.
  - Handler: The /auth endpoints; it owns cookie handling via the session manager.
*/
package auth

import (
	"time"

	"github.com/minbarhq/minbar/internal/platform/sec"
)

// # Domain Entities

// User represents a registered member of the Minbar community.
type User struct {
	ID           string       `json:"id"`
	Username     string       `json:"username"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"-"`
	DisplayName  string       `json:"display_name"`
	Bio          string       `json:"bio,omitempty"`
	AvatarURL    string       `json:"avatar_url,omitempty"`
	Role         sec.UserRole `json:"role"`
	LastLoginAt  *time.Time   `json:"last_login_at,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// PublicProfile is the view of a user that anyone may read.
type PublicProfile struct {
	ID          string       `json:"id"`
	Username    string       `json:"username"`
	DisplayName string       `json:"display_name"`
	Bio         string       `json:"bio,omitempty"`
	AvatarURL   string       `json:"avatar_url,omitempty"`
	Role        sec.UserRole `json:"role"`
	CreatedAt   time.Time    `json:"created_at"`
}

// Public strips private fields (email, login history) from user.
func (user *User) Public() *PublicProfile {
	return &PublicProfile{
		ID:          user.ID,
		Username:    user.Username,
		DisplayName: user.DisplayName,
		Bio:         user.Bio,
		AvatarURL:   user.AvatarURL,
		Role:        user.Role,
		CreatedAt:   user.CreatedAt,
	}
}

// # Field Identifiers

// Field names used in validation details.
const (
	FieldUsername    = "username"
	FieldEmail       = "email"
	FieldPassword    = "password"
	FieldDisplayName = "display_name"
	FieldLogin       = "login"
)
