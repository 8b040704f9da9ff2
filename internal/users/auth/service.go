// Copyright (c) 2026 Minbar. All rights reserved.

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/minbarhq/minbar/internal/platform/apperr"
	"github.com/minbarhq/minbar/internal/platform/ctxutil"
	"github.com/minbarhq/minbar/internal/platform/sec"
	"github.com/minbarhq/minbar/pkg/uuid"
)

// # Contracts & Types

// TokenProvider signs bearer access tokens.
type TokenProvider interface {
	GenerateAccessToken(userID, username, role string, timeToLive time.Duration) (string, error)
}

// Service implements the authentication use cases.
type Service struct {
	userRepository UserRepository
	tokenProvider  TokenProvider
}

// NewService constructs a [Service]. tokens may be nil when bearer tokens are disabled.
func NewService(users UserRepository, tokens TokenProvider) *Service {
	return &Service{userRepository: users, tokenProvider: tokens}
}

// # Registration Flow

// RegisterInput holds the data required to enroll a new member.
type RegisterInput struct {
	Username    string
	Email       string
	Password    string
	DisplayName string
}

/*
Register hashes the password and persists a new community member.

Every account starts with the community role; promotion is an administrative action.

Parameters:
  - context: context.Context
  - input: RegisterInput (already validated for shape)

Returns:
  - *User: Created entity
  - error: Conflict when the username or email is taken
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*User, error) {
	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("auth: hash password: %w", err))
	}

	displayName := strings.TrimSpace(input.DisplayName)
	if displayName == "" {
		displayName = input.Username
	}

	user := &User{
		ID:           uuid.New(),
		Username:     strings.TrimSpace(input.Username),
		Email:        strings.ToLower(strings.TrimSpace(input.Email)),
		PasswordHash: hashedPassword,
		DisplayName:  displayName,
		Role:         sec.RoleCommunity,
	}

	if err := service.userRepository.Create(context, user); err != nil {
		return nil, err
	}

	ctxutil.GetLogger(context).Info("user_registered", slog.String("user_id", user.ID))
	return user, nil
}

// # Authentication Flow

/*
Login verifies credentials and records the login time.

An unknown login and a wrong password produce the same error to prevent enumeration.

Parameters:
  - context: context.Context
  - login: string (email or username)
  - password: string

Returns:
  - *User: The authenticated account
  - error: Unauthorized or storage failures
*/
func (service *Service) Login(context context.Context, login, password string) (*User, error) {
	user, err := service.userRepository.FindByLogin(context, strings.TrimSpace(login))
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.Unauthorized("Invalid login credentials")
		}
		return nil, err
	}

	if !sec.CheckPasswordHash(password, user.PasswordHash) {
		return nil, apperr.Unauthorized("Invalid login credentials")
	}

	if err := service.userRepository.TouchLastLogin(context, user.ID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user.LastLoginAt = &now

	ctxutil.GetLogger(context).Info("user_logged_in", slog.String("user_id", user.ID))
	return user, nil
}

// AccessToken is a signed bearer token for non-browser clients.
type AccessToken struct {
	Token     string `json:"access_token"`
	TokenType string `json:"token_type"`
	ExpiresIn int    `json:"expires_in"`
}

/*
IssueAccessToken exchanges an authenticated session for a short-lived bearer token.

The token carries the role of the session it was issued from.

Returns:
  - *AccessToken: Signed token
  - error: ServiceUnavailable when no signing key is configured
*/
func (service *Service) IssueAccessToken(claims *sec.AuthClaims) (*AccessToken, error) {
	if service.tokenProvider == nil {
		return nil, apperr.ServiceUnavailable("Bearer tokens are not enabled")
	}

	token, err := service.tokenProvider.GenerateAccessToken(claims.UserID, claims.Username, claims.Role, AccessTokenTTL)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("auth: sign token: %w", err))
	}

	return &AccessToken{
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: int(AccessTokenTTL.Seconds()),
	}, nil
}
