// Copyright (c) 2026 Minbar. All rights reserved.

package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/minbarhq/minbar/internal/platform/apperr"
	"github.com/minbarhq/minbar/internal/platform/ctxutil"
	"github.com/minbarhq/minbar/internal/platform/sec"
	"github.com/minbarhq/minbar/internal/platform/session"
)

// SessionLoader resolves the session attached to a request.
type SessionLoader interface {
	Load(request *http.Request) (session.Identity, error)
}

// TokenVerifier parses and verifies a bearer token.
type TokenVerifier interface {
	VerifyToken(tokenString string) (*sec.AuthClaims, error)
}

// UserFinder reads accounts by ID.
type UserFinder interface {
	FindByID(context context.Context, id string) (*User, error)
}

// Authenticator turns session cookies and bearer tokens into [sec.AuthClaims].
//
// It satisfies middleware.SessionResolver and middleware.TokenVerifier.
type Authenticator struct {
	users    UserFinder
	sessions SessionLoader
	tokens   TokenVerifier
}

// NewAuthenticator wires the identity sources. tokens may be nil.
func NewAuthenticator(users UserFinder, sessions SessionLoader, tokens TokenVerifier) *Authenticator {
	return &Authenticator{users: users, sessions: sessions, tokens: tokens}
}

/*
ResolveSession resolves the session cookie of request.

Description: A missing, forged or expired cookie, or a session whose account no
longer exists, yields anonymous (nil, nil). The role is the one captured at login.

Returns:
  - *sec.AuthClaims: Caller identity, or nil for anonymous
  - error: ServiceUnavailable when the session store cannot be reached
*/
func (authenticator *Authenticator) ResolveSession(request *http.Request) (*sec.AuthClaims, error) {
	identity, err := authenticator.sessions.Load(request)
	if errors.Is(err, session.ErrNoSession) {
		return nil, nil
	}
	if err != nil {
		ctxutil.GetLogger(request.Context()).ErrorContext(request.Context(), "session_load_failed", slog.Any("error", err))
		return nil, apperr.ServiceUnavailable("Session store unavailable")
	}

	user, err := authenticator.users.FindByID(request.Context(), identity.UserID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	return &sec.AuthClaims{
		UserID:    user.ID,
		Username:  user.Username,
		Role:      identity.Role,
		SessionID: identity.SessionID,
	}, nil
}

/*
VerifyBearer verifies a bearer access token and checks that its account still exists.

Returns:
  - *sec.AuthClaims: Token claims
  - error: Unauthorized for invalid tokens or deleted accounts
*/
func (authenticator *Authenticator) VerifyBearer(request *http.Request, token string) (*sec.AuthClaims, error) {
	if authenticator.tokens == nil {
		return nil, apperr.Unauthorized("Bearer tokens are not accepted")
	}

	claims, err := authenticator.tokens.VerifyToken(token)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid or expired token")
	}

	if _, err := authenticator.users.FindByID(request.Context(), claims.UserID); err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.Unauthorized("Account no longer exists")
		}
		return nil, err
	}

	return claims, nil
}
