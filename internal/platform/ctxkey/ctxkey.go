// Copyright (c) 2026 Minbar. All rights reserved.

// Package ctxkey defines typed context keys used by middleware and handlers.
//
// The unexported key type prevents collisions with values stored by third-party packages.
package ctxkey

type key string

const (
	// KeyRequestID is the context key for the X-Request-ID correlation value.
	KeyRequestID key = "request_id"

	// KeyUser is the context key for the authenticated principal ([sec.AuthClaims]).
	KeyUser key = "user"

	// KeyLogger is the context key for the per-request [*log/slog.Logger].
	KeyLogger key = "logger"
)
