// Copyright (c) 2026 Minbar. All rights reserved.

/*
Package ctxutil carries per-request state from the HTTP middleware down to the
community services.

Three values travel with every request: the request ID, a logger already annotated
with that ID (and with the member's user ID once signed in), and the signed-in
member's claims. Services read the logger and the [sec.Principal]; they never see
the HTTP request itself.
*/
package ctxutil

import (
	"context"
	"log/slog"

	"github.com/minbarhq/minbar/internal/platform/ctxkey"
	"github.com/minbarhq/minbar/internal/platform/sec"
)

// # Request Tracing

// WithRequestID attaches the X-Request-ID of the current call.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxkey.KeyRequestID, id)
}

// GetRequestID returns the request ID, or "" outside an HTTP request.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxkey.KeyRequestID).(string)
	return id
}

// # Structured Logging

// WithLogger attaches the request-scoped logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxkey.KeyLogger, logger)
}

// GetLogger returns the request logger, falling back to [slog.Default] in background work and tests.
func GetLogger(ctx context.Context) *slog.Logger {
	logger, ok := ctx.Value(ctxkey.KeyLogger).(*slog.Logger)
	if !ok || logger == nil {
		return slog.Default()
	}
	return logger
}

// # Signed-in Member

/*
WithAuthUser records the signed-in member for the rest of the request.

The request logger, when present, is re-scoped with user_id so every log line a
service writes on the member's behalf can be traced back to them.
*/
func WithAuthUser(ctx context.Context, user *sec.AuthClaims) context.Context {
	ctx = context.WithValue(ctx, ctxkey.KeyUser, user)
	if user == nil {
		return ctx
	}
	if logger, ok := ctx.Value(ctxkey.KeyLogger).(*slog.Logger); ok && logger != nil {
		ctx = WithLogger(ctx, logger.With(slog.String("user_id", user.UserID)))
	}
	return ctx
}

// GetAuthUser returns the member's claims, or nil for a visitor.
func GetAuthUser(ctx context.Context) *sec.AuthClaims {
	claims, ok := ctx.Value(ctxkey.KeyUser).(*sec.AuthClaims)
	if !ok {
		return nil
	}
	return claims
}

// GetPrincipal returns the member's role view; ok is false for a visitor.
func GetPrincipal(ctx context.Context) (principal sec.Principal, ok bool) {
	claims := GetAuthUser(ctx)
	if claims == nil {
		return sec.Principal{}, false
	}
	return claims.Principal(), true
}

// GetViewerID returns the member's user ID, or "" for a visitor.
//
// Anonymous dua requests compare against it to decide whether to reveal the requester.
func GetViewerID(ctx context.Context) string {
	if claims := GetAuthUser(ctx); claims != nil {
		return claims.UserID
	}
	return ""
}
