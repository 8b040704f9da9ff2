// Copyright (c) 2026 Minbar. All rights reserved.

package ctxutil_test

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minbarhq/minbar/internal/platform/ctxutil"
	"github.com/minbarhq/minbar/internal/platform/sec"
)

/*
TestContext_RequestID verifies that Request IDs can be injected and retrieved.
*/
func TestContext_RequestID(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, ctxutil.GetRequestID(ctx))

	ctx = ctxutil.WithRequestID(ctx, "req-42")
	assert.Equal(t, "req-42", ctxutil.GetRequestID(ctx))
}

/*
TestContext_Logger verifies the default fallback and a stored logger.
*/
func TestContext_Logger(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	assert.Equal(t, slog.Default(), ctxutil.GetLogger(ctx))

	ctx = ctxutil.WithLogger(ctx, logger)
	assert.Equal(t, logger, ctxutil.GetLogger(ctx))
}

/*
TestContext_AuthUser verifies that claims round-trip through the context.
*/
func TestContext_AuthUser(t *testing.T) {
	ctx := context.Background()
	assert.Nil(t, ctxutil.GetAuthUser(ctx))

	ctx = ctxutil.WithAuthUser(ctx, &sec.AuthClaims{UserID: "u-1", Role: string(sec.RoleImam)})
	claims := ctxutil.GetAuthUser(ctx)

	require.NotNil(t, claims)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, sec.RoleImam, claims.Principal().Role)
}

/*
TestContext_AuthUserScopesLogger adds user_id to an existing request logger.
*/
func TestContext_AuthUserScopesLogger(t *testing.T) {
	var buffer bytes.Buffer
	ctx := ctxutil.WithLogger(context.Background(), slog.New(slog.NewJSONHandler(&buffer, nil)))

	ctx = ctxutil.WithAuthUser(ctx, &sec.AuthClaims{UserID: "u-7", Role: string(sec.RoleCommunity)})
	ctxutil.GetLogger(ctx).Info("question_asked")

	assert.Contains(t, buffer.String(), `"user_id":"u-7"`)
}

/*
TestContext_PrincipalAndViewer covers members and visitors.
*/
func TestContext_PrincipalAndViewer(t *testing.T) {
	visitor := context.Background()
	_, ok := ctxutil.GetPrincipal(visitor)
	assert.False(t, ok)
	assert.Empty(t, ctxutil.GetViewerID(visitor))

	member := ctxutil.WithAuthUser(visitor, &sec.AuthClaims{UserID: "u-9", Role: string(sec.RoleChiefImam)})
	principal, ok := ctxutil.GetPrincipal(member)
	require.True(t, ok)
	assert.Equal(t, "u-9", principal.UserID)
	assert.True(t, principal.IsAdmin())
	assert.Equal(t, "u-9", ctxutil.GetViewerID(member))
}
