// Copyright (c) 2026 Minbar. All rights reserved.

package account_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minbarhq/minbar/internal/platform/apperr"
	"github.com/minbarhq/minbar/internal/platform/ctxutil"
	"github.com/minbarhq/minbar/internal/platform/sec"
	"github.com/minbarhq/minbar/internal/users/account"
	"github.com/minbarhq/minbar/internal/users/auth"
	"github.com/minbarhq/minbar/pkg/pointer"
)

type memoryAccounts struct {
	users map[string]*auth.User
}

func (m *memoryAccounts) FindByID(_ context.Context, id string) (*auth.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	copied := *user
	return &copied, nil
}

func (m *memoryAccounts) UpdateProfile(_ context.Context, id string, update account.ProfileUpdate) (*auth.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	if update.DisplayName != nil {
		user.DisplayName = *update.DisplayName
	}
	if update.Bio != nil {
		user.Bio = *update.Bio
	}
	if update.AvatarURL != nil {
		user.AvatarURL = *update.AvatarURL
	}
	copied := *user
	return &copied, nil
}

func (m *memoryAccounts) UpdateRole(_ context.Context, id string, role sec.UserRole) (*auth.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	user.Role = role
	copied := *user
	return &copied, nil
}

type recordingRevoker struct {
	revoked []string
	calls   int
	// failures maps a 1-based call number to the error it returns.
	failures map[int]error
}

func (r *recordingRevoker) DestroyAll(_ context.Context, userID string) (int, error) {
	r.calls++
	if err := r.failures[r.calls]; err != nil {
		return 0, err
	}
	r.revoked = append(r.revoked, userID)
	return 1, nil
}

func fixture() (*account.Service, *memoryAccounts, *recordingRevoker) {
	store := &memoryAccounts{users: map[string]*auth.User{
		"chief":  {ID: "chief", Username: "chief", Email: "chief@example.org", Role: sec.RoleChiefImam},
		"member": {ID: "member", Username: "member", Email: "member@example.org", DisplayName: "Member", Role: sec.RoleCommunity},
	}}
	revoker := &recordingRevoker{}
	return account.NewService(store, revoker), store, revoker
}

/*
TestService_UpdateProfile keeps untouched fields and rejects empty updates.
*/
func TestService_UpdateProfile(t *testing.T) {
	service, _, _ := fixture()
	ctx := context.Background()

	user, err := service.UpdateProfile(ctx, "member", account.ProfileUpdate{Bio: pointer.To("Student of hadith")})
	require.NoError(t, err)
	assert.Equal(t, "Student of hadith", user.Bio)
	assert.Equal(t, "Member", user.DisplayName)

	_, err = service.UpdateProfile(ctx, "member", account.ProfileUpdate{})
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))

	_, err = service.UpdateProfile(ctx, "ghost", account.ProfileUpdate{Bio: pointer.To("x")})
	assert.True(t, apperr.IsNotFound(err))
}

/*
TestService_ChangeRole is restricted to chief imams and revokes the target's sessions.
*/
func TestService_ChangeRole(t *testing.T) {
	ctx := context.Background()
	chief := sec.Principal{UserID: "chief", Role: sec.RoleChiefImam}

	tests := []struct {
		name     string
		actor    sec.Principal
		target   string
		role     sec.UserRole
		wantCode string
	}{
		{"imam_cannot_promote", sec.Principal{UserID: "imam", Role: sec.RoleImam}, "member", sec.RoleImam, apperr.CodeForbidden},
		{"unknown_role", chief, "member", "admin", apperr.CodeValidation},
		{"self_demotion", chief, "chief", sec.RoleCommunity, apperr.CodeForbidden},
		{"missing_target", chief, "ghost", sec.RoleImam, apperr.CodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, _, revoker := fixture()
			_, err := service.ChangeRole(ctx, tt.actor, tt.target, tt.role)
			assert.True(t, apperr.HasCode(err, tt.wantCode), "got %v", err)
			assert.Empty(t, revoker.revoked)
		})
	}

	service, store, revoker := fixture()
	user, err := service.ChangeRole(ctx, chief, "member", sec.RoleImam)
	require.NoError(t, err)
	assert.Equal(t, sec.RoleImam, user.Role)
	assert.Equal(t, sec.RoleImam, store.users["member"].Role)
	assert.Equal(t, []string{"member", "member"}, revoker.revoked)
}

/*
TestService_ChangeRole_RevocationFailure leaves the role untouched when sessions cannot be revoked
up front, and still succeeds when only the follow-up sweep fails.
*/
func TestService_ChangeRole_RevocationFailure(t *testing.T) {
	ctx := context.Background()
	chief := sec.Principal{UserID: "chief", Role: sec.RoleChiefImam}

	t.Run("before_update", func(t *testing.T) {
		service, store, revoker := fixture()
		revoker.failures = map[int]error{1: errors.New("redis down")}

		_, err := service.ChangeRole(ctx, chief, "member", sec.RoleImam)
		assert.True(t, apperr.HasCode(err, apperr.CodeInternal))
		assert.Equal(t, sec.RoleCommunity, store.users["member"].Role)
		assert.Equal(t, 1, revoker.calls)
	})

	t.Run("after_update", func(t *testing.T) {
		service, store, revoker := fixture()
		revoker.failures = map[int]error{2: errors.New("redis down")}

		user, err := service.ChangeRole(ctx, chief, "member", sec.RoleImam)
		require.NoError(t, err)
		assert.Equal(t, sec.RoleImam, user.Role)
		assert.Equal(t, sec.RoleImam, store.users["member"].Role)
		assert.Equal(t, []string{"member"}, revoker.revoked)
	})
}

/*
TestHandler_Routes checks the public profile hides private fields and the role route is gated.
*/
func TestHandler_Routes(t *testing.T) {
	service, _, _ := fixture()
	router := account.NewHandler(service).Routes()

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/member", nil))
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.NotContains(t, recorder.Body.String(), "member@example.org")

	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	request := httptest.NewRequest(http.MethodPatch, "/member/role", strings.NewReader(`{"role":"imam"}`))
	request = request.WithContext(ctxutil.WithAuthUser(request.Context(), &sec.AuthClaims{UserID: "member", Role: string(sec.RoleCommunity)}))
	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	assert.Equal(t, http.StatusForbidden, recorder.Code)

	request = httptest.NewRequest(http.MethodPatch, "/member/role", strings.NewReader(`{"role":"imam"}`))
	request = request.WithContext(ctxutil.WithAuthUser(request.Context(), &sec.AuthClaims{UserID: "chief", Role: string(sec.RoleChiefImam)}))
	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"role":"imam"`)
}
