// Copyright (c) 2026 Minbar. All rights reserved.

package auth_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minbarhq/minbar/internal/platform/apperr"
	"github.com/minbarhq/minbar/internal/platform/ctxutil"
	"github.com/minbarhq/minbar/internal/platform/sec"
	"github.com/minbarhq/minbar/internal/platform/session"
	"github.com/minbarhq/minbar/internal/users/auth"
)

// # Fakes

type memoryUsers struct {
	mu      sync.Mutex
	byID    map[string]*auth.User
	touched []string
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{byID: map[string]*auth.User{}}
}

func (m *memoryUsers) Create(_ context.Context, user *auth.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.byID {
		if strings.EqualFold(existing.Username, user.Username) {
			return apperr.Conflict("Username is already taken")
		}
		if strings.EqualFold(existing.Email, user.Email) {
			return apperr.Conflict("Email is already registered")
		}
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	copied := *user
	m.byID[user.ID] = &copied
	return nil
}

func (m *memoryUsers) FindByID(_ context.Context, id string) (*auth.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user, ok := m.byID[id]; ok {
		copied := *user
		return &copied, nil
	}
	return nil, apperr.NotFound("User")
}

func (m *memoryUsers) FindByLogin(_ context.Context, login string) (*auth.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.byID {
		if strings.EqualFold(user.Email, login) || strings.EqualFold(user.Username, login) {
			copied := *user
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (m *memoryUsers) TouchLastLogin(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.touched = append(m.touched, id)
	return nil
}

type fakeSessions struct {
	issued    []session.Identity
	destroyed int
	revoked   []string
	loadErr   error
}

func (f *fakeSessions) Issue(writer http.ResponseWriter, _ *http.Request, identity session.Identity) (session.Identity, error) {
	identity.SessionID = "sess-" + identity.UserID
	f.issued = append(f.issued, identity)
	http.SetCookie(writer, &http.Cookie{Name: "minbar_session", Value: identity.SessionID})
	return identity, nil
}

func (f *fakeSessions) Destroy(http.ResponseWriter, *http.Request) error {
	f.destroyed++
	return nil
}

func (f *fakeSessions) DestroyAll(_ context.Context, userID string) (int, error) {
	f.revoked = append(f.revoked, userID)
	return 2, nil
}

func (f *fakeSessions) ClearCookie(writer http.ResponseWriter) {
	http.SetCookie(writer, &http.Cookie{Name: "minbar_session", MaxAge: -1})
}

func (f *fakeSessions) Load(*http.Request) (session.Identity, error) {
	if f.loadErr != nil {
		return session.Identity{}, f.loadErr
	}
	if len(f.issued) == 0 {
		return session.Identity{}, session.ErrNoSession
	}
	return f.issued[len(f.issued)-1], nil
}

type fakeTokens struct{}

func (fakeTokens) GenerateAccessToken(userID, _, role string, _ time.Duration) (string, error) {
	return "token:" + userID + ":" + role, nil
}

func (fakeTokens) VerifyToken(token string) (*sec.AuthClaims, error) {
	parts := strings.Split(token, ":")
	if len(parts) != 3 || parts[0] != "token" {
		return nil, errors.New("invalid")
	}
	return &sec.AuthClaims{UserID: parts[1], Role: parts[2]}, nil
}

func register(t *testing.T, service *auth.Service, username string) *auth.User {
	t.Helper()
	user, err := service.Register(context.Background(), auth.RegisterInput{
		Username: username,
		Email:    username + "@example.org",
		Password: "correct-horse",
	})
	require.NoError(t, err)
	return user
}

// # Service

/*
TestService_Register assigns the community role and hashes the password.
*/
func TestService_Register(t *testing.T) {
	service := auth.NewService(newMemoryUsers(), nil)

	user := register(t, service, "aisha")
	assert.Equal(t, sec.RoleCommunity, user.Role)
	assert.Equal(t, "aisha", user.DisplayName)
	assert.NotEqual(t, "correct-horse", user.PasswordHash)
	assert.True(t, sec.CheckPasswordHash("correct-horse", user.PasswordHash))

	_, err := service.Register(context.Background(), auth.RegisterInput{
		Username: "AISHA", Email: "other@example.org", Password: "correct-horse",
	})
	assert.True(t, apperr.HasCode(err, apperr.CodeConflict))
}

/*
TestService_Login hides whether the login or the password was wrong.
*/
func TestService_Login(t *testing.T) {
	users := newMemoryUsers()
	service := auth.NewService(users, nil)
	created := register(t, service, "yusuf")

	user, err := service.Login(context.Background(), "YUSUF@example.org", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)
	assert.NotNil(t, user.LastLoginAt)
	assert.Equal(t, []string{created.ID}, users.touched)

	_, wrongPassword := service.Login(context.Background(), "yusuf", "nope")
	_, unknownUser := service.Login(context.Background(), "ghost", "correct-horse")
	require.Error(t, wrongPassword)
	require.Error(t, unknownUser)
	assert.Equal(t, wrongPassword.Error(), unknownUser.Error())
	assert.True(t, apperr.HasCode(unknownUser, apperr.CodeUnauthorized))
}

/*
TestService_IssueAccessToken returns 503 when no signing key is configured.
*/
func TestService_IssueAccessToken(t *testing.T) {
	claims := &sec.AuthClaims{UserID: "u1", Role: string(sec.RoleImam)}

	_, err := auth.NewService(newMemoryUsers(), nil).IssueAccessToken(claims)
	assert.True(t, apperr.HasCode(err, apperr.CodeServiceUnavailable))

	token, err := auth.NewService(newMemoryUsers(), fakeTokens{}).IssueAccessToken(claims)
	require.NoError(t, err)
	assert.Equal(t, "token:u1:imam", token.Token)
	assert.Equal(t, "Bearer", token.TokenType)
	assert.Equal(t, int(auth.AccessTokenTTL.Seconds()), token.ExpiresIn)
}

// # Authenticator

/*
TestAuthenticator_ResolveSession uses the role captured at login and drops deleted accounts.
*/
func TestAuthenticator_ResolveSession(t *testing.T) {
	users := newMemoryUsers()
	service := auth.NewService(users, nil)
	user := register(t, service, "maryam")
	sessions := &fakeSessions{}
	authenticator := auth.NewAuthenticator(users, sessions, fakeTokens{})
	request := httptest.NewRequest(http.MethodGet, "/users/me", nil)

	claims, err := authenticator.ResolveSession(request)
	require.NoError(t, err)
	assert.Nil(t, claims)

	sessions.issued = append(sessions.issued, session.Identity{SessionID: "s1", UserID: user.ID, Role: string(sec.RoleImam)})
	claims, err = authenticator.ResolveSession(request)
	require.NoError(t, err)
	require.NotNil(t, claims)
	assert.Equal(t, "maryam", claims.Username)
	assert.Equal(t, string(sec.RoleImam), claims.Role)
	assert.Equal(t, "s1", claims.SessionID)

	sessions.issued = append(sessions.issued, session.Identity{SessionID: "s2", UserID: "deleted-user"})
	claims, err = authenticator.ResolveSession(request)
	require.NoError(t, err)
	assert.Nil(t, claims)

	sessions.loadErr = errors.New("redis: connection refused")
	_, err = authenticator.ResolveSession(request)
	assert.True(t, apperr.HasCode(err, apperr.CodeServiceUnavailable))
}

/*
TestAuthenticator_VerifyBearer rejects tokens of unknown accounts.
*/
func TestAuthenticator_VerifyBearer(t *testing.T) {
	users := newMemoryUsers()
	user := register(t, auth.NewService(users, nil), "bilal")
	request := httptest.NewRequest(http.MethodGet, "/", nil)

	authenticator := auth.NewAuthenticator(users, &fakeSessions{}, fakeTokens{})

	claims, err := authenticator.VerifyBearer(request, "token:"+user.ID+":community")
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)

	_, err = authenticator.VerifyBearer(request, "token:ghost:community")
	assert.True(t, apperr.HasCode(err, apperr.CodeUnauthorized))

	_, err = authenticator.VerifyBearer(request, "garbage")
	assert.True(t, apperr.HasCode(err, apperr.CodeUnauthorized))

	_, err = auth.NewAuthenticator(users, &fakeSessions{}, nil).VerifyBearer(request, "token:"+user.ID+":community")
	assert.True(t, apperr.HasCode(err, apperr.CodeUnauthorized))
}

// # HTTP

func postJSON(handler http.Handler, path string, body any, claims *sec.AuthClaims) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	request := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	if claims != nil {
		request = request.WithContext(ctxutil.WithAuthUser(request.Context(), claims))
	}
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	return recorder
}

/*
TestHandler_SignupAndLogin covers the happy path and the validation envelope.
*/
func TestHandler_SignupAndLogin(t *testing.T) {
	sessions := &fakeSessions{}
	router := auth.NewHandler(auth.NewService(newMemoryUsers(), nil), sessions).Routes()

	recorder := postJSON(router, "/signup", map[string]string{
		"username": "ibrahim", "email": "ibrahim@example.org", "password": "correct-horse",
	}, nil)
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())
	assert.NotContains(t, recorder.Body.String(), "password")

	recorder = postJSON(router, "/signup", map[string]string{
		"username": "x", "email": "not-an-email", "password": "short",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"field":"email"`)

	recorder = postJSON(router, "/login", map[string]string{"login": "ibrahim", "password": "correct-horse"}, nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	require.Len(t, sessions.issued, 1)
	assert.Equal(t, string(sec.RoleCommunity), sessions.issued[0].Role)
	assert.NotEmpty(t, recorder.Result().Cookies())

	recorder = postJSON(router, "/login", map[string]string{"login": "ibrahim", "password": "wrong-horse"}, nil)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Len(t, sessions.issued, 1)
}

/*
TestHandler_ProtectedRoutes requires a session and revokes on logout-all.
*/
func TestHandler_ProtectedRoutes(t *testing.T) {
	sessions := &fakeSessions{}
	router := auth.NewHandler(auth.NewService(newMemoryUsers(), nil), sessions).Routes()

	assert.Equal(t, http.StatusUnauthorized, postJSON(router, "/logout", nil, nil).Code)

	claims := &sec.AuthClaims{UserID: "u1", Role: string(sec.RoleCommunity), SessionID: "s1"}
	assert.Equal(t, http.StatusNoContent, postJSON(router, "/logout", nil, claims).Code)
	assert.Equal(t, 1, sessions.destroyed)

	assert.Equal(t, http.StatusNoContent, postJSON(router, "/logout-all", nil, claims).Code)
	assert.Equal(t, []string{"u1"}, sessions.revoked)

	assert.Equal(t, http.StatusServiceUnavailable, postJSON(router, "/token", nil, claims).Code)
}
