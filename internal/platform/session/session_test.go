// Copyright (c) 2026 Minbar. All rights reserved.

package session_test

import (
	stdctx "context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minbarhq/minbar/internal/platform/constants"
	"github.com/minbarhq/minbar/internal/platform/session"
)

// memoryBackend is an in-process [session.Backend] for tests.
type memoryBackend struct {
	mu      sync.Mutex
	records map[string][]byte
	index   map[string]map[string]struct{}
}

func newMemoryBackend() *memoryBackend {
	return &memoryBackend{
		records: map[string][]byte{},
		index:   map[string]map[string]struct{}{},
	}
}

func (m *memoryBackend) Load(_ stdctx.Context, sessionID string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	payload, ok := m.records[sessionID]
	if !ok {
		return nil, session.ErrNotFound
	}
	return payload, nil
}

func (m *memoryBackend) Save(_ stdctx.Context, sessionID, userID string, payload []byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[sessionID] = payload
	if m.index[userID] == nil {
		m.index[userID] = map[string]struct{}{}
	}
	m.index[userID][sessionID] = struct{}{}
	return nil
}

func (m *memoryBackend) Delete(_ stdctx.Context, sessionID, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, sessionID)
	delete(m.index[userID], sessionID)
	return nil
}

func (m *memoryBackend) DeleteAll(_ stdctx.Context, userID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := len(m.index[userID])
	for sessionID := range m.index[userID] {
		delete(m.records, sessionID)
	}
	delete(m.index, userID)
	return count, nil
}

var secret = []byte("0123456789abcdef0123456789abcdef")

func newManager(backend session.Backend) *session.Manager {
	return session.NewManager(backend, secret, session.Options{TTL: time.Hour, Secure: true})
}

// issue logs a user in and returns the Set-Cookie value.
func issue(t *testing.T, manager *session.Manager, userID, role string) (*http.Cookie, session.Identity) {
	t.Helper()

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodPost, "/auth/login", nil)

	identity, err := manager.Issue(recorder, request, session.Identity{UserID: userID, Role: role, IP: "10.0.0.1"})
	require.NoError(t, err)

	cookies := recorder.Result().Cookies()
	require.Len(t, cookies, 1)
	return cookies[0], identity
}

func requestWith(cookie *http.Cookie) *http.Request {
	request := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	if cookie != nil {
		request.AddCookie(cookie)
	}
	return request
}

/*
TestManager_IssueAndLoad verifies the cookie round trip and the stored identity.
*/
func TestManager_IssueAndLoad(t *testing.T) {
	manager := newManager(newMemoryBackend())
	cookie, issued := issue(t, manager, "user-1", "imam")

	assert.Equal(t, constants.SessionCookieName, cookie.Name)
	assert.True(t, cookie.HttpOnly)
	assert.True(t, cookie.Secure)
	assert.NotContains(t, cookie.Value, "user-1")

	identity, err := manager.Load(requestWith(cookie))
	require.NoError(t, err)
	assert.Equal(t, issued.SessionID, identity.SessionID)
	assert.Equal(t, "user-1", identity.UserID)
	assert.Equal(t, "imam", identity.Role)
	assert.Equal(t, "10.0.0.1", identity.IP)
	assert.False(t, identity.CreatedAt.IsZero())
}

/*
TestManager_Load_Rejects covers the anonymous paths.
*/
func TestManager_Load_Rejects(t *testing.T) {
	manager := newManager(newMemoryBackend())
	cookie, _ := issue(t, manager, "user-1", "community")

	tampered := *cookie
	tampered.Value = cookie.Value[:len(cookie.Value)-4] + "AAAA"

	other := session.NewManager(newMemoryBackend(), []byte("ffffffffffffffffffffffffffffffff"), session.Options{TTL: time.Hour})

	tests := []struct {
		name    string
		manager *session.Manager
		cookie  *http.Cookie
	}{
		{"no_cookie", manager, nil},
		{"tampered_signature", manager, &tampered},
		{"foreign_secret", other, cookie},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.manager.Load(requestWith(tt.cookie))
			assert.ErrorIs(t, err, session.ErrNoSession)
		})
	}
}

/*
TestManager_Destroy removes the record and expires the cookie.
*/
func TestManager_Destroy(t *testing.T) {
	manager := newManager(newMemoryBackend())
	cookie, _ := issue(t, manager, "user-1", "community")

	recorder := httptest.NewRecorder()
	require.NoError(t, manager.Destroy(recorder, requestWith(cookie)))

	cleared := recorder.Result().Cookies()
	require.Len(t, cleared, 1)
	assert.Less(t, cleared[0].MaxAge, 0)

	_, err := manager.Load(requestWith(cookie))
	assert.ErrorIs(t, err, session.ErrNoSession)
}

/*
TestManager_DestroyAll revokes every session of one user only.
*/
func TestManager_DestroyAll(t *testing.T) {
	manager := newManager(newMemoryBackend())
	first, _ := issue(t, manager, "user-1", "community")
	second, _ := issue(t, manager, "user-1", "community")
	bystander, _ := issue(t, manager, "user-2", "imam")

	removed, err := manager.DestroyAll(stdctx.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	for _, cookie := range []*http.Cookie{first, second} {
		_, err := manager.Load(requestWith(cookie))
		assert.ErrorIs(t, err, session.ErrNoSession)
	}

	identity, err := manager.Load(requestWith(bystander))
	require.NoError(t, err)
	assert.Equal(t, "user-2", identity.UserID)
}
