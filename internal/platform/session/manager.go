// Copyright (c) 2026 Minbar. All rights reserved.

/*
Package session manages cookie-based login sessions.

The browser only ever holds a signed, HTTP-only cookie with an opaque session ID.
The session record (user, role at login, client metadata) lives in Redis with a TTL.

Flow:

  - Login: [Manager.Issue] creates a record and sets the cookie.
  - Request: [Manager.Load] verifies the cookie signature and reads the record.
  - Logout: [Manager.Destroy] removes the record and expires the cookie.
  - Revocation: [Manager.DestroyAll] drops every session of a user (logout-all, role change).
*/
package session

import (
	stdctx "context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/sessions"

	"github.com/minbarhq/minbar/internal/platform/constants"
)

// ErrNoSession is returned by [Manager.Load] when the request carries no usable session.
var ErrNoSession = errors.New("session: no active session")

// Identity is the data captured at login and carried for the life of the session.
type Identity struct {
	SessionID string
	UserID    string
	Role      string
	UserAgent string
	IP        string
	CreatedAt time.Time
}

// Manager issues and resolves sessions on top of a [Store].
type Manager struct {
	store *Store
	name  string
}

// Options configures cookie behaviour.
type Options struct {
	TTL    time.Duration
	Secure bool
}

// NewManager builds a manager with the API's cookie conventions.
//
// # Parameters
//   - backend: Record persistence (see [RedisBackend]).
//   - secret: HMAC key for cookie signing, at least 32 bytes.
//   - options: TTL and the Secure flag.
func NewManager(backend Backend, secret []byte, options Options) *Manager {
	store := NewStore(backend, sessions.Options{
		Path:     constants.SessionCookiePath,
		MaxAge:   int(options.TTL / time.Second),
		Secure:   options.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}, secret)

	return &Manager{store: store, name: constants.SessionCookieName}
}

// Issue starts a new session for identity and writes the cookie.
//
// Any session already attached to the request is replaced, which prevents fixation.
func (manager *Manager) Issue(writer http.ResponseWriter, request *http.Request, identity Identity) (Identity, error) {
	session := sessions.NewSession(manager.store, manager.name)
	options := *manager.store.Options
	session.Options = &options
	session.IsNew = true

	if identity.CreatedAt.IsZero() {
		identity.CreatedAt = time.Now().UTC()
	}

	session.Values[ValueUserID] = identity.UserID
	session.Values[ValueRole] = identity.Role
	session.Values[ValueUserAgent] = identity.UserAgent
	session.Values[ValueIP] = identity.IP
	session.Values[ValueCreatedAt] = identity.CreatedAt.Format(time.RFC3339)

	if err := manager.store.Save(request, writer, session); err != nil {
		return Identity{}, err
	}

	identity.SessionID = session.ID
	return identity, nil
}

// Load resolves the session attached to request.
//
// Missing cookies, bad signatures and expired records all yield [ErrNoSession];
// backend failures are returned as-is.
func (manager *Manager) Load(request *http.Request) (Identity, error) {
	session, err := manager.store.New(request, manager.name)
	if err != nil && !errors.Is(err, ErrNotFound) && !isCookieError(err) {
		return Identity{}, err
	}
	if err != nil || session.IsNew {
		return Identity{}, ErrNoSession
	}

	identity := Identity{SessionID: session.ID}
	identity.UserID, _ = session.Values[ValueUserID].(string)
	identity.Role, _ = session.Values[ValueRole].(string)
	identity.UserAgent, _ = session.Values[ValueUserAgent].(string)
	identity.IP, _ = session.Values[ValueIP].(string)
	if created, ok := session.Values[ValueCreatedAt].(string); ok {
		identity.CreatedAt, _ = time.Parse(time.RFC3339, created)
	}

	if identity.UserID == "" {
		return Identity{}, ErrNoSession
	}
	return identity, nil
}

// Destroy removes the session attached to request and expires the cookie.
//
// It is a no-op on the backend when the request has no valid session.
func (manager *Manager) Destroy(writer http.ResponseWriter, request *http.Request) error {
	session, _ := manager.store.New(request, manager.name)
	session.Options.MaxAge = -1
	return manager.store.Save(request, writer, session)
}

// DestroyAll revokes every session of userID and returns how many were removed.
func (manager *Manager) DestroyAll(context stdctx.Context, userID string) (int, error) {
	return manager.store.backend.DeleteAll(context, userID)
}

// ClearCookie expires the session cookie without touching the backend.
func (manager *Manager) ClearCookie(writer http.ResponseWriter) {
	options := *manager.store.Options
	options.MaxAge = -1
	http.SetCookie(writer, sessions.NewCookie(manager.name, "", &options))
}

func isCookieError(err error) bool {
	var cookieErr interface{ IsDecode() bool }
	return errors.As(err, &cookieErr)
}
