// Copyright (c) 2026 Minbar. All rights reserved.

package session

import (
	"encoding/base32"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
)

// Value keys understood by [Store]. Values must be strings.
const (
	ValueUserID    = "user_id"
	ValueRole      = "role"
	ValueCreatedAt = "created_at"
	ValueUserAgent = "user_agent"
	ValueIP        = "ip"
)

// Store is a [sessions.Store] that keeps only a signed session ID in the cookie
// and the session values in a [Backend].
type Store struct {
	codecs  []securecookie.Codec
	backend Backend
	// Options is the default cookie configuration for new sessions.
	Options *sessions.Options
}

var _ sessions.Store = (*Store)(nil)

// NewStore creates a backend-backed store.
//
// # Parameters
//   - backend: Where session records live (Redis in production).
//   - options: Cookie options; MaxAge also drives the backend TTL.
//   - keyPairs: securecookie hash/block key pairs, as with [sessions.NewCookieStore].
func NewStore(backend Backend, options sessions.Options, keyPairs ...[]byte) *Store {
	codecs := securecookie.CodecsFromPairs(keyPairs...)
	for _, codec := range codecs {
		if cookie, ok := codec.(*securecookie.SecureCookie); ok {
			cookie.MaxAge(options.MaxAge)
		}
	}

	return &Store{
		codecs:  codecs,
		backend: backend,
		Options: &options,
	}
}

// Get returns the session for name, cached in the request registry.
func (store *Store) Get(request *http.Request, name string) (*sessions.Session, error) {
	return sessions.GetRegistry(request).Get(store, name)
}

// New decodes the cookie and loads the record from the backend.
//
// As with the gorilla stores, a fresh session is always returned; the error reports
// why the existing one could not be restored.
func (store *Store) New(request *http.Request, name string) (*sessions.Session, error) {
	session := sessions.NewSession(store, name)
	options := *store.Options
	session.Options = &options
	session.IsNew = true

	cookie, err := request.Cookie(name)
	if err != nil {
		return session, nil
	}

	var sessionID string
	if err := securecookie.DecodeMulti(name, cookie.Value, &sessionID, store.codecs...); err != nil {
		return session, fmt.Errorf("session: decode cookie: %w", err)
	}

	payload, err := store.backend.Load(request.Context(), sessionID)
	if err != nil {
		return session, err
	}

	values := map[string]string{}
	if err := json.Unmarshal(payload, &values); err != nil {
		return session, fmt.Errorf("session: decode record: %w", err)
	}

	session.ID = sessionID
	for key, value := range values {
		session.Values[key] = value
	}
	session.IsNew = false

	return session, nil
}

// Save persists the session and writes the cookie. A negative MaxAge deletes both.
func (store *Store) Save(request *http.Request, writer http.ResponseWriter, session *sessions.Session) error {
	userID, _ := session.Values[ValueUserID].(string)

	if session.Options.MaxAge < 0 {
		if session.ID != "" {
			if err := store.backend.Delete(request.Context(), session.ID, userID); err != nil {
				return err
			}
		}
		http.SetCookie(writer, sessions.NewCookie(session.Name(), "", session.Options))
		return nil
	}

	if session.ID == "" {
		session.ID = newSessionID()
	}

	payload, err := encodeValues(session.Values)
	if err != nil {
		return err
	}

	ttl := time.Duration(session.Options.MaxAge) * time.Second
	if err := store.backend.Save(request.Context(), session.ID, userID, payload, ttl); err != nil {
		return err
	}

	encoded, err := securecookie.EncodeMulti(session.Name(), session.ID, store.codecs...)
	if err != nil {
		return fmt.Errorf("session: encode cookie: %w", err)
	}

	http.SetCookie(writer, sessions.NewCookie(session.Name(), encoded, session.Options))
	return nil
}

func newSessionID() string {
	return strings.TrimRight(base32.StdEncoding.EncodeToString(securecookie.GenerateRandomKey(32)), "=")
}

func encodeValues(values map[any]any) ([]byte, error) {
	flat := make(map[string]string, len(values))
	for key, value := range values {
		name, ok := key.(string)
		if !ok {
			return nil, errors.New("session: value keys must be strings")
		}
		text, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("session: value %q must be a string", name)
		}
		flat[name] = text
	}

	payload, err := json.Marshal(flat)
	if err != nil {
		return nil, fmt.Errorf("session: encode record: %w", err)
	}
	return payload, nil
}
