// Copyright (c) 2026 Minbar. All rights reserved.

package dua_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minbarhq/minbar/internal/core/dua"
	"github.com/minbarhq/minbar/internal/core/engagement"
	"github.com/minbarhq/minbar/internal/platform/apperr"
	"github.com/minbarhq/minbar/internal/platform/ctxutil"
	"github.com/minbarhq/minbar/internal/platform/sec"
	"github.com/minbarhq/minbar/pkg/pointer"
)

var (
	requester = sec.Principal{UserID: "u-requester", Role: sec.RoleCommunity}
	neighbour = sec.Principal{UserID: "u-neighbour", Role: sec.RoleCommunity}
	chiefImam = sec.Principal{UserID: "u-chief", Role: sec.RoleChiefImam}
)

type memoryRequests struct {
	mu       sync.Mutex
	requests map[string]*dua.Request
}

func (m *memoryRequests) List(_ context.Context, limit, offset int) ([]*dua.Request, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	all := make([]*dua.Request, 0, len(m.requests))
	for _, r := range m.requests {
		clone := *r
		all = append(all, &clone)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	if offset >= len(all) {
		return []*dua.Request{}, len(all), nil
	}
	return all[offset:min(offset+limit, len(all))], len(all), nil
}

func (m *memoryRequests) FindByID(_ context.Context, id string) (*dua.Request, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if r, ok := m.requests[id]; ok {
		clone := *r
		return &clone, nil
	}
	return nil, apperr.NotFound("Dua request")
}

func (m *memoryRequests) Create(_ context.Context, r *dua.Request) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	r.CreatedAt = time.Now().Add(time.Duration(len(m.requests)) * time.Millisecond)
	r.UpdatedAt = r.CreatedAt
	clone := *r
	m.requests[r.ID] = &clone
	return nil
}

func (m *memoryRequests) Update(_ context.Context, id, ownerID string, patch dua.Patch) (*dua.Request, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.requests[id]
	if !ok {
		return nil, apperr.NotFound("Dua request")
	}
	if r.RequestedBy != ownerID {
		return nil, apperr.Forbidden("not owner")
	}
	if patch.Title != nil {
		r.Title = *patch.Title
	}
	if patch.Body != nil {
		r.Body = *patch.Body
	}
	clone := *r
	return &clone, nil
}

func (m *memoryRequests) Delete(_ context.Context, id, actorID string, admin bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.requests[id]
	if !ok {
		return apperr.NotFound("Dua request")
	}
	if !admin && r.RequestedBy != actorID {
		return apperr.Forbidden("not owner")
	}
	delete(m.requests, id)
	return nil
}

// memoryPrayers counts each (request, user) pair once.
type memoryPrayers struct {
	mu       sync.Mutex
	requests *memoryRequests
	prayed   map[string]map[string]struct{}
}

func (m *memoryPrayers) AddOnce(ctx context.Context, _ engagement.Target, entityID, userID string) (engagement.Result, error) {
	if userID == "" {
		return engagement.Result{}, apperr.Unauthorized("Authentication required")
	}
	if _, err := m.requests.FindByID(ctx, entityID); err != nil {
		return engagement.Result{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	users, ok := m.prayed[entityID]
	if !ok {
		users = map[string]struct{}{}
		m.prayed[entityID] = users
	}
	users[userID] = struct{}{}
	return engagement.Result{Count: len(users), Member: true}, nil
}

func newService() *dua.Service {
	requests := &memoryRequests{requests: map[string]*dua.Request{}}
	prayers := &memoryPrayers{requests: requests, prayed: map[string]map[string]struct{}{}}
	return dua.NewService(requests, prayers)
}

/*
TestPray_OneWay checks that praying twice counts once and that other users still count.
*/
func TestPray_OneWay(t *testing.T) {
	service := newService()
	ctx := context.Background()

	request, err := service.Create(ctx, requester, dua.Draft{Title: "Shifa", Body: "For my mother"})
	require.NoError(t, err)

	first, err := service.Pray(ctx, neighbour, request.ID)
	require.NoError(t, err)
	assert.Equal(t, dua.PrayResult{PrayerCount: 1, Prayed: true}, *first)

	again, err := service.Pray(ctx, neighbour, request.ID)
	require.NoError(t, err)
	assert.Equal(t, dua.PrayResult{PrayerCount: 1, Prayed: true}, *again)

	other, err := service.Pray(ctx, requester, request.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, other.PrayerCount)

	_, err = service.Pray(ctx, sec.Principal{}, request.ID)
	assert.True(t, apperr.HasCode(err, apperr.CodeUnauthorized))

	_, err = service.Pray(ctx, neighbour, "missing")
	assert.True(t, apperr.IsNotFound(err))
}

/*
TestAnonymous_HidesRequester checks that only the requester sees who asked.
*/
func TestAnonymous_HidesRequester(t *testing.T) {
	service := newService()
	ctx := context.Background()

	hidden, err := service.Create(ctx, requester, dua.Draft{Title: "Guidance", Body: "...", IsAnonymous: true})
	require.NoError(t, err)
	_, err = service.Create(ctx, requester, dua.Draft{Title: "Rizq", Body: "..."})
	require.NoError(t, err)

	asStranger, err := service.Get(ctx, neighbour.UserID, hidden.ID)
	require.NoError(t, err)
	assert.Empty(t, asStranger.RequestedBy)

	asOwner, err := service.Get(ctx, requester.UserID, hidden.ID)
	require.NoError(t, err)
	assert.Equal(t, requester.UserID, asOwner.RequestedBy)

	page, total, err := service.List(ctx, "", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Equal(t, "Rizq", page[0].Title)
	assert.Equal(t, requester.UserID, page[0].RequestedBy)
	assert.Empty(t, page[1].RequestedBy)
}

/*
TestOwnership checks edit and delete rights.
*/
func TestOwnership(t *testing.T) {
	service := newService()
	ctx := context.Background()

	request, err := service.Create(ctx, requester, dua.Draft{Title: "Exams", Body: "..."})
	require.NoError(t, err)

	_, err = service.Create(ctx, sec.Principal{}, dua.Draft{Title: "x", Body: "y"})
	assert.True(t, apperr.HasCode(err, apperr.CodeUnauthorized))

	_, err = service.Update(ctx, chiefImam, request.ID, dua.Patch{Title: pointer.To("Edited")})
	assert.True(t, apperr.HasCode(err, apperr.CodeForbidden))

	updated, err := service.Update(ctx, requester, request.ID, dua.Patch{Body: pointer.To("Finals week")})
	require.NoError(t, err)
	assert.Equal(t, "Finals week", updated.Body)
	assert.Equal(t, "Exams", updated.Title)

	assert.True(t, apperr.HasCode(service.Delete(ctx, neighbour, request.ID), apperr.CodeForbidden))
	require.NoError(t, service.Delete(ctx, chiefImam, request.ID))
	assert.True(t, apperr.IsNotFound(service.Delete(ctx, requester, request.ID)))
}

/*
TestHandler_Routes exercises the HTTP surface.
*/
func TestHandler_Routes(t *testing.T) {
	router := dua.NewHandler(newService()).Routes()

	do := func(actor *sec.Principal, method, path, body string) *httptest.ResponseRecorder {
		request := httptest.NewRequest(method, path, strings.NewReader(body))
		if actor != nil {
			request = request.WithContext(ctxutil.WithAuthUser(request.Context(), &sec.AuthClaims{UserID: actor.UserID, Role: string(actor.Role)}))
		}
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, request)
		return recorder
	}

	body := `{"title":"Travel","body":"Safe journey","is_anonymous":true}`
	assert.Equal(t, http.StatusUnauthorized, do(nil, http.MethodPost, "/", body).Code)

	recorder := do(&requester, http.MethodPost, "/", body)
	require.Equal(t, http.StatusCreated, recorder.Code)

	var created struct {
		Data dua.Request `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &created))

	recorder = do(nil, http.MethodGet, "/"+created.Data.ID, "")
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.NotContains(t, recorder.Body.String(), requester.UserID)

	recorder = do(&neighbour, http.MethodPost, "/"+created.Data.ID+"/pray", "")
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"data":{"prayer_count":1,"prayed":true}}`, recorder.Body.String())

	assert.Equal(t, http.StatusUnauthorized, do(nil, http.MethodPost, "/"+created.Data.ID+"/pray", "").Code)
	assert.Equal(t, http.StatusForbidden, do(&neighbour, http.MethodPatch, "/"+created.Data.ID, `{"title":"x"}`).Code)
}
