// Copyright (c) 2026 Minbar. All rights reserved.

package dua

import (
	"context"
	"log/slog"
	"strings"

	"github.com/minbarhq/minbar/internal/core/engagement"
	"github.com/minbarhq/minbar/internal/platform/apperr"
	"github.com/minbarhq/minbar/internal/platform/ctxutil"
	"github.com/minbarhq/minbar/internal/platform/sec"
	"github.com/minbarhq/minbar/internal/platform/validate"
	"github.com/minbarhq/minbar/pkg/slice"
	"github.com/minbarhq/minbar/pkg/uuid"
)

const (
	maxTitleLength = 200
	maxBodyLength  = 5000
)

// Prayers records one-way prayers.
type Prayers interface {
	AddOnce(ctx context.Context, target engagement.Target, entityID, userID string) (engagement.Result, error)
}

// Service implements dua request use cases.
type Service struct {
	duaRepo Repository
	prayers Prayers
}

// NewService constructs a new dua [Service].
func NewService(repository Repository, prayers Prayers) *Service {
	return &Service{duaRepo: repository, prayers: prayers}
}

// # Queries

/*
List returns a page of requests as seen by viewerID.

Parameters:
  - context: context.Context
  - viewerID: string (empty for anonymous callers)
  - limit: int
  - offset: int

Returns:
  - []*Request: Requests with anonymous requesters hidden
  - int: Total count
  - error: Storage failures
*/
func (service *Service) List(context context.Context, viewerID string, limit, offset int) ([]*Request, int, error) {
	requests, total, err := service.duaRepo.List(context, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	redacted := slice.Map(requests, func(request *Request) *Request {
		return request.RedactFor(viewerID)
	})
	return redacted, total, nil
}

// Get returns one request as seen by viewerID.
func (service *Service) Get(context context.Context, viewerID, id string) (*Request, error) {
	request, err := service.duaRepo.FindByID(context, id)
	if err != nil {
		return nil, err
	}
	return request.RedactFor(viewerID), nil
}

// # Management

/*
Create posts a request on behalf of actor.

Parameters:
  - context: context.Context
  - actor: sec.Principal (authenticated)
  - draft: Draft

Returns:
  - *Request: The created request
  - error: Unauthorized, validation or persistence errors
*/
func (service *Service) Create(context context.Context, actor sec.Principal, draft Draft) (*Request, error) {
	if actor.UserID == "" {
		return nil, apperr.Unauthorized("Authentication required")
	}

	request := &Request{
		ID:          uuid.New(),
		RequestedBy: actor.UserID,
		Title:       strings.TrimSpace(draft.Title),
		Body:        strings.TrimSpace(draft.Body),
		IsAnonymous: draft.IsAnonymous,
	}

	validator := &validate.Validator{}
	validator.Required(FieldTitle, request.Title).MaxLen(FieldTitle, request.Title, maxTitleLength)
	validator.Required(FieldBody, request.Body).MaxLen(FieldBody, request.Body, maxBodyLength)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := service.duaRepo.Create(context, request); err != nil {
		return nil, err
	}

	ctxutil.GetLogger(context).Info("dua_request_created",
		slog.String("dua_request_id", request.ID),
		slog.Bool("anonymous", request.IsAnonymous),
	)
	return request, nil
}

// Update edits the title or body of the actor's own request.
func (service *Service) Update(context context.Context, actor sec.Principal, id string, patch Patch) (*Request, error) {
	if patch.IsEmpty() {
		return nil, apperr.ValidationError("No fields to update")
	}

	validator := &validate.Validator{}
	if patch.Title != nil {
		validator.Required(FieldTitle, *patch.Title).MaxLen(FieldTitle, *patch.Title, maxTitleLength)
	}
	if patch.Body != nil {
		validator.Required(FieldBody, *patch.Body).MaxLen(FieldBody, *patch.Body, maxBodyLength)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	current, err := service.duaRepo.FindByID(context, id)
	if err != nil {
		return nil, err
	}
	if err := CanEdit(actor, current); err != nil {
		return nil, err
	}

	request, err := service.duaRepo.Update(context, id, actor.UserID, patch)
	if err != nil {
		return nil, err
	}

	ctxutil.GetLogger(context).Info("dua_request_updated", slog.String("dua_request_id", id))
	return request, nil
}

// Delete removes a request.
func (service *Service) Delete(context context.Context, actor sec.Principal, id string) error {
	current, err := service.duaRepo.FindByID(context, id)
	if err != nil {
		return err
	}
	if err := CanDelete(actor, current); err != nil {
		return err
	}

	if err := service.duaRepo.Delete(context, id, actor.UserID, actor.IsAdmin()); err != nil {
		return err
	}

	ctxutil.GetLogger(context).Warn("dua_request_deleted", slog.String("dua_request_id", id))
	return nil
}

// # Prayer

/*
Pray records that actor prayed for the request.

Description: Repeated calls by the same user are accepted and leave the count unchanged.

Returns:
  - *PrayResult: The prayer count and prayed = true
  - error: Unauthorized, NotFound
*/
func (service *Service) Pray(context context.Context, actor sec.Principal, id string) (*PrayResult, error) {
	result, err := service.prayers.AddOnce(context, engagement.DuaPrayers, id, actor.UserID)
	if err != nil {
		return nil, err
	}
	return &PrayResult{PrayerCount: result.Count, Prayed: result.Member}, nil
}
