// Copyright (c) 2026 Minbar. All rights reserved.

package qa

import (
	"context"
	"log/slog"
	"strings"

	"github.com/minbarhq/minbar/internal/core/engagement"
	"github.com/minbarhq/minbar/internal/platform/ctxutil"
	"github.com/minbarhq/minbar/internal/platform/sec"
	"github.com/minbarhq/minbar/pkg/uuid"
)

// Liker toggles per-user likes.
type Liker interface {
	Toggle(ctx context.Context, target engagement.Target, entityID, userID string) (engagement.Result, error)
}

// Service implements the Q&A use cases.
type Service struct {
	repository Repository
	likes      Liker
}

// NewService constructs a new Q&A [Service].
func NewService(repository Repository, likes Liker) *Service {
	return &Service{repository: repository, likes: likes}
}

// # Queries

// List returns a page of records and the total count.
func (service *Service) List(context context.Context, filter Filter, limit, offset int) ([]*QuestionAndAnswer, int, error) {
	return service.repository.List(context, filter, limit, offset)
}

// Get returns one record.
func (service *Service) Get(context context.Context, id string) (*QuestionAndAnswer, error) {
	return service.repository.FindByID(context, id)
}

// # Lifecycle

/*
Ask creates a Pending record owned by actor.

Parameters:
  - context: context.Context
  - actor: sec.Principal (authenticated)
  - command: AskQuestion

Returns:
  - *QuestionAndAnswer: Created record with askedBy = actor and dateAsked = now
  - error: Storage failures
*/
func (service *Service) Ask(context context.Context, actor sec.Principal, command AskQuestion) (*QuestionAndAnswer, error) {
	record := &QuestionAndAnswer{
		ID:               uuid.New(),
		AskedBy:          actor.UserID,
		QuestionCategory: strings.TrimSpace(command.Category),
		Question:         strings.TrimSpace(command.Text),
	}

	if err := service.repository.Create(context, record); err != nil {
		return nil, err
	}

	ctxutil.GetLogger(context).Info("question_asked", slog.String("question_id", record.ID))
	return record, nil
}

/*
EditQuestion replaces the question text.

Description: Fails fast with the policy decision against the current record, then
relies on the conditional update to catch a state change in between.

Parameters:
  - context: context.Context
  - actor: sec.Principal
  - id: string
  - command: EditQuestion

Returns:
  - *QuestionAndAnswer: Updated record
  - error: Forbidden (answered, or not the asker), NotFound
*/
func (service *Service) EditQuestion(context context.Context, actor sec.Principal, id string, command EditQuestion) (*QuestionAndAnswer, error) {
	current, err := service.repository.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	if err := CanEditQuestion(actor, current); err != nil {
		return nil, err
	}

	record, err := service.repository.UpdateQuestion(context, id, actor.UserID, strings.TrimSpace(command.Text))
	if err != nil {
		return nil, err
	}

	ctxutil.GetLogger(context).Info("question_edited", slog.String("question_id", id))
	return record, nil
}

/*
SubmitAnswer answers a Pending record or revises the answer of an Answered one.

Parameters:
  - context: context.Context
  - actor: sec.Principal (imam or chief imam)
  - id: string
  - command: SubmitAnswer

Returns:
  - *QuestionAndAnswer: Record with isAnswered = true, answeredBy = actor, dateAnswered = now
  - error: Forbidden for non-scholars, NotFound
*/
func (service *Service) SubmitAnswer(context context.Context, actor sec.Principal, id string, command SubmitAnswer) (*QuestionAndAnswer, error) {
	if err := CanAnswer(actor); err != nil {
		return nil, err
	}

	record, err := service.repository.SetAnswer(context, id, actor.UserID, strings.TrimSpace(command.Text))
	if err != nil {
		return nil, err
	}

	ctxutil.GetLogger(context).Info("question_answered", slog.String("question_id", id))
	return record, nil
}

/*
Delete removes a record.

Parameters:
  - context: context.Context
  - actor: sec.Principal
  - id: string

Returns:
  - error: Forbidden (answered and not admin, or not the asker), NotFound
*/
func (service *Service) Delete(context context.Context, actor sec.Principal, id string) error {
	current, err := service.repository.FindByID(context, id)
	if err != nil {
		return err
	}

	if err := CanDelete(actor, current); err != nil {
		return err
	}

	if err := service.repository.Delete(context, id, actor.UserID, actor.IsAdmin()); err != nil {
		return err
	}

	ctxutil.GetLogger(context).Info("question_deleted", slog.String("question_id", id))
	return nil
}

// # Engagement

// ToggleLike likes or unlikes a record for actor.
func (service *Service) ToggleLike(context context.Context, actor sec.Principal, id string) (*LikeResult, error) {
	result, err := service.likes.Toggle(context, engagement.QuestionLikes, id, actor.UserID)
	if err != nil {
		return nil, err
	}
	return &LikeResult{Likes: result.Count, Liked: result.Member}, nil
}
