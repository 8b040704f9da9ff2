// Copyright (c) 2026 Minbar. All rights reserved.

package article

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/minbarhq/minbar/internal/core/engagement"
	"github.com/minbarhq/minbar/internal/platform/apperr"
	"github.com/minbarhq/minbar/internal/platform/ctxutil"
	"github.com/minbarhq/minbar/internal/platform/sec"
	"github.com/minbarhq/minbar/internal/platform/validate"
	"github.com/minbarhq/minbar/pkg/slug"
	"github.com/minbarhq/minbar/pkg/uuid"
)

const (
	maxTitleLength    = 300
	maxCategoryLength = 100
	maxBodyLength     = 100000
)

// Liker toggles per-user likes.
type Liker interface {
	Toggle(ctx context.Context, target engagement.Target, entityID, userID string) (engagement.Result, error)
}

// Service implements article use cases.
type Service struct {
	articleRepo Repository
	likes       Liker
}

// NewService constructs a new article [Service].
func NewService(repository Repository, likes Liker) *Service {
	return &Service{articleRepo: repository, likes: likes}
}

// # Queries

// List returns a page of articles and the total count.
func (service *Service) List(context context.Context, filter Filter, limit, offset int) ([]*Article, int, error) {
	return service.articleRepo.List(context, filter, limit, offset)
}

/*
Get fetches an article by UUID or slug.

Parameters:
  - context: context.Context
  - identifier: string (UUID or slug)

Returns:
  - *Article: The article
  - error: NotFound
*/
func (service *Service) Get(context context.Context, identifier string) (*Article, error) {
	if validate.IsUUID(identifier) {
		return service.articleRepo.FindByID(context, identifier)
	}
	return service.articleRepo.FindBySlug(context, identifier)
}

// # Management

/*
Publish creates an article authored by actor.

Description: The slug is derived from the title. When it is already taken the
last eight characters of the new ID are appended; an empty derivation (e.g. a title with
no Latin letters) falls back to that suffix alone.

Parameters:
  - context: context.Context
  - actor: sec.Principal (imam or chief imam)
  - draft: Draft

Returns:
  - *Article: The created article
  - error: Forbidden, validation or persistence errors
*/
func (service *Service) Publish(context context.Context, actor sec.Principal, draft Draft) (*Article, error) {
	if err := CanPublish(actor); err != nil {
		return nil, err
	}

	article := &Article{
		ID:            uuid.New(),
		Title:         strings.TrimSpace(draft.Title),
		Body:          draft.Body,
		Category:      strings.TrimSpace(draft.Category),
		CoverImageURL: draft.CoverImageURL,
		AuthorID:      actor.UserID,
	}

	validator := &validate.Validator{}
	validator.Required(FieldTitle, article.Title).MaxLen(FieldTitle, article.Title, maxTitleLength)
	validator.Required(FieldBody, article.Body).MaxLen(FieldBody, article.Body, maxBodyLength)
	validator.Required(FieldCategory, article.Category).MaxLen(FieldCategory, article.Category, maxCategoryLength)
	if article.CoverImageURL != nil && *article.CoverImageURL != "" {
		validator.URL(FieldCoverImageURL, *article.CoverImageURL)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	suffix := article.ID[len(article.ID)-8:]
	article.Slug = slug.From(article.Title)
	if article.Slug == "" {
		article.Slug = suffix
	}

	err := service.articleRepo.Create(context, article)
	if errors.Is(err, ErrSlugTaken) && article.Slug != suffix {
		article.Slug = slug.WithSuffix(article.Slug, suffix)
		err = service.articleRepo.Create(context, article)
	}
	if err != nil {
		return nil, err
	}

	ctxutil.GetLogger(context).Info("article_published",
		slog.String("article_id", article.ID),
		slog.String("slug", article.Slug),
	)
	return article, nil
}

/*
Update applies a partial update.

Parameters:
  - context: context.Context
  - actor: sec.Principal (author or chief imam)
  - id: string
  - patch: Patch

Returns:
  - *Article: The updated article
  - error: Validation, Forbidden, NotFound
*/
func (service *Service) Update(context context.Context, actor sec.Principal, id string, patch Patch) (*Article, error) {
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
	if patch.Category != nil {
		validator.Required(FieldCategory, *patch.Category).MaxLen(FieldCategory, *patch.Category, maxCategoryLength)
	}
	if patch.CoverImageURL != nil && *patch.CoverImageURL != "" {
		validator.URL(FieldCoverImageURL, *patch.CoverImageURL)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	current, err := service.articleRepo.FindByID(context, id)
	if err != nil {
		return nil, err
	}
	if err := CanModify(actor, current); err != nil {
		return nil, err
	}

	article, err := service.articleRepo.Update(context, id, actor.UserID, actor.IsAdmin(), patch)
	if err != nil {
		return nil, err
	}

	ctxutil.GetLogger(context).Info("article_updated", slog.String("article_id", id))
	return article, nil
}

// Delete removes an article.
func (service *Service) Delete(context context.Context, actor sec.Principal, id string) error {
	current, err := service.articleRepo.FindByID(context, id)
	if err != nil {
		return err
	}
	if err := CanModify(actor, current); err != nil {
		return err
	}

	if err := service.articleRepo.Delete(context, id, actor.UserID, actor.IsAdmin()); err != nil {
		return err
	}

	ctxutil.GetLogger(context).Warn("article_deleted", slog.String("article_id", id))
	return nil
}

// ToggleLike likes or unlikes an article for actor.
func (service *Service) ToggleLike(context context.Context, actor sec.Principal, id string) (*LikeResult, error) {
	result, err := service.likes.Toggle(context, engagement.ArticleLikes, id, actor.UserID)
	if err != nil {
		return nil, err
	}
	return &LikeResult{Likes: result.Count, Liked: result.Member}, nil
}
