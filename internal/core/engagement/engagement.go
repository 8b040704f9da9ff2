// Copyright (c) 2026 Minbar. All rights reserved.

/*
Package engagement implements the per-user like and prayer counters.

Each engageable entity (article, question, dua request) owns a membership set: one
row per (entity, user). The set is the source of truth and the entity's counter column
is recomputed from it inside the same row-locked transaction, so the counter can
neither drift nor go negative under concurrent requests.

Two operations exist:

  - Toggle: membership flips on every call (likes).
  - AddOnce: membership is only ever added (prayers).
*/
package engagement

import (
	"context"
	"fmt"
	"strings"

	"github.com/minbarhq/minbar/internal/platform/apperr"
	"github.com/minbarhq/minbar/internal/platform/database/schema"
)

// Target binds a counter to an entity table and its membership set.
type Target struct {
	// Resource names the entity in error messages ("Article not found").
	Resource string
	// EntityTable is the schema-qualified entity table, e.g. "community.article".
	EntityTable string
	// CounterColumn is the denormalized count on the entity row.
	CounterColumn string
	// Membership is the (entity, user) set backing the counter.
	Membership schema.MembershipTable
}

// Predefined targets.
var (
	ArticleLikes = Target{
		Resource:      "Article",
		EntityTable:   schema.CommunityArticle.Table,
		CounterColumn: schema.CommunityArticle.Likes,
		Membership:    schema.CommunityArticleLike,
	}

	QuestionLikes = Target{
		Resource:      "Question",
		EntityTable:   schema.CommunityQuestionAnswer.Table,
		CounterColumn: schema.CommunityQuestionAnswer.Likes,
		Membership:    schema.CommunityQuestionAnswerLike,
	}

	DuaPrayers = Target{
		Resource:      "Dua request",
		EntityTable:   schema.CommunityDuaRequest.Table,
		CounterColumn: schema.CommunityDuaRequest.PrayerCount,
		Membership:    schema.CommunityDuaPrayer,
	}
)

// Result is the state of a counter after a mutation.
type Result struct {
	// Count is the size of the membership set.
	Count int
	// Member reports whether the acting user is now in the set.
	Member bool
}

// MembershipSet is the view of one (entity, user) pair inside a locked transaction.
type MembershipSet interface {
	// Add inserts the pair; it reports false if it was already present.
	Add(ctx context.Context) (bool, error)
	// Remove deletes the pair; it reports false if it was absent.
	Remove(ctx context.Context) (bool, error)
	// Count returns the current size of the entity's set.
	Count(ctx context.Context) (int, error)
	// SetCounter writes n to the entity's counter column.
	SetCounter(ctx context.Context, n int) error
}

// Store serializes mutations per entity.
//
// WithLockedEntity locks the entity row (NotFound if it does not exist), runs fn and
// commits only if fn succeeds.
type Store interface {
	WithLockedEntity(ctx context.Context, target Target, entityID, userID string, fn func(set MembershipSet) error) error
}

// Counter performs toggle and add-once mutations on a [Store].
type Counter struct {
	store Store
}

// NewCounter creates a counter over store.
func NewCounter(store Store) *Counter {
	return &Counter{store: store}
}

/*
Toggle flips the caller's membership and returns the new count.

Applying Toggle twice for the same user restores both the membership and the count.

Parameters:
  - ctx: context.Context
  - target: Target (which entity kind)
  - entityID: string
  - userID: string (authenticated actor, never empty)

Returns:
  - Result: New count and membership
  - error: Unauthorized, NotFound, or storage failures
*/
func (counter *Counter) Toggle(ctx context.Context, target Target, entityID, userID string) (Result, error) {
	if strings.TrimSpace(userID) == "" {
		return Result{}, apperr.Unauthorized("Authentication required")
	}

	var result Result
	err := counter.store.WithLockedEntity(ctx, target, entityID, userID, func(set MembershipSet) error {
		removed, err := set.Remove(ctx)
		if err != nil {
			return err
		}

		if !removed {
			if _, err := set.Add(ctx); err != nil {
				return err
			}
			result.Member = true
		}

		result.Count, err = recount(ctx, set)
		return err
	})
	if err != nil {
		return Result{}, err
	}

	return result, nil
}

/*
AddOnce adds the caller to the set if absent and never removes.

Repeated calls by the same user leave the count unchanged.

Parameters:
  - ctx: context.Context
  - target: Target
  - entityID: string
  - userID: string

Returns:
  - Result: Current count; Member is always true on success
  - error: Unauthorized, NotFound, or storage failures
*/
func (counter *Counter) AddOnce(ctx context.Context, target Target, entityID, userID string) (Result, error) {
	if strings.TrimSpace(userID) == "" {
		return Result{}, apperr.Unauthorized("Authentication required")
	}

	result := Result{Member: true}
	err := counter.store.WithLockedEntity(ctx, target, entityID, userID, func(set MembershipSet) error {
		if _, err := set.Add(ctx); err != nil {
			return err
		}

		var err error
		result.Count, err = recount(ctx, set)
		return err
	})
	if err != nil {
		return Result{}, err
	}

	return result, nil
}

func recount(ctx context.Context, set MembershipSet) (int, error) {
	count, err := set.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("engagement: count: %w", err)
	}
	if err := set.SetCounter(ctx, count); err != nil {
		return 0, fmt.Errorf("engagement: set counter: %w", err)
	}
	return count, nil
}
