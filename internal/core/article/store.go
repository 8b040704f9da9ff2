// Copyright (c) 2026 Minbar. All rights reserved.

package article

import "context"

// Repository defines the persistence contract for articles.
//
// Update and Delete carry the authorization predicate (author or admin) so the check and
// the write happen in one statement.
type Repository interface {
	List(ctx context.Context, filter Filter, limit, offset int) ([]*Article, int, error)
	FindByID(ctx context.Context, id string) (*Article, error)
	FindBySlug(ctx context.Context, slug string) (*Article, error)
	Create(ctx context.Context, article *Article) error
	Update(ctx context.Context, id, actorID string, admin bool, patch Patch) (*Article, error)
	Delete(ctx context.Context, id, actorID string, admin bool) error
}
