// Copyright (c) 2026 Minbar. All rights reserved.

package dua

import "context"

// Repository defines the persistence contract for dua requests.
type Repository interface {
	List(ctx context.Context, limit, offset int) ([]*Request, int, error)
	FindByID(ctx context.Context, id string) (*Request, error)
	Create(ctx context.Context, request *Request) error
	// Update applies patch only when ownerID is the requester.
	Update(ctx context.Context, id, ownerID string, patch Patch) (*Request, error)
	// Delete removes the request when actorID is the requester or admin is set.
	Delete(ctx context.Context, id, actorID string, admin bool) error
}
