// Copyright (c) 2026 Minbar. All rights reserved.

/*
Package account manages member profiles and the administrative role assignment.

Identity (credentials, sessions) lives in package auth; this package only reads and
mutates profile fields and roles of existing accounts.
*/
package account

import (
	"context"

	"github.com/minbarhq/minbar/internal/platform/sec"
	"github.com/minbarhq/minbar/internal/users/auth"
)

// ProfileUpdate holds the mutable profile fields. Nil means "leave unchanged".
type ProfileUpdate struct {
	DisplayName *string
	Bio         *string
	AvatarURL   *string
}

// IsEmpty reports whether the update changes nothing.
func (update ProfileUpdate) IsEmpty() bool {
	return update.DisplayName == nil && update.Bio == nil && update.AvatarURL == nil
}

// Repository defines profile persistence.
type Repository interface {

	/*
		FindByID retrieves an active account.

		Returns:
		  - *auth.User: Hydrated entity
		  - error: NotFound if missing
	*/
	FindByID(context context.Context, id string) (*auth.User, error)

	/*
		UpdateProfile applies a partial update and returns the new state.

		Returns:
		  - *auth.User: Updated entity
		  - error: NotFound if missing
	*/
	UpdateProfile(context context.Context, id string, update ProfileUpdate) (*auth.User, error)

	/*
		UpdateRole sets the role of an account and returns the new state.

		Returns:
		  - *auth.User: Updated entity
		  - error: NotFound if missing
	*/
	UpdateRole(context context.Context, id string, role sec.UserRole) (*auth.User, error)
}

// SessionRevoker ends every login session of a user.
type SessionRevoker interface {
	DestroyAll(context context.Context, userID string) (int, error)
}
