// Copyright (c) 2026 Minbar. All rights reserved.

package auth

import "context"

// # User Data Access

// UserRepository is the persistence contract for accounts used by authentication.
type UserRepository interface {

	/*
		Create persists a new account.

		Returns:
		  - error: Conflict when the username or email is taken
	*/
	Create(context context.Context, user *User) error

	/*
		FindByID retrieves an account by its UUID.

		Returns:
		  - *User: Hydrated entity
		  - error: NotFound if missing or deleted
	*/
	FindByID(context context.Context, id string) (*User, error)

	/*
		FindByLogin retrieves an account by email or username (case-insensitive).

		Returns:
		  - *User: Hydrated entity
		  - error: NotFound if no account matches
	*/
	FindByLogin(context context.Context, login string) (*User, error)

	// TouchLastLogin stamps lastloginat with the current time.
	TouchLastLogin(context context.Context, id string) error
}
