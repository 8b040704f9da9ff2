// Copyright (c) 2026 Minbar. All rights reserved.

package account

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/minbarhq/minbar/internal/platform/dberr"
	"github.com/minbarhq/minbar/internal/platform/sec"
	"github.com/minbarhq/minbar/internal/users/auth"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed profile store.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

/*
FindByID retrieves an active user by primary key.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - *auth.User: Hydrated entity
  - error: NotFound or storage failures
*/
func (repository *PostgresRepository) FindByID(context context.Context, id string) (*auth.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users.account WHERE id = $1 AND deletedat IS NULL`, auth.UserColumns())

	user, err := auth.ScanUser(repository.pool.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "User", "find_profile")
	}
	return user, nil
}

/*
UpdateProfile applies a PATCH-style update in a single statement.

Description: COALESCE keeps the stored value for every nil field, so concurrent
updates of different fields never overwrite each other.

Parameters:
  - context: context.Context
  - id: string
  - update: ProfileUpdate

Returns:
  - *auth.User: Updated entity
  - error: NotFound or storage failures
*/
func (repository *PostgresRepository) UpdateProfile(context context.Context, id string, update ProfileUpdate) (*auth.User, error) {
	query := fmt.Sprintf(`
		UPDATE users.account SET
			displayname = COALESCE($2, displayname),
			bio         = COALESCE($3, bio),
			avatarurl   = COALESCE($4, avatarurl),
			updatedat   = NOW()
		WHERE id = $1 AND deletedat IS NULL
		RETURNING %s`, auth.UserColumns())

	user, err := auth.ScanUser(repository.pool.QueryRow(context, query, id, update.DisplayName, update.Bio, update.AvatarURL))
	if err != nil {
		return nil, dberr.Wrap(err, "User", "update_profile")
	}
	return user, nil
}

/*
UpdateRole sets the account role.

Parameters:
  - context: context.Context
  - id: string
  - role: sec.UserRole

Returns:
  - *auth.User: Updated entity
  - error: NotFound or storage failures
*/
func (repository *PostgresRepository) UpdateRole(context context.Context, id string, role sec.UserRole) (*auth.User, error) {
	query := fmt.Sprintf(`
		UPDATE users.account SET role = $2, updatedat = NOW()
		WHERE id = $1 AND deletedat IS NULL
		RETURNING %s`, auth.UserColumns())

	user, err := auth.ScanUser(repository.pool.QueryRow(context, query, id, role))
	if err != nil {
		return nil, dberr.Wrap(err, "User", "update_role")
	}
	return user, nil
}
