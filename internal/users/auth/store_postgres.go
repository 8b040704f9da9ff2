// Copyright (c) 2026 Minbar. All rights reserved.

package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/minbarhq/minbar/internal/platform/apperr"
	"github.com/minbarhq/minbar/internal/platform/database/schema"
	"github.com/minbarhq/minbar/internal/platform/dberr"
	"github.com/minbarhq/minbar/pkg/pointer"
)

// Unique constraints declared in data/migrations.
const (
	constraintUsername = "account_username_key"
	constraintEmail    = "account_email_key"
)

// userColumns is the SELECT list matching [scanUser].
var userColumns = strings.Join(schema.UserAccount.Columns(), ", ")

// # User Repository

// PostgresUserRepository implements [UserRepository] using pgx.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a PostgreSQL backed user store.
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

/*
Create persists a new user record into users.account.

Parameters:
  - context: context.Context
  - user: *User (ID, credentials and role already set)

Returns:
  - error: Conflict on duplicate username/email, or storage failures
*/
func (repository *PostgresUserRepository) Create(context context.Context, user *User) error {
	const query = `
		INSERT INTO users.account (
			id, username, email, passwordhash, displayname, role, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING createdat, updatedat`

	err := repository.pool.QueryRow(context, query,
		user.ID, user.Username, user.Email, user.PasswordHash, user.DisplayName, user.Role,
	).Scan(&user.CreatedAt, &user.UpdatedAt)

	switch dberr.ConstraintName(err) {
	case constraintUsername:
		return apperr.Conflict("Username is already taken")
	case constraintEmail:
		return apperr.Conflict("Email is already registered")
	}

	return dberr.Wrap(err, "User", "create_user")
}

/*
FindByID retrieves an active user by primary key.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - *User: Hydrated entity
  - error: NotFound or storage failures
*/
func (repository *PostgresUserRepository) FindByID(context context.Context, id string) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users.account WHERE id = $1 AND deletedat IS NULL`, userColumns)

	user, err := ScanUser(repository.pool.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "User", "find_user_by_id")
	}
	return user, nil
}

/*
FindByLogin retrieves an active user whose email or username equals login.

Parameters:
  - context: context.Context
  - login: string

Returns:
  - *User: Hydrated entity
  - error: NotFound or storage failures
*/
func (repository *PostgresUserRepository) FindByLogin(context context.Context, login string) (*User, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM users.account
		WHERE (LOWER(email) = LOWER($1) OR LOWER(username) = LOWER($1)) AND deletedat IS NULL
		LIMIT 1`, userColumns)

	user, err := ScanUser(repository.pool.QueryRow(context, query, login))
	if err != nil {
		return nil, dberr.Wrap(err, "User", "find_user_by_login")
	}
	return user, nil
}

// TouchLastLogin stamps lastloginat.
func (repository *PostgresUserRepository) TouchLastLogin(context context.Context, id string) error {
	const query = `UPDATE users.account SET lastloginat = NOW() WHERE id = $1`
	_, err := repository.pool.Exec(context, query, id)
	return dberr.Wrap(err, "User", "touch_last_login")
}

// ScanUser reads one row selected with the [schema.UserAccount] column list.
func ScanUser(row pgx.Row) (*User, error) {
	user := &User{}
	var bio, avatarURL *string
	err := row.Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.DisplayName, &bio,
		&avatarURL, &user.Role, &user.LastLoginAt, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	user.Bio = pointer.Val(bio)
	user.AvatarURL = pointer.Val(avatarURL)
	return user, nil
}

// UserColumns is the SELECT list matching [ScanUser].
func UserColumns() string {
	return userColumns
}
