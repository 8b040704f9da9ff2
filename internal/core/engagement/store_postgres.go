// Copyright (c) 2026 Minbar. All rights reserved.

package engagement

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/minbarhq/minbar/internal/platform/apperr"
	"github.com/minbarhq/minbar/internal/platform/dberr"
	"github.com/minbarhq/minbar/internal/platform/postgres"
)

// PostgresStore implements [Store] with SELECT ... FOR UPDATE on the entity row.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore constructs a PostgreSQL backed engagement store.
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

/*
WithLockedEntity runs fn while holding the entity row lock.

Description: Concurrent toggles on the same entity queue on the lock, so the
remove-or-add decision and the recount always see a consistent membership set.

Parameters:
  - ctx: context.Context
  - target: Target
  - entityID: string
  - userID: string
  - fn: The mutation to run inside the transaction

Returns:
  - error: NotFound when the entity is missing, or fn's error
*/
func (repository *PostgresStore) WithLockedEntity(ctx context.Context, target Target, entityID, userID string, fn func(set MembershipSet) error) error {
	return postgres.WithTx(ctx, repository.db, func(tx pgx.Tx) error {
		lockQuery := fmt.Sprintf(`SELECT 1 FROM %s WHERE id = $1 FOR UPDATE`, identifier(target.EntityTable))

		var found int
		if err := tx.QueryRow(ctx, lockQuery, entityID).Scan(&found); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperr.NotFound(target.Resource)
			}
			return dberr.Wrap(err, target.Resource, "lock_entity")
		}

		return fn(&postgresMembership{tx: tx, target: target, entityID: entityID, userID: userID})
	})
}

// postgresMembership is the [MembershipSet] bound to an open transaction.
type postgresMembership struct {
	tx       pgx.Tx
	target   Target
	entityID string
	userID   string
}

func (set *postgresMembership) Add(ctx context.Context) (bool, error) {
	membership := set.target.Membership
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s) VALUES ($1, $2, NOW())
		ON CONFLICT DO NOTHING`,
		identifier(membership.Table), membership.EntityColumn, membership.UserID, membership.CreatedAt,
	)

	tag, err := set.tx.Exec(ctx, query, set.entityID, set.userID)
	if err != nil {
		return false, dberr.Wrap(err, set.target.Resource, "insert_membership")
	}
	return tag.RowsAffected() == 1, nil
}

func (set *postgresMembership) Remove(ctx context.Context) (bool, error) {
	membership := set.target.Membership
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`,
		identifier(membership.Table), membership.EntityColumn, membership.UserID,
	)

	tag, err := set.tx.Exec(ctx, query, set.entityID, set.userID)
	if err != nil {
		return false, dberr.Wrap(err, set.target.Resource, "delete_membership")
	}
	return tag.RowsAffected() == 1, nil
}

func (set *postgresMembership) Count(ctx context.Context) (int, error) {
	membership := set.target.Membership
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s = $1`, identifier(membership.Table), membership.EntityColumn)

	var count int
	if err := set.tx.QueryRow(ctx, query, set.entityID).Scan(&count); err != nil {
		return 0, dberr.Wrap(err, set.target.Resource, "count_membership")
	}
	return count, nil
}

func (set *postgresMembership) SetCounter(ctx context.Context, n int) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2 WHERE id = $1`, identifier(set.target.EntityTable), set.target.CounterColumn)

	if _, err := set.tx.Exec(ctx, query, set.entityID, n); err != nil {
		return dberr.Wrap(err, set.target.Resource, "update_counter")
	}
	return nil
}

// identifier quotes a schema-qualified table name.
func identifier(qualified string) string {
	return pgx.Identifier(strings.Split(qualified, ".")).Sanitize()
}
