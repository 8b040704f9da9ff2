// Copyright (c) 2026 Minbar. All rights reserved.

package dua

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/minbarhq/minbar/internal/platform/database/schema"
	"github.com/minbarhq/minbar/internal/platform/dberr"
	"github.com/minbarhq/minbar/pkg/pagination"
)

const resource = "Dua request"

var requestColumns = strings.Join(schema.CommunityDuaRequest.Columns(), ", ")

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed dua request store.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// List returns a page of requests, newest first, with the total count.
func (repository *PostgresRepository) List(context context.Context, limit, offset int) ([]*Request, int, error) {
	query := fmt.Sprintf(`
		SELECT %s, COUNT(*) OVER() AS total
		FROM community.duarequest
		ORDER BY createdat DESC, id DESC
		LIMIT $1 OFFSET $2`, requestColumns)

	rows, err := repository.db.Query(context, query, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, resource, "list_dua_requests")
	}
	defer rows.Close()

	requests := []*Request{}
	var total int
	for rows.Next() {
		request := &Request{}
		if err := rows.Scan(append(scanTargets(request), &total)...); err != nil {
			return nil, 0, dberr.Wrap(err, resource, "scan_dua_request")
		}
		requests = append(requests, request)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, resource, "iterate_dua_requests")
	}

	if pagination.PastEnd(len(requests), offset) {
		total, err = repository.count(context)
		if err != nil {
			return nil, 0, err
		}
	}

	return requests, total, nil
}

// count totals the rows behind a page that came back empty past the end.
func (repository *PostgresRepository) count(context context.Context) (int, error) {
	var total int
	query := `SELECT COUNT(*) FROM community.duarequest`
	if err := repository.db.QueryRow(context, query).Scan(&total); err != nil {
		return 0, dberr.Wrap(err, resource, "count_dua_requests")
	}
	return total, nil
}

// FindByID retrieves a request by primary key.
func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Request, error) {
	query := fmt.Sprintf(`SELECT %s FROM community.duarequest WHERE id = $1`, requestColumns)

	request := &Request{}
	if err := repository.db.QueryRow(context, query, id).Scan(scanTargets(request)...); err != nil {
		return nil, dberr.Wrap(err, resource, "find_dua_request")
	}
	return request, nil
}

// Create inserts a new request.
func (repository *PostgresRepository) Create(context context.Context, request *Request) error {
	const query = `
		INSERT INTO community.duarequest (id, requestedby, title, body, isanonymous)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING prayercount, createdat, updatedat`

	err := repository.db.QueryRow(context, query,
		request.ID, request.RequestedBy, request.Title, request.Body, request.IsAnonymous,
	).Scan(&request.PrayerCount, &request.CreatedAt, &request.UpdatedAt)

	return dberr.Wrap(err, resource, "create_dua_request")
}

/*
Update applies a partial update guarded by ownership.

Parameters:
  - context: context.Context
  - id: string
  - ownerID: string
  - patch: Patch

Returns:
  - *Request: The updated request
  - error: Forbidden, NotFound, or storage failures
*/
func (repository *PostgresRepository) Update(context context.Context, id, ownerID string, patch Patch) (*Request, error) {
	query := fmt.Sprintf(`
		UPDATE community.duarequest SET
			title     = COALESCE($3, title),
			body      = COALESCE($4, body),
			updatedat = NOW()
		WHERE id = $1 AND requestedby = $2
		RETURNING %s`, requestColumns)

	request := &Request{}
	err := repository.db.QueryRow(context, query, id, ownerID, patch.Title, patch.Body).Scan(scanTargets(request)...)
	if err != nil {
		return nil, repository.classifyMiss(context, err, id, msgNotOwner, "update_dua_request")
	}
	return request, nil
}

// Delete removes a request when the actor is the requester or an admin.
func (repository *PostgresRepository) Delete(context context.Context, id, actorID string, admin bool) error {
	const query = `DELETE FROM community.duarequest WHERE id = $1 AND ($3 OR requestedby = $2)`

	result, err := repository.db.Exec(context, query, id, actorID, admin)
	if err != nil {
		return dberr.Wrap(err, resource, "delete_dua_request")
	}
	if result.RowsAffected() == 0 {
		return repository.classifyMiss(context, pgx.ErrNoRows, id, msgDeleteDenied, "delete_dua_request")
	}
	return nil
}

func (repository *PostgresRepository) classifyMiss(context context.Context, err error, id, forbidden, action string) error {
	return dberr.ClassifyMiss(err, resource, forbidden, action, func() (bool, error) {
		var exists bool
		const query = `SELECT EXISTS (SELECT 1 FROM community.duarequest WHERE id = $1)`
		err := repository.db.QueryRow(context, query, id).Scan(&exists)
		return exists, err
	})
}

func scanTargets(request *Request) []any {
	return []any{
		&request.ID, &request.RequestedBy, &request.Title, &request.Body, &request.IsAnonymous,
		&request.PrayerCount, &request.CreatedAt, &request.UpdatedAt,
	}
}
