// Copyright (c) 2026 Minbar. All rights reserved.

package article

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/minbarhq/minbar/internal/platform/apperr"
	"github.com/minbarhq/minbar/internal/platform/database/schema"
	"github.com/minbarhq/minbar/internal/platform/dberr"
	"github.com/minbarhq/minbar/pkg/pagination"
)

const (
	resource = "Article"

	constraintSlug = "article_slug_key"
)

// ErrSlugTaken is returned by Create when the slug already belongs to another article.
var ErrSlugTaken = apperr.Conflict("An article with this slug already exists")

var articleColumns = strings.Join(schema.CommunityArticle.Columns(), ", ")

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed article store.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// # Retrieval

/*
List returns a filtered and paginated list of articles, newest first.

Parameters:
  - context: context.Context
  - filter: Filter
  - limit: int
  - offset: int

Returns:
  - []*Article: The page of articles
  - int: Total matching count
  - error: Database retrieval failures
*/
func (repository *PostgresRepository) List(context context.Context, filter Filter, limit, offset int) ([]*Article, int, error) {
	where, args := listConditions(filter)

	query := fmt.Sprintf(`
		SELECT %s, COUNT(*) OVER() AS total
		FROM community.article
		WHERE TRUE%s
		ORDER BY createdat DESC, id DESC LIMIT $%d OFFSET $%d`, articleColumns, where, len(args)+1, len(args)+2)

	rows, err := repository.db.Query(context, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, resource, "list_articles")
	}
	defer rows.Close()

	articles := []*Article{}
	var total int
	for rows.Next() {
		article := &Article{}
		if err := rows.Scan(append(scanTargets(article), &total)...); err != nil {
			return nil, 0, dberr.Wrap(err, resource, "scan_article")
		}
		articles = append(articles, article)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, resource, "iterate_articles")
	}

	if pagination.PastEnd(len(articles), offset) {
		total, err = repository.count(context, where, args)
		if err != nil {
			return nil, 0, err
		}
	}

	return articles, total, nil
}

// listConditions renders the optional filters as AND clauses with positional arguments.
func listConditions(filter Filter) (string, []any) {
	var builder strings.Builder
	args := []any{}

	if filter.Category != "" {
		args = append(args, filter.Category)
		builder.WriteString(fmt.Sprintf(" AND category = $%d", len(args)))
	}

	if filter.Query != "" {
		args = append(args, "%"+escapeLike(filter.Query)+"%")
		builder.WriteString(fmt.Sprintf(" AND (title ILIKE $%d OR body ILIKE $%d)", len(args), len(args)))
	}

	return builder.String(), args
}

// count totals the rows behind a page that came back empty past the end.
func (repository *PostgresRepository) count(context context.Context, where string, args []any) (int, error) {
	var total int
	query := `SELECT COUNT(*) FROM community.article WHERE TRUE` + where
	if err := repository.db.QueryRow(context, query, args...).Scan(&total); err != nil {
		return 0, dberr.Wrap(err, resource, "count_articles")
	}
	return total, nil
}

// FindByID retrieves an article by primary key.
func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Article, error) {
	return repository.findOne(context, "id", id)
}

// FindBySlug retrieves an article by its URL slug.
func (repository *PostgresRepository) FindBySlug(context context.Context, slug string) (*Article, error) {
	return repository.findOne(context, "slug", slug)
}

func (repository *PostgresRepository) findOne(context context.Context, column, value string) (*Article, error) {
	query := fmt.Sprintf(`SELECT %s FROM community.article WHERE %s = $1`, articleColumns, column)

	article := &Article{}
	if err := repository.db.QueryRow(context, query, value).Scan(scanTargets(article)...); err != nil {
		return nil, dberr.Wrap(err, resource, "find_article")
	}
	return article, nil
}

// # Mutation

/*
Create inserts a new article.

Returns:
  - error: [ErrSlugTaken] on a slug collision, or other persistence failures
*/
func (repository *PostgresRepository) Create(context context.Context, article *Article) error {
	const query = `
		INSERT INTO community.article (id, slug, title, body, category, coverimageurl, authorid)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7)
		RETURNING likes, createdat, updatedat`

	err := repository.db.QueryRow(context, query,
		article.ID, article.Slug, article.Title, article.Body, article.Category, article.CoverImageURL, article.AuthorID,
	).Scan(&article.Likes, &article.CreatedAt, &article.UpdatedAt)

	if err != nil && dberr.ConstraintName(err) == constraintSlug {
		return ErrSlugTaken
	}
	return dberr.Wrap(err, resource, "create_article")
}

/*
Update applies a partial update when the actor is the author or an admin.

Description: Nil patch fields keep their value; an empty cover image clears it.

Parameters:
  - context: context.Context
  - id: string
  - actorID: string
  - admin: bool
  - patch: Patch

Returns:
  - *Article: The updated article
  - error: Forbidden, NotFound, or storage failures
*/
func (repository *PostgresRepository) Update(context context.Context, id, actorID string, admin bool, patch Patch) (*Article, error) {
	query := fmt.Sprintf(`
		UPDATE community.article SET
			title         = COALESCE($4, title),
			body          = COALESCE($5, body),
			category      = COALESCE($6, category),
			coverimageurl = NULLIF(COALESCE($7, coverimageurl), ''),
			updatedat     = NOW()
		WHERE id = $1 AND ($3 OR authorid = $2)
		RETURNING %s`, articleColumns)

	article := &Article{}
	err := repository.db.QueryRow(context, query,
		id, actorID, admin, patch.Title, patch.Body, patch.Category, patch.CoverImageURL,
	).Scan(scanTargets(article)...)
	if err != nil {
		return nil, repository.classifyMiss(context, err, id, "update_article")
	}
	return article, nil
}

// Delete removes an article when the actor is the author or an admin.
func (repository *PostgresRepository) Delete(context context.Context, id, actorID string, admin bool) error {
	const query = `DELETE FROM community.article WHERE id = $1 AND ($3 OR authorid = $2)`

	result, err := repository.db.Exec(context, query, id, actorID, admin)
	if err != nil {
		return dberr.Wrap(err, resource, "delete_article")
	}
	if result.RowsAffected() == 0 {
		return repository.classifyMiss(context, pgx.ErrNoRows, id, "delete_article")
	}
	return nil
}

// classifyMiss turns a guarded write that matched no row into NotFound or Forbidden.
func (repository *PostgresRepository) classifyMiss(context context.Context, err error, id, action string) error {
	return dberr.ClassifyMiss(err, resource, msgNotAuthor, action, func() (bool, error) {
		var exists bool
		const query = `SELECT EXISTS (SELECT 1 FROM community.article WHERE id = $1)`
		err := repository.db.QueryRow(context, query, id).Scan(&exists)
		return exists, err
	})
}

func scanTargets(article *Article) []any {
	return []any{
		&article.ID, &article.Slug, &article.Title, &article.Body, &article.Category, &article.CoverImageURL,
		&article.AuthorID, &article.Likes, &article.CreatedAt, &article.UpdatedAt,
	}
}

// escapeLike neutralizes LIKE wildcards in user input.
func escapeLike(value string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(value)
}
