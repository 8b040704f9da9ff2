// Copyright (c) 2026 Minbar. All rights reserved.

package qa

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

const resource = "Question"

var recordColumns = strings.Join(schema.CommunityQuestionAnswer.Columns(), ", ")

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed Q&A store.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// # Retrieval

/*
List returns a filtered and paginated list of records.

Description: Uses COUNT(*) OVER() so the total comes back with the page.

Parameters:
  - context: context.Context
  - filter: Filter
  - limit: int
  - offset: int

Returns:
  - []*QuestionAndAnswer: Matching records, newest first
  - int: Total record count
  - error: Database retrieval failures
*/
func (repository *PostgresRepository) List(context context.Context, filter Filter, limit, offset int) ([]*QuestionAndAnswer, int, error) {
	where, args := listConditions(filter)

	query := fmt.Sprintf(`
		SELECT %s, COUNT(*) OVER() AS total
		FROM community.questionanswer
		WHERE TRUE%s
		ORDER BY dateasked DESC, id DESC LIMIT $%d OFFSET $%d`, recordColumns, where, len(args)+1, len(args)+2)

	rows, err := repository.db.Query(context, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, resource, "list_questions")
	}
	defer rows.Close()

	records := []*QuestionAndAnswer{}
	var total int
	for rows.Next() {
		record := &QuestionAndAnswer{}
		if err := rows.Scan(append(scanTargets(record), &total)...); err != nil {
			return nil, 0, dberr.Wrap(err, resource, "scan_question")
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, resource, "iterate_questions")
	}

	if pagination.PastEnd(len(records), offset) {
		total, err = repository.count(context, where, args)
		if err != nil {
			return nil, 0, err
		}
	}

	return records, total, nil
}

// listConditions renders the optional filters as AND clauses with positional arguments.
func listConditions(filter Filter) (string, []any) {
	var builder strings.Builder
	args := []any{}

	if filter.Category != "" {
		args = append(args, filter.Category)
		builder.WriteString(fmt.Sprintf(" AND questioncategory = $%d", len(args)))
	}

	if filter.Answered != nil {
		args = append(args, *filter.Answered)
		builder.WriteString(fmt.Sprintf(" AND isanswered = $%d", len(args)))
	}

	return builder.String(), args
}

// count totals the rows behind a page that came back empty past the end.
func (repository *PostgresRepository) count(context context.Context, where string, args []any) (int, error) {
	var total int
	query := `SELECT COUNT(*) FROM community.questionanswer WHERE TRUE` + where
	if err := repository.db.QueryRow(context, query, args...).Scan(&total); err != nil {
		return 0, dberr.Wrap(err, resource, "count_questions")
	}
	return total, nil
}

// FindByID retrieves a single record by primary key.
func (repository *PostgresRepository) FindByID(context context.Context, id string) (*QuestionAndAnswer, error) {
	query := fmt.Sprintf(`SELECT %s FROM community.questionanswer WHERE id = $1`, recordColumns)

	record := &QuestionAndAnswer{}
	if err := repository.db.QueryRow(context, query, id).Scan(scanTargets(record)...); err != nil {
		return nil, dberr.Wrap(err, resource, "find_question")
	}
	return record, nil
}

// # Mutation

/*
Create inserts a new Pending record.

Parameters:
  - context: context.Context
  - record: *QuestionAndAnswer (ID, AskedBy, category and text set)

Returns:
  - error: Persistence failures
*/
func (repository *PostgresRepository) Create(context context.Context, record *QuestionAndAnswer) error {
	const query = `
		INSERT INTO community.questionanswer (id, askedby, questioncategory, question, dateasked)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING dateasked, isanswered, likes`

	err := repository.db.QueryRow(context, query,
		record.ID, record.AskedBy, record.QuestionCategory, record.Question,
	).Scan(&record.DateAsked, &record.IsAnswered, &record.Likes)

	return dberr.Wrap(err, resource, "create_question")
}

/*
UpdateQuestion edits the text only while the record is Pending and owned by askerID.

Description: The ownership and state guard is part of the WHERE clause, so an answer
that lands between the service's check and this write makes the update match nothing.

Parameters:
  - context: context.Context
  - id: string
  - askerID: string
  - text: string

Returns:
  - *QuestionAndAnswer: Updated record
  - error: Forbidden, NotFound, or storage failures
*/
func (repository *PostgresRepository) UpdateQuestion(context context.Context, id, askerID, text string) (*QuestionAndAnswer, error) {
	query := fmt.Sprintf(`
		UPDATE community.questionanswer SET question = $3
		WHERE id = $1 AND askedby = $2 AND isanswered = FALSE
		RETURNING %s`, recordColumns)

	record := &QuestionAndAnswer{}
	err := repository.db.QueryRow(context, query, id, askerID, text).Scan(scanTargets(record)...)
	if err != nil {
		return nil, repository.classifyMiss(context, err, id, msgEditAnswered, "update_question")
	}
	return record, nil
}

/*
SetAnswer answers or re-answers a record.

Description: answer, answeredby and dateanswered are assigned in one statement so the
all-or-nothing invariant (also enforced by a CHECK constraint) always holds.

Parameters:
  - context: context.Context
  - id: string
  - answererID: string
  - text: string

Returns:
  - *QuestionAndAnswer: Updated record
  - error: NotFound or storage failures
*/
func (repository *PostgresRepository) SetAnswer(context context.Context, id, answererID, text string) (*QuestionAndAnswer, error) {
	query := fmt.Sprintf(`
		UPDATE community.questionanswer
		SET answer = $3, answeredby = $2, dateanswered = NOW(), isanswered = TRUE
		WHERE id = $1
		RETURNING %s`, recordColumns)

	record := &QuestionAndAnswer{}
	err := repository.db.QueryRow(context, query, id, answererID, text).Scan(scanTargets(record)...)
	if err != nil {
		return nil, dberr.Wrap(err, resource, "answer_question")
	}
	return record, nil
}

/*
Delete removes a record when the caller is admin, or is the asker of a Pending record.

Parameters:
  - context: context.Context
  - id: string
  - actorID: string
  - admin: bool

Returns:
  - error: Forbidden, NotFound, or storage failures
*/
func (repository *PostgresRepository) Delete(context context.Context, id, actorID string, admin bool) error {
	const query = `
		DELETE FROM community.questionanswer
		WHERE id = $1 AND ($3 OR (askedby = $2 AND isanswered = FALSE))`

	result, err := repository.db.Exec(context, query, id, actorID, admin)
	if err != nil {
		return dberr.Wrap(err, resource, "delete_question")
	}
	if result.RowsAffected() == 0 {
		return repository.classifyMiss(context, pgx.ErrNoRows, id, msgDeleteDenied, "delete_question")
	}
	return nil
}

// classifyMiss turns a conditional write that matched no row into NotFound or Forbidden.
func (repository *PostgresRepository) classifyMiss(context context.Context, err error, id, forbidden, action string) error {
	return dberr.ClassifyMiss(err, resource, forbidden, action, func() (bool, error) {
		var exists bool
		const query = `SELECT EXISTS (SELECT 1 FROM community.questionanswer WHERE id = $1)`
		err := repository.db.QueryRow(context, query, id).Scan(&exists)
		return exists, err
	})
}

// scanTargets lists the destinations for [schema.CommunityQuestionAnswer] columns.
func scanTargets(record *QuestionAndAnswer) []any {
	return []any{
		&record.ID, &record.AskedBy, &record.QuestionCategory, &record.Question, &record.DateAsked,
		&record.IsAnswered, &record.AnsweredBy, &record.Answer, &record.DateAnswered, &record.Likes,
	}
}
