// Copyright (c) 2026 Minbar. All rights reserved.

package qa

import "context"

// # Question & Answer Data Access

// Repository defines persistence for Q&A records.
//
// The mutating methods carry their guard in the statement itself and report a
// lost race as Forbidden (record exists) or NotFound (record gone).
type Repository interface {

	/*
		List returns a filtered page of records, newest first, and the total count.

		Parameters:
		  - context: context.Context
		  - filter: Filter
		  - limit: int
		  - offset: int
	*/
	List(context context.Context, filter Filter, limit, offset int) ([]*QuestionAndAnswer, int, error)

	// FindByID retrieves one record; NotFound if missing.
	FindByID(context context.Context, id string) (*QuestionAndAnswer, error)

	// Create inserts a Pending record and fills the server-assigned fields.
	Create(context context.Context, record *QuestionAndAnswer) error

	/*
		UpdateQuestion replaces the text if the record is still Pending and owned by askerID.

		Returns:
		  - *QuestionAndAnswer: Updated record
		  - error: Forbidden if the guard no longer holds, NotFound if missing
	*/
	UpdateQuestion(context context.Context, id, askerID, text string) (*QuestionAndAnswer, error)

	/*
		SetAnswer writes answer, answeredBy and dateAnswered together and marks the record Answered.

		Returns:
		  - *QuestionAndAnswer: Updated record
		  - error: NotFound if missing
	*/
	SetAnswer(context context.Context, id, answererID, text string) (*QuestionAndAnswer, error)

	/*
		Delete removes the record if admin is true, or if it is Pending and owned by actorID.

		Returns:
		  - error: Forbidden if the guard no longer holds, NotFound if missing
	*/
	Delete(context context.Context, id, actorID string, admin bool) error
}
