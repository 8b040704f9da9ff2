// Copyright (c) 2026 Minbar. All rights reserved.

/*
Package qa implements community questions answered by scholars.

A record moves one way, from Pending to Answered:

  - Pending: the asker may edit the question text or delete it; a chief imam may delete it.
  - Answered: the question text is frozen, only a chief imam may delete it, and any
    scholar (imam or chief imam) may revise the answer.

Guards are pure functions (policy.go) evaluated before any write, and every write is a
single conditional statement so a state change between the read and the write is
detected rather than overwritten.
*/
package qa

import "time"

// State is the lifecycle position of a record.
type State string

const (
	StatePending  State = "pending"
	StateAnswered State = "answered"
)

// QuestionAndAnswer is one question and, once answered, its answer.
//
// JSON names follow the public client contract. AnsweredBy, Answer and DateAnswered
// are either all null or all set.
type QuestionAndAnswer struct {
	ID               string     `json:"id"`
	AskedBy          string     `json:"askedBy"`
	QuestionCategory string     `json:"questionCategory"`
	Question         string     `json:"question"`
	DateAsked        time.Time  `json:"dateAsked"`
	IsAnswered       bool       `json:"isAnswered"`
	AnsweredBy       *string    `json:"answeredBy"`
	Answer           *string    `json:"answer"`
	DateAnswered     *time.Time `json:"dateAnswered"`
	Likes            int        `json:"likes"`
}

// State derives the lifecycle state from IsAnswered.
func (record *QuestionAndAnswer) State() State {
	if record.IsAnswered {
		return StateAnswered
	}
	return StatePending
}

// Filter narrows the list endpoint.
type Filter struct {
	Category string
	// Answered filters by state; nil returns both.
	Answered *bool
}

// # Commands

// AskQuestion creates a new Pending record.
type AskQuestion struct {
	Category string
	Text     string
}

// EditQuestion replaces the question text of a Pending record.
type EditQuestion struct {
	Text string
}

// SubmitAnswer sets or revises the answer.
type SubmitAnswer struct {
	Text string
}

// LikeResult is the response of the like toggle.
type LikeResult struct {
	Likes int  `json:"likes"`
	Liked bool `json:"liked"`
}
