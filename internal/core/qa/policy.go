// Copyright (c) 2026 Minbar. All rights reserved.

package qa

import (
	"github.com/minbarhq/minbar/internal/platform/apperr"
	"github.com/minbarhq/minbar/internal/platform/sec"
)

// Guard messages; the conditional writes in the store reuse them when they lose a race.
const (
	msgEditAnswered = "An answered question can no longer be edited"
	msgEditNotOwner = "Only the asker can edit this question"
	msgAnswerRole   = "Only an imam or chief imam can answer questions"
	msgDeleteDenied = "You cannot delete this question"
)

// CanEditQuestion allows the asker to edit while the record is Pending.
//
// An Answered record rejects every actor, the asker included.
func CanEditQuestion(actor sec.Principal, record *QuestionAndAnswer) error {
	if record.IsAnswered {
		return apperr.Forbidden(msgEditAnswered)
	}
	if actor.UserID == "" || actor.UserID != record.AskedBy {
		return apperr.Forbidden(msgEditNotOwner)
	}
	return nil
}

// CanAnswer allows scholars to answer or re-answer, in any state.
func CanAnswer(actor sec.Principal) error {
	if !actor.IsScholar() {
		return apperr.Forbidden(msgAnswerRole)
	}
	return nil
}

// CanDelete allows a chief imam always, and the asker only while Pending.
func CanDelete(actor sec.Principal, record *QuestionAndAnswer) error {
	if actor.IsAdmin() {
		return nil
	}
	if !record.IsAnswered && actor.UserID != "" && actor.UserID == record.AskedBy {
		return nil
	}
	return apperr.Forbidden(msgDeleteDenied)
}
