// Copyright (c) 2026 Minbar. All rights reserved.

package dua

import (
	"github.com/minbarhq/minbar/internal/platform/apperr"
	"github.com/minbarhq/minbar/internal/platform/sec"
)

const (
	msgNotOwner     = "Only the requester can edit this dua request"
	msgDeleteDenied = "Only the requester or a chief imam can delete this dua request"
)

// CanEdit allows only the requester. Chief imams moderate by deleting.
func CanEdit(actor sec.Principal, request *Request) error {
	if actor.UserID == "" || actor.UserID != request.RequestedBy {
		return apperr.Forbidden(msgNotOwner)
	}
	return nil
}

// CanDelete allows the requester or a chief imam.
func CanDelete(actor sec.Principal, request *Request) error {
	if actor.IsAdmin() || (actor.UserID != "" && actor.UserID == request.RequestedBy) {
		return nil
	}
	return apperr.Forbidden(msgDeleteDenied)
}
