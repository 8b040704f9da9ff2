// Copyright (c) 2026 Minbar. All rights reserved.

package article

import (
	"github.com/minbarhq/minbar/internal/platform/apperr"
	"github.com/minbarhq/minbar/internal/platform/sec"
)

const (
	msgAuthorRole = "Only an imam or chief imam can publish articles"
	msgNotAuthor  = "Only the author or a chief imam can modify this article"
)

// CanPublish allows scholars to create articles.
func CanPublish(actor sec.Principal) error {
	if !actor.IsScholar() {
		return apperr.Forbidden(msgAuthorRole)
	}
	return nil
}

// CanModify allows the author or a chief imam to edit or delete an article.
func CanModify(actor sec.Principal, article *Article) error {
	if actor.IsAdmin() {
		return nil
	}
	if actor.UserID != "" && actor.UserID == article.AuthorID {
		return nil
	}
	return apperr.Forbidden(msgNotAuthor)
}
