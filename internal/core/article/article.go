// Copyright (c) 2026 Minbar. All rights reserved.

/*
Package article implements long-form articles written by scholars.

Articles are addressed by UUID or by a slug generated from the title at creation. The
slug never changes afterwards so shared links stay valid.
*/
package article

import "time"

// Field names used in validation details.
const (
	FieldTitle         = "title"
	FieldBody          = "body"
	FieldCategory      = "category"
	FieldCoverImageURL = "cover_image_url"
)

// Article is a published piece of writing.
type Article struct {
	ID            string    `json:"id"`
	Slug          string    `json:"slug"`
	Title         string    `json:"title"`
	Body          string    `json:"body"`
	Category      string    `json:"category"`
	CoverImageURL *string   `json:"cover_image_url"`
	AuthorID      string    `json:"author_id"`
	Likes         int       `json:"likes"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Filter narrows the list endpoint.
type Filter struct {
	Category string
	// Query matches title or body, case-insensitively.
	Query string
}

// Draft holds the fields of a new article.
type Draft struct {
	Title         string
	Body          string
	Category      string
	CoverImageURL *string
}

// Patch is a partial update. Nil fields are left unchanged.
type Patch struct {
	Title         *string
	Body          *string
	Category      *string
	CoverImageURL *string
}

// IsEmpty reports whether the patch changes nothing.
func (patch Patch) IsEmpty() bool {
	return patch.Title == nil && patch.Body == nil && patch.Category == nil && patch.CoverImageURL == nil
}

// LikeResult is the response of the like toggle.
type LikeResult struct {
	Likes int  `json:"likes"`
	Liked bool `json:"liked"`
}
