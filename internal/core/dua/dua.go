// Copyright (c) 2026 Minbar. All rights reserved.

/*
Package dua implements community prayer (dua) requests.

A member posts a request and others record that they prayed for it. Praying is one-way:
a second prayer by the same user is accepted but does not count again, and there is no
way to withdraw it. Anonymous requests hide the requester from everyone but the requester.
*/
package dua

import "time"

// Field names used in validation details.
const (
	FieldTitle = "title"
	FieldBody  = "body"
)

// Request is a single dua request.
type Request struct {
	ID          string    `json:"id"`
	RequestedBy string    `json:"requested_by,omitempty"`
	Title       string    `json:"title"`
	Body        string    `json:"body"`
	IsAnonymous bool      `json:"is_anonymous"`
	PrayerCount int       `json:"prayer_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// RedactFor returns the request as seen by viewerID (empty for anonymous viewers).
func (request *Request) RedactFor(viewerID string) *Request {
	if !request.IsAnonymous || (viewerID != "" && viewerID == request.RequestedBy) {
		return request
	}
	redacted := *request
	redacted.RequestedBy = ""
	return &redacted
}

// Draft holds the fields of a new request.
type Draft struct {
	Title       string
	Body        string
	IsAnonymous bool
}

// Patch is a partial update. Nil fields are left unchanged.
type Patch struct {
	Title *string
	Body  *string
}

// IsEmpty reports whether the patch changes nothing.
func (patch Patch) IsEmpty() bool {
	return patch.Title == nil && patch.Body == nil
}

// PrayResult is the response of the pray endpoint.
type PrayResult struct {
	PrayerCount int  `json:"prayer_count"`
	Prayed      bool `json:"prayed"`
}
