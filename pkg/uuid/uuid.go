// Copyright (c) 2026 Minbar. All rights reserved.

/*
Package uuid provides the time-ordered identifiers used as primary keys.

Every row created by the API (accounts, questions, articles, dua requests) gets a
UUIDv7 so that primary keys sort by creation time in PostgreSQL B-tree indexes.
*/
package uuid

import "github.com/google/uuid"

// New generates a new UUIDv7 string.
//
// It panics only when the OS entropy source fails, which is unrecoverable.
func New() string {
	id, err := uuid.NewV7()
	if err != nil {
		panic("uuid: failed to generate UUIDv7: " + err.Error())
	}
	return id.String()
}
