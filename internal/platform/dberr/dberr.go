// Copyright (c) 2026 Minbar. All rights reserved.

// Package dberr bridges low-level pgx errors and [apperr.AppError].
//
// Repositories call [Wrap] on every error they return so services and handlers never see
// driver types.
package dberr

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/minbarhq/minbar/internal/platform/apperr"
)

// SQLSTATE codes the API distinguishes.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
	codeNotNullViolation    = "23502"
	codeInvalidTextRepr     = "22P02"
)

// Wrap classifies a database error.
//
//   - pgx.ErrNoRows           -> 404 "<resource> not found"
//   - unique violation        -> 409
//   - FK / check / not-null   -> 400
//   - malformed UUID literal  -> 404 (an ID that cannot exist)
//   - anything else           -> 500 with the cause kept for logging
//
// Errors that already are [*apperr.AppError] pass through untouched.
func Wrap(err error, resource, action string) error {
	if err == nil {
		return nil
	}

	if apperr.As(err) != nil {
		return err
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound(resource)
	}

	var pgError *pgconn.PgError
	if errors.As(err, &pgError) {
		switch pgError.Code {
		case codeUniqueViolation:
			return apperr.Conflict(resource + " already exists")
		case codeForeignKeyViolation:
			return apperr.ValidationError("Referenced record does not exist")
		case codeCheckViolation, codeNotNullViolation:
			return apperr.ValidationError("Invalid " + resource + " data")
		case codeInvalidTextRepr:
			return apperr.NotFound(resource)
		}
	}

	return apperr.Internal(fmt.Errorf("%s: %w", action, err))
}

// ConstraintName returns the violated constraint of a pgx error, or "".
func ConstraintName(err error) string {
	var pgError *pgconn.PgError
	if errors.As(err, &pgError) {
		return pgError.ConstraintName
	}
	return ""
}

// ClassifyMiss resolves a guarded write (UPDATE/DELETE ... WHERE id AND <guard>) that matched no row.
//
// Any error other than pgx.ErrNoRows goes through [Wrap]. Otherwise exists reports whether the row
// is still present: a missing row is a 404, a present one means the guard rejected the caller (403).
func ClassifyMiss(err error, resource, forbidden, action string, exists func() (bool, error)) error {
	if !errors.Is(err, pgx.ErrNoRows) {
		return Wrap(err, resource, action)
	}

	found, lookupErr := exists()
	if lookupErr != nil {
		return Wrap(lookupErr, resource, action)
	}
	if !found {
		return apperr.NotFound(resource)
	}
	return apperr.Forbidden(forbidden)
}
