// Copyright (c) 2026 Minbar. All rights reserved.

package account

import (
	"context"
	"log/slog"
	"strings"

	"github.com/minbarhq/minbar/internal/platform/apperr"
	"github.com/minbarhq/minbar/internal/platform/ctxutil"
	"github.com/minbarhq/minbar/internal/platform/sec"
	"github.com/minbarhq/minbar/internal/users/auth"
)

// Service implements profile and role use cases.
type Service struct {
	accountRepository Repository
	sessions          SessionRevoker
}

// NewService constructs a new account [Service].
func NewService(repository Repository, sessions SessionRevoker) *Service {
	return &Service{accountRepository: repository, sessions: sessions}
}

// GetProfile returns the full private profile of userID.
func (service *Service) GetProfile(context context.Context, userID string) (*auth.User, error) {
	return service.accountRepository.FindByID(context, userID)
}

// GetPublicProfile returns the public view of userID.
func (service *Service) GetPublicProfile(context context.Context, userID string) (*auth.PublicProfile, error) {
	user, err := service.accountRepository.FindByID(context, userID)
	if err != nil {
		return nil, err
	}
	return user.Public(), nil
}

/*
UpdateProfile applies a partial set of changes to the caller's profile.

Parameters:
  - context: context.Context
  - userID: string
  - update: ProfileUpdate (validated for shape)

Returns:
  - *auth.User: The updated profile
  - error: ValidationError when nothing would change, NotFound, or storage failures
*/
func (service *Service) UpdateProfile(context context.Context, userID string, update ProfileUpdate) (*auth.User, error) {
	if update.IsEmpty() {
		return nil, apperr.ValidationError("No profile fields to update")
	}

	if update.DisplayName != nil {
		trimmed := strings.TrimSpace(*update.DisplayName)
		update.DisplayName = &trimmed
	}

	user, err := service.accountRepository.UpdateProfile(context, userID, update)
	if err != nil {
		return nil, err
	}

	ctxutil.GetLogger(context).Info("user_profile_updated", slog.String("user_id", userID))
	return user, nil
}

/*
ChangeRole promotes or demotes an account. Only a chief imam may do this.

Description: Sessions carry the role captured at login, so every session of the
target account is revoked; the new role applies from its next login. Revocation runs
before the update, and a failure there aborts with nothing changed. A second pass after
the update catches logins that slipped in between; its failure is only logged since the
role change has already been stored. A chief imam cannot change their own role, which
keeps at least one administrator in place.

Parameters:
  - context: context.Context
  - actor: sec.Principal
  - targetID: string
  - role: sec.UserRole

Returns:
  - *auth.User: The updated account
  - error: Forbidden, ValidationError, NotFound, or storage failures
*/
func (service *Service) ChangeRole(context context.Context, actor sec.Principal, targetID string, role sec.UserRole) (*auth.User, error) {
	if !actor.IsAdmin() {
		return nil, apperr.Forbidden("Only a chief imam can change roles")
	}
	if !role.Valid() {
		return nil, apperr.ValidationError("Validation failed", apperr.FieldError{
			Field:   "role",
			Message: "Must be one of: community, imam, chief-imam",
		})
	}
	if actor.UserID == targetID {
		return nil, apperr.Forbidden("You cannot change your own role")
	}

	if _, err := service.accountRepository.FindByID(context, targetID); err != nil {
		return nil, err
	}

	logger := ctxutil.GetLogger(context)

	revoked, err := service.sessions.DestroyAll(context, targetID)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	user, err := service.accountRepository.UpdateRole(context, targetID, role)
	if err != nil {
		return nil, err
	}

	if late, err := service.sessions.DestroyAll(context, targetID); err != nil {
		logger.Warn("role_change_session_sweep_failed",
			slog.String("target_id", targetID),
			slog.Any("error", err),
		)
	} else {
		revoked += late
	}

	logger.Info("user_role_changed",
		slog.String("target_id", targetID),
		slog.String("role", string(role)),
		slog.Int("sessions_revoked", revoked),
	)
	return user, nil
}
