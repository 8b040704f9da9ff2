// Copyright (c) 2026 Minbar. All rights reserved.

package auth

import "time"

// # Authentication Constraints

const (
	// AccessTokenTTL is how long a bearer access token stays valid.
	AccessTokenTTL = 15 * time.Minute

	// MinPasswordLength is the shortest accepted password.
	MinPasswordLength = 8

	// MaxPasswordLength is bcrypt's input limit in bytes.
	MaxPasswordLength = 72

	// MinUsernameLength and MaxUsernameLength bound usernames.
	MinUsernameLength = 3
	MaxUsernameLength = 32
)
