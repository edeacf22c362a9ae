// Copyright (c) 2025-2026 Hanbit Church
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the backend client, repository,
// session store and provisioning flow. Handlers match these with
// errors.Is and turn them into flash messages; none of them should
// ever escape a request as a panic.
var (
	// ErrNotFound indicates that no record matches the identifier.
	ErrNotFound = errors.New("record not found")

	// ErrBackendUnavailable indicates the hosted backend is not
	// configured or not reachable. Treated as a soft condition: lists
	// render empty and forms are disabled.
	ErrBackendUnavailable = errors.New("backend unavailable")

	// ErrInvalidCredentials indicates a failed sign-in.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrAlreadyRegistered indicates the email already has an identity
	// at the auth provider.
	ErrAlreadyRegistered = errors.New("email already registered")

	// ErrPasswordMismatch indicates secret and confirmation differ.
	ErrPasswordMismatch = errors.New("passwords do not match")

	// ErrPasswordTooShort indicates the secret is below the provider's
	// six character minimum.
	ErrPasswordTooShort = errors.New("password too short")

	// ErrAllowlistInsert indicates provisioning created the identity
	// but failed to insert the allow-list entry. The identity is NOT
	// rolled back; the operator must resolve the orphan out-of-band.
	ErrAllowlistInsert = errors.New("allow-list insert failed after identity creation")
)

// ValidationError describes a draft field that failed validation.
// It is detected locally, before any remote call.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", e.Reason)
}

// IsValidationError reports whether err is (or wraps) a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
