// Copyright (c) 2025-2026 Hanbit Church
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Session is the live authenticated identity as established by the
// hosted auth provider. The admin flag is NOT stored here: allow-list
// membership can change while a session is alive, so it is re-derived
// by the authorization gate on every check.
type Session struct {
	UserID      string `json:"user_id"`
	Email       string `json:"email"`
	AccessToken string `json:"-"` // never expose in JSON or logs
}

// Identity is a user record as returned by the auth provider.
type Identity struct {
	ID           string    `json:"id"` // uuid
	Email        string    `json:"email"`
	CreatedAt    time.Time `json:"created_at"`
	LastSignInAt time.Time `json:"last_sign_in_at"`
}

// AdminEntry is a row of the admin allow-list. Presence of an entry is
// the sole source of truth for administrator privilege.
type AdminEntry struct {
	ID      string `json:"id"` // auth identity uuid
	Email   string `json:"email"`
	IsAdmin bool   `json:"is_admin"`
}
