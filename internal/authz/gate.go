// Copyright (c) 2025-2026 Hanbit Church
// SPDX-License-Identifier: GPL-3.0-or-later

// Package authz derives administrator status from the admin allow-list
// stored in the hosted backend. The gate is a UX convenience at this
// layer: the authoritative enforcement boundary is the backend's own
// row-level permission check on every write.
package authz

import (
	"context"
	"log/slog"

	"github.com/hanbit-church/website/internal/backend"
	"github.com/hanbit-church/website/internal/model"
)

// adminTable is the backend table holding the allow-list.
const adminTable = "admin_users"

// Gate answers "is this session an administrator".
type Gate struct {
	client *backend.Client
}

// NewGate creates an authorization gate over the backend client.
func NewGate(client *backend.Client) *Gate {
	return &Gate{client: client}
}

// IsAdmin reports whether the session's user identifier appears in the
// admin allow-list. It queries the backend on every call — membership
// can change while a session is alive, so the answer is never cached
// across requests or sessions. Absence of proof is never conflated
// with an error that grants privilege: a nil session, a missing entry,
// and an unreachable backend all yield false, never an error.
func (g *Gate) IsAdmin(ctx context.Context, sess *model.Session) bool {
	if sess == nil || sess.UserID == "" {
		return false
	}

	var entries []model.AdminEntry
	err := g.client.Select(ctx, sess.AccessToken, adminTable,
		[]backend.Filter{backend.Eq("id", sess.UserID)}, "", &entries)
	if err != nil {
		slog.Warn("admin check failed, denying", "error", err, "user_id", sess.UserID)
		return false
	}

	return len(entries) > 0 && entries[0].IsAdmin
}
