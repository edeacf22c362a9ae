// Copyright (c) 2025-2026 Hanbit Church
// SPDX-License-Identifier: GPL-3.0-or-later

// Package provision creates new admin accounts: an authenticated
// identity at the auth provider, then an allow-list entry referencing
// it. The two steps are sequential and non-transactional; see
// Provisioner.Provision for the failure window.
package provision

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hanbit-church/website/internal/backend"
	"github.com/hanbit-church/website/internal/model"
)

// MinPasswordLen is the auth provider's password minimum. Checked
// locally so an invalid form never costs a round-trip.
const MinPasswordLen = 6

// adminTable is the backend table holding the allow-list.
const adminTable = "admin_users"

// Provisioner creates admin accounts through the backend.
type Provisioner struct {
	client *backend.Client
}

// New creates a Provisioner.
func New(client *backend.Client) *Provisioner {
	return &Provisioner{client: client}
}

// Provision validates the secret locally, creates the identity, then
// inserts the allow-list entry. The allow-list insert is attempted
// only after the identity exists. If the insert fails the identity is
// NOT rolled back — the anon-key client holds no privileged API to
// delete identities — leaving an authenticated account with no
// privilege; the error wraps model.ErrAllowlistInsert so the operator
// can resolve the orphan out-of-band.
func (p *Provisioner) Provision(ctx context.Context, email, secret, confirmSecret string) error {
	if secret != confirmSecret {
		return model.ErrPasswordMismatch
	}
	if len(secret) < MinPasswordLen {
		return model.ErrPasswordTooShort
	}

	identity, err := p.client.SignUp(ctx, email, secret)
	if err != nil {
		return err
	}
	if identity.ID == "" {
		return fmt.Errorf("identity creation returned no identifier")
	}

	entry := model.AdminEntry{ID: identity.ID, Email: email, IsAdmin: true}
	if err := p.client.Insert(ctx, "", adminTable, []model.AdminEntry{entry}, nil); err != nil {
		slog.Error("allow-list insert failed; identity left without privilege",
			"error", err, "user_id", identity.ID, "email", email)
		return fmt.Errorf("%w: %v", model.ErrAllowlistInsert, err)
	}

	slog.Info("admin account provisioned", "user_id", identity.ID, "email", email)
	return nil
}
