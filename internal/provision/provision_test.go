// Copyright (c) 2025-2026 Hanbit Church
// SPDX-License-Identifier: GPL-3.0-or-later

package provision

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hanbit-church/website/internal/backend"
	"github.com/hanbit-church/website/internal/model"
	"github.com/hanbit-church/website/internal/testutil"
)

func testProvisioner(t *testing.T) (*Provisioner, *testutil.FakeBackend) {
	t.Helper()
	fake := testutil.NewFakeBackend(t)
	return New(backend.New(fake.Config())), fake
}

func TestProvisionLocalChecksMakeNoCalls(t *testing.T) {
	p, fake := testProvisioner(t)
	ctx := context.Background()

	err := p.Provision(ctx, "new@church.kr", "secret123", "different")
	assert.ErrorIs(t, err, model.ErrPasswordMismatch)

	err = p.Provision(ctx, "new@church.kr", "12345", "12345")
	assert.ErrorIs(t, err, model.ErrPasswordTooShort)

	// Mismatch is checked before length: a short mismatched pair
	// reports the mismatch.
	err = p.Provision(ctx, "new@church.kr", "123", "456")
	assert.ErrorIs(t, err, model.ErrPasswordMismatch)

	assert.Equal(t, 0, fake.Requests(), "local validation must not reach the backend")
}

func TestProvisionSuccess(t *testing.T) {
	p, fake := testProvisioner(t)

	err := p.Provision(context.Background(), "new@church.kr", "secret123", "secret123")
	require.NoError(t, err)
	assert.Equal(t, 1, fake.AdminCount(), "allow-list entry inserted")
}

func TestProvisionAlreadyRegistered(t *testing.T) {
	p, fake := testProvisioner(t)
	fake.AddUser("taken@church.kr", "whatever1")

	err := p.Provision(context.Background(), "taken@church.kr", "secret123", "secret123")
	assert.ErrorIs(t, err, model.ErrAlreadyRegistered)
	assert.Equal(t, 0, fake.AdminCount())
}

func TestProvisionAllowlistFailureKeepsIdentity(t *testing.T) {
	p, fake := testProvisioner(t)
	fake.TableStatus = http.StatusInternalServerError // auth still works, tables fail

	err := p.Provision(context.Background(), "orphan@church.kr", "secret123", "secret123")
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrAllowlistInsert)

	// The identity is not rolled back: signing up the same email again
	// reports it as taken.
	fake.TableStatus = 0
	err = p.Provision(context.Background(), "orphan@church.kr", "secret123", "secret123")
	assert.ErrorIs(t, err, model.ErrAlreadyRegistered)
}

func TestProvisionBackendUnavailable(t *testing.T) {
	fake := testutil.NewFakeBackend(t)
	fake.Server.Close() // unreachable from here on
	p := New(backend.New(fake.Config()))

	err := p.Provision(context.Background(), "new@church.kr", "secret123", "secret123")
	assert.ErrorIs(t, err, model.ErrBackendUnavailable)
}
