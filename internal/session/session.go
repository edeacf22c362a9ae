// Copyright (c) 2025-2026 Hanbit Church
// SPDX-License-Identifier: GPL-3.0-or-later

// Package session holds the current authenticated identity. Credential
// verification is delegated to the hosted auth provider; this package
// only keeps the resulting identity and access token in a server-side
// session cookie.
package session

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/hanbit-church/website/internal/backend"
	"github.com/hanbit-church/website/internal/model"
)

// Session keys for the stored identity.
const (
	KeyUserID      = "user_id"
	KeyUserEmail   = "user_email"
	KeyAccessToken = "access_token"
)

// NewManager creates a session manager backed by the in-memory store.
// There is no local database to persist sessions into; a restart signs
// everyone out, which is acceptable for an admin area this small.
func NewManager(isDev bool) *scs.SessionManager {
	sm := scs.New()

	sm.Lifetime = 24 * time.Hour
	sm.Cookie.HttpOnly = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Secure = !isDev // Secure cookies in production only

	return sm
}

// Store exposes sign-in, sign-out and the "who am I" query over the
// scs session and the backend auth API. Handlers receive a *Store by
// injection; there is no ambient singleton.
type Store struct {
	sm     *scs.SessionManager
	client *backend.Client
}

// NewStore creates a session store.
func NewStore(sm *scs.SessionManager, client *backend.Client) *Store {
	return &Store{sm: sm, client: client}
}

// Manager returns the underlying scs manager for middleware wiring.
func (s *Store) Manager() *scs.SessionManager {
	return s.sm
}

// SignIn verifies credentials with the auth provider and, on success,
// establishes the session. The session token is renewed first to
// prevent session fixation. Errors are classified:
// model.ErrInvalidCredentials, model.ErrBackendUnavailable, or other.
func (s *Store) SignIn(ctx context.Context, email, password string) error {
	token, err := s.client.SignInWithPassword(ctx, email, password)
	if err != nil {
		return err
	}

	if err := s.sm.RenewToken(ctx); err != nil {
		return err
	}
	s.sm.Put(ctx, KeyUserID, token.User.ID)
	s.sm.Put(ctx, KeyUserEmail, token.User.Email)
	s.sm.Put(ctx, KeyAccessToken, token.AccessToken)

	slog.Info("user signed in", "user_id", token.User.ID, "email", token.User.Email)
	return nil
}

// SignOut destroys the session unconditionally. The remote token
// revocation is best-effort: an expired token or unreachable backend
// never blocks a local sign-out, so the call is idempotent.
func (s *Store) SignOut(ctx context.Context) {
	userID := s.sm.GetString(ctx, KeyUserID)
	token := s.sm.GetString(ctx, KeyAccessToken)

	if token != "" {
		if err := s.client.SignOut(ctx, token); err != nil && !errors.Is(err, model.ErrBackendUnavailable) {
			slog.Debug("remote sign-out failed", "error", err)
		}
	}

	if err := s.sm.Destroy(ctx); err != nil {
		slog.Error("session destroy error", "error", err)
	}
	if userID != "" {
		slog.Info("user signed out", "user_id", userID)
	}
}

// Current returns the session for the request context, or nil when no
// identity is signed in.
func (s *Store) Current(ctx context.Context) *model.Session {
	userID := s.sm.GetString(ctx, KeyUserID)
	if userID == "" {
		return nil
	}
	return &model.Session{
		UserID:      userID,
		Email:       s.sm.GetString(ctx, KeyUserEmail),
		AccessToken: s.sm.GetString(ctx, KeyAccessToken),
	}
}
