// Copyright (c) 2025-2026 Hanbit Church
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for session loading,
// admin authorization, and security headers.
package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/hanbit-church/website/internal/authz"
	"github.com/hanbit-church/website/internal/model"
	"github.com/hanbit-church/website/internal/session"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

// Context keys for request-scoped auth state.
const (
	ContextKeySession     ContextKey = "session"
	ContextKeyIsAdmin     ContextKey = "is_admin"
	ContextKeyRequestPath ContextKey = "request_path"
)

// LoadSession resolves the current session and its admin flag into the
// request context before any handler runs. The admin flag is derived
// from the allow-list on every request — never cached across requests
// or sessions — so revoked privilege takes effect on the next click.
// Anonymous requests skip the backend entirely.
func LoadSession(store *session.Store, gate *authz.Gate) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := store.Current(r.Context())
			if sess == nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeySession, sess)
			ctx = context.WithValue(ctx, ContextKeyIsAdmin, gate.IsAdmin(ctx, sess))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin gates admin-only routes. Unauthenticated requests are
// redirected to the login page; authenticated non-admins get 403. The
// check is advisory at this layer — the backend's row-level permission
// check is the real enforcement boundary — but every admin view and
// write route goes through it so non-admins never see the forms.
func RequireAdmin() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if GetSession(r) == nil {
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}

			if !IsAdmin(r) {
				slog.Warn("access denied",
					"status", http.StatusForbidden,
					"method", r.Method,
					"path", r.URL.Path,
					"user_id", GetSession(r).UserID,
					"remote_addr", r.RemoteAddr,
				)
				http.Error(w, "Forbidden: administrator access required", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// GetSession retrieves the current session from the request context.
// Returns nil if no identity is signed in.
func GetSession(r *http.Request) *model.Session {
	sess, ok := r.Context().Value(ContextKeySession).(*model.Session)
	if !ok {
		return nil
	}
	return sess
}

// IsAdmin reports the allow-list check result for this request.
func IsAdmin(r *http.Request) bool {
	isAdmin, ok := r.Context().Value(ContextKeyIsAdmin).(bool)
	return ok && isAdmin
}

// RequestPath stores the request path in the context for logging.
func RequestPath(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), ContextKeyRequestPath, r.URL.Path)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestPath retrieves the request path from the context.
func GetRequestPath(ctx context.Context) string {
	path, ok := ctx.Value(ContextKeyRequestPath).(string)
	if !ok {
		return ""
	}
	return path
}
