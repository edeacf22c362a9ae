// Copyright (c) 2025-2026 Hanbit Church
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/hanbit-church/website/internal/i18n"
	"github.com/hanbit-church/website/internal/middleware"
	"github.com/hanbit-church/website/internal/model"
	"github.com/hanbit-church/website/internal/render"
	"github.com/hanbit-church/website/internal/session"
)

// AuthHandler handles the sign-in and sign-out routes.
type AuthHandler struct {
	store            *session.Store
	renderer         *render.Renderer
	backendAvailable bool
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(store *session.Store, renderer *render.Renderer, backendAvailable bool) *AuthHandler {
	return &AuthHandler{
		store:            store,
		renderer:         renderer,
		backendAvailable: backendAvailable,
	}
}

// LoginForm renders the login page. Already-authenticated users are
// redirected to the admin dashboard.
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if middleware.GetSession(r) != nil {
		http.Redirect(w, r, redirectAdmin, http.StatusSeeOther)
		return
	}

	lang := pageLang(r)
	data := baseData(r, i18n.T(lang, "auth.login_title"))
	data.Data = struct{ Degraded bool }{Degraded: !h.backendAvailable}

	if err := h.renderer.Render(w, r, "auth/login", data); err != nil {
		logAndInternalError(w, "failed to render login page", "error", err)
	}
}

// Login handles the login form submission. Credential verification is
// the auth provider's job; this handler only classifies the outcome
// into a flash message.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	lang := pageLang(r)

	if !parseFormOrRedirect(w, r, h.renderer, redirectLogin) {
		return
	}

	email := r.FormValue("email")
	password := r.FormValue("password")

	if email == "" || password == "" {
		flashError(w, r, h.renderer, redirectLogin, i18n.T(lang, "auth.email_password_required"))
		return
	}

	if err := h.store.SignIn(r.Context(), email, password); err != nil {
		switch {
		case errors.Is(err, model.ErrInvalidCredentials):
			flashError(w, r, h.renderer, redirectLogin, i18n.T(lang, "auth.invalid_credentials"))
		case errors.Is(err, model.ErrBackendUnavailable):
			flashError(w, r, h.renderer, redirectLogin, i18n.T(lang, "auth.backend_unavailable"))
		default:
			slog.Error("login failed", "error", err, "email", email)
			flashError(w, r, h.renderer, redirectLogin, i18n.T(lang, "auth.login_error"))
		}
		return
	}

	http.Redirect(w, r, redirectAdmin, http.StatusSeeOther)
}

// Logout signs the user out and returns to the homepage. Sign-out is
// idempotent, so a GET from a bookmarked link behaves the same as the
// header form's POST.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.store.SignOut(r.Context())
	flashSuccess(w, r, h.renderer, redirectHome, i18n.T(pageLang(r), "auth.logged_out"))
}
