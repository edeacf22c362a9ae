// Copyright (c) 2025-2026 Hanbit Church
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/hanbit-church/website/internal/i18n"
	"github.com/hanbit-church/website/internal/model"
	"github.com/hanbit-church/website/internal/provision"
	"github.com/hanbit-church/website/internal/render"
	"github.com/hanbit-church/website/internal/repo"
)

// AdminHandler serves the admin dashboard and the admin provisioning
// form.
type AdminHandler struct {
	posts       *repo.Posts
	provisioner *provision.Provisioner
	renderer    *render.Renderer
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(posts *repo.Posts, provisioner *provision.Provisioner, renderer *render.Renderer) *AdminHandler {
	return &AdminHandler{
		posts:       posts,
		provisioner: provisioner,
		renderer:    renderer,
	}
}

// dashboardData is the template payload for the admin dashboard.
type dashboardData struct {
	Counts     map[model.Category]int
	Total      int
	Categories []model.Category
}

// Dashboard renders per-board post counts and quick links. A backend
// failure renders an empty dashboard rather than a 500; the admin can
// still reach the boards from here.
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	counts, total, err := h.posts.CountByCategory(r.Context())
	if err != nil {
		slog.Error("failed to count posts for dashboard", "error", err)
		counts = make(map[model.Category]int)
	}

	data := baseData(r, i18n.T(pageLang(r), "admin.dashboard"))
	data.Data = dashboardData{
		Counts:     counts,
		Total:      total,
		Categories: model.Categories(),
	}

	if err := h.renderer.Render(w, r, "admin/dashboard", data); err != nil {
		logAndInternalError(w, "failed to render dashboard", "error", err)
	}
}

// SignupForm renders the admin provisioning form.
func (h *AdminHandler) SignupForm(w http.ResponseWriter, r *http.Request) {
	data := baseData(r, i18n.T(pageLang(r), "admin.signup_title"))
	if err := h.renderer.Render(w, r, "admin/signup", data); err != nil {
		logAndInternalError(w, "failed to render signup form", "error", err)
	}
}

// Signup handles the provisioning form submission. Local password
// checks fail fast; backend outcomes map onto flash messages,
// including the partial-failure case where an identity exists but the
// allow-list insert did not land.
func (h *AdminHandler) Signup(w http.ResponseWriter, r *http.Request) {
	lang := pageLang(r)

	if !parseFormOrRedirect(w, r, h.renderer, RouteAdminSignup) {
		return
	}

	email := r.FormValue("email")
	password := r.FormValue("password")
	confirm := r.FormValue("confirm_password")

	if email == "" || password == "" {
		flashError(w, r, h.renderer, RouteAdminSignup, i18n.T(lang, "auth.email_password_required"))
		return
	}

	err := h.provisioner.Provision(r.Context(), email, password, confirm)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrPasswordMismatch):
			flashError(w, r, h.renderer, RouteAdminSignup, i18n.T(lang, "admin.password_mismatch"))
		case errors.Is(err, model.ErrPasswordTooShort):
			flashError(w, r, h.renderer, RouteAdminSignup, i18n.T(lang, "admin.password_too_short"))
		case errors.Is(err, model.ErrAlreadyRegistered):
			flashError(w, r, h.renderer, RouteAdminSignup, i18n.T(lang, "admin.already_registered"))
		case errors.Is(err, model.ErrAllowlistInsert):
			flashError(w, r, h.renderer, RouteAdminSignup, i18n.T(lang, "admin.provision_partial"))
		default:
			slog.Error("admin provisioning failed", "error", err, "email", email)
			flashError(w, r, h.renderer, RouteAdminSignup, i18n.T(lang, "admin.error"))
		}
		return
	}

	flashSuccess(w, r, h.renderer, redirectAdmin, i18n.T(lang, "admin.created"))
}
