// Copyright (c) 2025-2026 Hanbit Church
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"

	"github.com/hanbit-church/website/internal/i18n"
	"github.com/hanbit-church/website/internal/middleware"
	"github.com/hanbit-church/website/internal/render"
)

// pageLang resolves the UI language for a request from the
// Accept-Language header. Korean is the default for everything the
// matcher cannot place.
func pageLang(r *http.Request) string {
	return i18n.MatchLanguage(r.Header.Get("Accept-Language"))
}

// baseData builds the common template data for a request: resolved
// language, the current session and its admin flag.
func baseData(r *http.Request, title string) render.TemplateData {
	return render.TemplateData{
		Title:   title,
		Lang:    pageLang(r),
		Session: middleware.GetSession(r),
		IsAdmin: middleware.IsAdmin(r),
	}
}

// flashAndRedirect sets a flash message and redirects to the given URL.
// Uses http.StatusSeeOther (303) for POST redirects.
func flashAndRedirect(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, url, message, messageType string) {
	renderer.SetFlash(r, message, messageType)
	http.Redirect(w, r, url, http.StatusSeeOther)
}

// flashError sets an error flash message and redirects to the given URL.
func flashError(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, url, message string) {
	flashAndRedirect(w, r, renderer, url, message, "error")
}

// flashSuccess sets a success flash message and redirects to the given URL.
func flashSuccess(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, url, message string) {
	flashAndRedirect(w, r, renderer, url, message, "success")
}

// parseFormOrRedirect parses the request form and redirects with an
// error message on failure. Returns true if parsing succeeded.
func parseFormOrRedirect(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, redirectURL string) bool {
	if err := r.ParseForm(); err != nil {
		flashError(w, r, renderer, redirectURL, i18n.T(pageLang(r), "flash.invalid_form"))
		return false
	}
	return true
}

// logAndInternalError logs an error and writes a 500 response.
func logAndInternalError(w http.ResponseWriter, logMsg string, args ...any) {
	slog.Error(logMsg, args...)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}
