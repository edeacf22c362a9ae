// Copyright (c) 2025-2026 Hanbit Church
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hanbit-church/website/internal/i18n"
	"github.com/hanbit-church/website/internal/middleware"
	"github.com/hanbit-church/website/internal/model"
	"github.com/hanbit-church/website/internal/render"
	"github.com/hanbit-church/website/internal/repo"
)

// PostHandler handles the admin-only post write routes. All of them
// run behind middleware.RequireAdmin and forward the session user's
// access token to the repository.
type PostHandler struct {
	posts    *repo.Posts
	renderer *render.Renderer
}

// NewPostHandler creates a new PostHandler.
func NewPostHandler(posts *repo.Posts, renderer *render.Renderer) *PostHandler {
	return &PostHandler{posts: posts, renderer: renderer}
}

// postFormData is the template payload for the create/edit form.
type postFormData struct {
	Category model.Category
	Draft    model.Draft
	PostID   string
	IsEdit   bool
}

// boardURL returns the list URL for a category.
func boardURL(category model.Category) string {
	return redirectPrefix + category.String()
}

// postURL returns the detail URL for a post.
func postURL(category model.Category, id string) string {
	return boardURL(category) + "/" + id
}

// requireCategory parses the category URL parameter, rendering 404 on
// an unknown code. Returns the category and true on success.
func requireCategory(w http.ResponseWriter, r *http.Request) (model.Category, bool) {
	category, ok := model.ParseCategory(chi.URLParam(r, "category"))
	if !ok {
		http.NotFound(w, r)
	}
	return category, ok
}

// draftFromForm reads the post fields from a parsed form.
func draftFromForm(r *http.Request, category model.Category) model.Draft {
	return model.Draft{
		Title:      r.FormValue("title"),
		Content:    r.FormValue("content"),
		Category:   category,
		ImageURL:   r.FormValue("image_url"),
		YouTubeURL: r.FormValue("youtube_url"),
	}
}

// NewForm renders the create form for a board.
func (h *PostHandler) NewForm(w http.ResponseWriter, r *http.Request) {
	category, ok := requireCategory(w, r)
	if !ok {
		return
	}

	data := baseData(r, i18n.T(pageLang(r), "post.new_title"))
	data.Data = postFormData{
		Category: category,
		Draft:    model.Draft{Category: category},
	}

	if err := h.renderer.Render(w, r, "admin/post_form", data); err != nil {
		logAndInternalError(w, "failed to render post form", "error", err)
	}
}

// Create handles the create form submission.
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	category, ok := requireCategory(w, r)
	if !ok {
		return
	}
	if !parseFormOrRedirect(w, r, h.renderer, boardURL(category)+"/new") {
		return
	}

	lang := pageLang(r)
	sess := middleware.GetSession(r)
	draft := draftFromForm(r, category)

	post, err := h.posts.Create(r.Context(), sess.AccessToken, draft)
	if err != nil {
		if model.IsValidationError(err) {
			flashError(w, r, h.renderer, boardURL(category)+"/new", i18n.T(lang, "flash.title_content_required"))
			return
		}
		slog.Error("failed to create post", "error", err, "category", category, "user_id", sess.UserID)
		flashError(w, r, h.renderer, boardURL(category), i18n.T(lang, "flash.save_error"))
		return
	}

	flashSuccess(w, r, h.renderer, postURL(category, post.ID), i18n.T(lang, "flash.post_created"))
}

// EditForm renders the edit form prefilled with the current post.
func (h *PostHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	category, ok := requireCategory(w, r)
	if !ok {
		return
	}

	lang := pageLang(r)
	id := chi.URLParam(r, "id")
	post, err := h.posts.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			flashError(w, r, h.renderer, boardURL(category), i18n.T(lang, "flash.not_found"))
			return
		}
		logAndInternalError(w, "failed to load post for edit", "error", err, "post_id", id)
		return
	}

	data := baseData(r, i18n.T(lang, "post.edit_title"))
	data.Data = postFormData{
		Category: category,
		Draft: model.Draft{
			Title:      post.Title,
			Content:    post.Content,
			Category:   post.Category,
			ImageURL:   post.ImageURL,
			YouTubeURL: post.YouTubeURL,
		},
		PostID: post.ID,
		IsEdit: true,
	}

	if err := h.renderer.Render(w, r, "admin/post_form", data); err != nil {
		logAndInternalError(w, "failed to render edit form", "error", err)
	}
}

// Update handles the edit form submission.
func (h *PostHandler) Update(w http.ResponseWriter, r *http.Request) {
	category, ok := requireCategory(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	if !parseFormOrRedirect(w, r, h.renderer, postURL(category, id)+"/edit") {
		return
	}

	lang := pageLang(r)
	sess := middleware.GetSession(r)
	draft := draftFromForm(r, category)

	if _, err := h.posts.Update(r.Context(), sess.AccessToken, id, draft); err != nil {
		switch {
		case model.IsValidationError(err):
			flashError(w, r, h.renderer, postURL(category, id)+"/edit", i18n.T(lang, "flash.title_content_required"))
		case errors.Is(err, model.ErrNotFound):
			flashError(w, r, h.renderer, boardURL(category), i18n.T(lang, "flash.not_found"))
		default:
			slog.Error("failed to update post", "error", err, "post_id", id, "user_id", sess.UserID)
			flashError(w, r, h.renderer, postURL(category, id), i18n.T(lang, "flash.save_error"))
		}
		return
	}

	flashSuccess(w, r, h.renderer, postURL(category, id), i18n.T(lang, "flash.post_updated"))
}

// Delete handles the delete form submission. Deleting a post that is
// already gone lands back on the board with a soft notice.
func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	category, ok := requireCategory(w, r)
	if !ok {
		return
	}

	lang := pageLang(r)
	sess := middleware.GetSession(r)
	id := chi.URLParam(r, "id")

	if err := h.posts.Delete(r.Context(), sess.AccessToken, id); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			flashError(w, r, h.renderer, boardURL(category), i18n.T(lang, "flash.not_found"))
			return
		}
		slog.Error("failed to delete post", "error", err, "post_id", id, "user_id", sess.UserID)
		flashError(w, r, h.renderer, boardURL(category), i18n.T(lang, "flash.delete_error"))
		return
	}

	flashSuccess(w, r, h.renderer, boardURL(category), i18n.T(lang, "flash.post_deleted"))
}
