// Copyright (c) 2025-2026 Hanbit Church
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handler contains the HTTP handlers for the public site and
// the admin area.
package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hanbit-church/website/internal/i18n"
	"github.com/hanbit-church/website/internal/model"
	"github.com/hanbit-church/website/internal/render"
	"github.com/hanbit-church/website/internal/repo"
)

// homeNewsLimit caps how many news items the homepage shows.
const homeNewsLimit = 5

// FrontendHandler serves the public pages: home, board lists and post
// detail views.
type FrontendHandler struct {
	posts            *repo.Posts
	renderer         *render.Renderer
	backendAvailable bool
}

// NewFrontendHandler creates a new FrontendHandler.
func NewFrontendHandler(posts *repo.Posts, renderer *render.Renderer, backendAvailable bool) *FrontendHandler {
	return &FrontendHandler{
		posts:            posts,
		renderer:         renderer,
		backendAvailable: backendAvailable,
	}
}

// homeData is the template payload for the homepage.
type homeData struct {
	News       []model.Post
	Categories []model.Category
	Degraded   bool
}

// Home renders the homepage: welcome text, service times, board cards
// and the latest news. With the backend unconfigured the news section
// is simply empty.
func (h *FrontendHandler) Home(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != RouteRoot {
		h.NotFound(w, r)
		return
	}

	var news []model.Post
	if h.backendAvailable {
		var err error
		news, err = h.posts.List(r.Context(), model.CategoryNews)
		if err != nil {
			// The homepage must render even when the backend is down.
			slog.Error("failed to load homepage news", "error", err)
			news = nil
		}
		if len(news) > homeNewsLimit {
			news = news[:homeNewsLimit]
		}
	}

	data := baseData(r, i18n.T(pageLang(r), "nav.home"))
	data.Data = homeData{
		News:       news,
		Categories: model.Categories(),
		Degraded:   !h.backendAvailable,
	}

	if err := h.renderer.Render(w, r, "frontend/home", data); err != nil {
		logAndInternalError(w, "failed to render homepage", "error", err)
	}
}

// boardData is the template payload for a board list page.
type boardData struct {
	Category model.Category
	Posts    []model.Post
	Degraded bool
}

// BoardList renders one board, newest first. An unknown category code
// is a 404, not an empty board.
func (h *FrontendHandler) BoardList(w http.ResponseWriter, r *http.Request) {
	category, ok := model.ParseCategory(chi.URLParam(r, "category"))
	if !ok {
		h.NotFound(w, r)
		return
	}

	var posts []model.Post
	if h.backendAvailable {
		var err error
		posts, err = h.posts.List(r.Context(), category)
		if err != nil {
			slog.Error("failed to load board", "error", err, "category", category)
			posts = nil
		}
	}

	lang := pageLang(r)
	data := baseData(r, category.Name(lang))
	data.Data = boardData{
		Category: category,
		Posts:    posts,
		Degraded: !h.backendAvailable,
	}

	if err := h.renderer.Render(w, r, "frontend/board", data); err != nil {
		logAndInternalError(w, "failed to render board", "error", err, "category", category)
	}
}

// postData is the template payload for a post detail page.
type postData struct {
	Category model.Category
	Post     model.Post
	EmbedURL string
}

// PostDetail renders a single post. A YouTube URL in a recognized
// shape becomes an embedded player; anything else is shown as a plain
// link. Missing posts and unknown categories both 404.
func (h *FrontendHandler) PostDetail(w http.ResponseWriter, r *http.Request) {
	category, ok := model.ParseCategory(chi.URLParam(r, "category"))
	if !ok {
		h.NotFound(w, r)
		return
	}

	if !h.backendAvailable {
		h.NotFound(w, r)
		return
	}

	id := chi.URLParam(r, "id")
	post, err := h.posts.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			h.NotFound(w, r)
			return
		}
		logAndInternalError(w, "failed to load post", "error", err, "post_id", id)
		return
	}

	embedURL, _ := repo.YouTubeEmbedURL(post.YouTubeURL)

	data := baseData(r, post.Title)
	data.Data = postData{
		Category: category,
		Post:     post,
		EmbedURL: embedURL,
	}

	if err := h.renderer.Render(w, r, "frontend/post", data); err != nil {
		logAndInternalError(w, "failed to render post", "error", err, "post_id", id)
	}
}

// NotFound renders the 404 page.
func (h *FrontendHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNotFound)
	data := baseData(r, "404")
	if err := h.renderer.Render(w, r, "frontend/404", data); err != nil {
		http.Error(w, "Not Found", http.StatusNotFound)
	}
}
