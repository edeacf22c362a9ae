// Copyright (c) 2025-2026 Hanbit Church
// SPDX-License-Identifier: GPL-3.0-or-later

// Package repo provides the post repository: a CRUD facade over the
// hosted backend's posts table, plus the pure display helpers used by
// list views (preview text, video reference extraction).
package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/hanbit-church/website/internal/backend"
	"github.com/hanbit-church/website/internal/model"
)

// postsTable is the backend table holding all board posts.
const postsTable = "posts"

// Posts is the repository for board posts. Write methods take the
// session user's access token and forward it to the backend, so the
// repository never runs a write with more privilege than its caller
// holds; the authoritative write gate is the backend's own row-level
// permission check.
type Posts struct {
	client *backend.Client
}

// NewPosts creates a post repository over the given backend client.
func NewPosts(client *backend.Client) *Posts {
	return &Posts{client: client}
}

// postWrite is the writable column set. Optional URLs serialize as
// null when empty, matching the table schema.
type postWrite struct {
	Title      string         `json:"title"`
	Content    string         `json:"content"`
	Category   model.Category `json:"category"`
	ImageURL   *string        `json:"image_url"`
	YouTubeURL *string        `json:"youtube_url"`
	UpdatedAt  *time.Time     `json:"updated_at,omitempty"`
}

// nullable maps an empty string to a JSON null.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// writeRow converts a validated draft into its table representation.
func writeRow(draft model.Draft) postWrite {
	return postWrite{
		Title:      draft.Title,
		Content:    draft.Content,
		Category:   draft.Category,
		ImageURL:   nullable(draft.ImageURL),
		YouTubeURL: nullable(draft.YouTubeURL),
	}
}

// List returns all posts in a category, newest first. An empty board
// is a valid nil-error result, as is a category outside the fixed
// enumeration: the equality filter simply matches nothing. Reads are
// public and run under the anonymous key.
func (p *Posts) List(ctx context.Context, category model.Category) ([]model.Post, error) {
	var posts []model.Post
	err := p.client.Select(ctx, "", postsTable,
		[]backend.Filter{backend.Eq("category", category.String())},
		"created_at.desc", &posts)
	if err != nil {
		return nil, fmt.Errorf("listing posts: %w", err)
	}
	return posts, nil
}

// Get returns one post by identifier, or model.ErrNotFound.
func (p *Posts) Get(ctx context.Context, id string) (model.Post, error) {
	var posts []model.Post
	err := p.client.Select(ctx, "", postsTable,
		[]backend.Filter{backend.Eq("id", id)}, "", &posts)
	if err != nil {
		return model.Post{}, fmt.Errorf("getting post: %w", err)
	}
	if len(posts) == 0 {
		return model.Post{}, model.ErrNotFound
	}
	return posts[0], nil
}

// Create validates the draft locally (no round-trip is spent on an
// invalid draft) and inserts it. The backend assigns the identifier
// and both timestamps.
func (p *Posts) Create(ctx context.Context, token string, draft model.Draft) (model.Post, error) {
	draft.Normalize()
	if err := draft.Validate(); err != nil {
		return model.Post{}, err
	}

	var created []model.Post
	if err := p.client.Insert(ctx, token, postsTable, writeRow(draft), &created); err != nil {
		return model.Post{}, fmt.Errorf("creating post: %w", err)
	}
	if len(created) == 0 {
		return model.Post{}, fmt.Errorf("creating post: backend returned no row")
	}
	return created[0], nil
}

// Update validates the draft, then patches the post and refreshes only
// the update timestamp. A vanished identifier surfaces as
// model.ErrNotFound rather than a silent no-op.
func (p *Posts) Update(ctx context.Context, token, id string, draft model.Draft) (model.Post, error) {
	draft.Normalize()
	if err := draft.Validate(); err != nil {
		return model.Post{}, err
	}

	now := time.Now().UTC()
	row := writeRow(draft)
	row.UpdatedAt = &now

	var updated []model.Post
	err := p.client.Update(ctx, token, postsTable,
		[]backend.Filter{backend.Eq("id", id)}, row, &updated)
	if err != nil {
		return model.Post{}, fmt.Errorf("updating post: %w", err)
	}
	if len(updated) == 0 {
		return model.Post{}, model.ErrNotFound
	}
	return updated[0], nil
}

// Delete removes a post by identifier. Deleting an already-deleted
// identifier yields model.ErrNotFound; the caller treats that as a
// soft condition, never a crash.
func (p *Posts) Delete(ctx context.Context, token, id string) error {
	var deleted []model.Post
	err := p.client.Delete(ctx, token, postsTable,
		[]backend.Filter{backend.Eq("id", id)}, &deleted)
	if err != nil {
		return fmt.Errorf("deleting post: %w", err)
	}
	if len(deleted) == 0 {
		return model.ErrNotFound
	}
	return nil
}

// CountByCategory returns the number of posts per board plus the
// total, for the admin dashboard. A single select of the category
// column is aggregated locally, the way the original dashboard did.
func (p *Posts) CountByCategory(ctx context.Context) (map[model.Category]int, int, error) {
	var rows []struct {
		Category model.Category `json:"category"`
	}
	err := p.client.Select(ctx, "", postsTable, nil, "", &rows)
	if err != nil {
		return nil, 0, fmt.Errorf("counting posts: %w", err)
	}

	counts := make(map[model.Category]int, len(model.Categories()))
	for _, c := range model.Categories() {
		counts[c] = 0
	}
	total := 0
	for _, row := range rows {
		if _, ok := counts[row.Category]; ok {
			counts[row.Category]++
		}
		total++
	}
	return counts, total, nil
}
