// Copyright (c) 2025-2026 Hanbit Church
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines the domain records exchanged with the hosted
// backend (posts, sessions, admin allow-list entries) and the error
// taxonomy shared by the repository and handler layers.
package model

import (
	"strings"
	"time"
)

// Post represents a single board entry. The identifier and both
// timestamps are assigned by the backend; the client never invents them.
type Post struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Category   Category  `json:"category"`
	ImageURL   string    `json:"image_url,omitempty"`
	YouTubeURL string    `json:"youtube_url,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// HasImage reports whether the post carries an image link.
func (p Post) HasImage() bool {
	return p.ImageURL != ""
}

// HasVideo reports whether the post carries an external video link.
func (p Post) HasVideo() bool {
	return p.YouTubeURL != ""
}

// Draft holds the writable fields of a post, as submitted by the admin
// form. Optional URLs are empty strings when absent.
type Draft struct {
	Title      string   `json:"title"`
	Content    string   `json:"content"`
	Category   Category `json:"category"`
	ImageURL   string   `json:"image_url,omitempty"`
	YouTubeURL string   `json:"youtube_url,omitempty"`
}

// Normalize trims surrounding whitespace from all draft fields.
func (d *Draft) Normalize() {
	d.Title = strings.TrimSpace(d.Title)
	d.Content = strings.TrimSpace(d.Content)
	d.ImageURL = strings.TrimSpace(d.ImageURL)
	d.YouTubeURL = strings.TrimSpace(d.YouTubeURL)
}

// Validate checks the draft invariants: non-empty title and content,
// category from the fixed enumeration. It is called before any remote
// round-trip so invalid drafts never reach the backend.
func (d *Draft) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return &ValidationError{Field: "title", Reason: "title must not be empty"}
	}
	if strings.TrimSpace(d.Content) == "" {
		return &ValidationError{Field: "content", Reason: "content must not be empty"}
	}
	if !d.Category.Valid() {
		return &ValidationError{Field: "category", Reason: "unknown category " + d.Category.String()}
	}
	return nil
}
