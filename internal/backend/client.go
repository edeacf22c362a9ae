// Copyright (c) 2025-2026 Hanbit Church
// SPDX-License-Identifier: GPL-3.0-or-later

// Package backend is a thin client for the hosted backend service that
// stores all site data and verifies all credentials. It speaks two
// small HTTP surfaces: a table-style data API (equality filters,
// ordering, CRUD) and an auth API (sign-up, password sign-in, sign-out,
// current user). The client adds no caching, no retries and no local
// state; every call is a single round-trip.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hanbit-church/website/internal/config"
	"github.com/hanbit-church/website/internal/model"
)

// Client configuration constants.
const (
	RequestTimeout = 15 * time.Second // HTTP request timeout
	MaxResponseLen = 1 << 20          // Maximum response body to read (1MB)
	UserAgent      = "church-site/1.0"
)

// httpClient is the shared HTTP client with appropriate timeouts.
var httpClient = &http.Client{
	Timeout: RequestTimeout,
	Transport: &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	},
}

// Client talks to the hosted backend. The zero value is unusable; use
// New. An unconfigured client keeps the site renderable: every method
// returns model.ErrBackendUnavailable without issuing a request.
type Client struct {
	baseURL   string
	anonKey   string
	http      *http.Client
	available bool
}

// Filter is a single equality filter on a table column.
type Filter struct {
	Column string
	Value  string
}

// Eq builds an equality filter.
func Eq(column, value string) Filter {
	return Filter{Column: column, Value: value}
}

// New creates a backend client from the application configuration.
// Availability is resolved here, once, at startup.
func New(cfg *config.Config) *Client {
	return &Client{
		baseURL:   strings.TrimRight(cfg.BackendURL, "/"),
		anonKey:   cfg.BackendAnonKey,
		http:      httpClient,
		available: cfg.BackendConfigured(),
	}
}

// Available reports whether the backend is configured. Callers use it
// to disable forms up front; methods re-check it themselves so a caller
// that forgets cannot trigger a doomed request.
func (c *Client) Available() bool {
	return c.available
}

// restURL builds a table API URL with equality filters and optional ordering.
func (c *Client) restURL(table string, filters []Filter, order string) string {
	q := url.Values{}
	for _, f := range filters {
		q.Set(f.Column, "eq."+f.Value)
	}
	if order != "" {
		q.Set("order", order)
	}
	u := c.baseURL + "/rest/v1/" + table
	if encoded := q.Encode(); encoded != "" {
		u += "?" + encoded
	}
	return u
}

// do sends a request with the standard backend headers and decodes the
// response into out (when out is non-nil). token is the session user's
// access token; when empty the anonymous key is used as the bearer, so
// the request runs with whatever the backend's row-level permissions
// grant anonymous callers.
func (c *Client) do(ctx context.Context, method, rawURL, token string, body, out any) error {
	if !c.available {
		return model.ErrBackendUnavailable
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	bearer := token
	if bearer == "" {
		bearer = c.anonKey
	}
	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Authorization", "Bearer "+bearer)
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method == http.MethodPost || method == http.MethodPatch || method == http.MethodDelete {
		// Writes ask for the affected rows back so callers can detect
		// zero-row updates/deletes without a second round-trip.
		req.Header.Set("Prefer", "return=representation")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		// Network failure is indistinguishable from an absent backend
		// for everything the caller is allowed to do about it.
		return fmt.Errorf("%w: %v", model.ErrBackendUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseLen))
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.apiError(resp.StatusCode, data)
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}

// apiError maps a non-2xx backend response to the error taxonomy.
func (c *Client) apiError(status int, body []byte) error {
	var apiErr struct {
		Message     string `json:"message"`
		Msg         string `json:"msg"`
		Error       string `json:"error"`
		Description string `json:"error_description"`
	}
	_ = json.Unmarshal(body, &apiErr)

	msg := apiErr.Description
	if msg == "" {
		msg = apiErr.Message
	}
	if msg == "" {
		msg = apiErr.Msg
	}
	if msg == "" {
		msg = apiErr.Error
	}
	lower := strings.ToLower(msg)

	switch {
	case status == http.StatusNotFound:
		return model.ErrNotFound
	case strings.Contains(lower, "invalid login credentials"),
		apiErr.Error == "invalid_grant":
		return model.ErrInvalidCredentials
	case strings.Contains(lower, "already registered"),
		strings.Contains(lower, "already been registered"):
		return model.ErrAlreadyRegistered
	case status >= 500:
		return fmt.Errorf("%w: HTTP %d", model.ErrBackendUnavailable, status)
	}
	if msg == "" {
		return fmt.Errorf("backend error: HTTP %d %s", status, http.StatusText(status))
	}
	return fmt.Errorf("backend error: HTTP %d: %s", status, msg)
}
