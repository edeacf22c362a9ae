// Copyright (c) 2025-2026 Hanbit Church
// SPDX-License-Identifier: GPL-3.0-or-later

// Package testutil provides shared test helpers: a quiet logger and an
// in-memory fake of the hosted backend's table and auth APIs.
package testutil

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/hanbit-church/website/internal/config"
)

// TestLogger creates a silent test logger that only outputs warnings and errors.
func TestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
}

// FakeBackend emulates the hosted backend in memory: the table API
// with equality filters and return=representation, and the auth API
// (signup, password grant, logout, current user). It counts every
// request so tests can assert that local validation made no calls.
type FakeBackend struct {
	Server *httptest.Server

	// TableStatus, when non-zero, makes every table API request fail
	// with that HTTP status.
	TableStatus int

	mu       sync.Mutex
	requests int
	nextID   int
	posts    []map[string]any
	admins   []map[string]any
	users    map[string]string // email -> password
	userIDs  map[string]string // email -> identity id
	tokens   map[string]string // access token -> identity id
}

// NewFakeBackend starts a fake backend server. It is shut down when
// the test finishes.
func NewFakeBackend(t *testing.T) *FakeBackend {
	t.Helper()

	f := &FakeBackend{
		users:   make(map[string]string),
		userIDs: make(map[string]string),
		tokens:  make(map[string]string),
	}
	f.Server = httptest.NewServer(http.HandlerFunc(f.handle))
	t.Cleanup(f.Server.Close)
	return f
}

// Config returns an application configuration pointing at the fake.
func (f *FakeBackend) Config() *config.Config {
	return &config.Config{
		BackendURL:     f.Server.URL,
		BackendAnonKey: "test-anon-key",
	}
}

// Requests returns how many HTTP requests the fake has served.
func (f *FakeBackend) Requests() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests
}

// AddUser registers an identity with the auth API and returns its id.
func (f *FakeBackend) AddUser(email, password string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.addUserLocked(email, password)
}

func (f *FakeBackend) addUserLocked(email, password string) string {
	f.nextID++
	id := fmt.Sprintf("uid-%d", f.nextID)
	f.users[email] = password
	f.userIDs[email] = id
	return id
}

// AddAdmin inserts an allow-list entry for an identity.
func (f *FakeBackend) AddAdmin(id, email string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.admins = append(f.admins, map[string]any{
		"id":       id,
		"email":    email,
		"is_admin": true,
	})
}

// TokenFor returns a valid access token for a registered email.
func (f *FakeBackend) TokenFor(email string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.userIDs[email]
	token := "tok-" + id
	f.tokens[token] = id
	return token
}

// PostCount returns how many rows the posts table holds.
func (f *FakeBackend) PostCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.posts)
}

// AdminCount returns how many rows the allow-list holds.
func (f *FakeBackend) AdminCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.admins)
}

func (f *FakeBackend) handle(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests++

	switch {
	case strings.HasPrefix(r.URL.Path, "/auth/v1/"):
		f.handleAuth(w, r)
	case strings.HasPrefix(r.URL.Path, "/rest/v1/"):
		f.handleTable(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (f *FakeBackend) handleAuth(w http.ResponseWriter, r *http.Request) {
	switch strings.TrimPrefix(r.URL.Path, "/auth/v1/") {
	case "signup":
		var creds struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"msg": "invalid body"})
			return
		}
		if _, exists := f.userIDs[creds.Email]; exists {
			writeJSON(w, http.StatusBadRequest, map[string]any{"msg": "User already registered"})
			return
		}
		id := f.addUserLocked(creds.Email, creds.Password)
		writeJSON(w, http.StatusOK, map[string]any{
			"id":         id,
			"email":      creds.Email,
			"created_at": now(),
		})

	case "token":
		var creds struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		_ = json.NewDecoder(r.Body).Decode(&creds)
		if pw, ok := f.users[creds.Email]; !ok || pw != creds.Password {
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"error":             "invalid_grant",
				"error_description": "Invalid login credentials",
			})
			return
		}
		id := f.userIDs[creds.Email]
		token := "tok-" + id
		f.tokens[token] = id
		writeJSON(w, http.StatusOK, map[string]any{
			"access_token": token,
			"token_type":   "bearer",
			"expires_in":   3600,
			"user":         map[string]any{"id": id, "email": creds.Email},
		})

	case "logout":
		delete(f.tokens, bearer(r))
		w.WriteHeader(http.StatusNoContent)

	case "user":
		id, ok := f.tokens[bearer(r)]
		if !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"msg": "invalid token"})
			return
		}
		for email, userID := range f.userIDs {
			if userID == id {
				writeJSON(w, http.StatusOK, map[string]any{"id": id, "email": email})
				return
			}
		}
		writeJSON(w, http.StatusNotFound, map[string]any{"msg": "user not found"})

	default:
		http.NotFound(w, r)
	}
}

func (f *FakeBackend) handleTable(w http.ResponseWriter, r *http.Request) {
	if f.TableStatus != 0 {
		writeJSON(w, f.TableStatus, map[string]any{"message": "table error"})
		return
	}

	var rows *[]map[string]any
	switch strings.TrimPrefix(r.URL.Path, "/rest/v1/") {
	case "posts":
		rows = &f.posts
	case "admin_users":
		rows = &f.admins
	default:
		http.NotFound(w, r)
		return
	}

	filters := make(map[string]string)
	order := ""
	for key, values := range r.URL.Query() {
		if len(values) == 0 {
			continue
		}
		if key == "order" {
			order = values[0]
			continue
		}
		filters[key] = strings.TrimPrefix(values[0], "eq.")
	}

	matches := func(row map[string]any) bool {
		for column, want := range filters {
			if fmt.Sprintf("%v", row[column]) != want {
				return false
			}
		}
		return true
	}

	switch r.Method {
	case http.MethodGet:
		out := make([]map[string]any, 0)
		for _, row := range *rows {
			if matches(row) {
				out = append(out, row)
			}
		}
		if order == "created_at.desc" {
			sort.SliceStable(out, func(i, j int) bool {
				return fmt.Sprintf("%v", out[i]["created_at"]) > fmt.Sprintf("%v", out[j]["created_at"])
			})
		}
		writeJSON(w, http.StatusOK, out)

	case http.MethodPost:
		inserted, err := decodeRows(r)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"message": err.Error()})
			return
		}
		for _, row := range inserted {
			if _, ok := row["id"]; !ok {
				f.nextID++
				row["id"] = fmt.Sprintf("row-%d", f.nextID)
			}
			if _, ok := row["created_at"]; !ok {
				ts := now()
				row["created_at"] = ts
				row["updated_at"] = ts
			}
			*rows = append(*rows, row)
		}
		writeJSON(w, http.StatusCreated, inserted)

	case http.MethodPatch:
		patch, err := decodeRows(r)
		if err != nil || len(patch) != 1 {
			writeJSON(w, http.StatusBadRequest, map[string]any{"message": "bad patch"})
			return
		}
		out := make([]map[string]any, 0)
		for _, row := range *rows {
			if !matches(row) {
				continue
			}
			for column, value := range patch[0] {
				row[column] = value
			}
			out = append(out, row)
		}
		writeJSON(w, http.StatusOK, out)

	case http.MethodDelete:
		kept := make([]map[string]any, 0, len(*rows))
		removed := make([]map[string]any, 0)
		for _, row := range *rows {
			if matches(row) {
				removed = append(removed, row)
			} else {
				kept = append(kept, row)
			}
		}
		*rows = kept
		writeJSON(w, http.StatusOK, removed)

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// decodeRows accepts either a single JSON object or an array of them.
func decodeRows(r *http.Request) ([]map[string]any, error) {
	var raw json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		return nil, err
	}
	if len(raw) > 0 && raw[0] == '[' {
		var rows []map[string]any
		if err := json.Unmarshal(raw, &rows); err != nil {
			return nil, err
		}
		return rows, nil
	}
	var row map[string]any
	if err := json.Unmarshal(raw, &row); err != nil {
		return nil, err
	}
	return []map[string]any{row}, nil
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func bearer(r *http.Request) string {
	return strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
}

// now returns a fixed-width timestamp so lexicographic ordering in
// the fake matches chronological ordering.
func now() string {
	return time.Now().UTC().Format("2006-01-02T15:04:05.000000000Z07:00")
}
