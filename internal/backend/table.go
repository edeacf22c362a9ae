// Copyright (c) 2025-2026 Hanbit Church
// SPDX-License-Identifier: GPL-3.0-or-later

package backend

import (
	"context"
	"net/http"
)

// Select fetches all rows of a table matching the given equality
// filters, ordered by the order expression (e.g. "created_at.desc").
// The rows are decoded into rows, which must be a pointer to a slice.
func (c *Client) Select(ctx context.Context, token, table string, filters []Filter, order string, rows any) error {
	return c.do(ctx, http.MethodGet, c.restURL(table, filters, order), token, nil, rows)
}

// Insert creates a row and decodes the created representation (with
// backend-assigned identifier and timestamps) into created, which must
// be a pointer to a slice; the table API returns affected rows as an
// array even for single inserts.
func (c *Client) Insert(ctx context.Context, token, table string, row any, created any) error {
	return c.do(ctx, http.MethodPost, c.restURL(table, nil, ""), token, row, created)
}

// Update patches all rows matching the filters and decodes the updated
// representations into updated (pointer to slice). An empty result
// means no row matched; the caller decides whether that is NotFound.
func (c *Client) Update(ctx context.Context, token, table string, filters []Filter, patch any, updated any) error {
	return c.do(ctx, http.MethodPatch, c.restURL(table, filters, ""), token, patch, updated)
}

// Delete removes all rows matching the filters and decodes the deleted
// representations into deleted (pointer to slice), so callers can
// distinguish "deleted one" from "nothing matched".
func (c *Client) Delete(ctx context.Context, token, table string, filters []Filter, deleted any) error {
	return c.do(ctx, http.MethodDelete, c.restURL(table, filters, ""), token, nil, deleted)
}
