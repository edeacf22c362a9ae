// Copyright (c) 2025-2026 Hanbit Church
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"encoding/json"
	"net/http"
	"time"
)

// HealthHandler handles health check requests.
type HealthHandler struct {
	backendAvailable bool
	startTime        time.Time
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(backendAvailable bool) *HealthHandler {
	return &HealthHandler{
		backendAvailable: backendAvailable,
		startTime:        time.Now(),
	}
}

// HealthStatus is the liveness response. The backend field reports
// "configured" or "unconfigured"; the process itself is always "ok"
// because degraded mode is a supported state, not a failure.
type HealthStatus struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Uptime    string    `json:"uptime"`
	Backend   string    `json:"backend"`
}

// Health returns the liveness status as JSON.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	backend := "configured"
	if !h.backendAvailable {
		backend = "unconfigured"
	}

	status := HealthStatus{
		Status:    "ok",
		Timestamp: time.Now().UTC(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Backend:   backend,
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(status); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}
