// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"net/http"

	"github.com/danielhkuo/quickly-ask/cliparse"
	"github.com/danielhkuo/quickly-ask/middleware"
	"github.com/danielhkuo/quickly-ask/stats"
)

type StatsHandler struct {
	projector *stats.Projector
}

func NewStatsHandler(db *sql.DB, cfg cliparse.Config) *StatsHandler {
	return &StatsHandler{projector: stats.NewProjector(db)}
}

// GetPlatformStats handles GET /stats/platform
// Always 200; the projector answers zeros when the store is down.
func (h *StatsHandler) GetPlatformStats(w http.ResponseWriter, r *http.Request) {
	middleware.JSONResponse(w, http.StatusOK, h.projector.PlatformStats(r.Context()))
}

// GetUserStats handles GET /users/{id}/stats
func (h *StatsHandler) GetUserStats(w http.ResponseWriter, r *http.Request) {
	s, err := h.projector.UserStats(r.Context(), r.PathValue("id"))
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, s)
}
