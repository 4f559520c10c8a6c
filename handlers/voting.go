// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"net/http"

	"github.com/danielhkuo/quickly-ask/apperr"
	"github.com/danielhkuo/quickly-ask/auth"
	"github.com/danielhkuo/quickly-ask/cliparse"
	"github.com/danielhkuo/quickly-ask/ledger"
	"github.com/danielhkuo/quickly-ask/middleware"
	"github.com/danielhkuo/quickly-ask/models"
)

type VotingHandler struct {
	ledger   *ledger.Ledger
	resolver auth.Resolver
}

func NewVotingHandler(db *sql.DB, cfg cliparse.Config) *VotingHandler {
	return &VotingHandler{
		ledger:   ledger.New(db),
		resolver: auth.NewSessionResolver(cfg.SessionSecret),
	}
}

// CastVote handles POST /questions/{id}/votes
// A second vote by the same user on the same question returns 409.
func (h *VotingHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r, h.resolver)
	if !ok {
		return
	}

	var req models.CastVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	answer, err := req.ToAnswer()
	if err != nil {
		middleware.WriteError(w, r, apperr.Invalid("%s", err.Error()))
		return
	}

	receipt, err := h.ledger.CastVote(r.Context(), userID, r.PathValue("id"), answer)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.CastVoteResponse{
		VoteID: receipt.VoteID,
		Tally:  receipt.Tally,
	})
}

// GetMyVote handles GET /questions/{id}/my-vote
func (h *VotingHandler) GetMyVote(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r, h.resolver)
	if !ok {
		return
	}

	vote, err := h.ledger.MyVote(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, vote)
}
