// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/danielhkuo/quickly-ask/apperr"
	"github.com/danielhkuo/quickly-ask/auth"
	"github.com/danielhkuo/quickly-ask/cliparse"
	"github.com/danielhkuo/quickly-ask/entitlement"
	"github.com/danielhkuo/quickly-ask/ledger"
	"github.com/danielhkuo/quickly-ask/middleware"
	"github.com/danielhkuo/quickly-ask/models"
	"github.com/danielhkuo/quickly-ask/questions"
)

type QuestionHandler struct {
	store    *questions.Store
	ledger   *ledger.Ledger
	gate     *entitlement.Gate
	resolver auth.Resolver
}

func NewQuestionHandler(db *sql.DB, cfg cliparse.Config) *QuestionHandler {
	gate := entitlement.NewGate(db)
	return &QuestionHandler{
		store:    questions.NewStore(db, gate),
		ledger:   ledger.New(db),
		gate:     gate,
		resolver: auth.NewSessionResolver(cfg.SessionSecret),
	}
}

// CreateQuestion handles POST /questions
func (h *QuestionHandler) CreateQuestion(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r, h.resolver)
	if !ok {
		return
	}

	var req models.CreateQuestionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	q, err := h.store.Create(r.Context(), userID, req)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.CreateQuestionResponse{QuestionID: q.ID})
}

// ListQuestions handles GET /questions?category=&sort=&limit=&offset=
func (h *QuestionHandler) ListQuestions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := questions.ListFilter{
		Category: query.Get("category"),
		Sort:     query.Get("sort"),
	}

	var err error
	if filter.Limit, err = intParam(query.Get("limit")); err != nil {
		middleware.WriteError(w, r, apperr.Invalid("limit must be an integer"))
		return
	}
	if filter.Offset, err = intParam(query.Get("offset")); err != nil {
		middleware.WriteError(w, r, apperr.Invalid("offset must be an integer"))
		return
	}

	list, err := h.store.List(r.Context(), filter)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, list)
}

func intParam(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}

// GetQuestion handles GET /questions/{id}
// Removed questions are reported as not found.
func (h *QuestionHandler) GetQuestion(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	q, err := h.store.Get(r.Context(), id)
	if err == nil && q.Status == models.StatusRemoved {
		err = apperr.ErrQuestionNotFound
	}
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	tally, err := h.ledger.Tally(r.Context(), id)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.QuestionWithTally{Question: q, Tally: tally})
}

// SetStatus handles POST /questions/{id}/status
func (h *QuestionHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r, h.resolver)
	if !ok {
		return
	}

	var req models.SetStatusRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	q, err := h.store.SetStatus(r.Context(), userID, r.PathValue("id"), req.Status)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, q)
}

// Sponsor handles POST /questions/{id}/sponsor
func (h *QuestionHandler) Sponsor(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r, h.resolver)
	if !ok {
		return
	}

	resp, err := h.store.Sponsor(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}

// Audit handles GET /questions/{id}/audit (owner only)
func (h *QuestionHandler) Audit(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r, h.resolver)
	if !ok {
		return
	}

	u, err := h.gate.User(r.Context(), userID)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	if u.Role != models.RoleOwner {
		middleware.WriteError(w, r, apperr.ErrForbidden)
		return
	}

	report, err := h.ledger.Audit(r.Context(), r.PathValue("id"))
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, report)
}
