// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/quickly-ask/apperr"
	"github.com/danielhkuo/quickly-ask/auth"
	"github.com/danielhkuo/quickly-ask/cliparse"
	"github.com/danielhkuo/quickly-ask/entitlement"
	"github.com/danielhkuo/quickly-ask/middleware"
	"github.com/danielhkuo/quickly-ask/models"
)

// maxWebhookBytes caps payment webhook bodies.
const maxWebhookBytes = 64 << 10

type PremiumHandler struct {
	gate          *entitlement.Gate
	resolver      auth.Resolver
	webhookSecret string
}

func NewPremiumHandler(db *sql.DB, cfg cliparse.Config) *PremiumHandler {
	return &PremiumHandler{
		gate:          entitlement.NewGate(db),
		resolver:      auth.NewSessionResolver(cfg.SessionSecret),
		webhookSecret: cfg.PaymentWebhookSecret,
	}
}

// GetMe handles GET /me
func (h *PremiumHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r, h.resolver)
	if !ok {
		return
	}

	u, err := h.gate.User(r.Context(), userID)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.MeResponse{
		User:       u,
		CanSponsor: entitlement.Allows(u),
	})
}

// Upgrade handles POST /premium/upgrade
// The body is optional; an empty plan means the demo plan.
func (h *PremiumHandler) Upgrade(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r, h.resolver)
	if !ok {
		return
	}

	var req models.UpgradeRequest
	if err := middleware.ParseOptionalJSONBody(r, &req); err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	u, err := h.gate.Upgrade(r.Context(), userID, req.Plan)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, u)
}

// CanSponsor handles GET /premium/can-sponsor
func (h *PremiumHandler) CanSponsor(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r, h.resolver)
	if !ok {
		return
	}

	allowed, err := h.gate.CanSponsor(r.Context(), userID)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.CanSponsorResponse{CanSponsor: allowed})
}

// PaymentWebhook handles POST /webhooks/payment
// The raw body must carry a valid X-Signature HMAC. Redelivered events
// are acknowledged with upgraded=false.
func (h *PremiumHandler) PaymentWebhook(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			middleware.ErrorResponse(w, http.StatusRequestEntityTooLarge, "webhook body too large")
			return
		}
		middleware.WriteError(w, r, apperr.Invalid("unreadable body"))
		return
	}

	if err := auth.VerifyPayloadSignature(body, r.Header.Get("X-Signature"), h.webhookSecret); err != nil {
		slog.Warn("payment webhook rejected", "error", err, "remote", middleware.GetClientIP(r))
		middleware.ErrorResponse(w, http.StatusUnauthorized, "invalid signature")
		return
	}

	var ev models.PaymentEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		middleware.WriteError(w, r, apperr.Invalid("invalid JSON body"))
		return
	}
	if ev.EventID == "" {
		middleware.WriteError(w, r, apperr.Invalid("event_id is required"))
		return
	}

	upgraded, err := h.gate.ApplyPayment(r.Context(), ev)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	slog.Info("payment event processed", "event_id", ev.EventID, "user_id", ev.UserID, "upgraded", upgraded)
	middleware.JSONResponse(w, http.StatusOK, models.PaymentAckResponse{EventID: ev.EventID, Upgraded: upgraded})
}
