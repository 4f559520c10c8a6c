// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/danielhkuo/quickly-ask/auth"
	"github.com/danielhkuo/quickly-ask/cliparse"
	"github.com/danielhkuo/quickly-ask/handlers"
	"github.com/danielhkuo/quickly-ask/metrics"
	"github.com/danielhkuo/quickly-ask/middleware"
)

func NewRouter(db *sql.DB, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	questionHandler := handlers.NewQuestionHandler(db, cfg)
	votingHandler := handlers.NewVotingHandler(db, cfg)
	premiumHandler := handlers.NewPremiumHandler(db, cfg)
	statsHandler := handlers.NewStatsHandler(db, cfg)

	// Votes are limited per user, falling back to client IP
	resolver := auth.NewSessionResolver(cfg.SessionSecret)
	voteLimiter := middleware.NewRateLimiter(cfg.VoteRatePerSec, cfg.VoteRateBurst, func(r *http.Request) string {
		if id := resolver.Resolve(r); !id.IsAnonymous() {
			return "user:" + id.UserID
		}
		return "ip:" + middleware.GetClientIP(r)
	})

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	mux.Handle("GET /metrics", metrics.Handler())

	// Questions
	mux.HandleFunc("POST /questions", middleware.WithLogging(questionHandler.CreateQuestion))
	mux.HandleFunc("GET /questions", middleware.WithLogging(questionHandler.ListQuestions))
	mux.HandleFunc("GET /questions/{id}", middleware.WithLogging(questionHandler.GetQuestion))
	mux.HandleFunc("POST /questions/{id}/status", middleware.WithLogging(questionHandler.SetStatus))
	mux.HandleFunc("POST /questions/{id}/sponsor", middleware.WithLogging(questionHandler.Sponsor))
	mux.HandleFunc("GET /questions/{id}/audit", middleware.WithLogging(questionHandler.Audit))

	// Voting
	mux.HandleFunc("POST /questions/{id}/votes", middleware.WithLogging(voteLimiter.Limit(votingHandler.CastVote)))
	mux.HandleFunc("GET /questions/{id}/my-vote", middleware.WithLogging(votingHandler.GetMyVote))

	// Entitlements
	mux.HandleFunc("GET /me", middleware.WithLogging(premiumHandler.GetMe))
	mux.HandleFunc("POST /premium/upgrade", middleware.WithLogging(premiumHandler.Upgrade))
	mux.HandleFunc("GET /premium/can-sponsor", middleware.WithLogging(premiumHandler.CanSponsor))
	mux.HandleFunc("POST /webhooks/payment", middleware.WithLogging(premiumHandler.PaymentWebhook))

	// Stats
	mux.HandleFunc("GET /stats/platform", middleware.WithLogging(statsHandler.GetPlatformStats))
	mux.HandleFunc("GET /users/{id}/stats", middleware.WithLogging(statsHandler.GetUserStats))

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("quickly-ask API v1"))
	})

	return mux
}
