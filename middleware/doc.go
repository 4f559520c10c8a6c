// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Logs completion (method, path, status, duration_ms) and records the
quickly_ask_http_* metrics, labelled by the matched mux pattern.

# CORS Middleware

Enable cross-origin requests for frontend access:

	server := http.Server{
		Handler: middleware.CORS(mux),
	}

Allows methods GET, POST, OPTIONS with headers Content-Type,
Authorization, X-Signature.

# JSON Helpers

Write JSON responses:

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")

Parse JSON request bodies (capped at 1 MiB):

	var req models.CastVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.WriteError(w, r, err)
		return
	}

# Errors

WriteError maps apperr kinds to status codes:

	NotFound          404
	Conflict          409
	InvalidInput      400
	Forbidden         403
	StoreUnavailable  503, Retry-After: 1
	anything else     500, logged, no detail returned

# Rate Limiting

RateLimiter keeps a token bucket per key (client IP by default):

	rl := middleware.NewRateLimiter(5, 10, nil)
	mux.HandleFunc("POST /questions/{id}/votes", middleware.WithLogging(rl.Limit(h.CastVote)))

# Client IP Extraction

Get the original client IP (handles X-Forwarded-For, X-Real-IP):

	ip := middleware.GetClientIP(r)
*/
package middleware
