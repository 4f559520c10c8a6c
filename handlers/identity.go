// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/quickly-ask/auth"
	"github.com/danielhkuo/quickly-ask/middleware"
)

// requireUser resolves the caller and writes 401 for anonymous requests.
func requireUser(w http.ResponseWriter, r *http.Request, resolver auth.Resolver) (string, bool) {
	id := resolver.Resolve(r)
	if id.IsAnonymous() {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "authentication required")
		return "", false
	}
	return id.UserID, true
}
