// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth resolves caller identity and authenticates webhook payloads.

# Identity

A Resolver turns a request into an Identity:

	id := resolver.Resolve(r)
	if id.IsAnonymous() {
		// 401
	}

SessionResolver accepts an HS256 JWT from the "session" cookie or an
"Authorization: Bearer" header. The token's subject is the user ID. Bad,
expired or missing credentials resolve to an anonymous identity; Resolve
never returns an error.

The resolved Identity is passed explicitly to every core operation.
Nothing stores it in request-global state.

# Session Tokens

Tokens are issued by the account service. SignSession exists for local
development and tests:

	token, err := auth.SignSession(userID, secret, time.Hour)

# Webhook Signatures

Payment events are authenticated with a hex HMAC-SHA256 of the raw body:

	sig := auth.SignPayload(body, secret)
	err := auth.VerifyPayloadSignature(body, r.Header.Get("X-Signature"), secret)

Comparison is constant time.
*/
package auth
