// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidSignature = errors.New("invalid signature")
	ErrInvalidToken     = errors.New("invalid session token")
)

// SessionCookie is the cookie carrying the session token.
const SessionCookie = "session"

// Identity is the resolved caller. An empty UserID means anonymous.
type Identity struct {
	UserID string
}

func Anonymous() Identity { return Identity{} }

func (id Identity) IsAnonymous() bool { return id.UserID == "" }

// Resolver maps an inbound request's credential to an Identity.
type Resolver interface {
	Resolve(r *http.Request) Identity
}

// SessionResolver verifies HS256 session tokens issued by the
// account service. Issuance is not this service's job.
type SessionResolver struct {
	secret []byte
	now    func() time.Time
}

func NewSessionResolver(secret string) *SessionResolver {
	return &SessionResolver{secret: []byte(secret), now: time.Now}
}

// Resolve never fails: a missing or bad credential is anonymous.
func (s *SessionResolver) Resolve(r *http.Request) Identity {
	raw := tokenFromRequest(r)
	if raw == "" {
		return Anonymous()
	}

	userID, err := s.Verify(raw)
	if err != nil {
		return Anonymous()
	}
	return Identity{UserID: userID}
}

// Verify checks the token signature and expiry and returns its subject.
func (s *SessionResolver) Verify(raw string) (string, error) {
	token, err := jwt.ParseWithClaims(raw, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

func tokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	if c, err := r.Cookie(SessionCookie); err == nil {
		return c.Value
	}
	return ""
}

// SignSession creates a session token for userID. Used by development
// tooling and tests; production tokens come from the account service.
func SignSession(userID, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		ID:        uuid.NewString(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign session: %w", err)
	}
	return signed, nil
}

// SignPayload returns the hex HMAC-SHA256 of body under secret.
func SignPayload(body []byte, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil))
}

// VerifyPayloadSignature checks a webhook body against its signature header
func VerifyPayloadSignature(body []byte, signature, secret string) error {
	expected := SignPayload(body, secret)
	if !hmac.Equal([]byte(strings.ToLower(signature)), []byte(expected)) {
		return ErrInvalidSignature
	}
	return nil
}
