// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/quickly-ask/auth"
	"github.com/danielhkuo/quickly-ask/cliparse"
	"github.com/danielhkuo/quickly-ask/db"
	"github.com/danielhkuo/quickly-ask/models"
)

// SetupTestDB creates a fresh SQLite database file with the full schema.
// Each test gets its own file, so tests may run in parallel.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	conn, err := db.Open(db.TypeSQLite, "file:"+path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(10000)")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	if err := db.CreateSchema(conn); err != nil {
		conn.Close()
		t.Fatalf("Failed to create schema: %v", err)
	}

	t.Cleanup(func() { conn.Close() })
	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:                 3318,
		DatabaseURL:          "file::memory:",
		DatabaseType:         db.TypeSQLite,
		SessionSecret:        "test-session-secret",
		PaymentWebhookSecret: "test-webhook-secret",
		VoteRatePerSec:       1000,
		VoteRateBurst:        1000,
	}
}

// CreateTestUser inserts a user and returns its ID.
func CreateTestUser(t *testing.T, conn *sql.DB, name, role string, isPremium bool) string {
	t.Helper()

	userID := uuid.NewString()
	var premiumSince *time.Time
	if isPremium {
		now := time.Now()
		premiumSince = &now
	}

	_, err := conn.Exec(`
		INSERT INTO users (id, name, is_premium, premium_since, role, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, userID, name, isPremium, premiumSince, role, time.Now())
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return userID
}

// CreateTestQuestion inserts a question and its options (for
// multipleChoice) and returns the question ID and option IDs in order.
func CreateTestQuestion(t *testing.T, conn *sql.DB, authorID, qType, status string, options ...string) (string, []string) {
	t.Helper()

	questionID := uuid.NewString()
	_, err := conn.Exec(`
		INSERT INTO question (id, author_id, text, category, status, type, created_at)
		VALUES ($1, $2, 'Test question?', 'general', $3, $4, $5)
	`, questionID, authorID, status, qType, time.Now())
	if err != nil {
		t.Fatalf("Failed to create test question: %v", err)
	}

	optionIDs := make([]string, 0, len(options))
	for i, text := range options {
		optionID := uuid.NewString()
		_, err := conn.Exec(`
			INSERT INTO question_option (id, question_id, text, position)
			VALUES ($1, $2, $3, $4)
		`, optionID, questionID, text, i)
		if err != nil {
			t.Fatalf("Failed to create test option: %v", err)
		}
		optionIDs = append(optionIDs, optionID)
	}

	return questionID, optionIDs
}

// SetCounters writes yes/no counters directly, bypassing the ledger.
// Only projector tests use it; the counters will not match the vote table.
func SetCounters(t *testing.T, conn *sql.DB, questionID string, yes, no int64) {
	t.Helper()
	if _, err := conn.Exec(`UPDATE question SET yes_count = $1, no_count = $2 WHERE id = $3`, yes, no, questionID); err != nil {
		t.Fatalf("Failed to set counters: %v", err)
	}
}

// SetOptionVotes writes an option counter directly, bypassing the ledger.
func SetOptionVotes(t *testing.T, conn *sql.DB, optionID string, votes int64) {
	t.Helper()
	if _, err := conn.Exec(`UPDATE question_option SET vote_count = $1 WHERE id = $2`, votes, optionID); err != nil {
		t.Fatalf("Failed to set option votes: %v", err)
	}
}

// LoadUser reads a user row.
func LoadUser(t *testing.T, conn *sql.DB, userID string) models.User {
	t.Helper()

	var u models.User
	err := conn.QueryRow(`SELECT id, name, is_premium, role FROM users WHERE id = $1`, userID).
		Scan(&u.ID, &u.Name, &u.IsPremium, &u.Role)
	if err != nil {
		t.Fatalf("Failed to load user: %v", err)
	}
	return u
}

// CountVotes returns the number of ledger rows for a question.
func CountVotes(t *testing.T, conn *sql.DB, questionID string) int {
	t.Helper()

	var n int
	if err := conn.QueryRow(`SELECT COUNT(*) FROM vote WHERE question_id = $1`, questionID).Scan(&n); err != nil {
		t.Fatalf("Failed to count votes: %v", err)
	}
	return n
}

// SessionHeader returns an Authorization header for userID.
func SessionHeader(t *testing.T, cfg cliparse.Config, userID string) map[string]string {
	t.Helper()

	token, err := auth.SignSession(userID, cfg.SessionSecret, time.Hour)
	if err != nil {
		t.Fatalf("Failed to sign session: %v", err)
	}
	return map[string]string{"Authorization": "Bearer " + token}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
