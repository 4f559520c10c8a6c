// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/quickly-ask/models"
	"github.com/danielhkuo/quickly-ask/testutil"
)

func TestCreateQuestion(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewQuestionHandler(db, cfg)

	member := testutil.CreateTestUser(t, db, "Member", models.RoleMember, false)
	premium := testutil.CreateTestUser(t, db, "Premium", models.RolePremium, true)

	tests := []struct {
		name           string
		userID         string
		body           interface{}
		expectedStatus int
	}{
		{
			name:           "yesNo by member",
			userID:         member,
			body:           models.CreateQuestionRequest{Text: "Tabs or spaces?", Type: models.TypeYesNo},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "multipleChoice by member is forbidden",
			userID:         member,
			body:           models.CreateQuestionRequest{Text: "Pick one", Type: models.TypeMultipleChoice, Options: []string{"A", "B"}},
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "multipleChoice by premium",
			userID:         premium,
			body:           models.CreateQuestionRequest{Text: "Pick one", Type: models.TypeMultipleChoice, Options: []string{"A", "B"}},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "missing text",
			userID:         member,
			body:           models.CreateQuestionRequest{Type: models.TypeYesNo},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "invalid JSON",
			userID:         member,
			body:           "not an object",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "anonymous",
			userID:         "",
			body:           models.CreateQuestionRequest{Text: "Q?", Type: models.TypeYesNo},
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var headers map[string]string
			if tt.userID != "" {
				headers = testutil.SessionHeader(t, cfg, tt.userID)
			}
			req := testutil.MakeRequest("POST", "/questions", tt.body, headers)
			w := httptest.NewRecorder()

			handler.CreateQuestion(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)
			if tt.expectedStatus == http.StatusCreated && w.Code == http.StatusCreated {
				var resp models.CreateQuestionResponse
				testutil.AssertJSON(t, w, &resp)
				if resp.QuestionID == "" {
					t.Error("Expected non-empty question_id")
				}
			}
		})
	}
}

func TestGetQuestion(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewQuestionHandler(db, cfg)

	author := testutil.CreateTestUser(t, db, "Author", models.RolePremium, true)
	qID, opts := testutil.CreateTestQuestion(t, db, author, models.TypeMultipleChoice, models.StatusActive, "Red", "Blue")
	testutil.SetOptionVotes(t, db, opts[0], 3)
	testutil.SetOptionVotes(t, db, opts[1], 1)
	removed, _ := testutil.CreateTestQuestion(t, db, author, models.TypeYesNo, models.StatusRemoved)

	req := testutil.MakeRequest("GET", "/questions/"+qID, nil, nil)
	req.SetPathValue("id", qID)
	w := httptest.NewRecorder()
	handler.GetQuestion(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)
	var resp models.QuestionWithTally
	testutil.AssertJSON(t, w, &resp)
	if len(resp.Question.Options) != 2 {
		t.Fatalf("Expected 2 options, got %d", len(resp.Question.Options))
	}
	if resp.Tally.Total != 4 {
		t.Errorf("Expected total 4, got %d", resp.Tally.Total)
	}
	if resp.Tally.Options[0].Percent != 75 {
		t.Errorf("Expected Red at 75%%, got %v", resp.Tally.Options[0].Percent)
	}

	for _, id := range []string{removed, "missing"} {
		req := testutil.MakeRequest("GET", "/questions/"+id, nil, nil)
		req.SetPathValue("id", id)
		w := httptest.NewRecorder()
		handler.GetQuestion(w, req)
		testutil.AssertStatus(t, w, http.StatusNotFound)
	}
}

func TestListQuestions(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewQuestionHandler(db, cfg)

	author := testutil.CreateTestUser(t, db, "Author", models.RoleMember, false)
	for i := 0; i < 3; i++ {
		testutil.CreateTestQuestion(t, db, author, models.TypeYesNo, models.StatusActive)
	}
	testutil.CreateTestQuestion(t, db, author, models.TypeYesNo, models.StatusClosed)

	tests := []struct {
		name           string
		query          string
		expectedStatus int
		expectedCount  int
	}{
		{"default", "", http.StatusOK, 3},
		{"limit", "?limit=2", http.StatusOK, 2},
		{"offset past end", "?offset=10", http.StatusOK, 0},
		{"sort new", "?sort=new", http.StatusOK, 3},
		{"other category", "?category=sports", http.StatusOK, 0},
		{"bad limit", "?limit=abc", http.StatusBadRequest, 0},
		{"bad sort", "?sort=random", http.StatusBadRequest, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("GET", "/questions"+tt.query, nil, nil)
			w := httptest.NewRecorder()

			handler.ListQuestions(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)
			if tt.expectedStatus == http.StatusOK {
				var list []models.Question
				testutil.AssertJSON(t, w, &list)
				if len(list) != tt.expectedCount {
					t.Errorf("Expected %d questions, got %d", tt.expectedCount, len(list))
				}
			}
		})
	}
}

func TestSetStatusAndSponsor(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewQuestionHandler(db, cfg)

	author := testutil.CreateTestUser(t, db, "Author", models.RoleMember, false)
	owner := testutil.CreateTestUser(t, db, "Owner", models.RoleOwner, false)
	qID, _ := testutil.CreateTestQuestion(t, db, author, models.TypeYesNo, models.StatusActive)

	sponsor := func(userID string) *httptest.ResponseRecorder {
		req := testutil.MakeRequest("POST", "/questions/"+qID+"/sponsor", nil, testutil.SessionHeader(t, cfg, userID))
		req.SetPathValue("id", qID)
		w := httptest.NewRecorder()
		handler.Sponsor(w, req)
		return w
	}
	setStatus := func(userID, status string) *httptest.ResponseRecorder {
		req := testutil.MakeRequest("POST", "/questions/"+qID+"/status", models.SetStatusRequest{Status: status}, testutil.SessionHeader(t, cfg, userID))
		req.SetPathValue("id", qID)
		w := httptest.NewRecorder()
		handler.SetStatus(w, req)
		return w
	}

	testutil.AssertStatus(t, sponsor(author), http.StatusForbidden)

	w := sponsor(owner)
	testutil.AssertStatus(t, w, http.StatusOK)
	var resp models.SponsorResponse
	testutil.AssertJSON(t, w, &resp)
	if !resp.Sponsored || resp.Persisted {
		t.Errorf("Expected sponsored=true persisted=false, got %+v", resp)
	}

	testutil.AssertStatus(t, setStatus(author, models.StatusRemoved), http.StatusForbidden)
	testutil.AssertStatus(t, setStatus(author, models.StatusClosed), http.StatusOK)
	testutil.AssertStatus(t, sponsor(owner), http.StatusConflict)
	testutil.AssertStatus(t, setStatus(owner, models.StatusActive), http.StatusOK)
	testutil.AssertStatus(t, setStatus(owner, "bogus"), http.StatusBadRequest)
}

func TestAuditEndpoint(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewQuestionHandler(db, cfg)

	author := testutil.CreateTestUser(t, db, "Author", models.RoleMember, false)
	owner := testutil.CreateTestUser(t, db, "Owner", models.RoleOwner, false)
	qID, _ := testutil.CreateTestQuestion(t, db, author, models.TypeYesNo, models.StatusActive)
	testutil.SetCounters(t, db, qID, 2, 0)

	audit := func(userID string) *httptest.ResponseRecorder {
		req := testutil.MakeRequest("GET", "/questions/"+qID+"/audit", nil, testutil.SessionHeader(t, cfg, userID))
		req.SetPathValue("id", qID)
		w := httptest.NewRecorder()
		handler.Audit(w, req)
		return w
	}

	testutil.AssertStatus(t, audit(author), http.StatusForbidden)

	w := audit(owner)
	testutil.AssertStatus(t, w, http.StatusOK)
	var report models.AuditReport
	testutil.AssertJSON(t, w, &report)
	if report.Consistent {
		t.Error("Expected drift: counters were written without ledger rows")
	}
	if len(report.Drift) != 1 || report.Drift[0].Counter != 2 || report.Drift[0].Ledger != 0 {
		t.Errorf("Unexpected drift report: %+v", report.Drift)
	}
}
