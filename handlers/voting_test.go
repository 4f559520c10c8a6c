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

func TestCastVote(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewVotingHandler(db, cfg)

	author := testutil.CreateTestUser(t, db, "Author", models.RolePremium, true)
	active, _ := testutil.CreateTestQuestion(t, db, author, models.TypeYesNo, models.StatusActive)
	closed, _ := testutil.CreateTestQuestion(t, db, author, models.TypeYesNo, models.StatusClosed)
	multi, opts := testutil.CreateTestQuestion(t, db, author, models.TypeMultipleChoice, models.StatusActive, "A", "B")

	tests := []struct {
		name           string
		questionID     string
		body           interface{}
		authenticated  bool
		expectedStatus int
		checkResponse  func(t *testing.T, resp *models.CastVoteResponse)
	}{
		{
			name:           "yes vote",
			questionID:     active,
			body:           models.CastVoteRequest{Answer: "yes"},
			authenticated:  true,
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, resp *models.CastVoteResponse) {
				if resp.VoteID == "" {
					t.Error("Expected non-empty vote_id")
				}
				if resp.Tally.Yes != 1 || resp.Tally.No != 0 {
					t.Errorf("Expected 1 yes / 0 no, got %d / %d", resp.Tally.Yes, resp.Tally.No)
				}
				if resp.Tally.YesPercent != 100 {
					t.Errorf("Expected 100%% yes, got %v", resp.Tally.YesPercent)
				}
			},
		},
		{
			name:           "option vote",
			questionID:     multi,
			body:           models.CastVoteRequest{OptionID: opts[1]},
			authenticated:  true,
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, resp *models.CastVoteResponse) {
				if len(resp.Tally.Options) != 2 || resp.Tally.Options[1].Votes != 1 {
					t.Errorf("Expected option B to have 1 vote, got %+v", resp.Tally.Options)
				}
			},
		},
		{
			name:           "anonymous caller",
			questionID:     active,
			body:           models.CastVoteRequest{Answer: "no"},
			authenticated:  false,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "closed question",
			questionID:     closed,
			body:           models.CastVoteRequest{Answer: "no"},
			authenticated:  true,
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "unknown question",
			questionID:     "missing",
			body:           models.CastVoteRequest{Answer: "no"},
			authenticated:  true,
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "malformed answer",
			questionID:     active,
			body:           models.CastVoteRequest{Answer: "maybe"},
			authenticated:  true,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "option on yesNo question",
			questionID:     active,
			body:           models.CastVoteRequest{OptionID: opts[0]},
			authenticated:  true,
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Fresh voter per case so earlier cases don't collide
			voter := testutil.CreateTestUser(t, db, "Voter", models.RoleMember, false)
			var headers map[string]string
			if tt.authenticated {
				headers = testutil.SessionHeader(t, cfg, voter)
			}

			req := testutil.MakeRequest("POST", "/questions/"+tt.questionID+"/votes", tt.body, headers)
			req.SetPathValue("id", tt.questionID)
			w := httptest.NewRecorder()

			handler.CastVote(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)
			if tt.checkResponse != nil && w.Code == tt.expectedStatus {
				var resp models.CastVoteResponse
				testutil.AssertJSON(t, w, &resp)
				tt.checkResponse(t, &resp)
			}
		})
	}
}

func TestCastVoteTwiceReturnsConflict(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewVotingHandler(db, cfg)

	author := testutil.CreateTestUser(t, db, "Author", models.RoleMember, false)
	voter := testutil.CreateTestUser(t, db, "Voter", models.RoleMember, false)
	qID, _ := testutil.CreateTestQuestion(t, db, author, models.TypeYesNo, models.StatusActive)
	headers := testutil.SessionHeader(t, cfg, voter)

	for i, expected := range []int{http.StatusCreated, http.StatusConflict} {
		req := testutil.MakeRequest("POST", "/questions/"+qID+"/votes", models.CastVoteRequest{Answer: "no"}, headers)
		req.SetPathValue("id", qID)
		w := httptest.NewRecorder()
		handler.CastVote(w, req)
		if w.Code != expected {
			t.Fatalf("Attempt %d: expected %d, got %d: %s", i+1, expected, w.Code, w.Body.String())
		}
	}

	if n := testutil.CountVotes(t, db, qID); n != 1 {
		t.Errorf("Expected 1 ledger row, got %d", n)
	}
}

func TestGetMyVote(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewVotingHandler(db, cfg)

	author := testutil.CreateTestUser(t, db, "Author", models.RoleMember, false)
	voter := testutil.CreateTestUser(t, db, "Voter", models.RoleMember, false)
	qID, _ := testutil.CreateTestQuestion(t, db, author, models.TypeYesNo, models.StatusActive)
	headers := testutil.SessionHeader(t, cfg, voter)

	get := func() *httptest.ResponseRecorder {
		req := testutil.MakeRequest("GET", "/questions/"+qID+"/my-vote", nil, headers)
		req.SetPathValue("id", qID)
		w := httptest.NewRecorder()
		handler.GetMyVote(w, req)
		return w
	}

	testutil.AssertStatus(t, get(), http.StatusNotFound)

	req := testutil.MakeRequest("POST", "/questions/"+qID+"/votes", models.CastVoteRequest{Answer: "yes"}, headers)
	req.SetPathValue("id", qID)
	handler.CastVote(httptest.NewRecorder(), req)

	w := get()
	testutil.AssertStatus(t, w, http.StatusOK)

	var vote models.Vote
	testutil.AssertJSON(t, w, &vote)
	if vote.Answer != models.AnswerYes {
		t.Errorf("Expected answer 'yes', got '%s'", vote.Answer)
	}
	if vote.QuestionID != qID {
		t.Errorf("Expected question_id %s, got %s", qID, vote.QuestionID)
	}
}
