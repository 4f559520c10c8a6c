// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package questions

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/quickly-ask/apperr"
	"github.com/danielhkuo/quickly-ask/entitlement"
	"github.com/danielhkuo/quickly-ask/models"
	"github.com/danielhkuo/quickly-ask/testutil"
)

type denyAll struct{ calls int }

func (d *denyAll) Require(ctx context.Context, userID string) error {
	d.calls++
	return apperr.ErrForbidden
}

func TestCreateValidation(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	s := NewStore(conn, entitlement.NewGate(conn))
	author := testutil.CreateTestUser(t, conn, "Author", models.RoleOwner, false)

	tests := []struct {
		name string
		req  models.CreateQuestionRequest
	}{
		{"empty text", models.CreateQuestionRequest{Text: "   ", Type: models.TypeYesNo}},
		{"text too long", models.CreateQuestionRequest{Text: strings.Repeat("a", 501), Type: models.TypeYesNo}},
		{"unknown type", models.CreateQuestionRequest{Text: "Q?", Type: "ranked"}},
		{"yesNo with options", models.CreateQuestionRequest{Text: "Q?", Type: models.TypeYesNo, Options: []string{"A", "B"}}},
		{"one option", models.CreateQuestionRequest{Text: "Q?", Type: models.TypeMultipleChoice, Options: []string{"A"}}},
		{"seven options", models.CreateQuestionRequest{Text: "Q?", Type: models.TypeMultipleChoice, Options: []string{"1", "2", "3", "4", "5", "6", "7"}}},
		{"blank option", models.CreateQuestionRequest{Text: "Q?", Type: models.TypeMultipleChoice, Options: []string{"A", " "}}},
		{"duplicate option", models.CreateQuestionRequest{Text: "Q?", Type: models.TypeMultipleChoice, Options: []string{"Red", "red"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Create(context.Background(), author, tt.req)
			require.Error(t, err)
			assert.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err))
		})
	}
}

func TestCreateYesNo(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	s := NewStore(conn, entitlement.NewGate(conn))
	ctx := context.Background()
	author := testutil.CreateTestUser(t, conn, "Author", models.RoleMember, false)

	q, err := s.Create(ctx, author, models.CreateQuestionRequest{Text: "  Is Go fun?  ", Type: models.TypeYesNo})
	require.NoError(t, err)
	assert.Equal(t, "Is Go fun?", q.Text)
	assert.Equal(t, "general", q.Category)
	assert.Equal(t, models.StatusActive, q.Status)

	got, err := s.Get(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, q.ID, got.ID)
	assert.Zero(t, got.YesCount)
	assert.Zero(t, got.NoCount)
	assert.Empty(t, got.Options)

	_, err = s.Create(ctx, "missing", models.CreateQuestionRequest{Text: "Q?", Type: models.TypeYesNo})
	require.ErrorIs(t, err, apperr.ErrUserNotFound)
}

func TestCreateMultipleChoiceIsGated(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	gate := entitlement.NewGate(conn)
	s := NewStore(conn, gate)
	ctx := context.Background()
	req := models.CreateQuestionRequest{Text: "Best color?", Category: "Design", Type: models.TypeMultipleChoice, Options: []string{"Red", " Green ", "Blue"}}

	member := testutil.CreateTestUser(t, conn, "Member", models.RoleMember, false)
	_, err := s.Create(ctx, member, req)
	require.ErrorIs(t, err, apperr.ErrForbidden)

	_, err = gate.Upgrade(ctx, member, "")
	require.NoError(t, err)

	q, err := s.Create(ctx, member, req)
	require.NoError(t, err)
	assert.Equal(t, "design", q.Category)

	got, err := s.Get(ctx, q.ID)
	require.NoError(t, err)
	require.Len(t, got.Options, 3)
	for i, want := range []string{"Red", "Green", "Blue"} {
		assert.Equal(t, want, got.Options[i].Text)
		assert.Equal(t, i, got.Options[i].Position)
	}
}

func TestCreateDeniedBeforeInsert(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	gate := &denyAll{}
	s := NewStore(conn, gate)
	author := testutil.CreateTestUser(t, conn, "Author", models.RoleOwner, false)

	_, err := s.Create(context.Background(), author, models.CreateQuestionRequest{Text: "Q?", Type: models.TypeMultipleChoice, Options: []string{"A", "B"}})
	require.ErrorIs(t, err, apperr.ErrForbidden)
	assert.Equal(t, 1, gate.calls)

	var n int
	require.NoError(t, conn.QueryRow(`SELECT COUNT(*) FROM question`).Scan(&n))
	assert.Zero(t, n)

	_, err = s.Create(context.Background(), author, models.CreateQuestionRequest{Text: "Q?", Type: models.TypeYesNo})
	require.NoError(t, err, "yesNo questions are not gated")
	assert.Equal(t, 1, gate.calls)
}

func TestGetNotFound(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	s := NewStore(conn, entitlement.NewGate(conn))

	_, err := s.Get(context.Background(), "missing")
	require.ErrorIs(t, err, apperr.ErrQuestionNotFound)
}

func TestList(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	s := NewStore(conn, entitlement.NewGate(conn))
	ctx := context.Background()
	author := testutil.CreateTestUser(t, conn, "Author", models.RoleOwner, true)

	low, _ := testutil.CreateTestQuestion(t, conn, author, models.TypeYesNo, models.StatusActive)
	testutil.SetCounters(t, conn, low, 1, 1)
	high, opts := testutil.CreateTestQuestion(t, conn, author, models.TypeMultipleChoice, models.StatusActive, "A", "B")
	testutil.SetOptionVotes(t, conn, opts[0], 5)
	closed, _ := testutil.CreateTestQuestion(t, conn, author, models.TypeYesNo, models.StatusClosed)
	testutil.SetCounters(t, conn, closed, 100, 0)

	list, err := s.List(ctx, ListFilter{Sort: SortTop})
	require.NoError(t, err)
	require.Len(t, list, 2, "only active questions are listed")
	assert.Equal(t, high, list[0].ID)
	assert.Equal(t, low, list[1].ID)

	list, err = s.List(ctx, ListFilter{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, low, list[0].ID)

	list, err = s.List(ctx, ListFilter{Category: "sports"})
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = s.List(ctx, ListFilter{Sort: "random"})
	assert.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err))

	_, err = s.List(ctx, ListFilter{Offset: -1})
	assert.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err))
}

func TestSetStatus(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	s := NewStore(conn, entitlement.NewGate(conn))
	ctx := context.Background()

	author := testutil.CreateTestUser(t, conn, "Author", models.RoleMember, false)
	other := testutil.CreateTestUser(t, conn, "Other", models.RolePremium, true)
	owner := testutil.CreateTestUser(t, conn, "Owner", models.RoleOwner, false)
	qID, _ := testutil.CreateTestQuestion(t, conn, author, models.TypeYesNo, models.StatusActive)
	testutil.SetCounters(t, conn, qID, 3, 2)

	_, err := s.SetStatus(ctx, other, qID, models.StatusClosed)
	require.ErrorIs(t, err, apperr.ErrForbidden)

	_, err = s.SetStatus(ctx, author, qID, models.StatusRemoved)
	require.ErrorIs(t, err, apperr.ErrForbidden)

	q, err := s.SetStatus(ctx, author, qID, models.StatusClosed)
	require.NoError(t, err)
	assert.Equal(t, models.StatusClosed, q.Status)

	_, err = s.SetStatus(ctx, author, qID, models.StatusActive)
	require.ErrorIs(t, err, apperr.ErrForbidden)

	q, err = s.SetStatus(ctx, owner, qID, models.StatusActive)
	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, q.Status)
	assert.Equal(t, int64(3), q.YesCount)
	assert.Equal(t, int64(2), q.NoCount)

	_, err = s.SetStatus(ctx, owner, qID, "archived")
	assert.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err))

	_, err = s.SetStatus(ctx, owner, "missing", models.StatusClosed)
	require.ErrorIs(t, err, apperr.ErrQuestionNotFound)
}

func TestSponsor(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	s := NewStore(conn, entitlement.NewGate(conn))
	ctx := context.Background()

	author := testutil.CreateTestUser(t, conn, "Author", models.RoleMember, false)
	premium := testutil.CreateTestUser(t, conn, "Premium", models.RolePremium, true)
	active, _ := testutil.CreateTestQuestion(t, conn, author, models.TypeYesNo, models.StatusActive)
	closed, _ := testutil.CreateTestQuestion(t, conn, author, models.TypeYesNo, models.StatusClosed)

	_, err := s.Sponsor(ctx, author, active)
	require.ErrorIs(t, err, apperr.ErrForbidden)

	resp, err := s.Sponsor(ctx, premium, active)
	require.NoError(t, err)
	assert.True(t, resp.Sponsored)
	assert.False(t, resp.Persisted)

	_, err = s.Sponsor(ctx, premium, closed)
	require.ErrorIs(t, err, apperr.ErrQuestionClosed)

	_, err = s.Sponsor(ctx, premium, "missing")
	require.ErrorIs(t, err, apperr.ErrQuestionNotFound)
}

func TestGetStoreUnavailable(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	mock.ExpectQuery(`SELECT id, author_id`).WillReturnError(errors.New("connection refused"))

	_, err = NewStore(conn, &denyAll{}).Get(context.Background(), "q1")
	assert.Equal(t, apperr.KindStoreUnavailable, apperr.KindOf(err))
	assert.True(t, apperr.Retryable(err))
	require.NoError(t, mock.ExpectationsWereMet())
}
