// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/quickly-ask/apperr"
	"github.com/danielhkuo/quickly-ask/db"
	"github.com/danielhkuo/quickly-ask/metrics"
	"github.com/danielhkuo/quickly-ask/models"
)

// Ledger records votes, one per (voter, question), and keeps the
// question and option counters equal to the recorded votes.
type Ledger struct {
	db    *sql.DB
	now   func() time.Time
	newID func() string
}

func New(conn *sql.DB) *Ledger {
	return &Ledger{db: conn, now: time.Now, newID: uuid.NewString}
}

// Receipt is the result of an accepted vote.
type Receipt struct {
	VoteID string
	Tally  models.Tally
}

// questionRef is the slice of a question the ledger needs to accept a vote.
type questionRef struct {
	ID     string
	Type   string
	Status string
}

// CastVote records voterID's answer on questionID and applies it to the
// counters in the same transaction. Failures:
//
//   - apperr.ErrUserNotFound, apperr.ErrQuestionNotFound
//   - apperr.ErrQuestionClosed when the question is not active, including
//     when it is closed while the vote is in flight
//   - apperr.ErrInvalidAnswer when the answer does not fit the question
//   - apperr.ErrAlreadyVoted when a vote for the pair exists, including
//     when a concurrent cast for the same pair committed first
//   - StoreUnavailable for anything the store itself rejects
//
// A retried CastVote after StoreUnavailable is safe: the vote either was
// not committed, or the retry collapses to ErrAlreadyVoted.
func (l *Ledger) CastVote(ctx context.Context, voterID, questionID string, answer models.Answer) (Receipt, error) {
	receipt, err := l.castVote(ctx, voterID, questionID, answer)
	if err != nil {
		metrics.RecordVote(apperr.KindOf(err).String())
		switch apperr.KindOf(err) {
		case apperr.KindStoreUnavailable:
			slog.Error("vote not recorded", "error", err, "question_id", questionID)
		case apperr.KindInternal:
			slog.Error("vote rejected on counter invariant", "error", err, "question_id", questionID)
		}
		return Receipt{}, err
	}

	metrics.RecordVote("accepted")
	slog.Info("vote cast", "question_id", questionID, "vote_id", receipt.VoteID, "answer", answer.Stored())
	return receipt, nil
}

func (l *Ledger) castVote(ctx context.Context, voterID, questionID string, answer models.Answer) (Receipt, error) {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return Receipt{}, apperr.Unavailable("begin vote transaction", err)
	}
	defer tx.Rollback()

	var voterExists bool
	err = tx.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)
	`, voterID).Scan(&voterExists)
	if err != nil {
		return Receipt{}, apperr.Unavailable("check voter", err)
	}
	if !voterExists {
		return Receipt{}, apperr.ErrUserNotFound
	}

	var q questionRef
	err = tx.QueryRowContext(ctx, `
		SELECT id, type, status FROM question WHERE id = $1
	`, questionID).Scan(&q.ID, &q.Type, &q.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return Receipt{}, apperr.ErrQuestionNotFound
	}
	if err != nil {
		return Receipt{}, apperr.Unavailable("load question", err)
	}

	if q.Status != models.StatusActive {
		return Receipt{}, apperr.ErrQuestionClosed
	}

	if !answer.Matches(q.Type) {
		return Receipt{}, apperr.ErrInvalidAnswer
	}

	var optionID *string
	if answer.IsOption() {
		var belongs bool
		err = tx.QueryRowContext(ctx, `
			SELECT EXISTS(SELECT 1 FROM question_option WHERE id = $1 AND question_id = $2)
		`, answer.OptionID(), q.ID).Scan(&belongs)
		if err != nil {
			return Receipt{}, apperr.Unavailable("check option", err)
		}
		if !belongs {
			return Receipt{}, apperr.ErrInvalidAnswer
		}
		id := answer.OptionID()
		optionID = &id
	}

	// UNIQUE (voter_id, question_id) decides races between concurrent casts.
	voteID := l.newID()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO vote (id, voter_id, question_id, answer, option_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, voteID, voterID, q.ID, answer.Stored(), optionID, l.now())
	if err != nil {
		if db.IsUniqueViolation(err) {
			return Receipt{}, apperr.ErrAlreadyVoted
		}
		return Receipt{}, apperr.Unavailable("insert vote", err)
	}

	if err := applyVote(ctx, tx, q, answer); err != nil {
		return Receipt{}, err
	}

	tally, err := tallyOf(ctx, tx, q.ID)
	if err != nil {
		return Receipt{}, err
	}

	if err := tx.Commit(); err != nil {
		if db.IsUniqueViolation(err) {
			return Receipt{}, apperr.ErrAlreadyVoted
		}
		return Receipt{}, apperr.Unavailable("commit vote", err)
	}

	return Receipt{VoteID: voteID, Tally: tally}, nil
}

// MyVote returns voterID's vote on questionID.
func (l *Ledger) MyVote(ctx context.Context, voterID, questionID string) (models.Vote, error) {
	var v models.Vote
	var optionID sql.NullString
	err := l.db.QueryRowContext(ctx, `
		SELECT id, voter_id, question_id, answer, option_id, created_at
		FROM vote
		WHERE voter_id = $1 AND question_id = $2
	`, voterID, questionID).Scan(&v.ID, &v.VoterID, &v.QuestionID, &v.Answer, &optionID, &v.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Vote{}, apperr.ErrVoteNotFound
	}
	if err != nil {
		return models.Vote{}, apperr.Unavailable("load vote", err)
	}
	if optionID.Valid {
		v.OptionID = &optionID.String
	}
	return v, nil
}
