// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import (
	"context"
	"database/sql"
	"errors"
	"math"

	"github.com/danielhkuo/quickly-ask/apperr"
	"github.com/danielhkuo/quickly-ask/models"
)

// queryer is satisfied by *sql.DB and *sql.Tx.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// applyVote adds one to the counter matching answer. It runs only inside
// CastVote's transaction, after the vote row was inserted, so a counter
// never moves without a ledger row and vice versa.
//
// The increment is done by the store (col = col + 1); the application
// never reads a counter to write it back. Each statement also requires the
// question to still be active, so a close that commits after CastVote read
// the status rejects the vote.
func applyVote(ctx context.Context, tx *sql.Tx, q questionRef, answer models.Answer) error {
	if answer.IsOption() {
		res, err := tx.ExecContext(ctx, `
			UPDATE question SET status = status WHERE id = $1 AND status = $2
		`, q.ID, models.StatusActive)
		if err := activeRow(res, err); err != nil {
			return err
		}
		res, err = tx.ExecContext(ctx, `
			UPDATE question_option SET vote_count = vote_count + 1
			WHERE id = $1 AND question_id = $2
		`, answer.OptionID(), q.ID)
		return exactlyOne(q, res, err)
	}

	col := "no_count"
	if answer.IsYes() {
		col = "yes_count"
	}
	res, err := tx.ExecContext(ctx, `
		UPDATE question SET `+col+` = `+col+` + 1 WHERE id = $1 AND status = $2
	`, q.ID, models.StatusActive)
	return activeRow(res, err)
}

// activeRow maps a guarded question update to ErrQuestionClosed when the
// question is no longer active.
func activeRow(res sql.Result, err error) error {
	if err != nil {
		return apperr.Unavailable("increment counter", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return apperr.Unavailable("increment counter", err)
	}
	switch n {
	case 1:
		return nil
	case 0:
		return apperr.ErrQuestionClosed
	default:
		return apperr.Internal("question update touched %d rows", n)
	}
}

func exactlyOne(q questionRef, res sql.Result, err error) error {
	if err != nil {
		return apperr.Unavailable("increment counter", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return apperr.Unavailable("increment counter", err)
	}
	if n != 1 {
		return apperr.Internal("counter increment for question %s touched %d rows", q.ID, n)
	}
	return nil
}

// Tally returns the current counters of a question. Reads are not
// transactional and may trail in-flight votes.
func (l *Ledger) Tally(ctx context.Context, questionID string) (models.Tally, error) {
	return tallyOf(ctx, l.db, questionID)
}

func tallyOf(ctx context.Context, q queryer, questionID string) (models.Tally, error) {
	t := models.Tally{QuestionID: questionID}

	err := q.QueryRowContext(ctx, `
		SELECT type, yes_count, no_count FROM question WHERE id = $1
	`, questionID).Scan(&t.Type, &t.Yes, &t.No)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Tally{}, apperr.ErrQuestionNotFound
	}
	if err != nil {
		return models.Tally{}, apperr.Unavailable("load counters", err)
	}

	if t.Type == models.TypeYesNo {
		t.Total = t.Yes + t.No
		t.YesPercent = percent(t.Yes, t.Total)
		t.NoPercent = percent(t.No, t.Total)
		return t, nil
	}

	rows, err := q.QueryContext(ctx, `
		SELECT id, text, vote_count
		FROM question_option
		WHERE question_id = $1
		ORDER BY position
	`, questionID)
	if err != nil {
		return models.Tally{}, apperr.Unavailable("load option counters", err)
	}
	defer rows.Close()

	for rows.Next() {
		var o models.OptionTally
		if err := rows.Scan(&o.OptionID, &o.Text, &o.Votes); err != nil {
			return models.Tally{}, apperr.Unavailable("scan option counter", err)
		}
		t.Total += o.Votes
		t.Options = append(t.Options, o)
	}
	if err := rows.Err(); err != nil {
		return models.Tally{}, apperr.Unavailable("load option counters", err)
	}

	for i := range t.Options {
		t.Options[i].Percent = percent(t.Options[i].Votes, t.Total)
	}
	return t, nil
}

// percent rounds to one decimal place.
func percent(part, total int64) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(part)*1000/float64(total)) / 10
}

// Audit compares a question's counters with the votes in the ledger.
// Each comparison is a single statement so it reads one snapshot.
func (l *Ledger) Audit(ctx context.Context, questionID string) (models.AuditReport, error) {
	report := models.AuditReport{QuestionID: questionID}

	var qType string
	var yesCounter, noCounter, yesLedger, noLedger int64
	err := l.db.QueryRowContext(ctx, `
		SELECT q.type, q.yes_count, q.no_count,
		       (SELECT COUNT(*) FROM vote v WHERE v.question_id = q.id AND v.answer = 'yes'),
		       (SELECT COUNT(*) FROM vote v WHERE v.question_id = q.id AND v.answer = 'no')
		FROM question q
		WHERE q.id = $1
	`, questionID).Scan(&qType, &yesCounter, &noCounter, &yesLedger, &noLedger)
	if errors.Is(err, sql.ErrNoRows) {
		return models.AuditReport{}, apperr.ErrQuestionNotFound
	}
	if err != nil {
		return models.AuditReport{}, apperr.Unavailable("audit counters", err)
	}

	if yesCounter != yesLedger {
		report.Drift = append(report.Drift, models.AnswerDrift{Answer: models.AnswerYes, Counter: yesCounter, Ledger: yesLedger})
	}
	if noCounter != noLedger {
		report.Drift = append(report.Drift, models.AnswerDrift{Answer: models.AnswerNo, Counter: noCounter, Ledger: noLedger})
	}

	if qType == models.TypeMultipleChoice {
		rows, err := l.db.QueryContext(ctx, `
			SELECT o.id, o.vote_count,
			       (SELECT COUNT(*) FROM vote v WHERE v.option_id = o.id)
			FROM question_option o
			WHERE o.question_id = $1
			ORDER BY o.position
		`, questionID)
		if err != nil {
			return models.AuditReport{}, apperr.Unavailable("audit option counters", err)
		}
		defer rows.Close()

		for rows.Next() {
			var d models.AnswerDrift
			if err := rows.Scan(&d.OptionID, &d.Counter, &d.Ledger); err != nil {
				return models.AuditReport{}, apperr.Unavailable("scan option audit", err)
			}
			if d.Counter != d.Ledger {
				d.Answer = models.AnswerOption
				report.Drift = append(report.Drift, d)
			}
		}
		if err := rows.Err(); err != nil {
			return models.AuditReport{}, apperr.Unavailable("audit option counters", err)
		}
	}

	report.Consistent = len(report.Drift) == 0
	return report, nil
}
