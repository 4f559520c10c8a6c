// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package stats

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/danielhkuo/quickly-ask/apperr"
	"github.com/danielhkuo/quickly-ask/metrics"
	"github.com/danielhkuo/quickly-ask/models"
)

// countriesCap bounds the countries heuristic.
const countriesCap = 150

// Projector computes read-only aggregates from the current counters.
// Nothing is cached.
type Projector struct {
	db *sql.DB
}

func NewProjector(conn *sql.DB) *Projector {
	return &Projector{db: conn}
}

// CountriesEstimate is a display heuristic, not a measurement: two per
// user, capped at 150.
func CountriesEstimate(users int64) int64 {
	return min(users*2, countriesCap)
}

// PlatformStats returns platform-wide totals. It never fails: when the
// store is unreachable it logs, counts the degradation and returns zeros.
func (p *Projector) PlatformStats(ctx context.Context) models.PlatformStats {
	s, err := p.platformStats(ctx)
	if err != nil {
		// Degrade to zeros rather than failing the dashboard.
		slog.Warn("platform stats unavailable, returning zeros", "error", err)
		metrics.RecordStatsDegraded()
		return models.PlatformStats{}
	}
	return s
}

func (p *Projector) platformStats(ctx context.Context) (models.PlatformStats, error) {
	var s models.PlatformStats
	err := p.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM question),
			(SELECT COALESCE(SUM(yes_count + no_count), 0) FROM question WHERE type = $1)
				+ (SELECT COALESCE(SUM(vote_count), 0) FROM question_option),
			(SELECT COUNT(*) FROM users)
	`, models.TypeYesNo).Scan(&s.QuestionsCount, &s.TotalVotes, &s.UsersCount)
	if err != nil {
		return models.PlatformStats{}, err
	}
	s.CountriesEstimate = CountriesEstimate(s.UsersCount)
	return s, nil
}

// UserStats returns per-user activity. votesReceived sums the counters of
// every question the user authored, across both question types.
func (p *Projector) UserStats(ctx context.Context, userID string) (models.UserStats, error) {
	var exists bool
	err := p.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, userID).Scan(&exists)
	if err != nil {
		return models.UserStats{}, apperr.Unavailable("check user", err)
	}
	if !exists {
		return models.UserStats{}, apperr.ErrUserNotFound
	}

	s := models.UserStats{UserID: userID}
	err = p.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM question WHERE author_id = $1),
			(SELECT COUNT(*) FROM vote WHERE voter_id = $1),
			(SELECT COALESCE(SUM(yes_count + no_count), 0) FROM question WHERE author_id = $1 AND type = $2)
				+ (SELECT COALESCE(SUM(o.vote_count), 0)
				   FROM question_option o
				   JOIN question q ON q.id = o.question_id
				   WHERE q.author_id = $1)
	`, userID, models.TypeYesNo).Scan(&s.QuestionsAuthored, &s.VotesCast, &s.VotesReceived)
	if errors.Is(err, sql.ErrNoRows) {
		return models.UserStats{}, apperr.ErrUserNotFound
	}
	if err != nil {
		return models.UserStats{}, apperr.Unavailable("load user stats", err)
	}
	return s, nil
}
