// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package entitlement

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/danielhkuo/quickly-ask/apperr"
	"github.com/danielhkuo/quickly-ask/metrics"
	"github.com/danielhkuo/quickly-ask/models"
)

// Upgrade sources, used as a metrics label.
const (
	SourceManual  = "manual"
	SourcePayment = "payment"
)

// Gate evaluates and changes premium entitlements. Every check reads the
// user row fresh; no decision is cached between calls.
type Gate struct {
	db  *sql.DB
	now func() time.Time
}

func NewGate(conn *sql.DB) *Gate {
	return &Gate{db: conn, now: time.Now}
}

// Allows is the entitlement predicate for gated actions.
func Allows(u models.User) bool {
	return u.IsPremium || u.Role == models.RoleOwner
}

// User loads a user by ID.
func (g *Gate) User(ctx context.Context, userID string) (models.User, error) {
	var u models.User
	var since sql.NullTime
	var plan sql.NullString
	err := g.db.QueryRowContext(ctx, `
		SELECT id, name, is_premium, premium_since, premium_plan, role, created_at
		FROM users
		WHERE id = $1
	`, userID).Scan(&u.ID, &u.Name, &u.IsPremium, &since, &plan, &u.Role, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, apperr.ErrUserNotFound
	}
	if err != nil {
		return models.User{}, apperr.Unavailable("load user", err)
	}
	if since.Valid {
		u.PremiumSince = &since.Time
	}
	if plan.Valid {
		u.PremiumPlan = &plan.String
	}
	return u, nil
}

// CanSponsor reports whether userID may sponsor a question.
func (g *Gate) CanSponsor(ctx context.Context, userID string) (bool, error) {
	u, err := g.User(ctx, userID)
	if err != nil {
		return false, err
	}
	return Allows(u), nil
}

// CanViewPremiumFeature uses the same predicate as CanSponsor.
func (g *Gate) CanViewPremiumFeature(ctx context.Context, userID string) (bool, error) {
	return g.CanSponsor(ctx, userID)
}

// Require returns apperr.ErrForbidden unless userID is entitled.
// Call it immediately before the gated mutation.
func (g *Gate) Require(ctx context.Context, userID string) error {
	ok, err := g.CanViewPremiumFeature(ctx, userID)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.ErrForbidden
	}
	return nil
}

func normalizePlan(plan string) (string, error) {
	plan = strings.ToLower(strings.TrimSpace(plan))
	switch plan {
	case "":
		return models.PlanDemo, nil
	case models.PlanDemo, models.PlanMonthly, models.PlanYearly:
		return plan, nil
	default:
		return "", apperr.Invalid("unknown plan %q", plan)
	}
}

// Upgrade makes userID premium. It fails with apperr.ErrAlreadyPremium
// only when the user is premium in both flag and role; a premium flag
// with any other role succeeds. Owners keep the owner role.
func (g *Gate) Upgrade(ctx context.Context, userID, plan string) (models.User, error) {
	return g.upgrade(ctx, userID, plan, SourceManual)
}

func (g *Gate) upgrade(ctx context.Context, userID, plan, source string) (models.User, error) {
	plan, err := normalizePlan(plan)
	if err != nil {
		metrics.RecordUpgrade(source, apperr.KindOf(err).String())
		return models.User{}, err
	}

	// Single conditional statement: the store decides which of two racing
	// upgrades applies; the other sees zero rows and reports AlreadyPremium.
	res, err := g.db.ExecContext(ctx, `
		UPDATE users
		SET is_premium = $2,
		    premium_since = COALESCE(premium_since, $3),
		    premium_plan = $4,
		    role = CASE WHEN role = $5 THEN role ELSE $6 END
		WHERE id = $1
		  AND NOT (is_premium = $2 AND role = $6)
	`, userID, true, g.now(), plan, models.RoleOwner, models.RolePremium)
	if err != nil {
		err = apperr.Unavailable("upgrade user", err)
		metrics.RecordUpgrade(source, apperr.KindOf(err).String())
		return models.User{}, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		err = apperr.Unavailable("upgrade user", err)
		metrics.RecordUpgrade(source, apperr.KindOf(err).String())
		return models.User{}, err
	}

	u, err := g.User(ctx, userID)
	if err != nil {
		metrics.RecordUpgrade(source, apperr.KindOf(err).String())
		return models.User{}, err
	}

	if n == 0 {
		// The row exists, so the guard failed: premium flag and role.
		metrics.RecordUpgrade(source, "already_premium")
		return u, apperr.ErrAlreadyPremium
	}

	metrics.RecordUpgrade(source, "upgraded")
	slog.Info("user upgraded", "user_id", userID, "plan", plan, "role", u.Role, "source", source)
	return u, nil
}

// ApplyPayment runs the upgrade path for a payment event. A failed
// payment is a no-op, and a redelivered success for an already premium
// user is acknowledged without error. upgraded reports whether state changed.
func (g *Gate) ApplyPayment(ctx context.Context, ev models.PaymentEvent) (upgraded bool, err error) {
	if ev.UserID == "" {
		return false, apperr.Invalid("user_id is required")
	}
	if !ev.Succeeded {
		slog.Info("payment not successful, no entitlement change", "event_id", ev.EventID, "user_id", ev.UserID)
		return false, nil
	}

	_, err = g.upgrade(ctx, ev.UserID, ev.Plan, SourcePayment)
	if errors.Is(err, apperr.ErrAlreadyPremium) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
