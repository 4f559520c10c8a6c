// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package questions

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/danielhkuo/quickly-ask/apperr"
	"github.com/danielhkuo/quickly-ask/models"
)

const (
	maxTextLen   = 500
	maxOptionLen = 120
	minOptions   = 2
	maxOptions   = 6
	defaultLimit = 20
	maxLimit     = 100
	defaultTopic = "general"
)

// List sort orders.
const (
	SortTop = "top"
	SortNew = "new"
)

// Gatekeeper is the entitlement check for premium-only actions.
type Gatekeeper interface {
	Require(ctx context.Context, userID string) error
}

// Store persists questions and their options. Counters are only read
// here; the ledger is the only writer.
type Store struct {
	db    *sql.DB
	gate  Gatekeeper
	now   func() time.Time
	newID func() string
}

func NewStore(conn *sql.DB, gate Gatekeeper) *Store {
	return &Store{db: conn, gate: gate, now: time.Now, newID: uuid.NewString}
}

// ListFilter selects active questions.
type ListFilter struct {
	Category string
	Sort     string
	Limit    int
	Offset   int
}

func validate(req models.CreateQuestionRequest) (models.CreateQuestionRequest, error) {
	req.Text = strings.TrimSpace(req.Text)
	req.Category = strings.ToLower(strings.TrimSpace(req.Category))
	if req.Category == "" {
		req.Category = defaultTopic
	}

	if req.Text == "" {
		return req, apperr.Invalid("text is required")
	}
	if utf8.RuneCountInString(req.Text) > maxTextLen {
		return req, apperr.Invalid("text must be at most %d characters", maxTextLen)
	}

	switch req.Type {
	case models.TypeYesNo:
		if len(req.Options) > 0 {
			return req, apperr.Invalid("yesNo questions take no options")
		}
	case models.TypeMultipleChoice:
		if len(req.Options) < minOptions || len(req.Options) > maxOptions {
			return req, apperr.Invalid("multipleChoice questions need %d-%d options", minOptions, maxOptions)
		}
		seen := make(map[string]bool, len(req.Options))
		for i, o := range req.Options {
			o = strings.TrimSpace(o)
			if o == "" {
				return req, apperr.Invalid("option %d is empty", i+1)
			}
			if utf8.RuneCountInString(o) > maxOptionLen {
				return req, apperr.Invalid("option %d must be at most %d characters", i+1, maxOptionLen)
			}
			key := strings.ToLower(o)
			if seen[key] {
				return req, apperr.Invalid("duplicate option %q", o)
			}
			seen[key] = true
			req.Options[i] = o
		}
	default:
		return req, apperr.Invalid("type must be %s or %s", models.TypeYesNo, models.TypeMultipleChoice)
	}

	return req, nil
}

// Create stores a new active question with zeroed counters.
// multipleChoice is a premium-only question type.
func (s *Store) Create(ctx context.Context, authorID string, req models.CreateQuestionRequest) (models.Question, error) {
	req, err := validate(req)
	if err != nil {
		return models.Question{}, err
	}

	if req.Type == models.TypeMultipleChoice {
		if err := s.gate.Require(ctx, authorID); err != nil {
			return models.Question{}, err
		}
	}

	q := models.Question{
		ID:        s.newID(),
		AuthorID:  authorID,
		Text:      req.Text,
		Category:  req.Category,
		Status:    models.StatusActive,
		Type:      req.Type,
		CreatedAt: s.now(),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Question{}, apperr.Unavailable("begin create question", err)
	}
	defer tx.Rollback()

	var authorExists bool
	if err := tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, authorID).Scan(&authorExists); err != nil {
		return models.Question{}, apperr.Unavailable("check author", err)
	}
	if !authorExists {
		return models.Question{}, apperr.ErrUserNotFound
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO question (id, author_id, text, category, status, type, yes_count, no_count, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, 0, 0, $7)
	`, q.ID, q.AuthorID, q.Text, q.Category, q.Status, q.Type, q.CreatedAt)
	if err != nil {
		return models.Question{}, apperr.Unavailable("insert question", err)
	}

	for i, text := range req.Options {
		opt := models.Option{ID: s.newID(), QuestionID: q.ID, Text: text, Position: i}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO question_option (id, question_id, text, position, vote_count)
			VALUES ($1, $2, $3, $4, 0)
		`, opt.ID, opt.QuestionID, opt.Text, opt.Position)
		if err != nil {
			return models.Question{}, apperr.Unavailable("insert option", err)
		}
		q.Options = append(q.Options, opt)
	}

	if err := tx.Commit(); err != nil {
		return models.Question{}, apperr.Unavailable("commit question", err)
	}

	slog.Info("question created", "question_id", q.ID, "author_id", authorID, "type", q.Type)
	return q, nil
}

// Get returns a question with its options.
func (s *Store) Get(ctx context.Context, id string) (models.Question, error) {
	var q models.Question
	err := s.db.QueryRowContext(ctx, `
		SELECT id, author_id, text, category, status, type, yes_count, no_count, created_at
		FROM question
		WHERE id = $1
	`, id).Scan(&q.ID, &q.AuthorID, &q.Text, &q.Category, &q.Status, &q.Type, &q.YesCount, &q.NoCount, &q.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Question{}, apperr.ErrQuestionNotFound
	}
	if err != nil {
		return models.Question{}, apperr.Unavailable("load question", err)
	}

	if q.Type != models.TypeMultipleChoice {
		return q, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, question_id, text, position, vote_count
		FROM question_option
		WHERE question_id = $1
		ORDER BY position
	`, id)
	if err != nil {
		return models.Question{}, apperr.Unavailable("load options", err)
	}
	defer rows.Close()

	for rows.Next() {
		var o models.Option
		if err := rows.Scan(&o.ID, &o.QuestionID, &o.Text, &o.Position, &o.VoteCount); err != nil {
			return models.Question{}, apperr.Unavailable("scan option", err)
		}
		q.Options = append(q.Options, o)
	}
	if err := rows.Err(); err != nil {
		return models.Question{}, apperr.Unavailable("load options", err)
	}
	return q, nil
}

// List returns active questions, without options.
func (s *Store) List(ctx context.Context, f ListFilter) ([]models.Question, error) {
	if f.Limit <= 0 {
		f.Limit = defaultLimit
	}
	if f.Limit > maxLimit {
		f.Limit = maxLimit
	}
	if f.Offset < 0 {
		return nil, apperr.Invalid("offset must not be negative")
	}

	var orderBy string
	switch f.Sort {
	case "", SortTop:
		orderBy = `(q.yes_count + q.no_count + COALESCE((SELECT SUM(o.vote_count) FROM question_option o WHERE o.question_id = q.id), 0)) DESC, q.created_at DESC`
	case SortNew:
		orderBy = `q.created_at DESC`
	default:
		return nil, apperr.Invalid("sort must be %s or %s", SortTop, SortNew)
	}

	query := `
		SELECT q.id, q.author_id, q.text, q.category, q.status, q.type, q.yes_count, q.no_count, q.created_at
		FROM question q
		WHERE q.status = $1 AND ($2 = '' OR q.category = $2)
		ORDER BY ` + orderBy + `, q.id
		LIMIT $3 OFFSET $4`

	rows, err := s.db.QueryContext(ctx, query, models.StatusActive, strings.ToLower(f.Category), f.Limit, f.Offset)
	if err != nil {
		return nil, apperr.Unavailable("list questions", err)
	}
	defer rows.Close()

	list := []models.Question{}
	for rows.Next() {
		var q models.Question
		if err := rows.Scan(&q.ID, &q.AuthorID, &q.Text, &q.Category, &q.Status, &q.Type, &q.YesCount, &q.NoCount, &q.CreatedAt); err != nil {
			return nil, apperr.Unavailable("scan question", err)
		}
		list = append(list, q)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Unavailable("list questions", err)
	}
	return list, nil
}

// SetStatus changes a question's status. The author may close their own
// question; removing or reopening requires the owner role. Counters are
// not touched.
func (s *Store) SetStatus(ctx context.Context, actorID, id, status string) (models.Question, error) {
	switch status {
	case models.StatusActive, models.StatusClosed, models.StatusRemoved:
	default:
		return models.Question{}, apperr.Invalid("status must be active, closed or removed")
	}

	var role string
	err := s.db.QueryRowContext(ctx, `SELECT role FROM users WHERE id = $1`, actorID).Scan(&role)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Question{}, apperr.ErrUserNotFound
	}
	if err != nil {
		return models.Question{}, apperr.Unavailable("load actor", err)
	}

	q, err := s.Get(ctx, id)
	if err != nil {
		return models.Question{}, err
	}

	isOwner := role == models.RoleOwner
	if !isOwner && !(status == models.StatusClosed && q.AuthorID == actorID) {
		return models.Question{}, apperr.ErrForbidden
	}
	if q.Status == status {
		return q, nil
	}

	_, err = s.db.ExecContext(ctx, `UPDATE question SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return models.Question{}, apperr.Unavailable("update status", err)
	}

	slog.Info("question status changed", "question_id", id, "actor_id", actorID, "from", q.Status, "to", status)
	q.Status = status
	return q, nil
}

// Sponsor marks a question as sponsored by an entitled user. No
// sponsorship record is stored yet; the response says so.
func (s *Store) Sponsor(ctx context.Context, userID, id string) (models.SponsorResponse, error) {
	if err := s.gate.Require(ctx, userID); err != nil {
		return models.SponsorResponse{}, err
	}

	q, err := s.Get(ctx, id)
	if err != nil {
		return models.SponsorResponse{}, err
	}
	if q.Status != models.StatusActive {
		return models.SponsorResponse{}, apperr.ErrQuestionClosed
	}

	slog.Info("question sponsored", "question_id", id, "user_id", userID, "persisted", false)
	return models.SponsorResponse{QuestionID: id, Sponsored: true, Persisted: false}, nil
}
