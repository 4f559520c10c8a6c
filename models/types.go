package models

import "time"

// Question status constants
const (
	StatusActive  = "active"
	StatusClosed  = "closed"
	StatusRemoved = "removed"
)

// Question type constants
const (
	TypeYesNo          = "yesNo"
	TypeMultipleChoice = "multipleChoice"
)

// User role constants
const (
	RoleMember  = "member"
	RolePremium = "premium"
	RoleOwner   = "owner"
)

// Premium plans
const (
	PlanDemo    = "demo"
	PlanMonthly = "monthly"
	PlanYearly  = "yearly"
)

// Stored values of vote.answer
const (
	AnswerYes    = "yes"
	AnswerNo     = "no"
	AnswerOption = "option"
)

// Request types

type CreateQuestionRequest struct {
	Text     string   `json:"text"`
	Category string   `json:"category"`
	Type     string   `json:"type"`
	Options  []string `json:"options,omitempty"`
}

// Exactly one of Answer ("yes"/"no") or OptionID is set.
type CastVoteRequest struct {
	Answer   string `json:"answer,omitempty"`
	OptionID string `json:"option_id,omitempty"`
}

type SetStatusRequest struct {
	Status string `json:"status"`
}

type UpgradeRequest struct {
	Plan string `json:"plan,omitempty"`
}

// PaymentEvent is the payment collaborator's signal.
type PaymentEvent struct {
	EventID   string `json:"event_id"`
	UserID    string `json:"user_id"`
	Plan      string `json:"plan,omitempty"`
	Succeeded bool   `json:"succeeded"`
}

// Response types

type CreateQuestionResponse struct {
	QuestionID string `json:"question_id"`
}

type CastVoteResponse struct {
	VoteID string `json:"vote_id"`
	Tally  Tally  `json:"tally"`
}

type SponsorResponse struct {
	QuestionID string `json:"question_id"`
	Sponsored  bool   `json:"sponsored"`
	Persisted  bool   `json:"persisted"`
}

type CanSponsorResponse struct {
	CanSponsor bool `json:"can_sponsor"`
}

type PaymentAckResponse struct {
	EventID  string `json:"event_id"`
	Upgraded bool   `json:"upgraded"`
}

type MeResponse struct {
	User       User `json:"user"`
	CanSponsor bool `json:"can_sponsor"`
}

// Domain types

type User struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	IsPremium    bool       `json:"is_premium"`
	PremiumSince *time.Time `json:"premium_since,omitempty"`
	PremiumPlan  *string    `json:"premium_plan,omitempty"`
	Role         string     `json:"role"`
	CreatedAt    time.Time  `json:"created_at"`
}

type Question struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"author_id"`
	Text      string    `json:"text"`
	Category  string    `json:"category"`
	Status    string    `json:"status"`
	Type      string    `json:"type"`
	YesCount  int64     `json:"yes_count"`
	NoCount   int64     `json:"no_count"`
	Options   []Option  `json:"options,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type Option struct {
	ID         string `json:"id"`
	QuestionID string `json:"question_id"`
	Text       string `json:"text"`
	Position   int    `json:"position"`
	VoteCount  int64  `json:"vote_count"`
}

type Vote struct {
	ID         string    `json:"id"`
	VoterID    string    `json:"-"`
	QuestionID string    `json:"question_id"`
	Answer     string    `json:"answer"`
	OptionID   *string   `json:"option_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

type QuestionWithTally struct {
	Question Question `json:"question"`
	Tally    Tally    `json:"tally"`
}

// Aggregates

type OptionTally struct {
	OptionID string  `json:"option_id"`
	Text     string  `json:"text"`
	Votes    int64   `json:"votes"`
	Percent  float64 `json:"percent"`
}

type Tally struct {
	QuestionID string        `json:"question_id"`
	Type       string        `json:"type"`
	Total      int64         `json:"total"`
	Yes        int64         `json:"yes"`
	No         int64         `json:"no"`
	YesPercent float64       `json:"yes_percent"`
	NoPercent  float64       `json:"no_percent"`
	Options    []OptionTally `json:"options,omitempty"`
}

type PlatformStats struct {
	QuestionsCount    int64 `json:"questions_count"`
	TotalVotes        int64 `json:"total_votes"`
	UsersCount        int64 `json:"users_count"`
	CountriesEstimate int64 `json:"countries_estimate"`
}

type UserStats struct {
	UserID            string `json:"user_id"`
	QuestionsAuthored int64  `json:"questions_authored"`
	VotesCast         int64  `json:"votes_cast"`
	VotesReceived     int64  `json:"votes_received"`
}

// AnswerDrift is one counter that disagrees with the ledger.
type AnswerDrift struct {
	Answer   string `json:"answer"`
	OptionID string `json:"option_id,omitempty"`
	Counter  int64  `json:"counter"`
	Ledger   int64  `json:"ledger"`
}

type AuditReport struct {
	QuestionID string        `json:"question_id"`
	Consistent bool          `json:"consistent"`
	Drift      []AnswerDrift `json:"drift,omitempty"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
