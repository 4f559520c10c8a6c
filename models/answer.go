// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"errors"
	"strings"
)

var ErrMalformedAnswer = errors.New("exactly one of answer (yes/no) or option_id is required")

// Answer is either a binary yes/no choice or a reference to an option.
// The zero value is invalid.
type Answer struct {
	option   bool
	yes      bool
	optionID string
	set      bool
}

func Yes() Answer { return Answer{yes: true, set: true} }

func No() Answer { return Answer{set: true} }

func ForOption(optionID string) Answer {
	return Answer{option: true, optionID: optionID, set: optionID != ""}
}

// IsOption reports whether the answer references a multiple-choice option.
func (a Answer) IsOption() bool { return a.option }

func (a Answer) OptionID() string { return a.optionID }

func (a Answer) IsYes() bool { return !a.option && a.yes }

// Stored returns the vote.answer column value.
func (a Answer) Stored() string {
	switch {
	case a.option:
		return AnswerOption
	case a.yes:
		return AnswerYes
	default:
		return AnswerNo
	}
}

// Matches reports whether the answer's shape fits the question type.
func (a Answer) Matches(questionType string) bool {
	if !a.set {
		return false
	}
	switch questionType {
	case TypeYesNo:
		return !a.option
	case TypeMultipleChoice:
		return a.option
	default:
		return false
	}
}

func (a Answer) String() string {
	if a.option {
		return "option:" + a.optionID
	}
	return a.Stored()
}

// ToAnswer converts the wire request into an Answer.
func (r CastVoteRequest) ToAnswer() (Answer, error) {
	raw := strings.ToLower(strings.TrimSpace(r.Answer))
	optionID := strings.TrimSpace(r.OptionID)

	switch {
	case raw != "" && optionID != "":
		return Answer{}, ErrMalformedAnswer
	case optionID != "":
		return ForOption(optionID), nil
	case raw == AnswerYes:
		return Yes(), nil
	case raw == AnswerNo:
		return No(), nil
	default:
		return Answer{}, ErrMalformedAnswer
	}
}
