// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a failure for callers and for the HTTP layer.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindConflict
	KindInvalidInput
	KindForbidden
	KindStoreUnavailable
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindInvalidInput:
		return "invalid_input"
	case KindForbidden:
		return "forbidden"
	case KindStoreUnavailable:
		return "store_unavailable"
	case KindInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// Error is a classified failure. Sentinels below are compared by identity
// with errors.Is.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

var (
	ErrQuestionNotFound = &Error{Kind: KindNotFound, Msg: "question not found"}
	ErrUserNotFound     = &Error{Kind: KindNotFound, Msg: "user not found"}
	ErrVoteNotFound     = &Error{Kind: KindNotFound, Msg: "vote not found"}

	ErrAlreadyVoted   = &Error{Kind: KindConflict, Msg: "already voted on this question"}
	ErrAlreadyPremium = &Error{Kind: KindConflict, Msg: "user is already premium"}
	ErrQuestionClosed = &Error{Kind: KindConflict, Msg: "question is not open for voting"}

	ErrInvalidAnswer = &Error{Kind: KindInvalidInput, Msg: "answer does not match question"}
	ErrInvalidInput  = &Error{Kind: KindInvalidInput, Msg: "invalid input"}

	ErrForbidden = &Error{Kind: KindForbidden, Msg: "not entitled to this action"}
)

// Invalid returns an InvalidInput error with a caller-facing message.
func Invalid(format string, args ...any) error {
	return &Error{Kind: KindInvalidInput, Msg: fmt.Sprintf(format, args...), Err: ErrInvalidInput}
}

// Unavailable wraps a durable-store failure. It is the only retryable kind.
func Unavailable(op string, err error) error {
	return &Error{Kind: KindStoreUnavailable, Msg: op, Err: err}
}

// Internal reports a broken data invariant. It is not retryable.
func Internal(format string, args ...any) error {
	return &Error{Kind: KindInternal, Msg: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of the outermost classified error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Retryable reports whether a caller may retry the operation that produced err.
func Retryable(err error) bool {
	return KindOf(err) == KindStoreUnavailable
}

// Message returns the caller-facing message of a classified error.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		switch e.Kind {
		case KindStoreUnavailable:
			return "storage temporarily unavailable"
		case KindInternal:
			return "internal error"
		}
		return e.Msg
	}
	return "internal error"
}
