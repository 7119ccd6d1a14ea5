package domain

import (
	"errors"
	"fmt"
)

// Kind classifies a domain error for the transport layer.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindForbidden
	KindConflict
	KindValidation
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindForbidden:
		return "forbidden"
	case KindConflict:
		return "conflict"
	case KindValidation:
		return "validation"
	default:
		return "unknown"
	}
}

// Error is a typed, user-actionable failure. Sentinels below are compared with errors.Is.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

func newError(kind Kind, msg string) *Error { return &Error{Kind: kind, Message: msg} }

var (
	ErrValidation = newError(KindValidation, "invalid input")

	ErrJobNotFound     = newError(KindNotFound, "job not found")
	ErrPrinterNotFound = newError(KindNotFound, "printer not found")
	ErrBidNotFound     = newError(KindNotFound, "bid not found")
	ErrUserNotFound    = newError(KindNotFound, "user not found")

	ErrCannotBidOwnJob = newError(KindForbidden, "cannot bid on own job")
	ErrNotPrinterOwner = newError(KindForbidden, "must be printer owner")
	ErrPrinterNotOwned = newError(KindForbidden, "printer does not belong to user")
	ErrNotJobCustomer  = newError(KindForbidden, "only the job's customer can do this")
	ErrNotBidOwner     = newError(KindForbidden, "only the bidder can withdraw this bid")

	ErrJobAlreadyAssigned  = newError(KindConflict, "job already assigned")
	ErrJobNotOpen          = newError(KindConflict, "job is not open for bids")
	ErrJobNotCancellable   = newError(KindConflict, "job cannot be cancelled in its current state")
	ErrInvalidTransition   = newError(KindConflict, "job cannot move to that status")
	ErrBidLimitReached     = newError(KindConflict, "bid limit reached")
	ErrDuplicatePendingBid = newError(KindConflict, "duplicate pending bid")
	ErrBidNotPending       = newError(KindConflict, "bid is no longer pending")
	ErrWithdrawNotPending  = newError(KindConflict, "can only withdraw pending bids")
)

// ValidationError reports one malformed input field. It matches ErrValidation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// KindOf resolves the kind of err through any wrapping. Unknown means internal.
func KindOf(err error) Kind {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return KindValidation
	}
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindUnknown
}
