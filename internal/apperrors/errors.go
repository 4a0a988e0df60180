package apperrors

import (
	"context"

	"github.com/pkg/errors"
)

var (
	// ErrInvalidArgument is returned when the request parameters are invalid.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidAmount is returned when a human-readable amount is not a valid
	// non-negative decimal representable at the token precision.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrQuoteUnavailable is returned when the router returns no quote or a
	// malformed one.
	ErrQuoteUnavailable = errors.New("quote unavailable")

	// ErrApprovalFailed is returned when the approval retries are exhausted.
	ErrApprovalFailed = errors.New("approval failed")

	// ErrSwapSubmissionFailed is returned when the swap transaction is rejected
	// before inclusion.
	ErrSwapSubmissionFailed = errors.New("swap submission failed")

	// ErrSwapNotConfirmed is returned when the swap transaction was not included
	// with a successful receipt.
	ErrSwapNotConfirmed = errors.New("swap not confirmed")

	// ErrConfiguration is returned when required startup configuration is
	// missing or invalid.
	ErrConfiguration = errors.New("configuration error")
)

// Kind values used as labels in logs, metrics and status output.
const (
	KindNone                 = "ok"
	KindInvalidArgument      = "invalid_argument"
	KindInvalidAmount        = "invalid_amount"
	KindQuoteUnavailable     = "quote_unavailable"
	KindApprovalFailed       = "approval_failed"
	KindSwapSubmissionFailed = "swap_submission_failed"
	KindSwapNotConfirmed     = "swap_not_confirmed"
	KindConfiguration        = "configuration"
	KindCanceled             = "canceled"
	KindUnknown              = "unknown"
)

// Kind classifies err into one of the Kind* labels.
func Kind(err error) string {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrInvalidArgument):
		return KindInvalidArgument
	case errors.Is(err, ErrInvalidAmount):
		return KindInvalidAmount
	case errors.Is(err, ErrQuoteUnavailable):
		return KindQuoteUnavailable
	case errors.Is(err, ErrApprovalFailed):
		return KindApprovalFailed
	case errors.Is(err, ErrSwapSubmissionFailed):
		return KindSwapSubmissionFailed
	case errors.Is(err, ErrSwapNotConfirmed):
		return KindSwapNotConfirmed
	case errors.Is(err, ErrConfiguration):
		return KindConfiguration
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return KindCanceled
	default:
		return KindUnknown
	}
}
