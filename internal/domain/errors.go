package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation covers malformed input: bad CSV rows, missing form fields, answer-length mismatch.
	ErrValidation = errors.New("validation error")
	// ErrInvalidCoupon is returned when a coupon is unknown, already used, or not the purchaser's.
	ErrInvalidCoupon = errors.New("invalid coupon")
	// ErrPaymentFailed wraps gateway rejections, network errors and signature mismatches.
	ErrPaymentFailed = errors.New("payment failed")
	// ErrPaymentRequired is returned when a quiz is opened before the submission is paid.
	ErrPaymentRequired = errors.New("payment required")
	// ErrNotFound is the base kind for every missing document.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized is returned for bad admin credentials or sessions.
	ErrUnauthorized = errors.New("unauthorized")
)

var (
	// ErrQuizNotFound indicates the quiz id is unknown.
	ErrQuizNotFound = fmt.Errorf("quiz %w", ErrNotFound)
	// ErrSubmissionNotFound indicates the submission id is unknown or belongs to another quiz.
	ErrSubmissionNotFound = fmt.Errorf("submission %w", ErrNotFound)
	// ErrCouponNotFound indicates the coupon id is unknown.
	ErrCouponNotFound = fmt.Errorf("coupon %w", ErrNotFound)
)

// Validationf builds an ErrValidation with a formatted detail.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
