package core

import "errors"

var (
	ErrEmptyDescription = errors.New("empty description")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidPeriod    = errors.New("invalid period")
	ErrEmptyBucket      = errors.New("empty bucket name")
	ErrEmptyCard        = errors.New("empty card name")
	ErrInvalidCount     = errors.New("installment count must be at least 1")
	ErrInvalidKind      = errors.New("invalid transaction kind")

	// ErrNotFound reports a lookup that matched nothing: removing a
	// transaction by value, or redeeming from a bucket that does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConfirmationRequired reports an operation that needs an explicit
	// caller confirmation before it commits (redemptions, over-withdrawals).
	ErrConfirmationRequired = errors.New("confirmation required")
)
