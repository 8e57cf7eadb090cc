package order

import "errors"

var (
	// Validation errors, rejected before any state mutation.
	ErrInvalidSchedule      = errors.New("date time must be in the future")
	ErrLimitExceeded        = errors.New("active order limit reached for plan tier")
	ErrOrderNotOpen         = errors.New("order is not open for applications")
	ErrDuplicateApplication = errors.New("already applied to this order")
	ErrOwnOrder             = errors.New("cannot apply to own order")
	ErrNotOrderOwner        = errors.New("only the order creator may do this")
	ErrApplicationMismatch  = errors.New("application does not belong to this order")

	// ErrStateConflict is a benign race: the order moved out of the
	// expected status between read and write. Callers may reload and
	// retry; it is never logged as a system error.
	ErrStateConflict = errors.New("order state changed concurrently")
)
