package repositories

import "errors"

var (
	ErrWalletNotFound      = errors.New("wallet not found")
	ErrOrderNotFound       = errors.New("order not found")
	ErrApplicationNotFound = errors.New("application not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrReviewNotFound      = errors.New("review not found")
	ErrConnectionNotFound  = errors.New("connection not found")
	ErrRewardNotFound      = errors.New("referral reward not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrDuplicateRecord     = errors.New("duplicate record")
	ErrInvalidStatus       = errors.New("invalid status value")
)
