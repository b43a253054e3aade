package errors

import "errors"

var (
	ErrNotFound            = errors.New("not found")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrNotPending          = errors.New("not in pending state")
	ErrBelowMinimum        = errors.New("amount below minimum")
	ErrNoPayoutDestination = errors.New("payout destination not set")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInvalidTask         = errors.New("invalid task definition")
	ErrEmptyResponse       = errors.New("empty response")
	ErrNotMember           = errors.New("channel membership required")
)
