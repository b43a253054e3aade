package model

import "time"

// WithdrawalStatus describes payout request lifecycle.
type WithdrawalStatus string

const (
	WithdrawalStatusPending  WithdrawalStatus = "pending"
	WithdrawalStatusApproved WithdrawalStatus = "approved"
	WithdrawalStatusDeclined WithdrawalStatus = "declined"
)

// Withdrawal represents a payout request with the amount held in escrow.
// PayoutID is snapshotted at request time.
type Withdrawal struct {
	ID        int64
	UserID    int64
	Amount    int64
	PayoutID  string
	Status    WithdrawalStatus
	CreatedAt time.Time
}

// Terminal reports whether the withdrawal reached a final state.
func (w *Withdrawal) Terminal() bool {
	return w.Status != WithdrawalStatusPending
}

// PendingWithdrawal is a withdrawal joined with its owner's handle,
// as presented to reviewing operators.
type PendingWithdrawal struct {
	Withdrawal
	Username string
}
