package model

import "time"

// User represents a participant of the reward program. The identifier is
// assigned by the chat transport, not generated here.
type User struct {
	ID            int64
	Username      string
	JoinedChannel bool
	Balance       int64
	ReferrerID    *int64
	PayoutID      *string
	CreatedAt     time.Time
}

// HasPayoutID reports whether a payout destination is configured.
func (u *User) HasPayoutID() bool {
	return u.PayoutID != nil && *u.PayoutID != ""
}

// JoinBonus reports the inviter of a user whose first channel join was just
// recorded. Amount is the flat bonus credited to the inviter; zero when no
// bonus is configured, in which case only the notification is owed.
type JoinBonus struct {
	ReferrerID int64
	Amount     int64
}
