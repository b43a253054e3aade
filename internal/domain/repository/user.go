package repository

import (
	"context"

	"github.com/rewardly/taskbot/internal/domain/model"
)

// UserRepository describes persistence operations for users and balances.
// Credit and Debit must be atomic against the store; both reject negative
// amounts, and Debit fails closed with ErrInsufficientBalance and never
// leaves a partial deduction.
type UserRepository interface {
	// Upsert creates the user on first contact or refreshes the username.
	// The referrer edge is set only at creation and never overwritten.
	// Returns the stored user and whether it was newly created.
	Upsert(ctx context.Context, id int64, username string, referrerID *int64) (*model.User, bool, error)
	Get(ctx context.Context, id int64) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	Count(ctx context.Context) (int64, error)
	Credit(ctx context.Context, id int64, amount int64) error
	Debit(ctx context.Context, id int64, amount int64) error
	SetBalance(ctx context.Context, id int64, balance int64) error
	SetPayoutID(ctx context.Context, id int64, payoutID string) error
	// MarkJoined flips the membership flag and reports whether this call
	// performed the first false-to-true transition.
	MarkJoined(ctx context.Context, id int64) (bool, error)
	ListReferrals(ctx context.Context, referrerID int64) ([]model.User, error)
}
