package repository

import (
	"context"

	"github.com/rewardly/taskbot/internal/domain/model"
)

// WithdrawalRepository manages payout requests and their escrowed funds.
// Create debits the user and inserts the pending row in one transaction, so
// escrowed funds always have an owning record. Resolve and Cancel are atomic
// pending-to-terminal transitions; the decline refund happens inside the same
// transaction, exactly once.
type WithdrawalRepository interface {
	Create(ctx context.Context, userID, amount int64) (*model.Withdrawal, error)
	// Resolve moves a pending withdrawal to the given terminal status and
	// refunds the escrowed amount when declining. Returns ErrNotPending if
	// the withdrawal is already terminal.
	Resolve(ctx context.Context, id int64, status model.WithdrawalStatus) (*model.Withdrawal, error)
	// Cancel declines a pending withdrawal on behalf of its owner.
	Cancel(ctx context.Context, id, userID int64) (*model.Withdrawal, error)
	Get(ctx context.Context, id int64) (*model.Withdrawal, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Withdrawal, error)
	ListPending(ctx context.Context) ([]model.PendingWithdrawal, error)
}
