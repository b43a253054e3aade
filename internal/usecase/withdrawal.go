package usecase

import (
	"context"

	"github.com/rewardly/taskbot/internal/config"
	domainErrors "github.com/rewardly/taskbot/internal/domain/errors"
	"github.com/rewardly/taskbot/internal/domain/model"
	"github.com/rewardly/taskbot/internal/domain/repository"
)

// WithdrawalUseCase manages the withdrawal escrow lifecycle.
type WithdrawalUseCase struct {
	withdrawals repository.WithdrawalRepository
	config      *config.Config
}

// NewWithdrawalUseCase constructs WithdrawalUseCase.
func NewWithdrawalUseCase(withdrawals repository.WithdrawalRepository, cfg *config.Config) *WithdrawalUseCase {
	return &WithdrawalUseCase{withdrawals: withdrawals, config: cfg}
}

// MinAmount returns the smallest amount accepted per request.
func (u *WithdrawalUseCase) MinAmount() int64 {
	return u.config.MinWithdrawal
}

// Request escrows the amount from the user's balance and files a pending
// withdrawal.
func (u *WithdrawalUseCase) Request(ctx context.Context, userID, amount int64) (*model.Withdrawal, error) {
	if amount <= 0 {
		return nil, domainErrors.ErrInvalidAmount
	}
	if amount < u.config.MinWithdrawal {
		return nil, domainErrors.ErrBelowMinimum
	}
	return u.withdrawals.Create(ctx, userID, amount)
}

// Cancel lets the owner withdraw a still-pending request, refunding the
// escrowed amount.
func (u *WithdrawalUseCase) Cancel(ctx context.Context, id, userID int64) (*model.Withdrawal, error) {
	return u.withdrawals.Cancel(ctx, id, userID)
}

// Approve finalizes a pending withdrawal as paid out.
func (u *WithdrawalUseCase) Approve(ctx context.Context, id int64) (*model.Withdrawal, error) {
	return u.withdrawals.Resolve(ctx, id, model.WithdrawalStatusApproved)
}

// Decline rejects a pending withdrawal and refunds the escrowed amount.
func (u *WithdrawalUseCase) Decline(ctx context.Context, id int64) (*model.Withdrawal, error) {
	return u.withdrawals.Resolve(ctx, id, model.WithdrawalStatusDeclined)
}

// History returns the user's withdrawals, newest first.
func (u *WithdrawalUseCase) History(ctx context.Context, userID int64) ([]model.Withdrawal, error) {
	return u.withdrawals.ListByUser(ctx, userID)
}

// Pending lists all withdrawals awaiting operator review.
func (u *WithdrawalUseCase) Pending(ctx context.Context) ([]model.PendingWithdrawal, error) {
	return u.withdrawals.ListPending(ctx)
}
