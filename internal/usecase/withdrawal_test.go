package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/rewardly/taskbot/internal/config"
	domainErrors "github.com/rewardly/taskbot/internal/domain/errors"
	"github.com/rewardly/taskbot/internal/domain/model"
	testhelpers "github.com/rewardly/taskbot/internal/test"
)

func TestWithdrawalRequestValidation(t *testing.T) {
	withdrawals := &testhelpers.WithdrawalRepositoryStub{CreateFn: func(context.Context, int64, int64) (*model.Withdrawal, error) {
		t.Fatal("create should not be called on validation errors")
		return nil, nil
	}}
	uc := NewWithdrawalUseCase(withdrawals, &config.Config{MinWithdrawal: 15})

	if _, err := uc.Request(context.Background(), 1, 0); !errors.Is(err, domainErrors.ErrInvalidAmount) {
		t.Fatalf("expected invalid amount, got %v", err)
	}
	if _, err := uc.Request(context.Background(), 1, -5); !errors.Is(err, domainErrors.ErrInvalidAmount) {
		t.Fatalf("expected invalid amount, got %v", err)
	}
	if _, err := uc.Request(context.Background(), 1, 14); !errors.Is(err, domainErrors.ErrBelowMinimum) {
		t.Fatalf("expected below minimum, got %v", err)
	}
}

func TestWithdrawalRequestSuccess(t *testing.T) {
	withdrawals := &testhelpers.WithdrawalRepositoryStub{}
	uc := NewWithdrawalUseCase(withdrawals, &config.Config{MinWithdrawal: 15})

	w, err := uc.Request(context.Background(), 1, 15)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.Amount != 15 || w.Status != model.WithdrawalStatusPending {
		t.Fatalf("unexpected withdrawal: %+v", w)
	}
	if len(withdrawals.Requested) != 1 {
		t.Fatalf("expected one create call, got %d", len(withdrawals.Requested))
	}
	if uc.MinAmount() != 15 {
		t.Fatalf("unexpected min amount: %d", uc.MinAmount())
	}
}

func TestWithdrawalRequestPropagatesError(t *testing.T) {
	withdrawals := &testhelpers.WithdrawalRepositoryStub{CreateFn: func(context.Context, int64, int64) (*model.Withdrawal, error) {
		return nil, domainErrors.ErrInsufficientBalance
	}}
	uc := NewWithdrawalUseCase(withdrawals, &config.Config{MinWithdrawal: 15})

	if _, err := uc.Request(context.Background(), 1, 20); !errors.Is(err, domainErrors.ErrInsufficientBalance) {
		t.Fatalf("expected insufficient balance, got %v", err)
	}
}

func TestWithdrawalResolution(t *testing.T) {
	var resolved []model.WithdrawalStatus
	withdrawals := &testhelpers.WithdrawalRepositoryStub{
		ResolveFn: func(_ context.Context, id int64, status model.WithdrawalStatus) (*model.Withdrawal, error) {
			resolved = append(resolved, status)
			return &model.Withdrawal{ID: id, Status: status}, nil
		},
	}
	uc := NewWithdrawalUseCase(withdrawals, &config.Config{MinWithdrawal: 15})

	w, err := uc.Approve(context.Background(), 5)
	if err != nil || w.Status != model.WithdrawalStatusApproved {
		t.Fatalf("unexpected approve result: %+v err=%v", w, err)
	}

	w, err = uc.Decline(context.Background(), 5)
	if err != nil || w.Status != model.WithdrawalStatusDeclined {
		t.Fatalf("unexpected decline result: %+v err=%v", w, err)
	}

	if len(resolved) != 2 {
		t.Fatalf("expected two resolve calls, got %d", len(resolved))
	}
}

func TestWithdrawalCancelScopedToOwner(t *testing.T) {
	withdrawals := &testhelpers.WithdrawalRepositoryStub{
		CancelFn: func(_ context.Context, id, userID int64) (*model.Withdrawal, error) {
			if userID != 42 {
				return nil, domainErrors.ErrNotFound
			}
			return &model.Withdrawal{ID: id, UserID: userID, Status: model.WithdrawalStatusDeclined}, nil
		},
	}
	uc := NewWithdrawalUseCase(withdrawals, &config.Config{MinWithdrawal: 15})

	if _, err := uc.Cancel(context.Background(), 5, 7); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	w, err := uc.Cancel(context.Background(), 5, 42)
	if err != nil || w.Status != model.WithdrawalStatusDeclined {
		t.Fatalf("unexpected result: %+v err=%v", w, err)
	}
}

func TestWithdrawalListings(t *testing.T) {
	withdrawals := &testhelpers.WithdrawalRepositoryStub{
		ListByUserFn: func(context.Context, int64) ([]model.Withdrawal, error) {
			return []model.Withdrawal{{ID: 1}}, nil
		},
		ListPendingFn: func(context.Context) ([]model.PendingWithdrawal, error) {
			return []model.PendingWithdrawal{{Username: "alice"}}, nil
		},
	}
	uc := NewWithdrawalUseCase(withdrawals, &config.Config{MinWithdrawal: 15})

	history, err := uc.History(context.Background(), 1)
	if err != nil || len(history) != 1 {
		t.Fatalf("unexpected history: %v err=%v", history, err)
	}

	pending, err := uc.Pending(context.Background())
	if err != nil || len(pending) != 1 {
		t.Fatalf("unexpected pending: %v err=%v", pending, err)
	}
}
