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

func newAccountUseCase(users *testhelpers.UserRepositoryStub, gateway *testhelpers.GatewayStub, cfg *config.Config) *AccountUseCase {
	if cfg == nil {
		cfg = &config.Config{}
	}
	return NewAccountUseCase(users, gateway, cfg)
}

func TestAccountRegisterNewUser(t *testing.T) {
	users := testhelpers.NewUserRepositoryStub()
	referrer := int64(7)
	users.ByID[referrer] = &model.User{ID: referrer, Username: "ref"}

	uc := newAccountUseCase(users, &testhelpers.GatewayStub{}, nil)

	user, created, err := uc.Register(context.Background(), 1, "alice", &referrer)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !created || user.ReferrerID == nil || *user.ReferrerID != 7 {
		t.Fatalf("unexpected user: created=%v %+v", created, user)
	}
}

func TestAccountRegisterDropsInvalidReferrer(t *testing.T) {
	users := testhelpers.NewUserRepositoryStub()
	uc := newAccountUseCase(users, &testhelpers.GatewayStub{}, nil)

	t.Run("self referral", func(t *testing.T) {
		self := int64(1)
		user, _, err := uc.Register(context.Background(), 1, "alice", &self)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if user.ReferrerID != nil {
			t.Fatalf("expected referrer dropped, got %v", *user.ReferrerID)
		}
	})

	t.Run("unknown referrer", func(t *testing.T) {
		unknown := int64(99)
		user, _, err := uc.Register(context.Background(), 2, "bob", &unknown)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if user.ReferrerID != nil {
			t.Fatalf("expected referrer dropped, got %v", *user.ReferrerID)
		}
	})
}

func TestAccountRegisterExistingKeepsReferrer(t *testing.T) {
	users := testhelpers.NewUserRepositoryStub()
	referrer := int64(7)
	users.ByID[referrer] = &model.User{ID: referrer}
	users.ByID[1] = &model.User{ID: 1, Username: "old", ReferrerID: &referrer}

	uc := newAccountUseCase(users, &testhelpers.GatewayStub{}, nil)

	user, created, err := uc.Register(context.Background(), 1, "new", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created || user.Username != "new" || user.ReferrerID == nil || *user.ReferrerID != 7 {
		t.Fatalf("unexpected user: created=%v %+v", created, user)
	}
}

func TestAccountConfirmMembership(t *testing.T) {
	t.Run("first join pays bonus to referrer", func(t *testing.T) {
		users := testhelpers.NewUserRepositoryStub()
		referrer := int64(7)
		users.ByID[7] = &model.User{ID: 7}
		users.ByID[1] = &model.User{ID: 1, ReferrerID: &referrer}
		uc := newAccountUseCase(users, &testhelpers.GatewayStub{}, &config.Config{JoinBonus: 10})

		first, bonus, err := uc.ConfirmMembership(context.Background(), 1)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !first || bonus == nil || bonus.ReferrerID != 7 || bonus.Amount != 10 {
			t.Fatalf("unexpected result: first=%v bonus=%+v", first, bonus)
		}
		if users.ByID[7].Balance != 10 {
			t.Fatalf("expected referrer credited, balance=%d", users.ByID[7].Balance)
		}
		if users.ByID[1].Balance != 0 {
			t.Fatalf("joining user must not be credited, balance=%d", users.ByID[1].Balance)
		}
	})

	t.Run("first join reports referrer even without a configured bonus", func(t *testing.T) {
		users := testhelpers.NewUserRepositoryStub()
		referrer := int64(7)
		users.ByID[7] = &model.User{ID: 7}
		users.ByID[1] = &model.User{ID: 1, ReferrerID: &referrer}
		uc := newAccountUseCase(users, &testhelpers.GatewayStub{}, nil)

		first, bonus, err := uc.ConfirmMembership(context.Background(), 1)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !first || bonus == nil || bonus.ReferrerID != 7 || bonus.Amount != 0 {
			t.Fatalf("unexpected result: first=%v bonus=%+v", first, bonus)
		}
		if users.ByID[7].Balance != 0 {
			t.Fatalf("no credit expected, balance=%d", users.ByID[7].Balance)
		}
	})

	t.Run("first join without referrer pays nothing", func(t *testing.T) {
		users := testhelpers.NewUserRepositoryStub()
		users.ByID[1] = &model.User{ID: 1}
		uc := newAccountUseCase(users, &testhelpers.GatewayStub{}, &config.Config{JoinBonus: 10})

		first, bonus, err := uc.ConfirmMembership(context.Background(), 1)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !first || bonus != nil {
			t.Fatalf("unexpected result: first=%v bonus=%+v", first, bonus)
		}
	})

	t.Run("repeat join credits nothing", func(t *testing.T) {
		users := testhelpers.NewUserRepositoryStub()
		referrer := int64(7)
		users.ByID[7] = &model.User{ID: 7}
		users.ByID[1] = &model.User{ID: 1, JoinedChannel: true, ReferrerID: &referrer}
		uc := newAccountUseCase(users, &testhelpers.GatewayStub{}, &config.Config{JoinBonus: 10})

		first, bonus, err := uc.ConfirmMembership(context.Background(), 1)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if first || bonus != nil || users.ByID[7].Balance != 0 {
			t.Fatalf("unexpected result: first=%v bonus=%+v", first, bonus)
		}
	})

	t.Run("non-member", func(t *testing.T) {
		users := testhelpers.NewUserRepositoryStub()
		users.ByID[1] = &model.User{ID: 1}
		gateway := &testhelpers.GatewayStub{IsMemberFn: func(context.Context, int64) (bool, error) { return false, nil }}
		uc := newAccountUseCase(users, gateway, nil)

		if _, _, err := uc.ConfirmMembership(context.Background(), 1); !errors.Is(err, domainErrors.ErrNotMember) {
			t.Fatalf("expected not member, got %v", err)
		}
		if users.ByID[1].JoinedChannel {
			t.Fatal("joined flag must stay unset")
		}
	})

	t.Run("oracle failure does not count as membership", func(t *testing.T) {
		users := testhelpers.NewUserRepositoryStub()
		users.ByID[1] = &model.User{ID: 1}
		gateway := &testhelpers.GatewayStub{IsMemberFn: func(context.Context, int64) (bool, error) {
			return false, errors.New("api down")
		}}
		uc := newAccountUseCase(users, gateway, nil)

		if _, _, err := uc.ConfirmMembership(context.Background(), 1); !errors.Is(err, domainErrors.ErrNotMember) {
			t.Fatalf("expected not member, got %v", err)
		}
		if users.ByID[1].JoinedChannel {
			t.Fatal("joined flag must stay unset")
		}
	})
}

func TestAccountSetPayoutID(t *testing.T) {
	users := testhelpers.NewUserRepositoryStub()
	users.ByID[1] = &model.User{ID: 1}
	uc := newAccountUseCase(users, &testhelpers.GatewayStub{}, nil)

	if err := uc.SetPayoutID(context.Background(), 1, "  "); !errors.Is(err, domainErrors.ErrNoPayoutDestination) {
		t.Fatalf("expected no payout destination, got %v", err)
	}

	if err := uc.SetPayoutID(context.Background(), 1, " dest@bank "); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if users.ByID[1].PayoutID == nil || *users.ByID[1].PayoutID != "dest@bank" {
		t.Fatalf("expected trimmed payout ID, got %v", users.ByID[1].PayoutID)
	}
}

func TestAccountOperatorBalanceOps(t *testing.T) {
	users := testhelpers.NewUserRepositoryStub()
	users.ByID[1] = &model.User{ID: 1, Balance: 50}
	uc := newAccountUseCase(users, &testhelpers.GatewayStub{}, nil)

	if err := uc.SetBalance(context.Background(), 1, -1); !errors.Is(err, domainErrors.ErrInvalidAmount) {
		t.Fatalf("expected invalid amount, got %v", err)
	}
	if err := uc.SetBalance(context.Background(), 1, 70); err != nil || users.ByID[1].Balance != 70 {
		t.Fatalf("expected balance 70, got %d err=%v", users.ByID[1].Balance, err)
	}

	if err := uc.Deduct(context.Background(), 1, 0); !errors.Is(err, domainErrors.ErrInvalidAmount) {
		t.Fatalf("expected invalid amount, got %v", err)
	}
	if err := uc.Deduct(context.Background(), 1, 100); !errors.Is(err, domainErrors.ErrInsufficientBalance) {
		t.Fatalf("expected insufficient balance, got %v", err)
	}
	if err := uc.Deduct(context.Background(), 1, 20); err != nil || users.ByID[1].Balance != 50 {
		t.Fatalf("expected balance 50, got %d err=%v", users.ByID[1].Balance, err)
	}
}

func TestAccountReferrals(t *testing.T) {
	users := testhelpers.NewUserRepositoryStub()
	referrer := int64(1)
	users.ByID[1] = &model.User{ID: 1}
	users.ByID[2] = &model.User{ID: 2, ReferrerID: &referrer}
	users.ByID[3] = &model.User{ID: 3}
	uc := newAccountUseCase(users, &testhelpers.GatewayStub{}, nil)

	refs, err := uc.Referrals(context.Background(), 1)
	if err != nil || len(refs) != 1 || refs[0].ID != 2 {
		t.Fatalf("unexpected referrals: %v err=%v", refs, err)
	}

	count, err := uc.Count(context.Background())
	if err != nil || count != 3 {
		t.Fatalf("unexpected count: %d err=%v", count, err)
	}

	list, err := uc.Users(context.Background())
	if err != nil || len(list) != 3 {
		t.Fatalf("unexpected users: %v err=%v", list, err)
	}
}
