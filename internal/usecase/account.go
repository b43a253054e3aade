package usecase

import (
	"context"
	"strings"

	"github.com/rewardly/taskbot/internal/adapter/telegram"
	"github.com/rewardly/taskbot/internal/config"
	domainErrors "github.com/rewardly/taskbot/internal/domain/errors"
	"github.com/rewardly/taskbot/internal/domain/model"
	"github.com/rewardly/taskbot/internal/domain/repository"
)

// AccountUseCase manages user accounts, balances and channel membership.
type AccountUseCase struct {
	users   repository.UserRepository
	gateway telegram.Gateway
	config  *config.Config
}

// NewAccountUseCase constructs AccountUseCase.
func NewAccountUseCase(users repository.UserRepository, gateway telegram.Gateway, cfg *config.Config) *AccountUseCase {
	return &AccountUseCase{users: users, gateway: gateway, config: cfg}
}

// Register creates the account on first contact and refreshes the username
// afterwards. The referrer edge is set once and only when the referrer is a
// real, different user.
func (u *AccountUseCase) Register(ctx context.Context, id int64, username string, referrerID *int64) (*model.User, bool, error) {
	if referrerID != nil {
		if *referrerID == id {
			referrerID = nil
		} else if _, err := u.users.Get(ctx, *referrerID); err != nil {
			referrerID = nil
		}
	}
	return u.users.Upsert(ctx, id, username, referrerID)
}

// Profile returns the account by ID.
func (u *AccountUseCase) Profile(ctx context.Context, id int64) (*model.User, error) {
	return u.users.Get(ctx, id)
}

// ConfirmMembership verifies channel membership against the Bot API and
// records the join. The first verified join of a referred user reports the
// referrer and credits them the configured flat bonus when one is set.
// An unreachable oracle fails closed: the user is treated as not a member.
func (u *AccountUseCase) ConfirmMembership(ctx context.Context, id int64) (bool, *model.JoinBonus, error) {
	member, err := u.gateway.IsMember(ctx, id)
	if err != nil || !member {
		return false, nil, domainErrors.ErrNotMember
	}

	first, err := u.users.MarkJoined(ctx, id)
	if err != nil {
		return false, nil, err
	}
	if !first {
		return first, nil, nil
	}

	user, err := u.users.Get(ctx, id)
	if err != nil {
		return first, nil, err
	}
	if user.ReferrerID == nil {
		return first, nil, nil
	}
	if u.config.JoinBonus > 0 {
		if err := u.users.Credit(ctx, *user.ReferrerID, u.config.JoinBonus); err != nil {
			return first, nil, err
		}
	}
	return first, &model.JoinBonus{ReferrerID: *user.ReferrerID, Amount: u.config.JoinBonus}, nil
}

// SetPayoutID stores the payout destination used for withdrawals.
func (u *AccountUseCase) SetPayoutID(ctx context.Context, id int64, payoutID string) error {
	payoutID = strings.TrimSpace(payoutID)
	if payoutID == "" {
		return domainErrors.ErrNoPayoutDestination
	}
	return u.users.SetPayoutID(ctx, id, payoutID)
}

// Referrals lists accounts referred by the user.
func (u *AccountUseCase) Referrals(ctx context.Context, id int64) ([]model.User, error) {
	return u.users.ListReferrals(ctx, id)
}

// SetBalance replaces the account balance with an operator supplied value.
func (u *AccountUseCase) SetBalance(ctx context.Context, id int64, balance int64) error {
	if balance < 0 {
		return domainErrors.ErrInvalidAmount
	}
	return u.users.SetBalance(ctx, id, balance)
}

// Deduct removes points from the account balance.
func (u *AccountUseCase) Deduct(ctx context.Context, id int64, amount int64) error {
	if amount <= 0 {
		return domainErrors.ErrInvalidAmount
	}
	return u.users.Debit(ctx, id, amount)
}

// Users lists all known accounts.
func (u *AccountUseCase) Users(ctx context.Context) ([]model.User, error) {
	return u.users.List(ctx)
}

// Count returns the number of registered accounts.
func (u *AccountUseCase) Count(ctx context.Context) (int64, error) {
	return u.users.Count(ctx)
}
