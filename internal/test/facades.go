package test

import (
	"context"
	"sync"

	"github.com/rewardly/taskbot/internal/domain/model"
)

// MembershipFacadeStub provides controllable behaviour for the membership
// rechecker.
type MembershipFacadeStub struct {
	sync.Mutex

	IsMemberFn          func(ctx context.Context, userID int64) (bool, error)
	ProfileFn           func(ctx context.Context, userID int64) (*model.User, error)
	ConfirmMembershipFn func(ctx context.Context, userID int64) (bool, *model.JoinBonus, error)
	NotifyFn            func(ctx context.Context, chatID int64, text string) error

	Checked   []int64
	Confirmed []int64
	Notified  []SentMessage
}

func (s *MembershipFacadeStub) IsMember(ctx context.Context, userID int64) (bool, error) {
	s.Lock()
	s.Checked = append(s.Checked, userID)
	s.Unlock()
	if s.IsMemberFn != nil {
		return s.IsMemberFn(ctx, userID)
	}
	return true, nil
}

func (s *MembershipFacadeStub) Profile(ctx context.Context, userID int64) (*model.User, error) {
	if s.ProfileFn != nil {
		return s.ProfileFn(ctx, userID)
	}
	return &model.User{ID: userID}, nil
}

func (s *MembershipFacadeStub) ConfirmMembership(ctx context.Context, userID int64) (bool, *model.JoinBonus, error) {
	s.Lock()
	s.Confirmed = append(s.Confirmed, userID)
	s.Unlock()
	if s.ConfirmMembershipFn != nil {
		return s.ConfirmMembershipFn(ctx, userID)
	}
	return false, nil, nil
}

func (s *MembershipFacadeStub) Notify(ctx context.Context, chatID int64, text string) error {
	s.Lock()
	s.Notified = append(s.Notified, SentMessage{ChatID: chatID, Text: text})
	s.Unlock()
	if s.NotifyFn != nil {
		return s.NotifyFn(ctx, chatID, text)
	}
	return nil
}
