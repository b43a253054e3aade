package test

import (
	"context"
	"errors"
	"time"

	domainErrors "github.com/rewardly/taskbot/internal/domain/errors"
	"github.com/rewardly/taskbot/internal/domain/model"
	"github.com/rewardly/taskbot/internal/domain/repository"
)

// UserRepositoryStub stores users in-memory for tests.
type UserRepositoryStub struct {
	ByID   map[int64]*model.User
	Joined map[int64]bool
	Err    error
}

// NewUserRepositoryStub constructs stub repository with initialized maps.
func NewUserRepositoryStub() *UserRepositoryStub {
	return &UserRepositoryStub{
		ByID:   make(map[int64]*model.User),
		Joined: make(map[int64]bool),
	}
}

// Upsert registers user or refreshes the username of an existing one.
func (s *UserRepositoryStub) Upsert(ctx context.Context, id int64, username string, referrerID *int64) (*model.User, bool, error) {
	if s.Err != nil {
		return nil, false, s.Err
	}
	if s.ByID == nil {
		s.ByID = make(map[int64]*model.User)
	}
	if existing, ok := s.ByID[id]; ok {
		existing.Username = username
		return existing, false, nil
	}
	user := &model.User{ID: id, Username: username, ReferrerID: referrerID, CreatedAt: time.Now()}
	s.ByID[id] = user
	return user, true, nil
}

// Get fetches user by identifier or returns not found.
func (s *UserRepositoryStub) Get(ctx context.Context, id int64) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.ByID[id]; ok {
		return user, nil
	}
	return nil, domainErrors.ErrNotFound
}

// List returns all stored users.
func (s *UserRepositoryStub) List(ctx context.Context) ([]model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	result := make([]model.User, 0, len(s.ByID))
	for _, user := range s.ByID {
		result = append(result, *user)
	}
	return result, nil
}

// Count returns number of stored users.
func (s *UserRepositoryStub) Count(ctx context.Context) (int64, error) {
	if s.Err != nil {
		return 0, s.Err
	}
	return int64(len(s.ByID)), nil
}

// Credit adds points to the stored balance.
func (s *UserRepositoryStub) Credit(ctx context.Context, id int64, amount int64) error {
	if s.Err != nil {
		return s.Err
	}
	if amount < 0 {
		return domainErrors.ErrInvalidAmount
	}
	user, ok := s.ByID[id]
	if !ok {
		return domainErrors.ErrNotFound
	}
	user.Balance += amount
	return nil
}

// Debit removes points when the balance covers the amount.
func (s *UserRepositoryStub) Debit(ctx context.Context, id int64, amount int64) error {
	if s.Err != nil {
		return s.Err
	}
	user, ok := s.ByID[id]
	if !ok {
		return domainErrors.ErrNotFound
	}
	if user.Balance < amount {
		return domainErrors.ErrInsufficientBalance
	}
	user.Balance -= amount
	return nil
}

// SetBalance overwrites the stored balance.
func (s *UserRepositoryStub) SetBalance(ctx context.Context, id int64, balance int64) error {
	if s.Err != nil {
		return s.Err
	}
	user, ok := s.ByID[id]
	if !ok {
		return domainErrors.ErrNotFound
	}
	user.Balance = balance
	return nil
}

// SetPayoutID stores the payout destination.
func (s *UserRepositoryStub) SetPayoutID(ctx context.Context, id int64, payoutID string) error {
	if s.Err != nil {
		return s.Err
	}
	user, ok := s.ByID[id]
	if !ok {
		return domainErrors.ErrNotFound
	}
	user.PayoutID = &payoutID
	return nil
}

// MarkJoined flips the joined flag, reporting the first transition.
func (s *UserRepositoryStub) MarkJoined(ctx context.Context, id int64) (bool, error) {
	if s.Err != nil {
		return false, s.Err
	}
	user, ok := s.ByID[id]
	if !ok {
		return false, domainErrors.ErrNotFound
	}
	if user.JoinedChannel {
		return false, nil
	}
	user.JoinedChannel = true
	if s.Joined == nil {
		s.Joined = make(map[int64]bool)
	}
	s.Joined[id] = true
	return true, nil
}

// ListReferrals returns users referred by the given account.
func (s *UserRepositoryStub) ListReferrals(ctx context.Context, referrerID int64) ([]model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	var result []model.User
	for _, user := range s.ByID {
		if user.ReferrerID != nil && *user.ReferrerID == referrerID {
			result = append(result, *user)
		}
	}
	return result, nil
}

// TaskRepositoryStub allows tests to customize behaviour.
type TaskRepositoryStub struct {
	CreateFn func(context.Context, string, string, int64, string) (*model.Task, error)
	DeleteFn func(context.Context, int64) error
	GetFn    func(context.Context, int64) (*model.Task, error)
	ListFn   func(context.Context) ([]model.Task, error)

	Deleted []int64
}

func (s *TaskRepositoryStub) Create(ctx context.Context, title, description string, reward int64, question string) (*model.Task, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, title, description, reward, question)
	}
	return &model.Task{ID: 1, Title: title, Description: description, Reward: reward, Question: question}, nil
}

func (s *TaskRepositoryStub) Delete(ctx context.Context, id int64) error {
	s.Deleted = append(s.Deleted, id)
	if s.DeleteFn != nil {
		return s.DeleteFn(ctx, id)
	}
	return nil
}

func (s *TaskRepositoryStub) Get(ctx context.Context, id int64) (*model.Task, error) {
	if s.GetFn != nil {
		return s.GetFn(ctx, id)
	}
	return nil, domainErrors.ErrNotFound
}

func (s *TaskRepositoryStub) List(ctx context.Context) ([]model.Task, error) {
	if s.ListFn != nil {
		return s.ListFn(ctx)
	}
	return nil, nil
}

// AssignmentRepositoryStub allows tests to customize behaviour.
type AssignmentRepositoryStub struct {
	SubmitFn      func(context.Context, int64, int64, string) error
	ApproveFn     func(context.Context, int64, int64, int64) (*repository.ApprovalResult, error)
	DeclineFn     func(context.Context, int64, int64) error
	GetFn         func(context.Context, int64, int64) (*model.Assignment, error)
	ListByUserFn  func(context.Context, int64, model.AssignmentStatus) ([]model.Task, error)
	ListPendingFn func(context.Context) ([]model.PendingSubmission, error)

	Submitted []model.Assignment
}

func (s *AssignmentRepositoryStub) Submit(ctx context.Context, userID, taskID int64, response string) error {
	s.Submitted = append(s.Submitted, model.Assignment{UserID: userID, TaskID: taskID, Response: response})
	if s.SubmitFn != nil {
		return s.SubmitFn(ctx, userID, taskID, response)
	}
	return nil
}

func (s *AssignmentRepositoryStub) Approve(ctx context.Context, userID, taskID int64, referralPercent int64) (*repository.ApprovalResult, error) {
	if s.ApproveFn != nil {
		return s.ApproveFn(ctx, userID, taskID, referralPercent)
	}
	return &repository.ApprovalResult{}, nil
}

func (s *AssignmentRepositoryStub) Decline(ctx context.Context, userID, taskID int64) error {
	if s.DeclineFn != nil {
		return s.DeclineFn(ctx, userID, taskID)
	}
	return nil
}

func (s *AssignmentRepositoryStub) Get(ctx context.Context, userID, taskID int64) (*model.Assignment, error) {
	if s.GetFn != nil {
		return s.GetFn(ctx, userID, taskID)
	}
	return nil, domainErrors.ErrNotFound
}

func (s *AssignmentRepositoryStub) ListByUser(ctx context.Context, userID int64, status model.AssignmentStatus) ([]model.Task, error) {
	if s.ListByUserFn != nil {
		return s.ListByUserFn(ctx, userID, status)
	}
	return nil, nil
}

func (s *AssignmentRepositoryStub) ListPending(ctx context.Context) ([]model.PendingSubmission, error) {
	if s.ListPendingFn != nil {
		return s.ListPendingFn(ctx)
	}
	return nil, nil
}

// WithdrawalRepositoryStub allows tests to customize behaviour.
type WithdrawalRepositoryStub struct {
	CreateFn      func(context.Context, int64, int64) (*model.Withdrawal, error)
	ResolveFn     func(context.Context, int64, model.WithdrawalStatus) (*model.Withdrawal, error)
	CancelFn      func(context.Context, int64, int64) (*model.Withdrawal, error)
	GetFn         func(context.Context, int64) (*model.Withdrawal, error)
	ListByUserFn  func(context.Context, int64) ([]model.Withdrawal, error)
	ListPendingFn func(context.Context) ([]model.PendingWithdrawal, error)

	Requested []model.Withdrawal
}

func (s *WithdrawalRepositoryStub) Create(ctx context.Context, userID, amount int64) (*model.Withdrawal, error) {
	s.Requested = append(s.Requested, model.Withdrawal{UserID: userID, Amount: amount})
	if s.CreateFn != nil {
		return s.CreateFn(ctx, userID, amount)
	}
	return &model.Withdrawal{ID: 1, UserID: userID, Amount: amount, Status: model.WithdrawalStatusPending}, nil
}

func (s *WithdrawalRepositoryStub) Resolve(ctx context.Context, id int64, status model.WithdrawalStatus) (*model.Withdrawal, error) {
	if s.ResolveFn != nil {
		return s.ResolveFn(ctx, id, status)
	}
	return &model.Withdrawal{ID: id, Status: status}, nil
}

func (s *WithdrawalRepositoryStub) Cancel(ctx context.Context, id, userID int64) (*model.Withdrawal, error) {
	if s.CancelFn != nil {
		return s.CancelFn(ctx, id, userID)
	}
	return &model.Withdrawal{ID: id, UserID: userID, Status: model.WithdrawalStatusDeclined}, nil
}

func (s *WithdrawalRepositoryStub) Get(ctx context.Context, id int64) (*model.Withdrawal, error) {
	if s.GetFn != nil {
		return s.GetFn(ctx, id)
	}
	return nil, domainErrors.ErrNotFound
}

func (s *WithdrawalRepositoryStub) ListByUser(ctx context.Context, userID int64) ([]model.Withdrawal, error) {
	if s.ListByUserFn != nil {
		return s.ListByUserFn(ctx, userID)
	}
	return nil, nil
}

func (s *WithdrawalRepositoryStub) ListPending(ctx context.Context) ([]model.PendingWithdrawal, error) {
	if s.ListPendingFn != nil {
		return s.ListPendingFn(ctx)
	}
	return nil, nil
}

// AnnouncementRepositoryStub allows tests to customize behaviour.
type AnnouncementRepositoryStub struct {
	CreateFn func(context.Context, string) (*model.Announcement, error)
	DeleteFn func(context.Context, int64) error
	ListFn   func(context.Context) ([]model.Announcement, error)

	Published []string
}

func (s *AnnouncementRepositoryStub) Create(ctx context.Context, message string) (*model.Announcement, error) {
	s.Published = append(s.Published, message)
	if s.CreateFn != nil {
		return s.CreateFn(ctx, message)
	}
	return &model.Announcement{ID: int64(len(s.Published)), Message: message, CreatedAt: time.Now()}, nil
}

func (s *AnnouncementRepositoryStub) Delete(ctx context.Context, id int64) error {
	if s.DeleteFn != nil {
		return s.DeleteFn(ctx, id)
	}
	return nil
}

func (s *AnnouncementRepositoryStub) List(ctx context.Context) ([]model.Announcement, error) {
	if s.ListFn != nil {
		return s.ListFn(ctx)
	}
	return nil, nil
}

// ErrStub is a reusable sentinel for forcing failures in tests.
var ErrStub = errors.New("stub failure")
