package app

import (
	"context"
	"log/slog"

	"github.com/go-telegram/bot/models"

	"github.com/rewardly/taskbot/internal/adapter/telegram"
	"github.com/rewardly/taskbot/internal/config"
	"github.com/rewardly/taskbot/internal/domain/model"
	"github.com/rewardly/taskbot/internal/domain/repository"
	"github.com/rewardly/taskbot/internal/usecase"
)

// RewardsFacade is the single entry point the transport layers use to drive
// the reward system.
type RewardsFacade struct {
	accounts      *usecase.AccountUseCase
	tasks         *usecase.TaskUseCase
	withdrawals   *usecase.WithdrawalUseCase
	announcements *usecase.AnnouncementUseCase
	gateway       telegram.Gateway
	config        *config.Config
	logger        *slog.Logger
}

func NewRewardsFacade(
	accounts *usecase.AccountUseCase,
	tasks *usecase.TaskUseCase,
	withdrawals *usecase.WithdrawalUseCase,
	announcements *usecase.AnnouncementUseCase,
	gateway telegram.Gateway,
	cfg *config.Config,
	logger *slog.Logger,
) *RewardsFacade {
	return &RewardsFacade{
		accounts:      accounts,
		tasks:         tasks,
		withdrawals:   withdrawals,
		announcements: announcements,
		gateway:       gateway,
		config:        cfg,
		logger:        logger,
	}
}

// Accounts.

func (f *RewardsFacade) Register(ctx context.Context, id int64, username string, referrerID *int64) (*model.User, bool, error) {
	return f.accounts.Register(ctx, id, username, referrerID)
}

func (f *RewardsFacade) Profile(ctx context.Context, id int64) (*model.User, error) {
	return f.accounts.Profile(ctx, id)
}

func (f *RewardsFacade) ConfirmMembership(ctx context.Context, id int64) (bool, *model.JoinBonus, error) {
	return f.accounts.ConfirmMembership(ctx, id)
}

func (f *RewardsFacade) SetPayoutID(ctx context.Context, id int64, payoutID string) error {
	return f.accounts.SetPayoutID(ctx, id, payoutID)
}

func (f *RewardsFacade) Referrals(ctx context.Context, id int64) ([]model.User, error) {
	return f.accounts.Referrals(ctx, id)
}

func (f *RewardsFacade) SetBalance(ctx context.Context, id int64, balance int64) error {
	return f.accounts.SetBalance(ctx, id, balance)
}

func (f *RewardsFacade) DeductBalance(ctx context.Context, id int64, amount int64) error {
	return f.accounts.Deduct(ctx, id, amount)
}

func (f *RewardsFacade) Users(ctx context.Context) ([]model.User, error) {
	return f.accounts.Users(ctx)
}

func (f *RewardsFacade) UserCount(ctx context.Context) (int64, error) {
	return f.accounts.Count(ctx)
}

// Tasks.

func (f *RewardsFacade) CreateTask(ctx context.Context, title, description string, reward int64, question string) (*model.Task, error) {
	return f.tasks.Create(ctx, title, description, reward, question)
}

func (f *RewardsFacade) DeleteTask(ctx context.Context, id int64) error {
	return f.tasks.Delete(ctx, id)
}

func (f *RewardsFacade) Task(ctx context.Context, id int64) (*model.Task, error) {
	return f.tasks.Get(ctx, id)
}

func (f *RewardsFacade) Tasks(ctx context.Context) ([]model.Task, error) {
	return f.tasks.List(ctx)
}

func (f *RewardsFacade) AvailableTasks(ctx context.Context, userID int64) ([]model.Task, error) {
	return f.tasks.Available(ctx, userID)
}

func (f *RewardsFacade) SubmitTask(ctx context.Context, userID, taskID int64, response string) (*model.Task, error) {
	return f.tasks.Submit(ctx, userID, taskID, response)
}

func (f *RewardsFacade) ApproveTask(ctx context.Context, userID, taskID int64) (*repository.ApprovalResult, error) {
	return f.tasks.Approve(ctx, userID, taskID)
}

func (f *RewardsFacade) DeclineTask(ctx context.Context, userID, taskID int64) error {
	return f.tasks.Decline(ctx, userID, taskID)
}

func (f *RewardsFacade) CompletedTasks(ctx context.Context, userID int64) ([]model.Task, error) {
	return f.tasks.Completed(ctx, userID)
}

func (f *RewardsFacade) PendingSubmissions(ctx context.Context) ([]model.PendingSubmission, error) {
	return f.tasks.PendingSubmissions(ctx)
}

// Withdrawals.

func (f *RewardsFacade) MinWithdrawal() int64 {
	return f.withdrawals.MinAmount()
}

func (f *RewardsFacade) RequestWithdrawal(ctx context.Context, userID, amount int64) (*model.Withdrawal, error) {
	return f.withdrawals.Request(ctx, userID, amount)
}

func (f *RewardsFacade) CancelWithdrawal(ctx context.Context, id, userID int64) (*model.Withdrawal, error) {
	return f.withdrawals.Cancel(ctx, id, userID)
}

func (f *RewardsFacade) ApproveWithdrawal(ctx context.Context, id int64) (*model.Withdrawal, error) {
	return f.withdrawals.Approve(ctx, id)
}

func (f *RewardsFacade) DeclineWithdrawal(ctx context.Context, id int64) (*model.Withdrawal, error) {
	return f.withdrawals.Decline(ctx, id)
}

func (f *RewardsFacade) Withdrawals(ctx context.Context, userID int64) ([]model.Withdrawal, error) {
	return f.withdrawals.History(ctx, userID)
}

func (f *RewardsFacade) PendingWithdrawals(ctx context.Context) ([]model.PendingWithdrawal, error) {
	return f.withdrawals.Pending(ctx)
}

// Announcements.

func (f *RewardsFacade) PublishAnnouncement(ctx context.Context, message string) (*model.Announcement, error) {
	return f.announcements.Publish(ctx, message)
}

func (f *RewardsFacade) RemoveAnnouncement(ctx context.Context, id int64) error {
	return f.announcements.Remove(ctx, id)
}

func (f *RewardsFacade) Announcements(ctx context.Context) ([]model.Announcement, error) {
	return f.announcements.List(ctx)
}

// Messaging.

// IsMember checks current channel membership without recording anything.
func (f *RewardsFacade) IsMember(ctx context.Context, userID int64) (bool, error) {
	return f.gateway.IsMember(ctx, userID)
}

// Notify sends a message to a single chat.
func (f *RewardsFacade) Notify(ctx context.Context, chatID int64, text string) error {
	return f.gateway.Notify(ctx, chatID, text)
}

// NotifyAdmins fans a message out to every configured operator. Delivery
// failures are logged per operator and do not abort the fan-out.
func (f *RewardsFacade) NotifyAdmins(ctx context.Context, text string) {
	for _, adminID := range f.config.AdminIDs {
		if err := f.gateway.Notify(ctx, adminID, text); err != nil {
			f.logger.Warn("admin notification failed",
				slog.Int64("admin_id", adminID),
				slog.String("error", err.Error()),
			)
		}
	}
}

// NotifyAdminsMarkup is NotifyAdmins with an inline keyboard attached,
// used for review prompts that carry approve/decline buttons.
func (f *RewardsFacade) NotifyAdminsMarkup(ctx context.Context, text string, markup models.ReplyMarkup) {
	for _, adminID := range f.config.AdminIDs {
		if err := f.gateway.NotifyMarkup(ctx, adminID, text, markup); err != nil {
			f.logger.Warn("admin notification failed",
				slog.Int64("admin_id", adminID),
				slog.String("error", err.Error()),
			)
		}
	}
}

// Broadcast delivers a message to every registered user. A failed delivery
// (blocked bot, deleted account) is logged and skipped.
func (f *RewardsFacade) Broadcast(ctx context.Context, text string) (int, error) {
	users, err := f.accounts.Users(ctx)
	if err != nil {
		return 0, err
	}

	delivered := 0
	for _, user := range users {
		if err := f.gateway.Notify(ctx, user.ID, text); err != nil {
			f.logger.Warn("broadcast delivery failed",
				slog.Int64("user_id", user.ID),
				slog.String("error", err.Error()),
			)
			continue
		}
		delivered++
	}
	return delivered, nil
}
