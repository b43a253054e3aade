package bot

import (
	"context"

	"github.com/go-telegram/bot/models"

	"github.com/rewardly/taskbot/internal/domain/model"
	"github.com/rewardly/taskbot/internal/domain/repository"
)

// AccountFacade describes account capabilities required by handlers.
type AccountFacade interface {
	Register(ctx context.Context, id int64, username string, referrerID *int64) (*model.User, bool, error)
	Profile(ctx context.Context, id int64) (*model.User, error)
	ConfirmMembership(ctx context.Context, id int64) (bool, *model.JoinBonus, error)
	SetPayoutID(ctx context.Context, id int64, payoutID string) error
	Referrals(ctx context.Context, id int64) ([]model.User, error)
	SetBalance(ctx context.Context, id int64, balance int64) error
	DeductBalance(ctx context.Context, id int64, amount int64) error
	Users(ctx context.Context) ([]model.User, error)
	UserCount(ctx context.Context) (int64, error)
}

// TaskFacade encapsulates task operations exposed via the bot.
type TaskFacade interface {
	CreateTask(ctx context.Context, title, description string, reward int64, question string) (*model.Task, error)
	DeleteTask(ctx context.Context, id int64) error
	Task(ctx context.Context, id int64) (*model.Task, error)
	AvailableTasks(ctx context.Context, userID int64) ([]model.Task, error)
	SubmitTask(ctx context.Context, userID, taskID int64, response string) (*model.Task, error)
	ApproveTask(ctx context.Context, userID, taskID int64) (*repository.ApprovalResult, error)
	DeclineTask(ctx context.Context, userID, taskID int64) error
	CompletedTasks(ctx context.Context, userID int64) ([]model.Task, error)
	PendingSubmissions(ctx context.Context) ([]model.PendingSubmission, error)
}

// WithdrawalFacade provides withdrawal lifecycle operations.
type WithdrawalFacade interface {
	MinWithdrawal() int64
	RequestWithdrawal(ctx context.Context, userID, amount int64) (*model.Withdrawal, error)
	CancelWithdrawal(ctx context.Context, id, userID int64) (*model.Withdrawal, error)
	ApproveWithdrawal(ctx context.Context, id int64) (*model.Withdrawal, error)
	DeclineWithdrawal(ctx context.Context, id int64) (*model.Withdrawal, error)
	Withdrawals(ctx context.Context, userID int64) ([]model.Withdrawal, error)
	PendingWithdrawals(ctx context.Context) ([]model.PendingWithdrawal, error)
}

// AnnouncementFacade manages the announcement log.
type AnnouncementFacade interface {
	PublishAnnouncement(ctx context.Context, message string) (*model.Announcement, error)
	RemoveAnnouncement(ctx context.Context, id int64) error
	Announcements(ctx context.Context) ([]model.Announcement, error)
}

// MessagingFacade delivers out-of-band notifications.
type MessagingFacade interface {
	Notify(ctx context.Context, chatID int64, text string) error
	NotifyAdmins(ctx context.Context, text string)
	NotifyAdminsMarkup(ctx context.Context, text string, markup models.ReplyMarkup)
	Broadcast(ctx context.Context, text string) (int, error)
}

// Facade aggregates the full set of operations used across handlers.
type Facade interface {
	AccountFacade
	TaskFacade
	WithdrawalFacade
	AnnouncementFacade
	MessagingFacade
}

// Rechecker schedules deferred membership rechecks.
type Rechecker interface {
	Schedule(userID int64) bool
}
