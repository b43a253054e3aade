package repository

import (
	"context"

	"github.com/rewardly/taskbot/internal/domain/model"
)

// ApprovalResult carries the outcome of an approved assignment: the credited
// reward and, when the user was referred, the referrer with the bonus that was
// credited to them in the same transaction.
type ApprovalResult struct {
	Reward        int64
	ReferrerID    *int64
	ReferralBonus int64
}

// AssignmentRepository tracks per (user, task) submission and review state.
// Approve and Decline are atomic check-and-set transitions: approving a
// non-pending assignment returns ErrNotPending so the reward can never be
// credited twice.
type AssignmentRepository interface {
	// Submit stores the response and puts the pair into pending state.
	// Resubmission while pending overwrites the response; resubmission of a
	// completed assignment returns ErrNotPending.
	Submit(ctx context.Context, userID, taskID int64, response string) error
	// Approve transitions pending to completed, credits the task reward to
	// the user and the configured percentage to the referrer, all in one
	// transaction.
	Approve(ctx context.Context, userID, taskID int64, referralPercent int64) (*ApprovalResult, error)
	// Decline deletes the pending row so the user may resubmit.
	Decline(ctx context.Context, userID, taskID int64) error
	Get(ctx context.Context, userID, taskID int64) (*model.Assignment, error)
	ListByUser(ctx context.Context, userID int64, status model.AssignmentStatus) ([]model.Task, error)
	ListPending(ctx context.Context) ([]model.PendingSubmission, error)
}
