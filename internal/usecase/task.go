package usecase

import (
	"context"
	"strings"

	"github.com/rewardly/taskbot/internal/config"
	domainErrors "github.com/rewardly/taskbot/internal/domain/errors"
	"github.com/rewardly/taskbot/internal/domain/model"
	"github.com/rewardly/taskbot/internal/domain/repository"
)

// TaskUseCase manages the task catalog and the submission review flow.
type TaskUseCase struct {
	tasks       repository.TaskRepository
	assignments repository.AssignmentRepository
	config      *config.Config
}

// NewTaskUseCase constructs TaskUseCase.
func NewTaskUseCase(tasks repository.TaskRepository, assignments repository.AssignmentRepository, cfg *config.Config) *TaskUseCase {
	return &TaskUseCase{tasks: tasks, assignments: assignments, config: cfg}
}

// Create adds a task to the catalog.
func (u *TaskUseCase) Create(ctx context.Context, title, description string, reward int64, question string) (*model.Task, error) {
	title = strings.TrimSpace(title)
	question = strings.TrimSpace(question)
	if title == "" || question == "" {
		return nil, domainErrors.ErrInvalidTask
	}
	if reward <= 0 {
		return nil, domainErrors.ErrInvalidAmount
	}
	return u.tasks.Create(ctx, title, strings.TrimSpace(description), reward, question)
}

// Delete removes the task together with all submissions referencing it.
func (u *TaskUseCase) Delete(ctx context.Context, id int64) error {
	return u.tasks.Delete(ctx, id)
}

// Get returns the task by ID.
func (u *TaskUseCase) Get(ctx context.Context, id int64) (*model.Task, error) {
	return u.tasks.Get(ctx, id)
}

// List returns the whole task catalog.
func (u *TaskUseCase) List(ctx context.Context) ([]model.Task, error) {
	return u.tasks.List(ctx)
}

// Available returns tasks the user has neither submitted nor completed.
func (u *TaskUseCase) Available(ctx context.Context, userID int64) ([]model.Task, error) {
	all, err := u.tasks.List(ctx)
	if err != nil {
		return nil, err
	}

	taken := make(map[int64]struct{})
	for _, status := range []model.AssignmentStatus{model.AssignmentStatusPending, model.AssignmentStatusCompleted} {
		tasks, err := u.assignments.ListByUser(ctx, userID, status)
		if err != nil {
			return nil, err
		}
		for _, task := range tasks {
			taken[task.ID] = struct{}{}
		}
	}

	var available []model.Task
	for _, task := range all {
		if _, ok := taken[task.ID]; !ok {
			available = append(available, task)
		}
	}
	return available, nil
}

// Submit records the user's response for review. Resubmitting while pending
// replaces the previous response; completed tasks cannot be submitted again.
func (u *TaskUseCase) Submit(ctx context.Context, userID, taskID int64, response string) (*model.Task, error) {
	response = strings.TrimSpace(response)
	if response == "" {
		return nil, domainErrors.ErrEmptyResponse
	}
	task, err := u.tasks.Get(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if err := u.assignments.Submit(ctx, userID, taskID, response); err != nil {
		return nil, err
	}
	return task, nil
}

// Approve marks the submission completed and credits the reward, plus the
// referral share when the worker was referred.
func (u *TaskUseCase) Approve(ctx context.Context, userID, taskID int64) (*repository.ApprovalResult, error) {
	return u.assignments.Approve(ctx, userID, taskID, u.config.ReferralPercent)
}

// Decline drops the pending submission so the task can be attempted again.
func (u *TaskUseCase) Decline(ctx context.Context, userID, taskID int64) error {
	return u.assignments.Decline(ctx, userID, taskID)
}

// Completed lists tasks the user finished.
func (u *TaskUseCase) Completed(ctx context.Context, userID int64) ([]model.Task, error) {
	return u.assignments.ListByUser(ctx, userID, model.AssignmentStatusCompleted)
}

// PendingSubmissions lists every submission waiting for review.
func (u *TaskUseCase) PendingSubmissions(ctx context.Context) ([]model.PendingSubmission, error) {
	return u.assignments.ListPending(ctx)
}
