package repository

import (
	"context"

	"github.com/rewardly/taskbot/internal/domain/model"
)

// TaskRepository describes persistence operations for the task catalog.
type TaskRepository interface {
	Create(ctx context.Context, title, description string, reward int64, question string) (*model.Task, error)
	// Delete removes the task together with all its assignments.
	Delete(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (*model.Task, error)
	List(ctx context.Context) ([]model.Task, error)
}
