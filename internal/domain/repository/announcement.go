package repository

import (
	"context"

	"github.com/rewardly/taskbot/internal/domain/model"
)

// AnnouncementRepository provides access to the broadcast log.
type AnnouncementRepository interface {
	Create(ctx context.Context, message string) (*model.Announcement, error)
	Delete(ctx context.Context, id int64) error
	// List returns announcements ordered newest first.
	List(ctx context.Context) ([]model.Announcement, error)
}
