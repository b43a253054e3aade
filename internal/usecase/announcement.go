package usecase

import (
	"context"
	"strings"

	domainErrors "github.com/rewardly/taskbot/internal/domain/errors"
	"github.com/rewardly/taskbot/internal/domain/model"
	"github.com/rewardly/taskbot/internal/domain/repository"
)

// AnnouncementUseCase manages the announcement log.
type AnnouncementUseCase struct {
	announcements repository.AnnouncementRepository
}

// NewAnnouncementUseCase constructs AnnouncementUseCase.
func NewAnnouncementUseCase(announcements repository.AnnouncementRepository) *AnnouncementUseCase {
	return &AnnouncementUseCase{announcements: announcements}
}

// Publish appends a message to the announcement log.
func (u *AnnouncementUseCase) Publish(ctx context.Context, message string) (*model.Announcement, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, domainErrors.ErrEmptyResponse
	}
	return u.announcements.Create(ctx, message)
}

// Remove deletes an announcement from the log.
func (u *AnnouncementUseCase) Remove(ctx context.Context, id int64) error {
	return u.announcements.Delete(ctx, id)
}

// List returns announcements, newest first.
func (u *AnnouncementUseCase) List(ctx context.Context) ([]model.Announcement, error) {
	return u.announcements.List(ctx)
}
