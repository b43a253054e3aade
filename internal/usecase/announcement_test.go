package usecase

import (
	"context"
	"errors"
	"testing"

	domainErrors "github.com/rewardly/taskbot/internal/domain/errors"
	"github.com/rewardly/taskbot/internal/domain/model"
	testhelpers "github.com/rewardly/taskbot/internal/test"
)

func TestAnnouncementPublish(t *testing.T) {
	announcements := &testhelpers.AnnouncementRepositoryStub{}
	uc := NewAnnouncementUseCase(announcements)

	if _, err := uc.Publish(context.Background(), "   "); !errors.Is(err, domainErrors.ErrEmptyResponse) {
		t.Fatalf("expected empty response error, got %v", err)
	}

	a, err := uc.Publish(context.Background(), " We launched! ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Message != "We launched!" {
		t.Fatalf("expected trimmed message, got %q", a.Message)
	}
	if len(announcements.Published) != 1 {
		t.Fatalf("expected one create call, got %d", len(announcements.Published))
	}
}

func TestAnnouncementRemove(t *testing.T) {
	announcements := &testhelpers.AnnouncementRepositoryStub{DeleteFn: func(_ context.Context, id int64) error {
		if id != 9 {
			return domainErrors.ErrNotFound
		}
		return nil
	}}
	uc := NewAnnouncementUseCase(announcements)

	if err := uc.Remove(context.Background(), 1); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := uc.Remove(context.Background(), 9); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAnnouncementList(t *testing.T) {
	announcements := &testhelpers.AnnouncementRepositoryStub{ListFn: func(context.Context) ([]model.Announcement, error) {
		return []model.Announcement{{ID: 2, Message: "Second"}, {ID: 1, Message: "First"}}, nil
	}}
	uc := NewAnnouncementUseCase(announcements)

	list, err := uc.List(context.Background())
	if err != nil || len(list) != 2 || list[0].ID != 2 {
		t.Fatalf("unexpected list: %v err=%v", list, err)
	}
}
