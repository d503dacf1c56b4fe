package usecase

import (
	"context"
	"time"

	"talenthub-backend/internal/authz"
	"talenthub-backend/internal/domain"
	"talenthub-backend/internal/notify"
	"talenthub-backend/pkg/apperror"
)

const defaultNotificationLimit = 20

type notificationUsecase struct {
	repo      domain.NotificationRepository
	templates notify.Templates
	now       func() time.Time
}

func NewNotificationUsecase(repo domain.NotificationRepository, templates notify.Templates, now func() time.Time) domain.NotificationUsecase {
	if now == nil {
		now = time.Now
	}
	return &notificationUsecase{repo: repo, templates: templates, now: now}
}

// List returns the caller's unexpired notifications plus their total
// unread count across every category.
func (u *notificationUsecase) List(ctx context.Context, s *domain.Session, filter domain.NotificationFilter) (*domain.NotificationList, error) {
	if err := authz.RequireSession(s); err != nil {
		return nil, err
	}
	if filter.Category != "" && !filter.Category.Valid() {
		return nil, apperror.BadRequest("Invalid notification category")
	}

	filter.UserID = s.UserID
	if filter.Limit <= 0 {
		filter.Limit = defaultNotificationLimit
	}
	if filter.Limit > maxPageSize {
		filter.Limit = maxPageSize
	}
	if filter.Skip < 0 {
		filter.Skip = 0
	}

	now := u.now().UTC()
	items, err := u.repo.List(ctx, filter, now)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if items == nil {
		items = []domain.Notification{}
	}
	unread, err := u.repo.CountUnread(ctx, s.UserID, "", now)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return &domain.NotificationList{Notifications: items, UnreadCount: unread}, nil
}

func (u *notificationUsecase) MarkAsRead(ctx context.Context, s *domain.Session, id string) (*domain.Notification, error) {
	if err := authz.RequireSession(s); err != nil {
		return nil, err
	}
	n, err := u.repo.MarkRead(ctx, id, s.UserID)
	if err != nil {
		return nil, repoError(err, "Notification not found")
	}
	return n, nil
}

func (u *notificationUsecase) MarkAllAsRead(ctx context.Context, s *domain.Session, category domain.NotificationCategory) (int64, error) {
	if err := authz.RequireSession(s); err != nil {
		return 0, err
	}
	if category != "" && !category.Valid() {
		return 0, apperror.BadRequest("Invalid notification category")
	}
	n, err := u.repo.MarkAllRead(ctx, s.UserID, category)
	if err != nil {
		return 0, apperror.Internal(err)
	}
	return n, nil
}

// Delete removes one of the caller's notifications. Another user's id is
// reported as not found.
func (u *notificationUsecase) Delete(ctx context.Context, s *domain.Session, id string) error {
	if err := authz.RequireSession(s); err != nil {
		return err
	}
	if err := u.repo.Delete(ctx, id, s.UserID); err != nil {
		return repoError(err, "Notification not found or unauthorized")
	}
	return nil
}

// SendWelcome stores the welcome notice synchronously so it can be returned.
func (u *notificationUsecase) SendWelcome(ctx context.Context, s *domain.Session) (*domain.Notification, error) {
	if err := authz.RequireSession(s); err != nil {
		return nil, err
	}
	name := s.Name
	if name == "" {
		name = "there"
	}
	n := u.templates.Welcome(s.UserID, name)
	if err := u.repo.Create(ctx, n); err != nil {
		return nil, apperror.Internal(err)
	}
	return n, nil
}
