package service

import (
	"context"
	"time"

	"laundry-service/internal/common/logger"
	"laundry-service/internal/domain"
	"laundry-service/internal/microservices/notification/repository"
)

type NotificationServiceInterface interface {
	List(ctx context.Context, kind domain.RecipientKind, recipientID int64) ([]domain.Notification, error)
	ListUnread(ctx context.Context, kind domain.RecipientKind, recipientID int64) ([]domain.Notification, error)
	CountUnread(ctx context.Context, kind domain.RecipientKind, recipientID int64) (int64, error)
	MarkRead(ctx context.Context, id int64) (domain.Notification, error)
	Delete(ctx context.Context, id int64) error
}

type NotificationService struct {
	repo repository.NotificationRepositoryInterface
	log  *logger.Logger

	Now func() time.Time
}

func NewNotificationService(repo repository.NotificationRepositoryInterface, lg *logger.Logger) *NotificationService {
	return &NotificationService{repo: repo, log: lg, Now: time.Now}
}

func (s *NotificationService) List(ctx context.Context, kind domain.RecipientKind, recipientID int64) ([]domain.Notification, error) {
	return s.repo.ListByRecipient(ctx, kind, recipientID)
}

func (s *NotificationService) ListUnread(ctx context.Context, kind domain.RecipientKind, recipientID int64) ([]domain.Notification, error) {
	return s.repo.ListUnread(ctx, kind, recipientID)
}

func (s *NotificationService) CountUnread(ctx context.Context, kind domain.RecipientKind, recipientID int64) (int64, error) {
	return s.repo.CountUnread(ctx, kind, recipientID)
}

func (s *NotificationService) MarkRead(ctx context.Context, id int64) (domain.Notification, error) {
	n, err := s.repo.MarkRead(ctx, id, s.Now())
	if err != nil {
		return domain.Notification{}, err
	}
	s.log.Debug("notification_read", map[string]any{"notification_id": id, "recipient_kind": n.RecipientKind})
	return n, nil
}

func (s *NotificationService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("notification_deleted", map[string]any{"notification_id": id})
	return nil
}
