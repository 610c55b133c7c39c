package service

import "laundry-service/internal/common/logger"

type Service struct {
	NotificatorService NotificatorServiceInterface
}

func New(sub Subscriber, lg *logger.Logger, prefetch int) *Service {
	return &Service{NotificatorService: NewNotificatorService(sub, lg, prefetch)}
}
