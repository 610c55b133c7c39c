package service

import (
	"laundry-service/internal/common/logger"
	"laundry-service/internal/microservices/order/repository"
)

type Service struct {
	OrderService OrderServiceInterface
}

func New(repo *repository.Repository, staff StaffDirectory, events EventPublisher, lg *logger.Logger) *Service {
	return &Service{
		OrderService: NewOrderService(repo.OrderRepo, staff, events, lg),
	}
}
