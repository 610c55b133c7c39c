package service

import (
	"laundry-service/internal/common/logger"
	"laundry-service/internal/microservices/admin/repository"
	dirrepo "laundry-service/internal/microservices/directory/repository"
	orderrepo "laundry-service/internal/microservices/order/repository"
)

type Service struct {
	AnalyticsService AnalyticsServiceInterface
	ReportService    ReportServiceInterface
}

func New(repo *repository.Repository, orders orderrepo.OrderRepositoryInterface, directory dirrepo.DirectoryRepositoryInterface, lg *logger.Logger) *Service {
	an := NewAnalyticsService(orders, repo.ReviewRepo, directory, lg)
	return &Service{
		AnalyticsService: an,
		ReportService:    NewReportService(repo.ReportRepo, orders, directory, an, lg),
	}
}
