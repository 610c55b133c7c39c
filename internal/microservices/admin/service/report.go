package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"laundry-service/internal/common/logger"
	"laundry-service/internal/domain"
	"laundry-service/internal/microservices/admin/analytics"
	"laundry-service/internal/microservices/admin/repository"
	dirrepo "laundry-service/internal/microservices/directory/repository"
	orderrepo "laundry-service/internal/microservices/order/repository"
)

const reportListLimit = 100

type ReportServiceInterface interface {
	Save(ctx context.Context, timeRange, generatedBy string) (domain.Report, error)
	List(ctx context.Context) ([]domain.Report, error)
	Get(ctx context.Context, id int64) (domain.Report, error)
	Delete(ctx context.Context, id int64) error
	ListByTimeRange(ctx context.Context, timeRange string) ([]domain.Report, error)
}

type ReportService struct {
	reports   repository.ReportRepositoryInterface
	orders    orderrepo.OrderRepositoryInterface
	directory dirrepo.DirectoryRepositoryInterface
	analytics AnalyticsServiceInterface
	log       *logger.Logger

	Now      func() time.Time
	Location *time.Location
}

func NewReportService(reports repository.ReportRepositoryInterface, orders orderrepo.OrderRepositoryInterface, directory dirrepo.DirectoryRepositoryInterface, an AnalyticsServiceInterface, lg *logger.Logger) *ReportService {
	return &ReportService{
		reports:   reports,
		orders:    orders,
		directory: directory,
		analytics: an,
		log:       lg,
		Now:       time.Now,
		Location:  time.Local,
	}
}

// Save freezes the current figures for timeRange into a new report row.
func (s *ReportService) Save(ctx context.Context, timeRange, generatedBy string) (domain.Report, error) {
	timeRange = strings.TrimSpace(timeRange)
	generatedBy = strings.TrimSpace(generatedBy)
	if timeRange == "" {
		return domain.Report{}, domain.InvalidArgument("timeRange is required")
	}
	if generatedBy == "" {
		return domain.Report{}, domain.InvalidArgument("generatedBy is required")
	}

	a, err := s.analytics.Analytics(ctx, timeRange)
	if err != nil {
		return domain.Report{}, err
	}

	now := s.Now()
	from, to := analytics.ResolveWindow(now, s.Location, analytics.ParseTimeRange(timeRange)).Bounds()
	orders, err := s.orders.ListBetween(ctx, from, to)
	if err != nil {
		return domain.Report{}, fmt.Errorf("load report orders: %w", err)
	}
	var completed int64
	for _, o := range orders {
		if isCompleted(o.Status) {
			completed++
		}
	}

	customers, err := s.directory.CountCustomers(ctx)
	if err != nil {
		return domain.Report{}, fmt.Errorf("count customers: %w", err)
	}

	r := domain.Report{
		CompletedOrderCount: completed,
		TotalCustomers:      customers,
		TotalIncome:         a.SummaryStats.TotalRevenue,
		ReportDate:          now,
		TimeRange:           timeRange,
		GeneratedBy:         generatedBy,
	}
	if err := s.reports.Save(ctx, &r); err != nil {
		return domain.Report{}, err
	}

	s.log.Info("report_saved", map[string]any{
		"report_id":       r.ID,
		"time_range":      r.TimeRange,
		"generated_by":    r.GeneratedBy,
		"completed_count": r.CompletedOrderCount,
		"total_income":    r.TotalIncome.StringFixed(2),
	})
	return r, nil
}

// isCompleted matches status text loosely: any status mentioning
// "complete" or "delivered", case-insensitively, counts.
func isCompleted(st domain.OrderStatus) bool {
	s := cases.Lower(language.Und).String(string(st))
	return strings.Contains(s, "complete") || strings.Contains(s, "delivered")
}

func (s *ReportService) List(ctx context.Context) ([]domain.Report, error) {
	return s.reports.List(ctx, reportListLimit)
}

func (s *ReportService) Get(ctx context.Context, id int64) (domain.Report, error) {
	return s.reports.GetByID(ctx, id)
}

func (s *ReportService) Delete(ctx context.Context, id int64) error {
	if err := s.reports.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("report_deleted", map[string]any{"report_id": id})
	return nil
}

func (s *ReportService) ListByTimeRange(ctx context.Context, timeRange string) ([]domain.Report, error) {
	timeRange = strings.TrimSpace(timeRange)
	if timeRange == "" {
		return nil, domain.InvalidArgument("timeRange is required")
	}
	return s.reports.ListByTimeRange(ctx, timeRange)
}
