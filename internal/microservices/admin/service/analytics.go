package service

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"laundry-service/internal/common/logger"
	"laundry-service/internal/domain"
	"laundry-service/internal/microservices/admin/analytics"
	"laundry-service/internal/microservices/admin/repository"
	dirrepo "laundry-service/internal/microservices/directory/repository"
	orderrepo "laundry-service/internal/microservices/order/repository"
)

type AnalyticsServiceInterface interface {
	Analytics(ctx context.Context, timeRange string) (analytics.Analytics, error)
	Overview(ctx context.Context) (analytics.Overview, error)
}

// AnalyticsService only reads. Nothing it does takes a lock.
type AnalyticsService struct {
	orders    orderrepo.OrderRepositoryInterface
	reviews   repository.ReviewRepositoryInterface
	directory dirrepo.DirectoryRepositoryInterface
	log       *logger.Logger

	Now      func() time.Time
	Location *time.Location
}

func NewAnalyticsService(orders orderrepo.OrderRepositoryInterface, reviews repository.ReviewRepositoryInterface, directory dirrepo.DirectoryRepositoryInterface, lg *logger.Logger) *AnalyticsService {
	return &AnalyticsService{
		orders:    orders,
		reviews:   reviews,
		directory: directory,
		log:       lg,
		Now:       time.Now,
		Location:  time.Local,
	}
}

func (s *AnalyticsService) Analytics(ctx context.Context, timeRange string) (analytics.Analytics, error) {
	started := time.Now()
	var (
		orders  []domain.Order
		reviews []domain.Review
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		orders, err = s.orders.List(gctx, orderrepo.ListFilter{})
		return err
	})
	g.Go(func() error {
		var err error
		reviews, err = s.reviews.ListAll(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return analytics.Analytics{}, fmt.Errorf("load analytics history: %w", err)
	}

	r := analytics.ParseTimeRange(timeRange)
	out := analytics.Compute(analytics.Input{
		Now:       s.Now(),
		Location:  s.Location,
		TimeRange: r,
		Orders:    orders,
		Reviews:   reviews,
	})

	s.log.Debug("analytics_computed", map[string]any{
		"time_range":  string(r),
		"orders":      len(orders),
		"reviews":     len(reviews),
		"duration_ms": time.Since(started).Milliseconds(),
	})
	return out, nil
}

func (s *AnalyticsService) Overview(ctx context.Context) (analytics.Overview, error) {
	now := s.Now()
	todayFrom, todayTo := analytics.Today(now, s.Location).Bounds()
	trendFrom, trendTo := analytics.TrendWindow(now, s.Location).Bounds()

	var (
		ov     analytics.Overview
		recent []domain.Order
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		ov.TotalCustomers, err = s.directory.CountCustomers(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		ov.TotalStaff, err = s.directory.CountStaff(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		ov.OrdersToday, err = s.orders.CountBetween(gctx, todayFrom, todayTo)
		return err
	})
	g.Go(func() error {
		var err error
		ov.RevenueToday, err = s.orders.SumTotalBetween(gctx, todayFrom, todayTo)
		return err
	})
	g.Go(func() error {
		var err error
		recent, err = s.orders.ListBetween(gctx, trendFrom, trendTo)
		return err
	})
	if err := g.Wait(); err != nil {
		return analytics.Overview{}, fmt.Errorf("load overview: %w", err)
	}

	ov.FillTrend(now, s.Location, recent)
	return ov, nil
}
