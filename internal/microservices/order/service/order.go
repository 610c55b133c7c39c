package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"laundry-service/internal/common/logger"
	"laundry-service/internal/domain"
	dto "laundry-service/internal/microservices/order/domain/dto"
	"laundry-service/internal/microservices/order/repository"
)

const publishTimeout = 5 * time.Second

// StaffDirectory is looked up on every placement so new staff receive
// broadcasts without a restart.
type StaffDirectory interface {
	ListStaffIDs(ctx context.Context) ([]int64, error)
}

type OrderServiceInterface interface {
	Place(ctx context.Context, req dto.PlaceOrderRequest) (domain.Order, error)
	Claim(ctx context.Context, orderID, staffID int64) (dto.OrderView, error)
	UpdateStatus(ctx context.Context, orderID int64, status string) (dto.OrderView, error)
	MarkDelivered(ctx context.Context, orderID int64) (dto.OrderView, error)

	Get(ctx context.Context, orderID int64) (dto.OrderView, error)
	List(ctx context.Context, f repository.ListFilter) ([]dto.OrderView, error)
	Timeline(ctx context.Context, orderID int64) ([]domain.StatusLogEntry, error)
}

type OrderService struct {
	repo   repository.OrderRepositoryInterface
	staff  StaffDirectory
	events EventPublisher
	log    *logger.Logger

	Now func() time.Time
}

func NewOrderService(repo repository.OrderRepositoryInterface, staff StaffDirectory, events EventPublisher, lg *logger.Logger) *OrderService {
	if events == nil {
		events = NopPublisher{}
	}
	return &OrderService{repo: repo, staff: staff, events: events, log: lg, Now: time.Now}
}

func (s *OrderService) Place(ctx context.Context, req dto.PlaceOrderRequest) (domain.Order, error) {
	if err := req.Validate(); err != nil {
		return domain.Order{}, err
	}
	now := s.Now()
	o := req.ToOrder(now)

	staffIDs, err := s.staff.ListStaffIDs(ctx)
	if err != nil {
		return domain.Order{}, fmt.Errorf("load staff directory: %w", err)
	}

	notes, err := s.repo.PlaceTx(ctx, &o, "customer:"+strconv.FormatInt(o.CustomerID, 10), func(orderID int64) []domain.Notification {
		out := make([]domain.Notification, 0, len(staffIDs))
		for _, id := range staffIDs {
			out = append(out, domain.NewOrderNotification(orderID, id, o.CustomerName, now))
		}
		return out
	})
	if err != nil {
		return domain.Order{}, fmt.Errorf("place order: %w", err)
	}

	s.log.Info("order_placed", map[string]any{
		"order_id":      o.ID,
		"customer_id":   o.CustomerID,
		"total":         o.Total.StringFixed(2),
		"notifications": len(notes),
	})
	s.publish(ctx, domain.OrderEvent{
		Type:       domain.EventOrderPlaced,
		OrderID:    o.ID,
		CustomerID: o.CustomerID,
		NewStatus:  o.Status,
		ChangedBy:  "customer",
		OccurredAt: now,
	})
	return o, nil
}

func (s *OrderService) Claim(ctx context.Context, orderID, staffID int64) (dto.OrderView, error) {
	if staffID <= 0 {
		return dto.OrderView{}, domain.InvalidArgument("staffId must be a positive integer")
	}
	return s.transition(ctx, orderID, staffID, "staff:"+strconv.FormatInt(staffID, 10), domain.ClaimTransition)
}

func (s *OrderService) UpdateStatus(ctx context.Context, orderID int64, status string) (dto.OrderView, error) {
	target, err := domain.ParseOrderStatus(status)
	if err != nil {
		return dto.OrderView{}, err
	}
	return s.transition(ctx, orderID, 0, "order-service", func(domain.OrderStatus) domain.Transition {
		return domain.SetStatusTransition(target)
	})
}

func (s *OrderService) MarkDelivered(ctx context.Context, orderID int64) (dto.OrderView, error) {
	return s.UpdateStatus(ctx, orderID, string(domain.StatusDelivered))
}

// transition runs decide against the locked row and writes exactly one
// ORDER_STATUS notification for the resulting status.
func (s *OrderService) transition(ctx context.Context, orderID, staffID int64, changedBy string, decide func(domain.OrderStatus) domain.Transition) (dto.OrderView, error) {
	now := s.Now()
	res, err := s.repo.TransitionTx(ctx, orderID, changedBy, now, func(o *domain.Order) ([]domain.Notification, error) {
		o.Apply(decide(o.Status), staffID)
		return []domain.Notification{domain.OrderStatusNotification(o.ID, o.CustomerID, o.Status, now)}, nil
	})
	if err != nil {
		return dto.OrderView{}, fmt.Errorf("order %d transition: %w", orderID, err)
	}

	s.log.Info("order_status_changed", map[string]any{
		"order_id":   res.Order.ID,
		"old_status": res.OldStatus,
		"new_status": res.Order.Status,
		"staff_id":   res.Order.StaffID,
		"changed_by": changedBy,
	})
	s.publish(ctx, domain.OrderEvent{
		Type:       domain.EventOrderStatusChanged,
		OrderID:    res.Order.ID,
		CustomerID: res.Order.CustomerID,
		StaffID:    res.Order.StaffID,
		OldStatus:  res.OldStatus,
		NewStatus:  res.Order.Status,
		ChangedBy:  changedBy,
		OccurredAt: now,
	})
	return dto.NewOrderView(res.Order), nil
}

// publish is fire-and-forget: the committed notification rows are the
// record, the broker event is a courtesy copy.
func (s *OrderService) publish(ctx context.Context, ev domain.OrderEvent) {
	ev.EventID = uuid.NewString()
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := s.events.PublishOrderEvent(pctx, ev); err != nil {
		s.log.Error("event_publish_failed", err, map[string]any{
			"event_id": ev.EventID,
			"type":     ev.Type,
			"order_id": ev.OrderID,
		})
	}
}

func (s *OrderService) Get(ctx context.Context, orderID int64) (dto.OrderView, error) {
	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return dto.OrderView{}, err
	}
	return dto.NewOrderView(o), nil
}

func (s *OrderService) List(ctx context.Context, f repository.ListFilter) ([]dto.OrderView, error) {
	orders, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	return dto.NewOrderViews(orders), nil
}

func (s *OrderService) Timeline(ctx context.Context, orderID int64) ([]domain.StatusLogEntry, error) {
	if _, err := s.repo.GetByID(ctx, orderID); err != nil {
		return nil, err
	}
	return s.repo.Timeline(ctx, orderID)
}
