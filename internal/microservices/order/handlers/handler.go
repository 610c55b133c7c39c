package handlers

import (
	"net/http"

	"laundry-service/internal/common/logger"
	"laundry-service/internal/microservices/order/service"
)

type Handler struct {
	OrderHandler        *OrderHandler
	NotificationHandler NotificationRoutes
}

// NotificationRoutes is mounted next to the order routes; the order service
// process serves the inbox API too.
type NotificationRoutes interface {
	Register(mux *http.ServeMux)
}

func New(s *service.Service, notifications NotificationRoutes, lg *logger.Logger) *Handler {
	return &Handler{
		OrderHandler:        NewOrderHandler(s.OrderService, lg),
		NotificationHandler: notifications,
	}
}

func Router(h *Handler) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /orders", h.OrderHandler.PlaceOrder)
	mux.HandleFunc("GET /orders", h.OrderHandler.ListOrders)
	mux.HandleFunc("GET /orders/{orderId}", h.OrderHandler.GetOrder)
	mux.HandleFunc("GET /orders/{orderId}/timeline", h.OrderHandler.GetTimeline)
	mux.HandleFunc("PUT /orders/{orderId}/claim", h.OrderHandler.Claim)
	mux.HandleFunc("PUT /orders/{orderId}/status", h.OrderHandler.UpdateStatus)
	mux.HandleFunc("PUT /orders/{orderId}/delivered", h.OrderHandler.MarkDelivered)
	if h.NotificationHandler != nil {
		h.NotificationHandler.Register(mux)
	}
	return mux
}
