package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"laundry-service/internal/common/httpx"
	"laundry-service/internal/common/logger"
	"laundry-service/internal/domain"
	dto "laundry-service/internal/microservices/order/domain/dto"
	"laundry-service/internal/microservices/order/repository"
	"laundry-service/internal/microservices/order/service"
)

type OrderHandler struct {
	service service.OrderServiceInterface
	log     *logger.Logger
}

func NewOrderHandler(s service.OrderServiceInterface, lg *logger.Logger) *OrderHandler {
	return &OrderHandler{service: s, log: lg}
}

func (oh *OrderHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req dto.PlaceOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteProblem(w, http.StatusBadRequest, "invalid_json", "invalid JSON body: "+err.Error())
		return
	}
	o, err := oh.service.Place(r.Context(), req)
	if err != nil {
		httpx.WriteError(w, r, oh.log, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, o)
}

func (oh *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var f repository.ListFilter
	var err error
	if f.CustomerID, err = optionalID(q.Get("customerId"), "customerId"); err != nil {
		httpx.WriteError(w, r, oh.log, err)
		return
	}
	if f.StaffID, err = optionalID(q.Get("staffId"), "staffId"); err != nil {
		httpx.WriteError(w, r, oh.log, err)
		return
	}
	if s := q.Get("status"); s != "" {
		if f.Status, err = domain.ParseOrderStatus(s); err != nil {
			httpx.WriteError(w, r, oh.log, err)
			return
		}
	}

	views, err := oh.service.List(r.Context(), f)
	if err != nil {
		httpx.WriteError(w, r, oh.log, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, views)
}

func (oh *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "orderId")
	if err != nil {
		httpx.WriteError(w, r, oh.log, err)
		return
	}
	v, err := oh.service.Get(r.Context(), id)
	if err != nil {
		httpx.WriteError(w, r, oh.log, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, v)
}

func (oh *OrderHandler) GetTimeline(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "orderId")
	if err != nil {
		httpx.WriteError(w, r, oh.log, err)
		return
	}
	events, err := oh.service.Timeline(r.Context(), id)
	if err != nil {
		httpx.WriteError(w, r, oh.log, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"order_id": id, "events": events})
}

func (oh *OrderHandler) Claim(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "orderId")
	if err != nil {
		httpx.WriteError(w, r, oh.log, err)
		return
	}
	staffID, err := httpx.QueryID(r, "staffId")
	if err != nil {
		httpx.WriteError(w, r, oh.log, err)
		return
	}
	v, err := oh.service.Claim(r.Context(), id, staffID)
	if err != nil {
		httpx.WriteError(w, r, oh.log, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, v)
}

func (oh *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "orderId")
	if err != nil {
		httpx.WriteError(w, r, oh.log, err)
		return
	}
	v, err := oh.service.UpdateStatus(r.Context(), id, r.URL.Query().Get("status"))
	if err != nil {
		httpx.WriteError(w, r, oh.log, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, v)
}

func (oh *OrderHandler) MarkDelivered(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "orderId")
	if err != nil {
		httpx.WriteError(w, r, oh.log, err)
		return
	}
	v, err := oh.service.MarkDelivered(r.Context(), id)
	if err != nil {
		httpx.WriteError(w, r, oh.log, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, v)
}

func optionalID(raw, key string) (int64, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n <= 0 {
		return 0, domain.InvalidArgument("%s must be a positive integer, got %q", key, raw)
	}
	return n, nil
}
