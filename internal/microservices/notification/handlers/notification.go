package handlers

import (
	"net/http"

	"laundry-service/internal/common/httpx"
	"laundry-service/internal/common/logger"
	"laundry-service/internal/domain"
	"laundry-service/internal/microservices/notification/service"
)

type NotificationHandler struct {
	service service.NotificationServiceInterface
	log     *logger.Logger
}

func NewNotificationHandler(s service.NotificationServiceInterface, lg *logger.Logger) *NotificationHandler {
	return &NotificationHandler{service: s, log: lg}
}

func (h *NotificationHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /notifications/{kind}/{recipientId}", h.List)
	mux.HandleFunc("GET /notifications/{kind}/{recipientId}/unread", h.ListUnread)
	mux.HandleFunc("GET /notifications/{kind}/{recipientId}/count", h.CountUnread)
	mux.HandleFunc("PUT /notifications/{id}/read", h.MarkRead)
	mux.HandleFunc("DELETE /notifications/{id}", h.Delete)
}

func (h *NotificationHandler) recipient(r *http.Request) (domain.RecipientKind, int64, error) {
	kind, err := domain.ParseRecipientKind(r.PathValue("kind"))
	if err != nil {
		return "", 0, err
	}
	id, err := httpx.PathID(r, "recipientId")
	if err != nil {
		return "", 0, err
	}
	return kind, id, nil
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	kind, id, err := h.recipient(r)
	if err != nil {
		httpx.WriteError(w, r, h.log, err)
		return
	}
	list, err := h.service.List(r.Context(), kind, id)
	if err != nil {
		httpx.WriteError(w, r, h.log, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, list)
}

func (h *NotificationHandler) ListUnread(w http.ResponseWriter, r *http.Request) {
	kind, id, err := h.recipient(r)
	if err != nil {
		httpx.WriteError(w, r, h.log, err)
		return
	}
	list, err := h.service.ListUnread(r.Context(), kind, id)
	if err != nil {
		httpx.WriteError(w, r, h.log, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, list)
}

func (h *NotificationHandler) CountUnread(w http.ResponseWriter, r *http.Request) {
	kind, id, err := h.recipient(r)
	if err != nil {
		httpx.WriteError(w, r, h.log, err)
		return
	}
	n, err := h.service.CountUnread(r.Context(), kind, id)
	if err != nil {
		httpx.WriteError(w, r, h.log, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]int64{"count": n})
}

func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.WriteError(w, r, h.log, err)
		return
	}
	n, err := h.service.MarkRead(r.Context(), id)
	if err != nil {
		httpx.WriteError(w, r, h.log, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, n)
}

func (h *NotificationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.WriteError(w, r, h.log, err)
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		httpx.WriteError(w, r, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
