package handlers

import (
	"net/http"

	"laundry-service/internal/common/httpx"
	"laundry-service/internal/common/logger"
	"laundry-service/internal/microservices/admin/service"
)

type ReportHandler struct {
	service service.ReportServiceInterface
	log     *logger.Logger
}

func NewReportHandler(s service.ReportServiceInterface, lg *logger.Logger) *ReportHandler {
	return &ReportHandler{service: s, log: lg}
}

func (rh *ReportHandler) SaveReport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	rep, err := rh.service.Save(r.Context(), q.Get("timeRange"), q.Get("generatedBy"))
	if err != nil {
		httpx.WriteError(w, r, rh.log, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, rep)
}

func (rh *ReportHandler) ListReports(w http.ResponseWriter, r *http.Request) {
	list, err := rh.service.List(r.Context())
	if err != nil {
		httpx.WriteError(w, r, rh.log, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, list)
}

func (rh *ReportHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.WriteError(w, r, rh.log, err)
		return
	}
	rep, err := rh.service.Get(r.Context(), id)
	if err != nil {
		httpx.WriteError(w, r, rh.log, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, rep)
}

func (rh *ReportHandler) DeleteReport(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.WriteError(w, r, rh.log, err)
		return
	}
	if err := rh.service.Delete(r.Context(), id); err != nil {
		httpx.WriteError(w, r, rh.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (rh *ReportHandler) ListByTimeRange(w http.ResponseWriter, r *http.Request) {
	list, err := rh.service.ListByTimeRange(r.Context(), r.URL.Query().Get("timeRange"))
	if err != nil {
		httpx.WriteError(w, r, rh.log, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, list)
}
