package handlers

import (
	"net/http"

	"laundry-service/internal/common/logger"
	"laundry-service/internal/microservices/admin/service"
)

type Handler struct {
	StatsHandler  *StatsHandler
	ReportHandler *ReportHandler
}

func New(s *service.Service, lg *logger.Logger) *Handler {
	return &Handler{
		StatsHandler:  NewStatsHandler(s.AnalyticsService, lg),
		ReportHandler: NewReportHandler(s.ReportService, lg),
	}
}

func Router(h *Handler) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /admin/stats/overview", h.StatsHandler.Overview)
	mux.HandleFunc("GET /admin/stats/analytics", h.StatsHandler.Analytics)

	mux.HandleFunc("POST /admin/reports/save", h.ReportHandler.SaveReport)
	mux.HandleFunc("GET /admin/reports", h.ReportHandler.ListReports)
	mux.HandleFunc("GET /admin/reports/by-timerange", h.ReportHandler.ListByTimeRange)
	mux.HandleFunc("GET /admin/reports/{id}", h.ReportHandler.GetReport)
	mux.HandleFunc("DELETE /admin/reports/{id}", h.ReportHandler.DeleteReport)
	return mux
}
