package handlers

import (
	"net/http"

	"laundry-service/internal/common/httpx"
	"laundry-service/internal/common/logger"
	"laundry-service/internal/microservices/admin/service"
)

type StatsHandler struct {
	service service.AnalyticsServiceInterface
	log     *logger.Logger
}

func NewStatsHandler(s service.AnalyticsServiceInterface, lg *logger.Logger) *StatsHandler {
	return &StatsHandler{service: s, log: lg}
}

func (sh *StatsHandler) Overview(w http.ResponseWriter, r *http.Request) {
	ov, err := sh.service.Overview(r.Context())
	if err != nil {
		httpx.WriteError(w, r, sh.log, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, ov)
}

// Analytics defaults timeRange to month.
func (sh *StatsHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	a, err := sh.service.Analytics(r.Context(), r.URL.Query().Get("timeRange"))
	if err != nil {
		httpx.WriteError(w, r, sh.log, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, a)
}
