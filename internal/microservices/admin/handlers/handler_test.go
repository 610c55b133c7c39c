package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"laundry-service/internal/common/logger"
	"laundry-service/internal/domain"
	"laundry-service/internal/microservices/admin/analytics"
	"laundry-service/internal/microservices/admin/service"
)

type stubAnalytics struct {
	timeRange string
	err       error
}

func (s *stubAnalytics) Analytics(_ context.Context, timeRange string) (analytics.Analytics, error) {
	s.timeRange = timeRange
	if s.err != nil {
		return analytics.Analytics{}, s.err
	}
	var a analytics.Analytics
	a.SummaryStats.TotalRevenue = decimal.RequireFromString("42.5")
	a.SummaryStats.OrdersProcessed = 3
	return a, nil
}

func (s *stubAnalytics) Overview(context.Context) (analytics.Overview, error) {
	return analytics.Overview{TotalCustomers: 5, OrdersToday: 3, RevenueToday: decimal.RequireFromString("60")}, nil
}

type stubReports struct {
	saved   []string
	deleted []int64
}

func (s *stubReports) Save(_ context.Context, timeRange, generatedBy string) (domain.Report, error) {
	if timeRange == "" || generatedBy == "" {
		return domain.Report{}, domain.InvalidArgument("timeRange and generatedBy are required")
	}
	s.saved = append(s.saved, timeRange+"/"+generatedBy)
	return domain.Report{ID: 7, TimeRange: timeRange, GeneratedBy: generatedBy}, nil
}

func (s *stubReports) List(context.Context) ([]domain.Report, error) {
	return []domain.Report{{ID: 2}, {ID: 1}}, nil
}

func (s *stubReports) Get(_ context.Context, id int64) (domain.Report, error) {
	if id != 7 {
		return domain.Report{}, domain.NotFound("report", id)
	}
	return domain.Report{ID: 7, TimeRange: "week"}, nil
}

func (s *stubReports) Delete(_ context.Context, id int64) error {
	if id != 7 {
		return domain.NotFound("report", id)
	}
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *stubReports) ListByTimeRange(_ context.Context, timeRange string) ([]domain.Report, error) {
	if timeRange == "" {
		return nil, domain.InvalidArgument("timeRange is required")
	}
	return []domain.Report{{ID: 7, TimeRange: timeRange}}, nil
}

func newTestRouter(an *stubAnalytics, rep *stubReports) http.Handler {
	lg := logger.NewWithWriter("test", io.Discard)
	return Router(New(&service.Service{AnalyticsService: an, ReportService: rep}, lg))
}

func serve(h http.Handler, method, target string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(method, target, nil))
	return rr
}

func TestStatsRoutes(t *testing.T) {
	an := &stubAnalytics{}
	h := newTestRouter(an, &stubReports{})

	rr := serve(h, http.MethodGet, "/admin/stats/overview")
	require.Equal(t, http.StatusOK, rr.Code)
	var ov map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &ov))
	assert.EqualValues(t, 5, ov["totalCustomers"])
	assert.EqualValues(t, 3, ov["ordersToday"])
	assert.Equal(t, "60", ov["revenueToday"])

	rr = serve(h, http.MethodGet, "/admin/stats/analytics?timeRange=quarter")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "quarter", an.timeRange)
	var a map[string]map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &a))
	assert.Equal(t, "42.5", a["summaryStats"]["totalRevenue"])
	assert.EqualValues(t, 3, a["summaryStats"]["ordersProcessed"])
	assert.Contains(t, a, "revenueData")
	assert.Contains(t, a, "customerRetention")

	an.err = errors.New("db down")
	rr = serve(h, http.MethodGet, "/admin/stats/analytics")
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.NotContains(t, rr.Body.String(), "db down")
}

func TestReportRoutes(t *testing.T) {
	rep := &stubReports{}
	h := newTestRouter(&stubAnalytics{}, rep)

	rr := serve(h, http.MethodPost, "/admin/reports/save?timeRange=week&generatedBy=admin")
	require.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, []string{"week/admin"}, rep.saved)
	var saved map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &saved))
	assert.EqualValues(t, 7, saved["reportId"])
	assert.Equal(t, "admin", saved["generatedBy"])

	assert.Equal(t, http.StatusBadRequest, serve(h, http.MethodPost, "/admin/reports/save?timeRange=week").Code)

	rr = serve(h, http.MethodGet, "/admin/reports")
	require.Equal(t, http.StatusOK, rr.Code)
	var list []map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
	assert.Len(t, list, 2)

	assert.Equal(t, http.StatusOK, serve(h, http.MethodGet, "/admin/reports/7").Code)
	assert.Equal(t, http.StatusNotFound, serve(h, http.MethodGet, "/admin/reports/8").Code)
	assert.Equal(t, http.StatusBadRequest, serve(h, http.MethodGet, "/admin/reports/abc").Code)

	rr = serve(h, http.MethodGet, "/admin/reports/by-timerange?timeRange=month")
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "month", list[0]["timeRange"])
	assert.Equal(t, http.StatusBadRequest, serve(h, http.MethodGet, "/admin/reports/by-timerange").Code)

	assert.Equal(t, http.StatusNoContent, serve(h, http.MethodDelete, "/admin/reports/7").Code)
	assert.Equal(t, []int64{7}, rep.deleted)
	assert.Equal(t, http.StatusNotFound, serve(h, http.MethodDelete, "/admin/reports/9").Code)
}
