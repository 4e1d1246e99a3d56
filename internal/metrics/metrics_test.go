package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"GoldDashboard/internal/model"

	"github.com/moznion/go-optional"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveSnapshot(t *testing.T) {
	m := NewMetrics()

	ok := &model.Snapshot{
		Status: model.LoadStatusOK,
		Rows:   make([]model.IndicatorRow, 3),
		KPIs:   model.KPISnapshot{Status: model.KPIStatusOK, Last: optional.Some(2051.5)},
	}
	m.ObserveSnapshot(ok, 0.002)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RefreshesTotal))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.RecordsLoaded))
	assert.Equal(t, 2051.5, testutil.ToFloat64(m.LastPrice))

	missing := &model.Snapshot{Status: model.LoadStatusMissingSource, Rows: []model.IndicatorRow{}}
	m.ObserveSnapshot(missing, 0.001)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.LoadFailuresTotal.WithLabelValues("MISSING_SOURCE")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.RecordsLoaded))
	assert.Equal(t, 2051.5, testutil.ToFloat64(m.LastPrice))
}

func TestObserveReport(t *testing.T) {
	m := NewMetrics()
	m.ObserveReport(model.ReportStatusOK)
	m.ObserveReport(model.ReportStatusNoData)
	m.ObserveReport(model.ReportStatusOK)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.ReportsTotal.WithLabelValues("OK")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ReportsTotal.WithLabelValues("NO_DATA")))
}

func TestHandler(t *testing.T) {
	m := NewMetrics()
	m.RefreshesTotal.Inc()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "dashboard_refreshes_total 1")
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
