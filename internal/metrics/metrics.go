package metrics

import (
	"net/http"

	"GoldDashboard/internal/model"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the dashboard and report generator.
type Metrics struct {
	registry *prometheus.Registry

	RefreshesTotal    prometheus.Counter
	RefreshDur        prometheus.Histogram
	LoadFailuresTotal *prometheus.CounterVec // labels: status
	RecordsLoaded     prometheus.Gauge
	LastPrice         prometheus.Gauge

	ReportsTotal   *prometheus.CounterVec // labels: status
	ReportReads    prometheus.Counter
	NotifyFailures prometheus.Counter

	WSClients  prometheus.Gauge
	WSMessages *prometheus.CounterVec // labels: type
}

// NewMetrics creates all collectors on a private registry together with
// the Go runtime and process collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,

		RefreshesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dashboard_refreshes_total",
			Help: "Total dashboard snapshots computed",
		}),
		RefreshDur: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "dashboard_refresh_duration_seconds",
			Help:    "Load plus indicator computation latency per snapshot",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}),
		LoadFailuresTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dashboard_load_failures_total",
			Help: "Price file loads that fell back to an empty series (by reason)",
		}, []string{"status"}),
		RecordsLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "dashboard_records_loaded",
			Help: "Records in the most recently loaded price series",
		}),
		LastPrice: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "dashboard_last_price",
			Help: "Last price of the most recently loaded series",
		}),
		ReportsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dashboard_reports_generated_total",
			Help: "Daily report generation cycles (by status)",
		}, []string{"status"}),
		ReportReads: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dashboard_report_reads_total",
			Help: "Reads of the persisted report artifact",
		}),
		NotifyFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dashboard_notify_failures_total",
			Help: "Report publications that exhausted their retries",
		}),
		WSClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "dashboard_ws_clients",
			Help: "Connected WebSocket clients",
		}),
		WSMessages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dashboard_ws_messages_total",
			Help: "Messages broadcast to WebSocket clients (by type)",
		}, []string{"type"}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.RefreshesTotal,
		m.RefreshDur,
		m.LoadFailuresTotal,
		m.RecordsLoaded,
		m.LastPrice,
		m.ReportsTotal,
		m.ReportReads,
		m.NotifyFailures,
		m.WSClients,
		m.WSMessages,
	)
	return m
}

// ObserveSnapshot records one dashboard refresh.
func (m *Metrics) ObserveSnapshot(snap *model.Snapshot, seconds float64) {
	m.RefreshesTotal.Inc()
	m.RefreshDur.Observe(seconds)
	m.RecordsLoaded.Set(float64(len(snap.Rows)))
	if snap.Status != model.LoadStatusOK {
		m.LoadFailuresTotal.WithLabelValues(string(snap.Status)).Inc()
	}
	if snap.KPIs.Last.IsSome() {
		m.LastPrice.Set(snap.KPIs.Last.Unwrap())
	}
}

// ObserveReport records one report generation cycle.
func (m *Metrics) ObserveReport(status model.ReportStatus) {
	m.ReportsTotal.WithLabelValues(string(status)).Inc()
}

// Registry exposes the underlying registry for tests and custom exporters.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
