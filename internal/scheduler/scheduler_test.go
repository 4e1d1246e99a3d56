package scheduler

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"GoldDashboard/internal/collector"
	"GoldDashboard/internal/loader"
	"GoldDashboard/internal/metrics"
	"GoldDashboard/internal/model"
	"GoldDashboard/internal/notifier"
	"GoldDashboard/internal/recorder"
	"GoldDashboard/internal/report"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePublisher struct {
	sent []string
	err  error
}

func (f *fakePublisher) SendWithRetry(_ context.Context, text string, _ int) error {
	f.sent = append(f.sent, text)
	return f.err
}

type memRecorder struct {
	recorder.NoopRecorder
	reports []*model.DailyReport
}

func (m *memRecorder) RecordReport(rep *model.DailyReport) error {
	m.reports = append(m.reports, rep)
	return nil
}

func newTestScheduler(t *testing.T, series model.PriceSeries) (*Scheduler, *memRecorder, *report.FileStore) {
	t.Helper()
	src := &loader.StaticSource{Series: series}
	store := report.NewFileStore(filepath.Join(t.TempDir(), "report.txt"))
	rec := &memRecorder{}
	s := NewScheduler(context.Background(),
		report.NewGenerator(src, store, nil),
		collector.NewCollector(src, 3, nil),
		rec, metrics.NewMetrics(), nil)
	return s, rec, store
}

func sampleSeries() model.PriceSeries {
	return model.PriceSeries{
		{Time: time.Date(2024, 1, 5, 9, 0, 0, 0, time.UTC), Price: 10},
		{Time: time.Date(2024, 1, 5, 10, 0, 0, 0, time.UTC), Price: 12.5},
	}
}

func TestRunReportNow(t *testing.T) {
	s, rec, store := newTestScheduler(t, sampleSeries())
	pub := &fakePublisher{}
	s.Publisher = pub

	rep, err := s.RunReportNow(time.Time{})
	require.NoError(t, err)
	assert.Equal(t, model.ReportStatusOK, rep.Status)

	text := report.ReadDailyReport(context.Background(), store)
	assert.True(t, strings.HasPrefix(text, "Report of 2024-01-05 :"))
	require.Len(t, rec.reports, 1)
	require.Len(t, pub.sent, 1)
	assert.Contains(t, pub.sent[0], "Report of 2024-01-05 :")
	assert.Equal(t, 1.0, testutil.ToFloat64(s.Metrics.ReportsTotal.WithLabelValues("OK")))
}

func TestRunReportNow_ExplicitDay(t *testing.T) {
	s, _, store := newTestScheduler(t, sampleSeries())
	rep, err := s.RunReportNow(time.Date(2024, 1, 6, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, model.ReportStatusNoData, rep.Status)
	assert.Equal(t, "No data available for 2024-01-06", report.ReadDailyReport(context.Background(), store))
}

func TestRunReportNow_PublishFailureIsNotFatal(t *testing.T) {
	s, _, _ := newTestScheduler(t, sampleSeries())
	s.Publisher = &fakePublisher{err: errors.New("telegram down")}

	_, err := s.RunReportNow(time.Time{})
	require.NoError(t, err)
	assert.Equal(t, 1.0, testutil.ToFloat64(s.Metrics.NotifyFailures))
}

func TestRegister(t *testing.T) {
	s, _, _ := newTestScheduler(t, sampleSeries())
	require.NoError(t, s.RegisterReport("0 */10 * * * *"))
	require.NoError(t, s.RegisterRefresh("0 */5 * * * *", func() {}))
	assert.Len(t, s.Cron.Entries(), 2)

	assert.Error(t, s.RegisterReport("not a cron"))
	assert.Error(t, s.RegisterRefresh("* * *", func() {}))
}

func TestScheduledRefreshFires(t *testing.T) {
	s, _, _ := newTestScheduler(t, sampleSeries())
	fired := make(chan struct{}, 1)
	require.NoError(t, s.RegisterRefresh("@every 1s", func() {
		select {
		case fired <- struct{}{}:
		default:
		}
	}))
	s.Start()
	defer s.Stop()

	select {
	case <-fired:
	case <-time.After(3 * time.Second):
		t.Fatal("refresh task did not fire")
	}
}

func TestHandleCommand(t *testing.T) {
	s, _, _ := newTestScheduler(t, sampleSeries())
	ctx := context.Background()

	assert.Contains(t, s.HandleCommand(ctx, "/report"), "Report unavailable.")

	_, err := s.RunReportNow(time.Time{})
	require.NoError(t, err)
	assert.Contains(t, s.HandleCommand(ctx, "/report"), "Report of 2024-01-05 :")

	price := s.HandleCommand(ctx, "/price")
	assert.Contains(t, price, "Last Price: 12.50")
	assert.Contains(t, price, "+2.50")

	assert.Contains(t, s.HandleCommand(ctx, "hello"), "/report")
}

func TestRefreshOnlyScheduler(t *testing.T) {
	s := NewScheduler(context.Background(), nil, nil, nil, nil, nil)
	assert.Error(t, s.RegisterReport("0 */10 * * * *"))
	assert.Equal(t, notifier.HelpText, s.HandleCommand(context.Background(), "/report"))
	assert.Equal(t, notifier.HelpText, s.HandleCommand(context.Background(), "/price"))
}

func TestRunReportNow_WithoutMetrics(t *testing.T) {
	src := &loader.StaticSource{Series: sampleSeries()}
	store := report.NewFileStore(filepath.Join(t.TempDir(), "report.txt"))
	s := NewScheduler(context.Background(), report.NewGenerator(src, store, nil), collector.NewCollector(src, 3, nil), nil, nil, nil)
	s.Publisher = &fakePublisher{err: errors.New("telegram down")}

	rep, err := s.RunReportNow(time.Time{})
	require.NoError(t, err)
	assert.Equal(t, model.ReportStatusOK, rep.Status)
	assert.Nil(t, s.Metrics)
}
