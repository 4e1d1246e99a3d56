package scheduler

import (
	"context"
	"fmt"
	"time"

	"GoldDashboard/internal/calculator"
	"GoldDashboard/internal/collector"
	"GoldDashboard/internal/metrics"
	"GoldDashboard/internal/model"
	"GoldDashboard/internal/notifier"
	"GoldDashboard/internal/recorder"
	"GoldDashboard/internal/report"

	"github.com/moznion/go-optional"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Publisher delivers a generated report somewhere outside the artifact store.
type Publisher interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Scheduler manages all cron tasks.
type Scheduler struct {
	Cron      *cron.Cron
	Generator *report.Generator // nil for refresh-only schedulers
	Collector *collector.Collector
	Recorder  recorder.Recorder
	Publisher Publisher // nil disables publication
	Metrics   *metrics.Metrics
	Logger    *zap.Logger
	Ctx       context.Context
}

// NewScheduler creates a new Scheduler. Cron specs carry a seconds field.
func NewScheduler(ctx context.Context, gen *report.Generator, col *collector.Collector, rec recorder.Recorder, m *metrics.Metrics, logger *zap.Logger) *Scheduler {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Generator: gen,
		Collector: col,
		Recorder:  rec,
		Metrics:   m,
		Logger:    logger,
		Ctx:       ctx,
	}
}

// RegisterReport schedules the daily report regeneration.
func (s *Scheduler) RegisterReport(spec string) error {
	if s.Generator == nil {
		return fmt.Errorf("register report task: no generator configured")
	}
	if _, err := s.Cron.AddFunc(spec, s.reportTask); err != nil {
		return fmt.Errorf("register report task: %w", err)
	}
	return nil
}

// RegisterRefresh schedules a live refresh callback on the fast cadence.
func (s *Scheduler) RegisterRefresh(spec string, refresh func()) error {
	if _, err := s.Cron.AddFunc(spec, refresh); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.Logger.Info("scheduler started", zap.Int("entries", len(s.Cron.Entries())))
}

// Stop stops the cron scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.Logger.Info("scheduler stopped")
}

// RunReportNow executes one report cycle immediately. A zero day means the
// most recent date with data.
func (s *Scheduler) RunReportNow(day time.Time) (*model.DailyReport, error) {
	target := optional.None[time.Time]()
	if !day.IsZero() {
		target = optional.Some(day)
	}
	return s.generate(target)
}

func (s *Scheduler) reportTask() {
	s.Logger.Info("running report task")
	if _, err := s.generate(optional.None[time.Time]()); err != nil {
		s.Logger.Error("report task failed", zap.Error(err))
	}
}

func (s *Scheduler) generate(day optional.Option[time.Time]) (*model.DailyReport, error) {
	rep, err := s.Generator.Generate(s.Ctx, day)
	if rep != nil {
		if s.Metrics != nil {
			s.Metrics.ObserveReport(rep.Status)
		}
		if recErr := s.Recorder.RecordReport(rep); recErr != nil {
			s.Logger.Error("record report run failed", zap.Error(recErr))
		}
	}
	if err != nil {
		return rep, err
	}

	if s.Publisher != nil {
		if pubErr := s.Publisher.SendWithRetry(s.Ctx, notifier.FormatReportMessage(rep.Text), 3); pubErr != nil {
			s.Logger.Error("publish report failed", zap.Error(pubErr))
			if s.Metrics != nil {
				s.Metrics.NotifyFailures.Inc()
			}
		}
	}
	return rep, nil
}

// HandleCommand processes a chat command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	switch command {
	case "/report":
		if s.Generator == nil {
			return notifier.HelpText
		}
		return notifier.FormatReportMessage(report.ReadDailyReport(ctx, s.Generator.Store))
	case "/price":
		if s.Collector == nil {
			return notifier.HelpText
		}
		series, _, _ := s.Collector.Load()
		return notifier.FormatKPISummary(calculator.Summarize(series))
	default:
		return notifier.HelpText
	}
}
