package report

import (
	"context"
	"fmt"
	"time"

	"GoldDashboard/internal/calculator"
	"GoldDashboard/internal/loader"
	"GoldDashboard/internal/model"

	"github.com/google/uuid"
	"github.com/moznion/go-optional"
	"go.uber.org/zap"
)

// Generator rebuilds the daily report from a fresh load and overwrites the artifact.
type Generator struct {
	Source loader.Source
	Store  Store
	Logger *zap.Logger
	Now    func() time.Time
}

// NewGenerator creates a Generator.
func NewGenerator(src loader.Source, store Store, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{Source: src, Store: store, Logger: logger, Now: time.Now}
}

// Generate runs one cycle. When day is None the most recent date with data is used.
// A failed load still produces the no-data placeholder; only a failed write
// is returned as an error.
func (g *Generator) Generate(ctx context.Context, day optional.Option[time.Time]) (*model.DailyReport, error) {
	now := g.Now()
	series, err := g.Source.Load()
	if err != nil {
		g.Logger.Warn("report source unavailable", zap.String("source", g.Source.Name()), zap.Error(err))
	}

	target := day.TakeOrElse(func() time.Time { return ReportDay(series, now) })
	snap := calculator.SummarizeDay(series, target)

	rep := &model.DailyReport{
		RunID:       uuid.NewString(),
		Day:         snap.Day.TakeOr(target),
		Text:        FormatDailyReport(snap),
		KPIs:        snap,
		Status:      model.ReportStatusOK,
		GeneratedAt: now,
	}
	if !snap.Available() {
		rep.Status = model.ReportStatusNoData
	}

	if err := g.Store.Write(ctx, rep.Text); err != nil {
		rep.Status = model.ReportStatusFailed
		return rep, fmt.Errorf("write report to %s: %w", g.Store.Name(), err)
	}

	g.Logger.Info("daily report generated",
		zap.String("run_id", rep.RunID),
		zap.String("day", rep.Day.Format(model.DateLayout)),
		zap.String("status", string(rep.Status)),
		zap.Int("records", snap.Count))
	return rep, nil
}
