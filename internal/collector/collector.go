package collector

import (
	"errors"
	"time"

	"GoldDashboard/internal/calculator"
	"GoldDashboard/internal/loader"
	"GoldDashboard/internal/model"

	"go.uber.org/zap"
)

// Collector orchestrates a fresh load and indicator computation per refresh.
// It keeps no state between calls.
type Collector struct {
	Source loader.Source
	Window int
	Logger *zap.Logger
	Now    func() time.Time
}

// NewCollector creates a new Collector. A non-positive window falls back to the default.
func NewCollector(src loader.Source, window int, logger *zap.Logger) *Collector {
	if window <= 0 {
		window = model.DefaultWindow
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Collector{Source: src, Window: window, Logger: logger, Now: time.Now}
}

// Load re-reads the source. Failures yield an empty series plus the reason.
func (c *Collector) Load() (model.PriceSeries, model.LoadStatus, error) {
	series, err := c.Source.Load()
	status := Classify(err)
	if err != nil {
		c.Logger.Warn("price source load failed",
			zap.String("source", c.Source.Name()),
			zap.String("status", string(status)),
			zap.Error(err))
	}
	return series, status, err
}

// Collect builds the full dashboard snapshot. It never fails: an unreadable
// source produces a renderable empty snapshot.
func (c *Collector) Collect() *model.Snapshot {
	series, status, err := c.Load()

	snap := &model.Snapshot{
		Source:        c.Source.Name(),
		Status:        status,
		Window:        c.Window,
		Rows:          calculator.Indicators(series, c.Window),
		KPIs:          calculator.Summarize(series),
		RSIOversold:   model.RSIOversold,
		RSIOverbought: model.RSIOverbought,
		GeneratedAt:   c.Now(),
	}
	if err != nil {
		snap.Error = err.Error()
	}
	return snap
}

// Classify maps a loader error onto a LoadStatus.
func Classify(err error) model.LoadStatus {
	switch {
	case err == nil:
		return model.LoadStatusOK
	case errors.Is(err, loader.ErrMissingSource):
		return model.LoadStatusMissingSource
	case errors.Is(err, loader.ErrUnreadableSource):
		return model.LoadStatusUnreadableSource
	case errors.Is(err, loader.ErrMalformedRecord):
		return model.LoadStatusMalformedRecord
	default:
		return model.LoadStatusEmptySeries
	}
}
