package recorder

import "GoldDashboard/internal/model"

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordReport(_ *model.DailyReport) error  { return nil }
func (n *NoopRecorder) RecordLoadFailure(_ *LoadEvent) error     { return nil }
func (n *NoopRecorder) RecentReports(_ int) ([]ReportRun, error) { return nil, nil }
func (n *NoopRecorder) Close() error                             { return nil }
