package recorder

import (
	"time"

	"GoldDashboard/internal/model"
)

// LoadEvent records a price file load that fell back to an empty series.
type LoadEvent struct {
	Source string
	Status model.LoadStatus
	Error  string
}

// ReportRun is one persisted report generation cycle.
type ReportRun struct {
	RunID       string             `json:"run_id"`
	GeneratedAt time.Time          `json:"generated_at"`
	Day         string             `json:"day"`
	Status      model.ReportStatus `json:"status"`
	Records     int                `json:"records"`
	Open        *float64           `json:"open"`
	Close       *float64           `json:"close"`
	Min         *float64           `json:"min"`
	Max         *float64           `json:"max"`
	Volatility  *float64           `json:"volatility"`
}

// Recorder persists an operational log of generation runs and load failures.
// The report artifact itself is not versioned here.
type Recorder interface {
	RecordReport(rep *model.DailyReport) error
	RecordLoadFailure(evt *LoadEvent) error
	RecentReports(limit int) ([]ReportRun, error)
	Close() error
}
