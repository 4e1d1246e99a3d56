package model

import "time"

// ReportStatus describes the outcome of one generation cycle.
type ReportStatus string

const (
	ReportStatusOK     ReportStatus = "OK"
	ReportStatusNoData ReportStatus = "NO_DATA"
	ReportStatusFailed ReportStatus = "FAILED"
)

// DailyReport is the text artifact plus the data it was built from.
type DailyReport struct {
	RunID       string
	Day         time.Time
	Text        string
	KPIs        KPISnapshot
	Status      ReportStatus
	GeneratedAt time.Time
}
