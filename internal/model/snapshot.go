package model

import "time"

// LoadStatus classifies the outcome of reading the price file.
type LoadStatus string

const (
	LoadStatusOK               LoadStatus = "OK"
	LoadStatusMissingSource    LoadStatus = "MISSING_SOURCE"
	LoadStatusUnreadableSource LoadStatus = "UNREADABLE_SOURCE"
	LoadStatusMalformedRecord  LoadStatus = "MALFORMED_RECORD"
	LoadStatusEmptySeries      LoadStatus = "EMPTY_SERIES"
)

// Snapshot is everything one dashboard refresh needs: the aligned
// indicator rows, the KPI cards and why they might be empty.
type Snapshot struct {
	Source        string         `json:"source"`
	Status        LoadStatus     `json:"status"`
	Error         string         `json:"error,omitempty"`
	Window        int            `json:"window"`
	Rows          []IndicatorRow `json:"rows"`
	KPIs          KPISnapshot    `json:"kpis"`
	RSIOversold   float64        `json:"rsi_oversold"`
	RSIOverbought float64        `json:"rsi_overbought"`
	GeneratedAt   time.Time      `json:"generated_at"`
}
