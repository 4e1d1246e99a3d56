package model

import (
	"time"

	"github.com/moznion/go-optional"
)

// RSI reference levels drawn on the oscillator panel.
const (
	RSIOversold   = 30.0
	RSIOverbought = 70.0
)

// DefaultWindow is the default lookback for SMA and RSI (4h of 5-minute samples).
const DefaultWindow = 48

// IndicatorRow is aligned index-for-index with a PriceSeries.
// Values are None until the lookback window has filled.
type IndicatorRow struct {
	Time  time.Time                `json:"time"`
	Price float64                  `json:"price"`
	SMA   optional.Option[float64] `json:"sma"`
	RSI   optional.Option[float64] `json:"rsi"`
}
