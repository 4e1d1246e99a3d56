package calculator

import (
	"errors"

	"GoldDashboard/internal/model"

	"github.com/moznion/go-optional"
)

// CalculateSMA computes the simple moving average of the last period prices.
func CalculateSMA(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(prices) < period {
		return 0, errors.New("not enough data for SMA calculation")
	}
	sum := 0.0
	for i := len(prices) - period; i < len(prices); i++ {
		sum += prices[i]
	}
	return sum / float64(period), nil
}

// SimpleMovingAverage returns the trailing SMA at every index of the series.
// The first window-1 entries are None.
func SimpleMovingAverage(series model.PriceSeries, window int) []optional.Option[float64] {
	prices := series.Prices()
	out := make([]optional.Option[float64], len(prices))
	for i := range prices {
		if sma, err := CalculateSMA(prices[:i+1], window); err == nil {
			out[i] = optional.Some(sma)
		} else {
			out[i] = optional.None[float64]()
		}
	}
	return out
}
