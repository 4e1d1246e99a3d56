package calculator

import (
	"GoldDashboard/internal/model"

	"github.com/moznion/go-optional"
)

// CalculateRSI returns the RSI for one window of per-step gains and losses.
// A window without losses is fully overbought: RSI is 100.
func CalculateRSI(gains, losses []float64) float64 {
	var sumGain, sumLoss float64
	for i := range gains {
		sumGain += gains[i]
		sumLoss += losses[i]
	}
	if sumLoss == 0 {
		return 100.0
	}
	n := float64(len(gains))
	rs := (sumGain / n) / (sumLoss / n)
	return 100.0 - 100.0/(1.0+rs)
}

// RSI computes a simplified Wilder RSI at every index of the series.
// Average gain and loss are plain trailing means over window steps rather
// than Wilder's exponential smoothing. The first step has no predecessor and
// counts as a zero change, so RSI becomes defined at index window-1, aligned
// with SimpleMovingAverage.
func RSI(series model.PriceSeries, window int) []optional.Option[float64] {
	prices := series.Prices()
	out := make([]optional.Option[float64], len(prices))
	if window <= 0 {
		for i := range out {
			out[i] = optional.None[float64]()
		}
		return out
	}

	gains := make([]float64, len(prices))
	losses := make([]float64, len(prices))
	for i := 1; i < len(prices); i++ {
		change := prices[i] - prices[i-1]
		if change > 0 {
			gains[i] = change
		} else {
			losses[i] = -change
		}
	}

	for i := range prices {
		if i+1 < window {
			out[i] = optional.None[float64]()
			continue
		}
		start := i + 1 - window
		out[i] = optional.Some(CalculateRSI(gains[start:i+1], losses[start:i+1]))
	}
	return out
}
