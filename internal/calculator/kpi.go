package calculator

import (
	"math"
	"time"

	"GoldDashboard/internal/model"

	"github.com/moznion/go-optional"
)

// Summarize computes the KPI snapshot over the whole series.
// An empty series yields the UNAVAILABLE sentinel.
func Summarize(series model.PriceSeries) model.KPISnapshot {
	if series.Empty() {
		return emptySnapshot(model.KPIStatusUnavailable, optional.None[time.Time]())
	}
	return summarize(series)
}

// SummarizeDay computes the KPI snapshot over the records dated day.
// No matching record yields the NO_DATA_FOR_DATE sentinel.
func SummarizeDay(series model.PriceSeries, day time.Time) model.KPISnapshot {
	d := truncateDay(day)
	subset := series.OnDay(day)
	if subset.Empty() {
		return emptySnapshot(model.KPIStatusNoData, optional.Some(d))
	}
	snap := summarize(subset)
	snap.Day = optional.Some(d)
	return snap
}

// LatestDay returns the most recent calendar date present in the series.
func LatestDay(series model.PriceSeries) (time.Time, bool) {
	if series.Empty() {
		return time.Time{}, false
	}
	latest := series[0].Time
	for _, r := range series[1:] {
		if r.Time.After(latest) {
			latest = r.Time
		}
	}
	return truncateDay(latest), true
}

func summarize(series model.PriceSeries) model.KPISnapshot {
	prices := series.Prices()
	first, last := prices[0], prices[len(prices)-1]

	high, low := math.Inf(-1), math.Inf(1)
	for _, p := range prices {
		if p > high {
			high = p
		}
		if p < low {
			low = p
		}
	}

	snap := model.KPISnapshot{
		Status:     model.KPIStatusOK,
		Day:        optional.None[time.Time](),
		Count:      len(prices),
		Open:       optional.Some(first),
		Last:       optional.Some(last),
		Change:     optional.None[float64](),
		Volatility: optional.None[float64](),
		Max:        optional.Some(high),
		Min:        optional.Some(low),
	}
	if len(prices) >= 2 {
		change := last - first
		snap.Change = optional.Some(change)
		snap.Direction = direction(change)
	}
	if sd, ok := SampleStdDev(prices); ok {
		snap.Volatility = optional.Some(sd)
	}
	return snap
}

// SampleStdDev returns the standard deviation with n-1 degrees of freedom.
// It needs at least two values.
func SampleStdDev(values []float64) (float64, bool) {
	n := len(values)
	if n < 2 {
		return 0, false
	}
	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(n)

	ss := 0.0
	for _, v := range values {
		d := v - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(n-1)), true
}

func direction(change float64) model.Direction {
	switch {
	case change > 0:
		return model.DirectionUp
	case change < 0:
		return model.DirectionDown
	default:
		return model.DirectionFlat
	}
}

func emptySnapshot(status model.KPIStatus, day optional.Option[time.Time]) model.KPISnapshot {
	return model.KPISnapshot{
		Status:     status,
		Day:        day,
		Open:       optional.None[float64](),
		Last:       optional.None[float64](),
		Change:     optional.None[float64](),
		Volatility: optional.None[float64](),
		Max:        optional.None[float64](),
		Min:        optional.None[float64](),
	}
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
