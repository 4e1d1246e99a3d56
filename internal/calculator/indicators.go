package calculator

import "GoldDashboard/internal/model"

// Indicators zips the series with its SMA and RSI columns.
func Indicators(series model.PriceSeries, window int) []model.IndicatorRow {
	sma := SimpleMovingAverage(series, window)
	rsi := RSI(series, window)
	rows := make([]model.IndicatorRow, len(series))
	for i, r := range series {
		rows[i] = model.IndicatorRow{Time: r.Time, Price: r.Price, SMA: sma[i], RSI: rsi[i]}
	}
	return rows
}
