package report

import (
	"fmt"
	"strings"
	"time"

	"GoldDashboard/internal/calculator"
	"GoldDashboard/internal/model"

	"github.com/moznion/go-optional"
	"github.com/shopspring/decimal"
)

// Unavailable is shown when no report artifact can be read.
const Unavailable = "Report unavailable."

// GenerateDailyReport summarises the records dated day into the report text.
func GenerateDailyReport(series model.PriceSeries, day time.Time) string {
	return FormatDailyReport(calculator.SummarizeDay(series, day))
}

// FormatDailyReport renders a day-filtered snapshot into the fixed template.
func FormatDailyReport(snap model.KPISnapshot) string {
	date := snap.Day.TakeOr(time.Time{}).Format(model.DateLayout)
	if !snap.Available() {
		return NoData(date)
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("Report of %s :\n", date))
	b.WriteString(fmt.Sprintf("- Open : %s\n", Fixed2(snap.Open)))
	b.WriteString(fmt.Sprintf("- Close : %s\n", Fixed2(snap.Last)))
	b.WriteString(fmt.Sprintf("- Min : %s\n", Fixed2(snap.Min)))
	b.WriteString(fmt.Sprintf("- Max : %s\n", Fixed2(snap.Max)))
	b.WriteString(fmt.Sprintf("- Volatility : %s", Fixed2(snap.Volatility)))
	return b.String()
}

// NoData is the one-line placeholder for a day without records.
func NoData(date string) string {
	return fmt.Sprintf("No data available for %s", date)
}

// exactExp is below any float64 binary exponent, so NewFromFloatWithExponent
// keeps every digit of the stored value.
const exactExp = -1100

// Fixed2 formats a value to two decimals, or "-" when absent. Rounding is
// half-to-even on the exact binary value, the way printf's %.2f does it:
// 1.415 is stored as 1.41499... and prints 1.41.
func Fixed2(v optional.Option[float64]) string {
	if v.IsNone() {
		return "-"
	}
	return decimal.NewFromFloatWithExponent(v.Unwrap(), exactExp).RoundBank(2).StringFixed(2)
}

// ReportDay picks the day to report on: the most recent date with data.
// An empty series falls back to now's date.
func ReportDay(series model.PriceSeries, now time.Time) time.Time {
	if day, ok := calculator.LatestDay(series); ok {
		return day
	}
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, now.Location())
}
