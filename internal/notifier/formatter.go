package notifier

import (
	"fmt"
	"html"
	"strings"

	"GoldDashboard/internal/model"
	"GoldDashboard/internal/report"
)

// FormatReportMessage wraps the report artifact for Telegram's HTML mode.
func FormatReportMessage(text string) string {
	return fmt.Sprintf("📊 <b>Gold daily report</b>\n\n<pre>%s</pre>", html.EscapeString(text))
}

// FormatKPISummary formats the live KPI cards for a chat reply.
func FormatKPISummary(k model.KPISnapshot) string {
	if !k.Available() {
		return "📉 <b>Gold Live</b>\n\nNo price data available."
	}

	var b strings.Builder
	b.WriteString("📈 <b>Gold Live</b>\n\n")
	b.WriteString(fmt.Sprintf("Last Price: %s\n", report.Fixed2(k.Last)))

	change := "-"
	if k.Change.IsSome() {
		arrow := "⬇️"
		if k.Direction == model.DirectionUp {
			arrow = "⬆️"
		}
		change = fmt.Sprintf("%s %+.2f", arrow, k.Change.Unwrap())
	}
	b.WriteString(fmt.Sprintf("Change: %s\n", change))
	b.WriteString(fmt.Sprintf("Volatility: %s\n", report.Fixed2(k.Volatility)))
	b.WriteString(fmt.Sprintf("Max Price: %s\n", report.Fixed2(k.Max)))
	b.WriteString(fmt.Sprintf("Min Price: %s\n", report.Fixed2(k.Min)))
	return b.String()
}

// HelpText lists the supported chat commands.
const HelpText = "Available commands:\n• /report - latest daily report\n• /price - live KPIs"
