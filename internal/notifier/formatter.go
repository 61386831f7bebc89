package notifier

import (
	"fmt"
	"strings"

	"github.com/kipto05/ict-ml/internal/analysis"
	"github.com/kipto05/ict-ml/internal/model"
)

var trendLabels = map[model.TrendState]string{
	model.TrendBullish: "📈 BULLISH",
	model.TrendBearish: "📉 BEARISH",
	model.TrendRanging: "↔️ RANGING",
	model.TrendUnknown: "❔ UNKNOWN",
}

// FormatScanReport renders one analysis report as a Telegram message.
func FormatScanReport(report *analysis.Report) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("🔍 <b>Structure scan</b> | %s %s\n", report.Symbol, report.Timeframe))
	b.WriteString(fmt.Sprintf("Bars: %d | Swings: %d (H:%d L:%d)\n",
		report.BarCount, len(report.Swings), report.SwingStats.Highs, report.SwingStats.Lows))
	b.WriteString(fmt.Sprintf("Trend: %s", label(report.State.Trend)))
	if report.State.HigherHighs > 0 || report.State.LowerLows > 0 {
		b.WriteString(fmt.Sprintf(" (HH streak %d, LL streak %d)", report.State.HigherHighs, report.State.LowerLows))
	}
	b.WriteString("\n")

	if h := report.State.LastSwingHigh; h != nil {
		b.WriteString(fmt.Sprintf("Last swing high: %s @ %s\n", h.Price, h.Timestamp.Format("01-02 15:04")))
	}
	if l := report.State.LastSwingLow; l != nil {
		b.WriteString(fmt.Sprintf("Last swing low: %s @ %s\n", l.Price, l.Timestamp.Format("01-02 15:04")))
	}

	if len(report.BOS) > 0 {
		b.WriteString(fmt.Sprintf("\n⚡ <b>BOS events: %d</b>\n", len(report.BOS)))
		for _, e := range tail(report.BOS, 3) {
			b.WriteString(fmt.Sprintf("  %s break of %s at %s -> %s\n",
				e.Direction, e.BrokenSwing.Kind, e.BrokenSwing.Price, e.BreakPrice))
		}
	}
	if len(report.CHoCH) > 0 {
		b.WriteString(fmt.Sprintf("\n🔄 <b>CHoCH events: %d</b>\n", len(report.CHoCH)))
		for _, e := range tail(report.CHoCH, 3) {
			b.WriteString(fmt.Sprintf("  %s at %s (was %s)\n", e.Type, e.BreakPrice, e.PriorTrend))
		}
	}

	return b.String()
}

// FormatCHoCHAlert renders a single reversal alert.
func FormatCHoCHAlert(symbol, timeframe string, e model.CHoCHEvent) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("🔄 <b>CHoCH</b> | %s %s\n\n", symbol, timeframe))
	b.WriteString(fmt.Sprintf("%s\n", e.Type))
	b.WriteString(fmt.Sprintf("Broke %s %s (strength %d) at %s\n",
		e.BrokenSwing.Kind, e.BrokenSwing.Price, e.BrokenSwing.Strength, e.BreakPrice))
	b.WriteString(fmt.Sprintf("Prior trend: %s\n", label(e.PriorTrend)))
	b.WriteString(fmt.Sprintf("Bar: %s UTC", e.Timestamp.Format("2006-01-02 15:04")))
	return b.String()
}

func label(trend model.TrendState) string {
	if l, ok := trendLabels[trend]; ok {
		return l
	}
	return string(trend)
}

func tail[T any](s []T, n int) []T {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
