// Command analyze runs one structure scan over a CSV file (or generated
// mock data) and prints the result. Useful for backtest prep and for
// eyeballing detector output without the full bot.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/kipto05/ict-ml/internal/analysis"
	"github.com/kipto05/ict-ml/internal/feed"
	"github.com/kipto05/ict-ml/internal/model"
)

func main() {
	var (
		csvPath   = flag.String("csv", "", "path to an OHLC csv file (omit to use generated mock data)")
		symbol    = flag.String("symbol", "EURUSD", "instrument symbol")
		timeframe = flag.String("timeframe", "H1", "bar timeframe label")
		bars      = flag.Int("bars", 500, "bar count when generating mock data")
		lookback  = flag.Int("lookback", 5, "swing detection lookback window")
		minSwings = flag.Int("min-swings", 2, "swings of each kind required for a trend call")
		wick      = flag.Bool("wick", false, "use wick extremes instead of close for break detection")
	)
	flag.Parse()

	analyzer, err := analysis.New(analysis.Params{
		Lookback:          *lookback,
		MinSwingsForTrend: *minSwings,
		UseBody:           !*wick,
	})
	if err != nil {
		log.Fatalf("[FATAL] init analyzer: %v", err)
	}

	var series []model.PriceBar
	if *csvPath != "" {
		series, err = feed.LoadCSV(*csvPath, *symbol, *timeframe)
	} else {
		series, err = feed.GenerateBars(*symbol, *timeframe, 100, *bars)
	}
	if err != nil {
		log.Fatalf("[FATAL] load bars: %v", err)
	}

	report, err := analyzer.Analyze(series)
	if err != nil {
		log.Fatalf("[FATAL] analyze: %v", err)
	}

	printReport(report)
}

func printReport(r *analysis.Report) {
	w := os.Stdout

	fmt.Fprintf(w, "%s %s: %d bars, %d swings (%d highs, %d lows)\n",
		r.Symbol, r.Timeframe, r.BarCount, r.SwingStats.TotalSwings,
		r.SwingStats.Highs, r.SwingStats.Lows)
	fmt.Fprintf(w, "trend: %s (HH streak %d, LL streak %d)\n",
		r.State.Trend, r.State.HigherHighs, r.State.LowerLows)
	if r.State.LastSwingHigh != nil {
		fmt.Fprintf(w, "last swing high: %s @ %s (strength %d)\n",
			r.State.LastSwingHigh.Price, r.State.LastSwingHigh.Timestamp.Format("2006-01-02 15:04"),
			r.State.LastSwingHigh.Strength)
	}
	if r.State.LastSwingLow != nil {
		fmt.Fprintf(w, "last swing low:  %s @ %s (strength %d)\n",
			r.State.LastSwingLow.Price, r.State.LastSwingLow.Timestamp.Format("2006-01-02 15:04"),
			r.State.LastSwingLow.Strength)
	}

	fmt.Fprintf(w, "\nBOS events: %d\n", len(r.BOS))
	for _, e := range r.BOS {
		fmt.Fprintf(w, "  %s\n", e)
	}
	fmt.Fprintf(w, "CHoCH events: %d\n", len(r.CHoCH))
	for _, e := range r.CHoCH {
		fmt.Fprintf(w, "  %s\n", e)
	}
}
