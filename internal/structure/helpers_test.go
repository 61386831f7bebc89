package structure

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kipto05/ict-ml/internal/model"
)

var testBase = time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)

// mkBar builds a valid H1 bar i hours after testBase.
func mkBar(t *testing.T, i int, open, high, low, close float64) model.PriceBar {
	t.Helper()
	bar, err := model.NewPriceBar("EURUSD", "H1", testBase.Add(time.Duration(i)*time.Hour),
		decimal.NewFromFloat(open), decimal.NewFromFloat(high),
		decimal.NewFromFloat(low), decimal.NewFromFloat(close),
		100, 0, 2)
	if err != nil {
		t.Fatalf("build bar %d: %v", i, err)
	}
	return bar
}

// mkBarsHL builds one bar per high/low pair with open and close at the
// midpoint of the range.
func mkBarsHL(t *testing.T, highs, lows []float64) []model.PriceBar {
	t.Helper()
	if len(highs) != len(lows) {
		t.Fatalf("highs/lows length mismatch: %d vs %d", len(highs), len(lows))
	}
	bars := make([]model.PriceBar, len(highs))
	for i := range highs {
		mid := (highs[i] + lows[i]) / 2
		bars[i] = mkBar(t, i, mid, highs[i], lows[i], mid)
	}
	return bars
}

// mkSwing builds a swing point at bar index i.
func mkSwing(t *testing.T, kind model.SwingKind, index int, price float64) model.SwingPoint {
	t.Helper()
	s, err := model.NewSwingPoint(testBase.Add(time.Duration(index)*time.Hour),
		decimal.NewFromFloat(price), kind, index, 1, 2)
	if err != nil {
		t.Fatalf("build swing at %d: %v", index, err)
	}
	return s
}
