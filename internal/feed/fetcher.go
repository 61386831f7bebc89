// Package feed acquires validated price bars for the analysis pipeline.
// Every bar decoded here passes through model.NewPriceBar, so invalid OHLC
// data is rejected at the boundary, loudly.
package feed

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kipto05/ict-ml/internal/model"
)

// Fetcher returns up to limit fully-closed bars for one symbol/timeframe,
// oldest first.
type Fetcher interface {
	FetchBars(symbol, timeframe string, limit int) ([]model.PriceBar, error)
	Name() string
}

// MockFetcher returns controllable fixed data for development and testing.
// When Bars is nil it generates a deterministic zig-zag series around
// BasePrice, with no wall clock and no randomness.
type MockFetcher struct {
	BasePrice float64
	Bars      []model.PriceBar
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchBars(symbol, timeframe string, limit int) ([]model.PriceBar, error) {
	if m.Bars != nil {
		if limit > 0 && limit < len(m.Bars) {
			return m.Bars[len(m.Bars)-limit:], nil
		}
		return m.Bars, nil
	}
	return GenerateBars(symbol, timeframe, m.BasePrice, limit)
}

// GenerateBars builds a deterministic zig-zag series: a slow drift up with
// a short oscillation, enough texture for swing detection in tests.
func GenerateBars(symbol, timeframe string, basePrice float64, count int) ([]model.PriceBar, error) {
	if basePrice <= 0 {
		basePrice = 100
	}
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]model.PriceBar, 0, count)
	for i := 0; i < count; i++ {
		// Period-7 oscillation on top of a gentle upward drift.
		phase := i % 7
		osc := float64(phase)
		if phase > 3 {
			osc = float64(7 - phase)
		}
		mid := basePrice * (1 + 0.0005*float64(i) + 0.002*osc)
		bar, err := model.NewPriceBar(symbol, timeframe,
			start.Add(time.Duration(i)*time.Hour),
			decimal.NewFromFloat(mid*0.999),
			decimal.NewFromFloat(mid*1.004),
			decimal.NewFromFloat(mid*0.996),
			decimal.NewFromFloat(mid*1.001),
			1000, 0, 2)
		if err != nil {
			return nil, fmt.Errorf("generate bar %d: %w", i, err)
		}
		bars = append(bars, bar)
	}
	return bars, nil
}
