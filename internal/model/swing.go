package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// SwingKind distinguishes swing highs from swing lows.
type SwingKind string

const (
	SwingHigh SwingKind = "high"
	SwingLow  SwingKind = "low"
)

// SwingPoint is a confirmed local price extremum. Once emitted by the swing
// detector it is never re-labeled or mutated; downstream detectors consume
// it read-only.
type SwingPoint struct {
	Timestamp time.Time
	Price     decimal.Decimal
	Kind      SwingKind
	Index     int // position within the input bar sequence
	Lookback  int // window size used to confirm it
	Strength  int // count of neighboring bars that respect the level
}

// NewSwingPoint validates and builds a SwingPoint.
func NewSwingPoint(ts time.Time, price decimal.Decimal, kind SwingKind, index, lookback, strength int) (SwingPoint, error) {
	if !price.IsPositive() {
		return SwingPoint{}, fmt.Errorf("swing price must be positive, got %s", price)
	}
	if lookback < 1 {
		return SwingPoint{}, fmt.Errorf("swing lookback must be >= 1, got %d", lookback)
	}
	if index < 0 {
		return SwingPoint{}, fmt.Errorf("swing bar index must be >= 0, got %d", index)
	}
	if strength < 0 {
		return SwingPoint{}, fmt.Errorf("swing strength must be >= 0, got %d", strength)
	}
	return SwingPoint{
		Timestamp: ts.UTC(),
		Price:     price,
		Kind:      kind,
		Index:     index,
		Lookback:  lookback,
		Strength:  strength,
	}, nil
}
