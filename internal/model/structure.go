package model

import "time"

// TrendState classifies directional bias derived from swing progression.
type TrendState string

const (
	TrendBullish TrendState = "bullish"
	TrendBearish TrendState = "bearish"
	TrendRanging TrendState = "ranging"
	TrendUnknown TrendState = "unknown"
)

// StructureState is a snapshot of market structure as of the latest swing.
// It is recomputed from the current swing set on every analysis call and
// carries no identity of its own.
type StructureState struct {
	Trend         TrendState
	LastSwingHigh *SwingPoint
	LastSwingLow  *SwingPoint
	HigherHighs   int       // current streak of consecutive higher highs
	LowerLows     int       // current streak of consecutive lower lows
	Timestamp     time.Time // timestamp of the latest contributing swing
}
