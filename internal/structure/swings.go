// Package structure implements objective market-structure detection:
// swing points, trend classification, break of structure (BOS) and change
// of character (CHoCH). All detectors are deterministic and rule-based:
// same input, same output, no lookahead.
package structure

import (
	"errors"
	"fmt"
	"sort"

	"github.com/kipto05/ict-ml/internal/model"
)

// ErrOutOfOrder is returned when an input bar sequence is not strictly
// time-ordered. The whole call fails; no partial results are returned.
var ErrOutOfOrder = errors.New("bars must be strictly time-ordered")

// SwingStats counts what the most recent detection pass produced.
type SwingStats struct {
	Lookback    int
	TotalSwings int
	Highs       int
	Lows        int
}

// SwingDetector finds swing highs and lows using a symmetric lookback
// window. Only bars with a full window of confirmed bars on both sides are
// eligible, so the most recent lookback bars never repaint.
type SwingDetector struct {
	lookback int
	stats    SwingStats
}

// NewSwingDetector returns a detector confirming swings with lookback bars
// on each side (lookback=5 means a 5+1+5 bar window).
func NewSwingDetector(lookback int) (*SwingDetector, error) {
	if lookback < 1 {
		return nil, fmt.Errorf("lookback must be >= 1, got %d", lookback)
	}
	return &SwingDetector{lookback: lookback}, nil
}

// Lookback reports the configured window size.
func (d *SwingDetector) Lookback() int { return d.lookback }

// DetectSwings scans a time-ordered bar sequence and returns all confirmed
// swing points, sorted by timestamp. Fewer than 2*lookback+1 bars is not an
// error: there is nothing to confirm yet, so the result is empty.
func (d *SwingDetector) DetectSwings(bars []model.PriceBar) ([]model.SwingPoint, error) {
	if len(bars) == 0 {
		return nil, nil
	}
	if err := validateSequence(bars); err != nil {
		return nil, err
	}

	// Stats describe one logical run, not the detector's lifetime.
	d.stats = SwingStats{Lookback: d.lookback}

	minBars := d.lookback*2 + 1
	if len(bars) < minBars {
		return nil, nil
	}

	var swings []model.SwingPoint
	for i := d.lookback; i < len(bars)-d.lookback; i++ {
		if d.isSwingHigh(bars, i) {
			swing, err := model.NewSwingPoint(
				bars[i].Timestamp, bars[i].High, model.SwingHigh,
				i, d.lookback, d.strength(bars, i, model.SwingHigh))
			if err != nil {
				return nil, fmt.Errorf("swing high at bar %d: %w", i, err)
			}
			swings = append(swings, swing)
			d.stats.TotalSwings++
			d.stats.Highs++
		}
		if d.isSwingLow(bars, i) {
			swing, err := model.NewSwingPoint(
				bars[i].Timestamp, bars[i].Low, model.SwingLow,
				i, d.lookback, d.strength(bars, i, model.SwingLow))
			if err != nil {
				return nil, fmt.Errorf("swing low at bar %d: %w", i, err)
			}
			swings = append(swings, swing)
			d.stats.TotalSwings++
			d.stats.Lows++
		}
	}

	// Already monotonic because detection walks bars in order, but the
	// contract requires the sort so a batched implementation stays correct.
	sort.SliceStable(swings, func(a, b int) bool {
		return swings[a].Timestamp.Before(swings[b].Timestamp)
	})

	return swings, nil
}

// isSwingHigh: high at i strictly greater than every high on the left,
// greater-or-equal on the right. Ties on the right do not disqualify.
func (d *SwingDetector) isSwingHigh(bars []model.PriceBar, index int) bool {
	center := bars[index].High
	for i := index - d.lookback; i < index; i++ {
		if bars[i].High.GreaterThanOrEqual(center) {
			return false
		}
	}
	for i := index + 1; i <= index+d.lookback; i++ {
		if bars[i].High.GreaterThan(center) {
			return false
		}
	}
	return true
}

// isSwingLow: mirror of isSwingHigh.
func (d *SwingDetector) isSwingLow(bars []model.PriceBar, index int) bool {
	center := bars[index].Low
	for i := index - d.lookback; i < index; i++ {
		if bars[i].Low.LessThanOrEqual(center) {
			return false
		}
	}
	for i := index + 1; i <= index+d.lookback; i++ {
		if bars[i].Low.LessThan(center) {
			return false
		}
	}
	return true
}

// strength counts window neighbors whose extreme is strictly worse than the
// swing price. More respecting bars means a more significant level.
func (d *SwingDetector) strength(bars []model.PriceBar, index int, kind model.SwingKind) int {
	strength := 0
	for i := index - d.lookback; i <= index+d.lookback; i++ {
		if i == index {
			continue
		}
		switch kind {
		case model.SwingHigh:
			if bars[i].High.LessThan(bars[index].High) {
				strength++
			}
		case model.SwingLow:
			if bars[i].Low.GreaterThan(bars[index].Low) {
				strength++
			}
		}
	}
	return strength
}

// Stats reports counts from the most recent DetectSwings call.
func (d *SwingDetector) Stats() SwingStats { return d.stats }

// ResetStats clears run statistics.
func (d *SwingDetector) ResetStats() { d.stats = SwingStats{Lookback: d.lookback} }

// LastSwingHigh returns the most recent swing high, or nil.
func LastSwingHigh(swings []model.SwingPoint) *model.SwingPoint {
	for i := len(swings) - 1; i >= 0; i-- {
		if swings[i].Kind == model.SwingHigh {
			s := swings[i]
			return &s
		}
	}
	return nil
}

// LastSwingLow returns the most recent swing low, or nil.
func LastSwingLow(swings []model.SwingPoint) *model.SwingPoint {
	for i := len(swings) - 1; i >= 0; i-- {
		if swings[i].Kind == model.SwingLow {
			s := swings[i]
			return &s
		}
	}
	return nil
}

func validateSequence(bars []model.PriceBar) error {
	for i := 0; i < len(bars)-1; i++ {
		if !bars[i].Timestamp.Before(bars[i+1].Timestamp) {
			return fmt.Errorf("%w: bar %d (%s) >= bar %d (%s)", ErrOutOfOrder,
				i, bars[i].Timestamp.Format("2006-01-02T15:04:05Z"),
				i+1, bars[i+1].Timestamp.Format("2006-01-02T15:04:05Z"))
		}
	}
	return nil
}
