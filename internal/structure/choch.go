package structure

import "github.com/kipto05/ict-ml/internal/model"

// CHoCHDetector flags change-of-character events: price breaking structure
// against the prevailing trend, a possible reversal signal.
//
//   - Bullish trend: break below a swing low -> bullish-to-bearish CHoCH
//   - Bearish trend: break above a swing high -> bearish-to-bullish CHoCH
type CHoCHDetector struct {
	useBody bool
}

// NewCHoCHDetector returns a detector. useBody=true breaks on the bar
// close; false breaks on the wick.
func NewCHoCHDetector(useBody bool) *CHoCHDetector {
	return &CHoCHDetector{useBody: useBody}
}

// DetectCHoCH scans bars against a single fixed trend state. A ranging or
// unknown trend yields nothing: CHoCH only exists once a directional trend
// is established. Callers wanting time-varying trend context re-invoke per
// trend change. Broken-swing tracking is scoped to this call and fully
// independent of the BOS detector's.
func (d *CHoCHDetector) DetectCHoCH(bars []model.PriceBar, swings []model.SwingPoint, trend model.TrendState) []model.CHoCHEvent {
	if trend == model.TrendRanging || trend == model.TrendUnknown {
		return nil
	}
	if len(swings) == 0 || len(bars) == 0 {
		return nil
	}

	var events []model.CHoCHEvent
	broken := make(map[int]bool, len(swings))

	for i := range bars {
		bar := bars[i]

		switch trend {
		case model.TrendBullish:
			low := lastUnbroken(swings, model.SwingLow, i, broken)
			if low == nil {
				continue
			}
			breakPrice := bar.Close
			if !d.useBody {
				breakPrice = bar.Low
			}
			if breakPrice.LessThan(low.Price) {
				events = append(events, model.CHoCHEvent{
					Type:        model.CHoCHBullishToBearish,
					BrokenSwing: *low,
					BreakPrice:  breakPrice,
					BreakBar:    bar,
					PriorTrend:  trend,
					Timestamp:   bar.Timestamp,
				})
				broken[low.Index] = true
			}

		case model.TrendBearish:
			high := lastUnbroken(swings, model.SwingHigh, i, broken)
			if high == nil {
				continue
			}
			breakPrice := bar.Close
			if !d.useBody {
				breakPrice = bar.High
			}
			if breakPrice.GreaterThan(high.Price) {
				events = append(events, model.CHoCHEvent{
					Type:        model.CHoCHBearishToBullish,
					BrokenSwing: *high,
					BreakPrice:  breakPrice,
					BreakBar:    bar,
					PriorTrend:  trend,
					Timestamp:   bar.Timestamp,
				})
				broken[high.Index] = true
			}
		}
	}

	return events
}
