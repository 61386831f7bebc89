package structure

import "github.com/kipto05/ict-ml/internal/model"

// BOSDetector flags break-of-structure events: price breaking through a
// prior swing in the direction that continues the existing structure.
//
//   - Bullish BOS: break above the most recent unbroken swing high
//   - Bearish BOS: break below the most recent unbroken swing low
type BOSDetector struct {
	useBody bool
}

// NewBOSDetector returns a detector. useBody=true breaks on the bar close;
// false breaks on the wick (high/low).
func NewBOSDetector(useBody bool) *BOSDetector {
	return &BOSDetector{useBody: useBody}
}

// DetectBOS walks bars in order and emits at most one break per swing. The
// reference point is always the most recently formed unbroken swing of the
// relevant kind, not the nearest by price; older never-broken swings are
// skipped once a newer one exists. Both directions are evaluated
// independently per bar. The broken-swing tracking is scoped to this call.
func (d *BOSDetector) DetectBOS(bars []model.PriceBar, swings []model.SwingPoint) []model.BOSEvent {
	if len(swings) == 0 || len(bars) < 2 {
		return nil
	}

	var events []model.BOSEvent
	broken := make(map[int]bool, len(swings))

	for i := range bars {
		bar := bars[i]

		// Bullish BOS: break above the latest unbroken swing high.
		if high := lastUnbroken(swings, model.SwingHigh, i, broken); high != nil {
			breakPrice := bar.Close
			if !d.useBody {
				breakPrice = bar.High
			}
			if breakPrice.GreaterThan(high.Price) {
				events = append(events, model.BOSEvent{
					Direction:   model.BOSBullish,
					BrokenSwing: *high,
					BreakPrice:  breakPrice,
					BreakBar:    bar,
					Timestamp:   bar.Timestamp,
				})
				broken[high.Index] = true
			}
		}

		// Bearish BOS: break below the latest unbroken swing low.
		if low := lastUnbroken(swings, model.SwingLow, i, broken); low != nil {
			breakPrice := bar.Close
			if !d.useBody {
				breakPrice = bar.Low
			}
			if breakPrice.LessThan(low.Price) {
				events = append(events, model.BOSEvent{
					Direction:   model.BOSBearish,
					BrokenSwing: *low,
					BreakPrice:  breakPrice,
					BreakBar:    bar,
					Timestamp:   bar.Timestamp,
				})
				broken[low.Index] = true
			}
		}
	}

	return events
}

// lastUnbroken returns the most recently formed swing of the given kind
// whose bar index precedes barIndex and has not been marked broken, or nil.
func lastUnbroken(swings []model.SwingPoint, kind model.SwingKind, barIndex int, broken map[int]bool) *model.SwingPoint {
	for i := len(swings) - 1; i >= 0; i-- {
		s := swings[i]
		if s.Index >= barIndex || broken[s.Index] {
			continue
		}
		if s.Kind == kind {
			return &swings[i]
		}
	}
	return nil
}
