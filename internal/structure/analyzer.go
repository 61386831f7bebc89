package structure

import (
	"fmt"

	"github.com/kipto05/ict-ml/internal/model"
)

// StructureAnalyzer derives the prevailing trend from swing progression.
//
// Rules:
//   - Bullish: higher highs AND a higher low confirming the structure
//   - Bearish: lower lows AND a lower high confirming the structure
//   - Ranging: neither holds
//   - Unknown: too few swings to say anything
type StructureAnalyzer struct {
	minSwingsForTrend int
}

// NewStructureAnalyzer returns an analyzer requiring minSwingsForTrend
// highs and lows each before committing to a trend.
func NewStructureAnalyzer(minSwingsForTrend int) (*StructureAnalyzer, error) {
	if minSwingsForTrend < 1 {
		return nil, fmt.Errorf("min swings for trend must be >= 1, got %d", minSwingsForTrend)
	}
	return &StructureAnalyzer{minSwingsForTrend: minSwingsForTrend}, nil
}

// Analyze classifies the trend as of the latest swing in the input. The
// returned state is a fresh snapshot; the analyzer keeps nothing between
// calls.
func (a *StructureAnalyzer) Analyze(swings []model.SwingPoint) model.StructureState {
	if len(swings) == 0 {
		return model.StructureState{Trend: model.TrendUnknown}
	}

	var highs, lows []model.SwingPoint
	for _, s := range swings {
		switch s.Kind {
		case model.SwingHigh:
			highs = append(highs, s)
		case model.SwingLow:
			lows = append(lows, s)
		}
	}

	// Current streaks, not historical maxima: any non-increase resets the
	// higher-highs counter to zero, and symmetrically for lower lows.
	higherHighs := 0
	for i := 1; i < len(highs); i++ {
		if highs[i].Price.GreaterThan(highs[i-1].Price) {
			higherHighs++
		} else {
			higherHighs = 0
		}
	}
	lowerLows := 0
	for i := 1; i < len(lows); i++ {
		if lows[i].Price.LessThan(lows[i-1].Price) {
			lowerLows++
		} else {
			lowerLows = 0
		}
	}

	state := model.StructureState{
		Trend:       a.determineTrend(highs, lows, higherHighs, lowerLows),
		HigherHighs: higherHighs,
		LowerLows:   lowerLows,
		Timestamp:   swings[len(swings)-1].Timestamp,
	}
	if len(highs) > 0 {
		last := highs[len(highs)-1]
		state.LastSwingHigh = &last
	}
	if len(lows) > 0 {
		last := lows[len(lows)-1]
		state.LastSwingLow = &last
	}
	return state
}

// determineTrend evaluates the bullish branch first: if both directions
// were somehow satisfied at once, bullish wins.
func (a *StructureAnalyzer) determineTrend(highs, lows []model.SwingPoint, higherHighs, lowerLows int) model.TrendState {
	if len(highs) < a.minSwingsForTrend || len(lows) < a.minSwingsForTrend {
		return model.TrendUnknown
	}

	if higherHighs >= a.minSwingsForTrend-1 {
		if len(lows) >= 2 && lows[len(lows)-1].Price.GreaterThan(lows[len(lows)-2].Price) {
			return model.TrendBullish
		}
	}

	if lowerLows >= a.minSwingsForTrend-1 {
		if len(highs) >= 2 && highs[len(highs)-1].Price.LessThan(highs[len(highs)-2].Price) {
			return model.TrendBearish
		}
	}

	return model.TrendRanging
}
