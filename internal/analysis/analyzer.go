// Package analysis wires the four structure detectors into one pipeline:
// bars -> swings -> trend state, then bars + swings (+ trend) -> BOS and
// CHoCH events.
package analysis

import (
	"fmt"
	"time"

	"github.com/kipto05/ict-ml/internal/model"
	"github.com/kipto05/ict-ml/internal/structure"
)

// Params configures one Analyzer.
type Params struct {
	Lookback          int  // swing confirmation window, >= 1
	MinSwingsForTrend int  // swings of each kind required before a trend call, >= 1
	UseBody           bool // break on close (true) or wick (false)
}

// Report is the full output of one analysis pass over a bar window. All
// slices are recomputed from the input on every call; nothing is cached.
type Report struct {
	Symbol      string
	Timeframe   string
	BarCount    int
	Swings      []model.SwingPoint
	State       model.StructureState
	BOS         []model.BOSEvent
	CHoCH       []model.CHoCHEvent
	SwingStats  structure.SwingStats
	GeneratedAt time.Time
}

// Analyzer runs the full market-structure pipeline. Not safe for
// concurrent Analyze calls on one instance; the scheduler scans targets
// sequentially.
type Analyzer struct {
	params    Params
	swings    *structure.SwingDetector
	structure *structure.StructureAnalyzer
	bos       *structure.BOSDetector
	choch     *structure.CHoCHDetector
}

// New validates params and builds an Analyzer. Parameter errors surface
// here, before any scanning begins.
func New(p Params) (*Analyzer, error) {
	sd, err := structure.NewSwingDetector(p.Lookback)
	if err != nil {
		return nil, fmt.Errorf("swing detector: %w", err)
	}
	sa, err := structure.NewStructureAnalyzer(p.MinSwingsForTrend)
	if err != nil {
		return nil, fmt.Errorf("structure analyzer: %w", err)
	}
	return &Analyzer{
		params:    p,
		swings:    sd,
		structure: sa,
		bos:       structure.NewBOSDetector(p.UseBody),
		choch:     structure.NewCHoCHDetector(p.UseBody),
	}, nil
}

// Params returns the analyzer configuration.
func (a *Analyzer) Params() Params { return a.params }

// Analyze runs swings -> structure -> BOS -> CHoCH over one bar window. An
// out-of-order sequence fails the whole call; too little data yields a
// quiet, empty report.
func (a *Analyzer) Analyze(bars []model.PriceBar) (*Report, error) {
	report := &Report{
		BarCount:    len(bars),
		GeneratedAt: time.Now().UTC(),
	}
	if len(bars) > 0 {
		report.Symbol = bars[0].Symbol
		report.Timeframe = bars[0].Timeframe
	}

	swings, err := a.swings.DetectSwings(bars)
	if err != nil {
		return nil, fmt.Errorf("detect swings: %w", err)
	}
	report.Swings = swings
	report.SwingStats = a.swings.Stats()

	report.State = a.structure.Analyze(swings)
	report.BOS = a.bos.DetectBOS(bars, swings)
	report.CHoCH = a.choch.DetectCHoCH(bars, swings, report.State.Trend)

	return report, nil
}
