package recorder

import (
	"github.com/kipto05/ict-ml/internal/analysis"
	"github.com/kipto05/ict-ml/internal/model"
)

// ScanRecord summarizes one completed analysis pass over a bar window.
type ScanRecord struct {
	RunID     string
	Symbol    string
	Timeframe string
	BarCount  int
	Trend     model.TrendState
	Swings    int
	BOSCount  int
	CHoCH     int
}

// Recorder persists analysis output for later review. Implementations must
// tolerate being called from a single scheduler goroutine at a time per
// run; rows are append-only and never updated.
type Recorder interface {
	RecordScan(rec *ScanRecord) error
	RecordSwings(runID string, swings []model.SwingPoint) error
	RecordBOS(runID string, events []model.BOSEvent) error
	RecordCHoCH(runID string, events []model.CHoCHEvent) error
	Close() error
}

// RecordReport persists a full report under one run ID.
func RecordReport(r Recorder, runID string, report *analysis.Report) error {
	if err := r.RecordScan(&ScanRecord{
		RunID:     runID,
		Symbol:    report.Symbol,
		Timeframe: report.Timeframe,
		BarCount:  report.BarCount,
		Trend:     report.State.Trend,
		Swings:    len(report.Swings),
		BOSCount:  len(report.BOS),
		CHoCH:     len(report.CHoCH),
	}); err != nil {
		return err
	}
	if err := r.RecordSwings(runID, report.Swings); err != nil {
		return err
	}
	if err := r.RecordBOS(runID, report.BOS); err != nil {
		return err
	}
	return r.RecordCHoCH(runID, report.CHoCH)
}
