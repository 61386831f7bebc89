// Package scheduler drives periodic structure scans over the configured
// symbol/timeframe targets: fetch -> analyze -> record -> notify.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/kipto05/ict-ml/internal/analysis"
	"github.com/kipto05/ict-ml/internal/config"
	"github.com/kipto05/ict-ml/internal/feed"
	"github.com/kipto05/ict-ml/internal/model"
	"github.com/kipto05/ict-ml/internal/notifier"
	"github.com/kipto05/ict-ml/internal/recorder"
	"github.com/kipto05/ict-ml/internal/state"
)

// Scheduler owns the cron loop and the scan workflow.
type Scheduler struct {
	Cron     *cron.Cron
	Fetcher  feed.Fetcher
	Analyzer *analysis.Analyzer
	Recorder recorder.Recorder
	Notifier *notifier.TelegramNotifier
	Tracker  *state.Tracker
	Targets  []config.Target
	Ctx      context.Context

	mu         sync.Mutex
	lastTrends map[string]model.TrendState // per target, from the latest scan

	// Serializes scan passes: cron ticks and /scan commands can overlap,
	// and the analyzer is not safe for concurrent calls.
	scanMu sync.Mutex
}

// NewScheduler creates a Scheduler. Cron expressions use the 6-field
// (seconds-first) format.
func NewScheduler(ctx context.Context, f feed.Fetcher, a *analysis.Analyzer, rec recorder.Recorder, tn *notifier.TelegramNotifier, tr *state.Tracker, targets []config.Target) *Scheduler {
	return &Scheduler{
		Cron:       cron.New(cron.WithSeconds()),
		Fetcher:    f,
		Analyzer:   a,
		Recorder:   rec,
		Notifier:   tn,
		Tracker:    tr,
		Targets:    targets,
		Ctx:        ctx,
		lastTrends: make(map[string]model.TrendState),
	}
}

// Register wires the periodic scan task.
func (s *Scheduler) Register(scanCron string) error {
	if _, err := s.Cron.AddFunc(scanCron, s.ScanAll); err != nil {
		return fmt.Errorf("register scan task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

// ScanAll runs one scan pass over every configured target.
func (s *Scheduler) ScanAll() {
	s.scanMu.Lock()
	defer s.scanMu.Unlock()

	for _, tgt := range s.Targets {
		select {
		case <-s.Ctx.Done():
			return
		default:
		}
		if err := s.scanTarget(tgt); err != nil {
			log.Printf("[ERROR] scan %s %s: %v", tgt.Symbol, tgt.Timeframe, err)
		}
	}
}

func (s *Scheduler) scanTarget(tgt config.Target) error {
	bars, err := s.Fetcher.FetchBars(tgt.Symbol, tgt.Timeframe, tgt.Bars)
	if err != nil {
		return fmt.Errorf("fetch bars: %w", err)
	}
	if len(bars) == 0 {
		log.Printf("[WARN] no bars for %s %s", tgt.Symbol, tgt.Timeframe)
		return nil
	}

	newest := bars[len(bars)-1].Timestamp
	if last, ok := s.Tracker.LastSeen(tgt.Symbol, tgt.Timeframe); ok && !newest.After(last) {
		log.Printf("[INFO] %s %s: no new closed bar since %v, skipping", tgt.Symbol, tgt.Timeframe, last)
		return nil
	}

	report, err := s.Analyzer.Analyze(bars)
	if err != nil {
		return fmt.Errorf("analyze: %w", err)
	}

	runID := uuid.NewString()
	if err := recorder.RecordReport(s.Recorder, runID, report); err != nil {
		log.Printf("[ERROR] record run %s: %v", runID, err)
	}
	if err := s.Tracker.Advance(tgt.Symbol, tgt.Timeframe, newest); err != nil {
		log.Printf("[ERROR] advance watermark: %v", err)
	}

	log.Printf("[INFO] %s %s: trend=%s swings=%d bos=%d choch=%d (run %s)",
		tgt.Symbol, tgt.Timeframe, report.State.Trend,
		len(report.Swings), len(report.BOS), len(report.CHoCH), runID)

	s.mu.Lock()
	prev, seen := s.lastTrends[tgt.Symbol+"|"+tgt.Timeframe]
	s.lastTrends[tgt.Symbol+"|"+tgt.Timeframe] = report.State.Trend
	s.mu.Unlock()

	// A trend flip between scans gets the full report; reversal signals
	// inside the window get their own alert.
	if seen && prev != report.State.Trend {
		s.trySend(notifier.FormatScanReport(report))
	}
	for _, e := range report.CHoCH {
		s.trySend(notifier.FormatCHoCHAlert(tgt.Symbol, tgt.Timeframe, e))
	}

	return nil
}

// HandleCommand processes a Telegram command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	switch command {
	case "/scan":
		go s.ScanAll()
		return "Scan started."
	case "/status":
		return s.statusReply()
	default:
		return "Commands:\n/scan - run a structure scan now\n/status - latest trend per target"
	}
}

func (s *Scheduler) statusReply() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.lastTrends) == 0 {
		return "No scans completed yet."
	}
	var b strings.Builder
	b.WriteString("Latest trends:\n")
	for _, tgt := range s.Targets {
		k := tgt.Symbol + "|" + tgt.Timeframe
		if trend, ok := s.lastTrends[k]; ok {
			b.WriteString(fmt.Sprintf("• %s %s: %s\n", tgt.Symbol, tgt.Timeframe, trend))
		}
	}
	return b.String()
}

func (s *Scheduler) trySend(text string) {
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}
