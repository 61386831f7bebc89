package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/kipto05/ict-ml/internal/analysis"
	"github.com/kipto05/ict-ml/internal/config"
	"github.com/kipto05/ict-ml/internal/feed"
	"github.com/kipto05/ict-ml/internal/notifier"
	"github.com/kipto05/ict-ml/internal/recorder"
	"github.com/kipto05/ict-ml/internal/scheduler"
	"github.com/kipto05/ict-ml/internal/state"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] ict-ml starting...")

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	// Init fetcher
	var fetcher feed.Fetcher
	if cfg.DataSource.CSVDir != "" {
		fetcher = &feed.CSVFetcher{Dir: cfg.DataSource.CSVDir}
	} else {
		fetcher = feed.NewRESTFetcher(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.Proxy)
	}
	log.Printf("[INFO] data source: %s", fetcher.Name())

	// Init analyzer
	analyzer, err := analysis.New(analysis.Params{
		Lookback:          cfg.Analysis.Lookback,
		MinSwingsForTrend: cfg.Analysis.MinSwingsForTrend,
		UseBody:           !cfg.Analysis.UseWick,
	})
	if err != nil {
		log.Fatalf("[FATAL] init analyzer: %v", err)
	}

	// Init scan state tracker
	tracker, err := state.NewTracker(cfg.State.File)
	if err != nil {
		log.Fatalf("[FATAL] init state tracker: %v", err)
	}

	// Init Telegram notifier
	tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init scheduler
	sched := scheduler.NewScheduler(ctx, fetcher, analyzer, rec, tn, tracker, cfg.Targets)
	if err := sched.Register(cfg.Schedule.ScanCron); err != nil {
		log.Fatalf("[FATAL] register cron tasks: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	// Start Telegram polling
	go tn.StartPolling(ctx, sched.HandleCommand)
	log.Println("[INFO] Telegram polling started")

	// Optional: run immediately on start
	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, executing scan now")
		go sched.ScanAll()
	}

	log.Println("[INFO] ict-ml is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	log.Println("[INFO] ict-ml stopped")
}
