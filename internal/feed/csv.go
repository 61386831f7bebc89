package feed

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kipto05/ict-ml/internal/model"
)

// CSVFetcher loads bars from per-instrument CSV files, for offline analysis
// of downloaded history. Files live at <Dir>/<SYMBOL>_<TIMEFRAME>.csv.
type CSVFetcher struct {
	Dir string
}

func (f *CSVFetcher) Name() string { return "csv" }

func (f *CSVFetcher) FetchBars(symbol, timeframe string, limit int) ([]model.PriceBar, error) {
	path := filepath.Join(f.Dir, fmt.Sprintf("%s_%s.csv", symbol, timeframe))
	bars, err := LoadCSV(path, symbol, timeframe)
	if err != nil {
		return nil, err
	}
	if limit > 0 && limit < len(bars) {
		bars = bars[len(bars)-limit:]
	}
	return bars, nil
}

// LoadCSV reads bars from a CSV file with the header
// timestamp,open,high,low,close,tick_volume[,real_volume[,spread]].
// Timestamps are RFC3339 or unix seconds. Every row is validated; one bad
// row fails the whole load.
func LoadCSV(path, symbol, timeframe string) ([]model.PriceBar, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	// Skip a header row if present.
	start := 0
	if strings.EqualFold(strings.TrimSpace(records[0][0]), "timestamp") {
		start = 1
	}

	bars := make([]model.PriceBar, 0, len(records)-start)
	for i := start; i < len(records); i++ {
		rec := records[i]
		if len(rec) < 6 {
			return nil, fmt.Errorf("csv row %d: expected at least 6 fields, got %d", i+1, len(rec))
		}
		ts, err := parseTimestamp(strings.TrimSpace(rec[0]))
		if err != nil {
			return nil, fmt.Errorf("csv row %d: %w", i+1, err)
		}
		prices := make([]decimal.Decimal, 4)
		for j := 0; j < 4; j++ {
			p, err := decimal.NewFromString(strings.TrimSpace(rec[j+1]))
			if err != nil {
				return nil, fmt.Errorf("csv row %d field %d: %w", i+1, j+2, err)
			}
			prices[j] = p
		}
		tickVolume, err := strconv.ParseInt(strings.TrimSpace(rec[5]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("csv row %d: parse tick volume: %w", i+1, err)
		}
		var realVolume int64
		if len(rec) > 6 {
			if realVolume, err = strconv.ParseInt(strings.TrimSpace(rec[6]), 10, 64); err != nil {
				return nil, fmt.Errorf("csv row %d: parse real volume: %w", i+1, err)
			}
		}
		spread := 0
		if len(rec) > 7 {
			if spread, err = strconv.Atoi(strings.TrimSpace(rec[7])); err != nil {
				return nil, fmt.Errorf("csv row %d: parse spread: %w", i+1, err)
			}
		}

		bar, err := model.NewPriceBar(symbol, timeframe, ts,
			prices[0], prices[1], prices[2], prices[3], tickVolume, realVolume, spread)
		if err != nil {
			return nil, fmt.Errorf("csv row %d: %w", i+1, err)
		}
		bars = append(bars, bar)
	}
	return bars, nil
}

func parseTimestamp(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts, nil
	}
	if unix, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(unix, 0).UTC(), nil
	}
	return time.Time{}, fmt.Errorf("parse timestamp %q: want RFC3339 or unix seconds", s)
}
