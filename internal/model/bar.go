package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// PriceBar represents a single fully-closed OHLC candle. Prices are exact
// decimals; the zero value is not valid. Construct through NewPriceBar so
// the OHLC invariants hold for every bar in the system.
type PriceBar struct {
	Symbol     string
	Timeframe  string
	Timestamp  time.Time // bar open time, UTC
	Open       decimal.Decimal
	High       decimal.Decimal
	Low        decimal.Decimal
	Close      decimal.Decimal
	TickVolume int64
	RealVolume int64
	Spread     int
}

// NewPriceBar validates and builds a PriceBar. The timestamp is normalized
// to UTC. Invalid OHLC data is rejected here so it never reaches analysis.
func NewPriceBar(symbol, timeframe string, ts time.Time, open, high, low, close decimal.Decimal, tickVolume, realVolume int64, spread int) (PriceBar, error) {
	if ts.IsZero() {
		return PriceBar{}, fmt.Errorf("bar timestamp must be set: %s %s", symbol, timeframe)
	}
	if low.GreaterThan(open) || open.GreaterThan(high) {
		return PriceBar{}, fmt.Errorf("invalid OHLC: low (%s) <= open (%s) <= high (%s) violated, %s %s @ %s",
			low, open, high, symbol, timeframe, ts.UTC().Format(time.RFC3339))
	}
	if low.GreaterThan(close) || close.GreaterThan(high) {
		return PriceBar{}, fmt.Errorf("invalid OHLC: low (%s) <= close (%s) <= high (%s) violated, %s %s @ %s",
			low, close, high, symbol, timeframe, ts.UTC().Format(time.RFC3339))
	}
	if !low.IsPositive() {
		return PriceBar{}, fmt.Errorf("all prices must be positive, got O:%s H:%s L:%s C:%s", open, high, low, close)
	}
	if tickVolume < 0 {
		return PriceBar{}, fmt.Errorf("tick volume must be >= 0, got %d", tickVolume)
	}
	if realVolume < 0 {
		return PriceBar{}, fmt.Errorf("real volume must be >= 0, got %d", realVolume)
	}
	if spread < 0 {
		return PriceBar{}, fmt.Errorf("spread must be >= 0, got %d", spread)
	}
	return PriceBar{
		Symbol:     symbol,
		Timeframe:  timeframe,
		Timestamp:  ts.UTC(),
		Open:       open,
		High:       high,
		Low:        low,
		Close:      close,
		TickVolume: tickVolume,
		RealVolume: realVolume,
		Spread:     spread,
	}, nil
}
