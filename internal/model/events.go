package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// BOSDirection is the direction of a break of structure.
type BOSDirection string

const (
	BOSBullish BOSDirection = "bullish"
	BOSBearish BOSDirection = "bearish"
)

// BOSEvent records a confirmed trend-continuation break: price breaking
// through a prior swing in the direction implied by that swing's kind.
// Created once when the break is detected, never mutated or retracted.
type BOSEvent struct {
	Direction   BOSDirection
	BrokenSwing SwingPoint
	BreakPrice  decimal.Decimal
	BreakBar    PriceBar
	Timestamp   time.Time
}

func (e BOSEvent) String() string {
	return fmt.Sprintf("BOS(%s) @ %s broke %s at %s",
		e.Direction, e.BreakPrice, e.BrokenSwing.Kind, e.BrokenSwing.Price)
}

// CHoCHType is the direction of a change of character.
type CHoCHType string

const (
	CHoCHBullishToBearish CHoCHType = "bullish_to_bearish"
	CHoCHBearishToBullish CHoCHType = "bearish_to_bullish"
)

// CHoCHEvent records a counter-trend break, signaling a possible reversal.
// PriorTrend is the trend that existed before the break.
type CHoCHEvent struct {
	Type        CHoCHType
	BrokenSwing SwingPoint
	BreakPrice  decimal.Decimal
	BreakBar    PriceBar
	PriorTrend  TrendState
	Timestamp   time.Time
}

func (e CHoCHEvent) String() string {
	return fmt.Sprintf("CHoCH(%s) @ %s broke %s at %s",
		e.Type, e.BreakPrice, e.BrokenSwing.Kind, e.BrokenSwing.Price)
}
