package structure

import (
	"errors"
	"reflect"
	"testing"

	"github.com/kipto05/ict-ml/internal/model"
)

func TestNewSwingDetector_InvalidLookback(t *testing.T) {
	for _, lookback := range []int{0, -1, -5} {
		if _, err := NewSwingDetector(lookback); err == nil {
			t.Errorf("lookback %d: expected error, got nil", lookback)
		}
	}
}

func TestDetectSwings_SingleStrictHigh(t *testing.T) {
	// 11 bars, lookback 5: only index 5 is eligible, and it carries the
	// strict maximum high with no ties on the right.
	highs := []float64{100, 101, 102, 103, 104, 110, 105, 104, 103, 102, 101}
	lows := []float64{95, 96, 97, 98, 99, 105, 100, 99, 98, 97, 96}
	bars := mkBarsHL(t, highs, lows)

	d, err := NewSwingDetector(5)
	if err != nil {
		t.Fatal(err)
	}
	swings, err := d.DetectSwings(bars)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(swings) != 1 {
		t.Fatalf("expected exactly 1 swing, got %d: %v", len(swings), swings)
	}
	s := swings[0]
	if s.Kind != model.SwingHigh {
		t.Errorf("expected swing high, got %s", s.Kind)
	}
	if s.Index != 5 {
		t.Errorf("expected index 5, got %d", s.Index)
	}
	if s.Lookback != 5 {
		t.Errorf("expected lookback 5, got %d", s.Lookback)
	}
	if s.Strength != 10 {
		t.Errorf("expected strength 10 (all neighbors below), got %d", s.Strength)
	}
	if !s.Price.Equal(bars[5].High) {
		t.Errorf("expected price %s, got %s", bars[5].High, s.Price)
	}
	if !s.Timestamp.Equal(bars[5].Timestamp) {
		t.Errorf("expected timestamp %v, got %v", bars[5].Timestamp, s.Timestamp)
	}

	stats := d.Stats()
	if stats.TotalSwings != 1 || stats.Highs != 1 || stats.Lows != 0 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}

func TestDetectSwings_InsufficientData(t *testing.T) {
	d, err := NewSwingDetector(5)
	if err != nil {
		t.Fatal(err)
	}

	// Empty input: quiet empty result.
	swings, err := d.DetectSwings(nil)
	if err != nil {
		t.Fatalf("empty input should not error: %v", err)
	}
	if len(swings) != 0 {
		t.Fatalf("expected no swings, got %d", len(swings))
	}

	// 10 bars < 2*5+1: still quiet.
	highs := []float64{100, 101, 102, 103, 104, 110, 105, 104, 103, 102}
	lows := []float64{95, 96, 97, 98, 99, 105, 100, 99, 98, 97}
	swings, err = d.DetectSwings(mkBarsHL(t, highs, lows))
	if err != nil {
		t.Fatalf("short input should not error: %v", err)
	}
	if len(swings) != 0 {
		t.Fatalf("expected no swings from short input, got %d", len(swings))
	}
}

func TestDetectSwings_OutOfOrder(t *testing.T) {
	bars := mkBarsHL(t,
		[]float64{100, 101, 102, 103, 104},
		[]float64{95, 96, 97, 98, 99})
	bars[1], bars[3] = bars[3], bars[1]

	d, _ := NewSwingDetector(1)
	if _, err := d.DetectSwings(bars); !errors.Is(err, ErrOutOfOrder) {
		t.Fatalf("expected ErrOutOfOrder, got %v", err)
	}

	// Duplicate timestamps are also a sequencing error.
	dup := mkBarsHL(t, []float64{100, 101, 102}, []float64{95, 96, 97})
	dup[2].Timestamp = dup[1].Timestamp
	if _, err := d.DetectSwings(dup); !errors.Is(err, ErrOutOfOrder) {
		t.Fatalf("expected ErrOutOfOrder for duplicate timestamps, got %v", err)
	}
}

func TestDetectSwings_NoLookahead(t *testing.T) {
	// Zig-zag with a spike near the end: the final lookback bars must
	// never be confirmed as swings no matter how extreme they are.
	highs := []float64{100, 108, 101, 107, 102, 109, 103, 106, 104, 120, 121}
	lows := []float64{90, 95, 88, 94, 89, 96, 87, 93, 86, 97, 70}
	bars := mkBarsHL(t, highs, lows)

	for _, lookback := range []int{1, 2, 3} {
		d, _ := NewSwingDetector(lookback)
		swings, err := d.DetectSwings(bars)
		if err != nil {
			t.Fatalf("lookback %d: %v", lookback, err)
		}
		for _, s := range swings {
			if s.Index >= len(bars)-lookback {
				t.Errorf("lookback %d: swing at index %d is within the unconfirmed tail", lookback, s.Index)
			}
			if s.Index < lookback {
				t.Errorf("lookback %d: swing at index %d lacks a full left window", lookback, s.Index)
			}
		}
	}
}

func TestDetectSwings_Deterministic(t *testing.T) {
	highs := []float64{100, 108, 101, 107, 102, 109, 103, 106, 104, 105, 102}
	lows := []float64{90, 95, 88, 94, 89, 96, 87, 93, 86, 92, 85}
	bars := mkBarsHL(t, highs, lows)

	d, _ := NewSwingDetector(2)
	first, err := d.DetectSwings(bars)
	if err != nil {
		t.Fatal(err)
	}
	second, err := d.DetectSwings(bars)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("repeated detection differs:\nfirst:  %v\nsecond: %v", first, second)
	}
}

func TestDetectSwings_TieHandling(t *testing.T) {
	d, _ := NewSwingDetector(1)

	// Tie on the right does not disqualify a swing high.
	swings, err := d.DetectSwings(mkBarsHL(t,
		[]float64{100, 105, 105},
		[]float64{95, 98, 99}))
	if err != nil {
		t.Fatal(err)
	}
	if len(swings) != 1 || swings[0].Kind != model.SwingHigh || swings[0].Index != 1 {
		t.Fatalf("expected one swing high at index 1, got %v", swings)
	}
	// Only the left neighbor is strictly below, so strength is 1.
	if swings[0].Strength != 1 {
		t.Errorf("expected strength 1, got %d", swings[0].Strength)
	}

	// Tie on the left disqualifies.
	swings, err = d.DetectSwings(mkBarsHL(t,
		[]float64{105, 105, 100},
		[]float64{98, 95, 94}))
	if err != nil {
		t.Fatal(err)
	}
	for _, s := range swings {
		if s.Kind == model.SwingHigh {
			t.Fatalf("left-side tie must disqualify the swing high, got %v", s)
		}
	}
}

func TestDetectSwings_DoubleDetection(t *testing.T) {
	// A wide-range center bar can be a swing high and a swing low at once;
	// both are emitted independently.
	bars := []model.PriceBar{
		mkBar(t, 0, 98, 100, 95, 99),
		mkBar(t, 1, 100, 110, 90, 95),
		mkBar(t, 2, 97, 105, 96, 100),
	}
	d, _ := NewSwingDetector(1)
	swings, err := d.DetectSwings(bars)
	if err != nil {
		t.Fatal(err)
	}
	if len(swings) != 2 {
		t.Fatalf("expected high and low at the same bar, got %d swings: %v", len(swings), swings)
	}
	if swings[0].Index != 1 || swings[1].Index != 1 {
		t.Errorf("both swings should sit at index 1: %v", swings)
	}
	stats := d.Stats()
	if stats.Highs != 1 || stats.Lows != 1 {
		t.Errorf("expected one high and one low in stats, got %+v", stats)
	}
}

func TestDetectSwings_StatsResetPerRun(t *testing.T) {
	highs := []float64{100, 110, 100}
	lows := []float64{95, 105, 96}
	bars := mkBarsHL(t, highs, lows)

	d, _ := NewSwingDetector(1)
	if _, err := d.DetectSwings(bars); err != nil {
		t.Fatal(err)
	}
	if _, err := d.DetectSwings(bars); err != nil {
		t.Fatal(err)
	}
	// Counts describe the latest run, not the detector lifetime.
	if got := d.Stats().TotalSwings; got != 1 {
		t.Errorf("expected stats from one run only, got %d swings", got)
	}

	d.ResetStats()
	if got := d.Stats(); got.TotalSwings != 0 || got.Lookback != 1 {
		t.Errorf("expected cleared stats keeping lookback, got %+v", got)
	}
}

func TestLastSwingHelpers(t *testing.T) {
	swings := []model.SwingPoint{
		mkSwing(t, model.SwingHigh, 2, 105),
		mkSwing(t, model.SwingLow, 4, 95),
		mkSwing(t, model.SwingHigh, 6, 108),
	}
	if h := LastSwingHigh(swings); h == nil || h.Index != 6 {
		t.Errorf("expected last high at index 6, got %v", h)
	}
	if l := LastSwingLow(swings); l == nil || l.Index != 4 {
		t.Errorf("expected last low at index 4, got %v", l)
	}
	if h := LastSwingHigh(nil); h != nil {
		t.Errorf("expected nil for empty input, got %v", h)
	}
}
