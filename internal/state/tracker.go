// Package state persists per-target scan watermarks so scheduled scans
// skip windows where no new closed bar has arrived.
package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

type fileState struct {
	LastBarSeen map[string]time.Time `json:"last_bar_seen"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

// Tracker records the newest bar timestamp analyzed per symbol/timeframe,
// backed by a JSON file. Safe for concurrent use.
type Tracker struct {
	path  string
	mu    sync.Mutex
	marks map[string]time.Time
}

// NewTracker loads existing state from path, or starts empty if the file
// does not exist yet.
func NewTracker(path string) (*Tracker, error) {
	t := &Tracker{path: path, marks: make(map[string]time.Time)}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return t, nil
		}
		return nil, fmt.Errorf("read state file: %w", err)
	}
	var fs fileState
	if err := json.Unmarshal(data, &fs); err != nil {
		return nil, fmt.Errorf("parse state file: %w", err)
	}
	if fs.LastBarSeen != nil {
		t.marks = fs.LastBarSeen
	}
	return t, nil
}

func key(symbol, timeframe string) string { return symbol + "|" + timeframe }

// LastSeen returns the newest analyzed bar timestamp for a target.
func (t *Tracker) LastSeen(symbol, timeframe string) (time.Time, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	ts, ok := t.marks[key(symbol, timeframe)]
	return ts, ok
}

// Advance records a newer bar timestamp and persists the state. Older or
// equal timestamps are ignored.
func (t *Tracker) Advance(symbol, timeframe string, ts time.Time) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	k := key(symbol, timeframe)
	if prev, ok := t.marks[k]; ok && !ts.After(prev) {
		return nil
	}
	t.marks[k] = ts.UTC()
	return t.save()
}

func (t *Tracker) save() error {
	fs := fileState{LastBarSeen: t.marks, UpdatedAt: time.Now().UTC()}
	data, err := json.MarshalIndent(fs, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(t.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create state dir: %w", err)
		}
	}
	return os.WriteFile(t.path, data, 0644)
}
