// Package metrics keeps wall-clock timers for the stages of a run.
package metrics

import (
	"sort"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// Timers records the elapsed time of named stages. Stages loaded in
// parallel may share one Timers value.
type Timers struct {
	mu     sync.Mutex
	Timers map[string]*Timer `json:"timers,omitempty"`
	last   string
}

type Timer struct {
	start time.Time

	// Total time in seconds, set once the timer is stopped.
	Total float64 `json:"seconds"`
}

func NewTimers() *Timers {
	return &Timers{Timers: make(map[string]*Timer)}
}

// set starts the timer k, or stops it when already running.
func (ts *Timers) set(k string) {
	t, ok := ts.Timers[k]
	if !ok {
		ts.Timers[k] = &Timer{start: time.Now()}
		return
	}
	t.Total = time.Since(t.start).Seconds()
}

// Add starts a new timer, or stops it when called again with the same key.
func (ts *Timers) Add(k string) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.set(k)
}

// Lap stops the previous lap timer and starts k.
func (ts *Timers) Lap(k string) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	if ts.last != "" {
		ts.set(ts.last)
	}
	ts.set(k)
	ts.last = k
}

// Measure times fn under key k.
func (ts *Timers) Measure(k string, fn func() error) error {
	ts.Add(k)
	defer ts.Add(k)
	return fn()
}

// Seconds returns the total of a stopped timer.
func (ts *Timers) Seconds(k string) (float64, bool) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	t, ok := ts.Timers[k]
	if !ok {
		return 0, false
	}
	return t.Total, true
}

// Snapshot returns the totals by timer name.
func (ts *Timers) Snapshot() map[string]float64 {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	out := make(map[string]float64, len(ts.Timers))
	for k, t := range ts.Timers {
		out[k] = t.Total
	}
	return out
}

// Log writes every timer at debug level, sorted by name.
func (ts *Timers) Log() {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	keys := make([]string, 0, len(ts.Timers))
	for k := range ts.Timers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		log.Debugf("timer %s: %.3fs", k, ts.Timers[k].Total)
	}
}
