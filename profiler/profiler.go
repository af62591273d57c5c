// Package profiler - Timing of the stages of a processing loop.
package profiler

import (
	"sort"
	"sync"
	"time"

	"github.com/cyclopcam/logs"
)

// Timing summarises the recorded durations of one operation.
type Timing struct {
	Name  string
	Count int64
	Total time.Duration
	Min   time.Duration
	Max   time.Duration
}

// Mean returns the average duration, or 0 when nothing was recorded.
func (t Timing) Mean() time.Duration {
	if t.Count == 0 {
		return 0
	}
	return t.Total / time.Duration(t.Count)
}

// Profiler collects operation timings. It is safe for concurrent use.
type Profiler struct {
	mu  sync.Mutex
	ops map[string]*Timing
}

// New returns an empty Profiler.
func New() *Profiler {
	return &Profiler{ops: map[string]*Timing{}}
}

// StartOperation begins timing an operation.
//
// Returns:
// - A function to call when the operation completes
func (p *Profiler) StartOperation(name string) func() {
	start := time.Now()
	return func() {
		p.Record(name, time.Since(start))
	}
}

// Record adds one duration to the named operation.
func (p *Profiler) Record(name string, d time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	t, ok := p.ops[name]
	if !ok {
		t = &Timing{Name: name, Min: d, Max: d}
		p.ops[name] = t
	}
	t.Count++
	t.Total += d
	if d < t.Min {
		t.Min = d
	}
	if d > t.Max {
		t.Max = d
	}
}

// Timings returns a snapshot of every operation, sorted by name.
func (p *Profiler) Timings() []Timing {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]Timing, 0, len(p.ops))
	for _, t := range p.ops {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Report logs one line per operation.
func (p *Profiler) Report(log logs.Log) {
	for _, t := range p.Timings() {
		log.Infof("%v: avg=%v, min=%v, max=%v, count=%v",
			t.Name,
			t.Mean().Truncate(time.Microsecond),
			t.Min.Truncate(time.Microsecond),
			t.Max.Truncate(time.Microsecond),
			t.Count)
	}
}
