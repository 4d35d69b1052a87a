package flowgraph

import (
	"fmt"
	"io"
	"sort"
	"sync"
	"time"
)

// Record is one node's measured execution time.
type Record struct {
	Node     string
	Duration time.Duration
}

// Profiler is a thread-safe append-only collection of per-node timings.
// Records are consumed only after the run terminates.
type Profiler struct {
	mu      sync.Mutex
	records []Record
}

// NewProfiler creates an empty profiler.
func NewProfiler() *Profiler {
	return &Profiler{}
}

func (p *Profiler) add(node string, d time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.records = append(p.records, Record{Node: node, Duration: d})
}

// Records returns a snapshot of the collected timings.
func (p *Profiler) Records() []Record {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Record(nil), p.records...)
}

// WriteReport writes a fixed-width table sorted by duration descending.
// The total row is the sum of durations across nodes, which exceeds wall
// clock under parallelism; it is a per-node relative cost metric, not a
// runtime measurement.
func (p *Profiler) WriteReport(w io.Writer) {
	records := p.Records()
	if len(records) == 0 {
		fmt.Fprintln(w, "\n--- Profiling Report (no nodes executed) ---")
		return
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].Duration > records[j].Duration
	})

	var total time.Duration
	for _, r := range records {
		total += r.Duration
	}

	fmt.Fprintln(w, "\n--- Profiling Report ---")
	fmt.Fprintf(w, "%-30s%15s%10s\n", "Node Name", "Duration (ms)", "% of Total")
	fmt.Fprintln(w, reportRule)
	for _, r := range records {
		pct := 0.0
		if total > 0 {
			pct = float64(r.Duration) / float64(total) * 100.0
		}
		fmt.Fprintf(w, "%-30s%15.3f%9.1f%%\n", r.Node, millis(r.Duration), pct)
	}
	fmt.Fprintln(w, reportRule)
	fmt.Fprintf(w, "%-30s%15.3f\n", "Total (sum of durations)", millis(total))
}

const reportRule = "-------------------------------------------------------"

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
