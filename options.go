package flowgraph

import (
	"io"
	"os"
	"runtime"

	"github.com/rs/zerolog"
)

// runOptions holds per-run configuration.
type runOptions struct {
	workers    int
	profiling  bool
	profileOut io.Writer
	log        zerolog.Logger
}

// RunOption configures a single Graph.Run call.
type RunOption func(*runOptions)

func defaultRunOptions() runOptions {
	return runOptions{
		workers:    runtime.NumCPU(),
		profileOut: os.Stdout,
		log:        zerolog.Nop(),
	}
}

// WithWorkers sets the worker count. Values below 1 are coerced to 1.
func WithWorkers(n int) RunOption {
	return func(o *runOptions) {
		o.workers = n
	}
}

// WithProfiling enables per-node timing collection. The report is written
// after the run terminates, before any error is returned, so partial timings
// are visible on failure.
func WithProfiling() RunOption {
	return func(o *runOptions) {
		o.profiling = true
	}
}

// WithProfileOutput redirects the profiling report. Defaults to stdout.
func WithProfileOutput(w io.Writer) RunOption {
	return func(o *runOptions) {
		o.profileOut = w
	}
}

// WithLogger attaches a logger to the run. Defaults to a no-op logger so
// library use is silent.
func WithLogger(log zerolog.Logger) RunOption {
	return func(o *runOptions) {
		o.log = log
	}
}
