// Package logger provides the process-wide leveled logger used by the
// engine and its CLI, built on zerolog. Output is written through a
// non-blocking diode writer whose background goroutine drains buffered
// lines to the destination, so logging on the hot path never blocks a
// worker.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/diode"
)

// Config controls logger construction.
type Config struct {
	// Level is one of debug, info, warn, error. Defaults to info.
	Level string

	// Output is stdout or stderr. Defaults to stdout.
	Output string

	// Console enables human-readable console formatting instead of JSON.
	Console bool

	// Caller adds file:line of the call site to every event.
	Caller bool

	// BufferSize is the diode ring size. Defaults to 1024 lines.
	BufferSize int
}

// Logger wraps a zerolog.Logger together with its drain writer.
type Logger struct {
	zerolog.Logger
	drain io.Closer
}

// New creates a logger from config.
func New(cfg Config) *Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	size := cfg.BufferSize
	if size <= 0 {
		size = 1024
	}

	// The destination is wrapped so that Close, which closes the wrapped
	// writer when it is an io.Closer, leaves the process stream open.
	w := diode.NewWriter(struct{ io.Writer }{destination(cfg.Output)}, size, 10*time.Millisecond, func(missed int) {
		fmt.Fprintf(os.Stderr, "logger dropped %d messages\n", missed)
	})

	var out io.Writer = w
	if cfg.Console {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.DateTime}
	}

	zl := zerolog.New(out).Level(level).With().Timestamp().Logger()
	if cfg.Caller {
		zl = zl.With().Caller().Logger()
	}

	return &Logger{Logger: zl, drain: w}
}

// NewFromEnv creates a logger configured from LOG_LEVEL, LOG_OUTPUT,
// LOG_FORMAT and LOG_CALLER environment variables.
func NewFromEnv() *Logger {
	return New(Config{
		Level:   os.Getenv("LOG_LEVEL"),
		Output:  os.Getenv("LOG_OUTPUT"),
		Console: strings.EqualFold(os.Getenv("LOG_FORMAT"), "console"),
		Caller:  os.Getenv("LOG_CALLER") == "true",
	})
}

// Nop returns a logger that discards everything. Library entry points use
// it as the default so embedding the engine stays silent.
func Nop() *Logger {
	return &Logger{Logger: zerolog.Nop()}
}

// Close flushes and stops the background drain goroutine. Buffered lines
// are written before Close returns.
func (l *Logger) Close() error {
	if l.drain == nil {
		return nil
	}
	return l.drain.Close()
}

func destination(name string) *os.File {
	if strings.EqualFold(name, "stderr") {
		return os.Stderr
	}
	return os.Stdout
}
