// Package log provides leveled, optionally colorized logging for the
// selector engine and its surrounding tooling: call sites reach for
// log.Debug(...) the same way they would reach for fmt.Printf, with
// output gated by a package-level level and silenced entirely below it.
package log

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/starkandwayne/goutils/ansi"
)

// Level orders verbosity from quietest to loudest.
type Level int

const (
	ERROR Level = iota
	WARN
	INFO
	DEBUG
	VERBOSE
)

func (l Level) String() string {
	switch l {
	case ERROR:
		return "ERROR"
	case WARN:
		return "WARN"
	case INFO:
		return "INFO"
	case DEBUG:
		return "DEBUG"
	case VERBOSE:
		return "VERBOSE"
	default:
		return "UNKNOWN"
	}
}

// Sink receives formatted log lines. Tests and embedders can supply
// their own to capture or redirect output instead of depending on the
// package-level writer.
type Sink interface {
	Write(level Level, msg string)
}

type writerSink struct {
	w     io.Writer
	color bool
}

func (s *writerSink) Write(level Level, msg string) {
	prefix := fmt.Sprintf("%s: ", level)
	if s.color {
		fmt.Fprint(s.w, ansi.Sprintf(colorFor(level)+"%s@{|}%s\n", prefix, msg))
	} else {
		fmt.Fprintf(s.w, "%s%s\n", prefix, msg)
	}
}

func colorFor(level Level) string {
	switch level {
	case ERROR:
		return "@R{"
	case WARN:
		return "@Y{"
	case INFO:
		return "@G{"
	default:
		return "@B{"
	}
}

var (
	mu       sync.Mutex
	level    = WARN
	sink     Sink = &writerSink{w: os.Stderr, color: isatty.IsTerminal(os.Stderr.Fd())}
)

// SetLevel sets the minimum level that will be emitted.
func SetLevel(l Level) {
	mu.Lock()
	defer mu.Unlock()
	level = l
}

// RaiseVerbosity bumps the level up by n steps, capped at VERBOSE. It
// mirrors CLI front ends that accumulate repeated -v flags; this engine
// never parses flags itself (CLI dispatch is out of scope) but embedders
// commonly wire it to one.
func RaiseVerbosity(n int) {
	mu.Lock()
	defer mu.Unlock()
	level += Level(n)
	if level > VERBOSE {
		level = VERBOSE
	}
}

// CurrentLevel returns the active gate.
func CurrentLevel() Level {
	mu.Lock()
	defer mu.Unlock()
	return level
}

// SetSink replaces the destination for emitted log lines.
func SetSink(s Sink) {
	mu.Lock()
	defer mu.Unlock()
	sink = s
}

// SetColor toggles ANSI colorization on the default writer sink. No-op
// when a custom Sink has been installed via SetSink.
func SetColor(enabled bool) {
	mu.Lock()
	defer mu.Unlock()
	if ws, ok := sink.(*writerSink); ok {
		ws.color = enabled
	}
}

func emit(l Level, format string, args ...interface{}) {
	mu.Lock()
	gate, s := level, sink
	mu.Unlock()
	if l > gate {
		return
	}
	s.Write(l, fmt.Sprintf(format, args...))
}

// Error logs at ERROR level.
func Error(format string, args ...interface{}) { emit(ERROR, format, args...) }

// Warn logs at WARN level.
func Warn(format string, args ...interface{}) { emit(WARN, format, args...) }

// Info logs at INFO level.
func Info(format string, args ...interface{}) { emit(INFO, format, args...) }

// Debug logs at DEBUG level.
func Debug(format string, args ...interface{}) { emit(DEBUG, format, args...) }

// Verbose logs at VERBOSE level.
func Verbose(format string, args ...interface{}) { emit(VERBOSE, format, args...) }
