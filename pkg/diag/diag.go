// Package diag is the synchronized diagnostic sink: severity-tagged,
// optionally colored console output serialized behind one lock so that
// concurrently faulting goroutines never interleave lines.
//
// Informational messages go to stdout in green, errors to stderr in red,
// each stream probed independently for terminal attachment so redirecting
// one does not affect the other. When a stream is not a terminal, output
// degrades to plain text.
//
// Writes are unbounded: a stalled stream stalls the caller. Deployments
// that cannot tolerate that should route fault events through
// sinks/async instead of relying on this logger's latency.
package diag

import (
	"io"
	"os"
	"sync"

	"golang.org/x/term"
)

// ColorMode controls colored output.
type ColorMode int

const (
	// ColorAuto colors a stream only when it is an attached terminal.
	ColorAuto ColorMode = iota

	// ColorAlways colors unconditionally.
	ColorAlways

	// ColorNever emits plain text.
	ColorNever
)

// ANSI sequences. Bright green for informational, bright red for errors,
// reset restores the stream's prior attributes.
const (
	ansiGreen = "\033[32;1m"
	ansiRed   = "\033[31;1m"
	ansiReset = "\033[0m"
)

const (
	infoPrefix  = "[INFO] "
	errorPrefix = "[ERROR] "
)

// stream is one output channel with its resolved color capability.
type stream struct {
	w     io.Writer
	color bool
}

// Logger is a thread-safe, severity-colored diagnostic sink. The zero
// value is not usable; construct with New.
type Logger struct {
	mu          sync.Mutex
	mode        ColorMode
	outW, errW  io.Writer
	out, errOut stream
	initialized bool
}

// LoggerOption configures a Logger.
type LoggerOption func(*Logger)

// WithStreams overrides the output channels. Defaults are os.Stdout for
// informational messages and os.Stderr for errors.
func WithStreams(out, err io.Writer) LoggerOption {
	return func(l *Logger) {
		l.outW = out
		l.errW = err
	}
}

// WithColor overrides terminal auto-detection.
func WithColor(mode ColorMode) LoggerOption {
	return func(l *Logger) {
		l.mode = mode
	}
}

// New creates a logger. Stream identities and color capabilities are
// resolved lazily on first emission, under the emission lock, exactly once.
func New(opts ...LoggerOption) *Logger {
	l := &Logger{}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// initLocked resolves streams and their color capability. Callers must
// hold l.mu; the first emitter across all goroutines performs this, not
// each caller independently.
func (l *Logger) initLocked() {
	if l.initialized {
		return
	}
	if l.outW == nil {
		l.outW = os.Stdout
	}
	if l.errW == nil {
		l.errW = os.Stderr
	}
	l.out = stream{w: l.outW, color: l.colorFor(l.outW)}
	l.errOut = stream{w: l.errW, color: l.colorFor(l.errW)}
	l.initialized = true
}

func (l *Logger) colorFor(w io.Writer) bool {
	switch l.mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	if f, ok := w.(*os.File); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}

// LogInfo emits an informational line to stdout.
func (l *Logger) LogInfo(message string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.initLocked()
	l.emitLocked(&l.out, ansiGreen, infoPrefix, message)
}

// LogError emits an error line to stderr.
func (l *Logger) LogError(message string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.initLocked()
	l.emitLocked(&l.errOut, ansiRed, errorPrefix, message)
}

// emitLocked writes one complete line: color on, prefix, message, newline,
// color restored. Write errors are swallowed; emission is best-effort and
// must never become a fault source. The lock is held across the whole
// sequence so the color state is always restored before the next message.
func (l *Logger) emitLocked(s *stream, color, prefix, message string) {
	if s.color {
		io.WriteString(s.w, color)
	}
	io.WriteString(s.w, prefix)
	io.WriteString(s.w, message)
	if s.color {
		// Restore attributes before the line terminator so partial
		// reads never observe a colored prompt.
		io.WriteString(s.w, ansiReset)
	}
	io.WriteString(s.w, "\n")
}

// Process-wide default logger. The singleton handle exists because host
// callback signatures leave no room for a context parameter; everything
// else should inject a *Logger explicitly.
var (
	defaultOnce   sync.Once
	defaultLogger *Logger
)

// Default returns the process-wide logger, creating it on first use.
func Default() *Logger {
	defaultOnce.Do(func() {
		defaultLogger = New()
	})
	return defaultLogger
}

// LogInfo emits an informational line through the process-wide logger.
func LogInfo(message string) {
	Default().LogInfo(message)
}

// LogError emits an error line through the process-wide logger.
func LogError(message string) {
	Default().LogError(message)
}
