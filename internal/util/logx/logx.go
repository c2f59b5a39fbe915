package logx

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

type Level int

const (
	Debug Level = iota
	Info
	Warn
	Error
)

func (l Level) zerolog() zerolog.Level {
	switch l {
	case Debug:
		return zerolog.DebugLevel
	case Warn:
		return zerolog.WarnLevel
	case Error:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// ParseLevel accepts debug, info, warn/warning and error.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return Debug, nil
	case "info", "":
		return Info, nil
	case "warn", "warning":
		return Warn, nil
	case "error":
		return Error, nil
	}
	return Info, fmt.Errorf("unknown log level %q", s)
}

var (
	mu       sync.Mutex
	level    = Info
	ring     = &ringWriter{max: 500}
	toStderr = false
	file     io.Writer
	logger   zerolog.Logger
)

func init() { rebuild() }

// rebuild must be called with mu held or before any logging happens.
func rebuild() {
	writers := []io.Writer{zerolog.ConsoleWriter{Out: ring, NoColor: true, TimeFormat: "2006-01-02T15:04:05.000Z07:00"}}
	if toStderr {
		// default off so the TUI is not broken; enable via KASALOG_LOG_STDERR=1
		writers = append(writers, zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05.000"})
	}
	if file != nil {
		writers = append(writers, file)
	}
	logger = zerolog.New(zerolog.MultiLevelWriter(writers...)).Level(level.zerolog()).With().Timestamp().Logger()
}

func SetLevel(l Level) { mu.Lock(); level = l; rebuild(); mu.Unlock() }

func SetStderr(on bool) { mu.Lock(); toStderr = on; rebuild(); mu.Unlock() }

// SetFile mirrors every log line as JSON to w. Pass nil to stop.
func SetFile(w io.Writer) { mu.Lock(); file = w; rebuild(); mu.Unlock() }

func SetLevelFromEnv() {
	if l, err := ParseLevel(os.Getenv("KASALOG_LOG_LEVEL")); err == nil {
		SetLevel(l)
	}
	if v := strings.ToLower(strings.TrimSpace(os.Getenv("KASALOG_LOG_STDERR"))); v != "" {
		SetStderr(v != "0" && v != "false" && v != "no")
	}
}

func Debugf(format string, a ...any) { logf(Debug, nil, format, a...) }
func Infof(format string, a ...any)  { logf(Info, nil, format, a...) }
func Warnf(format string, a ...any)  { logf(Warn, nil, format, a...) }
func Errorf(format string, a ...any) { logf(Error, nil, format, a...) }

// Logger tags every line with a fixed key/value pair.
type Logger struct {
	key, val string
}

func With(key, val string) *Logger { return &Logger{key: key, val: val} }

func (l *Logger) Debugf(format string, a ...any) { logf(Debug, l, format, a...) }
func (l *Logger) Infof(format string, a ...any)  { logf(Info, l, format, a...) }
func (l *Logger) Warnf(format string, a ...any)  { logf(Warn, l, format, a...) }
func (l *Logger) Errorf(format string, a ...any) { logf(Error, l, format, a...) }

func logf(l Level, tags *Logger, format string, a ...any) {
	mu.Lock()
	defer mu.Unlock()
	if l < level {
		return
	}
	ev := logger.WithLevel(l.zerolog())
	if tags != nil {
		ev = ev.Str(tags.key, tags.val)
	}
	ev.Msgf(format, a...)
}

func Dump() string {
	return strings.Join(Lines(), "\n")
}

func Lines() []string {
	return ring.lines()
}

// Reset drops every buffered line.
func Reset() {
	ring.mu.Lock()
	ring.buf = ring.buf[:0]
	ring.mu.Unlock()
}

type ringWriter struct {
	mu  sync.Mutex
	buf []string
	max int
}

func (r *ringWriter) Write(p []byte) (int, error) {
	line := strings.TrimRight(string(p), "\n")
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.buf) >= r.max {
		// drop oldest
		copy(r.buf[0:], r.buf[1:])
		r.buf = r.buf[:len(r.buf)-1]
	}
	r.buf = append(r.buf, line)
	return len(p), nil
}

func (r *ringWriter) lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.buf))
	copy(out, r.buf)
	return out
}
