// Package runlog writes the run log: timestamped, CSV-parsable lines to a
// log file and to standard error through one explicitly constructed handle.
package runlog

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Level is the lowest severity a Logger writes.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelError
)

// String returns the tag written into log lines.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelError:
		return "ERROR"
	}
	return "UNKNOWN"
}

// ParseLevel maps a configuration string to a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "error":
		return LevelError, nil
	}
	return LevelDebug, fmt.Errorf("unknown log level %q", s)
}

// Logger is the run log handle. Lines are written as
// "2006-01-02 15:04:05,LEVEL,\"message\"" so the log file doubles as a CSV.
// A run owns exactly one Logger and must Close it when done.
type Logger struct {
	file    *os.File
	console io.Writer
	level   Level
}

// New creates the log folder if needed and opens <name>.log.csv inside it,
// truncating any previous run's file.
func New(dir, name string, level Level) (*Logger, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log folder %s: %w", dir, err)
	}
	path := filepath.Join(dir, name+".log.csv")
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("open log file %s: %w", path, err)
	}
	return &Logger{file: f, console: os.Stderr, level: level}, nil
}

// Path returns the log file location.
func (l *Logger) Path() string {
	if l.file == nil {
		return ""
	}
	return l.file.Name()
}

// Debugf logs at debug severity.
func (l *Logger) Debugf(format string, args ...any) {
	l.write(LevelDebug, format, args)
}

// Infof logs at info severity.
func (l *Logger) Infof(format string, args ...any) {
	l.write(LevelInfo, format, args)
}

// Errorf logs at error severity.
func (l *Logger) Errorf(format string, args ...any) {
	l.write(LevelError, format, args)
}

func (l *Logger) write(lv Level, format string, args []any) {
	if lv < l.level {
		return
	}
	msg := fmt.Sprintf(format, args...)
	line := time.Now().Format("2006-01-02 15:04:05") + "," + lv.String() + "," + quote(msg) + "\n"
	if l.file != nil {
		l.file.WriteString(line)
	}
	if l.console != nil {
		io.WriteString(l.console, line)
	}
}

// Close flushes and releases the log file. The logger must not be used
// after Close.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	err := l.file.Sync()
	if cerr := l.file.Close(); err == nil {
		err = cerr
	}
	l.file = nil
	return err
}

// quote wraps s in double quotes, doubling any it contains, so the message
// column stays CSV-parsable.
func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
