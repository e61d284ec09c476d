// Package audit provides the append-only action log used for diagnostic
// trails. It is write-only from the core's point of view and is never
// consulted for control flow.
package audit

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const timestampLayout = "2006-01-02 15:04:05"

// Logger appends timestamped action lines to one or more sinks.
type Logger struct {
	mu   sync.Mutex
	out  io.Writer
	file *os.File
}

// New creates a logger writing to the given sink.
func New(out io.Writer) *Logger {
	return &Logger{out: out}
}

// NewWithFile creates a logger writing to the given sink and additionally
// appending to the file at path, creating parent directories as needed.
func NewWithFile(out io.Writer, path string) (*Logger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	return &Logger{out: out, file: f}, nil
}

// Discard creates a logger that drops everything. Useful in tests.
func Discard() *Logger {
	return &Logger{out: io.Discard}
}

// Log appends one action line. Actor and details may be empty.
func (l *Logger) Log(action, actor, details string) {
	timestamp := time.Now().Format(timestampLayout)

	line := "[" + timestamp + "]"
	if actor != "" {
		line += " [" + actor + "]"
	}
	line += " " + action
	if details != "" {
		line += " - " + details
	}
	line += "\n"

	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprint(l.out, line)
	if l.file != nil {
		fmt.Fprint(l.file, line)
	}
}

// Close closes the log file, if any.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return nil
	}
	return l.file.Close()
}
