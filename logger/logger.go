// Package logger implements a small ring-buffer event log for things a host
// might want to inspect after the fact but that have no place in the
// per-tick hot path of the CPU or video controller.
package logger

import (
	"fmt"
	"io"
)

// Permission is implemented by anything that can be asked whether logging
// should be allowed right now. Allow always permits logging.
type Permission interface {
	AllowLogging() bool
}

type allowAll struct{}

func (allowAll) AllowLogging() bool { return true }

// Allow is the Permission that always allows logging.
var Allow Permission = allowAll{}

type entry struct {
	tag    string
	detail string
}

// Logger is a fixed-capacity ring buffer of log entries.
type Logger struct {
	entries []entry
	limit   int
}

// NewLogger creates a Logger that retains at most limit entries, discarding
// the oldest once full.
func NewLogger(limit int) *Logger {
	return &Logger{limit: limit}
}

func formatDetail(v interface{}) string {
	switch v := v.(type) {
	case error:
		return v.Error()
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}

// Log appends a new entry if perm allows logging.
func (l *Logger) Log(perm Permission, tag string, detail interface{}) {
	if !perm.AllowLogging() {
		return
	}
	l.append(tag, formatDetail(detail))
}

// Logf appends a new formatted entry if perm allows logging.
func (l *Logger) Logf(perm Permission, tag string, format string, args ...interface{}) {
	if !perm.AllowLogging() {
		return
	}
	l.append(tag, fmt.Sprintf(format, args...))
}

func (l *Logger) append(tag, detail string) {
	l.entries = append(l.entries, entry{tag: tag, detail: detail})
	if l.limit > 0 && len(l.entries) > l.limit {
		l.entries = l.entries[len(l.entries)-l.limit:]
	}
}

// Clear empties the log.
func (l *Logger) Clear() {
	l.entries = l.entries[:0]
}

// Write writes every retained entry to w, one per line.
func (l *Logger) Write(w io.Writer) {
	for _, e := range l.entries {
		fmt.Fprintf(w, "%s: %s\n", e.tag, e.detail)
	}
}

// Tail writes at most the n most recent entries to w, one per line.
func (l *Logger) Tail(w io.Writer, n int) {
	if n > len(l.entries) {
		n = len(l.entries)
	}
	for _, e := range l.entries[len(l.entries)-n:] {
		fmt.Fprintf(w, "%s: %s\n", e.tag, e.detail)
	}
}
