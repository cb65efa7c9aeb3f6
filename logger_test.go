package modhook

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/mock"
)

type logEntry struct {
	level string
	msg   string
	args  []any
}

func (e logEntry) String() string {
	return fmt.Sprintf("%s %s %v", e.level, e.msg, e.args)
}

// recordingLogger keeps every entry so tests can count what was logged.
type recordingLogger struct {
	mu      sync.Mutex
	entries []logEntry
}

func (l *recordingLogger) add(level, msg string, args []any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, logEntry{level: level, msg: msg, args: args})
}

func (l *recordingLogger) Info(msg string, args ...any)  { l.add("INFO", msg, args) }
func (l *recordingLogger) Error(msg string, args ...any) { l.add("ERROR", msg, args) }
func (l *recordingLogger) Warn(msg string, args ...any)  { l.add("WARN", msg, args) }
func (l *recordingLogger) Debug(msg string, args ...any) { l.add("DEBUG", msg, args) }

func (l *recordingLogger) all() []logEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]logEntry(nil), l.entries...)
}

// at returns the entries at level.
func (l *recordingLogger) at(level string) []logEntry {
	var out []logEntry
	for _, e := range l.all() {
		if e.level == level {
			out = append(out, e)
		}
	}
	return out
}

// containing returns the entries whose rendering contains s.
func (l *recordingLogger) containing(s string) []logEntry {
	var out []logEntry
	for _, e := range l.all() {
		if strings.Contains(e.String(), s) {
			out = append(out, e)
		}
	}
	return out
}

// testLogger forwards to t.Log so failures show plugin output.
type testLogger struct {
	t *testing.T
}

func (l *testLogger) Info(msg string, args ...any)  { l.t.Log("INFO", msg, args) }
func (l *testLogger) Error(msg string, args ...any) { l.t.Log("ERROR", msg, args) }
func (l *testLogger) Warn(msg string, args ...any)  { l.t.Log("WARN", msg, args) }
func (l *testLogger) Debug(msg string, args ...any) { l.t.Log("DEBUG", msg, args) }

// MockLogger
type MockLogger struct {
	mock.Mock
}

func (m *MockLogger) Debug(msg string, args ...interface{}) {
	m.Called(msg, args)
}

func (m *MockLogger) Info(msg string, args ...interface{}) {
	m.Called(msg, args)
}

func (m *MockLogger) Warn(msg string, args ...interface{}) {
	m.Called(msg, args)
}

func (m *MockLogger) Error(msg string, args ...interface{}) {
	m.Called(msg, args)
}
