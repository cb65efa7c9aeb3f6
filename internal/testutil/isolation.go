// Package testutil holds helpers shared by tests in several packages.
package testutil

import (
	"os"
	"strings"
	"testing"
)

// IsolateEnv removes every environment variable whose name starts with
// prefix for the rest of the test, so configuration loaded from the
// environment only sees what the test sets. The original values are
// restored by t.Cleanup. Tests that call it cannot run in parallel.
func IsolateEnv(t *testing.T, prefix string) {
	t.Helper()
	for _, kv := range os.Environ() {
		key, _, _ := strings.Cut(kv, "=")
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		// t.Setenv records the current value for restoration.
		t.Setenv(key, "")
		if err := os.Unsetenv(key); err != nil {
			t.Fatalf("unset %s: %v", key, err)
		}
	}
}
