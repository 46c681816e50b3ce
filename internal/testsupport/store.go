package testsupport

import (
	"path/filepath"
	"testing"

	"medshift/internal/store"
)

// MustOpenStore opens a throwaway SQLite store under the test's temp
// directory and closes it on cleanup.
func MustOpenStore(t testing.TB) *store.Store {
	t.Helper()

	s, err := store.Open(filepath.Join(t.TempDir(), "export.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = s.Close()
	})
	return s
}
