package appdir

import (
	"os"
	"path/filepath"
	"testing"
)

func TestEnsureOverride(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "state")
	t.Setenv(EnvOverride, dir)

	got, err := Ensure()
	if err != nil {
		t.Fatalf("Ensure failed: %v", err)
	}
	if got != dir {
		t.Errorf("Expected %s, got %s", dir, got)
	}
	if fi, err := os.Stat(dir); err != nil || !fi.IsDir() {
		t.Errorf("directory not created: %v", err)
	}
}
