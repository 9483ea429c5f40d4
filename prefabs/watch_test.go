package prefabs

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		path string
		want ChangeKind
	}{
		{"prefabs/physics.yaml", ChangeSpec},
		{"prefabs/crate.YML", ChangeSpec},
		{"prefabs/scripts/walker.tengo", ChangeScript},
		{"levels/demo.json", ChangeLevel},
		{"prefabs/notes.txt", 0},
		{"prefabs/physics.yaml~", 0},
	}
	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			if got := classify(tc.path); got != tc.want {
				t.Fatalf("classify(%q) = %v, want %v", tc.path, got, tc.want)
			}
		})
	}
}

func TestWatcherReportsChanges(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	if err != nil {
		t.Fatalf("watcher: %v", err)
	}
	defer w.Close()

	path := filepath.Join(dir, "physics.yaml")
	if err := os.WriteFile(path, []byte("dt: 0.1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "ignored.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case change := <-w.Events:
		if change.Kind != ChangeSpec || filepath.Base(change.Path) != "physics.yaml" {
			t.Fatalf("unexpected change %+v", change)
		}
	case err := <-w.Errors:
		t.Fatalf("watch error: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for a change")
	}
}

func TestWatcherCloseIsIdempotent(t *testing.T) {
	w, err := NewWatcher(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
	if _, ok := <-w.Events; ok {
		t.Fatal("events channel should be closed")
	}
}
