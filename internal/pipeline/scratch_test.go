package pipeline

import (
	"os"
	"path/filepath"
	"testing"
)

func TestStage_CreatesDirAndUniqueFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "temp")
	s := NewScratchDir(dir)

	a, err := s.Stage([]byte("a"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := s.Stage([]byte("b"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Path() != dir {
		t.Fatalf("unexpected scratch path: %s", s.Path())
	}
	if a.Path == b.Path {
		t.Fatal("expected distinct staged paths")
	}
	if filepath.Ext(a.Path) != ".wav" || filepath.Dir(a.Path) != dir {
		t.Fatalf("unexpected staged path: %s", a.Path)
	}
	got, err := os.ReadFile(a.Path)
	if err != nil || string(got) != "a" {
		t.Fatalf("unexpected staged content: %q err=%v", got, err)
	}
}

func TestRelease_Idempotent(t *testing.T) {
	s := NewScratchDir(t.TempDir())
	f, err := s.Stage([]byte("x"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := f.Release(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := f.Release(); err != nil {
		t.Fatalf("second release should be a no-op, got %v", err)
	}
	if _, err := os.Stat(f.Path); !os.IsNotExist(err) {
		t.Fatalf("expected file removed, stat err=%v", err)
	}
}

func TestRelease_AlreadyRemovedIsNotAnError(t *testing.T) {
	s := NewScratchDir(t.TempDir())
	f, err := s.Stage([]byte("x"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := os.Remove(f.Path); err != nil {
		t.Fatalf("failed to remove: %v", err)
	}
	if err := f.Release(); err != nil {
		t.Fatalf("expected nil for missing file, got %v", err)
	}
}
