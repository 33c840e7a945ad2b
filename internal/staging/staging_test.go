package staging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"livpconv/internal/logging"
)

func TestWorkspaceLifecycle(t *testing.T) {
	base := t.TempDir()

	ws, err := NewWorkspace(base)
	if err != nil {
		t.Fatalf("NewWorkspace: %v", err)
	}
	if !strings.HasPrefix(filepath.Base(ws.Path), "livpconv-") {
		t.Fatalf("unexpected workspace name: %q", ws.Path)
	}
	info, err := os.Stat(ws.Path)
	if err != nil || !info.IsDir() {
		t.Fatalf("workspace not created: %v", err)
	}
	if ActiveCount() == 0 {
		t.Fatal("workspace should be registered with exit guard")
	}

	if err := os.WriteFile(filepath.Join(ws.Path, "payload.heic"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write payload: %v", err)
	}

	if err := ws.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if _, err := os.Stat(ws.Path); !os.IsNotExist(err) {
		t.Fatal("workspace should be removed after release")
	}
	if ActiveCount() != 0 {
		t.Fatal("workspace should be unregistered after release")
	}

	// Double release is harmless.
	if err := ws.Release(); err != nil {
		t.Fatalf("second Release: %v", err)
	}
}

func TestWorkspacesAreUnique(t *testing.T) {
	base := t.TempDir()
	a, err := NewWorkspace(base)
	if err != nil {
		t.Fatalf("NewWorkspace a: %v", err)
	}
	defer a.Release()
	b, err := NewWorkspace(base)
	if err != nil {
		t.Fatalf("NewWorkspace b: %v", err)
	}
	defer b.Release()

	if a.Path == b.Path {
		t.Fatalf("workspaces must be unique, both %q", a.Path)
	}
}

func TestCleanupActiveRemovesRegistered(t *testing.T) {
	base := t.TempDir()
	ws, err := NewWorkspace(base)
	if err != nil {
		t.Fatalf("NewWorkspace: %v", err)
	}

	CleanupActive()

	if _, err := os.Stat(ws.Path); !os.IsNotExist(err) {
		t.Fatal("CleanupActive should remove the workspace")
	}
	if ActiveCount() != 0 {
		t.Fatal("registry should be empty after CleanupActive")
	}
}

func TestCleanStaleOnlyTouchesOldWorkspaces(t *testing.T) {
	base := t.TempDir()

	oldDir := filepath.Join(base, "livpconv-old")
	if err := os.Mkdir(oldDir, 0o755); err != nil {
		t.Fatalf("mkdir old: %v", err)
	}
	oldTime := time.Now().Add(-2 * time.Hour)
	if err := os.Chtimes(oldDir, oldTime, oldTime); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	recentDir := filepath.Join(base, "livpconv-recent")
	if err := os.Mkdir(recentDir, 0o755); err != nil {
		t.Fatalf("mkdir recent: %v", err)
	}

	foreign := filepath.Join(base, "unrelated-dir")
	if err := os.Mkdir(foreign, 0o755); err != nil {
		t.Fatalf("mkdir foreign: %v", err)
	}
	if err := os.Chtimes(foreign, oldTime, oldTime); err != nil {
		t.Fatalf("chtimes foreign: %v", err)
	}

	result := CleanStale(base, time.Hour, logging.NewNop())

	if len(result.Removed) != 1 || result.Removed[0] != oldDir {
		t.Fatalf("expected only old workspace removed, got %v", result.Removed)
	}
	if _, err := os.Stat(recentDir); err != nil {
		t.Fatal("recent workspace should survive")
	}
	if _, err := os.Stat(foreign); err != nil {
		t.Fatal("foreign directory must not be touched")
	}
}

func TestCleanStaleInvalidPaths(t *testing.T) {
	for _, dir := range []string{"", "   ", "/nonexistent/path/12345"} {
		result := CleanStale(dir, time.Hour, logging.NewNop())
		if len(result.Removed) != 0 || len(result.Errors) != 0 {
			t.Errorf("expected empty result for path %q", dir)
		}
	}
}
