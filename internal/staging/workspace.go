package staging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Workspace is the extraction scratch directory for a single conversion
// attempt. It is exclusively owned, never reused, and removed by Release
// regardless of how the attempt ends; the process exit guard covers abrupt
// termination.
type Workspace struct {
	Path     string
	released bool
}

// NewWorkspace creates a uniquely named scratch directory under baseDir
// (the system temp dir when baseDir is empty) and registers it with the
// exit guard.
func NewWorkspace(baseDir string) (*Workspace, error) {
	baseDir = strings.TrimSpace(baseDir)
	if baseDir == "" {
		baseDir = os.TempDir()
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create staging base %q: %w", baseDir, err)
	}

	path := filepath.Join(baseDir, "livpconv-"+uuid.NewString())
	if err := os.Mkdir(path, 0o755); err != nil {
		return nil, fmt.Errorf("create workspace %q: %w", path, err)
	}

	register(path)
	return &Workspace{Path: path}, nil
}

// Release removes the workspace and unregisters it from the exit guard.
// Safe to call more than once.
func (w *Workspace) Release() error {
	if w == nil || w.released {
		return nil
	}
	w.released = true
	unregister(w.Path)
	if err := os.RemoveAll(w.Path); err != nil {
		return fmt.Errorf("remove workspace %q: %w", w.Path, err)
	}
	return nil
}
