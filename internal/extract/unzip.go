package extract

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"livpconv/internal/fileutil"
)

// Extractor unpacks one archive into a destination directory.
type Extractor interface {
	Extract(ctx context.Context, archivePath, destDir string) error
}

// Executor abstracts command execution for testability.
type Executor interface {
	Run(ctx context.Context, binary string, args []string) (string, error)
}

// Option configures the unzipper.
type Option func(*Unzipper)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(u *Unzipper) {
		if exec != nil {
			u.exec = exec
		}
	}
}

// Unzipper extracts .livp bundles with the external unzip tool. Because a
// bundle is a renamed zip archive, the bytes are first duplicated into the
// destination under a zip-compatible name.
type Unzipper struct {
	binary string
	exec   Executor
}

// NewUnzipper constructs an extractor around the given unzip binary.
func NewUnzipper(binary string, opts ...Option) (*Unzipper, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("unzip binary required")
	}
	u := &Unzipper{binary: binary, exec: commandExecutor{}}
	for _, opt := range opts {
		opt(u)
	}
	return u, nil
}

// Extract duplicates archivePath into destDir as bundle.zip and unpacks it
// in place. The intermediate zip is removed afterwards so candidate
// selection only ever sees payload files.
func (u *Unzipper) Extract(ctx context.Context, archivePath, destDir string) error {
	if strings.TrimSpace(destDir) == "" {
		return errors.New("destination directory required")
	}

	zipPath := filepath.Join(destDir, "bundle.zip")
	if err := fileutil.CopyFileVerified(archivePath, zipPath); err != nil {
		return fmt.Errorf("stage archive copy: %w", err)
	}

	args := []string{"-o", "-qq", zipPath, "-d", destDir}
	if output, err := u.exec.Run(ctx, u.binary, args); err != nil {
		return fmt.Errorf("unzip %s: %w: %s", filepath.Base(archivePath), err, firstLine(output))
	}

	if err := os.Remove(zipPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove staged zip: %w", err)
	}
	return nil
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		s = s[:idx]
	}
	return s
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string) (string, error) {
	cmd := exec.CommandContext(ctx, binary, args...)
	output, err := cmd.CombinedOutput()
	return string(output), err
}
