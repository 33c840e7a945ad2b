package convert

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"livpconv/internal/deps"
)

// Encoder re-encodes a source image to JPEG at a destination path. Two
// concrete implementations wrap the external tools; tests inject fakes.
type Encoder interface {
	Name() string
	Encode(ctx context.Context, src, dst string) error
}

// Executor abstracts command execution for testability.
type Executor interface {
	Run(ctx context.Context, binary string, args []string) (string, error)
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string) (string, error) {
	cmd := exec.CommandContext(ctx, binary, args...)
	output, err := cmd.CombinedOutput()
	return string(output), err
}

// EncoderSettings carries the tunables both backends honour.
type EncoderSettings struct {
	Quality    int
	AutoOrient bool
	StripMeta  bool
}

// NewEncoder builds the encoder matching a dependency probe selection.
func NewEncoder(sel deps.Selection, settings EncoderSettings) (Encoder, error) {
	switch sel.EncoderKind {
	case deps.EncoderSips:
		return &sipsEncoder{binary: sel.EncoderPath, settings: settings, exec: commandExecutor{}}, nil
	case deps.EncoderMagick:
		return &magickEncoder{binary: sel.EncoderPath, settings: settings, exec: commandExecutor{}}, nil
	default:
		return nil, fmt.Errorf("unknown encoder kind %q", sel.EncoderKind)
	}
}

// sipsEncoder uses the native macOS scriptable image processing system.
// Its default JPEG re-encode honours EXIF orientation, so only the quality
// needs to be passed through.
type sipsEncoder struct {
	binary   string
	settings EncoderSettings
	exec     Executor
}

func (s *sipsEncoder) Name() string { return "sips" }

func (s *sipsEncoder) Encode(ctx context.Context, src, dst string) error {
	args := []string{
		"-s", "format", "jpeg",
		"-s", "formatOptions", strconv.Itoa(s.settings.Quality),
		src,
		"--out", dst,
	}
	if output, err := s.exec.Run(ctx, s.binary, args); err != nil {
		return fmt.Errorf("sips: %w: %s", err, firstLine(output))
	}
	return nil
}

// magickEncoder uses ImageMagick (modern "magick" or legacy "convert").
type magickEncoder struct {
	binary   string
	settings EncoderSettings
	exec     Executor
}

func (m *magickEncoder) Name() string { return "magick" }

func (m *magickEncoder) Encode(ctx context.Context, src, dst string) error {
	args := []string{src}
	if m.settings.AutoOrient {
		args = append(args, "-auto-orient")
	}
	if m.settings.StripMeta {
		args = append(args, "-strip")
	}
	args = append(args, "-quality", strconv.Itoa(m.settings.Quality), dst)
	if output, err := m.exec.Run(ctx, m.binary, args); err != nil {
		return fmt.Errorf("imagemagick: %w: %s", err, firstLine(output))
	}
	return nil
}

// Sniffer answers whether a path holds image data, used as the last-resort
// candidate selection rule when no known extension matches.
type Sniffer interface {
	IsImage(ctx context.Context, path string) (bool, error)
}

// FileSniffer shells out to the file tool for MIME identification.
type FileSniffer struct {
	binary string
	exec   Executor
}

// NewFileSniffer constructs a sniffer around the given file binary.
func NewFileSniffer(binary string) (*FileSniffer, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("file binary required")
	}
	return &FileSniffer{binary: binary, exec: commandExecutor{}}, nil
}

// IsImage reports whether the tool identifies path as image data.
func (f *FileSniffer) IsImage(ctx context.Context, path string) (bool, error) {
	output, err := f.exec.Run(ctx, f.binary, []string{"--brief", "--mime-type", "--", path})
	if err != nil {
		return false, fmt.Errorf("file: %w: %s", err, firstLine(output))
	}
	return strings.HasPrefix(strings.TrimSpace(output), "image/"), nil
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		s = s[:idx]
	}
	return s
}
