package deps

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"livpconv/internal/config"
)

// ErrMissingDependency marks a failed environment probe. The wrapped message
// names every missing tool so the user can fix them in one pass.
var ErrMissingDependency = errors.New("missing dependency")

// Encoder kinds resolved by Resolve.
const (
	EncoderSips   = "sips"
	EncoderMagick = "magick"
)

// Selection holds the resolved external tool paths for one run.
type Selection struct {
	UnzipPath   string
	FilePath    string
	EncoderKind string
	EncoderPath string

	// Advisory is set when the preferred native encoder is absent but the
	// fallback is usable. Informational, never fatal.
	Advisory string
}

// Resolve verifies extraction and identification tools plus at least one
// JPEG encoder, honouring the configured backend preference. It runs before
// any archive is touched; on failure the whole run aborts.
func Resolve(cfg *config.Config) (Selection, error) {
	var sel Selection
	var missing []string

	if path, err := exec.LookPath(cfg.UnzipBinary()); err == nil {
		sel.UnzipPath = path
	} else {
		missing = append(missing, cfg.UnzipBinary())
	}

	if path, err := exec.LookPath(cfg.FileBinary()); err == nil {
		sel.FilePath = path
	} else {
		missing = append(missing, cfg.FileBinary())
	}

	sipsPath, sipsErr := exec.LookPath(cfg.SipsBinary())
	magickPath := lookupFirst(cfg.MagickBinaries())

	switch cfg.Conversion.Backend {
	case "sips":
		if sipsErr == nil {
			sel.EncoderKind = EncoderSips
			sel.EncoderPath = sipsPath
		} else {
			missing = append(missing, cfg.SipsBinary())
		}
	case "magick":
		if magickPath != "" {
			sel.EncoderKind = EncoderMagick
			sel.EncoderPath = magickPath
		} else {
			missing = append(missing, cfg.MagickBinaries()[0])
		}
	default: // auto: native tool first, general-purpose tool second
		switch {
		case sipsErr == nil:
			sel.EncoderKind = EncoderSips
			sel.EncoderPath = sipsPath
		case magickPath != "":
			sel.EncoderKind = EncoderMagick
			sel.EncoderPath = magickPath
			sel.Advisory = "sips not found; using ImageMagick for JPEG encoding"
		default:
			missing = append(missing, cfg.SipsBinary()+" or "+cfg.MagickBinaries()[0])
		}
	}

	if len(missing) > 0 {
		return Selection{}, fmt.Errorf("%w: %s", ErrMissingDependency, strings.Join(missing, ", "))
	}
	return sel, nil
}

func lookupFirst(names []string) string {
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}
	return ""
}
