package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"livpconv/internal/archive"
	"livpconv/internal/config"
	"livpconv/internal/convert"
	"livpconv/internal/deps"
	"livpconv/internal/extract"
	"livpconv/internal/logging"
	"livpconv/internal/staging"
)

// ErrAlreadyRunning means another livpconv process holds the run lock.
var ErrAlreadyRunning = errors.New("another livpconv run is already in progress")

// ErrOutputUnavailable marks an output directory that could not be created
// or resolved. Fatal before any archive is touched.
var ErrOutputUnavailable = errors.New("output directory unavailable")

// Stale workspaces older than this are swept at run start. Anything younger
// may belong to a concurrent process that lost the lock race.
const staleWorkspaceAge = 24 * time.Hour

// Converter processes a single archive into the output directory.
type Converter interface {
	Convert(ctx context.Context, archivePath, outputDir string) convert.Result
}

// Recorder persists per-file results. A nil recorder disables the ledger.
type Recorder interface {
	Record(ctx context.Context, result convert.Result) error
}

// Request describes one batch run.
type Request struct {
	// InputDir is the discovery root. Recursive selects a full tree walk
	// instead of the flat working-directory scan.
	InputDir  string
	OutputDir string
	Recursive bool
}

// Summary tallies one completed run.
type Summary struct {
	OutputDir string
	Found     int
	Converted int
	Skipped   int
	Failed    int
	Results   []convert.Result
}

// Succeeded counts files that ended in a usable output, including skips.
func (s Summary) Succeeded() int {
	return s.Converted + s.Skipped
}

// Runner drives a batch: lock, sweep, discover, convert sequentially, tally.
type Runner struct {
	cfg      *config.Config
	conv     Converter
	recorder Recorder
	logger   *slog.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithRecorder attaches a conversion ledger.
func WithRecorder(rec Recorder) Option {
	return func(r *Runner) { r.recorder = rec }
}

// NewRunner builds a runner around an injected converter.
func NewRunner(cfg *config.Config, conv Converter, logger *slog.Logger, opts ...Option) (*Runner, error) {
	if cfg == nil {
		return nil, errors.New("runner requires configuration")
	}
	if conv == nil {
		return nil, errors.New("runner requires a converter")
	}
	r := &Runner{
		cfg:    cfg,
		conv:   conv,
		logger: logging.NewComponentLogger(logger, "workflow"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// BuildConverter wires the production conversion engine from a dependency
// probe selection.
func BuildConverter(cfg *config.Config, sel deps.Selection, logger *slog.Logger) (Converter, error) {
	unzipper, err := extract.NewUnzipper(sel.UnzipPath)
	if err != nil {
		return nil, fmt.Errorf("build extractor: %w", err)
	}
	sniffer, err := convert.NewFileSniffer(sel.FilePath)
	if err != nil {
		return nil, fmt.Errorf("build sniffer: %w", err)
	}
	encoder, err := convert.NewEncoder(sel, convert.EncoderSettings{
		Quality:    cfg.Conversion.JPEGQuality,
		AutoOrient: cfg.Conversion.AutoOrient,
		StripMeta:  cfg.Conversion.StripMeta,
	})
	if err != nil {
		return nil, fmt.Errorf("build encoder: %w", err)
	}
	return convert.NewEngine(convert.Options{
		MaxRetries: cfg.Conversion.MaxRetries,
		StagingDir: cfg.Paths.StagingDir,
	}, unzipper, sniffer, encoder, logger)
}

// Run executes one batch and returns its summary. Precondition failures
// (lock, discovery root, output directory) return an error with a nil
// summary; per-file failures are tallied, never fatal.
func (r *Runner) Run(ctx context.Context, req Request) (*Summary, error) {
	if err := r.cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	lock := flock.New(filepath.Join(r.cfg.Paths.LogDir, "livpconv.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire run lock: %w", err)
	}
	if !locked {
		return nil, ErrAlreadyRunning
	}
	defer func() { _ = lock.Unlock() }()

	// Leftovers from crashed runs; the exit guard handles this run's own.
	staging.CleanStale(r.cfg.Paths.StagingDir, staleWorkspaceAge, r.logger)
	defer staging.CleanupActive()

	outputDir, err := resolveOutputDir(req.OutputDir)
	if err != nil {
		return nil, err
	}

	files, err := r.discover(req)
	if err != nil {
		return nil, err
	}

	summary := &Summary{OutputDir: outputDir, Found: len(files)}
	if len(files) == 0 {
		r.logger.Info("no .livp files found",
			logging.String("input_dir", req.InputDir),
		)
		return summary, nil
	}

	r.logger.Info("starting batch",
		logging.Int("files", len(files)),
		logging.String("input_dir", req.InputDir),
		logging.String(logging.FieldOutput, outputDir),
	)

	for _, file := range files {
		if ctx.Err() != nil {
			break
		}
		result := r.conv.Convert(ctx, file, outputDir)
		summary.Results = append(summary.Results, result)
		switch result.Outcome {
		case convert.OutcomeConverted:
			summary.Converted++
		case convert.OutcomeSkipped:
			summary.Skipped++
		default:
			summary.Failed++
		}
		r.record(ctx, result)
	}

	r.logger.Info("batch finished",
		logging.Int("found", summary.Found),
		logging.Int("converted", summary.Converted),
		logging.Int("skipped", summary.Skipped),
		logging.Int("failed", summary.Failed),
	)
	return summary, nil
}

func (r *Runner) discover(req Request) ([]string, error) {
	if req.Recursive {
		return archive.DiscoverTree(req.InputDir)
	}
	return archive.DiscoverFlat(req.InputDir)
}

func (r *Runner) record(ctx context.Context, result convert.Result) {
	if r.recorder == nil {
		return
	}
	if err := r.recorder.Record(ctx, result); err != nil {
		r.logger.Warn("history record failed",
			logging.String(logging.FieldArchive, result.Archive),
			logging.Error(err),
		)
	}
}

func resolveOutputDir(dir string) (string, error) {
	expanded, err := config.ExpandPath(dir)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrOutputUnavailable, err)
	}
	if err := os.MkdirAll(expanded, 0o755); err != nil {
		return "", fmt.Errorf("%w: %v", ErrOutputUnavailable, err)
	}
	return expanded, nil
}
