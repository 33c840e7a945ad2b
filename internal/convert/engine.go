package convert

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"livpconv/internal/archive"
	"livpconv/internal/extract"
	"livpconv/internal/logging"
	"livpconv/internal/staging"
)

// Outcome classifies the result of processing one archive.
type Outcome string

const (
	OutcomeConverted Outcome = "converted"
	OutcomeSkipped   Outcome = "skipped"
	OutcomeFailed    Outcome = "failed"
)

// Result is the per-file report handed to the runner and the history store.
type Result struct {
	Archive  string
	Output   string
	Outcome  Outcome
	Attempts int
	Duration time.Duration
	Err      error
}

// Options are the explicit engine tunables, sourced from configuration
// rather than package globals so the retry loop is testable.
type Options struct {
	MaxRetries int
	StagingDir string
}

// Engine converts one Live Photo bundle at a time. All collaborators are
// injected: the extractor and encoder wrap external tools in production and
// fakes in tests.
type Engine struct {
	opts      Options
	extractor extract.Extractor
	sniffer   Sniffer
	encoder   Encoder
	logger    *slog.Logger
}

// NewEngine wires an engine from its collaborators.
func NewEngine(opts Options, extractor extract.Extractor, sniffer Sniffer, encoder Encoder, logger *slog.Logger) (*Engine, error) {
	if extractor == nil || encoder == nil {
		return nil, errors.New("engine requires extractor and encoder")
	}
	if opts.MaxRetries < 1 {
		opts.MaxRetries = 1
	}
	return &Engine{
		opts:      opts,
		extractor: extractor,
		sniffer:   sniffer,
		encoder:   encoder,
		logger:    logging.NewComponentLogger(logger, "engine"),
	}, nil
}

// Convert produces one JPEG from archivePath or a definitive failure.
// Existing outputs are never overwritten: they short-circuit to a skip so
// repeat runs are idempotent.
func (e *Engine) Convert(ctx context.Context, archivePath, outputDir string) Result {
	start := time.Now()
	base := archive.BaseName(archivePath)
	result := Result{
		Archive: archivePath,
		Output:  filepath.Join(outputDir, base+".jpg"),
	}

	if _, err := os.Stat(result.Output); err == nil {
		result.Outcome = OutcomeSkipped
		result.Duration = time.Since(start)
		e.logger.Info("output exists, skipping",
			logging.String(logging.FieldArchive, archivePath),
			logging.String(logging.FieldOutput, result.Output),
		)
		return result
	}

	for attempt := 1; attempt <= e.opts.MaxRetries; attempt++ {
		result.Attempts = attempt
		err := e.attempt(ctx, archivePath, result.Output)
		if err == nil {
			result.Outcome = OutcomeConverted
			result.Err = nil
			result.Duration = time.Since(start)
			e.logger.Info("converted",
				logging.String(logging.FieldArchive, archivePath),
				logging.String(logging.FieldOutput, result.Output),
				logging.Int(logging.FieldAttempt, attempt),
				logging.String(logging.FieldBackend, e.encoder.Name()),
			)
			return result
		}
		result.Err = err

		if errors.Is(err, ErrNoImageCandidate) {
			// Deterministic: the archive simply holds no image. Retrying
			// cannot change that, so fail without consuming the budget.
			break
		}
		e.logger.Warn("attempt failed",
			logging.String(logging.FieldArchive, archivePath),
			logging.Int(logging.FieldAttempt, attempt),
			logging.Error(err),
		)
		if ctx.Err() != nil {
			break
		}
	}

	result.Outcome = OutcomeFailed
	result.Duration = time.Since(start)
	e.logger.Error("conversion failed",
		logging.String(logging.FieldArchive, archivePath),
		logging.Int(logging.FieldAttempt, result.Attempts),
		logging.Error(result.Err),
	)
	return result
}

// attempt is one self-contained try: fresh workspace, extract, select,
// encode, verify. The workspace is released on every path out.
func (e *Engine) attempt(ctx context.Context, archivePath, outputPath string) error {
	ws, err := staging.NewWorkspace(e.opts.StagingDir)
	if err != nil {
		return fmt.Errorf("acquire workspace: %w", err)
	}
	defer func() {
		if rerr := ws.Release(); rerr != nil {
			e.logger.Warn("workspace release failed",
				logging.String(logging.FieldWorkspace, ws.Path),
				logging.Error(rerr),
			)
		}
	}()

	if err := e.extractor.Extract(ctx, archivePath, ws.Path); err != nil {
		return fmt.Errorf("%w: %w", ErrExtractionFailed, err)
	}

	candidate, err := SelectCandidate(ctx, ws.Path, e.sniffer)
	if err != nil {
		return err
	}

	if err := e.encoder.Encode(ctx, candidate, outputPath); err != nil {
		removePartial(outputPath)
		return fmt.Errorf("%w: %w", ErrBackendFailed, err)
	}
	if err := verifyOutput(outputPath); err != nil {
		removePartial(outputPath)
		return fmt.Errorf("%w: %w", ErrBackendFailed, err)
	}
	return nil
}

// verifyOutput guards against a backend that exits zero without producing a
// readable JPEG.
func verifyOutput(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("output not written: %w", err)
	}
	if info.Size() == 0 {
		return errors.New("output file is empty")
	}
	return nil
}

// removePartial drops a broken output so the skip rule never mistakes it
// for a finished conversion on the next run.
func removePartial(path string) {
	_ = os.Remove(path)
}
