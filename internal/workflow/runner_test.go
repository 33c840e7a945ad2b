package workflow

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"livpconv/internal/convert"
	"livpconv/internal/testsupport"
)

type scriptedConverter struct {
	outcomes map[string]convert.Outcome
	calls    []string
}

func (s *scriptedConverter) Convert(_ context.Context, archivePath, outputDir string) convert.Result {
	s.calls = append(s.calls, archivePath)
	outcome := convert.OutcomeConverted
	if s.outcomes != nil {
		if o, ok := s.outcomes[filepath.Base(archivePath)]; ok {
			outcome = o
		}
	}
	result := convert.Result{
		Archive: archivePath,
		Output:  filepath.Join(outputDir, "out.jpg"),
		Outcome: outcome,
	}
	if outcome == convert.OutcomeFailed {
		result.Err = errors.New("scripted failure")
	}
	return result
}

type memoryRecorder struct {
	records []convert.Result
	err     error
}

func (m *memoryRecorder) Record(_ context.Context, result convert.Result) error {
	if m.err != nil {
		return m.err
	}
	m.records = append(m.records, result)
	return nil
}

func TestRunProcessesSortedAndTallies(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	inputDir := t.TempDir()
	for _, name := range []string{"b.livp", "a.livp", "c.livp", "notes.txt"} {
		testsupport.WriteLivp(t, filepath.Join(inputDir, name))
	}

	conv := &scriptedConverter{outcomes: map[string]convert.Outcome{
		"b.livp": convert.OutcomeSkipped,
		"c.livp": convert.OutcomeFailed,
	}}
	recorder := &memoryRecorder{}
	runner, err := NewRunner(cfg, conv, nil, WithRecorder(recorder))
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}

	summary, err := runner.Run(context.Background(), Request{
		InputDir:  inputDir,
		OutputDir: filepath.Join(t.TempDir(), "out"),
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if summary.Found != 3 || summary.Converted != 1 || summary.Skipped != 1 || summary.Failed != 1 {
		t.Fatalf("summary = %+v", summary)
	}
	if summary.Succeeded() != 2 {
		t.Fatalf("succeeded = %d, want 2", summary.Succeeded())
	}
	want := []string{
		filepath.Join(inputDir, "a.livp"),
		filepath.Join(inputDir, "b.livp"),
		filepath.Join(inputDir, "c.livp"),
	}
	if len(conv.calls) != len(want) {
		t.Fatalf("converted %d files, want %d", len(conv.calls), len(want))
	}
	for i, call := range conv.calls {
		if call != want[i] {
			t.Fatalf("call %d = %s, want %s", i, call, want[i])
		}
	}
	if len(recorder.records) != 3 {
		t.Fatalf("recorded %d results, want 3", len(recorder.records))
	}
}

func TestRunFlatModeIgnoresSubdirectories(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	inputDir := t.TempDir()
	testsupport.WriteLivp(t, filepath.Join(inputDir, "top.livp"))
	testsupport.WriteLivp(t, filepath.Join(inputDir, "nested", "deep.livp"))

	conv := &scriptedConverter{}
	runner, err := NewRunner(cfg, conv, nil)
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}

	summary, err := runner.Run(context.Background(), Request{
		InputDir:  inputDir,
		OutputDir: filepath.Join(t.TempDir(), "out"),
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Found != 1 {
		t.Fatalf("found = %d, want 1 (flat mode)", summary.Found)
	}
}

func TestRunRecursiveModeWalksTree(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	inputDir := t.TempDir()
	testsupport.WriteLivp(t, filepath.Join(inputDir, "top.livp"))
	testsupport.WriteLivp(t, filepath.Join(inputDir, "nested", "deep.livp"))

	conv := &scriptedConverter{}
	runner, err := NewRunner(cfg, conv, nil)
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}

	summary, err := runner.Run(context.Background(), Request{
		InputDir:  inputDir,
		OutputDir: filepath.Join(t.TempDir(), "out"),
		Recursive: true,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Found != 2 {
		t.Fatalf("found = %d, want 2 (recursive mode)", summary.Found)
	}
}

func TestRunEmptyInputIsNotAnError(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	conv := &scriptedConverter{}
	runner, err := NewRunner(cfg, conv, nil)
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}

	summary, err := runner.Run(context.Background(), Request{
		InputDir:  t.TempDir(),
		OutputDir: filepath.Join(t.TempDir(), "out"),
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Found != 0 || len(conv.calls) != 0 {
		t.Fatalf("summary = %+v, calls = %v", summary, conv.calls)
	}
}

func TestRunMissingInputDirIsFatal(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	runner, err := NewRunner(cfg, &scriptedConverter{}, nil)
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}

	_, err = runner.Run(context.Background(), Request{
		InputDir:  filepath.Join(t.TempDir(), "does-not-exist"),
		OutputDir: filepath.Join(t.TempDir(), "out"),
	})
	if err == nil {
		t.Fatal("expected error for missing input directory")
	}
}

func TestRunCreatesOutputDir(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	inputDir := t.TempDir()
	testsupport.WriteLivp(t, filepath.Join(inputDir, "a.livp"))
	outputDir := filepath.Join(t.TempDir(), "brand", "new")

	runner, err := NewRunner(cfg, &scriptedConverter{}, nil)
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}
	summary, err := runner.Run(context.Background(), Request{InputDir: inputDir, OutputDir: outputDir})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	info, err := os.Stat(summary.OutputDir)
	if err != nil || !info.IsDir() {
		t.Fatalf("output dir not created: %v", err)
	}
}

func TestRunRefusesConcurrentInstance(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	inputDir := t.TempDir()
	testsupport.WriteLivp(t, filepath.Join(inputDir, "a.livp"))

	blocker := make(chan struct{})
	release := make(chan struct{})
	first, err := NewRunner(cfg, converterFunc(func(ctx context.Context, archivePath, outputDir string) convert.Result {
		close(blocker)
		<-release
		return convert.Result{Archive: archivePath, Outcome: convert.OutcomeConverted}
	}), nil)
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}

	done := make(chan error, 1)
	go func() {
		_, err := first.Run(context.Background(), Request{InputDir: inputDir, OutputDir: filepath.Join(t.TempDir(), "out")})
		done <- err
	}()
	<-blocker

	second, err := NewRunner(cfg, &scriptedConverter{}, nil)
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}
	_, err = second.Run(context.Background(), Request{InputDir: inputDir, OutputDir: filepath.Join(t.TempDir(), "out")})
	if !errors.Is(err, ErrAlreadyRunning) {
		t.Fatalf("err = %v, want ErrAlreadyRunning", err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first run: %v", err)
	}
}

func TestRunRecordFailureIsNotFatal(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	inputDir := t.TempDir()
	testsupport.WriteLivp(t, filepath.Join(inputDir, "a.livp"))

	recorder := &memoryRecorder{err: errors.New("ledger unavailable")}
	runner, err := NewRunner(cfg, &scriptedConverter{}, nil, WithRecorder(recorder))
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}
	summary, err := runner.Run(context.Background(), Request{InputDir: inputDir, OutputDir: filepath.Join(t.TempDir(), "out")})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Converted != 1 {
		t.Fatalf("summary = %+v", summary)
	}
}

type converterFunc func(ctx context.Context, archivePath, outputDir string) convert.Result

func (f converterFunc) Convert(ctx context.Context, archivePath, outputDir string) convert.Result {
	return f(ctx, archivePath, outputDir)
}
