package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"livpconv/internal/testsupport"
)

// stubScript installs an executable shell script under a PATH-prepended
// temp directory.
func stubScript(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte("#!/bin/sh\n"+body), 0o755); err != nil {
		t.Fatalf("stub %s: %v", name, err)
	}
}

// installFakeToolchain wires unzip/file/sips stand-ins that behave just
// enough like the real tools: unzip plants a still image in the target
// directory, sips writes its final argument.
func installFakeToolchain(t *testing.T, sipsBody string) {
	t.Helper()
	dir := t.TempDir()
	stubScript(t, dir, "unzip", `dest=""
prev=""
for a in "$@"; do
  if [ "$prev" = "-d" ]; then dest="$a"; fi
  prev="$a"
done
printf 'heic bytes' > "$dest/IMG_0001.heic"
`)
	stubScript(t, dir, "file", `echo image/heic`)
	stubScript(t, dir, "sips", sipsBody)
	t.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))
}

const sipsWritesOutput = `for a in "$@"; do last="$a"; done
printf 'jpeg bytes' > "$last"
`

func TestConvertEndToEnd(t *testing.T) {
	installFakeToolchain(t, sipsWritesOutput)
	configPath := writeTestConfig(t, nil)

	inputDir := t.TempDir()
	testsupport.WriteLivp(t, filepath.Join(inputDir, "IMG_0001.livp"))
	outputDir := filepath.Join(t.TempDir(), "out")

	output, err := executeCommand(t, "convert", inputDir, "--output", outputDir, "--config", configPath)
	if err != nil {
		t.Fatalf("convert: %v\n%s", err, output)
	}
	if !strings.Contains(output, "1 of 1 archives succeeded") {
		t.Fatalf("unexpected summary:\n%s", output)
	}
	if _, err := os.Stat(filepath.Join(outputDir, "IMG_0001.jpg")); err != nil {
		t.Fatalf("output missing: %v", err)
	}

	// Second run skips the finished file.
	output, err = executeCommand(t, "convert", inputDir, "--output", outputDir, "--config", configPath)
	if err != nil {
		t.Fatalf("rerun: %v\n%s", err, output)
	}
	if !strings.Contains(output, "1 skipped") {
		t.Fatalf("rerun did not skip:\n%s", output)
	}
}

func TestConvertAcceptsPositionalOutputDir(t *testing.T) {
	installFakeToolchain(t, sipsWritesOutput)
	configPath := writeTestConfig(t, nil)

	inputDir := t.TempDir()
	testsupport.WriteLivp(t, filepath.Join(inputDir, "IMG_0003.livp"))
	outputDir := filepath.Join(t.TempDir(), "positional")

	output, err := executeCommand(t, "convert", inputDir, outputDir, "--config", configPath)
	if err != nil {
		t.Fatalf("convert: %v\n%s", err, output)
	}
	if _, err := os.Stat(filepath.Join(outputDir, "IMG_0003.jpg")); err != nil {
		t.Fatalf("output missing: %v", err)
	}
}

func TestConvertReportsEmptyDirectory(t *testing.T) {
	installFakeToolchain(t, sipsWritesOutput)
	configPath := writeTestConfig(t, nil)

	output, err := executeCommand(t, "convert", t.TempDir(), "--config", configPath)
	if err != nil {
		t.Fatalf("convert: %v\n%s", err, output)
	}
	if !strings.Contains(output, "No .livp files found") {
		t.Fatalf("unexpected output:\n%s", output)
	}
}

func TestConvertFailureSetsExitError(t *testing.T) {
	installFakeToolchain(t, "exit 1\n")
	configPath := writeTestConfig(t, nil)

	inputDir := t.TempDir()
	testsupport.WriteLivp(t, filepath.Join(inputDir, "IMG_0002.livp"))

	output, err := executeCommand(t, "convert", inputDir, "--output", filepath.Join(t.TempDir(), "out"), "--config", configPath)
	if err == nil {
		t.Fatalf("expected failure, got output:\n%s", output)
	}
	if !strings.Contains(err.Error(), "1 of 1 conversions failed") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestConvertRejectsInvalidBackendFlag(t *testing.T) {
	configPath := writeTestConfig(t, nil)

	_, err := executeCommand(t, "convert", "--backend", "photoshop", "--config", configPath)
	if err == nil {
		t.Fatal("expected validation error for unknown backend")
	}
}
