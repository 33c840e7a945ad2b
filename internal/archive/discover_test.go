package archive

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestBaseNameStripsSuffixOnce(t *testing.T) {
	cases := map[string]string{
		"IMG_0001.livp":          "IMG_0001",
		"IMG_0002.LIVP":          "IMG_0002",
		"IMG_0003.LiVp":          "IMG_0003",
		"photo.livp.livp":        "photo.livp",
		"not-a-bundle.zip":       "not-a-bundle.zip",
		"/some/dir/IMG_4.livp":   "IMG_4",
		"my photo's friend.livp": "my photo's friend",
	}
	for input, want := range cases {
		if got := BaseName(input); got != want {
			t.Errorf("BaseName(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestDiscoverFlatIgnoresSubdirectories(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "b.livp"))
	touch(t, filepath.Join(dir, "a.LIVP"))
	touch(t, filepath.Join(dir, "note.txt"))
	touch(t, filepath.Join(dir, "nested", "deep.livp"))

	files, err := DiscoverFlat(dir)
	if err != nil {
		t.Fatalf("DiscoverFlat: %v", err)
	}
	want := []string{filepath.Join(dir, "a.LIVP"), filepath.Join(dir, "b.livp")}
	if len(files) != len(want) {
		t.Fatalf("expected %d files, got %v", len(want), files)
	}
	for i := range want {
		if files[i] != want[i] {
			t.Fatalf("unexpected order: got %v want %v", files, want)
		}
	}
}

func TestDiscoverTreeRecursesAndSorts(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "z.livp"))
	touch(t, filepath.Join(dir, "sub", "a.livp"))
	touch(t, filepath.Join(dir, "sub", "video.mov"))
	touch(t, filepath.Join(dir, "sub", "deeper", "m.LIVP"))

	files, err := DiscoverTree(dir)
	if err != nil {
		t.Fatalf("DiscoverTree: %v", err)
	}
	if len(files) != 3 {
		t.Fatalf("expected 3 bundles, got %v", files)
	}
	for i := 1; i < len(files); i++ {
		if files[i-1] >= files[i] {
			t.Fatalf("files not sorted: %v", files)
		}
	}
}

func TestDiscoverTreeMissingRootIsInvalidInput(t *testing.T) {
	_, err := DiscoverTree(filepath.Join(t.TempDir(), "does-not-exist"))
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestDiscoverHandlesAwkwardFilenames(t *testing.T) {
	dir := t.TempDir()
	awkward := filepath.Join(dir, "my photo's copy.livp")
	touch(t, awkward)

	files, err := DiscoverFlat(dir)
	if err != nil {
		t.Fatalf("DiscoverFlat: %v", err)
	}
	if len(files) != 1 || files[0] != awkward {
		t.Fatalf("expected single awkward path, got %v", files)
	}
	if BaseName(files[0]) != "my photo's copy" {
		t.Fatalf("unexpected base name: %q", BaseName(files[0]))
	}
}

func TestDiscoverFlatEmptyIsNotError(t *testing.T) {
	files, err := DiscoverFlat(t.TempDir())
	if err != nil {
		t.Fatalf("DiscoverFlat: %v", err)
	}
	if len(files) != 0 {
		t.Fatalf("expected empty result, got %v", files)
	}
}
