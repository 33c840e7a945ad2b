package archive

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Extension is the Live Photo bundle suffix, matched case-insensitively.
const Extension = ".livp"

// ErrInvalidInput marks a discovery root that does not exist or is not a
// directory. Fatal to the run; no partial work is attempted.
var ErrInvalidInput = errors.New("invalid input directory")

// IsBundle reports whether name carries the .livp extension, ignoring case.
func IsBundle(name string) bool {
	return strings.EqualFold(filepath.Ext(name), Extension)
}

// BaseName strips one trailing .livp/.LIVP suffix from the archive's
// filename, case-insensitively. Anything else is returned untouched.
func BaseName(path string) string {
	name := filepath.Base(path)
	if IsBundle(name) {
		return name[:len(name)-len(Extension)]
	}
	return name
}

// DiscoverFlat lists .livp files directly inside dir, without recursing.
// Used for the implicit working-directory mode, where an empty result is
// not an error.
func DiscoverFlat(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidInput, dir)
		}
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if IsBundle(entry.Name()) {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

// DiscoverTree walks dir recursively and returns every .livp file beneath
// it, sorted lexicographically for deterministic processing order. A
// nonexistent root is ErrInvalidInput.
func DiscoverTree(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidInput, dir)
		}
		return nil, fmt.Errorf("inspect %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrInvalidInput, dir)
	}

	var files []string
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if IsBundle(d.Name()) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", dir, err)
	}
	sort.Strings(files)
	return files, nil
}
