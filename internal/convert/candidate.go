package convert

import (
	"context"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// Extension groups for the candidate priority rules. Live Photo stills are
// typically HEIC, so the high-fidelity formats win over plain JPEG.
var (
	preferredStillExts = map[string]struct{}{".heic": {}, ".heif": {}}
	lossyStillExts     = map[string]struct{}{".jpg": {}, ".jpeg": {}}
)

// SelectCandidate picks the single image file to convert from an extracted
// bundle. Strict priority: first HEIC/HEIF by extension, else first
// JPG/JPEG by extension, else the first file the sniffer identifies as
// image data. Files are visited in sorted path order so "first" is
// deterministic. Returns ErrNoImageCandidate when every rule comes up
// empty.
func SelectCandidate(ctx context.Context, dir string, sniffer Sniffer) (string, error) {
	files, err := listFiles(dir)
	if err != nil {
		return "", err
	}

	for _, path := range files {
		if _, ok := preferredStillExts[strings.ToLower(filepath.Ext(path))]; ok {
			return path, nil
		}
	}
	for _, path := range files {
		if _, ok := lossyStillExts[strings.ToLower(filepath.Ext(path))]; ok {
			return path, nil
		}
	}
	if sniffer != nil {
		for _, path := range files {
			ok, err := sniffer.IsImage(ctx, path)
			if err != nil {
				// Identification trouble on one payload file must not hide
				// an image later in the list.
				continue
			}
			if ok {
				return path, nil
			}
		}
	}
	return "", ErrNoImageCandidate
}

func listFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}
