package convert

import "errors"

// Sentinel markers for conversion failures. The retry loop keys off these:
// extraction and backend failures consume a retry, a missing image candidate
// fails the file immediately because no retry can conjure an image that is
// not in the archive.
var (
	ErrExtractionFailed = errors.New("extraction failed")
	ErrNoImageCandidate = errors.New("no image candidate in archive")
	ErrBackendFailed    = errors.New("conversion backend failed")
)
