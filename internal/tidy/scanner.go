package tidy

import "tidy-go/internal/model"

// Scanner computes the composite fingerprint for a file: basic stat metadata
// plus a hash over size, mtime, and a bounded content sample.
type Scanner interface {
	ScanFile(path string) (model.FileFingerprint, error)
}
