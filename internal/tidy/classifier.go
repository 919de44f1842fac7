package tidy

import (
	"context"

	"tidy-go/internal/model"
)

// Classifier maps a file fingerprint plus an optional decoded text sample to
// a category and confidence. Implementations must never fail for a single
// file: on any internal error they degrade to a best-effort result rather
// than abort the caller's scan loop.
type Classifier interface {
	Classify(ctx context.Context, fp model.FileFingerprint, textSample string) model.ClassificationResult
}
