package testutil

import (
	"context"
	"path/filepath"
	"sync"

	"tidy-go/internal/model"
)

// StubClassifier returns canned results keyed by file basename and counts how
// many times it is invoked. Files without a canned result get Default.
type StubClassifier struct {
	mu      sync.Mutex
	calls   int
	Results map[string]model.ClassificationResult
	Default model.ClassificationResult
}

// NewStubClassifier creates a StubClassifier whose default result is
// category "Misc" with confidence 0.5.
func NewStubClassifier() *StubClassifier {
	return &StubClassifier{
		Results: make(map[string]model.ClassificationResult),
		Default: model.ClassificationResult{Category: "Misc", ConfidenceScore: 0.5},
	}
}

// Set registers a canned result for the given file basename.
func (c *StubClassifier) Set(basename string, result model.ClassificationResult) {
	c.Results[basename] = result
}

func (c *StubClassifier) Classify(_ context.Context, fp model.FileFingerprint, _ string) model.ClassificationResult {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()

	if result, ok := c.Results[filepath.Base(fp.Path)]; ok {
		result.Path = fp.Path
		return result
	}
	result := c.Default
	result.Path = fp.Path
	return result
}

// Calls returns how many times Classify has been invoked.
func (c *StubClassifier) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}
