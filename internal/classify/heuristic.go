package classify

import (
	"context"
	"path/filepath"
	"strings"

	"tidy-go/internal/model"
	"tidy-go/internal/tidy"
)

// HeuristicClassifier categorizes files from filename extension and cheap
// content checks against the head+tail sample. It never fails.
type HeuristicClassifier struct{}

// NewHeuristicClassifier creates a heuristic classifier.
func NewHeuristicClassifier() *HeuristicClassifier {
	return &HeuristicClassifier{}
}

// Classify applies extension and content heuristics, then refines the
// confidence score.
func (c *HeuristicClassifier) Classify(_ context.Context, fp model.FileFingerprint, textSample string) model.ClassificationResult {
	name := strings.ToLower(filepath.Base(fp.Path))

	category := "Misc"
	confidence := 0.5
	requiresDeepScan := false

	// Extension heuristics.
	if hasAnySuffix(name, ".pdf", ".docx") {
		requiresDeepScan = true
	}
	if hasAnySuffix(name, ".jpg", ".jpeg", ".png") {
		category = "Images"
		confidence = 0.9
	}

	// Content heuristics on the decoded sample.
	if textSample != "" {
		lower := strings.ToLower(textSample)
		if strings.Contains(lower, "invoice") || strings.Contains(lower, "total") {
			category = "Financial"
			confidence = 0.85
			requiresDeepScan = true
		}
	}

	return model.ClassificationResult{
		Category:         category,
		ConfidenceScore:  refineConfidence(name, category, confidence),
		RequiresDeepScan: requiresDeepScan,
		Path:             fp.Path,
	}
}

// refineConfidence adjusts the base score: generic categories are penalized,
// filename corroboration is rewarded, and the result is clamped to [0, 1].
func refineConfidence(fileName, category string, base float64) float64 {
	score := base

	if category == "Misc" || category == "Other" {
		score -= 0.2
	}
	if strings.Contains(fileName, strings.ToLower(category)) {
		score += 0.2
	}

	return min(max(score, 0.0), 1.0)
}

func hasAnySuffix(s string, suffixes ...string) bool {
	for _, suffix := range suffixes {
		if strings.HasSuffix(s, suffix) {
			return true
		}
	}
	return false
}

// Compile-time check that HeuristicClassifier implements tidy.Classifier
var _ tidy.Classifier = (*HeuristicClassifier)(nil)
