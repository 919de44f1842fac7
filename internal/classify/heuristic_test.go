package classify

import (
	"context"
	"testing"

	"tidy-go/internal/model"
)

func TestHeuristicClassifier(t *testing.T) {
	classifier := NewHeuristicClassifier()
	ctx := context.Background()

	fp := func(path string) model.FileFingerprint {
		return model.FileFingerprint{Path: path, Hash: "h"}
	}

	t.Run("image extensions", func(t *testing.T) {
		for _, name := range []string{"/tmp/photo.jpg", "/tmp/photo.JPEG", "/tmp/shot.png"} {
			result := classifier.Classify(ctx, fp(name), "")
			if result.Category != "Images" {
				t.Errorf("%s: expected Images, got %s", name, result.Category)
			}
			if result.ConfidenceScore < 0.8 {
				t.Errorf("%s: expected high confidence, got %.2f", name, result.ConfidenceScore)
			}
		}
	})

	t.Run("documents require deep scan", func(t *testing.T) {
		for _, name := range []string{"/tmp/report.pdf", "/tmp/letter.docx"} {
			result := classifier.Classify(ctx, fp(name), "")
			if !result.RequiresDeepScan {
				t.Errorf("%s: expected deep scan flag", name)
			}
		}
	})

	t.Run("invoice content is financial", func(t *testing.T) {
		result := classifier.Classify(ctx, fp("/tmp/doc.txt"), "INVOICE #1234\nTotal: $99.00")
		if result.Category != "Financial" {
			t.Errorf("expected Financial, got %s", result.Category)
		}
		if !result.RequiresDeepScan {
			t.Errorf("expected deep scan flag for financial content")
		}
	})

	t.Run("unknown file falls back to Misc with low confidence", func(t *testing.T) {
		result := classifier.Classify(ctx, fp("/tmp/random.xyz"), "nothing notable")
		if result.Category != "Misc" {
			t.Errorf("expected Misc, got %s", result.Category)
		}
		if result.ConfidenceScore >= 0.5 {
			t.Errorf("expected penalized confidence for Misc, got %.2f", result.ConfidenceScore)
		}
	})

	t.Run("filename corroboration raises confidence", func(t *testing.T) {
		plain := classifier.Classify(ctx, fp("/tmp/photo.jpg"), "")
		corroborated := classifier.Classify(ctx, fp("/tmp/my-images.jpg"), "")
		if corroborated.ConfidenceScore <= plain.ConfidenceScore {
			t.Errorf("expected corroborated confidence %.2f to beat %.2f",
				corroborated.ConfidenceScore, plain.ConfidenceScore)
		}
	})

	t.Run("confidence stays within bounds", func(t *testing.T) {
		result := classifier.Classify(ctx, fp("/tmp/images-images.jpg"), "")
		if result.ConfidenceScore > 1.0 || result.ConfidenceScore < 0.0 {
			t.Errorf("confidence out of bounds: %.2f", result.ConfidenceScore)
		}
	})

	t.Run("result carries the file path", func(t *testing.T) {
		result := classifier.Classify(ctx, fp("/tmp/a.txt"), "")
		if result.Path != "/tmp/a.txt" {
			t.Errorf("expected path to round-trip, got %s", result.Path)
		}
	})
}
