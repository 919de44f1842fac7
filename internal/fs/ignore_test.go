package fs

import (
	"os"
	"path/filepath"
	"testing"
)

func TestIgnoreMatcher(t *testing.T) {
	t.Run("basename patterns match anywhere", func(t *testing.T) {
		m := NewIgnoreMatcher([]string{"*.log"})
		if !m.Match("app.log") {
			t.Errorf("expected top-level match")
		}
		if !m.Match(filepath.Join("sub", "deep", "app.log")) {
			t.Errorf("expected nested match")
		}
		if m.Match("app.txt") {
			t.Errorf("expected no match for different extension")
		}
	})

	t.Run("path patterns match the relative path", func(t *testing.T) {
		m := NewIgnoreMatcher([]string{"cache/*"})
		if !m.Match(filepath.Join("cache", "entry.txt")) {
			t.Errorf("expected path match")
		}
		if m.Match(filepath.Join("other", "entry.txt")) {
			t.Errorf("expected no match outside cache")
		}
	})

	t.Run("blank lines and comments are skipped", func(t *testing.T) {
		m := NewIgnoreMatcher([]string{"", "  ", "# comment", "*.tmp"})
		if !m.Match("x.tmp") {
			t.Errorf("expected *.tmp to survive filtering")
		}
		if m.Match("# comment") {
			t.Errorf("comment line should not become a pattern")
		}
	})

	t.Run("the ignore file itself is always ignored", func(t *testing.T) {
		m := NewIgnoreMatcher(nil)
		if !m.Match(".tidyignore") {
			t.Errorf("expected .tidyignore to be ignored by default")
		}
	})

	t.Run("invalid patterns are skipped", func(t *testing.T) {
		m := NewIgnoreMatcher([]string{"[unclosed"})
		if m.Match("anything.txt") {
			t.Errorf("bad pattern should not match")
		}
	})
}

func TestParseIgnoreFile(t *testing.T) {
	t.Run("reads patterns line by line", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ".tidyignore")
		if err := os.WriteFile(path, []byte("*.log\ncache/*\n"), 0644); err != nil {
			t.Fatalf("failed to write file: %v", err)
		}

		patterns, err := ParseIgnoreFile(path)
		if err != nil {
			t.Fatalf("ParseIgnoreFile failed: %v", err)
		}
		if len(patterns) != 2 || patterns[0] != "*.log" || patterns[1] != "cache/*" {
			t.Errorf("unexpected patterns: %v", patterns)
		}
	})

	t.Run("missing file yields nil without error", func(t *testing.T) {
		patterns, err := ParseIgnoreFile(filepath.Join(t.TempDir(), "absent"))
		if err != nil {
			t.Fatalf("ParseIgnoreFile failed: %v", err)
		}
		if patterns != nil {
			t.Errorf("expected nil patterns, got %v", patterns)
		}
	})
}
