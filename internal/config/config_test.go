package config

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewConfig(t *testing.T) {
	cfg := NewConfig("/data/tidy")

	if cfg.BaseDir != "/data/tidy" {
		t.Errorf("unexpected base dir: %s", cfg.BaseDir)
	}
	if cfg.LogDir != filepath.Join("/data/tidy", "log") {
		t.Errorf("unexpected log dir: %s", cfg.LogDir)
	}
	if cfg.Store.Type != "sqlite" {
		t.Errorf("expected sqlite store, got %s", cfg.Store.Type)
	}
	if cfg.Store.DataDir != filepath.Join("/data/tidy", "state") {
		t.Errorf("unexpected data dir: %s", cfg.Store.DataDir)
	}
	if cfg.Classifier.Type != "heuristic" {
		t.Errorf("expected heuristic classifier, got %s", cfg.Classifier.Type)
	}
	if cfg.AllowSymlinks {
		t.Errorf("expected symlinks disabled by default")
	}
}

func TestReadWrite(t *testing.T) {
	m := &Manager{}

	t.Run("round-trips through TOML", func(t *testing.T) {
		cfg := NewConfig("/data/tidy")
		cfg.Classifier = ClassifierConfig{Type: "remote", Model: "gpt-4o", APIKeyEnv: "MY_KEY"}
		cfg.Filesystem.Ignore = []string{"*.log", "cache/*"}

		var buf bytes.Buffer
		if err := m.Write(&buf, cfg); err != nil {
			t.Fatalf("Write failed: %v", err)
		}

		loaded, err := m.Read(&buf)
		if err != nil {
			t.Fatalf("Read failed: %v", err)
		}
		if loaded.BaseDir != cfg.BaseDir {
			t.Errorf("base dir mismatch: %s", loaded.BaseDir)
		}
		if loaded.Classifier != cfg.Classifier {
			t.Errorf("classifier mismatch: %+v", loaded.Classifier)
		}
		if len(loaded.Filesystem.Ignore) != 2 {
			t.Errorf("ignore patterns mismatch: %v", loaded.Filesystem.Ignore)
		}
	})

	t.Run("rejects malformed TOML", func(t *testing.T) {
		if _, err := m.Read(strings.NewReader("not = [valid")); err == nil {
			t.Errorf("expected decode error")
		}
	})
}

func TestInit(t *testing.T) {
	t.Run("creates a new config file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "conf", "tidy.toml")
		if err := Init(path, NewConfig("/data/tidy")); err != nil {
			t.Fatalf("Init failed: %v", err)
		}

		loaded, err := ReadFromFile(path)
		if err != nil {
			t.Fatalf("ReadFromFile failed: %v", err)
		}
		if loaded.BaseDir != "/data/tidy" {
			t.Errorf("unexpected base dir: %s", loaded.BaseDir)
		}
	})

	t.Run("refuses to overwrite", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tidy.toml")
		if err := Init(path, NewConfig("/data/tidy")); err != nil {
			t.Fatalf("Init failed: %v", err)
		}
		if err := Init(path, NewConfig("/other")); err == nil {
			t.Errorf("expected error for existing config")
		}
	})
}

func TestReadFromFileMissing(t *testing.T) {
	if _, err := ReadFromFile(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Errorf("expected error for missing config file")
	}
}
