package secrets

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadPrefersFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "key")
	if err := os.WriteFile(path, []byte("  from-file\n"), 0o600); err != nil {
		t.Fatalf("writing key: %v", err)
	}
	t.Setenv("TEST_SECRET", "from-env")

	got, err := Load(Source{Name: "api key", File: path, Value: "inline", Env: "TEST_SECRET"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "from-file" {
		t.Fatalf("expected file secret, got %q", got)
	}
}

func TestLoadFallbacks(t *testing.T) {
	t.Setenv("TEST_SECRET", " from-env ")

	got, err := Load(Source{Value: " inline ", Env: "TEST_SECRET"})
	if err != nil || got != "inline" {
		t.Fatalf("expected inline secret, got %q (%v)", got, err)
	}

	got, err = Load(Source{Env: "TEST_SECRET"})
	if err != nil || got != "from-env" {
		t.Fatalf("expected env secret, got %q (%v)", got, err)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	empty := filepath.Join(dir, "empty")
	if err := os.WriteFile(empty, []byte("\n"), 0o600); err != nil {
		t.Fatalf("writing key: %v", err)
	}

	if _, err := Load(Source{Name: "api key", File: empty}); err == nil || !strings.Contains(err.Error(), "is empty") {
		t.Fatalf("expected empty file error, got %v", err)
	}
	if _, err := Load(Source{Name: "api key", File: filepath.Join(dir, "missing")}); err == nil {
		t.Fatalf("expected missing file error")
	}
	if _, err := Load(Source{Name: "api key"}); err == nil || !strings.Contains(err.Error(), "api key is not configured") {
		t.Fatalf("expected not configured error, got %v", err)
	}
}
