package utils

import (
	"path/filepath"
	"testing"
)

func TestGetAbsolutePath(t *testing.T) {
	if got := GetAbsolutePath(""); got != "unknown" {
		t.Errorf("GetAbsolutePath(\"\") = %q, want %q", got, "unknown")
	}

	abs := filepath.Join(t.TempDir(), "config.toml")
	if got := GetAbsolutePath(abs); got != abs {
		t.Errorf("GetAbsolutePath(%q) = %q, want unchanged", abs, got)
	}

	got := GetAbsolutePath("config.toml")
	if !filepath.IsAbs(got) {
		t.Errorf("GetAbsolutePath(config.toml) = %q, want absolute", got)
	}
	if filepath.Base(got) != "config.toml" {
		t.Errorf("GetAbsolutePath(config.toml) = %q, lost the file name", got)
	}
}
