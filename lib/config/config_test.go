// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad_DefaultsWhenEnvUnset(t *testing.T) {
	t.Setenv("HOMEINIT_CONFIG", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Foundation.URL != DefaultFoundationURL {
		t.Errorf("Foundation.URL = %q, want default", cfg.Foundation.URL)
	}
	if !strings.HasSuffix(cfg.Paths.Ian, ".ian") {
		t.Errorf("Paths.Ian = %q, want a .ian directory", cfg.Paths.Ian)
	}
}

func TestLoadFile_MergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
git:
  name: Test User
  email: test@example.invalid
paths:
  ian: ${HOME}/.ian
foundation:
  dir: fdn
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}
	if cfg.Git.Name != "Test User" {
		t.Errorf("Git.Name = %q, want %q", cfg.Git.Name, "Test User")
	}
	if cfg.Paths.Ian != filepath.Join(home, ".ian") {
		t.Errorf("Paths.Ian = %q, want ${HOME} expanded to %q", cfg.Paths.Ian, home)
	}
	// Unset fields keep their defaults.
	if cfg.Foundation.URL != DefaultFoundationURL {
		t.Errorf("Foundation.URL = %q, want default preserved", cfg.Foundation.URL)
	}
	if got := cfg.FoundationPath("/code"); got != "/code/fdn" {
		t.Errorf("FoundationPath() = %q, want %q", got, "/code/fdn")
	}
}

func TestLoadFile_Missing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("LoadFile() with missing file succeeded, want error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty ian path", func(c *Config) { c.Paths.Ian = "" }},
		{"relative ian path", func(c *Config) { c.Paths.Ian = "relative/.ian" }},
		{"empty foundation url", func(c *Config) { c.Foundation.URL = "" }},
		{"absolute foundation dir", func(c *Config) { c.Foundation.Dir = "/abs" }},
		{"escaping foundation dir", func(c *Config) { c.Foundation.Dir = "../escape" }},
		{"bad email", func(c *Config) { c.Git.Email = "not-an-email" }},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cfg := Default()
			test.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() succeeded, want error")
			}
		})
	}
}

func TestExpandVars_DefaultValue(t *testing.T) {
	got := expandVars("${HOMEINIT_UNSET_VAR:-fallback}/x", map[string]string{})
	if got != "fallback/x" {
		t.Errorf("expandVars() = %q, want %q", got, "fallback/x")
	}
}
