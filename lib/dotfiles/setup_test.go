// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package dotfiles

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/bureau-foundation/homeinit/lib/testutil"
)

func TestLoadSetup_Defaults(t *testing.T) {
	home := testutil.TempHome(t)

	setup, err := LoadSetup(SetupOptions{CodeDir: filepath.Join(home, "code")})
	if err != nil {
		t.Fatalf("LoadSetup() error: %v", err)
	}

	if setup.Config.Paths.Ian != filepath.Join(home, ".ian") {
		t.Errorf("ian dir = %q", setup.Config.Paths.Ian)
	}
	if setup.FoundationPath != filepath.Join(home, "code", "foundation") {
		t.Errorf("foundation path = %q", setup.FoundationPath)
	}
	if len(setup.Manifest.Entries) == 0 {
		t.Fatal("built-in manifest is empty")
	}

	// Expansion produced absolute targets anchored in the temp home.
	for _, entry := range setup.Manifest.Entries {
		if !filepath.IsAbs(entry.Target) {
			t.Errorf("target %q is not absolute", entry.Target)
		}
		if !strings.HasPrefix(entry.Target, home) {
			t.Errorf("target %q escaped the home dir", entry.Target)
		}
	}
}

func TestLoadSetup_CodeDirFallsBackToConfig(t *testing.T) {
	home := testutil.TempHome(t)

	configPath := filepath.Join(t.TempDir(), "homeinit.yaml")
	testutil.WriteFile(t, configPath, "paths:\n  code: "+filepath.Join(home, "src")+"\n")

	setup, err := LoadSetup(SetupOptions{ConfigPath: configPath})
	if err != nil {
		t.Fatalf("LoadSetup() error: %v", err)
	}
	if setup.CodeDir != filepath.Join(home, "src") {
		t.Errorf("code dir = %q, want the configured one", setup.CodeDir)
	}
}

func TestLoadSetup_GitOverridesWin(t *testing.T) {
	testutil.TempHome(t)

	setup, err := LoadSetup(SetupOptions{GitName: "Override", GitEmail: "override@example.invalid"})
	if err != nil {
		t.Fatalf("LoadSetup() error: %v", err)
	}
	if setup.Planner.Data.GitName != "Override" {
		t.Errorf("GitName = %q", setup.Planner.Data.GitName)
	}
	if setup.Config.Git.Email != "override@example.invalid" {
		t.Errorf("config email = %q", setup.Config.Git.Email)
	}
}

func TestLoadSetup_ManifestFile(t *testing.T) {
	home := testutil.TempHome(t)

	manifestPath := filepath.Join(t.TempDir(), "dotfiles.jsonc")
	testutil.WriteFile(t, manifestPath, `{
  // one link, nothing else
  "entries": [
    {"kind": "link", "source": "${IAN_DIR}/x", "target": "${HOME}/.x"},
  ],
}`)

	setup, err := LoadSetup(SetupOptions{ManifestPath: manifestPath})
	if err != nil {
		t.Fatalf("LoadSetup() error: %v", err)
	}
	if len(setup.Manifest.Entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(setup.Manifest.Entries))
	}
	if got := setup.Manifest.Entries[0].Target; got != filepath.Join(home, ".x") {
		t.Errorf("target = %q", got)
	}
	if setup.Planner.ManifestDir != filepath.Dir(manifestPath) {
		t.Errorf("ManifestDir = %q", setup.Planner.ManifestDir)
	}
}

func TestLoadSetup_StateLoads(t *testing.T) {
	home := testutil.TempHome(t)

	st := NewState()
	st.Files["/tmp/x"] = FileState{Kind: "template", Hash: "abc"}
	if err := st.Save(filepath.Join(home, ".ian", "state.json")); err != nil {
		t.Fatalf("Save: %v", err)
	}

	setup, err := LoadSetup(SetupOptions{})
	if err != nil {
		t.Fatalf("LoadSetup() error: %v", err)
	}
	if len(setup.State.Files) != 1 {
		t.Errorf("state files = %d, want 1", len(setup.State.Files))
	}
}
