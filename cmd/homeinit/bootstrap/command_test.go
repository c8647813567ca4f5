// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package bootstrap

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bureau-foundation/homeinit/cmd/homeinit/cli"
	"github.com/bureau-foundation/homeinit/lib/dotfiles"
	"github.com/bureau-foundation/homeinit/lib/git"
	"github.com/bureau-foundation/homeinit/lib/testutil"
)

func TestBootstrap_ArgumentCount(t *testing.T) {
	testutil.TempHome(t)

	err := Command().Execute(nil)
	var commandErr *cli.CommandError
	if !errors.As(err, &commandErr) || commandErr.Category != cli.CategoryValidation {
		t.Errorf("no args: error = %v, want validation error", err)
	}
}

func TestBootstrap_DryRunTouchesNothing(t *testing.T) {
	if !git.IsAvailable() {
		t.Skip("git not installed")
	}
	home := testutil.TempHome(t)
	codeDir := filepath.Join(home, "code")

	err := Command().Execute([]string{codeDir, "--dry-run", "--skip-clone"})
	if err != nil {
		t.Fatalf("dry-run bootstrap error: %v", err)
	}

	entries, err := os.ReadDir(home)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("dry run created files in home: %v", entries)
	}
}

func TestBootstrap_SkipCloneAppliesDotfiles(t *testing.T) {
	if !git.IsAvailable() {
		t.Skip("git not installed")
	}
	home := testutil.TempHome(t)
	codeDir := filepath.Join(home, "code")

	err := Command().Execute([]string{
		codeDir, "--skip-clone", "--yes",
		"--git-name", "Test User", "--git-email", "test@example.invalid",
	})
	if err != nil {
		t.Fatalf("bootstrap error: %v", err)
	}

	if _, err := os.Stat(filepath.Join(home, ".ian", "shell.sh")); err != nil {
		t.Errorf("shell.sh not written: %v", err)
	}

	// The configured git identity made it into the gitconfig stub.
	content, err := os.ReadFile(filepath.Join(home, ".ian", "gitconfig"))
	if err != nil {
		t.Fatalf("ReadFile(gitconfig): %v", err)
	}
	for _, want := range []string{"name = Test User", "email = test@example.invalid"} {
		if !strings.Contains(string(content), want) {
			t.Errorf("gitconfig missing %q:\n%s", want, content)
		}
	}
}

func TestBootstrap_NonInteractiveNeedsIdentity(t *testing.T) {
	if !git.IsAvailable() {
		t.Skip("git not installed")
	}
	testutil.TempHome(t)

	// No identity via flags or config, and stdin is not a terminal in
	// tests, so bootstrap must refuse rather than hang on a prompt.
	err := Command().Execute([]string{filepath.Join(t.TempDir(), "code"), "--skip-clone", "--yes"})
	var commandErr *cli.CommandError
	if !errors.As(err, &commandErr) || commandErr.Category != cli.CategoryValidation {
		t.Errorf("error = %v, want validation error about git identity", err)
	}
}

func TestLoadSetup_MissingManifestIsNotFound(t *testing.T) {
	testutil.TempHome(t)

	_, err := loadSetup(dotfiles.SetupOptions{ManifestPath: filepath.Join(t.TempDir(), "nope.jsonc")})
	var commandErr *cli.CommandError
	if !errors.As(err, &commandErr) || commandErr.Category != cli.CategoryNotFound {
		t.Errorf("error = %v, want not_found error", err)
	}
}
