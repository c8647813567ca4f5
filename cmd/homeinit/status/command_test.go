// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package status

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/bureau-foundation/homeinit/cmd/homeinit/cli"
	"github.com/bureau-foundation/homeinit/lib/testutil"
)

func TestStatus_RejectsArguments(t *testing.T) {
	testutil.TempHome(t)

	err := Command().Execute([]string{"extra"})
	var commandErr *cli.CommandError
	if !errors.As(err, &commandErr) || commandErr.Category != cli.CategoryValidation {
		t.Errorf("error = %v, want validation error", err)
	}
}

func TestStatus_CustomManifestDrift(t *testing.T) {
	home := testutil.TempHome(t)

	manifestPath := filepath.Join(t.TempDir(), "dotfiles.jsonc")
	testutil.WriteFile(t, manifestPath, `{
  "entries": [
    {"kind": "rc", "target": "${HOME}/.profile", "lines": ["export X=1"]},
  ],
}`)

	// The rc block is missing, so status reports drift with exit 1.
	err := Command().Execute([]string{"--manifest", manifestPath})
	var exitErr *cli.ExitError
	if !errors.As(err, &exitErr) || exitErr.Code != 1 {
		t.Fatalf("error = %v, want ExitError{1}", err)
	}

	// With the block in place and recorded, status is clean... except
	// state does not record it, which plans as an adopt. Adopt counts
	// as drift: status stays honest about pending state writes.
	testutil.WriteFile(t, filepath.Join(home, ".profile"),
		"# >>> homeinit managed block >>>\nexport X=1\n# <<< homeinit managed block <<<\n")
	err = Command().Execute([]string{"--manifest", manifestPath})
	if !errors.As(err, &exitErr) || exitErr.Code != 1 {
		t.Fatalf("error = %v, want ExitError{1} for pending adopt", err)
	}
}
