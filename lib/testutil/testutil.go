// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for homeinit packages.
//
// [TempHome] redirects HOME to a fresh temporary directory and clears
// HOMEINIT_CONFIG, so command tests run against built-in defaults and
// cannot touch the developer's real home directory. Almost every
// command test starts with it.
//
// All helpers call t.Fatalf on failure rather than returning errors,
// since test setup failures are not recoverable.
//
// This package has no homeinit-internal dependencies.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// TempHome points HOME at a fresh temporary directory for the duration
// of the test and clears HOMEINIT_CONFIG. Returns the directory.
func TempHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("HOMEINIT_CONFIG", "")
	return home
}

// WriteFile writes content to path (mode 0644), creating parent
// directories as needed.
func WriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("MkdirAll(%s): %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile(%s): %v", path, err)
	}
}
