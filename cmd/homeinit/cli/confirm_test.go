// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

// A pipe is not a terminal, so Confirm must decline without reading.
func TestConfirm_DeclinesWhenNotATerminal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "input")
	if err := os.WriteFile(path, []byte("yes\n"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	in, err := os.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer in.Close()

	confirmed, err := Confirm(in, "proceed?")
	if err != nil {
		t.Fatalf("Confirm() error: %v", err)
	}
	if confirmed {
		t.Error("Confirm() = true on non-terminal input, want false")
	}
}

func TestConfirmOrAbort_NonTerminalIsValidationError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "input")
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	in, err := os.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer in.Close()

	abortErr := ConfirmOrAbort(in, "proceed?")
	var commandErr *CommandError
	if !errors.As(abortErr, &commandErr) || commandErr.Category != CategoryValidation {
		t.Errorf("ConfirmOrAbort() = %v, want validation error", abortErr)
	}
}

func TestLogLevel(t *testing.T) {
	tests := []struct {
		value string
		want  slog.Level
	}{
		{"", slog.LevelInfo},
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"verbose", slog.LevelInfo},
	}
	for _, test := range tests {
		t.Setenv("HOMEINIT_LOG_LEVEL", test.value)
		if got := logLevel(); got != test.want {
			t.Errorf("logLevel() with %q = %v, want %v", test.value, got, test.want)
		}
	}
}
