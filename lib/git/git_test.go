// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package git

import (
	"context"
	"os/exec"
	"path/filepath"
	"testing"
	"time"
)

// initRepo creates a git repository with a single commit in a temp
// directory and returns it. Tests that need git skip when it is not
// installed — the package under test is a wrapper around the binary.
func initRepo(t *testing.T) *Repository {
	t.Helper()
	if !IsAvailable() {
		t.Skip("git not installed")
	}

	dir := t.TempDir()
	repo := NewRepository(dir)
	ctx := context.Background()

	for _, args := range [][]string{
		{"init", "--quiet"},
		{"config", "user.name", "test"},
		{"config", "user.email", "test@example.invalid"},
		{"commit", "--allow-empty", "--quiet", "-m", "initial"},
	} {
		if _, err := repo.Run(ctx, args...); err != nil {
			t.Fatalf("git %v: %v", args, err)
		}
	}
	return repo
}

func TestRun_CapturesStderrOnFailure(t *testing.T) {
	repo := initRepo(t)

	_, err := repo.Run(context.Background(), "no-such-subcommand")
	if err == nil {
		t.Fatal("Run() with bogus subcommand succeeded, want error")
	}
}

func TestHeadCommit(t *testing.T) {
	repo := initRepo(t)

	hash, commitTime, err := repo.HeadCommit(context.Background())
	if err != nil {
		t.Fatalf("HeadCommit() error: %v", err)
	}
	if hash == "" {
		t.Error("HeadCommit() returned empty hash")
	}
	if commitTime.IsZero() || time.Since(commitTime) > time.Hour {
		t.Errorf("HeadCommit() time = %v, want recent", commitTime)
	}
}

func TestIsWorkTree(t *testing.T) {
	repo := initRepo(t)

	if !repo.IsWorkTree(context.Background()) {
		t.Error("IsWorkTree() = false for a fresh repository, want true")
	}

	plain := NewRepository(t.TempDir())
	if plain.IsWorkTree(context.Background()) {
		t.Error("IsWorkTree() = true for a plain directory, want false")
	}
}

func TestClone(t *testing.T) {
	source := initRepo(t)

	target := filepath.Join(t.TempDir(), "clone")
	if err := Clone(context.Background(), source.Dir(), target); err != nil {
		t.Fatalf("Clone() error: %v", err)
	}
	if !NewRepository(target).IsWorkTree(context.Background()) {
		t.Error("cloned directory is not a work tree")
	}
}

func TestClone_BadURL(t *testing.T) {
	if !IsAvailable() {
		t.Skip("git not installed")
	}

	target := filepath.Join(t.TempDir(), "clone")
	err := Clone(context.Background(), filepath.Join(t.TempDir(), "nonexistent"), target)
	if err == nil {
		t.Fatal("Clone() from nonexistent source succeeded, want error")
	}
}

func TestVersion(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}

	version, err := Version(context.Background())
	if err != nil {
		t.Fatalf("Version() error: %v", err)
	}
	if version == "" {
		t.Error("Version() returned empty string")
	}
}
