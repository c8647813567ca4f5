// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package git provides typed access to the git CLI for the small set of
// repository operations homeinit performs: cloning the foundation
// library, inspecting a checkout's head commit, and probing whether git
// is installed at all. All commands target a specific repository
// directory via the -C flag, which is automatically injected by all
// Repository methods.
package git

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// Repository represents a git repository at a specific directory. All
// operations target this directory via "git -C <dir>". There is no
// default directory — callers must always specify which repository
// they mean.
type Repository struct {
	dir string
}

// NewRepository returns a Repository targeting the given directory.
func NewRepository(dir string) *Repository {
	return &Repository{dir: dir}
}

// Dir returns the repository directory.
func (r *Repository) Dir() string {
	return r.dir
}

// Run executes a git command targeting this repository and returns
// stdout. Stderr is captured separately and included in error messages
// on failure.
func (r *Repository) Run(ctx context.Context, args ...string) (string, error) {
	fullArgs := append([]string{"-C", r.dir}, args...)
	var stdout, stderr bytes.Buffer
	command := exec.CommandContext(ctx, "git", fullArgs...)
	command.Stdout = &stdout
	command.Stderr = &stderr

	if err := command.Run(); err != nil {
		return "", fmt.Errorf("git %s in %s: %w (stderr: %s)",
			strings.Join(args, " "), r.dir, err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}

// HeadCommit returns the short hash and commit time of the
// repository's HEAD. This backs "homeinit version" output when running
// from a checkout, and doctor's clone-freshness check.
func (r *Repository) HeadCommit(ctx context.Context) (string, time.Time, error) {
	output, err := r.Run(ctx, "log", "-1", "--format=%h %ct")
	if err != nil {
		return "", time.Time{}, err
	}

	hash, epochString, found := strings.Cut(strings.TrimSpace(output), " ")
	if !found {
		return "", time.Time{}, fmt.Errorf("unexpected git log output %q in %s", output, r.dir)
	}
	epochSeconds, err := strconv.ParseInt(epochString, 10, 64)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("parsing commit timestamp %q: %w", epochString, err)
	}
	return hash, time.Unix(epochSeconds, 0).UTC(), nil
}

// IsWorkTree reports whether the repository directory is inside a git
// working tree. A clone that was deleted and recreated as a plain
// directory fails this check.
func (r *Repository) IsWorkTree(ctx context.Context) bool {
	output, err := r.Run(ctx, "rev-parse", "--is-inside-work-tree")
	return err == nil && strings.TrimSpace(output) == "true"
}

// Clone clones url into dir. The parent of dir must exist; git creates
// dir itself. Progress output is discarded — callers print their own
// status line.
func Clone(ctx context.Context, url, dir string) error {
	var stderr bytes.Buffer
	command := exec.CommandContext(ctx, "git", "clone", "--quiet", url, dir)
	command.Stderr = &stderr

	if err := command.Run(); err != nil {
		return fmt.Errorf("git clone %s into %s: %w (stderr: %s)",
			url, dir, err, strings.TrimSpace(stderr.String()))
	}
	return nil
}

// IsAvailable reports whether the git binary can be found in PATH.
// Bootstrap refuses to run without it.
func IsAvailable() bool {
	_, err := exec.LookPath("git")
	return err == nil
}

// Version returns the installed git version string (e.g. "2.43.0"),
// with the "git version " prefix stripped.
func Version(ctx context.Context) (string, error) {
	var stdout bytes.Buffer
	command := exec.CommandContext(ctx, "git", "--version")
	command.Stdout = &stdout

	if err := command.Run(); err != nil {
		return "", fmt.Errorf("git --version: %w", err)
	}
	return strings.TrimPrefix(strings.TrimSpace(stdout.String()), "git version "), nil
}
