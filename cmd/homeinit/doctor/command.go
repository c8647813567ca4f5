// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package doctor implements "homeinit doctor": environment checks for
// everything bootstrap needs, with a fix suggestion per failure. All
// checks run even when earlier ones fail, so one run shows the whole
// picture.
package doctor

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/homeinit/cmd/homeinit/cli"
	"github.com/bureau-foundation/homeinit/lib/colors"
	"github.com/bureau-foundation/homeinit/lib/dotfiles"
	"github.com/bureau-foundation/homeinit/lib/git"
	"github.com/bureau-foundation/homeinit/lib/timehelper"
)

type doctorParams struct {
	Manifest string `flag:"manifest,m" desc:"path to a manifest file (default: built-in manifest)"`
	Config   string `flag:"config,c" desc:"path to a config file (default: $HOMEINIT_CONFIG)"`
}

// Command returns the "homeinit doctor" command.
func Command() *cli.Command {
	var params doctorParams

	return &cli.Command{
		Name:    "doctor",
		Summary: "Diagnose the environment bootstrap depends on",
		Description: `Check that git is installed, the home directory is writable, the
config and manifest parse, and the foundation clone (if present) is a
healthy git checkout. Prints one line per check and a fix for each
failure, then exits 1 if anything failed.

This is the "I'm lost" command: run it first when bootstrap or apply
misbehaves.`,
		Usage: "homeinit doctor [flags]",
		Examples: []cli.Example{
			{
				Description: "Check the environment before a first bootstrap",
				Command:     "homeinit doctor",
			},
		},
		Flags: func() *pflag.FlagSet { return cli.FlagsFromParams("doctor", &params) },
		Run: func(args []string) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			return runDoctor(ctx, params)
		},
	}
}

// result is the outcome of one check.
type result struct {
	name string
	ok   bool
	note string
	fix  string
}

func runDoctor(ctx context.Context, params doctorParams) error {
	var results []result

	results = append(results, checkGit(ctx))
	results = append(results, checkShell())
	results = append(results, checkHome())

	setup, setupResults := checkSetup(params)
	results = append(results, setupResults...)
	if setup != nil {
		results = append(results, checkPlan(setup))
		results = append(results, checkFoundation(ctx, setup))
	}

	theme := cli.DefaultTheme()
	failed := 0
	for _, check := range results {
		mark := theme.Ok.Render("ok")
		if !check.ok {
			mark = theme.Fail.Render("FAIL")
			failed++
		}
		line := fmt.Sprintf("  %-6s %-22s %s", mark, check.name, check.note)
		colors.Println(line)
		if !check.ok && check.fix != "" {
			colors.Println(colors.Gray("         fix: " + check.fix))
		}
	}

	if failed > 0 {
		colors.Eprintln(colors.Red(fmt.Sprintf("%d check(s) failed", failed)))
		return &cli.ExitError{Code: 1}
	}
	colors.Println(colors.Green("all checks passed"))
	return nil
}

func checkGit(ctx context.Context) result {
	check := result{name: "git", fix: "install git via your package manager"}
	if !git.IsAvailable() {
		check.note = "not found on PATH"
		return check
	}
	gitVersion, err := git.Version(ctx)
	if err != nil {
		check.note = fmt.Sprintf("found but not runnable: %v", err)
		return check
	}
	check.ok = true
	check.note = "version " + gitVersion
	return check
}

// checkShell verifies at least one shell whose rc file the built-in
// manifest manages is installed. A missing shell is harmless (its rc
// block just sits unused), but none at all means the login environment
// is not what bootstrap expects.
func checkShell() result {
	check := result{name: "shell", fix: "install bash or zsh"}
	var found []string
	for _, shell := range []string{"bash", "zsh"} {
		if _, err := exec.LookPath(shell); err == nil {
			found = append(found, shell)
		}
	}
	if len(found) == 0 {
		check.note = "neither bash nor zsh on PATH"
		return check
	}
	check.ok = true
	check.note = strings.Join(found, ", ")
	return check
}

func checkHome() result {
	check := result{name: "home directory"}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		check.note = err.Error()
		check.fix = "set the HOME environment variable"
		return check
	}

	// A probe write catches read-only mounts that stat alone misses.
	probe, err := os.CreateTemp(homeDir, ".homeinit-doctor-*")
	if err != nil {
		check.note = fmt.Sprintf("%s is not writable: %v", homeDir, err)
		check.fix = "check ownership and permissions of " + homeDir
		return check
	}
	probe.Close()
	os.Remove(probe.Name())

	check.ok = true
	check.note = homeDir
	return check
}

// checkSetup loads config, manifest, and state. It returns the setup
// for the later checks, or nil when loading failed.
func checkSetup(params doctorParams) (*dotfiles.Setup, []result) {
	check := result{name: "config and manifest"}
	setup, err := dotfiles.LoadSetup(dotfiles.SetupOptions{
		ConfigPath:   params.Config,
		ManifestPath: params.Manifest,
	})
	if err != nil {
		check.note = err.Error()
		check.fix = "fix the reported file and re-run"
		return nil, []result{check}
	}
	check.ok = true
	check.note = fmt.Sprintf("%d manifest entries, ian dir %s", len(setup.Manifest.Entries), setup.Config.Paths.Ian)

	stateCheck := result{name: "state file", ok: true}
	statePath := setup.Config.StatePath()
	if _, err := os.Stat(statePath); os.IsNotExist(err) {
		stateCheck.note = "no state yet (never bootstrapped)"
	} else {
		stateCheck.note = fmt.Sprintf("%s tracks %d path(s)", statePath, len(setup.State.Files))
	}
	return setup, []result{check, stateCheck}
}

// checkPlan verifies planning itself works: templates render and every
// managed path is inspectable.
func checkPlan(setup *dotfiles.Setup) result {
	check := result{name: "plan"}
	actions, err := setup.Planner.Plan(setup.Manifest, setup.State)
	if err != nil {
		check.note = err.Error()
		check.fix = "fix the manifest entry named in the error"
		return check
	}

	pending := 0
	for _, action := range actions {
		if action.Changes() {
			pending++
		}
	}
	check.ok = true
	if pending == 0 {
		check.note = "nothing to do"
	} else {
		check.note = fmt.Sprintf("%d change(s) pending; see 'homeinit status'", pending)
	}
	return check
}

func checkFoundation(ctx context.Context, setup *dotfiles.Setup) result {
	check := result{name: "foundation clone"}
	if _, err := os.Stat(setup.FoundationPath); os.IsNotExist(err) {
		check.ok = true
		check.note = "not cloned yet (bootstrap will clone it)"
		return check
	}

	if entries, err := os.ReadDir(filepath.Join(setup.FoundationPath, ".git")); err != nil || len(entries) == 0 {
		check.note = fmt.Sprintf("%s exists but is not a git repository", setup.FoundationPath)
		check.fix = "move the directory aside and re-run bootstrap"
		return check
	}

	repo := git.NewRepository(setup.FoundationPath)
	if !repo.IsWorkTree(ctx) {
		check.note = fmt.Sprintf("%s is not a usable work tree", setup.FoundationPath)
		check.fix = "move the directory aside and re-run bootstrap"
		return check
	}

	commit, committedAt, err := repo.HeadCommit(ctx)
	if err != nil {
		check.note = fmt.Sprintf("clone present but unreadable: %v", err)
		check.fix = "re-clone with 'homeinit bootstrap'"
		return check
	}
	check.ok = true
	check.note = fmt.Sprintf("%s at %s (%s)", setup.FoundationPath, commit,
		timehelper.Age(committedAt, time.Now()))
	return check
}
