// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package status implements "homeinit status": a read-only drift
// report of every managed path, plus the foundation clone.
package status

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/homeinit/cmd/homeinit/cli"
	"github.com/bureau-foundation/homeinit/lib/colors"
	"github.com/bureau-foundation/homeinit/lib/dotfiles"
	"github.com/bureau-foundation/homeinit/lib/git"
	"github.com/bureau-foundation/homeinit/lib/tabular"
	"github.com/bureau-foundation/homeinit/lib/timehelper"
)

type statusParams struct {
	Manifest string `flag:"manifest,m" desc:"path to a manifest file (default: built-in manifest)"`
	Config   string `flag:"config,c" desc:"path to a config file (default: $HOMEINIT_CONFIG)"`
}

// Command returns the "homeinit status" command.
func Command() *cli.Command {
	var params statusParams

	return &cli.Command{
		Name:    "status",
		Summary: "Show drift between the manifest and the home directory",
		Description: `Report each managed path and what apply would do with it. Exits 1
when anything has drifted, so scripts can use status as a check.`,
		Usage: "homeinit status [flags]",
		Flags: func() *pflag.FlagSet { return cli.FlagsFromParams("status", &params) },
		Run: func(args []string) error {
			if len(args) != 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}
			return runStatus(params)
		},
	}
}

func runStatus(params statusParams) error {
	setup, err := dotfiles.LoadSetup(dotfiles.SetupOptions{
		ConfigPath:   params.Config,
		ManifestPath: params.Manifest,
	})
	if err != nil {
		return cli.Validation("%w", err)
	}

	actions, err := setup.Planner.Plan(setup.Manifest, setup.State)
	if err != nil {
		return cli.Internal("planning: %w", err)
	}

	theme := cli.DefaultTheme()
	table := tabular.New()
	if err := table.Header("STATE", "PATH", "DETAIL"); err != nil {
		return cli.Internal("building table: %w", err)
	}

	drifted := 0
	for _, action := range actions {
		label := action.Op.String()
		switch action.Op {
		case dotfiles.OpNone:
			label = theme.Ok.Render(label)
		case dotfiles.OpReplace:
			label = theme.Conflict.Render(label)
		default:
			label = theme.Pending.Render(label)
		}
		if action.Op != dotfiles.OpNone {
			drifted++
		}

		detail := action.Reason
		if action.Entry.Description != "" {
			detail = fmt.Sprintf("%s; %s", action.Entry.Description, action.Reason)
		}
		if err := table.Row(label, action.Entry.Target, detail); err != nil {
			return cli.Internal("building table: %w", err)
		}
	}

	if err := table.Flush(os.Stdout); err != nil {
		return cli.Internal("printing table: %w", err)
	}

	printFoundation(setup)

	if drifted > 0 {
		colors.Println(colors.Yellow(fmt.Sprintf("%d path(s) drifted; run 'homeinit apply'", drifted)))
		return &cli.ExitError{Code: 1}
	}
	colors.Println(colors.Green("all managed paths up to date"))
	return nil
}

// printFoundation reports the foundation clone below the table. Status
// stays usable without git: a missing binary just reports the clone as
// unverifiable.
func printFoundation(setup *dotfiles.Setup) {
	if _, err := os.Stat(setup.FoundationPath); err != nil {
		colors.Println(colors.Gray(fmt.Sprintf("foundation: not cloned (%s)", setup.FoundationPath)))
		return
	}
	if !git.IsAvailable() {
		colors.Println(colors.Gray("foundation: present, but git is not installed to inspect it"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	repo := git.NewRepository(setup.FoundationPath)
	commit, when, err := repo.HeadCommit(ctx)
	if err != nil {
		colors.Println(colors.Yellow(fmt.Sprintf("foundation: present but unreadable: %v", err)))
		return
	}
	colors.Println(colors.Gray(fmt.Sprintf("foundation: %s at %s (updated %s ago)",
		setup.FoundationPath, commit, timehelper.Age(when, time.Now()))))
}
