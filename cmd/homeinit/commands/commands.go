// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the complete homeinit command tree. main is
// a thin shell around it so tests can execute the same tree in
// process.
package commands

import (
	"fmt"

	backupcmd "github.com/bureau-foundation/homeinit/cmd/homeinit/backup"
	bootstrapcmd "github.com/bureau-foundation/homeinit/cmd/homeinit/bootstrap"
	"github.com/bureau-foundation/homeinit/cmd/homeinit/cli"
	doctorcmd "github.com/bureau-foundation/homeinit/cmd/homeinit/doctor"
	statuscmd "github.com/bureau-foundation/homeinit/cmd/homeinit/status"
	"github.com/bureau-foundation/homeinit/lib/version"
)

// Root builds and returns the complete homeinit command tree.
func Root() *cli.Command {
	return &cli.Command{
		Name: "homeinit",
		Description: `homeinit: home directory bootstrap.

Render shell, vim, and git configuration into $HOME/.ian, hook it into
your rc files with managed blocks, and clone the foundation library
into your code directory. Safe to re-run; never replaces a file it
did not write unless told to.`,
		Subcommands: []*cli.Command{
			bootstrapcmd.Command(),
			bootstrapcmd.ApplyCommand(),
			statuscmd.Command(),
			doctorcmd.Command(),
			backupcmd.Command(),
			{
				Name:    "version",
				Summary: "Print version information",
				Run: func(args []string) error {
					if len(args) > 0 {
						return cli.Validation("unexpected argument: %s", args[0])
					}
					fmt.Printf("homeinit %s\n", version.Full())
					return nil
				},
			},
		},
		Examples: []cli.Example{
			{
				Description: "Set up a fresh machine",
				Command:     "homeinit bootstrap ~/code",
			},
			{
				Description: "Check what has drifted since the last apply",
				Command:     "homeinit status",
			},
			{
				Description: "Diagnose the environment (start here when lost)",
				Command:     "homeinit doctor",
			},
		},
	}
}
