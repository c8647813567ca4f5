// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package backup implements "homeinit backup": listing and restoring
// the archives that apply writes before replacing files.
package backup

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/homeinit/cmd/homeinit/cli"
	"github.com/bureau-foundation/homeinit/lib/backup"
	"github.com/bureau-foundation/homeinit/lib/colors"
	"github.com/bureau-foundation/homeinit/lib/config"
	"github.com/bureau-foundation/homeinit/lib/tabular"
	"github.com/bureau-foundation/homeinit/lib/timehelper"
)

// Command returns the "homeinit backup" command group.
func Command() *cli.Command {
	return &cli.Command{
		Name:    "backup",
		Summary: "List and restore pre-replacement backups",
		Description: `Every apply that replaces or rewrites an existing file first
archives the originals under the ian dir. These subcommands inspect
and undo those archives.`,
		Subcommands: []*cli.Command{
			listCommand(),
			restoreCommand(),
		},
	}
}

type listParams struct {
	Config string `flag:"config,c" desc:"path to a config file (default: $HOMEINIT_CONFIG)"`
}

func listCommand() *cli.Command {
	var params listParams

	return &cli.Command{
		Name:    "list",
		Summary: "List backup archives, newest first",
		Usage:   "homeinit backup list [flags]",
		Flags:   func() *pflag.FlagSet { return cli.FlagsFromParams("list", &params) },
		Run: func(args []string) error {
			if len(args) != 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}

			cfg, err := loadConfig(params.Config)
			if err != nil {
				return err
			}

			archives, err := backup.List(cfg.BackupDir())
			if err != nil {
				return cli.Internal("listing backups: %w", err)
			}
			if len(archives) == 0 {
				fmt.Println("no backups")
				return nil
			}

			table := tabular.New()
			if err := table.Header("ARCHIVE", "AGE", "FILES"); err != nil {
				return cli.Internal("building table: %w", err)
			}
			for _, archive := range archives {
				paths, err := backup.Entries(archive.Path)
				if err != nil {
					return cli.Internal("reading %s: %w", archive.Name, err)
				}
				if err := table.Row(archive.Name, timehelper.Age(archive.CreatedAt, time.Now().UTC()), fmt.Sprintf("%d", len(paths))); err != nil {
					return cli.Internal("building table: %w", err)
				}
			}
			return table.Flush(os.Stdout)
		},
	}
}

type restoreParams struct {
	Config string `flag:"config,c" desc:"path to a config file (default: $HOMEINIT_CONFIG)"`
	Yes    bool   `flag:"yes,y" desc:"restore without prompting for confirmation"`
}

func restoreCommand() *cli.Command {
	var params restoreParams

	return &cli.Command{
		Name:    "restore",
		Summary: "Restore the files from a backup archive",
		Description: `Put every file in the named archive back where it came from,
overwriting whatever is there now. The archive name is as printed by
"homeinit backup list". Restoring does not update homeinit's state:
the next status will report the restored files as drifted, which is
the point of restoring.`,
		Usage: "homeinit backup restore <archive> [flags]",
		Examples: []cli.Example{
			{
				Description: "Undo the most recent apply",
				Command:     "homeinit backup restore 20260824T101530.tar.zst",
			},
		},
		Flags: func() *pflag.FlagSet { return cli.FlagsFromParams("restore", &params) },
		Run: func(args []string) error {
			if len(args) != 1 {
				return cli.Validation("expected exactly one argument (the archive name), got %d\n\nRun 'homeinit backup restore --help' for usage.", len(args))
			}
			return runRestore(params, args[0])
		},
	}
}

func runRestore(params restoreParams, name string) error {
	cfg, err := loadConfig(params.Config)
	if err != nil {
		return err
	}

	// Accept a bare name from "backup list" output; reject paths so
	// restore can't be pointed at arbitrary archives by accident.
	if filepath.Base(name) != name {
		return cli.Validation("archive must be a bare name from 'homeinit backup list', got %q", name)
	}
	archivePath := filepath.Join(cfg.BackupDir(), name)
	if _, err := os.Stat(archivePath); os.IsNotExist(err) {
		return cli.NotFound("no archive %q in %s", name, cfg.BackupDir())
	}

	paths, err := backup.Entries(archivePath)
	if err != nil {
		return cli.Internal("reading archive: %w", err)
	}

	if !params.Yes {
		for _, path := range paths {
			colors.Println("  " + colors.Cyan(path))
		}
		if err := cli.ConfirmOrAbort(os.Stdin, fmt.Sprintf("Overwrite these %d file(s) with the archived versions?", len(paths))); err != nil {
			return err
		}
	}

	restored, err := backup.Restore(archivePath, "/")
	if err != nil {
		return cli.Internal("restoring: %w", err)
	}
	colors.Println(colors.Green(fmt.Sprintf("restored %d file(s) from %s", len(restored), name)))
	return nil
}

func loadConfig(path string) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if path != "" {
		cfg, err = config.LoadFile(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, cli.Validation("%w", err)
	}
	return cfg, nil
}
