// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package bootstrap implements "homeinit bootstrap" and "homeinit
// apply". Bootstrap is the full first-run sequence: render and install
// the managed dotfiles, then clone the foundation library into the
// code directory. Apply is the steady-state subset: re-run the
// manifest against the filesystem without touching the clone.
package bootstrap

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/bureau-foundation/homeinit/cmd/homeinit/cli"
	"github.com/bureau-foundation/homeinit/lib/colors"
	"github.com/bureau-foundation/homeinit/lib/dotfiles"
	"github.com/bureau-foundation/homeinit/lib/git"
	"github.com/bureau-foundation/homeinit/lib/version"
)

// cloneTimeout bounds the foundation clone. A clone that takes longer
// than this is stuck, not slow.
const cloneTimeout = 5 * time.Minute

type bootstrapParams struct {
	Manifest  string `flag:"manifest,m" desc:"path to a manifest file (default: built-in manifest)"`
	Config    string `flag:"config,c" desc:"path to a config file (default: $HOMEINIT_CONFIG)"`
	GitName   string `flag:"git-name" desc:"git identity name (overrides config)"`
	GitEmail  string `flag:"git-email" desc:"git identity email (overrides config)"`
	Force     bool   `flag:"force,f" desc:"replace files not written by homeinit (after backing them up)"`
	SkipClone bool   `flag:"skip-clone" desc:"do not clone the foundation repository"`
	DryRun    bool   `flag:"dry-run,n" desc:"show the plan without changing anything"`
	Yes       bool   `flag:"yes,y" desc:"apply without prompting for confirmation"`
}

// Command returns the "homeinit bootstrap" command.
func Command() *cli.Command {
	var params bootstrapParams

	return &cli.Command{
		Name:    "bootstrap",
		Summary: "Set up a fresh home directory",
		Description: `Install the managed dotfiles and clone the foundation library.

The code directory argument is where the foundation repository is
cloned (as <code-dir>/foundation by default). Generated files live in
the ian dir ($HOME/.ian); rc files get a managed block that sources
them, so the rest of each rc file stays yours.

Re-running bootstrap is safe: files that already match are left alone,
and files homeinit wrote earlier are updated in place. Files homeinit
does not own are never replaced without --force, and every replaced
file is archived under the ian dir first.`,
		Usage: "homeinit bootstrap <code-dir> [flags]",
		Examples: []cli.Example{
			{
				Description: "First run on a new machine",
				Command:     "homeinit bootstrap ~/code --git-name 'Ian F.' --git-email ian@example.com",
			},
			{
				Description: "See what would change, without changing it",
				Command:     "homeinit bootstrap ~/code --dry-run",
			},
		},
		Flags: func() *pflag.FlagSet { return cli.FlagsFromParams("bootstrap", &params) },
		Run: func(args []string) error {
			if len(args) != 1 {
				return cli.Validation("expected exactly one argument (the code directory), got %d\n\nRun 'homeinit bootstrap --help' for usage.", len(args))
			}
			return runBootstrap(params, args[0])
		},
	}
}

type applyParams struct {
	Manifest string `flag:"manifest,m" desc:"path to a manifest file (default: built-in manifest)"`
	Config   string `flag:"config,c" desc:"path to a config file (default: $HOMEINIT_CONFIG)"`
	Force    bool   `flag:"force,f" desc:"replace files not written by homeinit (after backing them up)"`
	DryRun   bool   `flag:"dry-run,n" desc:"show the plan without changing anything"`
	Yes      bool   `flag:"yes,y" desc:"apply without prompting for confirmation"`
}

// ApplyCommand returns the "homeinit apply" command.
func ApplyCommand() *cli.Command {
	var params applyParams

	return &cli.Command{
		Name:    "apply",
		Summary: "Re-apply the manifest to the home directory",
		Description: `Bring managed files back in line with the manifest. This is
bootstrap without the clone: it renders templates, fixes symlinks, and
refreshes rc blocks, using the same conflict rules.`,
		Usage: "homeinit apply [flags]",
		Flags: func() *pflag.FlagSet { return cli.FlagsFromParams("apply", &params) },
		Run: func(args []string) error {
			if len(args) != 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}
			setup, err := loadSetup(dotfiles.SetupOptions{
				ConfigPath:   params.Config,
				ManifestPath: params.Manifest,
			})
			if err != nil {
				return err
			}
			return runPlan(setup, params.Force, params.DryRun, params.Yes)
		},
	}
}

func runBootstrap(params bootstrapParams, codeDir string) error {
	if !git.IsAvailable() {
		return cli.Precondition("git is not on PATH; install git and re-run")
	}

	setup, err := loadSetup(dotfiles.SetupOptions{
		ConfigPath:   params.Config,
		ManifestPath: params.Manifest,
		CodeDir:      codeDir,
		GitName:      params.GitName,
		GitEmail:     params.GitEmail,
	})
	if err != nil {
		return err
	}
	if err := resolveGitIdentity(setup, params.DryRun); err != nil {
		return err
	}

	if err := runPlan(setup, params.Force, params.DryRun, params.Yes); err != nil {
		return err
	}
	if params.DryRun {
		if !params.SkipClone {
			fmt.Printf("would clone %s into %s\n", setup.Config.Foundation.URL, setup.FoundationPath)
		}
		return nil
	}

	if !params.SkipClone {
		if err := cloneFoundation(setup); err != nil {
			return err
		}
	}

	colors.Println(colors.Green("bootstrap complete"))
	return nil
}

// runPlan plans, prints, optionally confirms, and applies. Shared by
// bootstrap and apply.
func runPlan(setup *dotfiles.Setup, force, dryRun, yes bool) error {
	actions, err := setup.Planner.Plan(setup.Manifest, setup.State)
	if err != nil {
		return cli.Internal("planning: %w", err)
	}

	pending := printPlan(actions)
	if pending == 0 {
		fmt.Println("everything up to date")
		return nil
	}
	if dryRun {
		return nil
	}

	if !yes {
		if err := cli.ConfirmOrAbort(os.Stdin, fmt.Sprintf("Apply %d change(s)?", pending)); err != nil {
			return err
		}
	}

	result, err := dotfiles.Apply(actions, setup.State, setup.ApplyOptions(force))
	if err != nil {
		var conflict *dotfiles.ConflictError
		if errors.As(err, &conflict) {
			return cli.Conflict("%w", conflict)
		}
		return err
	}

	if result.ArchivePath != "" {
		fmt.Printf("backed up replaced files to %s\n", result.ArchivePath)
	}
	fmt.Printf("applied %d change(s)\n", len(result.Applied))
	return nil
}

// printPlan writes one line per planned action and returns the number
// of actions that would change the filesystem.
func printPlan(actions []dotfiles.Action) int {
	theme := cli.DefaultTheme()
	pending := 0
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
		if action.Changes() {
			pending++
		}
		colors.Println(fmt.Sprintf("  %-18s %s (%s)", label, action.Entry.Target, action.Reason))
	}
	return pending
}

// cloneFoundation ensures the foundation repository is present in the
// code directory.
func cloneFoundation(setup *dotfiles.Setup) error {
	ctx, cancel := context.WithTimeout(context.Background(), cloneTimeout)
	defer cancel()

	logger := cli.NewCommandLogger().With("command", "bootstrap")

	repo := git.NewRepository(setup.FoundationPath)
	if _, err := os.Stat(setup.FoundationPath); err == nil {
		if !repo.IsWorkTree(ctx) {
			return cli.Conflict("%s exists but is not a git repository", setup.FoundationPath)
		}
		described, err := version.FromRepository(ctx, repo)
		if err != nil {
			return cli.Internal("inspecting existing clone: %w", err)
		}
		logger.Info("foundation already cloned", "path", setup.FoundationPath, "version", described)
		return nil
	}

	// git creates the clone directory itself, but not its parent.
	if err := os.MkdirAll(setup.CodeDir, 0755); err != nil {
		return cli.Internal("creating code dir: %w", err)
	}

	logger.Info("cloning foundation", "url", setup.Config.Foundation.URL, "path", setup.FoundationPath)
	if err := git.Clone(ctx, setup.Config.Foundation.URL, setup.FoundationPath); err != nil {
		return cli.Internal("cloning foundation: %w", err)
	}

	described, err := version.FromRepository(ctx, repo)
	if err != nil {
		return cli.Internal("inspecting clone: %w", err)
	}
	logger.Info("foundation cloned", "version", described)
	return nil
}

// resolveGitIdentity fills in a missing git name or email by prompting
// on the terminal. Non-interactive runs must provide both via flags or
// config.
func resolveGitIdentity(setup *dotfiles.Setup, dryRun bool) error {
	data := &setup.Planner.Data
	if data.GitName != "" && data.GitEmail != "" {
		return nil
	}
	if dryRun {
		// Placeholder values keep the dry-run plan renderable.
		if data.GitName == "" {
			data.GitName = "(unset)"
		}
		if data.GitEmail == "" {
			data.GitEmail = "(unset)"
		}
		return nil
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return cli.Validation("git identity required: pass --git-name/--git-email or set git.name/git.email in the config")
	}

	reader := bufio.NewReader(os.Stdin)
	var err error
	if data.GitName == "" {
		if data.GitName, err = promptLine(reader, "Git name"); err != nil {
			return err
		}
	}
	if data.GitEmail == "" {
		if data.GitEmail, err = promptLine(reader, "Git email"); err != nil {
			return err
		}
	}
	setup.Config.Git.Name = data.GitName
	setup.Config.Git.Email = data.GitEmail
	return nil
}

func promptLine(reader *bufio.Reader, label string) (string, error) {
	fmt.Fprintf(os.Stderr, "%s: ", label)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return "", cli.Internal("reading answer: %w", err)
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return "", cli.Validation("%s must not be empty", label)
	}
	return answer, nil
}

// loadSetup wraps dotfiles.LoadSetup with error categorization.
func loadSetup(opts dotfiles.SetupOptions) (*dotfiles.Setup, error) {
	setup, err := dotfiles.LoadSetup(opts)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, cli.NotFound("%w", err)
		}
		return nil, cli.Validation("%w", err)
	}
	return setup, nil
}
