// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package dotfiles

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bureau-foundation/homeinit/lib/config"
	"github.com/bureau-foundation/homeinit/lib/manifest"
	"github.com/bureau-foundation/homeinit/lib/template"
)

// SetupOptions selects the inputs for LoadSetup. All fields are
// optional; empty means "use the configured or built-in default".
type SetupOptions struct {
	// ConfigPath overrides config discovery (HOMEINIT_CONFIG, then
	// built-in defaults).
	ConfigPath string

	// ManifestPath selects a manifest file; empty means the built-in
	// manifest.
	ManifestPath string

	// CodeDir is the code directory, usually the bootstrap
	// positional argument. Empty falls back to paths.code from the
	// config, then $HOME/code.
	CodeDir string

	// GitName and GitEmail override the config's git identity.
	GitName  string
	GitEmail string
}

// Setup bundles everything a command needs to plan or apply: resolved
// configuration, the expanded manifest, a planner, and loaded state.
type Setup struct {
	Config   *config.Config
	Manifest *manifest.Manifest
	Planner  *Planner
	State    *State

	// CodeDir is the resolved code directory.
	CodeDir string

	// FoundationPath is the resolved path of the foundation clone.
	FoundationPath string
}

// LoadSetup resolves options into a ready-to-plan Setup. It reads
// config, manifest, and state but does not touch any managed path.
func LoadSetup(opts SetupOptions) (*Setup, error) {
	var (
		cfg *config.Config
		err error
	)
	if opts.ConfigPath != "" {
		cfg, err = config.LoadFile(opts.ConfigPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if opts.GitName != "" {
		cfg.Git.Name = opts.GitName
	}
	if opts.GitEmail != "" {
		cfg.Git.Email = opts.GitEmail
	}

	codeDir := opts.CodeDir
	if codeDir == "" {
		codeDir = cfg.Paths.Code
	}
	if codeDir == "" {
		homeDir, _ := os.UserHomeDir()
		codeDir = filepath.Join(homeDir, "code")
	}
	if codeDir, err = filepath.Abs(codeDir); err != nil {
		return nil, fmt.Errorf("resolving code dir: %w", err)
	}

	var (
		man         *manifest.Manifest
		manifestDir string
	)
	if opts.ManifestPath != "" {
		if man, err = manifest.ReadFile(opts.ManifestPath); err != nil {
			return nil, err
		}
		manifestDir = filepath.Dir(opts.ManifestPath)
	} else {
		man = manifest.Builtin()
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolving home dir: %w", err)
	}
	expanded, err := man.Expand(map[string]string{
		"HOME":     homeDir,
		"IAN_DIR":  cfg.Paths.Ian,
		"CODE_DIR": codeDir,
	})
	if err != nil {
		return nil, err
	}

	st, err := LoadState(cfg.StatePath())
	if err != nil {
		return nil, err
	}

	foundationPath := cfg.FoundationPath(codeDir)
	return &Setup{
		Config:   cfg,
		Manifest: expanded,
		Planner: &Planner{
			Data: template.Data{
				GitName:       cfg.Git.Name,
				GitEmail:      cfg.Git.Email,
				IanDir:        cfg.Paths.Ian,
				CodeDir:       codeDir,
				FoundationDir: foundationPath,
			},
			ManifestDir: manifestDir,
		},
		State:          st,
		CodeDir:        codeDir,
		FoundationPath: foundationPath,
	}, nil
}

// ApplyOptions returns the apply options for this setup.
func (s *Setup) ApplyOptions(force bool) Options {
	return Options{
		Force:     force,
		BackupDir: s.Config.BackupDir(),
		StatePath: s.Config.StatePath(),
	}
}
