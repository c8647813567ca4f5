// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides configuration loading for homeinit.
//
// Configuration is loaded from a single YAML file specified by:
//   - HOMEINIT_CONFIG environment variable, or
//   - --config flag passed to the command
//
// Unlike the manifest (which describes what to install and ships with
// the dotfiles), the config describes this user on this machine: git
// identity, directory locations, and the foundation repository URL.
// When no config file is given the built-in defaults apply, so a fresh
// machine can bootstrap with nothing but the binary.
//
// The only expansion performed on values is ${VAR} and ${VAR:-default}
// for path portability.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultFoundationURL is the repository cloned by bootstrap when the
// config does not override it.
const DefaultFoundationURL = "https://github.com/bureau-foundation/foundation.git"

// Config is the user-level configuration for homeinit.
type Config struct {
	// Git configures the identity written into the generated
	// gitconfig stub.
	Git GitConfig `yaml:"git"`

	// Paths configures directory locations.
	Paths PathsConfig `yaml:"paths"`

	// Foundation configures the support-library clone.
	Foundation FoundationConfig `yaml:"foundation"`
}

// GitConfig is the git identity for the generated gitconfig stub.
// Empty fields are filled from --git-name / --git-email flags or
// prompted for during bootstrap.
type GitConfig struct {
	Name  string `yaml:"name"`
	Email string `yaml:"email"`
}

// PathsConfig configures directory locations.
type PathsConfig struct {
	// Ian is the directory that receives generated dotfiles, state,
	// and backups. Default: $HOME/.ian.
	Ian string `yaml:"ian"`

	// Code is the default code directory used when bootstrap is not
	// given one explicitly. Default: empty (bootstrap requires the
	// positional argument).
	Code string `yaml:"code"`
}

// FoundationConfig configures the support-library clone.
type FoundationConfig struct {
	// URL is the git URL to clone.
	URL string `yaml:"url"`

	// Dir is the directory name of the clone inside the code
	// directory. Default: "foundation".
	Dir string `yaml:"dir"`
}

// Default returns the default configuration. These are complete
// enough to bootstrap without any config file.
func Default() *Config {
	homeDir, _ := os.UserHomeDir()

	return &Config{
		Paths: PathsConfig{
			Ian: filepath.Join(homeDir, ".ian"),
		},
		Foundation: FoundationConfig{
			URL: DefaultFoundationURL,
			Dir: "foundation",
		},
	}
}

// Load loads configuration from the HOMEINIT_CONFIG environment
// variable, falling back to Default when it is unset. Commands pass
// an explicit path from --config to LoadFile instead.
func Load() (*Config, error) {
	configPath := os.Getenv("HOMEINIT_CONFIG")
	if configPath == "" {
		return Default(), nil
	}
	return LoadFile(configPath)
}

// LoadFile loads configuration from a specific file path, merging it
// over the defaults. Environment variables do not override config
// values; the only expansion performed is ${VAR} in paths.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	cfg.expandVariables()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns in path
// and URL values.
func (c *Config) expandVariables() {
	vars := map[string]string{
		"HOME": os.Getenv("HOME"),
	}

	c.Paths.Ian = expandVars(c.Paths.Ian, vars)
	vars["IAN_DIR"] = c.Paths.Ian // Available to dependent paths.

	c.Paths.Code = expandVars(c.Paths.Code, vars)
	c.Foundation.URL = expandVars(c.Foundation.URL, vars)
	c.Foundation.Dir = expandVars(c.Foundation.Dir, vars)
}

// varPattern matches ${VAR} and ${VAR:-default}.
var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if c.Paths.Ian == "" {
		errs = append(errs, fmt.Errorf("paths.ian is required"))
	} else if !filepath.IsAbs(c.Paths.Ian) {
		errs = append(errs, fmt.Errorf("paths.ian must be absolute, got %q", c.Paths.Ian))
	}

	if c.Foundation.URL == "" {
		errs = append(errs, fmt.Errorf("foundation.url is required"))
	}

	if c.Foundation.Dir == "" {
		errs = append(errs, fmt.Errorf("foundation.dir is required"))
	} else if filepath.IsAbs(c.Foundation.Dir) || strings.Contains(c.Foundation.Dir, "..") {
		errs = append(errs, fmt.Errorf("foundation.dir must be a plain directory name, got %q", c.Foundation.Dir))
	}

	if c.Git.Email != "" && !strings.Contains(c.Git.Email, "@") {
		errs = append(errs, fmt.Errorf("git.email does not look like an email address: %q", c.Git.Email))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// FoundationPath returns the absolute path of the foundation clone for
// the given code directory.
func (c *Config) FoundationPath(codeDir string) string {
	return filepath.Join(codeDir, c.Foundation.Dir)
}

// StatePath returns the path of the state file inside the ian dir.
func (c *Config) StatePath() string {
	return filepath.Join(c.Paths.Ian, "state.json")
}

// BackupDir returns the directory that receives backup archives.
func (c *Config) BackupDir() string {
	return filepath.Join(c.Paths.Ian, "backups")
}
