// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package manifest provides parsing, validation, and variable
// expansion for homeinit manifests. A manifest describes what a
// bootstrap run installs: symlinks into the home directory, config
// stubs rendered from templates, and managed blocks appended to shell
// rc files.
//
// Manifests are authored as JSONC (JSON extended with comments and
// trailing commas) so they can carry the same inline commentary a
// hand-written bootstrap script would.
//
// The typical flow:
//
//  1. ReadFile or Parse: JSONC bytes → Manifest
//  2. Validate: structural checks (known kinds, required fields, duplicates)
//  3. Expand: substitute ${HOME}, ${IAN_DIR}, ${CODE_DIR} in paths
package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/tidwall/jsonc"
)

// Kind identifies what an entry installs.
type Kind string

const (
	// KindLink creates a symlink at Target pointing to Source.
	KindLink Kind = "link"

	// KindTemplate renders the named template to Target.
	KindTemplate Kind = "template"

	// KindRC maintains a managed block of Lines in the rc file at
	// Target.
	KindRC Kind = "rc"
)

// Entry is one managed item in a manifest.
type Entry struct {
	// Kind selects the entry type: link, template, or rc.
	Kind Kind `json:"kind"`

	// Target is the path the entry manages. Required for all kinds.
	Target string `json:"target"`

	// Source is the symlink destination. Required for link entries.
	Source string `json:"source,omitempty"`

	// Template names the template to render: a built-in name (see
	// lib/template) or a path relative to the manifest file.
	// Required for template entries.
	Template string `json:"template,omitempty"`

	// Lines is the managed block content. Required for rc entries.
	Lines []string `json:"lines,omitempty"`

	// Description is shown in status output.
	Description string `json:"description,omitempty"`
}

// Manifest is a parsed homeinit manifest.
type Manifest struct {
	Entries []Entry `json:"entries"`
}

// Parse strips JSONC comments and trailing commas from data, then
// unmarshals the result into a Manifest.
func Parse(data []byte) (*Manifest, error) {
	stripped := jsonc.ToJSON(data)

	var parsed Manifest
	if err := json.Unmarshal(stripped, &parsed); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	return &parsed, nil
}

// ReadFile reads a JSONC manifest file from disk, parses it, and
// validates it.
func ReadFile(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}

	parsed, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := parsed.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return parsed, nil
}

// Validate performs structural checks: every entry has a known kind
// and its required fields, and no two entries manage the same target
// (rc entries excepted — several manifests legitimately never need
// this, but two blocks in one file are distinct managed regions only
// if their targets differ, so duplicates are rejected there too).
func (m *Manifest) Validate() error {
	if len(m.Entries) == 0 {
		return fmt.Errorf("manifest has no entries")
	}

	seen := make(map[string]int)
	for i, entry := range m.Entries {
		where := fmt.Sprintf("entry %d", i)
		if entry.Description != "" {
			where = fmt.Sprintf("entry %d (%s)", i, entry.Description)
		}

		if entry.Target == "" {
			return fmt.Errorf("%s: target is required", where)
		}

		switch entry.Kind {
		case KindLink:
			if entry.Source == "" {
				return fmt.Errorf("%s: link entry requires source", where)
			}
		case KindTemplate:
			if entry.Template == "" {
				return fmt.Errorf("%s: template entry requires template", where)
			}
		case KindRC:
			if len(entry.Lines) == 0 {
				return fmt.Errorf("%s: rc entry requires lines", where)
			}
		default:
			return fmt.Errorf("%s: unknown kind %q (want link, template, or rc)", where, entry.Kind)
		}

		if previous, dup := seen[entry.Target]; dup {
			return fmt.Errorf("%s: target %q already managed by entry %d", where, entry.Target, previous)
		}
		seen[entry.Target] = i
	}
	return nil
}

// varPattern matches ${VAR}. Unlike lib/config, manifests get no
// environment fallback and no defaults: an unknown variable is an
// error, because a half-expanded path silently creates files in the
// wrong place.
var varPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// Expand returns a copy of the manifest with ${VAR} references in
// Target, Source, and Lines replaced from vars. References to
// variables missing from vars are an error, and so are two entries
// whose targets collide only after expansion (e.g. ${HOME}/.bashrc
// next to the literal path).
func (m *Manifest) Expand(vars map[string]string) (*Manifest, error) {
	expanded := &Manifest{Entries: make([]Entry, len(m.Entries))}
	seen := make(map[string]int)
	for i, entry := range m.Entries {
		var err error
		if entry.Target, err = expandString(entry.Target, vars); err != nil {
			return nil, fmt.Errorf("entry %d target: %w", i, err)
		}
		if entry.Source, err = expandString(entry.Source, vars); err != nil {
			return nil, fmt.Errorf("entry %d source: %w", i, err)
		}
		lines := make([]string, len(entry.Lines))
		for j, line := range entry.Lines {
			if lines[j], err = expandString(line, vars); err != nil {
				return nil, fmt.Errorf("entry %d line %d: %w", i, j, err)
			}
		}
		entry.Lines = lines

		if !filepath.IsAbs(entry.Target) {
			return nil, fmt.Errorf("entry %d: expanded target %q is not absolute", i, entry.Target)
		}
		if previous, dup := seen[entry.Target]; dup {
			return nil, fmt.Errorf("entry %d: expanded target %q already managed by entry %d", i, entry.Target, previous)
		}
		seen[entry.Target] = i
		expanded.Entries[i] = entry
	}
	return expanded, nil
}

func expandString(s string, vars map[string]string) (string, error) {
	var missing string
	result := varPattern.ReplaceAllStringFunc(s, func(match string) string {
		name := varPattern.FindStringSubmatch(match)[1]
		value, ok := vars[name]
		if !ok {
			missing = name
			return match
		}
		return value
	})
	if missing != "" {
		return "", fmt.Errorf("unknown variable ${%s} in %q", missing, s)
	}
	return result, nil
}

// Builtin returns the default manifest, reproducing the classic
// bootstrap behavior when the user supplies no manifest file: shell,
// vim, and git stubs rendered into the ian dir, a ~/.vimrc symlink,
// source lines in ~/.bashrc and ~/.zshrc, and an [include] block in
// ~/.gitconfig (git config files accept # comments, so the managed
// block markers are legal there too).
func Builtin() *Manifest {
	return &Manifest{Entries: []Entry{
		{
			Kind:        KindTemplate,
			Template:    "shell",
			Target:      "${IAN_DIR}/shell.sh",
			Description: "shell environment sourced by bashrc/zshrc",
		},
		{
			Kind:        KindTemplate,
			Template:    "vimrc",
			Target:      "${IAN_DIR}/vimrc",
			Description: "vim configuration",
		},
		{
			Kind:        KindTemplate,
			Template:    "gitconfig",
			Target:      "${IAN_DIR}/gitconfig",
			Description: "git identity and aliases",
		},
		{
			Kind:        KindLink,
			Source:      "${IAN_DIR}/vimrc",
			Target:      "${HOME}/.vimrc",
			Description: "vim entry point",
		},
		{
			Kind:        KindRC,
			Target:      "${HOME}/.bashrc",
			Lines:       []string{`source "${IAN_DIR}/shell.sh"`},
			Description: "bash hook",
		},
		{
			Kind:        KindRC,
			Target:      "${HOME}/.zshrc",
			Lines:       []string{`source "${IAN_DIR}/shell.sh"`},
			Description: "zsh hook",
		},
		{
			Kind:        KindRC,
			Target:      "${HOME}/.gitconfig",
			Lines:       []string{"[include]", "\tpath = ${IAN_DIR}/gitconfig"},
			Description: "git include hook",
		},
	}}
}
