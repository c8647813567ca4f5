// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package dotfiles is the apply engine: it compares an expanded
// manifest against the filesystem and recorded state, produces a plan
// of typed actions, and executes that plan. The same plan drives
// bootstrap, apply, and status, so what status reports is exactly what
// apply would do.
package dotfiles

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bureau-foundation/homeinit/lib/manifest"
	"github.com/bureau-foundation/homeinit/lib/rcfile"
	"github.com/bureau-foundation/homeinit/lib/template"
)

// Op is the action planned for one manifest entry.
type Op int

const (
	// OpNone: the target already matches and state records it.
	OpNone Op = iota

	// OpCreate: the target does not exist yet.
	OpCreate

	// OpAdopt: the target already has the desired content but state
	// does not record it; only the state entry is written.
	OpAdopt

	// OpUpdate: the target was written by homeinit (its content hash
	// matches recorded state) and the desired content has changed.
	OpUpdate

	// OpReplace: the target exists with foreign content. Applying
	// requires --force and backs the file up first.
	OpReplace
)

// String returns the name shown in status and dry-run output.
func (op Op) String() string {
	switch op {
	case OpNone:
		return "ok"
	case OpCreate:
		return "create"
	case OpAdopt:
		return "adopt"
	case OpUpdate:
		return "update"
	case OpReplace:
		return "replace"
	}
	return fmt.Sprintf("op(%d)", int(op))
}

// Action is one planned step.
type Action struct {
	// Entry is the expanded manifest entry the action serves.
	Entry manifest.Entry

	// Op is what apply will do.
	Op Op

	// Reason is a short human explanation for status output.
	Reason string

	// Content is the desired file content (template entries) or
	// rendered managed block (rc entries).
	Content string
}

// Changes reports whether applying the action would touch the
// filesystem. Adopt only records state.
func (a Action) Changes() bool {
	return a.Op == OpCreate || a.Op == OpUpdate || a.Op == OpReplace
}

// Planner holds the inputs shared by every entry: the template data
// and the directory of the manifest file, which anchors relative
// template paths.
type Planner struct {
	Data        template.Data
	ManifestDir string
}

// Plan produces one action per manifest entry. The manifest must
// already be expanded (absolute targets). Planning reads the
// filesystem but never writes.
func (p *Planner) Plan(man *manifest.Manifest, st *State) ([]Action, error) {
	actions := make([]Action, 0, len(man.Entries))
	for i, entry := range man.Entries {
		var (
			action Action
			err    error
		)
		switch entry.Kind {
		case manifest.KindLink:
			action, err = p.planLink(entry, st)
		case manifest.KindTemplate:
			action, err = p.planTemplate(entry, st)
		case manifest.KindRC:
			action, err = p.planRC(entry, st)
		default:
			err = fmt.Errorf("unknown kind %q", entry.Kind)
		}
		if err != nil {
			return nil, fmt.Errorf("entry %d (%s): %w", i, entry.Target, err)
		}
		actions = append(actions, action)
	}
	return actions, nil
}

func (p *Planner) planLink(entry manifest.Entry, st *State) (Action, error) {
	action := Action{Entry: entry}

	info, err := os.Lstat(entry.Target)
	if os.IsNotExist(err) {
		action.Op = OpCreate
		action.Reason = "missing"
		return action, nil
	}
	if err != nil {
		return action, fmt.Errorf("stat: %w", err)
	}

	if info.Mode()&os.ModeSymlink == 0 {
		action.Op = OpReplace
		action.Reason = "a file exists where a symlink is wanted"
		return action, nil
	}

	destination, err := os.Readlink(entry.Target)
	if err != nil {
		return action, fmt.Errorf("readlink: %w", err)
	}
	if destination == entry.Source {
		if recorded, ok := st.Files[entry.Target]; ok && recorded.Link == entry.Source {
			action.Op = OpNone
			action.Reason = "links to " + entry.Source
		} else {
			action.Op = OpAdopt
			action.Reason = "correct link, recording it"
		}
		return action, nil
	}

	if recorded, ok := st.Files[entry.Target]; ok && recorded.Link == destination {
		action.Op = OpUpdate
		action.Reason = fmt.Sprintf("retarget from %s", destination)
	} else {
		action.Op = OpReplace
		action.Reason = fmt.Sprintf("links elsewhere (%s)", destination)
	}
	return action, nil
}

func (p *Planner) planTemplate(entry manifest.Entry, st *State) (Action, error) {
	action := Action{Entry: entry}

	desired, err := p.renderTemplate(entry)
	if err != nil {
		return action, err
	}
	action.Content = desired

	info, err := os.Lstat(entry.Target)
	if os.IsNotExist(err) {
		action.Op = OpCreate
		action.Reason = "missing"
		return action, nil
	}
	if err != nil {
		return action, fmt.Errorf("stat: %w", err)
	}
	if info.Mode()&os.ModeSymlink != 0 {
		action.Op = OpReplace
		action.Reason = "a symlink exists where a file is wanted"
		return action, nil
	}

	current, err := os.ReadFile(entry.Target)
	if err != nil {
		return action, fmt.Errorf("reading: %w", err)
	}

	if string(current) == desired {
		if recorded, ok := st.Files[entry.Target]; ok && recorded.Hash == hashContent(desired) {
			action.Op = OpNone
			action.Reason = "up to date"
		} else {
			action.Op = OpAdopt
			action.Reason = "correct content, recording it"
		}
		return action, nil
	}

	if recorded, ok := st.Files[entry.Target]; ok && recorded.Hash == hashContent(string(current)) {
		action.Op = OpUpdate
		action.Reason = "content changed"
	} else {
		action.Op = OpReplace
		action.Reason = "file has local edits"
	}
	return action, nil
}

func (p *Planner) planRC(entry manifest.Entry, st *State) (Action, error) {
	action := Action{Entry: entry, Content: rcfile.Render(entry.Lines)}

	current, present, err := rcfile.Block(entry.Target)
	if err != nil {
		return action, err
	}
	if !present {
		// Appending a block never destroys user content, so a
		// pre-existing rc file is not a conflict.
		action.Op = OpCreate
		action.Reason = "block missing"
		return action, nil
	}

	if equalLines(current, entry.Lines) {
		if recorded, ok := st.Files[entry.Target]; ok && recorded.Hash == hashContent(action.Content) {
			action.Op = OpNone
			action.Reason = "block up to date"
		} else {
			action.Op = OpAdopt
			action.Reason = "correct block, recording it"
		}
		return action, nil
	}

	// The markers delimit homeinit's territory, so a differing block
	// is ours to rewrite regardless of who edited it.
	action.Op = OpUpdate
	action.Reason = "block changed"
	return action, nil
}

// renderTemplate resolves the entry's template: a built-in name, or a
// file path relative to the manifest file.
func (p *Planner) renderTemplate(entry manifest.Entry) (string, error) {
	if template.IsBuiltin(entry.Template) {
		return template.Render(entry.Template, p.Data)
	}

	path := entry.Template
	if !filepath.IsAbs(path) {
		path = filepath.Join(p.ManifestDir, path)
	}
	return template.RenderFile(path, p.Data)
}

func equalLines(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
