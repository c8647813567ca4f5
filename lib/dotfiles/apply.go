// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package dotfiles

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bureau-foundation/homeinit/lib/backup"
	"github.com/bureau-foundation/homeinit/lib/manifest"
	"github.com/bureau-foundation/homeinit/lib/rcfile"
)

// Options controls Apply.
type Options struct {
	// Force permits replacing files with foreign content. Replaced
	// files are always backed up first.
	Force bool

	// BackupDir receives the backup archive when anything is
	// replaced or modified in place.
	BackupDir string

	// StatePath is where the updated state is written.
	StatePath string
}

// Result reports what Apply did.
type Result struct {
	// Applied holds the actions that changed the filesystem.
	Applied []Action

	// Adopted holds the actions that only recorded state.
	Adopted []Action

	// ArchivePath is the backup archive written before any existing
	// file was modified, or empty when nothing needed backing up.
	ArchivePath string
}

// ConflictError is returned when the plan wants to replace foreign
// files and Force is off. The caller decides how to present it; exit
// status handling lives with the command.
type ConflictError struct {
	Targets []string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("refusing to replace %d file(s) not written by homeinit (re-run with --force to replace, after review): %s",
		len(e.Targets), strings.Join(e.Targets, ", "))
}

// Apply executes the plan. Before touching anything it checks for
// foreign replacements (all-or-nothing: a conflict anywhere aborts the
// whole run) and archives every pre-existing file the plan will
// modify. State is saved once at the end.
func Apply(actions []Action, st *State, opts Options) (*Result, error) {
	var conflicts []string
	for _, action := range actions {
		if action.Op == OpReplace && !opts.Force {
			conflicts = append(conflicts, action.Entry.Target)
		}
	}
	if len(conflicts) > 0 {
		return nil, &ConflictError{Targets: conflicts}
	}

	result := &Result{}

	var toBackup []string
	for _, action := range actions {
		if !action.Changes() {
			continue
		}
		if _, err := os.Lstat(action.Entry.Target); err == nil {
			toBackup = append(toBackup, action.Entry.Target)
		}
	}
	if len(toBackup) > 0 {
		archivePath, err := backup.Create(opts.BackupDir, toBackup)
		if err != nil {
			return nil, fmt.Errorf("backing up: %w", err)
		}
		result.ArchivePath = archivePath
	}

	for _, action := range actions {
		switch action.Op {
		case OpNone:
			continue
		case OpAdopt:
			record(st, action)
			result.Adopted = append(result.Adopted, action)
			continue
		}

		if err := execute(action); err != nil {
			// Partial applies are recoverable: the state below
			// reflects what succeeded, and the archive has the
			// originals.
			if saveErr := st.Save(opts.StatePath); saveErr != nil {
				return nil, fmt.Errorf("%w (and saving state failed: %v)", err, saveErr)
			}
			return nil, err
		}
		record(st, action)
		result.Applied = append(result.Applied, action)
	}

	if err := st.Save(opts.StatePath); err != nil {
		return nil, err
	}
	return result, nil
}

// execute performs one filesystem change.
func execute(action Action) error {
	target := action.Entry.Target
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(target), err)
	}

	switch action.Entry.Kind {
	case manifest.KindLink:
		if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("removing %s: %w", target, err)
		}
		if err := os.Symlink(action.Entry.Source, target); err != nil {
			return fmt.Errorf("linking %s: %w", target, err)
		}

	case manifest.KindTemplate:
		// An existing symlink would redirect the write; replace it
		// with a regular file.
		if info, err := os.Lstat(target); err == nil && info.Mode()&os.ModeSymlink != 0 {
			if err := os.Remove(target); err != nil {
				return fmt.Errorf("removing %s: %w", target, err)
			}
		}
		if err := os.WriteFile(target, []byte(action.Content), 0644); err != nil {
			return fmt.Errorf("writing %s: %w", target, err)
		}

	case manifest.KindRC:
		if _, err := rcfile.Upsert(target, action.Entry.Lines); err != nil {
			return err
		}

	default:
		return fmt.Errorf("unknown kind %q", action.Entry.Kind)
	}
	return nil
}

// record notes the applied action in state.
func record(st *State, action Action) {
	fileState := FileState{Kind: string(action.Entry.Kind)}
	switch action.Entry.Kind {
	case manifest.KindLink:
		fileState.Link = action.Entry.Source
	default:
		fileState.Hash = hashContent(action.Content)
	}
	st.Files[action.Entry.Target] = fileState
}
