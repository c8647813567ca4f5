// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package dotfiles

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/zeebo/blake3"
)

// stateVersion is bumped when the state file format changes.
const stateVersion = 1

// State records what homeinit last wrote, per managed path. Ownership
// decisions during planning compare a file's current content hash
// against the recorded one: a match means the file is ours and may be
// rewritten without --force, even when the desired content has since
// changed.
type State struct {
	Version int                  `json:"version"`
	Files   map[string]FileState `json:"files"`
}

// FileState is the recorded state of one managed path.
type FileState struct {
	// Kind mirrors the manifest entry kind that manages the path.
	Kind string `json:"kind"`

	// Hash is the BLAKE3 hash of the content homeinit wrote. For rc
	// entries it hashes the rendered managed block, not the whole
	// file — the rest of the file belongs to the user.
	Hash string `json:"hash,omitempty"`

	// Link is the symlink destination, for link entries.
	Link string `json:"link,omitempty"`
}

// NewState returns an empty state.
func NewState() *State {
	return &State{Version: stateVersion, Files: make(map[string]FileState)}
}

// LoadState reads the state file at path. A missing file is an empty
// state, so the first run needs no initialization step.
func LoadState(path string) (*State, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return NewState(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading state: %w", err)
	}

	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("parsing state %s: %w", path, err)
	}
	if st.Version != stateVersion {
		return nil, fmt.Errorf("state %s has version %d, this binary understands %d", path, st.Version, stateVersion)
	}
	if st.Files == nil {
		st.Files = make(map[string]FileState)
	}
	return &st, nil
}

// Save writes the state file, creating its directory if needed.
func (s *State) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating state dir: %w", err)
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding state: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("writing state: %w", err)
	}
	return nil
}

// hashContent returns the hex BLAKE3 hash of content.
func hashContent(content string) string {
	sum := blake3.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}
