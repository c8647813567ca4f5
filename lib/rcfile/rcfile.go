// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package rcfile maintains homeinit's managed block inside shell rc
// files (and any other config format that accepts # comments, such as
// gitconfig). The block is delimited by marker lines; everything
// outside the markers belongs to the user and is never touched.
// Re-running an upsert replaces the block in place, so repeated
// bootstrap runs never duplicate it.
package rcfile

import (
	"fmt"
	"os"
	"strings"
)

// BeginMarker and EndMarker delimit the managed block. Changing them
// orphans blocks written by earlier versions, so they are fixed.
const (
	BeginMarker = "# >>> homeinit managed block >>>"
	EndMarker   = "# <<< homeinit managed block <<<"
)

// Render returns the full managed block for the given lines,
// including markers and a trailing newline.
func Render(lines []string) string {
	var block strings.Builder
	block.WriteString(BeginMarker + "\n")
	for _, line := range lines {
		block.WriteString(line + "\n")
	}
	block.WriteString(EndMarker + "\n")
	return block.String()
}

// Upsert ensures the rc file at path contains exactly one managed
// block with the given lines. A missing file is created (mode 0644);
// an existing block is replaced in place; otherwise the block is
// appended, separated from existing content by a blank line. Returns
// whether the file changed.
func Upsert(path string, lines []string) (bool, error) {
	block := Render(lines)

	content, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		if writeErr := os.WriteFile(path, []byte(block), 0644); writeErr != nil {
			return false, fmt.Errorf("creating %s: %w", path, writeErr)
		}
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("reading %s: %w", path, err)
	}

	updated, err := replaceBlock(string(content), block)
	if err != nil {
		return false, fmt.Errorf("%s: %w", path, err)
	}
	if updated == string(content) {
		return false, nil
	}

	mode := os.FileMode(0644)
	if info, statErr := os.Stat(path); statErr == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(path, []byte(updated), mode); err != nil {
		return false, fmt.Errorf("writing %s: %w", path, err)
	}
	return true, nil
}

// Block returns the lines of the managed block in the file at path,
// and whether a block is present. A missing file has no block.
func Block(path string) ([]string, bool, error) {
	content, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading %s: %w", path, err)
	}

	begin, end, err := findMarkers(string(content))
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", path, err)
	}
	if begin < 0 {
		return nil, false, nil
	}

	fileLines := strings.Split(string(content), "\n")
	return fileLines[begin+1 : end], true, nil
}

// Remove deletes the managed block from the file at path. Returns
// whether the file changed. The file itself is left in place even
// when the block was its only content.
func Remove(path string) (bool, error) {
	content, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("reading %s: %w", path, err)
	}

	begin, end, err := findMarkers(string(content))
	if err != nil {
		return false, fmt.Errorf("%s: %w", path, err)
	}
	if begin < 0 {
		return false, nil
	}

	fileLines := strings.Split(string(content), "\n")
	remaining := append(fileLines[:begin:begin], fileLines[end+1:]...)

	// Drop the separator blank line left behind above the block.
	for len(remaining) > 0 && remaining[len(remaining)-1] == "" {
		remaining = remaining[:len(remaining)-1]
	}

	updated := strings.Join(remaining, "\n")
	if updated != "" {
		updated += "\n"
	}

	mode := os.FileMode(0644)
	if info, statErr := os.Stat(path); statErr == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(path, []byte(updated), mode); err != nil {
		return false, fmt.Errorf("writing %s: %w", path, err)
	}
	return true, nil
}

// replaceBlock returns content with its managed block replaced by
// block, or with block appended when no managed block exists.
func replaceBlock(content, block string) (string, error) {
	begin, end, err := findMarkers(content)
	if err != nil {
		return "", err
	}

	if begin < 0 {
		if content == "" {
			return block, nil
		}
		if !strings.HasSuffix(content, "\n") {
			content += "\n"
		}
		return content + "\n" + block, nil
	}

	fileLines := strings.Split(content, "\n")
	// Split leaves one empty element after the trailing newline; drop
	// exactly that element so blank lines the user keeps at the end of
	// the file survive the rebuild.
	if strings.HasSuffix(content, "\n") {
		fileLines = fileLines[:len(fileLines)-1]
	}

	blockLines := strings.Split(strings.TrimSuffix(block, "\n"), "\n")
	rebuilt := make([]string, 0, begin+len(blockLines)+len(fileLines)-end)
	rebuilt = append(rebuilt, fileLines[:begin]...)
	rebuilt = append(rebuilt, blockLines...)
	rebuilt = append(rebuilt, fileLines[end+1:]...)
	return strings.Join(rebuilt, "\n") + "\n", nil
}

// findMarkers locates the begin and end marker line indexes. Returns
// (-1, -1) when no block exists, and an error when the markers are
// unpaired or out of order.
func findMarkers(content string) (int, int, error) {
	begin, end := -1, -1
	for i, line := range strings.Split(content, "\n") {
		switch strings.TrimSpace(line) {
		case BeginMarker:
			if begin >= 0 {
				return 0, 0, fmt.Errorf("duplicate begin marker at line %d", i+1)
			}
			begin = i
		case EndMarker:
			if begin < 0 {
				return 0, 0, fmt.Errorf("end marker at line %d before begin marker", i+1)
			}
			if end >= 0 {
				return 0, 0, fmt.Errorf("duplicate end marker at line %d", i+1)
			}
			end = i
		}
	}
	if begin >= 0 && end < 0 {
		return 0, 0, fmt.Errorf("begin marker without end marker")
	}
	return begin, end, nil
}
