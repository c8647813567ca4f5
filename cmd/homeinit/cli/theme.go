// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import "github.com/charmbracelet/lipgloss"

// Theme defines the color palette for homeinit's terminal output. All
// colors use lipgloss ANSI codes for broad terminal compatibility.
//
// The semantic categories map to plan outcomes: Ok for paths that
// match, Pending for planned creations and updates, Conflict for
// foreign files that need --force, and Fail for doctor checks that
// did not pass.
type Theme struct {
	Ok       lipgloss.Style
	Pending  lipgloss.Style
	Conflict lipgloss.Style
	Fail     lipgloss.Style
	Faint    lipgloss.Style
}

// DefaultTheme returns the standard palette.
func DefaultTheme() Theme {
	return Theme{
		Ok:       lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		Pending:  lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		Conflict: lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		Fail:     lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		Faint:    lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
}
