// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package tabular renders aligned text tables for homeinit's status
// and doctor output. Column widths are computed on display width, not
// byte length, so cells may contain ANSI-styled text from lib/colors
// without breaking alignment.
package tabular

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/bureau-foundation/homeinit/lib/colors"
)

// Alignment controls how a column is justified.
type Alignment int

const (
	Left Alignment = iota
	Center
	Right
)

// DefaultSpacing is the number of spaces between columns.
const DefaultSpacing = 2

// Table accumulates rows and renders them with aligned columns. The
// first row fixes the column count; later rows must match it.
type Table struct {
	widths  []int
	rows    [][]string
	columns int

	// hasHeader records whether the first row is a header, so
	// SortBy knows to keep it in place.
	hasHeader bool
}

// New returns an empty table.
func New() *Table {
	return &Table{}
}

// Header adds a header row styled with colors.Yellow. Must be called
// before any Row.
func (t *Table) Header(cells ...string) error {
	if len(t.rows) > 0 {
		return fmt.Errorf("header must be the first row (table has %d rows)", len(t.rows))
	}
	styled := make([]string, len(cells))
	for i, cell := range cells {
		styled[i] = colors.Yellow(cell)
	}
	if err := t.Row(styled...); err != nil {
		return err
	}
	t.hasHeader = true
	return nil
}

// Row appends a row of cells.
func (t *Table) Row(cells ...string) error {
	if len(t.rows) == 0 {
		if len(cells) == 0 {
			return fmt.Errorf("first row cannot be empty")
		}
		t.columns = len(cells)
		t.widths = make([]int, t.columns)
	} else if len(cells) != t.columns {
		return fmt.Errorf("row has %d cells, want %d", len(cells), t.columns)
	}

	for i, cell := range cells {
		if width := ansi.StringWidth(cell); width > t.widths[i] {
			t.widths[i] = width
		}
	}
	t.rows = append(t.rows, cells)
	return nil
}

// SortBy sorts the data rows by the named header column. The header
// row itself stays first. Column lookup strips ANSI codes so the
// styled header text matches its plain name.
func (t *Table) SortBy(column string) error {
	if !t.hasHeader {
		return fmt.Errorf("cannot sort a table without a header")
	}

	index := -1
	for i, cell := range t.rows[0] {
		if colors.Strip(cell) == column {
			index = i
			break
		}
	}
	if index < 0 {
		return fmt.Errorf("sort column %q not found", column)
	}

	data := t.rows[1:]
	sort.SliceStable(data, func(a, b int) bool {
		return colors.Strip(data[a][index]) < colors.Strip(data[b][index])
	})
	return nil
}

// Lines returns the rendered table, one string per row, with columns
// separated by spacing spaces and aligned per align. align may be nil
// (everything left-aligned) or must have one entry per column.
func (t *Table) Lines(spacing int, align []Alignment) ([]string, error) {
	if align != nil && len(align) != t.columns {
		return nil, fmt.Errorf("alignment list has %d entries, want %d", len(align), t.columns)
	}

	separator := strings.Repeat(" ", spacing)
	lines := make([]string, 0, len(t.rows))
	for _, row := range t.rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			alignment := Left
			if align != nil {
				alignment = align[i]
			}
			cells[i] = justify(cell, t.widths[i], alignment)
		}
		lines = append(lines, strings.TrimRight(strings.Join(cells, separator), " "))
	}
	return lines, nil
}

// Flush renders the table to w with default spacing and left
// alignment. Escape codes are stripped when w is not a terminal, via
// colors.Fprintln.
func (t *Table) Flush(w io.Writer) error {
	return t.FlushAligned(w, nil)
}

// FlushAligned renders the table to w with per-column alignment.
func (t *Table) FlushAligned(w io.Writer, align []Alignment) error {
	lines, err := t.Lines(DefaultSpacing, align)
	if err != nil {
		return err
	}
	for _, line := range lines {
		colors.Fprintln(w, line)
	}
	return nil
}

// justify pads cell to width display columns. Padding is computed
// from display width so styled cells line up with plain ones.
func justify(cell string, width int, alignment Alignment) string {
	padding := width - ansi.StringWidth(cell)
	if padding <= 0 {
		return cell
	}
	switch alignment {
	case Right:
		return strings.Repeat(" ", padding) + cell
	case Center:
		left := padding / 2
		return strings.Repeat(" ", left) + cell + strings.Repeat(" ", padding-left)
	default:
		return cell + strings.Repeat(" ", padding)
	}
}
