// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package colors provides ANSI color helpers for homeinit's terminal
// output. The styling functions (Red, Green, ...) always embed escape
// codes; the printing functions strip them again when the destination
// is not a terminal or when NO_COLOR is set (https://no-color.org/),
// so callers can build colored strings unconditionally.
package colors

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Red styles s for error text.
func Red(s string) string { return colored(s, termenv.ANSIRed) }

// Yellow styles s for headers and warnings.
func Yellow(s string) string { return colored(s, termenv.ANSIYellow) }

// Green styles s for success text.
func Green(s string) string { return colored(s, termenv.ANSIGreen) }

// Cyan styles s for emphasis.
func Cyan(s string) string { return colored(s, termenv.ANSICyan) }

// Gray styles s for de-emphasized text such as timestamps.
func Gray(s string) string { return colored(s, termenv.ANSIBrightBlack) }

func colored(s string, color termenv.ANSIColor) string {
	return termenv.String(s).Foreground(color).String()
}

// Strip removes all ANSI escape sequences from s.
func Strip(s string) string {
	return ansi.Strip(s)
}

// Fprintln writes the space-joined arguments to w followed by a
// newline, stripping escape codes when w is not a terminal or NO_COLOR
// is set.
func Fprintln(w io.Writer, args ...any) {
	message := fmt.Sprintln(args...)
	if !colorable(w) {
		message = Strip(message)
	}
	fmt.Fprint(w, message)
}

// Println writes to stdout via Fprintln.
func Println(args ...any) {
	Fprintln(os.Stdout, args...)
}

// Eprintln writes to stderr via Fprintln.
func Eprintln(args ...any) {
	Fprintln(os.Stderr, args...)
}

// Error writes "Error:" in red followed by the arguments to stderr.
func Error(args ...any) {
	Eprintln(append([]any{Red("Error:")}, args...)...)
}

// colorable reports whether escape codes should be passed through to
// w: w must be a terminal and NO_COLOR must be unset.
func colorable(w io.Writer) bool {
	if _, noColor := os.LookupEnv("NO_COLOR"); noColor {
		return false
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}
