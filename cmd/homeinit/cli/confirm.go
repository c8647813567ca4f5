// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Confirm prompts the user with a yes/no question on stderr and reads
// the answer from in. Only "y" and "yes" (case-insensitive) count as
// yes. When in is not a terminal (piped input, CI), the prompt is
// declined without reading — an unattended run must opt in with --yes
// rather than hang on a prompt.
func Confirm(in *os.File, prompt string) (bool, error) {
	if !term.IsTerminal(int(in.Fd())) {
		return false, nil
	}

	fmt.Fprintf(os.Stderr, "%s [y/N] ", prompt)
	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("reading answer: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

// ConfirmOrAbort prompts like Confirm and turns a declined answer into
// a validation error telling the user how to skip the prompt.
func ConfirmOrAbort(in *os.File, prompt string) error {
	confirmed, err := Confirm(in, prompt)
	if err != nil {
		return Internal("confirming: %w", err)
	}
	if !confirmed {
		return Validation("aborted (pass --yes to skip the prompt)")
	}
	return nil
}
