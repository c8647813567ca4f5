// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package timehelper formats times for homeinit's terminal output.
package timehelper

import (
	"fmt"
	"time"
)

// Age formats the elapsed time since t relative to now as a coarse
// human-readable string: "3m", "5h", "12d", or "4w". Durations under
// a minute render as "just now". Used by status and doctor output
// where precision past the largest unit is noise.
func Age(t, now time.Time) string {
	elapsed := now.Sub(t)
	switch {
	case elapsed < time.Minute:
		return "just now"
	case elapsed < time.Hour:
		return fmt.Sprintf("%dm", int(elapsed.Minutes()))
	case elapsed < 24*time.Hour:
		return fmt.Sprintf("%dh", int(elapsed.Hours()))
	case elapsed < 14*24*time.Hour:
		return fmt.Sprintf("%dd", int(elapsed.Hours()/24))
	default:
		return fmt.Sprintf("%dw", int(elapsed.Hours()/(24*7)))
	}
}
