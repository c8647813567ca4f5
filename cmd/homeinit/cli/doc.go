// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli provides the command-line framework for the homeinit CLI.
//
// The central type is [Command], which represents a named subcommand with
// optional nested [Command.Subcommands], a [pflag.FlagSet] factory, and a
// Run function. Commands are assembled into a tree in
// cmd/homeinit/commands and dispatched via [Command.Execute], which
// handles flag parsing, subcommand routing, and structured help output
// with examples.
//
// When a user types an unknown subcommand or flag, the framework computes
// Levenshtein edit distance against all known names and suggests the
// closest match (threshold: distance <= 3). This is implemented in
// suggest.go.
//
// Command parameters are declared as tagged struct fields and bound via
// [FlagsFromParams]; see params.go for the tag grammar. Errors returned
// by handlers are categorized with [CommandError] so tests and wrapper
// scripts can branch on the failure class, and [ExitError] lets a
// command that has already printed its own report pick its exit code.
package cli
