// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package template renders the config stubs that bootstrap writes
// into the ian dir. Built-in templates cover the classic setup (shell
// environment, vimrc, gitconfig include); manifests may also name
// template files shipped alongside them. Rendering uses
// text/template with missing keys treated as errors — a stub with a
// hole in it is worse than no stub.
package template

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"text/template"
)

// Data is the variable set available to templates.
type Data struct {
	// GitName and GitEmail are the identity written into the
	// gitconfig stub.
	GitName  string
	GitEmail string

	// IanDir is the directory holding generated files.
	IanDir string

	// CodeDir is the user's code directory.
	CodeDir string

	// FoundationDir is the absolute path of the foundation clone.
	FoundationDir string
}

// builtins maps template names to their content. The generated files
// carry a header identifying them as machine-written; the apply
// engine uses content hashes, not the header, to decide ownership.
var builtins = map[string]string{
	"shell": `# Generated by homeinit. Edit the manifest, not this file.

export IAN_DIR="{{.IanDir}}"
export CODE_DIR="{{.CodeDir}}"
export PATH="$IAN_DIR/bin:$PATH"

if [ -d "{{.FoundationDir}}" ]; then
	export FOUNDATION_DIR="{{.FoundationDir}}"
fi

alias ll='ls -la'
alias gs='git status'
`,

	"vimrc": `" Generated by homeinit. Edit the manifest, not this file.

set nocompatible
set number
set expandtab shiftwidth=4 tabstop=4
set incsearch hlsearch
set backspace=indent,eol,start
syntax on
filetype plugin indent on
`,

	"gitconfig": `# Generated by homeinit. Edit the manifest, not this file.

[user]
	name = {{.GitName}}
	email = {{.GitEmail}}
[init]
	defaultBranch = main
[alias]
	st = status
	co = checkout
	lg = log --oneline --graph --decorate
`,
}

// Names returns the built-in template names, sorted.
func Names() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsBuiltin reports whether name is a built-in template.
func IsBuiltin(name string) bool {
	_, ok := builtins[name]
	return ok
}

// Render renders the built-in template with the given data.
func Render(name string, data Data) (string, error) {
	content, ok := builtins[name]
	if !ok {
		return "", fmt.Errorf("unknown template %q (built-ins: %s)", name, strings.Join(Names(), ", "))
	}
	return render(name, content, data)
}

// RenderFile renders a template file from disk with the given data.
func RenderFile(path string, data Data) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading template: %w", err)
	}
	return render(path, string(content), data)
}

func render(name, content string, data Data) (string, error) {
	parsed, err := template.New(name).Option("missingkey=error").Parse(content)
	if err != nil {
		return "", fmt.Errorf("parsing template %s: %w", name, err)
	}

	var rendered strings.Builder
	if err := parsed.Execute(&rendered, data); err != nil {
		return "", fmt.Errorf("rendering template %s: %w", name, err)
	}
	return rendered.String(), nil
}
