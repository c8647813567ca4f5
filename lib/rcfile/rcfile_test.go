// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package rcfile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func write(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".bashrc")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func read(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	return string(content)
}

func TestUpsert_CreatesMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".bashrc")

	changed, err := Upsert(path, []string{"source ~/.ian/shell.sh"})
	if err != nil {
		t.Fatalf("Upsert() error: %v", err)
	}
	if !changed {
		t.Error("Upsert() reported no change for a new file")
	}

	got := read(t, path)
	want := BeginMarker + "\nsource ~/.ian/shell.sh\n" + EndMarker + "\n"
	if got != want {
		t.Errorf("file content = %q, want %q", got, want)
	}
}

func TestUpsert_AppendsToExistingFile(t *testing.T) {
	path := write(t, "export EDITOR=vim\n")

	if _, err := Upsert(path, []string{"line"}); err != nil {
		t.Fatalf("Upsert() error: %v", err)
	}

	got := read(t, path)
	if !strings.HasPrefix(got, "export EDITOR=vim\n\n"+BeginMarker) {
		t.Errorf("user content not preserved above block:\n%s", got)
	}
}

func TestUpsert_Idempotent(t *testing.T) {
	path := write(t, "user content\n")
	lines := []string{"source ~/.ian/shell.sh"}

	if _, err := Upsert(path, lines); err != nil {
		t.Fatalf("first Upsert() error: %v", err)
	}
	first := read(t, path)

	changed, err := Upsert(path, lines)
	if err != nil {
		t.Fatalf("second Upsert() error: %v", err)
	}
	if changed {
		t.Error("second Upsert() reported a change")
	}
	if read(t, path) != first {
		t.Error("second Upsert() modified the file")
	}
	if strings.Count(read(t, path), BeginMarker) != 1 {
		t.Error("block duplicated on re-run")
	}
}

func TestUpsert_ReplacesBlockInPlace(t *testing.T) {
	path := write(t, "before\n\n"+Render([]string{"old line"})+"\nafter\n")

	if _, err := Upsert(path, []string{"new line"}); err != nil {
		t.Fatalf("Upsert() error: %v", err)
	}

	got := read(t, path)
	if strings.Contains(got, "old line") {
		t.Errorf("old block content survived:\n%s", got)
	}
	if !strings.Contains(got, "new line") {
		t.Errorf("new block content missing:\n%s", got)
	}
	if !strings.Contains(got, "before\n") || !strings.Contains(got, "after\n") {
		t.Errorf("user content around block not preserved:\n%s", got)
	}
}

func TestUpsert_KeepsTrailingBlankLines(t *testing.T) {
	path := write(t, "user line\n"+Render([]string{"old"})+"tail line\n\n\n")

	if _, err := Upsert(path, []string{"new"}); err != nil {
		t.Fatalf("Upsert() error: %v", err)
	}

	got := read(t, path)
	want := "user line\n" + Render([]string{"new"}) + "tail line\n\n\n"
	if got != want {
		t.Errorf("file content = %q, want %q", got, want)
	}
}

func TestUpsert_BlockAtEndOfFileStaysTight(t *testing.T) {
	path := write(t, "user line\n\n"+Render([]string{"old"}))

	if _, err := Upsert(path, []string{"new"}); err != nil {
		t.Fatalf("Upsert() error: %v", err)
	}

	got := read(t, path)
	want := "user line\n\n" + Render([]string{"new"})
	if got != want {
		t.Errorf("file content = %q, want %q", got, want)
	}
}

func TestBlock(t *testing.T) {
	path := write(t, "x\n"+Render([]string{"a", "b"}))

	lines, present, err := Block(path)
	if err != nil {
		t.Fatalf("Block() error: %v", err)
	}
	if !present {
		t.Fatal("Block() found no block")
	}
	if len(lines) != 2 || lines[0] != "a" || lines[1] != "b" {
		t.Errorf("Block() = %v, want [a b]", lines)
	}
}

func TestBlock_MissingFile(t *testing.T) {
	_, present, err := Block(filepath.Join(t.TempDir(), "nope"))
	if err != nil {
		t.Fatalf("Block() error: %v", err)
	}
	if present {
		t.Error("Block() found a block in a missing file")
	}
}

func TestRemove(t *testing.T) {
	path := write(t, "keep\n\n"+Render([]string{"gone"}))

	changed, err := Remove(path)
	if err != nil {
		t.Fatalf("Remove() error: %v", err)
	}
	if !changed {
		t.Error("Remove() reported no change")
	}
	if got := read(t, path); got != "keep\n" {
		t.Errorf("file after Remove() = %q, want %q", got, "keep\n")
	}

	changed, err = Remove(path)
	if err != nil {
		t.Fatalf("second Remove() error: %v", err)
	}
	if changed {
		t.Error("second Remove() reported a change")
	}
}

func TestUpsert_CorruptedMarkers(t *testing.T) {
	path := write(t, BeginMarker+"\nno end marker\n")

	if _, err := Upsert(path, []string{"x"}); err == nil {
		t.Error("Upsert() with unpaired markers succeeded, want error")
	}
}
