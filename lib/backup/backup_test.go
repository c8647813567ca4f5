// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package backup

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCreateRestore_RoundTrip(t *testing.T) {
	sourceDir := t.TempDir()
	file := filepath.Join(sourceDir, ".bashrc")
	if err := os.WriteFile(file, []byte("export EDITOR=vim\n"), 0600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	link := filepath.Join(sourceDir, ".vimrc")
	if err := os.Symlink("/somewhere/vimrc", link); err != nil {
		t.Fatalf("Symlink: %v", err)
	}

	backupDir := filepath.Join(t.TempDir(), "backups")
	archivePath, err := Create(backupDir, []string{file, link})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if !strings.HasSuffix(archivePath, Extension) {
		t.Errorf("archive path %q missing %s extension", archivePath, Extension)
	}

	entries, err := Entries(archivePath)
	if err != nil {
		t.Fatalf("Entries() error: %v", err)
	}
	if len(entries) != 2 || entries[0] != file || entries[1] != link {
		t.Errorf("Entries() = %v, want [%s %s]", entries, file, link)
	}

	restoreRoot := t.TempDir()
	restored, err := Restore(archivePath, restoreRoot)
	if err != nil {
		t.Fatalf("Restore() error: %v", err)
	}
	if len(restored) != 2 {
		t.Fatalf("Restore() restored %d files, want 2", len(restored))
	}

	restoredFile := filepath.Join(restoreRoot, file)
	content, err := os.ReadFile(restoredFile)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(content) != "export EDITOR=vim\n" {
		t.Errorf("restored content = %q", content)
	}
	info, err := os.Stat(restoredFile)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("restored mode = %o, want 0600", info.Mode().Perm())
	}

	destination, err := os.Readlink(filepath.Join(restoreRoot, link))
	if err != nil {
		t.Fatalf("Readlink: %v", err)
	}
	if destination != "/somewhere/vimrc" {
		t.Errorf("restored symlink points to %q", destination)
	}
}

func TestCreate_NoFiles(t *testing.T) {
	if _, err := Create(t.TempDir(), nil); err == nil {
		t.Error("Create() with no files succeeded, want error")
	}
}

func TestCreate_CollisionGetsSuffix(t *testing.T) {
	sourceDir := t.TempDir()
	file := filepath.Join(sourceDir, "f")
	if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	backupDir := filepath.Join(t.TempDir(), "backups")
	first, err := Create(backupDir, []string{file})
	if err != nil {
		t.Fatalf("first Create() error: %v", err)
	}
	second, err := Create(backupDir, []string{file})
	if err != nil {
		t.Fatalf("second Create() error: %v", err)
	}
	if first == second {
		t.Errorf("both archives got path %q", first)
	}
}

func TestList(t *testing.T) {
	backupDir := t.TempDir()
	for _, name := range []string{
		"20260101T000000" + Extension,
		"20260615T120000" + Extension,
		"notes.txt", // foreign file, ignored
	} {
		if err := os.WriteFile(filepath.Join(backupDir, name), nil, 0644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
	}

	archives, err := List(backupDir)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(archives) != 2 {
		t.Fatalf("List() returned %d archives, want 2", len(archives))
	}
	if archives[0].Name != "20260615T120000"+Extension {
		t.Errorf("newest archive = %s, want the June one first", archives[0].Name)
	}
	if archives[1].CreatedAt.Year() != 2026 || archives[1].CreatedAt.Month() != 1 {
		t.Errorf("CreatedAt parsed wrong: %v", archives[1].CreatedAt)
	}
}

func TestList_MissingDir(t *testing.T) {
	archives, err := List(filepath.Join(t.TempDir(), "nope"))
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if archives != nil {
		t.Errorf("List() = %v, want nil for missing dir", archives)
	}
}
