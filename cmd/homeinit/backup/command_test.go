// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package backup

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/bureau-foundation/homeinit/cmd/homeinit/cli"
	"github.com/bureau-foundation/homeinit/lib/backup"
	"github.com/bureau-foundation/homeinit/lib/config"
	"github.com/bureau-foundation/homeinit/lib/testutil"
)

func TestRestore_RejectsPaths(t *testing.T) {
	testutil.TempHome(t)

	err := Command().Execute([]string{"restore", "../../etc/shadow.tar.zst", "--yes"})
	var commandErr *cli.CommandError
	if !errors.As(err, &commandErr) || commandErr.Category != cli.CategoryValidation {
		t.Errorf("restore with path: error = %v, want validation error", err)
	}
}

func TestRestore_UnknownArchive(t *testing.T) {
	testutil.TempHome(t)

	err := Command().Execute([]string{"restore", "20990101T000000.tar.zst", "--yes"})
	var commandErr *cli.CommandError
	if !errors.As(err, &commandErr) || commandErr.Category != cli.CategoryNotFound {
		t.Errorf("restore of missing archive: error = %v, want not_found error", err)
	}
}

func TestRestore_PutsFileBack(t *testing.T) {
	home := testutil.TempHome(t)

	// Archive a file, clobber it, restore it.
	file := filepath.Join(home, ".bashrc")
	if err := os.WriteFile(file, []byte("the original\n"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	archivePath, err := backup.Create(cfg.BackupDir(), []string{file})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := os.WriteFile(file, []byte("clobbered\n"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if err := Command().Execute([]string{"restore", filepath.Base(archivePath), "--yes"}); err != nil {
		t.Fatalf("restore error: %v", err)
	}

	content, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(content) != "the original\n" {
		t.Errorf("restored content = %q, want the original", content)
	}
}

func TestList_ShowsArchives(t *testing.T) {
	home := testutil.TempHome(t)

	file := filepath.Join(home, ".vimrc")
	if err := os.WriteFile(file, []byte("set number\n"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, err := backup.Create(cfg.BackupDir(), []string{file}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := Command().Execute([]string{"list"}); err != nil {
		t.Fatalf("list error: %v", err)
	}
}
