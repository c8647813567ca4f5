// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package backup creates and restores archives of files that apply
// replaced. Archives are tar streams compressed with zstd — the
// contents are dotfiles, i.e. text, where zstd earns its keep. One
// archive is written per apply run that replaces anything; nothing is
// ever deleted automatically.
package backup

import (
	"archive/tar"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"
)

// Extension is the archive filename extension.
const Extension = ".tar.zst"

// nameFormat is the timestamp layout used for archive names.
const nameFormat = "20060102T150405"

// Archive describes one backup archive on disk.
type Archive struct {
	// Name is the archive filename (e.g. "20260824T101530.tar.zst").
	Name string

	// Path is the absolute path of the archive.
	Path string

	// CreatedAt is parsed from the archive name.
	CreatedAt time.Time
}

// Create archives the given files into backupDir and returns the
// archive path. Files are stored under their absolute path with the
// leading separator stripped, so an archive restores cleanly relative
// to any root. backupDir is created if missing. At least one file is
// required — an empty backup is a caller bug.
func Create(backupDir string, files []string) (string, error) {
	if len(files) == 0 {
		return "", errors.New("no files to back up")
	}
	if err := os.MkdirAll(backupDir, 0755); err != nil {
		return "", fmt.Errorf("creating backup dir: %w", err)
	}

	path, err := newArchivePath(backupDir, time.Now().UTC())
	if err != nil {
		return "", err
	}

	archiveFile, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return "", fmt.Errorf("creating archive: %w", err)
	}
	defer archiveFile.Close()

	compressor, err := zstd.NewWriter(archiveFile)
	if err != nil {
		return "", fmt.Errorf("initializing zstd: %w", err)
	}
	tarWriter := tar.NewWriter(compressor)

	for _, file := range files {
		if err := addFile(tarWriter, file); err != nil {
			return "", err
		}
	}

	if err := tarWriter.Close(); err != nil {
		return "", fmt.Errorf("finalizing archive: %w", err)
	}
	if err := compressor.Close(); err != nil {
		return "", fmt.Errorf("finalizing compression: %w", err)
	}
	return path, nil
}

// newArchivePath picks a non-colliding archive path for the given
// creation time. Two apply runs within one second get numeric
// suffixes.
func newArchivePath(backupDir string, now time.Time) (string, error) {
	base := now.Format(nameFormat)
	for attempt := 0; attempt < 100; attempt++ {
		name := base
		if attempt > 0 {
			name = fmt.Sprintf("%s-%d", base, attempt)
		}
		path := filepath.Join(backupDir, name+Extension)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return path, nil
		}
	}
	return "", fmt.Errorf("could not find free archive name in %s", backupDir)
}

// addFile writes one file into the tar stream under its
// leading-separator-stripped absolute path.
func addFile(tarWriter *tar.Writer, path string) error {
	info, err := os.Lstat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}

	name := strings.TrimPrefix(filepath.ToSlash(path), "/")

	// Symlinks are archived as symlinks so restore reproduces them.
	if info.Mode()&os.ModeSymlink != 0 {
		destination, err := os.Readlink(path)
		if err != nil {
			return fmt.Errorf("readlink %s: %w", path, err)
		}
		return tarWriter.WriteHeader(&tar.Header{
			Typeflag: tar.TypeSymlink,
			Name:     name,
			Linkname: destination,
			ModTime:  info.ModTime(),
		})
	}

	if !info.Mode().IsRegular() {
		return fmt.Errorf("cannot back up %s: not a regular file or symlink", path)
	}

	header := &tar.Header{
		Name:    name,
		Mode:    int64(info.Mode().Perm()),
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}
	if err := tarWriter.WriteHeader(header); err != nil {
		return fmt.Errorf("writing header for %s: %w", path, err)
	}

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer file.Close()

	if _, err := io.Copy(tarWriter, file); err != nil {
		return fmt.Errorf("archiving %s: %w", path, err)
	}
	return nil
}

// List returns the archives in backupDir, newest first. A missing
// backup dir is an empty list, not an error.
func List(backupDir string) ([]Archive, error) {
	entries, err := os.ReadDir(backupDir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading backup dir: %w", err)
	}

	var archives []Archive
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), Extension) {
			continue
		}

		stamp := strings.TrimSuffix(entry.Name(), Extension)
		// Drop a collision suffix before parsing.
		if dash := strings.IndexByte(stamp, '-'); dash >= 0 {
			stamp = stamp[:dash]
		}
		createdAt, err := time.Parse(nameFormat, stamp)
		if err != nil {
			continue // foreign file in the backup dir
		}

		archives = append(archives, Archive{
			Name:      entry.Name(),
			Path:      filepath.Join(backupDir, entry.Name()),
			CreatedAt: createdAt,
		})
	}

	sort.Slice(archives, func(a, b int) bool {
		return archives[a].Name > archives[b].Name
	})
	return archives, nil
}

// Entries returns the file paths stored in the archive, with the
// leading separator restored.
func Entries(archivePath string) ([]string, error) {
	var paths []string
	err := walk(archivePath, func(header *tar.Header, _ *tar.Reader) error {
		paths = append(paths, "/"+header.Name)
		return nil
	})
	return paths, err
}

// Restore unpacks the archive under destRoot ("/" for a real
// restore, a temp dir in tests) and returns the restored paths.
// Existing files are overwritten — restore is the undo operation, so
// it wins.
func Restore(archivePath, destRoot string) ([]string, error) {
	var restored []string
	err := walk(archivePath, func(header *tar.Header, reader *tar.Reader) error {
		target := filepath.Join(destRoot, filepath.FromSlash(header.Name))
		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return fmt.Errorf("creating %s: %w", filepath.Dir(target), err)
		}

		switch header.Typeflag {
		case tar.TypeSymlink:
			if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("replacing %s: %w", target, err)
			}
			if err := os.Symlink(header.Linkname, target); err != nil {
				return fmt.Errorf("restoring symlink %s: %w", target, err)
			}

		case tar.TypeReg:
			file, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, os.FileMode(header.Mode).Perm())
			if err != nil {
				return fmt.Errorf("restoring %s: %w", target, err)
			}
			if _, err := io.Copy(file, reader); err != nil {
				file.Close()
				return fmt.Errorf("restoring %s: %w", target, err)
			}
			if err := file.Close(); err != nil {
				return fmt.Errorf("restoring %s: %w", target, err)
			}

		default:
			return fmt.Errorf("unsupported entry type %d for %s", header.Typeflag, header.Name)
		}

		restored = append(restored, target)
		return nil
	})
	return restored, err
}

// walk iterates the tar entries of a zstd-compressed archive.
func walk(archivePath string, visit func(*tar.Header, *tar.Reader) error) error {
	archiveFile, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("opening archive: %w", err)
	}
	defer archiveFile.Close()

	decompressor, err := zstd.NewReader(archiveFile)
	if err != nil {
		return fmt.Errorf("initializing zstd: %w", err)
	}
	defer decompressor.Close()

	tarReader := tar.NewReader(decompressor)
	for {
		header, err := tarReader.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading archive: %w", err)
		}
		if err := visit(header, tarReader); err != nil {
			return err
		}
	}
}
