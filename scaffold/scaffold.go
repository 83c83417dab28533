// Copyright (c) 2023 The KBase Project and its Contributors
// Copyright (c) 2023 Cohere Consulting, LLC
//
// Permission is hereby granted, free of charge, to any person obtaining a copy of
// this software and associated documentation files (the "Software"), to deal in
// the Software without restriction, including without limitation the rights to
// use, copy, modify, merge, publish, distribute, sublicense, and/or sell copies
// of the Software, and to permit persons to whom the Software is furnished to do
// so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// Package scaffold provides the filesystem primitives used to materialize
// mock sequencing fixtures: directory creation guarded against existing
// targets, zero-length placeholder files, recursive removal, and sorted
// listings of a materialized tree.
package scaffold

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
)

// name of the subdirectory in which QC tooling places its outputs
const DefaultQCDir = "qc"

// permissions for created directories and files
const (
	DirMode  fs.FileMode = 0755
	FileMode fs.FileMode = 0644
)

// CreateRoot creates the top-level directory of a fixture. If anything
// already exists at the given path, a TargetAlreadyExistsError is returned
// and nothing on disk is touched.
func CreateRoot(dir string) error {
	_, err := os.Lstat(dir)
	if err == nil {
		return &TargetAlreadyExistsError{Path: dir}
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	slog.Debug(fmt.Sprintf("Creating fixture directory %s", dir))
	return os.Mkdir(dir, DirMode)
}

// Mkdir creates the given directory (and any missing parents), tolerating
// a directory that already exists.
func Mkdir(dir string) error {
	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return &NotADirectoryError{Path: dir}
		}
		return nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.MkdirAll(dir, DirMode)
}

// Touch creates an empty file at the given path, truncating any existing
// file.
func Touch(path string) error {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, FileMode)
	if err != nil {
		return err
	}
	return f.Close()
}

// WriteFile writes fixed content to the file at the given path.
func WriteFile(path string, content []byte) error {
	return os.WriteFile(path, content, FileMode)
}

// RemoveTree deletes the directory at the given path and everything in it.
func RemoveTree(dir string) error {
	slog.Debug(fmt.Sprintf("Removing fixture directory %s", dir))
	return os.RemoveAll(dir)
}

// Exists returns true if anything exists at the given path.
func Exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// Listing returns the paths of every directory and file beneath dir,
// relative to dir and sorted lexicographically. The directory itself is
// not included.
func Listing(dir string) ([]string, error) {
	entries := make([]string, 0)
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == dir {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		entries = append(entries, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(entries)
	return entries, nil
}

// Files is like Listing, but omits directories.
func Files(dir string) ([]string, error) {
	files := make([]string, 0)
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// QCDir returns the path of the QC output subdirectory within dir. If name
// is empty, DefaultQCDir is used.
func QCDir(dir, name string) string {
	if name == "" {
		name = DefaultQCDir
	}
	return filepath.Join(dir, name)
}
