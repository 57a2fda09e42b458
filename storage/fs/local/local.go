// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package local implements the fs.FS interface using local files.
package local

import (
	"context"
	"os"
	"path/filepath"

	"github.com/hpcbench/cipherplot/storage/fs"
)

// impl is an fs.FS backed by local disk.
type impl struct {
	root string
}

// NewFS constructs an FS that writes to the provided directory,
// creating it if necessary.
func NewFS(root string) (fs.FS, error) {
	if err := os.MkdirAll(root, 0777); err != nil {
		return nil, err
	}
	return &impl{root}, nil
}

// NewWriter creates a file. Metadata is ignored. The file is written
// under a temporary name and renamed into place on Close.
func (fs *impl) NewWriter(ctx context.Context, name string, metadata map[string]string) (fs.Writer, error) {
	path := fs.Path(name)
	if err := os.MkdirAll(filepath.Dir(path), 0777); err != nil {
		return nil, err
	}
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return nil, err
	}
	return &wrapper{f, path}, nil
}

// Path returns the file name that name is stored under.
func (fs *impl) Path(name string) string {
	return filepath.Join(fs.root, filepath.FromSlash(name))
}

type wrapper struct {
	*os.File
	dest string
}

// Close closes the file and moves it into place, readable by
// everyone like a file created by os.Create.
func (w *wrapper) Close() error {
	if err := w.File.Chmod(0644); err != nil {
		w.File.Close()
		os.Remove(w.File.Name())
		return err
	}
	if err := w.File.Close(); err != nil {
		os.Remove(w.File.Name())
		return err
	}
	if err := os.Rename(w.File.Name(), w.dest); err != nil {
		os.Remove(w.File.Name())
		return err
	}
	return nil
}

// CloseWithError closes the file and attempts to unlink it.
func (w *wrapper) CloseWithError(error) error {
	w.File.Close()
	return os.Remove(w.File.Name())
}
