// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package fs provides a backend-agnostic filesystem layer for storing
// rendered report artifacts.
package fs

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sort"
	"sync"
)

// An FS stores artifacts.
type FS interface {
	// NewWriter returns a Writer for a given file name.
	// When the Writer is closed, the file will be stored with the
	// given metadata and the data written to the writer.
	NewWriter(ctx context.Context, name string, metadata map[string]string) (Writer, error)

	// Path returns the location a file stored under name is
	// reachable at, for display to the user.
	Path(name string) string
}

// A Writer is an io.Writer that can also be closed with an error.
type Writer interface {
	io.WriteCloser
	// CloseWithError cancels the writing of the file, removing
	// any partially written data.
	CloseWithError(error) error
}

// MemFS is an in-memory filesystem implementing the FS interface.
type MemFS struct {
	mu      sync.Mutex
	content map[string]*memFile
}

// NewMemFS constructs a new, empty MemFS.
func NewMemFS() *MemFS {
	return &MemFS{
		content: make(map[string]*memFile),
	}
}

// NewWriter returns a Writer for a given file name. As a side effect,
// it associates the given metadata with the file.
func (fs *MemFS) NewWriter(_ context.Context, name string, metadata map[string]string) (Writer, error) {
	meta := make(map[string]string)
	for k, v := range metadata {
		meta[k] = v
	}
	return &memFile{fs: fs, name: name, metadata: meta}, nil
}

// Path returns name.
func (fs *MemFS) Path(name string) string {
	return name
}

// Files returns the names of the files written to fs, sorted.
func (fs *MemFS) Files() []string {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	var files []string
	for f := range fs.content {
		files = append(files, f)
	}
	sort.Strings(files)
	return files
}

// Content returns the content and metadata of the named file, or
// false if it was never closed successfully.
func (fs *MemFS) Content(name string) ([]byte, map[string]string, bool) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	f, ok := fs.content[name]
	if !ok {
		return nil, nil, false
	}
	return f.data.Bytes(), f.metadata, true
}

// memFile represents a file in a MemFS. While the file is being
// written, fs points to the filesystem. Close writes the file's
// content to fs and sets fs to nil.
type memFile struct {
	fs       *MemFS
	name     string
	metadata map[string]string
	data     bytes.Buffer
}

var errClosed = errors.New("write on closed file")

func (f *memFile) Write(p []byte) (int, error) {
	if f.fs == nil {
		return 0, errClosed
	}
	return f.data.Write(p)
}

func (f *memFile) Close() error {
	if f.fs == nil {
		return errClosed
	}

	f.fs.mu.Lock()
	defer f.fs.mu.Unlock()

	f.fs.content[f.name] = f
	f.fs = nil
	return nil
}

func (f *memFile) CloseWithError(error) error {
	f.fs = nil
	return nil
}
