// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package gcs implements the fs.FS interface using Google Cloud Storage.
package gcs

import (
	"context"
	"path"

	"cloud.google.com/go/storage"
	"github.com/hpcbench/cipherplot/storage/fs"
	"golang.org/x/oauth2"
	"google.golang.org/api/option"
)

// impl is an fs.FS backed by Google Cloud Storage.
type impl struct {
	bucket *storage.BucketHandle
	name   string
	prefix string
}

// NewFS constructs an FS that writes to the provided bucket, under
// prefix if it is not empty.
func NewFS(ctx context.Context, bucketName, prefix string, opts ...option.ClientOption) (fs.FS, error) {
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return &impl{client.Bucket(bucketName), bucketName, prefix}, nil
}

// WithToken returns a client option that authenticates every request
// with a fixed OAuth2 access token.
func WithToken(token string) option.ClientOption {
	return option.WithTokenSource(oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}))
}

func (fs *impl) object(name string) string {
	if fs.prefix == "" {
		return name
	}
	return path.Join(fs.prefix, name)
}

// NewWriter returns a writer for the named object. The object is
// created when the writer is closed.
func (fs *impl) NewWriter(ctx context.Context, name string, metadata map[string]string) (fs.Writer, error) {
	ctx, cancel := context.WithCancel(ctx)
	w := fs.bucket.Object(fs.object(name)).NewWriter(ctx)
	for k, v := range metadata {
		if k == "Content-Type" {
			w.ContentType = v
			continue
		}
		if w.Metadata == nil {
			w.Metadata = make(map[string]string)
		}
		w.Metadata[k] = v
	}
	return &writer{w, cancel}, nil
}

// Path returns the gs:// URL of the named object.
func (fs *impl) Path(name string) string {
	return "gs://" + fs.name + "/" + fs.object(name)
}

type writer struct {
	*storage.Writer
	cancel context.CancelFunc
}

func (w *writer) Close() error {
	defer w.cancel()
	return w.Writer.Close()
}

// CloseWithError abandons the upload. Canceling the writer's context
// before Close discards anything already sent.
func (w *writer) CloseWithError(error) error {
	w.cancel()
	w.Writer.Close()
	return nil
}
