// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package benchnorm normalizes benchmark result tables before they
// are grouped.
//
// Normalization canonicalizes platform names, so that the labels
// different harness builds use for the same machine land in a single
// series, resolves the meaning of the size column, and derives
// secondary units. It must run exactly once, before any grouping, but
// it is idempotent so running it again is harmless.
package benchnorm

import (
	"path/filepath"
	"strings"

	"github.com/hpcbench/cipherplot/benchfmt"
	"github.com/hpcbench/cipherplot/benchunit"
)

// Aliases maps the platform labels written by the harness to the
// machine they ran on. Labels not in the map are already canonical.
var Aliases = map[string]string{
	"WSL":   "RTX 3070",
	"RTX":   "RTX 3070",
	"macOS": "M4 Pro",
}

// Canonical returns the canonical name of platform.
func Canonical(platform string) string {
	if c, ok := Aliases[platform]; ok {
		return c
	}
	return platform
}

// A Layout says what the size column of a table measures.
type Layout int

const (
	// LayoutAuto picks LayoutBlockSize if the table has a
	// BlockSize_MB column or its source name mentions
	// "block_size", and LayoutFileSize otherwise.
	LayoutAuto Layout = iota
	// LayoutFileSize tables hold the processed file size in MB.
	LayoutFileSize
	// LayoutBlockSize tables come from the block size sweep,
	// whose FileSize_MB column actually holds the block size in
	// MB.
	LayoutBlockSize
)

func (l Layout) String() string {
	switch l {
	case LayoutFileSize:
		return "filesize"
	case LayoutBlockSize:
		return "blocksize"
	}
	return "auto"
}

// ParseLayout parses the name of a Layout as returned by String.
func ParseLayout(s string) (Layout, bool) {
	for _, l := range []Layout{LayoutAuto, LayoutFileSize, LayoutBlockSize} {
		if s == l.String() {
			return l, true
		}
	}
	return LayoutAuto, false
}

// Options controls normalization.
type Options struct {
	Layout Layout
}

// DetectLayout resolves LayoutAuto for tab.
func DetectLayout(tab *benchfmt.Table) Layout {
	if tab.Has(benchfmt.ColBlockSize) {
		return LayoutBlockSize
	}
	if strings.Contains(strings.ToLower(filepath.Base(tab.Source)), "block_size") {
		return LayoutBlockSize
	}
	return LayoutFileSize
}

// Normalize normalizes the records of tab in place and returns the
// layout it applied.
func Normalize(tab *benchfmt.Table, opts *Options) Layout {
	layout := LayoutAuto
	if opts != nil {
		layout = opts.Layout
	}
	if layout == LayoutAuto {
		layout = DetectLayout(tab)
	}
	for _, r := range tab.Records {
		Record(r, layout)
	}
	return layout
}

// Record normalizes a single record for the given layout, which must
// not be LayoutAuto.
func Record(r *benchfmt.Record, layout Layout) {
	r.Platform = Canonical(r.Platform)

	if layout == LayoutBlockSize && !r.HasBlockSize {
		r.BlockSizeKB = benchunit.MBToKB(r.FileSizeMB)
		r.HasBlockSize = true
		// The file size of a block size sweep is not recorded.
		r.FileSizeMB = 0
	}

	r.EnergyPerMB, r.HasEnergyPerMB = 0, false
	if r.HasEnergy && r.FileSizeMB > 0 {
		r.EnergyPerMB = r.EnergyJoules / r.FileSizeMB
		r.HasEnergyPerMB = true
	}
}
