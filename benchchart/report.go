// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchchart

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hpcbench/cipherplot/benchfmt"
)

// A Report is a named chart generator.
type Report struct {
	Name string

	// Requires lists the table columns the report reads. A table
	// missing any of them skips the report.
	Requires []string

	// Build computes the report's charts from a normalized table.
	// It must not modify tab. It returns a *SkipError if the table
	// has no data the report can use.
	Build func(tab *benchfmt.Table) ([]*ChartSpec, error)
}

// A SkipError reports that a report had nothing to draw. It is a
// notice, not a failure.
type SkipError struct {
	Reason string
}

func (e *SkipError) Error() string {
	return e.Reason
}

func skipf(format string, args ...interface{}) error {
	return &SkipError{fmt.Sprintf(format, args...)}
}

// IsSkip reports whether err is or wraps a *SkipError.
func IsSkip(err error) bool {
	var s *SkipError
	return errors.As(err, &s)
}

// A Catalog is an ordered set of reports.
type Catalog []*Report

// DefaultCatalog returns the full catalog of reports in their
// canonical order.
func DefaultCatalog() Catalog {
	return Catalog{
		{
			Name:     "throughput",
			Requires: []string{benchfmt.ColThroughput, benchfmt.ColFileSize},
			Build:    throughputVsSize,
		},
		{
			Name:     "time",
			Requires: []string{benchfmt.ColTime},
			Build:    executionTime,
		},
		{
			Name:     "maxthroughput",
			Requires: []string{benchfmt.ColThroughput},
			Build:    maxThroughput,
		},
		{
			Name:     "energy",
			Requires: []string{benchfmt.ColEnergy},
			Build:    energyPerMB,
		},
		{
			Name:     "headtohead",
			Requires: []string{benchfmt.ColThroughput},
			Build:    headToHead,
		},
		{
			Name:     "speedup",
			Requires: []string{benchfmt.ColNumThreads, benchfmt.ColSpeedup, benchfmt.ColEfficiency},
			Build:    speedupEfficiency,
		},
		{
			Name:     "blocksize",
			Requires: []string{benchfmt.ColThroughput},
			Build:    blockSizeImpact,
		},
	}
}

// Names returns the names of the reports in c.
func (c Catalog) Names() []string {
	names := make([]string, len(c))
	for i, r := range c {
		names[i] = r.Name
	}
	return names
}

// Select returns the reports of c named in names, in catalog order.
// An empty names selects every report.
func (c Catalog) Select(names []string) (Catalog, error) {
	if len(names) == 0 {
		return c, nil
	}
	want := make(map[string]bool)
	for _, n := range names {
		want[n] = true
	}
	var out Catalog
	for _, r := range c {
		if want[r.Name] {
			out = append(out, r)
			delete(want, r.Name)
		}
	}
	if len(want) > 0 {
		var bad []string
		for _, n := range names {
			if want[n] {
				bad = append(bad, n)
			}
		}
		return nil, fmt.Errorf("unknown report %s (have %s)", strings.Join(bad, ", "), strings.Join(c.Names(), ", "))
	}
	return out, nil
}
