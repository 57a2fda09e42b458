// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchchart

import (
	"context"
	"fmt"
	"strings"

	"github.com/hpcbench/cipherplot/benchfmt"
	"golang.org/x/sync/errgroup"
)

// A Renderer turns a ChartSpec into a stored artifact and returns the
// artifact's location.
//
// Render may be called concurrently for distinct specs.
type Renderer interface {
	Render(ctx context.Context, spec *ChartSpec) (string, error)
}

// An Outcome is the result of running one report.
type Outcome struct {
	Report string

	// Artifacts lists the locations of the rendered charts, in
	// the order the report produced them.
	Artifacts []string

	// Skip is the reason the report produced nothing, or "".
	Skip string

	// Err is the error that stopped the report, if any.
	Err error
}

// A Runner runs a Catalog of reports against a table.
type Runner struct {
	Renderer Renderer

	// Catalog is the set of reports to run. If nil, Run uses
	// DefaultCatalog.
	Catalog Catalog

	// Parallel is the maximum number of reports to run at once.
	// Values below 1 mean 1.
	Parallel int

	// Warn, if non-nil, is called with a notice for each skipped
	// or failed report.
	Warn func(format string, args ...interface{})

	// Saved, if non-nil, is called with the location of each
	// artifact as it is written.
	Saved func(artifact string)
}

// Run runs each report of r.Catalog against tab and returns one
// Outcome per report in catalog order. A report that fails, skips, or
// panics does not affect the others.
//
// If Parallel is greater than 1, Warn and Saved may be called
// concurrently.
func (r *Runner) Run(ctx context.Context, tab *benchfmt.Table) []Outcome {
	cat := r.Catalog
	if cat == nil {
		cat = DefaultCatalog()
	}
	outcomes := make([]Outcome, len(cat))

	limit := r.Parallel
	if limit < 1 {
		limit = 1
	}
	g := new(errgroup.Group)
	g.SetLimit(limit)
	for i, rep := range cat {
		i, rep := i, rep
		g.Go(func() error {
			outcomes[i] = r.run(ctx, rep, tab)
			return nil
		})
	}
	g.Wait()
	return outcomes
}

func (r *Runner) run(ctx context.Context, rep *Report, tab *benchfmt.Table) (out Outcome) {
	out.Report = rep.Name
	defer func() {
		if err := recover(); err != nil {
			out.Err = fmt.Errorf("panic: %v", err)
		}
		switch {
		case out.Err != nil:
			r.warn("%s: %v", rep.Name, out.Err)
		case out.Skip != "":
			r.warn("skipping %s: %s", rep.Name, out.Skip)
		}
	}()

	if err := ctx.Err(); err != nil {
		out.Err = err
		return
	}
	if missing := tab.Missing(rep.Requires...); len(missing) > 0 {
		out.Skip = fmt.Sprintf("%v %v", benchfmt.ErrMissingColumn, strings.Join(missing, ", "))
		return
	}
	specs, err := rep.Build(tab)
	if IsSkip(err) {
		out.Skip = err.Error()
		return
	} else if err != nil {
		out.Err = err
		return
	}
	if len(specs) == 0 {
		out.Skip = "nothing to draw"
		return
	}
	for _, spec := range specs {
		path, err := r.Renderer.Render(ctx, spec)
		if err != nil {
			out.Err = fmt.Errorf("rendering %s: %w", spec.Name, err)
			return
		}
		out.Artifacts = append(out.Artifacts, path)
		if r.Saved != nil {
			r.Saved(path)
		}
	}
	return
}

func (r *Runner) warn(format string, args ...interface{}) {
	if r.Warn != nil {
		r.Warn(format, args...)
	}
}
