// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package benchchart defines the catalog of benchmark reports and the
// renderer-independent chart specifications they produce.
//
// Each Report is a pure function from a normalized benchfmt.Table to
// zero or more ChartSpecs. A Runner runs the reports of a Catalog,
// hands each ChartSpec to a Renderer, and collects one Outcome per
// report. A report that cannot run on a table (because a column is
// missing or the relevant slice of the table is empty) is skipped
// with a reason rather than failing the run.
package benchchart

import (
	"strings"

	"github.com/hpcbench/cipherplot/benchproc"
)

// A ChartSpec describes one chart artifact.
//
// A ChartSpec is a grid of Rows×Cols panels stored in row-major order
// in Panels. It is immutable once handed to a Renderer.
type ChartSpec struct {
	// Name is the artifact name, without extension. Names are
	// unique across a catalog run.
	Name string

	Rows, Cols int
	Panels     []*Panel
}

// Kind is the way a panel draws its series.
type Kind int

const (
	// Line draws each series as connected points.
	Line Kind = iota
	// Bar draws each series as one bar per category, with the
	// series of a panel side by side within a category.
	Bar
)

// Scale is an axis scale.
type Scale int

const (
	Linear Scale = iota
	Log
)

// A Panel is one set of axes.
type Panel struct {
	Title          string
	XLabel, YLabel string
	Kind           Kind
	XScale, YScale Scale

	// Categories labels the x positions of a Bar panel. Point i of
	// each series is drawn at category i.
	Categories []string

	Series []*Series

	// LegendTitle, if non-empty, heads the legend.
	LegendTitle string

	// BarLabels requests that each bar be annotated with its
	// value.
	BarLabels bool

	// YRange, if non-nil, fixes the y axis range.
	YRange *Range

	// XTicks, if non-nil, replaces the default x axis ticks.
	XTicks []Tick
}

// A Range is a closed axis interval.
type Range struct {
	Min, Max float64
}

// A Tick is a labeled position on an axis.
type Tick struct {
	Value float64
	Label string
}

// A Series is one named sequence of points.
type Series struct {
	Label string

	// Style names the entity the series represents, such as a
	// platform or engine. Renderers use it to keep an entity's
	// color consistent across charts. It may be empty.
	Style string

	// Ideal marks a reference series that is not derived from
	// data.
	Ideal bool

	Points []benchproc.Point
}

// Empty reports whether p has no data series to draw. Reference
// series do not count.
func (p *Panel) Empty() bool {
	for _, s := range p.Series {
		if !s.Ideal && len(s.Points) > 0 {
			return false
		}
	}
	return true
}

// SafeName turns an algorithm name into the form used in artifact
// names: lower case, with spaces and hyphens replaced by underscores.
func SafeName(name string) string {
	name = strings.ReplaceAll(name, " ", "_")
	name = strings.ReplaceAll(name, "-", "_")
	return strings.ToLower(name)
}

// single returns a one-panel chart.
func single(name string, p *Panel) *ChartSpec {
	return &ChartSpec{Name: name, Rows: 1, Cols: 1, Panels: []*Panel{p}}
}

// row returns a chart with panels side by side.
func row(name string, ps []*Panel) *ChartSpec {
	return &ChartSpec{Name: name, Rows: 1, Cols: len(ps), Panels: ps}
}
