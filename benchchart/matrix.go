// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchchart

import "github.com/hpcbench/cipherplot/benchproc"

// A Matrix is a dense table of reduced values indexed by row and
// column labels.
//
// A zero cell means "no data", not a measured zero: Matrix is built
// from an Aggregate, which has no zero values of its own for absent
// groups.
type Matrix struct {
	Rows, Cols []string
	Values     [][]float64

	row, col map[string]int
}

// NewMatrix fills a Matrix from a two-field Aggregate, using rows for
// the values of the aggregate's first field and cols for its second.
// Cells with no group are 0.
func NewMatrix(a *benchproc.Aggregate, rows, cols []string) *Matrix {
	m := &Matrix{
		Rows:   rows,
		Cols:   cols,
		Values: make([][]float64, len(rows)),
		row:    make(map[string]int),
		col:    make(map[string]int),
	}
	for j, c := range cols {
		m.col[c] = j
	}
	for i, r := range rows {
		m.row[r] = i
		m.Values[i] = make([]float64, len(cols))
		for j, c := range cols {
			if v, ok := a.Get(r, c); ok {
				m.Values[i][j] = v
			}
		}
	}
	return m
}

// At returns the cell at the labeled row and column. Unknown labels
// yield 0.
func (m *Matrix) At(row, col string) float64 {
	i, ok := m.row[row]
	if !ok {
		return 0
	}
	j, ok := m.col[col]
	if !ok {
		return 0
	}
	return m.Values[i][j]
}

// Scale multiplies every cell by f.
func (m *Matrix) Scale(f float64) {
	for _, r := range m.Values {
		for j := range r {
			r[j] *= f
		}
	}
}

// RowSeries returns one bar series per row, each spanning the
// columns.
func (m *Matrix) RowSeries() []*Series {
	ss := make([]*Series, len(m.Rows))
	for i, r := range m.Rows {
		ss[i] = barSeries(r, m.Values[i])
	}
	return ss
}

// ColSeries returns one bar series per column, each spanning the
// rows.
func (m *Matrix) ColSeries() []*Series {
	ss := make([]*Series, len(m.Cols))
	for j, c := range m.Cols {
		ys := make([]float64, len(m.Rows))
		for i := range m.Rows {
			ys[i] = m.Values[i][j]
		}
		ss[j] = barSeries(c, ys)
	}
	return ss
}

func barSeries(label string, ys []float64) *Series {
	s := &Series{Label: label, Style: label, Points: make([]benchproc.Point, len(ys))}
	for i, y := range ys {
		s.Points[i] = benchproc.Point{X: float64(i), Y: y}
	}
	return s
}
