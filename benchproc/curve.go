// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchproc

import (
	"sort"

	"github.com/aclements/go-gg/generic/slice"
	"github.com/hpcbench/cipherplot/benchfmt"
	"github.com/hpcbench/cipherplot/benchmath"
)

// A Point is one (x, y) sample of a Curve.
type Point struct {
	X, Y float64
}

// A Curve is a sequence of points belonging to one series key.
type Curve struct {
	Key    Key
	Points []Point
}

// BestPerKeyCurve groups recs by fixed and, within each group, reduces
// value at each distinct value of the numeric field varying. The
// resulting curves are in first-observation order of their keys and
// their points are in strictly ascending x order.
//
// Records lacking value, varying, or any fixed field do not contribute.
func BestPerKeyCurve(recs []*benchfmt.Record, fixed []*Field, varying *Field, value *Value, r benchmath.Reducer) []Curve {
	type group struct {
		xs      []float64
		samples map[float64][]float64
	}
	groups := make(map[Key]*group)
	var order []Key
	for _, rec := range recs {
		y, ok := value.Get(rec)
		if !ok {
			continue
		}
		x, ok := varying.Float(rec)
		if !ok {
			continue
		}
		k, ok := keyOf(rec, fixed)
		if !ok {
			continue
		}
		g := groups[k]
		if g == nil {
			g = &group{samples: make(map[float64][]float64)}
			groups[k] = g
			order = append(order, k)
		}
		if _, seen := g.samples[x]; !seen {
			g.xs = append(g.xs, x)
		}
		g.samples[x] = append(g.samples[x], y)
	}

	curves := make([]Curve, 0, len(order))
	for _, k := range order {
		g := groups[k]
		sort.Float64s(g.xs)
		c := Curve{Key: k}
		for _, x := range g.xs {
			if y, ok := r.Reduce(g.samples[x]); ok {
				c.Points = append(c.Points, Point{x, y})
			}
		}
		curves = append(curves, c)
	}
	return curves
}

// OrderedSeries groups recs by fixed and returns each group's raw
// (varying, value) pairs sorted by x. No reduction is applied, so
// duplicate x values are all kept, in input order.
func OrderedSeries(recs []*benchfmt.Record, fixed []*Field, varying *Field, value *Value) []Curve {
	byKey := make(map[Key]int)
	var curves []Curve
	for _, rec := range recs {
		y, ok := value.Get(rec)
		if !ok {
			continue
		}
		x, ok := varying.Float(rec)
		if !ok {
			continue
		}
		k, ok := keyOf(rec, fixed)
		if !ok {
			continue
		}
		i, seen := byKey[k]
		if !seen {
			i = len(curves)
			byKey[k] = i
			curves = append(curves, Curve{Key: k})
		}
		curves[i].Points = append(curves[i].Points, Point{x, y})
	}
	for _, c := range curves {
		pts := c.Points
		sort.SliceStable(pts, func(i, j int) bool { return pts[i].X < pts[j].X })
	}
	return curves
}

// ArgMaxFirst returns the index in recs of the record with the largest
// value. On ties the earliest record wins. It returns false if no
// record carries value.
func ArgMaxFirst(recs []*benchfmt.Record, value *Value) (int, bool) {
	best, found := -1, false
	var bestY float64
	for i, rec := range recs {
		y, ok := value.Get(rec)
		if !ok {
			continue
		}
		if !found || y > bestY {
			best, bestY, found = i, y, true
		}
	}
	return best, found
}

// A Group is the set of records sharing one key.
type Group struct {
	Key     Key
	Records []*benchfmt.Record
}

// Partition splits recs by fields. Groups are in first-observation
// order and each group's records are in input order.
func Partition(recs []*benchfmt.Record, fields ...*Field) []Group {
	byKey := make(map[Key]int)
	var groups []Group
	for _, rec := range recs {
		k, ok := keyOf(rec, fields)
		if !ok {
			continue
		}
		i, seen := byKey[k]
		if !seen {
			i = len(groups)
			byKey[k] = i
			groups = append(groups, Group{Key: k})
		}
		groups[i].Records = append(groups[i].Records, rec)
	}
	return groups
}

// Distinct returns the distinct values of f in recs in order of first
// appearance.
func Distinct(recs []*benchfmt.Record, f *Field) []string {
	vals := make([]string, 0, len(recs))
	for _, rec := range recs {
		if v, ok := f.Key(rec); ok {
			vals = append(vals, v)
		}
	}
	return slice.Nub(vals).([]string)
}

// DistinctFloat returns the distinct values of the numeric field f in
// recs in ascending order.
func DistinctFloat(recs []*benchfmt.Record, f *Field) []float64 {
	vals := make([]float64, 0, len(recs))
	for _, rec := range recs {
		if x, ok := f.Float(rec); ok {
			vals = append(vals, x)
		}
	}
	vals = slice.Nub(vals).([]float64)
	slice.Sort(vals)
	return vals
}
