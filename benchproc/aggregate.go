// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchproc

import (
	"fmt"

	"github.com/hpcbench/cipherplot/benchfmt"
	"github.com/hpcbench/cipherplot/benchmath"
)

// An Aggregate maps grouping keys to a reduced value.
//
// Groups with no contributing records are absent: an Aggregate never
// holds a zero standing in for missing data.
type Aggregate struct {
	Fields  []*Field
	Value   *Value
	Reducer benchmath.Reducer

	// keys lists the groups in first-observation order.
	keys []Key
	vals map[Key]float64
	ns   map[Key]int
}

// GroupReduce groups recs by fields and reduces value within each
// group. Records that lack value or any grouping field do not
// contribute.
func GroupReduce(recs []*benchfmt.Record, fields []*Field, value *Value, r benchmath.Reducer) *Aggregate {
	samples := make(map[Key][]float64)
	var order []Key
	for _, rec := range recs {
		x, ok := value.Get(rec)
		if !ok {
			continue
		}
		k, ok := keyOf(rec, fields)
		if !ok {
			continue
		}
		if _, seen := samples[k]; !seen {
			order = append(order, k)
		}
		samples[k] = append(samples[k], x)
	}
	return newAggregate(fields, value, r, order, samples)
}

func newAggregate(fields []*Field, value *Value, r benchmath.Reducer, order []Key, samples map[Key][]float64) *Aggregate {
	a := &Aggregate{
		Fields:  fields,
		Value:   value,
		Reducer: r,
		vals:    make(map[Key]float64, len(order)),
		ns:      make(map[Key]int, len(order)),
	}
	for _, k := range order {
		v, ok := r.Reduce(samples[k])
		if !ok {
			continue
		}
		a.keys = append(a.keys, k)
		a.vals[k] = v
		a.ns[k] = len(samples[k])
	}
	return a
}

// Get returns the reduced value of the group with the given field
// values. It returns false if the group is absent.
func (a *Aggregate) Get(vals ...string) (float64, bool) {
	return a.Lookup(MakeKey(vals...))
}

// Lookup returns the reduced value of group k.
func (a *Aggregate) Lookup(k Key) (float64, bool) {
	v, ok := a.vals[k]
	return v, ok
}

// Count returns the number of records that contributed to group k.
func (a *Aggregate) Count(k Key) int {
	return a.ns[k]
}

// Keys returns the groups of a in the order they were first observed.
func (a *Aggregate) Keys() []Key {
	return a.keys
}

// Len returns the number of groups in a.
func (a *Aggregate) Len() int {
	return len(a.keys)
}

// Rollup re-reduces a over a subset of its grouping fields. For
// example, rolling up a max over (platform, algorithm, engine) to
// (platform, algorithm) with Max yields the best engine's value for
// each platform and algorithm.
//
// It panics if fields is not a subset of a.Fields.
func (a *Aggregate) Rollup(fields []*Field, r benchmath.Reducer) *Aggregate {
	idx := make([]int, len(fields))
	for i, f := range fields {
		idx[i] = -1
		for j, af := range a.Fields {
			if af == f {
				idx[i] = j
			}
		}
		if idx[i] < 0 {
			panic(fmt.Sprintf("field %s is not grouped by this aggregate", f))
		}
	}

	samples := make(map[Key][]float64)
	var order []Key
	vals := make([]string, len(fields))
	for _, k := range a.keys {
		kv := k.Values()
		for i, j := range idx {
			vals[i] = kv[j]
		}
		sub := MakeKey(vals...)
		if _, seen := samples[sub]; !seen {
			order = append(order, sub)
		}
		samples[sub] = append(samples[sub], a.vals[k])
	}
	return newAggregate(fields, a.Value, r, order, samples)
}
