// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package benchmath reduces groups of benchmark measurements to a
// single value.
package benchmath

import (
	"fmt"

	"github.com/aclements/go-moremath/stats"
)

// A Reducer reduces a sample of measurements to one value.
type Reducer int

const (
	Max Reducer = iota
	Min
	Mean
)

func (r Reducer) String() string {
	switch r {
	case Max:
		return "max"
	case Min:
		return "min"
	case Mean:
		return "mean"
	}
	return fmt.Sprintf("Reducer(%d)", int(r))
}

// ParseReducer parses the name of a Reducer as returned by String.
func ParseReducer(s string) (Reducer, error) {
	for _, r := range []Reducer{Max, Min, Mean} {
		if s == r.String() {
			return r, nil
		}
	}
	return 0, fmt.Errorf("unknown reducer %q", s)
}

// Reduce applies r to xs. An empty sample has no reduced value, in
// which case Reduce returns 0, false.
func (r Reducer) Reduce(xs []float64) (float64, bool) {
	if len(xs) == 0 {
		return 0, false
	}
	switch r {
	case Max:
		_, max := stats.Bounds(xs)
		return max, true
	case Min:
		min, _ := stats.Bounds(xs)
		return min, true
	case Mean:
		return stats.Mean(xs), true
	}
	panic(fmt.Sprintf("unknown reducer %d", int(r)))
}
