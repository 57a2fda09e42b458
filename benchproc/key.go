// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchproc

import (
	"strings"

	"github.com/hpcbench/cipherplot/benchfmt"
)

// A Key is an immutable tuple of field values. Two Keys are == if
// they have identical values.
type Key struct {
	// enc is the values joined by sep.
	enc string
	n   int
}

const sep = "\x00"

// MakeKey returns the Key with the given values.
func MakeKey(vals ...string) Key {
	return Key{strings.Join(vals, sep), len(vals)}
}

// keyOf projects r onto fields. It returns false if r lacks a value
// for any of the fields.
func keyOf(r *benchfmt.Record, fields []*Field) (Key, bool) {
	vals := make([]string, len(fields))
	for i, f := range fields {
		v, ok := f.Key(r)
		if !ok {
			return Key{}, false
		}
		vals[i] = v
	}
	return MakeKey(vals...), true
}

// IsZero reports whether k is a zeroed Key with no fields.
func (k Key) IsZero() bool {
	return k.n == 0
}

// Len returns the number of values in k.
func (k Key) Len() int {
	return k.n
}

// Values returns the values of k in field order.
func (k Key) Values() []string {
	if k.n == 0 {
		return nil
	}
	return strings.Split(k.enc, sep)
}

// Get returns the i'th value of k.
func (k Key) Get(i int) string {
	return k.Values()[i]
}

// String returns the values of k separated by " - ", which is how
// series are labeled on charts.
func (k Key) String() string {
	return strings.Join(k.Values(), " - ")
}
