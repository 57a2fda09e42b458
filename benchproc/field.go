// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchproc

import (
	"fmt"
	"math"

	"github.com/hpcbench/cipherplot/benchfmt"
	"github.com/hpcbench/cipherplot/benchunit"
)

// A Field is a grouping key component extracted from a Record.
//
// Fields are identified by pointer; the package-level Fields are the
// only ones that exist.
type Field struct {
	// Name is the name used to select this field, such as
	// "platform".
	Name string

	// Column is the table column this field is read from.
	Column string

	str func(r *benchfmt.Record) string
	num func(r *benchfmt.Record) (float64, bool)
}

// Key returns the string form of f in r and whether r has a value for
// f. Numeric fields lack a value when the measurement is unknown, for
// example a zero file size.
func (f *Field) Key(r *benchfmt.Record) (string, bool) {
	if f.num == nil {
		return f.str(r), true
	}
	x, ok := f.num(r)
	if !ok {
		return "", false
	}
	return benchunit.FormatNumber(x), true
}

// Float returns the numeric value of f in r. It returns false for
// non-numeric fields and for records with no value for f.
func (f *Field) Float(r *benchfmt.Record) (float64, bool) {
	if f.num == nil {
		return 0, false
	}
	return f.num(r)
}

// Numeric reports whether f has numeric values.
func (f *Field) Numeric() bool {
	return f.num != nil
}

func (f *Field) String() string {
	return f.Name
}

func positive(x float64) (float64, bool) {
	if x > 0 && !math.IsInf(x, 0) {
		return x, true
	}
	return 0, false
}

var (
	Platform = &Field{
		Name: "platform", Column: benchfmt.ColPlatform,
		str: func(r *benchfmt.Record) string { return r.Platform },
	}
	Algorithm = &Field{
		Name: "algorithm", Column: benchfmt.ColAlgorithm,
		str: func(r *benchfmt.Record) string { return r.Algorithm },
	}
	Engine = &Field{
		Name: "engine", Column: benchfmt.ColEngine,
		str: func(r *benchfmt.Record) string { return r.Engine },
	}
	FileSize = &Field{
		Name: "filesize", Column: benchfmt.ColFileSize,
		num: func(r *benchfmt.Record) (float64, bool) { return positive(r.FileSizeMB) },
	}
	BlockSize = &Field{
		Name: "blocksize", Column: benchfmt.ColFileSize,
		num: func(r *benchfmt.Record) (float64, bool) {
			if !r.HasBlockSize {
				return 0, false
			}
			return positive(r.BlockSizeKB)
		},
	}
	NumThreads = &Field{
		Name: "threads", Column: benchfmt.ColNumThreads,
		num: func(r *benchfmt.Record) (float64, bool) { return positive(float64(r.NumThreads)) },
	}
)

var fields = []*Field{Platform, Algorithm, Engine, FileSize, BlockSize, NumThreads}

// FieldByName returns the Field with the given name.
func FieldByName(name string) (*Field, error) {
	for _, f := range fields {
		if f.Name == name {
			return f, nil
		}
	}
	return nil, fmt.Errorf("unknown field %q", name)
}

// A Value is a measured quantity that can be reduced.
type Value struct {
	Name   string
	Column string

	get func(r *benchfmt.Record) (float64, bool)
}

// Get returns the value of v in r and whether r carries it.
func (v *Value) Get(r *benchfmt.Record) (float64, bool) {
	x, ok := v.get(r)
	if !ok || math.IsNaN(x) {
		return 0, false
	}
	return x, true
}

func (v *Value) String() string {
	return v.Name
}

var (
	Throughput = &Value{
		Name: "throughput", Column: benchfmt.ColThroughput,
		get: func(r *benchfmt.Record) (float64, bool) { return r.ThroughputMBs, r.HasThroughput },
	}
	Time = &Value{
		Name: "time", Column: benchfmt.ColTime,
		get: func(r *benchfmt.Record) (float64, bool) { return r.TimeSec, r.HasTime },
	}
	Energy = &Value{
		Name: "energy", Column: benchfmt.ColEnergy,
		get: func(r *benchfmt.Record) (float64, bool) { return r.EnergyJoules, r.HasEnergy },
	}
	EnergyPerMB = &Value{
		Name: "energy/mb", Column: benchfmt.ColEnergy,
		get: func(r *benchfmt.Record) (float64, bool) { return r.EnergyPerMB, r.HasEnergyPerMB },
	}
	Power = &Value{
		Name: "power", Column: benchfmt.ColPower,
		get: func(r *benchfmt.Record) (float64, bool) { return r.PowerWatts, r.HasPower },
	}
	Speedup = &Value{
		Name: "speedup", Column: benchfmt.ColSpeedup,
		get: func(r *benchfmt.Record) (float64, bool) { return r.Speedup, r.HasSpeedup },
	}
	Efficiency = &Value{
		Name: "efficiency", Column: benchfmt.ColEfficiency,
		get: func(r *benchfmt.Record) (float64, bool) { return r.Efficiency, r.HasEfficiency },
	}
)

var values = []*Value{Throughput, Time, Energy, EnergyPerMB, Power, Speedup, Efficiency}

// ValueByName returns the Value with the given name.
func ValueByName(name string) (*Value, error) {
	for _, v := range values {
		if v.Name == name {
			return v, nil
		}
	}
	return nil, fmt.Errorf("unknown value %q", name)
}
