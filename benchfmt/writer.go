// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchfmt

import (
	"encoding/csv"
	"io"
	"strconv"
)

// writeColumns is the header written by Writer. It matches the
// harness's own output so that written tables can be read back.
var writeColumns = []string{
	ColPlatform, ColAlgorithm, ColEngine, ColFileSize, ColNumThreads,
	ColTime, ColThroughput, ColSpeedup, ColEfficiency, ColVerified,
	ColEnergy, ColPower, ColEnergySource,
}

// A Writer writes records in the harness's tabular format.
type Writer struct {
	w     *csv.Writer
	first bool
	row   []string
}

// NewWriter returns a writer that writes records to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: csv.NewWriter(w), first: true, row: make([]string, len(writeColumns))}
}

// Write writes rec to w, preceded by the header if this is the first
// record. Absent optional values are written as empty cells.
func (w *Writer) Write(rec *Record) error {
	if w.first {
		if err := w.w.Write(writeColumns); err != nil {
			return err
		}
		w.first = false
	}
	opt := func(x float64, ok bool) string {
		if !ok {
			return ""
		}
		return formatFloat(x)
	}
	size := rec.FileSizeMB
	if rec.HasBlockSize && size == 0 {
		size = rec.BlockSizeKB / 1024
	}
	source := rec.EnergySource
	if !rec.HasEnergy && source == "" {
		source = "N/A"
	}
	w.row = append(w.row[:0],
		rec.Platform, rec.Algorithm, rec.Engine,
		formatFloat(size), strconv.Itoa(rec.NumThreads),
		opt(rec.TimeSec, rec.HasTime), opt(rec.ThroughputMBs, rec.HasThroughput),
		opt(rec.Speedup, rec.HasSpeedup), opt(rec.Efficiency, rec.HasEfficiency),
		rec.Verified.String(),
		opt(rec.EnergyJoules, rec.HasEnergy), opt(rec.PowerWatts, rec.HasPower),
		source,
	)
	return w.w.Write(w.row)
}

// Flush writes any buffered data to the underlying writer and returns
// any error from this or a previous Write.
func (w *Writer) Flush() error {
	w.w.Flush()
	return w.w.Error()
}

func formatFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}
