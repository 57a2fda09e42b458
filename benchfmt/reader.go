// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchfmt

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// A Reader reads benchmark result tables.
//
// Its API is modeled on bufio.Scanner. Each call to Scan produces a
// new Record, which the caller may retain.
//
// To construct a new Reader, call NewReader.
type Reader struct {
	csv      *csv.Reader
	fileName string
	line     int
	err      error

	header  bool
	columns []string
	// pos maps column names to their position in a row.
	pos map[string]int

	rec   *Record
	index int
}

// A SyntaxError represents a syntax error on a particular line of a
// benchmark results file.
type SyntaxError struct {
	FileName string
	Line     int
	Msg      string
}

func (e *SyntaxError) Pos() (fileName string, line int) {
	return e.FileName, e.Line
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.FileName, e.Line, e.Msg)
}

// ErrMissingColumn is wrapped by a *SchemaError when a table lacks a
// column every consumer depends on.
var ErrMissingColumn = errors.New("missing required column")

// A SchemaError reports a table header that lacks required columns.
type SchemaError struct {
	FileName string
	Columns  []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: %v %s", e.FileName, ErrMissingColumn, strings.Join(e.Columns, ", "))
}

func (e *SchemaError) Unwrap() error {
	return ErrMissingColumn
}

// NewReader constructs a reader to parse a results table from r.
// fileName is used in error messages; it is purely diagnostic.
func NewReader(r io.Reader, fileName string) *Reader {
	if fileName == "" {
		fileName = "<unknown>"
	}
	c := csv.NewReader(r)
	c.TrimLeadingSpace = true
	c.FieldsPerRecord = -1
	c.ReuseRecord = true
	return &Reader{csv: c, fileName: fileName}
}

func (r *Reader) newSyntaxError(msg string) *SyntaxError {
	return &SyntaxError{r.fileName, r.line, msg}
}

// readHeader consumes the header row and checks that the identity
// columns are present.
func (r *Reader) readHeader() error {
	row, err := r.csv.Read()
	if err == io.EOF {
		return r.newSyntaxError("empty input")
	} else if err != nil {
		return r.wrapCSVError(err)
	}
	r.line = 1
	r.pos = make(map[string]int)
	for i, name := range row {
		name = strings.TrimSpace(name)
		if _, ok := r.pos[name]; ok {
			return r.newSyntaxError(fmt.Sprintf("duplicate column %q", name))
		}
		r.pos[name] = i
		r.columns = append(r.columns, name)
	}
	var missing []string
	for _, c := range identityColumns {
		if _, ok := r.pos[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return &SchemaError{r.fileName, missing}
	}
	return nil
}

func (r *Reader) wrapCSVError(err error) error {
	var perr *csv.ParseError
	if errors.As(err, &perr) {
		return &SyntaxError{r.fileName, perr.Line, perr.Err.Error()}
	}
	return fmt.Errorf("%s: %w", r.fileName, err)
}

// Columns returns the column names of the table's header, in header
// order. It is valid after the first call to Scan.
func (r *Reader) Columns() []string {
	return r.columns
}

// Scan advances the reader to the next record and reports whether a
// record was read. The caller should use the Record method to get the
// record. If Scan reaches EOF or an error occurs, it returns false,
// in which case the caller should use the Err method to check for
// errors.
func (r *Reader) Scan() bool {
	if r.err != nil {
		return false
	}
	if !r.header {
		r.header = true
		if err := r.readHeader(); err != nil {
			r.err = err
			return false
		}
	}
	for {
		row, err := r.csv.Read()
		if err == io.EOF {
			return false
		} else if err != nil {
			r.err = r.wrapCSVError(err)
			return false
		}
		line, _ := r.csv.FieldPos(0)
		r.line = line
		if blankRow(row) {
			continue
		}
		rec, err := r.parseRow(row)
		if err != nil {
			r.err = err
			return false
		}
		rec.Index = r.index
		r.index++
		r.rec = rec
		return true
	}
}

// Record returns the record read by the last call to Scan.
func (r *Reader) Record() *Record {
	return r.rec
}

// Err returns the first error encountered by the Reader, or nil at
// EOF.
func (r *Reader) Err() error {
	return r.err
}

func blankRow(row []string) bool {
	for _, f := range row {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// cell returns the trimmed value of column col in row and whether the
// column is present and non-empty.
func (r *Reader) cell(row []string, col string) (string, bool) {
	i, ok := r.pos[col]
	if !ok || i >= len(row) {
		return "", false
	}
	v := strings.TrimSpace(row[i])
	return v, v != ""
}

func (r *Reader) parseRow(row []string) (*Record, error) {
	rec := &Record{Line: r.line}
	rec.Platform, _ = r.cell(row, ColPlatform)
	rec.Algorithm, _ = r.cell(row, ColAlgorithm)
	rec.Engine, _ = r.cell(row, ColEngine)

	var err error
	num := func(col string, dst *float64) bool {
		if err != nil {
			return false
		}
		s, ok := r.cell(row, col)
		if !ok || isNA(s) {
			return false
		}
		v, perr := strconv.ParseFloat(s, 64)
		if perr != nil {
			err = r.newSyntaxError(fmt.Sprintf("column %s: bad number %q", col, s))
			return false
		}
		*dst = v
		return true
	}

	// The size column is either the file size or, in block size
	// tables, the block size. benchnorm sorts out which.
	if !num(ColFileSize, &rec.FileSizeMB) {
		num(ColBlockSize, &rec.FileSizeMB)
	}
	var threads float64
	if num(ColNumThreads, &threads) {
		rec.NumThreads = int(threads)
		if float64(rec.NumThreads) != threads || rec.NumThreads < 1 {
			return nil, r.newSyntaxError(fmt.Sprintf("column %s: bad thread count %v", ColNumThreads, threads))
		}
	}
	rec.HasThroughput = num(ColThroughput, &rec.ThroughputMBs)
	rec.HasTime = num(ColTime, &rec.TimeSec)
	rec.HasEnergy = num(ColEnergy, &rec.EnergyJoules)
	rec.HasPower = num(ColPower, &rec.PowerWatts)
	rec.HasSpeedup = num(ColSpeedup, &rec.Speedup)
	rec.HasEfficiency = num(ColEfficiency, &rec.Efficiency)
	if err != nil {
		return nil, err
	}

	rec.EnergySource, _ = r.cell(row, ColEnergySource)
	if isNA(rec.EnergySource) || strings.EqualFold(rec.EnergySource, "none") {
		// The harness writes 0 J when no power monitor was
		// available.
		rec.EnergyJoules, rec.HasEnergy = 0, false
		rec.PowerWatts, rec.HasPower = 0, false
	}

	if s, ok := r.cell(row, ColVerified); ok {
		rec.Verified, err = ParseVerified(s)
		if err != nil {
			return nil, r.newSyntaxError(err.Error())
		}
	}
	return rec, nil
}

func isNA(s string) bool {
	return strings.EqualFold(s, "N/A") || strings.EqualFold(s, "NA")
}

// ReadTable reads all records from r.
func ReadTable(r io.Reader, fileName string) (*Table, error) {
	rd := NewReader(r, fileName)
	var recs []*Record
	for rd.Scan() {
		recs = append(recs, rd.Record())
	}
	if err := rd.Err(); err != nil {
		return nil, err
	}
	return NewTable(fileName, rd.Columns(), recs), nil
}

// ReadFile reads the table stored in the named file.
func ReadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadTable(f, path)
}
