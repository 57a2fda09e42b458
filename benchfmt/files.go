// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchfmt

import (
	"fmt"
	"io"
	"os"
)

// A Files reads records from a sequence of input files and merges
// them into one Table.
//
// The merged table has every column present in any input. Records
// read from an input that lacked a column simply carry no value for
// it.
type Files struct {
	// Paths is the list of file names to read in.
	Paths []string

	// AllowStdin indicates that the path "-" should be treated as
	// stdin.
	AllowStdin bool

	// Stdin is read for "-" if AllowStdin is set. It defaults to
	// os.Stdin.
	Stdin io.Reader
}

// ReadTable reads all inputs in order and returns the merged table.
// The first error stops reading.
func (f *Files) ReadTable() (*Table, error) {
	if len(f.Paths) == 0 {
		return nil, fmt.Errorf("no input files")
	}
	var (
		recs    []*Record
		columns []string
		seen    = make(map[string]bool)
	)
	for _, path := range f.Paths {
		tab, cols, err := f.read(path)
		if err != nil {
			return nil, err
		}
		recs = append(recs, tab.Records...)
		for _, c := range cols {
			if !seen[c] {
				seen[c] = true
				columns = append(columns, c)
			}
		}
	}
	source := f.Paths[0]
	if len(f.Paths) > 1 {
		source = fmt.Sprintf("%s (+%d more)", f.Paths[0], len(f.Paths)-1)
	}
	return NewTable(source, columns, recs), nil
}

func (f *Files) read(path string) (*Table, []string, error) {
	var r io.Reader
	if f.AllowStdin && path == "-" {
		r = f.Stdin
		if r == nil {
			r = os.Stdin
		}
	} else {
		file, err := os.Open(path)
		if err != nil {
			return nil, nil, err
		}
		defer file.Close()
		r = file
	}
	rd := NewReader(r, path)
	var recs []*Record
	for rd.Scan() {
		recs = append(recs, rd.Record())
	}
	if err := rd.Err(); err != nil {
		return nil, nil, err
	}
	return &Table{Source: path, Records: recs}, rd.Columns(), nil
}
