// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchfmt

// Column names used by the harness.
const (
	ColPlatform     = "Platform"
	ColAlgorithm    = "Algorithm"
	ColEngine       = "Engine"
	ColFileSize     = "FileSize_MB"
	ColBlockSize    = "BlockSize_MB"
	ColNumThreads   = "NumThreads"
	ColThroughput   = "Throughput_MBs"
	ColTime         = "Time_Sec"
	ColEnergy       = "Energy_Joules"
	ColPower        = "Power_Watts"
	ColEnergySource = "Energy_Source"
	ColSpeedup      = "Speedup"
	ColEfficiency   = "Efficiency"
	ColVerified     = "Verified"
)

// identityColumns must be present in every table.
var identityColumns = []string{ColPlatform, ColAlgorithm, ColEngine}

// A Table is the complete contents of one results file.
type Table struct {
	// Source is the file name the table was read from. It is
	// purely diagnostic.
	Source string

	// Records holds the rows of the table in input order.
	Records []*Record

	// columns is the set of columns present in the header.
	columns map[string]bool
}

// NewTable returns a table over records with the given columns
// present. It sets each record's Index.
func NewTable(source string, columns []string, records []*Record) *Table {
	t := &Table{Source: source, Records: records, columns: make(map[string]bool)}
	for _, c := range columns {
		t.columns[c] = true
	}
	for i, r := range records {
		r.Index = i
	}
	return t
}

// Has reports whether all of the named columns were present in the
// table's header.
func (t *Table) Has(cols ...string) bool {
	for _, c := range cols {
		if !t.columns[c] {
			return false
		}
	}
	return true
}

// Missing returns the subset of cols that were not present in the
// table's header, in the order given.
func (t *Table) Missing(cols ...string) []string {
	var missing []string
	for _, c := range cols {
		if !t.columns[c] {
			missing = append(missing, c)
		}
	}
	return missing
}

// Clone returns a deep copy of t.
func (t *Table) Clone() *Table {
	t2 := &Table{Source: t.Source, columns: make(map[string]bool, len(t.columns))}
	for c := range t.columns {
		t2.columns[c] = true
	}
	t2.Records = make([]*Record, len(t.Records))
	for i, r := range t.Records {
		t2.Records[i] = r.Clone()
	}
	return t2
}

// Filter returns the records in t for which keep returns true, in
// input order.
func (t *Table) Filter(keep func(r *Record) bool) []*Record {
	var out []*Record
	for _, r := range t.Records {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}
