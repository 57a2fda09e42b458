// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchstat

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/hpcbench/cipherplot/benchproc"
	"github.com/olekukonko/tablewriter"
)

// FormatAggregate writes agg as a text table with one row per group,
// in the order the groups were first observed. The last two columns
// are the reduced value and the number of runs that contributed to
// it.
func FormatAggregate(w io.Writer, agg *benchproc.Aggregate) error {
	var buf bytes.Buffer
	if agg.Len() == 0 {
		fmt.Fprintf(&buf, "no %s results\n", agg.Value.Name)
		_, err := w.Write(buf.Bytes())
		return err
	}

	header := make([]string, 0, len(agg.Fields)+2)
	for _, f := range agg.Fields {
		header = append(header, strings.ToUpper(f.Name))
	}
	header = append(header, strings.ToUpper(agg.Reducer.String()+" "+agg.Value.Name), "RUNS")

	table := tablewriter.NewWriter(&buf)
	table.SetHeader(header)
	table.SetAutoFormatHeaders(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("    ")
	for _, k := range agg.Keys() {
		v, _ := agg.Lookup(k)
		row := append(k.Values(),
			strconv.FormatFloat(v, 'g', 6, 64),
			strconv.Itoa(agg.Count(k)),
		)
		table.Append(row)
	}
	table.Render()

	_, err := w.Write(buf.Bytes())
	return err
}
