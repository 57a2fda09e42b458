// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package benchstat summarizes a table of benchmark records.
//
// The summary is a deterministic digest of a normalized table: what
// it contains, how many runs passed their verification, and the best
// run of each algorithm.
package benchstat

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/hpcbench/cipherplot/benchfmt"
	"github.com/hpcbench/cipherplot/benchproc"
	"github.com/hpcbench/cipherplot/benchunit"
	"github.com/olekukonko/tablewriter"
)

// A Summary is the digest of one table.
type Summary struct {
	Records int

	// Platforms, Algorithms, and Engines list the distinct values
	// in order of first appearance.
	Platforms  []string
	Algorithms []string
	Engines    []string

	// BlockSizes is set if Sizes holds block sizes in KB rather
	// than file sizes in MB.
	BlockSizes bool
	Sizes      []float64

	// Total counts the runs with a verification status, of which
	// Passed passed.
	Total, Passed int

	// Best holds the best run of each algorithm, in the order of
	// Algorithms.
	Best []Best
}

// Best is the highest-throughput run of one algorithm. Among equal
// throughputs, the earliest run in the table is chosen. Runs without
// a throughput are never best.
type Best struct {
	Algorithm     string
	Platform      string
	Engine        string
	ThroughputMBs float64
	TimeMs        float64
	HasTime       bool
}

// FormatTime formats b's time in ms with two decimals, or "n/a" if
// the run has no time.
func (b Best) FormatTime() string {
	if !b.HasTime {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", b.TimeMs)
}

// Summarize computes the summary of a normalized table.
func Summarize(tab *benchfmt.Table) *Summary {
	recs := tab.Records
	s := &Summary{
		Records:    len(recs),
		Platforms:  benchproc.Distinct(recs, benchproc.Platform),
		Algorithms: benchproc.Distinct(recs, benchproc.Algorithm),
		Engines:    benchproc.Distinct(recs, benchproc.Engine),
	}
	for _, r := range recs {
		if r.HasBlockSize {
			s.BlockSizes = true
		}
		switch r.Verified {
		case benchfmt.Pass:
			s.Passed++
			s.Total++
		case benchfmt.Fail:
			s.Total++
		}
	}
	if s.BlockSizes {
		s.Sizes = benchproc.DistinctFloat(recs, benchproc.BlockSize)
	} else {
		s.Sizes = benchproc.DistinctFloat(recs, benchproc.FileSize)
	}
	for _, g := range benchproc.Partition(recs, benchproc.Algorithm) {
		i, ok := benchproc.ArgMaxFirst(g.Records, benchproc.Throughput)
		if !ok {
			continue
		}
		r := g.Records[i]
		s.Best = append(s.Best, Best{
			Algorithm:     r.Algorithm,
			Platform:      r.Platform,
			Engine:        r.Engine,
			ThroughputMBs: r.ThroughputMBs,
			TimeMs:        benchunit.SecToMs(r.TimeSec),
			HasTime:       r.HasTime,
		})
	}
	return s
}

// PassRate returns the percentage of runs that passed verification.
// It returns false if no run has a verification status.
func (s *Summary) PassRate() (float64, bool) {
	if s.Total == 0 {
		return 0, false
	}
	return 100 * float64(s.Passed) / float64(s.Total), true
}

// FormatPassRate formats the pass rate with one decimal, such as
// "70.0%", or "n/a" if no run has a verification status.
func (s *Summary) FormatPassRate() string {
	pct, ok := s.PassRate()
	if !ok {
		return "n/a"
	}
	return fmt.Sprintf("%.1f%%", pct)
}

var (
	heavyRule = strings.Repeat("=", 70)
	lightRule = strings.Repeat("-", 70)
)

// Format writes the text form of s to w.
func (s *Summary) Format(w io.Writer) error {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s\nBENCHMARK SUMMARY\n%s\n\n", heavyRule, heavyRule)
	fmt.Fprintf(&buf, "Records: %d\n", s.Records)
	fmt.Fprintf(&buf, "Platforms: %s\n", list(s.Platforms))
	fmt.Fprintf(&buf, "Algorithms: %s\n", list(s.Algorithms))
	fmt.Fprintf(&buf, "Engines: %s\n", list(s.Engines))
	sizes := make([]string, len(s.Sizes))
	for i, x := range s.Sizes {
		sizes[i] = benchunit.FormatNumber(x)
	}
	label, unit := "File Sizes", "MB"
	if s.BlockSizes {
		label, unit = "Block Sizes", "KB"
	}
	if len(sizes) == 0 {
		fmt.Fprintf(&buf, "%s: none\n", label)
	} else {
		fmt.Fprintf(&buf, "%s: %s %s\n", label, strings.Join(sizes, ", "), unit)
	}

	section(&buf, "VERIFICATION STATUS")
	fmt.Fprintf(&buf, "Total: %d | Passed: %d (%s)\n", s.Total, s.Passed, s.FormatPassRate())

	section(&buf, "BEST RESULTS")
	if len(s.Best) > 0 {
		table := tablewriter.NewWriter(&buf)
		table.SetHeader([]string{"ALGORITHM", "PLATFORM", "ENGINE", "THROUGHPUT (MB/S)", "TIME (MS)"})
		table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
		table.SetAlignment(tablewriter.ALIGN_LEFT)
		table.SetHeaderLine(false)
		table.SetBorder(false)
		table.SetNoWhiteSpace(true)
		table.SetTablePadding("    ")
		for _, b := range s.Best {
			table.Append([]string{
				b.Algorithm, b.Platform, b.Engine,
				fmt.Sprintf("%.2f", b.ThroughputMBs),
				b.FormatTime(),
			})
		}
		table.Render()
	} else {
		buf.WriteString("no results\n")
	}
	fmt.Fprintf(&buf, "%s\n", heavyRule)

	_, err := w.Write(buf.Bytes())
	return err
}

func section(buf *bytes.Buffer, title string) {
	fmt.Fprintf(buf, "\n%s\n%s\n%s\n", lightRule, title, lightRule)
}

func list(xs []string) string {
	if len(xs) == 0 {
		return "none"
	}
	return strings.Join(xs, ", ")
}
