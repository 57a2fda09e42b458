// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchchart

import (
	"fmt"
	"strings"

	"github.com/hpcbench/cipherplot/benchfmt"
	"github.com/hpcbench/cipherplot/benchmath"
	"github.com/hpcbench/cipherplot/benchproc"
	"github.com/hpcbench/cipherplot/benchunit"
)

// openMP is the engine whose runs carry speedup and efficiency.
const openMP = "OpenMP"

// byAlgorithm splits recs by algorithm in order of first appearance.
func byAlgorithm(recs []*benchfmt.Record) []benchproc.Group {
	return benchproc.Partition(recs, benchproc.Algorithm)
}

// perAlgorithm builds one panel per algorithm with build, dropping
// algorithms for which build returns nil. It returns a chart per
// algorithm named prefix_<algorithm> and, if combined is non-empty, a
// chart with every panel side by side.
func perAlgorithm(recs []*benchfmt.Record, prefix, combined string, build func(algo string, recs []*benchfmt.Record) *Panel) []*ChartSpec {
	var specs []*ChartSpec
	var panels []*Panel
	for _, g := range byAlgorithm(recs) {
		algo := g.Key.Get(0)
		p := build(algo, g.Records)
		if p == nil {
			continue
		}
		specs = append(specs, single(prefix+"_"+SafeName(algo), p))
		panels = append(panels, p)
	}
	if len(panels) > 0 && combined != "" {
		specs = append(specs, row(combined, panels))
	}
	return specs
}

func curveSeries(curves []benchproc.Curve) []*Series {
	var ss []*Series
	for _, c := range curves {
		if len(c.Points) == 0 {
			continue
		}
		ss = append(ss, &Series{Label: c.Key.String(), Points: c.Points})
	}
	return ss
}

var platformEngine = []*benchproc.Field{benchproc.Platform, benchproc.Engine}

func throughputVsSize(tab *benchfmt.Table) ([]*ChartSpec, error) {
	specs := perAlgorithm(tab.Records, "throughput_vs_filesize", "throughput_vs_filesize", func(algo string, recs []*benchfmt.Record) *Panel {
		curves := benchproc.BestPerKeyCurve(recs, platformEngine, benchproc.FileSize, benchproc.Throughput, benchmath.Max)
		series := curveSeries(curves)
		if len(series) == 0 {
			return nil
		}
		return &Panel{
			Title:  algo + " - Throughput vs File Size",
			XLabel: "File Size [MB]",
			YLabel: "Throughput [MB/s]",
			Kind:   Line,
			XScale: Log,
			Series: series,
		}
	})
	if len(specs) == 0 {
		return nil, skipf("no records with a file size")
	}
	return specs, nil
}

func executionTime(tab *benchfmt.Table) ([]*ChartSpec, error) {
	// Every panel shares the table's platforms and engines so that
	// bar positions line up across algorithms.
	platforms := benchproc.Distinct(tab.Records, benchproc.Platform)
	engines := benchproc.Distinct(tab.Records, benchproc.Engine)
	specs := perAlgorithm(tab.Records, "execution_time", "execution_time_comparison", func(algo string, recs []*benchfmt.Record) *Panel {
		agg := benchproc.GroupReduce(recs, platformEngine, benchproc.Time, benchmath.Min)
		if agg.Len() == 0 {
			return nil
		}
		m := NewMatrix(agg, platforms, engines)
		m.Scale(benchunit.SecToMs(1))
		return &Panel{
			Title:      algo + " - Execution Time per Method",
			XLabel:     "Engine",
			YLabel:     "Execution Time [ms]",
			Kind:       Bar,
			Categories: engines,
			Series:     m.RowSeries(),
		}
	})
	if len(specs) == 0 {
		return nil, skipf("no records")
	}
	return specs, nil
}

// maxThroughputMatrix returns the platform×engine matrix of maximum
// throughput over recs.
func maxThroughputMatrix(recs []*benchfmt.Record) *Matrix {
	agg := benchproc.GroupReduce(recs, platformEngine, benchproc.Throughput, benchmath.Max)
	if agg.Len() == 0 {
		return nil
	}
	return NewMatrix(agg, benchproc.Distinct(recs, benchproc.Platform), benchproc.Distinct(recs, benchproc.Engine))
}

func maxThroughput(tab *benchfmt.Table) ([]*ChartSpec, error) {
	specs := perAlgorithm(tab.Records, "max_throughput", "max_throughput_per_method", func(algo string, recs []*benchfmt.Record) *Panel {
		m := maxThroughputMatrix(recs)
		if m == nil {
			return nil
		}
		return &Panel{
			Title:       algo + " - Maximum Throughput per Method",
			XLabel:      "Platform",
			YLabel:      "Maximum Throughput [MB/s]",
			Kind:        Bar,
			Categories:  m.Rows,
			Series:      m.ColSeries(),
			LegendTitle: "Engine",
			BarLabels:   true,
		}
	})
	if len(specs) == 0 {
		return nil, skipf("no records")
	}
	return specs, nil
}

func energyPerMB(tab *benchfmt.Table) ([]*ChartSpec, error) {
	recs := tab.Filter(func(r *benchfmt.Record) bool { return r.HasEnergyPerMB })
	if len(recs) == 0 {
		return nil, skipf("no records carry energy data")
	}
	specs := perAlgorithm(recs, "energy_consumption", "energy_consumption", func(algo string, recs []*benchfmt.Record) *Panel {
		agg := benchproc.GroupReduce(recs, platformEngine, benchproc.EnergyPerMB, benchmath.Mean)
		m := NewMatrix(agg, benchproc.Distinct(recs, benchproc.Platform), benchproc.Distinct(recs, benchproc.Engine))
		m.Scale(benchunit.JoulesToMilliwattHours(1))
		return &Panel{
			Title:       algo + " - Energy Consumption per Method",
			XLabel:      "Platform",
			YLabel:      "Energy per MB [mWh/MB]",
			Kind:        Bar,
			Categories:  m.Rows,
			Series:      m.ColSeries(),
			LegendTitle: "Engine",
		}
	})
	return specs, nil
}

// bestByPlatform returns the best throughput of each (platform,
// algorithm) pair over all engines.
func bestByPlatform(recs []*benchfmt.Record) *benchproc.Aggregate {
	triple := []*benchproc.Field{benchproc.Platform, benchproc.Algorithm, benchproc.Engine}
	agg := benchproc.GroupReduce(recs, triple, benchproc.Throughput, benchmath.Max)
	return agg.Rollup(triple[:2], benchmath.Max)
}

func headToHead(tab *benchfmt.Table) ([]*ChartSpec, error) {
	best := bestByPlatform(tab.Records)
	if best.Len() == 0 {
		return nil, skipf("no records")
	}
	platforms := benchproc.Distinct(tab.Records, benchproc.Platform)
	algos := benchproc.Distinct(tab.Records, benchproc.Algorithm)
	m := NewMatrix(best, platforms, algos)
	p := &Panel{
		Title:      strings.Join(algos, " vs ") + " - Best Performance by Platform",
		XLabel:     "Platform",
		YLabel:     "Maximum Throughput [MB/s]",
		Kind:       Bar,
		Categories: platforms,
		Series:     m.ColSeries(),
		BarLabels:  true,
	}
	return []*ChartSpec{single("xor_vs_aes_comparison", p)}, nil
}

func speedupEfficiency(tab *benchfmt.Table) ([]*ChartSpec, error) {
	if n := len(benchproc.DistinctFloat(tab.Records, benchproc.NumThreads)); n < 2 {
		return nil, skipf("no thread scaling data (%d distinct thread count)", n)
	}
	omp := tab.Filter(func(r *benchfmt.Record) bool { return r.Engine == openMP })
	if len(omp) == 0 {
		return nil, skipf("no %s records", openMP)
	}
	threads := benchproc.DistinctFloat(omp, benchproc.NumThreads)
	if len(threads) < 2 {
		return nil, skipf("no thread scaling data in %s records", openMP)
	}
	lo, hi := threads[0], threads[len(threads)-1]

	fixed := []*benchproc.Field{benchproc.Platform, benchproc.FileSize}
	label := func(k benchproc.Key) string {
		return fmt.Sprintf("%s %sMB", k.Get(0), k.Get(1))
	}
	// Only sequences with more than one point show scaling.
	scaling := func(curves []benchproc.Curve, scale float64) []*Series {
		var ss []*Series
		for _, c := range curves {
			if len(c.Points) < 2 {
				continue
			}
			pts := make([]benchproc.Point, len(c.Points))
			for i, p := range c.Points {
				pts[i] = benchproc.Point{X: p.X, Y: p.Y * scale}
			}
			ss = append(ss, &Series{Label: label(c.Key), Points: pts})
		}
		return ss
	}

	var specs []*ChartSpec
	var top, bottom []*Panel
	for _, g := range byAlgorithm(omp) {
		algo := g.Key.Get(0)
		sp := &Panel{
			Title:  algo + " - Speedup vs Threads (" + openMP + ")",
			XLabel: "Number of Threads",
			YLabel: "Speedup",
			Kind:   Line,
			Series: append(
				scaling(benchproc.OrderedSeries(g.Records, fixed, benchproc.NumThreads, benchproc.Speedup), 1),
				&Series{Label: "Ideal", Ideal: true, Points: []benchproc.Point{{X: lo, Y: lo}, {X: hi, Y: hi}}},
			),
		}
		ef := &Panel{
			Title:  algo + " - Parallel Efficiency (" + openMP + ")",
			XLabel: "Number of Threads",
			YLabel: "Efficiency [%]",
			Kind:   Line,
			YRange: &Range{0, 120},
			Series: append(
				scaling(benchproc.OrderedSeries(g.Records, fixed, benchproc.NumThreads, benchproc.Efficiency), 100),
				&Series{Label: "Ideal (100%)", Ideal: true, Points: []benchproc.Point{{X: lo, Y: 100}, {X: hi, Y: 100}}},
			),
		}
		safe := SafeName(algo)
		specs = append(specs, single("speedup_"+safe, sp), single("efficiency_"+safe, ef))
		top = append(top, sp)
		bottom = append(bottom, ef)
	}
	specs = append(specs, &ChartSpec{
		Name:   "speedup_efficiency",
		Rows:   2,
		Cols:   len(top),
		Panels: append(top, bottom...),
	})
	return specs, nil
}

func blockSizeImpact(tab *benchfmt.Table) ([]*ChartSpec, error) {
	recs := tab.Filter(func(r *benchfmt.Record) bool { return r.HasBlockSize })
	if len(recs) == 0 {
		return nil, skipf("table is not in block size layout")
	}
	var ticks []Tick
	for _, kb := range benchproc.DistinctFloat(recs, benchproc.BlockSize) {
		ticks = append(ticks, Tick{kb, benchunit.FormatKB(kb)})
	}
	specs := perAlgorithm(recs, "block_size_impact", "", func(algo string, recs []*benchfmt.Record) *Panel {
		curves := benchproc.BestPerKeyCurve(recs, platformEngine, benchproc.BlockSize, benchproc.Throughput, benchmath.Mean)
		series := curveSeries(curves)
		if len(series) == 0 {
			return nil
		}
		return &Panel{
			Title:       algo + " Throughput vs Block Size",
			XLabel:      "Block Size",
			YLabel:      "Throughput (MB/s)",
			Kind:        Line,
			XScale:      Log,
			XTicks:      ticks,
			LegendTitle: "Platform - Engine",
			Series:      series,
		}
	})
	if len(specs) == 0 {
		return nil, skipf("no records with a block size")
	}
	return specs, nil
}
