// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchchart

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/hpcbench/cipherplot/benchfmt"
	"github.com/hpcbench/cipherplot/benchmath"
	"github.com/hpcbench/cipherplot/benchnorm"
	"github.com/hpcbench/cipherplot/benchproc"
)

// recorder is a Renderer that keeps the specs it is given.
type recorder struct {
	mu    sync.Mutex
	specs map[string]*ChartSpec
}

func (r *recorder) Render(ctx context.Context, spec *ChartSpec) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.specs == nil {
		r.specs = make(map[string]*ChartSpec)
	}
	if _, dup := r.specs[spec.Name]; dup {
		return "", fmt.Errorf("duplicate artifact %s", spec.Name)
	}
	r.specs[spec.Name] = spec
	return spec.Name + ".png", nil
}

func (r *recorder) names() []string {
	var names []string
	for n := range r.specs {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func load(t *testing.T, name, csv string) *benchfmt.Table {
	t.Helper()
	tab, err := benchfmt.ReadTable(strings.NewReader(csv), name)
	if err != nil {
		t.Fatal(err)
	}
	benchnorm.Normalize(tab, nil)
	return tab
}

func run(t *testing.T, tab *benchfmt.Table) (*recorder, map[string]Outcome) {
	t.Helper()
	rec := new(recorder)
	runner := &Runner{Renderer: rec}
	outcomes := make(map[string]Outcome)
	for _, o := range runner.Run(context.Background(), tab) {
		if o.Err != nil {
			t.Errorf("report %s failed: %v", o.Report, o.Err)
		}
		outcomes[o.Report] = o
	}
	return rec, outcomes
}

const header = "Platform,Algorithm,Engine,FileSize_MB,NumThreads,Time_Sec,Throughput_MBs,Speedup,Efficiency,Verified,Energy_Joules,Power_Watts,Energy_Source\n"

const full = header + `RTX,XOR,Sequential,1,1,0.002,500,1,1,PASS,0.1,20,Intel RAPL
RTX,XOR,OpenMP,1,1,0.002,500,1,1,PASS,0.1,20,Intel RAPL
RTX,XOR,OpenMP,1,2,0.001,950,1.9,0.95,PASS,0.1,20,Intel RAPL
RTX,XOR,OpenMP,1,4,0.0005,1800,3.6,0.9,PASS,0.1,20,Intel RAPL
RTX,XOR,OpenMP,10,4,0.005,2000,3.8,0.95,PASS,0.9,20,Intel RAPL
RTX,XOR,CUDA,10,1,0.001,9000,,,PASS,0.36,30,NVIDIA SMI
macOS,XOR,Metal,10,1,0.002,5000,,,PASS,0.72,10,powermetrics
RTX,AES-256-CTR,OpenMP,1,1,0.01,100,1,1,FAIL,0.2,20,Intel RAPL
RTX,AES-256-CTR,OpenMP,1,4,0.003,330,3.3,0.825,PASS,0.2,20,Intel RAPL
macOS,AES-256-CTR,Metal,10,1,0.005,2000,,,PASS,1.8,10,powermetrics
`

func TestCatalogArtifacts(t *testing.T) {
	rec, outcomes := run(t, load(t, "combined_results.csv", full))
	want := []string{
		"efficiency_aes_256_ctr", "efficiency_xor",
		"energy_consumption", "energy_consumption_aes_256_ctr", "energy_consumption_xor",
		"execution_time_aes_256_ctr", "execution_time_comparison", "execution_time_xor",
		"max_throughput_aes_256_ctr", "max_throughput_per_method", "max_throughput_xor",
		"speedup_aes_256_ctr", "speedup_efficiency", "speedup_xor",
		"throughput_vs_filesize", "throughput_vs_filesize_aes_256_ctr", "throughput_vs_filesize_xor",
		"xor_vs_aes_comparison",
	}
	if diff := cmp.Diff(want, rec.names()); diff != "" {
		t.Errorf("artifacts differ (-want +got):\n%s", diff)
	}
	if o := outcomes["blocksize"]; o.Skip == "" {
		t.Errorf("blocksize report ran on a file size table")
	}
	if got := rec.specs["speedup_efficiency"]; got.Rows != 2 || got.Cols != 2 || len(got.Panels) != 4 {
		t.Errorf("speedup_efficiency is %d×%d with %d panels, want 2×2 with 4", got.Rows, got.Cols, len(got.Panels))
	}
	if got := rec.specs["throughput_vs_filesize"]; got.Cols != 2 {
		t.Errorf("throughput_vs_filesize has %d panels, want 2", got.Cols)
	}
}

func TestEndToEnd(t *testing.T) {
	tab := load(t, "e2e.csv", `Platform,Algorithm,Engine,FileSize_MB,NumThreads,Throughput_MBs
RTX,XOR,OpenMP,1,1,1000
RTX,XOR,OpenMP,1,4,3600
WSL,XOR,Sequential,1,1,500
`)
	for _, r := range tab.Records {
		if r.Platform != "RTX 3070" {
			t.Errorf("platform %q was not canonicalized", r.Platform)
		}
	}

	agg := benchproc.GroupReduce(tab.Records, platformEngine, benchproc.Throughput, benchmath.Max)
	if v, ok := agg.Get("RTX 3070", "OpenMP"); !ok || v != 3600 {
		t.Errorf("max throughput of (RTX 3070, OpenMP) = %v, %v; want 3600", v, ok)
	}
	if _, ok := agg.Get("RTX 3070", "CUDA"); ok {
		t.Errorf("absent group (RTX 3070, CUDA) is present")
	}

	m := maxThroughputMatrix(tab.Records)
	for _, test := range []struct {
		engine string
		want   float64
	}{
		{"OpenMP", 3600},
		{"Sequential", 500},
		{"", 0},
		{"CUDA", 0},
	} {
		if got := m.At("RTX 3070", test.engine); got != test.want {
			t.Errorf("matrix at (RTX 3070, %q) = %v, want %v", test.engine, got, test.want)
		}
	}
}

func TestMaxThroughputBars(t *testing.T) {
	rec, _ := run(t, load(t, "combined_results.csv", full))
	p := rec.specs["max_throughput_xor"].Panels[0]
	if diff := cmp.Diff([]string{"RTX 3070", "M4 Pro"}, p.Categories); diff != "" {
		t.Errorf("categories (-want +got):\n%s", diff)
	}
	got := make(map[string][]float64)
	for _, s := range p.Series {
		for _, pt := range s.Points {
			got[s.Label] = append(got[s.Label], pt.Y)
		}
	}
	want := map[string][]float64{
		"Sequential": {500, 0},
		"OpenMP":     {2000, 0},
		"CUDA":       {9000, 0},
		"Metal":      {0, 5000},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("bars (-want +got):\n%s", diff)
	}
	if !p.BarLabels {
		t.Errorf("max throughput bars are not labeled")
	}
}

func TestExecutionTime(t *testing.T) {
	rec, _ := run(t, load(t, "combined_results.csv", full))
	p := rec.specs["execution_time_aes_256_ctr"].Panels[0]
	if diff := cmp.Diff([]string{"Sequential", "OpenMP", "CUDA", "Metal"}, p.Categories); diff != "" {
		t.Errorf("engines (-want +got):\n%s", diff)
	}
	var rtx *Series
	for _, s := range p.Series {
		if s.Label == "RTX 3070" {
			rtx = s
		}
	}
	if rtx == nil {
		t.Fatalf("no RTX 3070 series")
	}
	// Minimum AES OpenMP time is 3 ms; the other engines have no
	// AES runs on this platform.
	want := []float64{0, 3, 0, 0}
	for i, pt := range rtx.Points {
		if diff := pt.Y - want[i]; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("bar %d = %v ms, want %v", i, pt.Y, want[i])
		}
	}
}

func TestEnergy(t *testing.T) {
	rec, _ := run(t, load(t, "combined_results.csv", full))
	p := rec.specs["energy_consumption_xor"].Panels[0]
	for _, s := range p.Series {
		if s.Label != "CUDA" {
			continue
		}
		// 0.36 J over 10 MB is 0.036 J/MB, or 0.01 mWh/MB.
		if y := s.Points[0].Y; y < 0.00999 || y > 0.01001 {
			t.Errorf("CUDA energy = %v mWh/MB, want 0.01", y)
		}
		return
	}
	t.Errorf("no CUDA series")
}

func TestEnergyAbsent(t *testing.T) {
	for name, csv := range map[string]string{
		"no monitor":     header + "RTX,XOR,OpenMP,1,1,0.002,500,1,1,PASS,0.0,0.0,N/A\n",
		"no column":      "Platform,Algorithm,Engine,FileSize_MB,Throughput_MBs\nRTX,XOR,OpenMP,1,500\n",
		"zero file size": header + "RTX,XOR,OpenMP,0,1,0.002,500,1,1,PASS,1.0,1.0,Intel RAPL\n",
	} {
		t.Run(name, func(t *testing.T) {
			rec, outcomes := run(t, load(t, "results.csv", csv))
			o := outcomes["energy"]
			if o.Skip == "" || len(o.Artifacts) != 0 {
				t.Errorf("energy report was not skipped: %+v", o)
			}
			for _, n := range rec.names() {
				if strings.HasPrefix(n, "energy") {
					t.Errorf("energy artifact %s written", n)
				}
			}
		})
	}
}

func TestSpeedupSingleThreadCount(t *testing.T) {
	tab := load(t, "results.csv", header+
		"RTX,XOR,OpenMP,1,8,0.002,500,1,1,PASS,,,\n"+
		"RTX,XOR,OpenMP,10,8,0.02,500,1,1,PASS,,,\n")
	rec, outcomes := run(t, tab)
	if o := outcomes["speedup"]; o.Skip == "" {
		t.Errorf("speedup report was not skipped: %+v", o)
	}
	for _, n := range rec.names() {
		if strings.HasPrefix(n, "speedup") || strings.HasPrefix(n, "efficiency") {
			t.Errorf("speedup artifact %s written", n)
		}
	}
}

func TestSpeedupNoOpenMP(t *testing.T) {
	tab := load(t, "results.csv", header+
		"RTX,XOR,CUDA,1,1,0.002,500,,,PASS,,,\n"+
		"RTX,XOR,Sequential,1,2,0.002,500,,,PASS,,,\n")
	if _, outcomes := run(t, tab); outcomes["speedup"].Skip == "" {
		t.Errorf("speedup report was not skipped without OpenMP records")
	}
}

func TestSpeedupSeries(t *testing.T) {
	rec, _ := run(t, load(t, "combined_results.csv", full))
	sp := rec.specs["speedup_xor"].Panels[0]
	// The 10 MB sequence has a single point and is not drawn.
	if len(sp.Series) != 2 {
		t.Fatalf("got %d speedup series, want 2", len(sp.Series))
	}
	data, ideal := sp.Series[0], sp.Series[1]
	if data.Label != "RTX 3070 1MB" {
		t.Errorf("series label = %q", data.Label)
	}
	wantPts := []benchproc.Point{{X: 1, Y: 1}, {X: 2, Y: 1.9}, {X: 4, Y: 3.6}}
	if diff := cmp.Diff(wantPts, data.Points); diff != "" {
		t.Errorf("speedup points (-want +got):\n%s", diff)
	}
	if !ideal.Ideal || !cmp.Equal(ideal.Points, []benchproc.Point{{X: 1, Y: 1}, {X: 4, Y: 4}}) {
		t.Errorf("bad ideal speedup line: %+v", ideal)
	}

	ef := rec.specs["efficiency_xor"].Panels[0]
	if ef.YRange == nil || *ef.YRange != (Range{0, 120}) {
		t.Errorf("efficiency range = %v, want [0, 120]", ef.YRange)
	}
	if y := ef.Series[0].Points[2].Y; y != 90 {
		t.Errorf("efficiency at 4 threads = %v%%, want 90%%", y)
	}
	if last := ef.Series[len(ef.Series)-1]; last.Points[0].Y != 100 || last.Points[1].Y != 100 {
		t.Errorf("ideal efficiency is not 100%%: %+v", last.Points)
	}
}

func TestHeadToHead(t *testing.T) {
	rec, _ := run(t, load(t, "combined_results.csv", full))
	p := rec.specs["xor_vs_aes_comparison"].Panels[0]
	if p.Title != "XOR vs AES-256-CTR - Best Performance by Platform" {
		t.Errorf("title = %q", p.Title)
	}
	got := make(map[string][]float64)
	for _, s := range p.Series {
		for _, pt := range s.Points {
			got[s.Label] = append(got[s.Label], pt.Y)
		}
	}
	want := map[string][]float64{
		"XOR":         {9000, 5000},
		"AES-256-CTR": {330, 2000},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("bars (-want +got):\n%s", diff)
	}
}

func TestThroughputCurves(t *testing.T) {
	rec, _ := run(t, load(t, "combined_results.csv", full))
	p := rec.specs["throughput_vs_filesize_xor"].Panels[0]
	if p.XScale != Log {
		t.Errorf("x axis is not log scaled")
	}
	for _, s := range p.Series {
		for i := 1; i < len(s.Points); i++ {
			if s.Points[i-1].X >= s.Points[i].X {
				t.Errorf("series %s is not strictly ascending: %v", s.Label, s.Points)
			}
		}
		if s.Label == "RTX 3070 - OpenMP" {
			want := []benchproc.Point{{X: 1, Y: 1800}, {X: 10, Y: 2000}}
			if diff := cmp.Diff(want, s.Points); diff != "" {
				t.Errorf("OpenMP curve (-want +got):\n%s", diff)
			}
		}
	}
}

func TestThroughputCurvesUnsortedInput(t *testing.T) {
	tab := load(t, "combined_results.csv", `Platform,Algorithm,Engine,FileSize_MB,NumThreads,Throughput_MBs
RTX,XOR,CUDA,100,1,30
RTX,XOR,CUDA,10,1,20
RTX,XOR,CUDA,1,1,10
RTX,XOR,CUDA,10,1,25
`)
	rec, _ := run(t, tab)
	p := rec.specs["throughput_vs_filesize_xor"].Panels[0]
	if len(p.Series) != 1 {
		t.Fatalf("got %d series, want 1", len(p.Series))
	}
	want := []benchproc.Point{{X: 1, Y: 10}, {X: 10, Y: 25}, {X: 100, Y: 30}}
	if diff := cmp.Diff(want, p.Series[0].Points); diff != "" {
		t.Errorf("curve not in ascending file size order (-want +got):\n%s", diff)
	}
}

func TestBlockSize(t *testing.T) {
	tab := load(t, "block_size_results.csv", `Platform,Algorithm,Engine,FileSize_MB,NumThreads,Time_Sec,Throughput_MBs
RTX,XOR,OpenMP,0.0625,8,0.1,100
RTX,XOR,OpenMP,0.0625,8,0.1,300
RTX,XOR,OpenMP,1,8,0.1,400
macOS,XOR,Metal,16,1,0.1,900
`)
	rec, outcomes := run(t, tab)
	if diff := cmp.Diff([]string{"block_size_impact_xor", "execution_time_comparison", "execution_time_xor", "max_throughput_per_method", "max_throughput_xor", "xor_vs_aes_comparison"}, rec.names()); diff != "" {
		t.Errorf("artifacts (-want +got):\n%s", diff)
	}
	if outcomes["throughput"].Skip == "" {
		t.Errorf("throughput report ran without file sizes")
	}
	p := rec.specs["block_size_impact_xor"].Panels[0]
	wantTicks := []Tick{{64, "64KB"}, {1024, "1MB"}, {16384, "16MB"}}
	if diff := cmp.Diff(wantTicks, p.XTicks); diff != "" {
		t.Errorf("ticks (-want +got):\n%s", diff)
	}
	want := []benchproc.Point{{X: 64, Y: 200}, {X: 1024, Y: 400}}
	if diff := cmp.Diff(want, p.Series[0].Points); diff != "" {
		t.Errorf("mean throughput (-want +got):\n%s", diff)
	}
}

func TestRunnerIsolation(t *testing.T) {
	tab := load(t, "results.csv", full)
	cat := Catalog{
		{Name: "panics", Build: func(*benchfmt.Table) ([]*ChartSpec, error) { panic("boom") }},
		{Name: "fails", Build: func(*benchfmt.Table) ([]*ChartSpec, error) { return nil, fmt.Errorf("broken") }},
		{Name: "needs", Requires: []string{"Nope"}, Build: func(*benchfmt.Table) ([]*ChartSpec, error) { panic("unreachable") }},
		{Name: "works", Build: func(*benchfmt.Table) ([]*ChartSpec, error) {
			return []*ChartSpec{single("ok", &Panel{})}, nil
		}},
	}
	var mu sync.Mutex
	var notices []string
	runner := &Runner{
		Renderer: new(recorder),
		Catalog:  cat,
		Parallel: 3,
		Warn: func(format string, args ...interface{}) {
			mu.Lock()
			notices = append(notices, fmt.Sprintf(format, args...))
			mu.Unlock()
		},
	}
	out := runner.Run(context.Background(), tab)
	if len(out) != 4 {
		t.Fatalf("got %d outcomes, want 4", len(out))
	}
	for i, name := range cat.Names() {
		if out[i].Report != name {
			t.Errorf("outcome %d is %s, want %s", i, out[i].Report, name)
		}
	}
	if out[0].Err == nil || !strings.Contains(out[0].Err.Error(), "boom") {
		t.Errorf("panic not recovered into outcome: %+v", out[0])
	}
	if out[1].Err == nil {
		t.Errorf("error not recorded: %+v", out[1])
	}
	if out[2].Skip != "missing required column Nope" {
		t.Errorf("skip = %q", out[2].Skip)
	}
	if out[3].Err != nil || len(out[3].Artifacts) != 1 {
		t.Errorf("working report affected by the others: %+v", out[3])
	}
	sort.Strings(notices)
	want := []string{"fails: broken", "panics: panic: boom", "skipping needs: missing required column Nope"}
	if diff := cmp.Diff(want, notices); diff != "" {
		t.Errorf("notices (-want +got):\n%s", diff)
	}
}

func TestRunnerCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	runner := &Runner{Renderer: new(recorder)}
	for _, o := range runner.Run(ctx, load(t, "results.csv", full)) {
		if o.Err != context.Canceled {
			t.Errorf("%s: got %v, want context.Canceled", o.Report, o.Err)
		}
	}
}

func TestSelect(t *testing.T) {
	cat, err := DefaultCatalog().Select([]string{"speedup", "time"})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"time", "speedup"}, cat.Names()); diff != "" {
		t.Errorf("selected (-want +got):\n%s", diff)
	}
	if _, err := DefaultCatalog().Select([]string{"time", "pie"}); err == nil || !strings.Contains(err.Error(), "pie") {
		t.Errorf("selecting an unknown report: got %v", err)
	}
}

func TestSafeName(t *testing.T) {
	for in, want := range map[string]string{
		"XOR":            "xor",
		"AES-256-CTR":    "aes_256_ctr",
		"Chacha 20-IETF": "chacha_20_ietf",
	} {
		if got := SafeName(in); got != want {
			t.Errorf("SafeName(%q) = %q, want %q", in, got, want)
		}
	}
}
