// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchfmt

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const harnessOutput = `Platform,Algorithm,Engine,FileSize_MB,NumThreads,Time_Sec,Throughput_MBs,Speedup,Efficiency,Verified,Energy_Joules,Power_Watts,Energy_Source
RTX, XOR, OpenMP, 1, 4, 0.000278, 3600.00, 3.6000, 0.9000, PASS, 0.0120, 43.10, Intel RAPL
macOS, AES-256-CTR, Metal, 10, 1, 0.010000, 1000.00, , , FAIL, 0.0000, 0.00, N/A

WSL,XOR,Sequential,1,1,0.002,500,1,1,pass,0.5,2,none
`

func TestReadTable(t *testing.T) {
	tab, err := ReadTable(strings.NewReader(harnessOutput), "results.csv")
	if err != nil {
		t.Fatal(err)
	}
	want := []*Record{
		{
			Platform: "RTX", Algorithm: "XOR", Engine: "OpenMP",
			FileSizeMB: 1, NumThreads: 4, TimeSec: 0.000278, HasTime: true, ThroughputMBs: 3600, HasThroughput: true,
			Speedup: 3.6, HasSpeedup: true, Efficiency: 0.9, HasEfficiency: true,
			Verified:     Pass,
			EnergyJoules: 0.012, HasEnergy: true,
			PowerWatts: 43.1, HasPower: true,
			EnergySource: "Intel RAPL",
			Index:        0, Line: 2,
		},
		{
			Platform: "macOS", Algorithm: "AES-256-CTR", Engine: "Metal",
			FileSizeMB: 10, NumThreads: 1, TimeSec: 0.01, HasTime: true, ThroughputMBs: 1000, HasThroughput: true,
			Verified:     Fail,
			EnergySource: "N/A",
			Index:        1, Line: 3,
		},
		{
			Platform: "WSL", Algorithm: "XOR", Engine: "Sequential",
			FileSizeMB: 1, NumThreads: 1, TimeSec: 0.002, HasTime: true, ThroughputMBs: 500, HasThroughput: true,
			Speedup: 1, HasSpeedup: true, Efficiency: 1, HasEfficiency: true,
			Verified:     Pass,
			EnergySource: "none",
			Index:        2, Line: 5,
		},
	}
	if diff := cmp.Diff(want, tab.Records); diff != "" {
		t.Errorf("records differ (-want +got):\n%s", diff)
	}
	if !tab.Has(ColEnergy, ColSpeedup, ColEfficiency, ColVerified) {
		t.Errorf("table is missing optional columns that were present")
	}
	if tab.Has(ColBlockSize) {
		t.Errorf("table has %s, but the header did not", ColBlockSize)
	}
}

func TestReadTableOptionalColumns(t *testing.T) {
	in := "Engine,Platform,Algorithm,Throughput_MBs\nOpenCL,RTX,XOR,12\n"
	tab, err := ReadTable(strings.NewReader(in), "small.csv")
	if err != nil {
		t.Fatal(err)
	}
	if len(tab.Records) != 1 {
		t.Fatalf("got %d records, want 1", len(tab.Records))
	}
	r := tab.Records[0]
	if r.Engine != "OpenCL" || r.Platform != "RTX" || r.ThroughputMBs != 12 {
		t.Errorf("columns out of header order were misread: %+v", r)
	}
	if r.HasEnergy || r.HasSpeedup || r.HasEfficiency {
		t.Errorf("absent columns produced values: %+v", r)
	}
	want := []string{ColEnergy, ColTime}
	if got := tab.Missing(ColEnergy, ColThroughput, ColTime); !cmp.Equal(got, want) {
		t.Errorf("Missing = %v, want %v", got, want)
	}
}

func TestReadTableErrors(t *testing.T) {
	for _, test := range []struct {
		name, in string
		line     int
	}{
		{"bad number", "Platform,Algorithm,Engine,Throughput_MBs\nRTX,XOR,CUDA,fast\n", 2},
		{"bad verified", "Platform,Algorithm,Engine,Verified\nRTX,XOR,CUDA,MAYBE\n", 2},
		{"bad threads", "Platform,Algorithm,Engine,NumThreads\nRTX,XOR,CUDA,1.5\n", 2},
		{"zero threads", "Platform,Algorithm,Engine,NumThreads\nRTX,XOR,CUDA,1\nRTX,XOR,CUDA,0\n", 3},
		{"empty", "", 0},
	} {
		t.Run(test.name, func(t *testing.T) {
			_, err := ReadTable(strings.NewReader(test.in), "bad.csv")
			var serr *SyntaxError
			if !errors.As(err, &serr) {
				t.Fatalf("got error %v, want *SyntaxError", err)
			}
			if _, line := serr.Pos(); line != test.line {
				t.Errorf("error %q at line %d, want line %d", err, line, test.line)
			}
		})
	}
}

func TestReadTableMissingIdentity(t *testing.T) {
	_, err := ReadTable(strings.NewReader("Platform,Throughput_MBs\nRTX,1\n"), "noid.csv")
	if !errors.Is(err, ErrMissingColumn) {
		t.Fatalf("got error %v, want ErrMissingColumn", err)
	}
	want := "noid.csv: missing required column Algorithm, Engine"
	if err.Error() != want {
		t.Errorf("got %q, want %q", err, want)
	}
}

func TestParseVerified(t *testing.T) {
	for in, want := range map[string]Verified{"PASS": Pass, "pass": Pass, " FAIL ": Fail, "Fail": Fail} {
		got, err := ParseVerified(in)
		if err != nil || got != want {
			t.Errorf("ParseVerified(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseVerified("skipped"); err == nil {
		t.Errorf("ParseVerified(skipped) succeeded")
	}
}

func TestReadTableMissingMeasurements(t *testing.T) {
	in := `Platform,Algorithm,Engine,FileSize_MB,NumThreads,Time_Sec,Throughput_MBs
RTX,XOR,OpenMP,1,4,0.001,1000
RTX,XOR,OpenMP,1,4,,
RTX,XOR,OpenMP,1,4,N/A,NA
RTX,XOR,OpenMP,1,4
`
	tab, err := ReadTable(strings.NewReader(in), "gaps.csv")
	if err != nil {
		t.Fatal(err)
	}
	if r := tab.Records[0]; !r.HasTime || !r.HasThroughput {
		t.Errorf("measured row lacks time or throughput: %+v", r)
	}
	for _, r := range tab.Records[1:] {
		if r.HasTime || r.HasThroughput {
			t.Errorf("line %d: missing cells were read as measurements: %+v", r.Line, r)
		}
	}
}
