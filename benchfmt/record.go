// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package benchfmt reads the tabular result format written by the
// cipher benchmark harness.
//
// The harness writes one comma-separated row per run with a header
// naming the columns:
//
//	Platform,Algorithm,Engine,FileSize_MB,NumThreads,Time_Sec,Throughput_MBs,Speedup,Efficiency,Verified,Energy_Joules,Power_Watts,Energy_Source
//
// Column order is not significant and unknown columns are ignored.
// The Platform, Algorithm, and Engine columns identify a run and must
// be present. Every other column is optional at the table level: a
// Table records which columns were present so that consumers can
// decide whether they have the data they need.
//
// This package is designed to be used with the higher-level packages
// benchnorm, benchproc, and benchchart.
package benchfmt

import (
	"fmt"
	"strings"
)

// A Record is a single benchmark run.
//
// Records are created by a Reader and normalized once by package
// benchnorm. After normalization they are treated as read-only.
type Record struct {
	Platform  string
	Algorithm string
	Engine    string

	// FileSizeMB is the size of the processed input in MB. It is
	// zero when the size is unknown, for example in block size
	// tables after normalization.
	FileSizeMB float64

	NumThreads int

	// ThroughputMBs and TimeSec are the measured throughput and
	// wall time of the run. A run whose cell was empty or N/A has
	// no measurement, which is distinct from a measured zero.
	ThroughputMBs float64
	HasThroughput bool
	TimeSec       float64
	HasTime       bool

	// EnergyJoules is the measured energy of the run. It is only
	// meaningful if HasEnergy is set.
	EnergyJoules float64
	HasEnergy    bool

	// PowerWatts is the average power draw reported by the
	// harness's power monitor, if any.
	PowerWatts float64
	HasPower   bool

	// EnergySource names the power monitor that produced
	// EnergyJoules ("Intel RAPL", "NVIDIA SMI", ...).
	EnergySource string

	// Speedup and Efficiency are relative to the single-threaded
	// run of the same configuration. The harness only produces
	// them for OpenMP runs.
	Speedup       float64
	HasSpeedup    bool
	Efficiency    float64
	HasEfficiency bool

	Verified Verified

	// BlockSizeKB is the processing block size. It is derived by
	// benchnorm from block size tables.
	BlockSizeKB  float64
	HasBlockSize bool

	// EnergyPerMB is EnergyJoules / FileSizeMB, in J/MB. It is
	// derived by benchnorm and is absent if either input is.
	EnergyPerMB    float64
	HasEnergyPerMB bool

	// Index is the position of this record in its table. It
	// defines input order.
	Index int

	// Line is the line of the source file this record was read
	// from, starting at 1 for the header.
	Line int
}

// Verified is the harness's own output check for a run.
type Verified int

const (
	// Unverified runs come from tables without a verification
	// status.
	Unverified Verified = iota
	Fail
	Pass
)

func (v Verified) String() string {
	switch v {
	case Pass:
		return "PASS"
	case Fail:
		return "FAIL"
	}
	return ""
}

// ParseVerified parses a verification status. It accepts "PASS" and
// "FAIL" in any case.
func ParseVerified(s string) (Verified, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "PASS":
		return Pass, nil
	case "FAIL":
		return Fail, nil
	}
	return Unverified, fmt.Errorf("bad verification status %q", s)
}

// Clone returns a copy of r.
func (r *Record) Clone() *Record {
	r2 := *r
	return &r2
}
