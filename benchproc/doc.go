// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package benchproc provides tools for grouping and reducing
// benchmark records.
//
// The typical steps for processing a table of records are:
//
// 1. Read and normalize a benchfmt.Table.
//
// 2. Choose the Fields that identify a group, such as Platform and
// Engine, and the Value to summarize, such as Throughput.
//
// 3. Reduce each group with GroupReduce, or build per-group curves
// over a numeric Field with BestPerKeyCurve or OrderedSeries.
//
// Groups are always presented in the order their first record
// appeared in the input, and a group with no contributing records is
// absent rather than zero. Consumers that need a dense matrix decide
// themselves how to fill the gaps.
package benchproc
