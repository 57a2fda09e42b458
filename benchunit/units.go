// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package benchunit converts benchmark measurements between units and
// formats them for labels.
package benchunit

import (
	"strconv"
)

// KBPerMB is the binary size ratio the harness uses for block sizes.
const KBPerMB = 1024

// JoulesPerMilliwattHour is the energy of one mWh in joules.
const JoulesPerMilliwattHour = 3.6

// MBToKB converts a size in MB to KB.
func MBToKB(mb float64) float64 {
	return mb * KBPerMB
}

// SecToMs converts a duration in seconds to milliseconds.
func SecToMs(sec float64) float64 {
	return sec * 1000
}

// JoulesToMilliwattHours converts an energy in joules to mWh.
func JoulesToMilliwattHours(j float64) float64 {
	return j / JoulesPerMilliwattHour
}

// FormatNumber formats x with the fewest digits that represent it
// exactly, as "%g" would but without an exponent for typical sizes.
func FormatNumber(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}

// FormatKB formats a size in KB as a short label, using MB for sizes
// that are a whole number of MB. For example, 64 formats as "64KB"
// and 2048 formats as "2MB".
func FormatKB(kb float64) string {
	if kb >= KBPerMB {
		mb := kb / KBPerMB
		return FormatNumber(mb) + "MB"
	}
	return FormatNumber(kb) + "KB"
}
