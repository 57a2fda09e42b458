// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchplot

import (
	"image/color"

	"gonum.org/v1/plot/plotutil"
)

func rgb(c uint32) color.Color {
	return color.NRGBA{uint8(c >> 16), uint8(c >> 8), uint8(c), 0xFF}
}

// Palette assigns fixed colors to well-known platforms, algorithms,
// and engines so that an entity looks the same in every chart.
var Palette = map[string]color.Color{
	"M4 Pro":      rgb(0xFF6B6B),
	"RTX 3070":    rgb(0x4ECDC4),
	"Linux":       rgb(0x45B7D1),
	"XOR":         rgb(0xFF6B6B),
	"AES-256-CTR": rgb(0x4ECDC4),
	"Sequential":  rgb(0x636EFA),
	"OpenMP":      rgb(0xEF553B),
	"OpenCL":      rgb(0x00CC96),
	"Metal":       rgb(0xAB63FA),
	"CUDA":        rgb(0xFFA15A),
}

// seriesColor returns the color of the i'th series of a panel whose
// style key is style.
func seriesColor(style string, i int) color.Color {
	if c, ok := Palette[style]; ok {
		return c
	}
	return plotutil.Color(i)
}
