// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchstat

import (
	"fmt"

	"github.com/google/safehtml"
	"github.com/google/safehtml/template"
)

var htmlTemplate = template.Must(template.New("").Funcs(htmlFuncs).Parse(`
<table class='benchstat summary'>
<tr><th>Records<td>{{.Records}}
<tr><th>Platforms<td>{{join .Platforms}}
<tr><th>Algorithms<td>{{join .Algorithms}}
<tr><th>Engines<td>{{join .Engines}}
<tr><th>{{if .BlockSizes}}Block sizes (KB){{else}}File sizes (MB){{end}}<td>{{range $i, $x := .Sizes}}{{if $i}}, {{end}}{{$x}}{{end}}
<tr><th>Verified<td>{{.Passed}} of {{.Total}} ({{.FormatPassRate}})
</table>
{{- if .Best}}
<table class='benchstat best'>
<tr><th>Algorithm<th>Platform<th>Engine<th>Throughput (MB/s)<th>Time (ms)
{{- range .Best}}
<tr><td>{{.Algorithm}}<td>{{.Platform}}<td>{{.Engine}}<td>{{fixed .ThroughputMBs}}<td>{{.FormatTime}}
{{- end}}
</table>
{{- end}}
`))

var htmlFuncs = template.FuncMap{
	"join": list,
	"fixed": func(x float64) string {
		return fmt.Sprintf("%.2f", x)
	},
}

// HTML returns an HTML formatting of s.
func (s *Summary) HTML() safehtml.HTML {
	h, err := htmlTemplate.ExecuteToHTML(s)
	if err != nil {
		// Only possible errors here are template not matching data structure.
		// Don't make caller check - it's our fault.
		panic(err)
	}
	return h
}
