// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"io"
	"path"

	"github.com/google/safehtml"
	"github.com/google/safehtml/template"
	"github.com/hpcbench/cipherplot/benchchart"
	"github.com/hpcbench/cipherplot/benchstat"
	"github.com/hpcbench/cipherplot/storage/fs"
)

var indexTemplate = template.Must(template.New("index").Parse(`<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>Cipher Benchmark Results</title>
<style>
.benchstat { border-collapse: collapse; margin-bottom: 1em; }
.benchstat th { text-align: left; padding-right: 1em; }
.benchstat td { padding: 0em 1em; }
.skip { color: #666; font-style: italic; }
.error { color: #c00; }
img { max-width: 100%; }
</style>
</head>
<body>
<h1>{{.Source}}</h1>
{{.Summary}}
{{- range .Reports}}
<h2>{{.Name}}</h2>
{{- if .Err}}
<p class='error'>{{.Err}}</p>
{{- else if .Skip}}
<p class='skip'>skipped: {{.Skip}}</p>
{{- end}}
{{- range .Images}}
<p><img src="{{.}}" alt="{{.}}"></p>
{{- end}}
{{- end}}
</body>
</html>
`))

type indexReport struct {
	Name   string
	Skip   string
	Err    string
	Images []string
}

type indexPage struct {
	Source  string
	Summary safehtml.HTML
	Reports []indexReport
}

// writeIndex writes index.html to out, linking the artifacts of each
// outcome by their base name, and returns the location of the index.
func writeIndex(ctx context.Context, out fs.FS, source string, sum *benchstat.Summary, outcomes []benchchart.Outcome) (string, error) {
	page := indexPage{Source: source, Summary: sum.HTML()}
	for _, o := range outcomes {
		r := indexReport{Name: o.Report, Skip: o.Skip}
		if o.Err != nil {
			r.Err = o.Err.Error()
		}
		for _, a := range o.Artifacts {
			r.Images = append(r.Images, path.Base(a))
		}
		page.Reports = append(page.Reports, r)
	}
	h, err := indexTemplate.ExecuteToHTML(page)
	if err != nil {
		return "", err
	}

	w, err := out.NewWriter(ctx, "index.html", map[string]string{"Content-Type": "text/html; charset=utf-8"})
	if err != nil {
		return "", err
	}
	if _, err := io.WriteString(w, h.String()); err != nil {
		w.CloseWithError(err)
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}
	return out.Path("index.html"), nil
}
