// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Cipherplot turns the result tables written by the cipher benchmark
// harness into a set of charts and a console summary.
//
// Usage:
//
//	cipherplot [flags] [results.csv ...]
//
// With no input files, cipherplot reads results/combined_results.csv.
// Multiple inputs are merged into one table. The input "-" reads
// standard input.
//
// Each report of the catalog writes one or more PNG images to the
// output directory:
//
//	throughput     throughput_vs_filesize_<alg>.png, throughput_vs_filesize.png
//	time           execution_time_<alg>.png, execution_time_comparison.png
//	maxthroughput  max_throughput_<alg>.png, max_throughput_per_method.png
//	energy         energy_consumption_<alg>.png, energy_consumption.png
//	headtohead     xor_vs_aes_comparison.png
//	speedup        speedup_<alg>.png, efficiency_<alg>.png, speedup_efficiency.png
//	blocksize      block_size_impact_<alg>.png
//
// where <alg> is the algorithm name lower-cased with spaces and
// hyphens replaced by underscores. A report whose data is absent from
// the input is skipped with a notice on standard error.
//
// The -layout flag says what the size column of the input measures.
// By default, a table whose header has a BlockSize_MB column or whose
// file name contains "block_size" is treated as a block size sweep.
//
// The -db flag archives the normalized records in a SQL database
// named as driver:dsn, for example sqlite3:results.db or
// mysql:user@tcp(host)/perf.
//
// The -group flag prints one more table after the summary: the runs
// grouped by the comma-separated fields (platform, algorithm, engine,
// filesize, blocksize, threads), with -value (throughput, time,
// energy, energy/mb, power, speedup, efficiency) reduced by -reduce
// (max, min, or mean) in each group.
//
// The -csv flag also writes the normalized, merged table to the named
// file next to the charts, in the harness's format.
//
// The -gcs flag writes the charts to a Google Cloud Storage bucket,
// optionally under a prefix, instead of the output directory. By
// default the client uses application default credentials; -gcs-token
// supplies an OAuth2 access token instead.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"

	_ "github.com/go-sql-driver/mysql"
	"github.com/hpcbench/cipherplot/benchchart"
	"github.com/hpcbench/cipherplot/benchfmt"
	"github.com/hpcbench/cipherplot/benchmath"
	"github.com/hpcbench/cipherplot/benchnorm"
	"github.com/hpcbench/cipherplot/benchplot"
	"github.com/hpcbench/cipherplot/benchproc"
	"github.com/hpcbench/cipherplot/benchstat"
	"github.com/hpcbench/cipherplot/storage/db"
	_ "github.com/hpcbench/cipherplot/storage/db/sqlite3"
	"github.com/hpcbench/cipherplot/storage/fs"
	"github.com/hpcbench/cipherplot/storage/fs/gcs"
	"github.com/hpcbench/cipherplot/storage/fs/local"
	"google.golang.org/api/option"
)

const defaultInput = "results/combined_results.csv"

func main() {
	log.SetPrefix("cipherplot: ")
	log.SetFlags(0)

	err := cipherplot(context.Background(), os.Stdout, os.Stderr, os.Args[1:])
	var uerr *usageError
	switch {
	case err == nil:
	case errors.Is(err, flag.ErrHelp):
		os.Exit(2)
	case errors.As(err, &uerr):
		log.Print(err)
		os.Exit(2)
	default:
		log.Fatal(err)
	}
}

// A usageError is a malformed command line.
type usageError struct {
	msg string
}

func (e *usageError) Error() string {
	return e.msg
}

func usagef(format string, args ...interface{}) error {
	return &usageError{fmt.Sprintf(format, args...)}
}

func cipherplot(ctx context.Context, w, wErr io.Writer, args []string) error {
	flags := flag.NewFlagSet("cipherplot", flag.ContinueOnError)
	flags.SetOutput(wErr)
	flags.Usage = func() {
		fmt.Fprintf(flags.Output(), "usage: cipherplot [flags] [results.csv ...]\n")
		flags.PrintDefaults()
	}
	flagOut := flags.String("o", "results/image", "write charts to `dir`")
	flagLayout := flags.String("layout", "auto", "size column `layout`: auto, filesize, or blocksize")
	flagReports := flags.String("reports", "", "comma-separated `list` of reports to run (default all)")
	flagJobs := flags.Int("j", 1, "run up to `n` reports in parallel")
	flagDPI := flags.Int("dpi", benchplot.DefaultDPI, "image resolution in `dots` per inch")
	flagHTML := flags.Bool("html", false, "also write an index.html of the charts and summary")
	flagDB := flags.String("db", "", "archive records in `driver:dsn` (sqlite3 or mysql)")
	flagGCS := flags.String("gcs", "", "write charts to Cloud Storage `bucket[/prefix]` instead of -o")
	flagGCSToken := flags.String("gcs-token", "", "OAuth2 access `token` for -gcs")
	flagGroup := flags.String("group", "", "also print -value grouped by comma-separated `fields`")
	flagValue := flags.String("value", "throughput", "`value` to reduce for -group")
	flagReduce := flags.String("reduce", "max", "`reducer` for -group: max, min, or mean")
	flagCSV := flags.String("csv", "", "also write the normalized table to `file` in the output location")
	if err := flags.Parse(args); err != nil {
		// The flag package has already reported the problem.
		return flag.ErrHelp
	}

	layout, ok := benchnorm.ParseLayout(*flagLayout)
	if !ok {
		return usagef("bad -layout %q", *flagLayout)
	}
	if *flagJobs < 1 {
		return usagef("-j must be at least 1")
	}
	if *flagDPI < 1 {
		return usagef("-dpi must be at least 1")
	}
	catalog := benchchart.DefaultCatalog()
	if *flagReports != "" {
		var err error
		catalog, err = catalog.Select(strings.Split(*flagReports, ","))
		if err != nil {
			return usagef("%v", err)
		}
	}
	var q *query
	if *flagGroup != "" {
		var err error
		q, err = parseQuery(*flagGroup, *flagValue, *flagReduce)
		if err != nil {
			return usagef("%v", err)
		}
	}
	var driver, dsn string
	if *flagDB != "" {
		var ok bool
		driver, dsn, ok = strings.Cut(*flagDB, ":")
		if !ok || driver == "" {
			return usagef("-db must be driver:dsn")
		}
	}

	paths := flags.Args()
	if len(paths) == 0 {
		paths = []string{defaultInput}
	}
	for _, path := range paths {
		if path == "-" {
			continue
		}
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%s: no such file", path)
		} else if err != nil {
			return err
		}
	}

	files := benchfmt.Files{Paths: paths, AllowStdin: true}
	tab, err := files.ReadTable()
	if err != nil {
		return err
	}
	benchnorm.Normalize(tab, &benchnorm.Options{Layout: layout})

	if driver != "" {
		id, err := archive(ctx, driver, dsn, tab)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "Archived: upload %s\n", id)
	}

	out, err := outputFS(ctx, *flagOut, *flagGCS, *flagGCSToken)
	if err != nil {
		return err
	}

	if *flagCSV != "" {
		path, err := writeCSV(ctx, out, *flagCSV, tab)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "Saved: %s\n", path)
	}

	// Output from parallel reports is serialized per line.
	var mu sync.Mutex
	runner := &benchchart.Runner{
		Renderer: &benchplot.Renderer{FS: out, DPI: *flagDPI},
		Catalog:  catalog,
		Parallel: *flagJobs,
		Warn: func(format string, args ...interface{}) {
			mu.Lock()
			defer mu.Unlock()
			fmt.Fprintf(wErr, format+"\n", args...)
		},
		Saved: func(artifact string) {
			mu.Lock()
			defer mu.Unlock()
			fmt.Fprintf(w, "Saved: %s\n", artifact)
		},
	}
	outcomes := runner.Run(ctx, tab)

	sum := benchstat.Summarize(tab)
	if *flagHTML {
		path, err := writeIndex(ctx, out, tab.Source, sum, outcomes)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "Saved: %s\n", path)
	}

	fmt.Fprintln(w)
	if err := sum.Format(w); err != nil {
		return err
	}
	if q != nil {
		fmt.Fprintln(w)
		return benchstat.FormatAggregate(w, benchproc.GroupReduce(tab.Records, q.fields, q.value, q.reducer))
	}
	return nil
}

// A query is a grouping requested with -group.
type query struct {
	fields  []*benchproc.Field
	value   *benchproc.Value
	reducer benchmath.Reducer
}

func parseQuery(group, value, reduce string) (*query, error) {
	q := new(query)
	for _, name := range strings.Split(group, ",") {
		f, err := benchproc.FieldByName(strings.TrimSpace(name))
		if err != nil {
			return nil, err
		}
		q.fields = append(q.fields, f)
	}
	var err error
	if q.value, err = benchproc.ValueByName(value); err != nil {
		return nil, err
	}
	if q.reducer, err = benchmath.ParseReducer(reduce); err != nil {
		return nil, err
	}
	return q, nil
}

// writeCSV writes the records of tab to name in out and returns the
// location of the written file.
func writeCSV(ctx context.Context, out fs.FS, name string, tab *benchfmt.Table) (string, error) {
	fw, err := out.NewWriter(ctx, name, map[string]string{"Content-Type": "text/csv"})
	if err != nil {
		return "", err
	}
	cw := benchfmt.NewWriter(fw)
	for _, r := range tab.Records {
		if err := cw.Write(r); err != nil {
			fw.CloseWithError(err)
			return "", err
		}
	}
	if err := cw.Flush(); err != nil {
		fw.CloseWithError(err)
		return "", err
	}
	if err := fw.Close(); err != nil {
		return "", err
	}
	return out.Path(name), nil
}

// archive stores tab as a new upload in the database named by driver
// and dsn.
func archive(ctx context.Context, driver, dsn string, tab *benchfmt.Table) (string, error) {
	d, err := db.OpenSQL(driver, dsn)
	if err != nil {
		return "", fmt.Errorf("opening database: %w", err)
	}
	defer d.Close()
	id, err := d.Archive(ctx, tab)
	if err != nil {
		return "", fmt.Errorf("archiving records: %w", err)
	}
	return id, nil
}

// outputFS returns the FS charts are written to: the bucket named by
// gcsPath if it is set, and the local directory dir otherwise.
func outputFS(ctx context.Context, dir, gcsPath, token string) (fs.FS, error) {
	if gcsPath == "" {
		return local.NewFS(dir)
	}
	bucket, prefix, _ := strings.Cut(strings.TrimPrefix(gcsPath, "gs://"), "/")
	var opts []option.ClientOption
	if token != "" {
		opts = append(opts, gcs.WithToken(token))
	}
	return gcs.NewFS(ctx, bucket, strings.Trim(prefix, "/"), opts...)
}
