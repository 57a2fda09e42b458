// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dbtest opens scratch record archives for tests.
package dbtest

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"flag"
	"fmt"
	"strings"
	"testing"

	_ "github.com/GoogleCloudPlatform/cloudsql-proxy/proxy/dialers/mysql"
	"github.com/hpcbench/cipherplot/benchfmt"
	"github.com/hpcbench/cipherplot/storage/db"
	_ "github.com/hpcbench/cipherplot/storage/db/sqlite3"
)

var cloud = flag.Bool("cloud", false, "archive records in a Cloud SQL database instead of in-memory SQLite")
var cloudsql = flag.String("cloudsql", "", "`instance` name of the Cloud SQL database for -cloud")

// cloudDSN creates a uniquely named database on the -cloudsql
// instance and drops it when the test finishes.
func cloudDSN(t *testing.T) string {
	if *cloudsql == "" {
		t.Fatal("-cloud requires -cloudsql")
	}
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		t.Fatal(err)
	}
	name := "cipherplot-test-" + base64.RawURLEncoding.EncodeToString(buf)
	prefix := fmt.Sprintf("root:@cloudsql(%s)/", *cloudsql)

	server, err := sql.Open("mysql", prefix)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := server.Exec(fmt.Sprintf("CREATE DATABASE `%s`", name)); err != nil {
		server.Close()
		t.Fatal(err)
	}
	t.Logf("Using database %q", name)
	t.Cleanup(func() {
		if _, err := server.Exec(fmt.Sprintf("DROP DATABASE `%s`", name)); err != nil {
			t.Error(err)
		}
		server.Close()
	})
	return prefix + name
}

// NewDB opens an empty record archive, either in-memory sqlite3 or
// Cloud SQL depending on the -cloud flag, and archives each of seed
// as its own upload, in order. Upload IDs therefore start at "1".
// The archive is closed when the test finishes.
func NewDB(t *testing.T, seed ...*benchfmt.Table) *db.DB {
	t.Helper()
	driverName, dataSourceName := "sqlite3", ":memory:"
	if *cloud {
		driverName, dataSourceName = "mysql", cloudDSN(t)
	}
	d, err := db.OpenSQL(driverName, dataSourceName)
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { d.Close() })

	if n, err := d.CountUploads(); err != nil {
		t.Fatal(err)
	} else if n != 0 {
		t.Fatalf("found %d row(s) in Uploads, want 0", n)
	}
	for _, tab := range seed {
		if _, err := d.Archive(context.Background(), tab); err != nil {
			t.Fatalf("seeding %s: %v", tab.Source, err)
		}
	}
	return d
}

// Table parses csv, a results table in the harness's format.
func Table(t *testing.T, name, csv string) *benchfmt.Table {
	t.Helper()
	tab, err := benchfmt.ReadTable(strings.NewReader(csv), name)
	if err != nil {
		t.Fatalf("parsing %s: %v", name, err)
	}
	return tab
}
