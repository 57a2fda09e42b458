// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package db archives normalized benchmark records in a SQL database.
package db

import (
	"bytes"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"text/template"

	"github.com/hpcbench/cipherplot/benchfmt"
	"golang.org/x/net/context"
)

// DB is a high-level interface to a record archive. It's safe for
// concurrent use by multiple goroutines.
type DB struct {
	sql *sql.DB // underlying database connection
	// prepared statements
	insertUpload *sql.Stmt
	insertRecord *sql.Stmt
}

// OpenSQL creates a DB backed by a SQL database. The parameters are
// the same as the parameters for sql.Open. Only mysql and sqlite3 are
// explicitly supported; other database engines will receive MySQL
// query syntax which may or may not be compatible.
func OpenSQL(driverName, dataSourceName string) (*DB, error) {
	db, err := sql.Open(driverName, dataSourceName)
	if err != nil {
		return nil, err
	}
	if hook := openHooks[driverName]; hook != nil {
		if err := hook(db); err != nil {
			db.Close()
			return nil, err
		}
	}
	d := &DB{sql: db}
	if err := d.createTables(driverName); err != nil {
		db.Close()
		return nil, err
	}
	if err := d.prepareStatements(); err != nil {
		db.Close()
		return nil, err
	}
	return d, nil
}

var openHooks = make(map[string]func(*sql.DB) error)

// RegisterOpenHook registers a hook to be called after opening a connection to driverName.
// This is used by the sqlite3 package to register a ConnectHook.
// It must be called from an init function.
func RegisterOpenHook(driverName string, hook func(*sql.DB) error) {
	openHooks[driverName] = hook
}

// createTmpl is the template used to prepare the CREATE statements
// for the database. It is evaluated with . as a map containing one
// entry whose key is the driver name.
var createTmpl = template.Must(template.New("create").Parse(`
CREATE TABLE IF NOT EXISTS Uploads (
	UploadID {{if .sqlite3}}INTEGER PRIMARY KEY AUTOINCREMENT{{else}}SERIAL PRIMARY KEY AUTO_INCREMENT{{end}},
	Source VARCHAR(1024)
);
CREATE TABLE IF NOT EXISTS Records (
	UploadID BIGINT UNSIGNED,
	RecordID BIGINT UNSIGNED,
	Platform VARCHAR(255),
	Algorithm VARCHAR(255),
	Engine VARCHAR(255),
	FileSizeMB DOUBLE,
	BlockSizeKB DOUBLE NULL,
	NumThreads INT,
	ThroughputMBs DOUBLE NULL,
	TimeSec DOUBLE NULL,
	EnergyJoules DOUBLE NULL,
	PowerWatts DOUBLE NULL,
	EnergySource VARCHAR(255),
	Speedup DOUBLE NULL,
	Efficiency DOUBLE NULL,
	Verified BOOLEAN NULL,
	PRIMARY KEY (UploadID, RecordID),
{{if not .sqlite3}}
	Index (Platform(100), Algorithm(100), Engine(100)),
{{end}}
	FOREIGN KEY (UploadID) REFERENCES Uploads(UploadID) ON UPDATE CASCADE ON DELETE CASCADE
);
{{if .sqlite3}}
CREATE INDEX IF NOT EXISTS RecordsIdentity ON Records(Platform, Algorithm, Engine);
{{end}}
`))

// createTables creates any missing tables on the connection in
// db.sql. driverName is the same driver name passed to sql.Open and
// is used to select the correct syntax.
func (db *DB) createTables(driverName string) error {
	var buf bytes.Buffer
	if err := createTmpl.Execute(&buf, map[string]bool{driverName: true}); err != nil {
		return err
	}
	for _, q := range strings.Split(buf.String(), ";") {
		if strings.TrimSpace(q) == "" {
			continue
		}
		if _, err := db.sql.Exec(q); err != nil {
			return fmt.Errorf("create table: %v", err)
		}
	}
	return nil
}

// recordColumns are the data columns of Records, in insert order.
var recordColumns = []string{
	"Platform", "Algorithm", "Engine", "FileSizeMB", "BlockSizeKB", "NumThreads",
	"ThroughputMBs", "TimeSec", "EnergyJoules", "PowerWatts", "EnergySource",
	"Speedup", "Efficiency", "Verified",
}

// prepareStatements calls db.sql.Prepare on reusable SQL statements.
func (db *DB) prepareStatements() error {
	var err error
	db.insertUpload, err = db.sql.Prepare("INSERT INTO Uploads(Source) VALUES (?)")
	if err != nil {
		return err
	}
	q := "INSERT INTO Records(UploadID, RecordID, " + strings.Join(recordColumns, ", ") + ") VALUES (?, ?" +
		strings.Repeat(", ?", len(recordColumns)) + ")"
	db.insertRecord, err = db.sql.Prepare(q)
	if err != nil {
		return err
	}
	return nil
}

// An Upload is a set of records archived together. Records inserted
// into an Upload are not visible until Commit.
type Upload struct {
	// ID is the identifier of the upload, for ListRecords.
	ID string

	// id is the numeric value used as the primary key.
	id int64
	// recordid is the index of the next record to insert.
	recordid int64
	tx       *sql.Tx
	db       *DB
}

// NewUpload starts a new upload of records read from source.
func (db *DB) NewUpload(ctx context.Context, source string) (*Upload, error) {
	tx, err := db.sql.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	res, err := tx.StmtContext(ctx, db.insertUpload).ExecContext(ctx, source)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	i, err := res.LastInsertId()
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	return &Upload{
		ID: fmt.Sprint(i),
		id: i,
		tx: tx,
		db: db,
	}, nil
}

func nullFloat(x float64, ok bool) sql.NullFloat64 {
	return sql.NullFloat64{Float64: x, Valid: ok}
}

func nullVerified(v benchfmt.Verified) sql.NullBool {
	return sql.NullBool{Bool: v == benchfmt.Pass, Valid: v != benchfmt.Unverified}
}

// InsertRecord inserts a single record in an existing upload.
func (u *Upload) InsertRecord(ctx context.Context, r *benchfmt.Record) error {
	_, err := u.tx.StmtContext(ctx, u.db.insertRecord).ExecContext(ctx,
		u.id, u.recordid,
		r.Platform, r.Algorithm, r.Engine,
		r.FileSizeMB, nullFloat(r.BlockSizeKB, r.HasBlockSize), r.NumThreads,
		nullFloat(r.ThroughputMBs, r.HasThroughput), nullFloat(r.TimeSec, r.HasTime),
		nullFloat(r.EnergyJoules, r.HasEnergy), nullFloat(r.PowerWatts, r.HasPower), r.EnergySource,
		nullFloat(r.Speedup, r.HasSpeedup), nullFloat(r.Efficiency, r.HasEfficiency),
		nullVerified(r.Verified),
	)
	if err != nil {
		return err
	}
	u.recordid++
	return nil
}

// Commit makes the upload's records visible.
func (u *Upload) Commit() error {
	return u.tx.Commit()
}

// Abort discards the upload.
func (u *Upload) Abort() error {
	return u.tx.Rollback()
}

// Archive stores every record of tab as a new upload and returns the
// upload's ID.
func (db *DB) Archive(ctx context.Context, tab *benchfmt.Table) (string, error) {
	u, err := db.NewUpload(ctx, tab.Source)
	if err != nil {
		return "", err
	}
	for _, r := range tab.Records {
		if err := u.InsertRecord(ctx, r); err != nil {
			u.Abort()
			return "", err
		}
	}
	if err := u.Commit(); err != nil {
		return "", err
	}
	return u.ID, nil
}

// ListRecords returns the records of an upload in the order they
// were inserted. Derived fields other than BlockSizeKB are not
// stored; callers normalize the records again if they need them.
func (db *DB) ListRecords(ctx context.Context, uploadID string) ([]*benchfmt.Record, error) {
	id, err := strconv.ParseInt(uploadID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("bad upload ID %q", uploadID)
	}
	rows, err := db.sql.QueryContext(ctx, "SELECT "+strings.Join(recordColumns, ", ")+" FROM Records WHERE UploadID = ? ORDER BY RecordID", id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []*benchfmt.Record
	for rows.Next() {
		r := new(benchfmt.Record)
		var tput, time, blockSize, energy, power, speedup, efficiency sql.NullFloat64
		var verified sql.NullBool
		if err := rows.Scan(
			&r.Platform, &r.Algorithm, &r.Engine,
			&r.FileSizeMB, &blockSize, &r.NumThreads,
			&tput, &time,
			&energy, &power, &r.EnergySource,
			&speedup, &efficiency,
			&verified,
		); err != nil {
			return nil, err
		}
		r.ThroughputMBs, r.HasThroughput = tput.Float64, tput.Valid
		r.TimeSec, r.HasTime = time.Float64, time.Valid
		r.BlockSizeKB, r.HasBlockSize = blockSize.Float64, blockSize.Valid
		r.EnergyJoules, r.HasEnergy = energy.Float64, energy.Valid
		r.PowerWatts, r.HasPower = power.Float64, power.Valid
		r.Speedup, r.HasSpeedup = speedup.Float64, speedup.Valid
		r.Efficiency, r.HasEfficiency = efficiency.Float64, efficiency.Valid
		switch {
		case !verified.Valid:
			r.Verified = benchfmt.Unverified
		case verified.Bool:
			r.Verified = benchfmt.Pass
		default:
			r.Verified = benchfmt.Fail
		}
		r.Index = len(recs)
		recs = append(recs, r)
	}
	return recs, rows.Err()
}

// CountUploads returns the number of uploads in the database.
func (db *DB) CountUploads() (int, error) {
	var uploads int
	err := db.sql.QueryRow("SELECT COUNT(*) FROM Uploads").Scan(&uploads)
	return uploads, err
}

// Close closes the database connections, releasing any open resources.
func (db *DB) Close() error {
	if err := db.insertUpload.Close(); err != nil {
		return err
	}
	if err := db.insertRecord.Close(); err != nil {
		return err
	}
	return db.sql.Close()
}
