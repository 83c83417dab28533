// Copyright (c) 2023 The KBase Project and its Contributors
// Copyright (c) 2023 Cohere Consulting, LLC
//
// Permission is hereby granted, free of charge, to any person obtaining a copy of
// this software and associated documentation files (the "Software"), to deal in
// the Software without restriction, including without limitation the rights to
// use, copy, modify, merge, publish, distribute, sublicense, and/or sell copies
// of the Software, and to permit persons to whom the Software is furnished to do
// so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package journal

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/kbase/ngsmock/manifest"
)

// This is the ngsmock fixture journal, which remembers every fixture created
// from the command line so that a later invocation can remove it. The
// journal is a table of fixture records (one per fixture directory).

// fixed-width UTC timestamps sort chronologically
const timeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// kinds of fixture
const (
	KindRun  = "run"
	KindData = "data"
)

// a record storing all information relevant to a fixture
type Record struct {
	// UUID associated with the fixture
	Id uuid.UUID `json:"id"`
	// "run" (sequencer output) or "data" (demultiplexed output)
	Kind string `json:"kind"`
	// name of the fixture (its directory name)
	Name string `json:"name"`
	// absolute path of the fixture directory
	Dir string `json:"dir"`
	// platform (runs) or package (data) mimicked by the fixture
	Flavor string `json:"flavor"`
	// time at which the fixture was created
	Created time.Time `json:"created"`
	// number of files in the fixture
	NumFiles int `json:"num_files"`
	// manifest describing the fixture's files (stored separate from record,
	// written by RecordFixture and read back only by Manifest)
	Manifest *manifest.DataPackage `json:"-"`
}

// A Journal holds fixture records in a SQLite database file.
type Journal struct {
	conn *sqlite.Conn
	path string
}

const schema = `CREATE TABLE IF NOT EXISTS fixtures (
  id TEXT PRIMARY KEY,
  kind TEXT NOT NULL,
  name TEXT NOT NULL,
  dir TEXT NOT NULL UNIQUE,
  flavor TEXT NOT NULL,
  created TEXT NOT NULL,
  num_files INTEGER NOT NULL,
  manifest TEXT NOT NULL DEFAULT ''
)`

// opens the journal at the given path, creating it if necessary
func Open(path string) (*Journal, error) {
	conn, err := sqlite.OpenConn(path)
	if err != nil {
		return nil, &CantOpenError{
			Path:    path,
			Message: err.Error(),
		}
	}
	err = sqlitex.ExecuteTransient(conn, schema, nil)
	if err != nil {
		conn.Close()
		return nil, &CantOpenError{
			Path:    path,
			Message: err.Error(),
		}
	}
	return &Journal{conn: conn, path: path}, nil
}

// path of the journal's database file
func (j *Journal) Path() string {
	return j.path
}

// closes the journal (if it's open)
func (j *Journal) Close() error {
	if j.conn == nil {
		return nil
	}
	err := j.conn.Close()
	j.conn = nil
	return err
}

// returns true if the journal is open for reading and writing
func (j *Journal) IsOpen() bool {
	return j.conn != nil
}

// records a newly created fixture, replacing any existing record for the
// same directory
func (j *Journal) RecordFixture(record Record) error {
	switch record.Kind {
	case KindRun, KindData:
		// pass-through (see below)
	default:
		return &NewRecordError{
			Id:      record.Id,
			Message: fmt.Sprintf("Invalid kind: %s", record.Kind),
		}
	}
	if record.Dir == "" {
		return &NewRecordError{
			Id:      record.Id,
			Message: "No directory given",
		}
	}
	if !j.IsOpen() {
		return &NotOpenError{}
	}

	var manifestJSON string
	if record.Manifest != nil {
		data, err := manifest.Marshal(record.Manifest)
		if err != nil {
			return &NewRecordError{
				Id:      record.Id,
				Message: err.Error(),
			}
		}
		manifestJSON = string(data)
	}
	if record.Created.IsZero() {
		record.Created = time.Now()
	}

	return sqlitex.Execute(j.conn,
		`INSERT OR REPLACE INTO fixtures
		   (id, kind, name, dir, flavor, created, num_files, manifest)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		&sqlitex.ExecOptions{
			Args: []any{
				record.Id.String(),
				record.Kind,
				record.Name,
				record.Dir,
				record.Flavor,
				record.Created.UTC().Format(timeFormat),
				record.NumFiles,
				manifestJSON,
			},
		})
}

// manifests are large, so they're left out of records
const selectColumns = `SELECT id, kind, name, dir, flavor, created, num_files FROM fixtures`

// retrieves the record for the fixture in the given directory
func (j *Journal) Fixture(dir string) (Record, error) {
	records, err := j.query(selectColumns+` WHERE dir = ?`, dir)
	if err != nil {
		return Record{}, err
	}
	if len(records) == 0 {
		return Record{}, &RecordNotFoundError{Dir: dir}
	}
	return records[0], nil
}

// retrieves records for all fixtures, oldest first
func (j *Journal) Fixtures() ([]Record, error) {
	return j.query(selectColumns + ` ORDER BY created, name`)
}

// retrieves the manifest recorded for the fixture in the given directory,
// or nil if none was recorded
func (j *Journal) Manifest(dir string) (*manifest.DataPackage, error) {
	if !j.IsOpen() {
		return nil, &NotOpenError{}
	}
	var found bool
	var id, data string
	err := sqlitex.Execute(j.conn, `SELECT id, manifest FROM fixtures WHERE dir = ?`,
		&sqlitex.ExecOptions{
			Args: []any{dir},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				found = true
				id, data = stmt.ColumnText(0), stmt.ColumnText(1)
				return nil
			},
		})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, &RecordNotFoundError{Dir: dir}
	}
	if data == "" {
		return nil, nil
	}
	m, err := manifest.Unmarshal([]byte(data))
	if err != nil {
		invalid := &InvalidRecordError{Message: "unable to retrieve manifest"}
		invalid.Id, _ = uuid.Parse(id)
		return nil, invalid
	}
	return m, nil
}

// deletes the record with the given ID
func (j *Journal) DeleteFixture(id uuid.UUID) error {
	if !j.IsOpen() {
		return &NotOpenError{}
	}
	err := sqlitex.Execute(j.conn, `DELETE FROM fixtures WHERE id = ?`,
		&sqlitex.ExecOptions{
			Args: []any{id.String()},
		})
	if err != nil {
		return err
	}
	if j.conn.Changes() == 0 {
		return &RecordNotFoundError{Id: id}
	}
	return nil
}

func (j *Journal) query(query string, args ...any) ([]Record, error) {
	if !j.IsOpen() {
		return nil, &NotOpenError{}
	}
	records := make([]Record, 0)
	err := sqlitex.Execute(j.conn, query, &sqlitex.ExecOptions{
		Args: args,
		ResultFunc: func(stmt *sqlite.Stmt) error {
			record, err := scanRecord(stmt)
			if err != nil {
				return err
			}
			records = append(records, record)
			return nil
		},
	})
	return records, err
}

func scanRecord(stmt *sqlite.Stmt) (Record, error) {
	id, err := uuid.Parse(stmt.ColumnText(0))
	if err != nil {
		return Record{}, &InvalidRecordError{
			Message: fmt.Sprintf("bad ID '%s'", stmt.ColumnText(0)),
		}
	}
	created, err := time.Parse(timeFormat, stmt.ColumnText(5))
	if err != nil {
		return Record{}, &InvalidRecordError{
			Id:      id,
			Message: err.Error(),
		}
	}
	record := Record{
		Id:       id,
		Kind:     stmt.ColumnText(1),
		Name:     stmt.ColumnText(2),
		Dir:      stmt.ColumnText(3),
		Flavor:   stmt.ColumnText(4),
		Created:  created,
		NumFiles: int(stmt.ColumnInt64(6)),
	}
	return record, nil
}
