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
	"errors"
	"log"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/kbase/ngsmock/manifest"
	"github.com/kbase/ngsmock/mockdata"
	"github.com/kbase/ngsmock/mocktest"
)

// temporary testing directory
var TESTING_DIR string

// This runs setup, runs all tests, and does breakdown.
func TestMain(m *testing.M) {
	var status int
	setup()
	status = m.Run()
	breakdown()
	os.Exit(status)
}

// this function gets called at the begіnning of a test session
func setup() {
	mocktest.EnableDebugLogging()

	log.Print("Creating testing directory...\n")
	var err error
	TESTING_DIR, err = os.MkdirTemp(os.TempDir(), "ngsmock-journal-tests-")
	if err != nil {
		log.Panicf("Couldn't create testing directory: %s", err)
	}
}

// this function gets called after all tests have been run
func breakdown() {
	if TESTING_DIR != "" {
		log.Printf("Deleting testing directory %s...\n", TESTING_DIR)
		os.RemoveAll(TESTING_DIR)
	}
}

func openJournal(t *testing.T) *Journal {
	j, err := Open(filepath.Join(TESTING_DIR, uuid.NewString()+".db"))
	if err != nil {
		t.Fatalf("Couldn't open journal: %s", err)
	}
	t.Cleanup(func() { j.Close() })
	return j
}

func TestOpenAndClose(t *testing.T) {
	assert := assert.New(t)

	j := openJournal(t)
	assert.True(j.IsOpen())
	assert.Nil(j.Close())
	assert.False(j.IsOpen())
	assert.Nil(j.Close())

	_, err := j.Fixtures()
	var notOpen *NotOpenError
	assert.True(errors.As(err, &notOpen))
	err = j.RecordFixture(Record{Id: uuid.New(), Kind: KindRun, Dir: "/tmp/x"})
	assert.True(errors.As(err, &notOpen))
}

func TestOpenBadPath(t *testing.T) {
	assert := assert.New(t)

	_, err := Open(filepath.Join(TESTING_DIR, "no", "such", "dir", "journal.db"))
	var cantOpen *CantOpenError
	assert.True(errors.As(err, &cantOpen))
}

func TestRecordFixtureWithManifest(t *testing.T) {
	assert := assert.New(t)
	j := openJournal(t)

	d, err := mockdata.New("130904_PJB_XXXXX", mockdata.Modern, mockdata.WithRootDir(TESTING_DIR))
	assert.Nil(err)
	d.AddFastqBatch("PJB", "PJB1", "PJB1_S1", mockdata.WithLanes(1, 2))
	assert.Nil(d.Create())
	defer d.Remove()
	m, err := manifest.New(d.Name(), KindData, "", d.Dir())
	assert.Nil(err)

	record := Record{
		Id:       uuid.New(),
		Kind:     KindData,
		Name:     d.Name(),
		Dir:      d.Dir(),
		Flavor:   d.Package().String(),
		Created:  time.Now(),
		NumFiles: 2,
		Manifest: m,
	}
	assert.Nil(j.RecordFixture(record))

	record1, err := j.Fixture(d.Dir())
	assert.Nil(err)
	assert.Equal(record.Id, record1.Id)
	assert.Equal(record.Kind, record1.Kind)
	assert.Equal(record.Name, record1.Name)
	assert.Equal(record.Dir, record1.Dir)
	assert.Equal("bcl2fastq2", record1.Flavor)
	assert.True(record.Created.Equal(record1.Created))
	assert.Equal(record.NumFiles, record1.NumFiles)

	// manifests are only retrieved on request
	assert.Nil(record1.Manifest)
	records, err := j.Fixtures()
	assert.Nil(err)
	assert.Len(records, 1)
	assert.Nil(records[0].Manifest)
	m1, err := j.Manifest(d.Dir())
	assert.Nil(err)
	assert.NotNil(m1)
	assert.Equal(m.ResourceNames(), m1.ResourceNames())
	assert.Equal(m.Resources, m1.Resources)
}

func TestRecordFixtureWithoutManifest(t *testing.T) {
	assert := assert.New(t)
	j := openJournal(t)

	record := Record{
		Id:     uuid.New(),
		Kind:   KindRun,
		Name:   "151125_AB12345_001_CD256X",
		Dir:    "/fixtures/151125_AB12345_001_CD256X",
		Flavor: "miseq",
	}
	assert.Nil(j.RecordFixture(record))
	record1, err := j.Fixture(record.Dir)
	assert.Nil(err)
	assert.Equal(record.Id, record1.Id)
	assert.Nil(record1.Manifest)
	assert.False(record1.Created.IsZero())
	m, err := j.Manifest(record.Dir)
	assert.Nil(err)
	assert.Nil(m)

	// recording the same directory again replaces the record
	record.Id = uuid.New()
	assert.Nil(j.RecordFixture(record))
	records, err := j.Fixtures()
	assert.Nil(err)
	assert.Len(records, 1)
	assert.Equal(record.Id, records[0].Id)
}

func TestRejectBadRecords(t *testing.T) {
	assert := assert.New(t)
	j := openJournal(t)

	var newErr *NewRecordError
	err := j.RecordFixture(Record{Id: uuid.New(), Kind: "sandwich", Dir: "/x"})
	assert.True(errors.As(err, &newErr))
	err = j.RecordFixture(Record{Id: uuid.New(), Kind: KindRun})
	assert.True(errors.As(err, &newErr))
}

func TestFixturesAndDelete(t *testing.T) {
	assert := assert.New(t)
	j := openJournal(t)

	start := time.Now()
	ids := make([]uuid.UUID, 3)
	for i := range ids {
		ids[i] = uuid.New()
		assert.Nil(j.RecordFixture(Record{
			Id:      ids[i],
			Kind:    KindRun,
			Name:    ids[i].String(),
			Dir:     filepath.Join("/fixtures", ids[i].String()),
			Flavor:  "nextseq",
			Created: start.Add(time.Duration(i) * time.Second),
		}))
	}
	records, err := j.Fixtures()
	assert.Nil(err)
	assert.Len(records, 3)
	for i, record := range records {
		assert.Equal(ids[i], record.Id)
	}

	assert.Nil(j.DeleteFixture(ids[1]))
	records, err = j.Fixtures()
	assert.Nil(err)
	assert.Len(records, 2)

	var notFound *RecordNotFoundError
	assert.True(errors.As(j.DeleteFixture(ids[1]), &notFound))
	_, err = j.Fixture(filepath.Join("/fixtures", ids[1].String()))
	assert.True(errors.As(err, &notFound))
	_, err = j.Manifest(filepath.Join("/fixtures", ids[1].String()))
	assert.True(errors.As(err, &notFound))
}
