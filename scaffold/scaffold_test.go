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

package scaffold

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

var tempRoot string

// this function gets called at the begіnning of a test session
func setup() {
	var err error
	tempRoot, err = os.MkdirTemp(os.TempDir(), "ngsmock-scaffold")
	if err != nil {
		panic(err)
	}
}

// this function gets called after all tests have been run
func breakdown() {
	os.RemoveAll(tempRoot)
}

func TestCreateRoot(t *testing.T) {
	assert := assert.New(t)

	dir := filepath.Join(tempRoot, "create-root")
	err := CreateRoot(dir)
	assert.Nil(err)
	assert.True(Exists(dir))
	defer RemoveTree(dir)

	// a marker file must survive a second attempt
	marker := filepath.Join(dir, "marker.txt")
	assert.Nil(WriteFile(marker, []byte("keep me")))

	err = CreateRoot(dir)
	assert.NotNil(err)
	var existsErr *TargetAlreadyExistsError
	assert.True(errors.As(err, &existsErr))
	assert.Equal(dir, existsErr.Path)

	data, err := os.ReadFile(marker)
	assert.Nil(err)
	assert.Equal("keep me", string(data))
}

func TestCreateRootOverFile(t *testing.T) {
	assert := assert.New(t)

	path := filepath.Join(tempRoot, "plain-file")
	assert.Nil(Touch(path))
	defer os.Remove(path)

	err := CreateRoot(path)
	var existsErr *TargetAlreadyExistsError
	assert.True(errors.As(err, &existsErr))
}

func TestMkdirIsIdempotent(t *testing.T) {
	assert := assert.New(t)

	dir := filepath.Join(tempRoot, "mkdir", "nested", "deeper")
	assert.Nil(Mkdir(dir))
	assert.Nil(Mkdir(dir))
	info, err := os.Stat(dir)
	assert.Nil(err)
	assert.True(info.IsDir())

	file := filepath.Join(tempRoot, "mkdir", "file")
	assert.Nil(Touch(file))
	err = Mkdir(file)
	var notDir *NotADirectoryError
	assert.True(errors.As(err, &notDir))
}

func TestTouchTruncates(t *testing.T) {
	assert := assert.New(t)

	path := filepath.Join(tempRoot, "touched.fastq.gz")
	assert.Nil(WriteFile(path, []byte("ACGT")))
	assert.Nil(Touch(path))
	info, err := os.Stat(path)
	assert.Nil(err)
	assert.Equal(int64(0), info.Size())
}

func TestListingAndFiles(t *testing.T) {
	assert := assert.New(t)

	dir := filepath.Join(tempRoot, "listing")
	assert.Nil(CreateRoot(dir))
	defer RemoveTree(dir)
	assert.Nil(Mkdir(filepath.Join(dir, "b", "c")))
	assert.Nil(Touch(filepath.Join(dir, "b", "c", "z.txt")))
	assert.Nil(Touch(filepath.Join(dir, "a.txt")))

	entries, err := Listing(dir)
	assert.Nil(err)
	assert.Equal([]string{"a.txt", "b", "b/c", "b/c/z.txt"}, entries)

	files, err := Files(dir)
	assert.Nil(err)
	assert.Equal([]string{"a.txt", "b/c/z.txt"}, files)
}

func TestRemoveTree(t *testing.T) {
	assert := assert.New(t)

	dir := filepath.Join(tempRoot, "remove")
	assert.Nil(CreateRoot(dir))
	assert.Nil(Mkdir(filepath.Join(dir, "x", "y")))
	assert.Nil(Touch(filepath.Join(dir, "x", "y", "f")))
	assert.Nil(RemoveTree(dir))
	assert.False(Exists(dir))
}

func TestQCDir(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(filepath.Join("/data/run", "qc"), QCDir("/data/run", ""))
	assert.Equal(filepath.Join("/data/run", "qc.v2"), QCDir("/data/run", "qc.v2"))
}

// This runs setup, runs all tests, and does breakdown.
func TestMain(m *testing.M) {
	var status int
	setup()
	status = m.Run()
	breakdown()
	os.Exit(status)
}
