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

// Package manifest describes materialized fixtures as Frictionless data
// packages (https://specs.frictionlessdata.io/data-package/), listing every
// generated file with its size and checksum.
package manifest

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/frictionlessdata/datapackage-go/datapackage"
	"github.com/frictionlessdata/datapackage-go/validator"

	"github.com/kbase/ngsmock/scaffold"
)

// a Frictionless data package describing a fixture
// (https://specs.frictionlessdata.io/data-package/)
type DataPackage struct {
	// a timestamp indicated when the package was created
	Created string `json:"created,omitempty"`
	// a description of the data package
	Description string `json:"description,omitempty"`
	// keywords to assist users searching for the data package
	Keywords []string `json:"keywords,omitempty"`
	// the name of the data package
	Name string `json:"name"`
	// the profile of this descriptor per the DataPackage profiles specification
	Profile string `json:"profile,omitempty"`
	// a list of resources that belong to the package
	Resources []DataResource `json:"resources"`
	// a title or one sentence description for the data package
	Title string `json:"title,omitempty"`
}

// a Frictionless data resource describing a file in a fixture
// (https://specs.frictionlessdata.io/data-resource/)
type DataResource struct {
	// the size of the resource's file in bytes
	Bytes int `json:"bytes"`
	// indicates the format of the resource's file, often used as an extension
	Format string `json:"format"`
	// the MD5 hash of the resource's file
	Hash string `json:"hash"`
	// the mediatype/mimetype of the resource
	MediaType string `json:"mediatype,omitempty"`
	// a unique name for the resource, derived from its path
	Name string `json:"name"`
	// a relative path to the resource's file within the fixture directory
	Path string `json:"path"`
}

// ResourceName converts a relative file path into a valid Frictionless
// resource name (lowercase letters, digits, and "-._/").
func ResourceName(relPath string) string {
	var b strings.Builder
	for _, c := range strings.ToLower(relPath) {
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9', c == '.', c == '/', c == '-':
			b.WriteRune(c)
		default:
			b.WriteRune('-')
		}
	}
	return b.String()
}

// Format returns the format and mediatype of the file at the given path.
func Format(relPath string) (format, mediaType string) {
	base := strings.ToLower(path.Base(relPath))
	switch {
	case strings.HasSuffix(base, ".fastq.gz"), strings.HasSuffix(base, ".fq.gz"):
		return "fastq", "application/gzip"
	case strings.HasSuffix(base, ".fastq"), strings.HasSuffix(base, ".fq"):
		return "fastq", "text/plain"
	case strings.HasSuffix(base, ".xml"):
		return "xml", "application/xml"
	case strings.HasSuffix(base, ".csv"):
		return "csv", "text/csv"
	}
	ext := strings.TrimPrefix(path.Ext(base), ".")
	if ext == "" {
		ext = "bin"
	}
	return ext, "application/octet-stream"
}

// Resources returns a DataResource for every file beneath dir. Resource
// names are unique: a name already taken by an earlier file gets a numeric
// suffix ("-2", "-3", ...).
func Resources(dir string) ([]DataResource, error) {
	files, err := scaffold.Files(dir)
	if err != nil {
		return nil, err
	}
	resources := make([]DataResource, 0, len(files))
	names := make(map[string]bool, len(files))
	for _, file := range files {
		size, hash, err := checksum(filepath.Join(dir, filepath.FromSlash(file)))
		if err != nil {
			return nil, err
		}
		format, mediaType := Format(file)
		resources = append(resources, DataResource{
			Bytes:     int(size),
			Format:    format,
			Hash:      hash,
			MediaType: mediaType,
			Name:      uniqueName(names, ResourceName(file)),
			Path:      file,
		})
	}
	return resources, nil
}

// returns name, or name with the first free numeric suffix, and marks it taken
func uniqueName(taken map[string]bool, name string) string {
	unique := name
	for i := 2; taken[unique]; i++ {
		unique = fmt.Sprintf("%s-%d", name, i)
	}
	taken[unique] = true
	return unique
}

func checksum(file string) (int64, string, error) {
	f, err := os.Open(file)
	if err != nil {
		return 0, "", err
	}
	defer f.Close()
	h := md5.New()
	n, err := io.Copy(h, f)
	if err != nil {
		return 0, "", err
	}
	return n, hex.EncodeToString(h.Sum(nil)), nil
}

// New builds a manifest for the fixture rooted at dir. The kind ("run" or
// "data") and any further keywords are attached to the package. The
// manifest isn't validated; see Validate.
func New(name, kind, description, dir string, keywords ...string) (*DataPackage, error) {
	resources, err := Resources(dir)
	if err != nil {
		return nil, err
	}
	if len(resources) == 0 { // Frictionless packages need at least one resource
		return nil, &EmptyFixtureError{Dir: dir}
	}
	return &DataPackage{
		Created:     time.Now().Format(time.RFC3339),
		Description: description,
		Keywords:    append([]string{"ngsmock", kind}, keywords...),
		Name:        ResourceName(name),
		Profile:     "data-package",
		Resources:   resources,
		Title:       name,
	}, nil
}

// ResourceNames returns the names of the package's resources, in order.
func (pkg DataPackage) ResourceNames() []string {
	names := make([]string, len(pkg.Resources))
	for i, res := range pkg.Resources {
		names[i] = res.Name
	}
	return names
}

// Marshal returns the JSON descriptor of a manifest.
func Marshal(pkg *DataPackage) ([]byte, error) {
	return json.Marshal(pkg)
}

// Unmarshal reconstructs a manifest from its JSON descriptor.
func Unmarshal(data []byte) (*DataPackage, error) {
	var pkg DataPackage
	err := json.Unmarshal(data, &pkg)
	if err != nil {
		return nil, err
	}
	return &pkg, nil
}

// Validate checks a JSON descriptor against the Frictionless data package
// schema, returning the loaded package. This is slow for packages with
// tens of thousands of resources.
func Validate(data []byte) (*datapackage.Package, error) {
	return datapackage.FromString(string(data), ".", validator.InMemoryLoader())
}
