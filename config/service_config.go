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

package config

import (
	"path/filepath"
)

// settings that apply to every fixture
type serviceConfig struct {
	// parent directory for fixtures (default: current working directory)
	Root string `yaml:"root"`
	// path of the fixture journal (default: ngsmock.db within Root)
	Journal string `yaml:"journal"`
	// name of the subdirectory scanned by QC tooling (default: qc)
	QCDir string `yaml:"qc_dir"`
	// set to true to enable debug logging
	Debug bool `yaml:"debug"`
}

// JournalPath returns the path of the fixture journal, relative to the
// fixture root if not absolute.
func (s serviceConfig) JournalPath() string {
	path := s.Journal
	if path == "" {
		path = "ngsmock.db"
	}
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(s.Root, path)
}
