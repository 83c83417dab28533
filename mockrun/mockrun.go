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

// Package mockrun creates and destroys mock Illumina sequencer output
// directories for the MiSeq, HiSeq, and NextSeq platforms:
//
//	run, _ := mockrun.New("151125_M00001_0001_000000000-ABCD1", mockrun.MiSeq)
//	err := run.Create()
//	...
//	run.Remove()
//
// Base call, position, and filter files are empty placeholders; RunInfo.xml
// and SampleSheet.csv carry realistic content.
package mockrun

import (
	"bytes"
	"embed"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"text/template"

	"github.com/kbase/ngsmock/scaffold"
)

//go:embed templates/*
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*"))

// a directory or file within a run, relative to the run directory
type entry struct {
	Path    string
	Dir     bool
	Content []byte
}

// A mock sequencer run.
type Run struct {
	name     string
	platform Platform
	layout   Layout
	rootDir  string
	created  bool
}

// an option that modifies a new Run
type Option func(*Run)

// sets the parent directory of the run (default: current working
// directory)
func WithRootDir(dir string) Option {
	return func(r *Run) {
		r.rootDir = dir
	}
}

// New creates a Run with the given name for the given platform. An
// InvalidConfigurationError is returned for an unrecognized platform.
func New(name string, platform Platform, options ...Option) (*Run, error) {
	layout, found := Layouts[platform]
	if !found {
		return nil, &InvalidConfigurationError{
			Field: "platform",
			Value: platform.String(),
		}
	}
	if name == "" {
		return nil, &InvalidConfigurationError{
			Field: "name",
			Value: name,
		}
	}
	r := &Run{
		name:     name,
		platform: platform,
		layout:   layout,
	}
	for _, option := range options {
		option(r)
	}
	if r.rootDir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		r.rootDir = cwd
	}
	rootDir, err := filepath.Abs(r.rootDir)
	if err != nil {
		return nil, err
	}
	r.rootDir = rootDir
	return r, nil
}

// name of the run (and of its directory)
func (r *Run) Name() string {
	return r.name
}

func (r *Run) Platform() Platform {
	return r.platform
}

// full path to the run directory
func (r *Run) Dir() string {
	return filepath.Join(r.rootDir, r.name)
}

// true if the run currently exists on disk
func (r *Run) Created() bool {
	return r.created
}

// RunInfo returns the content of the run's RunInfo.xml.
func (r *Run) RunInfo() ([]byte, error) {
	lanes := make([]int, r.layout.Lanes)
	for i := range lanes {
		lanes[i] = i + 1
	}
	return render(r.layout.RunInfoTemplate, struct {
		Name  string
		Lanes []int
	}{
		Name:  r.name,
		Lanes: lanes,
	})
}

// SampleSheet returns the content of the run's SampleSheet.csv, or nil for
// platforms without one.
func (r *Run) SampleSheet() ([]byte, error) {
	if r.layout.SampleSheetTemplate == "" {
		return nil, nil
	}
	return render(r.layout.SampleSheetTemplate, r)
}

func render(name string, data any) ([]byte, error) {
	var buf bytes.Buffer
	err := templates.ExecuteTemplate(&buf, name, data)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Files returns the paths of every file in the run, relative to the run
// directory, in the order they are created.
func (r *Run) Files() ([]string, error) {
	entries, err := r.plan()
	if err != nil {
		return nil, err
	}
	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.Dir {
			files = append(files, e.Path)
		}
	}
	return files, nil
}

// plan lists every directory and file in the run, parents before children
func (r *Run) plan() ([]entry, error) {
	var entries []entry
	dir := func(elem ...string) {
		entries = append(entries, entry{Path: path.Join(elem...), Dir: true})
	}
	file := func(elem ...string) {
		entries = append(entries, entry{Path: path.Join(elem...)})
	}

	intensities := path.Join("Data", "Intensities")
	baseCalls := path.Join(intensities, "BaseCalls")
	dir("Data")
	dir(intensities)
	dir(baseCalls)
	if r.layout.InterOp {
		dir("InterOp")
	}

	l := r.layout
	for lane := 1; lane <= l.Lanes; lane++ {
		laneDir := fmt.Sprintf("L%03d", lane)
		if l.Flat {
			dir(intensities, laneDir)
			file(intensities, laneDir, fmt.Sprintf("s_%d%s", lane, l.PositionsExt))
			dir(baseCalls, laneDir)
			file(baseCalls, laneDir, fmt.Sprintf("s_%d.bci", lane))
			file(baseCalls, laneDir, fmt.Sprintf("s_%d.filter", lane))
			for tile := l.FirstTile; tile < l.FirstTile+l.Tiles; tile++ {
				file(baseCalls, laneDir, fmt.Sprintf("%04d%s", tile, l.BclExt))
				file(baseCalls, laneDir, fmt.Sprintf("%04d%s.bci", tile, l.BclExt))
			}
			continue
		}

		// cluster positions
		dir(intensities, laneDir)
		for tile := l.FirstTile; tile < l.FirstTile+l.Tiles; tile++ {
			file(intensities, laneDir, fmt.Sprintf("s_%d_%d%s", lane, tile, l.PositionsExt))
		}

		// control and filter files, then base calls for each cycle
		dir(baseCalls, laneDir)
		for tile := l.FirstTile; tile < l.FirstTile+l.Tiles; tile++ {
			file(baseCalls, laneDir, fmt.Sprintf("s_%d_%d.control", lane, tile))
			file(baseCalls, laneDir, fmt.Sprintf("s_%d_%d.filter", lane, tile))
		}
		for cycle := 1; cycle <= l.Cycles; cycle++ {
			cycleDir := fmt.Sprintf("C%d.1", cycle)
			dir(baseCalls, laneDir, cycleDir)
			for tile := l.FirstTile; tile < l.FirstTile+l.Tiles; tile++ {
				file(baseCalls, laneDir, cycleDir, fmt.Sprintf("s_%d_%d%s", lane, tile, l.BclExt))
				file(baseCalls, laneDir, cycleDir, fmt.Sprintf("s_%d_%d.stats", lane, tile))
			}
		}
	}

	runInfo, err := r.RunInfo()
	if err != nil {
		return nil, err
	}
	entries = append(entries, entry{Path: "RunInfo.xml", Content: runInfo})

	sampleSheet, err := r.SampleSheet()
	if err != nil {
		return nil, err
	}
	if sampleSheet != nil {
		entries = append(entries, entry{Path: path.Join(baseCalls, "SampleSheet.csv"), Content: sampleSheet})
	}
	if !l.Flat {
		file(intensities, "config.xml")
		file(baseCalls, "config.xml")
	}
	return entries, nil
}

// Create builds the run's directory structure on disk. A
// scaffold.TargetAlreadyExistsError is returned if the run directory
// already exists.
func (r *Run) Create() error {
	entries, err := r.plan()
	if err != nil {
		return err
	}
	err = scaffold.CreateRoot(r.Dir())
	if err != nil {
		return err
	}
	r.created = true
	slog.Info(fmt.Sprintf("Creating mock %s run in %s (%d entries)", r.platform, r.Dir(), len(entries)))
	for _, e := range entries {
		p := filepath.Join(r.Dir(), filepath.FromSlash(e.Path))
		switch {
		case e.Dir:
			err = scaffold.Mkdir(p)
		case e.Content != nil:
			err = scaffold.WriteFile(p, e.Content)
		default:
			err = scaffold.Touch(p)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// Remove deletes the run's directory structure from disk. It does nothing
// if the run hasn't been created.
func (r *Run) Remove() error {
	if !r.created {
		return nil
	}
	err := scaffold.RemoveTree(r.Dir())
	if err != nil {
		return err
	}
	r.created = false
	return nil
}
