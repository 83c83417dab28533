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

// Package mockdata defines, creates, and destroys mock Illumina
// demultiplexed-output directories in the style of either CASAVA /
// bcl2fastq 1.8 ("casava") or bcl2fastq 2.x ("bcl2fastq2").
//
// A Dataset is populated in memory with projects, samples, and FASTQ names,
// then materialized on disk with Create:
//
//	data, _ := mockdata.New("130904_PJB_XXXXX", mockdata.Legacy, mockdata.WithPairedEnd(true))
//	data.AddFastqBatch("PJB", "PJB1", "PJB1_GCCAAT", mockdata.WithLanes(1, 4, 5))
//	data.AddUndetermined(1, 2)
//	err := data.Create()
//	...
//	data.Remove()
//
// Changes made after Create are not reflected on disk until the dataset is
// removed and created again.
package mockdata

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/kbase/ngsmock/fastq"
	"github.com/kbase/ngsmock/scaffold"
)

// the conversion software whose output is mimicked
type Package int

const (
	// CASAVA and bcl2fastq 1.8: Project_/Sample_ directories, lanes always
	// present in FASTQ names
	Legacy Package = iota
	// bcl2fastq 2.x: bare project directories, optional lane splitting
	Modern
)

var packageNames = map[Package]string{
	Legacy: "casava",
	Modern: "bcl2fastq2",
}

func (p Package) String() string {
	if name, found := packageNames[p]; found {
		return name
	}
	return fmt.Sprintf("Package(%d)", int(p))
}

// ParsePackage converts a package name ("casava" or "bcl2fastq2") into a
// Package.
func ParsePackage(name string) (Package, error) {
	for p, pName := range packageNames {
		if strings.EqualFold(name, pName) {
			return p, nil
		}
	}
	return Legacy, &InvalidConfigurationError{
		Field: "package",
		Value: name,
	}
}

const (
	// default name of the directory holding projects
	DefaultUnalignedDir = "Unaligned"
	// name of the pseudo-project holding undetermined reads
	UndeterminedDir = "Undetermined_indices"
)

// conventional prefixes for CASAVA-style project and sample directories
const (
	projectPrefix = "Project_"
	samplePrefix  = "Sample_"
)

// CanonicalProject strips any leading "Project_" from a project name.
func CanonicalProject(name string) string {
	return strings.TrimPrefix(name, projectPrefix)
}

// CanonicalSample strips any leading "Sample_" from a sample name.
func CanonicalSample(name string) string {
	return strings.TrimPrefix(name, samplePrefix)
}

// samples within a project, mapped to their sorted FASTQ names
type project map[string][]string

// A mock demultiplexed dataset.
type Dataset struct {
	name            string
	pkg             Package
	pairedEnd       bool
	noLaneSplitting bool
	unalignedDir    string
	rootDir         string
	projects        map[string]project
	created         bool
}

// an option that modifies a new Dataset
type Option func(*Dataset)

// sets the name of the directory holding projects (default "Unaligned")
func WithUnalignedDir(dir string) Option {
	return func(d *Dataset) {
		d.unalignedDir = dir
	}
}

// marks the dataset as paired-end (R1 and R2 FASTQs)
func WithPairedEnd(pairedEnd bool) Option {
	return func(d *Dataset) {
		d.pairedEnd = pairedEnd
	}
}

// mimics bcl2fastq2 run with --no-lane-splitting (ignored for Legacy)
func WithNoLaneSplitting(noLaneSplitting bool) Option {
	return func(d *Dataset) {
		d.noLaneSplitting = noLaneSplitting
	}
}

// sets the parent directory of the dataset (default: current working
// directory)
func WithRootDir(dir string) Option {
	return func(d *Dataset) {
		d.rootDir = dir
	}
}

// New creates an empty Dataset with the given name that mimics the given
// package.
func New(name string, pkg Package, options ...Option) (*Dataset, error) {
	if _, found := packageNames[pkg]; !found {
		return nil, &InvalidConfigurationError{
			Field: "package",
			Value: pkg.String(),
		}
	}
	if name == "" {
		return nil, &InvalidConfigurationError{
			Field: "name",
			Value: name,
		}
	}
	d := &Dataset{
		name:         name,
		pkg:          pkg,
		unalignedDir: DefaultUnalignedDir,
		projects:     make(map[string]project),
	}
	for _, option := range options {
		option(d)
	}
	if d.unalignedDir == "" {
		d.unalignedDir = DefaultUnalignedDir
	}
	if pkg != Modern {
		d.noLaneSplitting = false
	}
	if d.rootDir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		d.rootDir = cwd
	}
	rootDir, err := filepath.Abs(d.rootDir)
	if err != nil {
		return nil, err
	}
	d.rootDir = rootDir
	return d, nil
}

// name of the mock dataset (and its top-level directory)
func (d *Dataset) Name() string {
	return d.name
}

// software package whose output is mimicked
func (d *Dataset) Package() Package {
	return d.pkg
}

func (d *Dataset) PairedEnd() bool {
	return d.pairedEnd
}

func (d *Dataset) NoLaneSplitting() bool {
	return d.noLaneSplitting
}

// full path to the dataset's top-level directory
func (d *Dataset) Dir() string {
	return filepath.Join(d.rootDir, d.name)
}

// full path to the directory holding the dataset's projects
func (d *Dataset) UnalignedDir() string {
	return filepath.Join(d.Dir(), d.unalignedDir)
}

// true if the dataset currently exists on disk
func (d *Dataset) Created() bool {
	return d.created
}

// sorted canonical names of all projects, including the undetermined
// pseudo-project if present
func (d *Dataset) Projects() []string {
	names := make([]string, 0, len(d.projects))
	for name := range d.projects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// true if undetermined reads have been added
func (d *Dataset) HasUndetermined() bool {
	_, found := d.projects[UndeterminedDir]
	return found
}

// sorted canonical names of the samples in the given project (nil if the
// project doesn't exist)
func (d *Dataset) SamplesInProject(projectName string) []string {
	p, found := d.projects[CanonicalProject(projectName)]
	if !found {
		return nil
	}
	names := make([]string, 0, len(p))
	for name := range p {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// sorted FASTQ names in the given project/sample (nil if either doesn't
// exist)
func (d *Dataset) FastqsInSample(projectName, sampleName string) []string {
	p, found := d.projects[CanonicalProject(projectName)]
	if !found {
		return nil
	}
	fastqs, found := p[CanonicalSample(sampleName)]
	if !found {
		return nil
	}
	return append([]string{}, fastqs...)
}

// AddProject defines a project if it doesn't already exist. Any leading
// "Project_" is ignored.
func (d *Dataset) AddProject(projectName string) {
	d.addProject(projectName)
}

func (d *Dataset) addProject(projectName string) project {
	key := CanonicalProject(projectName)
	p, found := d.projects[key]
	if !found {
		p = make(project)
		d.projects[key] = p
	}
	return p
}

// AddSample defines a sample within a project, adding the project if
// needed. Any leading "Sample_" is ignored.
func (d *Dataset) AddSample(projectName, sampleName string) {
	p := d.addProject(projectName)
	key := CanonicalSample(sampleName)
	if _, found := p[key]; !found {
		p[key] = []string{}
	}
}

// AddFastq adds a FASTQ name to a project/sample pair, adding either if
// needed. AddFastqBatch is usually more convenient.
func (d *Dataset) AddFastq(projectName, sampleName, fastqName string) {
	d.AddSample(projectName, sampleName)
	p := d.projects[CanonicalProject(projectName)]
	key := CanonicalSample(sampleName)
	fastqs := p[key]
	i := sort.SearchStrings(fastqs, fastqName)
	if i < len(fastqs) && fastqs[i] == fastqName {
		return
	}
	fastqs = append(fastqs, fastqName)
	sort.Strings(fastqs)
	p[key] = fastqs
}

// options for AddFastqBatch
type batchOptions struct {
	extension string
	lanes     []int
}

// an option that modifies AddFastqBatch
type BatchOption func(*batchOptions)

// sets the FASTQ extension (default "fastq.gz")
func WithExtension(ext string) BatchOption {
	return func(o *batchOptions) {
		o.extension = ext
	}
}

// sets the lanes for which FASTQs are added (default lane 1)
func WithLanes(lanes ...int) BatchOption {
	return func(o *batchOptions) {
		o.lanes = lanes
	}
}

// AddFastqBatch adds one FASTQ per lane and read for a sample, naming each
// from the given base (e.g. "PJB1_GCCAAT"). R2 files are added for
// paired-end datasets. If lane splitting is disabled the lanes are ignored
// and one FASTQ per read is added.
func (d *Dataset) AddFastqBatch(projectName, sampleName, base string, options ...BatchOption) {
	opts := batchOptions{
		extension: fastq.DefaultExtension,
		lanes:     []int{1},
	}
	for _, option := range options {
		option(&opts)
	}
	d.AddSample(projectName, sampleName)
	reads := fastq.Reads(d.pairedEnd)
	if d.noLaneSplitting {
		for _, read := range reads {
			d.AddFastq(projectName, sampleName,
				fastq.BuildName(base, read, 0, opts.extension, true))
		}
		return
	}
	for _, lane := range opts.lanes {
		for _, read := range reads {
			d.AddFastq(projectName, sampleName,
				fastq.BuildName(base, read, lane, opts.extension, false))
		}
	}
}

// AddUndetermined adds FASTQs for reads that couldn't be assigned to a
// sample, one sample per lane (default lane 1). With lane splitting
// disabled a single "undetermined" sample is added instead.
func (d *Dataset) AddUndetermined(lanes ...int) {
	if len(lanes) == 0 {
		lanes = []int{1}
	}
	if d.noLaneSplitting {
		d.AddFastqBatch(UndeterminedDir, "undetermined", "Undetermined_S0")
		return
	}
	for _, lane := range lanes {
		sampleName := fmt.Sprintf("lane%d", lane)
		var base string
		switch d.pkg {
		case Legacy:
			base = fmt.Sprintf("lane%d_Undetermined", lane)
		case Modern:
			base = "Undetermined_S0"
		}
		d.AddFastqBatch(UndeterminedDir, sampleName, base, WithLanes(lane))
	}
}

// Paths returns the paths of all FASTQ files in the dataset, relative to
// its top-level directory, as they would be laid out by Create.
func (d *Dataset) Paths() []string {
	layout := LayoutFor(d.pkg)
	paths := make([]string, 0)
	for _, projectName := range d.Projects() {
		p := d.projects[projectName]
		for _, sampleName := range d.SamplesInProject(projectName) {
			for _, fastqName := range p[sampleName] {
				path := layout.Path(projectName, sampleName, fastqName)
				paths = append(paths, filepath.ToSlash(filepath.Join(d.unalignedDir, path)))
			}
		}
	}
	sort.Strings(paths)
	return paths
}

// QCDirs returns the full paths of the QC output directories that QC
// tooling expects within each ordinary project, using the given
// subdirectory name (default "qc").
func (d *Dataset) QCDirs(qcDir string) []string {
	layout := LayoutFor(d.pkg)
	dirs := make([]string, 0, len(d.projects))
	for _, projectName := range d.Projects() {
		if projectName == UndeterminedDir {
			continue
		}
		projectDir := filepath.Join(d.UnalignedDir(), layout.ProjectDir(projectName))
		dirs = append(dirs, scaffold.QCDir(projectDir, qcDir))
	}
	return dirs
}

// Create builds the dataset's directory structure on disk. A
// scaffold.TargetAlreadyExistsError is returned if the top-level directory
// already exists.
func (d *Dataset) Create() error {
	err := scaffold.CreateRoot(d.Dir())
	if err != nil {
		return err
	}
	d.created = true
	slog.Info(fmt.Sprintf("Creating %s-style mock data in %s", d.pkg, d.Dir()))
	err = scaffold.Mkdir(d.UnalignedDir())
	if err != nil {
		return err
	}
	return LayoutFor(d.pkg).Materialize(d, d.UnalignedDir())
}

// Remove deletes the dataset's directory structure from disk. It does
// nothing if the dataset hasn't been created.
func (d *Dataset) Remove() error {
	if !d.created {
		return nil
	}
	err := scaffold.RemoveTree(d.Dir())
	if err != nil {
		return err
	}
	d.created = false
	return nil
}
