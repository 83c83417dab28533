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

package mockdata

import (
	"path/filepath"

	"github.com/kbase/ngsmock/fastq"
	"github.com/kbase/ngsmock/scaffold"
)

// A Layout places a dataset's projects, samples, and FASTQs on disk
// according to the conventions of one conversion package. All paths are
// relative to the dataset's unaligned directory.
type Layout interface {
	// directory holding a project
	ProjectDir(projectName string) string
	// directory created for every sample, even one without FASTQs
	SampleDir(projectName, sampleName string) string
	// path of a FASTQ belonging to a sample
	Path(projectName, sampleName, fastqName string) string
	// creates the directories and empty FASTQs of the dataset beneath the
	// given (existing) unaligned directory
	Materialize(d *Dataset, unalignedDir string) error
}

// LayoutFor returns the layout used by the given package.
func LayoutFor(pkg Package) Layout {
	if pkg == Modern {
		return modernLayout{}
	}
	return legacyLayout{}
}

// creates the projects, samples, and FASTQs of a dataset at the locations
// given by a layout
func materialize(layout Layout, d *Dataset, unalignedDir string) error {
	for _, projectName := range d.Projects() {
		err := scaffold.Mkdir(filepath.Join(unalignedDir, layout.ProjectDir(projectName)))
		if err != nil {
			return err
		}
		for _, sampleName := range d.SamplesInProject(projectName) {
			err = scaffold.Mkdir(filepath.Join(unalignedDir, layout.SampleDir(projectName, sampleName)))
			if err != nil {
				return err
			}
			for _, fastqName := range d.projects[projectName][sampleName] {
				path := filepath.Join(unalignedDir, layout.Path(projectName, sampleName, fastqName))
				if err = scaffold.Mkdir(filepath.Dir(path)); err != nil {
					return err
				}
				if err = scaffold.Touch(path); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

//---------------------------
// CASAVA / bcl2fastq 1.8
//---------------------------

// Unaligned/Project_<project>/Sample_<sample>/<fastq>, with undetermined
// reads in Unaligned/Undetermined_indices/Sample_lane<N>/<fastq>
type legacyLayout struct{}

func (l legacyLayout) ProjectDir(projectName string) string {
	if projectName == UndeterminedDir {
		return projectName
	}
	return projectPrefix + projectName
}

func (l legacyLayout) SampleDir(projectName, sampleName string) string {
	return filepath.Join(l.ProjectDir(projectName), samplePrefix+sampleName)
}

func (l legacyLayout) Path(projectName, sampleName, fastqName string) string {
	return filepath.Join(l.SampleDir(projectName, sampleName), fastqName)
}

func (l legacyLayout) Materialize(d *Dataset, unalignedDir string) error {
	return materialize(l, d, unalignedDir)
}

//---------------------------
// bcl2fastq 2.x
//---------------------------

// Unaligned/<project>/<fastq>, or Unaligned/<project>/<sample>/<fastq> when
// the sample name embedded in the FASTQ name differs from the sample's name
// (as when bcl2fastq2's Sample_ID and Sample_Name differ). Undetermined
// FASTQs sit directly in the unaligned directory.
type modernLayout struct{}

func (l modernLayout) ProjectDir(projectName string) string {
	if projectName == UndeterminedDir {
		return "."
	}
	return projectName
}

// bcl2fastq2 only makes sample directories for FASTQs that need them
func (l modernLayout) SampleDir(projectName, sampleName string) string {
	return l.ProjectDir(projectName)
}

func (l modernLayout) Path(projectName, sampleName, fastqName string) string {
	dir := l.ProjectDir(projectName)
	fqSampleName, err := fastq.SampleName(fastqName)
	if err != nil || (fqSampleName != sampleName && !fastq.IsUndetermined(fqSampleName)) {
		dir = filepath.Join(dir, sampleName)
	}
	return filepath.Join(dir, fastqName)
}

func (l modernLayout) Materialize(d *Dataset, unalignedDir string) error {
	return materialize(l, d, unalignedDir)
}
