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
	"fmt"

	"github.com/kbase/ngsmock/mockdata"
)

// a mock demultiplexed dataset
type datasetConfig struct {
	// name of the dataset directory
	Name string `yaml:"name"`
	// conversion package whose output is mimicked (casava or bcl2fastq2)
	Package string `yaml:"package"`
	// true for paired-end data
	PairedEnd bool `yaml:"paired_end"`
	// true to mimic bcl2fastq2 --no-lane-splitting
	NoLaneSplitting bool `yaml:"no_lane_splitting"`
	// name of the directory holding projects (default: Unaligned)
	UnalignedDir string `yaml:"unaligned_dir"`
	// lanes for which undetermined reads are added (none if empty)
	UndeterminedLanes []int `yaml:"undetermined_lanes"`
	// FASTQs for samples
	Samples []sampleConfig `yaml:"samples"`
}

// FASTQs belonging to a single sample, given either as a base name plus
// lanes (expanded with the dataset's read and lane-splitting settings) or as
// explicit FASTQ names
type sampleConfig struct {
	Project string `yaml:"project"`
	Sample  string `yaml:"sample"`
	// base name, e.g. PJB1_GCCAAT
	Base string `yaml:"base"`
	// lanes (default: [1])
	Lanes []int `yaml:"lanes"`
	// FASTQ extension (default: fastq.gz)
	Extension string `yaml:"extension"`
	// explicit FASTQ names
	Fastqs []string `yaml:"fastqs"`
}

func (c datasetConfig) validate() error {
	if c.Name == "" {
		return fmt.Errorf("A dataset has no name!")
	}
	if _, err := mockdata.ParsePackage(c.Package); err != nil {
		return fmt.Errorf("Dataset '%s': %s", c.Name, err.Error())
	}
	for _, lane := range c.UndeterminedLanes {
		if lane <= 0 {
			return fmt.Errorf("Dataset '%s': invalid undetermined lane %d", c.Name, lane)
		}
	}
	for _, s := range c.Samples {
		if s.Project == "" || s.Sample == "" {
			return fmt.Errorf("Dataset '%s': samples need a project and a sample name", c.Name)
		}
		for _, lane := range s.Lanes {
			if lane <= 0 {
				return fmt.Errorf("Dataset '%s': invalid lane %d for sample %s", c.Name, lane, s.Sample)
			}
		}
	}
	return nil
}

// NewDataset creates and populates the (unmaterialized) dataset described
// by the configuration within the given directory.
func (c datasetConfig) NewDataset(rootDir string) (*mockdata.Dataset, error) {
	pkg, err := mockdata.ParsePackage(c.Package)
	if err != nil {
		return nil, err
	}
	d, err := mockdata.New(c.Name, pkg,
		mockdata.WithRootDir(rootDir),
		mockdata.WithPairedEnd(c.PairedEnd),
		mockdata.WithNoLaneSplitting(c.NoLaneSplitting),
		mockdata.WithUnalignedDir(c.UnalignedDir))
	if err != nil {
		return nil, err
	}
	for _, s := range c.Samples {
		d.AddSample(s.Project, s.Sample)
		if s.Base != "" {
			d.AddFastqBatch(s.Project, s.Sample, s.Base,
				mockdata.WithExtension(s.Extension),
				mockdata.WithLanes(s.Lanes...))
		}
		for _, fq := range s.Fastqs {
			d.AddFastq(s.Project, s.Sample, fq)
		}
	}
	if len(c.UndeterminedLanes) > 0 {
		d.AddUndetermined(c.UndeterminedLanes...)
	}
	return d, nil
}
