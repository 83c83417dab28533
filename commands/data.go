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

package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kbase/ngsmock/fastq"
	"github.com/kbase/ngsmock/journal"
	"github.com/kbase/ngsmock/mockdata"
)

type dataOptions struct {
	pkg             string
	pairedEnd       bool
	noLaneSplitting bool
	unalignedDir    string
	samples         []string
	fastqs          []string
	lanes           []int
	extension       string
	undetermined    bool
}

func newDataCommand(opts *options) *cobra.Command {
	dataOpts := &dataOptions{}
	cmd := &cobra.Command{
		Use:   "data NAME",
		Short: "Create mock demultiplexed (FASTQ) output",
		Long: `Creates the project/sample/FASTQ tree produced by CASAVA or bcl2fastq2.

Samples are given as PROJECT/SAMPLE/BASE, e.g. PJB/PJB1/PJB1_GCCAAT, and
receive one FASTQ per lane (and read, for paired-end data). Individual FASTQs
are given as PROJECT/SAMPLE/FILENAME.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := dataOpts.newDataset(args[0], opts.root)
			if err != nil {
				return err
			}
			return withJournal(opts, func(j *journal.Journal) error {
				record, err := createFixture(j, data, journal.KindData, data.Package().String())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "%s\n", record.Dir)
				for _, qcDir := range data.QCDirs(opts.qcDir) {
					fmt.Fprintf(out, "%s\n", qcDir)
				}
				return nil
			})
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&dataOpts.pkg, "package", "casava", "demultiplexing package (casava, bcl2fastq2)")
	flags.BoolVar(&dataOpts.pairedEnd, "paired-end", false, "add R2 files for each sample")
	flags.BoolVar(&dataOpts.noLaneSplitting, "no-lane-splitting", false, "omit lane numbers from FASTQ names (bcl2fastq2 only)")
	flags.StringVar(&dataOpts.unalignedDir, "unaligned-dir", mockdata.DefaultUnalignedDir, "name of the output subdirectory")
	flags.StringArrayVar(&dataOpts.samples, "sample", nil, "sample as PROJECT/SAMPLE/BASE (repeatable)")
	flags.StringArrayVar(&dataOpts.fastqs, "fastq", nil, "FASTQ file as PROJECT/SAMPLE/FILENAME (repeatable)")
	flags.IntSliceVar(&dataOpts.lanes, "lanes", []int{1}, "lanes for each sample")
	flags.StringVar(&dataOpts.extension, "extension", fastq.DefaultExtension, "FASTQ file extension")
	flags.BoolVar(&dataOpts.undetermined, "undetermined", false, "add undetermined FASTQs for each lane")
	return cmd
}

// builds the (unmaterialized) dataset described by the flags
func (o *dataOptions) newDataset(name, rootDir string) (*mockdata.Dataset, error) {
	pkg, err := mockdata.ParsePackage(o.pkg)
	if err != nil {
		return nil, err
	}
	data, err := mockdata.New(name, pkg,
		mockdata.WithRootDir(rootDir),
		mockdata.WithPairedEnd(o.pairedEnd),
		mockdata.WithNoLaneSplitting(o.noLaneSplitting),
		mockdata.WithUnalignedDir(o.unalignedDir))
	if err != nil {
		return nil, err
	}
	for _, s := range o.samples {
		projectName, sampleName, base, err := splitSampleArg("sample", s)
		if err != nil {
			return nil, err
		}
		data.AddFastqBatch(projectName, sampleName, base,
			mockdata.WithExtension(o.extension),
			mockdata.WithLanes(o.lanes...))
	}
	for _, f := range o.fastqs {
		projectName, sampleName, fastqName, err := splitSampleArg("fastq", f)
		if err != nil {
			return nil, err
		}
		data.AddFastq(projectName, sampleName, fastqName)
	}
	if o.undetermined {
		data.AddUndetermined(o.lanes...)
	}
	return data, nil
}

// splits a PROJECT/SAMPLE/NAME argument
func splitSampleArg(flag, arg string) (string, string, string, error) {
	parts := strings.Split(arg, "/")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return "", "", "", &InvalidArgumentError{
			Flag:    flag,
			Value:   arg,
			Message: "expected PROJECT/SAMPLE/NAME",
		}
	}
	return parts[0], parts[1], parts[2], nil
}
