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
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kbase/ngsmock/config"
	"github.com/kbase/ngsmock/journal"
)

func newBuildCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "build CONFIG",
		Short: "Create every fixture described in a YAML configuration file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			err = config.Init(b)
			if err != nil {
				return err
			}

			// command line flags take precedence over the service config
			svc := config.Service
			if !cmd.Flags().Changed("root") && svc.Root != "" {
				opts.root, err = filepath.Abs(svc.Root)
				if err != nil {
					return err
				}
			}
			svc.Root = opts.root
			if !cmd.Flags().Changed("journal") {
				opts.journalPath = svc.JournalPath()
			}
			if !cmd.Flags().Changed("qc-dir") {
				opts.qcDir = svc.QCDir
			}
			if svc.Debug && !opts.debug {
				setupLogging(cmd.ErrOrStderr(), true)
			}
			slog.Debug(fmt.Sprintf("Building %d run(s) and %d dataset(s) in %s",
				len(config.Runs), len(config.Datasets), opts.root))

			return withJournal(opts, func(j *journal.Journal) error {
				out := cmd.OutOrStdout()
				for _, runConfig := range config.Runs {
					run, err := runConfig.NewRun(opts.root)
					if err != nil {
						return err
					}
					record, err := createFixture(j, run, journal.KindRun, run.Platform().String())
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "%s\n", record.Dir)
				}
				for _, datasetConfig := range config.Datasets {
					data, err := datasetConfig.NewDataset(opts.root)
					if err != nil {
						return err
					}
					record, err := createFixture(j, data, journal.KindData, data.Package().String())
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "%s\n", record.Dir)
					for _, qcDir := range data.QCDirs(opts.qcDir) {
						fmt.Fprintf(out, "%s\n", qcDir)
					}
				}
				return nil
			})
		},
	}
}
