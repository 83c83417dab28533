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

	"github.com/spf13/cobra"

	"github.com/kbase/ngsmock/journal"
	"github.com/kbase/ngsmock/mockrun"
)

func newRunCommand(opts *options) *cobra.Command {
	var platformName string
	cmd := &cobra.Command{
		Use:   "run NAME",
		Short: "Create a mock sequencer run directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			platform, err := mockrun.ParsePlatform(platformName)
			if err != nil {
				return err
			}
			run, err := mockrun.New(args[0], platform, mockrun.WithRootDir(opts.root))
			if err != nil {
				return err
			}
			return withJournal(opts, func(j *journal.Journal) error {
				record, err := createFixture(j, run, journal.KindRun, platform.String())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\n", record.Dir)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&platformName, "platform", "p", "miseq",
		"sequencing platform (miseq, hiseq, nextseq)")
	return cmd
}
