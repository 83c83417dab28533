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
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kbase/ngsmock/journal"
	"github.com/kbase/ngsmock/manifest"
	"github.com/kbase/ngsmock/scaffold"
)

func newRemoveCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "remove NAME...",
		Short: "Remove fixtures created by ngsmock",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withJournal(opts, func(j *journal.Journal) error {
				for _, name := range args {
					dir := filepath.Join(opts.root, name)
					record, err := j.Fixture(dir)
					if err != nil {
						var notFound *journal.RecordNotFoundError
						if errors.As(err, &notFound) {
							// only fixtures we created are ever removed
							fmt.Fprintf(cmd.OutOrStdout(), "no fixture named %s in %s\n", name, opts.root)
							continue
						}
						return err
					}
					err = scaffold.RemoveTree(record.Dir)
					if err != nil {
						return err
					}
					err = j.DeleteFixture(record.Id)
					if err != nil {
						return err
					}
					slog.Info(fmt.Sprintf("Removed %s fixture %s", record.Kind, record.Dir))
					fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", record.Dir)
				}
				return nil
			})
		},
	}
}

func newListCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List fixtures created by ngsmock",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withJournal(opts, func(j *journal.Journal) error {
				records, err := j.Fixtures()
				if err != nil {
					return err
				}
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "KIND\tNAME\tFLAVOR\tFILES\tCREATED\tDIRECTORY")
				for _, r := range records {
					fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\n", r.Kind, r.Name, r.Flavor,
						r.NumFiles, r.Created.Local().Format("2006-01-02 15:04:05"), r.Dir)
				}
				return w.Flush()
			})
		},
	}
}

func newShowCommand(opts *options) *cobra.Command {
	var showManifest, validate bool
	cmd := &cobra.Command{
		Use:   "show DIR",
		Short: "Print the sorted listing of a directory tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if showManifest || validate {
				return withJournal(opts, func(j *journal.Journal) error {
					m, err := j.Manifest(dir)
					if err != nil {
						return err
					}
					if m == nil {
						return fmt.Errorf("No manifest recorded for %s", dir)
					}
					data, err := manifest.Marshal(m)
					if err != nil {
						return err
					}
					if validate {
						pkg, err := manifest.Validate(data)
						if err != nil {
							return err
						}
						fmt.Fprintf(out, "%s: valid data package with %d resource(s)\n",
							dir, len(pkg.ResourceNames()))
						return nil
					}
					fmt.Fprintf(out, "%s\n", data)
					return nil
				})
			}
			entries, err := scaffold.Listing(dir)
			if err != nil {
				return err
			}
			for _, entry := range entries {
				fmt.Fprintln(out, entry)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&showManifest, "manifest", false,
		"print the journaled Frictionless manifest instead of the listing")
	cmd.Flags().BoolVar(&validate, "validate", false,
		"check the journaled manifest against the Frictionless data package schema")
	return cmd
}
