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

// Package commands implements the ngsmock command line interface.
package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/kbase/ngsmock/journal"
	"github.com/kbase/ngsmock/manifest"
	"github.com/kbase/ngsmock/scaffold"
)

// settings shared by all subcommands
type options struct {
	root        string
	journalPath string
	qcDir       string
	debug       bool
}

// NewRootCommand returns the ngsmock command and its subcommands.
func NewRootCommand() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "ngsmock",
		Short: "Create mock Illumina sequencing output for testing",
		Long: `ngsmock creates (and removes) directory structures that mimic the output of
Illumina sequencers (MiSeq, HiSeq, NextSeq) and of the CASAVA and bcl2fastq2
demultiplexing software, populated with empty placeholder files.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			setupLogging(cmd.ErrOrStderr(), opts.debug)
			return opts.resolve()
		},
	}
	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.root, "root", "", "parent directory for fixtures (default: current directory)")
	flags.StringVar(&opts.journalPath, "journal", "", "path of the fixture journal (default: ngsmock.db in the root directory)")
	flags.StringVar(&opts.qcDir, "qc-dir", scaffold.DefaultQCDir, "name of the QC output subdirectory used by QC tooling")
	flags.BoolVar(&opts.debug, "debug", false, "turn on debugging output")

	cmd.AddCommand(
		newRunCommand(opts),
		newDataCommand(opts),
		newBuildCommand(opts),
		newRemoveCommand(opts),
		newListCommand(opts),
		newShowCommand(opts),
	)
	return cmd
}

// Execute runs the ngsmock command with the process's arguments.
func Execute() error {
	return NewRootCommand().Execute()
}

// Installs a JSON handler for ngsmock's structured log (slog).
func setupLogging(w io.Writer, debug bool) {
	logLevel := new(slog.LevelVar)
	if debug {
		logLevel.Set(slog.LevelDebug)
	} else {
		logLevel.Set(slog.LevelWarn)
	}
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: logLevel})
	slog.SetDefault(slog.New(h))
}

// fills in default directories
func (o *options) resolve() error {
	if o.root == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return err
		}
		o.root = cwd
	}
	root, err := filepath.Abs(o.root)
	if err != nil {
		return err
	}
	o.root = root
	if o.journalPath == "" {
		o.journalPath = filepath.Join(o.root, "ngsmock.db")
	}
	return nil
}

// something that can be materialized on disk and destroyed
type fixture interface {
	Name() string
	Dir() string
	Create() error
	Remove() error
}

// creates a fixture and records it, with a manifest, in the journal
func createFixture(j *journal.Journal, f fixture, kind, flavor string) (journal.Record, error) {
	err := f.Create()
	if err != nil {
		// don't leave partial fixtures behind
		f.Remove()
		return journal.Record{}, err
	}

	record := journal.Record{
		Id:     uuid.New(),
		Kind:   kind,
		Name:   f.Name(),
		Dir:    f.Dir(),
		Flavor: flavor,
	}
	files, err := scaffold.Files(f.Dir())
	if err != nil {
		f.Remove()
		return record, err
	}
	record.NumFiles = len(files)
	description := fmt.Sprintf("mock %s %s output", flavor, kind)
	record.Manifest, err = manifest.New(f.Name(), kind, description, f.Dir(), flavor)
	if err != nil {
		slog.Warn(fmt.Sprintf("No manifest for %s: %s", f.Dir(), err.Error()))
	}
	err = j.RecordFixture(record)
	if err != nil {
		// an unjournaled fixture can't be removed later
		f.Remove()
		return record, err
	}
	slog.Info(fmt.Sprintf("Created %s fixture %s (%d file(s))", kind, f.Dir(), record.NumFiles))
	return record, nil
}

// opens the journal, runs the given function, and closes the journal
func withJournal(opts *options, fn func(j *journal.Journal) error) error {
	j, err := journal.Open(opts.journalPath)
	if err != nil {
		return err
	}
	defer j.Close()
	return fn(j)
}
