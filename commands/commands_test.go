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
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kbase/ngsmock/journal"
	"github.com/kbase/ngsmock/manifest"
	"github.com/kbase/ngsmock/mockrun"
	"github.com/kbase/ngsmock/mocktest"
	"github.com/kbase/ngsmock/scaffold"
)

// runs ngsmock with the given arguments, returning its standard output
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// returns the non-empty lines of the given output
func lines(output string) []string {
	return strings.Fields(strings.TrimSpace(output))
}

func TestRunCreateListRemove(t *testing.T) {
	assert := assert.New(t)
	root := mocktest.TempRoot(t)

	out, err := execute(t, "--root", root, "run", "151125_M00001_0001_000000000-ABCD1",
		"--platform", "miseq")
	require.NoError(t, err)
	runDir := filepath.Join(root, "151125_M00001_0001_000000000-ABCD1")
	assert.Equal([]string{runDir}, lines(out))
	assert.True(scaffold.Exists(filepath.Join(runDir, "RunInfo.xml")))
	assert.True(scaffold.Exists(filepath.Join(root, "ngsmock.db")))

	out, err = execute(t, "--root", root, "list")
	require.NoError(t, err)
	assert.Contains(out, "151125_M00001_0001_000000000-ABCD1")
	assert.Contains(out, "miseq")

	out, err = execute(t, "--root", root, "remove", "151125_M00001_0001_000000000-ABCD1")
	require.NoError(t, err)
	assert.Contains(out, "removed "+runDir)
	assert.False(scaffold.Exists(runDir))

	out, err = execute(t, "--root", root, "list")
	require.NoError(t, err)
	assert.NotContains(out, "151125_M00001_0001_000000000-ABCD1")
}

func TestRunRecordsManifest(t *testing.T) {
	assert := assert.New(t)
	root := mocktest.TempRoot(t)
	journalPath := filepath.Join(root, "fixtures.db")

	_, err := execute(t, "--root", root, "--journal", journalPath,
		"run", "151123_NB500968_0003_ABC1234XX", "--platform", "nextseq")
	require.NoError(t, err)
	runDir := filepath.Join(root, "151123_NB500968_0003_ABC1234XX")

	j, err := journal.Open(journalPath)
	require.NoError(t, err)
	defer j.Close()
	record, err := j.Fixture(runDir)
	require.NoError(t, err)
	assert.Equal(journal.KindRun, record.Kind)
	assert.Equal("nextseq", record.Flavor)
	files := mocktest.Files(t, runDir)
	assert.Equal(len(files), record.NumFiles)
	recorded, err := j.Manifest(runDir)
	require.NoError(t, err)
	require.NotNil(t, recorded)
	assert.Equal(len(files), len(recorded.ResourceNames()))
	j.Close()

	out, err := execute(t, "--root", root, "--journal", journalPath, "show", runDir, "--manifest")
	require.NoError(t, err)
	m, err := manifest.Unmarshal([]byte(out))
	require.NoError(t, err)
	assert.Equal(len(files), len(m.ResourceNames()))
	assert.Equal([]string{"ngsmock", "run", "nextseq"}, m.Keywords)

	out, err = execute(t, "--root", root, "--journal", journalPath, "show", runDir, "--validate")
	require.NoError(t, err)
	assert.Contains(out, "valid data package")
}

func TestRunHiSeq(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping HiSeq run (tens of thousands of files) in short mode")
	}
	assert := assert.New(t)
	root := mocktest.TempRoot(t)
	name := "151124_D00001_0001_AHGFXXBCXX"

	_, err := execute(t, "--root", root, "run", name, "--platform", "hiseq")
	require.NoError(t, err)
	runDir := filepath.Join(root, name)
	files := mocktest.Files(t, runDir)
	assert.Len(files, 8*12*(3+218*2)+4)

	out, err := execute(t, "--root", root, "list")
	require.NoError(t, err)
	assert.Contains(out, name)
	assert.Contains(out, "hiseq")

	out, err = execute(t, "--root", root, "show", runDir, "--manifest")
	require.NoError(t, err)
	m, err := manifest.Unmarshal([]byte(out))
	require.NoError(t, err)
	assert.Len(m.Resources, len(files))

	_, err = execute(t, "--root", root, "remove", name)
	require.NoError(t, err)
	assert.False(scaffold.Exists(runDir))
}

// a fixture that can't be journaled isn't left on disk
func TestCreateFixtureUnjournaled(t *testing.T) {
	assert := assert.New(t)
	root := mocktest.TempRoot(t)

	run, err := mockrun.New("RUN", mockrun.MiSeq, mockrun.WithRootDir(root))
	require.NoError(t, err)
	j, err := journal.Open(filepath.Join(root, "ngsmock.db"))
	require.NoError(t, err)
	j.Close()

	_, err = createFixture(j, run, journal.KindRun, run.Platform().String())
	var notOpen *journal.NotOpenError
	assert.True(errors.As(err, &notOpen))
	assert.False(run.Created())
	assert.False(scaffold.Exists(run.Dir()))
}

func TestRunUnknownPlatform(t *testing.T) {
	root := mocktest.TempRoot(t)
	_, err := execute(t, "--root", root, "run", "RUN", "--platform", "novaseq")
	assert.Error(t, err)
	assert.False(t, scaffold.Exists(filepath.Join(root, "RUN")))
}

func TestRunExistingTarget(t *testing.T) {
	assert := assert.New(t)
	root := mocktest.TempRoot(t)
	_, err := execute(t, "--root", root, "run", "RUN")
	require.NoError(t, err)
	before := mocktest.Listing(t, filepath.Join(root, "RUN"))

	_, err = execute(t, "--root", root, "run", "RUN", "--platform", "hiseq")
	var exists *scaffold.TargetAlreadyExistsError
	assert.True(errors.As(err, &exists))

	// the original fixture and its record are untouched
	assert.Equal(before, mocktest.Listing(t, filepath.Join(root, "RUN")))
	out, err := execute(t, "--root", root, "list")
	require.NoError(t, err)
	assert.Contains(out, "miseq")
	assert.NotContains(out, "hiseq")
}

func TestData(t *testing.T) {
	assert := assert.New(t)
	root := mocktest.TempRoot(t)

	out, err := execute(t, "--root", root, "data", "130904_PJB_XXXXX",
		"--package", "casava", "--paired-end",
		"--sample", "PJB/PJB1/PJB1_GCCAAT", "--lanes", "1,4,5")
	require.NoError(t, err)
	dataDir := filepath.Join(root, "130904_PJB_XXXXX")
	assert.Equal([]string{
		dataDir,
		filepath.Join(dataDir, "Unaligned", "Project_PJB", "qc"),
	}, lines(out))
	assert.Equal([]string{
		"Unaligned/Project_PJB/Sample_PJB1/PJB1_GCCAAT_L001_R1_001.fastq.gz",
		"Unaligned/Project_PJB/Sample_PJB1/PJB1_GCCAAT_L001_R2_001.fastq.gz",
		"Unaligned/Project_PJB/Sample_PJB1/PJB1_GCCAAT_L004_R1_001.fastq.gz",
		"Unaligned/Project_PJB/Sample_PJB1/PJB1_GCCAAT_L004_R2_001.fastq.gz",
		"Unaligned/Project_PJB/Sample_PJB1/PJB1_GCCAAT_L005_R1_001.fastq.gz",
		"Unaligned/Project_PJB/Sample_PJB1/PJB1_GCCAAT_L005_R2_001.fastq.gz",
	}, mocktest.Files(t, dataDir))

	out, err = execute(t, "--root", root, "show", dataDir)
	require.NoError(t, err)
	assert.Equal(mocktest.Listing(t, dataDir), lines(out))

	_, err = execute(t, "--root", root, "remove", "130904_PJB_XXXXX")
	require.NoError(t, err)
	assert.False(scaffold.Exists(dataDir))
}

func TestDataModernWithFastqs(t *testing.T) {
	assert := assert.New(t)
	root := mocktest.TempRoot(t)

	out, err := execute(t, "--root", root, "--qc-dir", "reports",
		"data", "160621_PJB_YYYYY", "--package", "bcl2fastq2",
		"--no-lane-splitting", "--unaligned-dir", "bcl2fastq",
		"--sample", "PJB/PJB1/PJB1_S1",
		"--fastq", "PJB/PJB2/PJB2-mismatch_S2_R1_001.fastq.gz",
		"--undetermined")
	require.NoError(t, err)
	dataDir := filepath.Join(root, "160621_PJB_YYYYY")
	assert.Equal([]string{
		dataDir,
		filepath.Join(dataDir, "bcl2fastq", "PJB", "reports"),
	}, lines(out))
	assert.Equal([]string{
		"bcl2fastq/PJB/PJB1_S1_R1_001.fastq.gz",
		"bcl2fastq/PJB/PJB2/PJB2-mismatch_S2_R1_001.fastq.gz",
		"bcl2fastq/Undetermined_S0_R1_001.fastq.gz",
	}, mocktest.Files(t, dataDir))
}

func TestDataBadSample(t *testing.T) {
	root := mocktest.TempRoot(t)
	_, err := execute(t, "--root", root, "data", "DATA", "--sample", "PJB/PJB1")
	var badArg *InvalidArgumentError
	assert.True(t, errors.As(err, &badArg))
	assert.Equal(t, "sample", badArg.Flag)
	assert.False(t, scaffold.Exists(filepath.Join(root, "DATA")))
}

func TestRemoveUnknown(t *testing.T) {
	root := mocktest.TempRoot(t)
	out, err := execute(t, "--root", root, "remove", "NOT_THERE")
	assert.NoError(t, err)
	assert.Contains(t, out, "no fixture named NOT_THERE")
}

// removal only touches journaled fixtures
func TestRemoveUnjournaledDirectory(t *testing.T) {
	root := mocktest.TempRoot(t)
	require.NoError(t, os.Mkdir(filepath.Join(root, "keep"), 0755))
	_, err := execute(t, "--root", root, "remove", "keep")
	assert.NoError(t, err)
	assert.True(t, scaffold.Exists(filepath.Join(root, "keep")))
}

const buildConfig = `
service:
  root: ${NGSMOCK_BUILD_ROOT}
  journal: fixtures.db
  qc_dir: qc
runs:
  - name: 151125_M00001_0001_000000000-ABCD1
    platform: miseq
datasets:
  - name: 130904_PJB_XXXXX
    package: casava
    undetermined_lanes: [1]
    samples:
      - project: PJB
        sample: PJB1
        base: PJB1_GCCAAT
`

func TestBuild(t *testing.T) {
	assert := assert.New(t)
	root := mocktest.TempRoot(t)
	t.Setenv("NGSMOCK_BUILD_ROOT", root)
	configFile := filepath.Join(root, "ngsmock.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte(buildConfig), 0644))

	// the root given in the configuration file is used
	out, err := execute(t, "build", configFile)
	require.NoError(t, err)
	runDir := filepath.Join(root, "151125_M00001_0001_000000000-ABCD1")
	dataDir := filepath.Join(root, "130904_PJB_XXXXX")
	assert.Equal([]string{
		runDir,
		dataDir,
		filepath.Join(dataDir, "Unaligned", "Project_PJB", "qc"),
	}, lines(out))
	assert.Equal([]string{
		"Unaligned/Project_PJB/Sample_PJB1/PJB1_GCCAAT_L001_R1_001.fastq.gz",
		"Unaligned/Undetermined_indices/Sample_lane1/lane1_Undetermined_L001_R1_001.fastq.gz",
	}, mocktest.Files(t, dataDir))

	j, err := journal.Open(filepath.Join(root, "fixtures.db"))
	require.NoError(t, err)
	records, err := j.Fixtures()
	require.NoError(t, err)
	assert.Len(records, 2)
	j.Close()

	out, err = execute(t, "--root", root, "--journal", filepath.Join(root, "fixtures.db"),
		"remove", "151125_M00001_0001_000000000-ABCD1", "130904_PJB_XXXXX")
	require.NoError(t, err)
	assert.Len(lines(out), 4) // "removed DIR" twice
	assert.False(scaffold.Exists(runDir))
	assert.False(scaffold.Exists(dataDir))
}

func TestBuildBadConfig(t *testing.T) {
	root := mocktest.TempRoot(t)
	configFile := filepath.Join(root, "ngsmock.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("service:\n  root: "+root+"\n"), 0644))
	_, err := execute(t, "build", configFile)
	assert.Error(t, err)
}
