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

// Package fastq constructs and tokenizes the FASTQ filenames written by
// Illumina demultiplexing software, e.g.
//
//	PJB1_GCCAAT_L001_R1_001.fastq.gz  (CASAVA / bcl2fastq 1.8)
//	PJB1_S1_L001_R1_001.fastq.gz      (bcl2fastq 2.x)
//	PJB1_S1_R1_001.fastq.gz           (bcl2fastq 2.x, --no-lane-splitting)
package fastq

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

// the file extension used when none is given
const DefaultExtension = "fastq.gz"

// the sample name bcl2fastq assigns to reads that couldn't be assigned to
// any sample
const Undetermined = "Undetermined"

// BuildName returns the name of a FASTQ file with the given base (sample
// name plus barcode or sample number), read number, lane number, and
// extension. If noLaneSplitting is true the lane is left out of the name.
func BuildName(base string, read, lane int, ext string, noLaneSplitting bool) string {
	if ext == "" {
		ext = DefaultExtension
	}
	if noLaneSplitting {
		return fmt.Sprintf("%s_R%d_001.%s", base, read, ext)
	}
	return fmt.Sprintf("%s_L%03d_R%d_001.%s", base, lane, read, ext)
}

// Reads returns the read numbers present in single-end or paired-end data.
func Reads(pairedEnd bool) []int {
	if pairedEnd {
		return []int{1, 2}
	}
	return []int{1}
}

// IsUndetermined returns true if the given sample name is the one bcl2fastq
// uses for undetermined reads.
func IsUndetermined(sampleName string) bool {
	return sampleName == Undetermined
}

// the components of an Illumina FASTQ filename
type Name struct {
	// sample name (everything preceding the sample number/index block)
	SampleName string
	// bcl2fastq2 sample number ("S1" -> 1), -1 if absent
	SampleNumber int
	// CASAVA barcode sequence (or "NoIndex"), empty if absent
	IndexSequence string
	// lane number ("L001" -> 1), 0 if absent
	LaneNumber int
	// read number ("R1" -> 1, "I1" -> 1)
	ReadNumber int
	// true for index reads ("I1", "I2")
	IsIndexRead bool
	// set number ("001" -> 1)
	SetNumber int
	// extension without its leading dot, e.g. "fastq.gz"
	Extension string
}

// Parse tokenizes the given FASTQ filename. Any leading directories are
// ignored.
func Parse(filename string) (Name, error) {
	base := filepath.Base(filename)
	name := Name{SampleNumber: -1}

	stem, ext := splitExtension(base)
	name.Extension = ext

	fields := strings.Split(stem, "_")
	if len(fields) < 3 {
		return Name{}, &InvalidNameError{
			Name:    filename,
			Message: "too few fields",
		}
	}
	n := len(fields)

	// set number
	set, err := strconv.Atoi(fields[n-1])
	if err != nil || !isDigits(fields[n-1]) {
		return Name{}, &InvalidNameError{
			Name:    filename,
			Message: fmt.Sprintf("invalid set number '%s'", fields[n-1]),
		}
	}
	name.SetNumber = set

	// read number
	readField := fields[n-2]
	if !isReadField(readField) {
		return Name{}, &InvalidNameError{
			Name:    filename,
			Message: fmt.Sprintf("invalid read '%s'", readField),
		}
	}
	name.ReadNumber, _ = strconv.Atoi(readField[1:])
	name.IsIndexRead = readField[0] == 'I'

	// lane number (optional)
	i := n - 3
	if lane, ok := laneNumber(fields[i]); ok {
		name.LaneNumber = lane
		i--
	}
	if i < 0 {
		return Name{}, &InvalidNameError{
			Name:    filename,
			Message: "no sample name",
		}
	}

	// sample number or index sequence, then sample name
	field := fields[i]
	if i > 0 {
		if num, ok := sampleNumber(field); ok {
			name.SampleNumber = num
			name.SampleName = strings.Join(fields[:i], "_")
			return name, nil
		}
		if isIndexSequence(field) {
			name.IndexSequence = field
			name.SampleName = strings.Join(fields[:i], "_")
			return name, nil
		}
	}
	name.SampleName = strings.Join(fields[:i+1], "_")
	return name, nil
}

// SampleName returns the sample name embedded in the given FASTQ filename
// according to the bcl2fastq2 convention.
func SampleName(filename string) (string, error) {
	name, err := Parse(filename)
	if err != nil {
		return "", err
	}
	return name.SampleName, nil
}

// String reconstructs the filename from its components.
func (n Name) String() string {
	var b strings.Builder
	b.WriteString(n.SampleName)
	if n.SampleNumber >= 0 {
		fmt.Fprintf(&b, "_S%d", n.SampleNumber)
	}
	if n.IndexSequence != "" {
		b.WriteString("_" + n.IndexSequence)
	}
	if n.LaneNumber > 0 {
		fmt.Fprintf(&b, "_L%03d", n.LaneNumber)
	}
	if n.IsIndexRead {
		fmt.Fprintf(&b, "_I%d", n.ReadNumber)
	} else {
		fmt.Fprintf(&b, "_R%d", n.ReadNumber)
	}
	fmt.Fprintf(&b, "_%03d", n.SetNumber)
	if n.Extension != "" {
		b.WriteString("." + n.Extension)
	}
	return b.String()
}

// The extension starts at the first dot following the read and set fields
// ("_R1_001."), so extensions may themselves contain underscores. Names
// without that pattern are split at the first dot after the final
// underscore.
func splitExtension(base string) (stem, ext string) {
	for i := strings.IndexByte(base, '.'); i != -1; {
		fields := strings.Split(base[:i], "_")
		if n := len(fields); n >= 3 && isDigits(fields[n-1]) && isReadField(fields[n-2]) {
			return base[:i], base[i+1:]
		}
		next := strings.IndexByte(base[i+1:], '.')
		if next == -1 {
			break
		}
		i += 1 + next
	}
	underscore := strings.LastIndex(base, "_")
	if dot := strings.IndexByte(base[underscore+1:], '.'); dot != -1 {
		return base[:underscore+1+dot], base[underscore+2+dot:]
	}
	return base, ""
}

// "R1", "I2"
func isReadField(field string) bool {
	return len(field) >= 2 && (field[0] == 'R' || field[0] == 'I') && isDigits(field[1:])
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// "L001" -> 1
func laneNumber(field string) (int, bool) {
	if len(field) != 4 || field[0] != 'L' || !isDigits(field[1:]) {
		return 0, false
	}
	lane, _ := strconv.Atoi(field[1:])
	return lane, true
}

// "S12" -> 12
func sampleNumber(field string) (int, bool) {
	if len(field) < 2 || field[0] != 'S' || !isDigits(field[1:]) {
		return 0, false
	}
	num, _ := strconv.Atoi(field[1:])
	return num, true
}

// barcodes are made up of ACGTN, with dual indexes joined by '-' or '+'
func isIndexSequence(field string) bool {
	if field == "NoIndex" {
		return true
	}
	bases := 0
	for _, c := range field {
		switch c {
		case 'A', 'C', 'G', 'T', 'N':
			bases++
		case '-', '+':
		default:
			return false
		}
	}
	return bases > 0
}
