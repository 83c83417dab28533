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

package mockrun

import (
	"fmt"
	"strings"
)

// an Illumina sequencing platform
type Platform int

const (
	MiSeq Platform = iota
	HiSeq
	NextSeq
)

var platformNames = map[Platform]string{
	MiSeq:   "miseq",
	HiSeq:   "hiseq",
	NextSeq: "nextseq",
}

func (p Platform) String() string {
	if name, found := platformNames[p]; found {
		return name
	}
	return fmt.Sprintf("Platform(%d)", int(p))
}

// ParsePlatform converts a platform name ("miseq", "hiseq", "nextseq",
// case-insensitive) into a Platform.
func ParsePlatform(name string) (Platform, error) {
	for p, pName := range platformNames {
		if strings.EqualFold(name, pName) {
			return p, nil
		}
	}
	return MiSeq, &InvalidConfigurationError{
		Field: "platform",
		Value: name,
	}
}

// Platforms returns all recognized platforms.
func Platforms() []Platform {
	return []Platform{MiSeq, HiSeq, NextSeq}
}

// The shape of a platform's run directory. Tile counts are far smaller than
// those of real instruments so that runs can be generated quickly.
type Layout struct {
	// number of lanes on the flowcell
	Lanes int
	// ID of the first tile in each lane, and the number of tiles
	FirstTile, Tiles int
	// number of sequencing cycles (0 for layouts without per-cycle
	// directories)
	Cycles int
	// extension of base call files, e.g. ".bcl.gz"
	BclExt string
	// extension of cluster position files, e.g. ".locs"
	PositionsExt string
	// templates (under templates/) for RunInfo.xml and SampleSheet.csv; a
	// platform with no sample sheet has an empty SampleSheetTemplate
	RunInfoTemplate     string
	SampleSheetTemplate string
	// true if the run has an InterOp directory
	InterOp bool
	// true for the NextSeq-style layout with one base call file per tile
	// per lane instead of per-cycle directories
	Flat bool
}

// layouts for each platform
var Layouts = map[Platform]Layout{
	MiSeq: {
		Lanes:               1,
		FirstTile:           1101,
		Tiles:               12, // 158 on a real MiSeq
		Cycles:              218,
		BclExt:              ".bcl",
		PositionsExt:        ".locs",
		RunInfoTemplate:     "miseq_RunInfo.xml",
		SampleSheetTemplate: "miseq_SampleSheet.csv",
	},
	HiSeq: {
		Lanes:               8,
		FirstTile:           1101,
		Tiles:               12, // 1216 on a real HiSeq
		Cycles:              218,
		BclExt:              ".bcl.gz",
		PositionsExt:        ".clocs",
		RunInfoTemplate:     "hiseq_RunInfo.xml",
		SampleSheetTemplate: "hiseq_SampleSheet.csv",
	},
	NextSeq: {
		Lanes:           4,
		FirstTile:       1,
		Tiles:           158,
		BclExt:          ".bcl.bgzf",
		PositionsExt:    ".locs",
		RunInfoTemplate: "nextseq_RunInfo.xml",
		InterOp:         true,
		Flat:            true,
	},
}
