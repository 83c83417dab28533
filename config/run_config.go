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

	"github.com/kbase/ngsmock/mockrun"
)

// a mock sequencer run
type runConfig struct {
	// name of the run directory
	Name string `yaml:"name"`
	// sequencing platform (miseq, hiseq, or nextseq)
	Platform string `yaml:"platform"`
}

func (c runConfig) validate() error {
	if c.Name == "" {
		return fmt.Errorf("A run has no name!")
	}
	if _, err := mockrun.ParsePlatform(c.Platform); err != nil {
		return fmt.Errorf("Run '%s': %s", c.Name, err.Error())
	}
	return nil
}

// NewRun creates the (unmaterialized) run described by the configuration
// within the given directory.
func (c runConfig) NewRun(rootDir string) (*mockrun.Run, error) {
	platform, err := mockrun.ParsePlatform(c.Platform)
	if err != nil {
		return nil, err
	}
	return mockrun.New(c.Name, platform, mockrun.WithRootDir(rootDir))
}
