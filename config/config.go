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
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// global config variables
var Service serviceConfig
var Runs []runConfig
var Datasets []datasetConfig

// This struct performs the unmarshalling from the YAML config file and then
// copies its fields to the globals above.
type configFile struct {
	Service  serviceConfig   `yaml:"service"`
	Runs     []runConfig     `yaml:"runs"`
	Datasets []datasetConfig `yaml:"datasets"`
}

// This helper reads configuration data, returning an error indicating
// success or failure. All environment variables of the form ${ENV_VAR} are
// expanded.
func readConfig(bytes []byte) error {
	// Before we do anything else, expand any provided environment variables.
	bytes = []byte(os.ExpandEnv(string(bytes)))

	var conf configFile
	conf.Service.QCDir = "qc"
	err := yaml.Unmarshal(bytes, &conf)
	if err != nil {
		slog.Error(fmt.Sprintf("Couldn't parse configuration data: %s", err))
		return err
	}
	for i := range conf.Datasets {
		if conf.Datasets[i].UnalignedDir == "" {
			conf.Datasets[i].UnalignedDir = "Unaligned"
		}
		for j := range conf.Datasets[i].Samples {
			s := &conf.Datasets[i].Samples[j]
			if s.Extension == "" {
				s.Extension = "fastq.gz"
			}
			if len(s.Lanes) == 0 {
				s.Lanes = []int{1}
			}
		}
	}

	// copy the config data into place
	Service = conf.Service
	Runs = conf.Runs
	Datasets = conf.Datasets

	return err
}

// This helper validates the given configuration, returning an error that
// indicates success or failure.
func validateConfig() error {
	if len(Runs) == 0 && len(Datasets) == 0 {
		return fmt.Errorf("No runs or datasets were provided!")
	}

	// fixture names must be unique, since each names a directory
	names := make(map[string]bool)
	for _, run := range Runs {
		if err := run.validate(); err != nil {
			return err
		}
		if names[run.Name] {
			return fmt.Errorf("Duplicate fixture name: %s", run.Name)
		}
		names[run.Name] = true
	}
	for _, dataset := range Datasets {
		if err := dataset.validate(); err != nil {
			return err
		}
		if names[dataset.Name] {
			return fmt.Errorf("Duplicate fixture name: %s", dataset.Name)
		}
		names[dataset.Name] = true
	}
	return nil
}

// Initializes the ngsmock fixture configuration using the given YAML byte
// data.
func Init(yamlData []byte) error {

	// Read the configuration from our YAML file.
	err := readConfig(yamlData)
	if err != nil {
		return err
	}

	// Validate the configuration.
	err = validateConfig()
	return err
}
