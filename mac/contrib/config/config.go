// Copyright 2025 go-highway Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config loads accumulator configurations from YAML files.
//
// A file describes one accumulator:
//
//	target: dsp48e2
//	product_width: 45
//	num_summand: 16
//	output:
//	  width: 24
//	  shift_right: 17
//	  round: true
//	  clip: true
//	  overflow_report: true
//
// accumulator_width may be omitted for vendor targets. chain_accumulate
// selects chain-input accumulation on every valid cycle.
package config

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ajroetker/go-dspmac/mac"
)

// File is the on-disk form of a mac.Config.
type File struct {
	Target           string `yaml:"target"`
	AccumulatorWidth int    `yaml:"accumulator_width"`
	ProductWidth     int    `yaml:"product_width"`
	NumSummand       int    `yaml:"num_summand"`
	ChainAccumulate  bool   `yaml:"chain_accumulate"`
	Output           Output `yaml:"output"`
}

// Output groups the output stage settings.
type Output struct {
	Width          int  `yaml:"width"`
	ShiftRight     int  `yaml:"shift_right"`
	Round          bool `yaml:"round"`
	Clip           bool `yaml:"clip"`
	OverflowReport bool `yaml:"overflow_report"`
}

// Parse decodes YAML. Unknown keys are rejected so typos do not silently
// fall back to defaults.
func Parse(data []byte) (*File, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var f File
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &f, nil
}

// Load reads and decodes the file at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return Parse(data)
}

// Config converts f into a mac.Config. An empty target uses
// mac.DefaultTarget.
func (f *File) Config() (mac.Config, error) {
	target := mac.DefaultTarget()
	if f.Target != "" {
		var err error
		if target, err = mac.ParseTarget(f.Target); err != nil {
			return mac.Config{}, fmt.Errorf("config: %w", err)
		}
	}
	return mac.Config{
		Target:               target,
		AccumulatorWidth:     f.AccumulatorWidth,
		ProductWidth:         f.ProductWidth,
		NumSummand:           f.NumSummand,
		OutputWidth:          f.Output.Width,
		OutputShiftRight:     f.Output.ShiftRight,
		OutputRound:          f.Output.Round,
		OutputClip:           f.Output.Clip,
		OutputOverflowReport: f.Output.OverflowReport,
		ChainAccumulate:      f.ChainAccumulate,
	}, nil
}

// FromConfig is the inverse of File.Config.
func FromConfig(c mac.Config) *File {
	return &File{
		Target:           c.Target.String(),
		AccumulatorWidth: c.AccumulatorWidth,
		ProductWidth:     c.ProductWidth,
		NumSummand:       c.NumSummand,
		ChainAccumulate:  c.ChainAccumulate,
		Output: Output{
			Width:          c.OutputWidth,
			ShiftRight:     c.OutputShiftRight,
			Round:          c.OutputRound,
			Clip:           c.OutputClip,
			OverflowReport: c.OutputOverflowReport,
		},
	}
}

// Marshal encodes f as YAML.
func (f *File) Marshal() ([]byte, error) {
	return yaml.Marshal(f)
}
