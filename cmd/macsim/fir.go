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

package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ajroetker/go-dspmac/mac/contrib/fir"
	"github.com/ajroetker/go-dspmac/mac/contrib/wavio"
	"github.com/ajroetker/go-dspmac/mac/contrib/workerpool"
)

func newFIRCmd() *cobra.Command {
	var (
		coeffsPath string
		frac       int
		inPath     string
		outPath    string
		target     string
		coeffWidth int
		shift      int
		round      bool
		clip       bool
		overflow   bool
		workers    int
	)
	cmd := &cobra.Command{
		Use:   "fir",
		Short: "Filter a WAV file through the MAC pipeline",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := targetFlag(target)
			if err != nil {
				return err
			}
			coeffs, err := readCoeffs(coeffsPath, frac)
			if err != nil {
				return err
			}

			in, err := os.Open(inPath)
			if err != nil {
				return err
			}
			pcm, err := wavio.Read(in)
			in.Close()
			if err != nil {
				return err
			}

			pool := workerpool.New(workers)
			defer pool.Close()
			filter, err := fir.New(coeffs, fir.Config{
				Target:         t,
				SampleWidth:    pcm.BitDepth,
				CoeffWidth:     coeffWidth,
				Shift:          shift,
				Round:          round,
				Clip:           clip,
				ReportOverflow: overflow,
			}, pool)
			if err != nil {
				return err
			}
			printWarnings(cmd.ErrOrStderr(), filter.Diagnostics())

			channels := wavio.Deinterleave(pcm.Samples, pcm.Channels)
			overflows := 0
			for c, samples := range channels {
				var stats fir.Stats
				channels[c], stats = filter.Process(samples)
				overflows += stats.Overflows
			}
			pcm.Samples = wavio.Interleave(channels)

			out, err := os.Create(outPath)
			if err != nil {
				return err
			}
			if err := wavio.Write(out, pcm); err != nil {
				out.Close()
				return err
			}
			if err := out.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "%d taps, %d channels x %d frames, %d overflowed samples\n",
				filter.Taps(), pcm.Channels, pcm.Frames(), overflows)
			return nil
		},
	}
	cmd.Flags().StringVar(&coeffsPath, "coeffs", "", "Coefficient file, whitespace or comma separated (required)")
	cmd.Flags().IntVar(&frac, "frac", 0, "Quantize real-valued coefficients with this many fractional bits")
	cmd.Flags().StringVar(&inPath, "in", "", "Input WAV file (required)")
	cmd.Flags().StringVar(&outPath, "out", "", "Output WAV file (required)")
	cmd.Flags().StringVar(&target, "target", "", "Target: behavioral, dsp48e2, dsp58, stratixv")
	cmd.Flags().IntVar(&coeffWidth, "coeff-width", 0, "Coefficient width (default: narrowest that fits)")
	cmd.Flags().IntVar(&shift, "shift", 0, "Output right shift")
	cmd.Flags().BoolVar(&round, "round", true, "Round half up before shifting")
	cmd.Flags().BoolVar(&clip, "clip", true, "Saturate instead of wrapping")
	cmd.Flags().BoolVar(&overflow, "overflow", true, "Count samples that overflow the output width, clipped or wrapped")
	cmd.Flags().IntVar(&workers, "workers", 0, "Worker goroutines (default: GOMAXPROCS)")
	for _, name := range []string{"coeffs", "in", "out"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

// readCoeffs parses integer coefficients, or real ones when frac > 0.
func readCoeffs(path string, frac int) ([]int64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	fields := strings.FieldsFunc(string(data), func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	if len(fields) == 0 {
		return nil, fmt.Errorf("%s: no coefficients", path)
	}
	if frac > 0 {
		taps := make([]float64, len(fields))
		for i, s := range fields {
			if taps[i], err = strconv.ParseFloat(s, 64); err != nil {
				return nil, fmt.Errorf("%s: coefficient %d: %w", path, i, err)
			}
		}
		return fir.Quantize(taps, frac), nil
	}
	coeffs := make([]int64, len(fields))
	for i, s := range fields {
		if coeffs[i], err = strconv.ParseInt(s, 0, 64); err != nil {
			return nil, fmt.Errorf("%s: coefficient %d: %w", path, i, err)
		}
	}
	return coeffs, nil
}
