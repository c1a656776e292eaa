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
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ajroetker/go-dspmac/mac"
	"github.com/ajroetker/go-dspmac/mac/contrib/config"
	"github.com/ajroetker/go-dspmac/mac/contrib/stimulus"
	"github.com/ajroetker/go-dspmac/mac/contrib/traceplot"
)

func newRunCmd() *cobra.Command {
	var (
		configPath   string
		stimulusPath string
		outPath      string
		plotPath     string
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a stimulus file through one accumulator and write the output trace",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := config.Load(configPath)
			if err != nil {
				return err
			}
			cfg, err := f.Config()
			if err != nil {
				return err
			}
			acc, err := mac.New(cfg)
			if err != nil {
				return err
			}
			printWarnings(cmd.ErrOrStderr(), acc.Diagnostics())

			sf, err := os.Open(stimulusPath)
			if err != nil {
				return err
			}
			defer sf.Close()
			l := acc.Layout()
			ins, err := stimulus.Read(sf, l.Config().ProductWidth, l.Config().AccumulatorWidth)
			if err != nil {
				return err
			}

			outs := acc.Run(ins)
			if err := writeTrace(cmd.OutOrStdout(), outPath, outs); err != nil {
				return err
			}
			if plotPath != "" {
				p, err := traceplot.New(fmt.Sprintf("%s, %d-bit output", cfg.Target, cfg.OutputWidth), outs)
				if err != nil {
					return err
				}
				if err := traceplot.Save(plotPath, p); err != nil {
					return err
				}
			}

			valid, overflows := stimulus.Tally(ins, outs)
			fmt.Fprintf(cmd.ErrOrStderr(), "%d cycles, %d valid results, %d overflows (guard bits %d, used width %d)\n",
				len(outs), valid, overflows, l.GuardBits(), l.UsedWidth())
			return nil
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "YAML accumulator configuration (required)")
	cmd.Flags().StringVar(&stimulusPath, "stimulus", "", "CSV stimulus file (required)")
	cmd.Flags().StringVar(&outPath, "out", "", "Output trace CSV (default: stdout)")
	cmd.Flags().StringVar(&plotPath, "plot", "", "Write a plot of the results (.png, .svg, .pdf)")
	_ = cmd.MarkFlagRequired("config")
	_ = cmd.MarkFlagRequired("stimulus")
	return cmd
}

func writeTrace(stdout io.Writer, path string, outs []mac.Outputs) error {
	if path == "" {
		return stimulus.WriteTrace(stdout, outs)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := stimulus.WriteTrace(f, outs); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
