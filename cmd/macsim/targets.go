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
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ajroetker/go-dspmac/mac"
)

func newTargetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "targets",
		Short: "List supported DSP targets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "TARGET\tACCUMULATOR\tMULTIPLIER")
			for _, t := range mac.Targets() {
				mult := "any"
				if a, b := t.MultiplierWidths(); a > 0 {
					mult = fmt.Sprintf("%dx%d", a, b)
				}
				width := fmt.Sprintf("%d", t.AccumulatorWidth())
				if !t.FixedWidth() {
					width += " (configurable)"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\n", t, width, mult)
			}
			return tw.Flush()
		},
	}
}

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show host and default target",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "host:           %s\n", mac.Host())
			fmt.Fprintf(out, "default target: %s (set %s to change)\n", mac.DefaultTarget(), mac.TargetEnv)
			return nil
		},
	}
}
