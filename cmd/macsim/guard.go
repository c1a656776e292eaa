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

	"github.com/spf13/cobra"

	"github.com/ajroetker/go-dspmac/mac"
)

func newGuardCmd() *cobra.Command {
	var (
		summands int
		accWidth int
		prod     int
		target   string
	)
	cmd := &cobra.Command{
		Use:   "guard",
		Short: "Compute guard bits for an accumulation run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := targetFlag(target)
			if err != nil {
				return err
			}
			if accWidth == 0 {
				accWidth = t.AccumulatorWidth()
			}
			if prod < 1 || prod > accWidth {
				return fmt.Errorf("product width %d: %w", prod, mac.ErrProductTooWide)
			}
			if summands < 0 {
				return mac.ErrNegativeSummands
			}
			guard, clamped := mac.GuardBits(summands, accWidth, prod)
			if clamped {
				fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %d summands exceed the %d-bit guard budget; clamped (at most %d summands are safe)\n",
					summands, guard, mac.MaxSummands(accWidth, prod))
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "target:            %s\n", t)
			fmt.Fprintf(out, "accumulator width: %d\n", accWidth)
			fmt.Fprintf(out, "product width:     %d\n", prod)
			fmt.Fprintf(out, "guard bits:        %d\n", guard)
			fmt.Fprintf(out, "used width:        %d\n", prod+guard)
			return nil
		},
	}
	cmd.Flags().IntVar(&summands, "summands", 0, "Number of accumulated products (0 = unknown)")
	cmd.Flags().IntVar(&accWidth, "acc", 0, "Accumulator width (default: target's register width)")
	cmd.Flags().IntVar(&prod, "prod", 0, "Product width in bits (required)")
	cmd.Flags().StringVar(&target, "target", "", "Target: behavioral, dsp48e2, dsp58, stratixv")
	_ = cmd.MarkFlagRequired("prod")
	return cmd
}
