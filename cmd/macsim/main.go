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

// Command macsim drives the fixed-point MAC model from the command line.
//
// Usage:
//
//	macsim guard --summands 16 --target dsp48e2 --prod 45
//	macsim run --config mac.yaml --stimulus vectors.csv --out trace.csv --plot trace.png
//	macsim fir --coeffs lowpass.txt --frac 15 --in in.wav --out out.wav --shift 15
//	macsim targets
//	macsim info
//
// The default target of every command can be set with DSPMAC_TARGET.
// Configuration warnings are printed to stderr prefixed with "Warning:";
// configuration errors abort with a non-zero exit status.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ajroetker/go-dspmac/mac"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "macsim",
		Short:         "Bit-exact fixed-point multiply-accumulate model",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newGuardCmd(),
		newRunCmd(),
		newFIRCmd(),
		newTargetsCmd(),
		newInfoCmd(),
	)
	return root
}

func printWarnings(w io.Writer, diags []mac.Diagnostic) {
	for _, d := range diags {
		fmt.Fprintf(w, "Warning: %s\n", d)
	}
}

// targetFlag parses a --target value, falling back to DSPMAC_TARGET.
func targetFlag(name string) (mac.Target, error) {
	if name == "" {
		return mac.DefaultTarget(), nil
	}
	return mac.ParseTarget(name)
}
