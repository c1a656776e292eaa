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

package mac

import (
	"fmt"
	"os"
	"strings"
)

// Target identifies the silicon family whose DSP slice an accumulator is
// modelled on. The numeric behaviour is identical across targets; they differ
// in accumulator register width and multiplier port sizes.
type Target int

const (
	// TargetBehavioral is the vendor-neutral simulation model. Its
	// accumulator width is freely configurable.
	TargetBehavioral Target = iota

	// TargetDSP48E2 is the Xilinx UltraScale DSP48E2 slice (48-bit P register).
	TargetDSP48E2

	// TargetDSP58 is the Xilinx Versal DSP58 slice (58-bit P register).
	TargetDSP58

	// TargetStratixV is the Altera Stratix-V variable-precision DSP block
	// (64-bit accumulator).
	TargetStratixV
)

// TargetEnv names the environment variable consulted by DefaultTarget.
const TargetEnv = "DSPMAC_TARGET"

// Targets returns every supported target in declaration order.
func Targets() []Target {
	return []Target{TargetBehavioral, TargetDSP48E2, TargetDSP58, TargetStratixV}
}

// String returns the lower-case name used in config files and on the command
// line.
func (t Target) String() string {
	switch t {
	case TargetBehavioral:
		return "behavioral"
	case TargetDSP48E2:
		return "dsp48e2"
	case TargetDSP58:
		return "dsp58"
	case TargetStratixV:
		return "stratixv"
	default:
		return "unknown"
	}
}

// AccumulatorWidth returns the accumulator register width of the target.
// For TargetBehavioral it is the default used when Config.AccumulatorWidth
// is left at zero.
func (t Target) AccumulatorWidth() int {
	switch t {
	case TargetDSP48E2:
		return 48
	case TargetDSP58:
		return 58
	default:
		return 64
	}
}

// MultiplierWidths returns the signed multiplier port widths (a, b) of a
// single slice. Behavioral reports (0, 0): it has no port limit.
func (t Target) MultiplierWidths() (a, b int) {
	switch t {
	case TargetDSP48E2:
		return 27, 18
	case TargetDSP58:
		return 27, 24
	case TargetStratixV:
		return 27, 27
	default:
		return 0, 0
	}
}

// FixedWidth reports whether the accumulator width is dictated by silicon.
func (t Target) FixedWidth() bool {
	return t != TargetBehavioral
}

// ParseTarget converts a target name (case-insensitive) into a Target.
func ParseTarget(s string) (Target, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for _, t := range Targets() {
		if t.String() == name {
			return t, nil
		}
	}
	return TargetBehavioral, fmt.Errorf("mac: target %q: %w", s, ErrUnknownTarget)
}

// DefaultTarget returns the target named by the DSPMAC_TARGET environment
// variable, or TargetBehavioral if it is unset or unrecognised.
func DefaultTarget() Target {
	val := os.Getenv(TargetEnv)
	if val == "" {
		return TargetBehavioral
	}
	t, err := ParseTarget(val)
	if err != nil {
		return TargetBehavioral
	}
	return t
}
