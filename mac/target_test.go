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
	"errors"
	"testing"
)

func TestTargetString(t *testing.T) {
	tests := []struct {
		target Target
		name   string
		width  int
	}{
		{TargetBehavioral, "behavioral", 64},
		{TargetDSP48E2, "dsp48e2", 48},
		{TargetDSP58, "dsp58", 58},
		{TargetStratixV, "stratixv", 64},
		{Target(99), "unknown", 64},
	}
	for _, tt := range tests {
		if got := tt.target.String(); got != tt.name {
			t.Errorf("Target(%d).String(): got %q, want %q", int(tt.target), got, tt.name)
		}
		if got := tt.target.AccumulatorWidth(); got != tt.width {
			t.Errorf("%s.AccumulatorWidth(): got %d, want %d", tt.name, got, tt.width)
		}
	}
}

func TestParseTarget(t *testing.T) {
	for _, target := range Targets() {
		got, err := ParseTarget(target.String())
		if err != nil || got != target {
			t.Errorf("ParseTarget(%q): got %v, %v", target.String(), got, err)
		}
	}
	if got, err := ParseTarget("  DSP58 "); err != nil || got != TargetDSP58 {
		t.Errorf("ParseTarget is not case/space insensitive: %v, %v", got, err)
	}
	if _, err := ParseTarget("virtex2"); !errors.Is(err, ErrUnknownTarget) {
		t.Errorf("ParseTarget(virtex2): got %v, want ErrUnknownTarget", err)
	}
}

func TestDefaultTarget(t *testing.T) {
	t.Setenv(TargetEnv, "")
	if got := DefaultTarget(); got != TargetBehavioral {
		t.Errorf("unset: got %s", got)
	}
	t.Setenv(TargetEnv, "dsp48e2")
	if got := DefaultTarget(); got != TargetDSP48E2 {
		t.Errorf("dsp48e2: got %s", got)
	}
	t.Setenv(TargetEnv, "nonsense")
	if got := DefaultTarget(); got != TargetBehavioral {
		t.Errorf("nonsense: got %s", got)
	}
}

func TestMultiplierWidths(t *testing.T) {
	a, b := TargetDSP48E2.MultiplierWidths()
	if a != 27 || b != 18 {
		t.Errorf("DSP48E2: got %dx%d", a, b)
	}
	if a, b := TargetBehavioral.MultiplierWidths(); a != 0 || b != 0 {
		t.Errorf("behavioral: got %dx%d", a, b)
	}
}

func TestHost(t *testing.T) {
	h := Host()
	if h.Arch == "" || h.NumCPU < 1 {
		t.Errorf("Host: got %+v", h)
	}
	if h.String() == "" {
		t.Error("empty host description")
	}
}
