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
	"runtime"
	"strings"

	"golang.org/x/sys/cpu"
)

// HostFeatures describes the machine running the model. None of it changes
// numeric results; it is reported by tooling.
type HostFeatures struct {
	Arch   string
	NumCPU int

	// x86-64 wide-arithmetic extensions (MULX, ADCX/ADOX) and AVX2.
	HasBMI2 bool
	HasADX  bool
	HasAVX2 bool

	// arm64 Advanced SIMD.
	HasASIMD bool
}

// Host probes the running CPU.
func Host() HostFeatures {
	return HostFeatures{
		Arch:     runtime.GOARCH,
		NumCPU:   runtime.NumCPU(),
		HasBMI2:  cpu.X86.HasBMI2,
		HasADX:   cpu.X86.HasADX,
		HasAVX2:  cpu.X86.HasAVX2,
		HasASIMD: cpu.ARM64.HasASIMD,
	}
}

// Features returns the names of the detected extensions.
func (h HostFeatures) Features() []string {
	var names []string
	if h.HasBMI2 {
		names = append(names, "bmi2")
	}
	if h.HasADX {
		names = append(names, "adx")
	}
	if h.HasAVX2 {
		names = append(names, "avx2")
	}
	if h.HasASIMD {
		names = append(names, "asimd")
	}
	return names
}

func (h HostFeatures) String() string {
	feats := h.Features()
	if len(feats) == 0 {
		feats = []string{"none"}
	}
	return fmt.Sprintf("%s, %d CPUs, features: %s", h.Arch, h.NumCPU, strings.Join(feats, ","))
}
