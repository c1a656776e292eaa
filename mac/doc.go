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

// Package mac provides a bit-exact software model of the fixed-point signed
// multiply-accumulate pipeline found in FPGA DSP slices.
//
// The model is split into three stages that run once per simulated clock
// cycle:
//
//   - GuardBits sizes the headroom above the product width so that a known
//     number of summands cannot overflow the accumulator register.
//   - Next (and the stateful Accumulator wrapper) loads or adds the new
//     term, honouring the clear/valid protocol including the pending-clear
//     bit.
//   - Finalize truncates the accumulator to its used width, optionally
//     rounds half-up and shifts right, then clips or wraps to the output
//     width and reports overflow.
//
// Configuration is validated once by Config.Elaborate. Fatal width
// violations are returned as errors; recoverable problems such as an
// under-provisioned guard-bit budget are clamped and reported as
// Diagnostics. Once elaborated, nothing in this package fails at runtime.
//
// Example usage:
//
//	acc, err := mac.New(mac.Config{
//		Target:       mac.TargetDSP48E2,
//		ProductWidth: 45, // 27x18
//		NumSummand:   16,
//		OutputWidth:  24,
//		OutputShiftRight: 17,
//		OutputRound:  true,
//		OutputClip:   true,
//		OutputOverflowReport: true,
//	})
//	if err != nil {
//		return err
//	}
//	for i, x := range products {
//		out := acc.Step(mac.Inputs{Valid: true, Clear: i == 0, Term: x})
//		_ = out
//	}
package mac
