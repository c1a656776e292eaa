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

// Finalize converts a raw accumulator value into the output word described
// by l and reports overflow.
//
// The steps are, in order:
//  1. keep the low UsedWidth bits (the guard bits make the discarded high
//     bits pure sign extension),
//  2. if OutputShiftRight > 0 and OutputRound is set, add 1<<(shift-1),
//  3. arithmetic shift right by OutputShiftRight,
//  4. saturate to OutputWidth when OutputClip is set, wrap otherwise.
//
// Rounding happens before the range check, so a value that rounds across the
// output bound is reported as overflow. Overflow is always false when
// OutputOverflowReport is disabled.
func Finalize(acc Fixed, l *Layout) (result Fixed, overflow bool) {
	cfg := &l.cfg
	shifted := roundShift(signExtend(acc.v, l.usedWidth), cfg.OutputShiftRight, cfg.OutputRound)

	outOfRange := !Fits(shifted, cfg.OutputWidth)
	if cfg.OutputClip {
		result, _ = Saturate(shifted, cfg.OutputWidth)
	} else {
		result = Wrap(shifted, cfg.OutputWidth)
	}
	return result, outOfRange && cfg.OutputOverflowReport
}

// roundShift computes (v + round*2^(s-1)) >> s without needing a carry bit
// above v: adding half an LSB and flooring equals flooring and then adding
// bit s-1 of v.
func roundShift(v int64, s int, round bool) int64 {
	if s == 0 {
		return v
	}
	q := v >> s
	if round {
		q += (v >> (s - 1)) & 1
	}
	return q
}
