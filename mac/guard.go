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

import "math/bits"

// GuardBits returns the number of bits needed above productWidth so that
// numSummand products can be summed without overflowing the accumulator.
//
// A numSummand of 0 means the count is unknown and every spare accumulator
// bit is used. Otherwise the result is ceil(log2(numSummand)), which is 0 for
// a single summand. When that exceeds accumulatorWidth-productWidth the
// result is clamped to the budget and clamped is true; callers are expected
// to surface it as a warning rather than reject the configuration.
//
// Negative numSummand is treated like 0.
func GuardBits(numSummand, accumulatorWidth, productWidth int) (guard int, clamped bool) {
	budget := max(accumulatorWidth-productWidth, 0)
	if numSummand <= 0 {
		return budget, false
	}
	guard = ceilLog2(numSummand)
	if guard > budget {
		return budget, true
	}
	return guard, false
}

// MaxSummands returns the largest summand count whose guard bits fit in the
// budget left by productWidth. It saturates at the largest int.
func MaxSummands(accumulatorWidth, productWidth int) int {
	budget := max(accumulatorWidth-productWidth, 0)
	if budget >= bits.UintSize-1 {
		return int(^uint(0) >> 1)
	}
	return 1 << budget
}

// ceilLog2 returns ceil(log2(n)) for n >= 1.
func ceilLog2(n int) int {
	return bits.Len(uint(n - 1))
}
