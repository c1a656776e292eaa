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
	"strconv"
)

// MaxWidth is the widest two's-complement value the model carries. It covers
// the accumulator registers of every supported target.
const MaxWidth = 64

// Fixed is a signed two's-complement integer of a declared bit width.
// The stored value is always sign-extended and lies in
// [MinValue(width), MaxValue(width)].
//
// The zero Fixed is the value 0 with width 0; it behaves as 0 wherever it is
// added to another value, which makes it a usable default for optional
// inputs such as Inputs.ChainIn.
type Fixed struct {
	v int64
	w int
}

// NewFixed returns v as a Fixed of width w. It fails if w is outside
// [1, MaxWidth] or v is not representable in w bits.
func NewFixed(v int64, w int) (Fixed, error) {
	if w < 1 || w > MaxWidth {
		return Fixed{}, fmt.Errorf("mac: width %d: %w", w, ErrInvalidWidth)
	}
	if !Fits(v, w) {
		return Fixed{}, fmt.Errorf("mac: %d does not fit in %d bits: %w", v, w, ErrNotRepresentable)
	}
	return Fixed{v: v, w: w}, nil
}

// MustFixed is like NewFixed but panics on error. Intended for constants
// and tests.
func MustFixed(v int64, w int) Fixed {
	f, err := NewFixed(v, w)
	if err != nil {
		panic(err)
	}
	return f
}

// Zero returns the value 0 with width w.
func Zero(w int) Fixed {
	checkWidth(w)
	return Fixed{w: w}
}

// Wrap truncates v to its low w bits and sign-extends the result, i.e.
// two's-complement wrap-around. It panics if w is outside [1, MaxWidth].
func Wrap(v int64, w int) Fixed {
	checkWidth(w)
	return Fixed{v: signExtend(v, w), w: w}
}

// Saturate returns v clamped to the range of w bits, and whether clamping
// changed the value.
func Saturate(v int64, w int) (Fixed, bool) {
	checkWidth(w)
	switch lo, hi := MinValue(w), MaxValue(w); {
	case v > hi:
		return Fixed{v: hi, w: w}, true
	case v < lo:
		return Fixed{v: lo, w: w}, true
	}
	return Fixed{v: v, w: w}, false
}

// MinValue returns the most negative value representable in w bits.
func MinValue(w int) int64 {
	if w >= MaxWidth {
		return -1 << (MaxWidth - 1)
	}
	return -(int64(1) << (w - 1))
}

// MaxValue returns the most positive value representable in w bits.
func MaxValue(w int) int64 {
	if w >= MaxWidth {
		return 1<<(MaxWidth-1) - 1
	}
	return int64(1)<<(w-1) - 1
}

// Fits reports whether v is representable as a w-bit signed integer.
func Fits(v int64, w int) bool {
	if w >= MaxWidth {
		return true
	}
	if w < 1 {
		return false
	}
	return signExtend(v, w) == v
}

// Int64 returns the value.
func (f Fixed) Int64() int64 { return f.v }

// Width returns the declared bit width.
func (f Fixed) Width() int { return f.w }

// Bits returns the raw w-bit two's-complement pattern, zero-extended.
func (f Fixed) Bits() uint64 {
	if f.w >= MaxWidth {
		return uint64(f.v)
	}
	return uint64(f.v) & (uint64(1)<<f.w - 1)
}

// Resize returns f at width w. Widening sign-extends; narrowing wraps.
func (f Fixed) Resize(w int) Fixed {
	return Wrap(f.v, w)
}

// Saturate returns f clamped to width w and whether clamping occurred.
func (f Fixed) Saturate(w int) (Fixed, bool) {
	return Saturate(f.v, w)
}

// Negative reports whether the sign bit is set.
func (f Fixed) Negative() bool { return f.v < 0 }

// Equal reports whether f and o have the same value and width.
func (f Fixed) Equal(o Fixed) bool {
	return f.v == o.v && f.w == o.w
}

// String formats f as "<value>/s<width>", e.g. "-3/s18".
func (f Fixed) String() string {
	return strconv.FormatInt(f.v, 10) + "/s" + strconv.Itoa(f.w)
}

// signExtend treats the low w bits of v as a w-bit signed integer.
func signExtend(v int64, w int) int64 {
	if w >= MaxWidth {
		return v
	}
	s := MaxWidth - w
	return v << s >> s
}

func checkWidth(w int) {
	if w < 1 || w > MaxWidth {
		panic(fmt.Sprintf("mac: width %d out of range [1, %d]", w, MaxWidth))
	}
}
