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

// Package term builds the terms fed into an accumulator: plain products,
// preadder products, sums of products and complex products.
//
// Every builder returns a full-precision result whose width is the exact
// worst-case width of the operation, which is the value to use for
// mac.Config.ProductWidth. Results wider than mac.MaxWidth are rejected.
package term

import (
	"errors"
	"fmt"
	"math/bits"

	"github.com/ajroetker/go-dspmac/mac"
)

// ErrTooWide is returned when a result would exceed mac.MaxWidth bits.
var ErrTooWide = errors.New("term: result wider than accumulator model")

// ProductWidth returns the width of a signed aw x bw product.
func ProductWidth(aw, bw int) int { return aw + bw }

// PreAddWidth returns the width of a ± d for operands of width aw and dw.
func PreAddWidth(aw, dw int) int { return max(aw, dw) + 1 }

// PreAddProductWidth returns the width of (a ± d) * b.
func PreAddProductWidth(aw, dw, bw int) int { return PreAddWidth(aw, dw) + bw }

// SumWidth returns the width of the sum of n values of width w.
func SumWidth(w, n int) int {
	if n <= 1 {
		return w
	}
	return w + bits.Len(uint(n-1))
}

// ComplexProductWidth returns the width of the real or imaginary part of
// a complex product with component widths aw and bw.
func ComplexProductWidth(aw, bw int) int { return aw + bw + 1 }

func checked(v int64, w int) (mac.Fixed, error) {
	if w > mac.MaxWidth {
		return mac.Fixed{}, fmt.Errorf("%w: %d bits", ErrTooWide, w)
	}
	return mac.NewFixed(v, w)
}

// Mult returns a*b at full precision.
func Mult(a, b mac.Fixed) (mac.Fixed, error) {
	return checked(a.Int64()*b.Int64(), ProductWidth(a.Width(), b.Width()))
}

// PreAdd returns a+d, or a-d when negate is set.
func PreAdd(a, d mac.Fixed, negate bool) (mac.Fixed, error) {
	v := a.Int64() + d.Int64()
	if negate {
		v = a.Int64() - d.Int64()
	}
	return checked(v, PreAddWidth(a.Width(), d.Width()))
}

// PreAddMult returns (a ± d) * b.
func PreAddMult(a, d, b mac.Fixed, negate bool) (mac.Fixed, error) {
	p, err := PreAdd(a, d, negate)
	if err != nil {
		return mac.Fixed{}, err
	}
	return Mult(p, b)
}

// Sum adds terms with enough growth bits that no combination of inputs can
// overflow. The width is derived from the widest term.
func Sum(terms ...mac.Fixed) (mac.Fixed, error) {
	if len(terms) == 0 {
		return mac.Fixed{}, errors.New("term: empty sum")
	}
	var v int64
	w := 0
	for _, t := range terms {
		v += t.Int64()
		w = max(w, t.Width())
	}
	return checked(v, SumWidth(w, len(terms)))
}

// DotProduct returns sum(a[i]*b[i]). Both slices must have the same length.
func DotProduct(a, b []mac.Fixed) (mac.Fixed, error) {
	if len(a) != len(b) {
		return mac.Fixed{}, fmt.Errorf("term: dot product of %d and %d elements", len(a), len(b))
	}
	products := make([]mac.Fixed, len(a))
	for i := range a {
		p, err := Mult(a[i], b[i])
		if err != nil {
			return mac.Fixed{}, err
		}
		products[i] = p
	}
	return Sum(products...)
}

func componentWidths(ar, ai, br, bi mac.Fixed) (aw, bw int) {
	return max(ar.Width(), ai.Width()), max(br.Width(), bi.Width())
}

// ComplexMult returns (ar + j*ai) * (br + j*bi) using four multipliers:
//
//	re = ar*br - ai*bi
//	im = ar*bi + ai*br
func ComplexMult(ar, ai, br, bi mac.Fixed) (re, im mac.Fixed, err error) {
	aw, bw := componentWidths(ar, ai, br, bi)
	w := ComplexProductWidth(aw, bw)
	re, err = checked(ar.Int64()*br.Int64()-ai.Int64()*bi.Int64(), w)
	if err != nil {
		return mac.Fixed{}, mac.Fixed{}, err
	}
	im, err = checked(ar.Int64()*bi.Int64()+ai.Int64()*br.Int64(), w)
	if err != nil {
		return mac.Fixed{}, mac.Fixed{}, err
	}
	return re, im, nil
}

// ComplexMult3 computes the same product as ComplexMult with three
// multipliers, sharing one preadder product between both parts:
//
//	k1 = br*(ar+ai)
//	re = k1 - ai*(br+bi)
//	im = k1 + ar*(bi-br)
//
// The intermediate sums are one bit wider than ComplexMult's products but
// the results are bit-identical. Intermediates use wrapping int64
// arithmetic, which is exact because the true results fit.
func ComplexMult3(ar, ai, br, bi mac.Fixed) (re, im mac.Fixed, err error) {
	aw, bw := componentWidths(ar, ai, br, bi)
	w := ComplexProductWidth(aw, bw)
	if w > mac.MaxWidth {
		return mac.Fixed{}, mac.Fixed{}, fmt.Errorf("%w: %d bits", ErrTooWide, w)
	}
	a, b, c, d := ar.Int64(), ai.Int64(), br.Int64(), bi.Int64()
	k1 := c * (a + b)
	k2 := a * (d - c)
	k3 := b * (c + d)
	re, err = mac.NewFixed(k1-k3, w)
	if err != nil {
		return mac.Fixed{}, mac.Fixed{}, err
	}
	im, err = mac.NewFixed(k1+k2, w)
	if err != nil {
		return mac.Fixed{}, mac.Fixed{}, err
	}
	return re, im, nil
}
