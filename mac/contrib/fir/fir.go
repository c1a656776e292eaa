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

// Package fir implements a direct-form FIR filter on top of the MAC model.
//
// Each output sample is one accumulation run of len(coeffs) products,
// restarted with Clear on the first tap, so the filter output is bit-exact
// with a DSP-slice implementation that uses the same mac.Config.
package fir

import (
	"errors"
	"fmt"
	"math"

	"github.com/samber/lo"

	"github.com/ajroetker/go-dspmac/mac"
	"github.com/ajroetker/go-dspmac/mac/contrib/term"
	"github.com/ajroetker/go-dspmac/mac/contrib/workerpool"
)

// Config describes the number formats of a filter.
type Config struct {
	Target mac.Target

	// SampleWidth is the input sample width. Defaults to 16.
	SampleWidth int

	// CoeffWidth is the coefficient width. Zero derives the narrowest
	// width that holds every coefficient.
	CoeffWidth int

	// OutputWidth defaults to SampleWidth.
	OutputWidth int

	// Shift, Round, Clip and ReportOverflow map onto the accumulator's
	// output stage.
	Shift          int
	Round          bool
	Clip           bool
	ReportOverflow bool
}

// Stats summarises one Process call.
type Stats struct {
	Samples   int
	Overflows int
}

// Filter is an immutable FIR filter. Process may be called concurrently.
type Filter struct {
	coeffs      []mac.Fixed
	sampleWidth int
	layout      *mac.Layout
	pool        *workerpool.Pool
}

// New builds a filter. pool may be nil for single-goroutine processing.
func New(coeffs []int64, cfg Config, pool *workerpool.Pool) (*Filter, error) {
	if len(coeffs) == 0 {
		return nil, errors.New("fir: no coefficients")
	}
	if cfg.SampleWidth == 0 {
		cfg.SampleWidth = 16
	}
	if cfg.SampleWidth < 1 || cfg.SampleWidth > mac.MaxWidth {
		return nil, fmt.Errorf("fir: sample width %d: %w", cfg.SampleWidth, mac.ErrInvalidWidth)
	}
	if cfg.CoeffWidth == 0 {
		cfg.CoeffWidth = CoeffWidth(coeffs)
	}
	if cfg.OutputWidth == 0 {
		cfg.OutputWidth = cfg.SampleWidth
	}

	f := &Filter{sampleWidth: cfg.SampleWidth, pool: pool}
	for i, c := range coeffs {
		fc, err := mac.NewFixed(c, cfg.CoeffWidth)
		if err != nil {
			return nil, fmt.Errorf("fir: coefficient %d: %w", i, err)
		}
		f.coeffs = append(f.coeffs, fc)
	}

	l, err := mac.Config{
		Target:               cfg.Target,
		ProductWidth:         term.ProductWidth(cfg.SampleWidth, cfg.CoeffWidth),
		NumSummand:           len(coeffs),
		OutputWidth:          cfg.OutputWidth,
		OutputShiftRight:     cfg.Shift,
		OutputRound:          cfg.Round,
		OutputClip:           cfg.Clip,
		OutputOverflowReport: cfg.ReportOverflow,
	}.Elaborate()
	if err != nil {
		return nil, fmt.Errorf("fir: %w", err)
	}
	f.layout = l
	return f, nil
}

// Taps returns the number of coefficients.
func (f *Filter) Taps() int { return len(f.coeffs) }

// Layout returns the accumulator configuration used per output sample.
func (f *Filter) Layout() *mac.Layout { return f.layout }

// Diagnostics returns the accumulator's elaboration warnings.
func (f *Filter) Diagnostics() []mac.Diagnostic { return f.layout.Diagnostics() }

// Process filters samples, treating samples before the start as zero.
// Samples wider than SampleWidth are wrapped.
func (f *Filter) Process(samples []int64) ([]int64, Stats) {
	xs := lo.Map(samples, func(s int64, _ int) mac.Fixed { return mac.Wrap(s, f.sampleWidth) })
	out := make([]int64, len(xs))
	overflow := make([]bool, len(xs))

	f.pool.ParallelFor(len(xs), func(start, end int) {
		acc := mac.NewFromLayout(f.layout)
		for n := start; n < end; n++ {
			var o mac.Outputs
			for k, c := range f.coeffs {
				x := mac.Zero(f.sampleWidth)
				if n-k >= 0 {
					x = xs[n-k]
				}
				p, _ := term.Mult(x, c) // width checked in New
				o = acc.Step(mac.Inputs{Valid: true, Clear: k == 0, Term: p})
			}
			out[n] = o.Result.Int64()
			overflow[n] = o.Overflow
		}
	})

	return out, Stats{Samples: len(xs), Overflows: lo.Count(overflow, true)}
}

// CoeffWidth returns the narrowest signed width holding every coefficient.
func CoeffWidth(coeffs []int64) int {
	return lo.Max(lo.Map(coeffs, func(c int64, _ int) int { return signedWidth(c) }))
}

func signedWidth(v int64) int {
	for w := 1; w < mac.MaxWidth; w++ {
		if mac.Fits(v, w) {
			return w
		}
	}
	return mac.MaxWidth
}

// Quantize converts real-valued taps to fixed point with fracBits fractional
// bits, rounding to nearest.
func Quantize(taps []float64, fracBits int) []int64 {
	scale := math.Ldexp(1, fracBits)
	return lo.Map(taps, func(t float64, _ int) int64 { return int64(math.Round(t * scale)) })
}
