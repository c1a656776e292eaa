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

package fir

import (
	"errors"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/ajroetker/go-dspmac/mac"
	"github.com/ajroetker/go-dspmac/mac/contrib/workerpool"
)

func TestImpulseResponse(t *testing.T) {
	coeffs := []int64{3, -7, 11, 0, 5}
	f, err := New(coeffs, Config{SampleWidth: 16, OutputWidth: 24}, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	impulse := make([]int64, 8)
	impulse[0] = 1
	got, stats := f.Process(impulse)
	want := []int64{3, -7, 11, 0, 5, 0, 0, 0}
	if !slices.Equal(got, want) {
		t.Errorf("impulse response: got %v, want %v", got, want)
	}
	if stats.Samples != 8 || stats.Overflows != 0 {
		t.Errorf("stats: got %+v", stats)
	}
}

// reference computes the filter with plain integer arithmetic.
func reference(coeffs, xs []int64, shift, outW int) ([]int64, int) {
	lo, hi := mac.MinValue(outW), mac.MaxValue(outW)
	out := make([]int64, len(xs))
	overflows := 0
	for n := range xs {
		var acc int64
		for k, c := range coeffs {
			if n-k >= 0 {
				acc += c * xs[n-k]
			}
		}
		y := (acc + 1<<(shift-1)) >> shift
		if y > hi || y < lo {
			overflows++
			y = min(max(y, lo), hi)
		}
		out[n] = y
	}
	return out, overflows
}

func TestMatchesReference(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 4))
	coeffs := make([]int64, 31)
	for i := range coeffs {
		coeffs[i] = r.Int64N(1<<15) - 1<<14
	}
	xs := make([]int64, 500)
	for i := range xs {
		xs[i] = r.Int64N(1<<16) - 1<<15
	}
	cfg := Config{
		Target:         mac.TargetDSP48E2,
		SampleWidth:    16,
		CoeffWidth:     16,
		Shift:          15,
		Round:          true,
		Clip:           true,
		ReportOverflow: true,
	}
	pool := workerpool.New(4)
	defer pool.Close()

	f, err := New(coeffs, cfg, pool)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if g := f.Layout().GuardBits(); g != 5 {
		t.Errorf("GuardBits: got %d, want 5", g)
	}
	got, stats := f.Process(xs)
	want, wantOv := reference(coeffs, xs, 15, 16)
	if !slices.Equal(got, want) {
		t.Fatalf("output mismatch:\ngot  %v\nwant %v", got[:10], want[:10])
	}
	if stats.Overflows != wantOv {
		t.Errorf("overflows: got %d, want %d", stats.Overflows, wantOv)
	}

	seq, _ := New(coeffs, cfg, nil)
	if seqOut, _ := seq.Process(xs); !slices.Equal(seqOut, got) {
		t.Error("parallel and sequential outputs differ")
	}
}

func TestClipCountsOverflows(t *testing.T) {
	f, err := New([]int64{1 << 14, 1 << 14, 1 << 14, 1 << 14}, Config{
		Shift:          14,
		Round:          true,
		Clip:           true,
		ReportOverflow: true,
	}, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	got, stats := f.Process([]int64{20000, 20000, 20000, 20000})
	want := []int64{20000, 32767, 32767, 32767}
	if !slices.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
	if stats.Overflows != 3 {
		t.Errorf("overflows: got %d, want 3", stats.Overflows)
	}
}

func TestCoeffWidth(t *testing.T) {
	tests := []struct {
		coeffs []int64
		want   int
	}{
		{[]int64{0}, 1},
		{[]int64{-1}, 1},
		{[]int64{1}, 2},
		{[]int64{127, -128}, 8},
		{[]int64{128}, 9},
		{[]int64{-32768, 100}, 16},
	}
	for _, tt := range tests {
		if got := CoeffWidth(tt.coeffs); got != tt.want {
			t.Errorf("CoeffWidth(%v): got %d, want %d", tt.coeffs, got, tt.want)
		}
	}
}

func TestQuantize(t *testing.T) {
	got := Quantize([]float64{0.5, -0.25, 0.999, 1.0 / 3}, 15)
	want := []int64{16384, -8192, 32735, 10923}
	if !slices.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestNewErrors(t *testing.T) {
	if _, err := New(nil, Config{}, nil); err == nil {
		t.Error("empty filter accepted")
	}
	if _, err := New([]int64{300}, Config{CoeffWidth: 8}, nil); !errors.Is(err, mac.ErrNotRepresentable) {
		t.Errorf("oversized coefficient: got %v", err)
	}
	if _, err := New([]int64{1}, Config{SampleWidth: 40, CoeffWidth: 30}, nil); !errors.Is(err, mac.ErrInvalidWidth) {
		t.Errorf("70-bit product: got %v", err)
	}
	if _, err := New([]int64{1}, Config{SampleWidth: -3}, nil); !errors.Is(err, mac.ErrInvalidWidth) {
		t.Errorf("negative sample width: got %v", err)
	}
}
