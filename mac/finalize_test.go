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
	"testing"
)

func mustLayout(t *testing.T, cfg Config) *Layout {
	t.Helper()
	l, err := cfg.Elaborate()
	if err != nil {
		t.Fatalf("Elaborate(%+v): %v", cfg, err)
	}
	return l
}

func TestFinalizeIdentityWithoutShift(t *testing.T) {
	l := mustLayout(t, Config{ProductWidth: 36, NumSummand: 4, OutputWidth: 38, OutputClip: true, OutputOverflowReport: true})
	for _, v := range []int64{0, 1, -1, 85, -85, MaxValue(38), MinValue(38), 123456789, -987654321} {
		got, ov := Finalize(MustFixed(v, 64), l)
		if want := MustFixed(v, 64).Resize(38); !got.Equal(want) || ov {
			t.Errorf("Finalize(%d): got %s, %v; want %s, false", v, got, ov, want)
		}
	}
}

func TestFinalizeRoundHalfUp(t *testing.T) {
	for s := 1; s <= 8; s++ {
		l := mustLayout(t, Config{ProductWidth: 24, NumSummand: 1, OutputWidth: 24 - s, OutputShiftRight: s, OutputRound: true})
		for k := int64(-20); k <= 20; k++ {
			mid := k<<s + 1<<(s-1)
			got, _ := Finalize(MustFixed(mid, 64), l)
			if got.Int64() != k+1 {
				t.Errorf("shift %d: Finalize(%d) = %d, want %d", s, mid, got.Int64(), k+1)
			}
			below := mid - 1
			if got, _ := Finalize(MustFixed(below, 64), l); got.Int64() != k {
				t.Errorf("shift %d: Finalize(%d) = %d, want %d", s, below, got.Int64(), k)
			}
		}
	}
}

func TestFinalizeRoundingExample(t *testing.T) {
	l := mustLayout(t, Config{ProductWidth: 16, NumSummand: 1, OutputWidth: 15, OutputShiftRight: 1, OutputRound: true})
	if got, _ := Finalize(MustFixed(17, 64), l); got.Int64() != 9 {
		t.Errorf("round(17 >> 1): got %d, want 9", got.Int64())
	}

	l = mustLayout(t, Config{ProductWidth: 16, NumSummand: 1, OutputWidth: 15, OutputShiftRight: 1})
	if got, _ := Finalize(MustFixed(17, 64), l); got.Int64() != 8 {
		t.Errorf("17 >> 1 without rounding: got %d, want 8", got.Int64())
	}
}

func TestFinalizeSaturation(t *testing.T) {
	l := mustLayout(t, Config{ProductWidth: 32, NumSummand: 1, OutputWidth: 16, OutputShiftRight: 4, OutputClip: true, OutputOverflowReport: true})
	tests := []struct {
		v    int64
		want int64
		ov   bool
	}{
		{MaxValue(16) << 4, MaxValue(16), false},
		{(MaxValue(16) + 1) << 4, MaxValue(16), true},
		{MaxValue(32), MaxValue(16), true},
		{MinValue(16) << 4, MinValue(16), false},
		{(MinValue(16) - 1) << 4, MinValue(16), true},
		{MinValue(32), MinValue(16), true},
	}
	for _, tt := range tests {
		got, ov := Finalize(MustFixed(tt.v, 64), l)
		if got.Int64() != tt.want || ov != tt.ov {
			t.Errorf("Finalize(%d): got %d, %v; want %d, %v", tt.v, got.Int64(), ov, tt.want, tt.ov)
		}
	}
}

func TestFinalizeRoundAcrossBound(t *testing.T) {
	cfg := Config{ProductWidth: 16, NumSummand: 1, OutputWidth: 12, OutputShiftRight: 4, OutputClip: true, OutputOverflowReport: true}
	v := MustFixed(0x7ff8, 64)

	got, ov := Finalize(v, mustLayout(t, cfg))
	if got.Int64() != 2047 || ov {
		t.Errorf("unrounded: got %d, %v; want 2047, false", got.Int64(), ov)
	}

	cfg.OutputRound = true
	got, ov = Finalize(v, mustLayout(t, cfg))
	if got.Int64() != 2047 || !ov {
		t.Errorf("rounded: got %d, %v; want 2047, true", got.Int64(), ov)
	}

	cfg.OutputClip = false
	got, ov = Finalize(v, mustLayout(t, cfg))
	if got.Int64() != -2048 || !ov {
		t.Errorf("rounded, wrapped: got %d, %v; want -2048, true", got.Int64(), ov)
	}
}

func TestFinalizeOverflowReportDisabled(t *testing.T) {
	l := mustLayout(t, Config{ProductWidth: 16, NumSummand: 1, OutputWidth: 8, OutputClip: true})
	got, ov := Finalize(MustFixed(1000, 64), l)
	if got.Int64() != 127 || ov {
		t.Errorf("got %d, %v; want 127, false", got.Int64(), ov)
	}
}

func TestFinalizeWrapReportsOverflow(t *testing.T) {
	l := mustLayout(t, Config{ProductWidth: 16, NumSummand: 1, OutputWidth: 8, OutputOverflowReport: true})
	got, ov := Finalize(MustFixed(300, 64), l)
	if got.Int64() != 44 || !ov {
		t.Errorf("got %d, %v; want 44, true", got.Int64(), ov)
	}
}

func TestFinalizeDropsBitsAboveUsedWidth(t *testing.T) {
	l := mustLayout(t, Config{ProductWidth: 36, NumSummand: 4, OutputWidth: 38})
	got, _ := Finalize(MustFixed(1<<40+5, 64), l)
	if got.Int64() != 5 {
		t.Errorf("got %d, want 5", got.Int64())
	}
	got, _ = Finalize(MustFixed(1<<40-3, 64), l)
	if got.Int64() != -3 {
		t.Errorf("got %d, want -3", got.Int64())
	}
}

// refFinalize is a slow reference built from floor division and modular
// arithmetic, valid while every intermediate fits in an int64.
func refFinalize(v int64, used, shift, out int, round, clip, report bool) (int64, bool) {
	m := int64(1) << used
	if v = ((v % m) + m) % m; v >= m/2 {
		v -= m
	}
	if round && shift > 0 {
		v += 1 << (shift - 1)
	}
	d := int64(1) << shift
	q := v / d
	if v%d != 0 && v < 0 {
		q--
	}
	lo, hi := -(int64(1) << (out - 1)), int64(1)<<(out-1)-1
	overflow := q < lo || q > hi
	switch {
	case clip && q > hi:
		q = hi
	case clip && q < lo:
		q = lo
	case !clip:
		mo := int64(1) << out
		q = ((q-lo)%mo+mo)%mo + lo
	}
	return q, overflow && report
}

func TestFinalizeExhaustive(t *testing.T) {
	const prod, n = 8, 4 // guard 2, used 10
	for shift := 0; shift <= 4; shift++ {
		for out := 1; out <= 10-shift; out++ {
			for mode := 0; mode < 8; mode++ {
				round, clip, report := mode&1 != 0, mode&2 != 0, mode&4 != 0
				cfg := Config{
					AccumulatorWidth:     16,
					ProductWidth:         prod,
					NumSummand:           n,
					OutputWidth:          out,
					OutputShiftRight:     shift,
					OutputRound:          round,
					OutputClip:           clip,
					OutputOverflowReport: report,
				}
				l := mustLayout(t, cfg)
				name := fmt.Sprintf("shift=%d out=%d round=%v clip=%v report=%v", shift, out, round, clip, report)
				for v := MinValue(10); v <= MaxValue(10); v++ {
					got, ov := Finalize(MustFixed(v, 16), l)
					want, wantOv := refFinalize(v, 10, shift, out, round, clip, report)
					if got.Int64() != want || ov != wantOv || got.Width() != out {
						t.Fatalf("%s: Finalize(%d) = %s, %v; want %d, %v", name, v, got, ov, want, wantOv)
					}
				}
			}
		}
	}
}
