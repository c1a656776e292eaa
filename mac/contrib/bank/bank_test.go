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

package bank

import (
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ajroetker/go-dspmac/mac"
	"github.com/ajroetker/go-dspmac/mac/contrib/workerpool"
)

func bankConfig() mac.Config {
	return mac.Config{
		Target:               mac.TargetDSP58,
		ProductWidth:         42,
		NumSummand:           32,
		OutputWidth:          24,
		OutputShiftRight:     16,
		OutputRound:          true,
		OutputClip:           true,
		OutputOverflowReport: true,
	}
}

func randomStream(seed uint64, cycles, blocks int) [][]mac.Inputs {
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	stream := make([][]mac.Inputs, cycles)
	for c := range stream {
		stream[c] = make([]mac.Inputs, blocks)
		for i := range stream[c] {
			stream[c][i] = mac.Inputs{
				Valid: r.IntN(4) != 0,
				Clear: c%32 == 0 || r.IntN(40) == 0,
				Stall: r.IntN(16) == 0,
				Term:  mac.Wrap(r.Int64(), 42),
			}
		}
	}
	return stream
}

func TestBankMatchesIndividualAccumulators(t *testing.T) {
	pool := workerpool.New(4)
	defer pool.Close()

	const blocks, cycles = 16, 200
	b, err := New(bankConfig(), blocks, pool)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	stream := randomStream(7, cycles, blocks)
	got := b.Run(stream)

	for i := range blocks {
		acc, err := mac.New(bankConfig())
		if err != nil {
			t.Fatalf("mac.New: %v", err)
		}
		for c := range cycles {
			want := acc.Step(stream[c][i])
			if diff := cmp.Diff(want, got[c][i]); diff != "" {
				t.Fatalf("block %d cycle %d (-want +got):\n%s", i, c, diff)
			}
		}
	}
}

func TestBankShortInputsAreIdle(t *testing.T) {
	b, err := New(bankConfig(), 3, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	outs := b.Step([]mac.Inputs{{Valid: true, Clear: true, Term: mac.MustFixed(1<<16, 42)}})
	if !outs[0].ResultValid || outs[0].Result.Int64() != 1 {
		t.Errorf("block 0: got %+v", outs[0])
	}
	if outs[1].ResultValid || outs[2].ResultValid {
		t.Errorf("blocks without inputs produced valid results")
	}
}

func TestBankReset(t *testing.T) {
	b, _ := New(bankConfig(), 2, nil)
	b.Step([]mac.Inputs{{Valid: true, Clear: true, Term: mac.MustFixed(5, 42)}})
	b.Reset()
	if got := b.Block(0).Value().Int64(); got != 0 {
		t.Errorf("after Reset: got %d", got)
	}
	if b.Len() != 2 || b.Layout().GuardBits() != 5 {
		t.Errorf("Len %d GuardBits %d", b.Len(), b.Layout().GuardBits())
	}
}

func TestOverflows(t *testing.T) {
	outs := []mac.Outputs{
		{ResultValid: true, Overflow: true},
		{ResultValid: false, Overflow: true},
		{ResultValid: true},
		{ResultValid: true, Overflow: true},
	}
	if got := Overflows(outs); got != 2 {
		t.Errorf("Overflows: got %d, want 2", got)
	}
}

func TestNewErrors(t *testing.T) {
	if _, err := New(bankConfig(), 0, nil); err == nil {
		t.Error("zero blocks accepted")
	}
	cfg := bankConfig()
	cfg.OutputWidth = 40
	if _, err := New(cfg, 2, nil); err == nil {
		t.Error("invalid config accepted")
	}
}
