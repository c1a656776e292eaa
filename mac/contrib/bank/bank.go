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

// Package bank steps many independent accumulators that share one
// configuration, such as the per-channel MACs of a polyphase filter or the
// output columns of a matrix-vector product.
package bank

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/ajroetker/go-dspmac/mac"
	"github.com/ajroetker/go-dspmac/mac/contrib/workerpool"
)

// Bank is a set of accumulators elaborated from one Config.
type Bank struct {
	layout *mac.Layout
	blocks []*mac.Accumulator
	pool   *workerpool.Pool
}

// New elaborates cfg once and creates n accumulators from it. Blocks are
// stepped on pool when it is non-nil.
func New(cfg mac.Config, n int, pool *workerpool.Pool) (*Bank, error) {
	if n < 1 {
		return nil, fmt.Errorf("bank: %d blocks", n)
	}
	l, err := cfg.Elaborate()
	if err != nil {
		return nil, fmt.Errorf("bank: %w", err)
	}
	return &Bank{
		layout: l,
		blocks: lo.Times(n, func(int) *mac.Accumulator { return mac.NewFromLayout(l) }),
		pool:   pool,
	}, nil
}

// Len returns the number of blocks.
func (b *Bank) Len() int { return len(b.blocks) }

// Block returns block i.
func (b *Bank) Block(i int) *mac.Accumulator { return b.blocks[i] }

// Layout returns the shared elaborated configuration.
func (b *Bank) Layout() *mac.Layout { return b.layout }

// Reset resets every block.
func (b *Bank) Reset() {
	for _, blk := range b.blocks {
		blk.Reset()
	}
}

// Step advances every block by one cycle; ins[i] drives block i and missing
// entries are idle cycles.
func (b *Bank) Step(ins []mac.Inputs) []mac.Outputs {
	outs := make([]mac.Outputs, len(b.blocks))
	b.pool.ParallelFor(len(b.blocks), func(start, end int) {
		for i := start; i < end; i++ {
			var in mac.Inputs
			if i < len(ins) {
				in = ins[i]
			}
			outs[i] = b.blocks[i].Step(in)
		}
	})
	return outs
}

// Run steps through cycles and returns the outputs of every cycle.
func (b *Bank) Run(cycles [][]mac.Inputs) [][]mac.Outputs {
	return lo.Map(cycles, func(ins []mac.Inputs, _ int) []mac.Outputs {
		return b.Step(ins)
	})
}

// Overflows counts the valid outputs that reported overflow. A stalled cycle
// repeats the previous outputs, so it is counted again; use stimulus.Tally
// to count only the cycles that produced a new result.
func Overflows(outs []mac.Outputs) int {
	return lo.CountBy(outs, func(o mac.Outputs) bool { return o.ResultValid && o.Overflow })
}
