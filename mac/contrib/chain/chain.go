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

// Package chain models accumulators cascaded through their chain ports.
//
// Stage i's ChainOut registered at cycle t-1 is stage i+1's ChainIn at cycle
// t, exactly like the PCOUT->PCIN cascade of adjacent DSP slices. Data flows
// one way from stage 0 to the last stage, so a chain can never form a loop,
// and since every stage reads only the previous cycle's values the stages
// can be stepped in any order (or in parallel) within a cycle.
package chain

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/ajroetker/go-dspmac/mac"
	"github.com/ajroetker/go-dspmac/mac/contrib/workerpool"
)

// Chain is an ordered cascade of accumulators.
type Chain struct {
	stages []*mac.Accumulator
	prev   []mac.Fixed
	pool   *workerpool.Pool
}

// New builds one stage per config, stage 0 first. Stages may use different
// targets and widths; chain values are sign-extended or wrapped to the
// receiving stage's accumulator width.
func New(cfgs ...mac.Config) (*Chain, error) {
	if len(cfgs) == 0 {
		return nil, fmt.Errorf("chain: no stages")
	}
	c := &Chain{}
	for i, cfg := range cfgs {
		acc, err := mac.New(cfg)
		if err != nil {
			return nil, fmt.Errorf("chain: stage %d: %w", i, err)
		}
		c.stages = append(c.stages, acc)
	}
	c.Reset()
	return c, nil
}

// NewUniform builds n identical stages.
func NewUniform(cfg mac.Config, n int) (*Chain, error) {
	if n < 1 {
		return nil, fmt.Errorf("chain: %d stages", n)
	}
	return New(lo.Times(n, func(int) mac.Config { return cfg })...)
}

// SetPool makes Step evaluate stages on pool. A nil pool steps them on the
// calling goroutine.
func (c *Chain) SetPool(pool *workerpool.Pool) { c.pool = pool }

// Len returns the number of stages.
func (c *Chain) Len() int { return len(c.stages) }

// Stage returns stage i.
func (c *Chain) Stage(i int) *mac.Accumulator { return c.stages[i] }

// Diagnostics returns the elaboration warnings of every stage, prefixed with
// the stage index.
func (c *Chain) Diagnostics() []mac.Diagnostic {
	return lo.FlatMap(c.stages, func(acc *mac.Accumulator, i int) []mac.Diagnostic {
		return lo.Map(acc.Diagnostics(), func(d mac.Diagnostic, _ int) mac.Diagnostic {
			d.Message = fmt.Sprintf("stage %d: %s", i, d.Message)
			return d
		})
	})
}

// Reset resets every stage and clears the chain registers.
func (c *Chain) Reset() {
	c.prev = make([]mac.Fixed, len(c.stages))
	for i, s := range c.stages {
		s.Reset()
		c.prev[i] = s.Value()
	}
}

// Step advances every stage by one cycle. ins[i] drives stage i; missing
// entries are idle cycles. The ChainIn of stage 0 is taken from ins[0]; for
// later stages it is overridden by the upstream stage's previous ChainOut.
func (c *Chain) Step(ins []mac.Inputs) []mac.Outputs {
	outs := make([]mac.Outputs, len(c.stages))
	c.pool.ParallelFor(len(c.stages), func(start, end int) {
		for i := start; i < end; i++ {
			var in mac.Inputs
			if i < len(ins) {
				in = ins[i]
			}
			if i > 0 {
				in.ChainIn = c.prev[i-1]
			}
			outs[i] = c.stages[i].Step(in)
		}
	})
	for i := range outs {
		c.prev[i] = outs[i].ChainOut
	}
	return outs
}

// Run steps through cycles and returns the outputs of every cycle.
func (c *Chain) Run(cycles [][]mac.Inputs) [][]mac.Outputs {
	return lo.Map(cycles, func(ins []mac.Inputs, _ int) []mac.Outputs {
		return c.Step(ins)
	})
}

// Skew delays the inputs of stage i by i cycles, turning per-sample input
// rows into the staggered schedule a systolic cascade needs. The result has
// len(rows)+stages-1 cycles; padding cycles are idle.
func Skew(rows [][]mac.Inputs, stages int) [][]mac.Inputs {
	if len(rows) == 0 {
		return nil
	}
	out := make([][]mac.Inputs, len(rows)+stages-1)
	for t := range out {
		out[t] = make([]mac.Inputs, stages)
	}
	for t, row := range rows {
		for i := 0; i < stages && i < len(row); i++ {
			out[t+i][i] = row[i]
		}
	}
	return out
}
