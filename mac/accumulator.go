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

// Inputs is the per-cycle stimulus of one accumulator.
type Inputs struct {
	// Valid marks Term as a real sample for this cycle.
	Valid bool

	// Clear restarts accumulation. With Valid low it only arms the
	// pending-clear bit; the next valid cycle restarts.
	Clear bool

	// Term is the product or sum of products to fold in. It is
	// sign-extended (or wrapped) to the accumulator width.
	Term Fixed

	// ChainIn is a partial sum from an upstream block. It is added on the
	// restart cycle, or on every valid cycle with Config.ChainAccumulate.
	ChainIn Fixed

	// Stall models a low clock enable: the cycle is skipped, state and
	// outputs are unchanged.
	Stall bool
}

// Outputs is the per-cycle result of one accumulator.
type Outputs struct {
	ResultValid bool
	Result      Fixed
	Overflow    bool

	// ChainOut is the full-width accumulator, for cascading into a
	// downstream block on the next cycle.
	ChainOut Fixed
}

// State is the registered state of an accumulator. It is a plain value: Next
// never aliases the State passed in.
type State struct {
	Value        Fixed
	ClearPending bool

	// Out holds the last registered outputs, repeated on stalled cycles.
	Out Outputs
}

// ResetState returns the state of an accumulator right after reset.
func ResetState(l *Layout) State {
	return State{
		Value: Zero(l.cfg.AccumulatorWidth),
		Out: Outputs{
			Result:   Zero(l.cfg.OutputWidth),
			ChainOut: Zero(l.cfg.AccumulatorWidth),
		},
	}
}

// Next is the pure transition function of the accumulator: it returns the
// state after one clock edge with the given inputs and the outputs registered
// on that edge.
//
//	clear/pending  valid   action
//	  1 / -          0     hold, arm pending clear
//	  0 / 1          0     hold, pending clear stays armed
//	  1 / -  or - / 1  1   restart: value = term + chainIn
//	  0 / 0          1     proceed: value += term (+ chainIn if ChainAccumulate)
//	  0 / 0          0     hold
//
// All sums wrap at the accumulator width, as the register does.
func Next(l *Layout, s State, in Inputs) (State, Outputs) {
	if in.Stall {
		return s, s.Out
	}
	cfg := &l.cfg
	next := s

	switch {
	case in.Valid && (in.Clear || s.ClearPending):
		next.Value = Wrap(in.Term.v+in.ChainIn.v, cfg.AccumulatorWidth)
		next.ClearPending = false
	case in.Valid:
		sum := s.Value.v + in.Term.v
		if cfg.ChainAccumulate {
			sum += in.ChainIn.v
		}
		next.Value = Wrap(sum, cfg.AccumulatorWidth)
	case in.Clear:
		next.ClearPending = true
	}

	out := Outputs{
		Result:   s.Out.Result,
		ChainOut: next.Value,
	}
	if in.Valid {
		out.ResultValid = true
		out.Result, out.Overflow = Finalize(next.Value, l)
	}
	next.Out = out
	return next, out
}

// Accumulator is a stateful wrapper around Next for one block.
type Accumulator struct {
	layout *Layout
	state  State
}

// New elaborates cfg and returns an accumulator in its reset state.
func New(cfg Config) (*Accumulator, error) {
	l, err := cfg.Elaborate()
	if err != nil {
		return nil, err
	}
	return NewFromLayout(l), nil
}

// NewFromLayout returns an accumulator for an already elaborated layout.
// Several accumulators may share one Layout.
func NewFromLayout(l *Layout) *Accumulator {
	return &Accumulator{layout: l, state: ResetState(l)}
}

// Step advances the accumulator by one clock cycle.
func (a *Accumulator) Step(in Inputs) Outputs {
	var out Outputs
	a.state, out = Next(a.layout, a.state, in)
	return out
}

// Run steps through ins and returns one Outputs per cycle.
func (a *Accumulator) Run(ins []Inputs) []Outputs {
	outs := make([]Outputs, len(ins))
	for i, in := range ins {
		outs[i] = a.Step(in)
	}
	return outs
}

// Reset returns the accumulator to its reset state.
func (a *Accumulator) Reset() {
	a.state = ResetState(a.layout)
}

// State returns a copy of the current state.
func (a *Accumulator) State() State { return a.state }

// Value returns the current raw accumulator value.
func (a *Accumulator) Value() Fixed { return a.state.Value }

// Layout returns the elaborated configuration.
func (a *Accumulator) Layout() *Layout { return a.layout }

// Diagnostics returns the elaboration warnings of the accumulator's layout.
func (a *Accumulator) Diagnostics() []Diagnostic { return a.layout.Diagnostics() }
