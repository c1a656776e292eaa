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
	"errors"
	"fmt"
	"slices"
)

// Configuration errors. Elaborate wraps them in a *ConfigError naming the
// offending field, so both errors.Is and errors.As work on the result.
var (
	ErrInvalidWidth     = errors.New("width out of range")
	ErrNotRepresentable = errors.New("value not representable")
	ErrProductTooWide   = errors.New("product wider than accumulator")
	ErrNegativeSummands = errors.New("negative summand count")
	ErrNegativeShift    = errors.New("negative output shift")
	ErrShiftTooLarge    = errors.New("output shift consumes every used bit")
	ErrNoClipMargin     = errors.New("output width leaves no room for clip or overflow detection")
	ErrTargetWidth      = errors.New("accumulator width does not match target")
	ErrUnknownTarget    = errors.New("unknown target")
)

// ConfigError reports a fatal configuration problem.
type ConfigError struct {
	Field  string
	Detail string
	Err    error
}

func (e *ConfigError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("mac: config %s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("mac: config %s: %v (%s)", e.Field, e.Err, e.Detail)
}

func (e *ConfigError) Unwrap() error { return e.Err }

func configErr(field string, err error, format string, args ...any) error {
	return &ConfigError{Field: field, Detail: fmt.Sprintf(format, args...), Err: err}
}

// DiagnosticCode classifies a non-fatal configuration finding.
type DiagnosticCode int

const (
	// WarnGuardBitsClamped means NumSummand needs more guard bits than the
	// accumulator has spare. The guard bits were clamped to the maximum, so
	// long accumulation runs can overflow.
	WarnGuardBitsClamped DiagnosticCode = iota + 1

	// WarnRoundWithoutShift means OutputRound was requested with a zero
	// shift; rounding is a no-op.
	WarnRoundWithoutShift
)

func (c DiagnosticCode) String() string {
	switch c {
	case WarnGuardBitsClamped:
		return "guard-bits-clamped"
	case WarnRoundWithoutShift:
		return "round-without-shift"
	default:
		return "unknown"
	}
}

// Diagnostic is a warning produced while elaborating a Config.
type Diagnostic struct {
	Code    DiagnosticCode
	Message string
}

func (d Diagnostic) String() string {
	return d.Code.String() + ": " + d.Message
}

// Config is the elaboration-time description of one accumulator. Every
// field is explicit; nothing is inferred except AccumulatorWidth, which
// defaults to the target's register width when zero.
type Config struct {
	Target Target

	// AccumulatorWidth is the accumulator register width in bits.
	AccumulatorWidth int

	// ProductWidth is the width of each term folded into the accumulator:
	// the sum of the two factor widths, or the preadder/sum-of-products
	// width for multi-term variants.
	ProductWidth int

	// NumSummand is the number of terms accumulated per run, or 0 when
	// unknown.
	NumSummand int

	OutputWidth      int
	OutputShiftRight int

	// OutputRound adds half an output LSB before the right shift.
	OutputRound bool

	// OutputClip saturates instead of wrapping when the shifted result
	// does not fit OutputWidth.
	OutputClip bool

	// OutputOverflowReport enables the Overflow output. When false,
	// Overflow is always false.
	OutputOverflowReport bool

	// ChainAccumulate adds ChainIn on every valid cycle instead of only on
	// the restart cycle.
	ChainAccumulate bool
}

// Layout is an elaborated, immutable Config together with the derived bit
// layout of the accumulator.
type Layout struct {
	cfg          Config
	guardBits    int
	usedWidth    int
	shiftedWidth int
	diags        []Diagnostic
}

// Config returns the elaborated configuration with defaults filled in.
func (l *Layout) Config() Config { return l.cfg }

// GuardBits returns the guard bits above the product width.
func (l *Layout) GuardBits() int { return l.guardBits }

// UsedWidth is ProductWidth+GuardBits: the low accumulator bits that carry
// information.
func (l *Layout) UsedWidth() int { return l.usedWidth }

// ShiftedWidth is UsedWidth-OutputShiftRight.
func (l *Layout) ShiftedWidth() int { return l.shiftedWidth }

// Diagnostics returns the warnings raised during elaboration.
func (l *Layout) Diagnostics() []Diagnostic { return slices.Clone(l.diags) }

// Elaborate validates c and computes its layout. Width violations are
// returned as a *ConfigError; recoverable findings are attached to the
// Layout as Diagnostics.
func (c Config) Elaborate() (*Layout, error) {
	if c.Target < TargetBehavioral || c.Target > TargetStratixV {
		return nil, configErr("Target", ErrUnknownTarget, "%d", int(c.Target))
	}
	if c.AccumulatorWidth == 0 {
		c.AccumulatorWidth = c.Target.AccumulatorWidth()
	}
	if c.Target.FixedWidth() && c.AccumulatorWidth != c.Target.AccumulatorWidth() {
		return nil, configErr("AccumulatorWidth", ErrTargetWidth,
			"%s has %d bits, got %d", c.Target, c.Target.AccumulatorWidth(), c.AccumulatorWidth)
	}
	for _, f := range []struct {
		name string
		w    int
	}{
		{"AccumulatorWidth", c.AccumulatorWidth},
		{"ProductWidth", c.ProductWidth},
		{"OutputWidth", c.OutputWidth},
	} {
		if f.w < 1 || f.w > MaxWidth {
			return nil, configErr(f.name, ErrInvalidWidth, "%d not in [1, %d]", f.w, MaxWidth)
		}
	}
	if c.ProductWidth > c.AccumulatorWidth {
		return nil, configErr("ProductWidth", ErrProductTooWide,
			"%d > %d", c.ProductWidth, c.AccumulatorWidth)
	}
	if c.NumSummand < 0 {
		return nil, configErr("NumSummand", ErrNegativeSummands, "%d", c.NumSummand)
	}
	if c.OutputShiftRight < 0 {
		return nil, configErr("OutputShiftRight", ErrNegativeShift, "%d", c.OutputShiftRight)
	}

	l := &Layout{cfg: c}
	var clamped bool
	l.guardBits, clamped = GuardBits(c.NumSummand, c.AccumulatorWidth, c.ProductWidth)
	if clamped {
		msg := fmt.Sprintf("%d summands need %d guard bits, only %d available above %d-bit product",
			c.NumSummand, ceilLog2(c.NumSummand), l.guardBits, c.ProductWidth)
		l.diags = append(l.diags, Diagnostic{Code: WarnGuardBitsClamped, Message: msg})
	}
	l.usedWidth = c.ProductWidth + l.guardBits

	if c.OutputShiftRight >= l.usedWidth {
		return nil, configErr("OutputShiftRight", ErrShiftTooLarge,
			"shift %d >= used width %d", c.OutputShiftRight, l.usedWidth)
	}
	l.shiftedWidth = l.usedWidth - c.OutputShiftRight

	if c.OutputRound && c.OutputShiftRight == 0 {
		l.diags = append(l.diags, Diagnostic{
			Code:    WarnRoundWithoutShift,
			Message: "rounding requested with zero output shift; ignored",
		})
	}
	if (c.OutputClip || c.OutputOverflowReport) && c.OutputWidth > l.shiftedWidth {
		return nil, configErr("OutputWidth", ErrNoClipMargin,
			"output %d bits > shifted result %d bits", c.OutputWidth, l.shiftedWidth)
	}
	return l, nil
}

// MustElaborate is like Elaborate but panics on error.
func (c Config) MustElaborate() *Layout {
	l, err := c.Elaborate()
	if err != nil {
		panic(err)
	}
	return l
}
