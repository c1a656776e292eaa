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

// Package traceplot renders accumulator output traces as images.
package traceplot

import (
	"errors"
	"fmt"
	"image/color"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/ajroetker/go-dspmac/mac"
)

// Size of rendered plots.
var (
	Width  = 8 * vg.Inch
	Height = 4 * vg.Inch
)

var (
	resultColor   = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	overflowColor = color.RGBA{R: 214, G: 39, B: 40, A: 255}
)

// New builds a plot of the valid results in outs against the cycle number.
// Cycles that reported overflow are marked.
func New(title string, outs []mac.Outputs) (*plot.Plot, error) {
	var results, overflows plotter.XYs
	for cycle, o := range outs {
		if !o.ResultValid {
			continue
		}
		pt := plotter.XY{X: float64(cycle), Y: float64(o.Result.Int64())}
		results = append(results, pt)
		if o.Overflow {
			overflows = append(overflows, pt)
		}
	}
	if len(results) == 0 {
		return nil, errors.New("traceplot: no valid results")
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "cycle"
	p.Y.Label.Text = "result"
	p.Add(plotter.NewGrid())

	line, err := plotter.NewLine(results)
	if err != nil {
		return nil, fmt.Errorf("traceplot: %w", err)
	}
	line.LineStyle.Color = resultColor
	p.Add(line)
	p.Legend.Add("result", line)

	if len(overflows) > 0 {
		sc, err := plotter.NewScatter(overflows)
		if err != nil {
			return nil, fmt.Errorf("traceplot: %w", err)
		}
		sc.GlyphStyle.Color = overflowColor
		p.Add(sc)
		p.Legend.Add("overflow", sc)
	}
	return p, nil
}

// Render writes the plot in the given format ("png", "svg", "pdf", ...).
func Render(w io.Writer, p *plot.Plot, format string) error {
	wt, err := p.WriterTo(Width, Height, format)
	if err != nil {
		return fmt.Errorf("traceplot: %w", err)
	}
	_, err = wt.WriteTo(w)
	return err
}

// Save writes the plot to path; the format follows the file extension.
func Save(path string, p *plot.Plot) error {
	return p.Save(Width, Height, path)
}
