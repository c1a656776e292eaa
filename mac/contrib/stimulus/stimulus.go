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

// Package stimulus reads per-cycle accumulator inputs from CSV and writes
// output traces back as CSV, so that the same vectors can drive both this
// model and an HDL testbench.
//
// Stimulus files have a header row and the columns
//
//	valid,clear,term[,chain_in[,stall]]
//
// where booleans are 0/1 (or true/false) and integers are decimal or
// 0x-prefixed hexadecimal. Trace files have the columns
//
//	cycle,result_valid,result,overflow,chain_out
package stimulus

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ajroetker/go-dspmac/mac"
)

// ErrFormat is returned for malformed stimulus files.
var ErrFormat = errors.New("stimulus: malformed file")

var stimulusHeader = []string{"valid", "clear", "term", "chain_in", "stall"}

// Read parses a stimulus file. Terms are wrapped to termWidth bits and chain
// inputs to chainWidth bits.
func Read(r io.Reader, termWidth, chainWidth int) ([]mac.Inputs, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.Comment = '#'

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: header: %v", ErrFormat, err)
	}
	if len(header) < 3 || len(header) > len(stimulusHeader) {
		return nil, fmt.Errorf("%w: header has %d columns", ErrFormat, len(header))
	}
	for i, h := range header {
		if !strings.EqualFold(strings.TrimSpace(h), stimulusHeader[i]) {
			return nil, fmt.Errorf("%w: column %d is %q, want %q", ErrFormat, i+1, h, stimulusHeader[i])
		}
	}

	var ins []mac.Inputs
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			return ins, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrFormat, err)
		}
		in, err := parseRecord(rec, len(header), termWidth, chainWidth)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrFormat, line, err)
		}
		ins = append(ins, in)
	}
}

func parseRecord(rec []string, columns, termWidth, chainWidth int) (mac.Inputs, error) {
	var in mac.Inputs
	if len(rec) != columns {
		return in, fmt.Errorf("%d fields, want %d", len(rec), columns)
	}
	var err error
	if in.Valid, err = parseBool(rec[0]); err != nil {
		return in, err
	}
	if in.Clear, err = parseBool(rec[1]); err != nil {
		return in, err
	}
	v, err := parseInt(rec[2])
	if err != nil {
		return in, err
	}
	in.Term = mac.Wrap(v, termWidth)
	if columns > 3 {
		c, err := parseInt(rec[3])
		if err != nil {
			return in, err
		}
		in.ChainIn = mac.Wrap(c, chainWidth)
	}
	if columns > 4 {
		if in.Stall, err = parseBool(rec[4]); err != nil {
			return in, err
		}
	}
	return in, nil
}

func parseBool(s string) (bool, error) {
	return strconv.ParseBool(strings.TrimSpace(s))
}

func parseInt(s string) (int64, error) {
	s = strings.TrimSpace(s)
	neg := strings.HasPrefix(s, "-")
	digits := strings.TrimPrefix(s, "-")
	if strings.HasPrefix(digits, "0x") || strings.HasPrefix(digits, "0X") {
		u, err := strconv.ParseUint(digits[2:], 16, 64)
		if err != nil {
			return 0, err
		}
		// Hex is a raw bit pattern; wrapping to the field width sign-extends it.
		v := int64(u)
		if neg {
			v = -v
		}
		return v, nil
	}
	return strconv.ParseInt(s, 10, 64)
}

// Write emits ins in stimulus format, always with all five columns.
func Write(w io.Writer, ins []mac.Inputs) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(stimulusHeader); err != nil {
		return err
	}
	for _, in := range ins {
		rec := []string{
			formatBool(in.Valid),
			formatBool(in.Clear),
			strconv.FormatInt(in.Term.Int64(), 10),
			strconv.FormatInt(in.ChainIn.Int64(), 10),
			formatBool(in.Stall),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteTrace emits one row per cycle of outs.
func WriteTrace(w io.Writer, outs []mac.Outputs) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"cycle", "result_valid", "result", "overflow", "chain_out"}); err != nil {
		return err
	}
	for cycle, o := range outs {
		rec := []string{
			strconv.Itoa(cycle),
			formatBool(o.ResultValid),
			strconv.FormatInt(o.Result.Int64(), 10),
			formatBool(o.Overflow),
			strconv.FormatInt(o.ChainOut.Int64(), 10),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Tally counts the cycles of a run that produced a new valid result, and how
// many of those reported overflow. Stalled cycles, which repeat the previous
// outputs, are skipped. ins and outs are matched by index.
func Tally(ins []mac.Inputs, outs []mac.Outputs) (valid, overflows int) {
	for i, o := range outs {
		if i < len(ins) && ins[i].Stall {
			continue
		}
		if o.ResultValid {
			valid++
			if o.Overflow {
				overflows++
			}
		}
	}
	return valid, overflows
}

func formatBool(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
