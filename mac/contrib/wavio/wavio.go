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

// Package wavio moves PCM audio between WAV files and the integer sample
// streams consumed by the MAC model.
package wavio

import (
	"errors"
	"fmt"
	"io"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// ErrInvalidWAV is returned for input that is not a PCM WAV file.
var ErrInvalidWAV = errors.New("wavio: not a valid WAV file")

// PCM is interleaved signed integer audio. 8-bit WAV data is stored
// unsigned with a bias of 128; Read removes it and Write restores it.
type PCM struct {
	SampleRate int
	Channels   int
	BitDepth   int
	Samples    []int64
}

// Frames returns the number of samples per channel.
func (p *PCM) Frames() int {
	if p.Channels == 0 {
		return 0
	}
	return len(p.Samples) / p.Channels
}

// Read decodes a whole WAV stream.
func Read(r io.ReadSeeker) (*PCM, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, ErrInvalidWAV
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("wavio: decoding: %w", err)
	}
	p := &PCM{
		SampleRate: buf.Format.SampleRate,
		Channels:   buf.Format.NumChannels,
		BitDepth:   int(dec.BitDepth),
		Samples:    make([]int64, len(buf.Data)),
	}
	bias := pcmBias(p.BitDepth)
	for i, v := range buf.Data {
		p.Samples[i] = int64(v) - bias
	}
	return p, nil
}

// Write encodes p as a PCM WAV stream.
func Write(w io.WriteSeeker, p *PCM) error {
	if p.Channels < 1 || p.SampleRate < 1 {
		return fmt.Errorf("wavio: %d channels at %d Hz", p.Channels, p.SampleRate)
	}
	enc := wav.NewEncoder(w, p.SampleRate, p.BitDepth, p.Channels, 1)
	bias := pcmBias(p.BitDepth)
	data := make([]int, len(p.Samples))
	for i, v := range p.Samples {
		data[i] = int(v + bias)
	}
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: p.Channels, SampleRate: p.SampleRate},
		Data:           data,
		SourceBitDepth: p.BitDepth,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("wavio: encoding: %w", err)
	}
	return enc.Close()
}

// pcmBias is the offset of the unsigned 8-bit format. Wider formats are
// already signed.
func pcmBias(bitDepth int) int64 {
	if bitDepth == 8 {
		return 128
	}
	return 0
}

// Deinterleave splits interleaved samples into one slice per channel.
func Deinterleave(samples []int64, channels int) [][]int64 {
	out := make([][]int64, channels)
	frames := len(samples) / channels
	for c := range out {
		out[c] = make([]int64, frames)
		for f := range frames {
			out[c][f] = samples[f*channels+c]
		}
	}
	return out
}

// Interleave is the inverse of Deinterleave. All channels must have the
// same length.
func Interleave(channels [][]int64) []int64 {
	if len(channels) == 0 {
		return nil
	}
	frames := len(channels[0])
	out := make([]int64, frames*len(channels))
	for c, ch := range channels {
		for f, v := range ch {
			out[f*len(channels)+c] = v
		}
	}
	return out
}
