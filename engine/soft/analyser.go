// SPDX-License-Identifier: EPL-2.0

package soft

import (
	"math/bits"

	"github.com/sajadjafari/audio-merger/engine"
	"github.com/sajadjafari/audio-merger/internal/dsp"
)

const (
	DefaultFFTSize = 2048
	MinFFTSize     = 32
	MaxFFTSize     = 32768
)

// analyser passes audio through and keeps the most recent MaxFFTSize samples
// for spectrum snapshots. The spectrum is computed at most once per quantum;
// later polls in the same quantum read the cached bytes.
type analyser struct {
	*base
	spectrum *dsp.Spectrum
	history  []float32
	w        int
	block    []float32

	bytes  []byte
	polled int64 // quantum bytes was computed for, -1 if stale
}

func newAnalyser(ctx *Context) *analyser {
	a := &analyser{
		base:     newBase(ctx, "analyser", true, true),
		spectrum: dsp.NewSpectrum(DefaultFFTSize),
		history:  make([]float32, MaxFFTSize),
		block:    make([]float32, DefaultFFTSize),
		bytes:    make([]byte, DefaultFFTSize/2),
		polled:   -1,
	}
	a.autoPull = true
	a.impl = a

	return a
}

func (a *analyser) FFTSize() int {
	a.ctx.mu.Lock()
	defer a.ctx.mu.Unlock()

	return a.spectrum.Size()
}

func (a *analyser) SetFFTSize(size int) error {
	if size < MinFFTSize || size > MaxFFTSize || bits.OnesCount(uint(size)) != 1 {
		return engine.ErrInvalidFFTSize
	}

	a.ctx.mu.Lock()
	defer a.ctx.mu.Unlock()

	if size != a.spectrum.Size() {
		a.spectrum = dsp.NewSpectrum(size)
		a.block = make([]float32, size)
		a.bytes = make([]byte, size/2)
		a.polled = -1
	}

	return nil
}

func (a *analyser) FrequencyBinCount() int {
	a.ctx.mu.Lock()
	defer a.ctx.mu.Unlock()

	return a.spectrum.Bins()
}

func (a *analyser) ByteFrequencyData(dst []byte) {
	a.ctx.mu.Lock()
	defer a.ctx.mu.Unlock()

	if a.polled != a.ctx.quantum {
		size := len(a.block)
		start := a.w - size + len(a.history)
		for i := range a.block {
			a.block[i] = a.history[(start+i)%len(a.history)]
		}
		a.spectrum.ByteMagnitudes(a.block, a.bytes)
		a.polled = a.ctx.quantum
	}
	copy(dst, a.bytes)
}

func (a *analyser) process(in, out []float32) {
	copy(out, in)
	for _, v := range in {
		a.history[a.w] = v
		a.w = (a.w + 1) % len(a.history)
	}
}
