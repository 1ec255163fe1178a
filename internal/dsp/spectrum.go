// SPDX-License-Identifier: EPL-2.0

package dsp

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
)

// Default analyser parameters, matching the usual byte-spectrum conventions of
// browser audio analysers.
const (
	DefaultMinDecibels = -100.0
	DefaultMaxDecibels = -30.0
	DefaultSmoothing   = 0.8
)

// Blackman returns a Blackman window of n points (alpha = 0.16).
func Blackman(n int) []float64 {
	const alpha = 0.16
	a0 := (1 - alpha) / 2
	a1 := 0.5
	a2 := alpha / 2

	w := make([]float64, n)
	for i := range w {
		x := 2 * math.Pi * float64(i) / float64(n)
		w[i] = a0 - a1*math.Cos(x) + a2*math.Cos(2*x)
	}

	return w
}

// Spectrum turns blocks of time-domain samples into smoothed magnitude bins
// scaled to bytes. It keeps its smoothing state between calls, so one Spectrum
// must only serve one signal.
type Spectrum struct {
	size   int
	fft    *fourier.FFT
	window []float64
	seq    []float64
	coeff  []complex128
	smooth []float64

	Smoothing   float64
	MinDecibels float64
	MaxDecibels float64
}

// NewSpectrum creates a Spectrum for blocks of size samples. size must be a
// power of two; the caller validates it.
func NewSpectrum(size int) *Spectrum {
	return &Spectrum{
		size:        size,
		fft:         fourier.NewFFT(size),
		window:      Blackman(size),
		seq:         make([]float64, size),
		coeff:       make([]complex128, size/2+1),
		smooth:      make([]float64, size/2),
		Smoothing:   DefaultSmoothing,
		MinDecibels: DefaultMinDecibels,
		MaxDecibels: DefaultMaxDecibels,
	}
}

// Size returns the block size.
func (s *Spectrum) Size() int { return s.size }

// Bins returns the number of frequency bins, half the block size.
func (s *Spectrum) Bins() int { return s.size / 2 }

// ByteMagnitudes analyses the last Size() samples of block and writes one byte
// per bin into dst. Missing leading samples count as silence. dst may be
// shorter than Bins(); extra bins are dropped.
func (s *Spectrum) ByteMagnitudes(block []float32, dst []byte) {
	offset := s.size - len(block)
	if offset < 0 {
		block = block[-offset:]
		offset = 0
	}
	for i := range offset {
		s.seq[i] = 0
	}
	for i, v := range block {
		s.seq[offset+i] = float64(v) * s.window[offset+i]
	}

	s.coeff = s.fft.Coefficients(s.coeff, s.seq)

	rangeScale := 255 / (s.MaxDecibels - s.MinDecibels)
	norm := 1 / float64(s.size)
	for k := range s.smooth {
		mag := cmplx.Abs(s.coeff[k]) * norm
		v := s.Smoothing*s.smooth[k] + (1-s.Smoothing)*mag
		if math.IsNaN(v) || math.IsInf(v, 0) {
			v = 0
		}
		s.smooth[k] = v

		if k >= len(dst) {
			continue
		}
		dst[k] = scaleByte(v, s.MinDecibels, rangeScale)
	}
}

// Reset clears the smoothing history.
func (s *Spectrum) Reset() {
	clear(s.smooth)
}

func scaleByte(mag, minDB, rangeScale float64) byte {
	if mag <= 0 {
		return 0
	}
	db := 20 * math.Log10(mag)
	scaled := math.Floor(rangeScale * (db - minDB))
	switch {
	case scaled < 0:
		return 0
	case scaled > 255:
		return 255
	default:
		return byte(scaled)
	}
}
