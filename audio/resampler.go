// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"

	"github.com/sajadjafari/audio-merger/internal/dsp"
)

// Resampler streams from src to a target sample rate using cubic
// interpolation over a four-frame window. It preserves the channel count.
//
// A read that finds the source momentarily empty (0 samples, nil error, as
// live tracks do) returns what was produced so far and resumes on the next
// call without losing position.
type Resampler struct {
	src      Source
	channels int
	dstRate  int
	step     float64 // source frames per output frame
	pos      float64 // position between win[1] and win[2]

	// win holds frames t-1, t0, t+1, t+2.
	win    [4][]float32
	next   []float32
	loaded int
	primed bool

	in     []float32
	inPos  int
	inLen  int
	eof    bool
	tail   int
	closed bool
}

func NewResampler(src Source, dstRate int) *Resampler {
	channels := src.Channels()
	r := &Resampler{
		src:      src,
		channels: channels,
		dstRate:  dstRate,
		step:     float64(src.SampleRate()) / float64(dstRate),
		next:     make([]float32, channels),
		in:       make([]float32, 1024*channels),
	}
	for i := range r.win {
		r.win[i] = make([]float32, channels)
	}

	return r
}

func (r *Resampler) SampleRate() int { return r.dstRate }
func (r *Resampler) Channels() int   { return r.channels }
func (r *Resampler) BufSize() int    { return r.src.BufSize() }

func (r *Resampler) Close() error {
	if err := r.src.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}

	return nil
}

// frame copies the next source frame into dst. ok is false when no frame is
// available right now; err is io.EOF once the source is drained.
func (r *Resampler) frame(dst []float32) (bool, error) {
	if r.inPos >= r.inLen {
		if r.eof {
			return false, io.EOF
		}

		n, err := r.src.ReadSamples(r.in)
		r.inPos, r.inLen = 0, n-n%r.channels
		switch {
		case err == io.EOF:
			r.eof = true
		case err != nil:
			return false, fmt.Errorf("%w", err)
		}
		if r.inLen == 0 {
			if r.eof {
				return false, io.EOF
			}
			return false, nil
		}
	}

	copy(dst, r.in[r.inPos:r.inPos+r.channels])
	r.inPos += r.channels

	return true, nil
}

func (r *Resampler) prime() (bool, error) {
	for r.loaded < 3 {
		ok, err := r.frame(r.win[r.loaded+1])
		if ok {
			r.loaded++
			continue
		}
		if err != io.EOF {
			return false, err
		}
		if r.loaded == 0 {
			r.closed = true
			return false, io.EOF
		}
		for i := r.loaded + 1; i < 4; i++ {
			copy(r.win[i], r.win[r.loaded])
		}
		break
	}
	copy(r.win[0], r.win[1])
	r.primed = true

	return true, nil
}

// advance shifts the window by one source frame. After the source ends the
// last frame is repeated twice so it reaches the interpolation point.
func (r *Resampler) advance() (bool, error) {
	ok, err := r.frame(r.next)
	if !ok {
		if err != io.EOF {
			return false, err
		}
		if r.tail >= 2 {
			return false, io.EOF
		}
		r.tail++
		copy(r.next, r.win[3])
	}

	first := r.win[0]
	r.win[0], r.win[1], r.win[2] = r.win[1], r.win[2], r.win[3]
	r.win[3] = first
	copy(r.win[3], r.next)

	return true, nil
}

// ReadSamples produces interleaved samples at the target rate.
// dst length must be a multiple of the channel count.
func (r *Resampler) ReadSamples(dst []float32) (int, error) {
	if len(dst)%r.channels != 0 {
		return 0, ErrInvalidDstSize
	}
	if r.closed {
		return 0, io.EOF
	}
	if !r.primed {
		if ok, err := r.prime(); !ok {
			return 0, err
		}
	}

	frames := len(dst) / r.channels
	written := 0
	for written < frames {
		for r.pos >= 1 {
			ok, err := r.advance()
			if !ok {
				if err == io.EOF {
					r.closed = true
					if written == 0 {
						return 0, io.EOF
					}
				}
				return written * r.channels, err
			}
			r.pos--
		}

		x := float32(r.pos)
		out := dst[written*r.channels : (written+1)*r.channels]
		for c := range out {
			out[c] = dsp.CubicInterpolate(r.win[0][c], r.win[1][c], r.win[2][c], r.win[3][c], x)
		}

		written++
		r.pos += r.step
	}

	return written * r.channels, nil
}
