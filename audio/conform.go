// SPDX-License-Identifier: EPL-2.0

package audio

// Conform adapts src to mono at sampleRate, downmixing before resampling so
// the interpolation runs on a single channel. Sources already in that shape
// are returned unchanged.
func Conform(src Source, sampleRate int) Source {
	if src.Channels() != 1 {
		src = NewMonoMixer(src)
	}
	if src.SampleRate() != sampleRate {
		src = NewResampler(src, sampleRate)
	}

	return src
}
