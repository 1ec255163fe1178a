// SPDX-License-Identifier: EPL-2.0

package dsp

// Float32ToInt16 converts a normalized sample to 16-bit PCM, clamping to [-1, 1].
func Float32ToInt16(x float32) int16 {
	if x > 1 {
		x = 1
	} else if x < -1 {
		x = -1
	}

	return int16(x * 32767.0)
}

// FullScale returns the magnitude of the largest sample representable with
// bitDepth bits of signed PCM. Unknown depths are treated as 16-bit.
func FullScale(bitDepth int) float32 {
	switch bitDepth {
	case 8:
		return 128.0
	case 24:
		return 8388608.0
	case 32:
		return 2147483648.0
	default:
		return 32768.0
	}
}

// IntsToFloat32 normalizes signed integer PCM into dst and returns the number
// of samples written.
func IntsToFloat32(dst []float32, src []int, bitDepth int) int {
	scale := 1 / FullScale(bitDepth)
	n := min(len(dst), len(src))
	for i := range n {
		dst[i] = float32(src[i]) * scale
	}

	return n
}
