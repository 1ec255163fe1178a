// SPDX-License-Identifier: EPL-2.0

// Package aiff decodes AIFF files through github.com/go-audio/aiff.
//
// Integer PCM at 16, 24 or 32 bits is supported with any channel count and
// sample rate; AIFF-C compressed files are rejected. go-audio needs random
// access, so readers that cannot seek are buffered in memory first.
//
//	f, _ := os.Open("take.aif")
//	src, err := aiff.Decoder{}.Decode(f)
//	if errors.Is(err, aiff.ErrUnsupportedBitDepth) {
//	    // 8-bit or unusual widths
//	}
//
// Samples are normalized by the full scale of the file's bit depth.
package aiff
