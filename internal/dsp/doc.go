// SPDX-License-Identifier: EPL-2.0

// Package dsp holds the small numeric helpers shared by the decoders and the
// software engine: sample interpolation, PCM scaling and the byte spectrum
// used by analysers.
package dsp
