// SPDX-License-Identifier: EPL-2.0

// Package mixer merges any number of audio sources into one output stream.
//
// A Manager owns a processing context and keeps one SourceChain per input:
//
//	input -> gain -> merge bus -> sync delay -> output stream
//	      \-> analyser
//
// Inputs are media.Stream values (live captures) or media.Element values
// (playable files), identified by their ID. Adding an input twice returns the
// chain already in place; removing an unknown id does nothing.
//
// Two auxiliary chains are wired when the manager is created. A quality
// guard feeds a silent constant into the sync delay so the output always
// has a producer, and a keep-alive feeds a near-silent constant into the
// context's own destination so engines that suspend on silence keep
// running.
//
// Volumes are on a 0-100 scale and map linearly to gain. Loudness is read
// from each chain's analyser:
//
//	m, err := mixer.New()
//	if err != nil {
//	    return err
//	}
//	defer m.Destroy()
//
//	chain, err := m.AddSource("mic", stream)
//	m.UpdateVolume(chain.ID(), 40)
//	db, _ := m.VolumeInDecibels(chain.ID())
package mixer
