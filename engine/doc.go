// SPDX-License-Identifier: EPL-2.0

// Package engine defines what the mixer needs from an audio processing
// engine: a context with a clock, node constructors, and connections between
// nodes. The mixer only wires topology; rendering belongs to the engine.
//
// engine/soft provides a pure-Go implementation.
package engine
