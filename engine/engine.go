// SPDX-License-Identifier: EPL-2.0

package engine

import "github.com/sajadjafari/audio-merger/media"

// State is the lifecycle state of a Context.
type State int

const (
	StateRunning State = iota
	StateSuspended
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateSuspended:
		return "suspended"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Context owns a processing graph and its clock.
type Context interface {
	SampleRate() int
	// CurrentTime is the position of the processing clock in seconds.
	CurrentTime() float64
	State() State

	// Destination is the context's own output, typically a device.
	Destination() Node

	CreateMediaStreamSource(s media.Stream) (Node, error)
	CreateMediaElementSource(e media.Element) (Node, error)
	CreateGain() (GainNode, error)
	// CreateDelay creates a delay line holding up to maxDelay seconds.
	CreateDelay(maxDelay float64) (DelayNode, error)
	CreateAnalyser() (AnalyserNode, error)
	CreateConstantSource() (ConstantSourceNode, error)
	CreateMediaStreamDestination() (StreamDestinationNode, error)

	// Close stops processing and releases every node.
	Close() error
}

// Node is a vertex of the processing graph. Connecting the same pair twice
// is a no-op; every input sums what is connected to it.
type Node interface {
	Connect(dst Node) error
	// Disconnect removes one edge. It fails with ErrNotConnected when the
	// edge does not exist.
	Disconnect(dst Node) error
	// DisconnectAll removes every outgoing edge.
	DisconnectAll()
}

// Param is a value that can change on the context clock.
type Param interface {
	// Value is the value in effect at the context's current time.
	Value() float64
	SetValue(v float64)
	// SetValueAtTime schedules v to take effect at time t, in seconds of
	// context time. Times already passed take effect immediately.
	SetValueAtTime(v, t float64) error
}

// Drainer is implemented by source nodes that can tell when their input has
// been consumed completely, including audio still buffered inside the node.
type Drainer interface {
	Drained() bool
}

type GainNode interface {
	Node
	Gain() Param
}

type DelayNode interface {
	Node
	// DelayTime in seconds.
	DelayTime() Param
}

// AnalyserNode passes audio through unchanged and exposes its spectrum.
type AnalyserNode interface {
	Node
	FFTSize() int
	SetFFTSize(size int) error
	// FrequencyBinCount is half the FFT size.
	FrequencyBinCount() int
	// ByteFrequencyData writes the current spectrum scaled to 0-255, one byte
	// per bin, into dst. Polls between two render quanta return the same
	// bytes.
	ByteFrequencyData(dst []byte)
}

// ConstantSourceNode emits Offset on every sample once started.
type ConstantSourceNode interface {
	Node
	Offset() Param
	Start() error
	Stop() error
}

// StreamDestinationNode records what is connected to it into a live stream.
type StreamDestinationNode interface {
	Node
	Stream() media.Stream
}
