// SPDX-License-Identifier: EPL-2.0

package engine

import "errors"

var (
	ErrContextClosed  = errors.New("audio context is closed")
	ErrNotConnected   = errors.New("nodes are not connected")
	ErrForeignNode    = errors.New("node belongs to a different context")
	ErrInvalidFFTSize = errors.New("FFT size must be a power of two between 32 and 32768")
	ErrInvalidDelay   = errors.New("maximum delay must be greater than 0 and at most 180 seconds")
	ErrNoInput        = errors.New("node has no inputs")
	ErrNoOutput       = errors.New("node has no outputs")
	ErrAlreadyStarted = errors.New("already started")
	ErrNotStarted     = errors.New("not started")
	ErrNegativeTime   = errors.New("time must be a finite non-negative number")
)
