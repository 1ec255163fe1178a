// SPDX-License-Identifier: EPL-2.0

package mixer

import "errors"

var (
	// ErrInvalidInput is returned by AddSource for inputs that are neither a
	// media.Stream nor a media.Element, or that carry no identity.
	ErrInvalidInput = errors.New("input must be a media stream or media element with an id")

	// ErrDestroyed is returned by AddSource once Destroy has been called.
	ErrDestroyed = errors.New("mixer has been destroyed")
)
