// SPDX-License-Identifier: EPL-2.0

package media

import "errors"

var (
	ErrTrackEnded   = errors.New("track has ended")
	ErrDetached     = errors.New("media element is detached")
	ErrEnded        = errors.New("media element has ended")
	ErrPartialFrame = errors.New("sample count is not a whole number of frames")
)
