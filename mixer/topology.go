// SPDX-License-Identifier: EPL-2.0

package mixer

import (
	"errors"
	"fmt"

	"github.com/sajadjafari/audio-merger/engine"
)

type edge struct {
	from, to engine.Node
}

// wiring is an ordered list of edges that is connected and disconnected as a
// unit.
type wiring []edge

// connect makes every edge or none: on failure the edges already made are
// removed again before the error is returned.
func (w wiring) connect() error {
	for i, e := range w {
		if err := e.from.Connect(e.to); err != nil {
			rollback := w[:i].disconnect()
			return errors.Join(fmt.Errorf("connecting edge %d: %w", i, err), rollback)
		}
	}

	return nil
}

// disconnect removes the edges in reverse order. It keeps going past
// failures and reports all of them.
func (w wiring) disconnect() error {
	var errs []error
	for i := len(w) - 1; i >= 0; i-- {
		if err := w[i].from.Disconnect(w[i].to); err != nil {
			errs = append(errs, fmt.Errorf("disconnecting edge %d: %w", i, err))
		}
	}

	return errors.Join(errs...)
}
