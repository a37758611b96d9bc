// SPDX-License-Identifier: MIT

package array

import "time"

// Observer receives one callback per finished Build and per ShallowCopy.
// Implementations must be cheap and must not call back into the Builder.
type Observer interface {
	// BuildFinished reports the root model, the number of slots constructed
	// across every nesting level, the wall time and the outcome.
	BuildFinished(m *Model, slots uint64, elapsed time.Duration, err error)

	// RangeCopied reports a bulk copy of count slots of the given model.
	RangeCopied(m *Model, count uint64, err error)
}

type nopObserver struct{}

func (nopObserver) BuildFinished(*Model, uint64, time.Duration, error) {}
func (nopObserver) RangeCopied(*Model, uint64, error)                  {}
