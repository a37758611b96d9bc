// SPDX-License-Identifier: MIT

package array

import "github.com/katalvlaran/structarray/storage"

// WithGeometry partitions storage at wordMax with 2^shift-slot segments so
// multi-segment behavior can be tested without allocating 2^31 slots.
func WithGeometry(wordMax uint64, shift uint) Option {
	return func(c *config) {
		c.geometry = func(n uint64) storage.Layout { return storage.ScaledLayout(n, wordMax, shift) }
	}
}
