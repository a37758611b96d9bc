// SPDX-License-Identifier: MIT

package storage

import (
	"errors"
	"fmt"
)

// ErrIndexOutOfRange indicates that a slot index is >= Len().
// Accessors MUST return it instead of panicking.
var ErrIndexOutOfRange = errors.New("storage: index out of range")

// ---------- error context tags ----------

const (
	ctxAt     = "At"
	ctxSet    = "Set"
	ctxPtr    = "Ptr"
	ctxLocate = "Locate"
)

// storageErrorf wraps a sentinel with the accessor name and the offending index.
func storageErrorf(method string, index uint64, err error) error {
	return fmt.Errorf("Partitioned.%s(%d): %w", method, index, err)
}
