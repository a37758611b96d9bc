// SPDX-License-Identifier: MIT

package array

import (
	"github.com/katalvlaran/structarray/fields"
	"go.uber.org/zap"
)

// ShallowCopy copies the field contents of count slots of src, starting at
// srcOff, into the existing slots of dst starting at dstOff. The slot
// objects of dst are kept; only their fields are overwritten.
//
// MAIN DESCRIPTION:
//   - Only single-level containers of the same element type qualify.
//   - Element types with `structarray:"immutable"` fields are rejected unless
//     allowImmutable is set.
//   - src and dst may be the same container with overlapping ranges; the
//     result equals copying through a scratch buffer.
//
// Implementation:
//   - Stage 1: validate type, shape, immutability and both ranges before any
//     slot is touched.
//   - Stage 2: walk backwards when dst is src and dstOff > srcOff, forwards
//     otherwise.
//   - Stage 3: index the primary slices directly when both ranges end within
//     the primary partition, else locate every slot.
//
// Errors (checked in this order): ErrNotInitialized, ErrTypeMismatch,
// ErrUnsupportedShape, ErrImmutableFieldViolation, ErrIndexOutOfRange.
//
// Complexity: O(count × fields). No allocation.
func ShallowCopy(src Container, srcOff uint64, dst Container, dstOff, count uint64, allowImmutable bool, opts ...Option) (err error) {
	cfg := newConfig(opts...)
	var m *Model
	if !isNil(src) {
		m = src.Model()
	}
	defer func() {
		cfg.observer.RangeCopied(m, count, err)
		cfg.logger.Debug("shallow copy",
			zap.Uint64("src_offset", srcOff),
			zap.Uint64("dst_offset", dstOff),
			zap.Uint64("count", count),
			zap.Error(err))
	}()

	if isNil(src) || isNil(dst) || src.Model() == nil || dst.Model() == nil {
		return arrayErrorf(methodShallowCopy, ErrNotInitialized, "source or destination is not built")
	}
	s, d := src.array(), dst.array()
	if s.model.elementType != d.model.elementType {
		return arrayErrorf(methodShallowCopy, ErrTypeMismatch, "%s into %s", s.model.elementType, d.model.elementType)
	}
	if s.model.kind != KindPlain || d.model.kind != KindPlain {
		return arrayErrorf(methodShallowCopy, ErrUnsupportedShape, "%s", s.model)
	}
	layout := s.fields
	if layout == nil {
		if layout, err = fields.Of(s.model.elementType); err != nil {
			return arrayErrorf(methodShallowCopy, ErrUnsupportedShape, "%v", err)
		}
	}
	if layout.HasImmutable() && !allowImmutable {
		return arrayErrorf(methodShallowCopy, ErrImmutableFieldViolation, "%s", s.model.elementType)
	}
	if !inRange(srcOff, count, s.Len()) || !inRange(dstOff, count, d.Len()) {
		return arrayErrorf(methodShallowCopy, ErrIndexOutOfRange, "src [%d,+%d) of %d, dst [%d,+%d) of %d",
			srcOff, count, s.Len(), dstOff, count, d.Len())
	}
	if count == 0 || (s == d && srcOff == dstOff) {
		return nil
	}

	reverse := s == d && dstOff > srcOff
	if max(srcOff, dstOff)+count <= min(s.Layout().WordMax(), d.Layout().WordMax()) {
		return copyPrimary(layout, s.slots.Primary(), srcOff, d.slots.Primary(), dstOff, count, reverse)
	}

	return copyLocated(layout, s, srcOff, d, dstOff, count, reverse)
}

// inRange reports off+count <= n without overflowing.
func inRange(off, count, n uint64) bool {
	return off <= n && count <= n-off
}

// copyPrimary is the fast path: both ranges lie in the primary partition.
func copyPrimary(l *fields.Layout, src []any, srcOff uint64, dst []any, dstOff, count uint64, reverse bool) error {
	from, to := src[srcOff:srcOff+count], dst[dstOff:dstOff+count]
	if reverse {
		for i := len(to) - 1; i >= 0; i-- {
			if err := l.Copy(to[i], from[i]); err != nil {
				return err
			}
		}
		return nil
	}
	for i := range to {
		if err := l.Copy(to[i], from[i]); err != nil {
			return err
		}
	}

	return nil
}

// copyLocated resolves every slot through the partition layout.
func copyLocated(l *fields.Layout, src *Array, srcOff uint64, dst *Array, dstOff, count uint64, reverse bool) error {
	step := func(k uint64) error {
		from, err := src.slots.At(srcOff + k)
		if err != nil {
			return err
		}
		to, err := dst.slots.At(dstOff + k)
		if err != nil {
			return err
		}
		return l.Copy(to, from)
	}

	if reverse {
		for k := count; k > 0; k-- {
			if err := step(k - 1); err != nil {
				return err
			}
		}
		return nil
	}
	for k := uint64(0); k < count; k++ {
		if err := step(k); err != nil {
			return err
		}
	}

	return nil
}
