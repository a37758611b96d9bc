// Package inline is the hand-off point between container builds and the
// code that owns "inline" fields: fields of a containing object whose value
// is a built container or element.
//
// Flow:
//
//	key := inline.NewObjectKey()
//	p.ConstructInto(key, "Samples", builder)   // build, keep pending
//	p.ConstructInto(key, "Origin", directive)  // element directive
//	p.Publish(key, target)                     // hand over, forget
//
// Values stay pending until Publish (or Discard); nothing is written into
// the containing object by this package. Pending is safe for concurrent use
// by different objects and fields.
package inline
