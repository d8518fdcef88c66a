package reactive

import (
	"fmt"
	"reflect"

	"github.com/cespare/xxhash/v2"
)

// WatchFunc receives the new and previous snapshot of a watched value.
type WatchFunc func(newValue, oldValue any)

// Watch observes one key of a reactive object and invokes cb when its
// value changes structurally from the previous snapshot. The first run
// only primes the snapshot.
func (e *Engine) Watch(target any, key string, cb WatchFunc) (func(), error) {
	o, ok := target.(*Object)
	if !ok {
		return nil, fmt.Errorf("%w: watch target %T", ErrNotReactive, target)
	}
	return e.WatchFn(func() any { return o.Get(key) }, cb), nil
}

// WatchFn is Watch over an arbitrary tracked read. Snapshots compare by
// structural equality, not identity: replacing a map with an equal-shaped
// one does not fire. A fingerprint mismatch skips the deep comparison.
func (e *Engine) WatchFn(fn func() any, cb WatchFunc) func() {
	var (
		prev   any
		prevFP uint64
		primed bool
	)
	return e.Effect(func() error {
		next := Clone(ToRaw(fn()))
		nextFP := fingerprint(next)
		if !primed {
			primed = true
			prev, prevFP = next, nextFP
			return nil
		}
		if nextFP == prevFP && reflect.DeepEqual(prev, next) {
			return nil
		}
		old := prev
		prev, prevFP = next, nextFP
		cb(next, old)
		return nil
	})
}

// fingerprint hashes a canonical rendering of v. fmt sorts map keys, so
// structurally equal plain values render, and hash, identically.
func fingerprint(v any) uint64 {
	return xxhash.Sum64String(fmt.Sprintf("%#v", v))
}
