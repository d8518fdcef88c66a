package reactive

import (
	"fmt"
	"sort"
)

// Object is the reactive wrapper around a plain map[string]any. Property
// reads are recorded against the active subscriber, writes notify the
// recorded dependents. Nested maps and slices wrap lazily on read.
type Object struct {
	eng     *Engine
	id      uint64
	raw     map[string]any
	tracker *tracker
	derived map[string]*Derived

	// keysDep holds dependents of the key set itself (Keys/Len readers).
	// A dedicated field, not a piggy-backed key, so it can never collide
	// with user data.
	keysDep depEntry
}

func (o *Object) isSource() {}

func (o *Object) String() string {
	return fmt.Sprintf("object#%d", o.id)
}

func newObject(e *Engine, raw map[string]any) *Object {
	o := &Object{
		eng:     e,
		id:      e.reg.id(),
		raw:     raw,
		tracker: newTracker(e),
		derived: map[string]*Derived{},
	}
	e.reg.objects[mapID(raw)] = o
	return o
}

// Get reads key: the dependency is recorded first, then a derived value
// resolves, then a nested plain value wraps, otherwise the raw value
// returns as is. A missing key reads as nil but is still tracked, so a
// later Set of that key wakes the reader.
func (o *Object) Get(key string) any {
	o.tracker.track(key)
	if d, ok := o.derived[key]; ok {
		return d.resolve()
	}
	v, ok := o.raw[key]
	if !ok {
		return nil
	}
	if s, ok := v.([]any); ok {
		if l := o.eng.reg.lookupList(s); l != nil {
			// converge the stored header onto the live storage so stale
			// headers do not outlive the read that found them
			o.raw[key] = l.items
			return l
		}
	}
	return o.eng.wrapNested(v)
}

// Set writes key. Writing the value already present (shallow identity) is
// suppressed. Wrappers are unwrapped before storing; a nested plain value
// gets its wrapper prepared eagerly so the next read reuses it.
func (o *Object) Set(key string, v any) {
	if _, isDerived := o.derived[key]; isDerived {
		o.eng.reportError(o, fmt.Errorf("%w: %q", ErrReadOnlyKey, key))
		return
	}
	raw := ToRaw(v)
	cur, exists := o.raw[key]
	if exists && sameValue(cur, raw) {
		return
	}
	o.raw[key] = raw
	if wrappable(raw) {
		o.eng.Wrap(raw)
	}
	o.tracker.trigger(key)
	if !exists {
		o.eng.notify(&o.keysDep)
	}
}

// Delete removes key and propagates like a write, without equality
// suppression.
func (o *Object) Delete(key string) {
	if _, isDerived := o.derived[key]; isDerived {
		o.eng.reportError(o, fmt.Errorf("%w: %q", ErrReadOnlyKey, key))
		return
	}
	_, existed := o.raw[key]
	delete(o.raw, key)
	o.tracker.trigger(key)
	if existed {
		o.eng.notify(&o.keysDep)
	}
}

func (o *Object) Has(key string) bool {
	o.tracker.track(key)
	if _, ok := o.derived[key]; ok {
		return true
	}
	_, ok := o.raw[key]
	return ok
}

// Keys returns the plain data keys in sorted order and subscribes the
// active subscriber to key-set changes. Derived keys are not listed.
func (o *Object) Keys() []string {
	o.eng.trackEntry(&o.keysDep)
	keys := make([]string, 0, len(o.raw))
	for k := range o.raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (o *Object) Len() int {
	o.eng.trackEntry(&o.keysDep)
	return len(o.raw)
}

// Derive attaches a memoized derived value at key. The key becomes
// read-only through Set and resolves lazily on the next Get.
func (o *Object) Derive(key string, fn func() (any, error)) (*Derived, error) {
	if _, ok := o.derived[key]; ok {
		return nil, fmt.Errorf("%w: derived %q", ErrKeyTaken, key)
	}
	if _, ok := o.raw[key]; ok {
		return nil, fmt.Errorf("%w: %q holds plain data", ErrKeyTaken, key)
	}
	d := &Derived{
		eng:   o.eng,
		owner: o,
		key:   key,
		fn:    fn,
		dirty: true,
	}
	o.derived[key] = d
	return d, nil
}

// Raw unwraps to the underlying plain map without recording any
// dependency. Slice headers that went stale when a nested list grew are
// refreshed first.
func (o *Object) Raw() map[string]any {
	for k, v := range o.raw {
		if s, ok := v.([]any); ok {
			if l := o.eng.reg.lookupList(s); l != nil {
				o.raw[k] = l.items
			}
		}
	}
	return o.raw
}
