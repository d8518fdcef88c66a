package reactive

import "fmt"

// Derived is a memoized computed value attached at a key on an Object.
// It starts dirty and is not evaluated until read; a write to any key its
// last evaluation read flips it back to dirty without re-running it.
// Because it is readable as an ordinary property it can itself be a
// dependency of effects and of other derived values.
type Derived struct {
	eng   *Engine
	owner *Object
	key   string
	fn    func() (any, error)

	value      any
	dirty      bool
	evaluating bool
	entries    []*depEntry
	disposed   bool
}

func (d *Derived) isSource() {}

func (d *Derived) String() string {
	return fmt.Sprintf("derived %q on object#%d", d.key, d.owner.id)
}

// invalidate transitions clean -> dirty and cascades through the readers
// of this key. The body is not re-run here; evaluation waits for the
// next read. An already-dirty derived cuts the cascade short.
func (d *Derived) invalidate() {
	if d.dirty || d.disposed {
		return
	}
	d.dirty = true
	d.owner.tracker.trigger(d.key)
}

func (d *Derived) linkEntry(entry *depEntry) {
	d.entries = append(d.entries, entry)
}

func (d *Derived) unlinkAll() {
	for _, entry := range d.entries {
		entry.remove(d)
	}
	d.entries = d.entries[:0]
}

// resolve returns the cached value, evaluating first if dirty. Evaluation
// runs with this derived as the active subscriber so its dependency set
// is captured fresh. Re-entering a derived mid-evaluation means the
// dependency graph has a cycle: the error is reported and the stale value
// returned instead of overflowing the stack.
func (d *Derived) resolve() any {
	if d.disposed || !d.dirty {
		return d.value
	}
	if d.evaluating {
		d.eng.reportError(d, fmt.Errorf("%w: %q", ErrDerivedCycle, d.key))
		return d.value
	}
	d.evaluating = true
	prevSub := d.eng.activeSub
	d.eng.activeSub = d
	d.unlinkAll()
	v, err := safeCallValue(d.fn)
	d.eng.activeSub = prevSub
	d.evaluating = false
	d.dirty = false
	if err != nil {
		// Keep the previous value; the next invalidation retries.
		d.eng.reportError(d, err)
		return d.value
	}
	d.value = ToRaw(v)
	return d.value
}

// Value reads the derived just like Object.Get on its key would.
func (d *Derived) Value() any {
	d.owner.tracker.track(d.key)
	return d.resolve()
}

// Dispose detaches the derived from its key and from every dependency
// entry. Idempotent.
func (d *Derived) Dispose() {
	if d.disposed {
		return
	}
	d.disposed = true
	d.unlinkAll()
	delete(d.owner.derived, d.key)
}
