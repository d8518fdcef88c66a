package reactive

// subscriber is the unit of re-run logic: either an effect or a derived
// value. Invalidation semantics differ, dependency bookkeeping does not.
type subscriber interface {
	// invalidate is called when a tracked key is written. Effects run (or
	// queue inside a batch); derived values flip to dirty and cascade.
	invalidate()
	// linkEntry records an entry this subscriber now appears in.
	linkEntry(entry *depEntry)
	// unlinkAll removes the subscriber from every entry it appears in.
	// Called before each re-execution so the dependency set is re-derived
	// from exactly the keys the run actually reads.
	unlinkAll()
}

// depEntry is the subscriber set for one key of one wrapper. Registration
// order is preserved; propagation iterates it deterministically.
type depEntry struct {
	subs []subscriber
}

func (d *depEntry) add(sub subscriber) {
	for _, s := range d.subs {
		if s == sub {
			return
		}
	}
	d.subs = append(d.subs, sub)
	sub.linkEntry(d)
}

func (d *depEntry) remove(sub subscriber) {
	for i, s := range d.subs {
		if s == sub {
			d.subs = append(d.subs[:i], d.subs[i+1:]...)
			return
		}
	}
}

// tracker maps property keys to their dependents for a single wrapper.
// It lives and dies with the wrapper that owns it.
type tracker struct {
	eng     *Engine
	entries map[string]*depEntry
}

func newTracker(eng *Engine) *tracker {
	return &tracker{eng: eng, entries: map[string]*depEntry{}}
}

// track records (wrapper, key) against the active subscriber, creating
// the entry lazily on first read. A read with no active subscriber is
// just a read.
func (t *tracker) track(key string) {
	sub := t.eng.activeSub
	if sub == nil {
		return
	}
	entry := t.entries[key]
	if entry == nil {
		entry = &depEntry{}
		t.entries[key] = entry
	}
	entry.add(sub)
}

// trigger notifies the dependents of key. A key nobody read is a no-op.
func (t *tracker) trigger(key string) {
	entry := t.entries[key]
	if entry == nil {
		return
	}
	t.eng.notify(entry)
}
