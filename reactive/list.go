package reactive

import (
	"fmt"
	"sort"
	"strconv"
)

// List is the reactive wrapper around a plain []any. Per-index reads are
// tracked precisely; the in-place mutating operations go through the
// mutation adapter, which exposes each call as one coordinated change
// instead of a notification per shifted index.
type List struct {
	eng     *Engine
	id      uint64
	items   []any
	tracker *tracker // per-index entries

	// Dedicated fields rather than reserved index keys: lenDep holds the
	// length readers, allDep the whole-array dependents.
	lenDep depEntry
	allDep depEntry
}

func (l *List) isSource() {}

func (l *List) String() string {
	return fmt.Sprintf("list#%d", l.id)
}

func newList(e *Engine, items []any) *List {
	l := &List{
		eng:     e,
		id:      e.reg.id(),
		items:   items,
		tracker: newTracker(e),
	}
	e.reg.reindexList(l)
	return l
}

func (l *List) Len() int {
	l.eng.trackEntry(&l.lenDep)
	return len(l.items)
}

// At reads index i. The read is tracked both per index and against the
// whole array, so coordinated mutations wake index readers exactly once.
// Out-of-range reads yield nil, like a missing map key.
func (l *List) At(i int) any {
	l.eng.trackEntry(&l.allDep)
	if i < 0 || i >= len(l.items) {
		return nil
	}
	l.tracker.track(strconv.Itoa(i))
	if s, ok := l.items[i].([]any); ok {
		if nested := l.eng.reg.lookupList(s); nested != nil {
			l.items[i] = nested.items
			return nested
		}
	}
	return l.eng.wrapNested(l.items[i])
}

// SetAt overwrites one element in place. This is the precise path: only
// the readers of that index are notified, with the usual shallow-identity
// write suppression.
func (l *List) SetAt(i int, v any) {
	if i < 0 || i >= len(l.items) {
		l.eng.reportError(l, fmt.Errorf("%w: %d with length %d", ErrIndexRange, i, len(l.items)))
		return
	}
	raw := ToRaw(v)
	if sameValue(l.items[i], raw) {
		return
	}
	l.items[i] = raw
	if wrappable(raw) {
		l.eng.Wrap(raw)
	}
	l.tracker.trigger(strconv.Itoa(i))
}

// Values subscribes to the whole array and returns the wrapped elements.
func (l *List) Values() []any {
	l.eng.trackEntry(&l.allDep)
	l.eng.trackEntry(&l.lenDep)
	out := make([]any, len(l.items))
	for i, v := range l.items {
		l.tracker.track(strconv.Itoa(i))
		out[i] = l.eng.wrapNested(v)
	}
	return out
}

// mutate is the adapter core: apply rearranges the raw storage, then the
// length dependents and the whole-array dependents are each notified once.
// The engine batch deduplicates a subscriber sitting in both sets.
func (l *List) mutate(apply func()) {
	apply()
	l.eng.StartBatch()
	l.eng.notify(&l.lenDep)
	l.eng.notify(&l.allDep)
	l.eng.EndBatch()
}

// setItems swaps in new storage and keeps the identity registry pointing
// at this wrapper across reallocations.
func (l *List) setItems(items []any) {
	l.items = items
	l.eng.reg.reindexList(l)
}

func (l *List) Push(vs ...any) {
	if len(vs) == 0 {
		return
	}
	l.mutate(func() {
		for _, v := range vs {
			raw := ToRaw(v)
			if wrappable(raw) {
				l.eng.Wrap(raw)
			}
			l.setItems(append(l.items, raw))
		}
	})
}

func (l *List) Pop() any {
	n := len(l.items)
	if n == 0 {
		return nil
	}
	out := l.items[n-1]
	l.mutate(func() {
		l.setItems(l.items[:n-1])
	})
	return l.eng.wrapNested(out)
}

func (l *List) Shift() any {
	if len(l.items) == 0 {
		return nil
	}
	out := l.items[0]
	l.mutate(func() {
		l.setItems(l.items[1:])
	})
	return l.eng.wrapNested(out)
}

func (l *List) Unshift(vs ...any) {
	if len(vs) == 0 {
		return
	}
	l.mutate(func() {
		next := make([]any, 0, len(vs)+len(l.items))
		for _, v := range vs {
			raw := ToRaw(v)
			if wrappable(raw) {
				l.eng.Wrap(raw)
			}
			next = append(next, raw)
		}
		next = append(next, l.items...)
		l.setItems(next)
	})
}

// Splice removes deleteCount elements at start, inserts vs in their
// place, and returns the removed elements as plain values. Bounds are
// clamped rather than reported.
func (l *List) Splice(start, deleteCount int, vs ...any) []any {
	n := len(l.items)
	if start < 0 {
		start = 0
	}
	if start > n {
		start = n
	}
	if deleteCount < 0 {
		deleteCount = 0
	}
	if start+deleteCount > n {
		deleteCount = n - start
	}
	removed := make([]any, deleteCount)
	copy(removed, l.items[start:start+deleteCount])

	l.mutate(func() {
		next := make([]any, 0, n-deleteCount+len(vs))
		next = append(next, l.items[:start]...)
		for _, v := range vs {
			raw := ToRaw(v)
			if wrappable(raw) {
				l.eng.Wrap(raw)
			}
			next = append(next, raw)
		}
		next = append(next, l.items[start+deleteCount:]...)
		l.setItems(next)
	})
	return removed
}

func (l *List) Sort(less func(a, b any) bool) {
	l.mutate(func() {
		sort.SliceStable(l.items, func(i, j int) bool {
			return less(l.items[i], l.items[j])
		})
	})
}

func (l *List) Reverse() {
	l.mutate(func() {
		for i, j := 0, len(l.items)-1; i < j; i, j = i+1, j-1 {
			l.items[i], l.items[j] = l.items[j], l.items[i]
		}
	})
}

// Raw unwraps to the underlying plain slice without recording any
// dependency, refreshing stale nested headers first.
func (l *List) Raw() []any {
	for i, v := range l.items {
		if s, ok := v.([]any); ok {
			if nested := l.eng.reg.lookupList(s); nested != nil {
				l.items[i] = nested.items
			}
		}
	}
	return l.items
}
