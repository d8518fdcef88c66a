package reactive

import "reflect"

// registry associates wrappers with the identity of the plain value they
// wrap, so wrapping the same map or slice twice yields the same instance.
// It is per-engine: the engine and its wrapped graph form one ownership
// unit, there is no separate destroy call.
type registry struct {
	nextID  uint64
	objects map[uintptr]*Object
	lists   map[uintptr]*List
}

func newRegistry() *registry {
	return &registry{
		objects: map[uintptr]*Object{},
		lists:   map[uintptr]*List{},
	}
}

func (r *registry) id() uint64 {
	r.nextID++
	return r.nextID
}

func mapID(m map[string]any) uintptr {
	return reflect.ValueOf(m).Pointer()
}

// sliceID identifies a slice by its backing storage. Zero-capacity slices
// have no usable identity and always wrap fresh.
func sliceID(s []any) (uintptr, bool) {
	if cap(s) == 0 {
		return 0, false
	}
	return reflect.ValueOf(s).Pointer(), true
}

func (r *registry) lookupList(s []any) *List {
	id, ok := sliceID(s)
	if !ok {
		return nil
	}
	return r.lists[id]
}

// reindexList maps a list's current storage to its wrapper. Old mappings
// are kept on purpose: a parent may still hold a stale header from before
// a reallocation, and wrapping it must resolve to the same instance.
// Keeping them carries an aliasing hazard: if the runtime reuses a freed
// backing array's address for a brand-new []any, Wrap resolves it to the
// old wrapper. Reads through Object.Get, List.At and the Raw methods
// refresh stored headers onto the live storage, which keeps stale
// mappings from being depended on for long.
func (r *registry) reindexList(l *List) {
	if id, ok := sliceID(l.items); ok {
		r.lists[id] = l
	}
}
