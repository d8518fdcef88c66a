package reactive

import "fmt"

// Wrap turns a plain map[string]any or []any into its reactive wrapper.
// Wrapping is idempotent: an already-reactive value returns unchanged,
// and wrapping the same underlying value twice returns the same wrapper.
// Anything else passes through as is.
func (e *Engine) Wrap(v any) any {
	switch t := v.(type) {
	case *Object:
		return t
	case *List:
		return t
	case map[string]any:
		if t == nil {
			t = map[string]any{}
		}
		if o, ok := e.reg.objects[mapID(t)]; ok {
			return o
		}
		return newObject(e, t)
	case []any:
		if l := e.reg.lookupList(t); l != nil {
			return l
		}
		return newList(e, t)
	default:
		return v
	}
}

// WrapObject is Wrap for callers that know they hold a map.
func (e *Engine) WrapObject(m map[string]any) *Object {
	return e.Wrap(m).(*Object)
}

// WrapList is Wrap for callers that know they hold a slice.
func (e *Engine) WrapList(s []any) *List {
	return e.Wrap(s).(*List)
}

func (e *Engine) wrapNested(v any) any {
	if wrappable(v) {
		return e.Wrap(v)
	}
	return v
}

// Computed attaches a derived value at key on a reactive object. Misuse
// (a non-reactive target, a taken key) is an error for the caller, not a
// propagation-time report.
func (e *Engine) Computed(target any, key string, fn func() (any, error)) (*Derived, error) {
	o, ok := target.(*Object)
	if !ok {
		return nil, fmt.Errorf("%w: computed target %T", ErrNotReactive, target)
	}
	return o.Derive(key, fn)
}

// Notify manually invalidates dependents as if the named keys had been
// written. With no keys, everything recorded for the target is notified.
func (e *Engine) Notify(target any, keys ...string) error {
	switch t := target.(type) {
	case *Object:
		e.StartBatch()
		if len(keys) == 0 {
			for _, d := range t.derived {
				d.invalidate()
			}
			for key := range t.tracker.entries {
				t.tracker.trigger(key)
			}
			e.notify(&t.keysDep)
		} else {
			for _, key := range keys {
				if d, ok := t.derived[key]; ok {
					d.invalidate()
					continue
				}
				t.tracker.trigger(key)
			}
		}
		e.EndBatch()
		return nil
	case *List:
		e.StartBatch()
		if len(keys) == 0 {
			for key := range t.tracker.entries {
				t.tracker.trigger(key)
			}
			e.notify(&t.lenDep)
			e.notify(&t.allDep)
		} else {
			for _, key := range keys {
				t.tracker.trigger(key)
			}
		}
		e.EndBatch()
		return nil
	default:
		return fmt.Errorf("%w: notify target %T", ErrNotReactive, target)
	}
}

// IsReactive reports whether v is a wrapper produced by Wrap.
func IsReactive(v any) bool {
	switch v.(type) {
	case *Object, *List:
		return true
	default:
		return false
	}
}

// ToRaw unwraps a reactive value to its underlying plain form. Reads and
// writes on the result bypass tracking entirely.
func ToRaw(v any) any {
	switch t := v.(type) {
	case *Object:
		return t.Raw()
	case *List:
		return t.Raw()
	default:
		return v
	}
}
