// Package bind layers element bindings and composite builders (store,
// form, collection, component) on top of the reactive engine. The engine
// itself knows nothing about elements; everything here is an ordinary
// effect whose body reads reactive state and applies the result to a
// previously resolved element reference.
package bind

import "github.com/statewire/statewire/reactive"

// Element is the contract for a resolved element reference. Lookup and
// caching of elements live outside this module entirely.
type Element interface {
	Apply(prop string, value any) error
}

// Prop registers an effect that applies fn's unwrapped result to one
// property of el, re-applying whenever a tracked read changes.
func Prop(eng *reactive.Engine, el Element, prop string, fn func() any) func() {
	return eng.Effect(func() error {
		return el.Apply(prop, reactive.ToRaw(fn()))
	})
}

// Text binds fn's result to the element's text content.
func Text(eng *reactive.Engine, el Element, fn func() any) func() {
	return Prop(eng, el, "text", fn)
}

// Attr binds fn's result to one named attribute.
func Attr(eng *reactive.Engine, el Element, name string, fn func() any) func() {
	return Prop(eng, el, "attr:"+name, fn)
}

// Show binds fn's result to the element's visibility.
func Show(eng *reactive.Engine, el Element, fn func() bool) func() {
	return Prop(eng, el, "visible", func() any { return fn() })
}
