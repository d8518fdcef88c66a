package bind

import "github.com/statewire/statewire/reactive"

// Collection pairs a reactive list with whole-collection rendering: the
// coordinated array mutations re-apply one effect instead of fanning out
// per index.
type Collection struct {
	eng  *reactive.Engine
	list *reactive.List
}

func NewCollection(eng *reactive.Engine, initial []any) *Collection {
	return &Collection{
		eng:  eng,
		list: eng.WrapList(initial),
	}
}

func (c *Collection) Items() *reactive.List { return c.list }

func (c *Collection) Len() int { return c.list.Len() }

func (c *Collection) Append(vs ...any) { c.list.Push(vs...) }

func (c *Collection) RemoveAt(i int) any {
	removed := c.list.Splice(i, 1)
	if len(removed) == 0 {
		return nil
	}
	return removed[0]
}

// BindEach renders the whole collection through one effect; any
// coordinated mutation re-applies it exactly once.
func (c *Collection) BindEach(el Element, render func(i int, v any) any) func() {
	return c.eng.Effect(func() error {
		values := c.list.Values()
		out := make([]any, len(values))
		for i, v := range values {
			out[i] = render(i, reactive.ToRaw(v))
		}
		return el.Apply("items", out)
	})
}
