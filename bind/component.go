package bind

import "github.com/statewire/statewire/reactive"

// Component groups a piece of reactive state with the disposers of every
// binding registered through it, torn down together by one idempotent
// Dispose call.
type Component struct {
	eng       *reactive.Engine
	state     *reactive.Object
	disposers []func()
	disposed  bool
}

func NewComponent(eng *reactive.Engine, initial map[string]any) *Component {
	return &Component{
		eng:   eng,
		state: eng.WrapObject(initial),
	}
}

func (c *Component) State() *reactive.Object { return c.state }

// Own registers a disposer with the component. Owning after disposal
// disposes immediately.
func (c *Component) Own(dispose func()) {
	if c.disposed {
		dispose()
		return
	}
	c.disposers = append(c.disposers, dispose)
}

// Effect registers an engine effect owned by this component.
func (c *Component) Effect(fn func() error) {
	c.Own(c.eng.Effect(fn))
}

// Bind registers an element binding owned by this component.
func (c *Component) Bind(el Element, prop string, fn func() any) {
	c.Own(Prop(c.eng, el, prop, fn))
}

// Computed attaches a derived value to the component state and owns its
// disposal.
func (c *Component) Computed(key string, fn func() (any, error)) error {
	d, err := c.state.Derive(key, fn)
	if err != nil {
		return err
	}
	c.Own(d.Dispose)
	return nil
}

// Dispose tears down every owned binding in reverse registration order.
func (c *Component) Dispose() {
	if c.disposed {
		return
	}
	c.disposed = true
	for i := len(c.disposers) - 1; i >= 0; i-- {
		c.disposers[i]()
	}
	c.disposers = nil
}
