package bind_test

import (
	"testing"

	"github.com/statewire/statewire/bind"
	"github.com/statewire/statewire/reactive"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComponentDisposeTearsDownBindings(t *testing.T) {
	rs := reactive.New(failFast(t))
	comp := bind.NewComponent(rs, map[string]any{"count": 0})
	el := &fakeElement{}

	comp.Bind(el, "text", func() any { return comp.State().Get("count") })
	runs := 0
	comp.Effect(func() error {
		runs++
		comp.State().Get("count")
		return nil
	})
	require.Len(t, el.calls, 1)
	require.Equal(t, 1, runs)

	comp.State().Set("count", 1)
	require.Len(t, el.calls, 2)
	require.Equal(t, 2, runs)

	comp.Dispose()
	comp.State().Set("count", 2)
	assert.Len(t, el.calls, 2)
	assert.Equal(t, 2, runs)
}

func TestComponentDisposeIsIdempotent(t *testing.T) {
	rs := reactive.New(failFast(t))
	comp := bind.NewComponent(rs, nil)

	disposed := 0
	comp.Own(func() { disposed++ })
	comp.Dispose()
	comp.Dispose()
	assert.Equal(t, 1, disposed)
}

func TestComponentDisposeOrderIsReverse(t *testing.T) {
	rs := reactive.New(failFast(t))
	comp := bind.NewComponent(rs, nil)

	var order []string
	comp.Own(func() { order = append(order, "first") })
	comp.Own(func() { order = append(order, "second") })
	comp.Dispose()
	assert.Equal(t, []string{"second", "first"}, order)
}

func TestComponentOwnAfterDispose(t *testing.T) {
	rs := reactive.New(failFast(t))
	comp := bind.NewComponent(rs, nil)
	comp.Dispose()

	// late registrations are torn down immediately
	disposed := false
	comp.Own(func() { disposed = true })
	assert.True(t, disposed)
}

func TestComponentComputed(t *testing.T) {
	rs := reactive.New(failFast(t))
	comp := bind.NewComponent(rs, map[string]any{"n": 2})

	require.NoError(t, comp.Computed("double", func() (any, error) {
		return comp.State().Get("n").(int) * 2, nil
	}))
	assert.Equal(t, 4, comp.State().Get("double"))

	comp.Dispose()
	// the derived no longer recomputes after disposal
	comp.State().Set("n", 10)
	assert.Nil(t, comp.State().Get("double"))
}
