package bind_test

import (
	"testing"

	"github.com/statewire/statewire/bind"
	"github.com/statewire/statewire/reactive"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreComputedAndWatch(t *testing.T) {
	rs := reactive.New(failFast(t))
	store := bind.NewStore(rs, "cart", map[string]any{
		"price": 10,
		"qty":   3,
	})

	err := store.Computed("total", func() (any, error) {
		return store.Get("price").(int) * store.Get("qty").(int), nil
	})
	require.NoError(t, err)
	assert.Equal(t, 30, store.Get("total"))

	var seen []any
	stop, err := store.Watch("total", func(next, old any) {
		seen = append(seen, next)
	})
	require.NoError(t, err)

	store.Set("qty", 4)
	require.Equal(t, []any{40}, seen)

	stop()
	store.Set("qty", 5)
	assert.Equal(t, []any{40}, seen)
}

func TestStoreSnapshotIsDetached(t *testing.T) {
	rs := reactive.New(failFast(t))
	store := bind.NewStore(rs, "profile", map[string]any{
		"name": "Ada",
		"tags": []any{"math"},
	})

	snap := store.Snapshot()
	assert.Equal(t, "Ada", snap["name"])

	// mutating the snapshot must not leak into the store
	snap["name"] = "Grace"
	snap["tags"].([]any)[0] = "code"
	assert.Equal(t, "Ada", store.Get("name"))
	assert.Equal(t, "math", store.State().Get("tags").(*reactive.List).At(0))
}
