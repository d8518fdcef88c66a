package reactive_test

import (
	"errors"
	"testing"

	"github.com/statewire/statewire/reactive"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// a derived value's function is not invoked until first read, and after
// invalidation not re-invoked until the next read
func TestDerivedLaziness(t *testing.T) {
	rs := reactive.New(failFast(t))
	state := rs.WrapObject(map[string]any{"count": 3})

	calls := 0
	_, err := state.Derive("double", func() (any, error) {
		calls++
		return state.Get("count").(int) * 2, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 0, calls)

	assert.Equal(t, 6, state.Get("double"))
	assert.Equal(t, 1, calls)

	state.Set("count", 4) // invalidates, must not evaluate
	assert.Equal(t, 1, calls)

	assert.Equal(t, 8, state.Get("double"))
	assert.Equal(t, 2, calls)
}

// reading a clean derived value twice invokes its function at most once
func TestDerivedMemoization(t *testing.T) {
	rs := reactive.New(failFast(t))
	state := rs.WrapObject(map[string]any{"count": 1})

	calls := 0
	_, err := state.Derive("double", func() (any, error) {
		calls++
		return state.Get("count").(int) * 2, nil
	})
	require.NoError(t, err)

	state.Get("double")
	state.Get("double")
	assert.Equal(t, 1, calls)
}

func TestDerivedChain(t *testing.T) {
	rs := reactive.New(failFast(t))
	state := rs.WrapObject(map[string]any{"count": 1})

	_, err := state.Derive("double", func() (any, error) {
		return state.Get("count").(int) * 2, nil
	})
	require.NoError(t, err)
	_, err = state.Derive("quad", func() (any, error) {
		return state.Get("double").(int) * 2, nil
	})
	require.NoError(t, err)

	var seen any
	rs.Effect(func() error {
		seen = state.Get("quad")
		return nil
	})
	require.Equal(t, 4, seen)

	state.Set("count", 3)
	assert.Equal(t, 12, seen)
}

func TestDerivedValueHandle(t *testing.T) {
	rs := reactive.New(failFast(t))
	state := rs.WrapObject(map[string]any{"count": 2})

	d, err := rs.Computed(state, "double", func() (any, error) {
		return state.Get("count").(int) * 2, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 4, d.Value())

	state.Set("count", 5)
	assert.Equal(t, 10, d.Value())
}

// an erroring derived keeps its previous value until the next
// invalidation; the error goes to the engine's error callback
func TestDerivedErrorKeepsValue(t *testing.T) {
	var errs []error
	rs := reactive.New(func(from reactive.Source, err error) {
		errs = append(errs, err)
	})
	state := rs.WrapObject(map[string]any{"n": 10})

	fail := false
	_, err := state.Derive("half", func() (any, error) {
		if fail {
			return nil, errors.New("boom")
		}
		return state.Get("n").(int) / 2, nil
	})
	require.NoError(t, err)
	require.Equal(t, 5, state.Get("half"))

	fail = true
	state.Set("n", 12)
	assert.Equal(t, 5, state.Get("half"))
	require.Len(t, errs, 1)
	assert.EqualError(t, errs[0], "boom")
}

// a cyclic derived graph must surface a misuse error, not overflow
func TestDerivedCycleGuard(t *testing.T) {
	var errs []error
	rs := reactive.New(func(from reactive.Source, err error) {
		errs = append(errs, err)
	})
	state := rs.WrapObject(map[string]any{})

	_, err := state.Derive("ping", func() (any, error) {
		return state.Get("pong"), nil
	})
	require.NoError(t, err)
	_, err = state.Derive("pong", func() (any, error) {
		return state.Get("ping"), nil
	})
	require.NoError(t, err)

	state.Get("ping")
	require.NotEmpty(t, errs)
	assert.ErrorIs(t, errs[0], reactive.ErrDerivedCycle)
}

func TestDerivedDispose(t *testing.T) {
	rs := reactive.New(failFast(t))
	state := rs.WrapObject(map[string]any{"count": 1})

	calls := 0
	d, err := state.Derive("double", func() (any, error) {
		calls++
		return state.Get("count").(int) * 2, nil
	})
	require.NoError(t, err)
	require.Equal(t, 2, state.Get("double"))

	d.Dispose()
	d.Dispose() // idempotent

	state.Set("count", 9)
	assert.Nil(t, state.Get("double"))
	assert.Equal(t, 1, calls)
}

// derived keys are read-only through Set
func TestDerivedKeyReadOnly(t *testing.T) {
	var errs []error
	rs := reactive.New(func(from reactive.Source, err error) {
		errs = append(errs, err)
	})
	state := rs.WrapObject(map[string]any{"count": 2})

	_, err := state.Derive("double", func() (any, error) {
		return state.Get("count").(int) * 2, nil
	})
	require.NoError(t, err)

	state.Set("double", 99)
	assert.Equal(t, 4, state.Get("double"))
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], reactive.ErrReadOnlyKey)
}

// misuse is reported synchronously to the caller
func TestComputedMisuse(t *testing.T) {
	rs := reactive.New(failFast(t))
	state := rs.WrapObject(map[string]any{"taken": 1})

	_, err := rs.Computed(42, "double", func() (any, error) { return nil, nil })
	assert.ErrorIs(t, err, reactive.ErrNotReactive)

	_, err = state.Derive("taken", func() (any, error) { return nil, nil })
	assert.ErrorIs(t, err, reactive.ErrKeyTaken)

	_, err = state.Derive("d", func() (any, error) { return nil, nil })
	require.NoError(t, err)
	_, err = state.Derive("d", func() (any, error) { return nil, nil })
	assert.ErrorIs(t, err, reactive.ErrKeyTaken)
}

func TestTypedFields(t *testing.T) {
	rs := reactive.New(failFast(t))
	state := rs.WrapObject(map[string]any{})

	count := reactive.FieldOf[int](state, "count")
	count.Set(3)
	assert.Equal(t, 3, count.Get())

	double, err := reactive.DeriveField[int](state, "double", func() (int, error) {
		return count.Get() * 2, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 6, double.Get())

	count.Set(5)
	assert.Equal(t, 10, double.Get())
}
