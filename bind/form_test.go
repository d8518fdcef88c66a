package bind_test

import (
	"testing"

	"github.com/statewire/statewire/bind"
	"github.com/statewire/statewire/reactive"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormValidationLifecycle(t *testing.T) {
	rs := reactive.New(failFast(t))
	form := bind.NewForm(rs)

	require.NoError(t, form.Field("email", "", bind.Required("email is required")))
	require.NoError(t, form.Field("password", "", bind.MinLen(8, "too short")))

	assert.Equal(t, "email is required", form.Error("email"))
	assert.Equal(t, "too short", form.Error("password"))
	assert.False(t, form.Valid())

	form.Set("email", "ada@example.com")
	assert.Equal(t, "", form.Error("email"))
	assert.False(t, form.Valid())

	form.Set("password", "hunter22pass")
	assert.True(t, form.Valid())
}

func TestFormFieldRedeclarationFails(t *testing.T) {
	rs := reactive.New(failFast(t))
	form := bind.NewForm(rs)

	require.NoError(t, form.Field("email", ""))
	assert.Error(t, form.Field("email", ""))
}

func TestFormRulesRunInOrder(t *testing.T) {
	rs := reactive.New(failFast(t))
	form := bind.NewForm(rs)

	require.NoError(t, form.Field("name", "",
		bind.Required("required"),
		bind.MinLen(3, "min 3"),
	))

	// first failing rule wins
	assert.Equal(t, "required", form.Error("name"))
	form.Set("name", "ab")
	assert.Equal(t, "min 3", form.Error("name"))
	form.Set("name", "abc")
	assert.Equal(t, "", form.Error("name"))
}

func TestFormBindings(t *testing.T) {
	rs := reactive.New(failFast(t))
	form := bind.NewForm(rs)
	require.NoError(t, form.Field("email", "", bind.Required("required")))

	input := &fakeElement{}
	errEl := &fakeElement{}
	form.Bind("email", input)
	form.BindError("email", errEl)

	require.Len(t, input.calls, 1)
	assert.Equal(t, applied{"value", ""}, input.last())
	assert.Equal(t, applied{"text", "required"}, errEl.last())

	form.Set("email", "ada@example.com")
	assert.Equal(t, applied{"value", "ada@example.com"}, input.last())
	assert.Equal(t, applied{"text", ""}, errEl.last())
}

// an effect reading Valid depends on every field's error key
func TestFormValidInEffect(t *testing.T) {
	rs := reactive.New(failFast(t))
	form := bind.NewForm(rs)
	require.NoError(t, form.Field("a", "x", bind.Required("required")))
	require.NoError(t, form.Field("b", "y", bind.Required("required")))

	var states []bool
	rs.Effect(func() error {
		states = append(states, form.Valid())
		return nil
	})
	require.Equal(t, []bool{true}, states)

	form.Set("a", "")
	assert.Equal(t, []bool{true, false}, states)
}
