package bind

import (
	"fmt"

	"github.com/statewire/statewire/reactive"
)

// Rule validates one field value; a non-nil error is the failure message.
type Rule func(value any) error

// Form holds field values on a reactive object and compiles each field's
// rules into a derived "<name>:error" key, so validation re-runs lazily
// when the field changes and error bindings update like any other read.
type Form struct {
	eng    *reactive.Engine
	state  *reactive.Object
	rules  map[string][]Rule
	fields []string
}

func NewForm(eng *reactive.Engine) *Form {
	return &Form{
		eng:   eng,
		state: eng.WrapObject(map[string]any{}),
		rules: map[string][]Rule{},
	}
}

// Field declares a field with its initial value and validators.
func (f *Form) Field(name string, initial any, rules ...Rule) error {
	if _, ok := f.rules[name]; ok {
		return fmt.Errorf("field %q already declared", name)
	}
	f.state.Set(name, initial)
	f.rules[name] = rules
	f.fields = append(f.fields, name)
	_, err := f.state.Derive(name+":error", func() (any, error) {
		v := f.state.Get(name)
		for _, rule := range f.rules[name] {
			if err := rule(v); err != nil {
				return err.Error(), nil
			}
		}
		return "", nil
	})
	return err
}

func (f *Form) State() *reactive.Object { return f.state }

func (f *Form) Set(name string, v any) { f.state.Set(name, v) }

func (f *Form) Value(name string) any { return f.state.Get(name) }

// Error returns the field's current validation message, empty when valid.
func (f *Form) Error(name string) string {
	s, _ := f.state.Get(name + ":error").(string)
	return s
}

// Valid reads every field's error key, so an effect calling it re-runs
// when any field's validity changes.
func (f *Form) Valid() bool {
	valid := true
	for _, name := range f.fields {
		if f.Error(name) != "" {
			valid = false
		}
	}
	return valid
}

// Bind applies the field value to el's "value" property.
func (f *Form) Bind(name string, el Element) func() {
	return Prop(f.eng, el, "value", func() any { return f.state.Get(name) })
}

// BindError applies the field's validation message to el's text.
func (f *Form) BindError(name string, el Element) func() {
	return Text(f.eng, el, func() any { return f.Error(name) })
}

// Required fails on nil or empty-string values.
func Required(msg string) Rule {
	return func(v any) error {
		if v == nil || v == "" {
			return fmt.Errorf("%s", msg)
		}
		return nil
	}
}

// MinLen fails when a string value is shorter than n.
func MinLen(n int, msg string) Rule {
	return func(v any) error {
		s, _ := v.(string)
		if len(s) < n {
			return fmt.Errorf("%s", msg)
		}
		return nil
	}
}
