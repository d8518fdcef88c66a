package reactive

// Field is a typed view over one key of an Object, for hosts whose data
// shapes are known ahead of time. Reads and writes go through the normal
// tracked path; the zero value stands in for a missing or mistyped key.
type Field[T any] struct {
	obj *Object
	key string
}

func FieldOf[T any](o *Object, key string) Field[T] {
	return Field[T]{obj: o, key: key}
}

func (f Field[T]) Get() T {
	v, _ := f.obj.Get(f.key).(T)
	return v
}

func (f Field[T]) Set(v T) {
	f.obj.Set(f.key, v)
}

func (f Field[T]) Key() string { return f.key }

// DeriveField attaches a typed derived value at key and returns the
// typed view over it.
func DeriveField[O any](o *Object, key string, fn func() (O, error)) (Field[O], error) {
	_, err := o.Derive(key, func() (any, error) {
		v, err := fn()
		return v, err
	})
	if err != nil {
		return Field[O]{}, err
	}
	return FieldOf[O](o, key), nil
}
