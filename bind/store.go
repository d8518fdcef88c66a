package bind

import "github.com/statewire/statewire/reactive"

// Store is a named reactive object with attachment sugar for derived
// values and watchers.
type Store struct {
	Name string

	eng *reactive.Engine
	obj *reactive.Object
}

func NewStore(eng *reactive.Engine, name string, initial map[string]any) *Store {
	return &Store{
		Name: name,
		eng:  eng,
		obj:  eng.WrapObject(initial),
	}
}

func (s *Store) State() *reactive.Object { return s.obj }

func (s *Store) Get(key string) any { return s.obj.Get(key) }

func (s *Store) Set(key string, v any) { s.obj.Set(key, v) }

func (s *Store) Computed(key string, fn func() (any, error)) error {
	_, err := s.obj.Derive(key, fn)
	return err
}

func (s *Store) Watch(key string, cb reactive.WatchFunc) (func(), error) {
	return s.eng.Watch(s.obj, key, cb)
}

// Snapshot returns a detached deep copy of the current plain state.
func (s *Store) Snapshot() map[string]any {
	return reactive.Clone(s.obj.Raw()).(map[string]any)
}
