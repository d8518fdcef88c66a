package reactive

import "fmt"

// EffectRunner re-runs its body in full on every invalidation, re-deriving
// the dependency set from the reads the run actually performs.
type EffectRunner struct {
	eng      *Engine
	id       uint64
	fn       func() error
	entries  []*depEntry
	disposed bool
}

func (ef *EffectRunner) isSource() {}

func (ef *EffectRunner) String() string {
	return fmt.Sprintf("effect#%d", ef.id)
}

func (ef *EffectRunner) invalidate() {
	ef.eng.scheduleEffect(ef)
}

func (ef *EffectRunner) linkEntry(entry *depEntry) {
	ef.entries = append(ef.entries, entry)
}

func (ef *EffectRunner) unlinkAll() {
	for _, entry := range ef.entries {
		entry.remove(ef)
	}
	ef.entries = ef.entries[:0]
}

// Effect registers fn and runs it immediately, recording every reactive
// read it performs. The returned disposer removes it from all dependency
// entries; disposing twice is a no-op.
func (e *Engine) Effect(fn func() error) func() {
	ef := &EffectRunner{
		eng: e,
		id:  e.reg.id(),
		fn:  fn,
	}
	e.runEffect(ef)
	return func() {
		if ef.disposed {
			return
		}
		ef.disposed = true
		ef.unlinkAll()
	}
}
