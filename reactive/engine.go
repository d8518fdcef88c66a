package reactive

import (
	"errors"
	"fmt"

	mapset "github.com/deckarep/golang-set/v2"
)

// OnErrorFunc receives every error caught at the propagation boundary:
// failing subscriber bodies, derived cycles, runaway cascades. Errors are
// never rethrown to the code that triggered the write.
type OnErrorFunc func(from Source, err error)

// Source identifies where a reported error came from.
type Source interface {
	isSource()
}

var (
	ErrDerivedCycle    = errors.New("derived value depends on itself")
	ErrCascadeOverflow = errors.New("effect cascade exceeded depth limit")
	ErrDrainOverflow   = errors.New("batch drain did not converge")
	ErrNotReactive     = errors.New("target is not reactive")
	ErrResumeNoPause   = errors.New("resume tracking without a matching pause")
	ErrKeyTaken        = errors.New("key already in use")
	ErrReadOnlyKey     = errors.New("key holds a derived value")
	ErrIndexRange      = errors.New("index out of range")
)

const (
	maxCascadeDepth = 128
	maxDrainPasses  = 64
)

// Engine is the single-threaded propagation scheduler and execution
// context. All wrappers, subscribers and batches belong to exactly one
// engine; an engine must be owned by one goroutine.
type Engine struct {
	batchDepth int
	activeSub  subscriber
	pauseStack []subscriber

	// queued effects keep insertion order; the set deduplicates.
	queued    []*EffectRunner
	queuedSet mapset.Set[*EffectRunner]

	reg      *registry
	onError  OnErrorFunc
	runDepth int
}

func New(onError OnErrorFunc) *Engine {
	return &Engine{
		queuedSet: mapset.NewThreadUnsafeSet[*EffectRunner](),
		reg:       newRegistry(),
		onError:   onError,
	}
}

func (e *Engine) StartBatch() {
	e.batchDepth++
}

func (e *Engine) EndBatch() {
	e.batchDepth--
	if e.batchDepth == 0 {
		e.drainQueued()
	}
}

// Batch defers effect execution until fn returns; effects scheduled more
// than once inside the batch run once. Batches nest, only the outermost
// one drains.
func (e *Engine) Batch(fn func()) {
	e.StartBatch()
	defer e.EndBatch()
	fn()
}

func (e *Engine) PauseTracking() {
	e.pauseStack = append(e.pauseStack, e.activeSub)
	e.activeSub = nil
}

// ResumeTracking restores the subscriber saved by the matching
// PauseTracking. An unpaired call is reported through onError and ignored.
func (e *Engine) ResumeTracking() {
	lastIdx := len(e.pauseStack) - 1
	if lastIdx < 0 {
		e.reportError(nil, ErrResumeNoPause)
		return
	}
	e.activeSub = e.pauseStack[lastIdx]
	e.pauseStack = e.pauseStack[:lastIdx]
}

// Untrack runs fn with no active subscriber, so reads inside it are not
// recorded as dependencies.
func (e *Engine) Untrack(fn func()) {
	e.PauseTracking()
	defer e.ResumeTracking()
	fn()
}

// notify runs one propagation event over an entry. The subscriber list is
// snapshotted because re-tracking mutates it mid-iteration.
func (e *Engine) notify(entry *depEntry) {
	if len(entry.subs) == 0 {
		return
	}
	subs := make([]subscriber, len(entry.subs))
	copy(subs, entry.subs)
	for _, sub := range subs {
		sub.invalidate()
	}
}

func (e *Engine) trackEntry(entry *depEntry) {
	if e.activeSub != nil {
		entry.add(e.activeSub)
	}
}

func (e *Engine) scheduleEffect(ef *EffectRunner) {
	if ef.disposed {
		return
	}
	if e.batchDepth > 0 {
		if e.queuedSet.Add(ef) {
			e.queued = append(e.queued, ef)
		}
		return
	}
	e.runEffect(ef)
}

// drainQueued flushes the pending set once the outermost batch ends. The
// queue is swapped out before running so effects scheduled during the
// drain land in a fresh queue; another pass picks those up, up to a
// bounded number of passes.
func (e *Engine) drainQueued() {
	for pass := 0; pass < maxDrainPasses; pass++ {
		if len(e.queued) == 0 {
			return
		}
		queue := e.queued
		e.queued = nil
		e.queuedSet.Clear()
		for _, ef := range queue {
			e.runEffect(ef)
		}
	}
	if len(e.queued) > 0 {
		e.queued = nil
		e.queuedSet.Clear()
		e.reportError(nil, ErrDrainOverflow)
	}
}

func (e *Engine) runEffect(ef *EffectRunner) {
	if ef.disposed {
		return
	}
	if e.runDepth >= maxCascadeDepth {
		e.reportError(ef, ErrCascadeOverflow)
		return
	}
	e.runDepth++
	prevSub := e.activeSub
	e.activeSub = ef
	ef.unlinkAll()
	if err := safeCall(ef.fn); err != nil {
		e.reportError(ef, err)
	}
	e.activeSub = prevSub
	e.runDepth--
}

func (e *Engine) reportError(from Source, err error) {
	if e.onError != nil {
		e.onError(from, err)
	}
}

// safeCall shields propagation from a misbehaving subscriber body: a
// returned error or a panic is contained and reported, the remaining
// subscribers still run.
func safeCall(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("subscriber panicked: %v", r)
		}
	}()
	return fn()
}

func safeCallValue(fn func() (any, error)) (v any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("subscriber panicked: %v", r)
		}
	}()
	return fn()
}
