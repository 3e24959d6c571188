// Package inputtest provides an in-memory input.Emitter for tests.
package inputtest

import (
	"errors"
	"sync"

	"github.com/petasbytes/ghostwriter/internal/input"
)

// ErrInjected is returned by a Recorder once its failure budget is spent.
var ErrInjected = errors.New("inputtest: injected failure")

// Recorder stores every emitted batch. When FailAfter is positive the
// batch with that 1-based index and all later ones fail.
type Recorder struct {
	mu        sync.Mutex
	Batches   [][]input.Event
	FailAfter int
}

func (r *Recorder) Emit(events ...input.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailAfter > 0 && len(r.Batches)+1 >= r.FailAfter {
		return ErrInjected
	}
	batch := append([]input.Event(nil), events...)
	r.Batches = append(r.Batches, batch)
	return nil
}

// Events flattens every recorded batch.
func (r *Recorder) Events() []input.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []input.Event
	for _, b := range r.Batches {
		out = append(out, b...)
	}
	return out
}

// KeyDowns counts key press events for code.
func (r *Recorder) KeyDowns(code uint16) int {
	n := 0
	for _, ev := range r.Events() {
		if ev.Type == input.EvKey && ev.Code == code && ev.Value == 1 {
			n++
		}
	}
	return n
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Batches = nil
}
