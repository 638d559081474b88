package multimethod

import (
	"context"
	"iter"
	"sync"
)

// invoker wraps a typed method so entries of any Generic can live in the
// same Table and be handed to the same Combiner.
type invoker func(ctx context.Context, c Call) (any, error)

// Entry is one registered method: its compiled Spec and its implementation.
// Entries are never modified after registration.
type Entry struct {
	index  int
	spec   Spec
	invoke invoker
}

// Index is the entry's position in registration order, starting at 0.
func (e *Entry) Index() int { return e.index }

// Spec returns the specifier the entry was registered with.
func (e *Entry) Spec() Spec { return e.spec }

// Table is an append-only, registration-ordered list of entries.
//
// Table is safe for concurrent use: registration takes the write lock, Entries takes
// a snapshot under the read lock. A dispatch pass iterates one snapshot, so
// registrations made while it runs are not seen until the next call.
type Table struct {
	mu      sync.RWMutex
	entries []*Entry
}

// add appends an entry and returns it.
func (t *Table) add(spec Spec, fn invoker) *Entry {
	t.mu.Lock()
	defer t.mu.Unlock()

	e := &Entry{index: len(t.entries), spec: spec, invoke: fn}
	t.entries = append(t.entries, e)
	return e
}

// Len returns the number of registered entries.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return len(t.entries)
}

// Entries returns the entries in registration order. The sequence is a
// snapshot taken when Entries is called and can be ranged over any number
// of times.
func (t *Table) Entries() iter.Seq[*Entry] {
	snapshot := t.snapshot()
	return func(yield func(*Entry) bool) {
		for _, e := range snapshot {
			if !yield(e) {
				return
			}
		}
	}
}

func (t *Table) snapshot() []*Entry {
	t.mu.RLock()
	defer t.mu.RUnlock()

	// entries is append-only, so the prefix seen here never changes
	return t.entries[:len(t.entries):len(t.entries)]
}
