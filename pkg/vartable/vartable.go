// Package vartable implements the symbol table binding identifiers to
// stored expression trees.
//
// Entries are kept sorted by identifier so lookup, insert and removal run
// in logarithmic time; no two entries ever share an identifier. Values are
// opaque trees: the table never evaluates or inspects them.
package vartable

import (
	"fmt"
	"sort"

	"github.com/ratcrunch/ratcrunch/pkg/types"
)

// Entry is one binding from identifier to a stored expression tree.
type Entry struct {
	ID    string
	Value *types.Node
}

// Table is an ordered collection of bindings. Not safe for concurrent use;
// a host embedding it in a concurrent system serializes access per logical
// session.
type Table struct {
	entries []Entry
}

// New creates an empty Table.
func New() *Table {
	return &Table{}
}

// search returns the sorted position of id and whether it is present.
func (t *Table) search(id string) (int, bool) {
	i := sort.Search(len(t.entries), func(i int) bool {
		return t.entries[i].ID >= id
	})
	return i, i < len(t.entries) && t.entries[i].ID == id
}

// Add inserts a new binding at its sorted position, failing if the
// identifier already exists.
func (t *Table) Add(e Entry) error {
	i, found := t.search(e.ID)
	if found {
		return fmt.Errorf("variable %q already defined", e.ID)
	}
	t.insert(i, e)
	return nil
}

// Store inserts a binding, replacing any existing binding of the same
// identifier in place.
func (t *Table) Store(e Entry) {
	i, found := t.search(e.ID)
	if found {
		t.entries[i] = e
		return
	}
	t.insert(i, e)
}

func (t *Table) insert(i int, e Entry) {
	t.entries = append(t.entries, Entry{})
	copy(t.entries[i+1:], t.entries[i:])
	t.entries[i] = e
}

// Get returns the binding for id, failing if absent.
func (t *Table) Get(id string) (Entry, error) {
	i, found := t.search(id)
	if !found {
		return Entry{}, fmt.Errorf("variable %q not found", id)
	}
	return t.entries[i], nil
}

// Remove deletes the binding for id, failing if absent.
func (t *Table) Remove(id string) error {
	i, found := t.search(id)
	if !found {
		return fmt.Errorf("variable %q not found", id)
	}
	t.entries = append(t.entries[:i], t.entries[i+1:]...)
	return nil
}

// Merge stores every binding of other into t, other's bindings winning on
// identifier collision.
func (t *Table) Merge(other *Table) {
	if other == nil {
		return
	}
	for _, e := range other.entries {
		t.Store(e)
	}
}

// Len returns the number of bindings.
func (t *Table) Len() int {
	return len(t.entries)
}

// Entries returns the bindings in identifier order. The returned slice is a
// copy; the trees it points at are the stored ones.
func (t *Table) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}
