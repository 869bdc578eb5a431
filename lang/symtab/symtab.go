// Package symtab implements the two-phase symbol-resolution pass shared by
// the assembler (labels) and the code generator (function names): record a
// placeholder and the word offset that needs patching at emission
// time, resolve every name to an address once the whole unit has been
// scanned, and fail on whatever is left unresolved.
package symtab

import (
	"fmt"

	"github.com/dolthub/swiss"
)

// ErrUnresolved is returned by Resolve, wrapping the first name that never
// got a Define.
type ErrUnresolved struct{ Name string }

func (e *ErrUnresolved) Error() string { return fmt.Sprintf("unresolved symbol: %s", e.Name) }

// Table tracks resolved symbol -> address bindings and the list of pending
// (offset, name) patches still waiting on a Define.
type Table struct {
	resolved *swiss.Map[string, int]
	pending  []pendingRef
}

type pendingRef struct {
	Offset int
	Name   string
}

// New returns an empty Table.
func New() *Table {
	return &Table{resolved: swiss.NewMap[string, int](16)}
}

// Define binds name to addr. Redefining an existing name is the caller's
// responsibility to reject (labels/function names must be unique within a
// translation unit); Table itself just records the latest binding.
func (t *Table) Define(name string, addr int) {
	t.resolved.Put(name, addr)
}

// Lookup returns the address bound to name, if already resolved.
func (t *Table) Lookup(name string) (int, bool) {
	return t.resolved.Get(name)
}

// Defined reports whether name has already been bound.
func (t *Table) Defined(name string) bool {
	_, ok := t.resolved.Get(name)
	return ok
}

// RecordPending records that the word at offset must be patched with name's
// address once known. offset is a word index into the caller's program, for
// the assembler and the code generator alike.
func (t *Table) RecordPending(offset int, name string) {
	t.pending = append(t.pending, pendingRef{Offset: offset, Name: name})
}

// Resolve walks the pending list and invokes patch(offset, addr) for each
// entry whose name is now defined. It returns the first unresolved name as
// an *ErrUnresolved, after attempting to patch everything that can be.
func (t *Table) Resolve(patch func(offset, addr int)) error {
	var firstErr error
	for _, p := range t.pending {
		addr, ok := t.resolved.Get(p.Name)
		if !ok {
			if firstErr == nil {
				firstErr = &ErrUnresolved{Name: p.Name}
			}
			continue
		}
		patch(p.Offset, addr)
	}
	return firstErr
}
