// Package scope implements the compile-time variable stack: a lexical
// scope tracker layered over the generator's virtual operand-stack depth.
// Its contract is the critical invariant of the code generator — every
// Stack-mode binding records a depth-from-top that must shift whenever the
// compile-time stack grows or shrinks, so that it keeps identifying the
// same physical value.
package scope

import (
	"fmt"

	"github.com/dolthub/swiss"
)

// Mode is the addressing mode a binding is tracked with.
type Mode int

const (
	// Stack bindings are depth-from-top; they shift on every push/pop.
	Stack Mode = iota
	// StackRelative bindings are an absolute index from the bottom of the
	// operand stack; they are immune to the "shift on push" rule.
	StackRelative
)

// Binding is what a name resolves to: a slot and the addressing mode that
// slot must be read/written with.
type Binding struct {
	Slot int
	Mode Mode
}

// ErrRedefined is returned by Create when name already exists in the
// current (innermost) layer.
type ErrRedefined struct{ Name string }

func (e *ErrRedefined) Error() string { return fmt.Sprintf("variable %q is already defined", e.Name) }

type layer struct {
	vars *swiss.Map[string, *Binding]
	// stackVars holds the layer's Stack-mode bindings so a depth shift can
	// walk them without iterating the map.
	stackVars  []*Binding
	slotsOwned int
}

// Tracker is a stack of lexical layers mapping names to bindings.
type Tracker struct {
	layers []*layer
}

// New returns an empty Tracker.
func New() *Tracker {
	return &Tracker{}
}

// Enter pushes a new, empty layer.
func (t *Tracker) Enter() {
	t.layers = append(t.layers, &layer{vars: swiss.NewMap[string, *Binding](8)})
}

// Leave pops the innermost layer. It decrements the live compile-time depth
// by the number of Stack-mode slots that layer owns (accounted for via the
// same BumpDepth machinery), ensuring no double-shift of outer bindings.
func (t *Tracker) Leave() error {
	n := len(t.layers)
	if n == 0 {
		return fmt.Errorf("scope: leave without matching enter")
	}
	top := t.layers[n-1]
	t.layers = t.layers[:n-1]
	for i := 0; i < top.slotsOwned; i++ {
		t.shiftStackVars(-1)
	}
	return nil
}

// Create inserts name into the innermost layer, failing with ErrRedefined
// if it already exists there (shadowing an outer layer's binding of the
// same name is allowed).
func (t *Tracker) Create(name string, slot int, mode Mode) error {
	n := len(t.layers)
	if n == 0 {
		return fmt.Errorf("scope: create without an active layer")
	}
	top := t.layers[n-1]
	if _, ok := top.vars.Get(name); ok {
		return &ErrRedefined{Name: name}
	}
	b := &Binding{Slot: slot, Mode: mode}
	top.vars.Put(name, b)
	if mode == Stack {
		top.stackVars = append(top.stackVars, b)
		top.slotsOwned++
	}
	return nil
}

// Owned reports how many Stack-mode slots the innermost layer owns: the
// number of values a code generator must pop to return the runtime stack
// to the depth it had when the layer was entered.
func (t *Tracker) Owned() int {
	if n := len(t.layers); n > 0 {
		return t.layers[n-1].slotsOwned
	}
	return 0
}

// Get searches layers from innermost to outermost.
func (t *Tracker) Get(name string) (Binding, bool) {
	for i := len(t.layers) - 1; i >= 0; i-- {
		if b, ok := t.layers[i].vars.Get(name); ok {
			return *b, true
		}
	}
	return Binding{}, false
}

// BumpDepth adjusts every Stack-mode binding, across all layers, by delta:
// +1 when the generator emits a push (every existing Stack-resident value
// is now one slot further from TOS), -1 on a pop. It also tracks how many
// live slots the innermost layer owns, so Leave can undo exactly that many
// shifts when scopes close out of order relative to raw pushes.
func (t *Tracker) BumpDepth(delta int) {
	if delta == 0 {
		return
	}
	step := 1
	if delta < 0 {
		step = -1
	}
	for i := 0; i < delta*step; i++ {
		t.shiftStackVars(step)
	}
}

func (t *Tracker) shiftStackVars(step int) {
	for _, l := range t.layers {
		for _, b := range l.stackVars {
			b.Slot += step
		}
	}
}

// Depth reports how many live layers are currently entered, for tests and
// diagnostics.
func (t *Tracker) Depth() int { return len(t.layers) }
