package machine

import "fmt"

// ErrStackUnderflow is returned when an instruction pops (or peeks) more
// values than are present on the operand stack, a Stack or StackRelative
// operand names a slot outside the operand stack, or Ret is executed with
// an empty call stack.
var ErrStackUnderflow = fmt.Errorf("machine: stack underflow")

// ErrBadVariant is returned when an instruction's addressing-mode variant
// cannot be used in the position it appears (e.g. Push Native, a
// Register index past the register file, a Mov into Direct).
type ErrBadVariant struct {
	Op  string
	Msg string
}

func (e *ErrBadVariant) Error() string { return fmt.Sprintf("machine: %s: %s", e.Op, e.Msg) }

// ErrBadOpcode is returned when Decode rejects the fetched word, or a Call
// Native references an id with no registered native.
type ErrBadOpcode struct{ Detail string }

func (e *ErrBadOpcode) Error() string { return fmt.Sprintf("machine: bad opcode: %s", e.Detail) }

// ErrDivByZero is returned by Div and Mod when the divisor is zero.
var ErrDivByZero = fmt.Errorf("machine: integer division by zero")
