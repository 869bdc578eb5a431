// Package machine implements the stack-based VM: a fetch-decode-execute
// loop over a compiler.Program, an unbounded operand stack and call stack,
// a fixed register file, and the native dispatch table (print, exit).
package machine

import (
	"context"
	"fmt"
	"io"
	"os"

	"risp/lang/compiler"
)

// registerCount is the size of the fixed register file: Register(i)
// operands address i in 0..=9.
const registerCount = 10

// Result is what Run returns on a clean (non-fatal) halt, including a run
// cut short by the step budget.
type Result struct {
	ExitCode uint64
	Steps    uint64
}

// Thread executes a single compiled Program. It owns all of its state; two
// Threads never share a stack or register file, so running several
// concurrently is safe as long as each has its own instance.
type Thread struct {
	// Name optionally labels the thread, for diagnostics.
	Name string

	// Stdout is where Print writes; os.Stdout if nil.
	Stdout io.Writer

	// Trace, if non-nil, receives one line of state dump after every
	// executed instruction (the CLI run command's -d flag).
	Trace io.Writer

	// MaxSteps caps the number of fetch-decode-execute cycles: once the
	// budget is spent the run stops cleanly, returning whatever partial
	// work was done. A value <= 0 means no limit (the CLI run command's
	// -m flag).
	MaxSteps int

	pc        int
	operand   []uint64
	callStack []int
	registers [registerCount]uint64

	steps    uint64
	maxSteps uint64
	stdout   io.Writer
}

func (th *Thread) init() {
	if th.MaxSteps <= 0 {
		th.maxSteps--
	} else {
		th.maxSteps = uint64(th.MaxSteps)
	}
	if th.Stdout != nil {
		th.stdout = th.Stdout
	} else {
		th.stdout = os.Stdout
	}
}

// Run executes p until a natural fall-off-the-end (pc advances past the
// last word), a native Exit, or an exhausted step budget — all clean
// halts. It fails fast on the first fatal runtime error.
func (th *Thread) Run(ctx context.Context, p *compiler.Program) (*Result, error) {
	th.init()
	th.pc = p.Entry

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if th.pc < 0 || th.pc >= len(p.Words) {
			return &Result{Steps: th.steps}, nil
		}

		if th.steps >= th.maxSteps {
			return &Result{Steps: th.steps}, nil
		}
		th.steps++

		word := p.Words[th.pc]
		op, variants, err := compiler.Decode(word)
		if err != nil {
			return nil, &ErrBadOpcode{Detail: err.Error()}
		}
		th.pc++

		halted, exitCode, err := th.exec(p, op, variants)
		if th.Trace != nil {
			th.dumpState(op)
		}
		if err != nil {
			return nil, err
		}
		if halted {
			return &Result{ExitCode: exitCode, Steps: th.steps}, nil
		}
	}
}

func (th *Thread) dumpState(op compiler.Op) {
	fmt.Fprintf(th.Trace, "pc=%d op=%s stack=%v call_stack=%v registers=%v\n",
		th.pc, op, th.operand, th.callStack, th.registers)
}
