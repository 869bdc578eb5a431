package machine

import (
	"fmt"

	"risp/lang/compiler"
)

// exec runs one decoded instruction. It returns (halted, exitCode, err);
// halted is true only after a native Exit.
func (th *Thread) exec(p *compiler.Program, op compiler.Op, variants [3]compiler.Variant) (bool, uint64, error) {
	switch op {
	case compiler.Nop:
		return false, 0, nil

	case compiler.Push:
		arg, err := th.fetch(p)
		if err != nil {
			return false, 0, err
		}
		v, err := th.read(variants[0], arg)
		if err != nil {
			return false, 0, err
		}
		th.push(v)
		return false, 0, nil

	case compiler.Pop:
		_, err := th.pop()
		return false, 0, err

	case compiler.Dup:
		arg, err := th.fetch(p)
		if err != nil {
			return false, 0, err
		}
		if variants[0] != compiler.VStack {
			return false, 0, &ErrBadVariant{Op: "dup", Msg: "operand must be Stack(k)"}
		}
		v, err := th.read(variants[0], arg)
		if err != nil {
			return false, 0, err
		}
		th.push(v)
		return false, 0, nil

	case compiler.Mov:
		destArg, err := th.fetch(p)
		if err != nil {
			return false, 0, err
		}
		srcArg, err := th.fetch(p)
		if err != nil {
			return false, 0, err
		}
		v, err := th.read(variants[1], srcArg)
		if err != nil {
			return false, 0, err
		}
		return false, 0, th.write(variants[0], destArg, v)

	case compiler.Add, compiler.Sub, compiler.Mult, compiler.Div, compiler.Mod:
		return false, 0, th.execArith(op)

	case compiler.CmpEq, compiler.CmpNe, compiler.CmpGt, compiler.CmpLt, compiler.CmpGte, compiler.CmpLte:
		return false, 0, th.execCompare(op)

	case compiler.Not:
		v, err := th.pop()
		if err != nil {
			return false, 0, err
		}
		if v == 0 {
			th.push(1)
		} else {
			th.push(0)
		}
		return false, 0, nil

	case compiler.Jmp:
		arg, err := th.fetch(p)
		if err != nil {
			return false, 0, err
		}
		target, err := th.read(variants[0], arg)
		if err != nil {
			return false, 0, err
		}
		th.pc = int(target)
		return false, 0, nil

	case compiler.JmpIf:
		arg, err := th.fetch(p)
		if err != nil {
			return false, 0, err
		}
		cond, err := th.pop()
		if err != nil {
			return false, 0, err
		}
		target, err := th.read(variants[0], arg)
		if err != nil {
			return false, 0, err
		}
		if cond != 0 {
			th.pc = int(target)
		}
		return false, 0, nil

	case compiler.Call:
		arg, err := th.fetch(p)
		if err != nil {
			return false, 0, err
		}
		switch variants[0] {
		case compiler.VDirect:
			th.callStack = append(th.callStack, th.pc)
			th.pc = int(arg)
			return false, 0, nil
		case compiler.VNative:
			return th.callNative(compiler.NativeID(arg))
		default:
			return false, 0, &ErrBadVariant{Op: "call", Msg: "operand must be Direct or Native"}
		}

	case compiler.Ret:
		n := len(th.callStack)
		if n == 0 {
			return false, 0, ErrStackUnderflow
		}
		th.pc = th.callStack[n-1]
		th.callStack = th.callStack[:n-1]
		return false, 0, nil

	case compiler.Swap:
		b, err := th.pop()
		if err != nil {
			return false, 0, err
		}
		a, err := th.pop()
		if err != nil {
			return false, 0, err
		}
		th.push(b)
		th.push(a)
		return false, 0, nil

	default:
		return false, 0, &ErrBadOpcode{Detail: fmt.Sprintf("unhandled op %s", op)}
	}
}

// fetch reads the immediate word at pc and advances past it. It fails when
// the program ends before the instruction's operands do.
func (th *Thread) fetch(p *compiler.Program) (uint64, error) {
	if th.pc < 0 || th.pc >= len(p.Words) {
		return 0, &ErrBadOpcode{Detail: fmt.Sprintf("truncated operand at word %d", th.pc)}
	}
	v := uint64(p.Words[th.pc])
	th.pc++
	return v, nil
}

func (th *Thread) push(v uint64) { th.operand = append(th.operand, v) }

func (th *Thread) pop() (uint64, error) {
	n := len(th.operand)
	if n == 0 {
		return 0, ErrStackUnderflow
	}
	v := th.operand[n-1]
	th.operand = th.operand[:n-1]
	return v, nil
}

func (th *Thread) peek() (uint64, error) {
	n := len(th.operand)
	if n == 0 {
		return 0, ErrStackUnderflow
	}
	return th.operand[n-1], nil
}

// read interprets arg under the given addressing-mode variant.
func (th *Thread) read(v compiler.Variant, arg uint64) (uint64, error) {
	switch v {
	case compiler.VDirect:
		return arg, nil
	case compiler.VRegister:
		if int(arg) >= len(th.registers) {
			return 0, &ErrBadVariant{Op: "read", Msg: fmt.Sprintf("register %d out of range", arg)}
		}
		return th.registers[arg], nil
	case compiler.VStack:
		idx := len(th.operand) - 1 - int(arg)
		if idx < 0 || idx >= len(th.operand) {
			return 0, ErrStackUnderflow
		}
		return th.operand[idx], nil
	case compiler.VStackRelative:
		if int(arg) < 0 || int(arg) >= len(th.operand) {
			return 0, ErrStackUnderflow
		}
		return th.operand[arg], nil
	default:
		return 0, &ErrBadVariant{Op: "read", Msg: fmt.Sprintf("cannot read through %s", v)}
	}
}

// write stores value at the location named by the given addressing-mode
// variant. Direct and Native are not writable locations.
func (th *Thread) write(v compiler.Variant, arg uint64, value uint64) error {
	switch v {
	case compiler.VRegister:
		if int(arg) >= len(th.registers) {
			return &ErrBadVariant{Op: "write", Msg: fmt.Sprintf("register %d out of range", arg)}
		}
		th.registers[arg] = value
		return nil
	case compiler.VStack:
		idx := len(th.operand) - 1 - int(arg)
		if idx < 0 || idx >= len(th.operand) {
			return ErrStackUnderflow
		}
		th.operand[idx] = value
		return nil
	case compiler.VStackRelative:
		if int(arg) < 0 || int(arg) >= len(th.operand) {
			return ErrStackUnderflow
		}
		th.operand[arg] = value
		return nil
	default:
		return &ErrBadVariant{Op: "write", Msg: fmt.Sprintf("cannot write through %s", v)}
	}
}

func (th *Thread) execArith(op compiler.Op) error {
	rhs, err := th.pop()
	if err != nil {
		return err
	}
	lhs, err := th.pop()
	if err != nil {
		return err
	}
	switch op {
	case compiler.Add:
		th.push(lhs + rhs)
	case compiler.Sub:
		th.push(lhs - rhs)
	case compiler.Mult:
		th.push(lhs * rhs)
	case compiler.Div:
		if rhs == 0 {
			return ErrDivByZero
		}
		th.push(lhs / rhs)
	case compiler.Mod:
		if rhs == 0 {
			return ErrDivByZero
		}
		th.push(lhs % rhs)
	}
	return nil
}

func (th *Thread) execCompare(op compiler.Op) error {
	rhs, err := th.pop()
	if err != nil {
		return err
	}
	lhs, err := th.pop()
	if err != nil {
		return err
	}
	var result bool
	switch op {
	case compiler.CmpEq:
		result = lhs == rhs
	case compiler.CmpNe:
		result = lhs != rhs
	case compiler.CmpGt:
		result = lhs > rhs
	case compiler.CmpLt:
		result = lhs < rhs
	case compiler.CmpGte:
		result = lhs >= rhs
	case compiler.CmpLte:
		result = lhs <= rhs
	}
	if result {
		th.push(1)
	} else {
		th.push(0)
	}
	return nil
}

// nativeFunc is a host-implemented builtin. It operates directly on the
// calling thread's operand stack and may halt the run loop.
type nativeFunc func(th *Thread) (halted bool, exitCode uint64, err error)

var natives = [...]nativeFunc{
	compiler.NativePrint: nativePrint,
	compiler.NativeExit:  nativeExit,
}

func (th *Thread) callNative(id compiler.NativeID) (bool, uint64, error) {
	if id >= compiler.NativeID(len(natives)) || natives[id] == nil {
		return false, 0, &ErrBadOpcode{Detail: fmt.Sprintf("unknown native id %d", id)}
	}
	return natives[id](th)
}

// nativePrint prints the value at TOS, leaving it in place.
func nativePrint(th *Thread) (bool, uint64, error) {
	v, err := th.peek()
	if err != nil {
		return false, 0, err
	}
	fmt.Fprintf(th.stdout, "%d\n", v)
	return false, 0, nil
}

// nativeExit halts the thread with the value at TOS as its exit code.
func nativeExit(th *Thread) (bool, uint64, error) {
	v, err := th.peek()
	if err != nil {
		return false, 0, err
	}
	return true, v, nil
}
