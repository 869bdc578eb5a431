package compiler

import (
	"fmt"
	"strconv"

	"risp/lang/scanner"
	"risp/lang/symtab"
	"risp/lang/token"
)

// ErrUnexpectedToken is returned when the assembler's recursive-descent
// parser finds a token other than what the current production expects.
type ErrUnexpectedToken struct {
	Want, Got string
	Pos       token.Pos
}

func (e *ErrUnexpectedToken) Error() string {
	return fmt.Sprintf("%s: expected %s, got %s", posString(e.Pos), e.Want, e.Got)
}

// ErrBadNumber is returned when a NUMBER token's text does not parse as a
// decimal unsigned integer.
type ErrBadNumber struct {
	Text string
	Pos  token.Pos
}

func (e *ErrBadNumber) Error() string {
	return fmt.Sprintf("%s: invalid number literal %q", posString(e.Pos), e.Text)
}

// ErrUnknownMnemonic is returned for an instruction IDENT that does not
// name a known operation.
type ErrUnknownMnemonic struct {
	Name string
	Pos  token.Pos
}

func (e *ErrUnknownMnemonic) Error() string {
	return fmt.Sprintf("%s: unknown mnemonic %q", posString(e.Pos), e.Name)
}

// ErrUnknownNative is returned for a $name operand that does not name a
// known native.
type ErrUnknownNative struct {
	Name string
	Pos  token.Pos
}

func (e *ErrUnknownNative) Error() string {
	return fmt.Sprintf("%s: unknown native %q", posString(e.Pos), e.Name)
}

// ErrUnknownSymbol is returned once assembly finishes and a label
// reference still has no matching definition.
type ErrUnknownSymbol struct{ Name string }

func (e *ErrUnknownSymbol) Error() string { return fmt.Sprintf("unknown symbol %q", e.Name) }

func posString(p token.Pos) string {
	line, col := p.LineCol()
	return fmt.Sprintf("%d:%d", line, col)
}

// Assemble compiles .rasm source (EBNF: program := (label | instr)* EOF)
// into a word vector. Label and operand addressing follow the surface
// syntax: bare NUMBER -> Direct, s(k) -> Stack(k), sa(k) -> StackRelative(k),
// r(k) -> Register(k), .label -> Direct(resolved address), $name -> Native(id).
func Assemble(src []byte) (*Program, error) {
	toks, err := scanner.ScanAll(src)
	if err != nil {
		return nil, err
	}
	a := &asmParser{toks: toks, labels: symtab.New()}
	if err := a.parseProgram(); err != nil {
		return nil, err
	}
	if err := a.labels.Resolve(func(offset, addr int) { a.words[offset] = Word(addr) }); err != nil {
		if unresolved, ok := err.(*symtab.ErrUnresolved); ok {
			return nil, &ErrUnknownSymbol{Name: unresolved.Name}
		}
		return nil, err
	}
	return &Program{Words: a.words, Entry: 0}, nil
}

type asmParser struct {
	toks   []scanner.Tok
	pos    int
	words  []Word
	labels *symtab.Table
}

func (a *asmParser) cur() scanner.Tok { return a.toks[a.pos] }

func (a *asmParser) advance() scanner.Tok {
	t := a.toks[a.pos]
	if a.pos < len(a.toks)-1 {
		a.pos++
	}
	return t
}

func (a *asmParser) expect(kind token.Token, want string) (scanner.Tok, error) {
	if a.cur().Kind != kind {
		return scanner.Tok{}, &ErrUnexpectedToken{Want: want, Got: a.cur().Kind.String(), Pos: a.cur().Pos}
	}
	return a.advance(), nil
}

func (a *asmParser) parseProgram() error {
	for a.cur().Kind != token.EOF {
		switch a.cur().Kind {
		case token.DOT:
			if err := a.parseLabel(); err != nil {
				return err
			}
		case token.IDENT:
			if err := a.parseInstr(); err != nil {
				return err
			}
		default:
			return &ErrUnexpectedToken{Want: "label or mnemonic", Got: a.cur().Kind.String(), Pos: a.cur().Pos}
		}
	}
	return nil
}

func (a *asmParser) parseLabel() error {
	if _, err := a.expect(token.DOT, "."); err != nil {
		return err
	}
	name, err := a.expect(token.IDENT, "identifier")
	if err != nil {
		return err
	}
	if _, err := a.expect(token.COLON, ":"); err != nil {
		return err
	}
	a.labels.Define(name.Lit, len(a.words))
	return nil
}

func (a *asmParser) parseInstr() error {
	mnemonic, err := a.expect(token.IDENT, "mnemonic")
	if err != nil {
		return err
	}
	op, ok := LookupMnemonic(mnemonic.Lit)
	if !ok {
		return &ErrUnknownMnemonic{Name: mnemonic.Lit, Pos: mnemonic.Pos}
	}
	n := Arity(op)

	var variants [3]Variant
	var values [2]Word
	var pendingLabels [2]string
	for i := 0; i < n; i++ {
		if i > 0 {
			if _, err := a.expect(token.COMMA, ","); err != nil {
				return err
			}
		}
		v, value, labelName, err := a.parseOperand()
		if err != nil {
			return err
		}
		variants[i] = v
		values[i] = value
		pendingLabels[i] = labelName
	}

	a.words = append(a.words, Encode(op, variants))
	base := len(a.words)
	for i := 0; i < n; i++ {
		a.words = append(a.words, values[i])
		if pendingLabels[i] != "" {
			a.labels.RecordPending(base+i, pendingLabels[i])
		}
	}
	return nil
}

// parseOperand returns the operand's variant and immediate value. For an
// unresolved ".label" reference, labelName is non-empty and value is a
// placeholder to be patched once the whole unit is scanned.
func (a *asmParser) parseOperand() (Variant, Word, string, error) {
	switch a.cur().Kind {
	case token.NUMBER:
		tok := a.advance()
		v, err := strconv.ParseUint(tok.Lit, 10, 64)
		if err != nil {
			return 0, 0, "", &ErrBadNumber{Text: tok.Lit, Pos: tok.Pos}
		}
		return VDirect, Word(v), "", nil
	case token.IDENT:
		tok := a.advance()
		variant, ok := addrModeIdent[tok.Lit]
		if !ok {
			return 0, 0, "", &ErrUnexpectedToken{Want: "s(k), sa(k) or r(k)", Got: tok.Lit, Pos: tok.Pos}
		}
		if _, err := a.expect(token.LPAREN, "("); err != nil {
			return 0, 0, "", err
		}
		numTok, err := a.expect(token.NUMBER, "number")
		if err != nil {
			return 0, 0, "", err
		}
		k, err := strconv.ParseUint(numTok.Lit, 10, 64)
		if err != nil {
			return 0, 0, "", &ErrBadNumber{Text: numTok.Lit, Pos: numTok.Pos}
		}
		if _, err := a.expect(token.RPAREN, ")"); err != nil {
			return 0, 0, "", err
		}
		return variant, Word(k), "", nil
	case token.DOT:
		a.advance()
		name, err := a.expect(token.IDENT, "identifier")
		if err != nil {
			return 0, 0, "", err
		}
		return VDirect, 0, name.Lit, nil
	case token.DOLLAR:
		a.advance()
		name, err := a.expect(token.IDENT, "identifier")
		if err != nil {
			return 0, 0, "", err
		}
		id, ok := LookupNative(name.Lit)
		if !ok {
			return 0, 0, "", &ErrUnknownNative{Name: name.Lit, Pos: name.Pos}
		}
		return VNative, Word(id), "", nil
	default:
		return 0, 0, "", &ErrUnexpectedToken{Want: "operand", Got: a.cur().Kind.String(), Pos: a.cur().Pos}
	}
}

var addrModeIdent = map[string]Variant{
	"s":  VStack,
	"sa": VStackRelative,
	"r":  VRegister,
}

var identForAddrMode = map[Variant]string{
	VStack:         "s",
	VStackRelative: "sa",
	VRegister:      "r",
}

// Disassemble renders a word vector back into .rasm text. Any address used
// as a Direct jump/call target gets a synthesized ".Lnn:" label so the
// output re-assembles to the identical word vector.
func Disassemble(words []Word) (string, error) {
	type decoded struct {
		addr     int
		op       Op
		variants [3]Variant
		operands []Word
	}

	var instrs []decoded
	targets := make(map[int]bool)

	for addr := 0; addr < len(words); {
		op, variants, err := Decode(words[addr])
		if err != nil {
			return "", err
		}
		n := Arity(op)
		if addr+1+n > len(words) {
			return "", fmt.Errorf("compiler: truncated operand for %s at word %d", op, addr)
		}
		operands := append([]Word(nil), words[addr+1:addr+1+n]...)
		instrs = append(instrs, decoded{addr: addr, op: op, variants: variants, operands: operands})

		if (op == Jmp || op == JmpIf || op == Call) && variants[0] == VDirect {
			targets[int(operands[0])] = true
		}
		addr += 1 + n
	}

	var out []byte
	for _, instr := range instrs {
		if targets[instr.addr] {
			out = append(out, fmt.Sprintf(".L%d:\n", instr.addr)...)
		}
		out = append(out, '\t')
		out = append(out, instr.op.String()...)
		for i, operand := range instr.operands {
			if i > 0 {
				out = append(out, ',')
			}
			out = append(out, ' ')
			out = append(out, formatOperand(instr.variants[i], operand, targets)...)
		}
		out = append(out, '\n')
	}
	return string(out), nil
}

func formatOperand(v Variant, value Word, targets map[int]bool) string {
	switch v {
	case VDirect:
		if targets[int(value)] {
			return fmt.Sprintf(".L%d", value)
		}
		return strconv.FormatUint(uint64(value), 10)
	case VStack, VStackRelative, VRegister:
		return fmt.Sprintf("%s(%d)", identForAddrMode[v], value)
	case VNative:
		name, ok := NativeName(NativeID(value))
		if !ok {
			return fmt.Sprintf("$<native %d>", value)
		}
		return "$" + name
	default:
		return strconv.FormatUint(uint64(value), 10)
	}
}
