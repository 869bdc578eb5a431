// Package ast defines the Lisp-dialect AST produced by the parser and
// consumed once by the code generator.
package ast

import (
	"fmt"
	"strings"

	"risp/lang/token"
)

// Node is any node in the AST.
type Node interface {
	// Span reports the start and end position of the node.
	Span() (start, end token.Pos)
}

// Block is a sequence of statements/forms evaluated in order.
type Block struct {
	Start, End token.Pos
	Forms      []Node
}

func (n *Block) Span() (token.Pos, token.Pos) { return n.Start, n.End }

// Root wraps the top-level block of a compilation unit.
type Root struct {
	Block *Block
}

func (n *Root) Span() (token.Pos, token.Pos) { return n.Block.Span() }

// NumberLiteral is a bare decimal integer literal.
type NumberLiteral struct {
	Pos   token.Pos
	Value uint64
}

func (n *NumberLiteral) Span() (token.Pos, token.Pos) { return n.Pos, n.Pos }

// Variable is a reference to a $-prefixed name.
type Variable struct {
	Pos  token.Pos
	Name string
}

func (n *Variable) Span() (token.Pos, token.Pos) { return n.Pos, n.Pos }

// VarDef is (defvar $name expr): binds a new variable in the current scope.
type VarDef struct {
	Pos  token.Pos
	Name string
	Expr Node
}

func (n *VarDef) Span() (token.Pos, token.Pos) { return n.Pos, n.Pos }

// VarSet is (setvar $name expr): assigns an existing variable.
type VarSet struct {
	Pos  token.Pos
	Name string
	Expr Node
}

func (n *VarSet) Span() (token.Pos, token.Pos) { return n.Pos, n.Pos }

// FuncDef is (defun name (params...) body...).
type FuncDef struct {
	Pos    token.Pos
	Name   string
	Params []string
	Body   *Block
}

func (n *FuncDef) Span() (token.Pos, token.Pos) { return n.Pos, n.Pos }

// Call is a call to a user function or a native (print, exit).
type Call struct {
	Pos  token.Pos
	Name string
	Args []Node
}

func (n *Call) Span() (token.Pos, token.Pos) { return n.Pos, n.Pos }

// BinOp is a binary operation form, e.g. (+ a b).
type BinOp struct {
	Pos      token.Pos
	Op       string // one of + - * / % < > <= >= == !=
	Lhs, Rhs Node
}

func (n *BinOp) Span() (token.Pos, token.Pos) { return n.Pos, n.Pos }

// Return is (return expr).
type Return struct {
	Pos  token.Pos
	Expr Node
}

func (n *Return) Span() (token.Pos, token.Pos) { return n.Pos, n.Pos }

// If is (if cond {then} {else}); Else may be nil.
type If struct {
	Pos        token.Pos
	Cond       Node
	Then, Else *Block
}

func (n *If) Span() (token.Pos, token.Pos) { return n.Pos, n.Pos }

// FromTo is (from start to finish {body}): a counted loop. The induction
// variable is always bound as $i within Body, per the surface syntax's
// lack of an explicit loop-variable name.
type FromTo struct {
	Pos           token.Pos
	Start, Finish Node
	Body          *Block
}

func (n *FromTo) Span() (token.Pos, token.Pos) { return n.Pos, n.Pos }

// While is (while cond {body}).
type While struct {
	Pos  token.Pos
	Cond Node
	Body *Block
}

func (n *While) Span() (token.Pos, token.Pos) { return n.Pos, n.Pos }

// Dump writes an indented textual representation of n, for the CLI's --ast
// flag.
func Dump(w *strings.Builder, n Node, indent int) {
	pad := strings.Repeat("  ", indent)
	switch n := n.(type) {
	case *Root:
		fmt.Fprintf(w, "%sroot\n", pad)
		Dump(w, n.Block, indent+1)
	case *Block:
		fmt.Fprintf(w, "%sblock\n", pad)
		for _, f := range n.Forms {
			Dump(w, f, indent+1)
		}
	case *NumberLiteral:
		fmt.Fprintf(w, "%snumber %d\n", pad, n.Value)
	case *Variable:
		fmt.Fprintf(w, "%svariable $%s\n", pad, n.Name)
	case *VarDef:
		fmt.Fprintf(w, "%sdefvar $%s\n", pad, n.Name)
		Dump(w, n.Expr, indent+1)
	case *VarSet:
		fmt.Fprintf(w, "%ssetvar $%s\n", pad, n.Name)
		Dump(w, n.Expr, indent+1)
	case *FuncDef:
		fmt.Fprintf(w, "%sdefun %s(%s)\n", pad, n.Name, strings.Join(n.Params, ", "))
		Dump(w, n.Body, indent+1)
	case *Call:
		fmt.Fprintf(w, "%scall %s\n", pad, n.Name)
		for _, a := range n.Args {
			Dump(w, a, indent+1)
		}
	case *BinOp:
		fmt.Fprintf(w, "%sbinop %s\n", pad, n.Op)
		Dump(w, n.Lhs, indent+1)
		Dump(w, n.Rhs, indent+1)
	case *Return:
		fmt.Fprintf(w, "%sreturn\n", pad)
		Dump(w, n.Expr, indent+1)
	case *If:
		fmt.Fprintf(w, "%sif\n", pad)
		Dump(w, n.Cond, indent+1)
		Dump(w, n.Then, indent+1)
		if n.Else != nil {
			Dump(w, n.Else, indent+1)
		}
	case *FromTo:
		fmt.Fprintf(w, "%sfrom $i\n", pad)
		Dump(w, n.Start, indent+1)
		Dump(w, n.Finish, indent+1)
		Dump(w, n.Body, indent+1)
	case *While:
		fmt.Fprintf(w, "%swhile\n", pad)
		Dump(w, n.Cond, indent+1)
		Dump(w, n.Body, indent+1)
	default:
		fmt.Fprintf(w, "%s<unknown node %T>\n", pad, n)
	}
}

// String renders n with Dump into a single string.
func String(n Node) string {
	var b strings.Builder
	Dump(&b, n, 0)
	return b.String()
}
