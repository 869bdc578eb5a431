// Package parser turns a .risp token stream into the AST the code
// generator consumes. The grammar is a small recursive-descent parser over
// S-expressions: every form starts with "(" and a leading identifier
// selects its production, except binary-operator forms, which lead with
// the operator token itself.
package parser

import (
	"fmt"

	"risp/lang/ast"
	"risp/lang/scanner"
	"risp/lang/token"
)

// ErrUnexpectedToken is returned when the current token does not match
// what the active production expects.
type ErrUnexpectedToken struct {
	Want, Got string
	Pos       token.Pos
}

func (e *ErrUnexpectedToken) Error() string {
	return fmt.Sprintf("%s: expected %s, got %s", posString(e.Pos), e.Want, e.Got)
}

// ErrEOF is returned when the token stream runs out in the middle of a
// form that is not yet complete.
type ErrEOF struct{ Pos token.Pos }

func (e *ErrEOF) Error() string { return fmt.Sprintf("%s: unexpected end of input", posString(e.Pos)) }

func posString(p token.Pos) string {
	line, col := p.LineCol()
	return fmt.Sprintf("%d:%d", line, col)
}

// Parse tokenizes and parses src into a Root.
func Parse(src []byte) (*ast.Root, error) {
	toks, err := scanner.ScanAll(src)
	if err != nil {
		return nil, err
	}
	p := &Parser{toks: toks}
	return p.parseRoot()
}

// Parser holds the position of a recursive-descent pass over a token
// slice produced by the scanner.
type Parser struct {
	toks []scanner.Tok
	pos  int
}

func (p *Parser) cur() scanner.Tok { return p.toks[p.pos] }

func (p *Parser) advance() scanner.Tok {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) expect(kind token.Token, want string) (scanner.Tok, error) {
	if p.cur().Kind == token.EOF && kind != token.EOF {
		return scanner.Tok{}, &ErrEOF{Pos: p.cur().Pos}
	}
	if p.cur().Kind != kind {
		return scanner.Tok{}, &ErrUnexpectedToken{Want: want, Got: p.cur().Kind.String(), Pos: p.cur().Pos}
	}
	return p.advance(), nil
}

func (p *Parser) parseRoot() (*ast.Root, error) {
	start := p.cur().Pos
	var forms []ast.Node
	for p.cur().Kind != token.EOF {
		form, err := p.parseExprOrForm()
		if err != nil {
			return nil, err
		}
		forms = append(forms, form)
	}
	end := p.cur().Pos
	return &ast.Root{Block: &ast.Block{Start: start, End: end, Forms: forms}}, nil
}

// parseExprOrForm parses a value expression or a statement form: a number
// literal, a $-prefixed variable, or any parenthesized form.
func (p *Parser) parseExprOrForm() (ast.Node, error) {
	switch p.cur().Kind {
	case token.NUMBER:
		tok := p.advance()
		v, err := parseUint(tok.Lit)
		if err != nil {
			return nil, &ErrUnexpectedToken{Want: "number", Got: tok.Lit, Pos: tok.Pos}
		}
		return &ast.NumberLiteral{Pos: tok.Pos, Value: v}, nil
	case token.DOLLAR:
		dollar := p.advance()
		name, err := p.expect(token.IDENT, "identifier")
		if err != nil {
			return nil, err
		}
		return &ast.Variable{Pos: dollar.Pos, Name: name.Lit}, nil
	case token.LPAREN:
		return p.parseParenForm()
	case token.EOF:
		return nil, &ErrEOF{Pos: p.cur().Pos}
	default:
		return nil, &ErrUnexpectedToken{Want: "expression", Got: p.cur().Kind.String(), Pos: p.cur().Pos}
	}
}

func parseUint(lit string) (uint64, error) {
	var v uint64
	for _, r := range lit {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("not a decimal digit: %q", r)
		}
		v = v*10 + uint64(r-'0')
	}
	return v, nil
}

func (p *Parser) parseParenForm() (ast.Node, error) {
	open, err := p.expect(token.LPAREN, "(")
	if err != nil {
		return nil, err
	}

	if isOperatorStart(p.cur().Kind) {
		return p.parseBinOpRest(open.Pos)
	}

	head, err := p.expect(token.IDENT, "identifier or operator")
	if err != nil {
		return nil, err
	}

	switch head.Lit {
	case "defun":
		return p.parseFuncDefRest(head.Pos)
	case "defvar":
		return p.parseVarDefRest(head.Pos)
	case "setvar":
		return p.parseVarSetRest(head.Pos)
	case "return":
		expr, err := p.parseExprOrForm()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RPAREN, ")"); err != nil {
			return nil, err
		}
		return &ast.Return{Pos: head.Pos, Expr: expr}, nil
	case "if":
		return p.parseIfRest(head.Pos)
	case "from":
		return p.parseFromToRest(head.Pos)
	case "while":
		return p.parseWhileRest(head.Pos)
	default:
		return p.parseCallRest(head)
	}
}

func (p *Parser) parseCallRest(head scanner.Tok) (ast.Node, error) {
	var args []ast.Node
	for p.cur().Kind != token.RPAREN {
		arg, err := p.parseExprOrForm()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	if _, err := p.expect(token.RPAREN, ")"); err != nil {
		return nil, err
	}
	return &ast.Call{Pos: head.Pos, Name: head.Lit, Args: args}, nil
}

func isOperatorStart(k token.Token) bool {
	switch k {
	case token.PLUS, token.MINUS, token.STAR, token.SLASH, token.PERCENT, token.LT, token.GT, token.EQ:
		return true
	}
	return false
}

func (p *Parser) parseBinOpRest(pos token.Pos) (ast.Node, error) {
	op, err := p.parseOperatorSymbol()
	if err != nil {
		return nil, err
	}
	lhs, err := p.parseExprOrForm()
	if err != nil {
		return nil, err
	}
	rhs, err := p.parseExprOrForm()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN, ")"); err != nil {
		return nil, err
	}
	return &ast.BinOp{Pos: pos, Op: op, Lhs: lhs, Rhs: rhs}, nil
}

// parseOperatorSymbol consumes one token (and a following "=" for the
// two-character forms <=, >=, ==; the scanner has no "!" rune, so "!=" is
// only reachable through the assembler's cmp_ne mnemonic, not Lisp syntax).
func (p *Parser) parseOperatorSymbol() (string, error) {
	tok := p.advance()
	switch tok.Kind {
	case token.PLUS:
		return "+", nil
	case token.MINUS:
		return "-", nil
	case token.STAR:
		return "*", nil
	case token.SLASH:
		return "/", nil
	case token.PERCENT:
		return "%", nil
	case token.LT:
		if p.cur().Kind == token.EQ {
			p.advance()
			return "<=", nil
		}
		return "<", nil
	case token.GT:
		if p.cur().Kind == token.EQ {
			p.advance()
			return ">=", nil
		}
		return ">", nil
	case token.EQ:
		if p.cur().Kind == token.EQ {
			p.advance()
			return "==", nil
		}
		return "", &ErrUnexpectedToken{Want: "==", Got: "=", Pos: tok.Pos}
	default:
		return "", &ErrUnexpectedToken{Want: "operator", Got: tok.Kind.String(), Pos: tok.Pos}
	}
}

func (p *Parser) parseBraceBlock() (*ast.Block, error) {
	open, err := p.expect(token.LBRACE, "{")
	if err != nil {
		return nil, err
	}
	var forms []ast.Node
	for p.cur().Kind != token.RBRACE {
		form, err := p.parseExprOrForm()
		if err != nil {
			return nil, err
		}
		forms = append(forms, form)
	}
	close, err := p.expect(token.RBRACE, "}")
	if err != nil {
		return nil, err
	}
	return &ast.Block{Start: open.Pos, End: close.Pos, Forms: forms}, nil
}

func (p *Parser) parseFuncDefRest(pos token.Pos) (ast.Node, error) {
	name, err := p.expect(token.IDENT, "function name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LPAREN, "("); err != nil {
		return nil, err
	}
	var params []string
	for p.cur().Kind == token.DOLLAR {
		p.advance()
		id, err := p.expect(token.IDENT, "parameter name")
		if err != nil {
			return nil, err
		}
		params = append(params, id.Lit)
	}
	if _, err := p.expect(token.RPAREN, ")"); err != nil {
		return nil, err
	}

	bodyStart := p.cur().Pos
	var forms []ast.Node
	for p.cur().Kind != token.RPAREN {
		form, err := p.parseExprOrForm()
		if err != nil {
			return nil, err
		}
		forms = append(forms, form)
	}
	bodyEnd := p.cur().Pos
	if _, err := p.expect(token.RPAREN, ")"); err != nil {
		return nil, err
	}

	return &ast.FuncDef{
		Pos:    pos,
		Name:   name.Lit,
		Params: params,
		Body:   &ast.Block{Start: bodyStart, End: bodyEnd, Forms: forms},
	}, nil
}

func (p *Parser) parseVarDefRest(pos token.Pos) (ast.Node, error) {
	if _, err := p.expect(token.DOLLAR, "$"); err != nil {
		return nil, err
	}
	name, err := p.expect(token.IDENT, "variable name")
	if err != nil {
		return nil, err
	}
	expr, err := p.parseExprOrForm()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN, ")"); err != nil {
		return nil, err
	}
	return &ast.VarDef{Pos: pos, Name: name.Lit, Expr: expr}, nil
}

func (p *Parser) parseVarSetRest(pos token.Pos) (ast.Node, error) {
	if _, err := p.expect(token.DOLLAR, "$"); err != nil {
		return nil, err
	}
	name, err := p.expect(token.IDENT, "variable name")
	if err != nil {
		return nil, err
	}
	expr, err := p.parseExprOrForm()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN, ")"); err != nil {
		return nil, err
	}
	return &ast.VarSet{Pos: pos, Name: name.Lit, Expr: expr}, nil
}

func (p *Parser) parseIfRest(pos token.Pos) (ast.Node, error) {
	cond, err := p.parseExprOrForm()
	if err != nil {
		return nil, err
	}
	then, err := p.parseBraceBlock()
	if err != nil {
		return nil, err
	}
	var elseBlock *ast.Block
	if p.cur().Kind == token.LBRACE {
		elseBlock, err = p.parseBraceBlock()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(token.RPAREN, ")"); err != nil {
		return nil, err
	}
	return &ast.If{Pos: pos, Cond: cond, Then: then, Else: elseBlock}, nil
}

func (p *Parser) parseFromToRest(pos token.Pos) (ast.Node, error) {
	start, err := p.parseExprOrForm()
	if err != nil {
		return nil, err
	}
	to, err := p.expect(token.IDENT, `"to"`)
	if err != nil {
		return nil, err
	}
	if to.Lit != "to" {
		return nil, &ErrUnexpectedToken{Want: `"to"`, Got: to.Lit, Pos: to.Pos}
	}
	finish, err := p.parseExprOrForm()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBraceBlock()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN, ")"); err != nil {
		return nil, err
	}
	return &ast.FromTo{Pos: pos, Start: start, Finish: finish, Body: body}, nil
}

func (p *Parser) parseWhileRest(pos token.Pos) (ast.Node, error) {
	cond, err := p.parseExprOrForm()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBraceBlock()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN, ")"); err != nil {
		return nil, err
	}
	return &ast.While{Pos: pos, Cond: cond, Body: body}, nil
}
