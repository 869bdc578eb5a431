package parser_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"risp/lang/ast"
	. "risp/lang/parser"
)

func TestParseFuncDef(t *testing.T) {
	root, err := Parse([]byte(`(defun add ($a $b) (return (+ $a $b)))`))
	require.NoError(t, err)
	require.Len(t, root.Block.Forms, 1)

	fn, ok := root.Block.Forms[0].(*ast.FuncDef)
	require.True(t, ok)
	require.Equal(t, "add", fn.Name)
	require.Equal(t, []string{"a", "b"}, fn.Params)
	require.Len(t, fn.Body.Forms, 1)

	ret, ok := fn.Body.Forms[0].(*ast.Return)
	require.True(t, ok)
	bin, ok := ret.Expr.(*ast.BinOp)
	require.True(t, ok)
	require.Equal(t, "+", bin.Op)
}

func TestParseVarDefAndSet(t *testing.T) {
	root, err := Parse([]byte(`(defun main () (defvar $x 1) (setvar $x (+ $x 1)))`))
	require.NoError(t, err)
	fn := root.Block.Forms[0].(*ast.FuncDef)
	require.Len(t, fn.Body.Forms, 2)

	def, ok := fn.Body.Forms[0].(*ast.VarDef)
	require.True(t, ok)
	require.Equal(t, "x", def.Name)

	set, ok := fn.Body.Forms[1].(*ast.VarSet)
	require.True(t, ok)
	require.Equal(t, "x", set.Name)
}

func TestParseIfWithElse(t *testing.T) {
	root, err := Parse([]byte(`(defun main () (if (> $a 0) { (return 1) } { (return 0) }))`))
	require.NoError(t, err)
	fn := root.Block.Forms[0].(*ast.FuncDef)
	ifn, ok := fn.Body.Forms[0].(*ast.If)
	require.True(t, ok)
	require.NotNil(t, ifn.Then)
	require.NotNil(t, ifn.Else)
}

func TestParseIfWithoutElse(t *testing.T) {
	root, err := Parse([]byte(`(defun main () (if (> $a 0) { (return 1) }))`))
	require.NoError(t, err)
	fn := root.Block.Forms[0].(*ast.FuncDef)
	ifn := fn.Body.Forms[0].(*ast.If)
	require.Nil(t, ifn.Else)
}

func TestParseFromTo(t *testing.T) {
	root, err := Parse([]byte(`(defun main () (from 0 to 10 { (print $i) }))`))
	require.NoError(t, err)
	fn := root.Block.Forms[0].(*ast.FuncDef)
	loop, ok := fn.Body.Forms[0].(*ast.FromTo)
	require.True(t, ok)
	require.IsType(t, &ast.NumberLiteral{}, loop.Start)
	require.IsType(t, &ast.NumberLiteral{}, loop.Finish)
	require.Len(t, loop.Body.Forms, 1)
}

func TestParseWhile(t *testing.T) {
	root, err := Parse([]byte(`(defun main () (while (< $i 10) { (setvar $i (+ $i 1)) }))`))
	require.NoError(t, err)
	fn := root.Block.Forms[0].(*ast.FuncDef)
	w, ok := fn.Body.Forms[0].(*ast.While)
	require.True(t, ok)
	require.NotNil(t, w.Cond)
}

func TestParseOperators(t *testing.T) {
	cases := map[string]string{
		"(+ 1 2)":  "+",
		"(- 1 2)":  "-",
		"(* 1 2)":  "*",
		"(/ 1 2)":  "/",
		"(% 1 2)":  "%",
		"(< 1 2)":  "<",
		"(> 1 2)":  ">",
		"(<= 1 2)": "<=",
		"(>= 1 2)": ">=",
		"(== 1 2)": "==",
	}
	for src, want := range cases {
		root, err := Parse([]byte(src))
		require.NoError(t, err, src)
		bin := root.Block.Forms[0].(*ast.BinOp)
		require.Equal(t, want, bin.Op, src)
	}
}

func TestParseCall(t *testing.T) {
	root, err := Parse([]byte(`(print 1 2)`))
	require.NoError(t, err)
	call, ok := root.Block.Forms[0].(*ast.Call)
	require.True(t, ok)
	require.Equal(t, "print", call.Name)
	require.Len(t, call.Args, 2)
}

func TestParseUnexpectedToken(t *testing.T) {
	_, err := Parse([]byte(`(defun main () ,)`))
	require.Error(t, err)
	var want *ErrUnexpectedToken
	require.ErrorAs(t, err, &want)
}

func TestParseUnexpectedEOF(t *testing.T) {
	_, err := Parse([]byte(`(defun main (`))
	require.Error(t, err)
	var want *ErrEOF
	require.ErrorAs(t, err, &want)
}

func TestParseFromToRequiresToKeyword(t *testing.T) {
	_, err := Parse([]byte(`(defun main () (from 0 toward 10 { }))`))
	require.Error(t, err)
}
