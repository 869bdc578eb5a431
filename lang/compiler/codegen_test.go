package compiler_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	. "risp/lang/compiler"
	"risp/lang/parser"
	"risp/lang/scope"
)

func TestGenerateEntryThunkCallsMain(t *testing.T) {
	root, err := parser.Parse([]byte(`
(defun helper () (return 1))
(defun main () (return (helper)))
`))
	require.NoError(t, err)

	prog, err := Generate(root)
	require.NoError(t, err)
	require.Equal(t, 0, prog.Entry)

	op, variants, err := Decode(prog.Words[0])
	require.NoError(t, err)
	require.Equal(t, Call, op)
	require.Equal(t, VDirect, variants[0])

	mainAddr, ok := prog.Functions["main"]
	require.True(t, ok)
	require.Equal(t, int(prog.Words[1]), mainAddr)
}

func TestGenerateForwardReferenceResolves(t *testing.T) {
	root, err := parser.Parse([]byte(`
(defun main () (return (helper)))
(defun helper () (return 42))
`))
	require.NoError(t, err)
	prog, err := Generate(root)
	require.NoError(t, err)
	require.Contains(t, prog.Functions, "helper")
}

func TestGenerateUnknownFunctionCall(t *testing.T) {
	root, err := parser.Parse([]byte(`(defun main () (return (ghost)))`))
	require.NoError(t, err)
	_, err = Generate(root)
	require.Error(t, err)
	var want *ErrUnknownFunction
	require.ErrorAs(t, err, &want)
}

func TestGenerateMissingMain(t *testing.T) {
	root, err := parser.Parse([]byte(`(defun helper () (return 1))`))
	require.NoError(t, err)
	_, err = Generate(root)
	require.ErrorIs(t, err, ErrMissingMain)
}

func TestGenerateBadRoot(t *testing.T) {
	root, err := parser.Parse([]byte(`(+ 1 2)`))
	require.NoError(t, err)
	_, err = Generate(root)
	require.Error(t, err)
	var want *ErrBadRoot
	require.ErrorAs(t, err, &want)
}

func TestGenerateIfBranchLocalOutOfScopeAfterJoin(t *testing.T) {
	root, err := parser.Parse([]byte(`
(defun main ()
  (defvar $a 1)
  (if (> $a 0) { (defvar $b 2) (setvar $a $b) } { })
  (exit $b))
`))
	require.NoError(t, err)
	_, err = Generate(root)
	require.Error(t, err)
	var want *ErrUnknownVariable
	require.ErrorAs(t, err, &want)
}

func TestGenerateLoopBodyLocalOutOfScopeAfterLoop(t *testing.T) {
	root, err := parser.Parse([]byte(`
(defun main ()
  (while (< 1 0) { (defvar $t 1) })
  (exit $t))
`))
	require.NoError(t, err)
	_, err = Generate(root)
	require.Error(t, err)
	var want *ErrUnknownVariable
	require.ErrorAs(t, err, &want)
}

func TestGenerateRedefinedVariable(t *testing.T) {
	root, err := parser.Parse([]byte(`(defun main () (defvar $x 1) (defvar $x 2))`))
	require.NoError(t, err)
	_, err = Generate(root)
	require.Error(t, err)
	var want *scope.ErrRedefined
	require.ErrorAs(t, err, &want)
}

func TestGenerateUnknownVariable(t *testing.T) {
	root, err := parser.Parse([]byte(`(defun main () (return $ghost))`))
	require.NoError(t, err)
	_, err = Generate(root)
	require.Error(t, err)
	var want *ErrUnknownVariable
	require.ErrorAs(t, err, &want)
}

func TestGenerateParamBindingOrder(t *testing.T) {
	// (defun sub ($a $b) (return (- $a $b))) called as (sub 10 3) pushes 10
	// then 3, so $b (last declared) is on top of stack, $a one below: param
	// binding must read $a from the deeper slot to get 10-3=7, not 3-10.
	root, err := parser.Parse([]byte(`
(defun sub ($a $b) (return (- $a $b)))
(defun main () (return (sub 10 3)))
`))
	require.NoError(t, err)
	prog, err := Generate(root)
	require.NoError(t, err)
	require.NotEmpty(t, prog.Words)

	// sub's first instruction pushes $a: Stack(1), one slot below $b.
	subAddr, ok := prog.Functions["sub"]
	require.True(t, ok)
	op, variants, err := Decode(prog.Words[subAddr])
	require.NoError(t, err)
	require.Equal(t, Push, op)
	require.Equal(t, VStack, variants[0])
	require.Equal(t, Word(1), prog.Words[subAddr+1])
}

func TestGenerateAssignableParam(t *testing.T) {
	root, err := parser.Parse([]byte(`
(defun inc ($a) (setvar $a (+ $a 1)) (return $a))
(defun main () (return (inc 5)))
`))
	require.NoError(t, err)
	_, err = Generate(root)
	require.NoError(t, err)
}

func TestGenerateFromToLoop(t *testing.T) {
	root, err := parser.Parse([]byte(`
(defun main ()
  (defvar $sum 0)
  (from 0 to 5 { (setvar $sum (+ $sum $i)) })
  (return $sum))
`))
	require.NoError(t, err)
	prog, err := Generate(root)
	require.NoError(t, err)
	require.NotEmpty(t, prog.Words)
}

func TestGenerateWhileLoop(t *testing.T) {
	root, err := parser.Parse([]byte(`
(defun main ()
  (defvar $i 0)
  (while (< $i 10) { (setvar $i (+ $i 1)) })
  (return $i))
`))
	require.NoError(t, err)
	_, err = Generate(root)
	require.NoError(t, err)
}

func TestGenerateImplicitReturnZero(t *testing.T) {
	root, err := parser.Parse([]byte(`(defun main () (print 1))`))
	require.NoError(t, err)
	prog, err := Generate(root)
	require.NoError(t, err)

	last := prog.Words[len(prog.Words)-1]
	op, _, err := Decode(last)
	require.NoError(t, err)
	require.Equal(t, Ret, op)
}

func TestGenerateBranchTargetsInRange(t *testing.T) {
	root, err := parser.Parse([]byte(`
(defun fact ($n)
  (if (< $n 2) { (return 1) })
  (return (* $n (fact (- $n 1)))))
(defun main ()
  (defvar $sum 0)
  (from 0 to 4 { (setvar $sum (+ $sum $i)) })
  (while (< $sum 100) { (setvar $sum (+ $sum (fact 3))) })
  (exit $sum))
`))
	require.NoError(t, err)
	prog, err := Generate(root)
	require.NoError(t, err)

	for i := 0; i < len(prog.Words); {
		op, variants, err := Decode(prog.Words[i])
		require.NoError(t, err, "word %d", i)
		if (op == Jmp || op == JmpIf || op == Call) && variants[0] == VDirect {
			target := int(prog.Words[i+1])
			require.GreaterOrEqual(t, target, 0, "branch at word %d", i)
			require.Less(t, target, len(prog.Words), "branch at word %d", i)
		}
		i += 1 + Arity(op)
	}
}

func TestGenerateNativeCall(t *testing.T) {
	root, err := parser.Parse([]byte(`(defun main () (print 42))`))
	require.NoError(t, err)
	prog, err := Generate(root)
	require.NoError(t, err)

	printID, _ := LookupNative("print")
	var sawPrintCall bool
	for i, w := range prog.Words {
		if op, variants, err := Decode(w); err == nil && op == Call && variants[0] == VNative {
			if i+1 < len(prog.Words) && prog.Words[i+1] == Word(printID) {
				sawPrintCall = true
			}
		}
	}
	require.True(t, sawPrintCall, "expected a Call Native(print) distinct from the entry thunk's Call Native(exit)")
}
