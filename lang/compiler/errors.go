package compiler

import "fmt"

// ErrUnknownVariable is returned by the code generator when a Variable node
// refers to a name with no live binding in scope.
type ErrUnknownVariable struct{ Name string }

func (e *ErrUnknownVariable) Error() string { return fmt.Sprintf("unknown variable $%s", e.Name) }

// ErrUnknownFunction is returned once codegen finishes and a Call still has
// no definition for its callee.
type ErrUnknownFunction struct{ Name string }

func (e *ErrUnknownFunction) Error() string { return fmt.Sprintf("unknown function %s", e.Name) }

// ErrMissingMain is returned when a compilation unit defines no "main"
// function; the entry thunk has nothing to call.
var ErrMissingMain = fmt.Errorf("compiler: no function named main")

// ErrBadRoot is returned when a top-level form is not a function
// definition; this code generator only supports defun at top level.
type ErrBadRoot struct{ Form interface{} }

func (e *ErrBadRoot) Error() string {
	return fmt.Sprintf("compiler: top-level form %T is not a function definition", e.Form)
}

// ErrNonValueExpression is returned when a statement-position form that is
// not a recognized value expression is lowered for its value.
type ErrNonValueExpression struct{ Node interface{} }

func (e *ErrNonValueExpression) Error() string {
	return fmt.Sprintf("compiler: %T is not a value expression", e.Node)
}

// ErrBinOp is returned for a BinOp whose operator string is not one of the
// known arithmetic/comparison operators.
type ErrBinOp struct{ Op string }

func (e *ErrBinOp) Error() string { return fmt.Sprintf("compiler: unknown operator %q", e.Op) }
