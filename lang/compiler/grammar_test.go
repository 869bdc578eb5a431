package compiler_test

import (
	"os"
	"testing"

	"golang.org/x/exp/ebnf"
)

// TestGrammarSelfCheck parses the assembler's surface grammar and verifies
// it is well-formed and complete: every production reachable from Program
// is defined, down to the lexical terminals.
func TestGrammarSelfCheck(t *testing.T) {
	f, err := os.Open("testdata/rasm.ebnf")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	grammar, err := ebnf.Parse("rasm.ebnf", f)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := ebnf.Verify(grammar, "Program"); err != nil {
		t.Fatalf("verify: %v", err)
	}
}
