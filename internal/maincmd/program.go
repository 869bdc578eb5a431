package maincmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mna/mainer"

	"risp/lang/ast"
	"risp/lang/compiler"
	"risp/lang/parser"
)

// loadProgram compiles path (.rasm or .risp) to a Program, dumping
// intermediate forms to stdio.Stdout when requested. It does not accept
// .bin; callers that also accept pre-assembled containers (run) check the
// extension themselves first.
func loadProgram(path string, dumpAST, dumpAsm bool, stdio mainer.Stdio) (*compiler.Program, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var prog *compiler.Program
	switch filepath.Ext(path) {
	case ".rasm":
		prog, err = compiler.Assemble(src)
		if err != nil {
			return nil, err
		}
	case ".risp":
		root, err := parser.Parse(src)
		if err != nil {
			return nil, err
		}
		if dumpAST {
			fmt.Fprint(stdio.Stdout, ast.String(root))
		}
		prog, err = compiler.Generate(root)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%s: unsupported input extension %q", path, filepath.Ext(path))
	}

	if dumpAsm {
		text, err := compiler.Disassemble(prog.Words)
		if err != nil {
			return nil, err
		}
		fmt.Fprint(stdio.Stdout, text)
	}
	return prog, nil
}
