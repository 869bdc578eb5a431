package maincmd

import (
	"context"
	"os"

	"github.com/mna/mainer"

	"risp/lang/compiler"
)

// Compile implements the "compile" command: .rasm or .risp -> bytecode
// container, written to -o or, by default, stdout.
func (c *Cmd) Compile(ctx context.Context, stdio mainer.Stdio, args []string) error {
	prog, err := loadProgram(args[0], c.AST, c.Asm, stdio)
	if err != nil {
		return printError(stdio, err)
	}

	out := compiler.EncodeContainer(prog.Words)
	if c.Output == "" || c.Output == "-" {
		_, err := stdio.Stdout.Write(out)
		return printError(stdio, err)
	}
	return printError(stdio, os.WriteFile(c.Output, out, 0o644))
}
