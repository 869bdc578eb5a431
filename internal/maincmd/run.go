package maincmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mna/mainer"

	"risp/lang/compiler"
	"risp/lang/machine"
)

// Run implements the "run" command: compiles (if needed) and executes a
// .rasm, .risp or pre-assembled .bin input file.
func (c *Cmd) Run(ctx context.Context, stdio mainer.Stdio, args []string) error {
	path := args[0]

	var prog *compiler.Program
	if filepath.Ext(path) == ".bin" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return printError(stdio, err)
		}
		words, err := compiler.DecodeContainer(raw)
		if err != nil {
			return printError(stdio, err)
		}
		prog = &compiler.Program{Words: words, Entry: 0}
		if c.Asm {
			text, err := compiler.Disassemble(prog.Words)
			if err != nil {
				return printError(stdio, err)
			}
			fmt.Fprint(stdio.Stdout, text)
		}
	} else {
		var err error
		prog, err = loadProgram(path, c.AST, c.Asm, stdio)
		if err != nil {
			return printError(stdio, err)
		}
	}

	th := &machine.Thread{Stdout: stdio.Stdout, MaxSteps: c.MaxSteps}
	if c.Debug {
		th.Trace = stdio.Stdout
	}

	result, err := th.Run(ctx, prog)
	if err != nil {
		return printError(stdio, err)
	}
	if result.ExitCode != 0 {
		return printError(stdio, fmt.Errorf("exit code %d", result.ExitCode))
	}
	return nil
}
