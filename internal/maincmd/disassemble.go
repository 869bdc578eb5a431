package maincmd

import (
	"context"
	"os"

	"github.com/mna/mainer"

	"risp/lang/compiler"
)

// Disassemble implements the "disassemble" command: renders a bytecode
// container (.bin) back to .rasm text.
func (c *Cmd) Disassemble(ctx context.Context, stdio mainer.Stdio, args []string) error {
	raw, err := os.ReadFile(args[0])
	if err != nil {
		return printError(stdio, err)
	}
	words, err := compiler.DecodeContainer(raw)
	if err != nil {
		return printError(stdio, err)
	}
	text, err := compiler.Disassemble(words)
	if err != nil {
		return printError(stdio, err)
	}

	if c.Output == "" || c.Output == "-" {
		_, err := stdio.Stdout.Write([]byte(text))
		return printError(stdio, err)
	}
	return printError(stdio, os.WriteFile(c.Output, []byte(text), 0o644))
}
