// Package maincmd implements the risp CLI: compile, run and disassemble.
package maincmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/mna/mainer"
)

const binName = "risp"

var (
	shortUsage = fmt.Sprintf(`
usage: %s [<option>...] <command> [<path>...]
Run '%[1]s --help' for details.
`, binName)

	longUsage = fmt.Sprintf(`usage: %s [<option>...] <command> <input>
       %[1]s -h|--help
       %[1]s -v|--version

Assembler, code generator and virtual machine for the %[1]s stack
language.

The <command> can be one of:
       compile                   Compile a .rasm or .risp input file to a
                                 bytecode container.
       run                       Compile (if needed) and execute a .rasm,
                                 .risp or .bin input file.
       disassemble               Render a bytecode container back to
                                 assembly text.

Valid flag options are:
       -h --help                 Show this help and exit.
       -v --version              Print version and exit.
       -o --output <path>        Write output to <path> instead of stdout
                                 (compile, disassemble).
       --ast                     Dump the parsed AST to stdout before
                                 compiling (compile, run; .risp input only).
       --asm                     Dump the disassembled program to stdout
                                 before running (compile, run).
       -m --max-steps <n>        Stop execution after at most <n>
                                 fetch-decode-execute cycles (run).
       -d --debug                Trace every executed instruction to
                                 stdout (run).

More information on the %[1]s source:
       https://github.com/mna/risp
`, binName)
)

// Cmd is the risp CLI command, populated by mainer's reflection-based flag
// parser and dispatched to one of Compile, Run or Disassemble.
type Cmd struct {
	BuildVersion string
	BuildDate    string

	Help    bool `flag:"h,help"`
	Version bool `flag:"v,version"`

	Output   string `flag:"o,output"`
	AST      bool   `flag:"ast"`
	Asm      bool   `flag:"asm"`
	MaxSteps int    `flag:"m,max-steps"`
	Debug    bool   `flag:"d,debug"`

	args  []string
	flags map[string]bool
	cmdFn func(context.Context, mainer.Stdio, []string) error
}

func (c *Cmd) SetArgs(args []string) {
	c.args = args
}

func (c *Cmd) SetFlags(flags map[string]bool) {
	c.flags = flags
}

func (c *Cmd) Validate() error {
	if c.Help || c.Version {
		return nil
	}

	if len(c.args) == 0 {
		return errors.New("no command specified")
	}

	cmdName := c.args[0]

	commands := buildCmds(c)
	c.cmdFn = commands[cmdName]
	if c.cmdFn == nil {
		return fmt.Errorf("unknown command: %s", c.args[0])
	}

	if len(c.args[1:]) == 0 {
		return fmt.Errorf("%s: an input file must be provided", cmdName)
	}

	if c.flags["ast"] && cmdName == "disassemble" {
		return fmt.Errorf("%s: invalid flag '--ast'", cmdName)
	}
	if (c.flags["max-steps"] || c.flags["debug"]) && cmdName != "run" {
		return fmt.Errorf("%s: invalid flag, only 'run' accepts -m/-d", cmdName)
	}

	return nil
}

func printError(stdio mainer.Stdio, err error) error {
	if err != nil {
		fmt.Fprintf(stdio.Stderr, "%s\n", err)
	}
	return err
}

func (c *Cmd) Main(args []string, stdio mainer.Stdio) mainer.ExitCode {
	p := mainer.Parser{
		EnvVars:   false,
		EnvPrefix: binName + "_",
	}
	if err := p.Parse(args, c); err != nil {
		fmt.Fprintf(stdio.Stderr, "invalid arguments: %s\n%s", err, shortUsage)
		return mainer.InvalidArgs
	}

	switch {
	case c.Help:
		fmt.Fprint(stdio.Stdout, longUsage)
		return mainer.Success

	case c.Version:
		fmt.Fprintf(stdio.Stdout, "%s %s %s\n", binName, c.BuildVersion, c.BuildDate)
		return mainer.Success
	}

	ctx := mainer.CancelOnSignal(context.Background(), os.Interrupt)
	if err := c.cmdFn(ctx, stdio, c.args[1:]); err != nil {
		return mainer.Failure
	}
	return mainer.Success
}

// buildCmds discovers command methods on v matching the signature
// func(context.Context, mainer.Stdio, []string) error, keyed by the
// lowercased method name.
func buildCmds(v interface{}) map[string]func(context.Context, mainer.Stdio, []string) error {
	cmds := make(map[string]func(context.Context, mainer.Stdio, []string) error)

	vv := reflect.ValueOf(v)
	vt := vv.Type()
	for i := 0; i < vt.NumMethod(); i++ {
		m := vt.Method(i)
		mt := m.Type

		if mt.NumIn() != 4 || mt.NumOut() != 1 {
			continue
		}
		if rt := mt.Out(0); rt.Kind() != reflect.Interface || rt.Name() != "error" {
			continue
		}
		if p0 := mt.In(0); p0.Kind() != reflect.Ptr || p0.Elem().Name() != "Cmd" {
			continue
		}
		if p1 := mt.In(1); p1.Kind() != reflect.Interface || p1.Name() != "Context" {
			continue
		}
		if p2 := mt.In(2); p2.Kind() != reflect.Struct || p2.Name() != "Stdio" {
			continue
		}
		if p3 := mt.In(3); p3.Kind() != reflect.Slice || p3.Elem().Name() != "string" {
			continue
		}
		cmds[strings.ToLower(m.Name)] = vv.Method(i).Interface().(func(context.Context, mainer.Stdio, []string) error)
	}
	return cmds
}
