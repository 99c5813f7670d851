package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"skt/bytecode"
	"skt/pipeline"
	"skt/vm"
)

type runCmd struct {
	disassemble bool
}

func (*runCmd) Name() string     { return "run" }
func (*runCmd) Synopsis() string { return "Compile and execute a skt source file" }
func (*runCmd) Usage() string {
	return `run <file.skt>:
  Run the full tokenize/parse/analyze/generate/execute pipeline.
`
}

func (cmd *runCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&cmd.disassemble, "disassemble", false, "print the generated bytecode before executing it")
}

func (cmd *runCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	args := f.Args()
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "file not provided")
		return subcommands.ExitUsageError
	}
	source, err := readSource(args[0])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	cfg := loadConfigFor(args[0])

	compiled := pipeline.CompileWithConfig(source, cfg)
	for _, lexErr := range compiled.Tokenize.LexErrors {
		fmt.Fprintln(os.Stderr, lexErr.Error())
	}
	for _, pErr := range compiled.Parse.ParseErrors {
		fmt.Fprintln(os.Stderr, pErr)
	}
	for _, sErr := range compiled.Analyze.SemanticErrors {
		fmt.Fprintln(os.Stderr, sErr)
	}
	if compiled.Program == nil {
		return subcommands.ExitFailure
	}

	if cmd.disassemble {
		lines, err := bytecode.DisassembleProgram(compiled.Program)
		if err != nil {
			fmt.Fprintln(os.Stderr, "disassemble error:", err)
			return subcommands.ExitFailure
		}
		for _, line := range lines {
			fmt.Println(line)
		}
	}

	stdin := bufio.NewReader(os.Stdin)
	hooks := vm.Hooks{
		OnInput: func(kind bytecode.ValueKind) string {
			line, _ := stdin.ReadString('\n')
			return line
		},
		OnOutput: func(text string) { fmt.Print(text) },
		OnError:  func(message string) { fmt.Fprintln(os.Stderr, message) },
	}

	result := pipeline.ExecuteWithConfig(compiled.Program, hooks, nil, cfg)
	if !result.Success {
		fmt.Fprintln(os.Stderr, result.ErrorMessage)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
