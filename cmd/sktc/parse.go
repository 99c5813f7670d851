package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"skt/parser"
	"skt/pipeline"
)

type parseCmd struct {
	outPath string
}

func (*parseCmd) Name() string     { return "parse" }
func (*parseCmd) Synopsis() string { return "Parse a skt source file and print its AST as JSON" }
func (*parseCmd) Usage() string {
	return `parse <file.skt>:
  Run the lexer and parser over a source file and print the resulting AST.
`
}

func (cmd *parseCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&cmd.outPath, "o", "", "also write the AST JSON to this file (it is still echoed to stdout)")
}

func (cmd *parseCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	tokenized := pipeline.TokenizeWithConfig(source, cfg)
	parsed := pipeline.Parse(tokenized.Tokens)
	if parsed.Program == nil {
		for _, pErr := range parsed.ParseErrors {
			fmt.Fprintln(os.Stderr, pErr)
		}
		return subcommands.ExitFailure
	}

	if cmd.outPath != "" {
		if err := parser.WriteASTJSONToFile(parsed.Program.Body, cmd.outPath); err != nil {
			fmt.Fprintln(os.Stderr, "failed to write AST:", err)
			return subcommands.ExitFailure
		}
	} else {
		text, err := parser.PrintASTJSON(parsed.Program.Body)
		if err != nil {
			fmt.Fprintln(os.Stderr, "failed to render AST:", err)
			return subcommands.ExitFailure
		}
		fmt.Println(text)
	}

	for _, pErr := range parsed.ParseErrors {
		fmt.Fprintln(os.Stderr, pErr)
	}
	if len(parsed.ParseErrors) > 0 {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
