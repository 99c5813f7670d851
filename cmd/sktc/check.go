package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"skt/pipeline"
)

type checkCmd struct{}

func (*checkCmd) Name() string     { return "check" }
func (*checkCmd) Synopsis() string { return "Run semantic analysis over a skt source file" }
func (*checkCmd) Usage() string {
	return `check <file.skt>:
  Run the lexer, parser and semantic analyzer, reporting every diagnostic.
`
}

func (*checkCmd) SetFlags(f *flag.FlagSet) {}

func (*checkCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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
	for _, lexErr := range tokenized.LexErrors {
		fmt.Fprintln(os.Stderr, lexErr.Error())
	}

	parsed := pipeline.Parse(tokenized.Tokens)
	if parsed.Program == nil {
		for _, pErr := range parsed.ParseErrors {
			fmt.Fprintln(os.Stderr, pErr)
		}
		return subcommands.ExitFailure
	}
	for _, pErr := range parsed.ParseErrors {
		fmt.Fprintln(os.Stderr, pErr)
	}

	analyzed := pipeline.Analyze(parsed.Program)
	for _, sErr := range analyzed.SemanticErrors {
		fmt.Fprintln(os.Stderr, sErr)
	}

	if len(tokenized.LexErrors) > 0 || len(parsed.ParseErrors) > 0 || len(analyzed.SemanticErrors) > 0 {
		return subcommands.ExitFailure
	}
	fmt.Println("no errors")
	return subcommands.ExitSuccess
}
