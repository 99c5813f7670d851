package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"skt/pipeline"
)

type tokensCmd struct {
	writeSidecar bool
}

func (*tokensCmd) Name() string     { return "tokens" }
func (*tokensCmd) Synopsis() string { return "Tokenize a skt source file and list its tokens" }
func (*tokensCmd) Usage() string {
	return `tokens <file.skt>:
  Run the lexer over a source file and print one line per token.
`
}

func (cmd *tokensCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&cmd.writeSidecar, "sidecar", false, "also write a .sktt token sidecar file next to the source")
}

func (cmd *tokensCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	args := f.Args()
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "file not provided")
		return subcommands.ExitUsageError
	}
	path := args[0]
	source, err := readSource(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	cfg := loadConfigFor(path)

	result := pipeline.TokenizeWithConfig(source, cfg)
	for _, tok := range result.Tokens {
		fmt.Printf("%-20s %-12q %d:%d\n", tok.TokenType, tok.Lexeme, tok.Line, tok.Column)
	}
	for _, lexErr := range result.LexErrors {
		fmt.Fprintln(os.Stderr, lexErr.Error())
	}

	if cmd.writeSidecar {
		if err := pipeline.WriteTokenFile(path+"t", result.Tokens); err != nil {
			fmt.Fprintln(os.Stderr, "failed to write token sidecar:", err)
			return subcommands.ExitFailure
		}
	}

	if len(result.LexErrors) > 0 {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
