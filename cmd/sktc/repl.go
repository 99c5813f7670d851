package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/google/subcommands"

	"skt/bytecode"
	"skt/config"
	"skt/parser"
	"skt/pipeline"
	"skt/token"
	"skt/vm"
)

type replCmd struct {
	disassemble bool
}

func (*replCmd) Name() string     { return "repl" }
func (*replCmd) Synopsis() string { return "Start an interactive skt session" }
func (*replCmd) Usage() string {
	return `repl:
  Read, compile and execute skt statements one line (or block) at a time.
`
}

func (cmd *replCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&cmd.disassemble, "disassemble", false, "print the generated bytecode for each evaluated block")
}

func (cmd *replCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          ">>> ",
		HistoryFile:     historyPath(),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to start line editor:", err)
		return subcommands.ExitFailure
	}
	defer rl.Close()

	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}
	cfg, cfgErr := config.LoadFromDir(cwd)
	if cfgErr != nil {
		cfg = config.Default()
	}

	fmt.Println("skt interactive session - type 'exit' to quit")

	var buffer strings.Builder
	for {
		rl.SetPrompt(promptFor(buffer.Len()))
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			buffer.Reset()
			continue
		}
		if err == io.EOF {
			return subcommands.ExitSuccess
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}

		if strings.TrimSpace(line) == "exit" && buffer.Len() == 0 {
			return subcommands.ExitSuccess
		}

		if buffer.Len() > 0 {
			buffer.WriteString("\n")
		}
		buffer.WriteString(line)
		source := buffer.String()

		tokenized := pipeline.TokenizeWithConfig(source, cfg)
		if !isInputReady(tokenized.Tokens) {
			continue
		}

		parsed := pipeline.Parse(tokenized.Tokens)
		if len(parsed.ParseErrors) > 0 {
			if allParseErrorsAtEOF(parsed.ParseErrors, tokenized.Tokens[len(tokenized.Tokens)-1]) {
				continue
			}
			for _, pErr := range parsed.ParseErrors {
				fmt.Println("parse error:", pErr)
			}
			buffer.Reset()
			continue
		}

		analyzed := pipeline.Analyze(parsed.Program)
		if len(analyzed.SemanticErrors) > 0 {
			for _, sErr := range analyzed.SemanticErrors {
				fmt.Println("semantic error:", sErr)
			}
			buffer.Reset()
			continue
		}

		program := pipeline.Generate(analyzed)
		if cmd.disassemble {
			lines, err := bytecode.DisassembleProgram(program)
			if err == nil {
				for _, l := range lines {
					fmt.Println(l)
				}
			}
		}

		result := pipeline.ExecuteWithConfig(program, vm.Hooks{
			OnInput: func(kind bytecode.ValueKind) string {
				answer, _ := rl.Readline()
				return answer
			},
			OnOutput: func(text string) { fmt.Print(text) },
			OnError:  func(message string) { fmt.Println(message) },
		}, nil, cfg)
		if !result.Success {
			fmt.Println(result.ErrorMessage)
		}
		buffer.Reset()
	}
}

func promptFor(bufferLen int) string {
	if bufferLen == 0 {
		return ">>> "
	}
	return "... "
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return home + "/.sktc_history"
}

// isInputReady reports whether tokens form a block that is safe to try
// parsing now, rather than a statement the user is still in the middle of
// typing across multiple lines.
func isInputReady(tokens []token.Token) bool {
	braceBalance := 0
	parenBalance := 0
	for _, tok := range tokens {
		switch tok.TokenType {
		case token.LCUR:
			braceBalance++
		case token.RCUR:
			braceBalance--
		case token.LPA:
			parenBalance++
		case token.RPA:
			parenBalance--
		}
	}
	if braceBalance > 0 || parenBalance > 0 {
		return false
	}

	last := lastNonEOF(tokens)
	if last == nil {
		return true
	}

	switch last.TokenType {
	case token.ASSIGN, token.ADD, token.SUB, token.MULT, token.DIV, token.MOD, token.POW,
		token.BANG, token.EQUAL_EQUAL, token.NOT_EQUAL, token.LESS, token.LESS_EQUAL,
		token.LARGER, token.LARGER_EQUAL, token.AND, token.OR, token.COMMA,
		token.LPA, token.LCUR, token.IF, token.ELSE, token.WHILE, token.DO,
		token.ADD_ASSIGN, token.SUB_ASSIGN, token.MULT_ASSIGN, token.DIV_ASSIGN,
		token.MOD_ASSIGN, token.POW_ASSIGN:
		return false
	}
	return true
}

func lastNonEOF(tokens []token.Token) *token.Token {
	for i := len(tokens) - 1; i >= 0; i-- {
		if tokens[i].TokenType != token.EOF {
			return &tokens[i]
		}
	}
	return nil
}

// allParseErrorsAtEOF reports whether every parse error is a syntax error
// located exactly at the EOF token's position, meaning the user likely
// just hasn't finished typing the current block yet.
func allParseErrorsAtEOF(parseErrs []error, eof token.Token) bool {
	if len(parseErrs) == 0 {
		return false
	}
	for _, pErr := range parseErrs {
		syntaxErr, ok := pErr.(parser.SyntaxError)
		if !ok {
			return false
		}
		if syntaxErr.Line != eof.Line || syntaxErr.Column != eof.Column {
			return false
		}
	}
	return true
}
