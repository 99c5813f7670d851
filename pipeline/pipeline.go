// Package pipeline composes the five compile-pipeline functions of §6.2
// into the single call path cmd/sktc and any future IDE host (§6.7) share,
// rather than each command inlining its own lexer→parser→compiler→vm
// sequence.
package pipeline

import (
	"os"

	"skt/ast"
	"skt/bytecode"
	"skt/codegen"
	"skt/config"
	"skt/lexer"
	"skt/parser"
	"skt/semantic"
	"skt/symtab"
	"skt/token"
	"skt/vm"
)

// TokenizeResult is tokenize()'s output (§6.2).
type TokenizeResult struct {
	Tokens    []token.Token
	LexErrors []token.ErrorToken
}

// Tokenize runs the lexer over text with the default Config. Per §4.1 it
// never fails outright — LexErrors simply accumulates any malformed runs
// encountered.
func Tokenize(text string) TokenizeResult {
	return TokenizeWithConfig(text, config.Default())
}

// TokenizeWithConfig runs the lexer honoring a loaded .sktconfig.yaml's
// tab_width and emit_comments knobs (§10.3).
func TokenizeWithConfig(text string, cfg config.Config) TokenizeResult {
	tokens, lexErrors := lexer.NewWithOptions(text, cfg.TabWidth, cfg.EmitComments).Scan()
	return TokenizeResult{Tokens: tokens, LexErrors: lexErrors}
}

// TokenizeFile reads path and tokenizes its contents (§6.5's optional
// file-reading convenience API).
func TokenizeFile(path string) (TokenizeResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return TokenizeResult{}, err
	}
	return Tokenize(string(data)), nil
}

// ParseResult is parse()'s output. Program is nil only when the source was
// empty or could not even start `main` (§4.2's "Result" clause).
type ParseResult struct {
	Program     *ast.Program
	ParseErrors []error
}

// Parse runs the recursive-descent parser over tokens. Comment tokens
// (only ever present when Config.EmitComments asked the lexer to retain
// them for a host like the `tokens` subcommand) are stripped first: the
// grammar has no production for them.
func Parse(tokens []token.Token) ParseResult {
	program, errs := parser.Make(stripComments(tokens)).Parse()
	return ParseResult{Program: program, ParseErrors: errs}
}

func stripComments(tokens []token.Token) []token.Token {
	filtered := make([]token.Token, 0, len(tokens))
	for _, tok := range tokens {
		if tok.TokenType == token.COMMENT {
			continue
		}
		filtered = append(filtered, tok)
	}
	return filtered
}

// AnalyzeResult is analyze()'s output. Annotated is always populated when
// Program was non-nil, even in the presence of semantic errors (§4.3
// "Annotated AST is always returned... to support partial IDE feedback").
type AnalyzeResult struct {
	Annotated      *semantic.Annotated
	SymbolTable    *symtab.Table
	SemanticErrors []error
}

// Analyze runs the semantic pass over program.
func Analyze(program *ast.Program) AnalyzeResult {
	annotated, table, errs := semantic.Analyze(program)
	return AnalyzeResult{Annotated: annotated, SymbolTable: table, SemanticErrors: errs}
}

// Generate lowers an annotated AST to a resolved bytecode program.
// Precondition (§6.2): analyzed.SemanticErrors must be empty.
func Generate(analyzed AnalyzeResult) *bytecode.Program {
	return codegen.Generate(analyzed.Annotated, analyzed.SymbolTable)
}

// Execute runs a resolved program on the VM with an unbounded operand
// stack (the default Config's MaxStackDepth of 0).
func Execute(program *bytecode.Program, hooks vm.Hooks, cancel <-chan struct{}) vm.Result {
	return vm.Execute(program, hooks, cancel)
}

// ExecuteWithConfig runs program honoring a loaded .sktconfig.yaml's
// max_stack_depth cap (§10.3).
func ExecuteWithConfig(program *bytecode.Program, hooks vm.Hooks, cancel <-chan struct{}, cfg config.Config) vm.Result {
	return vm.ExecuteWithLimit(program, hooks, cancel, cfg.MaxStackDepth)
}

// CompileResult bundles every stage's output for callers (e.g. cmd/sktc's
// `check`/`run` subcommands) that need to inspect intermediate artifacts
// rather than just the final outcome.
type CompileResult struct {
	Tokenize TokenizeResult
	Parse    ParseResult
	Analyze  AnalyzeResult
	Program  *bytecode.Program
}

// Compile runs tokenize→parse→analyze→generate, stopping early (per §6.2's
// "downstream only runs if upstream artifact is non-null" rule) as soon as
// a stage fails to produce an artifact the next stage needs.
func Compile(text string) CompileResult {
	result := CompileResult{Tokenize: Tokenize(text)}

	result.Parse = Parse(result.Tokenize.Tokens)
	if result.Parse.Program == nil {
		return result
	}

	result.Analyze = Analyze(result.Parse.Program)
	if result.Analyze.Annotated == nil || len(result.Analyze.SemanticErrors) > 0 {
		return result
	}

	result.Program = Generate(result.Analyze)
	return result
}

// Run compiles text and, if compilation succeeded with zero errors at
// every stage, executes the resulting program against hooks.
func Run(text string, hooks vm.Hooks, cancel <-chan struct{}) (CompileResult, *vm.Result) {
	compiled := Compile(text)
	if compiled.Program == nil {
		return compiled, nil
	}
	result := Execute(compiled.Program, hooks, cancel)
	return compiled, &result
}

// CompileWithConfig runs tokenize→parse→analyze→generate, tokenizing
// under cfg's tab_width/emit_comments knobs (§10.3).
func CompileWithConfig(text string, cfg config.Config) CompileResult {
	result := CompileResult{Tokenize: TokenizeWithConfig(text, cfg)}

	result.Parse = Parse(result.Tokenize.Tokens)
	if result.Parse.Program == nil {
		return result
	}

	result.Analyze = Analyze(result.Parse.Program)
	if result.Analyze.Annotated == nil || len(result.Analyze.SemanticErrors) > 0 {
		return result
	}

	result.Program = Generate(result.Analyze)
	return result
}

// RunWithConfig is Run, but honoring a loaded .sktconfig.yaml across both
// the lexer (tab_width/emit_comments) and the VM (max_stack_depth).
func RunWithConfig(text string, hooks vm.Hooks, cancel <-chan struct{}, cfg config.Config) (CompileResult, *vm.Result) {
	compiled := CompileWithConfig(text, cfg)
	if compiled.Program == nil {
		return compiled, nil
	}
	result := ExecuteWithConfig(compiled.Program, hooks, cancel, cfg)
	return compiled, &result
}
