package vm

import (
	"strings"
	"testing"

	"skt/bytecode"
	"skt/codegen"
	"skt/lexer"
	"skt/parser"
	"skt/semantic"
)

func compile(t *testing.T, src string) *bytecode.Program {
	t.Helper()
	tokens, lexErrs := lexer.New(src).Scan()
	if len(lexErrs) != 0 {
		t.Fatalf("unexpected lexical errors: %v", lexErrs)
	}
	program, parseErrs := parser.Make(tokens).Parse()
	if len(parseErrs) != 0 {
		t.Fatalf("unexpected parse errors: %v", parseErrs)
	}
	annotated, table, semErrs := semantic.Analyze(program)
	if len(semErrs) != 0 {
		t.Fatalf("unexpected semantic errors: %v", semErrs)
	}
	return codegen.Generate(annotated, table)
}

func TestExecute_PushConstStack(t *testing.T) {
	prog := &bytecode.Program{
		Instructions: []byte{
			byte(bytecode.OpPushConst), 0, 0,
			byte(bytecode.OpPushConst), 0, 1,
			byte(bytecode.OpHalt),
		},
		Constants: []bytecode.Value{bytecode.IntValue(5), bytecode.IntValue(1)},
	}
	var out strings.Builder
	result := Execute(prog, Hooks{OnOutput: func(s string) { out.WriteString(s) }}, nil)
	if !result.Success {
		t.Fatalf("expected success, got error: %s", result.ErrorMessage)
	}
}

func TestExecute_CinCoutDoublesInput(t *testing.T) {
	prog := compile(t, "main { int n; cin >> n; cout << n * 2; }")
	var out strings.Builder
	result := Execute(prog, Hooks{
		OnInput:  func(kind bytecode.ValueKind) string { return "21" },
		OnOutput: func(s string) { out.WriteString(s) },
	}, nil)
	if !result.Success {
		t.Fatalf("expected success, got error: %s", result.ErrorMessage)
	}
	if out.String() != "42\n" {
		t.Fatalf("expected output %q, got %q", "42\n", out.String())
	}
}

func TestExecute_DivisionByZeroIsNonFatal(t *testing.T) {
	prog := compile(t, "main { int x; int y; cout << x / y; }")
	var out strings.Builder
	var errs []string
	result := Execute(prog, Hooks{
		OnOutput: func(s string) { out.WriteString(s) },
		OnError:  func(s string) { errs = append(errs, s) },
	}, nil)
	if !result.Success {
		t.Fatalf("division by zero should not abort execution, got: %s", result.ErrorMessage)
	}
	if len(errs) != 1 {
		t.Fatalf("expected exactly one error report, got %d", len(errs))
	}
	if out.String() != "0\n" {
		t.Fatalf("expected substituted zero output, got %q", out.String())
	}
}

func TestExecute_WhileLoopAccumulates(t *testing.T) {
	prog := compile(t, "main { int i; int sum; i = 0; sum = 0; while i < 5 { sum = sum + i; i++; } cout << sum; }")
	var out strings.Builder
	result := Execute(prog, Hooks{OnOutput: func(s string) { out.WriteString(s) }}, nil)
	if !result.Success {
		t.Fatalf("expected success, got error: %s", result.ErrorMessage)
	}
	if out.String() != "10\n" {
		t.Fatalf("expected 0+1+2+3+4=10, got %q", out.String())
	}
}

func TestExecute_IfElseBranches(t *testing.T) {
	prog := compile(t, "main { int x; x = 7; if x > 10 { cout << 1; } else { cout << 0; } }")
	var out strings.Builder
	result := Execute(prog, Hooks{OnOutput: func(s string) { out.WriteString(s) }}, nil)
	if !result.Success {
		t.Fatalf("expected success, got error: %s", result.ErrorMessage)
	}
	if out.String() != "0\n" {
		t.Fatalf("expected else branch output, got %q", out.String())
	}
}

func TestExecuteWithLimit_StackOverflowIsNonCrashing(t *testing.T) {
	prog := &bytecode.Program{
		Instructions: []byte{
			byte(bytecode.OpPushConst), 0, 0,
			byte(bytecode.OpPushConst), 0, 0,
			byte(bytecode.OpPushConst), 0, 0,
			byte(bytecode.OpHalt),
		},
		Constants: []bytecode.Value{bytecode.IntValue(1)},
	}
	result := ExecuteWithLimit(prog, Hooks{}, nil, 2)
	if result.Success {
		t.Fatalf("expected a stack-overflow failure, got success")
	}
}

func TestExecuteWithLimit_ZeroMeansUnbounded(t *testing.T) {
	prog := compile(t, "main { int i; i = 0; while i < 5 { i++; } cout << i; }")
	var out strings.Builder
	result := ExecuteWithLimit(prog, Hooks{OnOutput: func(s string) { out.WriteString(s) }}, nil, 0)
	if !result.Success {
		t.Fatalf("expected success, got error: %s", result.ErrorMessage)
	}
	if out.String() != "5\n" {
		t.Fatalf("expected 5, got %q", out.String())
	}
}

func TestExecute_CancellationStopsAtBoundary(t *testing.T) {
	prog := compile(t, "main { int i; i = 0; while i < 1000000 { i++; } }")
	cancel := make(chan struct{})
	close(cancel)
	result := Execute(prog, Hooks{}, cancel)
	if result.Success {
		t.Fatalf("expected cancellation to report a non-success result")
	}
}
