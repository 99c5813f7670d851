package semantic_test

import (
	"testing"

	"skt/lexer"
	"skt/parser"
	"skt/semantic"
)

func mustAnalyze(t *testing.T, src string) (*semantic.Annotated, []error) {
	t.Helper()
	tokens, lexErrs := lexer.New(src).Scan()
	if len(lexErrs) != 0 {
		t.Fatalf("unexpected lexical errors: %v", lexErrs)
	}
	program, parseErrs := parser.Make(tokens).Parse()
	if len(parseErrs) != 0 {
		t.Fatalf("unexpected parse errors: %v", parseErrs)
	}
	if program == nil {
		t.Fatal("expected a program")
	}
	annotated, _, errs := semantic.Analyze(program)
	return annotated, errs
}

func countKind(errs []error, kind semantic.ErrorKind) int {
	n := 0
	for _, e := range errs {
		if se, ok := e.(semantic.Error); ok && se.Kind == kind {
			n++
		}
	}
	return n
}

func TestAnalyze_UndeclaredVariable(t *testing.T) {
	_, errs := mustAnalyze(t, `main { suma = 45; }`)
	if len(errs) != 1 {
		t.Fatalf("expected exactly one error, got %d: %v", len(errs), errs)
	}
	se, ok := errs[0].(semantic.Error)
	if !ok || se.Kind != semantic.UndeclaredVariable || se.VariableName != "suma" {
		t.Fatalf("expected UndeclaredVariable for 'suma', got %+v", errs[0])
	}
}

func TestAnalyze_FloatToIntRejected(t *testing.T) {
	_, errs := mustAnalyze(t, `main { int x; x = 32.32; }`)
	if countKind(errs, semantic.TypeIncompatibility) != 1 {
		t.Fatalf("expected exactly one TypeIncompatibility, got %v", errs)
	}
	for _, e := range errs {
		se := e.(semantic.Error)
		if se.Kind == semantic.TypeIncompatibility {
			if se.ExpectedType != "int" || se.ActualType != "float" {
				t.Fatalf("expected int/float, got expected=%s actual=%s", se.ExpectedType, se.ActualType)
			}
		}
	}
}

func TestAnalyze_StringArithmeticRejected(t *testing.T) {
	_, errs := mustAnalyze(t, `main { string a; string b; a = "x"; b = "y"; cout << a + b; }`)
	if countKind(errs, semantic.TypeIncompatibility) != 1 {
		t.Fatalf("expected exactly one TypeIncompatibility for string '+', got %v", errs)
	}
}

func TestAnalyze_IntToFloatWidened(t *testing.T) {
	_, errs := mustAnalyze(t, `main { int x; float a; x = 5; a = x; }`)
	if len(errs) != 0 {
		t.Fatalf("expected zero semantic errors, got %v", errs)
	}
}

func TestAnalyze_DuplicateDeclaration(t *testing.T) {
	_, errs := mustAnalyze(t, `main { int x; float x; }`)
	if countKind(errs, semantic.DuplicateDeclaration) != 1 {
		t.Fatalf("expected exactly one DuplicateDeclaration, got %v", errs)
	}
}

func TestAnalyze_MultipleErrorsIntegration(t *testing.T) {
	src := `main {
		int x, y, z;
		float a, b, c;
		suma = 45;
		x = 32.32;
		y = 14.54;
		y = a + 3;
		cin >> mas;
	}`
	_, errs := mustAnalyze(t, src)
	if n := countKind(errs, semantic.UndeclaredVariable); n < 2 {
		t.Fatalf("expected >= 2 UndeclaredVariable errors, got %d: %v", n, errs)
	}
	if n := countKind(errs, semantic.TypeIncompatibility); n < 3 {
		t.Fatalf("expected >= 3 TypeIncompatibility errors, got %d: %v", n, errs)
	}
}

func TestAnalyze_IsDeclaredAcrossBlocks(t *testing.T) {
	src := `main { int x; if x > 0 { int y; } }`
	tokens, _ := lexer.New(src).Scan()
	program, parseErrs := parser.Make(tokens).Parse()
	if len(parseErrs) != 0 {
		t.Fatalf("unexpected parse errors: %v", parseErrs)
	}
	_, table, errs := semantic.Analyze(program)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if !table.IsDeclared("y", "global") {
		t.Fatal("expected 'y', declared inside an if-body, to be visible under the global scope")
	}
}
