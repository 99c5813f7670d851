package codegen

import (
	"testing"

	"skt/bytecode"
	"skt/lexer"
	"skt/parser"
	"skt/semantic"
)

func mustGenerate(t *testing.T, src string) *bytecode.Program {
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
	return Generate(annotated, table)
}

func countOpcode(prog *bytecode.Program, op bytecode.Opcode) int {
	count := 0
	for i := 0; i < len(prog.Instructions); {
		def, err := bytecode.Get(bytecode.Opcode(prog.Instructions[i]))
		if err != nil {
			break
		}
		if bytecode.Opcode(prog.Instructions[i]) == op {
			count++
		}
		width := 1
		for _, w := range def.OperandWidths {
			width += w
		}
		i += width
	}
	return count
}

func TestGenerate_EndsWithHalt(t *testing.T) {
	prog := mustGenerate(t, "main { int x; }")
	if len(prog.Instructions) == 0 || prog.Instructions[len(prog.Instructions)-1] != byte(bytecode.OpHalt) {
		t.Fatalf("expected program to end with OpHalt")
	}
}

func TestGenerate_WideningOnAssignment(t *testing.T) {
	prog := mustGenerate(t, "main { int x; float a; x = 5; a = x; }")
	if countOpcode(prog, bytecode.OpI2F) != 1 {
		t.Fatalf("expected exactly one I2F widen for 'a = x;', got %d", countOpcode(prog, bytecode.OpI2F))
	}
}

func TestGenerate_CinCoutRoundTrip(t *testing.T) {
	prog := mustGenerate(t, "main { int n; cin >> n; cout << n * 2; }")
	if countOpcode(prog, bytecode.OpRead) != 1 {
		t.Fatalf("expected exactly one Read opcode")
	}
	if countOpcode(prog, bytecode.OpWrite) != 1 {
		t.Fatalf("expected exactly one Write opcode")
	}
	if countOpcode(prog, bytecode.OpWriteLn) != 1 {
		t.Fatalf("expected exactly one trailing WriteLn opcode")
	}
}

func TestGenerate_LogicalOperatorsAreNonShortCircuit(t *testing.T) {
	prog := mustGenerate(t, "main { bool a; bool b; cout << (a && b); }")
	if countOpcode(prog, bytecode.OpAnd) != 1 {
		t.Fatalf("expected one OpAnd")
	}
}

func TestGenerate_IfElseHasNoUnresolvedLabels(t *testing.T) {
	prog := mustGenerate(t, "main { int x; if x > 0 { x = 1; } else { x = 2; } }")
	if countOpcode(prog, bytecode.OpJump) != 1 {
		t.Fatalf("expected exactly one unconditional Jump for the if/else")
	}
	if countOpcode(prog, bytecode.OpJumpIfFalse) != 1 {
		t.Fatalf("expected exactly one JumpIfFalse for the if condition")
	}
	if countOpcode(prog, bytecode.OpLabel) != 0 {
		t.Fatalf("no Label sentinel should remain in a resolved program")
	}
}

func TestGenerate_WhileLoopBacklinksToStart(t *testing.T) {
	prog := mustGenerate(t, "main { int i; while i < 10 { i++; } }")
	if countOpcode(prog, bytecode.OpJump) != 1 {
		t.Fatalf("expected one backward Jump for the while loop")
	}
	if countOpcode(prog, bytecode.OpJumpIfFalse) != 1 {
		t.Fatalf("expected one JumpIfFalse for the while condition")
	}
}

func TestGenerate_IncDecEmitsUnitConstant(t *testing.T) {
	prog := mustGenerate(t, "main { int i; i++; }")
	foundOne := false
	for _, c := range prog.Constants {
		if c == bytecode.IntValue(1) {
			foundOne = true
		}
	}
	if !foundOne {
		t.Fatalf("expected the constant pool to contain an Int(1) for i++")
	}
}
