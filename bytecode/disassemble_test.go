package bytecode

import "testing"

func TestDisassembleProgram(t *testing.T) {
	prog := &Program{
		Instructions: []byte{
			byte(OpPushConst), 0, 0,
			byte(OpPushConst), 0, 1,
			byte(OpAdd),
			byte(OpHalt),
		},
		Constants: []Value{IntValue(1), IntValue(2)},
	}
	lines, err := DisassembleProgram(prog)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lines) != 4 {
		t.Fatalf("expected 4 disassembled lines, got %d: %v", len(lines), lines)
	}
	if lines[0] != "0000  opcode: OP_PUSH_CONST, operand: 0, operand widths: 2 bytes" {
		t.Fatalf("unexpected first line: %q", lines[0])
	}
}
