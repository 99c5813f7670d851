package bytecode

import "testing"

func TestAssembleInstruction(t *testing.T) {
	operand := 65000
	tests := []struct {
		op       Opcode
		operands []int
		expected []byte
	}{
		{OpPushConst, []int{operand}, []byte{byte(OpPushConst), 253, 232}},
		{OpPushVar, []int{operand}, []byte{byte(OpPushVar), 253, 232}},
		{OpStore, []int{operand}, []byte{byte(OpStore), 253, 232}},
		{OpAdd, []int{}, []byte{byte(OpAdd)}},
		{OpSub, []int{}, []byte{byte(OpSub)}},
		{OpMul, []int{}, []byte{byte(OpMul)}},
		{OpDiv, []int{}, []byte{byte(OpDiv)}},
		{OpMod, []int{}, []byte{byte(OpMod)}},
		{OpPow, []int{}, []byte{byte(OpPow)}},
		{OpNeg, []int{}, []byte{byte(OpNeg)}},
		{OpEq, []int{}, []byte{byte(OpEq)}},
		{OpAnd, []int{}, []byte{byte(OpAnd)}},
		{OpOr, []int{}, []byte{byte(OpOr)}},
		{OpNot, []int{}, []byte{byte(OpNot)}},
		{OpI2F, []int{}, []byte{byte(OpI2F)}},
		{OpJump, []int{operand}, []byte{byte(OpJump), 253, 232}},
		{OpJumpIfFalse, []int{operand}, []byte{byte(OpJumpIfFalse), 253, 232}},
		{OpRead, []int{operand}, []byte{byte(OpRead), 253, 232}},
		{OpWrite, []int{2}, []byte{byte(OpWrite), 2}},
		{OpWriteLn, []int{}, []byte{byte(OpWriteLn)}},
		{OpHalt, []int{}, []byte{byte(OpHalt)}},
	}

	for _, tt := range tests {
		instruction, err := AssembleInstruction(tt.op, tt.operands...)
		if err != nil {
			t.Fatalf("error assembling instruction: %v", err)
		}
		if len(instruction) != len(tt.expected) {
			t.Fatalf("instruction has wrong length - got: %d, want: %d", len(instruction), len(tt.expected))
		}
		for i, b := range tt.expected {
			if instruction[i] != b {
				t.Errorf("instruction has wrong byte at %d - got: %v, want: %v", i, instruction[i], b)
			}
		}
	}
}

func TestAssembleInstruction_WrongArity(t *testing.T) {
	if _, err := AssembleInstruction(OpPushConst); err == nil {
		t.Fatal("expected an error for a missing operand")
	}
}

func TestDiassembleInstruction(t *testing.T) {
	tests := []struct {
		instruction []byte
		expected    string
	}{
		{[]byte{byte(OpPushConst), 253, 232}, "opcode: OP_PUSH_CONST, operand: 65000, operand widths: 2 bytes"},
		{[]byte{byte(OpAdd)}, "opcode: OP_ADD, operand: None, operand widths: 0 bytes"},
		{[]byte{byte(OpHalt)}, "opcode: OP_HALT, operand: None, operand widths: 0 bytes"},
		{[]byte{byte(OpWrite), 2}, "opcode: OP_WRITE, operand: 2, operand widths: 1 bytes"},
	}

	for _, tt := range tests {
		result, err := DiassembleInstruction(tt.instruction)
		if err != nil {
			t.Fatalf("diassemble error: %v", err)
		}
		if result != tt.expected {
			t.Errorf("wrong diassembled instruction - got: %s, want: %s", result, tt.expected)
		}
	}
}

func TestProgram_InternConstantDeduplicates(t *testing.T) {
	p := &Program{}
	i1 := p.InternConstant(IntValue(42))
	i2 := p.InternConstant(IntValue(42))
	i3 := p.InternConstant(FloatValue(42))
	if i1 != i2 {
		t.Fatalf("expected identical Int constants to share a pool slot, got %d and %d", i1, i2)
	}
	if i3 == i1 {
		t.Fatalf("expected Int(42) and Float(42) to occupy distinct pool slots")
	}
	if len(p.Constants) != 2 {
		t.Fatalf("expected 2 pooled constants, got %d", len(p.Constants))
	}
}
