// Package bytecode implements the P-code instruction encoding of §3.9/§6.4:
// a byte-encoded instruction stream with BigEndian operands, built around
// an OpCodeDefinition/Get/MakeInstruction shape with a full opcode
// catalogue and AssembleInstruction/DiassembleInstruction helpers.
package bytecode

import (
	"encoding/binary"
	"fmt"
)

// Opcode is a single P-code instruction tag.
type Opcode byte

const (
	OpPushConst Opcode = iota // pool index (2 bytes) -> push constant
	OpPushVar                 // name index (2 bytes) -> push env[name]
	OpStore                   // name index (2 bytes) <- pop, assign env[name]

	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
	OpPow
	OpNeg

	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe

	OpAnd
	OpOr
	OpNot

	OpI2F // widen int -> float

	OpJump        // absolute byte address (2 bytes)
	OpJumpIfFalse // absolute byte address (2 bytes), pops bool

	OpRead  // name index (2 bytes) -> host input, parsed per declared type
	OpWrite // ValueKind (1 byte) <- pop, format & emit
	OpWriteLn

	OpLabel // label id (2 bytes); sentinel only, never present after resolution

	OpHalt
)

// ValueKind is the Write opcode's 1-byte operand naming the tagged type of
// the value being printed.
type ValueKind byte

const (
	KindInt ValueKind = iota
	KindFloat
	KindBool
	KindString
)

// OpCodeDefinition names an opcode and the byte width of each of its
// operands, in order.
type OpCodeDefinition struct {
	Name          string
	OperandWidths []int
}

var definitions = map[Opcode]*OpCodeDefinition{
	OpPushConst: {"OP_PUSH_CONST", []int{2}},
	OpPushVar:   {"OP_PUSH_VAR", []int{2}},
	OpStore:     {"OP_STORE", []int{2}},

	OpAdd: {"OP_ADD", nil},
	OpSub: {"OP_SUB", nil},
	OpMul: {"OP_MUL", nil},
	OpDiv: {"OP_DIV", nil},
	OpMod: {"OP_MOD", nil},
	OpPow: {"OP_POW", nil},
	OpNeg: {"OP_NEG", nil},

	OpEq: {"OP_EQ", nil},
	OpNe: {"OP_NE", nil},
	OpLt: {"OP_LT", nil},
	OpLe: {"OP_LE", nil},
	OpGt: {"OP_GT", nil},
	OpGe: {"OP_GE", nil},

	OpAnd: {"OP_AND", nil},
	OpOr:  {"OP_OR", nil},
	OpNot: {"OP_NOT", nil},

	OpI2F: {"OP_I2F", nil},

	OpJump:        {"OP_JUMP", []int{2}},
	OpJumpIfFalse: {"OP_JUMP_IF_FALSE", []int{2}},

	OpRead:    {"OP_READ", []int{2}},
	OpWrite:   {"OP_WRITE", []int{1}},
	OpWriteLn: {"OP_WRITE_LN", nil},

	OpLabel: {"OP_LABEL", []int{2}},

	OpHalt: {"OP_HALT", nil},
}

// Get returns the definition for op, or an error if op is unknown.
func Get(op Opcode) (*OpCodeDefinition, error) {
	def, ok := definitions[op]
	if !ok {
		return nil, fmt.Errorf("bytecode: opcode %d undefined", op)
	}
	return def, nil
}

func instructionWidth(def *OpCodeDefinition) int {
	width := 1
	for _, w := range def.OperandWidths {
		width += w
	}
	return width
}

// AssembleInstruction encodes op and its operands into a byte slice: one
// opcode byte followed by each operand, BigEndian, at the width its
// definition specifies.
func AssembleInstruction(op Opcode, operands ...int) ([]byte, error) {
	def, err := Get(op)
	if err != nil {
		return nil, err
	}
	if len(operands) != len(def.OperandWidths) {
		return nil, fmt.Errorf("bytecode: %s expects %d operand(s), got %d", def.Name, len(def.OperandWidths), len(operands))
	}

	instruction := make([]byte, instructionWidth(def))
	instruction[0] = byte(op)

	offset := 1
	for i, operand := range operands {
		width := def.OperandWidths[i]
		switch width {
		case 1:
			instruction[offset] = byte(operand)
		case 2:
			binary.BigEndian.PutUint16(instruction[offset:], uint16(operand))
		default:
			return nil, fmt.Errorf("bytecode: unsupported operand width %d", width)
		}
		offset += width
	}
	return instruction, nil
}

// DiassembleInstruction renders a single encoded instruction as text, in
// the same "opcode: NAME, operand: V, operand widths: N bytes" shape the
// teacher's disassembler tests expect.
func DiassembleInstruction(instruction []byte) (string, error) {
	if len(instruction) == 0 {
		return "", fmt.Errorf("bytecode: empty instruction")
	}
	def, err := Get(Opcode(instruction[0]))
	if err != nil {
		return "", err
	}

	if len(def.OperandWidths) == 0 {
		return fmt.Sprintf("opcode: %s, operand: None, operand widths: 0 bytes", def.Name), nil
	}

	width := def.OperandWidths[0]
	var operand int
	switch width {
	case 1:
		operand = int(instruction[1])
	case 2:
		operand = int(binary.BigEndian.Uint16(instruction[1:3]))
	}
	return fmt.Sprintf("opcode: %s, operand: %d, operand widths: %d bytes", def.Name, operand, width), nil
}
