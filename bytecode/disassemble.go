package bytecode

import "fmt"

// DisassembleProgram renders every instruction in prog.Instructions as one
// line, prefixed with its byte offset — the multi-instruction counterpart
// to DiassembleInstruction, stepping through the instruction stream one
// definition-width at a time.
func DisassembleProgram(prog *Program) ([]string, error) {
	var lines []string
	ip := 0
	for ip < len(prog.Instructions) {
		op := Opcode(prog.Instructions[ip])
		def, err := Get(op)
		if err != nil {
			return nil, fmt.Errorf("bytecode: %w at offset %d", err, ip)
		}
		width := instructionWidth(def)
		if ip+width > len(prog.Instructions) {
			return nil, fmt.Errorf("bytecode: truncated instruction at offset %d", ip)
		}
		text, err := DiassembleInstruction(prog.Instructions[ip : ip+width])
		if err != nil {
			return nil, err
		}
		lines = append(lines, fmt.Sprintf("%04d  %s", ip, text))
		ip += width
	}
	return lines, nil
}
