// Package vm implements the stack-based P-code virtual machine of §4.5: a
// fetch-decode-execute loop dispatching the full opcode catalogue in
// skt/bytecode against an operand stack and a name-keyed environment.
package vm

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"

	"skt/bytecode"
	"skt/symtab"
)

// InputFunc requests one line of input for a variable of the given kind
// (§4.5 "request_input(type)").
type InputFunc func(kind bytecode.ValueKind) string

// OutputFunc emits text produced by Write/WriteLn (§4.5 "emit_output").
type OutputFunc func(text string)

// ErrorFunc reports a non-fatal runtime diagnostic (division by zero, a
// Read that failed to parse).
type ErrorFunc func(message string)

// Hooks are the host callbacks execute() drives I/O through; the VM
// itself never touches stdio directly.
type Hooks struct {
	OnInput  InputFunc
	OnOutput OutputFunc
	OnError  ErrorFunc
}

// Result is execute()'s return value per §6.2.
type Result struct {
	Success      bool
	ErrorMessage string
}

// VM is the runtime environment where skt bytecode is executed.
type VM struct {
	program       *bytecode.Program
	hooks         Hooks
	stack         Stack
	maxStackDepth int
	env           map[string]bytecode.Value
	ip            int
}

func newVM(program *bytecode.Program, hooks Hooks, maxStackDepth int) *VM {
	env := make(map[string]bytecode.Value)
	if program.Symbols != nil {
		for _, entry := range program.Symbols.Entries() {
			env[entry.Name] = bytecode.Zero(entry.DeclaredType)
		}
	}
	return &VM{program: program, hooks: hooks, env: env, maxStackDepth: maxStackDepth}
}

// push wraps Stack.Push with the configured depth cap (§4.5/§10.3): 0
// means unbounded, matching Config's default.
func (vm *VM) push(value bytecode.Value) {
	if vm.maxStackDepth > 0 && len(vm.stack) >= vm.maxStackDepth {
		panic(RuntimeError{Message: fmt.Sprintf("stack overflow: exceeded max depth %d", vm.maxStackDepth)})
	}
	vm.stack.Push(value)
}

// Execute runs program to completion (or Halt, or cancellation) with an
// unbounded operand stack, and reports the outcome. A RuntimeError
// assertion (stack underflow/overflow, unknown variable, unresolved
// label) is recovered here and converted into a failed Result instead of
// crashing the host.
func Execute(program *bytecode.Program, hooks Hooks, cancel <-chan struct{}) (result Result) {
	return ExecuteWithLimit(program, hooks, cancel, 0)
}

// ExecuteWithLimit is Execute, but caps the operand stack at
// maxStackDepth entries (0 means unbounded) per a loaded .sktconfig.yaml's
// max_stack_depth (§10.3).
func ExecuteWithLimit(program *bytecode.Program, hooks Hooks, cancel <-chan struct{}, maxStackDepth int) (result Result) {
	machine := newVM(program, hooks, maxStackDepth)
	defer func() {
		if r := recover(); r != nil {
			if re, ok := r.(RuntimeError); ok {
				result = Result{Success: false, ErrorMessage: re.Error()}
				return
			}
			panic(r)
		}
	}()
	return machine.run(cancel)
}

func cancelRequested(cancel <-chan struct{}) bool {
	if cancel == nil {
		return false
	}
	select {
	case <-cancel:
		return true
	default:
		return false
	}
}

func (vm *VM) run(cancel <-chan struct{}) Result {
	instructions := vm.program.Instructions
	for vm.ip < len(instructions) {
		if cancelRequested(cancel) {
			return Result{Success: false, ErrorMessage: "execution cancelled"}
		}

		op := bytecode.Opcode(instructions[vm.ip])
		def, err := bytecode.Get(op)
		if err != nil {
			panic(RuntimeError{Message: err.Error()})
		}

		operand := 0
		if len(def.OperandWidths) > 0 {
			operand = vm.decodeOperand(def.OperandWidths[0], vm.ip+1)
		}
		nextIP := vm.ip + 1
		for _, w := range def.OperandWidths {
			nextIP += w
		}

		jumped := false
		switch op {
		case bytecode.OpHalt:
			return Result{Success: true}

		case bytecode.OpPushConst:
			vm.push(vm.program.Constants[operand])

		case bytecode.OpPushVar:
			name := vm.program.Names[operand]
			v, ok := vm.env[name]
			if !ok {
				panic(RuntimeError{Message: fmt.Sprintf("unknown variable %q", name)})
			}
			vm.push(v)

		case bytecode.OpStore:
			vm.env[vm.program.Names[operand]] = vm.stack.Pop()

		case bytecode.OpAdd, bytecode.OpSub, bytecode.OpMul, bytecode.OpDiv, bytecode.OpMod, bytecode.OpPow:
			vm.execArith(op)

		case bytecode.OpNeg:
			a := vm.stack.Pop()
			if a.Type == symtab.Float {
				vm.push(bytecode.FloatValue(-a.F))
			} else {
				vm.push(bytecode.IntValue(-a.I))
			}

		case bytecode.OpEq, bytecode.OpNe, bytecode.OpLt, bytecode.OpLe, bytecode.OpGt, bytecode.OpGe:
			vm.execCompare(op)

		case bytecode.OpAnd:
			b, a := vm.stack.Pop(), vm.stack.Pop()
			vm.push(bytecode.BoolValue(a.B && b.B))

		case bytecode.OpOr:
			b, a := vm.stack.Pop(), vm.stack.Pop()
			vm.push(bytecode.BoolValue(a.B || b.B))

		case bytecode.OpNot:
			a := vm.stack.Pop()
			vm.push(bytecode.BoolValue(!a.B))

		case bytecode.OpI2F:
			a := vm.stack.Pop()
			vm.push(bytecode.FloatValue(float64(a.I)))

		case bytecode.OpJump:
			vm.ip = operand
			jumped = true

		case bytecode.OpJumpIfFalse:
			cond := vm.stack.Pop()
			if !cond.B {
				vm.ip = operand
				jumped = true
			}

		case bytecode.OpRead:
			vm.execRead(operand)

		case bytecode.OpWrite:
			v := vm.stack.Pop()
			if vm.hooks.OnOutput != nil {
				vm.hooks.OnOutput(v.Format())
			}

		case bytecode.OpWriteLn:
			if vm.hooks.OnOutput != nil {
				vm.hooks.OnOutput("\n")
			}

		case bytecode.OpLabel:
			panic(RuntimeError{Message: "unresolved label sentinel encountered at runtime"})

		default:
			panic(RuntimeError{Message: fmt.Sprintf("unhandled opcode %s at ip %d", def.Name, vm.ip)})
		}

		if !jumped {
			vm.ip = nextIP
		}
	}
	return Result{Success: true}
}

func (vm *VM) decodeOperand(width, at int) int {
	switch width {
	case 1:
		return int(vm.program.Instructions[at])
	case 2:
		return int(binary.BigEndian.Uint16(vm.program.Instructions[at : at+2]))
	default:
		panic(RuntimeError{Message: fmt.Sprintf("unsupported operand width %d", width)})
	}
}

func asFloat(v bytecode.Value) float64 {
	if v.Type == symtab.Float {
		return v.F
	}
	return float64(v.I)
}

// execArith pops b then a (a was pushed first) and pushes a op b. Division
// and modulus by zero are non-fatal: report on the error hook and push 0
// (§4.5 "Runtime errors").
func (vm *VM) execArith(op bytecode.Opcode) {
	b := vm.stack.Pop()
	a := vm.stack.Pop()

	if op == bytecode.OpMod {
		if b.I == 0 {
			vm.reportError("modulus by zero")
			vm.push(bytecode.IntValue(0))
			return
		}
		vm.push(bytecode.IntValue(a.I % b.I))
		return
	}

	if a.Type == symtab.Float || b.Type == symtab.Float {
		x, y := asFloat(a), asFloat(b)
		switch op {
		case bytecode.OpAdd:
			vm.push(bytecode.FloatValue(x + y))
		case bytecode.OpSub:
			vm.push(bytecode.FloatValue(x - y))
		case bytecode.OpMul:
			vm.push(bytecode.FloatValue(x * y))
		case bytecode.OpDiv:
			if y == 0 {
				vm.reportError("division by zero")
				vm.push(bytecode.FloatValue(0))
				return
			}
			vm.push(bytecode.FloatValue(x / y))
		case bytecode.OpPow:
			vm.push(bytecode.FloatValue(math.Pow(x, y)))
		}
		return
	}

	x, y := a.I, b.I
	switch op {
	case bytecode.OpAdd:
		vm.push(bytecode.IntValue(x + y))
	case bytecode.OpSub:
		vm.push(bytecode.IntValue(x - y))
	case bytecode.OpMul:
		vm.push(bytecode.IntValue(x * y))
	case bytecode.OpDiv:
		if y == 0 {
			vm.reportError("division by zero")
			vm.push(bytecode.IntValue(0))
			return
		}
		vm.push(bytecode.IntValue(x / y))
	case bytecode.OpPow:
		vm.push(bytecode.IntValue(int64(math.Pow(float64(x), float64(y)))))
	}
}

func (vm *VM) execCompare(op bytecode.Opcode) {
	b := vm.stack.Pop()
	a := vm.stack.Pop()

	switch op {
	case bytecode.OpEq:
		vm.push(bytecode.BoolValue(a.Equal(b)))
	case bytecode.OpNe:
		vm.push(bytecode.BoolValue(!a.Equal(b)))
	default:
		x, y := asFloat(a), asFloat(b)
		var result bool
		switch op {
		case bytecode.OpLt:
			result = x < y
		case bytecode.OpLe:
			result = x <= y
		case bytecode.OpGt:
			result = x > y
		case bytecode.OpGe:
			result = x >= y
		}
		vm.push(bytecode.BoolValue(result))
	}
}

// execRead parses the host-supplied line according to the target
// variable's declared type; a parse failure reports on the error hook and
// substitutes the type's zero value rather than aborting execution.
func (vm *VM) execRead(nameIdx int) {
	name := vm.program.Names[nameIdx]
	current, ok := vm.env[name]
	if !ok {
		panic(RuntimeError{Message: fmt.Sprintf("unknown variable %q", name)})
	}

	line := ""
	if vm.hooks.OnInput != nil {
		line = vm.hooks.OnInput(current.Kind())
	}

	parsed, err := parseInto(current.Type, line)
	if err != nil {
		vm.reportError(fmt.Sprintf("invalid input for %q: %v", name, err))
		vm.env[name] = bytecode.Zero(current.Type)
		return
	}
	vm.env[name] = parsed
}

func parseInto(t symtab.ValueType, line string) (bytecode.Value, error) {
	trimmed := strings.TrimSpace(line)
	switch t {
	case symtab.Int:
		v, err := strconv.ParseInt(trimmed, 10, 64)
		if err != nil {
			return bytecode.Value{}, err
		}
		return bytecode.IntValue(v), nil
	case symtab.Float:
		v, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return bytecode.Value{}, err
		}
		return bytecode.FloatValue(v), nil
	case symtab.Bool:
		v, err := strconv.ParseBool(trimmed)
		if err != nil {
			return bytecode.Value{}, err
		}
		return bytecode.BoolValue(v), nil
	case symtab.String:
		return bytecode.StringValue(line), nil
	default:
		return bytecode.Value{}, fmt.Errorf("cannot parse input for unresolved type")
	}
}

func (vm *VM) reportError(message string) {
	if vm.hooks.OnError != nil {
		vm.hooks.OnError(message)
	}
}
