// Package codegen lowers an annotated AST to a resolved P-code program
// (§4.4) via visitor-based emission with jump backpatching, using an
// explicit label layer: jump targets are allocated as symbolic label ids
// during the walk and rewritten to absolute byte addresses in one
// resolution pass at the end, so no Label sentinel ever needs to appear in
// the emitted stream.
package codegen

import (
	"encoding/binary"
	"fmt"

	"skt/ast"
	"skt/bytecode"
	"skt/semantic"
	"skt/symtab"
	"skt/token"
)

type pendingJump struct {
	operandPos int
	label      int
}

type generator struct {
	annotated   *semantic.Annotated
	table       *symtab.Table
	prog        *bytecode.Program
	pending     []pendingJump
	labelPos    map[int]int
	nextLabelID int
}

// Generate lowers annotated into a resolved bytecode.Program. Callers must
// only invoke this when semantic analysis reported zero errors (§6.2).
func Generate(annotated *semantic.Annotated, table *symtab.Table) *bytecode.Program {
	g := &generator{
		annotated: annotated,
		table:     table,
		prog:      &bytecode.Program{Symbols: table},
		labelPos:  make(map[int]int),
	}
	for _, stmt := range annotated.Program.Body {
		stmt.Accept(g)
	}
	g.emit(bytecode.OpHalt)
	g.resolve()
	return g.prog
}

func (g *generator) newLabel() int {
	g.nextLabelID++
	return g.nextLabelID
}

func (g *generator) markLabel(id int) {
	g.labelPos[id] = len(g.prog.Instructions)
}

func (g *generator) emit(op bytecode.Opcode, operands ...int) {
	instr, err := bytecode.AssembleInstruction(op, operands...)
	if err != nil {
		panic(fmt.Sprintf("codegen: %s", err))
	}
	g.prog.Instructions = append(g.prog.Instructions, instr...)
}

// emitJump emits op with a placeholder address operand and records the
// operand's byte position for later resolution against label.
func (g *generator) emitJump(op bytecode.Opcode, label int) {
	opcodePos := len(g.prog.Instructions)
	g.emit(op, 0)
	g.pending = append(g.pending, pendingJump{operandPos: opcodePos + 1, label: label})
}

// resolve rewrites every pending jump's placeholder operand to the
// resolved byte address of its label (§4.4 "Label resolution").
func (g *generator) resolve() {
	for _, pj := range g.pending {
		addr, ok := g.labelPos[pj.label]
		if !ok {
			panic(fmt.Sprintf("codegen: label %d referenced but never marked", pj.label))
		}
		binary.BigEndian.PutUint16(g.prog.Instructions[pj.operandPos:], uint16(addr))
	}
}

func (g *generator) lookupGlobal(name string) *symtab.Entry {
	entry, _ := g.table.Lookup(name, []string{symtab.GlobalScope})
	return entry
}

func literalValue(v any) bytecode.Value {
	switch x := v.(type) {
	case int64:
		return bytecode.IntValue(x)
	case float64:
		return bytecode.FloatValue(x)
	case bool:
		return bytecode.BoolValue(x)
	case string:
		return bytecode.StringValue(x)
	default:
		return bytecode.Value{}
	}
}

func binaryOpcode(t token.Type) bytecode.Opcode {
	switch t {
	case token.ADD:
		return bytecode.OpAdd
	case token.SUB:
		return bytecode.OpSub
	case token.MULT:
		return bytecode.OpMul
	case token.DIV:
		return bytecode.OpDiv
	case token.MOD:
		return bytecode.OpMod
	case token.POW:
		return bytecode.OpPow
	case token.EQUAL_EQUAL:
		return bytecode.OpEq
	case token.NOT_EQUAL:
		return bytecode.OpNe
	case token.LESS:
		return bytecode.OpLt
	case token.LESS_EQUAL:
		return bytecode.OpLe
	case token.LARGER:
		return bytecode.OpGt
	case token.LARGER_EQUAL:
		return bytecode.OpGe
	default:
		panic(fmt.Sprintf("codegen: unsupported binary operator %q", t))
	}
}

// promote mirrors the semantic pass's arithmetic promotion rule (§4.3) so
// compound-assignment lowering can decide whether a trailing I2F is needed.
func promote(left, right symtab.ValueType, op token.Type) symtab.ValueType {
	if op == token.MOD {
		return symtab.Int
	}
	if left == symtab.Float || right == symtab.Float {
		return symtab.Float
	}
	return symtab.Int
}

func valueKindOf(t symtab.ValueType) bytecode.ValueKind {
	switch t {
	case symtab.Float:
		return bytecode.KindFloat
	case symtab.Bool:
		return bytecode.KindBool
	case symtab.String:
		return bytecode.KindString
	default:
		return bytecode.KindInt
	}
}

// --- Expression visitor ---

func (g *generator) VisitLiteral(l ast.Literal) any {
	idx := g.prog.InternConstant(literalValue(l.Value))
	g.emit(bytecode.OpPushConst, idx)
	return nil
}

func (g *generator) VisitGrouping(gr ast.Grouping) any {
	gr.Expression.Accept(g)
	return nil
}

func (g *generator) VisitVariableExpression(v ast.Variable) any {
	idx := g.prog.InternName(v.Name.Lexeme)
	g.emit(bytecode.OpPushVar, idx)
	return nil
}

func (g *generator) VisitUnary(u ast.Unary) any {
	u.Right.Accept(g)
	switch u.Operator.TokenType {
	case token.SUB:
		g.emit(bytecode.OpNeg)
	case token.BANG:
		g.emit(bytecode.OpNot)
	case token.ADD:
		// unary plus is a no-op
	}
	return nil
}

func (g *generator) VisitBinary(b ast.Binary) any {
	leftType := g.annotated.TypeOf(b.Left)
	rightType := g.annotated.TypeOf(b.Right)

	b.Left.Accept(g)
	if leftType == symtab.Int && rightType == symtab.Float {
		g.emit(bytecode.OpI2F)
	}
	b.Right.Accept(g)
	if rightType == symtab.Int && leftType == symtab.Float {
		g.emit(bytecode.OpI2F)
	}
	g.emit(binaryOpcode(b.Operator.TokenType))
	return nil
}

// VisitLogicalExpression emits both operands unconditionally, per §9's
// "specified as non-short-circuit" design note.
func (g *generator) VisitLogicalExpression(l ast.Logical) any {
	l.Left.Accept(g)
	l.Right.Accept(g)
	switch l.Operator.TokenType {
	case token.AND:
		g.emit(bytecode.OpAnd)
	case token.OR:
		g.emit(bytecode.OpOr)
	}
	return nil
}

func (g *generator) VisitAssignExpression(a ast.Assign) any {
	valType := g.annotated.TypeOf(a.Value)
	entry := g.lookupGlobal(a.Name.Lexeme)

	a.Value.Accept(g)
	if entry != nil && valType == symtab.Int && entry.DeclaredType == symtab.Float {
		g.emit(bytecode.OpI2F)
	}
	idx := g.prog.InternName(a.Name.Lexeme)
	g.emit(bytecode.OpStore, idx)
	return nil
}

// VisitCompoundAssignExpression lowers "x op= expr" as "x = x op expr"
// (§4.3), pushing the current value of x, the (possibly widened) rhs, the
// arithmetic opcode, an optional widen back to x's declared type, then Store.
func (g *generator) VisitCompoundAssignExpression(c ast.CompoundAssign) any {
	entry := g.lookupGlobal(c.Name.Lexeme)
	nameIdx := g.prog.InternName(c.Name.Lexeme)

	g.emit(bytecode.OpPushVar, nameIdx)
	leftType := entry.DeclaredType
	rightType := g.annotated.TypeOf(c.Value)
	if leftType == symtab.Int && rightType == symtab.Float {
		g.emit(bytecode.OpI2F)
	}
	c.Value.Accept(g)
	if rightType == symtab.Int && leftType == symtab.Float {
		g.emit(bytecode.OpI2F)
	}

	arithOp := token.CompoundAssignOps[c.Operator.TokenType]
	g.emit(binaryOpcode(arithOp))

	resultType := promote(leftType, rightType, arithOp)
	if resultType == symtab.Int && entry.DeclaredType == symtab.Float {
		g.emit(bytecode.OpI2F)
	}
	g.emit(bytecode.OpStore, nameIdx)
	return nil
}

// --- Statement visitor ---

func (g *generator) VisitExpressionStmt(s ast.ExpressionStmt) any {
	s.Expression.Accept(g)
	return nil
}

// VisitVarDeclStmt emits nothing: the VM initializes every declared
// symbol to its type's zero value at program start (§4.5).
func (g *generator) VisitVarDeclStmt(s ast.VarDeclStmt) any { return nil }

func (g *generator) VisitBlockStmt(s ast.BlockStmt) any {
	for _, stmt := range s.Statements {
		stmt.Accept(g)
	}
	return nil
}

// VisitIfStmt follows §4.4's lowering rule verbatim, including the
// unconditional Jump-to-Lend even when there is no else branch.
func (g *generator) VisitIfStmt(s ast.IfStmt) any {
	s.Condition.Accept(g)
	lelse := g.newLabel()
	lend := g.newLabel()

	g.emitJump(bytecode.OpJumpIfFalse, lelse)
	s.Then.Accept(g)
	g.emitJump(bytecode.OpJump, lend)
	g.markLabel(lelse)
	if s.Else != nil {
		s.Else.Accept(g)
	}
	g.markLabel(lend)
	return nil
}

func (g *generator) VisitWhileStmt(s ast.WhileStmt) any {
	lstart := g.newLabel()
	lend := g.newLabel()

	g.markLabel(lstart)
	s.Condition.Accept(g)
	g.emitJump(bytecode.OpJumpIfFalse, lend)
	s.Body.Accept(g)
	g.emitJump(bytecode.OpJump, lstart)
	g.markLabel(lend)
	return nil
}

func (g *generator) VisitDoWhileStmt(s ast.DoWhileStmt) any {
	lstart := g.newLabel()
	lend := g.newLabel()

	g.markLabel(lstart)
	s.Body.Accept(g)
	s.Condition.Accept(g)
	g.emitJump(bytecode.OpJumpIfFalse, lend)
	g.emitJump(bytecode.OpJump, lstart)
	g.markLabel(lend)
	return nil
}

func (g *generator) VisitIncDecStmt(s ast.IncDecStmt) any {
	entry := g.lookupGlobal(s.Name.Lexeme)
	nameIdx := g.prog.InternName(s.Name.Lexeme)

	one := bytecode.IntValue(1)
	if entry != nil && entry.DeclaredType == symtab.Float {
		one = bytecode.FloatValue(1)
	}

	g.emit(bytecode.OpPushVar, nameIdx)
	g.emit(bytecode.OpPushConst, g.prog.InternConstant(one))
	if s.Operator.TokenType == token.INCREMENT {
		g.emit(bytecode.OpAdd)
	} else {
		g.emit(bytecode.OpSub)
	}
	g.emit(bytecode.OpStore, nameIdx)
	return nil
}

func (g *generator) VisitCinStmt(s ast.CinStmt) any {
	for _, nameTok := range s.Names {
		idx := g.prog.InternName(nameTok.Lexeme)
		g.emit(bytecode.OpRead, idx)
	}
	return nil
}

// VisitCoutStmt emits each item followed by Write(kind), then a single
// trailing WriteLn for the whole statement (§4.4, §9 "cout newline
// convention").
func (g *generator) VisitCoutStmt(s ast.CoutStmt) any {
	for _, item := range s.Items {
		item.Accept(g)
		kind := valueKindOf(g.annotated.TypeOf(item))
		g.emit(bytecode.OpWrite, int(kind))
	}
	g.emit(bytecode.OpWriteLn)
	return nil
}
