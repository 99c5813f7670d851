// Package semantic implements the single post-order analysis pass of §4.3:
// it annotates every expression with a type, populates a symbol table, and
// collects diagnostics, following the visitor-dispatch idiom used
// throughout this codebase (the same Accept/Visit shape as the printer and
// the code generator) applied to type inference instead of evaluation.
package semantic

import (
	"fmt"

	"skt/ast"
	"skt/symtab"
	"skt/token"
)

// Annotated is the annotated AST of §3.7: the same Program plus a side
// table of expression types, kept separate so the parse tree itself is
// never mutated in place (§9 "Ownership of AST").
type Annotated struct {
	Program *ast.Program
	types   map[ast.Expression]symtab.ValueType
}

// TypeOf reports the type assigned to e during analysis, or Unresolved if
// e was never visited (should not happen for a fully analyzed program).
func (a *Annotated) TypeOf(e ast.Expression) symtab.ValueType {
	if t, ok := a.types[e]; ok {
		return t
	}
	return symtab.Unresolved
}

type analyzer struct {
	table      *symtab.Table
	errors     []error
	types      map[ast.Expression]symtab.ValueType
	scopeStack []string
}

// Analyze runs the semantic pass over program, returning an annotated
// tree, the populated symbol table, and any diagnostics — always returning
// a usable tree even when errors is non-empty (§4.3 "Output").
func Analyze(program *ast.Program) (*Annotated, *symtab.Table, []error) {
	a := &analyzer{
		table:      symtab.New(),
		types:      make(map[ast.Expression]symtab.ValueType),
		scopeStack: []string{symtab.GlobalScope},
	}
	for _, stmt := range program.Body {
		stmt.Accept(a)
	}
	return &Annotated{Program: program, types: a.types}, a.table, a.errors
}

func (a *analyzer) scope() string { return a.scopeStack[len(a.scopeStack)-1] }

func (a *analyzer) typeOf(e ast.Expression) symtab.ValueType {
	if t, ok := e.Accept(a).(symtab.ValueType); ok {
		return t
	}
	return symtab.Unresolved
}

func isNumeric(t symtab.ValueType) bool { return t == symtab.Int || t == symtab.Float }

// typeLabel renders a ValueType the way source-level diagnostics spell it
// (§8 test 2: "expectedType=\"int\", actualType=\"float\"") rather than the
// capitalized Go constant name.
func typeLabel(t symtab.ValueType) string {
	switch t {
	case symtab.Int:
		return "int"
	case symtab.Float:
		return "float"
	case symtab.Bool:
		return "bool"
	case symtab.String:
		return "string"
	default:
		return string(t)
	}
}

// assignable implements §4.3's assignability table: Int→Int, Float→Float,
// Int→Float (widening), Bool→Bool, String→String. Float→Int is rejected.
func assignable(from, to symtab.ValueType) bool {
	if from == to {
		return true
	}
	return from == symtab.Int && to == symtab.Float
}

func keywordType(t token.Type) symtab.ValueType {
	switch t {
	case token.INT_KW:
		return symtab.Int
	case token.FLOAT_KW:
		return symtab.Float
	case token.BOOL_KW:
		return symtab.Bool
	case token.STR_KW:
		return symtab.String
	default:
		return symtab.Unresolved
	}
}

func (a *analyzer) undeclared(name string, tok token.Token) {
	a.errors = append(a.errors, Error{
		Kind: UndeclaredVariable, Line: tok.Line, Column: tok.Column,
		VariableName: name, Message: fmt.Sprintf("undeclared variable '%s'", name),
	})
}

// --- Expression visitor ---

func (a *analyzer) VisitBinary(b ast.Binary) any {
	left := a.typeOf(b.Left)
	right := a.typeOf(b.Right)
	op := b.Operator

	var result symtab.ValueType
	switch op.TokenType {
	case token.ADD, token.SUB, token.MULT, token.DIV, token.POW:
		switch {
		case left == symtab.Unresolved || right == symtab.Unresolved:
			result = symtab.Unresolved
		case !isNumeric(left) || !isNumeric(right):
			a.errors = append(a.errors, Error{Kind: TypeIncompatibility, Line: op.Line, Column: op.Column,
				Message: fmt.Sprintf("operator '%s' requires numeric operands", op.Lexeme)})
			result = symtab.Unresolved
		case left == symtab.Float || right == symtab.Float:
			result = symtab.Float
		default:
			result = symtab.Int
		}
	case token.MOD:
		switch {
		case left == symtab.Unresolved || right == symtab.Unresolved:
			result = symtab.Unresolved
		case left != symtab.Int || right != symtab.Int:
			a.errors = append(a.errors, Error{Kind: InvalidOperand, Line: op.Line, Column: op.Column,
				Message: "operator '%' requires integer operands"})
			result = symtab.Unresolved
		default:
			result = symtab.Int
		}
	case token.EQUAL_EQUAL, token.NOT_EQUAL:
		switch {
		case left == symtab.Unresolved || right == symtab.Unresolved:
			result = symtab.Unresolved
		case !sameAfterPromotion(left, right):
			a.errors = append(a.errors, Error{Kind: InvalidOperand, Line: op.Line, Column: op.Column,
				Message: fmt.Sprintf("cannot compare %s and %s for equality", left, right)})
			result = symtab.Unresolved
		default:
			result = symtab.Bool
		}
	case token.LESS, token.LESS_EQUAL, token.LARGER, token.LARGER_EQUAL:
		switch {
		case left == symtab.Unresolved || right == symtab.Unresolved:
			result = symtab.Unresolved
		case !isNumeric(left) || !isNumeric(right):
			a.errors = append(a.errors, Error{Kind: InvalidOperand, Line: op.Line, Column: op.Column,
				Message: fmt.Sprintf("operator '%s' requires numeric operands", op.Lexeme)})
			result = symtab.Unresolved
		default:
			result = symtab.Bool
		}
	default:
		result = symtab.Unresolved
	}

	a.types[b] = result
	return result
}

func sameAfterPromotion(l, r symtab.ValueType) bool {
	if l == r {
		return true
	}
	return (l == symtab.Int && r == symtab.Float) || (l == symtab.Float && r == symtab.Int)
}

func (a *analyzer) VisitUnary(u ast.Unary) any {
	right := a.typeOf(u.Right)
	var result symtab.ValueType
	switch u.Operator.TokenType {
	case token.BANG:
		switch {
		case right == symtab.Unresolved:
			result = symtab.Unresolved
		case right != symtab.Bool:
			a.errors = append(a.errors, Error{Kind: InvalidOperand, Line: u.Operator.Line, Column: u.Operator.Column,
				Message: "operator '!' requires a bool operand"})
			result = symtab.Unresolved
		default:
			result = symtab.Bool
		}
	case token.ADD, token.SUB:
		switch {
		case right == symtab.Unresolved:
			result = symtab.Unresolved
		case !isNumeric(right):
			a.errors = append(a.errors, Error{Kind: InvalidOperand, Line: u.Operator.Line, Column: u.Operator.Column,
				Message: fmt.Sprintf("unary '%s' requires a numeric operand", u.Operator.Lexeme)})
			result = symtab.Unresolved
		default:
			result = right
		}
	default:
		result = symtab.Unresolved
	}
	a.types[u] = result
	return result
}

func (a *analyzer) VisitLiteral(l ast.Literal) any {
	var t symtab.ValueType
	switch l.Value.(type) {
	case int64:
		t = symtab.Int
	case float64:
		t = symtab.Float
	case bool:
		t = symtab.Bool
	case string:
		t = symtab.String
	default:
		t = symtab.Unresolved
	}
	a.types[l] = t
	return t
}

func (a *analyzer) VisitGrouping(g ast.Grouping) any {
	t := a.typeOf(g.Expression)
	a.types[g] = t
	return t
}

func (a *analyzer) VisitVariableExpression(v ast.Variable) any {
	entry, ok := a.table.Lookup(v.Name.Lexeme, a.scopeStack)
	if !ok {
		a.undeclared(v.Name.Lexeme, v.Name)
		a.types[v] = symtab.Unresolved
		return symtab.Unresolved
	}
	a.types[v] = entry.DeclaredType
	return entry.DeclaredType
}

func (a *analyzer) VisitAssignExpression(asn ast.Assign) any {
	valType := a.typeOf(asn.Value)

	entry, ok := a.table.Lookup(asn.Name.Lexeme, a.scopeStack)
	if !ok {
		a.undeclared(asn.Name.Lexeme, asn.Name)
		a.types[asn] = symtab.Unresolved
		return symtab.Unresolved
	}
	if valType == symtab.Unresolved {
		a.types[asn] = symtab.Unresolved
		return symtab.Unresolved
	}
	if !assignable(valType, entry.DeclaredType) {
		a.errors = append(a.errors, Error{
			Kind: TypeIncompatibility, Line: asn.Name.Line, Column: asn.Name.Column,
			VariableName: asn.Name.Lexeme, ExpectedType: typeLabel(entry.DeclaredType), ActualType: typeLabel(valType),
			Message: fmt.Sprintf("cannot assign %s to '%s' of type %s", valType, asn.Name.Lexeme, entry.DeclaredType),
		})
		a.types[asn] = entry.DeclaredType
		return entry.DeclaredType
	}
	a.table.MarkInitialized(asn.Name.Lexeme, entry.Scope)
	a.types[asn] = entry.DeclaredType
	return entry.DeclaredType
}

func (a *analyzer) VisitCompoundAssignExpression(c ast.CompoundAssign) any {
	entry, ok := a.table.Lookup(c.Name.Lexeme, a.scopeStack)
	if !ok {
		a.undeclared(c.Name.Lexeme, c.Name)
		a.types[c] = symtab.Unresolved
		return symtab.Unresolved
	}

	rhsType := a.typeOf(c.Value)
	if rhsType == symtab.Unresolved {
		a.types[c] = symtab.Unresolved
		return symtab.Unresolved
	}

	arithOp := token.CompoundAssignOps[c.Operator.TokenType]
	var resultType symtab.ValueType
	switch {
	case arithOp == token.MOD:
		if entry.DeclaredType != symtab.Int || rhsType != symtab.Int {
			a.errors = append(a.errors, Error{Kind: InvalidOperand, Line: c.Operator.Line, Column: c.Operator.Column,
				Message: "operator '%=' requires integer operands"})
			resultType = symtab.Unresolved
		} else {
			resultType = symtab.Int
		}
	case !isNumeric(entry.DeclaredType) || !isNumeric(rhsType):
		a.errors = append(a.errors, Error{Kind: TypeIncompatibility, Line: c.Operator.Line, Column: c.Operator.Column,
			Message: fmt.Sprintf("operator '%s' requires numeric operands", c.Operator.Lexeme)})
		resultType = symtab.Unresolved
	case entry.DeclaredType == symtab.Float || rhsType == symtab.Float:
		resultType = symtab.Float
	default:
		resultType = symtab.Int
	}

	if resultType == symtab.Unresolved {
		a.types[c] = symtab.Unresolved
		return symtab.Unresolved
	}
	if !assignable(resultType, entry.DeclaredType) {
		a.errors = append(a.errors, Error{
			Kind: TypeIncompatibility, Line: c.Name.Line, Column: c.Name.Column,
			VariableName: c.Name.Lexeme, ExpectedType: typeLabel(entry.DeclaredType), ActualType: typeLabel(resultType),
			Message: fmt.Sprintf("cannot assign %s to '%s' of type %s", resultType, c.Name.Lexeme, entry.DeclaredType),
		})
		a.types[c] = entry.DeclaredType
		return entry.DeclaredType
	}
	a.table.MarkInitialized(c.Name.Lexeme, entry.Scope)
	a.types[c] = entry.DeclaredType
	return entry.DeclaredType
}

func (a *analyzer) VisitLogicalExpression(l ast.Logical) any {
	left := a.typeOf(l.Left)
	right := a.typeOf(l.Right)
	var result symtab.ValueType
	switch {
	case left == symtab.Unresolved || right == symtab.Unresolved:
		result = symtab.Unresolved
	case left != symtab.Bool || right != symtab.Bool:
		a.errors = append(a.errors, Error{Kind: InvalidOperand, Line: l.Operator.Line, Column: l.Operator.Column,
			Message: fmt.Sprintf("operator '%s' requires bool operands", l.Operator.Lexeme)})
		result = symtab.Unresolved
	default:
		result = symtab.Bool
	}
	a.types[l] = result
	return result
}

// --- Statement visitor ---

func (a *analyzer) VisitExpressionStmt(s ast.ExpressionStmt) any {
	s.Expression.Accept(a)
	return nil
}

func (a *analyzer) VisitVarDeclStmt(s ast.VarDeclStmt) any {
	declaredType := keywordType(s.Type.TokenType)
	for _, nameTok := range s.Names {
		if _, ok := a.table.Declare(nameTok.Lexeme, declaredType, a.scope(), nameTok.Line, nameTok.Column); !ok {
			a.errors = append(a.errors, Error{
				Kind: DuplicateDeclaration, Line: nameTok.Line, Column: nameTok.Column,
				VariableName: nameTok.Lexeme, Message: fmt.Sprintf("duplicate declaration of '%s'", nameTok.Lexeme),
			})
		}
	}
	return nil
}

func (a *analyzer) VisitBlockStmt(s ast.BlockStmt) any {
	for _, stmt := range s.Statements {
		stmt.Accept(a)
	}
	return nil
}

func (a *analyzer) VisitIfStmt(s ast.IfStmt) any {
	a.typeOf(s.Condition)
	s.Then.Accept(a)
	if s.Else != nil {
		s.Else.Accept(a)
	}
	return nil
}

func (a *analyzer) VisitWhileStmt(s ast.WhileStmt) any {
	a.typeOf(s.Condition)
	s.Body.Accept(a)
	return nil
}

func (a *analyzer) VisitDoWhileStmt(s ast.DoWhileStmt) any {
	s.Body.Accept(a)
	a.typeOf(s.Condition)
	return nil
}

func (a *analyzer) VisitIncDecStmt(s ast.IncDecStmt) any {
	entry, ok := a.table.Lookup(s.Name.Lexeme, a.scopeStack)
	if !ok {
		a.undeclared(s.Name.Lexeme, s.Name)
		return nil
	}
	if !isNumeric(entry.DeclaredType) {
		a.errors = append(a.errors, Error{Kind: InvalidOperand, Line: s.Name.Line, Column: s.Name.Column,
			VariableName: s.Name.Lexeme, Message: fmt.Sprintf("'%s' requires a numeric target", s.Operator.Lexeme)})
	}
	return nil
}

func (a *analyzer) VisitCinStmt(s ast.CinStmt) any {
	for _, nameTok := range s.Names {
		entry, ok := a.table.Lookup(nameTok.Lexeme, a.scopeStack)
		if !ok {
			a.undeclared(nameTok.Lexeme, nameTok)
			continue
		}
		a.table.MarkInitialized(nameTok.Lexeme, entry.Scope)
	}
	return nil
}

func (a *analyzer) VisitCoutStmt(s ast.CoutStmt) any {
	for _, item := range s.Items {
		a.typeOf(item)
	}
	return nil
}
