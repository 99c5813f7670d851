// Package ast defines the rule-tagged tree produced by the parser (§3.3).
// Each nonterminal gets its own Go type rather than one homogeneous node,
// per the "tagged variant" design note in §9 — exhaustive switches in the
// semantic and codegen passes are then checked by the compiler instead of
// by a runtime `rule` string comparison. Every node still carries its span.
//
// interfaces.go holds the Visitor interfaces that any code traversing
// expression and statement nodes must implement, following the same
// visitor design pattern used throughout this codebase.
package ast

// ExpressionVisitor is implemented by anything that operates over
// Expression nodes (semantic analyzer, code generator, AST printer). Each
// method corresponds to exactly one Expression variant.
type ExpressionVisitor interface {
	VisitBinary(binary Binary) any
	VisitUnary(unary Unary) any
	VisitLiteral(literal Literal) any
	VisitGrouping(grouping Grouping) any
	VisitVariableExpression(variable Variable) any
	VisitAssignExpression(assign Assign) any
	VisitCompoundAssignExpression(assign CompoundAssign) any
	VisitLogicalExpression(logical Logical) any
}

// StmtVisitor is implemented by anything that operates over Stmt nodes.
type StmtVisitor interface {
	VisitExpressionStmt(exprStmt ExpressionStmt) any
	VisitVarDeclStmt(varDecl VarDeclStmt) any
	VisitBlockStmt(blockStmt BlockStmt) any
	VisitIfStmt(stmt IfStmt) any
	VisitWhileStmt(stmt WhileStmt) any
	VisitDoWhileStmt(stmt DoWhileStmt) any
	VisitIncDecStmt(stmt IncDecStmt) any
	VisitCinStmt(stmt CinStmt) any
	VisitCoutStmt(stmt CoutStmt) any
}

// Stmt is the base interface for all statement nodes. A statement performs
// an action and does not itself produce a value.
type Stmt interface {
	Accept(v StmtVisitor) any
	Span() Span
}

// Expression is the base interface for all expression nodes. The Accept
// method dispatches to the matching ExpressionVisitor method, decoupling
// behavior (type checking, lowering, printing) from the node's data.
type Expression interface {
	Accept(v ExpressionVisitor) any
	Span() Span
}

// Span is a (line,column)-(endLine,endColumn) pair, both 1-based, end
// exclusive in column — the GLOSSARY definition, attached to every node.
type Span struct {
	Line      int
	Column    int
	EndLine   int
	EndColumn int
}

// Program is the root node: `main '{' block '}'`.
type Program struct {
	Body []Stmt
	Sp   Span
}

func (p Program) Span() Span { return p.Sp }
