// expressions.go contains all expression nodes. An expression always
// evaluates to a value.
package ast

import "skt/token"

func spanOf(first, last token.Token) Span {
	return Span{Line: first.Line, Column: first.Column, EndLine: last.EndLine, EndColumn: last.EndColumn}
}

// Binary represents a binary operation expression (e.g. "a + b").
type Binary struct {
	Left     Expression
	Operator token.Token
	Right    Expression
}

func (b Binary) Accept(v ExpressionVisitor) any { return v.VisitBinary(b) }
func (b Binary) Span() Span {
	return Span{Line: b.Left.Span().Line, Column: b.Left.Span().Column,
		EndLine: b.Right.Span().EndLine, EndColumn: b.Right.Span().EndColumn}
}

// Unary represents a unary operation expression (e.g. "!a" or "-b").
type Unary struct {
	Operator token.Token
	Right    Expression
}

func (u Unary) Accept(v ExpressionVisitor) any { return v.VisitUnary(u) }
func (u Unary) Span() Span {
	r := u.Right.Span()
	return Span{Line: u.Operator.Line, Column: u.Operator.Column, EndLine: r.EndLine, EndColumn: r.EndColumn}
}

// Literal represents an Int, Float, Bool, or String literal value.
type Literal struct {
	Value any
	Token token.Token
}

func (l Literal) Accept(v ExpressionVisitor) any { return v.VisitLiteral(l) }
func (l Literal) Span() Span {
	return Span{Line: l.Token.Line, Column: l.Token.Column, EndLine: l.Token.EndLine, EndColumn: l.Token.EndColumn}
}

// Grouping represents a parenthesized expression "(e)".
type Grouping struct {
	Expression Expression
	LParen     token.Token
	RParen     token.Token
}

func (g Grouping) Accept(v ExpressionVisitor) any { return v.VisitGrouping(g) }
func (g Grouping) Span() Span {
	return Span{Line: g.LParen.Line, Column: g.LParen.Column, EndLine: g.RParen.EndLine, EndColumn: g.RParen.EndColumn}
}

// Variable represents a reference to a previously declared identifier.
type Variable struct {
	Name token.Token
}

func (v Variable) Accept(vis ExpressionVisitor) any { return vis.VisitVariableExpression(v) }
func (v Variable) Span() Span {
	return Span{Line: v.Name.Line, Column: v.Name.Column, EndLine: v.Name.EndLine, EndColumn: v.Name.EndColumn}
}

// Assign represents a plain assignment "x = expr".
type Assign struct {
	Name  token.Token
	Value Expression
}

func (a Assign) Accept(v ExpressionVisitor) any { return v.VisitAssignExpression(a) }
func (a Assign) Span() Span {
	val := a.Value.Span()
	return Span{Line: a.Name.Line, Column: a.Name.Column, EndLine: val.EndLine, EndColumn: val.EndColumn}
}

// CompoundAssign represents "x op= expr", desugared per §4.3 into
// "x = x op expr" during semantic analysis / codegen, but kept distinct in
// the parse tree so the parser need not synthesize a duplicate Variable
// reference.
type CompoundAssign struct {
	Name     token.Token
	Operator token.Token // one of += -= *= /= %= ^=
	Value    Expression
}

func (c CompoundAssign) Accept(v ExpressionVisitor) any { return v.VisitCompoundAssignExpression(c) }
func (c CompoundAssign) Span() Span {
	val := c.Value.Span()
	return Span{Line: c.Name.Line, Column: c.Name.Column, EndLine: val.EndLine, EndColumn: val.EndColumn}
}

// Logical represents "a && b" / "a || b". Per §9 these are specified
// non-short-circuit: both operands are always evaluated.
type Logical struct {
	Left     Expression
	Operator token.Token
	Right    Expression
}

func (l Logical) Accept(v ExpressionVisitor) any { return v.VisitLogicalExpression(l) }
func (l Logical) Span() Span {
	return Span{Line: l.Left.Span().Line, Column: l.Left.Span().Column,
		EndLine: l.Right.Span().EndLine, EndColumn: l.Right.Span().EndColumn}
}
