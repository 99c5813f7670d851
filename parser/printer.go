package parser

import (
	"encoding/json"
	"fmt"
	"os"

	"skt/ast"
)

const (
	colorYellow = "\033[33m"
	colorReset  = "\033[0m"
)

// astPrinter implements both visitor interfaces and builds a JSON-friendly
// representation of the AST using maps and slices.
type astPrinter struct{}

func (p astPrinter) VisitExpressionStmt(s ast.ExpressionStmt) any {
	return map[string]any{"type": "ExpressionStmt", "expression": s.Expression.Accept(p)}
}

func (p astPrinter) VisitVarDeclStmt(s ast.VarDeclStmt) any {
	names := make([]string, 0, len(s.Names))
	for _, n := range s.Names {
		names = append(names, n.Lexeme)
	}
	return map[string]any{"type": "VarDeclStmt", "declaredType": s.Type.Lexeme, "names": names}
}

func (p astPrinter) VisitBlockStmt(s ast.BlockStmt) any {
	stmts := make([]any, 0, len(s.Statements))
	for _, stmt := range s.Statements {
		stmts = append(stmts, stmt.Accept(p))
	}
	return map[string]any{"type": "BlockStmt", "statements": stmts}
}

func (p astPrinter) VisitIfStmt(s ast.IfStmt) any {
	var elseVal any
	if s.Else != nil {
		elseVal = s.Else.Accept(p)
	}
	return map[string]any{
		"type": "IfStmt", "condition": s.Condition.Accept(p),
		"then": s.Then.Accept(p), "else": elseVal,
	}
}

func (p astPrinter) VisitWhileStmt(s ast.WhileStmt) any {
	return map[string]any{"type": "WhileStmt", "condition": s.Condition.Accept(p), "body": s.Body.Accept(p)}
}

func (p astPrinter) VisitDoWhileStmt(s ast.DoWhileStmt) any {
	return map[string]any{"type": "DoWhileStmt", "body": s.Body.Accept(p), "condition": s.Condition.Accept(p)}
}

func (p astPrinter) VisitIncDecStmt(s ast.IncDecStmt) any {
	return map[string]any{"type": "IncDecStmt", "name": s.Name.Lexeme, "operator": s.Operator.Lexeme}
}

func (p astPrinter) VisitCinStmt(s ast.CinStmt) any {
	names := make([]string, 0, len(s.Names))
	for _, n := range s.Names {
		names = append(names, n.Lexeme)
	}
	return map[string]any{"type": "CinStmt", "names": names}
}

func (p astPrinter) VisitCoutStmt(s ast.CoutStmt) any {
	items := make([]any, 0, len(s.Items))
	for _, it := range s.Items {
		items = append(items, it.Accept(p))
	}
	return map[string]any{"type": "CoutStmt", "items": items}
}

func (p astPrinter) VisitLogicalExpression(e ast.Logical) any {
	return map[string]any{"type": "Logical", "operator": e.Operator.Lexeme, "left": e.Left.Accept(p), "right": e.Right.Accept(p)}
}

func (p astPrinter) VisitAssignExpression(e ast.Assign) any {
	return map[string]any{"type": "Assign", "name": e.Name.Lexeme, "value": e.Value.Accept(p)}
}

func (p astPrinter) VisitCompoundAssignExpression(e ast.CompoundAssign) any {
	return map[string]any{"type": "CompoundAssign", "name": e.Name.Lexeme, "operator": e.Operator.Lexeme, "value": e.Value.Accept(p)}
}

func (p astPrinter) VisitVariableExpression(e ast.Variable) any {
	return map[string]any{"type": "Variable", "name": e.Name.Lexeme}
}

func (p astPrinter) VisitBinary(b ast.Binary) any {
	return map[string]any{"type": "Binary", "operator": b.Operator.Lexeme, "left": b.Left.Accept(p), "right": b.Right.Accept(p)}
}

func (p astPrinter) VisitUnary(u ast.Unary) any {
	return map[string]any{"type": "Unary", "operator": u.Operator.Lexeme, "right": u.Right.Accept(p)}
}

func (p astPrinter) VisitLiteral(l ast.Literal) any {
	return l.Value
}

func (p astPrinter) VisitGrouping(g ast.Grouping) any {
	return map[string]any{"type": "Grouping", "expression": g.Expression.Accept(p)}
}

// PrintASTJSON converts a slice of statements into a prettified JSON string
// and also echoes that JSON to standard output between colored banner lines.
func PrintASTJSON(statements []ast.Stmt) (string, error) {
	printer := astPrinter{}
	out := make([]any, 0, len(statements))
	for _, s := range statements {
		out = append(out, s.Accept(printer))
	}
	bytes, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", err
	}

	jsonStr := string(bytes)
	fmt.Println(colorYellow + "----- AST JSON -----")
	fmt.Println(colorYellow + jsonStr)
	fmt.Println(colorYellow + "-----" + colorReset)
	fmt.Println("")
	return jsonStr, nil
}

// WriteASTJSONToFile writes the prettified AST JSON to the given file path.
func WriteASTJSONToFile(statements []ast.Stmt, path string) error {
	s, err := PrintASTJSON(statements)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating AST file: %s", err.Error())
	}
	defer f.Close()

	if _, err := f.Write([]byte(s)); err != nil {
		return fmt.Errorf("error writing AST to file: %s", err.Error())
	}
	return nil
}
