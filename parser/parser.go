// Package parser implements the hand-written recursive-descent LL parser
// described in §4.2: one-token lookahead, one AST node per grammar rule,
// and panic-mode recovery at statement and declaration-list boundaries.
package parser

import (
	"fmt"

	"skt/ast"
	"skt/token"
)

var statementSync = map[token.Type]bool{
	token.SEMICOLON: true, token.LCUR: true, token.RCUR: true,
	token.IF: true, token.WHILE: true, token.DO: true,
	token.CIN: true, token.COUT: true,
	token.INT_KW: true, token.FLOAT_KW: true, token.BOOL_KW: true, token.STR_KW: true,
	token.IDENTIFIER: true, token.EOF: true,
}

var declListSync = map[token.Type]bool{
	token.COMMA: true, token.SEMICOLON: true, token.RCUR: true, token.EOF: true,
}

// Parser turns a token stream into a Program, accumulating SyntaxErrors as
// it goes rather than stopping at the first one.
type Parser struct {
	tokens   []token.Token
	position int
	errors   []error
}

// Make constructs a Parser over the given token stream.
func Make(tokens []token.Token) *Parser {
	return &Parser{tokens: tokens}
}

func (p *Parser) peek() token.Token     { return p.tokens[p.position] }
func (p *Parser) previous() token.Token { return p.tokens[p.position-1] }

func (p *Parser) advance() token.Token {
	if !p.isFinished() {
		p.position++
	}
	return p.previous()
}

func (p *Parser) isFinished() bool { return p.peek().TokenType == token.EOF }

func (p *Parser) checkType(t token.Type) bool {
	return !p.isFinished() && p.peek().TokenType == t
}

func (p *Parser) isMatch(types ...token.Type) bool {
	for _, t := range types {
		if p.checkType(t) {
			p.advance()
			return true
		}
	}
	return false
}

// consume advances past the current token if it has the expected type,
// otherwise returns a SyntaxError without advancing.
func (p *Parser) consume(t token.Type, errorMessage string) (token.Token, error) {
	if p.checkType(t) {
		return p.advance(), nil
	}
	cur := p.peek()
	return token.Token{}, CreateSyntaxError(cur.Line, cur.Column, errorMessage)
}

// consumeSemicolonSoft implements the "missing ';' is diagnosed once and
// treated as present" rule: on success the real token is returned and
// consumed; on failure the lookahead token is returned (unconsumed) as a
// synthetic end-of-statement marker, alongside an error whose message
// contains the literal phrase required by §6.6.
func (p *Parser) consumeSemicolonSoft() (token.Token, error) {
	if p.checkType(token.SEMICOLON) {
		return p.advance(), nil
	}
	cur := p.peek()
	err := CreateSyntaxError(cur.Line, cur.Column,
		fmt.Sprintf("falta punto y coma (missing semicolon) before '%s'", cur.Lexeme))
	return cur, err
}

// synchronizeStatement discards tokens until one in statementSync is seen,
// guaranteeing forward progress so that panic-mode recovery cannot loop.
func (p *Parser) synchronizeStatement() {
	start := p.position
	for !p.isFinished() && !statementSync[p.peek().TokenType] {
		p.advance()
	}
	if p.position == start && !p.isFinished() {
		p.advance()
	}
}

func (p *Parser) synchronizeDeclList() {
	start := p.position
	for !p.isFinished() && !declListSync[p.peek().TokenType] {
		p.advance()
	}
	if p.position == start && !p.isFinished() {
		p.advance()
	}
}

// Parse runs the parser over the whole token stream. It returns (nil,
// errors) when the input is empty or cannot start `main`; otherwise it
// always returns a Program, even in the presence of errors (§4.2).
func (p *Parser) Parse() (*ast.Program, []error) {
	p.errors = nil

	if p.isFinished() {
		return nil, []error{CreateSyntaxError(1, 1, "empty source: expected 'main'")}
	}
	if !p.checkType(token.MAIN) {
		cur := p.peek()
		p.errors = append(p.errors, CreateSyntaxError(cur.Line, cur.Column,
			fmt.Sprintf("expected 'main' to start program, found '%s'", cur.Lexeme)))
		return nil, p.errors
	}

	mainTok := p.advance()
	if _, err := p.consume(token.LCUR, "expected '{' after 'main'"); err != nil {
		p.errors = append(p.errors, err)
	}

	block := p.parseBlock(mainTok)
	return &ast.Program{Body: block.Statements, Sp: block.Sp}, p.errors
}

// parseBlock consumes elems until '}' or EOF, always returning a
// BlockStmt — callers rely on a partial block surviving recovery.
func (p *Parser) parseBlock(openTok token.Token) ast.BlockStmt {
	var statements []ast.Stmt

	for !p.isFinished() && !p.checkType(token.RCUR) {
		stmt, err := p.elem()
		if err != nil {
			p.errors = append(p.errors, err)
			p.synchronizeStatement()
			continue
		}
		if stmt != nil {
			statements = append(statements, stmt)
		}
	}

	var closeTok token.Token
	if p.checkType(token.RCUR) {
		closeTok = p.advance()
	} else {
		cur := p.peek()
		p.errors = append(p.errors, CreateSyntaxError(cur.Line, cur.Column, "expected '}' to close block"))
		closeTok = cur
	}

	return ast.BlockStmt{
		Statements: statements,
		Sp: ast.Span{
			Line: openTok.Line, Column: openTok.Column,
			EndLine: closeTok.EndLine, EndColumn: closeTok.EndColumn,
		},
	}
}

// elem parses a single block element per §4.2's elem production.
func (p *Parser) elem() (ast.Stmt, error) {
	switch p.peek().TokenType {
	case token.INT_KW, token.FLOAT_KW, token.BOOL_KW, token.STR_KW:
		return p.varDeclStmt()
	case token.IF:
		return p.ifStmt()
	case token.WHILE:
		return p.whileStmt()
	case token.DO:
		return p.doWhileStmt()
	case token.CIN:
		return p.cinStmt()
	case token.COUT:
		return p.coutStmt()
	case token.IDENTIFIER:
		return p.identStmt()
	default:
		cur := p.peek()
		return nil, CreateSyntaxError(cur.Line, cur.Column,
			fmt.Sprintf("unexpected token '%s'; expected a statement", cur.Lexeme))
	}
}

// varDeclStmt parses "type idList ';'".
func (p *Parser) varDeclStmt() (ast.Stmt, error) {
	typeTok := p.advance()

	nameTok, err := p.consume(token.IDENTIFIER, "expected identifier in declaration")
	if err != nil {
		return nil, err
	}
	names := []token.Token{nameTok}

	for {
		if p.checkType(token.COMMA) {
			p.advance()
			nTok, err := p.consume(token.IDENTIFIER, "expected identifier after ','")
			if err != nil {
				p.errors = append(p.errors, err)
				p.synchronizeDeclList()
				break
			}
			names = append(names, nTok)
			continue
		}
		if p.checkType(token.IDENTIFIER) {
			cur := p.peek()
			p.errors = append(p.errors, CreateSyntaxError(cur.Line, cur.Column,
				fmt.Sprintf("falta coma (missing comma) before '%s'", cur.Lexeme)))
			names = append(names, p.advance())
			continue
		}
		break
	}

	semiTok, semiErr := p.consumeSemicolonSoft()
	if semiErr != nil {
		p.errors = append(p.errors, semiErr)
	}
	return ast.VarDeclStmt{Type: typeTok, Names: names, Semicolon: semiTok}, nil
}

// identStmt parses the statement forms that begin with an identifier:
// assignment, compound assignment, and increment/decrement.
func (p *Parser) identStmt() (ast.Stmt, error) {
	nameTok := p.advance()
	opType := p.peek().TokenType

	switch {
	case opType == token.ASSIGN:
		p.advance()
		value, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, semiErr := p.consumeSemicolonSoft(); semiErr != nil {
			p.errors = append(p.errors, semiErr)
		}
		return ast.ExpressionStmt{Expression: ast.Assign{Name: nameTok, Value: value}}, nil

	case token.CompoundAssignOps[opType] != "":
		opTok := p.advance()
		value, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, semiErr := p.consumeSemicolonSoft(); semiErr != nil {
			p.errors = append(p.errors, semiErr)
		}
		return ast.ExpressionStmt{Expression: ast.CompoundAssign{Name: nameTok, Operator: opTok, Value: value}}, nil

	case opType == token.INCREMENT || opType == token.DECREMENT:
		opTok := p.advance()
		semiTok, semiErr := p.consumeSemicolonSoft()
		if semiErr != nil {
			p.errors = append(p.errors, semiErr)
		}
		return ast.IncDecStmt{Name: nameTok, Operator: opTok, Semicolon: semiTok}, nil

	default:
		cur := p.peek()
		return nil, CreateSyntaxError(cur.Line, cur.Column,
			fmt.Sprintf("expected assignment or increment/decrement after '%s', found '%s'", nameTok.Lexeme, cur.Lexeme))
	}
}

func (p *Parser) ifStmt() (ast.Stmt, error) {
	ifTok := p.advance()
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.LCUR, "expected '{' after if condition"); err != nil {
		return nil, err
	}
	thenBlock := p.parseBlock(p.previous())

	var elseStmt ast.Stmt
	if p.checkType(token.ELSE) {
		p.advance()
		if p.checkType(token.IF) {
			s, err := p.ifStmt()
			if err != nil {
				return nil, err
			}
			elseStmt = s
		} else {
			if _, err := p.consume(token.LCUR, "expected '{' after else"); err != nil {
				return nil, err
			}
			elseStmt = p.parseBlock(p.previous())
		}
	}

	return ast.IfStmt{If: ifTok, Condition: cond, Then: thenBlock, Else: elseStmt}, nil
}

func (p *Parser) whileStmt() (ast.Stmt, error) {
	whileTok := p.advance()
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.LCUR, "expected '{' after while condition"); err != nil {
		return nil, err
	}
	body := p.parseBlock(p.previous())
	return ast.WhileStmt{While: whileTok, Condition: cond, Body: body}, nil
}

func (p *Parser) doWhileStmt() (ast.Stmt, error) {
	doTok := p.advance()
	if _, err := p.consume(token.LCUR, "expected '{' after 'do'"); err != nil {
		return nil, err
	}
	body := p.parseBlock(p.previous())
	if _, err := p.consume(token.WHILE, "expected 'while' after do-block"); err != nil {
		return nil, err
	}
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	semiTok, semiErr := p.consumeSemicolonSoft()
	if semiErr != nil {
		p.errors = append(p.errors, semiErr)
	}
	return ast.DoWhileStmt{Do: doTok, Body: body, Condition: cond, Semicolon: semiTok}, nil
}

func (p *Parser) cinStmt() (ast.Stmt, error) {
	cinTok := p.advance()
	if _, err := p.consume(token.SHR, "expected '>>' after 'cin'"); err != nil {
		return nil, err
	}
	nameTok, err := p.consume(token.IDENTIFIER, "expected identifier after '>>'")
	if err != nil {
		return nil, err
	}
	names := []token.Token{nameTok}
	for p.checkType(token.SHR) {
		p.advance()
		nTok, err := p.consume(token.IDENTIFIER, "expected identifier after '>>'")
		if err != nil {
			return nil, err
		}
		names = append(names, nTok)
	}
	semiTok, semiErr := p.consumeSemicolonSoft()
	if semiErr != nil {
		p.errors = append(p.errors, semiErr)
	}
	return ast.CinStmt{Cin: cinTok, Names: names, Semicolon: semiTok}, nil
}

func (p *Parser) coutStmt() (ast.Stmt, error) {
	coutTok := p.advance()
	if _, err := p.consume(token.SHL, "expected '<<' after 'cout'"); err != nil {
		return nil, err
	}
	item, err := p.expression()
	if err != nil {
		return nil, err
	}
	items := []ast.Expression{item}
	for p.checkType(token.SHL) {
		p.advance()
		it, err := p.expression()
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	semiTok, semiErr := p.consumeSemicolonSoft()
	if semiErr != nil {
		p.errors = append(p.errors, semiErr)
	}
	return ast.CoutStmt{Cout: coutTok, Items: items, Semicolon: semiTok}, nil
}

// expression is the entry point for expression parsing, starting at the
// weakest-binding operator per §4.2's precedence table.
func (p *Parser) expression() (ast.Expression, error) {
	return p.or()
}

func (p *Parser) or() (ast.Expression, error) {
	expr, err := p.and()
	if err != nil {
		return nil, err
	}
	for p.isMatch(token.OR) {
		op := p.previous()
		right, err := p.and()
		if err != nil {
			return nil, err
		}
		expr = ast.Logical{Left: expr, Operator: op, Right: right}
	}
	return expr, nil
}

func (p *Parser) and() (ast.Expression, error) {
	expr, err := p.equality()
	if err != nil {
		return nil, err
	}
	for p.isMatch(token.AND) {
		op := p.previous()
		right, err := p.equality()
		if err != nil {
			return nil, err
		}
		expr = ast.Logical{Left: expr, Operator: op, Right: right}
	}
	return expr, nil
}

func (p *Parser) equality() (ast.Expression, error) {
	expr, err := p.relational()
	if err != nil {
		return nil, err
	}
	for p.isMatch(token.EQUAL_EQUAL, token.NOT_EQUAL) {
		op := p.previous()
		right, err := p.relational()
		if err != nil {
			return nil, err
		}
		expr = ast.Binary{Left: expr, Operator: op, Right: right}
	}
	return expr, nil
}

func (p *Parser) relational() (ast.Expression, error) {
	expr, err := p.additive()
	if err != nil {
		return nil, err
	}
	for p.isMatch(token.LESS, token.LESS_EQUAL, token.LARGER, token.LARGER_EQUAL) {
		op := p.previous()
		right, err := p.additive()
		if err != nil {
			return nil, err
		}
		expr = ast.Binary{Left: expr, Operator: op, Right: right}
	}
	return expr, nil
}

func (p *Parser) additive() (ast.Expression, error) {
	expr, err := p.multiplicative()
	if err != nil {
		return nil, err
	}
	for p.isMatch(token.ADD, token.SUB) {
		op := p.previous()
		right, err := p.multiplicative()
		if err != nil {
			return nil, err
		}
		expr = ast.Binary{Left: expr, Operator: op, Right: right}
	}
	return expr, nil
}

func (p *Parser) multiplicative() (ast.Expression, error) {
	expr, err := p.power()
	if err != nil {
		return nil, err
	}
	for p.isMatch(token.MULT, token.DIV, token.MOD) {
		op := p.previous()
		right, err := p.power()
		if err != nil {
			return nil, err
		}
		expr = ast.Binary{Left: expr, Operator: op, Right: right}
	}
	return expr, nil
}

// power binds tighter than multiplicative and is right-associative, per
// §4.2 ("power (^, right-associative)").
func (p *Parser) power() (ast.Expression, error) {
	expr, err := p.unary()
	if err != nil {
		return nil, err
	}
	if p.isMatch(token.POW) {
		op := p.previous()
		right, err := p.power()
		if err != nil {
			return nil, err
		}
		return ast.Binary{Left: expr, Operator: op, Right: right}, nil
	}
	return expr, nil
}

func (p *Parser) unary() (ast.Expression, error) {
	if p.isMatch(token.BANG, token.ADD, token.SUB) {
		op := p.previous()
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		return ast.Unary{Operator: op, Right: right}, nil
	}
	return p.primary()
}

func (p *Parser) primary() (ast.Expression, error) {
	if p.isMatch(token.TRUE, token.FALSE, token.INT, token.FLOAT, token.STRING) {
		tok := p.previous()
		return ast.Literal{Value: tok.Literal, Token: tok}, nil
	}
	if p.isMatch(token.IDENTIFIER) {
		return ast.Variable{Name: p.previous()}, nil
	}
	if p.isMatch(token.LPA) {
		lparen := p.previous()
		expr, err := p.expression()
		if err != nil {
			return nil, err
		}
		rparen, err := p.consume(token.RPA, "expected ')' after expression")
		if err != nil {
			return nil, err
		}
		return ast.Grouping{Expression: expr, LParen: lparen, RParen: rparen}, nil
	}

	cur := p.peek()
	return nil, CreateSyntaxError(cur.Line, cur.Column, fmt.Sprintf("unrecognized expression at '%s'", cur.Lexeme))
}

// Print prints the AST as prettified JSON to standard output.
func (p *Parser) Print(program *ast.Program) {
	if program == nil {
		fmt.Println("<no AST>")
		return
	}
	if _, err := PrintASTJSON(program.Body); err != nil {
		fmt.Println("error producing AST JSON:", err)
	}
}

// PrintToFile writes the AST JSON for program to the given file path.
func (p *Parser) PrintToFile(program *ast.Program, path string) error {
	if program == nil {
		return fmt.Errorf("no AST to print")
	}
	return WriteASTJSONToFile(program.Body, path)
}
