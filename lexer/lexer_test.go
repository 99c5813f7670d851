package lexer

import (
	"testing"

	"skt/token"
)

func scanTypes(t *testing.T, src string) []token.Type {
	t.Helper()
	tokens, errs := New(src).Scan()
	if len(errs) != 0 {
		t.Fatalf("unexpected lexical errors: %v", errs)
	}
	types := make([]token.Type, len(tokens))
	for i, tok := range tokens {
		types[i] = tok.TokenType
	}
	return types
}

func assertTypes(t *testing.T, got, want []token.Type) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("token count mismatch - got: %v, want: %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d - got: %s, want: %s", i, got[i], want[i])
		}
	}
}

func TestScan_Operators(t *testing.T) {
	got := scanTypes(t, "==/=*+>-<!=<=>=!")
	want := []token.Type{
		token.EQUAL_EQUAL, token.DIV_ASSIGN, token.MULT, token.ADD,
		token.LARGER, token.SUB, token.LESS, token.NOT_EQUAL, token.LESS_EQUAL,
		token.LARGER_EQUAL, token.BANG, token.EOF,
	}
	assertTypes(t, got, want)
}

func TestScan_Punctuation(t *testing.T) {
	got := scanTypes(t, "(){};,")
	want := []token.Type{token.LPA, token.RPA, token.LCUR, token.RCUR, token.SEMICOLON, token.COMMA, token.EOF}
	assertTypes(t, got, want)
}

func TestScan_CompoundAssignAndIncDec(t *testing.T) {
	got := scanTypes(t, "+= -= *= /= %= ^= ++ --")
	want := []token.Type{
		token.ADD_ASSIGN, token.SUB_ASSIGN, token.MULT_ASSIGN, token.DIV_ASSIGN,
		token.MOD_ASSIGN, token.POW_ASSIGN, token.INCREMENT, token.DECREMENT, token.EOF,
	}
	assertTypes(t, got, want)
}

func TestScan_KeywordsAndIdentifiers(t *testing.T) {
	got := scanTypes(t, "main if else while do int float bool string cin cout foo")
	want := []token.Type{
		token.MAIN, token.IF, token.ELSE, token.WHILE, token.DO,
		token.INT_KW, token.FLOAT_KW, token.BOOL_KW, token.STR_KW,
		token.CIN, token.COUT, token.IDENTIFIER, token.EOF,
	}
	assertTypes(t, got, want)
}

func TestScan_IntegerLiteral(t *testing.T) {
	tokens, errs := New("42").Scan()
	if len(errs) != 0 {
		t.Fatalf("unexpected lexical errors: %v", errs)
	}
	if tokens[0].TokenType != token.INT {
		t.Fatalf("expected an INT token, got %s", tokens[0].TokenType)
	}
	if tokens[0].Literal != int64(42) {
		t.Fatalf("expected literal int64(42), got %v (%T)", tokens[0].Literal, tokens[0].Literal)
	}
}

func TestScan_IntegerOverflowWraps(t *testing.T) {
	tokens, errs := New("99999999999999999999").Scan()
	if len(errs) != 0 {
		t.Fatalf("unexpected lexical errors: %v", errs)
	}
	if _, ok := tokens[0].Literal.(int64); !ok {
		t.Fatalf("expected the overflowing literal to still parse as int64, got %T", tokens[0].Literal)
	}
}

func TestScan_FloatLiteral(t *testing.T) {
	tokens, errs := New("3.14").Scan()
	if len(errs) != 0 {
		t.Fatalf("unexpected lexical errors: %v", errs)
	}
	if tokens[0].TokenType != token.FLOAT {
		t.Fatalf("expected a FLOAT token, got %s", tokens[0].TokenType)
	}
	if tokens[0].Literal != 3.14 {
		t.Fatalf("expected literal 3.14, got %v", tokens[0].Literal)
	}
}

func TestScan_StringLiteralWithEscapes(t *testing.T) {
	tokens, errs := New(`"line\nbreak"`).Scan()
	if len(errs) != 0 {
		t.Fatalf("unexpected lexical errors: %v", errs)
	}
	if tokens[0].TokenType != token.STRING {
		t.Fatalf("expected a STRING token, got %s", tokens[0].TokenType)
	}
	if tokens[0].Literal != "line\nbreak" {
		t.Fatalf("expected the escape to be resolved, got %q", tokens[0].Literal)
	}
}

func TestScan_NeverFailsOnIllegalInput(t *testing.T) {
	tokens, errs := New("int x @ 1;").Scan()
	if len(errs) == 0 {
		t.Fatalf("expected an error token for the illegal '@' character")
	}
	last := tokens[len(tokens)-1]
	if last.TokenType != token.EOF {
		t.Fatalf("expected the scan to resume through to EOF despite the error, last token was %s", last.TokenType)
	}
}

func TestScan_CommentsAreSkipped(t *testing.T) {
	got := scanTypes(t, "int x; // trailing comment\nfloat y;")
	want := []token.Type{
		token.INT_KW, token.IDENTIFIER, token.SEMICOLON,
		token.FLOAT_KW, token.IDENTIFIER, token.SEMICOLON, token.EOF,
	}
	assertTypes(t, got, want)
}
