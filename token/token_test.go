package token

import (
	"testing"
)

func TestCreateToken(t *testing.T) {
	tests := []struct {
		name      string
		tokenType Type
		value     string
		want      Token
	}{
		{
			name:      "Create ASSIGN token",
			tokenType: ASSIGN,
			value:     "=",
			want:      Token{TokenType: ASSIGN, Lexeme: "=", Line: 1, Column: 1, EndLine: 1, EndColumn: 2},
		},
		{
			name:      "Create IDENTIFIER token",
			tokenType: IDENTIFIER,
			value:     "myVar",
			want:      Token{TokenType: IDENTIFIER, Lexeme: "myVar", Line: 1, Column: 1, EndLine: 1, EndColumn: 6},
		},
		{
			name:      "Create INT token",
			tokenType: INT,
			value:     "42",
			want:      Token{TokenType: INT, Lexeme: "42", Line: 1, Column: 1, EndLine: 1, EndColumn: 3},
		},
		{
			name:      "Create MULT token",
			tokenType: MULT,
			value:     "*",
			want:      Token{TokenType: MULT, Lexeme: "*", Line: 1, Column: 1, EndLine: 1, EndColumn: 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CreateToken(tt.tokenType, tt.value, 1, 1, 1, 1+len(tt.value))
			if got != tt.want {
				t.Errorf("createToken() = %v, want %v", got, tt.want)
			}
		})
	}
}
