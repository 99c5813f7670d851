package pipeline

import (
	"fmt"
	"os"
	"strings"

	"skt/token"
)

// WriteTokenFile dumps tokens to path in the .sktt sidecar format (§6.5):
// one human-readable line per token. Round-trip fidelity is not required
// by the contract, but ReadTokenFile can parse what this writes.
func WriteTokenFile(path string, tokens []token.Token) error {
	var sb strings.Builder
	for _, tok := range tokens {
		fmt.Fprintf(&sb, "%s\t%s\t%d:%d\n", tok.TokenType, tok.Lexeme, tok.Line, tok.Column)
	}
	return os.WriteFile(path, []byte(sb.String()), 0o644)
}

// ReadTokenFile loads a previously written .sktt sidecar. A missing file
// reports the literal "tokens no encontrado" diagnostic phrase required by
// §6.6's message contract.
func ReadTokenFile(path string) ([]token.Token, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("tokens no encontrado: %s", path)
		}
		return nil, err
	}

	var tokens []token.Token
	for _, line := range strings.Split(strings.TrimRight(string(data), "\n"), "\n") {
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, "\t", 3)
		if len(parts) != 3 {
			continue
		}
		var lineNo, col int
		fmt.Sscanf(parts[2], "%d:%d", &lineNo, &col)
		tokens = append(tokens, token.Token{
			TokenType: token.Type(parts[0]),
			Lexeme:    parts[1],
			Line:      lineNo,
			Column:    col,
		})
	}
	return tokens, nil
}
