package pipeline

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestReadTokenFile_MissingFileDiagnostic(t *testing.T) {
	_, err := ReadTokenFile(filepath.Join(t.TempDir(), "missing.sktt"))
	if err == nil || !strings.Contains(err.Error(), "tokens no encontrado") {
		t.Fatalf("expected a 'tokens no encontrado' diagnostic, got: %v", err)
	}
}

func TestWriteThenReadTokenFile_RoundTrips(t *testing.T) {
	result := Tokenize("main { int x; }")
	path := filepath.Join(t.TempDir(), "tokens.sktt")
	if err := WriteTokenFile(path, result.Tokens); err != nil {
		t.Fatalf("unexpected write error: %v", err)
	}
	read, err := ReadTokenFile(path)
	if err != nil {
		t.Fatalf("unexpected read error: %v", err)
	}
	if len(read) != len(result.Tokens) {
		t.Fatalf("expected %d tokens, got %d", len(result.Tokens), len(read))
	}
}
