package semantic

import "fmt"

// ErrorKind classifies a semantic diagnostic (§3.8/§7).
type ErrorKind string

const (
	UndeclaredVariable   ErrorKind = "UndeclaredVariable"
	DuplicateDeclaration ErrorKind = "DuplicateDeclaration"
	TypeIncompatibility  ErrorKind = "TypeIncompatibility"
	InvalidOperand       ErrorKind = "InvalidOperand"
	UninitializedUse     ErrorKind = "UninitializedUse"
	UnsupportedOperation ErrorKind = "UnsupportedOperation"
)

// Error is a semantic diagnostic (§3.8).
type Error struct {
	Kind         ErrorKind
	Message      string
	Line         int
	Column       int
	VariableName string
	ExpectedType string
	ActualType   string
}

func (e Error) Error() string {
	return fmt.Sprintf("%d:%d: %s: %s", e.Line, e.Column, e.Kind, e.Message)
}
