package parser

import "fmt"

// SyntaxError is a parse-time diagnostic (§3.4). Expected/Found are
// optional and only populated where a caller has something concrete to
// report beyond the message text.
type SyntaxError struct {
	Line     int
	Column   int
	Message  string
	Expected []string
	Found    string
}

// CreateSyntaxError builds a SyntaxError at the given position.
func CreateSyntaxError(line, column int, message string) SyntaxError {
	return SyntaxError{Line: line, Column: column, Message: message}
}

func (e SyntaxError) Error() string {
	return fmt.Sprintf("%d:%d: syntax error: %s", e.Line, e.Column, e.Message)
}
