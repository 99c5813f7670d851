// Package symtab implements the symbol table described in §3.5/§3.6: a
// dictionary keyed by (name, scope) with insertion-order preserved for
// deterministic listing, wrapping a map behind declare/lookup methods the
// way a runtime environment does, but keyed and scope-aware rather than a
// single flat namespace.
package symtab

// ValueType is the declared/inferred type of a symbol or expression.
type ValueType string

const (
	Int        ValueType = "Int"
	Float      ValueType = "Float"
	Bool       ValueType = "Bool"
	String     ValueType = "String"
	Unresolved ValueType = "Unresolved"
)

// GlobalScope is the only scope skt programs ever declare into (§9
// "Scope handling ambiguity" — every declaration belongs to "global", even
// ones written inside an if/while body).
const GlobalScope = "global"

// Entry is one declared symbol (§3.5).
type Entry struct {
	Name              string
	DeclaredType      ValueType
	Scope             string
	DeclarationLine   int
	DeclarationColumn int
	IsInitialized     bool
}

type key struct {
	name  string
	scope string
}

// Table is the symbol table (§3.6): declare/lookup/isDeclared/entries over
// a map keyed by (name, scope), with an ordered slice kept alongside for
// deterministic Entries().
type Table struct {
	byKey   map[key]*Entry
	ordered []*Entry
}

// New returns an empty symbol table.
func New() *Table {
	return &Table{byKey: make(map[key]*Entry)}
}

// Declare inserts a new entry. If (name, scope) is already declared, the
// existing entry is returned unchanged and ok is false — callers use this
// to detect DuplicateDeclaration while keeping the first entry, per §4.3.
func (t *Table) Declare(name string, declaredType ValueType, scope string, line, column int) (entry *Entry, ok bool) {
	k := key{name: name, scope: scope}
	if existing, found := t.byKey[k]; found {
		return existing, false
	}
	e := &Entry{
		Name: name, DeclaredType: declaredType, Scope: scope,
		DeclarationLine: line, DeclarationColumn: column,
	}
	t.byKey[k] = e
	t.ordered = append(t.ordered, e)
	return e, true
}

// Lookup walks scopeStack from innermost to outermost, treating
// GlobalScope as the bottom of every stack (§3.6).
func (t *Table) Lookup(name string, scopeStack []string) (*Entry, bool) {
	for i := len(scopeStack) - 1; i >= 0; i-- {
		if e, ok := t.byKey[key{name: name, scope: scopeStack[i]}]; ok {
			return e, true
		}
	}
	if e, ok := t.byKey[key{name: name, scope: GlobalScope}]; ok {
		return e, true
	}
	return nil, false
}

// IsDeclared reports whether name is declared in scope.
func (t *Table) IsDeclared(name, scope string) bool {
	_, ok := t.byKey[key{name: name, scope: scope}]
	return ok
}

// Entries returns all declared symbols in declaration order.
func (t *Table) Entries() []*Entry {
	return t.ordered
}

// MarkInitialized flags name in scope as having been assigned at least
// once (§3.5 isInitialized).
func (t *Table) MarkInitialized(name, scope string) {
	if e, ok := t.byKey[key{name: name, scope: scope}]; ok {
		e.IsInitialized = true
	}
}
