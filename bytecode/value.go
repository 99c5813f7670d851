package bytecode

import (
	"fmt"
	"strconv"

	"skt/symtab"
)

// Value is a tagged runtime/constant value (Int, Float, Bool, or String),
// used both in the constant pool and on the VM's operand stack.
type Value struct {
	Type symtab.ValueType
	I    int64
	F    float64
	B    bool
	S    string
}

func IntValue(v int64) Value    { return Value{Type: symtab.Int, I: v} }
func FloatValue(v float64) Value { return Value{Type: symtab.Float, F: v} }
func BoolValue(v bool) Value    { return Value{Type: symtab.Bool, B: v} }
func StringValue(v string) Value { return Value{Type: symtab.String, S: v} }

// Zero returns the type-appropriate zero/empty value for t (§4.5
// "environment ... initialized to type-appropriate zero/empty at program
// start").
func Zero(t symtab.ValueType) Value {
	switch t {
	case symtab.Int:
		return IntValue(0)
	case symtab.Float:
		return FloatValue(0)
	case symtab.Bool:
		return BoolValue(false)
	case symtab.String:
		return StringValue("")
	default:
		return Value{Type: symtab.Unresolved}
	}
}

// Equal reports value equality (used by Eq/Ne after promotion).
func (v Value) Equal(other Value) bool {
	switch v.Type {
	case symtab.Int:
		return v.I == other.I
	case symtab.Float:
		return v.F == other.F
	case symtab.Bool:
		return v.B == other.B
	case symtab.String:
		return v.S == other.S
	default:
		return false
	}
}

// Format renders v the way Write(kind) must per §4.5: Bool as true/false,
// Float with at least one fractional digit, Int with no decimal point,
// String verbatim.
func (v Value) Format() string {
	switch v.Type {
	case symtab.Int:
		return strconv.FormatInt(v.I, 10)
	case symtab.Float:
		s := strconv.FormatFloat(v.F, 'f', -1, 64)
		for i := 0; i < len(s); i++ {
			if s[i] == '.' {
				return s
			}
		}
		return s + ".0"
	case symtab.Bool:
		if v.B {
			return "true"
		}
		return "false"
	case symtab.String:
		return v.S
	default:
		return fmt.Sprintf("<unresolved %v>", v)
	}
}

func (v Value) String() string { return v.Format() }

// Kind maps v's tagged type to the 1-byte ValueKind the Write opcode encodes.
func (v Value) Kind() ValueKind {
	switch v.Type {
	case symtab.Float:
		return KindFloat
	case symtab.Bool:
		return KindBool
	case symtab.String:
		return KindString
	default:
		return KindInt
	}
}

// ValueTypeForKind inverts Value.Kind, used when the VM decodes a Write
// instruction's operand.
func ValueTypeForKind(k ValueKind) symtab.ValueType {
	switch k {
	case KindFloat:
		return symtab.Float
	case KindBool:
		return symtab.Bool
	case KindString:
		return symtab.String
	default:
		return symtab.Int
	}
}
