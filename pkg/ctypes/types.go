// Package ctypes defines the scalar types of the language and their runtime values
package ctypes

// Type is a scalar type. The zero value is Unresolved: AST nodes carry it
// until the validator assigns the real type.
type Type int

const (
	Unresolved Type = iota
	Void
	Int
	Char
	Bool
	// String is the type of string literals. It cannot be declared.
	String
	// Null is the type of the NULL literal
	Null
)

func (t Type) String() string {
	names := []string{"<unresolved>", "void", "int", "char", "bool", "string", "null"}
	if int(t) < len(names) {
		return names[t]
	}
	return "?"
}

var baseTypes = map[string]Type{
	"void": Void,
	"int":  Int,
	"char": Char,
	"bool": Bool,
}

// Lookup returns the type spelled by a BASE_TYPE token
func Lookup(name string) (Type, bool) {
	t, ok := baseTypes[name]
	return t, ok
}

// IsResolved reports whether the validator has assigned the type
func (t Type) IsResolved() bool {
	return t != Unresolved
}

// Zero returns the value a declaration without initializer starts with
func (t Type) Zero() any {
	switch t {
	case Int:
		return int64(0)
	case Bool:
		return false
	case Char:
		return byte(' ')
	case String:
		return ""
	}
	return nil
}

// Holds reports whether v is a runtime value of type t.
// Values are int64, byte, bool, string, or nil for void and null.
func (t Type) Holds(v any) bool {
	switch v.(type) {
	case int64:
		return t == Int
	case byte:
		return t == Char
	case bool:
		return t == Bool
	case string:
		return t == String
	case nil:
		return t == Void || t == Null
	}
	return false
}
