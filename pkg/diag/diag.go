// Package diag defines the single error type shared by every phase of the pipeline
package diag

import (
	"fmt"
	"strings"
)

// Kind identifies one failure variant
type Kind int

const (
	// Tokenize family
	KindTokenize Kind = iota

	// Parse family
	KindParse
	KindEndOfInput
	KindMalformedExpr

	// Validation family
	KindDuplicate
	KindUndefined
	KindTypeMismatch
	KindArgumentCount
	KindDefaultParameter
	KindUnexpectedReturn
	KindUnreturnedFunction
	KindArrayLength
	KindArrayInit
	KindNotAnArray
	KindNotAScalar
	KindNotAReference

	// Runtime family
	KindRuntime

	// Validator/evaluator table mismatch
	KindInternal
)

var kindNames = map[Kind]string{
	KindTokenize:           "Tokenize",
	KindParse:              "Parse",
	KindEndOfInput:         "EndOfInput",
	KindMalformedExpr:      "MalformedExpr",
	KindDuplicate:          "Duplicate",
	KindUndefined:          "Undefined",
	KindTypeMismatch:       "TypeMismatch",
	KindArgumentCount:      "ArgumentCount",
	KindDefaultParameter:   "DefaultParameter",
	KindUnexpectedReturn:   "UnexpectedReturn",
	KindUnreturnedFunction: "UnreturnedFunction",
	KindArrayLength:        "ArrayLength",
	KindArrayInit:          "ArrayInit",
	KindNotAnArray:         "NotAnArray",
	KindNotAScalar:         "NotAScalar",
	KindNotAReference:      "NotAReference",
	KindRuntime:            "Runtime",
	KindInternal:           "Internal",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "UNKNOWN"
}

// Family groups kinds by the phase that raises them
type Family int

const (
	FamilyTokenize Family = iota
	FamilyParse
	FamilyValidation
	FamilyRuntime
	FamilyInternal
)

func (f Family) String() string {
	names := []string{"tokenize", "parse", "validation", "runtime", "internal"}
	if int(f) < len(names) {
		return names[f]
	}
	return "?"
}

// Family returns the phase family of the kind
func (k Kind) Family() Family {
	switch {
	case k == KindTokenize:
		return FamilyTokenize
	case k >= KindParse && k <= KindMalformedExpr:
		return FamilyParse
	case k >= KindDuplicate && k <= KindNotAReference:
		return FamilyValidation
	case k == KindRuntime:
		return FamilyRuntime
	default:
		return FamilyInternal
	}
}

// Pos is a 1-based source position. The zero value means unknown.
type Pos struct {
	Line   int
	Column int
}

func (p Pos) IsValid() bool {
	return p.Line > 0
}

func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Error is the structured failure returned by the lexer, parser, validator and
// interpreter. Which fields are meaningful depends on Kind.
type Error struct {
	Kind Kind
	Pos  Pos

	// Name of the offending variable or function
	Name string
	// What the name refers to: "variable" or "function"
	What string

	// Expected and Got hold type names or token kinds
	Expected string
	Got      string

	ExpectedCount int
	GotCount      int

	// Remainder is the unmatched input of a Tokenize failure
	Remainder string

	// Detail is free text for runtime and internal failures
	Detail string
}

// Family returns the phase family of the error
func (e *Error) Family() Family {
	return e.Kind.Family()
}

func (e *Error) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s: %s", e.Pos, e.Message())
	}
	return e.Message()
}

// Message renders the error without its position
func (e *Error) Message() string {
	switch e.Kind {
	case KindTokenize:
		return fmt.Sprintf("tokenize failed at %q", firstLine(e.Remainder))
	case KindParse:
		return fmt.Sprintf("expected %s, got %s", e.Expected, e.Got)
	case KindEndOfInput:
		if e.Expected != "" {
			return fmt.Sprintf("unexpected end of input, expected %s", e.Expected)
		}
		return "unexpected end of input"
	case KindMalformedExpr:
		return fmt.Sprintf("malformed expression: %s", e.Detail)
	case KindDuplicate:
		return fmt.Sprintf("%s %s is already defined in this context", e.What, e.Name)
	case KindUndefined:
		return fmt.Sprintf("%s '%s' is not defined in this context", e.What, e.Name)
	case KindTypeMismatch:
		return fmt.Sprintf("expecting %s but got %s", e.Expected, e.Got)
	case KindArgumentCount:
		return fmt.Sprintf("wrong number of arguments for %s: expected %d, got %d",
			e.Name, e.ExpectedCount, e.GotCount)
	case KindDefaultParameter:
		return fmt.Sprintf("parameter '%s' in function '%s' has a default value", e.Name, e.Detail)
	case KindUnexpectedReturn:
		return "return outside of a function body"
	case KindUnreturnedFunction:
		return fmt.Sprintf("function %s does not return a value", e.Name)
	case KindArrayLength:
		return fmt.Sprintf("array %s needs an explicit size or an initializer", e.Name)
	case KindArrayInit:
		return fmt.Sprintf("expecting at most %d elements in initializing array %s but got %d",
			e.ExpectedCount, e.Name, e.GotCount)
	case KindNotAnArray:
		return fmt.Sprintf("variable %s is not an array", e.Name)
	case KindNotAScalar:
		return fmt.Sprintf("array %s used as a scalar value", e.Name)
	case KindNotAReference:
		return fmt.Sprintf("operator %s needs a variable or array element operand", e.Detail)
	case KindRuntime:
		return e.Detail
	case KindInternal:
		return "internal error: " + e.Detail
	}
	return "unknown error"
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// Tokenize reports input that no token pattern matches
func Tokenize(pos Pos, remainder string) *Error {
	return &Error{Kind: KindTokenize, Pos: pos, Remainder: remainder}
}

// Unexpected reports a token of the wrong kind
func Unexpected(pos Pos, expected, got string) *Error {
	return &Error{Kind: KindParse, Pos: pos, Expected: expected, Got: got}
}

// EndOfInput reports a lookahead past the last token
func EndOfInput(expected string) *Error {
	return &Error{Kind: KindEndOfInput, Expected: expected}
}

// MalformedExpr reports an expression that does not reduce to a single node
func MalformedExpr(pos Pos, format string, args ...any) *Error {
	return &Error{Kind: KindMalformedExpr, Pos: pos, Detail: fmt.Sprintf(format, args...)}
}

// Duplicate reports a redeclaration in the same scope. what is "variable" or "function".
func Duplicate(what, name string) *Error {
	return &Error{Kind: KindDuplicate, What: what, Name: name}
}

// Undefined reports a name missing from the whole scope chain
func Undefined(what, name string) *Error {
	return &Error{Kind: KindUndefined, What: what, Name: name}
}

func TypeMismatch(expected, got string) *Error {
	return &Error{Kind: KindTypeMismatch, Expected: expected, Got: got}
}

func ArgumentCount(name string, expected, got int) *Error {
	return &Error{Kind: KindArgumentCount, Name: name, ExpectedCount: expected, GotCount: got}
}

func DefaultParameter(function, param string) *Error {
	return &Error{Kind: KindDefaultParameter, Name: param, Detail: function}
}

func UnexpectedReturn() *Error {
	return &Error{Kind: KindUnexpectedReturn}
}

func UnreturnedFunction(name string) *Error {
	return &Error{Kind: KindUnreturnedFunction, Name: name, What: "function"}
}

func ArrayLength(name string) *Error {
	return &Error{Kind: KindArrayLength, Name: name, What: "variable"}
}

func ArrayInit(name string, expected, got int) *Error {
	return &Error{Kind: KindArrayInit, Name: name, ExpectedCount: expected, GotCount: got}
}

func NotAnArray(name string) *Error {
	return &Error{Kind: KindNotAnArray, Name: name, What: "variable"}
}

func NotAScalar(name string) *Error {
	return &Error{Kind: KindNotAScalar, Name: name, What: "variable"}
}

func NotAReference(op string) *Error {
	return &Error{Kind: KindNotAReference, Detail: op}
}

// Runtime reports a failure detected while evaluating a validated program
func Runtime(format string, args ...any) *Error {
	return &Error{Kind: KindRuntime, Detail: fmt.Sprintf(format, args...)}
}

// Internal reports a state the validator should have excluded
func Internal(format string, args ...any) *Error {
	return &Error{Kind: KindInternal, Detail: fmt.Sprintf(format, args...)}
}
