// Package scope provides the lexical scope tree used by the validator and
// the interpreter. Each scope owns its variable and function tables and
// links to its parent; lookups walk parent-ward.
package scope

import (
	"fmt"
	"maps"

	"github.com/raymyers/tinyc/pkg/ctypes"
	"github.com/raymyers/tinyc/pkg/diag"
)

// Scope is one frame of the tree. V and F are the variable and function
// entries: type information for the validator, storage and callables for the
// interpreter.
type Scope[V, F any] struct {
	id     int
	label  string
	parent *Scope[V, F]
	nextID *int

	function bool
	retType  ctypes.Type

	// Returned records that a return statement was seen in this function scope
	Returned bool

	vars  map[string]V
	funcs map[string]F
}

// NewRoot creates a scope with no parent. It is not a function scope.
func NewRoot[V, F any]() *Scope[V, F] {
	next := 1
	return &Scope[V, F]{
		label:  "global",
		nextID: &next,
		vars:   make(map[string]V),
		funcs:  make(map[string]F),
	}
}

func (s *Scope[V, F]) child(label string) *Scope[V, F] {
	id := *s.nextID
	*s.nextID++
	return &Scope[V, F]{
		id:     id,
		label:  label,
		parent: s,
		nextID: s.nextID,
		vars:   make(map[string]V),
		funcs:  make(map[string]F),
	}
}

// Child creates a block scope below s
func (s *Scope[V, F]) Child(label string) *Scope[V, F] {
	return s.child(label)
}

// FuncChild creates the scope of a function body declared to return ret
func (s *Scope[V, F]) FuncChild(label string, ret ctypes.Type) *Scope[V, F] {
	c := s.child(label)
	c.function = true
	c.retType = ret
	return c
}

// ID is unique within the tree the scope belongs to. The root is 0.
func (s *Scope[V, F]) ID() int { return s.id }

func (s *Scope[V, F]) Label() string { return s.label }

func (s *Scope[V, F]) Parent() *Scope[V, F] { return s.parent }

func (s *Scope[V, F]) String() string {
	return fmt.Sprintf("%s#%d", s.label, s.id)
}

// IsFunction reports whether s is the body scope of a function
func (s *Scope[V, F]) IsFunction() bool { return s.function }

// ReturnType is the declared return type of a function scope
func (s *Scope[V, F]) ReturnType() ctypes.Type { return s.retType }

// Function returns the nearest enclosing function scope, or nil at top level
func (s *Scope[V, F]) Function() *Scope[V, F] {
	for c := s; c != nil; c = c.parent {
		if c.function {
			return c
		}
	}
	return nil
}

// DeclareVar binds name in s. Redeclaring a name of the same scope fails;
// shadowing a name of an outer scope does not.
func (s *Scope[V, F]) DeclareVar(name string, v V) error {
	if _, ok := s.vars[name]; ok {
		return diag.Duplicate("variable", name)
	}
	s.vars[name] = v
	return nil
}

// DeclareFunc binds a function name in s
func (s *Scope[V, F]) DeclareFunc(name string, f F) error {
	if _, ok := s.funcs[name]; ok {
		return diag.Duplicate("function", name)
	}
	s.funcs[name] = f
	return nil
}

// LookupVar finds the nearest binding of name
func (s *Scope[V, F]) LookupVar(name string) (V, bool) {
	for c := s; c != nil; c = c.parent {
		if v, ok := c.vars[name]; ok {
			return v, true
		}
	}
	var zero V
	return zero, false
}

// LookupFunc finds the nearest function named name
func (s *Scope[V, F]) LookupFunc(name string) (F, bool) {
	for c := s; c != nil; c = c.parent {
		if f, ok := c.funcs[name]; ok {
			return f, true
		}
	}
	var zero F
	return zero, false
}

// Var returns a binding of s itself, ignoring outer scopes
func (s *Scope[V, F]) Var(name string) (V, bool) {
	v, ok := s.vars[name]
	return v, ok
}

// Func returns a function of s itself, ignoring outer scopes
func (s *Scope[V, F]) Func(name string) (F, bool) {
	f, ok := s.funcs[name]
	return f, ok
}

// Checkpoint snapshots the tables of s. Calling the returned function drops
// every declaration made in s since the snapshot.
func (s *Scope[V, F]) Checkpoint() (restore func()) {
	vars, funcs := maps.Clone(s.vars), maps.Clone(s.funcs)
	return func() {
		s.vars, s.funcs = vars, funcs
	}
}

// Depth is the number of ancestors of s
func (s *Scope[V, F]) Depth() int {
	d := 0
	for c := s.parent; c != nil; c = c.parent {
		d++
	}
	return d
}
