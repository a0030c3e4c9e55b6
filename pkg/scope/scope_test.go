package scope

import (
	"errors"
	"testing"

	"github.com/raymyers/tinyc/pkg/ctypes"
	"github.com/raymyers/tinyc/pkg/diag"
)

type testScope = Scope[int, string]

func TestLookupWalksParents(t *testing.T) {
	root := NewRoot[int, string]()
	if err := root.DeclareFunc("f", "global f"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	fn := root.FuncChild("f", ctypes.Int)
	if err := fn.DeclareVar("x", 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	block := fn.Child("if")

	if v, ok := block.LookupVar("x"); !ok || v != 1 {
		t.Errorf("LookupVar(x) = (%d, %v), want (1, true)", v, ok)
	}
	if f, ok := block.LookupFunc("f"); !ok || f != "global f" {
		t.Errorf("LookupFunc(f) = (%q, %v)", f, ok)
	}
	if _, ok := block.LookupVar("y"); ok {
		t.Error("y should be undefined")
	}
	if _, ok := block.Var("x"); ok {
		t.Error("Var should not look at parents")
	}
	if _, ok := root.LookupVar("x"); ok {
		t.Error("inner declarations must not leak outward")
	}
}

func TestShadowing(t *testing.T) {
	root := NewRoot[int, string]()
	fn := root.FuncChild("main", ctypes.Int)
	if err := fn.DeclareVar("x", 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	inner := fn.Child("while")
	if err := inner.DeclareVar("x", 2); err != nil {
		t.Fatalf("shadowing should be allowed: %v", err)
	}
	if v, _ := inner.LookupVar("x"); v != 2 {
		t.Errorf("inner x = %d, want 2", v)
	}
	if v, _ := fn.LookupVar("x"); v != 1 {
		t.Errorf("outer x = %d, want 1", v)
	}
}

func TestDuplicateDeclaration(t *testing.T) {
	tests := []struct {
		what    string
		declare func(s *testScope) error
	}{
		{"variable", func(s *testScope) error { return s.DeclareVar("a", 0) }},
		{"function", func(s *testScope) error { return s.DeclareFunc("a", "") }},
	}

	for _, tt := range tests {
		t.Run(tt.what, func(t *testing.T) {
			s := NewRoot[int, string]()
			if err := tt.declare(s); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			err := tt.declare(s)
			var de *diag.Error
			if !errors.As(err, &de) {
				t.Fatalf("expected *diag.Error, got %v", err)
			}
			if de.Kind != diag.KindDuplicate || de.What != tt.what || de.Name != "a" {
				t.Errorf("unexpected error %+v", de)
			}
		})
	}
}

func TestVariablesAndFunctionsAreSeparate(t *testing.T) {
	s := NewRoot[int, string]()
	if err := s.DeclareVar("f", 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.DeclareFunc("f", "f"); err != nil {
		t.Errorf("a function may share a variable's name: %v", err)
	}
}

func TestFunctionScope(t *testing.T) {
	root := NewRoot[int, string]()
	if root.Function() != nil {
		t.Error("root is not inside a function")
	}
	fn := root.FuncChild("f", ctypes.Bool)
	block := fn.Child("if").Child("while")

	got := block.Function()
	if got != fn {
		t.Fatalf("Function() = %v, want %v", got, fn)
	}
	if got.ReturnType() != ctypes.Bool {
		t.Errorf("ReturnType() = %s, want bool", got.ReturnType())
	}
	got.Returned = true
	if !fn.Returned {
		t.Error("Returned flag should be recorded on the function scope")
	}

	nested := block.FuncChild("g", ctypes.Void)
	if nested.Function() != nested {
		t.Error("a nested function is its own function scope")
	}
}

func TestIdentity(t *testing.T) {
	root := NewRoot[int, string]()
	a := root.FuncChild("f", ctypes.Int)
	b := a.Child("if")
	c := root.FuncChild("g", ctypes.Int)

	ids := []int{root.ID(), a.ID(), b.ID(), c.ID()}
	for i, want := range []int{0, 1, 2, 3} {
		if ids[i] != want {
			t.Errorf("ids[%d] = %d, want %d", i, ids[i], want)
		}
	}
	if b.String() != "if#2" || root.String() != "global#0" {
		t.Errorf("unexpected names %s, %s", b, root)
	}
	if b.Depth() != 2 || b.Parent() != a {
		t.Errorf("b: depth %d parent %v", b.Depth(), b.Parent())
	}

	other := NewRoot[int, string]()
	if other.FuncChild("h", ctypes.Int).ID() != 1 {
		t.Error("ids are numbered per tree")
	}
}

func TestCheckpoint(t *testing.T) {
	s := NewRoot[int, string]()
	if err := s.DeclareVar("kept", 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	restore := s.Checkpoint()
	if err := s.DeclareVar("dropped", 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.DeclareFunc("g", "g"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	restore()

	if _, ok := s.Var("kept"); !ok {
		t.Error("declarations before the checkpoint should survive")
	}
	if _, ok := s.Var("dropped"); ok {
		t.Error("variable declared after the checkpoint should be gone")
	}
	if _, ok := s.Func("g"); ok {
		t.Error("function declared after the checkpoint should be gone")
	}
	if err := s.DeclareVar("dropped", 3); err != nil {
		t.Errorf("name should be free again: %v", err)
	}
}
