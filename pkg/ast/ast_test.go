package ast

import (
	"bytes"
	"strings"
	"testing"

	"github.com/raymyers/tinyc/pkg/ctypes"
)

func intLit(v int64) *Literal {
	return &Literal{Type: ctypes.Int, Value: v}
}

func TestBinOpLookup(t *testing.T) {
	for i, name := range binOpNames {
		op, ok := LookupBinOp(name)
		if !ok {
			t.Fatalf("tests[%d] - LookupBinOp(%q) failed", i, name)
		}
		if op.String() != name {
			t.Errorf("tests[%d] - expected %q, got %q", i, name, op.String())
		}
	}
	if _, ok := LookupBinOp("**"); ok {
		t.Error("expected ** to be unknown")
	}
}

func TestComparisonOps(t *testing.T) {
	comparisons := []BinOp{OpLt, OpLe, OpGt, OpGe, OpEq, OpNe, OpAnd, OpOr}
	for _, op := range comparisons {
		if !op.IsComparison() {
			t.Errorf("%s should yield bool", op)
		}
	}
	for _, op := range []BinOp{OpAdd, OpShl, OpBitAnd, OpBitOr} {
		if op.IsComparison() {
			t.Errorf("%s should not yield bool", op)
		}
	}
}

func TestCompoundAssignment(t *testing.T) {
	tests := []struct {
		op     string
		want   BinOp
		wantOk bool
	}{
		{"=", 0, false},
		{"+=", OpAdd, true},
		{"-=", OpSub, true},
		{"%=", OpMod, true},
		{"<<=", OpShl, true},
		{"^=", OpBitXor, true},
	}

	for _, tt := range tests {
		t.Run(tt.op, func(t *testing.T) {
			a := &Assignment{Op: tt.op}
			got, ok := a.Compound()
			if ok != tt.wantOk || (ok && got != tt.want) {
				t.Errorf("Compound() = (%s, %v), want (%s, %v)", got, ok, tt.want, tt.wantOk)
			}
		})
	}
}

func TestUnaryOpNames(t *testing.T) {
	if OpPreInc.Symbol() != OpPostInc.Symbol() {
		t.Error("prefix and postfix increment should share a symbol")
	}
	if OpPreInc.String() == OpPostInc.String() {
		t.Error("prefix and postfix increment should print differently")
	}
	if !OpPostDec.IsCrement() || OpNeg.IsCrement() {
		t.Error("IsCrement wrong")
	}
}

func TestUnescape(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"plain", "plain"},
		{`a\nb`, "a\nb"},
		{`tab\there`, "tab\there"},
		{`\0`, "\x00"},
		{`\\`, `\`},
		{`say \"hi\"`, `say "hi"`},
		{`it\'s`, "it's"},
	}

	for _, tt := range tests {
		got, err := Unescape(tt.input)
		if err != nil {
			t.Fatalf("Unescape(%q): unexpected error: %v", tt.input, err)
		}
		if got != tt.want {
			t.Errorf("Unescape(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}

	for _, bad := range []string{`\q`, `trailing\`} {
		if _, err := Unescape(bad); err == nil {
			t.Errorf("Unescape(%q): expected error", bad)
		}
	}
}

func TestQuote(t *testing.T) {
	if got := QuoteString("a\"b\\c\n\x00"); got != `"a\"b\\c\n\0"` {
		t.Errorf("QuoteString = %s", got)
	}
	if got := QuoteChar('\''); got != `'\''` {
		t.Errorf("QuoteChar = %s", got)
	}
	if got := QuoteChar('"'); got != `'"'` {
		t.Errorf("QuoteChar = %s", got)
	}
	for _, s := range []string{"", "x", "a\tb", `\`, "\r\n"} {
		q := QuoteString(s)
		back, err := Unescape(q[1 : len(q)-1])
		if err != nil || back != s {
			t.Errorf("round trip of %q through %s gave %q, %v", s, q, back, err)
		}
	}
}

func TestPrintRoot(t *testing.T) {
	root := &Root{Functions: []*FuncDef{
		{
			ReturnType: ctypes.Int,
			Name:       "sum",
			Params: []*VarDef{
				{Name: "a", Type: ctypes.Int, LenKind: LenInferred},
				{Name: "n", Type: ctypes.Int},
			},
			Body: &Block{Stmts: []Stmt{
				&VarDef{Name: "s", Type: ctypes.Int, Default: intLit(0)},
				&While{
					Cond: &BinaryOp{Op: OpGt, Left: &VarRef{Name: "n"}, Right: intLit(0)},
					Body: &Block{Stmts: []Stmt{
						&Assignment{Target: &VarRef{Name: "s"}, Op: "+=",
							Expr: &ArrayRef{Name: "a", Index: &UnaryOp{Op: OpPreDec, Child: &VarRef{Name: "n"}}}},
					}},
				},
				&Return{Expr: &VarRef{Name: "s"}},
			}},
		},
		{
			ReturnType: ctypes.Int,
			Name:       "main",
			Body: &Block{Stmts: []Stmt{
				&VarDef{Name: "xs", Type: ctypes.Int, LenKind: LenExplicit, Len: intLit(3),
					Init: &ArrayInit{Elems: []Expr{intLit(1), intLit(2)}}},
				&If{
					Cond:  &UnaryOp{Op: OpNot, Child: &Literal{Type: ctypes.Bool, Value: false}},
					True:  &Block{Stmts: []Stmt{&ExprStmt{Expr: &FuncCall{Name: "printf", Params: []Expr{&Literal{Type: ctypes.String, Value: "%c\n"}, &Literal{Type: ctypes.Char, Value: byte('x')}}}}}},
					False: &Block{},
				},
				&Return{Expr: &BinaryOp{Op: OpAdd,
					Left:  &FuncCall{Name: "sum", Params: []Expr{&VarRef{Name: "xs"}, intLit(3)}},
					Right: &UnaryOp{Op: OpNeg, Child: intLit(1)}}},
			}},
		},
	}}

	expected := `int sum(int a[], int n) {
  int s = 0;
  while ((n > 0)) {
    s += a[(--n)];
  }
  return s;
}

int main() {
  int xs[3] = {1, 2};
  if ((!false)) {
    printf("%c\n", 'x');
  } else {
  }
  return (sum(xs, 3) + (-1));
}
`

	var buf bytes.Buffer
	NewPrinter(&buf).PrintRoot(root)
	if got := buf.String(); got != expected {
		t.Errorf("expected:\n%s\ngot:\n%s", expected, got)
	}
}

func TestPrintNestedFunction(t *testing.T) {
	outer := &FuncDef{
		ReturnType: ctypes.Void,
		Name:       "outer",
		Body: &Block{Stmts: []Stmt{
			&FuncDef{ReturnType: ctypes.Bool, Name: "inner", Body: &Block{Stmts: []Stmt{
				&Return{Expr: &Literal{Type: ctypes.Bool, Value: true}},
			}}},
			&Return{},
		}},
	}

	var buf bytes.Buffer
	NewPrinter(&buf).PrintRoot(&Root{Functions: []*FuncDef{outer}})
	expected := "void outer() {\n  bool inner() {\n    return true;\n  }\n  return;\n}\n"
	if got := buf.String(); got != expected {
		t.Errorf("expected:\n%q\ngot:\n%q", expected, got)
	}
}

func TestFormatLiteral(t *testing.T) {
	tests := []struct {
		lit  *Literal
		want string
	}{
		{intLit(42), "42"},
		{&Literal{Type: ctypes.Char, Value: byte('\n')}, `'\n'`},
		{&Literal{Type: ctypes.Bool, Value: true}, "true"},
		{&Literal{Type: ctypes.String, Value: "hi\n"}, `"hi\n"`},
		{&Literal{Type: ctypes.Null}, "NULL"},
	}

	for i, tt := range tests {
		if got := FormatLiteral(tt.lit); got != tt.want {
			t.Errorf("tests[%d] - expected %s, got %s", i, tt.want, got)
		}
	}
}

func TestDebugString(t *testing.T) {
	expr := &BinaryOp{
		Op:   OpAdd,
		Left: intLit(1),
		Right: &BinaryOp{
			Op:    OpMul,
			Left:  intLit(2),
			Right: intLit(3),
		},
	}

	expected := `BinaryOp
  Op: +
  Left: Literal
    Type: int
    Value: 1
  Right: BinaryOp
    Op: *
    Left: Literal
      Type: int
      Value: 2
    Right: Literal
      Type: int
      Value: 3
    Type: <unresolved>
  Type: <unresolved>
`
	if got := DebugString(expr); got != expected {
		t.Errorf("expected:\n%s\ngot:\n%s", expected, got)
	}
}

func TestDebugStringIgnoresPositions(t *testing.T) {
	a := &Return{Expr: &VarRef{Name: "x"}}
	b := &Return{Expr: &VarRef{Name: "x"}}
	b.Pos.Line, b.Pos.Column = 3, 9
	if DebugString(a) != DebugString(b) {
		t.Error("positions should not affect DebugString")
	}
}

func TestDebugStringShapes(t *testing.T) {
	got := DebugString(&VarDef{Name: "a", Type: ctypes.Char, LenKind: LenInferred,
		Init: &ArrayInit{Elems: []Expr{&Literal{Type: ctypes.Char, Value: byte('z')}}}})
	for _, want := range []string{
		`Name: "a"`,
		"LenKind: inferred",
		"Len: nil",
		"Default: nil",
		"Elems: \n",
		"- Literal",
		"Value: 'z'",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %q in:\n%s", want, got)
		}
	}
	if got := DebugString(&Block{}); got != "Block\n  Stmts: []\n" {
		t.Errorf("unexpected empty block rendering %q", got)
	}
}
