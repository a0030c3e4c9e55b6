// Package ast defines the syntax tree shared by the parser, validator and interpreter
package ast

import (
	"github.com/raymyers/tinyc/pkg/ctypes"
	"github.com/raymyers/tinyc/pkg/diag"
)

// Node is the base interface for all AST nodes
type Node interface {
	implNode()
}

// Expr is the interface for all expression nodes
type Expr interface {
	Node
	implExpr()
	// ExprType is the type resolved by the validator, Unresolved before that
	ExprType() ctypes.Type
}

// Ref is an expression that names storage: a variable or an array element
type Ref interface {
	Expr
	RefName() string
}

// Stmt is the interface for all statement nodes
type Stmt interface {
	Node
	implStmt()
}

// BinOp represents binary operators
type BinOp int

const (
	OpAdd BinOp = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpShl
	OpShr
	OpLt
	OpLe
	OpGt
	OpGe
	OpEq
	OpNe
	OpBitAnd
	OpBitXor
	OpBitOr
	OpAnd // &&
	OpOr  // ||
)

var binOpNames = []string{"+", "-", "*", "/", "%", "<<", ">>", "<", "<=", ">", ">=", "==", "!=", "&", "^", "|", "&&", "||"}

func (op BinOp) String() string {
	if int(op) < len(binOpNames) {
		return binOpNames[op]
	}
	return "?"
}

// LookupBinOp maps an operator symbol to its BinOp
func LookupBinOp(symbol string) (BinOp, bool) {
	for i, name := range binOpNames {
		if name == symbol {
			return BinOp(i), true
		}
	}
	return 0, false
}

// IsComparison reports whether the operator yields bool regardless of operand type
func (op BinOp) IsComparison() bool {
	switch op {
	case OpLt, OpLe, OpGt, OpGe, OpEq, OpNe, OpAnd, OpOr:
		return true
	}
	return false
}

// UnOp represents unary operators
type UnOp int

const (
	OpNeg     UnOp = iota // -
	OpPlus                // +
	OpNot                 // !
	OpBitNot              // ~
	OpPreInc              // ++x
	OpPreDec              // --x
	OpPostInc             // x++
	OpPostDec             // x--
)

// Symbol returns the operator as written in source
func (op UnOp) Symbol() string {
	names := []string{"-", "+", "!", "~", "++", "--", "++", "--"}
	if int(op) < len(names) {
		return names[op]
	}
	return "?"
}

func (op UnOp) String() string {
	if op.IsPostfix() {
		return "postfix " + op.Symbol()
	}
	return op.Symbol()
}

// IsPostfix reports whether the operator is written after its operand
func (op UnOp) IsPostfix() bool {
	return op == OpPostInc || op == OpPostDec
}

// IsCrement reports whether the operator mutates its operand
func (op UnOp) IsCrement() bool {
	return op >= OpPreInc
}

// LenKind tells how the length of a VarDef is given
type LenKind int

const (
	// LenNone marks a scalar
	LenNone LenKind = iota
	// LenExplicit is `name[expr]`
	LenExplicit
	// LenInferred is `name[]`, sized by the initializer
	LenInferred
)

func (k LenKind) String() string {
	names := []string{"none", "explicit", "inferred"}
	if int(k) < len(names) {
		return names[k]
	}
	return "?"
}

// Root is a whole program
type Root struct {
	Functions []*FuncDef
}

// FuncDef represents a function definition
type FuncDef struct {
	ReturnType ctypes.Type
	Name       string
	Params     []*VarDef
	Body       *Block
	Pos        diag.Pos
}

// VarDef declares a variable, a parameter or an array
type VarDef struct {
	Name    string
	Type    ctypes.Type
	LenKind LenKind
	Len     Expr       // set for LenExplicit
	Default Expr       // scalar initializer
	Init    *ArrayInit // array initializer
	Pos     diag.Pos
}

// IsArray reports whether the definition declares an array
func (v *VarDef) IsArray() bool {
	return v.LenKind != LenNone
}

// HasDefault reports whether any initializer is present
func (v *VarDef) HasDefault() bool {
	return v.Default != nil || v.Init != nil
}

// ArrayInit is a brace-enclosed initializer list
type ArrayInit struct {
	Elems []Expr
	Type  ctypes.Type
}

// Block represents an ordered statement list
type Block struct {
	Stmts []Stmt
}

// Assignment stores into a variable or array element. Op is "=" or a
// compound operator such as "+=".
type Assignment struct {
	Target Ref
	Op     string
	Expr   Expr
	Pos    diag.Pos
}

// Compound returns the binary operator of a compound assignment
func (a *Assignment) Compound() (BinOp, bool) {
	if a.Op == "=" || len(a.Op) < 2 {
		return 0, false
	}
	return LookupBinOp(a.Op[:len(a.Op)-1])
}

// If represents a conditional. False is nil without an else arm.
type If struct {
	Cond  Expr
	True  *Block
	False *Block
	Pos   diag.Pos
}

// While represents a pre-tested loop
type While struct {
	Cond Expr
	Body *Block
	Pos  diag.Pos
}

// Return represents a return statement
type Return struct {
	Expr Expr // nil for bare return
	Pos  diag.Pos
}

// ExprStmt is an expression evaluated for its side effects
type ExprStmt struct {
	Expr Expr
	Pos  diag.Pos
}

// Literal is a constant. Value holds int64, byte, bool, string or nil.
type Literal struct {
	Type  ctypes.Type
	Value any
}

// VarRef reads a variable
type VarRef struct {
	Name string
	Type ctypes.Type
	Pos  diag.Pos
}

// ArrayRef reads one array element
type ArrayRef struct {
	Name  string
	Index Expr
	Type  ctypes.Type
	Pos   diag.Pos
}

// FuncCall calls a user function or a built-in
type FuncCall struct {
	Name   string
	Params []Expr
	Type   ctypes.Type
	Pos    diag.Pos
}

// UnaryOp applies a prefix or postfix operator
type UnaryOp struct {
	Op    UnOp
	Child Expr
	Type  ctypes.Type
	Pos   diag.Pos
}

// BinaryOp applies an infix operator
type BinaryOp struct {
	Op    BinOp
	Left  Expr
	Right Expr
	Type  ctypes.Type
	Pos   diag.Pos
}

func (e *Literal) ExprType() ctypes.Type  { return e.Type }
func (e *VarRef) ExprType() ctypes.Type   { return e.Type }
func (e *ArrayRef) ExprType() ctypes.Type { return e.Type }
func (e *FuncCall) ExprType() ctypes.Type { return e.Type }
func (e *UnaryOp) ExprType() ctypes.Type  { return e.Type }
func (e *BinaryOp) ExprType() ctypes.Type { return e.Type }

func (e *VarRef) RefName() string   { return e.Name }
func (e *ArrayRef) RefName() string { return e.Name }

// Marker methods for interface implementation
func (*Root) implNode()      {}
func (*ArrayInit) implNode() {}
func (*Block) implNode()     {}

func (*FuncDef) implNode() {}
func (*FuncDef) implStmt() {}

func (*VarDef) implNode() {}
func (*VarDef) implStmt() {}

func (*Assignment) implNode() {}
func (*Assignment) implStmt() {}

func (*If) implNode() {}
func (*If) implStmt() {}

func (*While) implNode() {}
func (*While) implStmt() {}

func (*Return) implNode() {}
func (*Return) implStmt() {}

func (*ExprStmt) implNode() {}
func (*ExprStmt) implStmt() {}

func (*Literal) implNode() {}
func (*Literal) implExpr() {}

func (*VarRef) implNode() {}
func (*VarRef) implExpr() {}

func (*ArrayRef) implNode() {}
func (*ArrayRef) implExpr() {}

func (*FuncCall) implNode() {}
func (*FuncCall) implExpr() {}

func (*UnaryOp) implNode() {}
func (*UnaryOp) implExpr() {}

func (*BinaryOp) implNode() {}
func (*BinaryOp) implExpr() {}
