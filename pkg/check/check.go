// Package check implements the static validator. It resolves the type of
// every expression in place and rejects programs the interpreter must not run.
package check

import (
	"errors"
	"strings"

	"github.com/raymyers/tinyc/pkg/ast"
	"github.com/raymyers/tinyc/pkg/ctypes"
	"github.com/raymyers/tinyc/pkg/diag"
	"github.com/raymyers/tinyc/pkg/scope"
)

// VarInfo is what the validator knows about a variable
type VarInfo struct {
	Type    ctypes.Type
	IsArray bool
}

func (v VarInfo) String() string {
	if v.IsArray {
		return v.Type.String() + "[]"
	}
	return v.Type.String()
}

// FuncSig is the signature of a declared function. Variadic functions take
// a string format followed by any scalars.
type FuncSig struct {
	ReturnType ctypes.Type
	Params     []VarInfo
	Variadic   bool
}

// Env is the validator's scope tree
type Env = scope.Scope[VarInfo, FuncSig]

// Builtins are declared in the root scope before any user code
var Builtins = map[string]FuncSig{
	"printf": {ReturnType: ctypes.Void, Variadic: true},
}

// operand types accepted by each operator; a nil entry accepts any type
var binaryOperands = map[ast.BinOp][]ctypes.Type{
	ast.OpAdd:    {ctypes.Int, ctypes.String},
	ast.OpSub:    {ctypes.Int},
	ast.OpMul:    {ctypes.Int},
	ast.OpDiv:    {ctypes.Int},
	ast.OpMod:    {ctypes.Int},
	ast.OpShl:    {ctypes.Int},
	ast.OpShr:    {ctypes.Int},
	ast.OpLt:     {ctypes.Int, ctypes.Char},
	ast.OpLe:     {ctypes.Int, ctypes.Char},
	ast.OpGt:     {ctypes.Int, ctypes.Char},
	ast.OpGe:     {ctypes.Int, ctypes.Char},
	ast.OpEq:     nil,
	ast.OpNe:     nil,
	ast.OpBitAnd: {ctypes.Int},
	ast.OpBitXor: {ctypes.Int},
	ast.OpBitOr:  {ctypes.Int},
	ast.OpAnd:    {ctypes.Bool},
	ast.OpOr:     {ctypes.Bool},
}

var unaryOperands = map[ast.UnOp][]ctypes.Type{
	ast.OpNeg:     {ctypes.Int},
	ast.OpPlus:    {ctypes.Int},
	ast.OpNot:     {ctypes.Bool},
	ast.OpBitNot:  {ctypes.Int},
	ast.OpPreInc:  {ctypes.Int},
	ast.OpPreDec:  {ctypes.Int},
	ast.OpPostInc: {ctypes.Int},
	ast.OpPostDec: {ctypes.Int},
}

// BinaryOperands returns the operand types op accepts, nil meaning any
func BinaryOperands(op ast.BinOp) []ctypes.Type {
	return binaryOperands[op]
}

func allows(allowed []ctypes.Type, t ctypes.Type) bool {
	if allowed == nil {
		return true
	}
	for _, a := range allowed {
		if a == t {
			return true
		}
	}
	return false
}

func typeList(types []ctypes.Type) string {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = t.String()
	}
	return strings.Join(names, " or ")
}

// at attaches pos to a diagnostic that has none yet
func at(pos diag.Pos, err error) error {
	var de *diag.Error
	if err != nil && pos.IsValid() && errors.As(err, &de) && !de.Pos.IsValid() {
		de.Pos = pos
	}
	return err
}

// Checker validates programs against a scope tree whose root holds the
// built-in functions
type Checker struct {
	global *Env
}

// New creates a Checker with a fresh root scope
func New() *Checker {
	global := scope.NewRoot[VarInfo, FuncSig]()
	for name, sig := range Builtins {
		_ = global.DeclareFunc(name, sig)
	}
	return &Checker{global: global}
}

// Global returns the root scope
func (c *Checker) Global() *Env {
	return c.global
}

// Validate checks a whole program in a fresh root scope
func Validate(root *ast.Root) error {
	return New().CheckRoot(root)
}

// CheckRoot validates every top-level function in order. A function is
// visible to the functions after it and to its own body.
func (c *Checker) CheckRoot(root *ast.Root) error {
	for _, f := range root.Functions {
		if err := c.CheckFuncDef(c.global, f); err != nil {
			return err
		}
	}
	return nil
}

// CheckFuncDef declares f in s and validates its parameters and body
func (c *Checker) CheckFuncDef(s *Env, f *ast.FuncDef) error {
	return at(f.Pos, c.checkFuncDef(s, f))
}

func (c *Checker) checkFuncDef(s *Env, f *ast.FuncDef) error {
	if f.Name == "main" && len(f.Params) != 0 {
		return diag.ArgumentCount(f.Name, 0, len(f.Params))
	}
	sig := FuncSig{ReturnType: f.ReturnType}
	for _, p := range f.Params {
		sig.Params = append(sig.Params, VarInfo{Type: p.Type, IsArray: p.IsArray()})
	}
	if err := s.DeclareFunc(f.Name, sig); err != nil {
		return err
	}

	fs := s.FuncChild(f.Name, f.ReturnType)
	for _, p := range f.Params {
		if p.HasDefault() {
			return at(p.Pos, diag.DefaultParameter(f.Name, p.Name))
		}
		if err := at(p.Pos, c.checkVarDef(fs, p, true)); err != nil {
			return err
		}
	}
	for _, stmt := range f.Body.Stmts {
		if err := c.CheckStmt(fs, stmt); err != nil {
			return err
		}
	}
	if f.ReturnType != ctypes.Void && !fs.Returned {
		return diag.UnreturnedFunction(f.Name)
	}
	return nil
}

func stmtPos(stmt ast.Stmt) diag.Pos {
	switch s := stmt.(type) {
	case *ast.VarDef:
		return s.Pos
	case *ast.Assignment:
		return s.Pos
	case *ast.If:
		return s.Pos
	case *ast.While:
		return s.Pos
	case *ast.Return:
		return s.Pos
	case *ast.ExprStmt:
		return s.Pos
	case *ast.FuncDef:
		return s.Pos
	}
	return diag.Pos{}
}

// CheckStmt validates one statement in scope s
func (c *Checker) CheckStmt(s *Env, stmt ast.Stmt) error {
	return at(stmtPos(stmt), c.checkStmt(s, stmt))
}

func (c *Checker) checkStmt(s *Env, stmt ast.Stmt) error {
	switch st := stmt.(type) {
	case *ast.FuncDef:
		return c.checkFuncDef(s, st)
	case *ast.VarDef:
		return c.checkVarDef(s, st, false)
	case *ast.Assignment:
		return c.checkAssignment(s, st)
	case *ast.If:
		if err := c.checkCondition(s, st.Cond); err != nil {
			return err
		}
		if err := c.checkBlock(s.Child("if"), st.True); err != nil {
			return err
		}
		if st.False != nil {
			return c.checkBlock(s.Child("else"), st.False)
		}
		return nil
	case *ast.While:
		if err := c.checkCondition(s, st.Cond); err != nil {
			return err
		}
		return c.checkBlock(s.Child("while"), st.Body)
	case *ast.Return:
		return c.checkReturn(s, st)
	case *ast.ExprStmt:
		return c.CheckExpr(s, st.Expr)
	}
	return diag.Internal("unexpected statement %T", stmt)
}

func (c *Checker) checkBlock(s *Env, b *ast.Block) error {
	for _, stmt := range b.Stmts {
		if err := c.CheckStmt(s, stmt); err != nil {
			return err
		}
	}
	return nil
}

func (c *Checker) checkCondition(s *Env, cond ast.Expr) error {
	if err := c.CheckExpr(s, cond); err != nil {
		return err
	}
	if cond.ExprType() != ctypes.Bool {
		return diag.TypeMismatch(ctypes.Bool.String(), cond.ExprType().String())
	}
	return nil
}

func (c *Checker) checkReturn(s *Env, r *ast.Return) error {
	fs := s.Function()
	if fs == nil {
		return diag.UnexpectedReturn()
	}
	got := ctypes.Void
	if r.Expr != nil {
		if err := c.CheckExpr(s, r.Expr); err != nil {
			return err
		}
		got = r.Expr.ExprType()
	}
	if got != fs.ReturnType() {
		return diag.TypeMismatch(fs.ReturnType().String(), got.String())
	}
	fs.Returned = true
	return nil
}

// checkVarDef validates a definition and declares it in s. Parameters skip
// the length and initializer rules: arrays are bound by reference on call.
func (c *Checker) checkVarDef(s *Env, v *ast.VarDef, param bool) error {
	if _, ok := s.Var(v.Name); ok {
		return diag.Duplicate("variable", v.Name)
	}
	if v.Type == ctypes.Void {
		return diag.TypeMismatch("int or char or bool", v.Type.String())
	}

	info := VarInfo{Type: v.Type, IsArray: v.IsArray()}
	if !info.IsArray {
		if v.Init != nil {
			return diag.TypeMismatch(info.String(), v.Type.String()+"[]")
		}
		if v.Default != nil {
			if err := c.checkTyped(s, v.Default, v.Type); err != nil {
				return err
			}
		}
		return s.DeclareVar(v.Name, info)
	}

	if v.Default != nil {
		if err := c.CheckExpr(s, v.Default); err != nil {
			return err
		}
		return diag.TypeMismatch(info.String(), v.Default.ExprType().String())
	}
	if v.LenKind == ast.LenInferred && v.Init == nil && !param {
		return diag.ArrayLength(v.Name)
	}
	if v.LenKind == ast.LenExplicit {
		if err := c.checkTyped(s, v.Len, ctypes.Int); err != nil {
			return err
		}
		if lit, ok := v.Len.(*ast.Literal); ok && v.Init != nil {
			n := lit.Value.(int64)
			if n < int64(len(v.Init.Elems)) {
				return diag.ArrayInit(v.Name, int(n), len(v.Init.Elems))
			}
		}
	}
	if v.Init != nil {
		for _, elem := range v.Init.Elems {
			if err := c.checkTyped(s, elem, v.Type); err != nil {
				return err
			}
		}
		v.Init.Type = v.Type
	}
	return s.DeclareVar(v.Name, info)
}

// checkTyped validates e and requires it to have type want
func (c *Checker) checkTyped(s *Env, e ast.Expr, want ctypes.Type) error {
	if err := c.CheckExpr(s, e); err != nil {
		return err
	}
	if e.ExprType() != want {
		return diag.TypeMismatch(want.String(), e.ExprType().String())
	}
	return nil
}

func (c *Checker) checkAssignment(s *Env, a *ast.Assignment) error {
	if err := c.CheckExpr(s, a.Target); err != nil {
		return err
	}
	if err := c.CheckExpr(s, a.Expr); err != nil {
		return err
	}
	target := a.Target.ExprType()
	if a.Op != "=" {
		op, ok := a.Compound()
		if !ok {
			return diag.Internal("unknown assignment operator %q", a.Op)
		}
		if allowed := binaryOperands[op]; !allows(allowed, target) {
			return diag.TypeMismatch(typeList(allowed), target.String())
		}
	}
	if a.Expr.ExprType() != target {
		return diag.TypeMismatch(target.String(), a.Expr.ExprType().String())
	}
	return nil
}

// CheckExpr resolves the type of e and its children
func (c *Checker) CheckExpr(s *Env, e ast.Expr) error {
	switch ex := e.(type) {
	case *ast.Literal:
		return nil
	case *ast.VarRef:
		return at(ex.Pos, c.checkVarRef(s, ex))
	case *ast.ArrayRef:
		return at(ex.Pos, c.checkArrayRef(s, ex))
	case *ast.FuncCall:
		return at(ex.Pos, c.checkCall(s, ex))
	case *ast.UnaryOp:
		return at(ex.Pos, c.checkUnary(s, ex))
	case *ast.BinaryOp:
		return at(ex.Pos, c.checkBinary(s, ex))
	}
	return diag.Internal("unexpected expression %T", e)
}

func (c *Checker) checkVarRef(s *Env, r *ast.VarRef) error {
	info, ok := s.LookupVar(r.Name)
	if !ok {
		return diag.Undefined("variable", r.Name)
	}
	if info.IsArray {
		return diag.NotAScalar(r.Name)
	}
	r.Type = info.Type
	return nil
}

func (c *Checker) checkArrayRef(s *Env, r *ast.ArrayRef) error {
	info, ok := s.LookupVar(r.Name)
	if !ok {
		return diag.Undefined("variable", r.Name)
	}
	if !info.IsArray {
		return diag.NotAnArray(r.Name)
	}
	if err := c.checkTyped(s, r.Index, ctypes.Int); err != nil {
		return err
	}
	r.Type = info.Type
	return nil
}

func (c *Checker) checkCall(s *Env, call *ast.FuncCall) error {
	sig, ok := s.LookupFunc(call.Name)
	if !ok {
		return diag.Undefined("function", call.Name)
	}

	if sig.Variadic {
		if len(call.Params) == 0 {
			return diag.ArgumentCount(call.Name, 1, 0)
		}
		for i, arg := range call.Params {
			if err := c.CheckExpr(s, arg); err != nil {
				return err
			}
			if i == 0 && arg.ExprType() != ctypes.String {
				return diag.TypeMismatch(ctypes.String.String(), arg.ExprType().String())
			}
		}
		call.Type = sig.ReturnType
		return nil
	}

	if len(call.Params) != len(sig.Params) {
		return diag.ArgumentCount(call.Name, len(sig.Params), len(call.Params))
	}
	for i, arg := range call.Params {
		want := sig.Params[i]
		if want.IsArray {
			if err := c.checkArrayArg(s, arg, want); err != nil {
				return err
			}
			continue
		}
		if err := c.checkTyped(s, arg, want.Type); err != nil {
			return err
		}
	}
	call.Type = sig.ReturnType
	return nil
}

// checkArrayArg accepts only a bare array name of the parameter's element type
func (c *Checker) checkArrayArg(s *Env, arg ast.Expr, want VarInfo) error {
	ref, ok := arg.(*ast.VarRef)
	if !ok {
		if err := c.CheckExpr(s, arg); err != nil {
			return err
		}
		return diag.TypeMismatch(want.String(), arg.ExprType().String())
	}
	info, ok := s.LookupVar(ref.Name)
	if !ok {
		return at(ref.Pos, diag.Undefined("variable", ref.Name))
	}
	if !info.IsArray {
		return at(ref.Pos, diag.NotAnArray(ref.Name))
	}
	if info.Type != want.Type {
		return at(ref.Pos, diag.TypeMismatch(want.String(), info.String()))
	}
	ref.Type = info.Type
	return nil
}

func (c *Checker) checkUnary(s *Env, u *ast.UnaryOp) error {
	if u.Op.IsCrement() {
		switch u.Child.(type) {
		case *ast.VarRef, *ast.ArrayRef:
		default:
			return diag.NotAReference(u.Op.Symbol())
		}
	}
	if err := c.CheckExpr(s, u.Child); err != nil {
		return err
	}
	allowed := unaryOperands[u.Op]
	if !allows(allowed, u.Child.ExprType()) {
		return diag.TypeMismatch(typeList(allowed), u.Child.ExprType().String())
	}
	u.Type = u.Child.ExprType()
	return nil
}

func (c *Checker) checkBinary(s *Env, b *ast.BinaryOp) error {
	if err := c.CheckExpr(s, b.Left); err != nil {
		return err
	}
	if err := c.CheckExpr(s, b.Right); err != nil {
		return err
	}
	left, right := b.Left.ExprType(), b.Right.ExprType()
	if allowed := binaryOperands[b.Op]; !allows(allowed, left) {
		return diag.TypeMismatch(typeList(allowed), left.String())
	}
	if right != left {
		return diag.TypeMismatch(left.String(), right.String())
	}
	if b.Op.IsComparison() {
		b.Type = ctypes.Bool
	} else {
		b.Type = left
	}
	return nil
}
