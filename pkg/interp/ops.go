package interp

import (
	"cmp"

	"github.com/raymyers/tinyc/pkg/ast"
	"github.com/raymyers/tinyc/pkg/ctypes"
	"github.com/raymyers/tinyc/pkg/diag"
)

// typeOf names the type of a runtime value
func typeOf(v any) ctypes.Type {
	switch v.(type) {
	case int64:
		return ctypes.Int
	case byte:
		return ctypes.Char
	case bool:
		return ctypes.Bool
	case string:
		return ctypes.String
	case nil:
		return ctypes.Null
	}
	return ctypes.Unresolved
}

func (in *Interpreter) eval(s *Env, e ast.Expr) (any, error) {
	switch ex := e.(type) {
	case *ast.Literal:
		return ex.Value, nil
	case *ast.VarRef, *ast.ArrayRef:
		cell, i, err := in.locate(s, ex.(ast.Ref))
		if err != nil {
			return nil, err
		}
		return cell.Get(i), nil
	case *ast.FuncCall:
		fn, ok := s.LookupFunc(ex.Name)
		if !ok {
			return nil, at(ex.Pos, diag.Internal("function %s is not defined", ex.Name))
		}
		v, err := in.call(s, fn, ex)
		return v, at(ex.Pos, err)
	case *ast.UnaryOp:
		v, err := in.unary(s, ex)
		return v, at(ex.Pos, err)
	case *ast.BinaryOp:
		l, err := in.eval(s, ex.Left)
		if err != nil {
			return nil, err
		}
		r, err := in.eval(s, ex.Right)
		if err != nil {
			return nil, err
		}
		v, err := in.binary(ex.Op, l, r)
		return v, at(ex.Pos, err)
	}
	return nil, diag.Internal("unexpected expression %T", e)
}

func (in *Interpreter) unary(s *Env, u *ast.UnaryOp) (any, error) {
	if u.Op.IsCrement() {
		ref, ok := u.Child.(ast.Ref)
		if !ok {
			return nil, diag.Internal("operator %s applied to %T", u.Op.Symbol(), u.Child)
		}
		cell, i, err := in.locate(s, ref)
		if err != nil {
			return nil, err
		}
		old, ok := cell.Get(i).(int64)
		if !ok {
			return nil, diag.Internal("operator %s applied to %s", u.Op.Symbol(), typeOf(cell.Get(i)))
		}
		next := old + 1
		if u.Op == ast.OpPreDec || u.Op == ast.OpPostDec {
			next = old - 1
		}
		cell.Set(i, next)
		if u.Op.IsPostfix() {
			return old, nil
		}
		return next, nil
	}

	v, err := in.eval(s, u.Child)
	if err != nil {
		return nil, err
	}
	switch x := v.(type) {
	case int64:
		switch u.Op {
		case ast.OpNeg:
			return -x, nil
		case ast.OpPlus:
			return x, nil
		case ast.OpBitNot:
			return -x - 1, nil
		}
	case bool:
		if u.Op == ast.OpNot {
			return !x, nil
		}
	}
	return nil, diag.Internal("operator %s not defined for %s", u.Op, typeOf(v))
}

// binary applies op to two evaluated operands of the same type
func (in *Interpreter) binary(op ast.BinOp, l, r any) (any, error) {
	if op == ast.OpEq || op == ast.OpNe {
		if typeOf(l) != typeOf(r) {
			return nil, diag.Internal("comparing %s with %s", typeOf(l), typeOf(r))
		}
		return (l == r) == (op == ast.OpEq), nil
	}

	switch a := l.(type) {
	case int64:
		b, ok := r.(int64)
		if !ok {
			break
		}
		if v, ok := compare(op, a, b); ok {
			return v, nil
		}
		return in.arith(op, a, b)
	case byte:
		b, ok := r.(byte)
		if !ok {
			break
		}
		if v, ok := compare(op, a, b); ok {
			return v, nil
		}
	case bool:
		b, ok := r.(bool)
		if !ok {
			break
		}
		// both sides are already evaluated: no short circuit
		switch op {
		case ast.OpAnd:
			return a && b, nil
		case ast.OpOr:
			return a || b, nil
		}
	case string:
		b, ok := r.(string)
		if ok && op == ast.OpAdd {
			return a + b, nil
		}
	}
	return nil, diag.Internal("operator %s not defined for %s and %s", op, typeOf(l), typeOf(r))
}

func compare[T int64 | byte](op ast.BinOp, a, b T) (bool, bool) {
	c := cmp.Compare(a, b)
	switch op {
	case ast.OpLt:
		return c < 0, true
	case ast.OpLe:
		return c <= 0, true
	case ast.OpGt:
		return c > 0, true
	case ast.OpGe:
		return c >= 0, true
	}
	return false, false
}

func (in *Interpreter) arith(op ast.BinOp, a, b int64) (any, error) {
	switch op {
	case ast.OpAdd:
		return a + b, nil
	case ast.OpSub:
		return a - b, nil
	case ast.OpMul:
		return a * b, nil
	case ast.OpDiv, ast.OpMod:
		if b == 0 {
			return nil, diag.Runtime("division by zero")
		}
		q, m := a/b, a%b
		if in.division == DivFloor && m != 0 && (m < 0) != (b < 0) {
			q, m = q-1, m+b
		}
		if op == ast.OpDiv {
			return q, nil
		}
		return m, nil
	case ast.OpShl, ast.OpShr:
		if b < 0 {
			return nil, diag.Runtime("negative shift count %d", b)
		}
		if op == ast.OpShl {
			return a << uint64(b), nil
		}
		return a >> uint64(b), nil
	case ast.OpBitAnd:
		return a & b, nil
	case ast.OpBitXor:
		return a ^ b, nil
	case ast.OpBitOr:
		return a | b, nil
	}
	return nil, diag.Internal("operator %s not defined for int", op)
}
