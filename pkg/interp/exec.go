package interp

import (
	"github.com/raymyers/tinyc/pkg/ast"
	"github.com/raymyers/tinyc/pkg/ctypes"
	"github.com/raymyers/tinyc/pkg/diag"
)

// call evaluates the arguments of c in scope s and runs fn. Array parameters
// bind the caller's cell itself.
func (in *Interpreter) call(s *Env, fn *Callable, c *ast.FuncCall) (any, error) {
	if fn.builtin != nil {
		args := make([]any, len(c.Params))
		for i, p := range c.Params {
			v, err := in.eval(s, p)
			if err != nil {
				return nil, err
			}
			args[i] = v
		}
		return fn.builtin(in, c, args)
	}

	def := fn.Def
	if len(c.Params) != len(def.Params) {
		return nil, diag.Internal("call to %s with %d arguments, want %d", def.Name, len(c.Params), len(def.Params))
	}
	cells := make([]*Cell, len(def.Params))
	for i, p := range def.Params {
		if p.IsArray() {
			ref, ok := c.Params[i].(*ast.VarRef)
			if !ok {
				return nil, diag.Internal("array parameter %s bound to %T", p.Name, c.Params[i])
			}
			cell, ok := s.LookupVar(ref.Name)
			if !ok || !cell.Array {
				return nil, diag.Internal("array argument %s is not an array", ref.Name)
			}
			cells[i] = cell
			continue
		}
		v, err := in.eval(s, c.Params[i])
		if err != nil {
			return nil, err
		}
		cells[i] = &Cell{Type: p.Type, Values: []any{v}}
	}

	if in.maxDepth > 0 && in.depth >= in.maxDepth {
		return nil, diag.Runtime("maximum call depth %d exceeded calling %s", in.maxDepth, def.Name)
	}
	in.depth++
	defer func() { in.depth-- }()
	in.log.Debug("call", "function", def.Name, "depth", in.depth)

	fs := fn.Scope.FuncChild(def.Name, def.ReturnType)
	for i, p := range def.Params {
		if err := fs.DeclareVar(p.Name, cells[i]); err != nil {
			return nil, at(p.Pos, err)
		}
	}
	v, returned, err := in.execStmts(fs, def.Body.Stmts)
	if err != nil {
		return nil, err
	}
	if !returned && def.ReturnType != ctypes.Void {
		// a path without a return passes validation
		return def.ReturnType.Zero(), nil
	}
	return v, nil
}

// execStmts runs stmts in s and stops at the first return. The bool
// reports whether a return was executed.
//
// A function definition only sees the names declared before it, so the
// statements after one run in a fresh child scope.
func (in *Interpreter) execStmts(s *Env, stmts []ast.Stmt) (any, bool, error) {
	for _, stmt := range stmts {
		v, returned, err := in.execStmt(s, stmt)
		if err != nil {
			return nil, false, err
		}
		if returned {
			return v, true, nil
		}
		if f, ok := stmt.(*ast.FuncDef); ok {
			s = s.Child("after " + f.Name)
		}
	}
	return nil, false, nil
}

func (in *Interpreter) execStmt(s *Env, stmt ast.Stmt) (any, bool, error) {
	switch st := stmt.(type) {
	case *ast.FuncDef:
		return nil, false, at(st.Pos, s.DeclareFunc(st.Name, &Callable{Def: st, Scope: s}))
	case *ast.VarDef:
		return nil, false, at(st.Pos, in.execVarDef(s, st))
	case *ast.Assignment:
		return nil, false, at(st.Pos, in.execAssignment(s, st))
	case *ast.If:
		cond, err := in.evalBool(s, st.Cond)
		if err != nil {
			return nil, false, at(st.Pos, err)
		}
		if cond {
			return in.execStmts(s.Child("if"), st.True.Stmts)
		}
		if st.False != nil {
			return in.execStmts(s.Child("else"), st.False.Stmts)
		}
		return nil, false, nil
	case *ast.While:
		for {
			cond, err := in.evalBool(s, st.Cond)
			if err != nil {
				return nil, false, at(st.Pos, err)
			}
			if !cond {
				return nil, false, nil
			}
			v, returned, err := in.execStmts(s.Child("while"), st.Body.Stmts)
			if err != nil || returned {
				return v, returned, err
			}
		}
	case *ast.Return:
		if st.Expr == nil {
			return nil, true, nil
		}
		v, err := in.eval(s, st.Expr)
		if err != nil {
			return nil, false, at(st.Pos, err)
		}
		return v, true, nil
	case *ast.ExprStmt:
		_, err := in.eval(s, st.Expr)
		return nil, false, at(st.Pos, err)
	}
	return nil, false, diag.Internal("unexpected statement %T", stmt)
}

func (in *Interpreter) execVarDef(s *Env, v *ast.VarDef) error {
	if !v.IsArray() {
		val := v.Type.Zero()
		if v.Default != nil {
			var err error
			if val, err = in.eval(s, v.Default); err != nil {
				return err
			}
		}
		return s.DeclareVar(v.Name, &Cell{Type: v.Type, Values: []any{val}})
	}

	var n int64
	switch v.LenKind {
	case ast.LenExplicit:
		lv, err := in.eval(s, v.Len)
		if err != nil {
			return err
		}
		l, ok := lv.(int64)
		if !ok {
			return diag.Internal("array length of %s is %T", v.Name, lv)
		}
		if l < 0 {
			return diag.Runtime("negative length %d for array %s", l, v.Name)
		}
		n = l
	case ast.LenInferred:
		if v.Init == nil {
			return diag.Internal("array %s has neither length nor initializer", v.Name)
		}
		n = int64(len(v.Init.Elems))
	}

	if n > MaxArrayLength {
		return diag.Runtime("length %d too large for array %s (limit %d)", n, v.Name, MaxArrayLength)
	}
	cell := &Cell{Type: v.Type, Array: true, Values: make([]any, n)}
	var elems []ast.Expr
	if v.Init != nil {
		elems = v.Init.Elems
	}
	if int64(len(elems)) > n {
		return diag.Runtime("too many elements initializing array %s: length %d, got %d", v.Name, n, len(elems))
	}
	for i := range cell.Values {
		if i < len(elems) {
			ev, err := in.eval(s, elems[i])
			if err != nil {
				return err
			}
			cell.Values[i] = ev
			continue
		}
		cell.Values[i] = v.Type.Zero()
	}
	return s.DeclareVar(v.Name, cell)
}

func (in *Interpreter) execAssignment(s *Env, a *ast.Assignment) error {
	cell, i, err := in.locate(s, a.Target)
	if err != nil {
		return err
	}
	v, err := in.eval(s, a.Expr)
	if err != nil {
		return err
	}
	if a.Op != "=" {
		op, ok := a.Compound()
		if !ok {
			return diag.Internal("unknown assignment operator %q", a.Op)
		}
		if v, err = in.binary(op, cell.Get(i), v); err != nil {
			return err
		}
	}
	cell.Set(i, v)
	return nil
}

// locate resolves a reference to its cell and element index
func (in *Interpreter) locate(s *Env, ref ast.Ref) (*Cell, int, error) {
	cell, ok := s.LookupVar(ref.RefName())
	if !ok {
		return nil, 0, diag.Internal("variable %s is not defined", ref.RefName())
	}
	r, ok := ref.(*ast.ArrayRef)
	if !ok {
		if cell.Array {
			return nil, 0, diag.Internal("array %s used as a scalar", ref.RefName())
		}
		return cell, 0, nil
	}
	if !cell.Array {
		return nil, 0, diag.Internal("variable %s is not an array", r.Name)
	}
	iv, err := in.eval(s, r.Index)
	if err != nil {
		return nil, 0, err
	}
	idx, ok := iv.(int64)
	if !ok {
		return nil, 0, diag.Internal("index of %s is %T", r.Name, iv)
	}
	if idx < 0 || idx >= int64(cell.Len()) {
		return nil, 0, at(r.Pos, diag.Runtime("index %d out of range for array %s of length %d", idx, r.Name, cell.Len()))
	}
	return cell, int(idx), nil
}

func (in *Interpreter) evalBool(s *Env, e ast.Expr) (bool, error) {
	v, err := in.eval(s, e)
	if err != nil {
		return false, err
	}
	b, ok := v.(bool)
	if !ok {
		return false, diag.Internal("condition is %s, want %s", typeOf(v), ctypes.Bool)
	}
	return b, nil
}
