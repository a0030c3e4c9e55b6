package interp

import (
	"strconv"

	"github.com/raymyers/tinyc/pkg/ast"
)

// Session executes statements one at a time in a scope that persists
// between calls. The REPL keeps one per run.
type Session struct {
	in    *Interpreter
	scope *Env
}

// NewSession opens a session scope below the root scope
func (in *Interpreter) NewSession() *Session {
	return &Session{in: in, scope: in.global.Child("session")}
}

// Scope returns the scope statements run in
func (s *Session) Scope() *Env {
	return s.scope
}

// Exec runs one statement. For an expression statement the value of the
// expression is returned; other statements return nil.
func (s *Session) Exec(stmt ast.Stmt) (any, error) {
	if es, ok := stmt.(*ast.ExprStmt); ok {
		v, err := s.in.eval(s.scope, es.Expr)
		return v, at(es.Pos, err)
	}
	v, _, err := s.in.execStmt(s.scope, stmt)
	if err != nil {
		return nil, err
	}
	if f, ok := stmt.(*ast.FuncDef); ok {
		// later input must not change what f resolves
		s.scope = s.scope.Child("after " + f.Name)
	}
	return v, nil
}

// Checkpoint snapshots the session's declarations. Restoring drops names
// declared since; values stored into existing variables are kept.
func (s *Session) Checkpoint() (restore func()) {
	current := s.scope
	inner := current.Checkpoint()
	return func() {
		s.scope = current
		inner()
	}
}

// FormatValue renders a runtime value for display. Void renders empty.
func FormatValue(v any) string {
	switch x := v.(type) {
	case int64:
		return strconv.FormatInt(x, 10)
	case byte:
		return ast.QuoteChar(x)
	case bool:
		return strconv.FormatBool(x)
	case string:
		return ast.QuoteString(x)
	}
	return ""
}
