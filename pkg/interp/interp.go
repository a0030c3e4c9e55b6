// Package interp evaluates validated programs by walking the AST.
//
// Values are int64 for int, byte for char, bool, string, and nil for void
// and NULL. Every variable lives in a Cell owned by the scope that declared
// it; arrays are Cells with a fixed length and are passed to functions by
// reference.
package interp

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/raymyers/tinyc/pkg/ast"
	"github.com/raymyers/tinyc/pkg/ctypes"
	"github.com/raymyers/tinyc/pkg/diag"
	"github.com/raymyers/tinyc/pkg/scope"
)

// Division selects how integer / and % round
type Division int

const (
	// DivFloor rounds the quotient toward negative infinity
	DivFloor Division = iota
	// DivTrunc rounds toward zero, as C99 does
	DivTrunc
)

func (d Division) String() string {
	if d == DivTrunc {
		return "trunc"
	}
	return "floor"
}

// ParseDivision accepts "floor" or "trunc"
func ParseDivision(s string) (Division, error) {
	switch s {
	case "floor", "":
		return DivFloor, nil
	case "trunc":
		return DivTrunc, nil
	}
	return DivFloor, fmt.Errorf("unknown division mode %q (want floor or trunc)", s)
}

// DefaultMaxDepth bounds recursion unless WithMaxDepth says otherwise
const DefaultMaxDepth = 10000

// MaxArrayLength is the largest number of elements an array may hold
const MaxArrayLength = 1 << 24

// Cell is the storage of one variable. Scalars hold exactly one value.
type Cell struct {
	Type   ctypes.Type
	Values []any
	Array  bool
}

// Get returns element i (0 for scalars)
func (c *Cell) Get(i int) any {
	return c.Values[i]
}

// Set stores element i (0 for scalars)
func (c *Cell) Set(i int, v any) {
	c.Values[i] = v
}

// Len is the number of elements of an array cell
func (c *Cell) Len() int {
	return len(c.Values)
}

// builtin implements a function that has no FuncDef
type builtin func(in *Interpreter, call *ast.FuncCall, args []any) (any, error)

// Callable is a function entry. User functions remember the scope they
// were defined in so calls resolve names lexically.
type Callable struct {
	Def *ast.FuncDef
	// spelled out: the Env alias cannot refer back to Callable
	Scope   *scope.Scope[*Cell, *Callable]
	builtin builtin
}

// Env is the interpreter's scope tree
type Env = scope.Scope[*Cell, *Callable]

// Interpreter runs programs against a root scope holding the built-ins
type Interpreter struct {
	global   *Env
	out      io.Writer
	division Division
	maxDepth int
	depth    int
	log      *slog.Logger
}

// Option configures an Interpreter
type Option func(*Interpreter)

// WithOutput sets where printf writes. The default is os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(in *Interpreter) { in.out = w }
}

// WithDivision selects the integer division rounding
func WithDivision(d Division) Option {
	return func(in *Interpreter) { in.division = d }
}

// WithMaxDepth bounds the call depth. Zero means unbounded.
func WithMaxDepth(n int) Option {
	return func(in *Interpreter) { in.maxDepth = n }
}

// WithLogger sets the logger used for debug tracing of calls
func WithLogger(l *slog.Logger) Option {
	return func(in *Interpreter) { in.log = l }
}

// New creates an Interpreter with printf registered in its root scope
func New(opts ...Option) *Interpreter {
	in := &Interpreter{
		global:   scope.NewRoot[*Cell, *Callable](),
		out:      os.Stdout,
		maxDepth: DefaultMaxDepth,
		log:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(in)
	}
	_ = in.global.DeclareFunc("printf", &Callable{builtin: printf})
	return in
}

// Global returns the root scope
func (in *Interpreter) Global() *Env {
	return in.global
}

// Evaluate registers the program's functions in a fresh child of the root
// scope and runs main. It returns main's value, nil for a void main.
func (in *Interpreter) Evaluate(root *ast.Root) (any, error) {
	prog := in.global.Child("program")
	for _, f := range root.Functions {
		if err := prog.DeclareFunc(f.Name, &Callable{Def: f, Scope: prog}); err != nil {
			return nil, at(f.Pos, err)
		}
	}
	main, ok := prog.Func("main")
	if !ok {
		return nil, diag.Undefined("function", "main")
	}
	in.log.Debug("evaluate", "functions", len(root.Functions))
	return in.call(prog, main, &ast.FuncCall{Name: "main", Type: main.Def.ReturnType, Pos: main.Def.Pos})
}

// Evaluate runs root with default options, writing printf output to stdout
func Evaluate(root *ast.Root) (any, error) {
	return New().Evaluate(root)
}

// at attaches pos to a diagnostic that has none yet
func at(pos diag.Pos, err error) error {
	var de *diag.Error
	if err != nil && pos.IsValid() && errors.As(err, &de) && !de.Pos.IsValid() {
		de.Pos = pos
	}
	return err
}
