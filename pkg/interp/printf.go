package interp

import (
	"io"
	"strconv"
	"strings"

	"github.com/raymyers/tinyc/pkg/ast"
	"github.com/raymyers/tinyc/pkg/ctypes"
	"github.com/raymyers/tinyc/pkg/diag"
)

// verbs maps each printf placeholder to the argument type it formats
var verbs = map[byte]ctypes.Type{
	'd': ctypes.Int,
	'i': ctypes.Int,
	'c': ctypes.Char,
	's': ctypes.String,
}

// printf writes format with each placeholder replaced by the next argument.
// %% is a literal percent; any other % sequence is copied through.
func printf(in *Interpreter, call *ast.FuncCall, args []any) (any, error) {
	if len(args) == 0 {
		return nil, diag.Internal("printf called without a format")
	}
	format, ok := args[0].(string)
	if !ok {
		return nil, diag.Internal("printf format is %s", typeOf(args[0]))
	}

	holes := 0
	for i := 0; i < len(format); i++ {
		if format[i] != '%' || i+1 >= len(format) {
			continue
		}
		if _, ok := verbs[format[i+1]]; ok {
			holes++
		}
		i++
	}
	if holes != len(args)-1 {
		err := diag.Runtime("printf: format has %d placeholders but %d arguments were given", holes, len(args)-1)
		err.Name = "printf"
		err.ExpectedCount = holes + 1
		err.GotCount = len(args)
		return nil, err
	}

	var sb strings.Builder
	next := 1
	for i := 0; i < len(format); i++ {
		c := format[i]
		if c != '%' || i+1 >= len(format) {
			sb.WriteByte(c)
			continue
		}
		verb := format[i+1]
		if verb == '%' {
			sb.WriteByte('%')
			i++
			continue
		}
		want, ok := verbs[verb]
		if !ok {
			sb.WriteByte(c)
			continue
		}
		i++

		arg := args[next]
		got := typeOf(arg)
		if static := call.Params[next].ExprType(); static.IsResolved() {
			got = static
		}
		if got != want {
			err := diag.Runtime("printf: %%%c expects %s but argument %d is %s", verb, want, next, got)
			err.Expected, err.Got = want.String(), got.String()
			return nil, err
		}
		switch v := arg.(type) {
		case int64:
			sb.WriteString(strconv.FormatInt(v, 10))
		case byte:
			sb.WriteByte(v)
		case string:
			sb.WriteString(v)
		}
		next++
	}

	if _, err := io.WriteString(in.out, sb.String()); err != nil {
		return nil, diag.Runtime("printf: %v", err)
	}
	return nil, nil
}
