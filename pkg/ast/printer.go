package ast

import (
	"fmt"
	"io"
	"strings"

	"github.com/raymyers/tinyc/pkg/ctypes"
)

// Printer renders the AST back to source. Binary and unary expressions are
// fully parenthesized so the output parses to the same tree.
type Printer struct {
	w      io.Writer
	indent int
}

// NewPrinter creates a new AST printer
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w, indent: 0}
}

// PrintRoot prints a complete program
func (p *Printer) PrintRoot(root *Root) {
	for i, f := range root.Functions {
		if i > 0 {
			fmt.Fprintln(p.w)
		}
		p.printFuncDef(f)
	}
}

// PrintStmt prints a single statement at the current indentation
func (p *Printer) PrintStmt(stmt Stmt) {
	p.printStmt(stmt)
}

// PrintExpr prints a single expression without a trailing newline
func (p *Printer) PrintExpr(expr Expr) {
	p.printExpr(expr)
}

func (p *Printer) writeIndent() {
	fmt.Fprint(p.w, strings.Repeat("  ", p.indent))
}

func (p *Printer) printFuncDef(f *FuncDef) {
	p.writeIndent()
	fmt.Fprintf(p.w, "%s %s(", f.ReturnType, f.Name)
	for i, param := range f.Params {
		if i > 0 {
			fmt.Fprint(p.w, ", ")
		}
		p.printVarDecl(param)
	}
	fmt.Fprint(p.w, ") ")
	p.printBlock(f.Body)
	fmt.Fprintln(p.w)
}

// printVarDecl prints a definition without the trailing semicolon
func (p *Printer) printVarDecl(v *VarDef) {
	fmt.Fprintf(p.w, "%s %s", v.Type, v.Name)
	switch v.LenKind {
	case LenExplicit:
		fmt.Fprint(p.w, "[")
		p.printExpr(v.Len)
		fmt.Fprint(p.w, "]")
	case LenInferred:
		fmt.Fprint(p.w, "[]")
	}
	if v.Default != nil {
		fmt.Fprint(p.w, " = ")
		p.printExpr(v.Default)
	}
	if v.Init != nil {
		fmt.Fprint(p.w, " = {")
		for i, e := range v.Init.Elems {
			if i > 0 {
				fmt.Fprint(p.w, ", ")
			}
			p.printExpr(e)
		}
		fmt.Fprint(p.w, "}")
	}
}

// printBlock prints braces around the statements; the caller positions the
// opening brace and ends the line after the closing one
func (p *Printer) printBlock(b *Block) {
	fmt.Fprintln(p.w, "{")
	p.indent++
	for _, stmt := range b.Stmts {
		p.printStmt(stmt)
	}
	p.indent--
	p.writeIndent()
	fmt.Fprint(p.w, "}")
}

func (p *Printer) printStmt(stmt Stmt) {
	if f, ok := stmt.(*FuncDef); ok {
		p.printFuncDef(f)
		return
	}
	p.writeIndent()
	switch s := stmt.(type) {
	case *VarDef:
		p.printVarDecl(s)
		fmt.Fprintln(p.w, ";")
	case *Assignment:
		p.printExpr(s.Target)
		fmt.Fprintf(p.w, " %s ", s.Op)
		p.printExpr(s.Expr)
		fmt.Fprintln(p.w, ";")
	case *Return:
		fmt.Fprint(p.w, "return")
		if s.Expr != nil {
			fmt.Fprint(p.w, " ")
			p.printExpr(s.Expr)
		}
		fmt.Fprintln(p.w, ";")
	case *ExprStmt:
		p.printExpr(s.Expr)
		fmt.Fprintln(p.w, ";")
	case *If:
		fmt.Fprint(p.w, "if (")
		p.printExpr(s.Cond)
		fmt.Fprint(p.w, ") ")
		p.printBlock(s.True)
		if s.False != nil {
			fmt.Fprint(p.w, " else ")
			p.printBlock(s.False)
		}
		fmt.Fprintln(p.w)
	case *While:
		fmt.Fprint(p.w, "while (")
		p.printExpr(s.Cond)
		fmt.Fprint(p.w, ") ")
		p.printBlock(s.Body)
		fmt.Fprintln(p.w)
	default:
		fmt.Fprintf(p.w, "/* unknown stmt %T */;\n", stmt)
	}
}

func (p *Printer) printExpr(expr Expr) {
	switch e := expr.(type) {
	case *Literal:
		fmt.Fprint(p.w, FormatLiteral(e))
	case *VarRef:
		fmt.Fprint(p.w, e.Name)
	case *ArrayRef:
		fmt.Fprintf(p.w, "%s[", e.Name)
		p.printExpr(e.Index)
		fmt.Fprint(p.w, "]")
	case *FuncCall:
		fmt.Fprintf(p.w, "%s(", e.Name)
		for i, arg := range e.Params {
			if i > 0 {
				fmt.Fprint(p.w, ", ")
			}
			p.printExpr(arg)
		}
		fmt.Fprint(p.w, ")")
	case *UnaryOp:
		fmt.Fprint(p.w, "(")
		if e.Op.IsPostfix() {
			p.printExpr(e.Child)
			fmt.Fprint(p.w, e.Op.Symbol())
		} else {
			fmt.Fprint(p.w, e.Op.Symbol())
			p.printExpr(e.Child)
		}
		fmt.Fprint(p.w, ")")
	case *BinaryOp:
		fmt.Fprint(p.w, "(")
		p.printExpr(e.Left)
		fmt.Fprintf(p.w, " %s ", e.Op)
		p.printExpr(e.Right)
		fmt.Fprint(p.w, ")")
	default:
		fmt.Fprintf(p.w, "/* unknown expr %T */", expr)
	}
}

// FormatLiteral renders a literal the way it is written in source
func FormatLiteral(l *Literal) string {
	switch v := l.Value.(type) {
	case int64:
		return fmt.Sprintf("%d", v)
	case byte:
		return QuoteChar(v)
	case bool:
		return fmt.Sprintf("%t", v)
	case string:
		return QuoteString(v)
	}
	if l.Type == ctypes.Null {
		return "NULL"
	}
	return fmt.Sprintf("/* bad literal %v */", l.Value)
}
