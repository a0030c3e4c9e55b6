package parser

import (
	"strconv"

	"github.com/raymyers/tinyc/pkg/ast"
	"github.com/raymyers/tinyc/pkg/ctypes"
	"github.com/raymyers/tinyc/pkg/diag"
	"github.com/raymyers/tinyc/pkg/lexer"
)

// item is one entry of the operator stack or the postfix output. Operands
// are built into nodes as soon as they are scanned.
type item struct {
	op   lexer.Operator
	tok  lexer.Token
	node ast.Expr // nil for operators
}

func (it item) isOp() bool {
	return it.node == nil
}

// ParseExpr parses one expression, leaving the cursor on the first token
// that cannot continue it
func (p *Parser) ParseExpr() (ast.Expr, error) {
	start, ok := p.peekN(0)
	if !ok {
		return nil, diag.EndOfInput("expression")
	}
	postfix, err := p.toPostfix()
	if err != nil {
		return nil, err
	}
	return buildExpr(postfix, tokPos(start))
}

// toPostfix runs the shunting-yard scan. A `)` that reaches the sentinel
// closes an enclosing group and is left unconsumed.
func (p *Parser) toPostfix() ([]item, error) {
	stack := []item{{op: lexer.Sentinel, tok: lexer.Token{Type: lexer.TokenStart, Literal: "#"}}}
	var out []item
	prev := lexer.Start

	flush := func() ([]item, error) {
		for len(stack) > 1 {
			top := stack[len(stack)-1]
			if top.tok.Type == lexer.TokenLParen {
				return nil, diag.MalformedExpr(tokPos(top.tok), "unclosed (")
			}
			out = append(out, top)
			stack = stack[:len(stack)-1]
		}
		return out, nil
	}

	for {
		tok, ok := p.peekN(0)
		if !ok {
			return flush()
		}

		switch {
		case tok.Type == lexer.TokenName:
			operand, err := p.parseNameOperand()
			if err != nil {
				return nil, err
			}
			out = append(out, item{tok: tok, node: operand})
			prev = lexer.Preceding{Type: lexer.TokenName}

		case tok.Type.IsLiteral():
			p.pos++
			lit, err := literal(tok)
			if err != nil {
				return nil, err
			}
			out = append(out, item{tok: tok, node: lit})
			prev = lexer.Preceding{Type: tok.Type}

		case tok.Type == lexer.TokenLParen:
			p.pos++
			stack = append(stack, item{op: lexer.Operator{Symbol: "(", Fixity: lexer.Grouping}, tok: tok})
			prev = lexer.Preceding{Type: lexer.TokenLParen, Fixity: lexer.Grouping}

		case tok.Type == lexer.TokenRParen:
			for {
				top := stack[len(stack)-1]
				if top.tok.Type == lexer.TokenStart {
					return out, nil
				}
				stack = stack[:len(stack)-1]
				if top.tok.Type == lexer.TokenLParen {
					break
				}
				out = append(out, top)
			}
			p.pos++
			prev = lexer.Preceding{Type: lexer.TokenRParen, Fixity: lexer.Grouping}

		case tok.Type.IsOperator():
			op, err := lexer.Classify(tok, prev)
			if err != nil {
				return nil, err
			}
			p.pos++
			top := stack[len(stack)-1].op
			if op.Prec < top.Prec || (op.Prec == top.Prec && op.Fixity != lexer.LeftUnary) {
				for op.Prec <= stack[len(stack)-1].op.Prec {
					out = append(out, stack[len(stack)-1])
					stack = stack[:len(stack)-1]
				}
			}
			stack = append(stack, item{op: op, tok: tok})
			prev = lexer.Preceding{Type: tok.Type, Fixity: op.Fixity}

		default:
			return flush()
		}
	}
}

// parseNameOperand parses a variable, a call or an array element
func (p *Parser) parseNameOperand() (ast.Expr, error) {
	name, err := p.next()
	if err != nil {
		return nil, err
	}
	pos := tokPos(name)

	switch {
	case p.curTokenIs(lexer.TokenLParen):
		params, err := p.parseArgs()
		if err != nil {
			return nil, err
		}
		return &ast.FuncCall{Name: name.Literal, Params: params, Pos: pos}, nil
	case p.curTokenIs(lexer.TokenLBracket):
		p.pos++
		index, err := p.ParseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.TokenRBracket); err != nil {
			return nil, err
		}
		return &ast.ArrayRef{Name: name.Literal, Index: index, Pos: pos}, nil
	}
	return &ast.VarRef{Name: name.Literal, Pos: pos}, nil
}

func (p *Parser) parseArgs() ([]ast.Expr, error) {
	if _, err := p.expect(lexer.TokenLParen); err != nil {
		return nil, err
	}
	var args []ast.Expr
	if p.curTokenIs(lexer.TokenRParen) {
		p.pos++
		return args, nil
	}
	for {
		arg, err := p.ParseExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if !p.curTokenIs(lexer.TokenComma) {
			break
		}
		p.pos++
	}
	if _, err := p.expect(lexer.TokenRParen); err != nil {
		return nil, err
	}
	return args, nil
}

// buildExpr turns postfix output into a tree. A binary operator pops its
// right operand first.
func buildExpr(postfix []item, pos diag.Pos) (ast.Expr, error) {
	var stack []ast.Expr
	pop := func() ast.Expr {
		e := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		return e
	}

	for _, it := range postfix {
		if !it.isOp() {
			stack = append(stack, it.node)
			continue
		}
		opPos := tokPos(it.tok)
		switch it.op.Fixity {
		case lexer.Binary:
			if len(stack) < 2 {
				return nil, diag.MalformedExpr(opPos, "missing operand for %s", it.op.Symbol)
			}
			bop, ok := ast.LookupBinOp(it.op.Symbol)
			if !ok {
				return nil, diag.Internal("unknown binary operator %q", it.op.Symbol)
			}
			right := pop()
			left := pop()
			stack = append(stack, &ast.BinaryOp{Op: bop, Left: left, Right: right, Pos: opPos})
		case lexer.LeftUnary, lexer.RightUnary:
			if len(stack) < 1 {
				return nil, diag.MalformedExpr(opPos, "missing operand for %s", it.op.Symbol)
			}
			uop, err := unaryOp(it.op)
			if err != nil {
				return nil, err
			}
			stack = append(stack, &ast.UnaryOp{Op: uop, Child: pop(), Pos: opPos})
		default:
			return nil, diag.MalformedExpr(opPos, "unexpected %s", it.op.Symbol)
		}
	}

	if len(stack) != 1 {
		return nil, diag.MalformedExpr(pos, "expected a single expression, got %d operands", len(stack))
	}
	return stack[0], nil
}

func unaryOp(op lexer.Operator) (ast.UnOp, error) {
	switch op.Symbol {
	case "-":
		return ast.OpNeg, nil
	case "+":
		return ast.OpPlus, nil
	case "!":
		return ast.OpNot, nil
	case "~":
		return ast.OpBitNot, nil
	case "++":
		if op.Fixity == lexer.RightUnary {
			return ast.OpPostInc, nil
		}
		return ast.OpPreInc, nil
	case "--":
		if op.Fixity == lexer.RightUnary {
			return ast.OpPostDec, nil
		}
		return ast.OpPreDec, nil
	}
	return 0, diag.Internal("unknown unary operator %q", op.Symbol)
}

// literal converts a literal token into a typed node
func literal(tok lexer.Token) (*ast.Literal, error) {
	pos := tokPos(tok)
	switch tok.Type {
	case lexer.TokenNumeric:
		v, err := strconv.ParseInt(tok.Literal, 10, 64)
		if err != nil {
			return nil, diag.MalformedExpr(pos, "integer literal %s out of range", tok.Literal)
		}
		return &ast.Literal{Type: ctypes.Int, Value: v}, nil
	case lexer.TokenString:
		s, err := ast.Unescape(tok.Literal[1 : len(tok.Literal)-1])
		if err != nil {
			return nil, diag.MalformedExpr(pos, "%v", err)
		}
		return &ast.Literal{Type: ctypes.String, Value: s}, nil
	case lexer.TokenCharacter:
		s, err := ast.Unescape(tok.Literal[1 : len(tok.Literal)-1])
		if err != nil {
			return nil, diag.MalformedExpr(pos, "%v", err)
		}
		if s == "" {
			// '' is the NUL character
			return &ast.Literal{Type: ctypes.Char, Value: byte(0)}, nil
		}
		if len(s) != 1 {
			return nil, diag.MalformedExpr(pos, "character literal %s is not a single byte", tok.Literal)
		}
		return &ast.Literal{Type: ctypes.Char, Value: s[0]}, nil
	case lexer.TokenBoolean:
		return &ast.Literal{Type: ctypes.Bool, Value: tok.Literal == "true"}, nil
	case lexer.TokenNull:
		return &ast.Literal{Type: ctypes.Null}, nil
	}
	return nil, diag.Unexpected(pos, "literal", tok.Type.String())
}
