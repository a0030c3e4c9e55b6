// Package parser implements a recursive descent parser for the language.
// Expressions are handled by a precedence-climbing parser in expr.go.
package parser

import (
	"github.com/raymyers/tinyc/pkg/ast"
	"github.com/raymyers/tinyc/pkg/ctypes"
	"github.com/raymyers/tinyc/pkg/diag"
	"github.com/raymyers/tinyc/pkg/lexer"
)

// Parser walks a token slice. Comment tokens are skipped before every
// lookahead and consume.
type Parser struct {
	tokens []lexer.Token
	pos    int
}

// New creates a new Parser over the given tokens
func New(tokens []lexer.Token) *Parser {
	return &Parser{tokens: tokens}
}

// Parse parses a whole program
func Parse(tokens []lexer.Token) (*ast.Root, error) {
	return New(tokens).ParseRoot()
}

// ParseSource tokenizes and parses source text
func ParseSource(src string) (*ast.Root, error) {
	tokens, err := lexer.Tokenize(src)
	if err != nil {
		return nil, err
	}
	return Parse(tokens)
}

func tokPos(tok lexer.Token) diag.Pos {
	return diag.Pos{Line: tok.Line, Column: tok.Column}
}

func (p *Parser) skipComments() {
	for p.pos < len(p.tokens) && p.tokens[p.pos].Type.IsComment() {
		p.pos++
	}
}

// AtEnd reports whether only comments remain
func (p *Parser) AtEnd() bool {
	p.skipComments()
	return p.pos >= len(p.tokens)
}

// peekN returns the n-th significant token ahead, 0 being the current one
func (p *Parser) peekN(n int) (lexer.Token, bool) {
	p.skipComments()
	i := p.pos
	for {
		for i < len(p.tokens) && p.tokens[i].Type.IsComment() {
			i++
		}
		if i >= len(p.tokens) {
			return lexer.Token{}, false
		}
		if n == 0 {
			return p.tokens[i], true
		}
		n--
		i++
	}
}

func (p *Parser) curTokenIs(t lexer.TokenType) bool {
	tok, ok := p.peekN(0)
	return ok && tok.Type == t
}

// match reports whether the upcoming tokens have the given types. Running
// out of tokens before the first mismatch is an end-of-input error.
func (p *Parser) match(types ...lexer.TokenType) (bool, error) {
	for i, t := range types {
		tok, ok := p.peekN(i)
		if !ok {
			return false, diag.EndOfInput(t.String())
		}
		if tok.Type != t {
			return false, nil
		}
	}
	return true, nil
}

// next consumes the current token whatever its type
func (p *Parser) next() (lexer.Token, error) {
	tok, ok := p.peekN(0)
	if !ok {
		return tok, diag.EndOfInput("")
	}
	p.pos++
	return tok, nil
}

func (p *Parser) expect(t lexer.TokenType) (lexer.Token, error) {
	tok, ok := p.peekN(0)
	if !ok {
		return tok, diag.EndOfInput(t.String())
	}
	if tok.Type != t {
		return tok, diag.Unexpected(tokPos(tok), t.String(), tok.Type.String())
	}
	p.pos++
	return tok, nil
}

// ParseRoot parses function definitions until the input is exhausted.
// Running out of tokens between definitions ends the program; running out
// inside one is a KindEndOfInput error rather than a truncated program.
func (p *Parser) ParseRoot() (*ast.Root, error) {
	root := &ast.Root{}
	for !p.AtEnd() {
		f, err := p.ParseFuncDef()
		if err != nil {
			return nil, err
		}
		root.Functions = append(root.Functions, f)
	}
	return root, nil
}

func (p *Parser) parseBaseType() (ctypes.Type, lexer.Token, error) {
	tok, err := p.expect(lexer.TokenBaseType)
	if err != nil {
		return ctypes.Unresolved, tok, err
	}
	t, ok := ctypes.Lookup(tok.Literal)
	if !ok {
		return ctypes.Unresolved, tok, diag.Unexpected(tokPos(tok), "base type", tok.Literal)
	}
	return t, tok, nil
}

// ParseFuncDef parses `type name(params) { body }`
func (p *Parser) ParseFuncDef() (*ast.FuncDef, error) {
	retType, first, err := p.parseBaseType()
	if err != nil {
		return nil, err
	}
	name, err := p.expect(lexer.TokenName)
	if err != nil {
		return nil, err
	}
	params, err := p.parseParams()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.FuncDef{
		ReturnType: retType,
		Name:       name.Literal,
		Params:     params,
		Body:       body,
		Pos:        tokPos(first),
	}, nil
}

func (p *Parser) parseParams() ([]*ast.VarDef, error) {
	if _, err := p.expect(lexer.TokenLParen); err != nil {
		return nil, err
	}
	var params []*ast.VarDef
	ok, err := p.match(lexer.TokenBaseType)
	if err != nil {
		return nil, err
	}
	for ok {
		param, err := p.parseVarDef()
		if err != nil {
			return nil, err
		}
		params = append(params, param)
		if ok, err = p.match(lexer.TokenComma); err != nil {
			return nil, err
		}
		if ok {
			p.pos++
		}
	}
	if _, err := p.expect(lexer.TokenRParen); err != nil {
		return nil, err
	}
	return params, nil
}

func (p *Parser) parseBlock() (*ast.Block, error) {
	if _, err := p.expect(lexer.TokenLBrace); err != nil {
		return nil, err
	}
	block := &ast.Block{}
	for {
		done, err := p.match(lexer.TokenRBrace)
		if err != nil {
			return nil, err
		}
		if done {
			break
		}
		stmt, err := p.ParseStatement()
		if err != nil {
			return nil, err
		}
		block.Stmts = append(block.Stmts, stmt)
	}
	p.pos++ // consume '}'
	return block, nil
}

// parseBody parses a braced block or a single statement wrapped in a block
func (p *Parser) parseBody() (*ast.Block, error) {
	if p.curTokenIs(lexer.TokenLBrace) {
		return p.parseBlock()
	}
	stmt, err := p.ParseStatement()
	if err != nil {
		return nil, err
	}
	return &ast.Block{Stmts: []ast.Stmt{stmt}}, nil
}

// ParseStatement parses one statement, including its terminating semicolon
func (p *Parser) ParseStatement() (ast.Stmt, error) {
	first, ok := p.peekN(0)
	if !ok {
		return nil, diag.EndOfInput("statement")
	}

	var stmt ast.Stmt
	var err error
	switch first.Type {
	case lexer.TokenName:
		if p.isAssignment() {
			stmt, err = p.parseAssignment()
		} else {
			stmt, err = p.parseExprStmt()
		}
	case lexer.TokenBaseType:
		isFunc, merr := p.match(lexer.TokenBaseType, lexer.TokenName, lexer.TokenLParen)
		if merr != nil {
			return nil, merr
		}
		if isFunc {
			return p.ParseFuncDef()
		}
		stmt, err = p.parseVarDef()
	case lexer.TokenIf:
		return p.parseIf()
	case lexer.TokenWhile:
		return p.parseWhile()
	case lexer.TokenReturn:
		stmt, err = p.parseReturn()
	default:
		stmt, err = p.parseExprStmt()
	}
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenSemicolon); err != nil {
		return nil, err
	}
	return stmt, nil
}

// isAssignment looks past `name` or `name[...]` for an assignment operator
func (p *Parser) isAssignment() bool {
	tok, ok := p.peekN(1)
	if !ok {
		return false
	}
	if tok.Type.IsAssignment() {
		return true
	}
	if tok.Type != lexer.TokenLBracket {
		return false
	}
	depth := 0
	for i := 1; ; i++ {
		tok, ok := p.peekN(i)
		if !ok {
			return false
		}
		switch tok.Type {
		case lexer.TokenLBracket:
			depth++
		case lexer.TokenRBracket:
			depth--
			if depth == 0 {
				after, ok := p.peekN(i + 1)
				return ok && after.Type.IsAssignment()
			}
		}
	}
}

func (p *Parser) parseRef() (ast.Ref, error) {
	name, err := p.expect(lexer.TokenName)
	if err != nil {
		return nil, err
	}
	if !p.curTokenIs(lexer.TokenLBracket) {
		return &ast.VarRef{Name: name.Literal, Pos: tokPos(name)}, nil
	}
	p.pos++
	index, err := p.ParseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenRBracket); err != nil {
		return nil, err
	}
	return &ast.ArrayRef{Name: name.Literal, Index: index, Pos: tokPos(name)}, nil
}

func (p *Parser) parseAssignment() (*ast.Assignment, error) {
	target, err := p.parseRef()
	if err != nil {
		return nil, err
	}
	op, err := p.next()
	if err != nil {
		return nil, err
	}
	if !op.Type.IsAssignment() {
		return nil, diag.Unexpected(tokPos(op), lexer.TokenAssign.String(), op.Type.String())
	}
	expr, err := p.ParseExpr()
	if err != nil {
		return nil, err
	}
	return &ast.Assignment{Target: target, Op: op.Literal, Expr: expr, Pos: tokPos(op)}, nil
}

// parseVarDef parses `type name`, an optional `[len]` or `[]`, and an
// optional `= expr` or `= {expr, ...}`. The semicolon is left to the caller.
func (p *Parser) parseVarDef() (*ast.VarDef, error) {
	typ, first, err := p.parseBaseType()
	if err != nil {
		return nil, err
	}
	name, err := p.expect(lexer.TokenName)
	if err != nil {
		return nil, err
	}
	v := &ast.VarDef{Name: name.Literal, Type: typ, Pos: tokPos(first)}

	if p.curTokenIs(lexer.TokenLBracket) {
		p.pos++
		if p.curTokenIs(lexer.TokenRBracket) {
			v.LenKind = ast.LenInferred
		} else {
			v.LenKind = ast.LenExplicit
			if v.Len, err = p.ParseExpr(); err != nil {
				return nil, err
			}
		}
		if _, err := p.expect(lexer.TokenRBracket); err != nil {
			return nil, err
		}
	}

	if !p.curTokenIs(lexer.TokenAssign) {
		return v, nil
	}
	p.pos++
	if !p.curTokenIs(lexer.TokenLBrace) {
		if v.Default, err = p.ParseExpr(); err != nil {
			return nil, err
		}
		return v, nil
	}

	p.pos++
	init := &ast.ArrayInit{}
	for {
		elem, err := p.ParseExpr()
		if err != nil {
			return nil, err
		}
		init.Elems = append(init.Elems, elem)
		if !p.curTokenIs(lexer.TokenComma) {
			break
		}
		p.pos++
	}
	if _, err := p.expect(lexer.TokenRBrace); err != nil {
		return nil, err
	}
	v.Init = init
	return v, nil
}

func (p *Parser) parseCondition() (ast.Expr, error) {
	if _, err := p.expect(lexer.TokenLParen); err != nil {
		return nil, err
	}
	cond, err := p.ParseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenRParen); err != nil {
		return nil, err
	}
	return cond, nil
}

func (p *Parser) parseIf() (*ast.If, error) {
	tok, err := p.expect(lexer.TokenIf)
	if err != nil {
		return nil, err
	}
	s := &ast.If{Pos: tokPos(tok)}
	if s.Cond, err = p.parseCondition(); err != nil {
		return nil, err
	}
	if s.True, err = p.parseBody(); err != nil {
		return nil, err
	}
	if p.curTokenIs(lexer.TokenElse) {
		p.pos++
		if s.False, err = p.parseBody(); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (p *Parser) parseWhile() (*ast.While, error) {
	tok, err := p.expect(lexer.TokenWhile)
	if err != nil {
		return nil, err
	}
	s := &ast.While{Pos: tokPos(tok)}
	if s.Cond, err = p.parseCondition(); err != nil {
		return nil, err
	}
	if s.Body, err = p.parseBody(); err != nil {
		return nil, err
	}
	return s, nil
}

func (p *Parser) parseReturn() (*ast.Return, error) {
	tok, err := p.expect(lexer.TokenReturn)
	if err != nil {
		return nil, err
	}
	s := &ast.Return{Pos: tokPos(tok)}
	if p.curTokenIs(lexer.TokenSemicolon) {
		return s, nil
	}
	if s.Expr, err = p.ParseExpr(); err != nil {
		return nil, err
	}
	return s, nil
}

func (p *Parser) parseExprStmt() (*ast.ExprStmt, error) {
	first, _ := p.peekN(0)
	expr, err := p.ParseExpr()
	if err != nil {
		return nil, err
	}
	return &ast.ExprStmt{Expr: expr, Pos: tokPos(first)}, nil
}
