// Package lexer converts source text into tokens by ordered pattern matching
package lexer

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/raymyers/tinyc/pkg/diag"
)

type pattern struct {
	typ TokenType
	re  *regexp.Regexp
}

func mustPattern(typ TokenType, expr string) pattern {
	return pattern{typ: typ, re: regexp.MustCompile(`^(?:` + expr + `)`)}
}

// patterns is tried top to bottom and the first match wins. Keywords must
// come before NAME and multi-character operators before their prefixes,
// otherwise `return` lexes as a name and `==` as two assignments.
var patterns = []pattern{
	mustPattern(TokenString, `"(?:[^"\\\n]|\\[^\n])*"`),
	mustPattern(TokenCharacter, `'(?:\\[0nrt\\'"]|[^\n\\'])?'`),
	mustPattern(TokenNumeric, `[0-9]+\b`),
	mustPattern(TokenBoolean, `(?:true|false)\b`),
	mustPattern(TokenNull, `NULL\b`),
	mustPattern(TokenBaseType, `(?:int|char|bool|void)\b`),
	mustPattern(TokenReturn, `return\b`),
	mustPattern(TokenIf, `if\b`),
	mustPattern(TokenElse, `else\b`),
	mustPattern(TokenWhile, `while\b`),
	mustPattern(TokenLParen, `\(`),
	mustPattern(TokenRParen, `\)`),
	mustPattern(TokenLBrace, `\{`),
	mustPattern(TokenRBrace, `\}`),
	mustPattern(TokenLBracket, `\[`),
	mustPattern(TokenRBracket, `\]`),
	mustPattern(TokenLineComment, `//[^\n]*`),
	mustPattern(TokenBlockComment, `(?s)/\*.*?\*/`),
	mustPattern(TokenCrement, `\+\+|--`),
	mustPattern(TokenAssignOp, `<<=|>>=|\+=|-=|\*=|/=|%=|&=|\|=|\^=`),
	mustPattern(TokenShift, `<<|>>`),
	mustPattern(TokenRelation, `==|!=|>=|<=|>|<`),
	mustPattern(TokenLogical, `&&|\|\||!`),
	mustPattern(TokenBitwise, `&|\||\^|~`),
	mustPattern(TokenAssign, `=`),
	mustPattern(TokenArith, `\*|/|%`),
	mustPattern(TokenPlusMinus, `\+|-`),
	mustPattern(TokenComma, `,`),
	mustPattern(TokenSemicolon, `;`),
	mustPattern(TokenName, `[a-zA-Z_][a-zA-Z0-9_]*`),
}

// Lexer tokenizes source code
type Lexer struct {
	input  string
	pos    int // current position in input
	line   int
	column int
}

// New creates a new Lexer for the given input
func New(input string) *Lexer {
	return &Lexer{input: input, line: 1, column: 1}
}

// advance consumes n bytes, keeping line and column current
func (l *Lexer) advance(n int) {
	for _, ch := range l.input[l.pos : l.pos+n] {
		if ch == '\n' {
			l.line++
			l.column = 1
		} else {
			l.column++
		}
	}
	l.pos += n
}

func (l *Lexer) skipWhitespace() {
	rest := l.input[l.pos:]
	trimmed := strings.TrimLeftFunc(rest, unicode.IsSpace)
	l.advance(len(rest) - len(trimmed))
}

// More reports whether any non-whitespace input is left
func (l *Lexer) More() bool {
	l.skipWhitespace()
	return l.pos < len(l.input)
}

// NextToken matches one token at the current position. Callers check More first.
func (l *Lexer) NextToken() (Token, error) {
	l.skipWhitespace()
	rest := l.input[l.pos:]
	for _, p := range patterns {
		loc := p.re.FindStringIndex(rest)
		if loc == nil {
			continue
		}
		tok := Token{Type: p.typ, Literal: rest[:loc[1]], Line: l.line, Column: l.column}
		l.advance(loc[1])
		return tok, nil
	}
	return Token{}, diag.Tokenize(diag.Pos{Line: l.line, Column: l.column}, rest)
}

// Tokenize converts the whole source into tokens. There is no partial result:
// any unmatched input fails the call.
func Tokenize(source string) ([]Token, error) {
	l := New(source)
	var tokens []Token
	for l.More() {
		tok, err := l.NextToken()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
	}
	return tokens, nil
}
