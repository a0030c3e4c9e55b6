package lexer

// TokenType represents the type of a token
type TokenType int

const (
	// Literals
	TokenString    TokenType = iota // "hello"
	TokenCharacter                  // 'a'
	TokenNumeric                    // 42
	TokenBoolean                    // true false
	TokenNull                       // NULL

	// Keywords
	TokenBaseType // int char bool void
	TokenReturn   // return
	TokenIf       // if
	TokenElse     // else
	TokenWhile    // while

	// Delimiters
	TokenLParen   // (
	TokenRParen   // )
	TokenLBrace   // {
	TokenRBrace   // }
	TokenLBracket // [
	TokenRBracket // ]

	// Comments
	TokenLineComment  // // ...
	TokenBlockComment // /* ... */

	// Operators
	TokenCrement   // ++ --
	TokenShift     // << >>
	TokenRelation  // == != >= <= > <
	TokenLogical   // && || !
	TokenBitwise   // & | ^ ~
	TokenArith     // * / %
	TokenPlusMinus // + -

	// Assignment
	TokenAssignOp // += -= *= /= %= &= |= ^= <<= >>=
	TokenAssign   // =

	TokenComma     // ,
	TokenSemicolon // ;
	TokenName      // main, foo, x

	// TokenStart never comes out of the lexer. It stands for the sentinel at
	// the bottom of the expression parser's operator stack.
	TokenStart
)

var tokenNames = map[TokenType]string{
	TokenString:       "STRING",
	TokenCharacter:    "CHARACTER",
	TokenNumeric:      "NUMERIC",
	TokenBoolean:      "BOOLEAN",
	TokenNull:         "NULL",
	TokenBaseType:     "BASE_TYPE",
	TokenReturn:       "RETURN",
	TokenIf:           "IF",
	TokenElse:         "ELSE",
	TokenWhile:        "WHILE",
	TokenLParen:       "O_PAREN",
	TokenRParen:       "C_PAREN",
	TokenLBrace:       "O_BRAC",
	TokenRBrace:       "C_BRAC",
	TokenLBracket:     "O_SQ_BRAC",
	TokenRBracket:     "C_SQ_BRAC",
	TokenLineComment:  "S_COMMENT",
	TokenBlockComment: "M_COMMENT",
	TokenCrement:      "CREMENT_OP",
	TokenShift:        "SHIFT_OP",
	TokenRelation:     "RELA_OP",
	TokenLogical:      "LOGICAL_OP",
	TokenBitwise:      "BITWISE_OP",
	TokenArith:        "ARITH_OP",
	TokenPlusMinus:    "PLUS_MINUS_OP",
	TokenAssignOp:     "ASSIGN_OP",
	TokenAssign:       "EQ_ASSIGN_OP",
	TokenComma:        "COMMA",
	TokenSemicolon:    "SEMICOLON",
	TokenName:         "NAME",
	TokenStart:        "START",
}

func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return "UNKNOWN"
}

// IsLiteral reports whether tokens of this type become Literal nodes
func (t TokenType) IsLiteral() bool {
	switch t {
	case TokenString, TokenCharacter, TokenNumeric, TokenBoolean, TokenNull:
		return true
	}
	return false
}

// IsComment reports whether the parser should skip tokens of this type
func (t TokenType) IsComment() bool {
	return t == TokenLineComment || t == TokenBlockComment
}

// IsOperator reports whether the expression parser treats the type as an
// operator. Parentheses and the stack sentinel count as operators.
func (t TokenType) IsOperator() bool {
	switch t {
	case TokenLParen, TokenRParen, TokenCrement, TokenShift, TokenRelation,
		TokenLogical, TokenBitwise, TokenArith, TokenPlusMinus, TokenStart:
		return true
	}
	return false
}

// IsAssignment reports whether the type starts the right-hand side of an assignment
func (t TokenType) IsAssignment() bool {
	return t == TokenAssign || t == TokenAssignOp
}

// Token represents a lexical token
type Token struct {
	Type    TokenType
	Literal string
	Line    int
	Column  int
}

// Equal compares kind and text, ignoring position
func (t Token) Equal(o Token) bool {
	return t.Type == o.Type && t.Literal == o.Literal
}
