package lexer

import (
	"errors"
	"strings"
	"testing"

	"github.com/raymyers/tinyc/pkg/diag"
)

func TestTokenize(t *testing.T) {
	input := `int func(int a, int b) { func2(); }`

	tests := []struct {
		expectedType    TokenType
		expectedLiteral string
	}{
		{TokenBaseType, "int"},
		{TokenName, "func"},
		{TokenLParen, "("},
		{TokenBaseType, "int"},
		{TokenName, "a"},
		{TokenComma, ","},
		{TokenBaseType, "int"},
		{TokenName, "b"},
		{TokenRParen, ")"},
		{TokenLBrace, "{"},
		{TokenName, "func2"},
		{TokenLParen, "("},
		{TokenRParen, ")"},
		{TokenSemicolon, ";"},
		{TokenRBrace, "}"},
	}

	tokens, err := Tokenize(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tokens) != len(tests) {
		t.Fatalf("expected %d tokens, got %d", len(tests), len(tokens))
	}

	for i, tt := range tests {
		tok := tokens[i]

		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q, got=%q",
				i, tt.expectedType, tok.Type)
		}

		if tok.Literal != tt.expectedLiteral {
			t.Fatalf("tests[%d] - literal wrong. expected=%q, got=%q",
				i, tt.expectedLiteral, tok.Literal)
		}
	}
}

func TestTokenTypeNames(t *testing.T) {
	tokens, err := Tokenize(`int func(int a, int b) { func2(); }`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var names []string
	for _, tok := range tokens {
		names = append(names, tok.Type.String())
	}
	expected := "BASE_TYPE NAME O_PAREN BASE_TYPE NAME COMMA BASE_TYPE NAME C_PAREN O_BRAC NAME O_PAREN C_PAREN SEMICOLON C_BRAC"
	if got := strings.Join(names, " "); got != expected {
		t.Errorf("expected %q, got %q", expected, got)
	}
}

func TestOperators(t *testing.T) {
	input := `+ - * / % = == != < <= > >= && || ! & | ^ ~ << >> ++ -- += -= *= /= %= &= |= ^= <<= >>=`

	tests := []struct {
		expectedType    TokenType
		expectedLiteral string
	}{
		{TokenPlusMinus, "+"},
		{TokenPlusMinus, "-"},
		{TokenArith, "*"},
		{TokenArith, "/"},
		{TokenArith, "%"},
		{TokenAssign, "="},
		{TokenRelation, "=="},
		{TokenRelation, "!="},
		{TokenRelation, "<"},
		{TokenRelation, "<="},
		{TokenRelation, ">"},
		{TokenRelation, ">="},
		{TokenLogical, "&&"},
		{TokenLogical, "||"},
		{TokenLogical, "!"},
		{TokenBitwise, "&"},
		{TokenBitwise, "|"},
		{TokenBitwise, "^"},
		{TokenBitwise, "~"},
		{TokenShift, "<<"},
		{TokenShift, ">>"},
		{TokenCrement, "++"},
		{TokenCrement, "--"},
		{TokenAssignOp, "+="},
		{TokenAssignOp, "-="},
		{TokenAssignOp, "*="},
		{TokenAssignOp, "/="},
		{TokenAssignOp, "%="},
		{TokenAssignOp, "&="},
		{TokenAssignOp, "|="},
		{TokenAssignOp, "^="},
		{TokenAssignOp, "<<="},
		{TokenAssignOp, ">>="},
	}

	tokens, err := Tokenize(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tokens) != len(tests) {
		t.Fatalf("expected %d tokens, got %d", len(tests), len(tokens))
	}

	for i, tt := range tests {
		tok := tokens[i]

		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q, got=%q",
				i, tt.expectedType, tok.Type)
		}

		if tok.Literal != tt.expectedLiteral {
			t.Fatalf("tests[%d] - literal wrong. expected=%q, got=%q",
				i, tt.expectedLiteral, tok.Literal)
		}
	}
}

func TestKeywordsBeforeNames(t *testing.T) {
	tests := []struct {
		input        string
		expectedType TokenType
	}{
		{"return", TokenReturn},
		{"returned", TokenName},
		{"if", TokenIf},
		{"iffy", TokenName},
		{"else", TokenElse},
		{"while", TokenWhile},
		{"int", TokenBaseType},
		{"integer", TokenName},
		{"char", TokenBaseType},
		{"bool", TokenBaseType},
		{"void", TokenBaseType},
		{"true", TokenBoolean},
		{"false", TokenBoolean},
		{"NULL", TokenNull},
		{"_x1", TokenName},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens, err := Tokenize(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(tokens) != 1 {
				t.Fatalf("expected 1 token, got %d", len(tokens))
			}
			if tokens[0].Type != tt.expectedType {
				t.Errorf("expected %s, got %s", tt.expectedType, tokens[0].Type)
			}
		})
	}
}

func TestComments(t *testing.T) {
	input := `int // comment
main /* block
comment */ ()`

	tests := []struct {
		expectedType    TokenType
		expectedLiteral string
	}{
		{TokenBaseType, "int"},
		{TokenLineComment, "// comment"},
		{TokenName, "main"},
		{TokenBlockComment, "/* block\ncomment */"},
		{TokenLParen, "("},
		{TokenRParen, ")"},
	}

	tokens, err := Tokenize(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tokens) != len(tests) {
		t.Fatalf("expected %d tokens, got %d", len(tests), len(tokens))
	}

	for i, tt := range tests {
		tok := tokens[i]

		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q, got=%q",
				i, tt.expectedType, tok.Type)
		}

		if tok.Literal != tt.expectedLiteral {
			t.Fatalf("tests[%d] - literal wrong. expected=%q, got=%q",
				i, tt.expectedLiteral, tok.Literal)
		}
	}
}

func TestBlockCommentIsNonGreedy(t *testing.T) {
	tokens, err := Tokenize("/* a */ x /* b */")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tokens) != 3 {
		t.Fatalf("expected 3 tokens, got %d", len(tokens))
	}
	if tokens[1].Type != TokenName || tokens[1].Literal != "x" {
		t.Errorf("expected NAME x, got %s %q", tokens[1].Type, tokens[1].Literal)
	}
}

func TestStringsAndCharacters(t *testing.T) {
	tests := []struct {
		input    string
		expected []Token
	}{
		{
			` "sfe 'ewr' wer 123"` + "\n" + `123 de 'd' `,
			[]Token{
				{Type: TokenString, Literal: `"sfe 'ewr' wer 123"`},
				{Type: TokenNumeric, Literal: "123"},
				{Type: TokenName, Literal: "de"},
				{Type: TokenCharacter, Literal: "'d'"},
			},
		},
		{
			`'\0' '\\' '\n' '\t'`,
			[]Token{
				{Type: TokenCharacter, Literal: `'\0'`},
				{Type: TokenCharacter, Literal: `'\\'`},
				{Type: TokenCharacter, Literal: `'\n'`},
				{Type: TokenCharacter, Literal: `'\t'`},
			},
		},
		{
			`'' c`,
			[]Token{
				{Type: TokenCharacter, Literal: `''`},
				{Type: TokenName, Literal: "c"},
			},
		},
		{
			`"a \"quoted\" word"`,
			[]Token{{Type: TokenString, Literal: `"a \"quoted\" word"`}},
		},
		{
			"123 t34\n56",
			[]Token{
				{Type: TokenNumeric, Literal: "123"},
				{Type: TokenName, Literal: "t34"},
				{Type: TokenNumeric, Literal: "56"},
			},
		},
	}

	for i, tt := range tests {
		tokens, err := Tokenize(tt.input)
		if err != nil {
			t.Fatalf("tests[%d] - unexpected error: %v", i, err)
		}
		if len(tokens) != len(tt.expected) {
			t.Fatalf("tests[%d] - expected %d tokens, got %d", i, len(tt.expected), len(tokens))
		}
		for j, want := range tt.expected {
			if !tokens[j].Equal(want) {
				t.Errorf("tests[%d][%d] - expected %s %q, got %s %q",
					i, j, want.Type, want.Literal, tokens[j].Type, tokens[j].Literal)
			}
		}
	}
}

func TestTokenizeFailures(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"string across newline", "\"sdfe\nsdfef; eff\""},
		{"single quoted string", `'sfe "ewr" wer 123' 123`},
		{"float", "123.4567"},
		{"unknown character", "int x = 1 @ 2;"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := Tokenize(tt.input)
			if err == nil {
				t.Fatalf("expected error, got tokens %v", tokens)
			}
			if tokens != nil {
				t.Errorf("expected no partial result, got %v", tokens)
			}
			var de *diag.Error
			if !errors.As(err, &de) {
				t.Fatalf("expected *diag.Error, got %T", err)
			}
			if de.Kind != diag.KindTokenize {
				t.Errorf("expected Tokenize kind, got %s", de.Kind)
			}
			if de.Remainder == "" {
				t.Error("expected the unmatched remainder to be recorded")
			}
		})
	}
}

func TestPositions(t *testing.T) {
	tokens, err := Tokenize("int main() {\n  return 1;\n}")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ret := tokens[5]
	if ret.Type != TokenReturn {
		t.Fatalf("expected RETURN, got %s", ret.Type)
	}
	if ret.Line != 2 || ret.Column != 3 {
		t.Errorf("expected position 2:3, got %d:%d", ret.Line, ret.Column)
	}
}

// Joining token text with single spaces and lexing again gives the same tokens.
func TestRetokenizeJoined(t *testing.T) {
	inputs := []string{
		`int func(int a, int b) { func2(); }`,
		`int main() { int x = -1 - -2; x += 3; return x++ + ++x; }`,
		`bool f(char c) { if (c == '\n' || c != 'a') { return !true; } return a[2] <= b >> 1; }`,
		`void g() { printf("%d items\n", n); while (i < 10) i++; }`,
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			first, err := Tokenize(input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			texts := make([]string, len(first))
			for i, tok := range first {
				texts[i] = tok.Literal
			}
			second, err := Tokenize(strings.Join(texts, " "))
			if err != nil {
				t.Fatalf("unexpected error re-lexing: %v", err)
			}
			if len(first) != len(second) {
				t.Fatalf("expected %d tokens, got %d", len(first), len(second))
			}
			for i := range first {
				if !first[i].Equal(second[i]) {
					t.Errorf("token %d: %s %q != %s %q", i,
						first[i].Type, first[i].Literal, second[i].Type, second[i].Literal)
				}
			}
		})
	}
}
