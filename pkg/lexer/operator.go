package lexer

import (
	"fmt"

	"github.com/raymyers/tinyc/pkg/diag"
)

// Fixity says how an operator binds its operands
type Fixity int

const (
	Binary Fixity = iota
	LeftUnary
	RightUnary
	// Grouping is used for parentheses and the stack sentinel
	Grouping
)

func (f Fixity) String() string {
	names := []string{"binary", "left-unary", "right-unary", "grouping"}
	if int(f) < len(names) {
		return names[f]
	}
	return "?"
}

// Precedence levels, higher binds tighter
const (
	PrecGroup    = 0
	PrecOr       = 9
	PrecAnd      = 10
	PrecBitOr    = 11
	PrecBitXor   = 12
	PrecBitAnd   = 13
	PrecEquality = 14
	PrecRelation = 15
	PrecShift    = 16
	PrecAdditive = 17
	PrecMultiply = 18
	PrecPrefix   = 19
	PrecPostfix  = 20
)

var binaryPrec = map[string]int{
	"*":  PrecMultiply,
	"/":  PrecMultiply,
	"%":  PrecMultiply,
	"<<": PrecShift,
	">>": PrecShift,
	"<":  PrecRelation,
	">":  PrecRelation,
	"<=": PrecRelation,
	">=": PrecRelation,
	"==": PrecEquality,
	"!=": PrecEquality,
	"&":  PrecBitAnd,
	"^":  PrecBitXor,
	"|":  PrecBitOr,
	"&&": PrecAnd,
	"||": PrecOr,
}

// Operator is the contextual classification of an operator token
type Operator struct {
	Symbol string
	Prec   int
	Fixity Fixity
}

func (o Operator) String() string {
	return fmt.Sprintf("%s(%d, %s)", o.Symbol, o.Prec, o.Fixity)
}

// Sentinel is the operator seeded at the bottom of the operator stack
var Sentinel = Operator{Symbol: "#", Prec: PrecGroup, Fixity: Grouping}

// Preceding describes the token before an operator. Fixity only matters when
// Type is an operator type.
type Preceding struct {
	Type   TokenType
	Fixity Fixity
}

// Start is the Preceding value at the beginning of an expression
var Start = Preceding{Type: TokenStart, Fixity: Grouping}

// Classify resolves the precedence and fixity of tok from the token that
// precedes it. `+ - ++ --` are lexically ambiguous, so their role depends on
// whether an operand or an operator came before.
func Classify(tok Token, prev Preceding) (Operator, error) {
	op := Operator{Symbol: tok.Literal}
	switch tok.Type {
	case TokenLParen, TokenRParen:
		op.Prec, op.Fixity = PrecGroup, Grouping
	case TokenCrement:
		if prev.Type == TokenCrement || prev.Type == TokenRParen {
			return op, diag.Unexpected(diag.Pos{Line: tok.Line, Column: tok.Column},
				"operand", fmt.Sprintf("%s after %s", tok.Literal, prev.Type))
		}
		if !prev.Type.IsOperator() {
			op.Prec, op.Fixity = PrecPostfix, RightUnary
		} else {
			op.Prec, op.Fixity = PrecPrefix, LeftUnary
		}
	case TokenPlusMinus:
		if prev.Type.IsOperator() && prev.Type != TokenRParen && prev.Fixity != RightUnary {
			op.Prec, op.Fixity = PrecPrefix, LeftUnary
		} else {
			op.Prec, op.Fixity = PrecAdditive, Binary
		}
	case TokenLogical, TokenBitwise, TokenShift, TokenRelation, TokenArith:
		if tok.Literal == "!" || tok.Literal == "~" {
			op.Prec, op.Fixity = PrecPrefix, LeftUnary
			break
		}
		prec, ok := binaryPrec[tok.Literal]
		if !ok {
			return op, diag.Internal("no precedence for operator %q", tok.Literal)
		}
		op.Prec, op.Fixity = prec, Binary
	default:
		return op, diag.Internal("%s is not an operator", tok.Type)
	}
	return op, nil
}
