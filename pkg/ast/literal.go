package ast

import (
	"fmt"
	"strings"
)

// escapes lists the backslash sequences understood inside string and
// character literals
var escapes = map[byte]byte{
	'0':  0,
	'n':  '\n',
	't':  '\t',
	'r':  '\r',
	'\\': '\\',
	'\'': '\'',
	'"':  '"',
}

// Unescape decodes the body of a quoted literal, without its quotes
func Unescape(body string) (string, error) {
	if !strings.Contains(body, `\`) {
		return body, nil
	}
	var sb strings.Builder
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' {
			sb.WriteByte(c)
			continue
		}
		if i+1 >= len(body) {
			return "", fmt.Errorf("trailing backslash in %q", body)
		}
		i++
		r, ok := escapes[body[i]]
		if !ok {
			return "", fmt.Errorf("unknown escape \\%c", body[i])
		}
		sb.WriteByte(r)
	}
	return sb.String(), nil
}

func escapeByte(sb *strings.Builder, c byte, quote byte) {
	switch c {
	case 0:
		sb.WriteString(`\0`)
	case '\n':
		sb.WriteString(`\n`)
	case '\t':
		sb.WriteString(`\t`)
	case '\r':
		sb.WriteString(`\r`)
	case '\\':
		sb.WriteString(`\\`)
	case quote:
		sb.WriteByte('\\')
		sb.WriteByte(c)
	default:
		sb.WriteByte(c)
	}
}

// QuoteString renders s as a string literal the lexer accepts
func QuoteString(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for i := 0; i < len(s); i++ {
		escapeByte(&sb, s[i], '"')
	}
	sb.WriteByte('"')
	return sb.String()
}

// QuoteChar renders c as a character literal the lexer accepts
func QuoteChar(c byte) string {
	var sb strings.Builder
	sb.WriteByte('\'')
	escapeByte(&sb, c, '\'')
	sb.WriteByte('\'')
	return sb.String()
}
