package token

import (
	"strconv"
	"strings"

	"qmk2zmk/internal/source"
)

// Token represents a single source token with its location and trivia.
type Token struct {
	Kind    Kind
	Span    source.Span
	Text    string
	Leading []Trivia
}

// IsLiteral reports whether the token is a string or integer literal.
func (t Token) IsLiteral() bool {
	return t.Kind == String || t.Kind == Int
}

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }

// Value returns the unquoted contents of a String token and the raw text
// of any other token.
func (t Token) Value() string {
	if t.Kind != String {
		return t.Text
	}
	if s, err := strconv.Unquote(t.Text); err == nil {
		return s
	}
	return strings.Trim(t.Text, `"`)
}
