// Package ast holds the syntax tree of the rewritten keymaps table: a flat
// list of nested constructor calls over string, integer and identifier
// leaves. It carries no keymap semantics; see internal/keymap for that.
package ast

import (
	"strconv"
	"strings"

	"qmk2zmk/internal/source"
)

// Expr is one of *Call, *String, *Int or *Ident.
type Expr interface {
	Span() source.Span
	exprNode()
}

// Call is Name(Args...).
type Call struct {
	Name     string
	NameSpan source.Span
	Args     []Expr
	Sp       source.Span
}

// String is a quoted literal; Value is unquoted.
type String struct {
	Value string
	Sp    source.Span
}

// Int is a decimal integer literal.
type Int struct {
	Value int
	Sp    source.Span
}

// Ident is a bare identifier used as a value.
type Ident struct {
	Name string
	Sp   source.Span
}

func (e *Call) Span() source.Span   { return e.Sp }
func (e *String) Span() source.Span { return e.Sp }
func (e *Int) Span() source.Span    { return e.Sp }
func (e *Ident) Span() source.Span  { return e.Sp }

func (*Call) exprNode()   {}
func (*String) exprNode() {}
func (*Int) exprNode()    {}
func (*Ident) exprNode()  {}

// Format renders e back as compact constructor syntax.
func Format(e Expr) string {
	var sb strings.Builder
	format(&sb, e)
	return sb.String()
}

func format(sb *strings.Builder, e Expr) {
	switch n := e.(type) {
	case *Call:
		sb.WriteString(n.Name)
		sb.WriteByte('(')
		for i, a := range n.Args {
			if i > 0 {
				sb.WriteString(", ")
			}
			format(sb, a)
		}
		sb.WriteByte(')')
	case *String:
		sb.WriteString(strconv.Quote(n.Value))
	case *Int:
		sb.WriteString(strconv.Itoa(n.Value))
	case *Ident:
		sb.WriteString(n.Name)
	case nil:
		sb.WriteString("<nil>")
	}
}

// Describe names the shape of e for diagnostics ("string", "call MO", ...).
func Describe(e Expr) string {
	switch n := e.(type) {
	case *Call:
		return "call " + n.Name
	case *String:
		return "string " + strconv.Quote(n.Value)
	case *Int:
		return "integer " + strconv.Itoa(n.Value)
	case *Ident:
		return "identifier " + n.Name
	}
	return "nothing"
}
