// Package parser is a recursive-descent parser over the rewritten keymaps
// table. Grammar:
//
//	file = [ expr { "," expr } [ "," ] ] EOF
//	expr = Ident "(" [ expr { "," expr } [ "," ] ] ")" | Ident | String | Int
//
// It never evaluates anything: the result is plain ast.Expr values that
// internal/keymap turns into layers.
package parser

import (
	"fmt"
	"strconv"

	"qmk2zmk/internal/ast"
	"qmk2zmk/internal/diag"
	"qmk2zmk/internal/lexer"
	"qmk2zmk/internal/source"
	"qmk2zmk/internal/token"
)

type Options struct {
	MaxErrors     uint
	CurrentErrors uint
	Reporter      diag.Reporter
}

// Enough - проверить, достигли ли мы максимального количества ошибок
func (o *Options) Enough() bool {
	if o.MaxErrors == 0 {
		return false
	}
	return o.CurrentErrors >= o.MaxErrors
}

type Result struct {
	Exprs  []ast.Expr
	Errors uint
}

// Parser - состояние парсера на один файл
type Parser struct {
	lx       *lexer.Lexer
	opts     Options
	lastSpan source.Span // span последнего съеденного токена для лучшей диагностики
}

// ParseFile разбирает весь поток токенов lx.
func ParseFile(lx *lexer.Lexer, opts Options) Result {
	p := Parser{lx: lx, opts: opts}
	exprs := p.parseTop()
	return Result{Exprs: exprs, Errors: p.opts.CurrentErrors}
}

func (p *Parser) at(k token.Kind) bool {
	return p.lx.Peek().Kind == k
}

// parseTop - список выражений через запятую до EOF, висячая запятая допустима.
func (p *Parser) parseTop() []ast.Expr {
	var out []ast.Expr
	for !p.at(token.EOF) {
		if p.opts.Enough() {
			return out
		}
		e, ok := p.parseExpr()
		if !ok {
			p.resyncTop()
			continue
		}
		out = append(out, e)
		if p.at(token.EOF) {
			break
		}
		if _, ok := p.expect(token.Comma, diag.SynExpectComma, fmt.Sprintf("expected ',' between layers, got %s", p.describePeek())); !ok {
			p.resyncTop()
		}
	}
	return out
}

func (p *Parser) parseExpr() (ast.Expr, bool) {
	tok := p.lx.Peek()
	switch tok.Kind {
	case token.Ident:
		p.advance()
		if p.at(token.LParen) {
			return p.parseCall(tok)
		}
		return &ast.Ident{Name: tok.Text, Sp: tok.Span}, true
	case token.String:
		p.advance()
		return &ast.String{Value: tok.Value(), Sp: tok.Span}, true
	case token.Int:
		p.advance()
		n, err := strconv.Atoi(tok.Text)
		if err != nil {
			p.report(diag.LexBadNumber, tok.Span, fmt.Sprintf("integer %s out of range", tok.Text))
			return nil, false
		}
		return &ast.Int{Value: n, Sp: tok.Span}, true
	case token.Invalid:
		// лексер уже отрепортил
		p.advance()
		p.opts.CurrentErrors++
		return nil, false
	}
	p.err(diag.SynExpectExpr, fmt.Sprintf("expected key, layer or constructor call, got %s", p.describePeek()))
	return nil, false
}

func (p *Parser) parseCall(name token.Token) (ast.Expr, bool) {
	open := p.advance() // '('
	call := &ast.Call{Name: name.Text, NameSpan: name.Span}
	for !p.at(token.RParen) {
		arg, ok := p.parseExpr()
		if !ok {
			p.skipToClose()
			return nil, false
		}
		call.Args = append(call.Args, arg)
		if p.at(token.Comma) {
			p.advance()
			continue
		}
		if !p.at(token.RParen) {
			p.reportAt(diag.SynExpectRParen, p.diagnosticSpan(),
				fmt.Sprintf("expected ',' or ')' in %s(...), got %s", name.Text, p.describePeek())).
				WithNote(open.Span, "call opened here").Emit()
			p.skipToClose()
			return nil, false
		}
	}
	closing := p.advance()
	call.Sp = name.Span.Cover(closing.Span)
	return call, true
}

// skipToClose съедает токены до ')' текущего вызова включительно.
func (p *Parser) skipToClose() {
	depth := 0
	for {
		switch p.lx.Peek().Kind {
		case token.EOF:
			return
		case token.LParen:
			depth++
		case token.RParen:
			if depth == 0 {
				p.advance()
				return
			}
			depth--
		}
		p.advance()
	}
}

// resyncTop прокручивает до запятой верхнего уровня или EOF.
func (p *Parser) resyncTop() {
	depth := 0
	for {
		switch p.lx.Peek().Kind {
		case token.EOF:
			return
		case token.LParen:
			depth++
		case token.RParen:
			if depth > 0 {
				depth--
			}
		case token.Comma:
			if depth == 0 {
				p.advance()
				return
			}
		}
		p.advance()
	}
}
