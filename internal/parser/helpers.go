package parser

import (
	"fmt"

	"qmk2zmk/internal/diag"
	"qmk2zmk/internal/source"
	"qmk2zmk/internal/token"
)

// advance - съедает следующий токен и обновляет lastSpan
func (p *Parser) advance() token.Token {
	tok := p.lx.Next()
	if tok.Kind != token.EOF && tok.Kind != token.Invalid {
		p.lastSpan = tok.Span
	}
	return tok
}

// diagnosticSpan - на EOF указываем сразу за последним съеденным токеном.
func (p *Parser) diagnosticSpan() source.Span {
	peek := p.lx.Peek()
	if peek.Kind == token.EOF && p.lastSpan.End > 0 {
		return source.Span{File: p.lastSpan.File, Start: p.lastSpan.End, End: p.lastSpan.End}
	}
	return peek.Span
}

func (p *Parser) describePeek() string {
	tok := p.lx.Peek()
	switch tok.Kind {
	case token.EOF:
		return "end of table"
	case token.String:
		return fmt.Sprintf("string %s", tok.Text)
	}
	return fmt.Sprintf("%q", tok.Text)
}

// expect - ожидаем конкретный токен. Если нет - репортим и возвращаем (invalid,false).
func (p *Parser) expect(k token.Kind, code diag.Code, msg string) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	sp := p.diagnosticSpan()
	p.report(code, sp, msg)
	return token.Token{Kind: token.Invalid, Span: sp, Text: p.lx.Peek().Text}, false
}

// репортует ошибку и передает текущий спан
func (p *Parser) err(code diag.Code, msg string) {
	p.report(code, p.diagnosticSpan(), msg)
}

func (p *Parser) report(code diag.Code, sp source.Span, msg string) {
	p.reportAt(code, sp, msg).Emit()
}

// reportAt считает ошибку и возвращает builder; после лимита builder пустой.
func (p *Parser) reportAt(code diag.Code, sp source.Span, msg string) *diag.ReportBuilder {
	p.opts.CurrentErrors++
	if p.opts.Reporter == nil || p.opts.Enough() && p.opts.CurrentErrors > p.opts.MaxErrors {
		return nil
	}
	return diag.ReportError(p.opts.Reporter, code, sp, msg)
}
