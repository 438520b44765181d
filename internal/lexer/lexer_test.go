package lexer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qmk2zmk/internal/diag"
	"qmk2zmk/internal/lexer"
	"qmk2zmk/internal/source"
	"qmk2zmk/internal/token"
)

// makeTestLexer создаёт лексер для тестовой строки
func makeTestLexer(input string) (*lexer.Lexer, *diag.Bag) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.c", []byte(input)))
	bag := diag.NewBag(0)
	return lexer.New(file, lexer.Options{Reporter: diag.BagReporter{Bag: bag}}), bag
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, 0, len(toks))
	for _, tok := range toks {
		out = append(out, tok.Kind)
	}
	return out
}

func TestTokenShapes(t *testing.T) {
	lx, bag := makeTestLexer(`Layer(0, "KC_A", MT("LCTL", "KC_B"),)`)
	toks := lx.All()
	require.Zero(t, bag.Len())
	assert.Equal(t, []token.Kind{
		token.Ident, token.LParen, token.Int, token.Comma, token.String, token.Comma,
		token.Ident, token.LParen, token.String, token.Comma, token.String, token.RParen,
		token.Comma, token.RParen, token.EOF,
	}, kinds(toks))
	assert.Equal(t, "Layer", toks[0].Text)
	assert.Equal(t, "KC_A", toks[4].Value())
	assert.Equal(t, uint32(9), toks[4].Span.Start)
}

func TestCommentsAreTrivia(t *testing.T) {
	lx, bag := makeTestLexer("// layer 0\nMO(1) /* hold */ ,\n")
	toks := lx.All()
	require.Zero(t, bag.Len())
	assert.Equal(t, []token.Kind{token.Ident, token.LParen, token.Int, token.RParen, token.Comma, token.EOF}, kinds(toks))

	lead := toks[0].Leading
	require.Len(t, lead, 2)
	assert.Equal(t, token.TriviaLineComment, lead[0].Kind)
	assert.Equal(t, token.TriviaNewline, lead[1].Kind)
	assert.Equal(t, token.TriviaBlockComment, toks[4].Leading[1].Kind)
}

func TestPeekDoesNotConsume(t *testing.T) {
	lx, _ := makeTestLexer("TG(2)")
	assert.Equal(t, token.Ident, lx.Peek().Kind)
	assert.Equal(t, "TG", lx.Next().Text)
	assert.Equal(t, token.LParen, lx.Next().Kind)
}

func TestLexErrors(t *testing.T) {
	cases := []struct {
		name string
		in   string
		code diag.Code
	}{
		{"unknown char", "KC_A = 1", diag.LexUnknownChar},
		{"unterminated string", `"KC_A`, diag.LexUnterminatedString},
		{"newline in string", "\"KC_A\n\"", diag.LexUnterminatedString},
		{"bad number", "12abc", diag.LexBadNumber},
		{"unterminated comment", "/* never closed", diag.LexUnterminatedBlock},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			lx, bag := makeTestLexer(tc.in)
			lx.All()
			require.True(t, bag.HasErrors())
			assert.Equal(t, tc.code, bag.Items()[0].Code)
		})
	}
}
