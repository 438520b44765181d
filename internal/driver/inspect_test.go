package driver

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qmk2zmk/internal/source"
	"qmk2zmk/internal/token"
)

func evaluated(t *testing.T) *Result {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("keymap.c", []byte(readFixture(t, "ergodox.keymap.c")))
	res := Run(context.Background(), fs, []source.FileID{id}, DefaultOptions(), StageEval)
	require.True(t, res.OK())
	require.Equal(t, StageEval, res.Reached)
	assert.Nil(t, res.Blocks)
	return res
}

func TestBuildModel(t *testing.T) {
	m := BuildModel(evaluated(t), DefaultOptions())
	assert.Equal(t, "keymap.c", m.Source)
	assert.Equal(t, uint32(18), m.StartLine)
	assert.Equal(t, "mod", m.ModLayer)
	require.Len(t, m.Layers, 3)
	assert.Equal(t, []string{"default_layer", "umlt", "fn"},
		[]string{m.Layers[0].Name, m.Layers[1].Name, m.Layers[2].Name})
	assert.Len(t, m.Layers[0].Bindings, 76)
	assert.Equal(t, "toggle", m.Layers[0].Bindings[20].Kind)
	assert.Equal(t, "umlt", m.Layers[0].Bindings[20].Layer)
	assert.Nil(t, m.Timing)
}

func TestEncodeModel(t *testing.T) {
	m := BuildModel(evaluated(t), DefaultOptions())

	var js bytes.Buffer
	require.NoError(t, EncodeModel(&js, m, "json"))
	var back Model
	require.NoError(t, json.Unmarshal(js.Bytes(), &back))
	assert.Equal(t, m, back)

	var mp bytes.Buffer
	require.NoError(t, EncodeModel(&mp, m, "msgpack"))
	decoded, err := DecodeModel(&mp)
	require.NoError(t, err)
	assert.Equal(t, m, decoded)

	assert.Error(t, EncodeModel(&bytes.Buffer{}, m, "yaml"))
}

func TestTokenize(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("keymap.c", []byte("keymaps[] = {\n  [0] = LAYOUT_ergodox_pretty(KC_A, MO(1)),\n};\n"))
	res, toks := Tokenize(context.Background(), fs, []source.FileID{id}, DefaultOptions())
	require.True(t, res.OK())
	kinds := make([]token.Kind, 0, len(toks))
	for _, tok := range toks {
		kinds = append(kinds, tok.Kind)
	}
	assert.Equal(t, []token.Kind{
		token.Ident, token.LParen, token.Int, token.Comma,
		token.String, token.Comma,
		token.Ident, token.LParen, token.Int, token.RParen,
		token.RParen, token.Comma, token.EOF,
	}, kinds)

	_, pos := fs.Locate(toks[4].Span)
	assert.Equal(t, uint32(2), pos.Line)

	res, toks = Tokenize(context.Background(), fs, nil, DefaultOptions())
	assert.False(t, res.OK())
	assert.Nil(t, toks)
}
