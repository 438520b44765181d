package zmk_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qmk2zmk/internal/diag"
	"qmk2zmk/internal/keycode"
	"qmk2zmk/internal/keymap"
	"qmk2zmk/internal/source"
	"qmk2zmk/internal/zmk"
)

func keys(n int, code string) []keymap.Binding {
	out := make([]keymap.Binding, n)
	for i := range out {
		out[i] = keymap.Key{Code: code}
	}
	return out
}

func layerOf(id keymap.LayerRef, bindings []keymap.Binding) keymap.Layer {
	return keymap.Layer{ID: id, Bindings: bindings, Span: source.Span{Start: 1, End: 2}}
}

func defaultRenderer(opts ...func(*zmk.Options)) *zmk.Renderer {
	o := zmk.DefaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	return zmk.NewRenderer(keymap.DefaultLayerTable(), keycode.Default, o)
}

func TestRenderMinimalLayer(t *testing.T) {
	r := defaultRenderer()
	block, err := r.Render(layerOf(keymap.IndexRef(0), keys(zmk.LayerBindings, "KC_A")))
	require.NoError(t, err)

	lines := strings.Split(block, "\n")
	require.Len(t, lines, 2+zmk.Rows+2)
	assert.Equal(t, "    default_layer {", lines[0])
	assert.Equal(t, "      bindings = <", lines[1])
	assert.Equal(t, "      >;", lines[2+zmk.Rows])
	assert.Equal(t, "    };", lines[3+zmk.Rows])

	for _, row := range lines[2 : 2+zmk.Rows] {
		// every cell fits, so the row is exactly 2*Width columns
		assert.Len(t, row, 2*zmk.Width*zmk.DefaultColumnWidth)
	}
}

func cellsOf(row string, width int) []string {
	out := make([]string, 0, len(row)/width)
	for i := 0; i+width <= len(row); i += width {
		out = append(out, strings.TrimSpace(row[i:i+width]))
	}
	return out
}

// gridRows returns the five binding lines of the rendered block.
func gridRows(t *testing.T, r *zmk.Renderer, l keymap.Layer) []string {
	t.Helper()
	block, err := r.Render(l)
	require.NoError(t, err)
	lines := strings.Split(block, "\n")
	require.Len(t, lines, zmk.Rows+4)
	return lines[2 : 2+zmk.Rows]
}

func TestRenderOverrides(t *testing.T) {
	r := defaultRenderer()
	rows := gridRows(t, r, layerOf(keymap.IndexRef(1), keys(zmk.LayerBindings, "KC_A")))

	grid := make([][]string, len(rows))
	for i, row := range rows {
		grid[i] = cellsOf(row, zmk.DefaultColumnWidth)
		require.Len(t, grid[i], 2*zmk.Width)
	}

	assert.Equal(t, "&mo mod", grid[4][0])
	assert.Equal(t, "&mo mod", grid[4][2*zmk.Width-1])
	for _, p := range []zmk.Position{
		zmk.LeftWristInner, zmk.LeftWristGap, zmk.LeftWristEdge,
		zmk.RightWristEdge, zmk.RightWristGap, zmk.RightWristInner,
		zmk.LeftHomeGap, zmk.RightHomeGap,
	} {
		col, err := p.Column()
		require.NoError(t, err)
		assert.Equal(t, "&none", grid[p.Row][col], p.String())
	}
	assert.Equal(t, "&kp A", grid[0][0])
	assert.Equal(t, "", grid[0][7])
}

func TestRenderBindingVariants(t *testing.T) {
	bindings := keys(zmk.LayerBindings, "KC_TRANSPARENT")
	bindings[0] = keymap.ModTap{Mod: "LCTL", Code: "KC_SCOLON"}
	bindings[1] = keymap.Momentary{Layer: keymap.IndexRef(2)}
	bindings[2] = keymap.Toggle{Layer: keymap.NameRef("TIC_TAC_TOE_LAYER")}
	bindings[3] = keymap.TapDance{Code: "DANCE_0"}
	bindings[4] = keymap.RightCtrl{Code: "KC_ESCAPE"}
	bindings[5] = keymap.Key{Code: "KC_1"}

	r := defaultRenderer()
	rows := gridRows(t, r, layerOf(keymap.NameRef("custom"), bindings))
	assert.True(t, strings.HasPrefix(rows[0],
		"&mt LCTRL SEMI &mo fn      &tog TIC_TAC_TOE_LAYER &none       &kp RCTRL   &kp N1      &trans      "))
}

func TestRenderNamedLayer(t *testing.T) {
	r := defaultRenderer(func(o *zmk.Options) { o.Indent = 2 })
	block, err := r.Render(layerOf(keymap.NameRef("gaming"), keys(zmk.LayerBindings, "KC_B")))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(block, "  gaming {\n    bindings = <\n&kp B"))
	assert.True(t, strings.HasSuffix(block, "\n    >;\n  };"))
}

func TestRenderCustomLayerTable(t *testing.T) {
	tbl := keymap.NewLayerTable([]string{"base", "sym"}, "hyper")
	r := zmk.NewRenderer(tbl, nil, zmk.DefaultOptions())
	bindings := keys(zmk.LayerBindings, "KC_A")
	bindings[1] = keymap.Momentary{Layer: keymap.IndexRef(1)}
	block, err := r.Render(layerOf(keymap.IndexRef(0), bindings))
	require.NoError(t, err)
	assert.Contains(t, block, "    base {")
	assert.Contains(t, block, "&mo sym")
	assert.Contains(t, block, "&mo hyper")
	assert.NotContains(t, block, "&mo mod")
}

func TestRenderErrors(t *testing.T) {
	tests := []struct {
		name    string
		layer   keymap.Layer
		code    diag.Code
		wantMsg string
	}{
		{
			name:    "unmapped key",
			layer:   layerOf(keymap.IndexRef(0), append(keys(zmk.LayerBindings-1, "KC_A"), keymap.Key{Code: "KC_UNKNOWN_TOKEN"})),
			code:    diag.KeyUnmapped,
			wantMsg: "KC_UNKNOWN_TOKEN",
		},
		{
			name:    "media key",
			layer:   layerOf(keymap.IndexRef(0), append(keys(zmk.LayerBindings-1, "KC_A"), keymap.Key{Code: "KC_MEDIA_STOP"})),
			code:    diag.KeyUnmappedMedia,
			wantMsg: "KC_MEDIA_STOP",
		},
		{
			name:    "mod-tap on transparent",
			layer:   layerOf(keymap.IndexRef(0), append(keys(zmk.LayerBindings-1, "KC_A"), keymap.ModTap{Mod: "LCTL", Code: "KC_TRANSPARENT"})),
			code:    diag.KeyBadModTap,
			wantMsg: "not a key press",
		},
		{
			name:    "unknown modifier",
			layer:   layerOf(keymap.IndexRef(0), append(keys(zmk.LayerBindings-1, "KC_A"), keymap.ModTap{Mod: "MEH", Code: "KC_A"})),
			code:    diag.KeyUnknownMod,
			wantMsg: "MEH",
		},
		{
			name:    "momentary to unknown index",
			layer:   layerOf(keymap.IndexRef(0), append(keys(zmk.LayerBindings-1, "KC_A"), keymap.Momentary{Layer: keymap.IndexRef(9)})),
			code:    diag.RenderUnknownLayer,
			wantMsg: "9",
		},
		{
			name:    "unknown layer index",
			layer:   layerOf(keymap.IndexRef(3), keys(zmk.LayerBindings, "KC_A")),
			code:    diag.RenderUnknownLayer,
			wantMsg: "default_layer, umlt, fn",
		},
		{
			name:    "too few bindings",
			layer:   layerOf(keymap.IndexRef(0), keys(10, "KC_A")),
			code:    diag.RenderShapeMismatch,
			wantMsg: "has 10 bindings",
		},
		{
			name:    "too many bindings",
			layer:   layerOf(keymap.IndexRef(0), keys(zmk.LayerBindings+1, "KC_A")),
			code:    diag.RenderShapeMismatch,
			wantMsg: "has 77 bindings",
		},
	}
	r := defaultRenderer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			block, err := r.Render(tt.layer)
			require.Error(t, err)
			assert.Empty(t, block)

			var re *zmk.Error
			require.True(t, errors.As(err, &re))
			assert.Equal(t, tt.code, re.Code)
			assert.Contains(t, re.Msg, tt.wantMsg)
		})
	}
}

func TestRenderUnmappedKeepsCause(t *testing.T) {
	r := defaultRenderer()
	_, err := r.Render(layerOf(keymap.IndexRef(0), append(keys(zmk.LayerBindings-1, "KC_A"), keymap.Key{Code: "KC_NOPE"})))
	var ue *keycode.UnmappedError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, "KC_NOPE", ue.Token)
}

func TestRenderLayerReportsAll(t *testing.T) {
	bindings := keys(zmk.LayerBindings, "KC_A")
	bindings[3] = keymap.Key{Code: "KC_X1", Sp: source.Span{Start: 30, End: 37}}
	bindings[9] = keymap.Key{Code: "KC_X2", Sp: source.Span{Start: 90, End: 97}}

	bag := diag.NewBag(0)
	_, ok := defaultRenderer().RenderLayer(layerOf(keymap.IndexRef(0), bindings), diag.BagReporter{Bag: bag})
	assert.False(t, ok)
	require.Equal(t, 2, bag.Len())
	assert.Equal(t, uint32(30), bag.Items()[0].Primary.Start)
	assert.Equal(t, uint32(90), bag.Items()[1].Primary.Start)
}

func TestRenderAllowShapeMismatch(t *testing.T) {
	r := defaultRenderer(func(o *zmk.Options) { o.AllowShapeMismatch = true })

	bag := diag.NewBag(0)
	block, ok := r.RenderLayer(layerOf(keymap.IndexRef(0), keys(3, "KC_A")), diag.BagReporter{Bag: bag})
	require.True(t, ok)
	assert.True(t, bag.HasWarnings())
	assert.False(t, bag.HasErrors())

	lines := strings.Split(block, "\n")
	assert.True(t, strings.HasPrefix(lines[2], "&kp A       &kp A       &kp A       "+strings.Repeat(" ", 12)))
	assert.True(t, strings.HasPrefix(lines[6], "&mo mod"))

	block, err := r.Render(layerOf(keymap.IndexRef(0), keys(zmk.LayerBindings+5, "KC_B")))
	require.NoError(t, err)
	assert.Equal(t, 5, strings.Count(block, "\n&"))
}

func TestRenderIsDeterministic(t *testing.T) {
	r := defaultRenderer()
	l := layerOf(keymap.IndexRef(2), keys(zmk.LayerBindings, "KC_F1"))
	a, err := r.Render(l)
	require.NoError(t, err)
	b, err := r.Render(l)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestWriteBlocks(t *testing.T) {
	r := defaultRenderer()
	layers := []keymap.Layer{
		layerOf(keymap.IndexRef(0), keys(zmk.LayerBindings, "KC_A")),
		layerOf(keymap.IndexRef(1), keys(zmk.LayerBindings, "KC_TRNS")),
	}
	blocks, ok := r.RenderAll(layers, diag.NopReporter{})
	require.True(t, ok)
	var buf bytes.Buffer
	require.NoError(t, zmk.Write(&buf, blocks))
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "    default_layer {\n"))
	assert.Contains(t, out, "    };\n    umlt {\n")
	assert.True(t, strings.HasSuffix(out, "    };\n"))
}

func TestRenderAllNoPartialOutput(t *testing.T) {
	r := defaultRenderer()
	layers := []keymap.Layer{
		layerOf(keymap.IndexRef(0), keys(zmk.LayerBindings, "KC_A")),
		layerOf(keymap.IndexRef(1), keys(zmk.LayerBindings, "KC_BOGUS")),
	}
	_, err := r.Render(layers[1])
	assert.Error(t, err)

	blocks, ok := r.RenderAll(layers, diag.NopReporter{})
	assert.False(t, ok)
	assert.Nil(t, blocks)
}
