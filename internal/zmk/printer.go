package zmk

import (
	"io"
	"strings"

	"qmk2zmk/internal/diag"
	"qmk2zmk/internal/keymap"
)

// RenderAll renders every layer, reporting all problems. Blocks are
// returned only when no layer failed.
func (r *Renderer) RenderAll(layers []keymap.Layer, rep diag.Reporter) ([]string, bool) {
	blocks := make([]string, 0, len(layers))
	ok := true
	for _, l := range layers {
		b, lok := r.RenderLayer(l, rep)
		if !lok {
			ok = false
			continue
		}
		blocks = append(blocks, b)
	}
	if !ok {
		return nil, false
	}
	return blocks, true
}

// Write prints rendered blocks in order, each followed by a newline.
func Write(w io.Writer, blocks []string) error {
	var sb strings.Builder
	for _, b := range blocks {
		sb.WriteString(b)
		sb.WriteByte('\n')
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

