package zmk

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"qmk2zmk/internal/diag"
	"qmk2zmk/internal/keycode"
	"qmk2zmk/internal/keymap"
	"qmk2zmk/internal/source"
)

// DefaultColumnWidth fits "&kp EQUAL" plus trailing padding.
var DefaultColumnWidth = len("&kp EQUAL   ")

type Options struct {
	Indent             int
	ColumnWidth        int
	AllowShapeMismatch bool
}

func DefaultOptions() Options {
	return Options{Indent: 4, ColumnWidth: DefaultColumnWidth}
}

// Error is a rendering failure tied to a source span.
type Error struct {
	Code diag.Code
	Span source.Span
	Msg  string
	Err  error
}

func (e *Error) Error() string { return e.Msg }
func (e *Error) Unwrap() error { return e.Err }

// Renderer turns layers into text blocks. It is safe for concurrent use.
type Renderer struct {
	layers keymap.LayerTable
	keys   *keycode.Mapper
	opts   Options
}

func NewRenderer(layers keymap.LayerTable, keys *keycode.Mapper, opts Options) *Renderer {
	if keys == nil {
		keys = keycode.Default
	}
	if opts.ColumnWidth <= 0 {
		opts.ColumnWidth = DefaultColumnWidth
	}
	if opts.Indent < 0 {
		opts.Indent = 0
	}
	return &Renderer{layers: layers, keys: keys, opts: opts}
}

// Render returns the block for l or the first error.
func (r *Renderer) Render(l keymap.Layer) (string, error) {
	var first *Error
	out, ok := r.render(l, func(e *Error, sev diag.Severity) {
		if sev == diag.SevError && first == nil {
			first = e
		}
	})
	if !ok {
		return "", first
	}
	return out, nil
}

// RenderLayer reports every problem in l to rep; ok is false if any of them
// is an error.
func (r *Renderer) RenderLayer(l keymap.Layer, rep diag.Reporter) (string, bool) {
	return r.render(l, func(e *Error, sev diag.Severity) {
		if rep != nil {
			rep.Report(e.Code, sev, e.Span, e.Msg, nil)
		}
	})
}

type sink func(e *Error, sev diag.Severity)

func (r *Renderer) render(l keymap.Layer, emit sink) (string, bool) {
	ok := true
	fail := func(e *Error) {
		ok = false
		emit(e, diag.SevError)
	}

	name, found := r.layers.Resolve(l.ID)
	if !found {
		fail(&Error{
			Code: diag.RenderUnknownLayer,
			Span: l.Span,
			Msg:  fmt.Sprintf("layer index %s has no name (known layers: %s)", l.ID, strings.Join(r.layers.Names(), ", ")),
		})
	}

	cells := make([]string, 0, LayerBindings)
	for _, b := range l.Bindings {
		text, err := r.binding(b)
		if err != nil {
			fail(err)
			continue
		}
		cells = append(cells, text)
	}

	if n := len(l.Bindings); n != LayerBindings {
		e := &Error{
			Code: diag.RenderShapeMismatch,
			Span: l.Span,
			Msg:  fmt.Sprintf("layer %s has %d bindings, the grid holds %d", l.ID, n, LayerBindings),
		}
		if !r.opts.AllowShapeMismatch {
			fail(e)
		} else {
			emit(e, diag.SevWarning)
		}
	}
	if !ok {
		return "", false
	}

	cells = fitCells(cells)
	grid, err := Place(cells)
	if err != nil {
		panic(err) // fitCells guarantees the length
	}
	grid.applyOverrides(keycode.None, r.layers.Mod())
	return r.frame(name, grid), true
}

// fitCells pads with blank cells or drops the surplus.
func fitCells(cells []string) []string {
	if len(cells) >= LayerBindings {
		return cells[:LayerBindings]
	}
	out := make([]string, LayerBindings)
	copy(out, cells)
	return out
}

func (r *Renderer) binding(b keymap.Binding) (string, *Error) {
	switch v := b.(type) {
	case keymap.Key:
		text, err := r.keys.Format(v.Code)
		if err != nil {
			return "", keyError(v.Sp, err)
		}
		return text, nil

	case keymap.ModTap:
		mod, err := keycode.FormatModifier(v.Mod)
		if err != nil {
			return "", &Error{Code: diag.KeyUnknownMod, Span: v.Sp, Msg: err.Error(), Err: err}
		}
		key, err := r.keys.KeyName(v.Code)
		if err != nil {
			var ue *keycode.UnmappedError
			if errors.As(err, &ue) {
				return "", keyError(v.Sp, err)
			}
			return "", &Error{Code: diag.KeyBadModTap, Span: v.Sp, Msg: "mod-tap " + err.Error(), Err: err}
		}
		return "&mt " + mod + " " + key, nil

	case keymap.Momentary:
		name, err := r.layerName(v.Layer, v.Sp)
		if err != nil {
			return "", err
		}
		return "&mo " + name, nil

	case keymap.Toggle:
		name, err := r.layerName(v.Layer, v.Sp)
		if err != nil {
			return "", err
		}
		return "&tog " + name, nil

	case keymap.TapDance:
		return keycode.None, nil

	case keymap.RightCtrl:
		return keycode.PressPrefix + "RCTRL", nil
	}
	return "", &Error{Code: diag.UnknownCode, Span: b.Span(), Msg: fmt.Sprintf("unsupported binding %T", b)}
}

func (r *Renderer) layerName(ref keymap.LayerRef, sp source.Span) (string, *Error) {
	name, ok := r.layers.Resolve(ref)
	if !ok {
		return "", &Error{
			Code: diag.RenderUnknownLayer,
			Span: sp,
			Msg:  fmt.Sprintf("layer index %s has no name", ref),
		}
	}
	return name, nil
}

func keyError(sp source.Span, err error) *Error {
	code := diag.KeyUnmapped
	var ue *keycode.UnmappedError
	if errors.As(err, &ue) && ue.Reason == keycode.ReasonMedia {
		code = diag.KeyUnmappedMedia
	}
	return &Error{Code: code, Span: sp, Msg: err.Error(), Err: err}
}

func (r *Renderer) frame(name string, g Grid) string {
	indent := strings.Repeat(" ", r.opts.Indent)
	var sb strings.Builder
	sb.WriteString(indent + name + " {\n")
	sb.WriteString(indent + "  bindings = <\n")
	for row := range g {
		sb.WriteString(r.row(g[row][:]))
		sb.WriteByte('\n')
	}
	sb.WriteString(indent + "  >;\n")
	sb.WriteString(indent + "};")
	return sb.String()
}

// row left-justifies each cell to the column width; a cell that does not
// fit keeps one separating space.
func (r *Renderer) row(cells []string) string {
	var sb strings.Builder
	for _, c := range cells {
		if runewidth.StringWidth(c) <= r.opts.ColumnWidth {
			sb.WriteString(runewidth.FillRight(c, r.opts.ColumnWidth))
			continue
		}
		sb.WriteString(c)
		sb.WriteByte(' ')
	}
	return sb.String()
}

