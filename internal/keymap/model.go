// Package keymap is the typed model of a parsed keymaps table: layers of
// bindings, each binding one of a closed set of variants.
package keymap

import (
	"fmt"
	"slices"
	"strconv"

	"qmk2zmk/internal/source"
)

// LayerRef points at a layer either by position in the LayerTable or by a
// literal name.
type LayerRef struct {
	Index   int
	Name    string
	Numeric bool
}

// IndexRef builds a numeric reference.
func IndexRef(i int) LayerRef { return LayerRef{Index: i, Numeric: true} }

// NameRef builds a literal-name reference.
func NameRef(name string) LayerRef { return LayerRef{Name: name} }

func (r LayerRef) String() string {
	if r.Numeric {
		return strconv.Itoa(r.Index)
	}
	return r.Name
}

// LayerTable names numeric layers and the extra modifier layer. It is
// immutable once built.
type LayerTable struct {
	names []string
	mod   string
}

var (
	DefaultLayerNames = []string{"default_layer", "umlt", "fn"}
	DefaultModLayer   = "mod"
)

func NewLayerTable(names []string, mod string) LayerTable {
	return LayerTable{names: slices.Clone(names), mod: mod}
}

func DefaultLayerTable() LayerTable {
	return NewLayerTable(DefaultLayerNames, DefaultModLayer)
}

// Resolve returns the output name of ref. Numeric refs outside the table
// are not resolvable.
func (t LayerTable) Resolve(ref LayerRef) (string, bool) {
	if !ref.Numeric {
		return ref.Name, ref.Name != ""
	}
	if ref.Index < 0 || ref.Index >= len(t.names) {
		return "", false
	}
	return t.names[ref.Index], true
}

func (t LayerTable) Mod() string     { return t.mod }
func (t LayerTable) Names() []string { return slices.Clone(t.names) }

// Layer is one entry of the keymaps table.
type Layer struct {
	ID       LayerRef
	Bindings []Binding
	Span     source.Span
}

// Binding is one of Key, ModTap, Momentary, Toggle, TapDance, RightCtrl.
type Binding interface {
	Span() source.Span
	fmt.Stringer
	binding()
}

// Key is a plain key token such as KC_A.
type Key struct {
	Code string
	Sp   source.Span
}

// ModTap is a modifier when held and Code when tapped.
type ModTap struct {
	Mod  string
	Code string
	Sp   source.Span
}

// Momentary activates Layer while held.
type Momentary struct {
	Layer LayerRef
	Sp    source.Span
}

// Toggle switches Layer on and off.
type Toggle struct {
	Layer LayerRef
	Sp    source.Span
}

// TapDance keeps the dance id; the converter emits no action for it.
type TapDance struct {
	Code string
	Sp   source.Span
}

// RightCtrl is MOD_RCTL(Code): right control held with Code.
type RightCtrl struct {
	Code string
	Sp   source.Span
}

func (b Key) Span() source.Span       { return b.Sp }
func (b ModTap) Span() source.Span    { return b.Sp }
func (b Momentary) Span() source.Span { return b.Sp }
func (b Toggle) Span() source.Span    { return b.Sp }
func (b TapDance) Span() source.Span  { return b.Sp }
func (b RightCtrl) Span() source.Span { return b.Sp }

func (b Key) String() string       { return b.Code }
func (b ModTap) String() string    { return "MT(" + b.Mod + ", " + b.Code + ")" }
func (b Momentary) String() string { return "MO(" + b.Layer.String() + ")" }
func (b Toggle) String() string    { return "TG(" + b.Layer.String() + ")" }
func (b TapDance) String() string  { return "TD(" + b.Code + ")" }
func (b RightCtrl) String() string { return "MOD_RCTL(" + b.Code + ")" }

func (Key) binding()       {}
func (ModTap) binding()    {}
func (Momentary) binding() {}
func (Toggle) binding()    {}
func (TapDance) binding()  {}
func (RightCtrl) binding() {}
