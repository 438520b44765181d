package keymap

// LayerView is the export shape of a layer used by `inspect`.
type LayerView struct {
	Name     string        `json:"name" msgpack:"name"`
	Ref      string        `json:"ref" msgpack:"ref"`
	Numeric  bool          `json:"numeric" msgpack:"numeric"`
	Bindings []BindingView `json:"bindings" msgpack:"bindings"`
}

// BindingView flattens a Binding variant.
type BindingView struct {
	Kind  string `json:"kind" msgpack:"kind"`
	Code  string `json:"code,omitempty" msgpack:"code,omitempty"`
	Mod   string `json:"mod,omitempty" msgpack:"mod,omitempty"`
	Layer string `json:"layer,omitempty" msgpack:"layer,omitempty"`
}

// View exports l with its name resolved through t. Unresolvable numeric ids
// keep their number as the name.
func (l Layer) View(t LayerTable) LayerView {
	name, ok := t.Resolve(l.ID)
	if !ok {
		name = l.ID.String()
	}
	out := LayerView{
		Name:     name,
		Ref:      l.ID.String(),
		Numeric:  l.ID.Numeric,
		Bindings: make([]BindingView, 0, len(l.Bindings)),
	}
	for _, b := range l.Bindings {
		out.Bindings = append(out.Bindings, ViewBinding(b, t))
	}
	return out
}

// ViewBinding flattens one binding.
func ViewBinding(b Binding, t LayerTable) BindingView {
	layerName := func(r LayerRef) string {
		if n, ok := t.Resolve(r); ok {
			return n
		}
		return r.String()
	}
	switch v := b.(type) {
	case Key:
		return BindingView{Kind: "key", Code: v.Code}
	case ModTap:
		return BindingView{Kind: "mod-tap", Mod: v.Mod, Code: v.Code}
	case Momentary:
		return BindingView{Kind: "momentary", Layer: layerName(v.Layer)}
	case Toggle:
		return BindingView{Kind: "toggle", Layer: layerName(v.Layer)}
	case TapDance:
		return BindingView{Kind: "tap-dance", Code: v.Code}
	case RightCtrl:
		return BindingView{Kind: "right-ctrl", Code: v.Code}
	}
	return BindingView{Kind: "unknown"}
}
