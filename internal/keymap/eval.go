package keymap

import (
	"fmt"

	"qmk2zmk/internal/ast"
	"qmk2zmk/internal/diag"
	"qmk2zmk/internal/source"
)

// Constructor names recognised in the rewritten table.
const (
	ctorLayer     = "Layer"
	ctorModTap    = "MT"
	ctorMomentary = "MO"
	ctorToggle    = "TG"
	ctorTapDance  = "TD"
	ctorRightCtl  = "MOD_RCTL"
)

// evaluator walks parsed expressions; errors go to the reporter and the
// offending layer is dropped.
type evaluator struct {
	reporter diag.Reporter
	errors   int
}

// Evaluate turns the top-level expressions into layers in source order.
// A layer with any invalid binding is reported and left out of the result.
func Evaluate(exprs []ast.Expr, r diag.Reporter) []Layer {
	ev := evaluator{reporter: r}
	layers := make([]Layer, 0, len(exprs))
	seen := make(map[string]source.Span, len(exprs))
	for _, e := range exprs {
		l, ok := ev.layer(e)
		if !ok {
			continue
		}
		key := l.ID.String()
		if l.ID.Numeric {
			key = "#" + key
		}
		if prev, dup := seen[key]; dup {
			diag.ReportWarning(ev.reporter, diag.EvalDuplicateLayer, l.Span,
				fmt.Sprintf("layer %s is defined more than once", l.ID)).
				WithNote(prev, "first defined here").
				Emit()
		} else {
			seen[key] = l.Span
		}
		layers = append(layers, l)
	}
	if len(exprs) == 0 {
		ev.report(diag.EvalNoLayers, source.Span{}, "keymaps table contains no layers")
	}
	return layers
}

func (ev *evaluator) report(code diag.Code, sp source.Span, msg string) {
	ev.errors++
	diag.ReportError(ev.reporter, code, sp, msg).Emit()
}

func (ev *evaluator) layer(e ast.Expr) (Layer, bool) {
	call, ok := e.(*ast.Call)
	if !ok || call.Name != ctorLayer {
		ev.report(diag.EvalNotALayer, e.Span(),
			fmt.Sprintf("expected a layer entry, found %s", ast.Describe(e)))
		return Layer{}, false
	}
	if len(call.Args) == 0 {
		ev.report(diag.EvalArity, call.Span(), "Layer needs an index or name")
		return Layer{}, false
	}
	id, ok := ev.layerRef(call.Args[0])
	if !ok {
		return Layer{}, false
	}

	before := ev.errors
	bindings := make([]Binding, 0, len(call.Args)-1)
	for _, arg := range call.Args[1:] {
		if b, ok := ev.binding(arg); ok {
			bindings = append(bindings, b)
		}
	}
	if ev.errors != before {
		return Layer{}, false
	}
	return Layer{ID: id, Bindings: bindings, Span: call.Span()}, true
}

// layerRef accepts an integer index, a quoted name or a bare identifier used
// as a name.
func (ev *evaluator) layerRef(e ast.Expr) (LayerRef, bool) {
	switch n := e.(type) {
	case *ast.Int:
		return IndexRef(n.Value), true
	case *ast.String:
		return NameRef(n.Value), true
	case *ast.Ident:
		return NameRef(n.Name), true
	}
	ev.report(diag.EvalBadArgument, e.Span(),
		fmt.Sprintf("expected a layer index or name, found %s", ast.Describe(e)))
	return LayerRef{}, false
}

// keyArg requires a quoted key token.
func (ev *evaluator) keyArg(ctor string, e ast.Expr) (string, bool) {
	switch n := e.(type) {
	case *ast.String:
		return n.Value, true
	case *ast.Ident:
		ev.report(diag.EvalBareIdent, n.Span(),
			fmt.Sprintf("%s: unrecognized identifier %s", ctor, n.Name))
	default:
		ev.report(diag.EvalBadArgument, e.Span(),
			fmt.Sprintf("%s: expected a key, found %s", ctor, ast.Describe(e)))
	}
	return "", false
}

func (ev *evaluator) binding(e ast.Expr) (Binding, bool) {
	switch n := e.(type) {
	case *ast.String:
		return Key{Code: n.Value, Sp: n.Sp}, true
	case *ast.Ident:
		ev.report(diag.EvalBareIdent, n.Sp,
			fmt.Sprintf("unrecognized identifier %s in key position", n.Name))
		return nil, false
	case *ast.Int:
		ev.report(diag.EvalBadArgument, n.Sp,
			fmt.Sprintf("integer %d in key position", n.Value))
		return nil, false
	case *ast.Call:
		return ev.call(n)
	}
	ev.report(diag.EvalBadArgument, e.Span(), "unexpected expression")
	return nil, false
}

func (ev *evaluator) arity(call *ast.Call, want int) bool {
	if len(call.Args) == want {
		return true
	}
	b := diag.ReportError(ev.reporter, diag.EvalArity, call.Span(),
		fmt.Sprintf("%s takes %d argument(s), got %d", call.Name, want, len(call.Args)))
	b.WithNote(call.NameSpan, "constructor "+call.Name).Emit()
	ev.errors++
	return false
}

func (ev *evaluator) call(call *ast.Call) (Binding, bool) {
	switch call.Name {
	case ctorModTap:
		if !ev.arity(call, 2) {
			return nil, false
		}
		mod, okMod := ev.keyArg(call.Name, call.Args[0])
		code, okCode := ev.keyArg(call.Name, call.Args[1])
		if !okMod || !okCode {
			return nil, false
		}
		return ModTap{Mod: mod, Code: code, Sp: call.Sp}, true

	case ctorMomentary, ctorToggle:
		if !ev.arity(call, 1) {
			return nil, false
		}
		ref, ok := ev.layerRef(call.Args[0])
		if !ok {
			return nil, false
		}
		if call.Name == ctorToggle {
			return Toggle{Layer: ref, Sp: call.Sp}, true
		}
		return Momentary{Layer: ref, Sp: call.Sp}, true

	case ctorTapDance:
		if !ev.arity(call, 1) {
			return nil, false
		}
		code, ok := ev.keyArg(call.Name, call.Args[0])
		if !ok {
			return nil, false
		}
		return TapDance{Code: code, Sp: call.Sp}, true

	case ctorRightCtl:
		if !ev.arity(call, 1) {
			return nil, false
		}
		code, ok := ev.keyArg(call.Name, call.Args[0])
		if !ok {
			return nil, false
		}
		return RightCtrl{Code: code, Sp: call.Sp}, true

	case ctorLayer:
		ev.report(diag.EvalUnexpectedLayer, call.Sp, "Layer is only allowed at the top level")
		return nil, false
	}

	ev.report(diag.EvalUnknownConstructor, call.NameSpan,
		fmt.Sprintf("unknown constructor %s", call.Name))
	return nil, false
}
