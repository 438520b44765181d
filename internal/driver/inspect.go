package driver

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"

	"qmk2zmk/internal/diag"
	"qmk2zmk/internal/keymap"
	"qmk2zmk/internal/observ"
)

// Model is the evaluated keymap as exported by `inspect`.
type Model struct {
	Source    string             `json:"source" msgpack:"source"`
	StartLine uint32             `json:"start_line" msgpack:"start_line"`
	ModLayer  string             `json:"mod_layer" msgpack:"mod_layer"`
	Layers    []keymap.LayerView `json:"layers" msgpack:"layers"`
	Timing    *observ.Report     `json:"timing,omitempty" msgpack:"timing,omitempty"`
}

// BuildModel exports the layers in res. It expects res to have reached
// StageEval.
func BuildModel(res *Result, opts Options) Model {
	tbl := opts.Config.LayerTable()
	m := Model{
		StartLine: res.Region.StartLine,
		ModLayer:  tbl.Mod(),
		Layers:    make([]keymap.LayerView, 0, len(res.Layers)),
	}
	if len(res.Inputs) > 0 {
		m.Source = res.FileSet.Get(res.Region.File).Path
	}
	for _, l := range res.Layers {
		m.Layers = append(m.Layers, l.View(tbl))
	}
	if res.Timer != nil {
		rep := res.Timer.Report()
		m.Timing = &rep
	}
	return m
}

// EncodeModel writes m as "json" or "msgpack".
func EncodeModel(w io.Writer, m Model, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(m)
	case "msgpack":
		enc := msgpack.NewEncoder(w)
		enc.SetSortMapKeys(true)
		return enc.Encode(m)
	}
	return fmt.Errorf("unsupported format %q (must be json or msgpack)", format)
}

// DecodeModel reads a msgpack-encoded model.
func DecodeModel(r io.Reader) (Model, error) {
	var m Model
	err := msgpack.NewDecoder(r).Decode(&m)
	return m, err
}

func reporterFor(res *Result) diag.Reporter {
	return diag.BagReporter{Bag: res.Bag}
}
