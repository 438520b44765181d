// Package driver runs the conversion phases in order and owns their
// diagnostics. Phases never print; everything lands in Result.Bag.
package driver

import (
	"context"
	"fmt"
	"time"

	"qmk2zmk/internal/ast"
	"qmk2zmk/internal/config"
	"qmk2zmk/internal/ctxlog"
	"qmk2zmk/internal/diag"
	"qmk2zmk/internal/extract"
	"qmk2zmk/internal/keymap"
	"qmk2zmk/internal/lexer"
	"qmk2zmk/internal/observ"
	"qmk2zmk/internal/parser"
	"qmk2zmk/internal/rewrite"
	"qmk2zmk/internal/source"
	"qmk2zmk/internal/zmk"
)

// Stage is the last phase Run executes.
type Stage uint8

const (
	StageExtract Stage = iota
	StageRewrite
	StageParse
	StageEval
	StageRender
)

func (s Stage) String() string {
	switch s {
	case StageExtract:
		return "extract"
	case StageRewrite:
		return "rewrite"
	case StageParse:
		return "parse"
	case StageEval:
		return "eval"
	case StageRender:
		return "render"
	}
	return fmt.Sprintf("Stage(%d)", uint8(s))
}

type Options struct {
	Config         config.Config
	MaxDiagnostics int
	Timings        bool
	// Progress receives a working event per phase and a final done or
	// error event. Nil disables reporting.
	Progress ProgressSink
}

// DefaultOptions runs on the built-in configuration.
func DefaultOptions() Options {
	return Options{Config: config.Default()}
}

// Result holds whatever the phases produced before stopping.
type Result struct {
	FileSet   *source.FileSet
	Inputs    []source.FileID
	Bag       *diag.Bag
	Region    extract.Region
	Rewritten source.FileID
	Stats     []rewrite.Stat
	Exprs     []ast.Expr
	Layers    []keymap.Layer
	Blocks    []string
	Timer     *observ.Timer
	Reached   Stage
	Failed    bool // the phase at Reached reported an error
}

// OK reports whether no phase produced an error.
func (r *Result) OK() bool { return !r.Failed && !r.Bag.HasErrors() }

// phaseReporter counts the errors of one phase on their way to the bag. The
// count does not depend on the bag's limit.
type phaseReporter struct {
	bag    diag.BagReporter
	errors int
}

func (p *phaseReporter) Report(code diag.Code, sev diag.Severity, primary source.Span, msg string, notes []diag.Note) {
	if sev >= diag.SevError {
		p.errors++
	}
	p.bag.Report(code, sev, primary, msg, notes)
}

func (p *phaseReporter) failed() bool { return p.errors > 0 }

// Run executes the pipeline over inputs (treated as one stream) up to and
// including stage, stopping after the first phase that reports an error.
func Run(ctx context.Context, fs *source.FileSet, inputs []source.FileID, opts Options, stage Stage) *Result {
	log := ctxlog.FromContext(ctx)
	cfg := opts.Config
	res := &Result{
		FileSet: fs,
		Inputs:  inputs,
		Bag:     diag.NewBag(opts.MaxDiagnostics),
	}
	if opts.Timings {
		res.Timer = observ.NewTimer()
	}
	bagRep := diag.BagReporter{Bag: res.Bag}

	files := make([]*source.File, 0, len(inputs))
	for _, id := range inputs {
		files = append(files, fs.Get(id))
	}
	prog := progress{sink: opts.Progress, start: time.Now()}
	if len(files) > 0 {
		prog.file = files[0].Path
	}
	defer func() {
		if !res.OK() {
			prog.emit(res.Reached, StatusError, nil)
			return
		}
		prog.emit(res.Reached, StatusDone, nil)
	}()

	// extract
	var ok bool
	rep := &phaseReporter{bag: bagRep}
	prog.emit(StageExtract, StatusWorking, nil)
	res.Timer.Track(StageExtract.String(), func() string {
		res.Region, ok = extract.Table(rep, files...)
		return fmt.Sprintf("%d lines", res.Region.Lines)
	})
	res.Reached = StageExtract
	res.Failed = !ok || rep.failed()
	if res.Failed || stage == StageExtract {
		return res
	}
	log.Debug("table extracted", "start_line", res.Region.StartLine, "lines", res.Region.Lines)

	// rewrite
	var text string
	prog.emit(StageRewrite, StatusWorking, nil)
	res.Timer.Track(StageRewrite.String(), func() string {
		text, res.Stats = rewrite.New(cfg.Source.LayoutMacro).Apply(res.Region.Text)
		origin := fs.Get(res.Region.File)
		res.Rewritten = fs.AddDerived(origin.Path+" (rewritten)", []byte(text), res.Region.File, res.Region.StartLine)
		return fmt.Sprintf("%d rules", len(res.Stats))
	})
	for _, s := range res.Stats {
		log.Debug("rewrite rule applied", "rule", s.Rule, "count", s.Count)
	}
	res.Reached = StageRewrite
	if stage == StageRewrite {
		return res
	}

	// parse
	rep = &phaseReporter{bag: bagRep}
	var parsedErrors uint
	prog.emit(StageParse, StatusWorking, nil)
	res.Timer.Track(StageParse.String(), func() string {
		lx := lexer.New(fs.Get(res.Rewritten), lexer.Options{Reporter: rep})
		parsed := parser.ParseFile(lx, parser.Options{Reporter: rep, MaxErrors: maxErrors(opts.MaxDiagnostics)})
		res.Exprs = parsed.Exprs
		parsedErrors = parsed.Errors
		return fmt.Sprintf("%d entries", len(res.Exprs))
	})
	res.Reached = StageParse
	res.Failed = rep.failed() || parsedErrors > 0
	if res.Failed || stage == StageParse {
		return res
	}

	// eval
	rep = &phaseReporter{bag: bagRep}
	prog.emit(StageEval, StatusWorking, nil)
	res.Timer.Track(StageEval.String(), func() string {
		res.Layers = keymap.Evaluate(res.Exprs, rep)
		return fmt.Sprintf("%d layers", len(res.Layers))
	})
	log.Debug("layers evaluated", "count", len(res.Layers))
	res.Reached = StageEval
	res.Failed = rep.failed()
	if res.Failed || stage == StageEval {
		return res
	}

	// render
	rep = &phaseReporter{bag: bagRep}
	prog.emit(StageRender, StatusWorking, nil)
	res.Timer.Track(StageRender.String(), func() string {
		r := zmk.NewRenderer(cfg.LayerTable(), cfg.Mapper(), cfg.RenderOptions())
		var blocks []string
		blocks, ok = r.RenderAll(res.Layers, rep)
		if ok && !rep.failed() {
			res.Blocks = blocks
		}
		return fmt.Sprintf("%d blocks", len(res.Blocks))
	})
	res.Reached = StageRender
	res.Failed = !ok || rep.failed()
	return res
}

func maxErrors(limit int) uint {
	if limit <= 0 {
		return 0
	}
	return uint(limit)
}

// Convert runs every phase.
func Convert(ctx context.Context, fs *source.FileSet, inputs []source.FileID, opts Options) *Result {
	return Run(ctx, fs, inputs, opts, StageRender)
}

// ConvertText converts an in-memory keymap; handy for tests and embedding.
func ConvertText(ctx context.Context, name, text string, opts Options) *Result {
	fs := source.NewFileSet()
	id := fs.AddVirtual(name, []byte(text))
	return Convert(ctx, fs, []source.FileID{id}, opts)
}
