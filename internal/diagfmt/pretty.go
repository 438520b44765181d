package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"qmk2zmk/internal/diag"
	"qmk2zmk/internal/source"
)

type palette struct {
	enabled bool
	err     *color.Color
	warn    *color.Color
	info    *color.Color
	code    *color.Color
	gutter  *color.Color
	note    *color.Color
	path    *color.Color
}

func newPalette(enabled bool) palette {
	return palette{
		enabled: enabled,
		err:     color.New(color.FgRed, color.Bold),
		warn:    color.New(color.FgYellow, color.Bold),
		info:    color.New(color.FgCyan, color.Bold),
		code:    color.New(color.Faint),
		gutter:  color.New(color.FgBlue),
		note:    color.New(color.FgCyan),
		path:    color.New(color.Bold),
	}
}

func (p palette) paint(c *color.Color, s string) string {
	if !p.enabled {
		return s
	}
	c.EnableColor()
	return c.Sprint(s)
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	}
	return p.info
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем строку источника с подчёркиванием ^~~~ по Span, затем Notes.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	pal := newPalette(opts.Color)
	for i, d := range bag.Items() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		pos := resolve(fs, d.Primary)
		sevColor := pal.severity(d.Severity)
		fmt.Fprintf(w, "%s: %s %s: %s\n",
			pal.paint(pal.path, locationString(pos, opts.PathMode, opts.BaseDir)),
			pal.paint(sevColor, d.Severity.String()),
			pal.paint(pal.code, d.Code.ID()),
			d.Message)
		writeContext(w, pal, sevColor, fs, d.Primary, pos, opts.Context)

		if !opts.ShowNotes {
			continue
		}
		for _, n := range d.Notes {
			npos := resolve(fs, n.Span)
			fmt.Fprintf(w, "  %s %s: %s\n",
				pal.paint(pal.note, "note:"),
				locationString(npos, opts.PathMode, opts.BaseDir),
				n.Msg)
		}
	}
}

// Short prints one line per diagnostic.
func Short(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	pal := newPalette(opts.Color)
	for _, d := range bag.Items() {
		pos := resolve(fs, d.Primary)
		fmt.Fprintf(w, "%s: %s %s: %s\n",
			locationString(pos, opts.PathMode, opts.BaseDir),
			pal.paint(pal.severity(d.Severity), d.Severity.Label()),
			d.Code.ID(),
			d.Message)
	}
}

func locationString(pos position, mode PathMode, baseDir string) string {
	if !pos.Known {
		return "<unknown>"
	}
	return fmt.Sprintf("%s:%d:%d", formatPath(pos.Path, mode, baseDir), pos.Line, pos.Col)
}

func writeContext(w io.Writer, pal palette, sevColor *color.Color, fs *source.FileSet, sp source.Span, pos position, context int8) {
	if !pos.Known || context < 0 || pos.Line == 0 {
		return
	}
	file := contextFile(fs, sp)
	first := uint32(1)
	if uint32(context) < pos.Line {
		first = pos.Line - uint32(context)
	}
	last := pos.Line + uint32(context)
	if n := uint32(file.LineCount()); last > n {
		last = n
	}
	if last < pos.Line {
		last = pos.Line
	}
	numWidth := len(fmt.Sprint(last))

	for line := first; line <= last; line++ {
		text := file.GetLine(line)
		if line == pos.Line {
			text = pos.Text
		}
		text = strings.ReplaceAll(text, "\t", "    ")
		fmt.Fprintf(w, "%s %s\n", pal.paint(pal.gutter, fmt.Sprintf("%*d |", numWidth, line)), text)
		if line == pos.Line && pos.Width > 0 {
			lead := expandTabs(pos.Text, int(pos.Col)-1)
			marker := "^" + strings.Repeat("~", pos.Width-1)
			fmt.Fprintf(w, "%s %s%s\n",
				pal.paint(pal.gutter, strings.Repeat(" ", numWidth)+" |"),
				strings.Repeat(" ", lead),
				pal.paint(sevColor, marker))
		}
	}
}

// contextFile is the file whose lines the user recognises.
func contextFile(fs *source.FileSet, sp source.Span) *source.File {
	f := fs.Get(sp.File)
	if f.Origin != nil {
		return fs.Get(f.Origin.File)
	}
	return f
}

// expandTabs returns the display width of the first n bytes of line.
func expandTabs(line string, n int) int {
	n = min(n, len(line))
	width := 0
	for i := range n {
		if line[i] == '\t' {
			width += 4
			continue
		}
		width++
	}
	return width
}
