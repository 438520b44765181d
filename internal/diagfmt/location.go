package diagfmt

import (
	"path/filepath"
	"strings"

	"qmk2zmk/internal/source"
)

const autoPathLimit = 40

func formatPath(path string, mode PathMode, baseDir string) string {
	if path == "" || path == source.StdinPath || strings.HasPrefix(path, "<") {
		return path
	}
	switch mode {
	case PathModeAbsolute:
		if abs, err := filepath.Abs(path); err == nil {
			return abs
		}
	case PathModeRelative:
		base := baseDir
		if base == "" {
			base = "."
		}
		absBase, err1 := filepath.Abs(base)
		absPath, err2 := filepath.Abs(path)
		if err1 == nil && err2 == nil {
			if rel, err := filepath.Rel(absBase, absPath); err == nil {
				return rel
			}
		}
	case PathModeBasename:
		return filepath.Base(path)
	case PathModeAuto:
		if filepath.IsAbs(path) && len(path) > autoPathLimit {
			return filepath.Base(path)
		}
	}
	return path
}

// position is a span resolved to what the user typed: derived text is
// mapped back onto its origin line.
type position struct {
	Path  string
	Line  uint32
	Col   uint32
	Text  string // вся строка источника
	Width int    // ширина подчёркивания, 0 - без подчёркивания
	Known bool
}

func resolve(fs *source.FileSet, sp source.Span) position {
	if fs == nil || int(sp.File) >= fs.Len() {
		return position{}
	}
	f := fs.Get(sp.File)
	start, end := fs.Resolve(sp)
	if f.Origin == nil {
		pos := position{Path: f.Path, Line: start.Line, Col: start.Col, Text: f.GetLine(start.Line), Known: true}
		if end.Line == start.Line {
			pos.Width = int(end.Col) - int(start.Col)
		} else {
			pos.Width = len(pos.Text) - int(start.Col) + 1
		}
		pos.Width = max(pos.Width, 1)
		return pos
	}

	path, loc := fs.Locate(sp)
	origin := fs.Get(f.Origin.File)
	pos := position{Path: path, Line: loc.Line, Col: loc.Col, Text: origin.GetLine(loc.Line), Known: true}
	// rewriting quotes tokens, so find the bare token on the original line
	needle := strings.Trim(fs.Text(sp), `"`)
	if i := strings.Index(pos.Text, needle); needle != "" && i >= 0 {
		pos.Col = uint32(i) + 1
		pos.Width = len(needle)
	} else {
		pos.Col = 1
	}
	return pos
}
