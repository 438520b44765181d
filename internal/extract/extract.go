// Package extract isolates the keymaps table literal from a QMK keymap.c.
//
// The scan is line based: capture starts on the line after the first line
// matching StartPattern and stops at the first line whose trimmed content is
// exactly "};" while the braces opened inside the captured text are balanced.
// Braces in comments, string and character literals are ignored.
package extract

import (
	"fmt"
	"regexp"
	"strings"

	"fortio.org/safecast"

	"qmk2zmk/internal/diag"
	"qmk2zmk/internal/source"
)

// StartPattern matches the line that opens the layer table.
var StartPattern = regexp.MustCompile(`keymaps.* = \{`)

// Terminator is the trimmed content of the line closing the table.
const Terminator = "};"

// Region is the captured body of the table, terminator excluded.
type Region struct {
	File      source.FileID
	StartLine uint32 // 1-based line of the first captured line
	Text      string
	Lines     int
}

type state uint8

const (
	stateSeeking state = iota
	stateCapturing
	stateDone
)

// Tracker is the line-state machine behind Table. Feed it lines (without
// the trailing newline) in input order.
type Tracker struct {
	state     state
	depth     int
	inComment bool
	buf       strings.Builder
	lines     int
}

// Feed consumes one line and reports whether the table has been closed.
func (t *Tracker) Feed(line string) bool {
	switch t.state {
	case stateSeeking:
		if StartPattern.MatchString(line) {
			t.state = stateCapturing
		}
	case stateCapturing:
		if t.depth == 0 && !t.inComment && strings.TrimSpace(line) == Terminator {
			t.state = stateDone
			return true
		}
		t.buf.WriteString(line)
		t.buf.WriteByte('\n')
		t.lines++
		t.scanBraces(line)
	}
	return t.state == stateDone
}

// Started reports whether the start marker has been seen.
func (t *Tracker) Started() bool { return t.state != stateSeeking }

// Done reports whether the terminator has been seen.
func (t *Tracker) Done() bool { return t.state == stateDone }

// Text returns everything captured so far.
func (t *Tracker) Text() string { return t.buf.String() }

// scanBraces обновляет глубину вложенности, пропуская комментарии и литералы.
func (t *Tracker) scanBraces(line string) {
	for i := 0; i < len(line); i++ {
		c := line[i]
		if t.inComment {
			if c == '*' && i+1 < len(line) && line[i+1] == '/' {
				t.inComment = false
				i++
			}
			continue
		}
		switch c {
		case '/':
			if i+1 < len(line) {
				switch line[i+1] {
				case '/':
					return
				case '*':
					t.inComment = true
					i++
				}
			}
		case '"', '\'':
			i = skipQuoted(line, i)
		case '{':
			t.depth++
		case '}':
			t.depth--
		}
	}
}

// skipQuoted returns the index of the closing quote matching line[open].
func skipQuoted(line string, open int) int {
	q := line[open]
	for i := open + 1; i < len(line); i++ {
		switch line[i] {
		case '\\':
			i++
		case q:
			return i
		}
	}
	return len(line)
}

// Table scans files as one concatenated stream and returns the captured
// table. A missing start marker or terminator is reported as an error.
func Table(r diag.Reporter, files ...*source.File) (Region, bool) {
	var (
		tr       Tracker
		region   Region
		startPos source.Span
	)
	if len(files) == 0 {
		diag.ReportError(r, diag.ExtractNoTable, source.Span{}, "no input").Emit()
		return Region{}, false
	}

	for _, f := range files {
		off := 0
		lineNo := uint32(0)
		content := string(f.Content)
		for off < len(content) {
			lineNo++
			end := strings.IndexByte(content[off:], '\n')
			var line string
			next := len(content)
			if end >= 0 {
				line = content[off : off+end]
				next = off + end + 1
			} else {
				line = content[off:]
			}
			wasStarted := tr.Started()
			if tr.Feed(line) {
				region.Text = tr.Text()
				region.Lines = tr.lines
				if strings.TrimSpace(region.Text) == "" {
					diag.ReportError(r, diag.ExtractEmptyTable, startPos, "keymaps table has no entries").Emit()
					return Region{}, false
				}
				return region, true
			}
			if !wasStarted && tr.Started() {
				region.File = f.ID
				region.StartLine = lineNo + 1
				startPos = spanOf(f.ID, off, off+len(line))
			}
			off = next
		}
	}

	if !tr.Started() {
		diag.ReportError(r, diag.ExtractNoTable, source.Span{File: files[0].ID},
			fmt.Sprintf("no line matching %q found", StartPattern.String())).Emit()
		return Region{}, false
	}
	diag.ReportError(r, diag.ExtractUnterminatedTable, startPos,
		fmt.Sprintf("keymaps table is never closed by a %q line", Terminator)).Emit()
	return Region{}, false
}

func spanOf(file source.FileID, start, end int) source.Span {
	s, err := safecast.Conv[uint32](start)
	if err != nil {
		panic(fmt.Errorf("span start overflow: %w", err))
	}
	e, err := safecast.Conv[uint32](end)
	if err != nil {
		panic(fmt.Errorf("span end overflow: %w", err))
	}
	return source.Span{File: file, Start: s, End: e}
}
