// Package rewrite turns the captured keymaps table into plain constructor
// syntax: Layer(...), MT(...), MO(...) with every key code quoted.
package rewrite

import (
	"regexp"
	"strings"
)

// DefaultLayoutMacro is the QMK layout macro of the Ergodox EZ.
const DefaultLayoutMacro = "LAYOUT_ergodox_pretty"

// Rule is one ordered textual substitution.
type Rule struct {
	Name    string
	Pattern *regexp.Regexp
	// Replace is either a template (Template != "") or a function.
	Template string
	Func     func(match string) string
}

func (r Rule) apply(text string) (string, int) {
	n := 0
	if r.Func != nil {
		out := r.Pattern.ReplaceAllStringFunc(text, func(m string) string {
			repl := r.Func(m)
			if repl != m {
				n++
			}
			return repl
		})
		return out, n
	}
	n = len(r.Pattern.FindAllStringIndex(text, -1))
	return r.Pattern.ReplaceAllString(text, r.Template), n
}

// Rewriter applies its rules in order; later rules never see the source text
// of earlier ones, only their output.
type Rewriter struct {
	rules []Rule
}

// Stat counts how many substitutions a rule made.
type Stat struct {
	Rule  string
	Count int
}

// New builds the standard rule chain for the given layout macro.
func New(layoutMacro string) *Rewriter {
	if layoutMacro == "" {
		layoutMacro = DefaultLayoutMacro
	}
	return &Rewriter{rules: []Rule{
		{
			// пробелы и переводы строк сохраняем, чтобы номера строк совпадали с исходником
			Name:     "layer-header",
			Pattern:  regexp.MustCompile(`\[(.*)\] = ` + regexp.QuoteMeta(layoutMacro) + `\(`),
			Template: `Layer($1,`,
		},
		{
			Name:     "keycode",
			Pattern:  regexp.MustCompile(`\bKC_[A-Z_0-9]+`),
			Template: `"$0"`,
		},
		{
			Name:    "modifier",
			Pattern: regexp.MustCompile(`\bMOD_([A-Z_0-9]+)(\s*\()?`),
			Func:    quoteModifier,
		},
		{
			Name:     "custom-action",
			Pattern:  regexp.MustCompile(`\b(TIC_TAC_TOE_LAYER|WEBUSB_PAIR|DANCE_\d|RESET|ST_MACRO_\d)\b`),
			Template: `"$1"`,
		},
	}}
}

// quoteModifier strips MOD_ and quotes the name, unless the token is called
// like a function (MOD_RCTL(...)), which stays a constructor.
func quoteModifier(m string) string {
	if strings.HasSuffix(m, "(") {
		return m
	}
	return `"` + strings.TrimPrefix(m, "MOD_") + `"`
}

// Rules returns the rule chain in application order.
func (rw *Rewriter) Rules() []Rule {
	return rw.rules
}

// Apply runs every rule over text.
func (rw *Rewriter) Apply(text string) (string, []Stat) {
	stats := make([]Stat, 0, len(rw.rules))
	for _, r := range rw.rules {
		var n int
		text, n = r.apply(text)
		stats = append(stats, Stat{Rule: r.Name, Count: n})
	}
	return text, stats
}
