// Package diag defines the diagnostic model shared by all conversion phases.
//
// Phases never print. They report findings through a Reporter; the driver
// collects them in a Bag and the CLI renders the bag via internal/diagfmt.
//
// Codes are grouped by phase so the numeric range alone tells which step of
// the pipeline failed:
//
//   - 1000s – extraction of the keymaps table from keymap.c
//   - 2000s – lexing of the rewritten table
//   - 3000s – parsing into constructor calls
//   - 4000s – evaluation into layers and bindings
//   - 5000s – key mapping
//   - 6000s – grid rendering
//
// Every error is fatal for the run: a partially converted keymap is never
// written out.
package diag
