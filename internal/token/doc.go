// Package token defines the token kinds of the rewritten keymaps table.
// Invariants:
//   - Token.Text is the exact source slice covered by Token.Span.
//   - Whitespace and C comments are Trivia and never reach the parser.
//   - String tokens keep their quotes in Text; Value() strips them.
package token
