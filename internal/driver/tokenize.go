package driver

import (
	"context"

	"qmk2zmk/internal/lexer"
	"qmk2zmk/internal/source"
	"qmk2zmk/internal/token"
)

// Tokenize extracts and rewrites the table, then lexes the rewritten text.
// Tokens are nil when extraction failed.
func Tokenize(ctx context.Context, fs *source.FileSet, inputs []source.FileID, opts Options) (*Result, []token.Token) {
	res := Run(ctx, fs, inputs, opts, StageRewrite)
	if res.Reached < StageRewrite {
		return res, nil
	}
	lx := lexer.New(fs.Get(res.Rewritten), lexer.Options{Reporter: reporterFor(res)})
	return res, lx.All()
}
