package driver

import (
	"errors"
	"fmt"
	"io"

	"qmk2zmk/internal/source"
)

// StdinArg selects standard input.
const StdinArg = "-"

// LoadInputs registers paths in fs in order; no paths (or "-") reads stdin.
func LoadInputs(fs *source.FileSet, paths []string, stdin io.Reader) ([]source.FileID, error) {
	if len(paths) == 0 {
		paths = []string{StdinArg}
	}
	ids := make([]source.FileID, 0, len(paths))
	usedStdin := false
	for _, p := range paths {
		if p == StdinArg {
			if usedStdin {
				return nil, errors.New("standard input given more than once")
			}
			usedStdin = true
			if stdin == nil {
				return nil, errors.New("no standard input available")
			}
			id, err := fs.LoadReader(source.StdinPath, stdin)
			if err != nil {
				return nil, fmt.Errorf("read stdin: %w", err)
			}
			ids = append(ids, id)
			continue
		}
		id, err := fs.Load(p)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
