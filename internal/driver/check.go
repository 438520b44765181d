package driver

import (
	"context"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"qmk2zmk/internal/ctxlog"
	"qmk2zmk/internal/source"
)

// CheckResult is the outcome for one file. Err is set when the file could
// not be read; otherwise Result carries the diagnostics.
type CheckResult struct {
	Path   string
	Result *Result
	Err    error
}

// OK reports whether the file loaded and converted cleanly.
func (c CheckResult) OK() bool { return c.Err == nil && c.Result != nil && c.Result.OK() }

// Check converts every path independently and in parallel. Results come
// back in argument order; output is discarded.
func Check(ctx context.Context, paths []string, opts Options, jobs int) ([]CheckResult, error) {
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	results := make([]CheckResult, len(paths))
	if len(paths) == 0 {
		return results, nil
	}

	if opts.Progress != nil {
		for _, path := range paths {
			opts.Progress.OnEvent(Event{File: path, Stage: StageExtract, Status: StatusQueued})
		}
	}

	// Индексы уникальны для каждой горутины, мьютекс не нужен
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(paths)))
	for i, path := range paths {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			fs := source.NewFileSet()
			id, err := fs.Load(path)
			if err != nil {
				results[i] = CheckResult{Path: path, Err: err}
				progress{sink: opts.Progress, file: path, start: time.Now()}.emit(StageExtract, StatusError, err)
				return nil
			}
			res := Convert(gctx, fs, []source.FileID{id}, opts)
			results[i] = CheckResult{Path: path, Result: res}
			ctxlog.FromContext(gctx).Debug("checked", "path", path, "diagnostics", res.Bag.Len(), "ok", res.OK())
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
