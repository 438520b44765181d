package driver

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qmk2zmk/internal/diag"
)

func TestCheckParallel(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.c")
	bad := filepath.Join(dir, "bad.c")
	missing := filepath.Join(dir, "missing.c")
	require.NoError(t, os.WriteFile(good, []byte(readFixture(t, "ergodox.keymap.c")), 0o600))
	require.NoError(t, os.WriteFile(bad, []byte("int main(void) { return 0; }\n"), 0o600))

	paths := []string{bad, good, missing, good}
	results, err := Check(context.Background(), paths, DefaultOptions(), 2)
	require.NoError(t, err)
	require.Len(t, results, len(paths))

	for i, r := range results {
		assert.Equal(t, paths[i], r.Path)
	}
	assert.False(t, results[0].OK())
	first, ok := results[0].Result.Bag.First(diag.SevError)
	require.True(t, ok)
	assert.Equal(t, diag.ExtractNoTable, first.Code)

	assert.True(t, results[1].OK())
	assert.Len(t, results[1].Result.Blocks, 3)

	assert.Error(t, results[2].Err)
	assert.False(t, results[2].OK())
	assert.True(t, results[3].OK())
}

func TestCheckCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Check(ctx, []string{"a.c", "b.c"}, DefaultOptions(), 1)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCheckEmpty(t *testing.T) {
	results, err := Check(context.Background(), nil, DefaultOptions(), 0)
	require.NoError(t, err)
	assert.Empty(t, results)
}

type recordingSink struct {
	mu     sync.Mutex
	events []Event
}

func (s *recordingSink) OnEvent(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
}

func (s *recordingSink) final() map[string]Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := map[string]Status{}
	for _, ev := range s.events {
		out[ev.File] = ev.Status
	}
	return out
}

func TestCheckProgress(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.c")
	require.NoError(t, os.WriteFile(good, []byte(readFixture(t, "ergodox.keymap.c")), 0o600))
	missing := filepath.Join(dir, "missing.c")

	sink := &recordingSink{}
	opts := DefaultOptions()
	opts.Progress = sink
	_, err := Check(context.Background(), []string{good, missing}, opts, 2)
	require.NoError(t, err)

	assert.Equal(t, map[string]Status{good: StatusDone, missing: StatusError}, sink.final())

	var stages []Stage
	for _, ev := range sink.events {
		if ev.File == good && ev.Status == StatusWorking {
			stages = append(stages, ev.Stage)
		}
	}
	assert.Equal(t, []Stage{StageExtract, StageRewrite, StageParse, StageEval, StageRender}, stages)
}
