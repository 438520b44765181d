package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qmk2zmk/internal/driver"
)

var (
	fixture = filepath.Join("..", "..", "internal", "driver", "testdata", "ergodox.keymap.c")
	golden  = filepath.Join("..", "..", "internal", "driver", "testdata", "ergodox.golden.keymap")
)

type cliRun struct {
	stdout string
	stderr string
	err    error
}

// execute runs the CLI with an empty config so the host's qmk2zmk.toml
// cannot leak in.
func execute(t *testing.T, stdin string, args ...string) cliRun {
	t.Helper()
	cfg := filepath.Join(t.TempDir(), "qmk2zmk.toml")
	require.NoError(t, os.WriteFile(cfg, nil, 0o600))

	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetArgs(append([]string{"--config", cfg, "--color", "off"}, args...))
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&out)
	root.SetErr(&errOut)
	err := root.Execute()
	return cliRun{stdout: out.String(), stderr: errOut.String(), err: err}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestConvertCommand(t *testing.T) {
	want := readFile(t, golden)

	for _, args := range [][]string{
		{"convert", fixture},
		{fixture},
	} {
		r := execute(t, "", args...)
		require.NoError(t, r.err, r.stderr)
		assert.Equal(t, want, r.stdout)
		assert.Empty(t, r.stderr)
	}
}

func TestConvertFromStdin(t *testing.T) {
	r := execute(t, readFile(t, fixture), "convert")
	require.NoError(t, r.err, r.stderr)
	assert.Equal(t, readFile(t, golden), r.stdout)
}

func TestConvertToFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "keymap.keymap")
	r := execute(t, "", "convert", "-o", out, fixture)
	require.NoError(t, r.err, r.stderr)
	assert.Empty(t, r.stdout)
	assert.Equal(t, readFile(t, golden), readFile(t, out))
}

func TestConvertFailurePrintsNothing(t *testing.T) {
	src := strings.Replace(readFile(t, fixture), "KC_HOME,", "KC_NOPE,", 1)
	r := execute(t, src, "convert")
	require.ErrorIs(t, r.err, errDiagnostics)
	assert.Empty(t, r.stdout)
	assert.Contains(t, r.stderr, "KEY5001")
	assert.Contains(t, r.stderr, "KC_NOPE")
	assert.Contains(t, r.stderr, "<stdin>:")
}

func TestConvertTimings(t *testing.T) {
	r := execute(t, "", "--timings", "convert", fixture)
	require.NoError(t, r.err)
	assert.Contains(t, r.stderr, "timings:")
	assert.Contains(t, r.stderr, "render")
}

func TestCheckCommand(t *testing.T) {
	bad := filepath.Join(t.TempDir(), "bad.c")
	require.NoError(t, os.WriteFile(bad, []byte("int x;\n"), 0o600))

	r := execute(t, "", "check", fixture)
	require.NoError(t, r.err)
	assert.Contains(t, r.stderr, "checked 1 file(s), 0 failed")

	r = execute(t, "", "check", "--format", "short", "--jobs", "2", fixture, bad)
	require.ErrorIs(t, r.err, errDiagnostics)
	assert.Contains(t, r.stdout, "EXT1001")
	assert.Contains(t, r.stderr, "checked 2 file(s), 1 failed")
}

func TestInspectCommand(t *testing.T) {
	r := execute(t, "", "inspect", "--format", "json", fixture)
	require.NoError(t, r.err, r.stderr)
	var m driver.Model
	require.NoError(t, json.Unmarshal([]byte(r.stdout), &m))
	require.Len(t, m.Layers, 3)
	assert.Equal(t, "umlt", m.Layers[1].Name)

	r = execute(t, "", "inspect", fixture)
	require.NoError(t, r.err)
	assert.Contains(t, r.stdout, "default_layer [0] 76 bindings")
	assert.Contains(t, r.stdout, "toggle")

	r = execute(t, "", "inspect", "--format", "yaml", fixture)
	assert.Error(t, r.err)
}

func TestTokenizeCommand(t *testing.T) {
	r := execute(t, "keymaps[] = {\n  [0] = LAYOUT_ergodox_pretty(KC_A),\n};\n", "tokenize")
	require.NoError(t, r.err, r.stderr)
	assert.Contains(t, r.stdout, "String")
	assert.Contains(t, r.stdout, "KC_A")
}

func TestVersionCommand(t *testing.T) {
	r := execute(t, "", "version", "--format", "json", "--full")
	require.NoError(t, r.err)
	var payload versionPayload
	require.NoError(t, json.Unmarshal([]byte(r.stdout), &payload))
	assert.Equal(t, "qmk2zmk", payload.Tool)
	assert.Equal(t, "unknown", payload.GitCommit)

	r = execute(t, "", "version")
	require.NoError(t, r.err)
	assert.True(t, strings.HasPrefix(r.stdout, "qmk2zmk "))
}

func TestBadConfigIsReported(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "qmk2zmk.toml")
	require.NoError(t, os.WriteFile(cfg, []byte("[render]\nbogus = 1\n"), 0o600))
	r := execute(t, "", "convert", "--config", cfg, fixture)
	require.Error(t, r.err)
	assert.Contains(t, r.err.Error(), "bogus")
}

func TestCheckRejectsUnknownUIMode(t *testing.T) {
	r := execute(t, "", "check", "--ui", "sometimes", fixture)
	assert.ErrorContains(t, r.err, "unknown ui mode")
}

func TestWantProgressUI(t *testing.T) {
	var buf bytes.Buffer
	on, err := wantProgressUI("auto", &buf, 3, false)
	require.NoError(t, err)
	assert.False(t, on)
	on, err = wantProgressUI("on", &buf, 1, false)
	require.NoError(t, err)
	assert.True(t, on)
}

func TestDiagnosticLimitKeepsFailure(t *testing.T) {
	keys := make([]string, 76)
	for i := range keys {
		keys[i] = "KC_A"
	}
	row := strings.Join(keys, ", ")
	src := "keymaps[] = {\n" +
		"  [0] = LAYOUT_ergodox_pretty(" + row + "),\n" +
		"  [0] = LAYOUT_ergodox_pretty(" + row + "),\n" +
		"  [1] = LAYOUT_ergodox_pretty(BOGUS_IDENT, " + strings.Join(keys[1:], ", ") + "),\n" +
		"};\n"

	r := execute(t, src, "--max-diagnostics", "1", "convert")
	require.ErrorIs(t, r.err, errDiagnostics)
	assert.Empty(t, r.stdout)
	assert.Contains(t, r.stderr, "EVL4008")
	assert.Contains(t, r.stderr, "1 more diagnostic(s) not shown")
}

func TestAllowShapeMismatchFlag(t *testing.T) {
	src := "keymaps[] = {\n  [0] = LAYOUT_ergodox_pretty(KC_A, KC_B),\n};\n"

	r := execute(t, src, "convert")
	require.ErrorIs(t, r.err, errDiagnostics)
	assert.Contains(t, r.stderr, "REN6001")

	r = execute(t, src, "--allow-shape-mismatch", "convert")
	require.NoError(t, r.err, r.stderr)
	assert.Contains(t, r.stdout, "default_layer {")
	assert.Contains(t, r.stderr, "REN6001")

	r = execute(t, src, "convert", "--allow-shape-mismatch", "--quiet")
	require.NoError(t, r.err)
	assert.Empty(t, r.stderr)
}

func TestCheckQuietPrintsFirstError(t *testing.T) {
	bad := filepath.Join(t.TempDir(), "bad.c")
	require.NoError(t, os.WriteFile(bad, []byte("int x;\n"), 0o600))
	r := execute(t, "", "check", "--quiet", fixture, bad)
	require.ErrorIs(t, r.err, errDiagnostics)
	assert.True(t, strings.HasPrefix(r.stdout, bad+": EXT1001 no line matching "), r.stdout)
	assert.Equal(t, 1, strings.Count(r.stdout, "\n"))
}
