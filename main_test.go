package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"bdecode/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolateConfig points the log file and history database into a temporary
// directory and restores the global configuration afterwards.
func isolateConfig(t *testing.T, history bool) string {
	t.Helper()
	dir := t.TempDir()
	saved := *config.Main
	savedDB := *config.Main.DB
	t.Cleanup(func() {
		*config.Main = saved
		*config.Main.DB = savedDB
	})

	config.Main.LogFile = ""
	config.Main.DB.Path = filepath.Join(dir, "state.db")
	config.Main.DB.HistoryEnabled = history
	return dir
}

func TestRunDecode(t *testing.T) {
	dir := isolateConfig(t, false)

	tests := []struct {
		input string
		want  string
	}{
		{"5:mango", `"mango"`},
		{"i69640597e", `69640597`},
		{"i42949678300e", `42949678300`},
		{"l5:applei472ee", `["apple",472]`},
		{"lli472e5:appleee", `[[472,"apple"]]`},
		{"d3:foo10:strawberry5:helloi52ee", `{"foo":"strawberry","hello":52}`},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var out bytes.Buffer
			assert.Equal(t, 0, run([]string{"decode", tt.input}, &out))
			assert.Equal(t, tt.want+"\n", out.String())
		})
	}

	// nothing is written to disk unless history is switched on
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRunDecodeFailures(t *testing.T) {
	isolateConfig(t, false)

	for _, input := range []string{"i-0e", "5:man", "i1ei2e", "d1:ae"} {
		t.Run(input, func(t *testing.T) {
			var out bytes.Buffer
			assert.NotEqual(t, 0, run([]string{"decode", input}, &out))
			assert.Empty(t, out.String())
		})
	}

	var out bytes.Buffer
	assert.NotEqual(t, 0, run([]string{"decode", "llee", "--max-depth", "1"}, &out))
	assert.NotEqual(t, 0, run([]string{"decode", "d1:bi1e1:ai2ee", "--strict"}, &out))
	assert.Empty(t, out.String())
}

func TestRunRejectsBadArguments(t *testing.T) {
	isolateConfig(t, false)

	var out bytes.Buffer
	assert.NotEqual(t, 0, run([]string{"decode"}, &out))
	assert.NotEqual(t, 0, run([]string{"frobnicate"}, &out))
	assert.NotEqual(t, 0, run([]string{"info", filepath.Join(t.TempDir(), "missing.torrent")}, &out))
}

func TestRunHistory(t *testing.T) {
	dir := isolateConfig(t, true)

	var out bytes.Buffer
	require.Equal(t, 0, run([]string{"decode", "5:mango"}, &out))
	require.NotEqual(t, 0, run([]string{"decode", "i-0e"}, &out))
	assert.FileExists(t, filepath.Join(dir, "state.db"))

	out.Reset()
	require.Equal(t, 0, run([]string{"history"}, &out))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "i-0e")
	assert.Contains(t, lines[1], "5:mango")
	assert.Equal(t, "2 decodes recorded, 1 ok", lines[2])
}
