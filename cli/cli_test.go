package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/botirk38/chunkkit/backends/local"
	"github.com/botirk38/chunkkit/backends/stream"
	"github.com/botirk38/chunkkit/chunker"
)

func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func decodeRecords(t *testing.T, out string) []stream.Record {
	t.Helper()
	var records []stream.Record
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		var rec stream.Record
		require.NoError(t, json.Unmarshal([]byte(line), &rec), line)
		records = append(records, rec)
	}
	return records
}

func TestStrategiesCommand(t *testing.T) {
	out, _, err := run(t, "", "strategies")
	require.NoError(t, err)
	for _, s := range chunker.Strategies {
		assert.Contains(t, out, string(s))
	}
	assert.Contains(t, out, "--max-sentences")
	assert.Contains(t, out, "100 runes")
}

func TestChunkCommand_Stdin(t *testing.T) {
	out, _, err := run(t, "A. B. C. D.",
		"chunk", "--strategy", "fixed_size", "--chunk-size", "4", "--log-level", "disabled")
	require.NoError(t, err)

	records := decodeRecords(t, out)
	require.Len(t, records, 2)
	assert.Equal(t, "stdin", records[0].Source)
	assert.Equal(t, "A. B.", records[0].Text)
	assert.Equal(t, "C. D.", records[1].Text)
	assert.Equal(t, 1, records[1].Index)
}

func TestChunkCommand_TextFormat(t *testing.T) {
	out, _, err := run(t, "w1 w2 w3 w4 w5",
		"chunk", "-s", "fixed_overlap", "--chunk-size", "2", "--overlap", "1", "--format", "text")
	require.NoError(t, err)
	assert.Equal(t, "w1 w2\n\nw2 w3\n\nw3 w4\n\nw4 w5\n\n", out)
}

func TestChunkCommand_CountTokens(t *testing.T) {
	out, _, err := run(t, "the cat sat on the mat",
		"chunk", "--strategy", "token", "--max-tokens", "3", "--count-tokens")
	require.NoError(t, err)

	records := decodeRecords(t, out)
	require.Len(t, records, 2)
	for _, rec := range records {
		assert.Equal(t, 3, rec.Tokens, rec.Text)
	}
}

func TestChunkCommand_DirSink(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first.txt")
	second := filepath.Join(dir, "second.html")
	require.NoError(t, os.WriteFile(first, []byte("One. Two. Three."), 0o644))
	require.NoError(t, os.WriteFile(second, []byte("<html><body><p>Alpha.</p><p>Beta.</p></body></html>"), 0o644))

	outDir := filepath.Join(dir, "out")
	_, logs, err := run(t, "",
		"chunk", first, second,
		"--strategy", "sentence", "--max-sentences", "1",
		"--sink", "dir", "--out-dir", outDir, "--clean")
	require.NoError(t, err)
	assert.Contains(t, logs, "chunks written")

	entries, err := os.ReadDir(filepath.Join(outDir, "first.txt"))
	require.NoError(t, err)
	assert.Len(t, entries, 3)

	data, err := os.ReadFile(filepath.Join(outDir, "second.html", "chunk_0001.txt"))
	require.NoError(t, err)
	assert.Equal(t, "Beta.\n", string(data))
}

func TestChunkCommand_DirSinkFolderConflict(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a", "report.txt")
	b := filepath.Join(dir, "b", "report.txt")
	for _, p := range []string{a, b} {
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte("One. Two."), 0o644))
	}

	_, _, err := run(t, "", "chunk", a, b, "--sink", "dir", "--out-dir", filepath.Join(dir, "out"))
	assert.ErrorIs(t, err, local.ErrFolderConflict)
}

func TestChunkCommand_RedisSink(t *testing.T) {
	mr := miniredis.RunT(t)

	_, _, err := run(t, "One. Two. Three.",
		"chunk", "--strategy", "sentence", "--max-sentences", "2",
		"--sink", "redis", "--redis-url", "redis://"+mr.Addr())
	require.NoError(t, err)

	items, err := mr.List("chunkkit:stdin")
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestChunkCommand_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chunkkit.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[chunking]
strategy = "recursive"
max_chunk_size = 4
min_chunk_size = 2

[sink]
format = "text"
`), 0o644))

	out, _, err := run(t, "abcdefgh", "--config", path, "chunk")
	require.NoError(t, err)
	assert.Equal(t, "abcd\n\nefgh\n\n", out)
}

func TestChunkCommand_InvalidConfiguration(t *testing.T) {
	_, _, err := run(t, "text", "chunk", "--strategy", "fixed_overlap", "--chunk-size", "2", "--overlap", "2")
	assert.ErrorIs(t, err, chunker.ErrOverlapTooLarge)

	_, _, err = run(t, "text", "chunk", "--strategy", "semantic")
	assert.Error(t, err)

	_, _, err = run(t, "", "chunk", filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

func TestConfigCommand(t *testing.T) {
	out, _, err := run(t, "", "config", "--log-level", "warn")
	require.NoError(t, err)
	assert.Contains(t, out, `strategy = "document"`)
	assert.Contains(t, out, `level = "warn"`)
}
