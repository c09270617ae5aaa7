package local

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/botirk38/chunkkit/chunker"
	"github.com/botirk38/chunkkit/types"
)

func readChunkFiles(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestDirSink_Write(t *testing.T) {
	root := t.TempDir()
	sink, err := NewDirSink(types.SinkConfig{Dir: filepath.Join(root, "out")})
	require.NoError(t, err)

	chunks := []chunker.Chunk{
		{Text: "first", Index: 0},
		{Text: "second", Index: 1},
	}
	require.NoError(t, sink.Write(context.Background(), "/data/report.pdf", chunks))

	folder := filepath.Join(sink.Dir(), "report.pdf")
	assert.Equal(t, []string{"chunk_0000.txt", "chunk_0001.txt"}, readChunkFiles(t, folder))

	data, err := os.ReadFile(filepath.Join(folder, "chunk_0001.txt"))
	require.NoError(t, err)
	assert.Equal(t, "second\n", string(data))

	// A rewrite replaces the previous chunks
	require.NoError(t, sink.Write(context.Background(), "/data/report.pdf", chunks[:1]))
	assert.Equal(t, []string{"chunk_0000.txt"}, readChunkFiles(t, folder))
}

func TestDirSink_SameBaseName(t *testing.T) {
	ctx := context.Background()
	sink, err := NewDirSink(types.SinkConfig{Dir: t.TempDir()})
	require.NoError(t, err)

	two := []chunker.Chunk{{Text: "one", Index: 0}, {Text: "two", Index: 1}}
	one := []chunker.Chunk{{Text: "only", Index: 0}}

	// Different extensions get separate folders
	require.NoError(t, sink.Write(ctx, "a/report.txt", two))
	require.NoError(t, sink.Write(ctx, "b/report.md", one))
	assert.Len(t, readChunkFiles(t, filepath.Join(sink.Dir(), "report.txt")), 2)
	assert.Len(t, readChunkFiles(t, filepath.Join(sink.Dir(), "report.md")), 1)

	// Same base name from another directory is refused
	err = sink.Write(ctx, "c/report.txt", one)
	assert.ErrorIs(t, err, ErrFolderConflict)
	assert.Len(t, readChunkFiles(t, filepath.Join(sink.Dir(), "report.txt")), 2, "earlier chunks are kept")
}

func TestDirSink_Clean(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "stale.txt"), []byte("x"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "old", "nested"), 0o755))

	_, err := NewDirSink(types.SinkConfig{Dir: dir})
	require.NoError(t, err)
	assert.Len(t, readChunkFiles(t, dir), 2, "without Clean existing files stay")

	_, err = NewDirSink(types.SinkConfig{Dir: dir, Clean: true})
	require.NoError(t, err)
	assert.Empty(t, readChunkFiles(t, dir))

	_, err = os.Stat(dir)
	assert.NoError(t, err, "the folder itself is kept")
}

func TestClearFolder_Missing(t *testing.T) {
	assert.NoError(t, ClearFolder(filepath.Join(t.TempDir(), "missing")))
}

func TestFolderName(t *testing.T) {
	tests := map[string]string{
		"notes.txt":          "notes.txt",
		"/a/b/c.tar.gz":      "c.tar.gz",
		"":                   "stdin",
		"stdin":              "stdin",
		"https:example.html": "https_example.html",
	}
	for in, want := range tests {
		assert.Equal(t, want, folderName(in), in)
	}
}

func TestNewDirSink_RequiresDir(t *testing.T) {
	_, err := NewDirSink(types.SinkConfig{})
	assert.Error(t, err)
}
