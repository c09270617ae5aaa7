package local

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/botirk38/chunkkit/chunker"
	"github.com/botirk38/chunkkit/types"
)

// ErrFolderConflict indicates two sources that map to the same output folder
var ErrFolderConflict = errors.New("sources share an output folder")

// DirSink writes each chunk to its own file under <dir>/<source>/
type DirSink struct {
	dir string

	mu      sync.Mutex
	written map[string]string // folder -> source
}

// NewDirSink creates the output directory, clearing it first when config.Clean is set.
func NewDirSink(config types.SinkConfig) (*DirSink, error) {
	if config.Dir == "" {
		return nil, errors.New("output directory is required")
	}
	if err := CreateFolder(config.Dir); err != nil {
		return nil, err
	}
	if config.Clean {
		if err := ClearFolder(config.Dir); err != nil {
			return nil, err
		}
	}
	return &DirSink{dir: config.Dir, written: make(map[string]string)}, nil
}

// Dir returns the sink's root directory
func (s *DirSink) Dir() string {
	return s.dir
}

// Write replaces the source's folder with one numbered .txt file per chunk.
// Writing a second source whose folder name matches an earlier one fails
// with ErrFolderConflict instead of replacing the earlier chunks.
func (s *DirSink) Write(ctx context.Context, source string, chunks []chunker.Chunk) error {
	name := folderName(source)
	if err := s.claim(name, source); err != nil {
		return err
	}
	folder := filepath.Join(s.dir, name)
	if err := os.RemoveAll(folder); err != nil {
		return fmt.Errorf("failed to replace %s: %w", folder, err)
	}
	if err := CreateFolder(folder); err != nil {
		return err
	}

	for _, c := range chunks {
		if err := ctx.Err(); err != nil {
			return err
		}
		path := filepath.Join(folder, fmt.Sprintf("chunk_%04d.txt", c.Index))
		if err := os.WriteFile(path, []byte(c.Text+"\n"), 0o644); err != nil {
			return fmt.Errorf("failed to write chunk %d: %w", c.Index, err)
		}
	}
	return nil
}

func (s *DirSink) claim(name, source string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if owner, ok := s.written[name]; ok && owner != source {
		return fmt.Errorf("%w: %s and %s both write %s", ErrFolderConflict, owner, source, name)
	}
	s.written[name] = source
	return nil
}

// Close is a no-op for directory sinks
func (s *DirSink) Close() error {
	return nil
}

// CreateFolder creates path and any missing parents. An existing folder is fine.
func CreateFolder(path string) error {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("failed to create folder %s: %w", path, err)
	}
	return nil
}

// ClearFolder removes everything inside path but keeps path itself.
// A missing folder is not an error.
func ClearFolder(path string) error {
	entries, err := os.ReadDir(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read folder %s: %w", path, err)
	}
	for _, e := range entries {
		if err := os.RemoveAll(filepath.Join(path, e.Name())); err != nil {
			return fmt.Errorf("failed to clear folder %s: %w", path, err)
		}
	}
	return nil
}

// folderName derives a safe folder name from a source path: its base name,
// extension included.
func folderName(source string) string {
	name := filepath.Base(source)
	name = strings.Map(func(r rune) rune {
		if r == os.PathSeparator || r == '/' || r == ':' {
			return '_'
		}
		return r
	}, name)
	if name == "" || name == "." || name == ".." {
		return "stdin"
	}
	return name
}
