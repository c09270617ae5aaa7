package inmemory

import (
	"context"
	"slices"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/botirk38/chunkkit/chunker"
	"github.com/botirk38/chunkkit/types"
)

// DefaultCapacity is used when the config leaves Capacity unset
const DefaultCapacity = 128

// LRUSink keeps the chunk sequences of the most recently written sources.
// The underlying cache is safe for concurrent use.
type LRUSink struct {
	cache *lru.Cache[string, []chunker.Chunk]
}

// NewLRUSink creates a new LRU sink
func NewLRUSink(config types.SinkConfig) (*LRUSink, error) {
	capacity := config.Capacity
	if capacity == 0 {
		capacity = DefaultCapacity
	}
	cache, err := lru.New[string, []chunker.Chunk](capacity)
	if err != nil {
		return nil, err
	}
	return &LRUSink{cache: cache}, nil
}

// Write stores a copy of chunks under source
func (s *LRUSink) Write(ctx context.Context, source string, chunks []chunker.Chunk) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.cache.Add(source, slices.Clone(chunks))
	return nil
}

// Get retrieves the chunks stored for source
func (s *LRUSink) Get(source string) ([]chunker.Chunk, bool) {
	chunks, ok := s.cache.Get(source)
	if !ok {
		return nil, false
	}
	return slices.Clone(chunks), true
}

// Sources returns the stored sources, oldest first
func (s *LRUSink) Sources() []string {
	return s.cache.Keys()
}

// Len returns the number of stored sources
func (s *LRUSink) Len() int {
	return s.cache.Len()
}

// Close purges the sink
func (s *LRUSink) Close() error {
	s.cache.Purge()
	return nil
}
