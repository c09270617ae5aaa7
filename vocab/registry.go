// Package vocab loads pretrained subword vocabularies and shares them
// read-only across chunkers.
package vocab

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"github.com/botirk38/chunkkit/logger"
	"github.com/botirk38/chunkkit/types"
)

const (
	SchemeTiktoken       = "tiktoken"
	SchemeWordPiece      = "wordpiece"
	SchemeWordPieceCased = "wordpiece-cased"

	// DefaultVocabulary is the vocabulary used when none is configured.
	DefaultVocabulary = SchemeTiktoken + ":cl100k_base"

	defaultCacheSize = 8
)

var (
	// ErrInvalidReference indicates a reference not of the form "scheme:location"
	ErrInvalidReference = errors.New("vocabulary reference must be scheme:location")

	// ErrUnknownScheme indicates no loader is registered for the scheme
	ErrUnknownScheme = errors.New("unknown vocabulary scheme")
)

// Loader loads the vocabulary at location for one scheme.
type Loader func(ctx context.Context, location string) (types.Vocabulary, error)

// Registry resolves vocabulary references to loaded vocabularies. Each
// reference is loaded at most once while it stays cached; concurrent requests
// for the same reference share a single load.
type Registry struct {
	mu      sync.RWMutex
	loaders map[string]Loader
	cache   *lru.Cache[string, types.Vocabulary]
	group   singleflight.Group
	logger  logger.Logger
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry) error

// WithCacheSize bounds how many loaded vocabularies stay resident.
func WithCacheSize(size int) RegistryOption {
	return func(r *Registry) error {
		cache, err := lru.New[string, types.Vocabulary](size)
		if err != nil {
			return err
		}
		r.cache = cache
		return nil
	}
}

// WithLogger sets the logger used for load events.
func WithLogger(l logger.Logger) RegistryOption {
	return func(r *Registry) error {
		if l == nil {
			return errors.New("logger cannot be nil")
		}
		r.logger = l
		return nil
	}
}

// WithLoader registers a loader for scheme.
func WithLoader(scheme string, loader Loader) RegistryOption {
	return func(r *Registry) error {
		if loader == nil {
			return errors.New("loader cannot be nil")
		}
		r.loaders[scheme] = loader
		return nil
	}
}

// NewRegistry creates a Registry with the tiktoken and wordpiece schemes registered.
func NewRegistry(opts ...RegistryOption) (*Registry, error) {
	r := &Registry{
		loaders: map[string]Loader{
			SchemeTiktoken:       loadTiktoken,
			SchemeWordPiece:      loadWordPiece(true),
			SchemeWordPieceCased: loadWordPiece(false),
		},
		logger: logger.NewNop(),
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	if r.cache == nil {
		cache, err := lru.New[string, types.Vocabulary](defaultCacheSize)
		if err != nil {
			return nil, err
		}
		r.cache = cache
	}
	return r, nil
}

// Register adds or replaces the loader for scheme.
func (r *Registry) Register(scheme string, loader Loader) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loaders[scheme] = loader
}

// Schemes returns the registered scheme names.
func (r *Registry) Schemes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.loaders))
	for s := range r.loaders {
		out = append(out, s)
	}
	return out
}

// Get returns the vocabulary for ref, loading it on first use.
func (r *Registry) Get(ctx context.Context, ref string) (types.Vocabulary, error) {
	scheme, location, ok := strings.Cut(strings.TrimSpace(ref), ":")
	if !ok || scheme == "" || location == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidReference, ref)
	}
	key := scheme + ":" + location

	if v, ok := r.cache.Get(key); ok {
		r.logger.Debug("vocabulary cache hit", "vocabulary", key)
		return v, nil
	}

	r.mu.RLock()
	loader, ok := r.loaders[scheme]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScheme, scheme)
	}

	v, err, _ := r.group.Do(key, func() (any, error) {
		if v, ok := r.cache.Get(key); ok {
			return v, nil
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		started := time.Now()
		v, err := loader(ctx, location)
		if err != nil {
			return nil, err
		}
		r.cache.Add(key, v)
		r.logger.Info("vocabulary loaded", "vocabulary", key, "elapsed", time.Since(started))
		return v, nil
	})
	if err != nil {
		return nil, fmt.Errorf("load vocabulary %s: %w", key, err)
	}
	return v.(types.Vocabulary), nil
}

// Len returns the number of resident vocabularies.
func (r *Registry) Len() int {
	return r.cache.Len()
}

// Purge evicts every resident vocabulary.
func (r *Registry) Purge() {
	r.cache.Purge()
}

func loadTiktoken(_ context.Context, location string) (types.Vocabulary, error) {
	v, err := NewTiktoken(location)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func loadWordPiece(lowercase bool) Loader {
	return func(_ context.Context, location string) (types.Vocabulary, error) {
		scheme := SchemeWordPieceCased
		if lowercase {
			scheme = SchemeWordPiece
		}
		v, err := LoadWordPieceFile(location,
			WithLowercase(lowercase),
			WithName(scheme+":"+location),
		)
		if err != nil {
			return nil, err
		}
		return v, nil
	}
}

var (
	defaultRegistryOnce sync.Once
	defaultRegistry     *Registry
)

// Default returns the process-wide registry.
func Default() *Registry {
	defaultRegistryOnce.Do(func() {
		// NewRegistry without options cannot fail
		defaultRegistry, _ = NewRegistry()
	})
	return defaultRegistry
}
