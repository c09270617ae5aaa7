// Package backends stores produced chunks: stream sinks for stdout, directory
// sinks for the filesystem, and cache-style sinks in memory or Redis.
package backends

import (
	"context"
	"errors"
	"os"

	"github.com/botirk38/chunkkit/backends/inmemory"
	"github.com/botirk38/chunkkit/backends/local"
	"github.com/botirk38/chunkkit/backends/remote"
	"github.com/botirk38/chunkkit/backends/stream"
	"github.com/botirk38/chunkkit/chunker"
	"github.com/botirk38/chunkkit/types"
)

var ErrUnsupportedSink = errors.New("unsupported sink type")

// Sink receives the chunks produced for one source document
type Sink interface {
	// Write stores chunks under source, replacing anything stored earlier
	// for the same source where the sink supports it.
	Write(ctx context.Context, source string, chunks []chunker.Chunk) error

	Close() error
}

var (
	_ Sink = (*stream.WriterSink)(nil)
	_ Sink = (*local.DirSink)(nil)
	_ Sink = (*inmemory.LRUSink)(nil)
	_ Sink = (*remote.RedisSink)(nil)
)

// NewSink creates a new sink of the specified type
func NewSink(sinkType types.SinkType, config types.SinkConfig) (Sink, error) {
	switch sinkType {
	case types.SinkStdout, "":
		if config.Writer == nil {
			config.Writer = os.Stdout
		}
		return asSink(stream.NewWriterSink(config))
	case types.SinkDir:
		return asSink(local.NewDirSink(config))
	case types.SinkMemory:
		return asSink(inmemory.NewLRUSink(config))
	case types.SinkRedis:
		return asSink(remote.NewRedisSink(config))
	default:
		return nil, ErrUnsupportedSink
	}
}

func asSink[S Sink](s S, err error) (Sink, error) {
	if err != nil {
		return nil, err
	}
	return s, nil
}
