package stream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/botirk38/chunkkit/chunker"
	"github.com/botirk38/chunkkit/types"
)

// ErrUnsupportedFormat indicates an unknown output format
var ErrUnsupportedFormat = errors.New("unsupported sink format")

// Record is the JSON line written for each chunk
type Record struct {
	Source string `json:"source"`
	chunker.Chunk
}

// WriterSink writes chunks to an io.Writer as JSON lines or plain text
type WriterSink struct {
	mu     sync.Mutex
	w      io.Writer
	format types.SinkFormat
	enc    *json.Encoder
}

// NewWriterSink creates a new WriterSink. The default format is JSON lines.
func NewWriterSink(config types.SinkConfig) (*WriterSink, error) {
	if config.Writer == nil {
		return nil, errors.New("writer cannot be nil")
	}
	format := config.Format
	if format == "" {
		format = types.FormatJSONL
	}
	if format != types.FormatJSONL && format != types.FormatText {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}

	enc := json.NewEncoder(config.Writer)
	enc.SetEscapeHTML(false)
	return &WriterSink{w: config.Writer, format: format, enc: enc}, nil
}

// Write renders chunks in order. Text output separates chunks with a blank line.
func (s *WriterSink) Write(ctx context.Context, source string, chunks []chunker.Chunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range chunks {
		if err := ctx.Err(); err != nil {
			return err
		}
		var err error
		switch s.format {
		case types.FormatText:
			_, err = fmt.Fprintf(s.w, "%s\n\n", c.Text)
		default:
			err = s.enc.Encode(Record{Source: source, Chunk: c})
		}
		if err != nil {
			return fmt.Errorf("failed to write chunk %d: %w", c.Index, err)
		}
	}
	return nil
}

// Close is a no-op; the writer belongs to the caller
func (s *WriterSink) Close() error {
	return nil
}
