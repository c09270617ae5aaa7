package remote

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/botirk38/chunkkit/chunker"
	"github.com/botirk38/chunkkit/types"
)

const defaultPrefix = "chunkkit:"

// RedisSink stores each source's chunks as a Redis list of JSON records
type RedisSink struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// redisRecord represents a chunk stored in Redis
type redisRecord struct {
	Source string `json:"source"`
	chunker.Chunk
}

// parseRedisURL parses a Redis URL and returns redis.Options
func parseRedisURL(connectionString string) (*redis.Options, error) {
	// Handle redis:// or rediss:// URLs
	if strings.HasPrefix(connectionString, "redis://") || strings.HasPrefix(connectionString, "rediss://") {
		parsedURL, err := url.Parse(connectionString)
		if err != nil {
			return nil, fmt.Errorf("invalid Redis URL: %w", err)
		}

		opts := &redis.Options{
			Addr: parsedURL.Host,
		}

		if parsedURL.Scheme == "rediss" {
			opts.TLSConfig = &tls.Config{
				MinVersion: tls.VersionTLS12,
			}
		}

		if parsedURL.User != nil {
			opts.Username = parsedURL.User.Username()
			if password, ok := parsedURL.User.Password(); ok {
				opts.Password = password
			}
		}

		// Database number from path
		if parsedURL.Path != "" && parsedURL.Path != "/" {
			dbStr := strings.TrimPrefix(parsedURL.Path, "/")
			db, err := strconv.Atoi(dbStr)
			if err != nil {
				return nil, fmt.Errorf("invalid Redis database %q: %w", dbStr, err)
			}
			opts.DB = db
		}

		return opts, nil
	}

	// For simple address format (host:port), return minimal options
	return &redis.Options{
		Addr: connectionString,
	}, nil
}

// NewRedisSink connects to Redis and verifies the connection
func NewRedisSink(config types.SinkConfig) (*RedisSink, error) {
	if config.ConnectionString == "" {
		return nil, fmt.Errorf("redis connection string is required")
	}
	opts, err := parseRedisURL(config.ConnectionString)
	if err != nil {
		return nil, err
	}

	// Override with explicit config values if provided
	if config.Username != "" {
		opts.Username = config.Username
	}
	if config.Password != "" {
		opts.Password = config.Password
	}
	if config.Database != 0 {
		opts.DB = config.Database
	}

	client := redis.NewClient(opts)

	if err := client.Ping(context.Background()).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	prefix := config.Prefix
	if prefix == "" {
		prefix = defaultPrefix
	}

	return &RedisSink{
		client: client,
		prefix: prefix,
		ttl:    config.TTL,
	}, nil
}

// Key returns the Redis key holding source's chunks
func (s *RedisSink) Key(source string) string {
	return s.prefix + source
}

// Write replaces the list stored for source with chunks, in one transaction.
func (s *RedisSink) Write(ctx context.Context, source string, chunks []chunker.Chunk) error {
	key := s.Key(source)

	values := make([]any, len(chunks))
	for i, c := range chunks {
		data, err := json.Marshal(redisRecord{Source: source, Chunk: c})
		if err != nil {
			return fmt.Errorf("failed to marshal chunk %d: %w", c.Index, err)
		}
		values[i] = data
	}

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		if len(values) > 0 {
			pipe.RPush(ctx, key, values...)
			if s.ttl > 0 {
				pipe.Expire(ctx, key, s.ttl)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to store chunks in Redis: %w", err)
	}
	return nil
}

// Read returns the chunks stored for source, or nil if there are none
func (s *RedisSink) Read(ctx context.Context, source string) ([]chunker.Chunk, error) {
	items, err := s.client.LRange(ctx, s.Key(source), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read chunks from Redis: %w", err)
	}
	if len(items) == 0 {
		return nil, nil
	}

	chunks := make([]chunker.Chunk, 0, len(items))
	for _, item := range items {
		var rec redisRecord
		if err := json.Unmarshal([]byte(item), &rec); err != nil {
			return nil, fmt.Errorf("failed to unmarshal chunk: %w", err)
		}
		chunks = append(chunks, rec.Chunk)
	}
	return chunks, nil
}

// Sources returns every source stored under the sink's prefix using SCAN
func (s *RedisSink) Sources(ctx context.Context) ([]string, error) {
	pattern := s.prefix + "*"
	var sources []string
	var cursor uint64

	for {
		keys, nextCursor, err := s.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to scan keys from Redis: %w", err)
		}

		for _, k := range keys {
			sources = append(sources, strings.TrimPrefix(k, s.prefix))
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}

	return sources, nil
}

// Close closes the Redis connection
func (s *RedisSink) Close() error {
	return s.client.Close()
}
