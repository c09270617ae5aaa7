package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/botirk38/chunkkit"
	"github.com/botirk38/chunkkit/backends"
	"github.com/botirk38/chunkkit/loader"
	"github.com/botirk38/chunkkit/logger"
	"github.com/botirk38/chunkkit/options"
	"github.com/botirk38/chunkkit/tokenizer"
	"github.com/botirk38/chunkkit/vocab"
)

const stdinSource = "stdin"

type chunkFlags struct {
	strategy     string
	chunkSize    int
	overlap      int
	maxChunkSize int
	minChunkSize int
	maxSentences int
	maxTokens    int
	vocabulary   string
	concurrency  int

	sink     string
	format   string
	outDir   string
	clean    bool
	redisURL string

	countTokens bool
	counter     string
	model       string
}

func newChunkCommand(a *app) *cobra.Command {
	f := &chunkFlags{}

	cmd := &cobra.Command{
		Use:   "chunk [files...]",
		Short: "Chunk documents and write the chunks to a sink",
		Long: "Chunk text, HTML or PDF documents with the selected strategy. " +
			"Reads standard input when no file is given.",
		RunE: func(cmd *cobra.Command, args []string) error {
			f.apply(cmd, a)
			if err := a.cfg.Validate(); err != nil {
				return err
			}
			return a.runChunk(cmd, args)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&f.strategy, "strategy", "s", "", "Strategy: document, fixed_size, recursive, fixed_overlap, sentence, token")
	flags.IntVar(&f.chunkSize, "chunk-size", 0, "Rune budget (fixed_size) or words per window (fixed_overlap)")
	flags.IntVar(&f.overlap, "overlap", 0, "Words shared by consecutive windows (fixed_overlap)")
	flags.IntVar(&f.maxChunkSize, "max-chunk-size", 0, "Largest piece in runes (recursive)")
	flags.IntVar(&f.minChunkSize, "min-chunk-size", 0, "Smallest half in runes (recursive)")
	flags.IntVar(&f.maxSentences, "max-sentences", 0, "Sentences per chunk (sentence)")
	flags.IntVar(&f.maxTokens, "max-tokens", 0, "Tokens per chunk (token)")
	flags.StringVar(&f.vocabulary, "vocabulary", "", "Vocabulary reference, e.g. tiktoken:cl100k_base or wordpiece:/path/vocab.txt")
	flags.IntVar(&f.concurrency, "concurrency", 0, "Documents chunked at once")
	flags.StringVar(&f.sink, "sink", "", "Sink: stdout, dir, memory, redis")
	flags.StringVar(&f.format, "format", "", "Stdout format: jsonl, text")
	flags.StringVarP(&f.outDir, "out-dir", "o", "", "Output directory for the dir sink")
	flags.BoolVar(&f.clean, "clean", false, "Clear the output directory first")
	flags.StringVar(&f.redisURL, "redis-url", "", "Redis URL for the redis sink")
	flags.BoolVar(&f.countTokens, "count-tokens", false, "Annotate each chunk with its model token count")
	flags.StringVar(&f.counter, "counter", "", "Token counter: tiktoken, anthropic, gemini")
	flags.StringVar(&f.model, "model", "", "Model whose tokenizer counts tokens")

	return cmd
}

// apply copies explicitly set flags over the loaded configuration.
func (f *chunkFlags) apply(cmd *cobra.Command, a *app) {
	changed := cmd.Flags().Changed
	c := a.cfg

	if changed("strategy") {
		c.Chunking.Strategy = f.strategy
	}
	if changed("chunk-size") {
		c.Chunking.ChunkSize = f.chunkSize
	}
	if changed("overlap") {
		c.Chunking.ChunkOverlap = f.overlap
	}
	if changed("max-chunk-size") {
		c.Chunking.MaxChunkSize = f.maxChunkSize
	}
	if changed("min-chunk-size") {
		c.Chunking.MinChunkSize = f.minChunkSize
	}
	if changed("max-sentences") {
		c.Chunking.MaxSentences = f.maxSentences
	}
	if changed("max-tokens") {
		c.Chunking.MaxTokens = f.maxTokens
	}
	if changed("vocabulary") {
		c.Vocabulary.Name = f.vocabulary
	}
	if changed("concurrency") {
		c.Chunking.Concurrency = f.concurrency
	}
	if changed("sink") {
		c.Sink.Type = f.sink
	}
	if changed("format") {
		c.Sink.Format = f.format
	}
	if changed("out-dir") {
		c.Sink.Dir = f.outDir
	}
	if changed("clean") {
		c.Sink.Clean = f.clean
	}
	if changed("redis-url") {
		c.Sink.Redis.URL = f.redisURL
	}
	if changed("count-tokens") {
		c.Tokens.Enabled = f.countTokens
	}
	if changed("counter") {
		c.Tokens.Counter = f.counter
	}
	if changed("model") {
		c.Tokens.Model = f.model
	}
}

func (a *app) runChunk(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := a.cfg

	docs, err := readDocuments(cmd.InOrStdin(), args, a.log)
	if err != nil {
		return err
	}

	registry, err := vocab.NewRegistry(
		vocab.WithCacheSize(cfg.Vocabulary.CacheSize),
		vocab.WithLogger(a.log),
	)
	if err != nil {
		return err
	}

	opts := []options.Option{
		options.WithChunkConfig(cfg.ChunkConfig()),
		options.WithSentenceOptions(cfg.SplitterOptions()...),
		options.WithVocabularyName(cfg.Vocabulary.Name),
		options.WithRegistry(registry),
		options.WithLogger(a.log),
	}
	if cfg.Chunking.Concurrency > 0 {
		opts = append(opts, options.WithConcurrency(cfg.Chunking.Concurrency))
	}
	splitter, err := chunkkit.NewContext(ctx, opts...)
	if err != nil {
		return err
	}

	results, err := splitter.ChunkBatch(ctx, docs)
	if err != nil {
		return err
	}

	if cfg.Tokens.Enabled {
		counter, err := tokenizer.NewCounter(ctx, cfg.CounterConfig())
		if err != nil {
			return err
		}
		for i, chunks := range results {
			counts, err := tokenizer.CountChunks(ctx, counter, chunks, cfg.Tokens.Concurrency)
			if err != nil {
				return fmt.Errorf("%s: %w", docs[i].Source, err)
			}
			for j := range chunks {
				chunks[j].Tokens = counts[j]
			}
		}
	}

	sink, err := backends.NewSink(cfg.SinkConfig(cmd.OutOrStdout()))
	if err != nil {
		return err
	}
	defer sink.Close()

	for i, doc := range docs {
		if err := sink.Write(ctx, doc.Source, results[i]); err != nil {
			return fmt.Errorf("%s: %w", doc.Source, err)
		}
		a.log.Info("chunks written", "source", doc.Source, "chunks", len(results[i]), "sink", cfg.Sink.Type)
	}
	return nil
}

func readDocuments(stdin io.Reader, paths []string, log logger.Logger) ([]chunkkit.Document, error) {
	if len(paths) == 0 {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		doc, err := loader.LoadBytes(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", stdinSource, err)
		}
		if doc.SkippedPages > 0 {
			log.Warn("skipped unreadable pages", "source", stdinSource, "pages", doc.SkippedPages)
		}
		return []chunkkit.Document{{Source: stdinSource, Text: doc.Text}}, nil
	}

	docs := make([]chunkkit.Document, 0, len(paths))
	for _, path := range paths {
		doc, err := loader.Load(path)
		if err != nil {
			return nil, err
		}
		if doc.SkippedPages > 0 {
			log.Warn("skipped unreadable pages", "source", doc.Source, "pages", doc.SkippedPages)
		}
		docs = append(docs, chunkkit.Document{Source: doc.Source, Text: doc.Text})
	}
	return docs, nil
}
