package chunker

// Chunker defines the interface for text chunking strategies.
// Implementations are stateless after construction and safe for concurrent use.
type Chunker interface {
	// ChunkText splits text into an ordered sequence of non-empty chunks.
	// Empty or whitespace-only text yields an empty sequence.
	ChunkText(text string) ([]Chunk, error)

	// Strategy reports which algorithm the chunker implements.
	Strategy() ChunkStrategy
}

// ChunkStrategy represents the chunking algorithm type.
type ChunkStrategy string

const (
	// DocumentBased aggregates sentences within paragraphs up to DocumentBudget runes.
	DocumentBased ChunkStrategy = "document"

	// FixedSize aggregates sentences up to a caller-supplied rune budget.
	FixedSize ChunkStrategy = "fixed_size"

	// Recursive bisects text at its rune midpoint until pieces fit.
	Recursive ChunkStrategy = "recursive"

	// FixedSizeOverlap splits text into fixed-size word windows with overlap.
	FixedSizeOverlap ChunkStrategy = "fixed_overlap"

	// SentenceBased groups a fixed number of sentences per chunk.
	SentenceBased ChunkStrategy = "sentence"

	// TokenBased windows over subword tokens of a pretrained vocabulary.
	TokenBased ChunkStrategy = "token"
)

// Strategies lists every supported strategy in a stable order.
var Strategies = []ChunkStrategy{
	DocumentBased, FixedSize, Recursive, FixedSizeOverlap, SentenceBased, TokenBased,
}

// Unit names what a chunk's Start and End count for the strategy.
func (s ChunkStrategy) Unit() string {
	switch s {
	case DocumentBased, FixedSize, SentenceBased:
		return "sentences"
	case Recursive:
		return "runes"
	case FixedSizeOverlap:
		return "words"
	case TokenBased:
		return "tokens"
	default:
		return ""
	}
}

// DocumentBudget is the fixed rune budget of the document-based strategy.
const DocumentBudget = 100

// Chunk represents a single chunk of text with its metadata.
type Chunk struct {
	// Text is the trimmed content of this chunk; never empty
	Text string `json:"text"`

	// Index is the chunk's position in the sequence (0-based)
	Index int `json:"index"`

	// Start is the first unit covered by the chunk (see ChunkStrategy.Unit)
	Start int `json:"start"`

	// End is one past the last unit covered by the chunk
	End int `json:"end"`

	// Tokens is a model token count, set only when counting was requested
	Tokens int `json:"tokens,omitempty"`
}

// Texts returns the text of each chunk in order.
func Texts(chunks []Chunk) []string {
	if len(chunks) == 0 {
		return nil
	}
	out := make([]string, len(chunks))
	for i, c := range chunks {
		out[i] = c.Text
	}
	return out
}

// Params is implemented by the per-strategy parameter structs.
type Params interface {
	// Strategy reports which chunker the parameters configure.
	Strategy() ChunkStrategy

	// Validate rejects configurations the strategy cannot run with.
	Validate() error
}

// DocumentParams configures the document-based strategy. Its budget is fixed
// at DocumentBudget.
type DocumentParams struct{}

func (DocumentParams) Strategy() ChunkStrategy { return DocumentBased }
func (DocumentParams) Validate() error         { return nil }

// FixedSizeParams configures the fixed-size sentence aggregator.
type FixedSizeParams struct {
	// ChunkSize is the rune budget per chunk
	ChunkSize int
}

func (FixedSizeParams) Strategy() ChunkStrategy { return FixedSize }

func (p FixedSizeParams) Validate() error {
	if p.ChunkSize <= 0 {
		return ErrInvalidChunkSize
	}
	return nil
}

// RecursiveParams configures recursive bisection.
type RecursiveParams struct {
	// MaxChunkSize is the largest rune length returned without splitting
	MaxChunkSize int

	// MinChunkSize is the smallest half a split may produce
	MinChunkSize int
}

func (RecursiveParams) Strategy() ChunkStrategy { return Recursive }

func (p RecursiveParams) Validate() error {
	if p.MaxChunkSize <= 0 {
		return ErrInvalidMaxChunkSize
	}
	if p.MinChunkSize <= 0 {
		return ErrInvalidMinChunkSize
	}
	return nil
}

// FixedOverlapParams configures the overlapping word window.
type FixedOverlapParams struct {
	// ChunkSize is the number of words per window
	ChunkSize int

	// Overlap is the number of trailing words repeated in the next window
	Overlap int
}

func (FixedOverlapParams) Strategy() ChunkStrategy { return FixedSizeOverlap }

func (p FixedOverlapParams) Validate() error {
	if p.ChunkSize <= 0 {
		return ErrInvalidChunkSize
	}
	if p.Overlap < 0 {
		return ErrInvalidOverlap
	}
	if p.Overlap >= p.ChunkSize {
		return ErrOverlapTooLarge
	}
	return nil
}

// SentenceParams configures the sentence-count window.
type SentenceParams struct {
	MaxSentences int
}

func (SentenceParams) Strategy() ChunkStrategy { return SentenceBased }

func (p SentenceParams) Validate() error {
	if p.MaxSentences <= 0 {
		return ErrInvalidMaxSentences
	}
	return nil
}

// TokenParams configures the subword-token window.
type TokenParams struct {
	MaxTokens int
}

func (TokenParams) Strategy() ChunkStrategy { return TokenBased }

func (p TokenParams) Validate() error {
	if p.MaxTokens <= 0 {
		return ErrInvalidMaxTokens
	}
	return nil
}

// ChunkConfig is the flat form of a strategy selection, as read from config
// files and command-line flags. Only the fields of the selected strategy are used.
type ChunkConfig struct {
	Strategy ChunkStrategy

	// ChunkSize is the rune budget for FixedSize and the word count for FixedSizeOverlap
	ChunkSize int

	// ChunkOverlap is the word overlap for FixedSizeOverlap
	ChunkOverlap int

	MaxChunkSize int
	MinChunkSize int
	MaxSentences int
	MaxTokens    int
}

// DefaultChunkConfig returns the default chunking configuration.
func DefaultChunkConfig() ChunkConfig {
	return ChunkConfig{
		Strategy:     DocumentBased,
		ChunkSize:    200,
		ChunkOverlap: 20,
		MaxChunkSize: 1000,
		MinChunkSize: 100,
		MaxSentences: 5,
		MaxTokens:    256,
	}
}

// Params converts the configuration into the selected strategy's parameters.
func (c ChunkConfig) Params() (Params, error) {
	var p Params
	switch c.Strategy {
	case DocumentBased:
		p = DocumentParams{}
	case FixedSize:
		p = FixedSizeParams{ChunkSize: c.ChunkSize}
	case Recursive:
		p = RecursiveParams{MaxChunkSize: c.MaxChunkSize, MinChunkSize: c.MinChunkSize}
	case FixedSizeOverlap:
		p = FixedOverlapParams{ChunkSize: c.ChunkSize, Overlap: c.ChunkOverlap}
	case SentenceBased:
		p = SentenceParams{MaxSentences: c.MaxSentences}
	case TokenBased:
		p = TokenParams{MaxTokens: c.MaxTokens}
	default:
		return nil, ErrUnsupportedStrategy
	}
	return p, nil
}

// Validate checks if the chunk configuration is valid.
func (c ChunkConfig) Validate() error {
	p, err := c.Params()
	if err != nil {
		return err
	}
	return p.Validate()
}
