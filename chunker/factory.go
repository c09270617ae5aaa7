package chunker

import "github.com/botirk38/chunkkit/types"

// Deps carries the collaborators a strategy may need. Unused fields are ignored.
type Deps struct {
	// Splitter detects sentences; nil selects the default splitter
	Splitter types.SentenceSplitter

	// Vocabulary is required by TokenBased
	Vocabulary types.Vocabulary
}

// New creates the chunker selected by params.
func New(params Params, deps Deps) (Chunker, error) {
	var (
		c   Chunker
		err error
	)
	switch p := params.(type) {
	case DocumentParams:
		c = NewDocumentChunker(deps.Splitter)
	case FixedSizeParams:
		c, err = asChunker(NewFixedSizeChunker(p, deps.Splitter))
	case RecursiveParams:
		c, err = asChunker(NewRecursiveChunker(p))
	case FixedOverlapParams:
		c, err = asChunker(NewFixedOverlapChunker(p))
	case SentenceParams:
		c, err = asChunker(NewSentenceChunker(p, deps.Splitter))
	case TokenParams:
		c, err = asChunker(NewTokenChunker(p, deps.Vocabulary))
	default:
		return nil, ErrUnsupportedStrategy
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// asChunker drops the typed nil a failed constructor returns.
func asChunker[C Chunker](c C, err error) (Chunker, error) {
	if err != nil {
		return nil, err
	}
	return c, nil
}
