// Package segment provides the paragraph and sentence boundary detection used
// by the chunking strategies.
package segment

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/clipperhouse/uax29/sentences"

	"github.com/botirk38/chunkkit/types"
)

var paragraphBreak = regexp.MustCompile(`\n\s*\n`)

// DefaultAbbreviations lists lowercase abbreviations (without the final dot)
// after which a sentence break is suppressed.
var DefaultAbbreviations = []string{
	"mr", "mrs", "ms", "dr", "prof", "sr", "jr", "st",
	"vs", "e.g", "i.e", "viz", "cf", "al",
	"approx", "dept", "fig", "vol",
}

// SentenceSplitter detects sentence boundaries using Unicode UAX #29 rules and
// rejoins segments that were split after a known abbreviation.
type SentenceSplitter struct {
	abbreviations map[string]struct{}
}

var _ types.SentenceSplitter = (*SentenceSplitter)(nil)

// Option configures a SentenceSplitter.
type Option func(*SentenceSplitter)

// WithAbbreviations adds abbreviations to the suppression set. Entries are
// matched case-insensitively and may include a trailing dot.
func WithAbbreviations(abbrevs ...string) Option {
	return func(s *SentenceSplitter) {
		for _, a := range abbrevs {
			a = strings.TrimSuffix(strings.ToLower(strings.TrimSpace(a)), ".")
			if a != "" {
				s.abbreviations[a] = struct{}{}
			}
		}
	}
}

// WithoutAbbreviations clears the suppression set, leaving raw UAX #29 output.
func WithoutAbbreviations() Option {
	return func(s *SentenceSplitter) {
		s.abbreviations = make(map[string]struct{})
	}
}

// NewSentenceSplitter creates a SentenceSplitter seeded with DefaultAbbreviations.
func NewSentenceSplitter(opts ...Option) *SentenceSplitter {
	s := &SentenceSplitter{abbreviations: make(map[string]struct{}, len(DefaultAbbreviations))}
	for _, a := range DefaultAbbreviations {
		s.abbreviations[a] = struct{}{}
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Split returns the sentences of text, trimmed and in order.
func (s *SentenceSplitter) Split(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var out []string
	pending := ""
	for _, seg := range sentences.SegmentAll([]byte(text)) {
		sentence := strings.TrimSpace(string(seg))
		if sentence == "" {
			continue
		}
		if pending != "" {
			sentence = pending + " " + sentence
			pending = ""
		}
		if s.endsWithAbbreviation(sentence) {
			pending = sentence
			continue
		}
		out = append(out, sentence)
	}
	if pending != "" {
		out = append(out, pending)
	}
	return out
}

func (s *SentenceSplitter) endsWithAbbreviation(sentence string) bool {
	if len(s.abbreviations) == 0 || !strings.HasSuffix(sentence, ".") {
		return false
	}
	word := sentence
	if i := strings.LastIndexFunc(sentence, unicode.IsSpace); i >= 0 {
		word = sentence[i+1:]
	}
	word = strings.TrimLeftFunc(word, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	word = strings.ToLower(strings.TrimSuffix(word, "."))
	_, ok := s.abbreviations[word]
	return ok
}

// Paragraphs splits text on blank-line boundaries and drops blank paragraphs.
func Paragraphs(text string) []string {
	parts := paragraphBreak.Split(text, -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return out
}
