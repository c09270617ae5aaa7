package chunker

import (
	"strings"
	"unicode/utf8"
)

// aggregator greedily packs sentences into chunks under a rune budget. The
// budget is charged with sentence lengths only; the single spaces that join
// sentences inside a chunk are free.
type aggregator struct {
	budget int
	chunks []Chunk

	buf   []string
	size  int
	start int
}

// add appends a sentence found at position pos in the sentence sequence.
// A sentence that does not fit closes the current chunk and opens the next
// one; an oversized sentence therefore becomes a chunk on its own.
func (a *aggregator) add(sentence string, pos int) {
	sentence = strings.TrimSpace(sentence)
	if sentence == "" {
		return
	}
	n := utf8.RuneCountInString(sentence)
	if len(a.buf) > 0 && a.size+n > a.budget {
		a.flush()
	}
	if len(a.buf) == 0 {
		a.start = pos
	}
	a.buf = append(a.buf, sentence)
	a.size += n
}

// flush emits the buffered sentences as one chunk.
func (a *aggregator) flush() {
	if len(a.buf) == 0 {
		return
	}
	text := strings.TrimSpace(strings.Join(a.buf, " "))
	if text != "" {
		a.chunks = append(a.chunks, Chunk{
			Text:  text,
			Index: len(a.chunks),
			Start: a.start,
			End:   a.start + len(a.buf),
		})
	}
	a.buf = a.buf[:0]
	a.size = 0
}
