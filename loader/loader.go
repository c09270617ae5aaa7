// Package loader turns documents on disk into plain text ready for chunking.
package loader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/gabriel-vasile/mimetype"
	"github.com/ledongthuc/pdf"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	TypePDF  = "application/pdf"
	TypeHTML = "text/html"
	TypeText = "text/plain"
)

// ErrUnsupportedFormat indicates content that has no text extractor
var ErrUnsupportedFormat = errors.New("unsupported document format")

// ErrNoReadablePages indicates a PDF whose pages all failed to extract
var ErrNoReadablePages = errors.New("no readable pdf pages")

// Document is the extracted text of one source
type Document struct {
	Source      string
	ContentType string
	Title       string
	Text        string

	// SkippedPages counts PDF pages whose text could not be extracted
	SkippedPages int
}

// Load reads and extracts the document at path.
func Load(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("read %s: %w", path, err)
	}
	doc, err := LoadBytes(data)
	if err != nil {
		return Document{}, fmt.Errorf("%s: %w", path, err)
	}
	doc.Source = path
	return doc, nil
}

// LoadBytes detects the content type of data and extracts its text.
func LoadBytes(data []byte) (Document, error) {
	mt := mimetype.Detect(data)
	doc := Document{ContentType: mt.String()}

	var err error
	switch {
	case mt.Is(TypePDF):
		doc.Text, doc.SkippedPages, err = extractPDF(data)
	case mt.Is(TypeHTML):
		doc.Title, doc.Text, err = extractHTML(data)
	case isText(mt):
		doc.Text, err = decodeText(data, mt.String())
	default:
		return Document{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, mt.String())
	}
	if err != nil {
		return Document{}, err
	}
	doc.Text = norm.NFC.String(normalizeNewlines(doc.Text))
	return doc, nil
}

// isText reports whether mt is text/plain or one of its descendants.
func isText(mt *mimetype.MIME) bool {
	for m := mt; m != nil; m = m.Parent() {
		if m.Is(TypeText) {
			return true
		}
	}
	return false
}

// decodeText converts data to UTF-8 using the charset of contentType, or a
// sniffed one when it names none.
func decodeText(data []byte, contentType string) (string, error) {
	if utf8.Valid(data) {
		return string(data), nil
	}
	enc, name, _ := charset.DetermineEncoding(data, contentType)
	decoded, err := io.ReadAll(transform.NewReader(bytes.NewReader(data), enc.NewDecoder()))
	if err != nil {
		return "", fmt.Errorf("decode %s text: %w", name, err)
	}
	return string(decoded), nil
}

func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// extractPDF joins the text of readable pages with blank lines and reports
// how many pages failed to extract.
func extractPDF(data []byte) (string, int, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", 0, fmt.Errorf("open pdf: %w", err)
	}
	return joinPages(r.NumPage(), func(i int) (string, error) {
		page := r.Page(i)
		if page.V.IsNull() {
			return "", nil
		}
		return page.GetPlainText(nil)
	})
}

// joinPages collects pages 1..n. Failed pages are counted and skipped; when
// every page fails the last error is returned.
func joinPages(n int, text func(page int) (string, error)) (string, int, error) {
	var (
		pages   []string
		skipped int
		lastErr error
	)
	for i := 1; i <= n; i++ {
		t, err := text(i)
		if err != nil {
			skipped++
			lastErr = fmt.Errorf("page %d: %w", i, err)
			continue
		}
		if t = strings.TrimSpace(t); t != "" {
			pages = append(pages, t)
		}
	}
	if n > 0 && skipped == n {
		return "", skipped, fmt.Errorf("%w: %w", ErrNoReadablePages, lastErr)
	}
	return strings.Join(pages, "\n\n"), skipped, nil
}

var (
	blockSelector = "p, div, section, article, header, footer, main, aside, " +
		"h1, h2, h3, h4, h5, h6, li, pre, blockquote, table, tr, dt, dd, figcaption"
	dropSelector = "script, style, nav, noscript, template, svg"

	paragraphSplit = regexp.MustCompile(`\n\s*\n`)
)

// extractHTML returns the page title and the body text with one paragraph
// per block element.
func extractHTML(data []byte) (string, string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return "", "", fmt.Errorf("parse html: %w", err)
	}

	title := strings.TrimSpace(doc.Find("head title").Text())

	body := doc.Find("body")
	body.Find(dropSelector).Remove()
	body.Find("br").ReplaceWithHtml("\n")
	body.Find(blockSelector).Each(func(_ int, s *goquery.Selection) {
		s.BeforeHtml("\n\n")
		s.AfterHtml("\n\n")
	})

	var paragraphs []string
	for _, p := range paragraphSplit.Split(body.Text(), -1) {
		if p = strings.Join(strings.Fields(p), " "); p != "" {
			paragraphs = append(paragraphs, p)
		}
	}
	return title, strings.Join(paragraphs, "\n\n"), nil
}
