package services

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// labeledPrefix matches text whose first non-blank line is the first page heading.
var labeledPrefix = regexp.MustCompile(`\A\s*--- Page 1 ---(\r?\n|\z)`)

// PageHeading returns the heading line that precedes page n in labeled text.
func PageHeading(n int) string {
	return fmt.Sprintf("--- Page %d ---", n)
}

// IsLabeled reports whether text was already rendered by a PageSegmenter.
func IsLabeled(text string) bool {
	return labeledPrefix.MatchString(text)
}

// PageSegmenter splits raw extracted text into pages and renders them
// as labeled document text.
type PageSegmenter struct {
	pageBreak string
}

// NewPageSegmenter creates a segmenter splitting on pageBreak.
// An empty pageBreak selects domain.DefaultPageBreak.
func NewPageSegmenter(pageBreak string) *PageSegmenter {
	if pageBreak == "" {
		pageBreak = domain.DefaultPageBreak
	}
	return &PageSegmenter{pageBreak: pageBreak}
}

// PageBreak returns the separator this segmenter splits on.
func (s *PageSegmenter) PageBreak() string {
	return s.pageBreak
}

// Split divides raw text on the literal page break. Text with k breaks
// yields k+1 pages; empty text yields a single empty page.
func (s *PageSegmenter) Split(raw string) []domain.Page {
	parts := strings.Split(raw, s.pageBreak)
	pages := make([]domain.Page, len(parts))
	for i, part := range parts {
		pages[i] = domain.Page{
			Index: i + 1,
			Text:  strings.TrimSpace(part),
		}
	}
	return pages
}

// Render produces labeled text: each page's heading on its own line,
// followed by the page text, with a blank line between pages.
func (s *PageSegmenter) Render(pages []domain.Page) string {
	var b strings.Builder
	for i, p := range pages {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(PageHeading(p.Index))
		b.WriteByte('\n')
		b.WriteString(p.Text)
	}
	return b.String()
}

// Label splits and renders raw text in one step.
func (s *PageSegmenter) Label(raw string) (string, []domain.Page) {
	pages := s.Split(raw)
	return s.Render(pages), pages
}
