// Package tabula extracts page-separated text from PDF, DOCX and ODT
// files using the tabula document reader.
//
// PDF pages are read concurrently and joined with the form feed page
// break. Word processing formats have no fixed pagination, so their text
// is returned as a single page.
package tabula

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/tsawler/tabula"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
	"github.com/custodia-labs/docchat/internal/logger"
)

// Ensure Extractor implements the interface.
var _ driven.TextExtractor = (*Extractor)(nil)

// DefaultParallelism is the number of PDF pages read at once.
const DefaultParallelism = 4

// Extractor reads documents with tabula.
type Extractor struct {
	parallelism int
}

// New creates an extractor reading up to parallelism PDF pages at once.
// Values below 1 use DefaultParallelism.
func New(parallelism int) *Extractor {
	if parallelism < 1 {
		parallelism = DefaultParallelism
	}
	return &Extractor{parallelism: parallelism}
}

// SupportedExtensions returns the file extensions this extractor handles.
func (e *Extractor) SupportedExtensions() []string {
	return []string{".docx", ".odt", ".pdf"}
}

// Extract returns the text of the document at path.
func (e *Extractor) Extract(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".pdf":
		return e.extractPDF(ctx, path)
	case ".docx", ".odt":
		text, warnings, err := tabula.Open(path).Text()
		if err != nil {
			return "", fmt.Errorf("read %s: %w", filepath.Base(path), err)
		}
		logWarnings(path, 0, len(warnings))
		return text, nil
	default:
		return "", fmt.Errorf("%w: %s", domain.ErrUnsupportedType, ext)
	}
}

// extractPDF reads every page of a PDF and joins them with the page break.
func (e *Extractor) extractPDF(ctx context.Context, path string) (string, error) {
	doc := tabula.Open(path)
	count, err := doc.PageCount()
	closeErr := doc.Close()
	if err != nil {
		return "", fmt.Errorf("count pages of %s: %w", filepath.Base(path), err)
	}
	if closeErr != nil {
		logger.Debug("tabula: close %s: %v", path, closeErr)
	}
	logger.Debug("tabula: %s has %d pages", filepath.Base(path), count)
	if count == 0 {
		return "", nil
	}

	pages := make([]string, count)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.parallelism)
	for i := range count {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			text, warnings, err := tabula.Open(path).Pages(i + 1).Text()
			if err != nil {
				return fmt.Errorf("read page %d of %s: %w", i+1, filepath.Base(path), err)
			}
			logWarnings(path, i+1, len(warnings))
			pages[i] = text
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}
	return strings.Join(pages, domain.DefaultPageBreak), nil
}

func logWarnings(path string, page, n int) {
	if n == 0 {
		return
	}
	if page > 0 {
		logger.Debug("tabula: %s page %d: %d warnings", filepath.Base(path), page, n)
		return
	}
	logger.Debug("tabula: %s: %d warnings", filepath.Base(path), n)
}
