package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
	"github.com/custodia-labs/docchat/internal/logger"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// DefaultUploadField is the upload field name used when none is given.
const DefaultUploadField = "pdfFile"

// DocumentService turns uploaded files into labeled, page-aware text.
type DocumentService struct {
	extractors  map[string]driven.TextExtractor
	uploadStore driven.UploadStore
	segmenter   *PageSegmenter
}

// NewDocumentService creates a document service. Each extractor is
// registered for the extensions it reports; later extractors win on overlap.
// The uploadStore parameter is optional (can be nil).
func NewDocumentService(
	uploadStore driven.UploadStore,
	pageBreak string,
	extractors ...driven.TextExtractor,
) *DocumentService {
	byExt := make(map[string]driven.TextExtractor)
	for _, e := range extractors {
		for _, ext := range e.SupportedExtensions() {
			byExt[strings.ToLower(ext)] = e
		}
	}

	return &DocumentService{
		extractors:  byExt,
		uploadStore: uploadStore,
		segmenter:   NewPageSegmenter(pageBreak),
	}
}

// SupportedExtensions lists the file extensions Upload accepts, sorted.
func (s *DocumentService) SupportedExtensions() []string {
	exts := make([]string, 0, len(s.extractors))
	for ext := range s.extractors {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Upload extracts the document's text, splits it into pages and renders
// the labeled text. A document without any text yields one empty page.
func (s *DocumentService) Upload(ctx context.Context, req domain.UploadRequest) (*domain.UploadResult, error) {
	logger.Section("Upload")

	if strings.TrimSpace(req.Path) == "" {
		return nil, &domain.ValidationError{Field: "path"}
	}
	if req.FieldName == "" {
		req.FieldName = DefaultUploadField
	}

	info, err := os.Stat(req.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, req.Path)
		}
		return nil, fmt.Errorf("stat %s: %w", req.Path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", domain.ErrInvalidInput, req.Path)
	}

	ext := strings.ToLower(filepath.Ext(req.Path))
	extractor, ok := s.extractors[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedType, ext)
	}

	raw, err := extractor.Extract(ctx, req.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrExtractionFailed, err)
	}
	if strings.TrimSpace(raw) == "" {
		logger.Warn("No text extracted from %s; continuing with a single empty page", req.Path)
	}

	labeled, pages := s.segmenter.Label(raw)
	logger.Event("segment", "file", filepath.Base(req.Path), "pages", len(pages), "chars", len(labeled))

	fileURL, err := s.storeUpload(ctx, req)
	if err != nil {
		return nil, err
	}

	return &domain.UploadResult{
		ExtractedText: labeled,
		FileURL:       fileURL,
		Pages:         pages,
	}, nil
}

// storeUpload keeps a copy of the upload when a store is configured,
// otherwise it references the original file.
func (s *DocumentService) storeUpload(ctx context.Context, req domain.UploadRequest) (string, error) {
	if s.uploadStore != nil {
		fileURL, err := s.uploadStore.Save(ctx, req.Path, req.FieldName)
		if err != nil {
			return "", fmt.Errorf("store upload: %w", err)
		}
		return fileURL, nil
	}

	abs, err := filepath.Abs(req.Path)
	if err != nil {
		return "", fmt.Errorf("resolve path: %w", err)
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String(), nil
}
