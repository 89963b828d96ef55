package driving

import (
	"context"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// DocumentService is the upload boundary: it turns a document file into
// labeled, page-aware text ready for questions.
type DocumentService interface {
	// Upload extracts and labels the document described by req.
	Upload(ctx context.Context, req domain.UploadRequest) (*domain.UploadResult, error)

	// SupportedExtensions lists the file extensions Upload accepts.
	SupportedExtensions() []string
}
