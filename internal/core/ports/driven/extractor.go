package driven

import "context"

// TextExtractor pulls raw text out of a document file.
// Page boundaries in the returned text are marked with the form feed
// character (domain.DefaultPageBreak), one separator between each page.
type TextExtractor interface {
	// Extract returns the raw text of the document at path.
	Extract(ctx context.Context, path string) (string, error)

	// SupportedExtensions lists the lower-case file extensions handled,
	// including the leading dot.
	SupportedExtensions() []string
}

// UploadStore keeps a durable copy of uploaded documents.
type UploadStore interface {
	// Save copies the file at path into the store and returns a URL for it.
	Save(ctx context.Context, path, fieldName string) (string, error)
}
