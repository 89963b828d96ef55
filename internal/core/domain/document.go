package domain

// DefaultPageBreak is the page separator emitted by PDF text extractors
// (the ASCII form feed control character).
const DefaultPageBreak = "\f"

// Page is the text of a single physical page.
// Pages are never dropped: an empty page is kept with empty Text.
type Page struct {
	// Index is the 1-based page number.
	Index int

	// Text is the page text with surrounding whitespace trimmed.
	Text string
}

// IsEmpty reports whether the page has no text.
func (p Page) IsEmpty() bool {
	return p.Text == ""
}

// UploadRequest describes a document handed to the upload boundary.
type UploadRequest struct {
	// Path is the local path of the document to ingest.
	Path string

	// FieldName names the upload field; it prefixes the stored file name.
	// Defaults to "pdfFile".
	FieldName string
}

// UploadResult is returned by the upload boundary.
type UploadResult struct {
	// ExtractedText is the labeled document text (one heading per page).
	ExtractedText string

	// FileURL locates the stored copy of the uploaded document.
	FileURL string

	// Pages holds the segmented pages in physical order.
	Pages []Page
}

// PageCount returns the number of pages in the upload.
func (r UploadResult) PageCount() int {
	return len(r.Pages)
}
