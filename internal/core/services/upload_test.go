package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDocumentService_SupportedExtensions(t *testing.T) {
	s := NewDocumentService(nil, "",
		&mockExtractor{exts: []string{".pdf", ".DOCX"}},
		&mockExtractor{exts: []string{".txt"}},
	)

	assert.Equal(t, []string{".docx", ".pdf", ".txt"}, s.SupportedExtensions())
}

func TestDocumentService_Upload_LabelsPages(t *testing.T) {
	ext := &mockExtractor{exts: []string{".pdf"}, text: "Intro text\f Body text\f Conclusion"}
	uploads := &mockUploadStore{url: "file:///data/uploads/pdfFile-1.pdf"}
	s := NewDocumentService(uploads, "", ext)
	path := writeTempFile(t, "report.pdf", "%PDF")

	res, err := s.Upload(context.Background(), domain.UploadRequest{Path: path})

	require.NoError(t, err)
	assert.Equal(t, 3, res.PageCount())
	assert.True(t, strings.HasPrefix(res.ExtractedText, "--- Page 1 ---\nIntro text"))
	assert.Contains(t, res.ExtractedText, "--- Page 3 ---\nConclusion")
	assert.Equal(t, "file:///data/uploads/pdfFile-1.pdf", res.FileURL)
	assert.Equal(t, []string{DefaultUploadField}, uploads.fields)
	assert.Equal(t, []string{path}, ext.paths)
}

func TestDocumentService_Upload_NoStoreReferencesOriginal(t *testing.T) {
	s := NewDocumentService(nil, "", &mockExtractor{exts: []string{".txt"}, text: "hello"})
	path := writeTempFile(t, "notes.txt", "hello")

	res, err := s.Upload(context.Background(), domain.UploadRequest{Path: path, FieldName: "doc"})

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(res.FileURL, "file://"))
	assert.True(t, strings.HasSuffix(res.FileURL, "/notes.txt"))
}

func TestDocumentService_Upload_EmptyTextIsOneEmptyPage(t *testing.T) {
	s := NewDocumentService(nil, "", &mockExtractor{exts: []string{".pdf"}, text: ""})
	path := writeTempFile(t, "scan.pdf", "%PDF")

	res, err := s.Upload(context.Background(), domain.UploadRequest{Path: path})

	require.NoError(t, err)
	require.Len(t, res.Pages, 1)
	assert.True(t, res.Pages[0].IsEmpty())
	assert.Equal(t, "--- Page 1 ---\n", res.ExtractedText)
}

func TestDocumentService_Upload_Errors(t *testing.T) {
	dir := t.TempDir()
	pdf := writeTempFile(t, "a.pdf", "%PDF")
	exe := writeTempFile(t, "a.exe", "MZ")

	tests := []struct {
		name    string
		path    string
		extErr  error
		wantErr error
	}{
		{"empty path", "", nil, domain.ErrInvalidInput},
		{"missing file", filepath.Join(dir, "nope.pdf"), nil, domain.ErrNotFound},
		{"directory", dir, nil, domain.ErrInvalidInput},
		{"unsupported type", exe, nil, domain.ErrUnsupportedType},
		{"extractor failure", pdf, errors.New("corrupt xref"), domain.ErrExtractionFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uploads := &mockUploadStore{url: "file:///x"}
			s := NewDocumentService(uploads, "", &mockExtractor{exts: []string{".pdf"}, err: tt.extErr})

			res, err := s.Upload(context.Background(), domain.UploadRequest{Path: tt.path})

			assert.Nil(t, res)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, uploads.fields)
		})
	}
}

func TestDocumentService_Upload_StoreFailure(t *testing.T) {
	uploads := &mockUploadStore{err: errors.New("disk full")}
	s := NewDocumentService(uploads, "", &mockExtractor{exts: []string{".pdf"}, text: "x"})
	path := writeTempFile(t, "a.pdf", "%PDF")

	_, err := s.Upload(context.Background(), domain.UploadRequest{Path: path})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}
