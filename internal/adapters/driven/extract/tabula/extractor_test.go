package tabula

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

func TestNew_DefaultParallelism(t *testing.T) {
	assert.Equal(t, DefaultParallelism, New(0).parallelism)
	assert.Equal(t, DefaultParallelism, New(-3).parallelism)
	assert.Equal(t, 8, New(8).parallelism)
}

func TestSupportedExtensions(t *testing.T) {
	exts := New(0).SupportedExtensions()
	assert.Equal(t, []string{".docx", ".odt", ".pdf"}, exts)
}

func TestExtract_UnsupportedExtension(t *testing.T) {
	_, err := New(0).Extract(context.Background(), "notes.rtf")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
}

func TestExtract_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(0).Extract(ctx, "report.pdf")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExtract_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.pdf")
	_, err := New(0).Extract(context.Background(), path)
	assert.Error(t, err)
}

func TestExtract_CorruptPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.pdf")
	require.NoError(t, os.WriteFile(path, []byte("not a pdf"), 0o600))

	_, err := New(0).Extract(context.Background(), path)
	assert.Error(t, err)
}

func TestExtract_CorruptDOCX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.docx")
	require.NoError(t, os.WriteFile(path, []byte("not a zip"), 0o600))

	_, err := New(0).Extract(context.Background(), path)
	assert.Error(t, err)
}
