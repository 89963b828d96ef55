// Package open provides the view that loads a document for the session.
package open

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
)

// View asks for a document path and uploads it.
type View struct {
	styles          *styles.Styles
	documentService driving.DocumentService
	ctx             context.Context
	input           *input.Input
	loading         bool
	err             error
	width           int
	height          int
}

// NewView creates a new open view.
func NewView(s *styles.Styles, documentService driving.DocumentService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:          s,
		documentService: documentService,
		ctx:             context.Background(),
		input:           input.New(s, "File", "path to a PDF, DOCX, ODT, text or markdown file", 4096),
	}
}

// WithContext sets the context used for uploads.
func (v *View) WithContext(ctx context.Context) {
	v.ctx = ctx
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Open returns a command that uploads path.
func (v *View) Open(path string) tea.Cmd {
	path = expandHome(strings.TrimSpace(path))
	if path == "" {
		return nil
	}
	v.loading = true
	v.err = nil

	ctx := v.ctx
	svc := v.documentService
	return func() tea.Msg {
		if svc == nil {
			return messages.DocumentLoaded{Path: path, Err: errors.New("document service not available")}
		}
		result, err := svc.Upload(ctx, domain.UploadRequest{Path: path})
		return messages.DocumentLoaded{Path: path, Result: result, Err: err}
	}
}

// Update handles messages for the open view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.DocumentLoaded:
		v.loading = false
		v.err = msg.Err
		if msg.Err == nil {
			v.input.Reset()
		}
		return v, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyEnter {
			if v.loading {
				return v, nil
			}
			return v, v.Open(v.input.Value())
		}
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// View renders the open view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("docchat"))
	b.WriteString("\n")
	b.WriteString(v.styles.Muted.Render("Open a document to ask questions about it."))
	b.WriteString("\n\n")
	b.WriteString(v.input.View())
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Extracting text..."))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
	case v.documentService != nil:
		exts := v.documentService.SupportedExtensions()
		b.WriteString(v.styles.Muted.Render("Supported: " + strings.Join(exts, " ")))
	}
	b.WriteString("\n\n")
	b.WriteString(v.styles.Help.Render("[enter] open  [ctrl+c] quit"))

	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.input.SetWidth(width)
}

// Loading reports whether an upload is in progress.
func (v *View) Loading() bool {
	return v.loading
}

// Err returns the last upload error.
func (v *View) Err() error {
	return v.err
}

// expandHome replaces a leading "~/" with the home directory.
func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
