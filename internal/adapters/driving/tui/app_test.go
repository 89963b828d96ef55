package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docchat/internal/core/domain"
)

func intPtr(n int) *int {
	return &n
}

func sampleUpload() *domain.UploadResult {
	return &domain.UploadResult{
		ExtractedText: "--- Page 1 ---\nIntro text\n\n--- Page 2 ---\nBody text\n\n--- Page 3 ---\nConclusion",
		FileURL:       "file:///tmp/pdfFile-1.pdf",
		Pages: []domain.Page{
			{Index: 1, Text: "Intro text"},
			{Index: 2, Text: "Body text"},
			{Index: 3, Text: "Conclusion"},
		},
	}
}

func newTestApp(t *testing.T, query *MockQueryService) *App {
	t.Helper()
	if query == nil {
		query = &MockQueryService{}
	}
	app, err := NewApp(&Ports{
		Document: &MockDocumentService{
			UploadFunc: func(_ context.Context, _ domain.UploadRequest) (*domain.UploadResult, error) {
				return sampleUpload(), nil
			},
		},
		Query: query,
	}, "session-1")
	require.NoError(t, err)
	app.SetDimensions(100, 40)
	return app
}

// loadDocument delivers an upload result to the app.
func loadDocument(app *App) {
	app.Update(messages.DocumentLoaded{Path: "/tmp/report.pdf", Result: sampleUpload()})
}

// ask runs a question through the chat view and feeds the resulting
// messages back into the app, as the Bubbletea runtime would.
func ask(t *testing.T, app *App, question string) {
	t.Helper()
	cmd := app.chatView.Ask(question)
	require.NotNil(t, cmd)
	for cmd != nil {
		_, cmd = app.Update(cmd())
	}
}

func key(k tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: k}
}

func TestNewApp_ValidatesPorts(t *testing.T) {
	app, err := NewApp(&Ports{Query: &MockQueryService{}}, "s")

	assert.Nil(t, app)
	assert.ErrorIs(t, err, ErrMissingDocumentService)
}

func TestApp_StartsOnOpenView(t *testing.T) {
	app := newTestApp(t, nil)

	assert.Equal(t, messages.ViewOpen, app.CurrentView())
	assert.Equal(t, "session-1", app.SessionID())
	assert.Contains(t, app.View(), "Open a document")
}

func TestApp_ViewBeforeReady(t *testing.T) {
	app, err := NewApp(&Ports{Document: &MockDocumentService{}, Query: &MockQueryService{}}, "s")
	require.NoError(t, err)

	assert.False(t, app.Ready())
	assert.Equal(t, "Initialising...", app.View())
}

func TestApp_InitOpensInitialDocument(t *testing.T) {
	app := newTestApp(t, nil)
	app.WithDocument("/tmp/report.pdf")

	assert.NotNil(t, app.Init())
	assert.True(t, app.openView.Loading())
}

func TestApp_DocumentLoadedSwitchesToChat(t *testing.T) {
	app := newTestApp(t, nil)

	loadDocument(app)

	assert.Equal(t, messages.ViewChat, app.CurrentView())
	assert.Equal(t, 3, app.Navigator().Count())
	assert.Equal(t, 1, app.Navigator().Current())
	assert.Contains(t, app.View(), "Page 1/3")
}

func TestApp_OpenFromInput(t *testing.T) {
	app := newTestApp(t, nil)
	app.openView.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("/tmp/report.pdf")})

	_, cmd := app.Update(key(tea.KeyEnter))
	require.NotNil(t, cmd)
	app.Update(cmd())

	assert.Equal(t, messages.ViewChat, app.CurrentView())
	assert.Equal(t, 3, app.Navigator().Count())
}

func TestApp_UploadErrorStaysOnOpen(t *testing.T) {
	app := newTestApp(t, nil)

	app.Update(messages.DocumentLoaded{Path: "/tmp/a.xyz", Err: domain.ErrUnsupportedType})

	assert.Equal(t, messages.ViewOpen, app.CurrentView())
	assert.ErrorIs(t, app.Err(), domain.ErrUnsupportedType)
	assert.Contains(t, app.View(), "unsupported type")
}

func TestApp_AnswerJumpsToCitedPage(t *testing.T) {
	var got domain.QueryRequest
	app := newTestApp(t, &MockQueryService{
		AskFunc: func(_ context.Context, req domain.QueryRequest) (*domain.Answer, error) {
			got = req
			return &domain.Answer{AIResponse: "It concludes.", PageCitation: intPtr(3)}, nil
		},
	})
	loadDocument(app)

	ask(t, app, "How does it end?")

	assert.Equal(t, "How does it end?", got.UserQuery)
	assert.Equal(t, "session-1", got.SessionID)
	assert.Equal(t, sampleUpload().ExtractedText, got.ExtractedText)
	assert.Equal(t, 3, app.Navigator().Current())

	turns := app.Transcript().Turns()
	require.Len(t, turns, 1)
	assert.Equal(t, "It concludes.", turns[0].Answer)
	assert.False(t, turns[0].Pending)
}

func TestApp_OutOfRangeCitationIsNotNavigated(t *testing.T) {
	app := newTestApp(t, &MockQueryService{
		AskFunc: func(_ context.Context, _ domain.QueryRequest) (*domain.Answer, error) {
			return &domain.Answer{AIResponse: "Somewhere.", PageCitation: intPtr(12)}, nil
		},
	})
	loadDocument(app)

	ask(t, app, "Where?")

	assert.Equal(t, 1, app.Navigator().Current())
	turns := app.Transcript().Turns()
	require.Len(t, turns, 1)
	assert.Equal(t, 12, *turns[0].Citation)
	assert.Contains(t, turns[0].Warning, "outside this 3-page document")
}

func TestApp_PersistenceFailureStillShowsAnswer(t *testing.T) {
	app := newTestApp(t, &MockQueryService{
		AskFunc: func(_ context.Context, _ domain.QueryRequest) (*domain.Answer, error) {
			return nil, &domain.PersistenceError{
				Answer: domain.Answer{AIResponse: "Body.", PageCitation: intPtr(2)},
				Err:    errors.New("disk full"),
			}
		},
	})
	loadDocument(app)

	ask(t, app, "What is in the body?")

	turns := app.Transcript().Turns()
	require.Len(t, turns, 1)
	assert.Equal(t, "Body.", turns[0].Answer)
	assert.Contains(t, turns[0].Warning, "disk full")
	assert.Equal(t, 2, app.Navigator().Current())
	assert.NoError(t, app.Err())
}

func TestApp_GenerationTimeoutShownInTranscript(t *testing.T) {
	app := newTestApp(t, &MockQueryService{
		AskFunc: func(_ context.Context, _ domain.QueryRequest) (*domain.Answer, error) {
			return nil, &domain.GenerationError{Err: context.DeadlineExceeded}
		},
	})
	loadDocument(app)

	ask(t, app, "Slow?")

	turns := app.Transcript().Turns()
	require.Len(t, turns, 1)
	require.Error(t, turns[0].Err)
	assert.Contains(t, turns[0].Err.Error(), "did not answer in time")
	assert.ErrorIs(t, app.Err(), domain.ErrGenerationTimeout)
	assert.False(t, app.chatView.Pending())
}

func TestApp_SecondQuestionWaitsForFirst(t *testing.T) {
	app := newTestApp(t, nil)
	loadDocument(app)

	require.NotNil(t, app.chatView.Ask("first"))
	assert.Nil(t, app.chatView.Ask("second"))
	assert.Nil(t, app.chatView.Ask("   "))
}

func TestApp_TabTogglesPages(t *testing.T) {
	app := newTestApp(t, nil)
	loadDocument(app)

	app.Update(key(tea.KeyTab))
	assert.Equal(t, messages.ViewPages, app.CurrentView())
	assert.Contains(t, app.View(), "Intro text")

	app.Update(key(tea.KeyRight))
	assert.Equal(t, 2, app.Navigator().Current())

	app.Update(key(tea.KeyEsc))
	assert.Equal(t, messages.ViewChat, app.CurrentView())
}

func TestApp_EscNavigation(t *testing.T) {
	app := newTestApp(t, nil)
	loadDocument(app)

	app.Update(key(tea.KeyEsc))
	assert.Equal(t, messages.ViewOpen, app.CurrentView())

	app.Update(key(tea.KeyEsc))
	assert.Equal(t, messages.ViewChat, app.CurrentView(), "esc returns to the open document")
}

func TestApp_HelpToggle(t *testing.T) {
	app := newTestApp(t, nil)
	loadDocument(app)

	app.Update(key(tea.KeyF1))
	assert.Equal(t, messages.ViewHelp, app.CurrentView())
	assert.Contains(t, app.View(), "Help")

	app.Update(key(tea.KeyEsc))
	assert.Equal(t, messages.ViewChat, app.CurrentView())
}

func TestApp_Quit(t *testing.T) {
	app := newTestApp(t, nil)

	_, cmd := app.Update(key(tea.KeyCtrlC))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	_, cmd = app.Update(messages.Quit{})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestApp_RestoresHistory(t *testing.T) {
	app, err := NewApp(&Ports{
		Document: &MockDocumentService{},
		Query:    &MockQueryService{},
		History: &MockHistoryService{
			ListFunc: func(_ context.Context, sessionID string) ([]domain.Exchange, error) {
				assert.Equal(t, "resumed", sessionID)
				return []domain.Exchange{
					{ID: "a", UserQuery: "earlier?", AIResponse: "yes", PageCitation: intPtr(1)},
				}, nil
			},
		},
	}, "resumed")
	require.NoError(t, err)

	cmd := app.loadHistory()
	require.NotNil(t, cmd)
	app.Update(cmd())

	turns := app.Transcript().Turns()
	require.Len(t, turns, 1)
	assert.Equal(t, "earlier?", turns[0].Question)
	assert.Equal(t, "yes", turns[0].Answer)
}

func TestApp_NoHistoryServiceSkipsRestore(t *testing.T) {
	app := newTestApp(t, nil)

	assert.Nil(t, app.loadHistory())
}
