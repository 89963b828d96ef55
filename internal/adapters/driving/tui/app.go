package tui

import (
	"context"
	"fmt"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/components/pager"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/views/chat"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/views/open"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/views/pages"
	"github.com/custodia-labs/docchat/internal/core/domain"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	styles *styles.Styles
	keymap *keymap.KeyMap

	openView  *open.View
	chatView  *chat.View
	pagesView *pages.View
	statusBar *status.Bar

	// navigator is shared with pagesView so citations move the viewer.
	navigator *pager.Navigator

	sessionID   string
	initialPath string
	document    *domain.UploadResult

	// currentView tracks which view is active.
	currentView messages.ViewType

	// previousView is restored when help is closed.
	previousView messages.ViewType

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application recording exchanges under sessionID.
func NewApp(ports *Ports, sessionID string) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()
	navigator := pager.NewNavigator(nil)

	return &App{
		ports:       ports,
		ctx:         context.Background(),
		styles:      s,
		keymap:      km,
		openView:    open.NewView(s, ports.Document),
		chatView:    chat.NewView(s, km, ports.Query, sessionID),
		pagesView:   pages.NewView(s, km, navigator),
		statusBar:   status.NewBar(s, km),
		navigator:   navigator,
		sessionID:   sessionID,
		currentView: messages.ViewOpen,
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.openView.WithContext(ctx)
	a.chatView.WithContext(ctx)
	return a
}

// WithDocument opens path as soon as the program starts.
func (a *App) WithDocument(path string) *App {
	a.initialPath = path
	return a
}

// Init implements tea.Model.
// It runs initial commands when the program starts.
func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.SetWindowTitle("docchat"),
		a.openView.Init(),
		a.loadHistory(),
	}
	if a.initialPath != "" {
		cmds = append(cmds, a.openView.Open(a.initialPath))
	}
	return tea.Batch(cmds...)
}

// loadHistory restores earlier exchanges of the session when history is available.
func (a *App) loadHistory() tea.Cmd {
	if a.ports.History == nil || a.sessionID == "" {
		return nil
	}
	ctx := a.ctx
	svc := a.ports.History
	sessionID := a.sessionID
	return func() tea.Msg {
		exchanges, err := svc.List(ctx, sessionID)
		return messages.HistoryLoaded{Exchanges: exchanges, Err: err}
	}
}

// Update implements tea.Model.
// It handles messages and updates the model state.
//
//nolint:gocognit,gocyclo,funlen // central message handler requires complexity
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		switch {
		case keymap.Matches(msg.String(), a.keymap.Quit):
			return a, tea.Quit
		case keymap.Matches(msg.String(), a.keymap.Help):
			a.toggleHelp()
			return a, nil
		}
		cmd = a.handleKey(msg)
		a.syncStatus()
		return a, cmd

	case messages.DocumentLoaded:
		a.openView, _ = a.openView.Update(msg)
		if msg.Err != nil {
			a.err = msg.Err
		} else {
			a.err = nil
			a.setDocument(msg.Path, msg.Result)
		}
		a.syncStatus()
		return a, nil

	case messages.AnswerReceived:
		a.chatView, cmd = a.chatView.Update(msg)
		a.err = msg.Err
		a.syncStatus()
		return a, cmd

	case messages.PageRequested:
		a.pagesView, _ = a.pagesView.Update(msg)
		a.syncStatus()
		return a, nil

	case messages.HistoryLoaded:
		if msg.Err != nil {
			a.err = msg.Err
		} else {
			a.restoreHistory(msg.Exchanges)
		}
		a.syncStatus()
		return a, nil

	case messages.ViewChanged:
		a.currentView = msg.View
		a.syncStatus()
		return a, nil

	case messages.ErrorOccurred:
		a.err = msg.Err
		a.syncStatus()
		return a, nil

	case messages.Quit:
		return a, tea.Quit
	}

	// Forward other messages (cursor blink and similar) to the active view
	switch a.currentView {
	case messages.ViewOpen:
		a.openView, cmd = a.openView.Update(msg)
	case messages.ViewChat:
		a.chatView, cmd = a.chatView.Update(msg)
	case messages.ViewPages:
		a.pagesView, cmd = a.pagesView.Update(msg)
	case messages.ViewHelp:
	}
	return a, cmd
}

// handleKey routes a key press to the active view.
func (a *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd

	switch a.currentView {
	case messages.ViewOpen:
		if msg.Type == tea.KeyEsc && a.document != nil {
			a.currentView = messages.ViewChat
			return nil
		}
		a.openView, cmd = a.openView.Update(msg)

	case messages.ViewChat:
		switch {
		case keymap.Matches(msg.String(), a.keymap.TogglePages):
			a.currentView = messages.ViewPages
			return nil
		case keymap.Matches(msg.String(), a.keymap.Back):
			a.currentView = messages.ViewOpen
			return nil
		}
		a.chatView, cmd = a.chatView.Update(msg)

	case messages.ViewPages:
		switch {
		case keymap.Matches(msg.String(), a.keymap.TogglePages),
			keymap.Matches(msg.String(), a.keymap.Back):
			a.currentView = messages.ViewChat
			return nil
		}
		a.pagesView, cmd = a.pagesView.Update(msg)

	case messages.ViewHelp:
		if keymap.Matches(msg.String(), a.keymap.Back) {
			a.toggleHelp()
		}
	}
	return cmd
}

// setDocument makes an uploaded document the subject of the conversation.
func (a *App) setDocument(path string, result *domain.UploadResult) {
	a.document = result
	a.navigator.SetPages(result.Pages)
	a.pagesView.SetTitle(filepath.Base(path))
	a.pagesView.Reload()
	a.chatView.SetDocument(result)
	a.currentView = messages.ViewChat
}

// restoreHistory shows the session's earlier exchanges in the transcript.
func (a *App) restoreHistory(exchanges []domain.Exchange) {
	transcript := a.chatView.Transcript()
	for i := range exchanges {
		transcript.Add(list.Turn{
			Question: exchanges[i].UserQuery,
			Answer:   exchanges[i].AIResponse,
			Citation: exchanges[i].PageCitation,
		})
	}
}

func (a *App) toggleHelp() {
	if a.currentView == messages.ViewHelp {
		a.currentView = a.previousView
		return
	}
	a.previousView = a.currentView
	a.currentView = messages.ViewHelp
}

// syncStatus reflects the app state in the status bar.
func (a *App) syncStatus() {
	a.statusBar.Clear()
	a.statusBar.SetPage(a.navigator.Current(), a.navigator.Count())

	switch {
	case a.openView.Loading():
		a.statusBar.SetState(status.StateLoading)
	case a.chatView.Pending():
		a.statusBar.SetState(status.StateThinking)
	case a.err != nil:
		a.statusBar.SetState(status.StateError)
		a.statusBar.SetMessage(a.err.Error())
	}

	switch a.currentView {
	case messages.ViewChat:
		a.statusBar.SetHints(status.HintsChat)
	case messages.ViewPages:
		a.statusBar.SetHints(status.HintsPages)
	case messages.ViewOpen, messages.ViewHelp:
		a.statusBar.SetHints(status.HintsShort)
	}
}

// View implements tea.Model.
// It renders the current view as a string.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	var body string
	switch a.currentView {
	case messages.ViewOpen:
		body = a.openView.View()
	case messages.ViewChat:
		body = a.chatView.View()
	case messages.ViewPages:
		body = a.pagesView.View()
	case messages.ViewHelp:
		body = a.viewHelp()
	}
	return body + "\n" + a.statusBar.View()
}

// viewHelp renders the help view.
func (a *App) viewHelp() string {
	return `Help

Open:
  (type)      Path to a PDF, DOCX, ODT, text or markdown file
  enter       Open the document
  esc         Back to the conversation

Chat:
  (type)      Question about the document
  enter       Ask
  ↑/↓         Select an earlier answer
  ctrl+g      Show the page the selected answer cites
  tab         Page viewer
  esc         Open another document

Pages:
  ←/p →/n     Previous / next page
  ↑/↓ PgUp    Scroll the page
  g/G         First / last page
  tab, esc    Back to the conversation

Global:
  f1          Toggle help
  ctrl+c      Quit

[esc] back`
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Navigator returns the page navigator.
func (a *App) Navigator() *pager.Navigator {
	return a.navigator
}

// Transcript returns the conversation transcript.
func (a *App) Transcript() *list.Transcript {
	return a.chatView.Transcript()
}

// SessionID returns the session exchanges are recorded under.
func (a *App) SessionID() string {
	return a.sessionID
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	// One line is reserved for the status bar.
	bodyHeight := height - 1
	a.openView.SetDimensions(width, bodyHeight)
	a.chatView.SetDimensions(width, bodyHeight)
	a.pagesView.SetDimensions(width, bodyHeight)
	a.statusBar.SetWidth(width)
}
