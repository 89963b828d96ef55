// Package chat provides the question and answer view.
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
)

// View asks questions about the open document and shows the answers.
type View struct {
	styles       *styles.Styles
	keymap       *keymap.KeyMap
	queryService driving.QueryService
	ctx          context.Context
	sessionID    string

	input      *input.Input
	transcript *list.Transcript

	document  string
	pageCount int
	pending   bool
	width     int
	height    int
}

// NewView creates a chat view recording exchanges under sessionID.
func NewView(s *styles.Styles, km *keymap.KeyMap, queryService driving.QueryService, sessionID string) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &View{
		styles:       s,
		keymap:       km,
		queryService: queryService,
		ctx:          context.Background(),
		sessionID:    sessionID,
		input:        input.New(s, "Question", "Ask about the document...", 2000),
		transcript:   list.NewTranscript(s),
	}
}

// WithContext sets the context used for questions.
func (v *View) WithContext(ctx context.Context) {
	v.ctx = ctx
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// SetDocument sets the labeled text questions are answered from.
func (v *View) SetDocument(result *domain.UploadResult) {
	v.document = result.ExtractedText
	v.pageCount = result.PageCount()
}

// Ask returns a command that answers question.
func (v *View) Ask(question string) tea.Cmd {
	question = strings.TrimSpace(question)
	if question == "" || v.pending {
		return nil
	}
	v.pending = true
	v.transcript.Add(list.Turn{Question: question, Pending: true})

	ctx := v.ctx
	svc := v.queryService
	req := domain.QueryRequest{
		UserQuery:     question,
		ExtractedText: v.document,
		SessionID:     v.sessionID,
	}
	return func() tea.Msg {
		if svc == nil {
			return messages.AnswerReceived{Question: question, Err: errors.New("query service not available")}
		}
		answer, err := svc.Ask(ctx, req)

		var persistErr *domain.PersistenceError
		if errors.As(err, &persistErr) {
			return messages.AnswerReceived{
				Question: question,
				Answer:   &persistErr.Answer,
				Warning:  fmt.Sprintf("answer was not saved to history: %v", persistErr.Err),
			}
		}
		return messages.AnswerReceived{Question: question, Answer: answer, Err: err}
	}
}

// Update handles messages for the chat view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.AnswerReceived:
		return v, v.receive(msg)

	case tea.KeyMsg:
		switch {
		case keymap.Matches(msg.String(), v.keymap.Submit):
			question := v.input.Value()
			cmd := v.Ask(question)
			if cmd != nil {
				v.input.Reset()
			}
			return v, cmd
		case keymap.Matches(msg.String(), v.keymap.Up), keymap.Matches(msg.String(), v.keymap.Down):
			v.transcript, _ = v.transcript.Update(msg)
			return v, nil
		case keymap.Matches(msg.String(), v.keymap.GoToCitation):
			return v, v.citationCmd()
		}
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// receive records an answer and, when it cites a page of the document,
// asks the page viewer to show it.
func (v *View) receive(msg messages.AnswerReceived) tea.Cmd {
	v.pending = false
	if msg.Err != nil {
		v.transcript.ResolveLast(list.Turn{Err: describe(msg.Err)})
		return nil
	}

	turn := list.Turn{
		Answer:   msg.Answer.AIResponse,
		Citation: msg.Answer.PageCitation,
		Warning:  msg.Warning,
	}
	if msg.Answer.HasCitation() && !v.inRange(*msg.Answer.PageCitation) {
		turn.Warning = strings.TrimSpace(turn.Warning + fmt.Sprintf(
			" cited page %d is outside this %d-page document", *msg.Answer.PageCitation, v.pageCount))
	}
	v.transcript.ResolveLast(turn)
	return v.citationCmd()
}

// citationCmd requests the page cited by the selected turn.
func (v *View) citationCmd() tea.Cmd {
	turn := v.transcript.SelectedTurn()
	if turn == nil || turn.Citation == nil || !v.inRange(*turn.Citation) {
		return nil
	}
	page := *turn.Citation
	return func() tea.Msg {
		return messages.PageRequested{Page: page}
	}
}

func (v *View) inRange(page int) bool {
	return page >= 1 && page <= v.pageCount
}

// describe turns pipeline errors into short user-facing messages.
func describe(err error) error {
	switch {
	case errors.Is(err, domain.ErrLLMUnavailable):
		return errors.New("no language model configured; run 'docchat settings llm'")
	case errors.Is(err, domain.ErrGenerationTimeout):
		return errors.New("the model did not answer in time")
	default:
		return err
	}
}

// View renders the chat view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.transcript.View())
	b.WriteString("\n\n")
	b.WriteString(v.input.View())
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.input.SetWidth(width)
	// Input box and spacing take five lines, the status bar one more.
	v.transcript.SetDimensions(width, maxInt(height-6, 3))
}

// Transcript returns the conversation.
func (v *View) Transcript() *list.Transcript {
	return v.transcript
}

// Pending reports whether a question is waiting for an answer.
func (v *View) Pending() bool {
	return v.pending
}

// SessionID returns the session exchanges are recorded under.
func (v *View) SessionID() string {
	return v.sessionID
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
