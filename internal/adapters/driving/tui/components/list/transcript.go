// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/styles"
)

// Turn is one question and its answer in the conversation.
type Turn struct {
	Question string
	Answer   string
	Citation *int
	Warning  string
	Err      error
	Pending  bool
}

// Transcript displays the conversation with a selectable turn.
// New turns are selected as they are added.
type Transcript struct {
	turns    []Turn
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// NewTranscript creates an empty transcript.
func NewTranscript(s *styles.Styles) *Transcript {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &Transcript{
		styles: s,
		width:  80,
		height: 10,
	}
}

// Init initialises the transcript.
func (t *Transcript) Init() tea.Cmd {
	return nil
}

// Update handles selection keys.
func (t *Transcript) Update(msg tea.Msg) (*Transcript, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		//nolint:exhaustive // handling only relevant key types
		switch msg.Type {
		case tea.KeyUp:
			t.MoveUp()
		case tea.KeyDown:
			t.MoveDown()
		default:
		}
	}
	return t, nil
}

// View renders the most recent turns that fit, keeping the selection visible.
func (t *Transcript) View() string {
	if len(t.turns) == 0 {
		return t.styles.Muted.Render("Ask a question about the document. Answers cite the page they came from.")
	}

	rendered := make([]string, len(t.turns))
	for i := range t.turns {
		rendered[i] = t.renderTurn(i, &t.turns[i])
	}

	// The selected turn is always shown; later turns fill the space first.
	start, end := t.selected, t.selected+1
	used := lipgloss.Height(rendered[t.selected])
	for end < len(rendered) && used+lipgloss.Height(rendered[end])+1 <= t.height {
		used += lipgloss.Height(rendered[end]) + 1
		end++
	}
	for start > 0 && used+lipgloss.Height(rendered[start-1])+1 <= t.height {
		used += lipgloss.Height(rendered[start-1]) + 1
		start--
	}

	return strings.Join(rendered[start:end], "\n\n")
}

// renderTurn formats a single turn.
func (t *Transcript) renderTurn(index int, turn *Turn) string {
	indicator := "  "
	if index == t.selected {
		indicator = "> "
	}

	question := indicator + "Q: " + turn.Question
	if index == t.selected {
		question = t.styles.Selected.Render(question)
	} else {
		question = t.styles.Question.Render(question)
	}

	wrap := lipgloss.NewStyle().Width(maxInt(t.width-4, 20))
	lines := []string{question}
	switch {
	case turn.Pending:
		lines = append(lines, t.styles.Muted.Render("    ..."))
	case turn.Err != nil:
		lines = append(lines, t.styles.Error.Render(wrap.Render("    "+turn.Err.Error())))
	default:
		lines = append(lines, t.styles.Answer.Render(wrap.Render("    "+turn.Answer)))
		if turn.Citation != nil {
			lines = append(lines, t.styles.Citation.Render(fmt.Sprintf("    Source: page %d", *turn.Citation)))
		} else {
			lines = append(lines, t.styles.Muted.Render("    Source: no page cited"))
		}
	}
	if turn.Warning != "" {
		lines = append(lines, t.styles.Warning.Render("    "+turn.Warning))
	}
	return strings.Join(lines, "\n")
}

// Add appends a turn and selects it.
func (t *Transcript) Add(turn Turn) {
	t.turns = append(t.turns, turn)
	t.selected = len(t.turns) - 1
}

// ResolveLast completes the most recent pending turn.
func (t *Transcript) ResolveLast(turn Turn) {
	for i := len(t.turns) - 1; i >= 0; i-- {
		if t.turns[i].Pending {
			turn.Question = t.turns[i].Question
			t.turns[i] = turn
			return
		}
	}
	t.Add(turn)
}

// Turns returns the conversation.
func (t *Transcript) Turns() []Turn {
	return t.turns
}

// Selected returns the index of the selected turn.
func (t *Transcript) Selected() int {
	return t.selected
}

// SelectedTurn returns the currently selected turn, or nil if none.
func (t *Transcript) SelectedTurn() *Turn {
	if len(t.turns) == 0 {
		return nil
	}
	return &t.turns[t.selected]
}

// MoveUp moves selection up.
func (t *Transcript) MoveUp() {
	if t.selected > 0 {
		t.selected--
	}
}

// MoveDown moves selection down.
func (t *Transcript) MoveDown() {
	if t.selected < len(t.turns)-1 {
		t.selected++
	}
}

// SetDimensions sets the component dimensions.
func (t *Transcript) SetDimensions(width, height int) {
	t.width = width
	t.height = height
}

// Count returns the number of turns.
func (t *Transcript) Count() int {
	return len(t.turns)
}

// IsEmpty returns whether the transcript is empty.
func (t *Transcript) IsEmpty() bool {
	return len(t.turns) == 0
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
