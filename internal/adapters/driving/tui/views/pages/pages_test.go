package pages

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/components/pager"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docchat/internal/core/domain"
)

func newTestView() *View {
	nav := pager.NewNavigator([]domain.Page{
		{Index: 1, Text: "Intro text"},
		{Index: 2, Text: ""},
		{Index: 3, Text: "Conclusion"},
	})
	v := NewView(nil, nil, nav)
	v.SetDimensions(100, 30)
	v.SetTitle("report.pdf")
	return v
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestNewView_NilArguments(t *testing.T) {
	v := NewView(nil, nil, nil)

	require.NotNil(t, v)
	assert.Nil(t, v.Init())
	assert.Contains(t, v.View(), "No document open")
}

func TestView_ShowsFirstPage(t *testing.T) {
	v := newTestView()

	view := v.View()

	assert.Contains(t, view, "report.pdf (page 1 of 3)")
	assert.Contains(t, view, "Intro text")
}

func TestView_NextPrevKeys(t *testing.T) {
	v := newTestView()

	v.Update(tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, 2, v.Navigator().Current())
	assert.Contains(t, v.View(), "This page has no text")

	v.Update(runeKey('n'))
	assert.Equal(t, 3, v.Navigator().Current())
	assert.Contains(t, v.View(), "Conclusion")

	v.Update(runeKey('n'))
	assert.Equal(t, 3, v.Navigator().Current(), "next on the last page stays put")

	v.Update(tea.KeyMsg{Type: tea.KeyLeft})
	v.Update(runeKey('p'))
	assert.Equal(t, 1, v.Navigator().Current())
}

func TestView_FirstLastKeys(t *testing.T) {
	v := newTestView()

	v.Update(runeKey('G'))
	assert.Equal(t, 3, v.Navigator().Current())

	v.Update(runeKey('g'))
	assert.Equal(t, 1, v.Navigator().Current())
}

func TestView_PageRequested(t *testing.T) {
	v := newTestView()

	v.Update(messages.PageRequested{Page: 3})
	assert.Equal(t, 3, v.Navigator().Current())
	assert.Empty(t, v.Notice())

	v.Update(messages.PageRequested{Page: 9})
	assert.Equal(t, 3, v.Navigator().Current(), "out-of-range page is not navigated")
	assert.Contains(t, v.Notice(), "Page 9 is not in this document")
	assert.Contains(t, v.View(), "Page 9 is not in this document")
}

func TestView_WindowSize(t *testing.T) {
	v := newTestView()

	v.Update(tea.WindowSizeMsg{Width: 60, Height: 20})

	assert.Equal(t, 58, v.viewport.Width)
	assert.Equal(t, 20-reserved, v.viewport.Height)
}
