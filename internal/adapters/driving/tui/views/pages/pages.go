// Package pages provides the page viewer for the open document.
package pages

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/components/pager"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/styles"
)

// reserved lines for title, separator, position line and help.
const reserved = 6

// View shows one page of the document at a time.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	navigator *pager.Navigator
	viewport  viewport.Model
	title     string
	notice    string
	width     int
	height    int
}

// NewView creates a page viewer over navigator.
func NewView(s *styles.Styles, km *keymap.KeyMap, navigator *pager.Navigator) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	if navigator == nil {
		navigator = pager.NewNavigator(nil)
	}
	v := &View{
		styles:    s,
		keymap:    km,
		navigator: navigator,
		viewport:  viewport.New(80, 20),
		width:     80,
		height:    24,
	}
	v.refresh()
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// SetTitle sets the document name shown above the page.
func (v *View) SetTitle(title string) {
	v.title = title
}

// Reload shows the navigator's current page from the top.
func (v *View) Reload() {
	v.notice = ""
	v.refresh()
}

// Update handles messages for the page viewer.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.PageRequested:
		v.jump(msg.Page)
		return v, nil

	case tea.KeyMsg:
		switch {
		case keymap.Matches(msg.String(), v.keymap.NextPage):
			if v.navigator.Next() {
				v.Reload()
			}
			return v, nil
		case keymap.Matches(msg.String(), v.keymap.PrevPage):
			if v.navigator.Prev() {
				v.Reload()
			}
			return v, nil
		case msg.String() == "home" || msg.String() == "g":
			v.jump(1)
			return v, nil
		case msg.String() == "end" || msg.String() == "G":
			v.jump(v.navigator.Count())
			return v, nil
		}
	}

	var cmd tea.Cmd
	v.viewport, cmd = v.viewport.Update(msg)
	return v, cmd
}

// jump shows page if the document has it, otherwise leaves a notice.
func (v *View) jump(page int) {
	if !v.navigator.InRange(page) {
		v.notice = fmt.Sprintf("Page %d is not in this document", page)
		return
	}
	v.navigator.JumpTo(page)
	v.Reload()
}

// refresh loads the current page into the viewport.
func (v *View) refresh() {
	page, ok := v.navigator.Page()
	switch {
	case !ok:
		v.viewport.SetContent(v.styles.Muted.Render("(No document open)"))
	case page.IsEmpty():
		v.viewport.SetContent(v.styles.Muted.Render("(This page has no text)"))
	default:
		style := v.styles.PageText
		if v.viewport.Width > 0 {
			style = style.Width(v.viewport.Width)
		}
		v.viewport.SetContent(style.Render(page.Text))
	}
	v.viewport.GotoTop()
}

// View renders the page viewer.
func (v *View) View() string {
	var b strings.Builder

	title := "Document"
	if v.title != "" {
		title = v.title
	}
	if n := v.navigator.Current(); n > 0 {
		title = fmt.Sprintf("%s (page %d of %d)", title, n, v.navigator.Count())
	}
	b.WriteString(v.styles.Title.Render(title))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", minInt(v.width-4, 60)))
	b.WriteString("\n\n")

	b.WriteString(v.viewport.View())
	b.WriteString("\n")

	if v.notice != "" {
		b.WriteString(v.styles.Warning.Render(v.notice))
	} else if v.viewport.TotalLineCount() > v.viewport.Height {
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  [%d%%]", int(v.viewport.ScrollPercent()*100))))
	}
	b.WriteString("\n")
	b.WriteString(v.renderHelp())

	return b.String()
}

// renderHelp renders the help footer.
func (v *View) renderHelp() string {
	return v.styles.Help.Render("[←/p →/n] page  [↑/↓/PgUp/PgDn] scroll  [g/G] first/last  [tab] chat")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.viewport.Width = maxInt(width-2, 20)
	v.viewport.Height = maxInt(height-reserved, 1)
}

// Navigator returns the page navigator.
func (v *View) Navigator() *pager.Navigator {
	return v.navigator
}

// Notice returns the last navigation notice.
func (v *View) Notice() string {
	return v.notice
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
