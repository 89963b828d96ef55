// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/docchat/internal/core/domain"
)

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewOpen asks for the document to work with.
	ViewOpen ViewType = iota
	// ViewChat is the question and answer view.
	ViewChat
	// ViewPages shows the document one page at a time.
	ViewPages
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewOpen:
		return "open"
	case ViewChat:
		return "chat"
	case ViewPages:
		return "pages"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// OpenRequested is a command to upload the document at Path.
type OpenRequested struct {
	Path string
}

// DocumentLoaded carries the result of an upload.
type DocumentLoaded struct {
	Path   string
	Result *domain.UploadResult
	Err    error
}

// QuestionSubmitted is a command to ask a question about the open document.
type QuestionSubmitted struct {
	Question string
}

// AnswerReceived carries the answer to a question.
// Warning is set when the answer was produced but not recorded.
type AnswerReceived struct {
	Question string
	Answer   *domain.Answer
	Warning  string
	Err      error
}

// PageRequested asks the page viewer to show a page.
// It is ignored when Page is outside the document.
type PageRequested struct {
	Page int
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}

// HistoryLoaded carries the earlier exchanges of a resumed session.
type HistoryLoaded struct {
	Exchanges []domain.Exchange
	Err       error
}
