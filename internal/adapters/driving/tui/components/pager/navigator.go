// Package pager holds the page navigation state of an open document.
package pager

import (
	"github.com/custodia-labs/docchat/internal/core/domain"
)

// Navigator tracks which page of a document is shown.
// Current is 1-based; it is 0 only when there are no pages.
type Navigator struct {
	pages   []domain.Page
	current int
}

// NewNavigator creates a navigator positioned on the first page.
func NewNavigator(pages []domain.Page) *Navigator {
	n := &Navigator{}
	n.SetPages(pages)
	return n
}

// SetPages replaces the document and moves to the first page.
func (n *Navigator) SetPages(pages []domain.Page) {
	n.pages = pages
	n.current = 0
	if len(pages) > 0 {
		n.current = 1
	}
}

// Count returns the number of pages.
func (n *Navigator) Count() int {
	return len(n.pages)
}

// Current returns the 1-based number of the page shown.
func (n *Navigator) Current() int {
	return n.current
}

// Page returns the page shown.
func (n *Navigator) Page() (domain.Page, bool) {
	if n.current == 0 {
		return domain.Page{}, false
	}
	return n.pages[n.current-1], true
}

// Next moves forward one page. It reports whether the page changed.
func (n *Navigator) Next() bool {
	return n.JumpTo(n.current + 1)
}

// Prev moves back one page. It reports whether the page changed.
func (n *Navigator) Prev() bool {
	return n.JumpTo(n.current - 1)
}

// InRange reports whether page exists in the document.
func (n *Navigator) InRange(page int) bool {
	return page >= 1 && page <= len(n.pages)
}

// JumpTo shows page when it exists in the document and reports whether
// the navigator moved. Out-of-range pages leave the position unchanged.
func (n *Navigator) JumpTo(page int) bool {
	if !n.InRange(page) || page == n.current {
		return false
	}
	n.current = page
	return true
}

// JumpToCitation shows the cited page of an answer when there is one.
func (n *Navigator) JumpToCitation(citation *int) bool {
	if citation == nil {
		return false
	}
	return n.JumpTo(*citation)
}
