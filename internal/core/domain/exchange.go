package domain

import "time"

// Citation is a page reference resolved from a model answer.
type Citation struct {
	// PageNumber is the positive, 1-based page the answer refers to.
	PageNumber int
}

// Exchange is one persisted question/answer record.
// Exchanges are append-only: they are never updated once stored.
type Exchange struct {
	// ID is the unique identifier for the exchange.
	ID string `json:"id"`

	// SessionID correlates exchanges from one user conversation.
	SessionID string `json:"sessionId"`

	// UserQuery is the question as asked.
	UserQuery string `json:"userQuery"`

	// AIResponse is the model answer with the citation marker removed.
	AIResponse string `json:"aiResponse"`

	// PageCitation is the resolved page, nil when the answer cited none.
	PageCitation *int `json:"pageCitation"`

	// CreatedAt is when the exchange was recorded.
	CreatedAt time.Time `json:"createdAt"`
}

// QueryRequest is the input to the query boundary.
type QueryRequest struct {
	// UserQuery is the natural-language question.
	UserQuery string `json:"userQuery"`

	// ExtractedText is the document text, either raw (page-break separated)
	// or already labeled by the upload boundary.
	ExtractedText string `json:"extractedText"`

	// SessionID identifies the conversation the exchange belongs to.
	SessionID string `json:"sessionId"`
}

// Answer is the result of the query boundary.
type Answer struct {
	// AIResponse is the answer text with the citation marker stripped.
	AIResponse string `json:"aiResponse"`

	// PageCitation is the cited page, or nil when no citation was found.
	PageCitation *int `json:"pageCitation"`

	// ExchangeID identifies the persisted exchange. Empty if persistence failed.
	ExchangeID string `json:"exchangeId,omitempty"`

	// Truncated reports whether the document was cut to fit the context budget.
	Truncated bool `json:"truncated,omitempty"`
}

// HasCitation reports whether the answer carries a page reference.
func (a Answer) HasCitation() bool {
	return a.PageCitation != nil
}
