package mcp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/services"
)

// ExtractInput is the input schema for the extract_document tool.
type ExtractInput struct {
	Path string `json:"path" jsonschema:"absolute path of a PDF, DOCX, ODT, text or markdown file"`
}

// ExtractOutput is the output schema for the extract_document tool.
type ExtractOutput struct {
	ExtractedText string `json:"extracted_text"`
	FileURL       string `json:"file_url"`
	PageCount     int    `json:"page_count"`
}

// AskInput is the input schema for the ask_document tool.
type AskInput struct {
	Question      string `json:"question" jsonschema:"the question to answer from the document"`
	ExtractedText string `json:"extracted_text" jsonschema:"document text from extract_document, or raw text with form feeds between pages"`
	SessionID     string `json:"session_id,omitempty" jsonschema:"conversation identifier; a new one is minted when empty"`
}

// AskOutput is the output schema for the ask_document tool.
type AskOutput struct {
	Answer       string `json:"answer"`
	PageCitation *int   `json:"page_citation"`
	SessionID    string `json:"session_id"`
	ExchangeID   string `json:"exchange_id,omitempty"`
	Truncated    bool   `json:"truncated,omitempty"`
	Warning      string `json:"warning,omitempty"`
}

// HistoryInput is the input schema for the session_history tool.
type HistoryInput struct {
	SessionID string `json:"session_id" jsonschema:"the conversation identifier"`
}

// HistoryOutput is the output schema for the session_history tool.
type HistoryOutput struct {
	Exchanges []ExchangeOutput `json:"exchanges"`
	Count     int              `json:"count"`
}

// ExchangeOutput represents one recorded question and answer.
type ExchangeOutput struct {
	ID           string `json:"id"`
	Question     string `json:"question"`
	Answer       string `json:"answer"`
	PageCitation *int   `json:"page_citation"`
	CreatedAt    string `json:"created_at"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "extract_document",
		Description: "Extract page-labeled text from a local document",
	}, s.handleExtract)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask_document",
		Description: "Answer a question from document text, citing the page the answer came from",
	}, s.handleAsk)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "session_history",
		Description: "List the questions and answers recorded for a session",
	}, s.handleHistory)
}

// handleExtract handles the extract_document tool invocation.
func (s *Server) handleExtract(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ExtractInput,
) (*mcp.CallToolResult, ExtractOutput, error) {
	if s.ports.Document == nil {
		return nil, ExtractOutput{}, errors.New("document extraction is not configured")
	}

	result, err := s.ports.Document.Upload(ctx, domain.UploadRequest{Path: input.Path})
	if err != nil {
		return nil, ExtractOutput{}, err
	}

	return nil, ExtractOutput{
		ExtractedText: result.ExtractedText,
		FileURL:       result.FileURL,
		PageCount:     result.PageCount(),
	}, nil
}

// handleAsk handles the ask_document tool invocation.
// An answer that could not be recorded is still returned, with a warning.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	sessionID := input.SessionID
	if sessionID == "" {
		sessionID = services.NewSessionID()
	}

	answer, err := s.ports.Query.Ask(ctx, domain.QueryRequest{
		UserQuery:     input.Question,
		ExtractedText: input.ExtractedText,
		SessionID:     sessionID,
	})

	var persistErr *domain.PersistenceError
	switch {
	case errors.As(err, &persistErr):
		out := askOutput(&persistErr.Answer, sessionID)
		out.Warning = fmt.Sprintf("answer was not saved to history: %v", persistErr.Err)
		return nil, out, nil
	case err != nil:
		return nil, AskOutput{}, err
	}

	return nil, askOutput(answer, sessionID), nil
}

func askOutput(answer *domain.Answer, sessionID string) AskOutput {
	return AskOutput{
		Answer:       answer.AIResponse,
		PageCitation: answer.PageCitation,
		SessionID:    sessionID,
		ExchangeID:   answer.ExchangeID,
		Truncated:    answer.Truncated,
	}
}

// handleHistory handles the session_history tool invocation.
func (s *Server) handleHistory(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input HistoryInput,
) (*mcp.CallToolResult, HistoryOutput, error) {
	if s.ports.History == nil {
		return nil, HistoryOutput{}, errors.New("session history is not configured")
	}

	exchanges, err := s.ports.History.List(ctx, input.SessionID)
	if err != nil {
		return nil, HistoryOutput{}, err
	}

	return nil, historyOutput(exchanges), nil
}

func historyOutput(exchanges []domain.Exchange) HistoryOutput {
	output := HistoryOutput{
		Exchanges: make([]ExchangeOutput, len(exchanges)),
		Count:     len(exchanges),
	}
	for i := range exchanges {
		output.Exchanges[i] = ExchangeOutput{
			ID:           exchanges[i].ID,
			Question:     exchanges[i].UserQuery,
			Answer:       exchanges[i].AIResponse,
			PageCitation: exchanges[i].PageCitation,
			CreatedAt:    exchanges[i].CreatedAt.UTC().Format(time.RFC3339Nano),
		}
	}
	return output
}
