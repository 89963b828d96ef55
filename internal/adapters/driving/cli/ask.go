package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/services"
)

var (
	askSessionID string
	askJSON      bool
)

var askCmd = &cobra.Command{
	Use:   "ask [file] [question]",
	Short: "Ask a question about a document",
	Long: `Answers a question using only the text of the given document.

The answer cites the page it came from when the model found one. Pass
--session to group several questions into one conversation; without it a
new session id is created and printed so later questions can reuse it.

Examples:
  docchat ask report.pdf "What was the total revenue?"
  docchat ask report.pdf "And in the previous year?" --session 2b1c...`,
	Args: cobra.ExactArgs(2),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVarP(&askSessionID, "session", "s", "", "session id to record the exchange under")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the answer as JSON")
	rootCmd.AddCommand(askCmd)
}

// askOutput is the JSON form of an answer.
type askOutput struct {
	domain.Answer
	SessionID string `json:"sessionId"`
	Warning   string `json:"warning,omitempty"`
}

func runAsk(cmd *cobra.Command, args []string) error {
	if documentService == nil || queryService == nil {
		return errors.New("query service not configured")
	}

	path, question := args[0], args[1]
	sessionID := askSessionID
	if sessionID == "" {
		sessionID = services.NewSessionID()
	}

	upload, err := documentService.Upload(cmd.Context(), domain.UploadRequest{Path: path})
	if err != nil {
		return fmt.Errorf("upload failed: %w", err)
	}

	answer, err := queryService.Ask(cmd.Context(), domain.QueryRequest{
		UserQuery:     question,
		ExtractedText: upload.ExtractedText,
		SessionID:     sessionID,
	})

	var warning string
	var persistErr *domain.PersistenceError
	switch {
	case errors.As(err, &persistErr):
		answer = &persistErr.Answer
		warning = fmt.Sprintf("answer was not saved to history: %v", persistErr.Err)
	case errors.Is(err, domain.ErrLLMUnavailable):
		return fmt.Errorf("%w\nRun 'docchat settings llm' to configure a provider", err)
	case errors.Is(err, domain.ErrGenerationTimeout):
		return fmt.Errorf("the model did not answer in time: %w", err)
	case err != nil:
		return fmt.Errorf("ask failed: %w", err)
	}

	if askJSON {
		data, err := json.MarshalIndent(askOutput{
			Answer:    *answer,
			SessionID: sessionID,
			Warning:   warning,
		}, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal answer: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	printAnswer(cmd, answer, upload.PageCount(), sessionID, warning)
	return nil
}

func printAnswer(cmd *cobra.Command, answer *domain.Answer, pageCount int, sessionID, warning string) {
	st := newStyler(cmd.OutOrStdout())

	cmd.Println(st.render(answerStyle, answer.AIResponse))
	cmd.Println()
	if answer.HasCitation() {
		page := *answer.PageCitation
		line := fmt.Sprintf("Source: page %d", page)
		if page > pageCount {
			line += fmt.Sprintf(" (document has %s)", pluralPages(pageCount))
		}
		cmd.Println(st.render(citationStyle, line))
	} else {
		cmd.Println(st.render(mutedStyle, "Source: no page cited"))
	}
	if answer.Truncated {
		cmd.Println(st.render(mutedStyle, "Note: the document was truncated to fit the model context"))
	}
	cmd.Println(st.render(mutedStyle, "Session: "+sessionID))
	if warning != "" {
		cmd.Println(st.render(warningStyle, "Warning: "+warning))
	}
}
