package services

import (
	"strings"

	"github.com/custodia-labs/docchat/internal/core/ports/driven"
	"github.com/custodia-labs/docchat/internal/logger"
)

// Template placeholders.
const (
	placeholderDocument = "{{document}}"
	placeholderQuestion = "{{question}}"
)

// InsufficientInformationReply is the sentence the model is told to give
// when the document cannot answer the question.
const InsufficientInformationReply = "The document does not provide enough information to answer this question."

// defaultGroundedPrompt is the built-in grounded-answer template.
var defaultGroundedPrompt = `You are an intelligent assistant helping the user understand a document.
Your task is to answer questions based only on the provided document text.
Follow these rules strictly:

1. **Be concise but detailed** - answer clearly and provide supporting information.
2. **Citations** - always mention the page number if the information can be traced (e.g., "` + FormatCitation(3) + `").
3. **Faithfulness** - do not make up information. If the answer is not in the document, say:
   "` + InsufficientInformationReply + `"
4. **Summarize if needed** - if the user's query is broad, provide a well-structured summary instead of a long raw dump.
5. **Format answers clearly** - use bullet points, short paragraphs, or numbered lists when appropriate.

Document Text: ` + placeholderDocument + `

User Question: ` + placeholderQuestion

// DefaultGroundedPrompt returns the built-in grounded-answer template.
func DefaultGroundedPrompt() string {
	return defaultGroundedPrompt
}

// ValidateTemplate reports whether tpl can replace the built-in template:
// it must carry both placeholders and a citation example in the exact form
// ResolveCitation parses.
func ValidateTemplate(tpl string) bool {
	return strings.Contains(tpl, placeholderDocument) &&
		strings.Contains(tpl, placeholderQuestion) &&
		ContainsCitation(tpl)
}

// PromptAssembler builds the grounded-answer prompt.
type PromptAssembler struct {
	promptStore driven.PromptStore
}

// Ensure PromptAssembler accepts prompt stores.
var _ driven.PromptStoreAware = (*PromptAssembler)(nil)

// NewPromptAssembler creates an assembler using the built-in template.
func NewPromptAssembler() *PromptAssembler {
	return &PromptAssembler{}
}

// SetPromptStore sets the prompt store for loading a customised template.
func (a *PromptAssembler) SetPromptStore(store driven.PromptStore) {
	a.promptStore = store
}

// Assemble embeds the document and question verbatim into the template.
// Placeholder-like text inside the document or question is not expanded.
func (a *PromptAssembler) Assemble(document, question string) string {
	r := strings.NewReplacer(
		placeholderDocument, document,
		placeholderQuestion, question,
	)
	return r.Replace(a.template())
}

// template loads the customised template, falling back to the default when
// it is missing or would break the citation contract.
func (a *PromptAssembler) template() string {
	if a.promptStore == nil {
		return defaultGroundedPrompt
	}
	tpl, err := a.promptStore.Load(driven.PromptGroundedAnswer)
	if err != nil {
		logger.Warn("Loading prompt %q failed, using default: %v", driven.PromptGroundedAnswer, err)
		return defaultGroundedPrompt
	}
	if !ValidateTemplate(tpl) {
		logger.Warn("Prompt %q lacks placeholders or citation example, using default", driven.PromptGroundedAnswer)
		return defaultGroundedPrompt
	}
	return tpl
}
