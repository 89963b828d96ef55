package services

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// citationPattern matches the page marker the grounded-answer prompt asks
// the model to emit. FormatCitation renders the same form; keep both in sync
// with the example in defaultGroundedPrompt.
var citationPattern = regexp.MustCompile(`\(Page ([1-9][0-9]*)\)`)

// FormatCitation renders the page marker for page n, e.g. "(Page 3)".
func FormatCitation(n int) string {
	return fmt.Sprintf("(Page %d)", n)
}

// ContainsCitation reports whether text holds at least one page marker.
func ContainsCitation(text string) bool {
	return citationPattern.MatchString(text)
}

// ResolveCitation extracts the page marker from a raw model answer.
//
// Only the first marker is honoured when the model emits several. That
// marker is removed and the result trimmed; later markers stay in the text.
// Without a marker the answer is returned unchanged with a nil citation.
func ResolveCitation(answer string) (string, *domain.Citation) {
	loc := citationPattern.FindStringSubmatchIndex(answer)
	if loc == nil {
		return answer, nil
	}

	page, err := strconv.Atoi(answer[loc[2]:loc[3]])
	if err != nil || page < 1 {
		return answer, nil
	}

	cleaned := strings.TrimSpace(answer[:loc[0]] + answer[loc[1]:])
	return cleaned, &domain.Citation{PageNumber: page}
}
