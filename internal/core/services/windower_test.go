package services

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestNewContextWindower_Default(t *testing.T) {
	assert.Equal(t, 150000, NewContextWindower(0).MaxChars())
	assert.Equal(t, 150000, NewContextWindower(-5).MaxChars())
	assert.Equal(t, 10, NewContextWindower(10).MaxChars())
}

func TestContextWindower_Window(t *testing.T) {
	markerLen := utf8.RuneCountInString(TruncationMarker)

	tests := []struct {
		name      string
		length    int
		budget    int
		truncated bool
	}{
		{"shorter than budget", 5, 10, false},
		{"exactly budget", 10, 10, false},
		{"one over budget", 11, 10, true},
		{"far over budget", 1000, 10, true},
		{"empty", 0, 10, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewContextWindower(tt.budget)
			text := strings.Repeat("a", tt.length)

			got, truncated := w.Window(text)

			assert.Equal(t, tt.truncated, truncated)
			assert.Equal(t, tt.truncated, strings.HasSuffix(got, TruncationMarker))
			if tt.truncated {
				assert.Equal(t, tt.budget+markerLen, utf8.RuneCountInString(got))
				assert.Equal(t, text[:tt.budget], strings.TrimSuffix(got, TruncationMarker))
			} else {
				assert.Equal(t, text, got)
			}
		})
	}
}

func TestContextWindower_CountsCharactersNotBytes(t *testing.T) {
	w := NewContextWindower(3)

	got, truncated := w.Window("héllo wörld")

	assert.True(t, truncated)
	assert.Equal(t, "hél"+TruncationMarker, got)
	assert.True(t, utf8.ValidString(got))

	got, truncated = NewContextWindower(5).Window("ééééé")
	assert.False(t, truncated)
	assert.Equal(t, "ééééé", got)
}
