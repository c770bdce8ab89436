package extractor

import (
	"strings"
	"testing"
)

func TestIsReadableText(t *testing.T) {
	tests := []struct {
		name     string
		pages    []string
		expected bool
	}{
		{
			name: "statement text",
			pages: []string{
				"Account Number: XXXX XXXX XXXX 0801\n" +
					"Previous Balance $4,233.99\n" +
					"New Balance $111.95 Payment Due Date: 04/03/25",
			},
			expected: true,
		},
		{
			name:     "too short",
			pages:    []string{"balance"},
			expected: false,
		},
		{
			name:     "garbage encoding",
			pages:    []string{strings.Repeat("þÿÃ©", 50)},
			expected: false,
		},
		{
			name:     "readable but unrelated",
			pages:    []string{strings.Repeat("the quick brown fox jumps over the lazy dog ", 5)},
			expected: false,
		},
		{
			name:     "empty",
			pages:    nil,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isReadableText(tt.pages); got != tt.expected {
				t.Errorf("got %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestExtractTextMissingFile(t *testing.T) {
	if _, err := ExtractText("does-not-exist.pdf"); err == nil {
		t.Error("expected error for missing file")
	}
}
