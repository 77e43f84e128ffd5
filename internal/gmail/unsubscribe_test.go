package gmail

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/teemow/inboxagent/internal/mail"
)

func TestParseListUnsubscribe(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		expected []mail.UnsubscribeMethod
	}{
		{
			name:   "single mailto",
			header: "<mailto:unsubscribe@example.com>",
			expected: []mail.UnsubscribeMethod{
				{Type: "mailto", URL: "mailto:unsubscribe@example.com"},
			},
		},
		{
			name:   "single http",
			header: "<https://example.com/unsubscribe>",
			expected: []mail.UnsubscribeMethod{
				{Type: "http", URL: "https://example.com/unsubscribe"},
			},
		},
		{
			name:   "multiple methods",
			header: "<mailto:unsubscribe@example.com>, <https://example.com/unsubscribe>",
			expected: []mail.UnsubscribeMethod{
				{Type: "mailto", URL: "mailto:unsubscribe@example.com"},
				{Type: "http", URL: "https://example.com/unsubscribe"},
			},
		},
		{
			name:     "unsupported scheme",
			header:   "<ftp://example.com/unsubscribe>",
			expected: nil,
		},
		{
			name:     "empty",
			header:   "",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseListUnsubscribe(tt.header))
		})
	}
}
