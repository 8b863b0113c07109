package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractURL(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{
			name:     "bare url",
			text:     "https://example.com/news/1",
			expected: "https://example.com/news/1",
		},
		{
			name:     "slack-wrapped url",
			text:     "<https://example.com/news/1>",
			expected: "https://example.com/news/1",
		},
		{
			name:     "slack-wrapped url with label",
			text:     "<https://example.com/news/1|example.com>",
			expected: "https://example.com/news/1",
		},
		{
			name:     "url inside a sentence",
			text:     "посмотри вот это <https://example.com/a> интересно",
			expected: "https://example.com/a",
		},
		{
			name:     "no url",
			text:     "просто сообщение без ссылок",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractURL(tt.text))
		})
	}
}

func TestUserKeyStableAndNonNegative(t *testing.T) {
	a := userKey("U12345")
	b := userKey("U12345")
	c := userKey("U99999")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.GreaterOrEqual(t, a, int64(0))
}

func TestArgsAfterCommand(t *testing.T) {
	assert.Equal(t, "abc def", argsAfterCommand("опубликовать abc def"))
	assert.Equal(t, "", argsAfterCommand("опубликовать"))
	assert.Equal(t, "", argsAfterCommand(""))
}
