package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		Summary string `json:"summary"`
	}

	tests := []struct {
		name     string
		raw      string
		expected string
		wantErr  bool
	}{
		{
			name:     "plain json",
			raw:      `{"summary": "текст"}`,
			expected: "текст",
		},
		{
			name:     "fenced json with language tag",
			raw:      "```json\n{\"summary\": \"текст\"}\n```",
			expected: "текст",
		},
		{
			name:     "fenced json without language tag",
			raw:      "```\n{\"summary\": \"текст\"}\n```",
			expected: "текст",
		},
		{
			name:     "surrounding whitespace",
			raw:      "\n\n  {\"summary\": \"текст\"}  \n",
			expected: "текст",
		},
		{
			name:    "prose instead of json",
			raw:     "Вот ваш пост: отличная новость!",
			wantErr: true,
		},
		{
			name:    "truncated json",
			raw:     `{"summary": "тек`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out payload
			err := DecodeJSON(tt.raw, &out)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, out.Summary)
		})
	}
}

func TestDecodeJSONArray(t *testing.T) {
	var out []string
	err := DecodeJSON("```json\n[\"первое\", \"второе\"]\n```", &out)
	require.NoError(t, err)
	assert.Equal(t, []string{"первое", "второе"}, out)
}
