package images

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnknownProviderFallsBackToPlaceholder(t *testing.T) {
	g := NewGenerator("", "")

	result := g.GenerateImage(context.Background(), "иллюстрация к новости", "Большая сделка")

	assert.True(t, result.Success)
	assert.Equal(t, "Локальный генератор", result.Provider)
	assert.Contains(t, result.URL, "via.placeholder.com")
	assert.Contains(t, result.URL, "Большая+сделка")
}

func TestPlaceholderIsDeterministic(t *testing.T) {
	g := NewGenerator("unknown", "")

	first := g.GenerateImage(context.Background(), "prompt", "Один и тот же заголовок")
	second := g.GenerateImage(context.Background(), "prompt", "Один и тот же заголовок")

	assert.Equal(t, first.URL, second.URL)
}

func TestPlaceholderTruncatesLongTitles(t *testing.T) {
	g := NewGenerator("", "")
	long := strings.Repeat("слово ", 30)

	result := g.GenerateImage(context.Background(), "prompt", long)

	assert.True(t, result.Success)
	// The text query parameter holds at most 50 runes of the title.
	idx := strings.Index(result.URL, "text=")
	assert.GreaterOrEqual(t, idx, 0)
	assert.LessOrEqual(t, len([]rune(result.URL[idx+len("text="):])), 50)
}

func TestCreatePostImageUsesSentimentStyle(t *testing.T) {
	g := NewGenerator("", "")

	result := g.CreatePostImage(context.Background(), "Заголовок", "Кратко", "positive")

	assert.True(t, result.Success)
	assert.NotEmpty(t, result.URL)
}
