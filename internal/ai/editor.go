package ai

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/newsmakerhq/newsmaker-bot/config"
)

// Editor rewrites an existing post per a free-form user request while
// keeping the platform's constraints in the prompt.
type Editor struct {
	provider Provider
}

// EditResult carries the rewritten text plus a short description of what
// changed. On failure the original text comes back unchanged.
type EditResult struct {
	EditedPost string `json:"edited_post"`
	Changes    string `json:"changes"`
	Success    bool   `json:"-"`
}

func NewEditor(provider Provider) *Editor {
	return &Editor{provider: provider}
}

// EditPost applies the user's edit request to a post.
func (e *Editor) EditPost(ctx context.Context, originalPost, userRequest, platform string) EditResult {
	platformInfo := ""
	if info, ok := config.Platforms[platform]; ok {
		platformInfo = fmt.Sprintf("\nПлатформа: %s\nМаксимум символов: %d", info.Name, info.MaxLength)
		if info.Emoji {
			platformInfo += "\nМожно использовать эмодзи"
		}
		if info.Formal {
			platformInfo += "\nФормальный стиль"
		}
	}

	prompt := fmt.Sprintf(`Ты - редактор контента. У тебя есть пост и запрос на редактирование.
%s

ИСХОДНЫЙ ПОСТ:
%s

ЗАПРОС ПОЛЬЗОВАТЕЛЯ:
%s

Отредактируй пост согласно запросу пользователя. Верни результат в JSON:
{
    "edited_post": "отредактированный текст поста",
    "changes": "краткое описание что изменил (1-2 предложения)"
}

Правила:
- Сохрани основную суть и ключевые факты
- Следуй запросу пользователя точно
- Если просят "короче" - убери детали, но сохрани главное
- Если просят "добавить эмодзи" - добавь уместные эмодзи
- Если просят изменить тон - измени стиль, но сохрани факты

Отвечай ТОЛЬКО JSON, без markdown.`, platformInfo, originalPost, userRequest)

	raw, err := e.provider.GenerateText(ctx, prompt, 1000)
	if err != nil {
		logrus.Errorf("post edit failed: %v", err)
		return EditResult{EditedPost: originalPost, Changes: fmt.Sprintf("Ошибка: %v", err)}
	}

	var result EditResult
	if err := DecodeJSON(raw, &result); err != nil {
		logrus.Warnf("post edit returned malformed JSON: %v", err)
		return EditResult{EditedPost: originalPost, Changes: fmt.Sprintf("Ошибка: %v", err)}
	}

	if result.EditedPost == "" {
		result.EditedPost = originalPost
	}
	if result.Changes == "" {
		result.Changes = "Изменения применены"
	}
	result.Success = true

	return result
}

// SuggestImprovements returns a short list of concrete edit ideas for a post.
func (e *Editor) SuggestImprovements(ctx context.Context, post, platform string) []string {
	platformInfo := ""
	if info, ok := config.Platforms[platform]; ok {
		platformInfo = fmt.Sprintf("Платформа: %s", info.Name)
	}

	prompt := fmt.Sprintf(`Проанализируй этот пост и предложи 3-5 конкретных улучшений.
%s

ПОСТ:
%s

Верни JSON массив с предложениями:
[
    "Добавить больше эмодзи для визуальной привлекательности",
    "Сократить до 150 символов",
    "Изменить тон на более неформальный"
]

Предложения должны быть:
- Конкретными и выполнимыми
- Короткими (до 10 слов)
- Разнообразными (стиль, длина, оформление)

Отвечай ТОЛЬКО JSON массивом.`, platformInfo, post)

	raw, err := e.provider.GenerateText(ctx, prompt, 500)
	if err != nil {
		logrus.Errorf("improvement suggestions failed: %v", err)
		return nil
	}

	var suggestions []string
	if err := DecodeJSON(raw, &suggestions); err != nil {
		logrus.Warnf("improvement suggestions returned malformed JSON: %v", err)
		return nil
	}

	return suggestions
}
