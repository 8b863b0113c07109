package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/newsmakerhq/newsmaker-bot/config"
)

// Analyzer builds the three prompt shapes the pipeline needs (article
// analysis, post generation, schedule suggestion) on top of a single
// text-generation provider. Malformed provider output is absorbed here:
// every method degrades to a usable default instead of failing.
type Analyzer struct {
	provider Provider
}

// BrandInfo carries the user's branding context into prompts.
type BrandInfo struct {
	Name string
	Tone string
}

// Analysis is the fixed-shape result of analyzing one article.
type Analysis struct {
	Summary        string   `json:"summary"`
	Sentiment      string   `json:"sentiment"`
	KeyPoints      []string `json:"key_points"`
	RelevanceScore int      `json:"relevance_score"`
	MainTheme      string   `json:"main_theme"`
}

// PostDraft is one generated platform rendering.
type PostDraft struct {
	Content  string `json:"content"`
	Hashtags string `json:"hashtags"`
}

// ScheduleSuggestion is the provider's free-form publication-time hint.
type ScheduleSuggestion struct {
	TimeSlot string `json:"time_slot"`
	Priority int    `json:"priority"`
	Reason   string `json:"reason"`
}

// PostSource is the analyzed article material post generation works from.
type PostSource struct {
	Title     string
	Summary   string
	Sentiment string
	KeyPoints []string
}

const analysisContentLimit = 3000

func NewAnalyzer(provider Provider) *Analyzer {
	return &Analyzer{provider: provider}
}

// DefaultAnalysis is the conservative stand-in used when the provider's
// answer cannot be parsed. Ingestion must not dead-end on a formatting glitch.
func DefaultAnalysis() Analysis {
	return Analysis{
		Summary:        "Не удалось проанализировать статью",
		Sentiment:      "neutral",
		KeyPoints:      []string{},
		RelevanceScore: 5,
		MainTheme:      "общее",
	}
}

// AnalyzeArticle asks the provider for a structured analysis of the article.
// Never fails: provider or parse errors yield DefaultAnalysis.
func (a *Analyzer) AnalyzeArticle(ctx context.Context, title, content string, brand BrandInfo) Analysis {
	brandContext := ""
	if brand.Name != "" {
		brandContext = fmt.Sprintf("\n\nКонтекст бренда: %s", brand.Name)
		if brand.Tone != "" {
			brandContext += fmt.Sprintf("\nТон бренда: %s", brand.Tone)
		}
	}

	if runes := []rune(content); len(runes) > analysisContentLimit {
		content = string(runes[:analysisContentLimit])
	}

	prompt := fmt.Sprintf(`Проанализируй эту статью/новость и верни результат СТРОГО в JSON формате.
%s

Заголовок: %s

Содержание:
%s

Верни JSON со следующими полями:
{
    "summary": "краткое содержание статьи в 2-3 предложениях",
    "sentiment": "positive/negative/neutral - отношение к упоминаемому бренду/компании",
    "key_points": ["ключевой момент 1", "ключевой момент 2", "ключевой момент 3"],
    "relevance_score": число от 1 до 10 (насколько статья важна для бренда),
    "main_theme": "основная тема статьи одним словом"
}

Отвечай ТОЛЬКО JSON, без дополнительного текста.`, brandContext, title, content)

	raw, err := a.provider.GenerateText(ctx, prompt, 1000)
	if err != nil {
		logrus.Errorf("article analysis failed: %v", err)
		return DefaultAnalysis()
	}

	var analysis Analysis
	if err := DecodeJSON(raw, &analysis); err != nil {
		logrus.Warnf("article analysis returned malformed JSON, using defaults: %v", err)
		return DefaultAnalysis()
	}

	if analysis.KeyPoints == nil {
		analysis.KeyPoints = []string{}
	}
	if analysis.RelevanceScore < 1 || analysis.RelevanceScore > 10 {
		analysis.RelevanceScore = 5
	}

	return analysis
}

// GeneratePosts produces one post per requested platform in a single
// provider call. The result's key set always equals the requested platform
// set: platforms missing from the answer are backfilled with a plain
// title+summary post, extra keys are dropped.
func (a *Analyzer) GeneratePosts(ctx context.Context, src PostSource, platforms []string, brand BrandInfo) map[string]PostDraft {
	brandContext := ""
	if brand.Name != "" {
		brandContext = fmt.Sprintf("Бренд: %s\n", brand.Name)
		if brand.Tone != "" {
			brandContext += fmt.Sprintf("Тон коммуникации: %s\n", brand.Tone)
		}
	}

	requirements := make([]string, 0, len(platforms))
	for _, platform := range platforms {
		requirements = append(requirements, platformRequirement(platform))
	}

	sentimentContext := map[string]string{
		"positive": "Это ПОЗИТИВНАЯ новость - подчеркни достижения и успехи",
		"negative": "Это НЕГАТИВНАЯ новость - будь осторожен, предложи как компания работает над проблемой",
		"neutral":  "Это НЕЙТРАЛЬНАЯ новость - будь объективным",
	}
	tone, ok := sentimentContext[src.Sentiment]
	if !ok {
		tone = sentimentContext["neutral"]
	}

	prompt := fmt.Sprintf(`%s
Исходная статья:
Заголовок: %s
Краткое содержание: %s
Ключевые моменты: %s

Тональность: %s

Создай посты для следующих платформ:
%s

Верни результат в JSON формате:
{
    "telegram": {
        "content": "текст поста",
        "hashtags": "#хештег1 #хештег2"
    },
    ...
}

Требования:
- Каждый пост должен быть УНИКАЛЬНЫМ и адаптированным под платформу
- Сохрани суть новости, но адаптируй стиль
- Telegram и VK: более живые, с эмодзи
- LinkedIn и пресс-релиз: деловой формальный стиль
- Twitter: максимально кратко, цепляюще
- Добавь релевантные хештеги (3-5 штук)

Отвечай ТОЛЬКО JSON.`,
		brandContext,
		src.Title,
		src.Summary,
		strings.Join(src.KeyPoints, ", "),
		tone,
		strings.Join(requirements, "\n"))

	generated := map[string]PostDraft{}

	raw, err := a.provider.GenerateText(ctx, prompt, 2000)
	if err != nil {
		logrus.Errorf("post generation failed: %v", err)
	} else if err := DecodeJSON(raw, &generated); err != nil {
		logrus.Warnf("post generation returned malformed JSON, using fallbacks: %v", err)
		generated = map[string]PostDraft{}
	}

	// Filter to the requested set and backfill anything the model dropped.
	posts := make(map[string]PostDraft, len(platforms))
	for _, platform := range platforms {
		if draft, ok := generated[platform]; ok && draft.Content != "" {
			posts[platform] = draft
			continue
		}
		posts[platform] = fallbackPost(src)
	}

	return posts
}

func fallbackPost(src PostSource) PostDraft {
	return PostDraft{
		Content:  fmt.Sprintf("%s\n\n%s", src.Title, src.Summary),
		Hashtags: "#новости",
	}
}

func platformRequirement(platform string) string {
	info, ok := config.Platforms[platform]
	if !ok {
		return fmt.Sprintf("- %s", platform)
	}

	req := fmt.Sprintf("- %s: макс. %d символов", info.Name, info.MaxLength)
	if info.Formal {
		req += ", формальный стиль"
	}
	if info.Emoji {
		req += ", можно эмодзи"
	}
	return req
}

// SuggestSchedule asks the provider for a publication time slot per
// platform. Unusable answers degrade to an afternoon slot with priorities
// in platform order.
func (a *Analyzer) SuggestSchedule(ctx context.Context, platforms []string, sentiment string) map[string]ScheduleSuggestion {
	prompt := fmt.Sprintf(`У нас есть посты для публикации на платформах: %s
Тональность новости: %s

Предложи оптимальное расписание публикации. Учти:
- Позитивные новости лучше публиковать утром/днём
- Негативные - вечером, когда меньше охват
- Telegram и VK - можно сразу
- LinkedIn - лучше в рабочие часы (10-16)
- Пресс-релизы - утро рабочего дня

Верни JSON:
{
    "telegram": {"time_slot": "сегодня 14:00", "priority": 1, "reason": "почему"},
    ...
}

Отвечай ТОЛЬКО JSON.`, strings.Join(platforms, ", "), sentiment)

	suggested := map[string]ScheduleSuggestion{}

	raw, err := a.provider.GenerateText(ctx, prompt, 1000)
	if err != nil {
		logrus.Errorf("schedule suggestion failed: %v", err)
	} else if err := DecodeJSON(raw, &suggested); err != nil {
		logrus.Warnf("schedule suggestion returned malformed JSON, using fallbacks: %v", err)
		suggested = map[string]ScheduleSuggestion{}
	}

	schedule := make(map[string]ScheduleSuggestion, len(platforms))
	for i, platform := range platforms {
		if s, ok := suggested[platform]; ok && s.TimeSlot != "" {
			schedule[platform] = s
			continue
		}
		schedule[platform] = ScheduleSuggestion{TimeSlot: "сегодня 14:00", Priority: i + 1}
	}

	return schedule
}
