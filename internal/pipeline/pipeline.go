package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/newsmakerhq/newsmaker-bot/config"
	"github.com/newsmakerhq/newsmaker-bot/internal/ai"
	"github.com/newsmakerhq/newsmaker-bot/internal/fetch"
	"github.com/newsmakerhq/newsmaker-bot/internal/models"
)

// Caller-facing error taxonomy. Both are rejected before any remote call.
var (
	ErrDuplicateArticle = errors.New("эта статья уже была обработана ранее")
	ErrNoPlatforms      = errors.New("не выбрано ни одной платформы")
)

// ArticleStore persists articles and answers the URL dedup check.
type ArticleStore interface {
	Create(ctx context.Context, article *models.Article) error
	GetByURL(ctx context.Context, url string) (*models.Article, error)
}

// PostStore persists generated posts.
type PostStore interface {
	Create(ctx context.Context, post *models.Post) error
}

// SettingsStore reads per-user preferences; (nil, nil) means no row.
type SettingsStore interface {
	GetByUserID(ctx context.Context, userID int64) (*models.UserSettings, error)
}

// Generator is the text-analysis capability the pipeline fans articles
// through. All three methods absorb provider errors into defaults.
type Generator interface {
	AnalyzeArticle(ctx context.Context, title, content string, brand ai.BrandInfo) ai.Analysis
	GeneratePosts(ctx context.Context, src ai.PostSource, platforms []string, brand ai.BrandInfo) map[string]ai.PostDraft
	SuggestSchedule(ctx context.Context, platforms []string, sentiment string) map[string]ai.ScheduleSuggestion
}

// Fetcher downloads and extracts one article.
type Fetcher interface {
	FetchArticle(ctx context.Context, url string) (*fetch.Article, error)
}

// PostResult summarizes one persisted post for the caller.
type PostResult struct {
	PostID        string     `json:"post_id"`
	Content       string     `json:"content"`
	Hashtags      string     `json:"hashtags"`
	ScheduledAt   *time.Time `json:"scheduled_at,omitempty"`
	ScheduleInfo  string     `json:"schedule_info,omitempty"`
	AutoScheduled bool       `json:"auto_scheduled"`
}

// Result is the success payload of one pipeline run.
type Result struct {
	ArticleID      string                `json:"article_id"`
	Title          string                `json:"title"`
	Summary        string                `json:"summary"`
	Sentiment      models.Sentiment      `json:"sentiment"`
	RelevanceScore int                   `json:"relevance_score"`
	Posts          map[string]PostResult `json:"posts"`
	TotalPosts     int                   `json:"total_posts"`
}

// Preview is the fetch-only quick look at a URL.
type Preview struct {
	Title          string `json:"title"`
	ContentPreview string `json:"content_preview"`
	Domain         string `json:"domain"`
}

// Deps wires all collaborators into the pipeline.
type Deps struct {
	Articles  ArticleStore
	Posts     PostStore
	Settings  SettingsStore
	Fetcher   Fetcher
	Generator Generator
}

// Pipeline orchestrates fetch -> analyze -> persist article -> generate
// posts -> auto-schedule -> persist posts for one submitted URL.
type Pipeline struct {
	articles  ArticleStore
	posts     PostStore
	settings  SettingsStore
	fetcher   Fetcher
	generator Generator

	now func() time.Time
}

// New constructs the orchestration component.
func New(deps Deps) *Pipeline {
	return &Pipeline{
		articles:  deps.Articles,
		posts:     deps.Posts,
		settings:  deps.Settings,
		fetcher:   deps.Fetcher,
		generator: deps.Generator,
		now:       time.Now,
	}
}

// ProcessArticleURL runs the full pipeline for one URL. Steps are strictly
// sequential; nothing is persisted before the fetch and analysis succeed,
// so a fetch failure leaves no partial state behind.
func (p *Pipeline) ProcessArticleURL(ctx context.Context, url string, userID int64, platforms []string) (*Result, error) {
	existing, err := p.articles.GetByURL(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("dedup check: %w", err)
	}
	if existing != nil {
		return nil, ErrDuplicateArticle
	}

	// Explicit platform list wins; empty-but-present is a caller error.
	if platforms != nil && len(platforms) == 0 {
		return nil, ErrNoPlatforms
	}

	settings, err := p.settings.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load user settings: %w", err)
	}

	brand := ai.BrandInfo{}
	autoSchedule := true
	if settings != nil {
		brand.Name = settings.BrandName
		brand.Tone = settings.BrandTone
		autoSchedule = settings.AutoSchedule

		if platforms == nil && len(settings.PreferredPlatforms) > 0 {
			platforms = settings.PreferredPlatforms
		}
	}

	if len(platforms) == 0 {
		platforms = config.DefaultPlatforms
	}

	logrus.Infof("📥 Загружаю статью: %s", url)
	articleData, err := p.fetcher.FetchArticle(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("ошибка обработки: %w", err)
	}

	logrus.Info("🤖 Анализирую контент...")
	analysis := p.generator.AnalyzeArticle(ctx, articleData.Title, articleData.Content, brand)

	article := &models.Article{
		URL:       url,
		UserID:    userID,
		Title:     articleData.Title,
		Content:   articleData.Content,
		Summary:   analysis.Summary,
		Sentiment: models.ParseSentiment(analysis.Sentiment),
		CreatedAt: p.now().UTC(),
	}
	if err := p.articles.Create(ctx, article); err != nil {
		return nil, fmt.Errorf("persist article: %w", err)
	}

	logrus.Infof("✍️ Генерирую посты для платформ: %v", platforms)
	src := ai.PostSource{
		Title:     articleData.Title,
		Summary:   analysis.Summary,
		Sentiment: analysis.Sentiment,
		KeyPoints: analysis.KeyPoints,
	}
	drafts := p.generator.GeneratePosts(ctx, src, platforms, brand)

	saved := make(map[string]PostResult, len(platforms))
	for _, platform := range platforms {
		draft := drafts[platform]

		post := models.NewPost(article.ID, platform, draft.Content, draft.Hashtags)

		var reason string
		if autoSchedule {
			logrus.Infof("📅 Автоматически планирую расписание для %s...", platform)
			schedule := p.generator.SuggestSchedule(ctx, []string{platform}, analysis.Sentiment)

			suggestion := schedule[platform]
			scheduledAt := ResolveTimeSlot(suggestion.TimeSlot, p.now())
			reason = suggestion.Reason

			post.ScheduledTime = &scheduledAt
			post.Status = models.StatusScheduled
		} else {
			logrus.Infof("📝 Автопланирование выключено, время публикации не установлено")
		}

		if err := p.posts.Create(ctx, post); err != nil {
			return nil, fmt.Errorf("persist post for %s: %w", platform, err)
		}

		saved[platform] = PostResult{
			PostID:        post.ID,
			Content:       post.Content,
			Hashtags:      post.Hashtags,
			ScheduledAt:   post.ScheduledTime,
			ScheduleInfo:  reason,
			AutoScheduled: autoSchedule,
		}
	}

	return &Result{
		ArticleID:      article.ID,
		Title:          article.Title,
		Summary:        analysis.Summary,
		Sentiment:      article.Sentiment,
		RelevanceScore: analysis.RelevanceScore,
		Posts:          saved,
		TotalPosts:     len(saved),
	}, nil
}

// QuickPreview fetches the page without analysis or persistence.
func (p *Pipeline) QuickPreview(ctx context.Context, url string) (*Preview, error) {
	articleData, err := p.fetcher.FetchArticle(ctx, url)
	if err != nil {
		return nil, err
	}

	preview := articleData.Content
	if runes := []rune(preview); len(runes) > 500 {
		preview = string(runes[:500]) + "..."
	}

	return &Preview{
		Title:          articleData.Title,
		ContentPreview: preview,
		Domain:         articleData.Domain,
	}, nil
}
