package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newsmakerhq/newsmaker-bot/internal/ai"
	"github.com/newsmakerhq/newsmaker-bot/internal/fetch"
	"github.com/newsmakerhq/newsmaker-bot/internal/models"
)

type fakeArticleStore struct {
	existing map[string]*models.Article
	created  []*models.Article
}

func (f *fakeArticleStore) Create(ctx context.Context, article *models.Article) error {
	article.ID = "article-1"
	f.created = append(f.created, article)
	return nil
}

func (f *fakeArticleStore) GetByURL(ctx context.Context, url string) (*models.Article, error) {
	return f.existing[url], nil
}

type fakePostStore struct {
	created []*models.Post
	err     error
}

func (f *fakePostStore) Create(ctx context.Context, post *models.Post) error {
	if f.err != nil {
		return f.err
	}
	post.ID = "post-" + post.Platform
	f.created = append(f.created, post)
	return nil
}

type fakeSettingsStore struct {
	settings *models.UserSettings
}

func (f *fakeSettingsStore) GetByUserID(ctx context.Context, userID int64) (*models.UserSettings, error) {
	return f.settings, nil
}

type fakeGenerator struct {
	analysis ai.Analysis
}

func (f *fakeGenerator) AnalyzeArticle(ctx context.Context, title, content string, brand ai.BrandInfo) ai.Analysis {
	return f.analysis
}

func (f *fakeGenerator) GeneratePosts(ctx context.Context, src ai.PostSource, platforms []string, brand ai.BrandInfo) map[string]ai.PostDraft {
	posts := make(map[string]ai.PostDraft, len(platforms))
	for _, p := range platforms {
		posts[p] = ai.PostDraft{Content: "пост для " + p, Hashtags: "#тест"}
	}
	return posts
}

func (f *fakeGenerator) SuggestSchedule(ctx context.Context, platforms []string, sentiment string) map[string]ai.ScheduleSuggestion {
	schedule := make(map[string]ai.ScheduleSuggestion, len(platforms))
	for i, p := range platforms {
		schedule[p] = ai.ScheduleSuggestion{TimeSlot: "сегодня 15:00", Priority: i + 1, Reason: "тестовый слот"}
	}
	return schedule
}

type fakeFetcher struct {
	article *fetch.Article
	err     error
}

func (f *fakeFetcher) FetchArticle(ctx context.Context, url string) (*fetch.Article, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.article, nil
}

func newTestPipeline(articles *fakeArticleStore, posts *fakePostStore, settings *fakeSettingsStore, fetcher *fakeFetcher) *Pipeline {
	p := New(Deps{
		Articles:  articles,
		Posts:     posts,
		Settings:  settings,
		Fetcher:   fetcher,
		Generator: &fakeGenerator{analysis: ai.Analysis{Summary: "кратко", Sentiment: "positive", RelevanceScore: 7}},
	})
	p.now = func() time.Time {
		return time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	}
	return p
}

func defaultFetcher() *fakeFetcher {
	return &fakeFetcher{article: &fetch.Article{
		Title:   "Важная новость",
		Content: "Подробности важной новости",
		URL:     "https://example.com/news",
		Domain:  "example.com",
	}}
}

func TestProcessArticleURLDuplicateRejectedBeforeFetch(t *testing.T) {
	articles := &fakeArticleStore{existing: map[string]*models.Article{
		"https://example.com/news": {ID: "existing"},
	}}
	posts := &fakePostStore{}
	fetcher := &fakeFetcher{err: errors.New("fetch must not be called")}

	p := newTestPipeline(articles, posts, &fakeSettingsStore{}, fetcher)

	result, err := p.ProcessArticleURL(context.Background(), "https://example.com/news", 1, nil)

	assert.ErrorIs(t, err, ErrDuplicateArticle)
	assert.Nil(t, result)
	assert.Empty(t, articles.created)
	assert.Empty(t, posts.created)
}

func TestProcessArticleURLEmptyPlatformListRejected(t *testing.T) {
	p := newTestPipeline(&fakeArticleStore{}, &fakePostStore{}, &fakeSettingsStore{}, defaultFetcher())

	result, err := p.ProcessArticleURL(context.Background(), "https://example.com/news", 1, []string{})

	assert.ErrorIs(t, err, ErrNoPlatforms)
	assert.Nil(t, result)
}

func TestProcessArticleURLAutoSchedules(t *testing.T) {
	articles := &fakeArticleStore{}
	posts := &fakePostStore{}
	settings := &fakeSettingsStore{settings: &models.UserSettings{
		UserID:             1,
		AutoSchedule:       true,
		PreferredPlatforms: []string{"telegram", "vk"},
	}}

	p := newTestPipeline(articles, posts, settings, defaultFetcher())

	result, err := p.ProcessArticleURL(context.Background(), "https://example.com/news", 1, nil)
	require.NoError(t, err)

	assert.Equal(t, "Важная новость", result.Title)
	assert.Equal(t, models.SentimentPositive, result.Sentiment)
	assert.Equal(t, 2, result.TotalPosts)
	require.Len(t, posts.created, 2)

	expected := time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)
	for _, post := range posts.created {
		assert.Equal(t, models.StatusScheduled, post.Status)
		require.NotNil(t, post.ScheduledTime)
		assert.Equal(t, expected, *post.ScheduledTime)
		assert.Nil(t, post.PublishedTime)
	}

	assert.Equal(t, "тестовый слот", result.Posts["telegram"].ScheduleInfo)
	assert.True(t, result.Posts["telegram"].AutoScheduled)
}

func TestProcessArticleURLDraftsWhenAutoScheduleOff(t *testing.T) {
	posts := &fakePostStore{}
	settings := &fakeSettingsStore{settings: &models.UserSettings{
		UserID:             1,
		AutoSchedule:       false,
		PreferredPlatforms: []string{"telegram"},
	}}

	p := newTestPipeline(&fakeArticleStore{}, posts, settings, defaultFetcher())

	result, err := p.ProcessArticleURL(context.Background(), "https://example.com/news", 1, nil)
	require.NoError(t, err)

	require.Len(t, posts.created, 1)
	assert.Equal(t, models.StatusDraft, posts.created[0].Status)
	assert.Nil(t, posts.created[0].ScheduledTime)
	assert.False(t, result.Posts["telegram"].AutoScheduled)
}

func TestProcessArticleURLExplicitPlatformsWinOverSettings(t *testing.T) {
	posts := &fakePostStore{}
	settings := &fakeSettingsStore{settings: &models.UserSettings{
		UserID:             1,
		AutoSchedule:       true,
		PreferredPlatforms: []string{"linkedin", "press"},
	}}

	p := newTestPipeline(&fakeArticleStore{}, posts, settings, defaultFetcher())

	result, err := p.ProcessArticleURL(context.Background(), "https://example.com/news", 1, []string{"twitter"})
	require.NoError(t, err)

	require.Len(t, posts.created, 1)
	assert.Equal(t, "twitter", posts.created[0].Platform)
	assert.Contains(t, result.Posts, "twitter")
}

func TestProcessArticleURLDefaultPlatformsWithoutSettings(t *testing.T) {
	posts := &fakePostStore{}

	p := newTestPipeline(&fakeArticleStore{}, posts, &fakeSettingsStore{}, defaultFetcher())

	result, err := p.ProcessArticleURL(context.Background(), "https://example.com/news", 1, nil)
	require.NoError(t, err)

	assert.Equal(t, 3, result.TotalPosts)
	assert.Contains(t, result.Posts, "telegram")
	assert.Contains(t, result.Posts, "vk")
	assert.Contains(t, result.Posts, "linkedin")
}

func TestProcessArticleURLFetchFailureLeavesNoState(t *testing.T) {
	articles := &fakeArticleStore{}
	posts := &fakePostStore{}
	fetcher := &fakeFetcher{err: errors.New("HTTP 404 Not Found")}

	p := newTestPipeline(articles, posts, &fakeSettingsStore{}, fetcher)

	result, err := p.ProcessArticleURL(context.Background(), "https://example.com/missing", 1, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "ошибка обработки")
	assert.Nil(t, result)
	assert.Empty(t, articles.created)
	assert.Empty(t, posts.created)
}

func TestQuickPreviewTruncatesContent(t *testing.T) {
	long := strings.Repeat("д", 700)
	fetcher := &fakeFetcher{article: &fetch.Article{
		Title:   "Заголовок",
		Content: long,
		Domain:  "example.com",
	}}

	p := newTestPipeline(&fakeArticleStore{}, &fakePostStore{}, &fakeSettingsStore{}, fetcher)

	preview, err := p.QuickPreview(context.Background(), "https://example.com/news")
	require.NoError(t, err)

	assert.Equal(t, "Заголовок", preview.Title)
	assert.Equal(t, 503, len([]rune(preview.ContentPreview)))
	assert.True(t, strings.HasSuffix(preview.ContentPreview, "..."))
}
