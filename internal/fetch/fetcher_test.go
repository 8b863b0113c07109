package fetch

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanTitle(t *testing.T) {
	tests := []struct {
		name     string
		title    string
		expected string
	}{
		{
			name:     "plain title untouched",
			title:    "Компания запустила новый продукт",
			expected: "Компания запустила новый продукт",
		},
		{
			name:     "social handle in parens removed",
			title:    "Новый релиз (@company_news)",
			expected: "Новый релиз",
		},
		{
			name:     "bare handle removed",
			title:    "Анонс от @vasya: что нового",
			expected: "Анонс от : что нового",
		},
		{
			name:     "blog suffix removed",
			title:    "Итоги года — Блог на vc.ru",
			expected: "Итоги года",
		},
		{
			name:     "site section suffix removed",
			title:    "Крупная сделка | Новости рынка",
			expected: "Крупная сделка",
		},
		{
			name:     "collapses whitespace",
			title:    "Заголовок   с   пробелами",
			expected: "Заголовок с пробелами",
		},
		{
			name:     "empty title gets placeholder",
			title:    "",
			expected: "Без заголовка",
		},
		{
			name:     "title reduced to nothing gets placeholder",
			title:    "(@handle)",
			expected: "Без заголовка",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, cleanTitle(tt.title))
		})
	}
}

const articlePage = `<!DOCTYPE html>
<html>
<head>
	<title>Большая новость | Новости</title>
	<meta property="og:title" content="Большая новость">
</head>
<body>
	<header>Шапка сайта</header>
	<nav>Меню</nav>
	<article>
		<p>Первый абзац статьи с подробностями произошедшего события и его контекстом для читателя.</p>
		<h2>Подзаголовок</h2>
		<p>Второй абзац статьи, который добавляет деталей и цитат от участников события, чтобы материал был полным.</p>
		<li>Ключевой пункт</li>
	</article>
	<footer>Подвал</footer>
	<script>console.log("tracker")</script>
</body>
</html>`

func TestFetchArticleExtractsTitleAndContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, articlePage)
	}))
	defer server.Close()

	f := NewFetcher(server.Client())

	article, err := f.FetchArticle(context.Background(), server.URL+"/news/1")
	require.NoError(t, err)

	assert.Equal(t, "Большая новость", article.Title)
	assert.Contains(t, article.Content, "Первый абзац")
	assert.Contains(t, article.Content, "Подзаголовок")
	assert.Contains(t, article.Content, "Ключевой пункт")
	assert.NotContains(t, article.Content, "Шапка сайта")
	assert.NotContains(t, article.Content, "tracker")
	assert.Equal(t, server.URL+"/news/1", article.URL)
}

func TestFetchArticleHTTPErrorWrapped(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	f := NewFetcher(server.Client())

	article, err := f.FetchArticle(context.Background(), server.URL)
	require.Error(t, err)
	assert.Nil(t, article)
	assert.Contains(t, err.Error(), "ошибка при загрузке статьи")
	assert.Contains(t, err.Error(), "HTTP 404")
}

func TestFetchArticleTitleFallsBackToH1(t *testing.T) {
	page := `<html><body><h1>Заголовок из H1</h1>
	<p>Достаточно длинный абзац текста статьи, который превышает минимальный порог извлечения контента и описывает событие в подробностях для всех читателей.</p>
	<p>Еще один содержательный абзац с дополнительными деталями и контекстом произошедшего, чтобы извлечение сработало по основному пути.</p>
	</body></html>`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, page)
	}))
	defer server.Close()

	f := NewFetcher(server.Client())

	article, err := f.FetchArticle(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, "Заголовок из H1", article.Title)
}

func TestFetchArticleEmptyPageGetsPlaceholders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html><body></body></html>")
	}))
	defer server.Close()

	f := NewFetcher(server.Client())

	article, err := f.FetchArticle(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, "Без заголовка", article.Title)
	assert.Equal(t, "Не удалось извлечь контент", article.Content)
}

func TestCheckURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/ok" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	f := NewFetcher(server.Client())

	assert.True(t, f.CheckURL(context.Background(), server.URL+"/ok"))
	assert.False(t, f.CheckURL(context.Background(), server.URL+"/missing"))
}
