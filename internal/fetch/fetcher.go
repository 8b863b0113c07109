package fetch

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const minContentLength = 200

// Article is the raw material extracted from one page.
type Article struct {
	Title   string
	Content string
	URL     string
	Domain  string
}

// Fetcher downloads a news page and extracts its title and body text.
type Fetcher struct {
	client *http.Client
}

// NewFetcher wires an HTTP client; a 30s-timeout default is used when nil.
func NewFetcher(client *http.Client) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Fetcher{client: client}
}

var (
	handleParenExpr = regexp.MustCompile(`\(@\w+\)`)
	handleExpr      = regexp.MustCompile(`@\w+`)
	blogSuffixExpr  = regexp.MustCompile(`(?i)\s*[—–-]\s*(Блог на|на)\s+[\w\.]+\s*$`)
	siteSuffixExpr  = regexp.MustCompile(`(?i)\s*[|\-–—]\s*(Новости|Статьи|Блог|Blog|News).*$`)
	spacesExpr      = regexp.MustCompile(`\s+`)
	emptyParenExpr  = regexp.MustCompile(`\(\s*\)`)
)

var contentSelectors = []string{
	"article",
	`[itemprop="articleBody"]`,
	".article-content",
	".post-content",
	".entry-content",
	"main",
}

// FetchArticle downloads the page and extracts {title, content, url, domain}.
// Any transport or HTTP failure is returned as an error with the status
// embedded; extraction itself is best-effort and never fails.
func (f *Fetcher) FetchArticle(ctx context.Context, pageURL string) (*Article, error) {
	doc, err := f.fetchDocument(ctx, pageURL)
	if err != nil {
		return nil, fmt.Errorf("ошибка при загрузке статьи: %w", err)
	}

	domain := ""
	if parsed, err := url.Parse(pageURL); err == nil {
		domain = parsed.Host
	}

	return &Article{
		Title:   extractTitle(doc),
		Content: extractContent(doc),
		URL:     pageURL,
		Domain:  domain,
	}, nil
}

// CheckURL reports whether the URL answers a HEAD request with 200.
func (f *Fetcher) CheckURL(ctx context.Context, pageURL string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, pageURL, nil)
	if err != nil {
		return false
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK
}

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

func (f *Fetcher) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	return doc, nil
}

// extractTitle tries og:title, then <title>, then the first <h1>.
func extractTitle(doc *goquery.Document) string {
	title := ""

	if og, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok && og != "" {
		title = og
	}

	if title == "" {
		title = doc.Find("title").First().Text()
	}

	if title == "" {
		title = strings.TrimSpace(doc.Find("h1").First().Text())
	}

	return cleanTitle(title)
}

// cleanTitle strips social handles and "| Blog/News" site suffixes.
func cleanTitle(title string) string {
	if title == "" {
		return "Без заголовка"
	}

	title = handleParenExpr.ReplaceAllString(title, "")
	title = handleExpr.ReplaceAllString(title, "")
	title = blogSuffixExpr.ReplaceAllString(title, "")
	title = siteSuffixExpr.ReplaceAllString(title, "")
	title = spacesExpr.ReplaceAllString(title, " ")
	title = emptyParenExpr.ReplaceAllString(title, "")
	title = strings.Trim(title, " -–—|")

	if title == "" {
		return "Без заголовка"
	}
	return title
}

// extractContent walks common article containers and joins their paragraph
// text, falling back to every <p> on the page when the containers are thin.
func extractContent(doc *goquery.Document) string {
	doc.Find("script, style, nav, footer, header, aside").Remove()

	content := ""
	for _, selector := range contentSelectors {
		block := doc.Find(selector).First()
		if block.Length() == 0 {
			continue
		}

		content = joinParagraphs(block.Find("p, h2, h3, li"))
		if len(content) > minContentLength {
			break
		}
	}

	if len(content) < minContentLength {
		content = joinParagraphs(doc.Find("p"))
	}

	if content == "" {
		return "Не удалось извлечь контент"
	}
	return content
}

func joinParagraphs(sel *goquery.Selection) string {
	var parts []string
	sel.Each(func(_ int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		if text != "" {
			parts = append(parts, text)
		}
	})
	return strings.Join(parts, "\n\n")
}
